package core

import (
	"context"
	"time"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/utils/collectionutils"
	"github.com/inkpost/inkpost/internal/utils/functional"
	"github.com/inkpost/inkpost/models"
	"github.com/mdobak/go-xerrors"
)

// articleRow is the raw articles row before relation composition.
type articleRow struct {
	ID          int64
	Slug        string
	Title       string
	Description string
	Body        string
	AuthorID    int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// articleRelations holds every batched fact needed to turn base rows into
// full article views. Except for authors, the maps are total over the row
// ids, so composition never needs existence checks on them.
type articleRelations struct {
	authors   map[int64]models.Profile
	tags      map[int64][]string
	favorited map[int64]bool
	counts    map[int64]int64
}

// loadArticleRelations issues one query per relation kind for the whole row
// set. The is-favorited lookup is skipped for anonymous viewers.
func (c *Core) loadArticleRelations(ctx context.Context, rows []articleRow, viewer *auth.User) (articleRelations, error) {
	articleIDs := functional.Map(rows, func(row articleRow) int64 { return row.ID })
	authorIDs := functional.Map(rows, func(row articleRow) int64 { return row.AuthorID })

	authors, err := c.ProfilesByUserIDs(ctx, authorIDs, viewer)
	if err != nil {
		return articleRelations{}, xerrors.New(err)
	}

	tags, err := c.TagsByArticleIDs(ctx, articleIDs)
	if err != nil {
		return articleRelations{}, xerrors.New(err)
	}

	counts, err := c.FavoritesCountByArticleIDs(ctx, articleIDs)
	if err != nil {
		return articleRelations{}, xerrors.New(err)
	}

	favorited := map[int64]bool{}
	if viewer != nil {
		favorited, err = c.FavoritedByArticleIDs(ctx, articleIDs, viewer.ID)
		if err != nil {
			return articleRelations{}, xerrors.New(err)
		}
	}

	return articleRelations{
		authors:   authors,
		tags:      tags,
		favorited: favorited,
		counts:    counts,
	}, nil
}

// composeArticles assembles full article views from base rows and their
// resolved relations, preserving the order of rows exactly. A row whose
// author profile cannot be resolved is a data-integrity anomaly: it is
// logged and dropped, never surfaced as an error. Anonymous viewers always
// see Favorited=false.
func (c *Core) composeArticles(rows []articleRow, relations articleRelations, viewer *auth.User) []*models.Article {
	articles := make([]*models.Article, 0, len(rows))
	for _, row := range rows {
		author, ok := relations.authors[row.AuthorID]
		if !ok {
			c.log.Warn("dropping article with unresolvable author", "article_id", row.ID, "author_id", row.AuthorID)
			continue
		}

		favorited := false
		if viewer != nil {
			favorited = relations.favorited[row.ID]
		}

		articles = append(articles, &models.Article{
			ID:             row.ID,
			Slug:           row.Slug,
			Title:          row.Title,
			Description:    row.Description,
			Body:           row.Body,
			TagList:        collectionutils.GetOrDefault(relations.tags, row.ID, []string{}),
			CreatedAt:      row.CreatedAt,
			UpdatedAt:      row.UpdatedAt,
			Favorited:      favorited,
			FavoritesCount: relations.counts[row.ID],
			AuthorID:       row.AuthorID,
			Author:         author,
		})
	}

	return articles
}

// composeComments follows the same shape as composeArticles: author profiles
// resolved in one pass for the whole set, anomalous rows dropped and logged.
func (c *Core) composeComments(comments []*models.Comment, authors map[int64]models.Profile) []*models.Comment {
	composed := make([]*models.Comment, 0, len(comments))
	for _, comment := range comments {
		author, ok := authors[comment.AuthorID]
		if !ok {
			c.log.Warn("dropping comment with unresolvable author", "comment_id", comment.ID, "author_id", comment.AuthorID)
			continue
		}

		comment.Author = author
		composed = append(composed, comment)
	}

	return composed
}
