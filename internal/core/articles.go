package core

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/filter"
	"github.com/inkpost/inkpost/internal/utils/collectionutils"
	"github.com/inkpost/inkpost/internal/utils/databaseutils"
	"github.com/inkpost/inkpost/internal/utils/stringutils"
	"github.com/inkpost/inkpost/models"
	"github.com/lib/pq"
	"github.com/mdobak/go-xerrors"
)

func scanArticleRow(rows *sql.Rows) (articleRow, error) {
	var row articleRow
	if err := rows.Scan(
		&row.ID,
		&row.Slug,
		&row.Title,
		&row.Description,
		&row.Body,
		&row.AuthorID,
		&row.CreatedAt,
		&row.UpdatedAt,
	); err != nil {
		return articleRow{}, xerrors.New(err)
	}
	return row, nil
}

func (c *Core) getArticleRowBySlug(ctx context.Context, slug string) (articleRow, error) {
	const query = `
		SELECT id, slug, title, description, body, author_id, created_at, updated_at
		FROM articles
		WHERE slug = $1
	`

	row, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanArticleRow, slug)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return articleRow{}, xerrors.New(NoRecordFound)
		default:
			return articleRow{}, xerrors.New(err)
		}
	}

	return row, nil
}

// getArticleRowsByIDs fetches base rows for an id list and reorders them to
// match the input sequence exactly, so a caller-supplied ordering (for
// example from a prior filtered query) survives composition.
func (c *Core) getArticleRowsByIDs(ctx context.Context, ids []int64) ([]articleRow, error) {
	if len(ids) == 0 {
		return []articleRow{}, nil
	}

	placeholders, args := stringutils.INClause(ids, 1)
	query := fmt.Sprintf(`
		SELECT id, slug, title, description, body, author_id, created_at, updated_at
		FROM articles
		WHERE id IN (%s)
	`, placeholders)

	fetched, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, scanArticleRow, args...)
	if err != nil {
		return nil, xerrors.New(err)
	}

	rowByID := collectionutils.Associate(fetched, func(row articleRow) (int64, articleRow) {
		return row.ID, row
	})

	rows := make([]articleRow, 0, len(ids))
	for _, id := range ids {
		if row, ok := rowByID[id]; ok {
			rows = append(rows, row)
		}
	}

	return rows, nil
}

func (c *Core) GetArticleBySlug(ctx context.Context, slug string, viewer *auth.User) (*models.Article, error) {
	row, err := c.getArticleRowBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	return c.composeSingleArticle(ctx, row, viewer)
}

func (c *Core) GetArticleByID(ctx context.Context, id int64, viewer *auth.User) (*models.Article, error) {
	rows, err := c.getArticleRowsByIDs(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, xerrors.New(NoRecordFound)
	}

	return c.composeSingleArticle(ctx, rows[0], viewer)
}

func (c *Core) composeSingleArticle(ctx context.Context, row articleRow, viewer *auth.User) (*models.Article, error) {
	relations, err := c.loadArticleRelations(ctx, []articleRow{row}, viewer)
	if err != nil {
		return nil, err
	}

	articles := c.composeArticles([]articleRow{row}, relations, viewer)
	if len(articles) == 0 {
		return nil, xerrors.New(NoRecordFound)
	}

	return articles[0], nil
}

// GetArticlesByIDs composes full article views for an id list, preserving
// the id order.
func (c *Core) GetArticlesByIDs(ctx context.Context, ids []int64, viewer *auth.User) ([]*models.Article, error) {
	rows, err := c.getArticleRowsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	relations, err := c.loadArticleRelations(ctx, rows, viewer)
	if err != nil {
		return nil, err
	}

	return c.composeArticles(rows, relations, viewer), nil
}

func normalizeTags(tags []string) []string {
	trimmed := make([]string, 0, len(tags))
	for _, tag := range tags {
		if t := strings.TrimSpace(tag); t != "" {
			trimmed = append(trimmed, t)
		}
	}
	deduped := collectionutils.Dedup(trimmed)
	sort.Strings(deduped)
	return deduped
}

// CreateArticle persists a new article and its tag set in one transaction.
// Slug assignment is check-then-insert: a concurrent create of the same
// title can slip a duplicate past the count, so a unique violation on the
// slug gets one retry with a freshly generated slug before giving up.
func (c *Core) CreateArticle(ctx context.Context, author *auth.User, title, description, body string, tags []string) (*models.Article, error) {
	tags = normalizeTags(tags)

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		slug, err := c.UniqueSlug(ctx, title)
		if err != nil {
			return nil, err
		}

		articleID, err := c.insertArticleWithTags(ctx, author.ID, slug, title, description, body, tags)
		if err == nil {
			return c.GetArticleByID(ctx, articleID, author)
		}
		if !errors.Is(err, ErrDuplicatedSlug) {
			return nil, err
		}
		lastErr = err
	}

	return nil, xerrors.Newf("slug collision persisted after retry: %w", lastErr)
}

func (c *Core) insertArticleWithTags(ctx context.Context, authorID int64, slug, title, description, body string, tags []string) (int64, error) {
	return databaseutils.DoTransactionally(ctx, c.session, func(txCtx context.Context) (int64, error) {
		const query = `
			INSERT INTO articles (slug, title, description, body, author_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`

		articleID, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, txCtx, query, func(rows *sql.Rows) (int64, error) {
			var id int64
			if err := rows.Scan(&id); err != nil {
				return 0, xerrors.New(err)
			}
			return id, nil
		}, slug, title, description, body, authorID)

		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation && pqErr.Constraint == "articles_slug_idx" {
				return 0, xerrors.New(ErrDuplicatedSlug)
			}
			return 0, xerrors.New(err)
		}

		if err := c.insertTags(txCtx, articleID, tags); err != nil {
			return 0, err
		}

		return articleID, nil
	})
}

// UpdateArticle rewrites the article's mutable fields and replaces its tag
// set atomically. The slug is regenerated only when the title actually
// changed; otherwise it is immutable.
func (c *Core) UpdateArticle(ctx context.Context, current *models.Article, actor *auth.User, title, description, body string, tags []string) (*models.Article, error) {
	tags = normalizeTags(tags)

	slug := current.Slug
	if current.Title != title {
		newSlug, err := c.UniqueSlug(ctx, title)
		if err != nil {
			return nil, err
		}
		slug = newSlug
	}

	err := c.session.DoTransactionally(ctx, func(txCtx context.Context) error {
		const updateQuery = `
			UPDATE articles
			SET slug = $1, title = $2, description = $3, body = $4, updated_at = clock_timestamp()
			WHERE id = $5
		`

		if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, txCtx, updateQuery, slug, title, description, body, current.ID); err != nil {
			return xerrors.New(err)
		}

		const deleteTagsQuery = `
			DELETE FROM tags
			WHERE article_id = $1
		`

		if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, txCtx, deleteTagsQuery, current.ID); err != nil {
			return xerrors.New(err)
		}

		return c.insertTags(txCtx, current.ID, tags)
	})

	if err != nil {
		return nil, err
	}

	return c.GetArticleByID(ctx, current.ID, actor)
}

// DeleteArticle removes an article and everything hanging off it in a
// single transaction: favorites, tags, comments, then the article row.
func (c *Core) DeleteArticle(ctx context.Context, articleID int64) error {
	return c.session.DoTransactionally(ctx, func(txCtx context.Context) error {
		cascades := []string{
			`DELETE FROM favorites WHERE article_id = $1`,
			`DELETE FROM tags WHERE article_id = $1`,
			`DELETE FROM comments WHERE article_id = $1`,
			`DELETE FROM articles WHERE id = $1`,
		}

		for _, query := range cascades {
			if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, txCtx, query, articleID); err != nil {
				return xerrors.New(err)
			}
		}

		return nil
	})
}

// FavoriteArticle is idempotent: favoriting twice leaves a single edge.
func (c *Core) FavoriteArticle(ctx context.Context, articleID int64, user *auth.User) (*models.Article, error) {
	const query = `
		INSERT INTO favorites (user_id, article_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, article_id) DO NOTHING
	`

	if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, ctx, query, user.ID, articleID); err != nil {
		return nil, xerrors.New(err)
	}

	return c.GetArticleByID(ctx, articleID, user)
}

// UnfavoriteArticle tolerates a missing edge.
func (c *Core) UnfavoriteArticle(ctx context.Context, articleID int64, user *auth.User) (*models.Article, error) {
	const query = `
		DELETE FROM favorites
		WHERE user_id = $1 AND article_id = $2
	`

	if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, ctx, query, user.ID, articleID); err != nil {
		return nil, xerrors.New(err)
	}

	return c.GetArticleByID(ctx, articleID, user)
}

type idAndTotal struct {
	id    int64
	total int64
}

func scanIDAndTotal(rows *sql.Rows) (idAndTotal, error) {
	var it idAndTotal
	if err := rows.Scan(&it.id, &it.total); err != nil {
		return idAndTotal{}, xerrors.New(err)
	}
	return it, nil
}

// FindArticles lists articles matching the optional tag/author/favoriter
// filters, newest first. The ids are selected (with the total count) in one
// query, then composed through the batched relation lookups in id order.
func (c *Core) FindArticles(ctx context.Context, viewer *auth.User, tagFilter, authorFilter, favoritedFilter string, f filter.Filter) ([]*models.Article, filter.Metadata, error) {
	var sb strings.Builder
	var args []any

	sb.WriteString(` FROM articles `)

	if tagFilter != "" {
		args = append(args, tagFilter)
		fmt.Fprintf(&sb, `
			INNER JOIN tags
			ON tags.article_id = articles.id
			AND tags.tag = $%d
		`, len(args))
	}

	if favoritedFilter != "" {
		args = append(args, favoritedFilter)
		fmt.Fprintf(&sb, `
			INNER JOIN favorites
			ON favorites.article_id = articles.id
			AND favorites.user_id = (
				SELECT id FROM users WHERE LOWER(username) = LOWER($%d)
			)
		`, len(args))
	}

	sb.WriteString(` WHERE 1=1 `)

	if authorFilter != "" {
		args = append(args, authorFilter)
		fmt.Fprintf(&sb, `
			AND articles.author_id = (
				SELECT id FROM users WHERE LOWER(username) = LOWER($%d)
			)
		`, len(args))
	}

	// The count query shares the joins, filters and argument numbering of
	// the page query; only the pagination window differs.
	fromWhere := sb.String()
	countQuery := `SELECT COUNT(*)` + fromWhere
	countArgs := append([]any(nil), args...)

	sb.WriteString(` ORDER BY articles.created_at DESC `)
	args = append(args, f.Limit)
	fmt.Fprintf(&sb, ` LIMIT $%d `, len(args))
	args = append(args, f.Offset)
	fmt.Fprintf(&sb, ` OFFSET $%d `, len(args))

	pageQuery := `SELECT articles.id, COUNT(*) OVER() AS total` + sb.String()

	return c.listArticlePage(ctx, pageQuery, args, countQuery, countArgs, viewer)
}

// Feed lists articles by authors the viewer follows, newest first. It is
// the one listing that cannot be answered anonymously.
func (c *Core) Feed(ctx context.Context, viewer *auth.User, f filter.Filter) ([]*models.Article, filter.Metadata, error) {
	if viewer == nil {
		return nil, filter.Metadata{}, xerrors.New(ErrAuthenticationRequired)
	}

	const pageQuery = `
		SELECT articles.id, COUNT(*) OVER() AS total
		FROM articles
		INNER JOIN followings
		ON followings.source_user_id = $1
		AND followings.target_user_id = articles.author_id
		ORDER BY articles.created_at DESC
		LIMIT $2 OFFSET $3
	`

	const countQuery = `
		SELECT COUNT(*)
		FROM articles
		INNER JOIN followings
		ON followings.source_user_id = $1
		AND followings.target_user_id = articles.author_id
	`

	return c.listArticlePage(ctx, pageQuery, []any{viewer.ID, f.Limit, f.Offset}, countQuery, []any{viewer.ID}, viewer)
}

func (c *Core) listArticlePage(ctx context.Context, pageQuery string, pageArgs []any, countQuery string, countArgs []any, viewer *auth.User) ([]*models.Article, filter.Metadata, error) {
	idsAndTotals, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, pageQuery, scanIDAndTotal, pageArgs...)
	if err != nil {
		return nil, filter.Metadata{}, xerrors.New(err)
	}

	total, err := pageTotal(idsAndTotals, func() (int64, error) {
		return c.countArticles(ctx, countQuery, countArgs)
	})
	if err != nil {
		return nil, filter.Metadata{}, err
	}

	if len(idsAndTotals) == 0 {
		return []*models.Article{}, filter.Metadata{TotalCount: total}, nil
	}

	ids := make([]int64, len(idsAndTotals))
	for i, it := range idsAndTotals {
		ids[i] = it.id
	}

	articles, err := c.GetArticlesByIDs(ctx, ids, viewer)
	if err != nil {
		return nil, filter.Metadata{}, err
	}

	return articles, filter.Metadata{TotalCount: total}, nil
}

// pageTotal reads the windowed total off the page rows. An empty page does
// not mean an empty result set: an offset past the end has no rows to carry
// the window count, so the total comes from counting without the window.
func pageTotal(page []idAndTotal, countAll func() (int64, error)) (int64, error) {
	if len(page) > 0 {
		return page[0].total, nil
	}

	return countAll()
}

func (c *Core) countArticles(ctx context.Context, query string, args []any) (int64, error) {
	count, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, func(rows *sql.Rows) (int64, error) {
		var n int64
		if err := rows.Scan(&n); err != nil {
			return 0, xerrors.New(err)
		}
		return n, nil
	}, args...)

	if err != nil {
		return 0, xerrors.New(err)
	}

	return count, nil
}
