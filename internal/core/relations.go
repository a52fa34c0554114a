package core

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/utils/collectionutils"
	"github.com/inkpost/inkpost/internal/utils/databaseutils"
	"github.com/inkpost/inkpost/internal/utils/stringutils"
	"github.com/inkpost/inkpost/models"
	"github.com/mdobak/go-xerrors"
)

// Batched relation lookups. Each resolver answers for a whole id set with a
// single query per relation kind, and (except for profiles, where a missing
// user is a real anomaly) returns a map that is total over the requested
// ids: absent data shows up as false/0/empty, never as a missing key.

// FollowingByUserIDs reports, for each target id, whether sourceUserID
// follows them.
func (c *Core) FollowingByUserIDs(ctx context.Context, sourceUserID int64, targetUserIDs []int64) (map[int64]bool, error) {
	if len(targetUserIDs) == 0 {
		return map[int64]bool{}, nil
	}

	placeholders, args := stringutils.INClause(targetUserIDs, 2)
	query := fmt.Sprintf(`
		SELECT target_user_id
		FROM followings
		WHERE source_user_id = $1
		AND target_user_id IN (%s)
	`, placeholders)

	followedIDs, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, func(rows *sql.Rows) (int64, error) {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return 0, xerrors.New(err)
		}
		return id, nil
	}, append([]any{sourceUserID}, args...)...)

	if err != nil {
		return nil, xerrors.New(err)
	}

	followed := collectionutils.Associate(followedIDs, func(id int64) (int64, bool) {
		return id, true
	})

	return collectionutils.Totalize(followed, targetUserIDs, false), nil
}

// ProfilesByUserIDs resolves user ids into viewer-relative profiles. With a
// nil viewer every profile has Following=false and the followings query is
// skipped entirely. Ids with no user row are absent from the result.
func (c *Core) ProfilesByUserIDs(ctx context.Context, userIDs []int64, viewer *auth.User) (map[int64]models.Profile, error) {
	userIDs = collectionutils.Dedup(userIDs)
	users, err := c.GetUsersByIDList(ctx, userIDs)
	if err != nil {
		return nil, xerrors.New(err)
	}

	following := map[int64]bool{}
	if viewer != nil {
		following, err = c.FollowingByUserIDs(ctx, viewer.ID, userIDs)
		if err != nil {
			return nil, xerrors.New(err)
		}
	}

	profiles := make(map[int64]models.Profile, len(users))
	for _, user := range users {
		profiles[user.ID] = models.Profile{
			ID:        user.ID,
			Username:  user.Username,
			Bio:       user.Bio,
			Image:     user.Image,
			Following: following[user.ID],
		}
	}

	return profiles, nil
}

// TagsByArticleIDs resolves article ids into their sorted tag sets.
func (c *Core) TagsByArticleIDs(ctx context.Context, articleIDs []int64) (map[int64][]string, error) {
	if len(articleIDs) == 0 {
		return map[int64][]string{}, nil
	}

	placeholders, args := stringutils.INClause(articleIDs, 1)
	query := fmt.Sprintf(`
		SELECT article_id, tag
		FROM tags
		WHERE article_id IN (%s)
	`, placeholders)

	tagRows, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, func(rows *sql.Rows) (models.Tag, error) {
		var tag models.Tag
		if err := rows.Scan(&tag.ArticleID, &tag.Name); err != nil {
			return models.Tag{}, xerrors.New(err)
		}
		return tag, nil
	}, args...)

	if err != nil {
		return nil, xerrors.New(err)
	}

	tagSets := make(map[int64][]string)
	for articleID, tags := range collectionutils.GroupBy(tagRows, func(t models.Tag) int64 { return t.ArticleID }) {
		names := make([]string, len(tags))
		for i, tag := range tags {
			names[i] = tag.Name
		}
		sort.Strings(names)
		tagSets[articleID] = names
	}

	return collectionutils.Totalize(tagSets, articleIDs, []string{}), nil
}

// FavoritesCountByArticleIDs resolves article ids into favorite counts.
func (c *Core) FavoritesCountByArticleIDs(ctx context.Context, articleIDs []int64) (map[int64]int64, error) {
	if len(articleIDs) == 0 {
		return map[int64]int64{}, nil
	}

	placeholders, args := stringutils.INClause(articleIDs, 1)
	query := fmt.Sprintf(`
		SELECT article_id, COUNT(*)
		FROM favorites
		WHERE article_id IN (%s)
		GROUP BY article_id
	`, placeholders)

	type articleCount struct {
		articleID int64
		count     int64
	}

	counts, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, func(rows *sql.Rows) (articleCount, error) {
		var ac articleCount
		if err := rows.Scan(&ac.articleID, &ac.count); err != nil {
			return articleCount{}, xerrors.New(err)
		}
		return ac, nil
	}, args...)

	if err != nil {
		return nil, xerrors.New(err)
	}

	countByID := collectionutils.Associate(counts, func(ac articleCount) (int64, int64) {
		return ac.articleID, ac.count
	})

	return collectionutils.Totalize(countByID, articleIDs, 0), nil
}

// FavoritedByArticleIDs reports, for each article id, whether userID has
// favorited it. Callers skip this entirely for anonymous viewers.
func (c *Core) FavoritedByArticleIDs(ctx context.Context, articleIDs []int64, userID int64) (map[int64]bool, error) {
	if len(articleIDs) == 0 {
		return map[int64]bool{}, nil
	}

	placeholders, args := stringutils.INClause(articleIDs, 2)
	query := fmt.Sprintf(`
		SELECT article_id
		FROM favorites
		WHERE user_id = $1
		AND article_id IN (%s)
	`, placeholders)

	favoritedIDs, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, func(rows *sql.Rows) (int64, error) {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return 0, xerrors.New(err)
		}
		return id, nil
	}, append([]any{userID}, args...)...)

	if err != nil {
		return nil, xerrors.New(err)
	}

	favorited := collectionutils.Associate(favoritedIDs, func(id int64) (int64, bool) {
		return id, true
	})

	return collectionutils.Totalize(favorited, articleIDs, false), nil
}
