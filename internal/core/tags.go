package core

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/inkpost/inkpost/internal/utils/databaseutils"
	"github.com/mdobak/go-xerrors"
)

// insertTags attaches a tag set to an article. For an update, the previous
// tags must already have been deleted in the same transaction. Duplicates
// within the set are suppressed by the (tag, article_id) constraint.
func (c *Core) insertTags(ctx context.Context, articleID int64, tags []string) error {
	if len(tags) == 0 {
		return nil
	}

	valueStrings := make([]string, 0, len(tags))
	valueArgs := make([]any, 0, len(tags)+1)
	valueArgs = append(valueArgs, articleID)

	for _, tag := range tags {
		valueArgs = append(valueArgs, tag)
		valueStrings = append(valueStrings, fmt.Sprintf("($%d, $1)", len(valueArgs)))
	}

	query := fmt.Sprintf(`
		INSERT INTO tags (tag, article_id)
		VALUES %s
		ON CONFLICT (tag, article_id) DO NOTHING
	`, strings.Join(valueStrings, ", "))

	if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, ctx, query, valueArgs...); err != nil {
		return xerrors.New(err)
	}

	return nil
}

// GetTags returns every distinct tag in use, sorted.
func (c *Core) GetTags(ctx context.Context) ([]string, error) {
	const query = `
		SELECT DISTINCT tag
		FROM tags
		ORDER BY tag
	`

	tags, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, func(rows *sql.Rows) (string, error) {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return "", xerrors.New(err)
		}
		return tag, nil
	})

	if err != nil {
		return nil, xerrors.New(err)
	}

	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}
