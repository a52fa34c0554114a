package core

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/inkpost/inkpost/internal/utils/databaseutils"
	"github.com/mdobak/go-xerrors"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Decompose, drop the combining marks, recompose: "Café" becomes "Cafe".
var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// slugify normalizes a title into a slug body: diacritics stripped,
// lowercased, anything outside [a-z0-9-_ ] removed, and runs of spaces and
// underscores collapsed into single hyphens. The result may be empty.
func slugify(title string) string {
	stripped, _, err := transform.String(diacriticStripper, title)
	if err != nil {
		stripped = title
	}

	stripped = strings.ToLower(stripped)

	var b strings.Builder
	for _, r := range stripped {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == ' ', r == '_':
			b.WriteRune('-')
		}
	}

	slug := b.String()
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}

	return strings.Trim(slug, "-")
}

// uniqueSlug derives the final slug for a title. A blank title gets a random
// opaque identifier, the literal "feed" is rewritten so it cannot shadow the
// /api/articles/feed route, and an existing base (or base-<n>) gets a count
// suffix. countExisting runs once per call; the check-then-insert race is
// caught by the storage-level unique constraint and retried by the caller.
func uniqueSlug(title string, countExisting func(slugBody string) (int64, error)) (string, error) {
	slug := slugify(title)
	if slug == "" {
		slug = uuid.New().String()
	}

	if slug == "feed" {
		slug = "feed1"
	}

	nbr, err := countExisting(slug)
	if err != nil {
		return "", err
	}
	if nbr > 0 {
		slug = fmt.Sprintf("%s-%d", slug, nbr+1)
	}

	return slug, nil
}

func (c *Core) UniqueSlug(ctx context.Context, title string) (string, error) {
	return uniqueSlug(title, func(slugBody string) (int64, error) {
		return c.countSlugs(ctx, slugBody)
	})
}

func (c *Core) countSlugs(ctx context.Context, slugBody string) (int64, error) {
	const query = `
		SELECT COUNT(*)
		FROM articles
		WHERE slug = $1
		OR slug ~ ('^' || $1 || '-[0-9]+$')
	`

	nbr, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, func(rows *sql.Rows) (int64, error) {
		var count int64
		if err := rows.Scan(&count); err != nil {
			return 0, xerrors.New(err)
		}
		return count, nil
	}, slugBody)

	if err != nil {
		return 0, xerrors.New(err)
	}

	return nbr, nil
}
