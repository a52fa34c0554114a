package stringutils

import (
	"fmt"
	"strings"
)

// INClause builds the placeholder list and argument slice for a Postgres
// `IN (...)` clause. Placeholders start at $startIndex so the clause can
// follow other positional arguments in the same query.
func INClause[T any](list []T, startIndex int) (string, []any) {
	placeholders := make([]string, len(list))
	args := make([]any, len(list))
	for i, item := range list {
		placeholders[i] = fmt.Sprintf("$%d", startIndex+i)
		args[i] = item
	}

	return strings.Join(placeholders, ", "), args
}
