package stringutils

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestINClause(t *testing.T) {
	placeholders, args := INClause([]int64{7, 8, 9}, 1)
	if placeholders != "$1, $2, $3" {
		t.Errorf("placeholders = %q", placeholders)
	}
	if diff := cmp.Diff([]any{int64(7), int64(8), int64(9)}, args); diff != "" {
		t.Error(diff)
	}
}

func TestINClauseStartsAtGivenIndex(t *testing.T) {
	placeholders, args := INClause([]string{"a", "b"}, 3)
	if placeholders != "$3, $4" {
		t.Errorf("placeholders = %q", placeholders)
	}
	if len(args) != 2 {
		t.Errorf("args = %v", args)
	}
}

func TestINClauseEmptyList(t *testing.T) {
	placeholders, args := INClause([]int64{}, 1)
	if placeholders != "" {
		t.Errorf("placeholders = %q, want empty", placeholders)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}
