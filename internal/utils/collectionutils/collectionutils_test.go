package collectionutils

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTotalizeCoversExactlyTheKeySet(t *testing.T) {
	partial := map[int64]int64{1: 5, 3: 7, 99: 11}
	keys := []int64{1, 2, 3}

	total := Totalize(partial, keys, 0)

	want := map[int64]int64{1: 5, 2: 0, 3: 7}
	if diff := cmp.Diff(want, total); diff != "" {
		t.Error(diff)
	}
}

func TestTotalizeWithSliceDefault(t *testing.T) {
	tags := map[int64][]string{2: {"go"}}

	total := Totalize(tags, []int64{1, 2}, []string{})

	if total[1] == nil {
		t.Error("missing key mapped to nil instead of the default")
	}
	if diff := cmp.Diff([]string{"go"}, total[2]); diff != "" {
		t.Error(diff)
	}
}

func TestDedupPreservesOrder(t *testing.T) {
	got := Dedup([]int64{3, 1, 3, 2, 1})
	if diff := cmp.Diff([]int64{3, 1, 2}, got); diff != "" {
		t.Error(diff)
	}
}

func TestGroupBy(t *testing.T) {
	type row struct {
		ArticleID int64
		Tag       string
	}
	rows := []row{
		{1, "go"},
		{2, "sql"},
		{1, "web"},
	}

	grouped := GroupBy(rows, func(r row) int64 { return r.ArticleID })
	if len(grouped) != 2 {
		t.Fatalf("got %d groups, want 2", len(grouped))
	}
	if len(grouped[1]) != 2 || grouped[1][0].Tag != "go" || grouped[1][1].Tag != "web" {
		t.Errorf("group 1 = %v", grouped[1])
	}
}

func TestAssociate(t *testing.T) {
	got := Associate([]string{"a", "bb"}, func(s string) (string, int) {
		return s, len(s)
	})
	want := map[string]int{"a": 1, "bb": 2}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Error(diff)
	}
}
