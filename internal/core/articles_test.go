package core

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/inkpost/inkpost/internal/filter"
)

func TestPageTotalUsesWindowedCount(t *testing.T) {
	page := []idAndTotal{{id: 3, total: 5}, {id: 1, total: 5}}

	total, err := pageTotal(page, func() (int64, error) {
		t.Fatal("a non-empty page must not trigger the fallback count")
		return 0, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
}

func TestPageTotalEmptyPageFallsBackToFullCount(t *testing.T) {
	// An offset past the end returns no rows, but the result set is not
	// empty: the total must still report every matching article.
	total, err := pageTotal(nil, func() (int64, error) {
		return 5, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
}

func TestPageTotalEmptyResultSet(t *testing.T) {
	total, err := pageTotal(nil, func() (int64, error) {
		return 0, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if total != 0 {
		t.Errorf("total = %d, want 0", total)
	}
}

func TestPageTotalPropagatesCountError(t *testing.T) {
	boom := errors.New("boom")
	_, err := pageTotal(nil, func() (int64, error) {
		return 0, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("got %v, want the count error", err)
	}
}

func TestFeedRequiresViewer(t *testing.T) {
	c := testCore()

	_, _, err := c.Feed(context.Background(), nil, filter.Filter{Limit: 20})
	if !errors.Is(err, ErrAuthenticationRequired) {
		t.Errorf("got %v, want ErrAuthenticationRequired", err)
	}
}

func TestNormalizeTags(t *testing.T) {
	got := normalizeTags([]string{" go ", "", "sql", "go", "  "})
	if diff := cmp.Diff([]string{"go", "sql"}, got); diff != "" {
		t.Error(diff)
	}
}
