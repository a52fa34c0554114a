package core

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/models"
)

func testCore() *Core {
	return &Core{log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func composeFixtureRows() []articleRow {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []articleRow{
		{ID: 3, Slug: "third", Title: "Third", AuthorID: 10, CreatedAt: now, UpdatedAt: now},
		{ID: 1, Slug: "first", Title: "First", AuthorID: 20, CreatedAt: now, UpdatedAt: now},
		{ID: 2, Slug: "second", Title: "Second", AuthorID: 10, CreatedAt: now, UpdatedAt: now},
	}
}

func composeFixtureRelations() articleRelations {
	return articleRelations{
		authors: map[int64]models.Profile{
			10: {ID: 10, Username: "alice"},
			20: {ID: 20, Username: "bob", Following: true},
		},
		tags: map[int64][]string{
			3: {"go", "sql"},
			1: {},
			2: {"go"},
		},
		favorited: map[int64]bool{3: true, 1: false, 2: false},
		counts:    map[int64]int64{3: 7, 1: 0, 2: 1},
	}
}

func TestComposeArticlesPreservesRowOrder(t *testing.T) {
	c := testCore()
	viewer := &auth.User{ID: 99, Username: "carol"}

	articles := c.composeArticles(composeFixtureRows(), composeFixtureRelations(), viewer)

	gotSlugs := make([]string, 0, len(articles))
	for _, a := range articles {
		gotSlugs = append(gotSlugs, a.Slug)
	}

	wantSlugs := []string{"third", "first", "second"}
	if diff := cmp.Diff(wantSlugs, gotSlugs); diff != "" {
		t.Error(diff)
	}
}

func TestComposeArticlesFillsRelations(t *testing.T) {
	c := testCore()
	viewer := &auth.User{ID: 99, Username: "carol"}

	articles := c.composeArticles(composeFixtureRows(), composeFixtureRelations(), viewer)
	if len(articles) != 3 {
		t.Fatalf("got %d articles, want 3", len(articles))
	}

	third := articles[0]
	if third.Author.Username != "alice" {
		t.Errorf("author = %q, want alice", third.Author.Username)
	}
	if !third.Favorited {
		t.Error("expected the viewer-favorited article to report favorited")
	}
	if third.FavoritesCount != 7 {
		t.Errorf("favoritesCount = %d, want 7", third.FavoritesCount)
	}
	if diff := cmp.Diff([]string{"go", "sql"}, third.TagList); diff != "" {
		t.Error(diff)
	}
}

func TestComposeArticlesAnonymousViewerNeverFavorited(t *testing.T) {
	c := testCore()

	relations := composeFixtureRelations()
	relations.favorited = map[int64]bool{}

	articles := c.composeArticles(composeFixtureRows(), relations, nil)
	for _, a := range articles {
		if a.Favorited {
			t.Errorf("article %q reports favorited for an anonymous viewer", a.Slug)
		}
		if a.Author.Username == "" {
			t.Errorf("article %q has no author profile", a.Slug)
		}
	}
}

func TestComposeArticlesDropsRowsWithUnresolvableAuthor(t *testing.T) {
	c := testCore()

	relations := composeFixtureRelations()
	delete(relations.authors, 20)

	articles := c.composeArticles(composeFixtureRows(), relations, nil)

	gotSlugs := make([]string, 0, len(articles))
	for _, a := range articles {
		gotSlugs = append(gotSlugs, a.Slug)
	}

	wantSlugs := []string{"third", "second"}
	if diff := cmp.Diff(wantSlugs, gotSlugs); diff != "" {
		t.Error(diff)
	}
}

func TestComposeCommentsDropsOrphans(t *testing.T) {
	c := testCore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	comments := []*models.Comment{
		{ID: 1, Body: "first", AuthorID: 10, CreatedAt: now, UpdatedAt: now},
		{ID: 2, Body: "orphan", AuthorID: 55, CreatedAt: now, UpdatedAt: now},
		{ID: 3, Body: "third", AuthorID: 10, CreatedAt: now, UpdatedAt: now},
	}
	authors := map[int64]models.Profile{
		10: {ID: 10, Username: "alice"},
	}

	composed := c.composeComments(comments, authors)
	if len(composed) != 2 {
		t.Fatalf("got %d comments, want 2", len(composed))
	}
	for _, comment := range composed {
		if comment.Author.Username != "alice" {
			t.Errorf("comment %d author = %q, want alice", comment.ID, comment.Author.Username)
		}
	}
}
