package core

import (
	"errors"
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name     string
		title    string
		expected string
	}{
		{"simple title", "Hello World", "hello-world"},
		{"already a slug", "hello-world", "hello-world"},
		{"diacritics stripped", "Café au lait", "cafe-au-lait"},
		{"punctuation removed", "Hello, World!", "hello-world"},
		{"underscores become hyphens", "snake_case_title", "snake-case-title"},
		{"runs collapse", "a   b -- c", "a-b-c"},
		{"leading and trailing trimmed", "  -hello-  ", "hello"},
		{"mixed case", "UPPER Case", "upper-case"},
		{"digits kept", "Top 10 Things", "top-10-things"},
		{"only symbols", "!!!", ""},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := slugify(c.title); got != c.expected {
				t.Errorf("slugify(%q) = %q, want %q", c.title, got, c.expected)
			}
		})
	}
}

func TestUniqueSlugNoCollision(t *testing.T) {
	slug, err := uniqueSlug("Hello World", countFixture(t, "hello-world", 0))
	if err != nil {
		t.Fatal(err)
	}
	if slug != "hello-world" {
		t.Errorf("got %q, want %q", slug, "hello-world")
	}
}

func TestUniqueSlugCollisionGetsCountSuffix(t *testing.T) {
	slug, err := uniqueSlug("Hello World", countFixture(t, "hello-world", 1))
	if err != nil {
		t.Fatal(err)
	}
	if slug != "hello-world-2" {
		t.Errorf("got %q, want %q", slug, "hello-world-2")
	}

	slug, err = uniqueSlug("Hello World", countFixture(t, "hello-world", 3))
	if err != nil {
		t.Fatal(err)
	}
	if slug != "hello-world-4" {
		t.Errorf("got %q, want %q", slug, "hello-world-4")
	}
}

func TestUniqueSlugBlankTitleGetsOpaqueSlug(t *testing.T) {
	var asked string
	slug, err := uniqueSlug("???", func(slugBody string) (int64, error) {
		asked = slugBody
		return 0, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if slug == "" {
		t.Fatal("expected a non-empty slug for a title that normalizes to nothing")
	}
	if slug != asked {
		t.Errorf("counted %q but returned %q", asked, slug)
	}

	other, err := uniqueSlug("???", countFixtureAny(0))
	if err != nil {
		t.Fatal(err)
	}
	if other == slug {
		t.Errorf("two blank titles produced the same slug %q", slug)
	}
}

func TestUniqueSlugFeedIsReserved(t *testing.T) {
	slug, err := uniqueSlug("Feed", countFixture(t, "feed1", 0))
	if err != nil {
		t.Fatal(err)
	}
	if slug == "feed" {
		t.Fatal("the literal slug \"feed\" must never be produced")
	}
	if slug != "feed1" {
		t.Errorf("got %q, want %q", slug, "feed1")
	}
}

func TestUniqueSlugPropagatesCountError(t *testing.T) {
	boom := errors.New("boom")
	_, err := uniqueSlug("Hello", func(string) (int64, error) {
		return 0, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("got %v, want the count error", err)
	}
}

func countFixture(t *testing.T, expectedBody string, count int64) func(string) (int64, error) {
	t.Helper()
	return func(slugBody string) (int64, error) {
		if !strings.EqualFold(slugBody, expectedBody) {
			t.Errorf("counted slug body %q, want %q", slugBody, expectedBody)
		}
		return count, nil
	}
}

func countFixtureAny(count int64) func(string) (int64, error) {
	return func(string) (int64, error) {
		return count, nil
	}
}
