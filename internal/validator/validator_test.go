package validator

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValidatorAccumulatesErrorsPerField(t *testing.T) {
	v := New()
	if !v.IsValid() {
		t.Fatal("a fresh validator must be valid")
	}

	v.CheckNotBlank("", "username", "must be provided")
	v.CheckLengthBetween("", "username", 3, 255, "must be between 3 and 255 characters long")
	v.CheckNotBlank("a@example.com", "email", "must be provided")

	if v.IsValid() {
		t.Fatal("expected validation failures")
	}

	want := map[string][]string{
		"username": {
			"must be provided",
			"must be between 3 and 255 characters long",
		},
	}
	if diff := cmp.Diff(want, v.Errors); diff != "" {
		t.Error(diff)
	}
}

func TestCheckEmail(t *testing.T) {
	valid := []string{"a@example.com", "first.last@sub.example.org", "x+tag@example.io"}
	invalid := []string{"", "nope", "@example.com", "a@", "a b@example.com"}

	for _, email := range valid {
		v := New()
		v.CheckEmail(email, "must be a valid email address")
		if !v.IsValid() {
			t.Errorf("%q flagged as invalid", email)
		}
	}
	for _, email := range invalid {
		v := New()
		v.CheckEmail(email, "must be a valid email address")
		if v.IsValid() {
			t.Errorf("%q accepted as valid", email)
		}
	}
}

func TestCheckLengthBetweenCountsRunes(t *testing.T) {
	v := New()
	v.CheckLengthBetween("héllo", "name", 5, 5, "must be exactly 5 characters")
	if !v.IsValid() {
		t.Error("multibyte string measured by bytes instead of runes")
	}
}

func TestCheckHTTPURL(t *testing.T) {
	valid := []string{"http://example.com/a.png", "https://example.com"}
	invalid := []string{"", "ftp://example.com", "example.com/a.png", "https://"}

	for _, u := range valid {
		v := New()
		v.CheckHTTPURL(u, "image", "must be a valid http or https URL")
		if !v.IsValid() {
			t.Errorf("%q flagged as invalid", u)
		}
	}
	for _, u := range invalid {
		v := New()
		v.CheckHTTPURL(u, "image", "must be a valid http or https URL")
		if v.IsValid() {
			t.Errorf("%q accepted as valid", u)
		}
	}
}

func TestCheckNoSpecialCharacters(t *testing.T) {
	v := New()
	v.CheckNoSpecialCharacters("alice_42", "username", "must not contain special characters")
	if !v.IsValid() {
		t.Error("plain username rejected")
	}

	for _, username := range []string{"al ice", "al<ice", "al'ice", "al\"ice", "al`ice", "al>ice"} {
		v := New()
		v.CheckNoSpecialCharacters(username, "username", "must not contain special characters")
		if v.IsValid() {
			t.Errorf("%q accepted", username)
		}
	}
}
