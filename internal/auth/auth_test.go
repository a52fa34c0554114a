package auth

import (
	"net/http"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	codec := NewTokenCodec("test-secret", time.Hour)

	user := &User{ID: 1, Username: "alice", Email: "alice@example.com"}
	token, err := codec.Issue(user)
	if err != nil {
		t.Fatal(err)
	}
	if token == "" {
		t.Fatal("issued an empty token")
	}

	claims, ok := codec.Decode(token)
	if !ok {
		t.Fatal("a freshly issued token must decode")
	}
	if claims.Username != "alice" {
		t.Errorf("username = %q, want alice", claims.Username)
	}
}

func TestDecodeRejectsExpiredToken(t *testing.T) {
	codec := NewTokenCodec("test-secret", time.Hour)

	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	codec.now = func() time.Time { return issuedAt }

	token, err := codec.Issue(&User{Username: "alice"})
	if err != nil {
		t.Fatal(err)
	}

	codec.now = func() time.Time { return issuedAt.Add(30 * time.Minute) }
	if _, ok := codec.Decode(token); !ok {
		t.Error("token rejected before its expiry")
	}

	codec.now = func() time.Time { return issuedAt.Add(2 * time.Hour) }
	if _, ok := codec.Decode(token); ok {
		t.Error("token accepted after its expiry")
	}
}

func TestDecodeRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenCodec("secret-one", time.Hour)
	verifier := NewTokenCodec("secret-two", time.Hour)

	token, err := issuer.Issue(&User{Username: "alice"})
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := verifier.Decode(token); ok {
		t.Error("token signed with a different secret was accepted")
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	codec := NewTokenCodec("test-secret", time.Hour)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, ok := codec.Decode(token); ok {
			t.Errorf("garbage token %q was accepted", token)
		}
	}
}

func TestPasswordHashAndMatch(t *testing.T) {
	user := &User{}
	if err := user.SetPassword("correct horse"); err != nil {
		t.Fatal(err)
	}
	if len(user.Password) == 0 {
		t.Fatal("password hash not stored")
	}
	if string(user.Password) == "correct horse" {
		t.Fatal("password stored in plain text")
	}

	match, err := user.IsPasswordMatch("correct horse")
	if err != nil {
		t.Fatal(err)
	}
	if !match {
		t.Error("correct password did not match")
	}

	match, err = user.IsPasswordMatch("battery staple")
	if err != nil {
		t.Fatal(err)
	}
	if match {
		t.Error("wrong password matched")
	}
}

func TestAuthenticatedUserContext(t *testing.T) {
	a := NewAuth(NewTokenCodec("test-secret", time.Hour))

	r, err := http.NewRequest(http.MethodGet, "/api/user", nil)
	if err != nil {
		t.Fatal(err)
	}

	if a.IsUserAuthenticated(r) {
		t.Error("fresh request reports an authenticated user")
	}
	if a.TokenSeen(r) {
		t.Error("fresh request reports a seen token")
	}

	r = a.MarkTokenSeen(r)
	if !a.TokenSeen(r) {
		t.Error("marked request does not report a seen token")
	}

	user := &User{ID: 1, Username: "alice"}
	r = a.SetAuthenticatedUser(r, user)

	got, err := a.GetAuthenticatedUser(r)
	if err != nil {
		t.Fatal(err)
	}
	if got.Username != "alice" {
		t.Errorf("username = %q, want alice", got.Username)
	}
	if !a.IsUserAuthenticated(r) {
		t.Error("request with an attached user reports unauthenticated")
	}
}
