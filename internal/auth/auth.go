package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/inkpost/inkpost/internal/web"
	"github.com/mdobak/go-xerrors"
	"golang.org/x/crypto/bcrypt"
)

const (
	userCtxKey      = "authenticated_user"
	tokenSeenCtxKey = "auth_token_seen"
)

var NotAuthenticatedUser = xerrors.Message("Not authenticated user")

func (user *User) SetPassword(plainTextPassword string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), 12)
	if err != nil {
		return xerrors.New(err)
	}

	user.Password = hashedPassword
	return nil
}

func (user *User) IsPasswordMatch(plainTextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(user.Password, []byte(plainTextPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, xerrors.New(err)
	}

	return true, nil
}

// TokenCodec turns users into signed bearer tokens and back. It is a pure
// function of (secret, claims, clock): no server-side session state exists.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	return &TokenCodec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (codec *TokenCodec) Issue(user *User) (string, error) {
	now := codec.now()
	claims := UserClaims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(codec.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedString, err := token.SignedString(codec.secret)
	if err != nil {
		return "", xerrors.New(err)
	}

	return signedString, nil
}

// Decode verifies the signature and expiry of a token and returns its claims.
// It is deliberately reason-free: a malformed, forged or expired token all
// come back as ok=false so callers cannot leak why authentication failed.
func (codec *TokenCodec) Decode(tokenString string) (*UserClaims, bool) {
	if tokenString == "" {
		return nil, false
	}

	parsedToken, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, xerrors.New("unexpected signing method")
		}
		return codec.secret, nil
	}, jwt.WithTimeFunc(codec.now))

	if err != nil || !parsedToken.Valid {
		return nil, false
	}

	claims, ok := parsedToken.Claims.(*UserClaims)
	if !ok || claims.Username == "" {
		return nil, false
	}

	return claims, true
}

// Auth carries the request-scoped identity in and out of the request context.
type Auth struct {
	Codec *TokenCodec
}

func NewAuth(codec *TokenCodec) *Auth {
	return &Auth{Codec: codec}
}

func (auth *Auth) SetAuthenticatedUser(r *http.Request, user *User) *http.Request {
	return web.AddValueToContext(r, userCtxKey, user)
}

func (auth *Auth) GetAuthenticatedUser(r *http.Request) (*User, error) {
	user, ok := web.GetValueFromContext[*User](r, userCtxKey)
	if !ok {
		return nil, NotAuthenticatedUser
	}

	return user, nil
}

func (auth *Auth) IsUserAuthenticated(r *http.Request) bool {
	_, err := auth.GetAuthenticatedUser(r)
	return err == nil
}

// MarkTokenSeen records that the request carried a bearer token at all,
// whether or not it decoded. The protective middleware uses this to tell
// "no credentials" apart from "bad credentials".
func (auth *Auth) MarkTokenSeen(r *http.Request) *http.Request {
	return web.AddValueToContext(r, tokenSeenCtxKey, true)
}

func (auth *Auth) TokenSeen(r *http.Request) bool {
	seen, ok := web.GetValueFromContext[bool](r, tokenSeenCtxKey)
	return ok && seen
}
