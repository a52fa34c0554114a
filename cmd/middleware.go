package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/inkpost/inkpost/internal/core"
)

// authenticate optimistically attaches the requesting user to the request
// context. A missing, malformed or expired token never fails the request
// here; the route decides later whether authentication is required.
func (app *application) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Authorization")

		authorization := r.Header.Get("Authorization")
		if authorization != "" {
			authorizationParts := strings.Split(authorization, " ")
			if len(authorizationParts) != 2 || (authorizationParts[0] != "Token" && authorizationParts[0] != "Bearer") {
				// Not a bearer token at all: treat it like no credentials.
				next.ServeHTTP(w, r)
				return
			}

			r = app.auth.MarkTokenSeen(r)

			token := authorizationParts[1]
			claims, ok := app.auth.Codec.Decode(token)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			user, err := app.core.GetUserByUsername(r.Context(), claims.Username)
			if err != nil {
				if errors.Is(err, core.NoRecordFound) {
					next.ServeHTTP(w, r)
					return
				}
				app.internalErrorResponse(w, r, err)
				return
			}
			user.Token = token
			r = app.auth.SetAuthenticatedUser(r, user)
		}

		next.ServeHTTP(w, r)
	})
}

// requireAuthenticatedUser guards routes that need a valid user. A request
// that carried a token which did not resolve to a user is rejected as
// forbidden; a request that carried no token at all still gets the chance
// to authenticate.
func (app *application) requireAuthenticatedUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !app.auth.IsUserAuthenticated(r) {
			if app.auth.TokenSeen(r) {
				app.forbiddenResponse(w, r)
				return
			}
			app.authenticationRequiredResponse(w, r)
			return
		}
		next(w, r)
	}
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.internalErrorResponse(w, r, fmt.Errorf("%s", err))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
