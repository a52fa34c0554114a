package main

import (
	"net/http"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/validator"
)

func checkEmail(v *validator.Validator, email string) {
	v.CheckNotBlank(email, "email", "must be provided")
	v.CheckEmail(email, "must be a valid email address")
}

func checkUsername(v *validator.Validator, username string) {
	v.CheckNotBlank(username, "username", "must be provided")
	v.CheckLengthBetween(username, "username", 3, 255, "must be between 3 and 255 characters long")
	v.CheckNoSpecialCharacters(username, "username", "must not contain spaces, quotes or angle brackets")
}

func checkPassword(v *validator.Validator, password string) {
	v.CheckNotBlank(password, "password", "must be provided")
	v.CheckLengthBetween(password, "password", 6, 255, "must be between 6 and 255 characters long")
}

// optionalViewer returns the authenticated user if stage-one authentication
// attached one, or nil for an anonymous request.
func (app *application) optionalViewer(r *http.Request) *auth.User {
	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		return nil
	}
	return user
}
