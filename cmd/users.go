package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/core"
	"github.com/inkpost/inkpost/internal/validator"
)

func (app *application) registerUser(w http.ResponseWriter, r *http.Request) {
	type registerUserPayload struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
	}

	type RegisterUserRequest struct {
		registerUserPayload `json:"user"`
	}

	var registerUserRequest RegisterUserRequest

	if err := app.readJSON(w, r, &registerUserRequest); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	email := strings.TrimSpace(registerUserRequest.Email)
	username := strings.TrimSpace(registerUserRequest.Username)

	v := validator.New()
	checkEmail(v, email)
	checkUsername(v, username)
	checkPassword(v, registerUserRequest.Password)

	if !v.IsValid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	// Report both taken fields together rather than one at a time.
	if taken, err := app.core.IsEmailTaken(r.Context(), email); err != nil {
		app.internalErrorResponse(w, r, err)
		return
	} else if taken {
		v.AddError("email", "is already in use")
	}
	if taken, err := app.core.IsUsernameTaken(r.Context(), username); err != nil {
		app.internalErrorResponse(w, r, err)
		return
	} else if taken {
		v.AddError("username", "is already in use")
	}
	if !v.IsValid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	user := &auth.User{
		Email:    email,
		Username: username,
	}
	if err := user.SetPassword(registerUserRequest.Password); err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.core.CreateUser(r.Context(), user); err != nil {
		// The pre-checks race with concurrent registrations, so the unique
		// indexes remain the source of truth.
		switch {
		case errors.Is(err, core.ErrDuplicateEmail):
			v.AddError("email", "is already in use")
			app.failedValidationResponse(w, r, v.Errors)
		case errors.Is(err, core.ErrDuplicateUsername):
			v.AddError("username", "is already in use")
			app.failedValidationResponse(w, r, v.Errors)
		default:
			app.internalErrorResponse(w, r, err)
		}
		return
	}

	token, err := app.auth.Codec.Issue(user)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusCreated, userResponse(user, token), nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) login(w http.ResponseWriter, r *http.Request) {
	type loginUserPayload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	type LoginUserRequest struct {
		loginUserPayload `json:"user"`
	}

	var loginUserRequest LoginUserRequest

	if err := app.readJSON(w, r, &loginUserRequest); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	v := validator.New()
	v.CheckNotBlank(loginUserRequest.Email, "email", "must be provided")
	v.CheckNotBlank(loginUserRequest.Password, "password", "must be provided")

	if !v.IsValid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	user, err := app.core.GetUserByEmail(r.Context(), loginUserRequest.Email)
	if err != nil {
		switch {
		case errors.Is(err, core.NoRecordFound):
			// Same response as a wrong password: do not reveal which part
			// of the credentials was wrong.
			app.invalidCredentialsResponse(w, r)
		default:
			app.internalErrorResponse(w, r, err)
		}
		return
	}

	match, err := user.IsPasswordMatch(loginUserRequest.Password)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}
	if !match {
		app.invalidCredentialsResponse(w, r)
		return
	}

	token, err := app.auth.Codec.Issue(user)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, userResponse(user, token), nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) getCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.authenticationRequiredResponse(w, r)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, userResponse(user, user.Token), nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) updateUser(w http.ResponseWriter, r *http.Request) {
	type updateUserPayload struct {
		Email    *string `json:"email"`
		Username *string `json:"username"`
		Password *string `json:"password"`
		Bio      *string `json:"bio"`
		Image    *string `json:"image"`
	}

	type UpdateUserRequest struct {
		updateUserPayload `json:"user"`
	}

	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.authenticationRequiredResponse(w, r)
		return
	}

	var updateUserRequest UpdateUserRequest
	if err := app.readJSON(w, r, &updateUserRequest); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	v := validator.New()

	if updateUserRequest.Email != nil {
		email := strings.TrimSpace(*updateUserRequest.Email)
		checkEmail(v, email)
		if v.IsValid() && !strings.EqualFold(email, user.Email) {
			if taken, err := app.core.IsEmailTaken(r.Context(), email); err != nil {
				app.internalErrorResponse(w, r, err)
				return
			} else if taken {
				v.AddError("email", "is already in use")
			}
		}
		user.Email = email
	}

	if updateUserRequest.Username != nil {
		username := strings.TrimSpace(*updateUserRequest.Username)
		checkUsername(v, username)
		if v.IsValid() && !strings.EqualFold(username, user.Username) {
			if taken, err := app.core.IsUsernameTaken(r.Context(), username); err != nil {
				app.internalErrorResponse(w, r, err)
				return
			} else if taken {
				v.AddError("username", "is already in use")
			}
		}
		user.Username = username
	}

	if updateUserRequest.Password != nil {
		checkPassword(v, *updateUserRequest.Password)
		if v.IsValid() {
			if err := user.SetPassword(*updateUserRequest.Password); err != nil {
				app.internalErrorResponse(w, r, err)
				return
			}
		}
	}

	if updateUserRequest.Bio != nil {
		v.CheckMaxLength(*updateUserRequest.Bio, "bio", 10000, "must not be longer than 10000 characters")
		user.Bio = updateUserRequest.Bio
	}

	if updateUserRequest.Image != nil {
		v.CheckHTTPURL(*updateUserRequest.Image, "image", "must be a valid http or https URL")
		v.CheckMaxLength(*updateUserRequest.Image, "image", 2048, "must not be longer than 2048 characters")
		user.Image = updateUserRequest.Image
	}

	if !v.IsValid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	updatedUser, err := app.core.UpdateUser(r.Context(), user)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrDuplicateEmail):
			v.AddError("email", "is already in use")
			app.failedValidationResponse(w, r, v.Errors)
		case errors.Is(err, core.ErrDuplicateUsername):
			v.AddError("username", "is already in use")
			app.failedValidationResponse(w, r, v.Errors)
		default:
			app.respondCoreError(w, r, err)
		}
		return
	}

	if err := app.writeJSON(w, http.StatusOK, userResponse(updatedUser, user.Token), nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) invalidCredentialsResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusUnauthorized, &AppError{
		ErrorMessage: "Invalid credentials",
	})
}

func userResponse(user *auth.User, token string) envelope {
	user.Token = token
	return envelope{"user": user}
}
