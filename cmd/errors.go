package main

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/inkpost/inkpost/internal/core"
	"github.com/mdobak/go-xerrors"
)

type AppError struct {
	ErrorStack   error
	ErrorMessage string
	ErrorDetails map[string][]string
}

func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, appError *AppError) {
	app.errorResponse(w, r, http.StatusBadRequest, appError)
}

func (app *application) failedValidationResponse(w http.ResponseWriter, r *http.Request, details map[string][]string) {
	app.errorResponse(w, r, http.StatusUnprocessableEntity, &AppError{ErrorDetails: details})
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusNotFound, &AppError{
		ErrorMessage: "The requested resource could not be found.",
	})
}

func (app *application) authenticationRequiredResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusUnauthorized, &AppError{
		ErrorMessage: "You must be authenticated to access this resource.",
	})
}

func (app *application) forbiddenResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusForbidden, &AppError{
		ErrorMessage: "You are not allowed to perform this action.",
	})
}

func (app *application) internalErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	attrs := []slog.Attr{
		slog.String("request_url", r.URL.String()),
		slog.String("request_method", r.Method),
		slog.String("stack", xerrors.Sprint(err)),
	}
	app.logger.LogAttrs(r.Context(), slog.LevelError, "Error in handling request", attrs...)

	app.errorResponse(w, r, http.StatusInternalServerError, &AppError{
		ErrorMessage: "An internal server error occurred.",
	})
}

// respondCoreError translates the service layer's error kinds into HTTP
// responses. Expected, user-facing kinds are not logged as server errors;
// anything unrecognized is.
func (app *application) respondCoreError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *core.ValidationError

	switch {
	case errors.As(err, &validationErr):
		app.failedValidationResponse(w, r, validationErr.Fields)
	case errors.Is(err, core.NoRecordFound):
		app.notFoundResponse(w, r)
	case errors.Is(err, core.ErrForbidden):
		app.forbiddenResponse(w, r)
	case errors.Is(err, core.ErrAuthenticationRequired):
		app.authenticationRequiredResponse(w, r)
	default:
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) errorResponse(w http.ResponseWriter, r *http.Request, status int, appError *AppError) {
	errorBody := envelope{
		"errorMessage": appError.ErrorMessage,
		"errorDetails": appError.ErrorDetails,
	}

	if err := app.writeJSON(w, status, errorBody, nil); err != nil {
		app.logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
	}
}
