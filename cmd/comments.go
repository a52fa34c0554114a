package main

import (
	"net/http"
	"strconv"

	"github.com/inkpost/inkpost/internal/validator"
	"github.com/julienschmidt/httprouter"
)

func (app *application) createComment(w http.ResponseWriter, r *http.Request) {
	type createCommentPayload struct {
		Body string `json:"body"`
	}

	type CreateCommentRequest struct {
		createCommentPayload `json:"comment"`
	}

	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.authenticationRequiredResponse(w, r)
		return
	}

	var createCommentRequest CreateCommentRequest
	if err := app.readJSON(w, r, &createCommentRequest); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	v := validator.New()
	v.CheckNotBlank(createCommentRequest.Body, "body", "must be provided")
	v.CheckMaxLength(createCommentRequest.Body, "body", 10000, "must not be longer than 10000 characters")

	if !v.IsValid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	slug := httprouter.ParamsFromContext(r.Context()).ByName("slug")
	article, err := app.core.GetArticleBySlug(r.Context(), slug, user)
	if err != nil {
		app.respondCoreError(w, r, err)
		return
	}

	comment, err := app.core.CreateComment(r.Context(), article.ID, createCommentRequest.Body, user)
	if err != nil {
		app.respondCoreError(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusCreated, envelope{"comment": comment}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) getComments(w http.ResponseWriter, r *http.Request) {
	slug := httprouter.ParamsFromContext(r.Context()).ByName("slug")
	viewer := app.optionalViewer(r)

	article, err := app.core.GetArticleBySlug(r.Context(), slug, viewer)
	if err != nil {
		app.respondCoreError(w, r, err)
		return
	}

	comments, err := app.core.GetComments(r.Context(), article.ID, viewer)
	if err != nil {
		app.respondCoreError(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"comments": comments}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) deleteComment(w http.ResponseWriter, r *http.Request) {
	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.authenticationRequiredResponse(w, r)
		return
	}

	params := httprouter.ParamsFromContext(r.Context())
	commentID, err := strconv.ParseInt(params.ByName("id"), 10, 64)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	if err := app.core.DeleteComment(r.Context(), commentID, user); err != nil {
		app.respondCoreError(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}
