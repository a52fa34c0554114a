package main

import (
	"net/http"
	"strings"

	"github.com/inkpost/inkpost/internal/core"
	"github.com/inkpost/inkpost/internal/filter"
	"github.com/inkpost/inkpost/internal/validator"
	"github.com/julienschmidt/httprouter"
)

func (app *application) createArticle(w http.ResponseWriter, r *http.Request) {
	type createArticlePayload struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Body        string   `json:"body"`
		TagList     []string `json:"tagList"`
	}

	type CreateArticleRequest struct {
		createArticlePayload `json:"article"`
	}

	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.authenticationRequiredResponse(w, r)
		return
	}

	var createArticleRequest CreateArticleRequest
	if err := app.readJSON(w, r, &createArticleRequest); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	v := validator.New()
	checkArticleFields(v,
		createArticleRequest.Title,
		createArticleRequest.Description,
		createArticleRequest.Body,
		createArticleRequest.TagList,
	)

	if !v.IsValid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	article, err := app.core.CreateArticle(r.Context(),
		user,
		createArticleRequest.Title,
		createArticleRequest.Description,
		createArticleRequest.Body,
		createArticleRequest.TagList,
	)
	if err != nil {
		app.respondCoreError(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusCreated, envelope{"article": article}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

// getArticleOrFeed disambiguates GET /api/articles/:slug. "feed" is a
// reserved slug, so a request for it is always the feed listing.
func (app *application) getArticleOrFeed(w http.ResponseWriter, r *http.Request) {
	slug := httprouter.ParamsFromContext(r.Context()).ByName("slug")
	if slug == "feed" {
		app.requireAuthenticatedUser(app.getFeed)(w, r)
		return
	}

	app.getArticle(w, r)
}

func (app *application) getArticle(w http.ResponseWriter, r *http.Request) {
	slug := httprouter.ParamsFromContext(r.Context()).ByName("slug")
	viewer := app.optionalViewer(r)

	article, err := app.core.GetArticleBySlug(r.Context(), slug, viewer)
	if err != nil {
		app.respondCoreError(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"article": article}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) listArticles(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	viewer := app.optionalViewer(r)

	f := filter.ResolveOffsetLimit(
		readString(qs, "offset", ""),
		readString(qs, "limit", ""),
		filter.DefaultLimit,
		filter.MaxLimit,
	)

	articles, metadata, err := app.core.FindArticles(r.Context(),
		viewer,
		readString(qs, "tag", ""),
		readString(qs, "author", ""),
		readString(qs, "favorited", ""),
		f,
	)
	if err != nil {
		app.respondCoreError(w, r, err)
		return
	}

	body := envelope{"articles": articles, "articlesCount": metadata.TotalCount}
	if err := app.writeJSON(w, http.StatusOK, body, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) getFeed(w http.ResponseWriter, r *http.Request) {
	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.authenticationRequiredResponse(w, r)
		return
	}

	qs := r.URL.Query()
	f := filter.ResolveOffsetLimit(
		readString(qs, "offset", ""),
		readString(qs, "limit", ""),
		filter.DefaultLimit,
		filter.MaxLimit,
	)

	articles, metadata, err := app.core.Feed(r.Context(), user, f)
	if err != nil {
		app.respondCoreError(w, r, err)
		return
	}

	body := envelope{"articles": articles, "articlesCount": metadata.TotalCount}
	if err := app.writeJSON(w, http.StatusOK, body, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) updateArticle(w http.ResponseWriter, r *http.Request) {
	type updateArticlePayload struct {
		Title       *string  `json:"title"`
		Description *string  `json:"description"`
		Body        *string  `json:"body"`
		TagList     []string `json:"tagList"`
	}

	type UpdateArticleRequest struct {
		updateArticlePayload `json:"article"`
	}

	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.authenticationRequiredResponse(w, r)
		return
	}

	var updateArticleRequest UpdateArticleRequest
	if err := app.readJSON(w, r, &updateArticleRequest); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	slug := httprouter.ParamsFromContext(r.Context()).ByName("slug")
	current, err := app.core.GetArticleBySlug(r.Context(), slug, user)
	if err != nil {
		app.respondCoreError(w, r, err)
		return
	}

	// Existence first, ownership second.
	if err := core.RequireAuthor(current.AuthorID, user.ID); err != nil {
		app.respondCoreError(w, r, err)
		return
	}

	title := current.Title
	if updateArticleRequest.Title != nil {
		title = *updateArticleRequest.Title
	}
	description := current.Description
	if updateArticleRequest.Description != nil {
		description = *updateArticleRequest.Description
	}
	articleBody := current.Body
	if updateArticleRequest.Body != nil {
		articleBody = *updateArticleRequest.Body
	}
	tags := current.TagList
	if updateArticleRequest.TagList != nil {
		tags = updateArticleRequest.TagList
	}

	v := validator.New()
	checkArticleFields(v, title, description, articleBody, tags)
	if !v.IsValid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	article, err := app.core.UpdateArticle(r.Context(), current, user, title, description, articleBody, tags)
	if err != nil {
		app.respondCoreError(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"article": article}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) deleteArticle(w http.ResponseWriter, r *http.Request) {
	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.authenticationRequiredResponse(w, r)
		return
	}

	slug := httprouter.ParamsFromContext(r.Context()).ByName("slug")
	article, err := app.core.GetArticleBySlug(r.Context(), slug, user)
	if err != nil {
		app.respondCoreError(w, r, err)
		return
	}

	if err := core.RequireAuthor(article.AuthorID, user.ID); err != nil {
		app.respondCoreError(w, r, err)
		return
	}

	if err := app.core.DeleteArticle(r.Context(), article.ID); err != nil {
		app.respondCoreError(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) favoriteArticle(w http.ResponseWriter, r *http.Request) {
	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.authenticationRequiredResponse(w, r)
		return
	}

	slug := httprouter.ParamsFromContext(r.Context()).ByName("slug")
	article, err := app.core.GetArticleBySlug(r.Context(), slug, user)
	if err != nil {
		app.respondCoreError(w, r, err)
		return
	}

	favorited, err := app.core.FavoriteArticle(r.Context(), article.ID, user)
	if err != nil {
		app.respondCoreError(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"article": favorited}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) unfavoriteArticle(w http.ResponseWriter, r *http.Request) {
	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.authenticationRequiredResponse(w, r)
		return
	}

	slug := httprouter.ParamsFromContext(r.Context()).ByName("slug")
	article, err := app.core.GetArticleBySlug(r.Context(), slug, user)
	if err != nil {
		app.respondCoreError(w, r, err)
		return
	}

	unfavorited, err := app.core.UnfavoriteArticle(r.Context(), article.ID, user)
	if err != nil {
		app.respondCoreError(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"article": unfavorited}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func checkArticleFields(v *validator.Validator, title, description, body string, tags []string) {
	v.CheckNotBlank(title, "title", "must be provided")
	v.CheckMaxLength(title, "title", 255, "must not be longer than 255 characters")

	v.CheckNotBlank(description, "description", "must be provided")
	v.CheckMaxLength(description, "description", 1024, "must not be longer than 1024 characters")

	v.CheckNotBlank(body, "body", "must be provided")
	v.CheckMaxLength(body, "body", 10000, "must not be longer than 10000 characters")

	v.Check(len(tags) <= 64, "tagList", "must not contain more than 64 tags")
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			continue
		}
		v.CheckMaxLength(tag, "tagList", 255, "tags must not be longer than 255 characters")
	}
}
