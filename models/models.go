package models

import "time"

// Profile is a user as seen by a particular viewer. It is never stored:
// the Following flag only has a meaning relative to whoever is asking.
type Profile struct {
	ID        int64   `json:"-"`
	Username  string  `json:"username"`
	Bio       *string `json:"bio"`
	Image     *string `json:"image"`
	Following bool    `json:"following"`
}

type Article struct {
	ID             int64     `json:"-"`
	Slug           string    `json:"slug"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Body           string    `json:"body"`
	TagList        []string  `json:"tagList"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	Favorited      bool      `json:"favorited"`
	FavoritesCount int64     `json:"favoritesCount"`
	AuthorID       int64     `json:"-"`
	Author         Profile   `json:"author"`
}

type Comment struct {
	ID        int64     `json:"id"`
	ArticleID int64     `json:"-"`
	AuthorID  int64     `json:"-"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Author    Profile   `json:"author"`
}

type Tag struct {
	Name      string
	ArticleID int64
}
