package core

import (
	"context"
	"database/sql"
	"errors"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/utils/databaseutils"
	"github.com/inkpost/inkpost/internal/utils/functional"
	"github.com/inkpost/inkpost/models"
	"github.com/mdobak/go-xerrors"
)

func scanComment(rows *sql.Rows) (*models.Comment, error) {
	comment := &models.Comment{}
	if err := rows.Scan(
		&comment.ID,
		&comment.AuthorID,
		&comment.ArticleID,
		&comment.Body,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	); err != nil {
		return nil, xerrors.New(err)
	}
	return comment, nil
}

func (c *Core) CreateComment(ctx context.Context, articleID int64, body string, author *auth.User) (*models.Comment, error) {
	const query = `
		INSERT INTO comments (author_id, article_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, author_id, article_id, body, created_at, updated_at
	`

	comment, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanComment, author.ID, articleID, body)
	if err != nil {
		return nil, xerrors.New(err)
	}

	return c.composeSingleComment(ctx, comment, author)
}

func (c *Core) GetComment(ctx context.Context, commentID int64, viewer *auth.User) (*models.Comment, error) {
	const query = `
		SELECT id, author_id, article_id, body, created_at, updated_at
		FROM comments
		WHERE id = $1
	`

	comment, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanComment, commentID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, xerrors.New(NoRecordFound)
		default:
			return nil, xerrors.New(err)
		}
	}

	return c.composeSingleComment(ctx, comment, viewer)
}

// GetComments lists an article's comments newest first, with all author
// profiles resolved in one pass.
func (c *Core) GetComments(ctx context.Context, articleID int64, viewer *auth.User) ([]*models.Comment, error) {
	const query = `
		SELECT id, author_id, article_id, body, created_at, updated_at
		FROM comments
		WHERE article_id = $1
		ORDER BY created_at DESC
	`

	comments, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, scanComment, articleID)
	if err != nil {
		return nil, xerrors.New(err)
	}

	authorIDs := functional.Map(comments, func(comment *models.Comment) int64 { return comment.AuthorID })
	authors, err := c.ProfilesByUserIDs(ctx, authorIDs, viewer)
	if err != nil {
		return nil, err
	}

	return c.composeComments(comments, authors), nil
}

// DeleteComment removes a comment after verifying the actor wrote it.
// A missing comment reports NoRecordFound before any ownership check.
func (c *Core) DeleteComment(ctx context.Context, commentID int64, actor *auth.User) error {
	comment, err := c.GetComment(ctx, commentID, actor)
	if err != nil {
		return err
	}

	if err := RequireAuthor(comment.AuthorID, actor.ID); err != nil {
		return err
	}

	const query = `
		DELETE FROM comments
		WHERE id = $1
	`

	if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, ctx, query, commentID); err != nil {
		return xerrors.New(err)
	}

	return nil
}

func (c *Core) composeSingleComment(ctx context.Context, comment *models.Comment, viewer *auth.User) (*models.Comment, error) {
	authors, err := c.ProfilesByUserIDs(ctx, []int64{comment.AuthorID}, viewer)
	if err != nil {
		return nil, err
	}

	composed := c.composeComments([]*models.Comment{comment}, authors)
	if len(composed) == 0 {
		return nil, xerrors.New(NoRecordFound)
	}

	return composed[0], nil
}
