package core

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/utils/databaseutils"
	"github.com/inkpost/inkpost/internal/utils/stringutils"
	"github.com/lib/pq"
	"github.com/mdobak/go-xerrors"
)

const pqUniqueViolation = "23505"

func scanUser(rows *sql.Rows) (*auth.User, error) {
	user := &auth.User{}
	if err := rows.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.Password,
		&user.Bio,
		&user.Image,
	); err != nil {
		return nil, xerrors.New(err)
	}
	return user, nil
}

func (c *Core) CreateUser(ctx context.Context, user *auth.User) error {
	const query = `
		INSERT INTO users (username, email, password)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	args := []any{user.Username, user.Email, user.Password}
	_, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, func(rows *sql.Rows) (*auth.User, error) {
		if err := rows.Scan(&user.ID); err != nil {
			return nil, xerrors.New(err)
		}
		return user, nil
	}, args...)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			switch pqErr.Constraint {
			case "users_email_lower_idx":
				return xerrors.New(ErrDuplicateEmail)
			case "users_username_lower_idx":
				return xerrors.New(ErrDuplicateUsername)
			}
		}
		return xerrors.New(err)
	}

	c.log.Info("user registered", "user_id", user.ID, "username", user.Username)
	return nil
}

func (c *Core) GetUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	const query = `
		SELECT id, email, username, password, bio, image
		FROM users
		WHERE LOWER(email) = LOWER($1)
	`

	user, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanUser, email)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, xerrors.New(NoRecordFound)
		default:
			return nil, xerrors.New(err)
		}
	}

	return user, nil
}

func (c *Core) GetUserByUsername(ctx context.Context, username string) (*auth.User, error) {
	const query = `
		SELECT id, email, username, password, bio, image
		FROM users
		WHERE LOWER(username) = LOWER($1)
	`

	user, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanUser, username)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, xerrors.New(NoRecordFound)
		default:
			return nil, xerrors.New(err)
		}
	}

	return user, nil
}

// GetUsersByIDList fetches a set of users in one query. Ids without a row
// are simply absent from the result.
func (c *Core) GetUsersByIDList(ctx context.Context, userIDList []int64) ([]*auth.User, error) {
	if len(userIDList) == 0 {
		return []*auth.User{}, nil
	}

	placeholders, args := stringutils.INClause(userIDList, 1)
	query := fmt.Sprintf(`
		SELECT id, email, username, password, bio, image
		FROM users
		WHERE id IN (%s)
	`, placeholders)

	users, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, scanUser, args...)
	if err != nil {
		return nil, xerrors.New(err)
	}

	return users, nil
}

func (c *Core) UpdateUser(ctx context.Context, user *auth.User) (*auth.User, error) {
	const query = `
		UPDATE users
		SET email = $1, username = $2, password = $3, bio = $4, image = $5
		WHERE id = $6
		RETURNING id, email, username, password, bio, image
	`

	args := []any{user.Email, user.Username, user.Password, user.Bio, user.Image, user.ID}
	updatedUser, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanUser, args...)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, xerrors.New(NoRecordFound)
		default:
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
				switch pqErr.Constraint {
				case "users_email_lower_idx":
					return nil, xerrors.New(ErrDuplicateEmail)
				case "users_username_lower_idx":
					return nil, xerrors.New(ErrDuplicateUsername)
				}
			}
			return nil, xerrors.New(err)
		}
	}

	c.log.Info("user updated", "user_id", updatedUser.ID, "username", updatedUser.Username)
	return updatedUser, nil
}

func (c *Core) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM users WHERE LOWER(email) = LOWER($1)
		)
	`

	return c.queryExists(ctx, query, email)
}

func (c *Core) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM users WHERE LOWER(username) = LOWER($1)
		)
	`

	return c.queryExists(ctx, query, username)
}

func (c *Core) queryExists(ctx context.Context, query string, args ...any) (bool, error) {
	exists, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, func(rows *sql.Rows) (bool, error) {
		var found bool
		if err := rows.Scan(&found); err != nil {
			return false, xerrors.New(err)
		}
		return found, nil
	}, args...)

	if err != nil {
		return false, xerrors.New(err)
	}

	return exists, nil
}
