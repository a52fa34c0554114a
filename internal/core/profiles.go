package core

import (
	"context"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/utils/databaseutils"
	"github.com/inkpost/inkpost/models"
	"github.com/mdobak/go-xerrors"
)

// GetProfile returns the named user as seen by the viewer. Anonymous
// viewers (and users looking at themselves) always see Following=false.
func (c *Core) GetProfile(ctx context.Context, username string, viewer *auth.User) (*models.Profile, error) {
	user, err := c.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	following := false
	if viewer != nil && viewer.ID != user.ID {
		followings, err := c.FollowingByUserIDs(ctx, viewer.ID, []int64{user.ID})
		if err != nil {
			return nil, err
		}
		following = followings[user.ID]
	}

	return &models.Profile{
		ID:        user.ID,
		Username:  user.Username,
		Bio:       user.Bio,
		Image:     user.Image,
		Following: following,
	}, nil
}

// FollowUser creates the directed follow edge. Following an already
// followed user is a no-op; following yourself is disallowed.
func (c *Core) FollowUser(ctx context.Context, follower *auth.User, followeeUsername string) (*models.Profile, error) {
	followee, err := c.GetUserByUsername(ctx, followeeUsername)
	if err != nil {
		return nil, err
	}

	if followee.ID == follower.ID {
		return nil, xerrors.New(ErrForbidden)
	}

	const query = `
		INSERT INTO followings (source_user_id, target_user_id)
		VALUES ($1, $2)
		ON CONFLICT (source_user_id, target_user_id) DO NOTHING
	`

	if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, ctx, query, follower.ID, followee.ID); err != nil {
		return nil, xerrors.New(err)
	}

	return c.GetProfile(ctx, followeeUsername, follower)
}

// UnfollowUser removes the follow edge; unfollowing someone you never
// followed is a no-op.
func (c *Core) UnfollowUser(ctx context.Context, follower *auth.User, followeeUsername string) (*models.Profile, error) {
	followee, err := c.GetUserByUsername(ctx, followeeUsername)
	if err != nil {
		return nil, err
	}

	const query = `
		DELETE FROM followings
		WHERE source_user_id = $1 AND target_user_id = $2
	`

	if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, ctx, query, follower.ID, followee.ID); err != nil {
		return nil, xerrors.New(err)
	}

	return c.GetProfile(ctx, followeeUsername, follower)
}
