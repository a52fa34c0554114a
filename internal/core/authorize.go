package core

import "github.com/mdobak/go-xerrors"

// RequireAuthor allows an operation only for the entity's author. Existence
// must already have been established: NoRecordFound takes precedence over
// ErrForbidden, so callers check the entity first.
func RequireAuthor(entityAuthorID, actorID int64) error {
	if entityAuthorID != actorID {
		return xerrors.New(ErrForbidden)
	}
	return nil
}
