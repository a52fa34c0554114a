package core

import (
	"database/sql"
	"log/slog"

	"github.com/inkpost/inkpost/internal/utils/databaseutils"
)

// Core is the service layer. It is stateless: everything it needs comes in
// through its collaborators, and viewer identity is always an explicit
// parameter on read operations, never ambient state.
type Core struct {
	log         *slog.Logger
	db          *sql.DB
	session     databaseutils.Session
	sqlTemplate *databaseutils.SQLTemplate
}

func NewCore(dbConn *sql.DB, log *slog.Logger, session databaseutils.Session, sqlTemplate *databaseutils.SQLTemplate) *Core {
	return &Core{
		log:         log,
		db:          dbConn,
		session:     session,
		sqlTemplate: sqlTemplate,
	}
}
