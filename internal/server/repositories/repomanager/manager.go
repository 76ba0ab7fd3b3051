package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/resumeai/internal/dbx"
	"github.com/dmitrijs2005/resumeai/internal/server/repositories/analyses"
	"github.com/dmitrijs2005/resumeai/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a connection or a
// transaction and owns schema migrations.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Analyses(db dbx.DBTX) analyses.Repository
}
