// Package repomanager vends the provisioning repositories for one SQL
// dialect and applies the embedded schema migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/sqlauth/internal/dbx"
	"github.com/dmitrijs2005/sqlauth/internal/server/repositories/grants"
	"github.com/dmitrijs2005/sqlauth/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Grants(db dbx.DBTX) grants.Repository
}
