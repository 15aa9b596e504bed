// Package repomanager hands out repositories bound to a database handle and
// owns schema migrations. Binding per call lets the same manager serve both
// plain handles and transactions started with dbx.WithTx.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/mkragh/socialapi/internal/dbx"
	"github.com/mkragh/socialapi/internal/server/repositories/refreshtokens"
	"github.com/mkragh/socialapi/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
