// Package repomanager hands out repositories bound to a database handle, so
// services can run the same repository against *sql.DB or inside a
// transaction, and applies the embedded schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/ottocollect/ottocollect/internal/dbx"
	"github.com/ottocollect/ottocollect/internal/server/repositories/badges"
	"github.com/ottocollect/ottocollect/internal/server/repositories/banknotes"
	"github.com/ottocollect/ottocollect/internal/server/repositories/collection"
	"github.com/ottocollect/ottocollect/internal/server/repositories/countries"
	"github.com/ottocollect/ottocollect/internal/server/repositories/definitions"
	"github.com/ottocollect/ottocollect/internal/server/repositories/follows"
	"github.com/ottocollect/ottocollect/internal/server/repositories/marketplace"
	"github.com/ottocollect/ottocollect/internal/server/repositories/messages"
	"github.com/ottocollect/ottocollect/internal/server/repositories/notifications"
	"github.com/ottocollect/ottocollect/internal/server/repositories/posts"
	"github.com/ottocollect/ottocollect/internal/server/repositories/refreshtokens"
	"github.com/ottocollect/ottocollect/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	MigrationVersion(ctx context.Context, db *sql.DB) (int64, error)

	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Countries(db dbx.DBTX) countries.Repository
	Definitions(db dbx.DBTX) definitions.Repository
	Banknotes(db dbx.DBTX) banknotes.Repository
	Collection(db dbx.DBTX) collection.Repository
	Marketplace(db dbx.DBTX) marketplace.Repository
	Posts(db dbx.DBTX) posts.Repository
	Messages(db dbx.DBTX) messages.Repository
	Notifications(db dbx.DBTX) notifications.Repository
	Follows(db dbx.DBTX) follows.Repository
	Badges(db dbx.DBTX) badges.Repository
}
