package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/ottocollect/ottocollect/internal/dbx"
	"github.com/ottocollect/ottocollect/internal/server/migrations"
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
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories.
type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Countries(db dbx.DBTX) countries.Repository {
	return countries.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Definitions(db dbx.DBTX) definitions.Repository {
	return definitions.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Banknotes(db dbx.DBTX) banknotes.Repository {
	return banknotes.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Collection(db dbx.DBTX) collection.Repository {
	return collection.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Marketplace(db dbx.DBTX) marketplace.Repository {
	return marketplace.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Posts(db dbx.DBTX) posts.Repository {
	return posts.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Messages(db dbx.DBTX) messages.Repository {
	return messages.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Notifications(db dbx.DBTX) notifications.Repository {
	return notifications.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Follows(db dbx.DBTX) follows.Repository {
	return follows.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Badges(db dbx.DBTX) badges.Repository {
	return badges.NewPostgresRepository(db)
}

// Seams over goose for tests.
var (
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return goose.UpContext(ctx, db, dir, opts...)
	}
	gooseVersionContext = goose.GetDBVersionContext
)

func setupGoose() error {
	goose.SetBaseFS(migrations.Migrations)
	return goose.SetDialect("pgx")
}

// RunMigrations applies every pending embedded migration.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	if err := setupGoose(); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

// MigrationVersion reports the schema version currently applied.
func (m *PostgresRepositoryManager) MigrationVersion(ctx context.Context, db *sql.DB) (int64, error) {
	if err := setupGoose(); err != nil {
		return 0, err
	}
	return gooseVersionContext(ctx, db)
}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}
