// Package repomanager provides the SQL RepositoryManager (the identity
// store), wiring repository constructors, driver selection and goose
// migrations for PostgreSQL and SQLite.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/todolist/internal/dbx"
	"github.com/dmitrijs2005/todolist/internal/server/migrations"
	"github.com/dmitrijs2005/todolist/internal/server/repositories/lists"
	"github.com/dmitrijs2005/todolist/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/todolist/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SQLRepositoryManager vends SQL-backed repositories. The repositories share
// one query text for both dialects; only migrations differ.
type SQLRepositoryManager struct {
	dialect dbx.Dialect
}

// NewSQLRepositoryManager constructs a manager for the given dialect.
func NewSQLRepositoryManager(d dbx.Dialect) *SQLRepositoryManager {
	return &SQLRepositoryManager{dialect: d}
}

// Dialect reports the backend this manager targets.
func (m *SQLRepositoryManager) Dialect() dbx.Dialect {
	return m.dialect
}

// Users returns a users.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// Lists returns a lists.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Lists(db dbx.DBTX) lists.Repository {
	return lists.NewPostgresRepository(db)
}

// Tasks returns a tasks.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Tasks(db dbx.DBTX) tasks.Repository {
	return tasks.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations for the manager's dialect.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(m.dialect.GooseDialect()); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	return gooseUpContext(ctx, db, m.migrationsDir())
}

func (m *SQLRepositoryManager) migrationsDir() string {
	if m.dialect == dbx.DialectPostgres {
		return "postgres"
	}
	return "sqlite"
}

// Open connects to dsn, picking the driver from its shape, and returns the
// pool together with a matching manager. Migrations are not run here.
func Open(ctx context.Context, dsn string) (*sql.DB, *SQLRepositoryManager, error) {
	d := dbx.DetectDialect(dsn)
	if d == dbx.DialectSQLite {
		dsn = dbx.NormalizeSQLiteDSN(dsn)
	}

	db, err := sql.Open(string(d), dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db ping error: %w", err)
	}

	return db, NewSQLRepositoryManager(d), nil
}
