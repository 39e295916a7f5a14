package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/todolist/internal/dbx"
	"github.com/dmitrijs2005/todolist/internal/server/repositories/lists"
	"github.com/dmitrijs2005/todolist/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/todolist/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can hand
// the same manager either the pool or an open transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Lists(db dbx.DBTX) lists.Repository
	Tasks(db dbx.DBTX) tasks.Repository
}
