// Package tasks provides the SQL-backed task repository.
package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/todolist/internal/common"
	"github.com/dmitrijs2005/todolist/internal/dbx"
	"github.com/dmitrijs2005/todolist/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const taskColumns = `id, list_id, content, done, due_date, display_due_date, overdue`

func (r *PostgresRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	query :=
		`INSERT INTO tasks (list_id, content, done, overdue)
		 VALUES ($1, $2, $3, FALSE)
		 RETURNING id`

	if err := r.db.QueryRowContext(ctx, query, task.ListID, task.Content, task.Done).Scan(&task.ID); err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return task, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return task, nil
}

func (r *PostgresRepository) ListByList(ctx context.Context, listID int64) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE list_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to select tasks: %w", err)
	}
	defer rows.Close()

	var result []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) ContentExists(ctx context.Context, listID int64, content string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM tasks WHERE list_id = $1 AND content = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, listID, content).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) SetDone(ctx context.Context, id int64, done bool) error {
	return r.exec(ctx, `UPDATE tasks SET done = $2 WHERE id = $1`, id, done)
}

func (r *PostgresRepository) SetDueDate(ctx context.Context, id int64, due *time.Time, display string) error {
	var (
		dueArg     sql.NullTime
		displayArg sql.NullString
	)
	if due != nil {
		dueArg = sql.NullTime{Time: due.UTC(), Valid: true}
		displayArg = sql.NullString{String: display, Valid: true}
	}
	return r.exec(ctx, `UPDATE tasks SET due_date = $2, display_due_date = $3 WHERE id = $1`, id, dueArg, displayArg)
}

func (r *PostgresRepository) SetOverdue(ctx context.Context, id int64, overdue bool) error {
	return r.exec(ctx, `UPDATE tasks SET overdue = $2 WHERE id = $1`, id, overdue)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	return r.exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
}

func (r *PostgresRepository) DeleteByList(ctx context.Context, listID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE list_id = $1`, listID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

// exec runs a single-row statement and maps zero affected rows to ErrNotFound.
func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (*models.Task, error) {
	var (
		task    models.Task
		due     sql.NullTime
		display sql.NullString
	)
	if err := s.Scan(&task.ID, &task.ListID, &task.Content, &task.Done, &due, &display, &task.Overdue); err != nil {
		return nil, err
	}
	if due.Valid {
		t := due.Time
		task.DueDate = &t
	}
	task.DisplayDueDate = display.String
	return &task, nil
}
