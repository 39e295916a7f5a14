// Package lists provides the SQL-backed list repository.
package lists

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

func (r *PostgresRepository) Create(ctx context.Context, title string) (*models.List, error) {
	query :=
		`INSERT INTO lists (title, saved)
		 VALUES ($1, FALSE)
		 RETURNING id`

	list := &models.List{Title: title}
	if err := r.db.QueryRowContext(ctx, query, title).Scan(&list.ID); err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return list, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.List, error) {
	query :=
		`SELECT id, owner_id, title, saved FROM lists
		 WHERE id = $1`

	list, err := scanList(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return list, nil
}

func (r *PostgresRepository) TitleExists(ctx context.Context, title string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM lists WHERE title = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, title).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*models.List, error) {
	query :=
		`SELECT id, owner_id, title, saved FROM lists
		 WHERE owner_id = $1
		 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to select lists: %w", err)
	}
	defer rows.Close()

	var result []*models.List
	for rows.Next() {
		list, err := scanList(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, list)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Claim(ctx context.Context, id, ownerID int64, title string) error {
	query :=
		`UPDATE lists SET owner_id = $2, title = $3, saved = TRUE
		 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, ownerID, title)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM lists WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanList(s scanner) (*models.List, error) {
	var (
		list  models.List
		owner sql.NullInt64
	)
	if err := s.Scan(&list.ID, &owner, &list.Title, &list.Saved); err != nil {
		return nil, err
	}
	if owner.Valid {
		list.OwnerID = &owner.Int64
	}
	return &list, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
