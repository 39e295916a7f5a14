package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/todolist/internal/common"
	"github.com/dmitrijs2005/todolist/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const (
	insertQ = `(?s)^INSERT\s+INTO\s+users\s*\(email,\s*password_hash,\s*name\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+id\s*$`
	byEmail = `(?s)^SELECT\s+id,\s*email,\s*password_hash,\s*name\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1\s*$`
	byID    = `(?s)^SELECT\s+id,\s*email,\s*password_hash,\s*name\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1\s*$`
	updPw   = `(?s)^UPDATE\s+users\s+SET\s+password_hash\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$1\s*$`
)

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).
		WithArgs("a@example.com", "hash", "Alice").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	got, err := repo.Create(context.Background(), &models.User{Email: "a@example.com", PasswordHash: "hash", Name: "Alice"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 42 || got.Email != "a@example.com" {
		t.Fatalf("unexpected user: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).
		WithArgs("a@example.com", "hash", "Alice").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), &models.User{Email: "a@example.com", PasswordHash: "hash", Name: "Alice"})
	if !errors.Is(err, common.ErrAlreadyExists) {
		t.Fatalf("want common.ErrAlreadyExists, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).
		WithArgs("a@example.com", "hash", "Alice").
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{Email: "a@example.com", PasswordHash: "hash", Name: "Alice"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "name"}).
		AddRow(int64(1), "a@example.com", "hash", "Alice")
	mock.ExpectQuery(byEmail).WithArgs("a@example.com").WillReturnRows(rows)

	got, err := repo.GetByEmail(context.Background(), "a@example.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if got.ID != 1 || got.Name != "Alice" || got.PasswordHash != "hash" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(byEmail).WithArgs("ghost@example.com").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "ghost@example.com")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestGetByID_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(byID).WithArgs(int64(5)).WillReturnError(errors.New("db err"))

	_, err := repo.GetByID(context.Background(), 5)
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestUpdatePassword(t *testing.T) {
	t.Run("updated", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectExec(updPw).WithArgs(int64(3), "new-hash").WillReturnResult(sqlmock.NewResult(0, 1))

		if err := repo.UpdatePassword(context.Background(), 3, "new-hash"); err != nil {
			t.Fatalf("UpdatePassword error: %v", err)
		}
	})

	t.Run("missing user", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectExec(updPw).WithArgs(int64(3), "new-hash").WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdatePassword(context.Background(), 3, "new-hash")
		if !errors.Is(err, common.ErrNotFound) {
			t.Fatalf("want common.ErrNotFound, got %v", err)
		}
	})
}
