package cli

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/todolist/internal/common"
	"github.com/dmitrijs2005/todolist/internal/logging"
	"github.com/dmitrijs2005/todolist/internal/server"
	"github.com/dmitrijs2005/todolist/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/todolist/internal/server/services"
	"github.com/dmitrijs2005/todolist/internal/server/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scripted returns a ReadPassword stub answering with replies in order.
func scripted(replies ...string) func(int) ([]byte, error) {
	i := 0
	return func(int) ([]byte, error) {
		if i >= len(replies) {
			return nil, errors.New("no more input")
		}
		r := replies[i]
		i++
		return []byte(r), nil
	}
}

func run(t *testing.T, env *Env, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SECRET_KEY", "cli-test-secret-0123456789")
	if env.Logger == nil {
		env.Logger = logging.NewDiscardLogger()
	}
	cmd := NewRootCmd(env)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func tempDSN(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "lists.db")
}

func seedUser(t *testing.T, dsn, email, password string) {
	t.Helper()
	ctx := context.Background()
	db, rm, err := repomanager.Open(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, rm.RunMigrations(ctx, db))

	_, err = services.NewUserService(db, rm, logging.NewDiscardLogger()).
		Register(ctx, session.New(), email, password, "Alice")
	require.NoError(t, err)
}

func checkLogin(t *testing.T, dsn, email, password string) error {
	t.Helper()
	ctx := context.Background()
	db, rm, err := repomanager.Open(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	_, err = services.NewUserService(db, rm, logging.NewDiscardLogger()).
		Login(ctx, session.New(), email, password)
	return err
}

func TestPositionals(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"email first", []string{"a@b.c", "-d", "x.db"}, []string{"a@b.c"}},
		{"email last", []string{"-d", "x.db", "a@b.c"}, []string{"a@b.c"}},
		{"equals form", []string{"--config=c.yaml", "a@b.c"}, []string{"a@b.c"}},
		{"double dash", []string{"-d", "x.db", "--", "-odd@b.c"}, []string{"-odd@b.c"}},
		{"none", []string{"-a", ":1"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, positionals(tt.args))
		})
	}
}

func TestMigrate(t *testing.T) {
	dsn := tempDSN(t)
	out, err := run(t, &Env{}, "migrate", "-d", dsn)
	require.NoError(t, err)
	assert.Contains(t, out, "migrations applied")
}

func TestMigrate_InvalidConfig(t *testing.T) {
	_, err := run(t, &Env{}, "migrate", "-d", tempDSN(t), "-s", "")
	require.Error(t, err)
}

func TestPasswd(t *testing.T) {
	dsn := tempDSN(t)
	seedUser(t, dsn, "alice@example.com", "old")

	out, err := run(t, &Env{ReadPassword: scripted("new", "new")}, "passwd", "alice@example.com", "-d", dsn)
	require.NoError(t, err)
	assert.Contains(t, out, "password updated")

	assert.NoError(t, checkLogin(t, dsn, "alice@example.com", "new"))
	assert.ErrorIs(t, checkLogin(t, dsn, "alice@example.com", "old"), common.ErrBadCredential)
}

func TestPasswd_Failures(t *testing.T) {
	dsn := tempDSN(t)
	seedUser(t, dsn, "alice@example.com", "old")

	tests := []struct {
		name    string
		replies []string
		args    []string
		errText string
	}{
		{"no email", nil, []string{"passwd", "-d", dsn}, "exactly one email"},
		{"mismatch", []string{"a", "b"}, []string{"passwd", "alice@example.com", "-d", dsn}, "do not match"},
		{"empty", []string{"", ""}, []string{"passwd", "alice@example.com", "-d", dsn}, "must not be empty"},
		{"unknown", []string{"x", "x"}, []string{"passwd", "bob@example.com", "-d", dsn}, "no user registered"},
		{"prompt error", nil, []string{"passwd", "alice@example.com", "-d", dsn}, "no more input"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, &Env{ReadPassword: scripted(tt.replies...)}, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}

	assert.NoError(t, checkLogin(t, dsn, "alice@example.com", "old"))
}

func TestServe_DefaultCommand(t *testing.T) {
	dsn := tempDSN(t)

	for _, args := range [][]string{
		{"-d", dsn, "-a", "127.0.0.1:0"},
		{"serve", "-d", dsn, "-a", "127.0.0.1:0"},
	} {
		served := false
		env := &Env{Serve: func(_ context.Context, app *server.App) {
			served = app != nil
		}}
		_, err := run(t, env, args...)
		require.NoError(t, err)
		assert.True(t, served, "args %v", args)
	}
}
