package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/todolist/internal/common"
	"github.com/dmitrijs2005/todolist/internal/server/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionService(t *testing.T, s *store, commits int) *SessionService {
	t.Helper()
	db, mock := newSQLMockDB(t)
	expectCommits(mock, commits)
	return NewSessionService(db, &fakeRepoManager{s}, testLogger())
}

func TestResolve_FreshSessionIsIdempotent(t *testing.T) {
	s := newStore()
	svc := newSessionService(t, s, 1)
	st := session.New()

	first, err := svc.Resolve(context.Background(), st)
	require.NoError(t, err)
	second, err := svc.Resolve(context.Background(), st)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, first, st.ListID)
	assert.True(t, st.Dirty())
	assert.Len(t, s.lists, 1)

	seeded := s.tasksOf(first)
	require.Len(t, seeded, 1)
	assert.Equal(t, common.SeedTaskContent, seeded[0].Content)
	assert.False(t, seeded[0].Done)
	assert.Nil(t, seeded[0].DueDate)
}

func TestResolve_StaleListIsReplaced(t *testing.T) {
	s := newStore()
	svc := newSessionService(t, s, 1)
	st := session.New()
	st.BindList(4242)

	id, err := svc.Resolve(context.Background(), st)
	require.NoError(t, err)
	assert.NotEqual(t, int64(4242), id)
	assert.Equal(t, id, st.ListID)
}

func TestResolve_KeepsListClaimedBySessionUser(t *testing.T) {
	s := newStore()
	owner := s.addUser("a@example.com", "x", "A")
	l := s.addList("Groceries", &owner.ID)

	svc := newSessionService(t, s, 0)
	st := session.New()
	st.BindList(l.ID)
	st.Login(owner.ID)

	id, err := svc.Resolve(context.Background(), st)
	require.NoError(t, err)
	assert.Equal(t, l.ID, id)
}

func TestResolve_ListClaimedBySomeoneElseIsReplaced(t *testing.T) {
	s := newStore()
	owner := s.addUser("a@example.com", "x", "A")
	l := s.addList("Groceries", &owner.ID)

	svc := newSessionService(t, s, 1)
	st := session.New()
	st.BindList(l.ID)

	id, err := svc.Resolve(context.Background(), st)
	require.NoError(t, err)
	assert.NotEqual(t, l.ID, id)
}

func TestResolve_StorageFailurePropagates(t *testing.T) {
	s := newStore()
	s.fail["lists.Get"] = errBoom{}
	svc := newSessionService(t, s, 0)
	st := session.New()
	st.BindList(1)

	_, err := svc.Resolve(context.Background(), st)
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom{})
}

func TestCreateAnonymous_RetriesOnTitleCollision(t *testing.T) {
	s := newStore()
	s.addList("local7", nil)
	s.addList("local8", nil)

	svc := newSessionService(t, s, 1)
	draws := []int64{7, 8, 9}
	svc.randSuffix = func() (int64, error) {
		n := draws[0]
		draws = draws[1:]
		return n, nil
	}

	list, err := svc.CreateAnonymous(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "local9", list.Title)
	assert.False(t, list.Saved)
	assert.Nil(t, list.OwnerID)
	assert.Empty(t, draws)
}

func TestRenew_AlwaysMintsNewList(t *testing.T) {
	s := newStore()
	svc := newSessionService(t, s, 2)
	st := session.New()

	first, err := svc.Resolve(context.Background(), st)
	require.NoError(t, err)
	second, err := svc.Renew(context.Background(), st)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, second, st.ListID)
}
