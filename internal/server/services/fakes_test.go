package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/todolist/internal/common"
	"github.com/dmitrijs2005/todolist/internal/dbx"
	"github.com/dmitrijs2005/todolist/internal/logging"
	"github.com/dmitrijs2005/todolist/internal/server/models"
	"github.com/dmitrijs2005/todolist/internal/server/repositories/lists"
	"github.com/dmitrijs2005/todolist/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/todolist/internal/server/repositories/users"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// store is an in-memory Identity Store shared by the fake repositories.
type store struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*models.User
	lists  map[int64]*models.List
	tasks  map[int64]*models.Task

	// fail makes the named repository method return the error.
	fail map[string]error
}

func newStore() *store {
	return &store{
		users: map[int64]*models.User{},
		lists: map[int64]*models.List{},
		tasks: map[int64]*models.Task{},
		fail:  map[string]error{},
	}
}

func (s *store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *store) failing(op string) error {
	return s.fail[op]
}

func (s *store) addUser(email, hash, name string) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &models.User{ID: s.id(), Email: email, PasswordHash: hash, Name: name}
	s.users[u.ID] = u
	return u
}

func (s *store) addList(title string, owner *int64) *models.List {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := &models.List{ID: s.id(), Title: title, OwnerID: owner, Saved: owner != nil}
	s.lists[l.ID] = l
	return l
}

func (s *store) addTask(listID int64, content string, due *time.Time) *models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &models.Task{ID: s.id(), ListID: listID, Content: content, DueDate: due}
	s.tasks[t.ID] = t
	return t
}

func (s *store) tasksOf(listID int64) []*models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Task
	for _, t := range s.tasks {
		if t.ListID == listID {
			c := *t
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type fakeUsers struct{ s *store }

func (f *fakeUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.failing("users.Create"); err != nil {
		return nil, err
	}
	for _, x := range f.s.users {
		if x.Email == u.Email {
			return nil, common.ErrAlreadyExists
		}
	}
	c := *u
	c.ID = f.s.id()
	f.s.users[c.ID] = &c
	out := c
	return &out, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.failing("users.GetByEmail"); err != nil {
		return nil, err
	}
	for _, x := range f.s.users {
		if x.Email == email {
			c := *x
			return &c, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	x, ok := f.s.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	c := *x
	return &c, nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id int64, hash string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.failing("users.UpdatePassword"); err != nil {
		return err
	}
	x, ok := f.s.users[id]
	if !ok {
		return common.ErrNotFound
	}
	x.PasswordHash = hash
	return nil
}

type fakeLists struct{ s *store }

func (f *fakeLists) Create(_ context.Context, title string) (*models.List, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.failing("lists.Create"); err != nil {
		return nil, err
	}
	for _, x := range f.s.lists {
		if x.OwnerID == nil && x.Title == title {
			return nil, common.ErrAlreadyExists
		}
	}
	l := &models.List{ID: f.s.id(), Title: title}
	f.s.lists[l.ID] = l
	c := *l
	return &c, nil
}

func (f *fakeLists) Get(_ context.Context, id int64) (*models.List, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.failing("lists.Get"); err != nil {
		return nil, err
	}
	x, ok := f.s.lists[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	c := *x
	return &c, nil
}

func (f *fakeLists) TitleExists(_ context.Context, title string) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, x := range f.s.lists {
		if x.Title == title {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLists) ListByOwner(_ context.Context, ownerID int64) ([]*models.List, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []*models.List
	for _, x := range f.s.lists {
		if x.OwnedBy(ownerID) {
			c := *x
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeLists) Claim(_ context.Context, id, ownerID int64, title string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.failing("lists.Claim"); err != nil {
		return err
	}
	x, ok := f.s.lists[id]
	if !ok {
		return common.ErrNotFound
	}
	owner := ownerID
	x.OwnerID = &owner
	x.Title = title
	x.Saved = true
	return nil
}

func (f *fakeLists) Delete(_ context.Context, id int64) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.failing("lists.Delete"); err != nil {
		return err
	}
	if _, ok := f.s.lists[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.s.lists, id)
	return nil
}

type fakeTasks struct{ s *store }

func (f *fakeTasks) Create(_ context.Context, t *models.Task) (*models.Task, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.failing("tasks.Create"); err != nil {
		return nil, err
	}
	for _, x := range f.s.tasks {
		if x.ListID == t.ListID && x.Content == t.Content {
			return nil, common.ErrAlreadyExists
		}
	}
	c := *t
	c.ID = f.s.id()
	f.s.tasks[c.ID] = &c
	out := c
	return &out, nil
}

func (f *fakeTasks) Get(_ context.Context, id int64) (*models.Task, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	x, ok := f.s.tasks[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	c := *x
	return &c, nil
}

func (f *fakeTasks) ListByList(_ context.Context, listID int64) ([]*models.Task, error) {
	return f.s.tasksOf(listID), nil
}

func (f *fakeTasks) ContentExists(_ context.Context, listID int64, content string) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, x := range f.s.tasks {
		if x.ListID == listID && x.Content == content {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTasks) update(id int64, fn func(*models.Task)) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	x, ok := f.s.tasks[id]
	if !ok {
		return common.ErrNotFound
	}
	fn(x)
	return nil
}

func (f *fakeTasks) SetDone(_ context.Context, id int64, done bool) error {
	return f.update(id, func(t *models.Task) { t.Done = done })
}

func (f *fakeTasks) SetDueDate(_ context.Context, id int64, due *time.Time, display string) error {
	return f.update(id, func(t *models.Task) {
		t.DueDate = due
		t.DisplayDueDate = display
	})
}

func (f *fakeTasks) SetOverdue(_ context.Context, id int64, overdue bool) error {
	return f.update(id, func(t *models.Task) { t.Overdue = overdue })
}

func (f *fakeTasks) Delete(_ context.Context, id int64) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.tasks[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.s.tasks, id)
	return nil
}

func (f *fakeTasks) DeleteByList(_ context.Context, listID int64) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var n int64
	for id, x := range f.s.tasks {
		if x.ListID == listID {
			delete(f.s.tasks, id)
			n++
		}
	}
	return n, nil
}

type fakeRepoManager struct{ s *store }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository           { return &fakeUsers{m.s} }
func (m *fakeRepoManager) Lists(dbx.DBTX) lists.Repository           { return &fakeLists{m.s} }
func (m *fakeRepoManager) Tasks(dbx.DBTX) tasks.Repository           { return &fakeTasks{m.s} }

// newSQLMockDB returns a pool whose only job is to hand out transactions.
func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func expectCommits(mock sqlmock.Sqlmock, n int) {
	for i := 0; i < n; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
	}
}

func testLogger() logging.Logger {
	return logging.NewDiscardLogger()
}
