package services

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/dbx"
	"github.com/dmitrijs2005/gophdrive/internal/server/models"
	filesrepo "github.com/dmitrijs2005/gophdrive/internal/server/repositories/files"
	foldersrepo "github.com/dmitrijs2005/gophdrive/internal/server/repositories/folders"
	usersrepo "github.com/dmitrijs2005/gophdrive/internal/server/repositories/users"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// committed and rolledBack queue the transaction outcome of the next call.
func committed(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectCommit()
}

func rolledBack(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectRollback()
}

// memStore behaves like the PostgreSQL schema: owner-scoped lookups,
// same-owner parents, and cascading folder deletes.
type memStore struct {
	mu      sync.Mutex
	nextID  int64
	users   map[int64]*models.User
	folders map[int64]*models.Folder
	files   map[int64]*models.File

	// failures by method name, e.g. "files.Create"
	fail map[string]error
	// calls by method name
	calls map[string]int
	// after runs once, outside the lock, when the named method returns
	after map[string]func()
}

func newMemStore() *memStore {
	return &memStore{
		users:   map[int64]*models.User{},
		folders: map[int64]*models.Folder{},
		files:   map[int64]*models.File{},
		fail:    map[string]error{},
		calls:   map[string]int{},
		after:   map[string]func(){},
	}
}

func (m *memStore) enter(name string) error {
	m.calls[name]++
	return m.fail[name]
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) ownedFolder(userID, id int64) (*models.Folder, bool) {
	f, ok := m.folders[id]
	if !ok || f.UserID != userID {
		return nil, false
	}
	return f, true
}

func (m *memStore) parentOK(userID int64, parentID *int64) bool {
	if parentID == nil {
		return true
	}
	_, ok := m.ownedFolder(userID, *parentID)
	return ok
}

func copyID(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func sameParent(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

type fakeRepoManager struct{ s *memStore }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) usersrepo.Repository          { return (*fakeUsers)(m.s) }
func (m *fakeRepoManager) Folders(dbx.DBTX) foldersrepo.Repository      { return (*fakeFolders)(m.s) }
func (m *fakeRepoManager) Files(dbx.DBTX) filesrepo.Repository          { return (*fakeFiles)(m.s) }

type fakeUsers memStore

func (r *fakeUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("users.Create"); err != nil {
		return nil, err
	}
	for _, x := range s.users {
		if x.Email == u.Email {
			return nil, common.ErrorConflict
		}
	}
	c := *u
	c.ID = s.id()
	c.CreatedAt = time.Now()
	s.users[c.ID] = &c
	out := c
	return &out, nil
}

func (r *fakeUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("users.GetUserByEmail"); err != nil {
		return nil, err
	}
	for _, x := range s.users {
		if x.Email == email {
			out := *x
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeUsers) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("users.ExistsByEmail"); err != nil {
		return false, err
	}
	for _, x := range s.users {
		if x.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type fakeFolders memStore

func (r *fakeFolders) Create(_ context.Context, f *models.Folder) (*models.Folder, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("folders.Create"); err != nil {
		return nil, err
	}
	if !s.parentOK(f.UserID, f.ParentFolderID) {
		return nil, common.ErrorNotFound
	}
	c := &models.Folder{ID: s.id(), Name: f.Name, UserID: f.UserID, ParentFolderID: copyID(f.ParentFolderID), CreatedAt: time.Now()}
	s.folders[c.ID] = c
	out := *c
	return &out, nil
}

func (r *fakeFolders) Get(_ context.Context, userID, id int64) (*models.Folder, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("folders.Get"); err != nil {
		return nil, err
	}
	f, ok := s.ownedFolder(userID, id)
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *f
	return &out, nil
}

func (r *fakeFolders) LockAsParent(_ context.Context, userID, id int64) error {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("folders.LockAsParent"); err != nil {
		return err
	}
	if _, ok := s.ownedFolder(userID, id); !ok {
		return common.ErrorNotFound
	}
	return nil
}

func (r *fakeFolders) ListChildren(_ context.Context, userID int64, parentID *int64) ([]*models.Folder, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("folders.ListChildren"); err != nil {
		return nil, err
	}
	out := make([]*models.Folder, 0)
	for _, f := range s.folders {
		if f.UserID == userID && sameParent(f.ParentFolderID, parentID) {
			c := *f
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeFolders) Rename(_ context.Context, userID, id int64, name string) (*models.Folder, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("folders.Rename"); err != nil {
		return nil, err
	}
	f, ok := s.ownedFolder(userID, id)
	if !ok {
		return nil, common.ErrorNotFound
	}
	f.Name = name
	out := *f
	return &out, nil
}

func (r *fakeFolders) Move(_ context.Context, userID, id int64, parentID *int64) (*models.Folder, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("folders.Move"); err != nil {
		return nil, err
	}
	f, ok := s.ownedFolder(userID, id)
	if !ok {
		return nil, common.ErrorNotFound
	}
	if !s.parentOK(userID, parentID) {
		return nil, common.ErrorNotFound
	}
	f.ParentFolderID = copyID(parentID)
	out := *f
	return &out, nil
}

func (r *fakeFolders) IsInSubtree(_ context.Context, userID, rootID, candidateID int64) (bool, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("folders.IsInSubtree"); err != nil {
		return false, err
	}
	cur, ok := s.ownedFolder(userID, candidateID)
	for ok {
		if cur.ID == rootID {
			return true, nil
		}
		if cur.ParentFolderID == nil {
			break
		}
		cur, ok = s.ownedFolder(userID, *cur.ParentFolderID)
	}
	return false, nil
}

func (r *fakeFolders) Delete(_ context.Context, userID, id int64) error {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("folders.Delete"); err != nil {
		return err
	}
	if _, ok := s.ownedFolder(userID, id); !ok {
		return common.ErrorNotFound
	}
	s.cascade(id)
	return nil
}

func (s *memStore) cascade(folderID int64) {
	delete(s.folders, folderID)
	for fid, f := range s.files {
		if f.ParentFolderID != nil && *f.ParentFolderID == folderID {
			delete(s.files, fid)
		}
	}
	for cid, c := range s.folders {
		if c.ParentFolderID != nil && *c.ParentFolderID == folderID {
			s.cascade(cid)
		}
	}
}

type fakeFiles memStore

func (r *fakeFiles) Create(_ context.Context, f *models.File) (*models.File, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("files.Create"); err != nil {
		return nil, err
	}
	if !s.parentOK(f.UserID, f.ParentFolderID) {
		return nil, common.ErrorNotFound
	}
	if f.Name == "" {
		return nil, errors.New("check violation")
	}
	c := *f
	c.ID = s.id()
	c.Size = int64(len(f.Content))
	c.Content = append([]byte(nil), f.Content...)
	c.ParentFolderID = copyID(f.ParentFolderID)
	c.CreatedAt = time.Now()
	s.files[c.ID] = &c
	return c.Metadata(), nil
}

func (s *memStore) ownedFile(userID, id int64) (*models.File, bool) {
	f, ok := s.files[id]
	if !ok || f.UserID != userID {
		return nil, false
	}
	return f, true
}

func (r *fakeFiles) GetMetadata(_ context.Context, userID, id int64) (*models.File, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	hook := s.after["files.GetMetadata"]
	delete(s.after, "files.GetMetadata")
	out, err := s.getMetadata(userID, id)
	s.mu.Unlock()

	if hook != nil {
		hook()
	}
	return out, err
}

func (s *memStore) getMetadata(userID, id int64) (*models.File, error) {
	if err := s.enter("files.GetMetadata"); err != nil {
		return nil, err
	}
	f, ok := s.ownedFile(userID, id)
	if !ok {
		return nil, common.ErrorNotFound
	}
	return f.Metadata(), nil
}

func (r *fakeFiles) GetWithContent(_ context.Context, userID, id int64) (*models.File, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("files.GetWithContent"); err != nil {
		return nil, err
	}
	f, ok := s.ownedFile(userID, id)
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *f
	out.Content = append([]byte(nil), f.Content...)
	return &out, nil
}

func (r *fakeFiles) ListByParent(_ context.Context, userID int64, parentID *int64) ([]*models.File, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("files.ListByParent"); err != nil {
		return nil, err
	}
	out := make([]*models.File, 0)
	for _, f := range s.files {
		if f.UserID == userID && sameParent(f.ParentFolderID, parentID) {
			out = append(out, f.Metadata())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeFiles) Rename(_ context.Context, userID, id int64, name string) (*models.File, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("files.Rename"); err != nil {
		return nil, err
	}
	f, ok := s.ownedFile(userID, id)
	if !ok {
		return nil, common.ErrorNotFound
	}
	f.Name = name
	return f.Metadata(), nil
}

func (r *fakeFiles) Move(_ context.Context, userID, id int64, parentID *int64) (*models.File, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("files.Move"); err != nil {
		return nil, err
	}
	f, ok := s.ownedFile(userID, id)
	if !ok {
		return nil, common.ErrorNotFound
	}
	if !s.parentOK(userID, parentID) {
		return nil, common.ErrorNotFound
	}
	f.ParentFolderID = copyID(parentID)
	return f.Metadata(), nil
}

func (r *fakeFiles) Delete(_ context.Context, userID, id int64) error {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("files.Delete"); err != nil {
		return err
	}
	if _, ok := s.ownedFile(userID, id); !ok {
		return common.ErrorNotFound
	}
	delete(s.files, id)
	return nil
}

type panickingManager struct{ *fakeRepoManager }

func (panickingManager) Folders(dbx.DBTX) foldersrepo.Repository { panic("folders") }
