package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophdrive/internal/client/client"
	"github.com/dmitrijs2005/gophdrive/internal/client/models"
)

// fakeClient implements client.Client. Unset funcs panic so a test notices
// an unexpected call.
type fakeClient struct {
	client.Client

	tokens []string

	register func(email, password string) (*models.User, error)
	login    func(email, password string) (*models.Token, error)
	listRoot func() (*models.FolderContents, error)
	getDir   func(id int64) (*models.FolderContents, error)
	mkdir    func(name string, parentID *int64) (*models.Folder, error)
	rmdir    func(id int64) error
	upload   func(name string, content []byte, parentID *int64) (*models.File, error)
	download func(id int64) (*models.File, []byte, error)
	moveFile func(id int64, parentID *int64) (*models.File, error)
	rmFile   func(id int64) error
}

func (f *fakeClient) Ping(context.Context) error { return nil }

func (f *fakeClient) Register(_ context.Context, email, password string) (*models.User, error) {
	return f.register(email, password)
}

func (f *fakeClient) Login(_ context.Context, email, password string) (*models.Token, error) {
	return f.login(email, password)
}

func (f *fakeClient) ListRoot(_ context.Context, token string) (*models.FolderContents, error) {
	f.tokens = append(f.tokens, token)
	return f.listRoot()
}

func (f *fakeClient) GetFolder(_ context.Context, token string, id int64) (*models.FolderContents, error) {
	f.tokens = append(f.tokens, token)
	return f.getDir(id)
}

func (f *fakeClient) CreateFolder(_ context.Context, token, name string, parentID *int64) (*models.Folder, error) {
	f.tokens = append(f.tokens, token)
	return f.mkdir(name, parentID)
}

func (f *fakeClient) DeleteFolder(_ context.Context, token string, id int64) error {
	f.tokens = append(f.tokens, token)
	return f.rmdir(id)
}

func (f *fakeClient) UploadFile(_ context.Context, token, name string, content []byte, parentID *int64) (*models.File, error) {
	f.tokens = append(f.tokens, token)
	return f.upload(name, content, parentID)
}

func (f *fakeClient) DownloadFile(_ context.Context, token string, id int64) (*models.File, []byte, error) {
	f.tokens = append(f.tokens, token)
	return f.download(id)
}

func (f *fakeClient) MoveFile(_ context.Context, token string, id int64, parentID *int64) (*models.File, error) {
	f.tokens = append(f.tokens, token)
	return f.moveFile(id, parentID)
}

func (f *fakeClient) DeleteFile(_ context.Context, token string, id int64) error {
	f.tokens = append(f.tokens, token)
	return f.rmFile(id)
}

func newSessionDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func ptr(v int64) *int64 { return &v }
