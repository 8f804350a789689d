package folders

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

var folderCols = []string{"id", "name", "user_id", "parent_folder_id", "created_at"}

const (
	insertFolderQuery  = `(?s)INSERT\s+INTO\s+folders\s*\(name,\s*user_id,\s*parent_folder_id\).*RETURNING`
	selectFolderQuery  = `(?s)SELECT\s+id,\s*name,\s*user_id,\s*parent_folder_id,\s*created_at\s+FROM\s+folders\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2$`
	lockFolderQuery    = `(?s)SELECT\s+id\s+FROM\s+folders.*FOR\s+KEY\s+SHARE`
	listRootQuery      = `(?s)FROM\s+folders\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+parent_folder_id\s+IS\s+NULL\s+ORDER\s+BY\s+id`
	listChildrenQuery  = `(?s)FROM\s+folders\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+parent_folder_id\s*=\s*\$2\s+ORDER\s+BY\s+id`
	renameFolderQuery  = `(?s)UPDATE\s+folders\s+SET\s+name\s*=\s*\$1\s+WHERE\s+id\s*=\s*\$2\s+AND\s+user_id\s*=\s*\$3\s+RETURNING`
	moveFolderQuery    = `(?s)UPDATE\s+folders\s+SET\s+parent_folder_id\s*=\s*\$1\s+WHERE\s+id\s*=\s*\$2\s+AND\s+user_id\s*=\s*\$3\s+RETURNING`
	subtreeFolderQuery = `(?s)WITH\s+RECURSIVE\s+ancestors.*SELECT\s+EXISTS`
	deleteFolderQuery  = `DELETE\s+FROM\s+folders\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2`
)

func ptr(v int64) *int64 { return &v }

func TestCreate_Root(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(insertFolderQuery).
		WithArgs("Docs", int64(1), nil).
		WillReturnRows(sqlmock.NewRows(folderCols).AddRow(int64(10), "Docs", int64(1), nil, now))

	got, err := repo.Create(context.Background(), &models.Folder{Name: "Docs", UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.ID)
	assert.Nil(t, got.ParentFolderID)
	assert.True(t, got.IsRoot())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_Nested(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(insertFolderQuery).
		WithArgs("Reports", int64(1), int64(10)).
		WillReturnRows(sqlmock.NewRows(folderCols).AddRow(int64(11), "Reports", int64(1), int64(10), now))

	got, err := repo.Create(context.Background(), &models.Folder{Name: "Reports", UserID: 1, ParentFolderID: ptr(10)})
	require.NoError(t, err)
	require.NotNil(t, got.ParentFolderID)
	assert.Equal(t, int64(10), *got.ParentFolderID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_ForeignKeyViolationIsNotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(insertFolderQuery).
		WithArgs("x", int64(1), int64(99)).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation})

	_, err := repo.Create(context.Background(), &models.Folder{Name: "x", UserID: 1, ParentFolderID: ptr(99)})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGet(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(selectFolderQuery).
		WithArgs(int64(10), int64(1)).
		WillReturnRows(sqlmock.NewRows(folderCols).AddRow(int64(10), "Docs", int64(1), nil, now))

	got, err := repo.Get(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, "Docs", got.Name)
	assert.Equal(t, int64(1), got.UserID)
}

func TestGet_OtherOwnerIsNotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(selectFolderQuery).
		WithArgs(int64(10), int64(2)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), 2, 10)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGet_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(selectFolderQuery).
		WithArgs(int64(10), int64(1)).
		WillReturnError(errors.New("db down"))

	_, err := repo.Get(context.Background(), 1, 10)
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorNotFound)
	assert.Contains(t, err.Error(), "db down")
}

func TestLockAsParent(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(lockFolderQuery).
		WithArgs(int64(10), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(10)))
	mock.ExpectQuery(lockFolderQuery).
		WithArgs(int64(11), int64(1)).
		WillReturnError(sql.ErrNoRows)

	assert.NoError(t, repo.LockAsParent(context.Background(), 1, 10))
	assert.ErrorIs(t, repo.LockAsParent(context.Background(), 1, 11), common.ErrorNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListChildren_Root(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(listRootQuery).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(folderCols).
			AddRow(int64(10), "Docs", int64(1), nil, now).
			AddRow(int64(12), "Photos", int64(1), nil, now))

	got, err := repo.ListChildren(context.Background(), 1, nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Docs", got[0].Name)
	assert.Equal(t, "Photos", got[1].Name)
}

func TestListChildren_Empty(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(listChildrenQuery).
		WithArgs(int64(1), int64(10)).
		WillReturnRows(sqlmock.NewRows(folderCols))

	got, err := repo.ListChildren(context.Background(), 1, ptr(10))
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListChildren_RowError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(listChildrenQuery).
		WithArgs(int64(1), int64(10)).
		WillReturnRows(sqlmock.NewRows(folderCols).
			AddRow(int64(11), "Reports", int64(1), int64(10), now).
			RowError(0, errors.New("broken row")))

	_, err := repo.ListChildren(context.Background(), 1, ptr(10))
	assert.Error(t, err)
}

func TestRename(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(renameFolderQuery).
		WithArgs("Archive", int64(10), int64(1)).
		WillReturnRows(sqlmock.NewRows(folderCols).AddRow(int64(10), "Archive", int64(1), nil, now))

	got, err := repo.Rename(context.Background(), 1, 10, "Archive")
	require.NoError(t, err)
	assert.Equal(t, "Archive", got.Name)
}

func TestRename_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(renameFolderQuery).
		WithArgs("Archive", int64(10), int64(2)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Rename(context.Background(), 2, 10, "Archive")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMove_ToRoot(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(moveFolderQuery).
		WithArgs(nil, int64(11), int64(1)).
		WillReturnRows(sqlmock.NewRows(folderCols).AddRow(int64(11), "Reports", int64(1), nil, now))

	got, err := repo.Move(context.Background(), 1, 11, nil)
	require.NoError(t, err)
	assert.True(t, got.IsRoot())
}

func TestMove_UnderFolder(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(moveFolderQuery).
		WithArgs(int64(12), int64(11), int64(1)).
		WillReturnRows(sqlmock.NewRows(folderCols).AddRow(int64(11), "Reports", int64(1), int64(12), now))

	got, err := repo.Move(context.Background(), 1, 11, ptr(12))
	require.NoError(t, err)
	require.NotNil(t, got.ParentFolderID)
	assert.Equal(t, int64(12), *got.ParentFolderID)
}

func TestIsInSubtree(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(subtreeFolderQuery).
		WithArgs(int64(11), int64(1), int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.IsInSubtree(context.Background(), 1, 10, 11)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsInSubtree_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(subtreeFolderQuery).
		WillReturnError(errors.New("db down"))

	_, err := repo.IsInSubtree(context.Background(), 1, 10, 11)
	assert.ErrorContains(t, err, "db error")
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name    string
		result  sql.Result
		execErr error
		wantErr error
	}{
		{name: "deleted", result: sqlmock.NewResult(0, 1)},
		{name: "missing", result: sqlmock.NewResult(0, 0), wantErr: common.ErrorNotFound},
		{name: "exec error", execErr: errors.New("boom")},
		{name: "rows affected error", result: sqlmock.NewErrorResult(errors.New("ra"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepoWithMock(t)

			exp := mock.ExpectExec(deleteFolderQuery).WithArgs(int64(10), int64(1))
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(tt.result)
			}

			err := repo.Delete(context.Background(), 1, 10)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.execErr != nil || tt.name == "rows affected error":
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
			}
		})
	}
}
