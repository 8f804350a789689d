package client

import (
	"context"

	"github.com/dmitrijs2005/gophdrive/internal/client/models"
)

// Client is the CLI's view of the REST API. Storage calls take the bearer
// token explicitly; a nil parentID means the root.
type Client interface {
	Ping(ctx context.Context) error
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.Token, error)

	ListRoot(ctx context.Context, token string) (*models.FolderContents, error)
	GetFolder(ctx context.Context, token string, id int64) (*models.FolderContents, error)
	CreateFolder(ctx context.Context, token, name string, parentID *int64) (*models.Folder, error)
	RenameFolder(ctx context.Context, token string, id int64, name string) (*models.Folder, error)
	MoveFolder(ctx context.Context, token string, id int64, parentID *int64) (*models.Folder, error)
	DeleteFolder(ctx context.Context, token string, id int64) error

	UploadFile(ctx context.Context, token, name string, content []byte, parentID *int64) (*models.File, error)
	GetFile(ctx context.Context, token string, id int64) (*models.File, error)
	DownloadFile(ctx context.Context, token string, id int64) (*models.File, []byte, error)
	RenameFile(ctx context.Context, token string, id int64, name string) (*models.File, error)
	MoveFile(ctx context.Context, token string, id int64, parentID *int64) (*models.File, error)
	DeleteFile(ctx context.Context, token string, id int64) error
}
