package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophdrive/internal/client/client"
	"github.com/dmitrijs2005/gophdrive/internal/client/models"
)

// DriveService runs folder and file operations with the stored session's
// token. A 401 from the server drops the session, so the user is asked to
// log in again instead of retrying with a dead token.
type DriveService interface {
	List(ctx context.Context, folderID *int64) (*models.FolderContents, error)
	MakeDir(ctx context.Context, name string, parentID *int64) (*models.Folder, error)
	RenameFolder(ctx context.Context, id int64, name string) (*models.Folder, error)
	MoveFolder(ctx context.Context, id int64, parentID *int64) (*models.Folder, error)
	RemoveFolder(ctx context.Context, id int64) error

	Upload(ctx context.Context, name string, content []byte, parentID *int64) (*models.File, error)
	Info(ctx context.Context, id int64) (*models.File, error)
	Download(ctx context.Context, id int64) (*models.File, []byte, error)
	RenameFile(ctx context.Context, id int64, name string) (*models.File, error)
	MoveFile(ctx context.Context, id int64, parentID *int64) (*models.File, error)
	RemoveFile(ctx context.Context, id int64) error
}

type driveService struct {
	client client.Client
	auth   AuthService
}

func NewDriveService(c client.Client, auth AuthService) DriveService {
	return &driveService{client: c, auth: auth}
}

// withToken is the common path of every call: load session, call, and
// forget the session if the server no longer accepts it.
func withToken[T any](ctx context.Context, d *driveService, call func(token string) (T, error)) (T, error) {
	var zero T

	s, err := d.auth.Session(ctx)
	if err != nil {
		return zero, err
	}

	v, err := call(s.AccessToken)
	if errors.Is(err, client.ErrUnauthorized) {
		if lerr := d.auth.Logout(ctx); lerr != nil {
			return zero, fmt.Errorf("%w (clearing session: %v)", err, lerr)
		}
		return zero, fmt.Errorf("%w: session expired, please login again", ErrNotLoggedIn)
	}
	return v, err
}

func (d *driveService) List(ctx context.Context, folderID *int64) (*models.FolderContents, error) {
	return withToken(ctx, d, func(token string) (*models.FolderContents, error) {
		if folderID == nil {
			return d.client.ListRoot(ctx, token)
		}
		return d.client.GetFolder(ctx, token, *folderID)
	})
}

func (d *driveService) MakeDir(ctx context.Context, name string, parentID *int64) (*models.Folder, error) {
	return withToken(ctx, d, func(token string) (*models.Folder, error) {
		return d.client.CreateFolder(ctx, token, name, parentID)
	})
}

func (d *driveService) RenameFolder(ctx context.Context, id int64, name string) (*models.Folder, error) {
	return withToken(ctx, d, func(token string) (*models.Folder, error) {
		return d.client.RenameFolder(ctx, token, id, name)
	})
}

func (d *driveService) MoveFolder(ctx context.Context, id int64, parentID *int64) (*models.Folder, error) {
	return withToken(ctx, d, func(token string) (*models.Folder, error) {
		return d.client.MoveFolder(ctx, token, id, parentID)
	})
}

func (d *driveService) RemoveFolder(ctx context.Context, id int64) error {
	_, err := withToken(ctx, d, func(token string) (struct{}, error) {
		return struct{}{}, d.client.DeleteFolder(ctx, token, id)
	})
	return err
}

func (d *driveService) Upload(ctx context.Context, name string, content []byte, parentID *int64) (*models.File, error) {
	return withToken(ctx, d, func(token string) (*models.File, error) {
		return d.client.UploadFile(ctx, token, name, content, parentID)
	})
}

func (d *driveService) Info(ctx context.Context, id int64) (*models.File, error) {
	return withToken(ctx, d, func(token string) (*models.File, error) {
		return d.client.GetFile(ctx, token, id)
	})
}

type download struct {
	file    *models.File
	content []byte
}

func (d *driveService) Download(ctx context.Context, id int64) (*models.File, []byte, error) {
	res, err := withToken(ctx, d, func(token string) (download, error) {
		f, content, err := d.client.DownloadFile(ctx, token, id)
		return download{f, content}, err
	})
	if err != nil {
		return nil, nil, err
	}
	return res.file, res.content, nil
}

func (d *driveService) RenameFile(ctx context.Context, id int64, name string) (*models.File, error) {
	return withToken(ctx, d, func(token string) (*models.File, error) {
		return d.client.RenameFile(ctx, token, id, name)
	})
}

func (d *driveService) MoveFile(ctx context.Context, id int64, parentID *int64) (*models.File, error) {
	return withToken(ctx, d, func(token string) (*models.File, error) {
		return d.client.MoveFile(ctx, token, id, parentID)
	})
}

func (d *driveService) RemoveFile(ctx context.Context, id int64) error {
	_, err := withToken(ctx, d, func(token string) (struct{}, error) {
		return struct{}{}, d.client.DeleteFile(ctx, token, id)
	})
	return err
}
