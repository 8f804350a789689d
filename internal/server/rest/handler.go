// Package rest is the HTTP/JSON boundary of the server: routing, request
// decoding, base64 for file content, and mapping of service errors to
// status codes.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/logging"
	"github.com/dmitrijs2005/gophdrive/internal/server/auth"
	"github.com/dmitrijs2005/gophdrive/internal/server/models"
)

// UserService is implemented by *services.UserService.
type UserService interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
}

// StorageService is implemented by *services.StorageService.
type StorageService interface {
	CreateFolder(ctx context.Context, userID int64, name string, parentID *int64) (*models.Folder, error)
	GetFolder(ctx context.Context, userID, id int64) (*models.FolderContents, error)
	ListRoot(ctx context.Context, userID int64) (*models.FolderContents, error)
	RenameFolder(ctx context.Context, userID, id int64, name string) (*models.Folder, error)
	MoveFolder(ctx context.Context, userID, id int64, newParentID *int64) (*models.Folder, error)
	DeleteFolder(ctx context.Context, userID, id int64) error

	UploadFile(ctx context.Context, userID int64, name string, content []byte, parentID *int64) (*models.File, error)
	GetFileMetadata(ctx context.Context, userID, id int64) (*models.File, error)
	DownloadFile(ctx context.Context, userID, id int64) (*models.File, error)
	RenameFile(ctx context.Context, userID, id int64, name string) (*models.File, error)
	MoveFile(ctx context.Context, userID, id int64, newParentID *int64) (*models.File, error)
	DeleteFile(ctx context.Context, userID, id int64) error
}

type Handler struct {
	users    UserService
	storage  StorageService
	logger   logging.Logger
	tokenTTL int64
}

func NewHandler(users UserService, storage StorageService, logger logging.Logger) *Handler {
	return &Handler{
		users:   users,
		storage: storage,
		logger:  logger.With("module", "rest"),
	}
}

// WithTokenTTL makes login responses report expires_in.
func (h *Handler) WithTokenTTL(seconds int64) *Handler {
	h.tokenTTL = seconds
	return h
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return fmt.Errorf("%w: malformed JSON body", common.ErrorInvalidInput)
	}
	return nil
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: id must be an integer, got %q", common.ErrorInvalidInput, raw)
	}
	return id, nil
}

// callerID is set by RequireAuth; its absence is a wiring bug.
func callerID(r *http.Request) (int64, error) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		return 0, errors.New("no identity in request context")
	}
	return id.UserID, nil
}

// target returns the caller and the {id} parameter.
func target(r *http.Request) (userID, id int64, err error) {
	if userID, err = callerID(r); err != nil {
		return 0, 0, err
	}
	if id, err = pathID(r); err != nil {
		return 0, 0, err
	}
	return userID, id, nil
}
