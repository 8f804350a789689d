package client

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/client/models"
	"github.com/dmitrijs2005/gophdrive/internal/netx"
)

// HTTPClient implements Client over the JSON API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type nameBody struct {
	Name string `json:"name"`
}

type parentBody struct {
	ParentFolderID *int64 `json:"parent_folder_id"`
}

type createFolderBody struct {
	Name           string `json:"name"`
	ParentFolderID *int64 `json:"parent_folder_id"`
}

type uploadBody struct {
	Name           string `json:"name"`
	Content        string `json:"content"`
	ParentFolderID *int64 `json:"parent_folder_id"`
}

type downloadBody struct {
	models.File
	Content string `json:"content"`
}

func (c *HTTPClient) do(ctx context.Context, method, path, token string, in, out any) error {
	err := netx.DoJSON(ctx, c.http, netx.Request{
		Method: method,
		URL:    c.baseURL + path,
		Token:  token,
		In:     in,
		Out:    out,
	})
	return mapError(err)
}

// mapError turns transport and status failures into this package's
// sentinels, keeping the server's message.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var se *netx.StatusError
	if !errors.As(err, &se) {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	switch se.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, se.Message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, se.Message)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrInvalidInput, se.Message)
	case http.StatusRequestEntityTooLarge:
		return fmt.Errorf("%w: %s", ErrTooLarge, se.Message)
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %s", ErrUnavailable, se.Message)
	}
	return se
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health/live", "", nil, nil)
}

func (c *HTTPClient) Register(ctx context.Context, email, password string) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodPost, "/auth/register", "", credentials{email, password}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.Token, error) {
	var t models.Token
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", credentials{email, password}, &t); err != nil {
		return nil, err
	}
	if t.AccessToken == "" {
		return nil, fmt.Errorf("%w: empty token in login response", ErrUnavailable)
	}
	return &t, nil
}

func (c *HTTPClient) ListRoot(ctx context.Context, token string) (*models.FolderContents, error) {
	var fc models.FolderContents
	if err := c.do(ctx, http.MethodGet, "/folders/", token, nil, &fc); err != nil {
		return nil, err
	}
	return &fc, nil
}

func (c *HTTPClient) GetFolder(ctx context.Context, token string, id int64) (*models.FolderContents, error) {
	var fc models.FolderContents
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/folders/%d", id), token, nil, &fc); err != nil {
		return nil, err
	}
	return &fc, nil
}

func (c *HTTPClient) CreateFolder(ctx context.Context, token, name string, parentID *int64) (*models.Folder, error) {
	var f models.Folder
	if err := c.do(ctx, http.MethodPost, "/folders/", token, createFolderBody{name, parentID}, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *HTTPClient) RenameFolder(ctx context.Context, token string, id int64, name string) (*models.Folder, error) {
	var f models.Folder
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/folders/%d", id), token, nameBody{name}, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *HTTPClient) MoveFolder(ctx context.Context, token string, id int64, parentID *int64) (*models.Folder, error) {
	var f models.Folder
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/folders/%d/move", id), token, parentBody{parentID}, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *HTTPClient) DeleteFolder(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/folders/%d", id), token, nil, nil)
}

func (c *HTTPClient) UploadFile(ctx context.Context, token, name string, content []byte, parentID *int64) (*models.File, error) {
	body := uploadBody{
		Name:           name,
		Content:        base64.StdEncoding.EncodeToString(content),
		ParentFolderID: parentID,
	}

	var f models.File
	if err := c.do(ctx, http.MethodPost, "/files/", token, body, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *HTTPClient) GetFile(ctx context.Context, token string, id int64) (*models.File, error) {
	var f models.File
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/files/%d", id), token, nil, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *HTTPClient) DownloadFile(ctx context.Context, token string, id int64) (*models.File, []byte, error) {
	var d downloadBody
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/files/%d/download", id), token, nil, &d); err != nil {
		return nil, nil, err
	}

	content, err := base64.StdEncoding.DecodeString(d.Content)
	if err != nil {
		return nil, nil, fmt.Errorf("decode content: %w", err)
	}
	return &d.File, content, nil
}

func (c *HTTPClient) RenameFile(ctx context.Context, token string, id int64, name string) (*models.File, error) {
	var f models.File
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/files/%d", id), token, nameBody{name}, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *HTTPClient) MoveFile(ctx context.Context, token string, id int64, parentID *int64) (*models.File, error) {
	var f models.File
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/files/%d/move", id), token, parentBody{parentID}, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *HTTPClient) DeleteFile(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/files/%d", id), token, nil, nil)
}
