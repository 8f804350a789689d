package rest

import (
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/server/models"
)

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in,omitempty"`
}

type CreateFolderRequest struct {
	Name           string `json:"name"`
	ParentFolderID *int64 `json:"parent_folder_id"`
}

type RenameRequest struct {
	Name string `json:"name"`
}

// MoveRequest moves to root when ParentFolderID is null or absent.
type MoveRequest struct {
	ParentFolderID *int64 `json:"parent_folder_id"`
}

type UploadFileRequest struct {
	Name string `json:"name"`
	// Content is base64 (standard alphabet, padded).
	Content        string `json:"content"`
	ParentFolderID *int64 `json:"parent_folder_id"`
}

type FolderResponse struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	ParentFolderID *int64    `json:"parent_folder_id"`
	CreatedAt      time.Time `json:"created_at"`
}

type FileResponse struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Size           int64     `json:"size"`
	MimeType       string    `json:"mime_type"`
	ParentFolderID *int64    `json:"parent_folder_id"`
	CreatedAt      time.Time `json:"created_at"`
}

type DownloadResponse struct {
	FileResponse
	Content string `json:"content"`
}

// FolderContentsResponse flattens the folder's own fields next to its
// children; for the root listing only the children are present.
type FolderContentsResponse struct {
	*FolderResponse
	Subfolders []FolderResponse `json:"subfolders"`
	Files      []FileResponse   `json:"files"`
}

func toFolderResponse(f *models.Folder) FolderResponse {
	return FolderResponse{
		ID:             f.ID,
		Name:           f.Name,
		ParentFolderID: f.ParentFolderID,
		CreatedAt:      f.CreatedAt,
	}
}

func toFileResponse(f *models.File) FileResponse {
	return FileResponse{
		ID:             f.ID,
		Name:           f.Name,
		Size:           f.Size,
		MimeType:       f.MimeType,
		ParentFolderID: f.ParentFolderID,
		CreatedAt:      f.CreatedAt,
	}
}

func toFolderContentsResponse(c *models.FolderContents) FolderContentsResponse {
	resp := FolderContentsResponse{
		Subfolders: make([]FolderResponse, 0, len(c.Subfolders)),
		Files:      make([]FileResponse, 0, len(c.Files)),
	}
	if c.Folder != nil {
		f := toFolderResponse(c.Folder)
		resp.FolderResponse = &f
	}
	for _, sf := range c.Subfolders {
		resp.Subfolders = append(resp.Subfolders, toFolderResponse(sf))
	}
	for _, f := range c.Files {
		resp.Files = append(resp.Files, toFileResponse(f))
	}
	return resp
}
