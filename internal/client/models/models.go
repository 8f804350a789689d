// Package models holds the CLI's view of the API's JSON payloads.
package models

import "time"

type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type Folder struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	ParentFolderID *int64    `json:"parent_folder_id"`
	CreatedAt      time.Time `json:"created_at"`
}

type File struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Size           int64     `json:"size"`
	MimeType       string    `json:"mime_type"`
	ParentFolderID *int64    `json:"parent_folder_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// FolderContents is a listing. Folder is nil for the root.
type FolderContents struct {
	*Folder
	Subfolders []Folder `json:"subfolders"`
	Files      []File   `json:"files"`
}

// Session is what the CLI remembers after a successful login.
type Session struct {
	Email       string
	AccessToken string
	// ExpiresAt is zero when the server did not report a lifetime.
	ExpiresAt time.Time
}

// Expired reports whether s is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
