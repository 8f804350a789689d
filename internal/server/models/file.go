// Package models defines server-side data models persisted in the database.
package models

import "time"

// File is a leaf of a user's tree. Size always equals len(Content) at
// creation; Content is left nil when only metadata was loaded.
type File struct {
	ID       int64
	Name     string
	Size     int64
	MimeType string
	UserID   int64
	// ParentFolderID is nil for files at root level.
	ParentFolderID *int64
	CreatedAt      time.Time

	Content []byte
}

// Metadata returns a copy of f without its content.
func (f *File) Metadata() *File {
	c := *f
	c.Content = nil
	return &c
}
