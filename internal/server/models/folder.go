package models

import "time"

// Folder is an inner node of a user's tree.
type Folder struct {
	ID     int64
	Name   string
	UserID int64
	// ParentFolderID is nil for root-level folders.
	ParentFolderID *int64
	CreatedAt      time.Time
}

// IsRoot reports whether the folder sits at root level.
func (f *Folder) IsRoot() bool {
	return f.ParentFolderID == nil
}

// FolderContents is a folder together with its direct children. Folder is
// nil when the listing describes the caller's root level.
type FolderContents struct {
	Folder     *Folder
	Subfolders []*Folder
	// Files carry metadata only.
	Files []*File
}
