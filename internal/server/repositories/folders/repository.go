package folders

import (
	"context"

	"github.com/dmitrijs2005/gophdrive/internal/server/models"
)

// Repository stores folders. Every method is scoped to userID: rows owned
// by anyone else behave exactly like missing rows.
type Repository interface {
	Create(ctx context.Context, folder *models.Folder) (*models.Folder, error)
	Get(ctx context.Context, userID, id int64) (*models.Folder, error)
	// LockAsParent checks that the folder exists for userID and holds a key
	// share lock on it until the transaction ends.
	LockAsParent(ctx context.Context, userID, id int64) error
	ListChildren(ctx context.Context, userID int64, parentID *int64) ([]*models.Folder, error)
	Rename(ctx context.Context, userID, id int64, name string) (*models.Folder, error)
	Move(ctx context.Context, userID, id int64, parentID *int64) (*models.Folder, error)
	// IsInSubtree reports whether candidateID is rootID or one of its descendants.
	IsInSubtree(ctx context.Context, userID, rootID, candidateID int64) (bool, error)
	Delete(ctx context.Context, userID, id int64) error
}
