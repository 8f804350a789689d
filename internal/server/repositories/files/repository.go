package files

import (
	"context"

	"github.com/dmitrijs2005/gophdrive/internal/server/models"
)

// Repository stores files. Methods are owner-scoped the same way as
// folders.Repository; reads other than GetWithContent never load content.
type Repository interface {
	Create(ctx context.Context, file *models.File) (*models.File, error)
	GetMetadata(ctx context.Context, userID, id int64) (*models.File, error)
	GetWithContent(ctx context.Context, userID, id int64) (*models.File, error)
	ListByParent(ctx context.Context, userID int64, parentID *int64) ([]*models.File, error)
	Rename(ctx context.Context, userID, id int64, name string) (*models.File, error)
	Move(ctx context.Context, userID, id int64, parentID *int64) (*models.File, error)
	Delete(ctx context.Context, userID, id int64) error
}
