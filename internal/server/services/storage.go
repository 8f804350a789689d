package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/dbx"
	"github.com/dmitrijs2005/gophdrive/internal/server/models"
	"github.com/dmitrijs2005/gophdrive/internal/server/repositories/repomanager"
)

// StorageService manages a user's folders and files. Every method acts on
// behalf of userID only and runs as one transaction.
type StorageService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cache       *MetadataCache
}

// NewStorageService builds the service; cache may be nil.
func NewStorageService(db *sql.DB, m repomanager.RepositoryManager, cache *MetadataCache) *StorageService {
	return &StorageService{db: db, repomanager: m, cache: cache}
}

func requireName(kind, name string) error {
	if name == "" {
		return fmt.Errorf("%w: %s name is required", common.ErrorInvalidInput, kind)
	}
	return nil
}

// lockParent checks that parentID (if any) is a folder of userID and keeps it
// from being deleted until tx ends.
func (s *StorageService) lockParent(ctx context.Context, tx dbx.DBTX, userID int64, parentID *int64) error {
	if parentID == nil {
		return nil
	}
	if err := s.repomanager.Folders(tx).LockAsParent(ctx, userID, *parentID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("parent folder %d: %w", *parentID, common.ErrorNotFound)
		}
		return err
	}
	return nil
}

func (s *StorageService) CreateFolder(ctx context.Context, userID int64, name string, parentID *int64) (*models.Folder, error) {
	if err := requireName("folder", name); err != nil {
		return nil, err
	}

	return dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.Folder, error) {
		if err := s.lockParent(ctx, tx, userID, parentID); err != nil {
			return nil, err
		}
		f, err := s.repomanager.Folders(tx).Create(ctx, &models.Folder{Name: name, UserID: userID, ParentFolderID: parentID})
		if err != nil {
			return nil, fmt.Errorf("create folder: %w", err)
		}
		return f, nil
	})
}

func (s *StorageService) listContents(ctx context.Context, tx dbx.DBTX, userID int64, parentID *int64) (*models.FolderContents, error) {
	subfolders, err := s.repomanager.Folders(tx).ListChildren(ctx, userID, parentID)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	files, err := s.repomanager.Files(tx).ListByParent(ctx, userID, parentID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return &models.FolderContents{Subfolders: subfolders, Files: files}, nil
}

// GetFolder returns the folder with its direct subfolders and files.
func (s *StorageService) GetFolder(ctx context.Context, userID, id int64) (*models.FolderContents, error) {
	return dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.FolderContents, error) {
		folder, err := s.repomanager.Folders(tx).Get(ctx, userID, id)
		if err != nil {
			return nil, fmt.Errorf("folder %d: %w", id, err)
		}
		contents, err := s.listContents(ctx, tx, userID, &folder.ID)
		if err != nil {
			return nil, err
		}
		contents.Folder = folder
		return contents, nil
	})
}

// ListRoot returns the caller's root-level folders and files.
func (s *StorageService) ListRoot(ctx context.Context, userID int64) (*models.FolderContents, error) {
	return dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.FolderContents, error) {
		return s.listContents(ctx, tx, userID, nil)
	})
}

func (s *StorageService) RenameFolder(ctx context.Context, userID, id int64, name string) (*models.Folder, error) {
	if err := requireName("folder", name); err != nil {
		return nil, err
	}

	return dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.Folder, error) {
		f, err := s.repomanager.Folders(tx).Rename(ctx, userID, id, name)
		if err != nil {
			return nil, fmt.Errorf("folder %d: %w", id, err)
		}
		return f, nil
	})
}

// MoveFolder reparents a folder; a nil newParentID moves it to root. Moving a
// folder into itself or into one of its descendants is rejected.
func (s *StorageService) MoveFolder(ctx context.Context, userID, id int64, newParentID *int64) (*models.Folder, error) {
	f, err := dbx.WithTxValue(ctx, s.db, dbx.Serializable, func(ctx context.Context, tx dbx.DBTX) (*models.Folder, error) {
		repo := s.repomanager.Folders(tx)

		if _, err := repo.Get(ctx, userID, id); err != nil {
			return nil, fmt.Errorf("folder %d: %w", id, err)
		}

		if newParentID != nil {
			if err := s.lockParent(ctx, tx, userID, newParentID); err != nil {
				return nil, err
			}
			cycle, err := repo.IsInSubtree(ctx, userID, id, *newParentID)
			if err != nil {
				return nil, err
			}
			if cycle {
				return nil, fmt.Errorf("%w: folder %d cannot be moved into its own subtree", common.ErrorInvalidInput, id)
			}
		}

		moved, err := repo.Move(ctx, userID, id, newParentID)
		if err != nil {
			return nil, fmt.Errorf("move folder %d: %w", id, err)
		}
		return moved, nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.PurgeOwner(userID)
	return f, nil
}

// DeleteFolder removes the folder with everything below it.
func (s *StorageService) DeleteFolder(ctx context.Context, userID, id int64) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Folders(tx).Delete(ctx, userID, id); err != nil {
			return fmt.Errorf("folder %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cache.PurgeOwner(userID)
	return nil
}

// UploadFile stores content as a new file. Size is len(content) and the
// MIME type is inferred from name.
func (s *StorageService) UploadFile(ctx context.Context, userID int64, name string, content []byte, parentID *int64) (*models.File, error) {
	if err := requireName("file", name); err != nil {
		return nil, err
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: file content is required", common.ErrorInvalidInput)
	}

	gen := s.cache.Generation(userID)
	f, err := dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.File, error) {
		if err := s.lockParent(ctx, tx, userID, parentID); err != nil {
			return nil, err
		}
		created, err := s.repomanager.Files(tx).Create(ctx, &models.File{
			Name:           name,
			Size:           int64(len(content)),
			MimeType:       inferMimeType(name),
			UserID:         userID,
			ParentFolderID: parentID,
			Content:        content,
		})
		if err != nil {
			return nil, fmt.Errorf("create file: %w", err)
		}
		return created, nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Put(f, gen)
	return f, nil
}

func (s *StorageService) GetFileMetadata(ctx context.Context, userID, id int64) (*models.File, error) {
	gen := s.cache.Generation(userID)
	if f, ok := s.cache.Get(userID, id); ok {
		return f, nil
	}

	f, err := dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.File, error) {
		f, err := s.repomanager.Files(tx).GetMetadata(ctx, userID, id)
		if err != nil {
			return nil, fmt.Errorf("file %d: %w", id, err)
		}
		return f, nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Put(f, gen)
	return f, nil
}

// DownloadFile returns metadata together with the stored bytes.
func (s *StorageService) DownloadFile(ctx context.Context, userID, id int64) (*models.File, error) {
	return dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.File, error) {
		f, err := s.repomanager.Files(tx).GetWithContent(ctx, userID, id)
		if err != nil {
			return nil, fmt.Errorf("file %d: %w", id, err)
		}
		return f, nil
	})
}

func (s *StorageService) RenameFile(ctx context.Context, userID, id int64, name string) (*models.File, error) {
	if err := requireName("file", name); err != nil {
		return nil, err
	}

	f, err := dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.File, error) {
		f, err := s.repomanager.Files(tx).Rename(ctx, userID, id, name)
		if err != nil {
			return nil, fmt.Errorf("file %d: %w", id, err)
		}
		return f, nil
	})
	s.cache.Remove(userID, id)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// MoveFile moves a file under newParentID, or to root when it is nil.
func (s *StorageService) MoveFile(ctx context.Context, userID, id int64, newParentID *int64) (*models.File, error) {
	f, err := dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.File, error) {
		repo := s.repomanager.Files(tx)

		if _, err := repo.GetMetadata(ctx, userID, id); err != nil {
			return nil, fmt.Errorf("file %d: %w", id, err)
		}
		if err := s.lockParent(ctx, tx, userID, newParentID); err != nil {
			return nil, err
		}

		moved, err := repo.Move(ctx, userID, id, newParentID)
		if err != nil {
			return nil, fmt.Errorf("move file %d: %w", id, err)
		}
		return moved, nil
	})
	s.cache.Remove(userID, id)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s *StorageService) DeleteFile(ctx context.Context, userID, id int64) error {
	defer s.cache.Remove(userID, id)

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Files(tx).Delete(ctx, userID, id); err != nil {
			return fmt.Errorf("file %d: %w", id, err)
		}
		return nil
	})
}
