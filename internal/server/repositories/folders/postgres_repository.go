package folders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/dbx"
	"github.com/dmitrijs2005/gophdrive/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanFolder(s dbx.Scanner) (*models.Folder, error) {
	f := &models.Folder{}
	var parent sql.NullInt64
	if err := s.Scan(&f.ID, &f.Name, &f.UserID, &parent, &f.CreatedAt); err != nil {
		return nil, err
	}
	f.ParentFolderID = dbx.Int64Ptr(parent)
	return f, nil
}

// notFoundOr converts sql.ErrNoRows to common.ErrorNotFound and wraps
// anything else.
func notFoundOr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}
	if dbx.IsForeignKeyViolation(err) {
		return common.ErrorNotFound
	}
	return fmt.Errorf("db error: %w", err)
}

func (r *PostgresRepository) Create(ctx context.Context, folder *models.Folder) (*models.Folder, error) {
	query :=
		`INSERT INTO folders (name, user_id, parent_folder_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, name, user_id, parent_folder_id, created_at`

	row := r.db.QueryRowContext(ctx, query, folder.Name, folder.UserID, dbx.NullInt64(folder.ParentFolderID))
	created, err := scanFolder(row)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return created, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id int64) (*models.Folder, error) {
	query :=
		`SELECT id, name, user_id, parent_folder_id, created_at FROM folders
		 WHERE id = $1 AND user_id = $2`

	f, err := scanFolder(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		return nil, notFoundOr(err)
	}
	return f, nil
}

func (r *PostgresRepository) LockAsParent(ctx context.Context, userID, id int64) error {
	query :=
		`SELECT id FROM folders
		 WHERE id = $1 AND user_id = $2
		 FOR KEY SHARE`

	var got int64
	if err := r.db.QueryRowContext(ctx, query, id, userID).Scan(&got); err != nil {
		return notFoundOr(err)
	}
	return nil
}

func (r *PostgresRepository) ListChildren(ctx context.Context, userID int64, parentID *int64) ([]*models.Folder, error) {
	query :=
		`SELECT id, name, user_id, parent_folder_id, created_at FROM folders
		 WHERE user_id = $1 AND parent_folder_id IS NULL
		 ORDER BY id`
	args := []any{userID}
	if parentID != nil {
		query =
			`SELECT id, name, user_id, parent_folder_id, created_at FROM folders
			 WHERE user_id = $1 AND parent_folder_id = $2
			 ORDER BY id`
		args = append(args, *parentID)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select folders: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Folder, 0)
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, f)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PostgresRepository) Rename(ctx context.Context, userID, id int64, name string) (*models.Folder, error) {
	query :=
		`UPDATE folders SET name = $1
		 WHERE id = $2 AND user_id = $3
		 RETURNING id, name, user_id, parent_folder_id, created_at`

	f, err := scanFolder(r.db.QueryRowContext(ctx, query, name, id, userID))
	if err != nil {
		return nil, notFoundOr(err)
	}
	return f, nil
}

func (r *PostgresRepository) Move(ctx context.Context, userID, id int64, parentID *int64) (*models.Folder, error) {
	query :=
		`UPDATE folders SET parent_folder_id = $1
		 WHERE id = $2 AND user_id = $3
		 RETURNING id, name, user_id, parent_folder_id, created_at`

	f, err := scanFolder(r.db.QueryRowContext(ctx, query, dbx.NullInt64(parentID), id, userID))
	if err != nil {
		return nil, notFoundOr(err)
	}
	return f, nil
}

func (r *PostgresRepository) IsInSubtree(ctx context.Context, userID, rootID, candidateID int64) (bool, error) {
	// walk up from the candidate; the subtree contains it iff rootID is on the path
	query :=
		`WITH RECURSIVE ancestors AS (
			SELECT id, parent_folder_id FROM folders
			WHERE id = $1 AND user_id = $2
			UNION ALL
			SELECT f.id, f.parent_folder_id FROM folders f
			JOIN ancestors a ON f.id = a.parent_folder_id
			WHERE f.user_id = $2
		)
		SELECT EXISTS (SELECT 1 FROM ancestors WHERE id = $3)`

	var found bool
	if err := r.db.QueryRowContext(ctx, query, candidateID, userID, rootID).Scan(&found); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return found, nil
}

// Delete removes the folder; descendant folders and every file in the
// subtree go with it through ON DELETE CASCADE.
func (r *PostgresRepository) Delete(ctx context.Context, userID, id int64) error {
	query := `DELETE FROM folders WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete folder: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}

	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
