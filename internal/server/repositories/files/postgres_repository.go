package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/dbx"
	"github.com/dmitrijs2005/gophdrive/internal/server/models"
)

const metadataColumns = "id, name, size, mime_type, user_id, parent_folder_id, created_at"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanMetadata(s dbx.Scanner, extra ...any) (*models.File, error) {
	f := &models.File{}
	var parent sql.NullInt64
	dest := append([]any{&f.ID, &f.Name, &f.Size, &f.MimeType, &f.UserID, &parent, &f.CreatedAt}, extra...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	f.ParentFolderID = dbx.Int64Ptr(parent)
	return f, nil
}

func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) || dbx.IsForeignKeyViolation(err) {
		return common.ErrorNotFound
	}
	return fmt.Errorf("db error: %w", err)
}

func (r *PostgresRepository) Create(ctx context.Context, file *models.File) (*models.File, error) {
	query :=
		`INSERT INTO files (name, content, size, mime_type, user_id, parent_folder_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING ` + metadataColumns

	row := r.db.QueryRowContext(ctx, query,
		file.Name, file.Content, int64(len(file.Content)), file.MimeType, file.UserID, dbx.NullInt64(file.ParentFolderID))

	created, err := scanMetadata(row)
	if err != nil {
		return nil, mapError(err)
	}
	return created, nil
}

func (r *PostgresRepository) GetMetadata(ctx context.Context, userID, id int64) (*models.File, error) {
	query := `SELECT ` + metadataColumns + ` FROM files WHERE id = $1 AND user_id = $2`

	f, err := scanMetadata(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		return nil, mapError(err)
	}
	return f, nil
}

func (r *PostgresRepository) GetWithContent(ctx context.Context, userID, id int64) (*models.File, error) {
	query := `SELECT ` + metadataColumns + `, content FROM files WHERE id = $1 AND user_id = $2`

	var content []byte
	f, err := scanMetadata(r.db.QueryRowContext(ctx, query, id, userID), &content)
	if err != nil {
		return nil, mapError(err)
	}
	if content == nil {
		content = []byte{}
	}
	f.Content = content
	return f, nil
}

func (r *PostgresRepository) ListByParent(ctx context.Context, userID int64, parentID *int64) ([]*models.File, error) {
	query := `SELECT ` + metadataColumns + ` FROM files
		 WHERE user_id = $1 AND parent_folder_id IS NULL
		 ORDER BY id`
	args := []any{userID}
	if parentID != nil {
		query = `SELECT ` + metadataColumns + ` FROM files
		 WHERE user_id = $1 AND parent_folder_id = $2
		 ORDER BY id`
		args = append(args, *parentID)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	result := make([]*models.File, 0)
	for rows.Next() {
		f, err := scanMetadata(rows)
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

func (r *PostgresRepository) Rename(ctx context.Context, userID, id int64, name string) (*models.File, error) {
	query :=
		`UPDATE files SET name = $1
		 WHERE id = $2 AND user_id = $3
		 RETURNING ` + metadataColumns

	f, err := scanMetadata(r.db.QueryRowContext(ctx, query, name, id, userID))
	if err != nil {
		return nil, mapError(err)
	}
	return f, nil
}

func (r *PostgresRepository) Move(ctx context.Context, userID, id int64, parentID *int64) (*models.File, error) {
	query :=
		`UPDATE files SET parent_folder_id = $1
		 WHERE id = $2 AND user_id = $3
		 RETURNING ` + metadataColumns

	f, err := scanMetadata(r.db.QueryRowContext(ctx, query, dbx.NullInt64(parentID), id, userID))
	if err != nil {
		return nil, mapError(err)
	}
	return f, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id int64) error {
	query := `DELETE FROM files WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}

	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
