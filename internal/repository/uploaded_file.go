package repository

import (
	"context"

	"artsy/internal/logger"
	"artsy/internal/models"

	"go.uber.org/zap"
)

type UploadedFileRepository struct {
	db DBTX
}

func NewUploadedFileRepository(db DBTX) *UploadedFileRepository {
	return &UploadedFileRepository{db: db}
}

func (r *UploadedFileRepository) Create(ctx context.Context, f *models.UploadedFile) error {
	logger.WithCtx(ctx).Debug("insert uploaded file", zap.String("file_name", f.FileName))
	const q = `
		INSERT INTO uploaded_files (id, url, file_name, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`
	return mapErr(r.db.QueryRow(ctx, q, f.ID, f.URL, f.FileName, f.UserID).Scan(&f.CreatedAt))
}

func (r *UploadedFileRepository) GetByID(ctx context.Context, id string) (*models.UploadedFile, error) {
	const q = `SELECT id, url, file_name, user_id, created_at FROM uploaded_files WHERE id = $1`
	var f models.UploadedFile
	if err := r.db.QueryRow(ctx, q, id).Scan(&f.ID, &f.URL, &f.FileName, &f.UserID, &f.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &f, nil
}

// ListByUser returns the user's files newest first.
func (r *UploadedFileRepository) ListByUser(ctx context.Context, userID string) ([]*models.UploadedFile, error) {
	const q = `
		SELECT id, url, file_name, user_id, created_at
		FROM uploaded_files
		WHERE user_id = $1
		ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []*models.UploadedFile{}
	for rows.Next() {
		var f models.UploadedFile
		if err := rows.Scan(&f.ID, &f.URL, &f.FileName, &f.UserID, &f.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &f)
	}
	return list, rows.Err()
}

func (r *UploadedFileRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM uploaded_files WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
