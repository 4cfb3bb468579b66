package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"artsy/internal/apperr"
	"artsy/internal/logger"
	"artsy/internal/media"
	"artsy/internal/models"
	"artsy/internal/repository"
	"artsy/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type FileService interface {
	Upload(ctx context.Context, req models.Requester, upload models.ImageUpload) (*models.UploadedFile, error)
	ListUserFiles(ctx context.Context, req models.Requester) ([]*models.UploadedFile, error)
	DeleteFile(ctx context.Context, req models.Requester, id string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

type fileService struct {
	store   repository.Store
	images  ImageIngestor
	objects storage.ObjectStore
}

func NewFileService(store repository.Store, images ImageIngestor, objects storage.ObjectStore) FileService {
	return &fileService{store: store, images: images, objects: objects}
}

// Upload stores the image with default compression and then records it.
func (s *fileService) Upload(ctx context.Context, req models.Requester, upload models.ImageUpload) (*models.UploadedFile, error) {
	log := logger.WithCtx(ctx)
	log.Info("upload image", zap.String("name", upload.OriginalName), zap.Int("bytes", len(upload.Data)))

	if _, err := requireActiveUser(ctx, s.store.Users(), req); err != nil {
		return nil, err
	}
	if len(upload.Data) == 0 {
		return nil, apperr.NewValidationError(map[string]string{"image": "file is empty"}, nil)
	}

	stored, err := s.images.Ingest(ctx, upload.Data, upload.OriginalName, media.Options{})
	if err != nil {
		log.Warn("image ingest failed", zap.Error(err))
		return nil, err
	}

	f := &models.UploadedFile{
		ID:       uuid.NewString(),
		URL:      stored.PublicURL,
		FileName: stored.StorageKey,
		UserID:   req.UserID,
	}
	if err := s.store.Files().Create(ctx, f); err != nil {
		if derr := s.images.Discard(context.WithoutCancel(ctx), stored.StorageKey); derr != nil {
			log.Error("orphaned object left in store", zap.String("key", stored.StorageKey), zap.Error(derr))
		}
		log.Error("insert uploaded file failed", zap.Error(err))
		return nil, err
	}
	return f, nil
}

func (s *fileService) ListUserFiles(ctx context.Context, req models.Requester) ([]*models.UploadedFile, error) {
	if !req.Authenticated() {
		return nil, fmt.Errorf("%w: authentication required", apperr.ErrForbidden)
	}
	return s.store.Files().ListByUser(ctx, req.UserID)
}

// DeleteFile removes the object first and the record only once the store
// confirmed. A failed object delete keeps the record.
func (s *fileService) DeleteFile(ctx context.Context, req models.Requester, id string) error {
	log := logger.WithCtx(ctx)

	if !req.Authenticated() {
		return fmt.Errorf("%w: authentication required", apperr.ErrForbidden)
	}
	f, err := s.store.Files().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if f.UserID != req.UserID {
		log.Warn("delete of foreign file", zap.String("file_id", id))
		return fmt.Errorf("%w: not the owner", apperr.ErrForbidden)
	}

	if err := s.objects.Delete(ctx, f.FileName); err != nil {
		log.Error("object delete failed, keeping record", zap.String("key", f.FileName), zap.Error(err))
		return fmt.Errorf("%w: %v", apperr.ErrStorageDeleteFailed, err)
	}
	if err := s.store.Files().Delete(ctx, id); err != nil {
		log.Error("record delete failed after object removal", zap.String("file_id", id), zap.Error(err))
		return err
	}

	log.Info("file deleted", zap.String("file_id", id), zap.String("key", f.FileName))
	return nil
}

func (s *fileService) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	rc, err := s.objects.GetStream(ctx, key)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, fmt.Errorf("file %w", apperr.ErrNotFound)
	}
	return rc, err
}
