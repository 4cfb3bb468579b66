package repository

import (
	"context"
	"errors"
	"fmt"

	"artsy/internal/apperr"
	"artsy/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound matches apperr.ErrNotFound.
	ErrNotFound = fmt.Errorf("record %w", apperr.ErrNotFound)
	// ErrDuplicate is a unique constraint violation (slug, file name).
	ErrDuplicate = errors.New("duplicate key")
)

type ArticleRepo interface {
	Create(ctx context.Context, a *models.Article) error
	GetBySlug(ctx context.Context, slug string) (*models.Article, error)
	// GetBySlugForUpdate locks the row until the surrounding transaction ends.
	GetBySlugForUpdate(ctx context.Context, slug string) (*models.Article, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Update(ctx context.Context, a *models.Article) error
	IncrementViews(ctx context.Context, id string) (int64, error)
	ToggleFeatured(ctx context.Context, slug string) (bool, error)
	ToggleHidden(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, f models.ArticleFilter) ([]*models.Article, error)
	Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error)
}

type CommentRepo interface {
	Create(ctx context.Context, c *models.Comment) error
	ListByArticle(ctx context.Context, articleID string) ([]*models.Comment, error)
}

type UploadedFileRepo interface {
	Create(ctx context.Context, f *models.UploadedFile) error
	GetByID(ctx context.Context, id string) (*models.UploadedFile, error)
	ListByUser(ctx context.Context, userID string) ([]*models.UploadedFile, error)
	Delete(ctx context.Context, id string) error
}

type UserRepo interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// Store groups the repositories. Inside WithTx every repository obtained
// from tx runs in the same transaction, and the transaction commits only
// when fn returns nil. Errors and panics from fn roll it back.
type Store interface {
	Articles() ArticleRepo
	Comments() CommentRepo
	Files() UploadedFileRepo
	Users() UserRepo
	WithTx(ctx context.Context, fn func(tx Store) error) error
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}
