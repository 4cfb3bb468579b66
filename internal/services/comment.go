package services

import (
	"context"
	"strings"

	"artsy/internal/logger"
	"artsy/internal/models"
	"artsy/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CommentService interface {
	AddComment(ctx context.Context, req models.Requester, slug string, form models.CommentForm) (*models.Comment, error)
}

type commentService struct {
	store repository.Store
}

func NewCommentService(store repository.Store) CommentService {
	return &commentService{store: store}
}

func (s *commentService) AddComment(ctx context.Context, req models.Requester, slug string, form models.CommentForm) (*models.Comment, error) {
	log := logger.WithCtx(ctx)

	form.Text = strings.TrimSpace(form.Text)
	if err := validateCommentForm(&form); err != nil {
		log.Warn("comment rejected", zap.String("slug", slug), zap.Error(err))
		return nil, err
	}
	author, err := requireActiveUser(ctx, s.store.Users(), req)
	if err != nil {
		return nil, err
	}

	a, err := s.store.Articles().GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !canView(a, req) {
		return nil, repository.ErrNotFound
	}

	c := &models.Comment{
		ID:        uuid.NewString(),
		Text:      form.Text,
		AuthorID:  author.ID,
		ArticleID: a.ID,
	}
	if err := s.store.Comments().Create(ctx, c); err != nil {
		log.Error("insert comment failed", zap.String("slug", slug), zap.Error(err))
		return nil, err
	}
	c.AuthorName = author.Name

	log.Info("comment added", zap.String("slug", slug), zap.String("comment_id", c.ID))
	return c, nil
}
