package services

import (
	"context"
	"errors"
	"fmt"

	"artsy/internal/apperr"
	"artsy/internal/logger"
	"artsy/internal/models"
	"artsy/internal/repository"

	"go.uber.org/zap"
)

// requireActiveUser loads the requester and rejects anonymous or banned users.
func requireActiveUser(ctx context.Context, users repository.UserRepo, req models.Requester) (*models.User, error) {
	if !req.Authenticated() {
		return nil, fmt.Errorf("%w: authentication required", apperr.ErrForbidden)
	}
	u, err := users.GetByID(ctx, req.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: unknown user", apperr.ErrForbidden)
	}
	if err != nil {
		return nil, err
	}
	if u.IsBanned {
		logger.WithCtx(ctx).Warn("banned user blocked", zap.String("user_id", u.ID))
		return nil, fmt.Errorf("%w: user is banned", apperr.ErrForbidden)
	}
	return u, nil
}

// canView hides moderated articles from everyone but moderators, and drafts
// from everyone but their author and moderators.
func canView(a *models.Article, req models.Requester) bool {
	if req.CanModerate() {
		return true
	}
	if a.Hidden {
		return false
	}
	return a.Published || (req.Authenticated() && a.AuthorID == req.UserID)
}

func canEdit(a *models.Article, req models.Requester) bool {
	return req.CanModerate() || (req.Authenticated() && a.AuthorID == req.UserID)
}

// checkEditable gates both loading an article into the editor and saving it.
// Articles the requester cannot see are reported as missing.
func checkEditable(a *models.Article, req models.Requester) error {
	if !canView(a, req) {
		return repository.ErrNotFound
	}
	if !canEdit(a, req) {
		return fmt.Errorf("%w: not the author", apperr.ErrForbidden)
	}
	return nil
}
