package services

import (
	"context"
	"errors"
	"fmt"

	"artsy/internal/apperr"
	"artsy/internal/logger"
	"artsy/internal/media"
	"artsy/internal/models"
	"artsy/internal/repository"
	"artsy/internal/slug"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	popularLimit = 5
	latestLimit  = 10
)

type ArticleService interface {
	Create(ctx context.Context, req models.Requester, form models.ArticleForm, img *models.ImageUpload) (*models.Article, error)
	Update(ctx context.Context, req models.Requester, slug string, form models.ArticleForm, img *models.ImageUpload) (*models.Article, error)
	GetForEdit(ctx context.Context, req models.Requester, slug string) (*models.Article, error)
	View(ctx context.Context, req models.Requester, slug string) (*models.ArticleView, error)
	Home(ctx context.Context, req models.Requester) (*models.HomePage, error)
	ListAll(ctx context.Context, req models.Requester) ([]*models.Article, error)
	MyArticles(ctx context.Context, req models.Requester) ([]*models.Article, error)
	ToggleFeatured(ctx context.Context, req models.Requester, slug string) (bool, error)
	ToggleHidden(ctx context.Context, req models.Requester, slug string) (bool, error)
	Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error)
	Preview(ctx context.Context, content string) (string, error)
}

// ImageIngestor stores normalized images; Discard undoes an Ingest whose
// record never got written.
type ImageIngestor interface {
	Ingest(ctx context.Context, payload []byte, originalName string, opts media.Options) (*media.Result, error)
	Discard(ctx context.Context, key string) error
}

type ArticleDeps struct {
	Store       repository.Store
	Slugs       *slug.Allocator
	Images      ImageIngestor
	Content     *ContentPipeline
	Site        SiteInfo
	HeaderImage media.Resize
}

type articleService struct {
	store   repository.Store
	slugs   *slug.Allocator
	images  ImageIngestor
	content *ContentPipeline
	site    SiteInfo
	header  media.Resize
}

func NewArticleService(d ArticleDeps) ArticleService {
	if d.Slugs == nil {
		d.Slugs = slug.NewAllocator()
	}
	return &articleService{
		store:   d.Store,
		slugs:   d.Slugs,
		images:  d.Images,
		content: d.Content,
		site:    d.Site,
		header:  d.HeaderImage,
	}
}

func (s *articleService) Create(ctx context.Context, req models.Requester, form models.ArticleForm, img *models.ImageUpload) (*models.Article, error) {
	log := logger.WithCtx(ctx)
	form = normalizeArticleForm(form)
	log.Info("create article", zap.String("title", form.Title), zap.Bool("publish", form.Publish()), zap.Bool("with_image", img != nil))

	if err := validateArticleForm(&form); err != nil {
		log.Warn("article form rejected", zap.Error(err))
		return nil, err
	}
	if _, err := requireActiveUser(ctx, s.store.Users(), req); err != nil {
		return nil, err
	}

	stored, err := s.ingestHeader(ctx, img)
	if err != nil {
		return nil, err
	}

	a := &models.Article{
		ID:        uuid.NewString(),
		Title:     form.Title,
		Content:   form.Content,
		Excerpt:   optionalString(form.Excerpt),
		Published: form.Publish(),
		AuthorID:  req.UserID,
	}
	if stored != nil {
		a.HeaderImageURL = &stored.PublicURL
	}

	err = s.retryOnDuplicate(ctx, func() error {
		return s.store.WithTx(ctx, func(tx repository.Store) error {
			next, err := s.slugs.Allocate(ctx, tx.Articles(), a.Title)
			if err != nil {
				return err
			}
			a.Slug = next
			if err := s.recordUpload(ctx, tx, stored, req.UserID); err != nil {
				return err
			}
			return tx.Articles().Create(ctx, a)
		})
	})
	if err != nil {
		s.discard(ctx, stored)
		log.Error("create article failed", zap.Error(err))
		return nil, err
	}

	log.Info("article created", zap.String("id", a.ID), zap.String("slug", a.Slug))
	return a, nil
}

func (s *articleService) Update(ctx context.Context, req models.Requester, slugParam string, form models.ArticleForm, img *models.ImageUpload) (*models.Article, error) {
	log := logger.WithCtx(ctx)
	form = normalizeArticleForm(form)
	log.Info("update article", zap.String("slug", slugParam), zap.String("title", form.Title))

	if err := validateArticleForm(&form); err != nil {
		log.Warn("article form rejected", zap.Error(err))
		return nil, err
	}
	if _, err := requireActiveUser(ctx, s.store.Users(), req); err != nil {
		return nil, err
	}

	current, err := s.store.Articles().GetBySlug(ctx, slugParam)
	if err != nil {
		return nil, err
	}
	if err := checkEditable(current, req); err != nil {
		log.Warn("edit rejected", zap.String("slug", slugParam), zap.Error(err))
		return nil, err
	}

	stored, err := s.ingestHeader(ctx, img)
	if err != nil {
		return nil, err
	}

	var updated *models.Article
	err = s.retryOnDuplicate(ctx, func() error {
		return s.store.WithTx(ctx, func(tx repository.Store) error {
			a, err := tx.Articles().GetBySlugForUpdate(ctx, slugParam)
			if err != nil {
				return err
			}
			if a.Title != form.Title {
				next, err := s.slugs.Allocate(ctx, ownSlug{tx.Articles(), a.Slug}, form.Title)
				if err != nil {
					return err
				}
				a.Slug = next
			}
			a.Title = form.Title
			a.Content = form.Content
			a.Excerpt = optionalString(form.Excerpt)
			a.Published = form.Publish()
			if stored != nil {
				a.HeaderImageURL = &stored.PublicURL
				if err := s.recordUpload(ctx, tx, stored, req.UserID); err != nil {
					return err
				}
			}
			if err := tx.Articles().Update(ctx, a); err != nil {
				return err
			}
			updated = a
			return nil
		})
	})
	if err != nil {
		s.discard(ctx, stored)
		log.Error("update article failed", zap.String("slug", slugParam), zap.Error(err))
		return nil, err
	}

	if updated.Slug != slugParam {
		log.Info("article re-slugged", zap.String("old", slugParam), zap.String("new", updated.Slug))
	}
	return updated, nil
}

func (s *articleService) GetForEdit(ctx context.Context, req models.Requester, slugParam string) (*models.Article, error) {
	a, err := s.store.Articles().GetBySlug(ctx, slugParam)
	if err != nil {
		return nil, err
	}
	if err := checkEditable(a, req); err != nil {
		return nil, err
	}
	return a, nil
}

// View fetches, gates and counts in one transaction, then renders outside it.
func (s *articleService) View(ctx context.Context, req models.Requester, slugParam string) (*models.ArticleView, error) {
	log := logger.WithCtx(ctx)

	var a *models.Article
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		found, err := tx.Articles().GetBySlugForUpdate(ctx, slugParam)
		if err != nil {
			return err
		}
		if !canView(found, req) {
			// indistinguishable from a missing article
			return repository.ErrNotFound
		}
		n, err := tx.Articles().IncrementViews(ctx, found.ID)
		if err != nil {
			return err
		}
		found.ViewCount = n
		a = found
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			log.Error("view transaction failed", zap.String("slug", slugParam), zap.Error(err))
		}
		return nil, err
	}

	comments, err := s.store.Comments().ListByArticle(ctx, a.ID)
	if err != nil {
		return nil, err
	}

	html, err := s.content.SafeHTML(ctx, a.Content)
	if err != nil {
		return nil, err
	}

	return &models.ArticleView{
		Article:     a,
		HTMLContent: html,
		Comments:    comments,
		SEO:         buildSEO(s.site, a),
	}, nil
}

func (s *articleService) Home(ctx context.Context, req models.Requester) (*models.HomePage, error) {
	showHidden := req.CanModerate()
	repo := s.store.Articles()

	featured, err := repo.List(ctx, models.ArticleFilter{PublishedOnly: true, FeaturedOnly: true, IncludeHidden: showHidden})
	if err != nil {
		return nil, err
	}
	popular, err := repo.List(ctx, models.ArticleFilter{PublishedOnly: true, IncludeHidden: showHidden, Order: models.OrderMostViewed, Limit: popularLimit})
	if err != nil {
		return nil, err
	}
	latest, err := repo.List(ctx, models.ArticleFilter{PublishedOnly: true, IncludeHidden: showHidden, Limit: latestLimit})
	if err != nil {
		return nil, err
	}
	return &models.HomePage{Featured: featured, Popular: popular, Latest: latest}, nil
}

func (s *articleService) ListAll(ctx context.Context, req models.Requester) ([]*models.Article, error) {
	return s.store.Articles().List(ctx, models.ArticleFilter{PublishedOnly: true, IncludeHidden: req.CanModerate()})
}

func (s *articleService) MyArticles(ctx context.Context, req models.Requester) ([]*models.Article, error) {
	if !req.Authenticated() {
		return nil, fmt.Errorf("%w: authentication required", apperr.ErrForbidden)
	}
	return s.store.Articles().List(ctx, models.ArticleFilter{
		AuthorID:      req.UserID,
		IncludeHidden: true,
		Order:         models.OrderRecentlyUpdated,
	})
}

func (s *articleService) ToggleFeatured(ctx context.Context, req models.Requester, slugParam string) (bool, error) {
	if !req.IsAdmin() {
		return false, fmt.Errorf("%w: admin only", apperr.ErrForbidden)
	}
	v, err := s.store.Articles().ToggleFeatured(ctx, slugParam)
	if err != nil {
		return false, err
	}
	logger.WithCtx(ctx).Info("featured toggled", zap.String("slug", slugParam), zap.Bool("featured", v))
	return v, nil
}

func (s *articleService) ToggleHidden(ctx context.Context, req models.Requester, slugParam string) (bool, error) {
	if !req.CanModerate() {
		return false, fmt.Errorf("%w: moderators only", apperr.ErrForbidden)
	}
	v, err := s.store.Articles().ToggleHidden(ctx, slugParam)
	if err != nil {
		return false, err
	}
	logger.WithCtx(ctx).Info("hidden toggled", zap.String("slug", slugParam), zap.Bool("hidden", v))
	return v, nil
}

func (s *articleService) Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	return s.store.Articles().Leaderboard(ctx)
}

// Preview renders unsaved markdown through the same pipeline as View.
func (s *articleService) Preview(ctx context.Context, content string) (string, error) {
	html, err := s.content.SafeHTML(ctx, content)
	if err != nil {
		return "", err
	}
	logger.WithCtx(ctx).Debug("preview rendered", zap.Int("raw_len", len(content)), zap.Int("html_len", len(html)))
	return html, nil
}

func (s *articleService) ingestHeader(ctx context.Context, img *models.ImageUpload) (*media.Result, error) {
	if img == nil || len(img.Data) == 0 {
		return nil, nil
	}
	resize := s.header
	return s.images.Ingest(ctx, img.Data, img.OriginalName, media.Options{Resize: &resize})
}

func (s *articleService) recordUpload(ctx context.Context, tx repository.Store, stored *media.Result, userID string) error {
	if stored == nil {
		return nil
	}
	return tx.Files().Create(ctx, &models.UploadedFile{
		ID:       uuid.NewString(),
		URL:      stored.PublicURL,
		FileName: stored.StorageKey,
		UserID:   userID,
	})
}

// discard removes an object whose record write failed. The request may
// already be canceled, so the delete runs on a detached context.
func (s *articleService) discard(ctx context.Context, stored *media.Result) {
	if stored == nil {
		return
	}
	if err := s.images.Discard(context.WithoutCancel(ctx), stored.StorageKey); err != nil {
		logger.WithCtx(ctx).Error("orphaned object left in store", zap.String("key", stored.StorageKey), zap.Error(err))
	}
}

// retryOnDuplicate reruns fn once when a concurrent writer took the same slug.
func (s *articleService) retryOnDuplicate(ctx context.Context, fn func() error) error {
	err := fn()
	if errors.Is(err, repository.ErrDuplicate) {
		logger.WithCtx(ctx).Warn("unique violation, retrying slug allocation", zap.Error(err))
		err = fn()
	}
	return err
}

// ownSlug lets an article keep its current slug when the new title
// normalizes to the same base.
type ownSlug struct {
	slug.Checker
	current string
}

func (o ownSlug) SlugExists(ctx context.Context, candidate string) (bool, error) {
	if candidate == o.current {
		return false, nil
	}
	return o.Checker.SlugExists(ctx, candidate)
}
