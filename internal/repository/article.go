package repository

import (
	"context"
	"fmt"
	"strings"

	"artsy/internal/logger"
	"artsy/internal/models"

	"go.uber.org/zap"
)

type ArticleRepository struct {
	db DBTX
}

func NewArticleRepository(db DBTX) *ArticleRepository {
	return &ArticleRepository{db: db}
}

const articleColumns = `
	a.id, a.slug, a.title, a.content, a.excerpt, a.header_image_url,
	a.published, a.hidden, a.is_featured, a.view_count, a.author_id,
	COALESCE(u.name, ''), a.created_at, a.updated_at`

const articleFrom = `FROM articles a LEFT JOIN users u ON u.id = a.author_id`

type scanner interface {
	Scan(dest ...any) error
}

func scanArticle(row scanner) (*models.Article, error) {
	var a models.Article
	err := row.Scan(
		&a.ID, &a.Slug, &a.Title, &a.Content, &a.Excerpt, &a.HeaderImageURL,
		&a.Published, &a.Hidden, &a.IsFeatured, &a.ViewCount, &a.AuthorID,
		&a.AuthorName, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	return &a, nil
}

func (r *ArticleRepository) Create(ctx context.Context, a *models.Article) error {
	const q = `
		INSERT INTO articles (id, slug, title, content, excerpt, header_image_url, published, author_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING view_count, created_at, updated_at`
	err := r.db.QueryRow(ctx, q,
		a.ID, a.Slug, a.Title, a.Content, a.Excerpt, a.HeaderImageURL, a.Published, a.AuthorID,
	).Scan(&a.ViewCount, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		logger.WithCtx(ctx).Error("insert article", zap.String("slug", a.Slug), zap.Error(err))
		return mapErr(err)
	}
	return nil
}

func (r *ArticleRepository) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	q := `SELECT ` + articleColumns + ` ` + articleFrom + ` WHERE a.slug = $1`
	return scanArticle(r.db.QueryRow(ctx, q, slug))
}

func (r *ArticleRepository) GetBySlugForUpdate(ctx context.Context, slug string) (*models.Article, error) {
	q := `SELECT ` + articleColumns + ` ` + articleFrom + ` WHERE a.slug = $1 FOR UPDATE OF a`
	return scanArticle(r.db.QueryRow(ctx, q, slug))
}

func (r *ArticleRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM articles WHERE slug = $1)`
	var ok bool
	if err := r.db.QueryRow(ctx, q, slug).Scan(&ok); err != nil {
		return false, mapErr(err)
	}
	return ok, nil
}

func (r *ArticleRepository) Update(ctx context.Context, a *models.Article) error {
	const q = `
		UPDATE articles
		SET slug = $1,
		    title = $2,
		    content = $3,
		    excerpt = $4,
		    header_image_url = $5,
		    published = $6,
		    updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at`
	err := r.db.QueryRow(ctx, q,
		a.Slug, a.Title, a.Content, a.Excerpt, a.HeaderImageURL, a.Published, a.ID,
	).Scan(&a.UpdatedAt)
	return mapErr(err)
}

// IncrementViews is a single atomic UPDATE; it does not touch updated_at.
func (r *ArticleRepository) IncrementViews(ctx context.Context, id string) (int64, error) {
	const q = `UPDATE articles SET view_count = view_count + 1 WHERE id = $1 RETURNING view_count`
	var n int64
	if err := r.db.QueryRow(ctx, q, id).Scan(&n); err != nil {
		return 0, mapErr(err)
	}
	return n, nil
}

func (r *ArticleRepository) ToggleFeatured(ctx context.Context, slug string) (bool, error) {
	const q = `UPDATE articles SET is_featured = NOT is_featured WHERE slug = $1 RETURNING is_featured`
	var v bool
	if err := r.db.QueryRow(ctx, q, slug).Scan(&v); err != nil {
		return false, mapErr(err)
	}
	return v, nil
}

func (r *ArticleRepository) ToggleHidden(ctx context.Context, slug string) (bool, error) {
	const q = `UPDATE articles SET hidden = NOT hidden WHERE slug = $1 RETURNING hidden`
	var v bool
	if err := r.db.QueryRow(ctx, q, slug).Scan(&v); err != nil {
		return false, mapErr(err)
	}
	return v, nil
}

func (r *ArticleRepository) List(ctx context.Context, f models.ArticleFilter) ([]*models.Article, error) {
	where := []string{}
	args := []any{}
	i := 1

	if f.PublishedOnly {
		where = append(where, "a.published = TRUE")
	}
	if f.FeaturedOnly {
		where = append(where, "a.is_featured = TRUE")
	}
	if !f.IncludeHidden {
		where = append(where, "a.hidden = FALSE")
	}
	if f.AuthorID != "" {
		where = append(where, fmt.Sprintf("a.author_id = $%d", i))
		args = append(args, f.AuthorID)
		i++
	}

	q := `SELECT ` + articleColumns + ` ` + articleFrom
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	switch f.Order {
	case models.OrderMostViewed:
		q += " ORDER BY a.view_count DESC, a.created_at DESC"
	case models.OrderRecentlyUpdated:
		q += " ORDER BY a.updated_at DESC"
	default:
		q += " ORDER BY a.created_at DESC"
	}
	if f.Limit > 0 {
		q += fmt.Sprintf(" LIMIT $%d", i)
		args = append(args, f.Limit)
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		logger.WithCtx(ctx).Error("list articles", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	list := []*models.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *ArticleRepository) Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	// every user is listed, including those with nothing published yet
	const q = `
		SELECT u.id, u.name, COUNT(a.id), COALESCE(SUM(a.view_count), 0)
		FROM users u LEFT JOIN articles a ON a.author_id = u.id AND a.published = TRUE
		GROUP BY u.id, u.name
		ORDER BY 4 DESC, 3 DESC, u.id`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.LeaderboardEntry{}
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.AuthorID, &e.Username, &e.ArticleCount, &e.TotalViews); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
