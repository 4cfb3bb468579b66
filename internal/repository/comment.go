package repository

import (
	"context"

	"artsy/internal/models"
)

type CommentRepository struct {
	db DBTX
}

func NewCommentRepository(db DBTX) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, c *models.Comment) error {
	const q = `
		INSERT INTO comments (id, text, author_id, article_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`
	return mapErr(r.db.QueryRow(ctx, q, c.ID, c.Text, c.AuthorID, c.ArticleID).Scan(&c.CreatedAt))
}

// ListByArticle returns comments oldest first.
func (r *CommentRepository) ListByArticle(ctx context.Context, articleID string) ([]*models.Comment, error) {
	const q = `
		SELECT c.id, c.text, c.author_id, COALESCE(u.name, ''), c.article_id, c.created_at
		FROM comments c LEFT JOIN users u ON u.id = c.author_id
		WHERE c.article_id = $1
		ORDER BY c.created_at ASC`
	rows, err := r.db.Query(ctx, q, articleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []*models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.Text, &c.AuthorID, &c.AuthorName, &c.ArticleID, &c.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
