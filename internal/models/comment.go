package models

import "time"

type Comment struct {
	ID         string    `db:"id"         json:"id"`
	Text       string    `db:"text"       json:"text"`
	AuthorID   string    `db:"author_id"  json:"authorId"`
	AuthorName string    `db:"-"          json:"authorName,omitempty"`
	ArticleID  string    `db:"article_id" json:"articleId"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

type CommentForm struct {
	Text string `json:"text" example:"Lovely piece"`
}
