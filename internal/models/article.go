package models

import "time"

type Article struct {
	ID             string    `db:"id"               json:"id"`
	Slug           string    `db:"slug"             json:"slug"`
	Title          string    `db:"title"            json:"title"`
	Content        string    `db:"content"          json:"content"`
	Excerpt        *string   `db:"excerpt"          json:"excerpt,omitempty"`
	HeaderImageURL *string   `db:"header_image_url" json:"headerImageUrl,omitempty"`
	Published      bool      `db:"published"        json:"published"`
	Hidden         bool      `db:"hidden"           json:"hidden"`
	IsFeatured     bool      `db:"is_featured"      json:"isFeatured"`
	ViewCount      int64     `db:"view_count"       json:"viewCount"`
	AuthorID       string    `db:"author_id"        json:"authorId"`
	AuthorName     string    `db:"-"                json:"authorName,omitempty"`
	CreatedAt      time.Time `db:"created_at"       json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at"       json:"updatedAt"`
}

// ArticleOrder selects the sort used by list queries.
type ArticleOrder int

const (
	OrderNewest ArticleOrder = iota
	OrderMostViewed
	OrderRecentlyUpdated
)

type ArticleFilter struct {
	PublishedOnly bool
	FeaturedOnly  bool
	IncludeHidden bool
	AuthorID      string
	Order         ArticleOrder
	Limit         int
}

// swagger:model ArticleForm
type ArticleForm struct {
	Title   string `json:"title"   example:"My Title"`
	Content string `json:"content" example:"# Hi"`
	Excerpt string `json:"excerpt" example:"Short preview"`
	Action  string `json:"action"  example:"publish"`
}

// Publish reports whether the form asked for publication rather than a draft.
func (f ArticleForm) Publish() bool { return f.Action == "publish" }

// ImageUpload is an uploaded binary with its client-side name.
type ImageUpload struct {
	Data         []byte
	OriginalName string
}

type SEO struct {
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	URL           string    `json:"url"`
	Image         string    `json:"image"`
	Type          string    `json:"type"`
	PublishedDate time.Time `json:"publishedDate"`
	ModifiedDate  time.Time `json:"modifiedDate"`
	AuthorName    string    `json:"authorName,omitempty"`
}

// ArticleView is what a reader receives: the record, safe HTML and its comments.
type ArticleView struct {
	Article     *Article   `json:"article"`
	HTMLContent string     `json:"htmlContent"`
	Comments    []*Comment `json:"comments"`
	SEO         SEO        `json:"seo"`
}

type HomePage struct {
	Featured []*Article `json:"featured"`
	Popular  []*Article `json:"popular"`
	Latest   []*Article `json:"latest"`
}

type LeaderboardEntry struct {
	AuthorID     string `json:"authorId"`
	Username     string `json:"username"`
	ArticleCount int    `json:"articleCount"`
	TotalViews   int64  `json:"totalViews"`
}
