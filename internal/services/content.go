package services

import (
	"context"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"artsy/internal/markdown"
	"artsy/internal/models"
	"artsy/internal/sanitize"
)

// ContentPipeline turns article markdown into HTML that is safe to display.
type ContentPipeline struct {
	md  *markdown.Renderer
	san *sanitize.Sanitizer
}

func NewContentPipeline(md *markdown.Renderer, san *sanitize.Sanitizer) *ContentPipeline {
	return &ContentPipeline{md: md, san: san}
}

// SafeHTML renders and then sanitizes. Renderer output is never returned as is.
func (p *ContentPipeline) SafeHTML(ctx context.Context, src string) (string, error) {
	raw, err := p.md.RenderContext(ctx, src)
	if err != nil {
		return "", err
	}
	return p.san.Sanitize(raw), nil
}

// SiteInfo is the public identity used for SEO, sitemap and feeds.
type SiteInfo struct {
	BaseURL     string
	Title       string
	Description string
}

func (s SiteInfo) ArticleURL(slug string) string {
	return s.BaseURL + "/articles/" + slug
}

// AbsoluteURL prefixes site-relative references with BaseURL.
func (s SiteInfo) AbsoluteURL(ref string) string {
	if strings.HasPrefix(ref, "/") && !strings.HasPrefix(ref, "//") {
		return s.BaseURL + ref
	}
	return ref
}

const seoDescriptionRunes = 155

var (
	mdImageRe  = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	mdLinkRe   = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	mdMarkupRe = regexp.MustCompile("(?m)^#+\\s*|`{1,3}|[*_~>]")
	spaceRe    = regexp.MustCompile(`\s+`)
)

// PlainText strips the common markdown decorations and collapses whitespace.
func PlainText(md string) string {
	s := mdImageRe.ReplaceAllString(md, "")
	s = mdLinkRe.ReplaceAllString(s, "$1")
	s = mdMarkupRe.ReplaceAllString(s, "")
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// TruncateText cuts markdown to at most n runes of plain text, ending on a
// whole word followed by "...".
func TruncateText(md string, n int) string {
	s := PlainText(md)
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	cut := string([]rune(s)[:n])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "..."
}

func buildSEO(site SiteInfo, a *models.Article) models.SEO {
	desc := TruncateText(a.Content, seoDescriptionRunes)
	if a.Excerpt != nil && *a.Excerpt != "" {
		desc = *a.Excerpt
	}
	image := site.BaseURL + "/default-share-image.jpg"
	if a.HeaderImageURL != nil && *a.HeaderImageURL != "" {
		image = site.AbsoluteURL(*a.HeaderImageURL)
	}
	return models.SEO{
		Title:         a.Title + " | " + site.Title,
		Description:   desc,
		URL:           site.ArticleURL(a.Slug),
		Image:         image,
		Type:          "article",
		PublishedDate: a.CreatedAt.UTC().Truncate(time.Second),
		ModifiedDate:  a.UpdatedAt.UTC().Truncate(time.Second),
		AuthorName:    a.AuthorName,
	}
}
