package services

import (
	"bytes"
	"context"
	"encoding/xml"
	"time"

	"artsy/internal/logger"
	"artsy/internal/models"
	"artsy/internal/repository"

	"github.com/gorilla/feeds"
	"go.uber.org/zap"
)

const (
	feedItems        = 20
	feedPreviewRunes = 300
	sitemapNS        = "http://www.sitemaps.org/schemas/sitemap/0.9"
)

type FeedService interface {
	Sitemap(ctx context.Context) ([]byte, error)
	RSS(ctx context.Context) (string, error)
}

type feedService struct {
	store   repository.Store
	content *ContentPipeline
	site    SiteInfo
	now     func() time.Time
}

func NewFeedService(store repository.Store, content *ContentPipeline, site SiteInfo) FeedService {
	return &feedService{store: store, content: content, site: site, now: time.Now}
}

type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	NS      string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc      string `xml:"loc"`
	LastMod  string `xml:"lastmod,omitempty"`
	Priority string `xml:"priority,omitempty"`
}

// Sitemap lists the home page, the article index and every public article.
func (s *feedService) Sitemap(ctx context.Context) ([]byte, error) {
	articles, err := s.store.Articles().List(ctx, models.ArticleFilter{PublishedOnly: true})
	if err != nil {
		logger.WithCtx(ctx).Error("sitemap query failed", zap.Error(err))
		return nil, err
	}

	set := urlset{NS: sitemapNS, URLs: []sitemapURL{
		{Loc: s.site.BaseURL, Priority: "1.0"},
		{Loc: s.site.BaseURL + "/articles", Priority: "0.8"},
	}}
	for _, a := range articles {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:     s.site.ArticleURL(a.Slug),
			LastMod: a.UpdatedAt.UTC().Format("2006-01-02"),
		})
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if err := xml.NewEncoder(&buf).Encode(set); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RSS renders the newest public articles as an RSS 2.0 document.
func (s *feedService) RSS(ctx context.Context) (string, error) {
	articles, err := s.store.Articles().List(ctx, models.ArticleFilter{PublishedOnly: true, Limit: feedItems})
	if err != nil {
		logger.WithCtx(ctx).Error("feed query failed", zap.Error(err))
		return "", err
	}

	feed := &feeds.Feed{
		Title:       s.site.Title,
		Link:        &feeds.Link{Href: s.site.BaseURL},
		Description: s.site.Description,
		Updated:     s.now(),
	}
	for _, a := range articles {
		desc, err := s.describe(ctx, a)
		if err != nil {
			return "", err
		}
		link := s.site.ArticleURL(a.Slug)
		feed.Items = append(feed.Items, &feeds.Item{
			Title:       a.Title,
			Link:        &feeds.Link{Href: link},
			Id:          link,
			Author:      &feeds.Author{Name: a.AuthorName},
			Description: desc,
			Created:     a.CreatedAt,
			Updated:     a.UpdatedAt,
		})
	}

	rss := (&feeds.Rss{Feed: feed}).RssFeed()
	rss.Language = "en-us"
	return feeds.ToXML(rss)
}

func (s *feedService) describe(ctx context.Context, a *models.Article) (string, error) {
	if a.Excerpt != nil && *a.Excerpt != "" {
		return *a.Excerpt, nil
	}
	preview := []rune(a.Content)
	if len(preview) > feedPreviewRunes {
		preview = append(preview[:feedPreviewRunes], []rune("...")...)
	}
	return s.content.SafeHTML(ctx, string(preview))
}
