package services

import (
	"context"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSitemapListsPublicArticles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.publish(t, alice, "Visible", "c")
	f.publish(t, alice, "Secret", "c")
	_, err := f.articles.ToggleHidden(ctx, mod, "secret")
	require.NoError(t, err)

	data, err := f.feeds.Sitemap(ctx)
	require.NoError(t, err)

	var set urlset
	require.NoError(t, xml.Unmarshal(data, &set))
	require.Len(t, set.URLs, 3)
	assert.Equal(t, "https://artsy.example", set.URLs[0].Loc)
	assert.Equal(t, "1.0", set.URLs[0].Priority)
	assert.Equal(t, "https://artsy.example/articles", set.URLs[1].Loc)
	assert.Equal(t, "https://artsy.example/articles/visible", set.URLs[2].Loc)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, set.URLs[2].LastMod)
}

func TestRSSUsesExcerptOrRenderedPreview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.publish(t, alice, "Long read", "# Heading\n"+strings.Repeat("word ", 100)+"<script>x()</script>")

	rss, err := f.feeds.RSS(ctx)
	require.NoError(t, err)

	assert.Contains(t, rss, "<title>Artsy Thoughts</title>")
	assert.Contains(t, rss, "https://artsy.example/articles/long-read")
	assert.Contains(t, rss, "en-us")
	assert.NotContains(t, rss, "x()")
	assert.NotContains(t, rss, "&lt;script")
}
