package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"artsy/internal/apperr"
	"artsy/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedArticle(t *testing.T, s Store, id, slug string, mutate ...func(*models.Article)) *models.Article {
	t.Helper()
	a := &models.Article{ID: id, Slug: slug, Title: slug, Content: "body", Published: true, AuthorID: "u1"}
	for _, m := range mutate {
		m(a)
	}
	require.NoError(t, s.Articles().Create(context.Background(), a))
	return a
}

func TestMemoryWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(models.User{ID: "u1", Name: "Ann"})
	seedArticle(t, s, "a1", "first")

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx Store) error {
		_, err := tx.Articles().IncrementViews(ctx, "a1")
		require.NoError(t, err)
		seedArticle(t, tx, "a2", "second")
		return boom
	})
	require.ErrorIs(t, err, boom)

	a, err := s.Articles().GetBySlug(ctx, "first")
	require.NoError(t, err)
	assert.Equal(t, int64(0), a.ViewCount)

	exists, err := s.Articles().SlugExists(ctx, "second")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryWithTxRollsBackOnPanic(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	seedArticle(t, s, "a1", "first")

	assert.Panics(t, func() {
		_ = s.WithTx(ctx, func(tx Store) error {
			_, _ = tx.Articles().ToggleHidden(ctx, "first")
			panic("handler bug")
		})
	})

	a, err := s.Articles().GetBySlug(ctx, "first")
	require.NoError(t, err)
	assert.False(t, a.Hidden)

	// the store lock was released
	_, err = s.Articles().ToggleHidden(ctx, "first")
	require.NoError(t, err)
}

func TestMemoryWithTxCommits(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	seedArticle(t, s, "a1", "first")

	err := s.WithTx(ctx, func(tx Store) error {
		// nested calls join the outer transaction
		return tx.WithTx(ctx, func(inner Store) error {
			_, err := inner.Articles().IncrementViews(ctx, "a1")
			return err
		})
	})
	require.NoError(t, err)

	a, err := s.Articles().GetBySlug(ctx, "first")
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.ViewCount)
}

func TestMemoryConcurrentIncrements(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	seedArticle(t, s, "a1", "first")

	const n = 50
	counts := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.WithTx(ctx, func(tx Store) error {
				a, err := tx.Articles().GetBySlugForUpdate(ctx, "first")
				if err != nil {
					return err
				}
				c, err := tx.Articles().IncrementViews(ctx, a.ID)
				counts <- c
				return err
			})
		}()
	}
	wg.Wait()
	close(counts)

	seen := map[int64]bool{}
	for c := range counts {
		seen[c] = true
	}
	assert.Len(t, seen, n)

	a, err := s.Articles().GetBySlug(ctx, "first")
	require.NoError(t, err)
	assert.Equal(t, int64(n), a.ViewCount)
}

func TestMemoryUniqueSlug(t *testing.T) {
	s := NewMemoryStore()
	seedArticle(t, s, "a1", "same")
	err := s.Articles().Create(context.Background(), &models.Article{ID: "a2", Slug: "same"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestMemoryListFilterAndOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(models.User{ID: "u1", Name: "Ann"}, models.User{ID: "u2", Name: "Bob"})
	seedArticle(t, s, "a1", "old")
	seedArticle(t, s, "a2", "hidden", func(a *models.Article) { a.AuthorID = "u2" })
	seedArticle(t, s, "a3", "draft", func(a *models.Article) { a.Published = false })
	seedArticle(t, s, "a4", "new")
	_, err := s.Articles().ToggleHidden(ctx, "hidden")
	require.NoError(t, err)
	_, err = s.Articles().IncrementViews(ctx, "a1")
	require.NoError(t, err)

	list, err := s.Articles().List(ctx, models.ArticleFilter{PublishedOnly: true})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].Slug)
	assert.Equal(t, "Ann", list[0].AuthorName)

	list, err = s.Articles().List(ctx, models.ArticleFilter{PublishedOnly: true, IncludeHidden: true, Order: models.OrderMostViewed, Limit: 1})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "old", list[0].Slug)

	mine, err := s.Articles().List(ctx, models.ArticleFilter{AuthorID: "u1", IncludeHidden: true})
	require.NoError(t, err)
	assert.Len(t, mine, 3)

	board, err := s.Articles().Leaderboard(ctx)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, "u1", board[0].AuthorID)
	assert.Equal(t, 2, board[0].ArticleCount)
	assert.Equal(t, int64(1), board[0].TotalViews)
}

func TestMemoryLeaderboardListsUsersWithoutArticles(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(models.User{ID: "u1", Name: "Ann"}, models.User{ID: "u3", Name: "Quiet"})
	seedArticle(t, s, "a1", "only")
	seedArticle(t, s, "a2", "draft", func(a *models.Article) {
		a.Published = false
		a.AuthorID = "u3"
	})

	board, err := s.Articles().Leaderboard(ctx)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, "u1", board[0].AuthorID)
	assert.Equal(t, models.LeaderboardEntry{AuthorID: "u3", Username: "Quiet"}, board[1])
}

func TestMemoryCommentsOldestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.d.now = func() time.Time { return fixed }
	seedArticle(t, s, "a1", "first")

	for _, text := range []string{"one", "two", "three"} {
		require.NoError(t, s.Comments().Create(ctx, &models.Comment{ID: text, Text: text, ArticleID: "a1"}))
	}
	list, err := s.Comments().ListByArticle(ctx, "a1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "one", list[0].Text)
	assert.Equal(t, "three", list[2].Text)

	err = s.Comments().Create(ctx, &models.Comment{ID: "x", ArticleID: "missing"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestMemoryFiles(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Files().Create(ctx, &models.UploadedFile{ID: "f1", FileName: "1-a.jpg", UserID: "u1"}))
	require.NoError(t, s.Files().Create(ctx, &models.UploadedFile{ID: "f2", FileName: "2-b.jpg", UserID: "u1"}))
	assert.ErrorIs(t, s.Files().Create(ctx, &models.UploadedFile{ID: "f3", FileName: "1-a.jpg"}), ErrDuplicate)

	list, err := s.Files().ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "f2", list[0].ID)

	require.NoError(t, s.Files().Delete(ctx, "f1"))
	assert.ErrorIs(t, s.Files().Delete(ctx, "f1"), ErrNotFound)
	_, err = s.Files().GetByID(ctx, "f1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
