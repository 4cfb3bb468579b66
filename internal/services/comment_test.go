package services

import (
	"context"
	"testing"

	"artsy/internal/apperr"
	"artsy/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCommentAndViewOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.publish(t, alice, "Talk", "c")

	for _, text := range []string{"first", "second", "third"} {
		_, err := f.comments.AddComment(ctx, bob, a.Slug, models.CommentForm{Text: "  " + text + "  "})
		require.NoError(t, err)
	}

	view, err := f.articles.View(ctx, anon, a.Slug)
	require.NoError(t, err)
	require.Len(t, view.Comments, 3)
	assert.Equal(t, "first", view.Comments[0].Text)
	assert.Equal(t, "third", view.Comments[2].Text)
	assert.Equal(t, "Bob", view.Comments[0].AuthorName)
}

func TestAddCommentRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.publish(t, alice, "Talk", "c")

	_, err := f.comments.AddComment(ctx, bob, a.Slug, models.CommentForm{Text: "   "})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.comments.AddComment(ctx, anon, a.Slug, models.CommentForm{Text: "hi"})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = f.comments.AddComment(ctx, troll, a.Slug, models.CommentForm{Text: "hi"})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = f.comments.AddComment(ctx, bob, "missing", models.CommentForm{Text: "hi"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.articles.ToggleHidden(ctx, mod, a.Slug)
	require.NoError(t, err)
	_, err = f.comments.AddComment(ctx, bob, a.Slug, models.CommentForm{Text: "hi"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = f.comments.AddComment(ctx, mod, a.Slug, models.CommentForm{Text: "hi"})
	assert.NoError(t, err)
}
