package slug

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"artsy/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type setChecker struct {
	mu    sync.Mutex
	taken map[string]bool
	err   error
}

func (c *setChecker) SlugExists(_ context.Context, s string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.taken[s], c.err
}

func (c *setChecker) add(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.taken[s] = true
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"My Title":                   "my-title",
		"  Hello,   World!  ":        "hello-world",
		"Crème Brûlée à la carte":    "creme-brulee-a-la-carte",
		"Straße & Œuvre":             "strasse-and-oeuvre",
		"--already--hyphenated--":    "already-hyphenated",
		"Don't stop":                 "dont-stop",
		"Go 1.23 release notes":      "go-1-23-release-notes",
		"<script>alert(1)</script>":  "script-alert-1-script",
		"日本語":                        "",
		"":                           "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), "Normalize(%q)", in)
	}
}

func TestAllocateAlwaysValid(t *testing.T) {
	titles := []string{
		"My Title", "", "   ", "!!!", "日本語のタイトル", "Ünïcödé", "a", "x-y-z",
		strings.Repeat("long words here ", 20),
		"tabs\tand\nnewlines", "emoji 🎨 art",
	}
	a := NewAllocator()
	for _, title := range titles {
		s, err := a.Allocate(context.Background(), &setChecker{taken: map[string]bool{}}, title)
		require.NoError(t, err)
		assert.True(t, IsValid(s), "slug %q for %q", s, title)
		assert.LessOrEqual(t, len(s), MaxBaseLength)
	}
}

func TestAllocateDistinctForSameBase(t *testing.T) {
	checker := &setChecker{taken: map[string]bool{}}
	a := NewAllocator()

	first, err := a.Allocate(context.Background(), checker, "My Title")
	require.NoError(t, err)
	checker.add(first)

	second, err := a.Allocate(context.Background(), checker, "my title!")
	require.NoError(t, err)

	assert.Equal(t, "my-title", first)
	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasPrefix(second, "my-title-"))
	assert.Len(t, strings.TrimPrefix(second, "my-title-"), SuffixLength)
	assert.True(t, IsValid(second))
}

func TestAllocateExhausted(t *testing.T) {
	checker := &setChecker{taken: map[string]bool{"my-title": true, "my-title-aaaaa": true}}
	calls := 0
	a := NewAllocator(WithSuffixFunc(func() string { calls++; return "aaaaa" }), WithMaxAttempts(4))

	_, err := a.Allocate(context.Background(), checker, "My Title")
	require.ErrorIs(t, err, apperr.ErrSlugExhausted)
	assert.Equal(t, 3, calls)
}

func TestAllocatePropagatesStoreError(t *testing.T) {
	boom := errors.New("db down")
	_, err := NewAllocator().Allocate(context.Background(), &setChecker{err: boom}, "x")
	require.ErrorIs(t, err, boom)
}

func TestRandomSuffixAlphabet(t *testing.T) {
	for i := 0; i < 200; i++ {
		s := RandomSuffix()
		require.Len(t, s, SuffixLength)
		for _, r := range s {
			assert.Contains(t, SuffixAlphabet, string(r))
		}
	}
}
