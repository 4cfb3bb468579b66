// Package slug turns titles into URL-safe identifiers and allocates unique ones.
package slug

import (
	"context"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"unicode"

	"artsy/internal/apperr"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// SuffixAlphabet avoids characters that read alike (0/o, 1/l/i).
	SuffixAlphabet = "23456789abcdefghjkmnpqrstuvwxyz"
	SuffixLength   = 5
	MaxAttempts    = 8
	MaxBaseLength  = 80
	FallbackBase   = "article"
)

var (
	validRe = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

	// letters NFD does not decompose
	folds = strings.NewReplacer(
		"ß", "ss", "æ", "ae", "Æ", "ae", "œ", "oe", "Œ", "oe",
		"ø", "o", "Ø", "o", "đ", "d", "Đ", "d", "ł", "l", "Ł", "l",
		"þ", "th", "Þ", "th", "&", " and ",
	)
)

// Normalize lowercases s, strips diacritics and joins ASCII alphanumeric runs
// with single hyphens. The result may be empty.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, folds.Replace(s))
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		if r == '\'' || r == '’' {
			// "don't" -> "dont"
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// IsValid reports whether s is a well-formed slug.
func IsValid(s string) bool { return validRe.MatchString(s) }

// Checker answers whether a slug is already taken.
type Checker interface {
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// Allocator derives unique slugs. It is safe for concurrent use.
type Allocator struct {
	suffix      func() string
	maxAttempts int
}

type Option func(*Allocator)

// WithSuffixFunc replaces the random suffix generator.
func WithSuffixFunc(fn func() string) Option {
	return func(a *Allocator) { a.suffix = fn }
}

func WithMaxAttempts(n int) Option {
	return func(a *Allocator) {
		if n > 0 {
			a.maxAttempts = n
		}
	}
}

func NewAllocator(opts ...Option) *Allocator {
	a := &Allocator{suffix: RandomSuffix, maxAttempts: MaxAttempts}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Allocate returns a slug for title that the checker reports as free.
// The first candidate is the bare base; later ones carry a random suffix.
func (a *Allocator) Allocate(ctx context.Context, c Checker, title string) (string, error) {
	base := Base(title)
	candidate := base
	for attempt := 0; attempt < a.maxAttempts; attempt++ {
		if attempt > 0 {
			candidate = base + "-" + a.suffix()
		}
		taken, err := c.SlugExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %q after %d attempts", apperr.ErrSlugExhausted, base, a.maxAttempts)
}

// Base is the normalized, length-capped, never-empty stem of a slug.
func Base(title string) string {
	base := Normalize(title)
	if len(base) > MaxBaseLength {
		base = base[:MaxBaseLength]
		if i := strings.LastIndexByte(base, '-'); i > 0 {
			base = base[:i]
		}
		base = strings.Trim(base, "-")
	}
	if base == "" {
		return FallbackBase
	}
	return base
}

// RandomSuffix draws SuffixLength characters from SuffixAlphabet.
func RandomSuffix() string {
	buf := make([]byte, SuffixLength)
	for i := range buf {
		buf[i] = SuffixAlphabet[rand.IntN(len(SuffixAlphabet))]
	}
	return string(buf)
}
