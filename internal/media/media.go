// Package media normalizes uploaded images and writes them to the object store.
package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"artsy/internal/apperr"
	"artsy/internal/logger"
	"artsy/internal/storage"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/semaphore"
)

const (
	DefaultQuality   = 80
	DefaultMaxPixels = 50_000_000
	Extension        = ".jpg"
	ContentType      = "image/jpeg"
)

// Resize scales to exactly Width x Height; aspect ratio is not preserved.
type Resize struct {
	Width  int
	Height int
}

type Options struct {
	Resize *Resize
}

// Result points at a stored object.
type Result struct {
	StorageKey string
	PublicURL  string
}

type Config struct {
	Quality   int
	MaxPixels int
	// Workers bounds concurrent transcodes.
	Workers int
	// URLPrefix is joined with the storage key to form the public URL.
	URLPrefix string
}

type Ingestor struct {
	store storage.ObjectStore
	cfg   Config
	sem   *semaphore.Weighted
	clock func() time.Time
}

func NewIngestor(store storage.ObjectStore, cfg Config) *Ingestor {
	if cfg.Quality <= 0 {
		cfg.Quality = DefaultQuality
	}
	if cfg.Quality > 100 {
		cfg.Quality = 100
	}
	if cfg.MaxPixels <= 0 {
		cfg.MaxPixels = DefaultMaxPixels
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	cfg.URLPrefix = strings.TrimRight(cfg.URLPrefix, "/")
	return &Ingestor{
		store: store,
		cfg:   cfg,
		sem:   semaphore.NewWeighted(int64(cfg.Workers)),
		clock: time.Now,
	}
}

// Ingest decodes payload, optionally resizes it, re-encodes it as JPEG and
// stores it. Nothing is written when decoding fails.
func (i *Ingestor) Ingest(ctx context.Context, payload []byte, originalName string, opts Options) (*Result, error) {
	log := logger.WithCtx(ctx)

	encoded, err := i.transcode(ctx, payload, opts)
	if err != nil {
		return nil, err
	}

	key := i.NewKey(originalName)
	if err := i.store.Put(ctx, key, encoded); err != nil {
		log.Error("object store write failed", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", apperr.ErrStorageWriteFailed, err)
	}

	log.Info("image stored", zap.String("key", key), zap.Int("bytes", len(encoded)))
	return &Result{StorageKey: key, PublicURL: i.PublicURL(key)}, nil
}

func (i *Ingestor) PublicURL(key string) string {
	return i.cfg.URLPrefix + "/" + key
}

// Discard removes a stored object whose record was never written.
func (i *Ingestor) Discard(ctx context.Context, key string) error {
	return i.store.Delete(ctx, key)
}

// transcode runs off the calling goroutine and holds a worker slot while it does.
func (i *Ingestor) transcode(ctx context.Context, payload []byte, opts Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := i.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}

	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)
	go func() {
		defer i.sem.Release(1)
		data, err := i.encode(payload, opts)
		done <- result{data, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		return res.data, res.err
	}
}

func (i *Ingestor) encode(payload []byte, opts Options) ([]byte, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrUnsupportedMediaType, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > i.cfg.MaxPixels {
		return nil, fmt.Errorf("%w: %s image of %dx%d exceeds pixel limit", apperr.ErrUnsupportedMediaType, format, cfg.Width, cfg.Height)
	}

	src, _, err := image.Decode(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrUnsupportedMediaType, err)
	}

	bounds := src.Bounds()
	target := image.Rect(0, 0, bounds.Dx(), bounds.Dy())
	if r := opts.Resize; r != nil {
		if r.Width <= 0 || r.Height <= 0 {
			return nil, apperr.NewValidationError(map[string]string{"resize": "width and height must be positive"}, nil)
		}
		target = image.Rect(0, 0, r.Width, r.Height)
	}

	// JPEG has no alpha; flatten onto white first.
	dst := image.NewRGBA(target)
	draw.Draw(dst, target, image.NewUniform(color.White), image.Point{}, draw.Src)
	if target.Dx() == bounds.Dx() && target.Dy() == bounds.Dy() {
		draw.Draw(dst, target, src, bounds.Min, draw.Over)
	} else {
		draw.CatmullRom.Scale(dst, target, src, bounds, draw.Over, nil)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: i.cfg.Quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	lastToken   atomic.Int64
	unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// NewKey builds "<token>-<name>.jpg" where token is a strictly increasing
// nanosecond timestamp and name is originalName without its extension.
func (i *Ingestor) NewKey(originalName string) string {
	return strconv.FormatInt(nextToken(i.clock().UnixNano()), 10) + "-" + SanitizeName(originalName) + Extension
}

func nextToken(now int64) int64 {
	for {
		last := lastToken.Load()
		next := now
		if next <= last {
			next = last + 1
		}
		if lastToken.CompareAndSwap(last, next) {
			return next
		}
	}
}

// SanitizeName strips directories and the extension, turns whitespace into
// underscores and drops anything outside [A-Za-z0-9._-].
func SanitizeName(originalName string) string {
	base := filepath.Base(strings.ReplaceAll(originalName, `\`, "/"))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = whitespace.ReplaceAllString(strings.TrimSpace(base), "_")
	base = unsafeChars.ReplaceAllString(base, "")
	base = strings.Trim(base, ".")
	if len(base) > 100 {
		base = base[:100]
	}
	if base == "" {
		return "image"
	}
	return base
}
