// Package markdown converts article markdown into presentational HTML.
//
// The output is not safe to display on its own; it always goes through the
// sanitize package first.
package markdown

import (
	"bytes"
	"context"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// Rules selects which of the custom render rules replace goldmark's defaults.
type Rules uint8

const (
	AnchoredHeadings Rules = 1 << iota
	ExternalLinks
	AlignedImages
)

const (
	NoRules  Rules = 0
	AllRules       = AnchoredHeadings | ExternalLinks | AlignedImages
)

func (r Rules) Has(rule Rules) bool { return r&rule != 0 }

// Config is fixed at construction; a Renderer never changes after New.
type Config struct {
	Rules Rules
	// HighlightCode turns on chroma highlighting for fenced code with CSS classes.
	HighlightCode bool
}

// DefaultConfig is what the article pages use.
func DefaultConfig() Config {
	return Config{Rules: AllRules, HighlightCode: true}
}

// Renderer is safe for concurrent use.
type Renderer struct {
	cfg Config
	md  goldmark.Markdown
}

func New(cfg Config) *Renderer {
	exts := []goldmark.Extender{extension.GFM}
	if cfg.HighlightCode {
		exts = append(exts, highlighting.NewHighlighting(
			highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
		))
	}

	rendererOpts := []renderer.Option{html.WithUnsafe()}
	if cfg.Rules != NoRules {
		rendererOpts = append(rendererOpts,
			renderer.WithNodeRenderers(util.Prioritized(newRuleRenderer(cfg.Rules), 100)))
	}

	return &Renderer{
		cfg: cfg,
		md: goldmark.New(
			goldmark.WithExtensions(exts...),
			goldmark.WithRendererOptions(rendererOpts...),
		),
	}
}

func (r *Renderer) Config() Config { return r.cfg }

// Render converts markdown text into raw HTML.
func (r *Renderer) Render(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// RenderContext is Render with cancellation. Goldmark has no context support,
// so the conversion runs in its own goroutine and is abandoned on cancel.
func (r *Renderer) RenderContext(ctx context.Context, src string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		h, err := r.Render(src)
		done <- result{h, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.html, res.err
	}
}
