package markdown

import (
	"strconv"
	"strings"

	"artsy/internal/slug"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

const (
	headingClass       = "group relative text-2xl font-bold mb-6 dark:text-white"
	headingAnchorClass = "absolute -left-6 top-1/2 -translate-y-1/2 opacity-0 group-hover:opacity-50 transition-opacity"
	headingIconClass   = "text-gray-400 dark:text-gray-600"
	linkClass          = "text-blue-600 hover:underline"
	imageClass         = "my-4 rounded-lg shadow-md max-w-full h-auto"

	DefaultImageAlt = "User-embedded image"
)

// Alignment classes selected by a #left, #right or #center suffix on an image source.
var alignments = []struct {
	suffix string
	class  string
}{
	{"#left", "img-left"},
	{"#right", "img-right"},
	{"#center", "img-center"},
}

const defaultAlignClass = "img-center"

type ruleRenderer struct {
	rules Rules
}

func newRuleRenderer(rules Rules) renderer.NodeRenderer {
	return &ruleRenderer{rules: rules}
}

// RegisterFuncs only claims the node kinds whose rule is enabled; the rest
// fall through to goldmark's html renderer.
func (r *ruleRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	if r.rules.Has(AnchoredHeadings) {
		reg.Register(ast.KindHeading, r.renderHeading)
	}
	if r.rules.Has(ExternalLinks) {
		reg.Register(ast.KindLink, r.renderLink)
	}
	if r.rules.Has(AlignedImages) {
		reg.Register(ast.KindImage, r.renderImage)
	}
}

func (r *ruleRenderer) renderHeading(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Heading)
	level := strconv.Itoa(n.Level)
	if !entering {
		_, _ = w.WriteString("</h" + level + ">\n")
		return ast.WalkContinue, nil
	}

	id := slug.Normalize(plainText(n, source))
	_, _ = w.WriteString("<h" + level)
	if id != "" {
		_, _ = w.WriteString(` id="` + id + `"`)
	}
	_, _ = w.WriteString(` class="` + headingClass + `">`)
	if id != "" {
		_, _ = w.WriteString(`<a href="#` + id + `" class="` + headingAnchorClass + `" aria-hidden="true">`)
		_, _ = w.WriteString(`<span class="` + headingIconClass + `">🔗</span></a>`)
	}
	return ast.WalkContinue, nil
}

func (r *ruleRenderer) renderLink(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Link)
	if !entering {
		_, _ = w.WriteString("</a>")
		return ast.WalkContinue, nil
	}

	_, _ = w.WriteString("<a")
	if !html.IsDangerousURL(n.Destination) {
		_, _ = w.WriteString(` href="`)
		_, _ = w.Write(util.EscapeHTML(util.URLEscape(n.Destination, true)))
		_ = w.WriteByte('"')
	}
	if len(n.Title) > 0 {
		_, _ = w.WriteString(` title="`)
		_, _ = w.Write(util.EscapeHTML(n.Title))
		_ = w.WriteByte('"')
	}
	_, _ = w.WriteString(` target="_blank" rel="noopener noreferrer" class="` + linkClass + `">`)
	return ast.WalkContinue, nil
}

func (r *ruleRenderer) renderImage(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.Image)

	src, align := splitAlignment(string(n.Destination))
	alt := plainText(n, source)
	if strings.TrimSpace(alt) == "" {
		alt = DefaultImageAlt
	}

	_, _ = w.WriteString("<img")
	if !html.IsDangerousURL([]byte(src)) {
		_, _ = w.WriteString(` src="`)
		_, _ = w.Write(util.EscapeHTML(util.URLEscape([]byte(src), true)))
		_ = w.WriteByte('"')
	}
	_, _ = w.WriteString(` alt="`)
	_, _ = w.Write(util.EscapeHTML([]byte(alt)))
	_ = w.WriteByte('"')
	if len(n.Title) > 0 {
		_, _ = w.WriteString(` title="`)
		_, _ = w.Write(util.EscapeHTML(n.Title))
		_ = w.WriteByte('"')
	}
	_, _ = w.WriteString(` class="` + imageClass + ` ` + align + `" loading="lazy">`)

	// alt text already consumed the children
	return ast.WalkSkipChildren, nil
}

// splitAlignment strips a trailing alignment fragment from src.
func splitAlignment(src string) (string, string) {
	for _, a := range alignments {
		if strings.HasSuffix(src, a.suffix) {
			return strings.TrimSuffix(src, a.suffix), a.class
		}
	}
	return src, defaultAlignClass
}

// plainText flattens the inline text below n.
func plainText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}
