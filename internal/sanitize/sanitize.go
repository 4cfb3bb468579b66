// Package sanitize is the last step before user-authored HTML is displayed.
package sanitize

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer wraps an immutable bluemonday policy. Safe for concurrent use.
type Sanitizer struct {
	policy *bluemonday.Policy
}

var (
	targetRe = regexp.MustCompile(`^_blank$`)
	relRe    = regexp.MustCompile(`^[a-z ]+$`)
	classRe  = regexp.MustCompile(`^[a-zA-Z0-9 _:/.\-\[\]]+$`)
	idRe     = regexp.MustCompile(`^[a-z0-9][a-z0-9\-]*$`)
	loadRe   = regexp.MustCompile(`^(lazy|eager)$`)
	alignRe  = regexp.MustCompile(`^(left|center|right)$`)
)

// New builds the article policy: structural tags only, no style attributes,
// no event handlers and only http(s)/mailto or relative URLs.
func New() *Sanitizer {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"p", "br", "hr", "span", "div", "a", "img",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"em", "strong", "b", "i", "del", "s", "sup", "sub",
		"ul", "ol", "li",
		"blockquote", "code", "pre",
		"table", "thead", "tbody", "tr", "th", "td",
	)

	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("target").Matching(targetRe).OnElements("a")
	p.AllowAttrs("rel").Matching(relRe).OnElements("a")

	p.AllowAttrs("src").OnElements("img")
	p.AllowAttrs("alt").OnElements("img")
	p.AllowAttrs("loading").Matching(loadRe).OnElements("img")

	p.AllowAttrs("align").Matching(alignRe).OnElements("th", "td")
	p.AllowAttrs("start").Matching(bluemonday.Integer).OnElements("ol")

	p.AllowAttrs("title").Globally()
	p.AllowAttrs("class").Matching(classRe).Globally()
	p.AllowAttrs("id").Matching(idRe).Globally()

	p.AllowURLSchemes("http", "https", "mailto")
	p.AllowRelativeURLs(true)
	p.RequireParseableURLs(true)

	return &Sanitizer{policy: p}
}

// Sanitize returns well-formed HTML stripped of anything not allow-listed.
// NUL bytes are dropped first; they are never valid in HTML text.
func (s *Sanitizer) Sanitize(raw string) string {
	return s.policy.Sanitize(strings.ReplaceAll(raw, "\x00", ""))
}
