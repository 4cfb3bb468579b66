package sanitize

import (
	"strings"
	"testing"

	"artsy/internal/markdown"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hostile = []string{
	`<script>alert(1)</script><p>ok</p>`,
	`<img src="x" onerror="alert(1)">`,
	`<a href="javascript:alert(1)">x</a>`,
	`<a href="JaVaScRiPt:alert(1)" onclick="steal()">x</a>`,
	`<p style="background:url(javascript:alert(1))">styled</p>`,
	`<iframe src="https://evil.example"></iframe>`,
	`<svg onload="alert(1)"><circle/></svg>`,
	`<SCRIPT SRC=//evil.example/x.js></SCRIPT>`,
	`<div><scr<script>ipt>alert(1)</script></div>`,
	`<img src="data:image/svg+xml;base64,PHN2Zz4=">`,
	`<a href="http://x.com/?a=1&b=2" title="Tom & Jerry">amp</a>`,
	`<p>unclosed <em>tags <strong>here`,
	"plain & text < with > specials",
}

func TestSanitizeStripsScriptConstructs(t *testing.T) {
	s := New()
	for _, in := range hostile {
		out := strings.ToLower(s.Sanitize(in))
		assert.NotContains(t, out, "<script", in)
		assert.NotContains(t, out, "onerror", in)
		assert.NotContains(t, out, "onclick", in)
		assert.NotContains(t, out, "onload", in)
		assert.NotContains(t, out, "javascript:", in)
		assert.NotContains(t, out, "style=", in)
		assert.NotContains(t, out, "<iframe", in)
	}
}

func TestSanitizeIsIdempotent(t *testing.T) {
	s := New()
	r := markdown.New(markdown.DefaultConfig())

	inputs := append([]string{}, hostile...)
	for _, md := range []string{
		"# Hi\n[link](http://x.com \"t\")\n\n![a](/files/x.jpg#left)",
		"```go\nfmt.Println(\"<b>\")\n```",
		"| a | b |\n|:-|-:|\n| 1 | 2 |",
	} {
		h, err := r.Render(md)
		require.NoError(t, err)
		inputs = append(inputs, h)
	}

	for _, in := range inputs {
		once := s.Sanitize(in)
		assert.Equal(t, once, s.Sanitize(once), in)
	}
}

func TestSanitizeKeepsRendererAttributes(t *testing.T) {
	h, err := markdown.New(markdown.DefaultConfig()).Render(
		"# Hi\n[link](http://x.com)\n\n![cat](/files/a.jpg#right)\n\n<script>alert(1)</script>")
	require.NoError(t, err)

	out := New().Sanitize(h)

	assert.Contains(t, out, `<h1 id="hi" class="`)
	assert.Contains(t, out, `target="_blank"`)
	assert.Contains(t, out, `rel="noopener noreferrer"`)
	assert.Contains(t, out, `src="/files/a.jpg"`)
	assert.Contains(t, out, `loading="lazy"`)
	assert.Contains(t, out, "img-right")
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "aria-hidden")
}

func TestSanitizeRejectsForeignTarget(t *testing.T) {
	out := New().Sanitize(`<a href="/x" target="_top" rel="opener">x</a>`)
	assert.NotContains(t, out, "_top")
	assert.Contains(t, out, `rel="opener"`)
}

func TestSanitizeKeepsLinkAndImageTitles(t *testing.T) {
	md := markdown.New(markdown.DefaultConfig())
	cases := map[string]string{
		`[x](http://x.com "What is this?")`:  `title="What is this?"`,
		`[x](http://x.com "Note: see docs")`: `title="Note: see docs"`,
		`[x](http://x.com "Tom & Jerry")`:    `title="Tom &amp; Jerry"`,
		`![sun](/files/s.jpg "Sunset #1")`:   `title="Sunset #1"`,
	}
	for src, want := range cases {
		h, err := md.Render(src)
		require.NoError(t, err)
		assert.Contains(t, New().Sanitize(h), want, src)
	}
}

func TestSanitizeDropsNulBytes(t *testing.T) {
	out := New().Sanitize("<p>a\x00b</p>")
	assert.Equal(t, "<p>ab</p>", out)
	assert.NotContains(t, out, "\x00")
}
