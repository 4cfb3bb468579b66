package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestPlainText(t *testing.T) {
	in := "# Title\n\nSome **bold** and `code` with a [link](http://x.com) ![img](/a.jpg)\n> quoted"
	assert.Equal(t, "Title Some bold and code with a link quoted", PlainText(in))
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", TruncateText("short", 155))

	long := strings.Repeat("lorem ipsum ", 30)
	out := TruncateText(long, 155)
	assert.True(t, strings.HasSuffix(out, "..."))
	assert.LessOrEqual(t, utf8.RuneCountInString(strings.TrimSuffix(out, "...")), 155)
	assert.False(t, strings.HasSuffix(strings.TrimSuffix(out, "..."), " "))
	assert.True(t, strings.HasSuffix(strings.TrimSuffix(out, "..."), "lorem") || strings.HasSuffix(strings.TrimSuffix(out, "..."), "ipsum"))
}

func TestAbsoluteURL(t *testing.T) {
	assert.Equal(t, "https://artsy.example/files/a.jpg", site.AbsoluteURL("/files/a.jpg"))
	assert.Equal(t, "https://cdn.example/a.jpg", site.AbsoluteURL("https://cdn.example/a.jpg"))
	assert.Equal(t, "//cdn.example/a.jpg", site.AbsoluteURL("//cdn.example/a.jpg"))
}
