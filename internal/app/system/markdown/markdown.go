// internal/app/system/markdown/markdown.go
//
// Package markdown renders user-authored markdown (ticket descriptions,
// comments) to sanitized HTML.
package markdown

import (
	"bytes"
	"html/template"
	"sync"

	"github.com/dalemusser/trackhub/internal/app/system/htmlsanitize"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// The parser configuration never changes and the goldmark parser is
// safe to share; initialize once and reuse.
var (
	mdInstance goldmark.Markdown
	mdOnce     sync.Once
)

func getParser() goldmark.Markdown {
	mdOnce.Do(func() {
		mdInstance = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		)
	})
	return mdInstance
}

// Render converts markdown to HTML and sanitizes the result. Raw HTML
// embedded in the source is stripped by the sanitizer, not the parser,
// so safe formatting tags still work.
func Render(src string) template.HTML {
	if src == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := getParser().Convert([]byte(src), &buf); err != nil {
		// Fall back to the sanitized source text.
		return htmlsanitize.SanitizeHTML(src)
	}
	return htmlsanitize.SanitizeHTML(buf.String())
}
