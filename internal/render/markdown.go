package render

import (
	"html/template"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Markdown converts report Markdown (pipe tables, emphasis) to HTML for the
// dashboard. Raw HTML in the source is dropped and links are kept only for
// safe protocols. Typographic substitutions are off so cell text such as
// 1/2 stays as uploaded.
func Markdown(md string) template.HTML {
	if md == "" {
		return ""
	}
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.SkipHTML | html.Safelink,
	})
	return template.HTML(markdown.ToHTML([]byte(md), p, renderer))
}
