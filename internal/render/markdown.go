// Package render turns post markdown into HTML for the article view.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/adrg/frontmatter"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// InlineCodeClass is set on every inline code span.
const InlineCodeClass = "inline-code"

// CodeStyle is the chroma style fenced code blocks are highlighted with.
const CodeStyle = "github-dark"

// Renderer converts markdown to HTML. It holds no per-call state and is safe
// for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

// New builds a renderer with GFM, heading ids, raw HTML passthrough and
// class-based highlighting of fenced code. WriteCSS emits the matching rules.
func New() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				highlighting.NewHighlighting(
					highlighting.WithStyle(CodeStyle),
					highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
				),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
				parser.WithASTTransformers(util.Prioritized(articleTransformer{}, 100)),
			),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

// Render strips any leading front matter from src and converts the rest.
func (r *Renderer) Render(src string) (template.HTML, error) {
	body := StripFrontMatter([]byte(src))

	var buf bytes.Buffer
	if err := r.md.Convert(body, &buf); err != nil {
		return "", fmt.Errorf("markdown render: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// WriteCSS writes the stylesheet for highlighted code blocks.
func (r *Renderer) WriteCSS(w io.Writer) error {
	return chromahtml.New(chromahtml.WithClasses(true)).WriteCSS(w, styles.Get(CodeStyle))
}

// StripFrontMatter returns src without its front matter block. Input without
// one, or with one that does not parse, comes back unchanged.
func StripFrontMatter(src []byte) []byte {
	var meta map[string]any
	body, err := frontmatter.Parse(bytes.NewReader(src), &meta)
	if err != nil {
		return src
	}
	return body
}

// articleTransformer opens external links in a new tab and tags inline code.
type articleTransformer struct{}

func (articleTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Link:
			if isExternal(node.Destination) {
				markExternal(node)
			}
		case *ast.AutoLink:
			if isExternal(node.URL(reader.Source())) {
				markExternal(node)
			}
		case *ast.CodeSpan:
			node.SetAttributeString("class", []byte(InlineCodeClass))
		}
		return ast.WalkContinue, nil
	})
}

func markExternal(n ast.Node) {
	n.SetAttributeString("target", []byte("_blank"))
	n.SetAttributeString("rel", []byte("noopener noreferrer"))
}

func isExternal(dest []byte) bool {
	lower := bytes.ToLower(dest)
	return bytes.HasPrefix(lower, []byte("http://")) || bytes.HasPrefix(lower, []byte("https://"))
}
