// Package render turns post content into the HTML shown in the live preview.
package render

import (
	"fmt"
	"html"
	"html/template"
	"io"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	md_html "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/postcraft/internal/cache"
	"github.com/debemdeboas/postcraft/internal/theme"
	"github.com/debemdeboas/postcraft/internal/util"
)

const EmptyPreview = "Start chatting with the assistant to generate your post."

var renderLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	renderLogger = l
}

var hashtagPattern = regexp.MustCompile(`#[\p{L}\p{N}_]+`)

func HighlightCode(code, language, highlightTheme string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return html.EscapeString(code)
	}

	var buf strings.Builder
	style := styles.Get(highlightTheme)
	if style == nil {
		style = styles.Fallback
	}
	if err := theme.GetFormatter().Format(&buf, style, iterator); err != nil {
		return html.EscapeString(code)
	}
	return buf.String()
}

// writeText escapes text and wraps hashtags in spans.
func writeText(w io.Writer, text []byte) {
	last := 0
	for _, loc := range hashtagPattern.FindAllIndex(text, -1) {
		// "abc#tag" is not a hashtag
		if loc[0] > 0 && !isBoundary(text[loc[0]-1]) {
			continue
		}
		md_html.EscapeHTML(w, text[last:loc[0]])
		io.WriteString(w, `<span class="hashtag">`)
		md_html.EscapeHTML(w, text[loc[0]:loc[1]])
		io.WriteString(w, `</span>`)
		last = loc[1]
	}
	md_html.EscapeHTML(w, text[last:])
}

func isBoundary(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '(' || b == '\r'
}

// RenderPost renders post content. Line breaks are kept, raw HTML is dropped, fenced code
// is highlighted with highlightTheme and hashtags are marked up.
func RenderPost(content []byte, highlightTheme string) []byte {
	content = markdown.NormalizeNewlines(content)

	opts := md_html.RendererOptions{
		Flags: md_html.SkipHTML | md_html.Safelink | md_html.HrefTargetBlank | md_html.NofollowLinks | md_html.NoreferrerLinks,
		RenderNodeHook: func(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
			switch n := node.(type) {
			case *ast.CodeBlock:
				if !entering {
					return ast.GoToNext, true
				}
				highlighted := HighlightCode(string(n.Literal), string(n.Info), highlightTheme)
				fmt.Fprintf(w, "<div class=\"highlight\">%s</div>", highlighted)
				return ast.GoToNext, true
			case *ast.Text:
				if entering {
					if _, inLink := n.Parent.(*ast.Link); !inLink {
						writeText(w, n.Literal)
						return ast.GoToNext, true
					}
				}
			}
			return ast.GoToNext, false
		},
	}

	doc := parser.NewWithExtensions(
		parser.FencedCode | parser.Autolink | parser.Strikethrough | parser.SpaceHeadings |
			parser.HardLineBreak | parser.NoIntraEmphasis | parser.Tables,
	).Parse(content)

	return markdown.Render(doc, md_html.NewRenderer(opts))
}

// Preview renders content for the composer preview, reusing earlier renders of the same
// content and theme.
func Preview(content, highlightTheme string) template.HTML {
	if strings.TrimSpace(content) == "" {
		return template.HTML(`<p class="empty">` + html.EscapeString(EmptyPreview) + `</p>`)
	}

	hash := util.ContentHashString(content)
	if cached, ok := cache.GetRenderedPreview(hash, highlightTheme); ok {
		renderLogger.Debug().Str("contentHash", hash).Str("highlightTheme", highlightTheme).Msg("Cache hit for rendered preview")
		return cached
	}

	renderLogger.Debug().Str("contentHash", hash).Str("highlightTheme", highlightTheme).Msg("Cache miss for rendered preview")
	rendered := template.HTML(RenderPost([]byte(content), highlightTheme))
	cache.SetRenderedPreview(hash, highlightTheme, rendered)
	return rendered
}
