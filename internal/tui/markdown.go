package tui

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma"
	"github.com/alecthomas/chroma/formatters"
	"github.com/alecthomas/chroma/lexers"
	"github.com/alecthomas/chroma/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	codeBlockRegex = regexp.MustCompile(`(?s)<pre><code(?: class="language-([a-zA-Z0-9]+)")?>(.*?)</code></pre>`)
	headingRegex   = regexp.MustCompile(`<h([1-6])[^>]*>(.*?)</h[1-6]>`)
	strongRegex    = regexp.MustCompile(`<strong>(.*?)</strong>`)
	emRegex        = regexp.MustCompile(`<em>(.*?)</em>`)
	linkRegex      = regexp.MustCompile(`<a href="([^"]*)">(.*?)</a>`)
	liRegex        = regexp.MustCompile(`<li>(.*?)</li>`)
	inlineCodeRe   = regexp.MustCompile(`<code>([^<]+)</code>`)
	htmlTagRegex   = regexp.MustCompile(`<[^>]+>`)
	multiNewline   = regexp.MustCompile(`\n{3,}`)
)

// MarkdownRenderer turns assistant markdown into themed terminal output.
// Markdown goes through goldmark to HTML, then the HTML is rewritten into
// lipgloss-styled text with chroma highlighting for fenced code.
type MarkdownRenderer struct {
	md        goldmark.Markdown
	theme     Theme
	formatter chroma.Formatter
	style     *chroma.Style
}

func NewMarkdownRenderer(theme Theme) *MarkdownRenderer {
	return &MarkdownRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
		theme:     theme,
		formatter: formatters.Get("terminal256"),
		style:     styles.Get("monokai"),
	}
}

// SetTheme swaps the palette; the next Render call picks it up.
func (r *MarkdownRenderer) SetTheme(theme Theme) { r.theme = theme }

// Render converts markdown to terminal text. On conversion failure the raw
// content is returned unstyled.
func (r *MarkdownRenderer) Render(content string, width int) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(content), &buf); err != nil {
		return content
	}
	return r.rewrite(buf.String(), width)
}

func (r *MarkdownRenderer) rewrite(htmlContent string, width int) string {
	result := htmlContent

	// Code blocks are lifted out first so later rewrites cannot touch them.
	var codeBlocks []string
	result = codeBlockRegex.ReplaceAllStringFunc(result, func(m string) string {
		matches := codeBlockRegex.FindStringSubmatch(m)
		if len(matches) < 3 {
			return m
		}
		code := decodeEntities(matches[2])
		codeWidth := width - 6
		if codeWidth < 20 {
			codeWidth = 20
		}
		styled := lipgloss.NewStyle().
			Foreground(r.theme.CodeFg).
			Background(r.theme.CodeBg).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(r.theme.CodeBorder).
			Width(codeWidth).
			Render(r.highlight(code, matches[1]))
		codeBlocks = append(codeBlocks, styled)
		return fmt.Sprintf("\n{{CODE_%d}}\n", len(codeBlocks)-1)
	})

	result = inlineCodeRe.ReplaceAllStringFunc(result, func(m string) string {
		matches := inlineCodeRe.FindStringSubmatch(m)
		if len(matches) < 2 {
			return m
		}
		return lipgloss.NewStyle().
			Foreground(r.theme.CodeFg).
			Background(r.theme.CodeBg).
			Padding(0, 1).
			Render(decodeEntities(matches[1]))
	})

	result = headingRegex.ReplaceAllStringFunc(result, func(m string) string {
		matches := headingRegex.FindStringSubmatch(m)
		if len(matches) < 3 {
			return m
		}
		return lipgloss.NewStyle().Bold(true).Foreground(r.theme.Heading).Render(matches[2]) + "\n"
	})

	result = strongRegex.ReplaceAllString(result, lipgloss.NewStyle().Bold(true).Render("$1"))
	result = emRegex.ReplaceAllString(result, lipgloss.NewStyle().Italic(true).Render("$1"))

	result = linkRegex.ReplaceAllStringFunc(result, func(m string) string {
		matches := linkRegex.FindStringSubmatch(m)
		if len(matches) < 3 {
			return m
		}
		label := lipgloss.NewStyle().Foreground(r.theme.Link).Underline(true).Render(matches[2])
		return fmt.Sprintf("%s (%s)", label, matches[1])
	})

	result = liRegex.ReplaceAllStringFunc(result, func(m string) string {
		matches := liRegex.FindStringSubmatch(m)
		if len(matches) < 2 {
			return m
		}
		bullet := lipgloss.NewStyle().Foreground(r.theme.Bullet).Render("•")
		return "  " + bullet + " " + htmlTagRegex.ReplaceAllString(matches[1], "") + "\n"
	})

	result = strings.ReplaceAll(result, "</p>", "\n")
	for _, br := range []string{"<br>", "<br/>", "<br />"} {
		result = strings.ReplaceAll(result, br, "\n")
	}
	result = htmlTagRegex.ReplaceAllString(result, "")
	result = decodeEntities(result)

	for i, block := range codeBlocks {
		result = strings.ReplaceAll(result, fmt.Sprintf("{{CODE_%d}}", i), block)
	}

	result = multiNewline.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

func (r *MarkdownRenderer) highlight(code, lang string) string {
	var lexer chroma.Lexer
	if lang != "" {
		lexer = lexers.Get(lang)
	}
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return code
	}
	var buf bytes.Buffer
	if err := r.formatter.Format(&buf, r.style, iterator); err != nil {
		return code
	}
	return strings.TrimRight(buf.String(), "\n")
}

var entities = [][2]string{
	{"&amp;", "&"},
	{"&lt;", "<"},
	{"&gt;", ">"},
	{"&quot;", "\""},
	{"&#39;", "'"},
	{"&#x27;", "'"},
	{"&#x60;", "`"},
	{"&nbsp;", " "},
}

func decodeEntities(s string) string {
	for _, e := range entities {
		s = strings.ReplaceAll(s, e[0], e[1])
	}
	return s
}
