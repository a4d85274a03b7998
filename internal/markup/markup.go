// Package markup wraps exported trees for documentation: a fenced Markdown
// block, or that block rendered to HTML.
package markup

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
)

// Format names accepted by Render.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		highlighting.NewHighlighting(
			highlighting.WithStyle("github"),
		),
	),
)

// Markdown wraps the tree text in a fenced code block. The fence is longer
// than any backtick run inside the text.
func Markdown(text string) string {
	fence := strings.Repeat("`", longestRun(text, '`')+1)
	if len(fence) < 3 {
		fence = "```"
	}
	return fence + "text\n" + text + "\n" + fence + "\n"
}

// HTML renders the Markdown form of the tree text.
func HTML(text string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(text)), &buf); err != nil {
		return "", fmt.Errorf("markup: rendering html: %w", err)
	}
	return buf.String(), nil
}

// Render converts tree text to the named format.
func Render(format, text string) (string, error) {
	switch format {
	case "", FormatText:
		return text, nil
	case FormatMarkdown, "md":
		return Markdown(text), nil
	case FormatHTML:
		return HTML(text)
	default:
		return "", fmt.Errorf("markup: unknown format %q", format)
	}
}

// ContentType returns the MIME type for a format.
func ContentType(format string) string {
	switch format {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatMarkdown, "md":
		return "text/markdown; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

func longestRun(s string, c byte) int {
	longest, cur := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			cur++
			if cur > longest {
				longest = cur
			}
		} else {
			cur = 0
		}
	}
	return longest
}
