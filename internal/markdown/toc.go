package markdown

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jomei/notionapi"

	"github.com/dotneet/notion-exporter/internal/notion"
)

// anchorRun matches the character runs GitHub-style anchors collapse into a
// single hyphen. Case and non-ASCII characters pass through untouched.
var anchorRun = regexp.MustCompile(`[\s()#"']+`)

func anchor(text string) string {
	return anchorRun.ReplaceAllString(text, "-")
}

// tableOfContents synthesizes a linked outline from the headings of the
// page's top-level block sequence. Nested headings are not scanned.
func (c *Converter) tableOfContents(top []notion.Node) string {
	var lines []string
	for _, n := range top {
		var (
			level int
			spans []notionapi.RichText
		)
		switch h := n.Block.(type) {
		case *notionapi.Heading1Block:
			level, spans = 1, h.Heading1.RichText
		case *notionapi.Heading2Block:
			level, spans = 2, h.Heading2.RichText
		case *notionapi.Heading3Block:
			level, spans = 3, h.Heading3.RichText
		default:
			continue
		}
		text := notion.PlainText(spans)
		indent := strings.Repeat("  ", level-1)
		lines = append(lines, fmt.Sprintf("%s- [%s](#%s)", indent, text, anchor(text)))
	}
	if len(lines) == 0 {
		return "<!-- no headings found -->"
	}
	return strings.Join(lines, "\n")
}
