package markdown

import (
	"github.com/jomei/notionapi"
)

// richText renders a rich text sequence span by span, in API order.
func (c *Converter) richText(spans []notionapi.RichText) string {
	var out string
	for _, s := range spans {
		out += renderSpan(s)
	}
	return out
}

// renderSpan renders one span. Annotations nest in a fixed order, bold
// innermost, then italic, strikethrough, inline code and underline; a link
// wraps the fully annotated text last.
func renderSpan(s notionapi.RichText) string {
	if s.Equation != nil {
		return "$" + s.Equation.Expression + "$"
	}
	if s.Mention != nil {
		return s.PlainText
	}

	text := s.PlainText
	if text == "" && s.Text != nil {
		text = s.Text.Content
	}
	if text == "" {
		return ""
	}

	if a := s.Annotations; a != nil {
		if a.Bold {
			text = "**" + text + "**"
		}
		if a.Italic {
			text = "*" + text + "*"
		}
		if a.Strikethrough {
			text = "~~" + text + "~~"
		}
		if a.Code {
			text = "`" + text + "`"
		}
		if a.Underline {
			text = "<u>" + text + "</u>"
		}
	}

	href := s.Href
	if s.Text != nil && s.Text.Link != nil && s.Text.Link.Url != "" {
		href = s.Text.Link.Url
	}
	if href != "" {
		text = "[" + text + "](" + href + ")"
	}
	return text
}
