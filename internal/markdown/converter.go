// Package markdown converts a fetched block tree into Markdown text. The
// conversion is total: blocks it does not understand degrade to HTML comment
// placeholders instead of failing the export.
package markdown

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/jomei/notionapi"
	"github.com/sirupsen/logrus"

	"github.com/dotneet/notion-exporter/internal/logger"
	"github.com/dotneet/notion-exporter/internal/notion"
	"github.com/dotneet/notion-exporter/internal/storage"
)

// ImageFetcher downloads a remote image and returns its local filename.
// Implemented by assets.Downloader.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Options configures a Converter for one page's rendering context.
type Options struct {
	// Images downloads image blocks. Nil leaves remote URLs in place.
	Images ImageFetcher
	// ImagePrefix is the page-relative path to the shared images directory,
	// for example "images" at the destination root or "../images" one level
	// down.
	ImagePrefix string
	// ChildDir is the subdirectory holding this page's exported children,
	// used for local links to child database items.
	ChildDir string
	Logger   logrus.FieldLogger
}

// Converter renders block trees to Markdown.
type Converter struct {
	images      ImageFetcher
	imagePrefix string
	childDir    string
	logger      logrus.FieldLogger
}

// NewConverter creates a Converter. A nil logger discards output.
func NewConverter(opts Options) *Converter {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	return &Converter{
		images:      opts.Images,
		imagePrefix: opts.ImagePrefix,
		childDir:    opts.ChildDir,
		logger:      log,
	}
}

// Convert renders a block tree to Markdown. Conversion never fails: unknown
// block types render as comments and failed image downloads fall back to the
// remote URL.
func (c *Converter) Convert(ctx context.Context, nodes []notion.Node) string {
	return c.blocks(ctx, nodes, nodes)
}

// blocks renders one sibling sequence. top is the page's top-level sequence,
// which table_of_contents blocks are synthesized from regardless of nesting
// depth.
func (c *Converter) blocks(ctx context.Context, nodes, top []notion.Node) string {
	var sb strings.Builder
	prevType := notionapi.BlockType("")
	counter := 0

	for i, n := range nodes {
		t := n.Block.GetType()
		if t == notionapi.BlockTypeNumberedListItem {
			if prevType == notionapi.BlockTypeNumberedListItem {
				counter++
			} else {
				counter = 1
			}
		} else {
			counter = 0
		}

		if i > 0 {
			if isListItem(prevType) && isListItem(t) {
				sb.WriteString("\n")
			} else {
				sb.WriteString("\n\n")
			}
		}
		sb.WriteString(c.renderBlock(ctx, n, counter, top))
		prevType = t
	}
	return sb.String()
}

func isListItem(t notionapi.BlockType) bool {
	switch t {
	case notionapi.BlockTypeBulletedListItem,
		notionapi.BlockTypeNumberedListItem,
		notionapi.BlockTypeToDo:
		return true
	}
	return false
}

func (c *Converter) renderBlock(ctx context.Context, n notion.Node, counter int, top []notion.Node) string {
	switch b := n.Block.(type) {
	case *notionapi.ParagraphBlock:
		return c.richText(b.Paragraph.RichText)
	case *notionapi.Heading1Block:
		return c.heading(ctx, 1, b.Heading1, n.Children, top)
	case *notionapi.Heading2Block:
		return c.heading(ctx, 2, b.Heading2, n.Children, top)
	case *notionapi.Heading3Block:
		return c.heading(ctx, 3, b.Heading3, n.Children, top)
	case *notionapi.BulletedListItemBlock:
		return "- " + c.richText(b.BulletedListItem.RichText)
	case *notionapi.NumberedListItemBlock:
		return fmt.Sprintf("%d. %s", counter, c.richText(b.NumberedListItem.RichText))
	case *notionapi.ToDoBlock:
		box := "- [ ] "
		if b.ToDo.Checked {
			box = "- [x] "
		}
		return box + c.richText(b.ToDo.RichText)
	case *notionapi.ToggleBlock:
		return c.details(ctx, c.richText(b.Toggle.RichText), n.Children, top)
	case *notionapi.CodeBlock:
		return "```" + b.Code.Language + "\n" + notion.PlainText(b.Code.RichText) + "\n```"
	case *notionapi.QuoteBlock:
		return prefixLines(c.richText(b.Quote.RichText), "> ")
	case *notionapi.CalloutBlock:
		text := c.richText(b.Callout.RichText)
		if ic := b.Callout.Icon; ic != nil && ic.Emoji != nil {
			text = string(*ic.Emoji) + " " + text
		}
		return prefixLines(text, "> ")
	case *notionapi.DividerBlock:
		return "---"
	case *notionapi.ImageBlock:
		return c.image(ctx, b)
	case *notionapi.BookmarkBlock:
		label := notion.PlainText(b.Bookmark.Caption)
		if label == "" {
			label = b.Bookmark.URL
		}
		return fmt.Sprintf("[%s](%s)", label, b.Bookmark.URL)
	case *notionapi.EmbedBlock:
		return b.Embed.URL
	case *notionapi.LinkPreviewBlock:
		return b.LinkPreview.URL
	case *notionapi.EquationBlock:
		return "$$\n" + b.Equation.Expression + "\n$$"
	case *notionapi.TableBlock:
		return c.table(b, n.Children)
	case *notionapi.TableRowBlock:
		// Rows render inside their table block.
		return ""
	case *notionapi.ColumnListBlock:
		return c.columnList(ctx, n.Children, top)
	case *notionapi.TableOfContentsBlock:
		return c.tableOfContents(top)
	case *notionapi.ChildPageBlock:
		return notionLink(b.ChildPage.Title, b.ID)
	case *notionapi.ChildDatabaseBlock:
		return c.childDatabase(b, n.Database)
	default:
		return fmt.Sprintf("<!-- unsupported block type: %s -->", n.Block.GetType())
	}
}

func (c *Converter) heading(ctx context.Context, level int, h notionapi.Heading, children, top []notion.Node) string {
	text := c.richText(h.RichText)
	if !h.IsToggleable {
		return strings.Repeat("#", level) + " " + text
	}
	summary := fmt.Sprintf("<h%d>%s</h%d>", level, text, level)
	return c.details(ctx, summary, children, top)
}

// details renders a collapsible block. A toggle without children keeps an
// empty body between the tags.
func (c *Converter) details(ctx context.Context, summary string, children, top []notion.Node) string {
	var sb strings.Builder
	sb.WriteString("<details>\n<summary>")
	sb.WriteString(summary)
	sb.WriteString("</summary>\n\n")
	if len(children) > 0 {
		sb.WriteString(c.blocks(ctx, children, top))
		sb.WriteString("\n\n")
	}
	sb.WriteString("</details>")
	return sb.String()
}

func (c *Converter) image(ctx context.Context, b *notionapi.ImageBlock) string {
	alt := notion.PlainText(b.Image.Caption)
	if alt == "" {
		alt = "image"
	}

	var url string
	if b.Image.File != nil {
		url = b.Image.File.URL
	}
	if url == "" && b.Image.External != nil {
		url = b.Image.External.URL
	}

	target := url
	if c.images != nil && url != "" {
		name, err := c.images.Fetch(ctx, url)
		if err != nil {
			c.logger.WithError(err).WithField("url", url).Warn("Failed to download image, keeping remote URL")
		} else {
			target = path.Join(c.imagePrefix, name)
		}
	}
	return fmt.Sprintf("![%s](%s)", alt, target)
}

func (c *Converter) table(b *notionapi.TableBlock, rows []notion.Node) string {
	var lines []string
	first := true
	for _, rn := range rows {
		row, ok := rn.Block.(*notionapi.TableRowBlock)
		if !ok {
			continue
		}
		cells := make([]string, 0, len(row.TableRow.Cells))
		for _, cell := range row.TableRow.Cells {
			cells = append(cells, escapeCell(c.richText(cell)))
		}
		lines = append(lines, "| "+strings.Join(cells, " | ")+" |")
		if first && b.Table.HasColumnHeader {
			lines = append(lines, separatorRow(len(cells)))
		}
		first = false
	}
	return strings.Join(lines, "\n")
}

func (c *Converter) columnList(ctx context.Context, columns, top []notion.Node) string {
	var sb strings.Builder
	sb.WriteString("<div style=\"display:flex;\">\n")
	for _, col := range columns {
		sb.WriteString("<div style=\"flex:1;\">\n\n")
		sb.WriteString(c.blocks(ctx, col.Children, top))
		sb.WriteString("\n\n</div>\n")
	}
	sb.WriteString("</div>")
	return sb.String()
}

// childDatabase renders an inline table when the exporter attached the
// database's content, a plain link to the Notion page otherwise.
func (c *Converter) childDatabase(b *notionapi.ChildDatabaseBlock, content *notion.DatabaseContent) string {
	if content == nil || content.Database == nil {
		return notionLink(b.ChildDatabase.Title, b.ID)
	}
	db := content.Database

	titleCol := notion.DatabaseTitleColumn(db)
	if titleCol == "" {
		titleCol = "Name"
	}
	var cols []string
	for name := range db.Properties {
		if name != titleCol {
			cols = append(cols, name)
		}
	}
	sort.Strings(cols)

	header := make([]string, 0, len(cols)+1)
	header = append(header, escapeCell(titleCol))
	for _, col := range cols {
		header = append(header, escapeCell(col))
	}

	lines := []string{
		"| " + strings.Join(header, " | ") + " |",
		separatorRow(len(header)),
	}
	for i := range content.Items {
		item := &content.Items[i]
		title := notion.PageTitle(item)
		target := path.Join(c.childDir, "databases", string(db.ID), storage.SafeFilename(title)+".md")
		flat := notion.FlattenProperties(item.Properties)

		cells := make([]string, 0, len(cols)+1)
		cells = append(cells, fmt.Sprintf("[%s](%s)", escapeCell(title), target))
		for _, col := range cols {
			cells = append(cells, escapeCell(flat[col]))
		}
		lines = append(lines, "| "+strings.Join(cells, " | ")+" |")
	}
	return strings.Join(lines, "\n")
}

// notionLink renders a link to the page on notion.so, which uses block ids
// with the hyphens stripped.
func notionLink(title string, id notionapi.BlockID) string {
	if title == "" {
		title = "Untitled"
	}
	return fmt.Sprintf("[%s](https://www.notion.so/%s)", title, strings.ReplaceAll(string(id), "-", ""))
}

func prefixLines(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func separatorRow(width int) string {
	cells := make([]string, width)
	for i := range cells {
		cells[i] = "---"
	}
	return "| " + strings.Join(cells, " | ") + " |"
}
