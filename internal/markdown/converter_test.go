package markdown

import (
	"context"
	"errors"
	"testing"

	"github.com/jomei/notionapi"

	"github.com/dotneet/notion-exporter/internal/notion"
)

func basic(t notionapi.BlockType) notionapi.BasicBlock {
	return notionapi.BasicBlock{Object: "block", ID: "b1", Type: t}
}

func span(text string) notionapi.RichText {
	return notionapi.RichText{
		Text:      &notionapi.Text{Content: text},
		PlainText: text,
	}
}

func spans(text string) []notionapi.RichText {
	return []notionapi.RichText{span(text)}
}

func paragraph(text string) notion.Node {
	return notion.Node{Block: &notionapi.ParagraphBlock{
		BasicBlock: basic("paragraph"),
		Paragraph:  notionapi.Paragraph{RichText: spans(text)},
	}}
}

func heading(level int, text string, toggleable bool, children ...notion.Node) notion.Node {
	h := notionapi.Heading{RichText: spans(text), IsToggleable: toggleable}
	var b notionapi.Block
	switch level {
	case 1:
		b = &notionapi.Heading1Block{BasicBlock: basic("heading_1"), Heading1: h}
	case 2:
		b = &notionapi.Heading2Block{BasicBlock: basic("heading_2"), Heading2: h}
	default:
		b = &notionapi.Heading3Block{BasicBlock: basic("heading_3"), Heading3: h}
	}
	return notion.Node{Block: b, Children: children}
}

func bullet(text string) notion.Node {
	return notion.Node{Block: &notionapi.BulletedListItemBlock{
		BasicBlock:       basic("bulleted_list_item"),
		BulletedListItem: notionapi.ListItem{RichText: spans(text)},
	}}
}

func numbered(text string) notion.Node {
	return notion.Node{Block: &notionapi.NumberedListItemBlock{
		BasicBlock:       basic("numbered_list_item"),
		NumberedListItem: notionapi.ListItem{RichText: spans(text)},
	}}
}

func todo(text string, checked bool) notion.Node {
	return notion.Node{Block: &notionapi.ToDoBlock{
		BasicBlock: basic("to_do"),
		ToDo:       notionapi.ToDo{RichText: spans(text), Checked: checked},
	}}
}

func toggle(text string, children ...notion.Node) notion.Node {
	return notion.Node{
		Block: &notionapi.ToggleBlock{
			BasicBlock: basic("toggle"),
			Toggle:     notionapi.Toggle{RichText: spans(text)},
		},
		Children: children,
	}
}

func tableRow(cells ...string) notion.Node {
	row := make([][]notionapi.RichText, 0, len(cells))
	for _, c := range cells {
		row = append(row, spans(c))
	}
	return notion.Node{Block: &notionapi.TableRowBlock{
		BasicBlock: basic("table_row"),
		TableRow:   notionapi.TableRow{Cells: row},
	}}
}

func tableNode(hasHeader bool, rows ...notion.Node) notion.Node {
	return notion.Node{
		Block: &notionapi.TableBlock{
			BasicBlock: basic("table"),
			Table:      notionapi.Table{TableWidth: 2, HasColumnHeader: hasHeader},
		},
		Children: rows,
	}
}

func imageNode(url, caption string) notion.Node {
	img := notionapi.Image{External: &notionapi.FileObject{URL: url}}
	if caption != "" {
		img.Caption = spans(caption)
	}
	return notion.Node{Block: &notionapi.ImageBlock{
		BasicBlock: basic("image"),
		Image:      img,
	}}
}

func childPage(id, title string) notion.Node {
	b := &notionapi.ChildPageBlock{BasicBlock: basic("child_page")}
	b.ID = notionapi.BlockID(id)
	b.ChildPage.Title = title
	return notion.Node{Block: b}
}

type stubFetcher struct {
	name  string
	err   error
	calls []string
}

func (s *stubFetcher) Fetch(_ context.Context, url string) (string, error) {
	s.calls = append(s.calls, url)
	if s.err != nil {
		return "", s.err
	}
	return s.name, nil
}

func TestConvertBlockTypes(t *testing.T) {
	emoji := notionapi.Emoji("💡")

	tests := []struct {
		name  string
		nodes []notion.Node
		want  string
	}{
		{
			name:  "paragraph",
			nodes: []notion.Node{paragraph("Hello world")},
			want:  "Hello world",
		},
		{
			name:  "heading one",
			nodes: []notion.Node{heading(1, "Overview", false)},
			want:  "# Overview",
		},
		{
			name:  "heading two",
			nodes: []notion.Node{heading(2, "Details", false)},
			want:  "## Details",
		},
		{
			name:  "heading three",
			nodes: []notion.Node{heading(3, "Notes", false)},
			want:  "### Notes",
		},
		{
			name:  "bulleted list item",
			nodes: []notion.Node{bullet("first")},
			want:  "- first",
		},
		{
			name:  "to do unchecked",
			nodes: []notion.Node{todo("write tests", false)},
			want:  "- [ ] write tests",
		},
		{
			name:  "to do checked",
			nodes: []notion.Node{todo("write code", true)},
			want:  "- [x] write code",
		},
		{
			name: "code with language",
			nodes: []notion.Node{{Block: &notionapi.CodeBlock{
				BasicBlock: basic("code"),
				Code:       notionapi.Code{RichText: spans("fmt.Println(1)"), Language: "go"},
			}}},
			want: "```go\nfmt.Println(1)\n```",
		},
		{
			name: "code without language",
			nodes: []notion.Node{{Block: &notionapi.CodeBlock{
				BasicBlock: basic("code"),
				Code:       notionapi.Code{RichText: spans("plain")},
			}}},
			want: "```\nplain\n```",
		},
		{
			name: "quote spans lines",
			nodes: []notion.Node{{Block: &notionapi.QuoteBlock{
				BasicBlock: basic("quote"),
				Quote:      notionapi.Quote{RichText: spans("line one\nline two")},
			}}},
			want: "> line one\n> line two",
		},
		{
			name: "callout with emoji",
			nodes: []notion.Node{{Block: &notionapi.CalloutBlock{
				BasicBlock: basic("callout"),
				Callout: notionapi.Callout{
					RichText: spans("Watch out"),
					Icon:     &notionapi.Icon{Type: "emoji", Emoji: &emoji},
				},
			}}},
			want: "> 💡 Watch out",
		},
		{
			name: "callout without icon",
			nodes: []notion.Node{{Block: &notionapi.CalloutBlock{
				BasicBlock: basic("callout"),
				Callout:    notionapi.Callout{RichText: spans("Watch out")},
			}}},
			want: "> Watch out",
		},
		{
			name:  "divider",
			nodes: []notion.Node{{Block: &notionapi.DividerBlock{BasicBlock: basic("divider")}}},
			want:  "---",
		},
		{
			name: "bookmark with caption",
			nodes: []notion.Node{{Block: &notionapi.BookmarkBlock{
				BasicBlock: basic("bookmark"),
				Bookmark:   notionapi.Bookmark{URL: "https://go.dev", Caption: spans("The Go site")},
			}}},
			want: "[The Go site](https://go.dev)",
		},
		{
			name: "bookmark without caption",
			nodes: []notion.Node{{Block: &notionapi.BookmarkBlock{
				BasicBlock: basic("bookmark"),
				Bookmark:   notionapi.Bookmark{URL: "https://go.dev"},
			}}},
			want: "[https://go.dev](https://go.dev)",
		},
		{
			name: "embed",
			nodes: []notion.Node{{Block: &notionapi.EmbedBlock{
				BasicBlock: basic("embed"),
				Embed:      notionapi.Embed{URL: "https://example.com/widget"},
			}}},
			want: "https://example.com/widget",
		},
		{
			name: "link preview",
			nodes: []notion.Node{{Block: &notionapi.LinkPreviewBlock{
				BasicBlock:  basic("link_preview"),
				LinkPreview: notionapi.LinkPreview{URL: "https://github.com/org/repo/pull/1"},
			}}},
			want: "https://github.com/org/repo/pull/1",
		},
		{
			name: "block equation",
			nodes: []notion.Node{{Block: &notionapi.EquationBlock{
				BasicBlock: basic("equation"),
				Equation:   notionapi.Equation{Expression: `E = mc^2`},
			}}},
			want: "$$\nE = mc^2\n$$",
		},
		{
			name:  "child page links to notion",
			nodes: []notion.Node{childPage("d9824bdc-8445-4327-be8b-5b47500af6ce", "Team Notes")},
			want:  "[Team Notes](https://www.notion.so/d9824bdc84454327be8b5b47500af6ce)",
		},
		{
			name:  "untitled child page",
			nodes: []notion.Node{childPage("d9824bdc-8445-4327-be8b-5b47500af6ce", "")},
			want:  "[Untitled](https://www.notion.so/d9824bdc84454327be8b5b47500af6ce)",
		},
		{
			name: "unsupported block becomes comment",
			nodes: []notion.Node{{Block: &notionapi.UnsupportedBlock{
				BasicBlock: basic("breadcrumb"),
			}}},
			want: "<!-- unsupported block type: breadcrumb -->",
		},
		{
			name:  "orphan table row renders nothing",
			nodes: []notion.Node{tableRow("a", "b")},
			want:  "",
		},
	}

	conv := NewConverter(Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := conv.Convert(context.Background(), tt.nodes); got != tt.want {
				t.Errorf("Convert() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConvertNumberedListCounter(t *testing.T) {
	nodes := []notion.Node{
		numbered("alpha"),
		numbered("beta"),
		paragraph("break"),
		numbered("gamma"),
	}
	want := "1. alpha\n2. beta\n\nbreak\n\n1. gamma"

	conv := NewConverter(Options{})
	if got := conv.Convert(context.Background(), nodes); got != want {
		t.Errorf("Convert() = %q, want %q", got, want)
	}
}

func TestConvertListSeparators(t *testing.T) {
	tests := []struct {
		name  string
		nodes []notion.Node
		want  string
	}{
		{
			name:  "list items joined tightly",
			nodes: []notion.Node{paragraph("intro"), bullet("one"), bullet("two"), paragraph("outro")},
			want:  "intro\n\n- one\n- two\n\noutro",
		},
		{
			name:  "mixed list kinds stay contiguous",
			nodes: []notion.Node{bullet("read"), todo("review", false), numbered("merge")},
			want:  "- read\n- [ ] review\n1. merge",
		},
	}

	conv := NewConverter(Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := conv.Convert(context.Background(), tt.nodes); got != tt.want {
				t.Errorf("Convert() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConvertToggles(t *testing.T) {
	tests := []struct {
		name  string
		nodes []notion.Node
		want  string
	}{
		{
			name:  "toggle with children",
			nodes: []notion.Node{toggle("Click me", paragraph("hidden text"))},
			want:  "<details>\n<summary>Click me</summary>\n\nhidden text\n\n</details>",
		},
		{
			name:  "toggle without children keeps empty body",
			nodes: []notion.Node{toggle("Click me")},
			want:  "<details>\n<summary>Click me</summary>\n\n</details>",
		},
		{
			name:  "toggleable heading wraps summary in heading tag",
			nodes: []notion.Node{heading(2, "Section", true, paragraph("body"))},
			want:  "<details>\n<summary><h2>Section</h2></summary>\n\nbody\n\n</details>",
		},
		{
			name: "nested toggle",
			nodes: []notion.Node{
				toggle("outer", toggle("inner", paragraph("deep"))),
			},
			want: "<details>\n<summary>outer</summary>\n\n<details>\n<summary>inner</summary>\n\ndeep\n\n</details>\n\n</details>",
		},
	}

	conv := NewConverter(Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := conv.Convert(context.Background(), tt.nodes); got != tt.want {
				t.Errorf("Convert() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConvertTables(t *testing.T) {
	tests := []struct {
		name  string
		nodes []notion.Node
		want  string
	}{
		{
			name: "table with column header",
			nodes: []notion.Node{
				tableNode(true, tableRow("Name", "Age"), tableRow("Ada", "36")),
			},
			want: "| Name | Age |\n| --- | --- |\n| Ada | 36 |",
		},
		{
			name: "table without column header",
			nodes: []notion.Node{
				tableNode(false, tableRow("Ada", "36"), tableRow("Alan", "41")),
			},
			want: "| Ada | 36 |\n| Alan | 41 |",
		},
		{
			name: "pipes escaped in cells",
			nodes: []notion.Node{
				tableNode(false, tableRow("a|b", "c")),
			},
			want: `| a\|b | c |`,
		},
	}

	conv := NewConverter(Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := conv.Convert(context.Background(), tt.nodes); got != tt.want {
				t.Errorf("Convert() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConvertColumnList(t *testing.T) {
	nodes := []notion.Node{{
		Block: &notionapi.ColumnListBlock{BasicBlock: basic("column_list")},
		Children: []notion.Node{
			{Block: &notionapi.ColumnBlock{BasicBlock: basic("column")}, Children: []notion.Node{paragraph("left")}},
			{Block: &notionapi.ColumnBlock{BasicBlock: basic("column")}, Children: []notion.Node{paragraph("right")}},
		},
	}}
	want := "<div style=\"display:flex;\">\n" +
		"<div style=\"flex:1;\">\n\nleft\n\n</div>\n" +
		"<div style=\"flex:1;\">\n\nright\n\n</div>\n" +
		"</div>"

	conv := NewConverter(Options{})
	if got := conv.Convert(context.Background(), nodes); got != want {
		t.Errorf("Convert() = %q, want %q", got, want)
	}
}

func TestConvertImages(t *testing.T) {
	ctx := context.Background()

	t.Run("no fetcher keeps remote url", func(t *testing.T) {
		conv := NewConverter(Options{})
		got := conv.Convert(ctx, []notion.Node{imageNode("https://files.example.com/img.png?sig=x", "")})
		want := "![image](https://files.example.com/img.png?sig=x)"
		if got != want {
			t.Errorf("Convert() = %q, want %q", got, want)
		}
	})

	t.Run("fetcher rewrites to local path", func(t *testing.T) {
		fetcher := &stubFetcher{name: "image_abc.png"}
		conv := NewConverter(Options{Images: fetcher, ImagePrefix: "../images"})
		got := conv.Convert(ctx, []notion.Node{imageNode("https://files.example.com/img.png", "diagram")})
		want := "![diagram](../images/image_abc.png)"
		if got != want {
			t.Errorf("Convert() = %q, want %q", got, want)
		}
		if len(fetcher.calls) != 1 || fetcher.calls[0] != "https://files.example.com/img.png" {
			t.Errorf("fetcher calls = %v", fetcher.calls)
		}
	})

	t.Run("fetch failure falls back to remote url", func(t *testing.T) {
		fetcher := &stubFetcher{err: errors.New("boom")}
		conv := NewConverter(Options{Images: fetcher, ImagePrefix: "images"})
		got := conv.Convert(ctx, []notion.Node{imageNode("https://files.example.com/img.png", "")})
		want := "![image](https://files.example.com/img.png)"
		if got != want {
			t.Errorf("Convert() = %q, want %q", got, want)
		}
	})

	t.Run("file url preferred over external", func(t *testing.T) {
		img := notionapi.Image{
			File:     &notionapi.FileObject{URL: "https://files.example.com/a.png"},
			External: &notionapi.FileObject{URL: "https://elsewhere.example.com/b.png"},
		}
		node := notion.Node{Block: &notionapi.ImageBlock{BasicBlock: basic("image"), Image: img}}
		conv := NewConverter(Options{})
		got := conv.Convert(ctx, []notion.Node{node})
		want := "![image](https://files.example.com/a.png)"
		if got != want {
			t.Errorf("Convert() = %q, want %q", got, want)
		}
	})
}

func TestConvertChildDatabases(t *testing.T) {
	db := &notionapi.Database{
		ID: "db-1",
		Properties: notionapi.PropertyConfigs{
			"Name":   notionapi.TitlePropertyConfig{Type: "title"},
			"Status": notionapi.MultiSelectPropertyConfig{Type: "multi_select"},
			"Tags":   notionapi.MultiSelectPropertyConfig{Type: "multi_select"},
		},
	}
	items := []notionapi.Page{
		{
			ID: "item-1",
			Properties: notionapi.Properties{
				"Name":   &notionapi.TitleProperty{Title: spans("Item One")},
				"Status": &notionapi.SelectProperty{Select: notionapi.Option{Name: "Done"}},
				"Tags": &notionapi.MultiSelectProperty{MultiSelect: []notionapi.Option{
					{Name: "a"}, {Name: "b"},
				}},
			},
		},
		{
			ID: "item-2",
			Properties: notionapi.Properties{
				"Name": &notionapi.TitleProperty{Title: spans("Item Two")},
			},
		},
	}

	block := &notionapi.ChildDatabaseBlock{BasicBlock: basic("child_database")}
	block.ID = "11111111-2222-3333-4444-555555555555"
	block.ChildDatabase.Title = "Tasks"

	t.Run("enriched renders inline table", func(t *testing.T) {
		node := notion.Node{
			Block:    block,
			Database: &notion.DatabaseContent{Database: db, Items: items},
		}
		conv := NewConverter(Options{ChildDir: "Parent_Page"})
		got := conv.Convert(context.Background(), []notion.Node{node})
		want := "| Name | Status | Tags |\n" +
			"| --- | --- | --- |\n" +
			"| [Item One](Parent_Page/databases/db-1/Item_One.md) | Done | a, b |\n" +
			"| [Item Two](Parent_Page/databases/db-1/Item_Two.md) |  |  |"
		if got != want {
			t.Errorf("Convert() = %q, want %q", got, want)
		}
	})

	t.Run("bare block renders notion link", func(t *testing.T) {
		conv := NewConverter(Options{})
		got := conv.Convert(context.Background(), []notion.Node{{Block: block}})
		want := "[Tasks](https://www.notion.so/11111111222233334444555555555555)"
		if got != want {
			t.Errorf("Convert() = %q, want %q", got, want)
		}
	})
}
