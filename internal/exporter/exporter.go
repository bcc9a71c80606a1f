// Package exporter drives the export of Notion pages and databases to
// Markdown files under a destination directory.
package exporter

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jomei/notionapi"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/dotneet/notion-exporter/internal/markdown"
	"github.com/dotneet/notion-exporter/internal/metadata"
	"github.com/dotneet/notion-exporter/internal/notion"
	"github.com/dotneet/notion-exporter/internal/storage"
)

// childExportLimit caps concurrent child page exports. At most this many run
// at once; the next is admitted as one finishes.
const childExportLimit = 3

// Options tunes one exporter instance.
type Options struct {
	// Recursive exports child pages and child databases discovered in the
	// block tree, and enriches child database blocks with their items.
	Recursive bool
	// Images downloads image blocks and rewrites their links to local
	// files. Nil keeps the remote URLs.
	Images markdown.ImageFetcher
}

// Result reports the outcome of exporting one page or database item.
type Result struct {
	PageID     string
	Title      string
	OutputPath string
	Success    bool
	// Skipped marks a page whose stored copy was already current.
	Skipped bool
	Err     error
}

// Exporter exports pages and databases through a NotionService into a
// storage provider.
type Exporter struct {
	service NotionService
	files   storage.Provider
	logger  logrus.FieldLogger
	opts    Options
}

// New creates an Exporter.
func New(service NotionService, files storage.Provider, log logrus.FieldLogger, opts Options) *Exporter {
	return &Exporter{
		service: service,
		files:   files,
		logger:  log,
		opts:    opts,
	}
}

// Export inspects id and runs the page or database flow. Classification
// failures are fatal.
func (e *Exporter) Export(ctx context.Context, id string) ([]Result, error) {
	isDB, err := e.service.IsDatabase(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to classify %s: %w", id, err)
	}
	if isDB {
		return e.ExportDatabase(ctx, id)
	}
	return e.ExportPage(ctx, id)
}

// ExportPage exports one page into the destination root, recursing into its
// descendants when enabled.
func (e *Exporter) ExportPage(ctx context.Context, id string) ([]Result, error) {
	return e.exportPageTree(ctx, job{ID: id})
}

// ExportPageAs exports a page under an explicit filename instead of its
// sanitized title. The id is treated as a page.
func (e *Exporter) ExportPageAs(ctx context.Context, id, filename string) ([]Result, error) {
	return e.exportPageTree(ctx, job{ID: id, CustomName: filename})
}

// ExportDatabase exports a database's metadata file and every item under
// databases/{database-id}/.
func (e *Exporter) ExportDatabase(ctx context.Context, id string) ([]Result, error) {
	return e.exportDatabase(ctx, id, "")
}

// job carries one page export through the pipeline.
type job struct {
	ID         string
	Dir        string // slash-relative destination directory, "" at the root
	CustomName string // overrides the sanitized title
	// Page short-circuits the fetch when the database query already
	// returned the full page.
	Page *notionapi.Page
	// WithProperties embeds the flattened properties in the metadata header
	// and renders the summary line under the title.
	WithProperties bool
}

// exportPageTree exports one page, then its children. The page itself
// failing is fatal to this call; the caller decides whether to absorb it.
// Child failures are absorbed here as failed Results.
func (e *Exporter) exportPageTree(ctx context.Context, j job) ([]Result, error) {
	res, nodes, base, err := e.exportOne(ctx, j)
	if err != nil {
		return nil, err
	}
	results := []Result{res}

	// A skipped page was not re-fetched, so there is no tree to descend
	// into. Children refresh when the parent does.
	if !e.opts.Recursive || res.Skipped {
		return results, nil
	}

	childDir := path.Join(j.Dir, base)

	if pages := notion.ChildPages(nodes); len(pages) > 0 {
		children := make([][]Result, len(pages))
		var g errgroup.Group
		g.SetLimit(childExportLimit)
		for i, ref := range pages {
			i, ref := i, ref
			g.Go(func() error {
				rs, err := e.exportPageTree(ctx, job{ID: ref.ID, Dir: childDir})
				if err != nil {
					e.logger.WithError(err).WithField("page_id", ref.ID).Error("Failed to export child page")
					children[i] = []Result{{PageID: ref.ID, Title: ref.Title, Err: err}}
					return nil
				}
				children[i] = rs
				return nil
			})
		}
		_ = g.Wait()
		for _, rs := range children {
			results = append(results, rs...)
		}
	}

	for _, ref := range notion.ChildDatabases(nodes) {
		rs, err := e.exportDatabase(ctx, ref.ID, childDir)
		if err != nil {
			e.logger.WithError(err).WithField("database_id", ref.ID).Error("Failed to export child database")
			results = append(results, Result{PageID: ref.ID, Title: ref.Title, Err: err})
			continue
		}
		results = append(results, rs...)
	}

	return results, nil
}

// exportOne writes a single page file. It returns the fetched block tree and
// the resolved base filename so the caller can descend into children.
func (e *Exporter) exportOne(ctx context.Context, j job) (Result, []notion.Node, string, error) {
	page := j.Page
	if page == nil {
		var err error
		page, err = e.service.FetchPage(ctx, j.ID)
		if err != nil {
			return Result{}, nil, "", fmt.Errorf("failed to fetch page %s: %w", j.ID, err)
		}
	}

	title := notion.PageTitle(page)
	base := storage.SafeFilename(title)
	if j.CustomName != "" {
		base = storage.SafeFilename(j.CustomName)
	}
	fileRel := path.Join(j.Dir, base+".md")

	meta := metadata.FromPage(page)
	var summary string
	if j.WithProperties {
		meta.Properties = notion.FlattenProperties(page.Properties)
		summary = propertySummary(meta.Properties, notion.TitlePropertyName(page.Properties))
	}

	if prior := e.priorMetadata(fileRel); !metadata.NeedsUpdate(meta, prior) {
		e.logger.WithFields(logrus.Fields{
			"page_id": meta.ID,
			"file":    fileRel,
		}).Info("Page unchanged, skipping")
		return Result{
			PageID:     meta.ID,
			Title:      title,
			OutputPath: fileRel,
			Success:    true,
			Skipped:    true,
		}, nil, base, nil
	}

	nodes, err := e.service.FetchBlockTree(ctx, j.ID)
	if err != nil {
		return Result{}, nil, "", fmt.Errorf("failed to fetch blocks for page %s: %w", j.ID, err)
	}
	if e.opts.Recursive {
		e.enrichChildDatabases(ctx, nodes)
	}

	body := e.convert(ctx, j.Dir, base, nodes)
	if err := e.files.Write(fileRel, assemble(meta, title, summary, body)); err != nil {
		return Result{}, nil, "", fmt.Errorf("failed to write %s: %w", fileRel, err)
	}

	e.logger.WithFields(logrus.Fields{
		"page_id": meta.ID,
		"file":    fileRel,
	}).Info("Exported page")
	return Result{
		PageID:     meta.ID,
		Title:      title,
		OutputPath: fileRel,
		Success:    true,
	}, nodes, base, nil
}

func (e *Exporter) exportDatabase(ctx context.Context, id, dir string) ([]Result, error) {
	db, err := e.service.FetchDatabase(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch database %s: %w", id, err)
	}
	dbDir := path.Join(dir, "databases", string(db.ID))

	if err := e.writeDatabaseMeta(db, dbDir); err != nil {
		return nil, err
	}

	items, err := e.service.QueryDatabaseItems(ctx, id, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query database %s: %w", id, err)
	}

	results := make([][]Result, len(items))
	var g errgroup.Group
	g.SetLimit(childExportLimit)
	for i := range items {
		i := i
		g.Go(func() error {
			item := &items[i]
			rs, err := e.exportPageTree(ctx, job{
				ID:             string(item.ID),
				Dir:            dbDir,
				Page:           item,
				WithProperties: true,
			})
			if err != nil {
				e.logger.WithError(err).WithField("page_id", string(item.ID)).Error("Failed to export database item")
				results[i] = []Result{{PageID: string(item.ID), Title: notion.PageTitle(item), Err: err}}
				return nil
			}
			results[i] = rs
			return nil
		})
	}
	_ = g.Wait()

	var out []Result
	for _, rs := range results {
		out = append(out, rs...)
	}
	return out, nil
}

// writeDatabaseMeta writes databases/{id}/_meta.md, skipping when the
// database's last_edited_time is unchanged.
func (e *Exporter) writeDatabaseMeta(db *notionapi.Database, dbDir string) error {
	rel := path.Join(dbDir, "_meta.md")
	meta := metadata.FromDatabase(db)
	if prior := e.priorMetadata(rel); !metadata.NeedsUpdate(meta, prior) {
		e.logger.WithField("file", rel).Info("Database metadata unchanged, skipping")
		return nil
	}

	title := notion.PlainText(db.Title)
	if title == "" {
		title = "Untitled"
	}

	var sb strings.Builder
	sb.Write(meta.Render())
	sb.WriteString("\n# ")
	sb.WriteString(title)
	sb.WriteString("\n")
	if desc := notion.PlainText(db.Description); desc != "" {
		sb.WriteString("\n")
		sb.WriteString(desc)
		sb.WriteString("\n")
	}
	sb.WriteString("\n- Created: ")
	sb.WriteString(meta.CreatedTime)
	sb.WriteString("\n- Last edited: ")
	sb.WriteString(meta.LastEditedTime)
	sb.WriteString("\n")

	if len(db.Properties) > 0 {
		names := make([]string, 0, len(db.Properties))
		for name := range db.Properties {
			names = append(names, name)
		}
		sort.Strings(names)

		sb.WriteString("\n| Property | Type |\n| --- | --- |\n")
		for _, name := range names {
			sb.WriteString(fmt.Sprintf("| %s | %s |\n", name, db.Properties[name].GetType()))
		}
	}

	if err := e.files.Write(rel, []byte(sb.String())); err != nil {
		return fmt.Errorf("failed to write %s: %w", rel, err)
	}
	e.logger.WithField("file", rel).Info("Exported database metadata")
	return nil
}

// enrichChildDatabases attaches database definitions and items to
// child_database nodes so the converter can render inline tables. The walk
// recurses to catch databases nested inside toggles. Failures leave the node
// bare; it then renders as a plain link.
func (e *Exporter) enrichChildDatabases(ctx context.Context, nodes []notion.Node) {
	for i := range nodes {
		if b, ok := nodes[i].Block.(*notionapi.ChildDatabaseBlock); ok {
			id := string(b.ID)
			db, err := e.service.FetchDatabase(ctx, id)
			if err != nil {
				e.logger.WithError(err).WithField("database_id", id).Warn("Failed to fetch child database, rendering a link")
			} else if items, err := e.service.QueryDatabaseItems(ctx, id, nil); err != nil {
				e.logger.WithError(err).WithField("database_id", id).Warn("Failed to query child database, rendering a link")
			} else {
				nodes[i].Database = &notion.DatabaseContent{Database: db, Items: items}
			}
		}
		e.enrichChildDatabases(ctx, nodes[i].Children)
	}
}

func (e *Exporter) convert(ctx context.Context, dir, base string, nodes []notion.Node) string {
	prefix, err := filepath.Rel(dirOrDot(dir), "images")
	if err != nil {
		prefix = "images"
	}
	conv := markdown.NewConverter(markdown.Options{
		Images:      e.opts.Images,
		ImagePrefix: filepath.ToSlash(prefix),
		ChildDir:    base,
		Logger:      e.logger,
	})
	return conv.Convert(ctx, nodes)
}

// priorMetadata reads the metadata header of a previous export, nil when the
// file is absent, unreadable or not one of ours.
func (e *Exporter) priorMetadata(rel string) *metadata.Metadata {
	if !e.files.Exists(rel) {
		return nil
	}
	data, err := e.files.Read(rel)
	if err != nil {
		e.logger.WithError(err).WithField("file", rel).Warn("Failed to read existing file, re-exporting")
		return nil
	}
	return metadata.Parse(data)
}

// assemble lays out the file: metadata header, title, optional property
// summary, body. The file always ends with a newline.
func assemble(meta *metadata.Metadata, title, summary, body string) []byte {
	var sb strings.Builder
	sb.Write(meta.Render())
	sb.WriteString("\n# ")
	sb.WriteString(title)
	sb.WriteString("\n")
	if summary != "" {
		sb.WriteString("\n")
		sb.WriteString(summary)
		sb.WriteString("\n")
	}
	if body != "" {
		sb.WriteString("\n")
		sb.WriteString(body)
		sb.WriteString("\n")
	}
	return []byte(sb.String())
}

// propertySummary renders the one-line digest shown under a database item's
// title. The title property repeats the heading, so it is excluded.
func propertySummary(props map[string]string, titleKey string) string {
	keys := make([]string, 0, len(props))
	for k := range props {
		if k != titleKey {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("**%s**: %s", k, props[k]))
	}
	return "> " + strings.Join(parts, " | ")
}

func dirOrDot(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}
