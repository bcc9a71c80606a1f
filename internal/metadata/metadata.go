// Package metadata embeds and recovers the exporter's generated-file header,
// the basis for incremental update detection.
package metadata

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/jomei/notionapi"
)

// Sentinel opens the metadata comment at the top of every generated file.
const Sentinel = "<!-- ** GENERATED_BY_NOTION_EXPORTER **"

const closeComment = "-->"

// timeLayout matches the provider's wire format for timestamps, so rendered
// values compare byte-for-byte across export runs.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// Metadata is the header embedded as a leading HTML comment in every
// generated file. JSON key order is fixed by the struct.
type Metadata struct {
	ID             string            `json:"id"`
	CreatedTime    string            `json:"created_time"`
	LastEditedTime string            `json:"last_edited_time"`
	URL            string            `json:"url"`
	Archived       bool              `json:"archived"`
	InTrash        bool              `json:"in_trash"`
	PublicURL      string            `json:"public_url,omitempty"`
	Properties     map[string]string `json:"properties,omitempty"`
}

// FromPage builds the metadata header for a page. in_trash mirrors archived:
// under API version 2022-06-28 a trashed page reports both flags.
func FromPage(page *notionapi.Page) *Metadata {
	return &Metadata{
		ID:             string(page.ID),
		CreatedTime:    page.CreatedTime.UTC().Format(timeLayout),
		LastEditedTime: page.LastEditedTime.UTC().Format(timeLayout),
		URL:            page.URL,
		Archived:       page.Archived,
		InTrash:        page.Archived,
		PublicURL:      page.PublicURL,
	}
}

// FromDatabase builds the metadata header for a database's _meta file.
func FromDatabase(db *notionapi.Database) *Metadata {
	return &Metadata{
		ID:             string(db.ID),
		CreatedTime:    db.CreatedTime.UTC().Format(timeLayout),
		LastEditedTime: db.LastEditedTime.UTC().Format(timeLayout),
		URL:            db.URL,
		Archived:       db.Archived,
		InTrash:        db.Archived,
	}
}

// Render produces the leading comment block, trailing newline included. The
// output is deterministic: equal Metadata renders equal bytes.
func (m *Metadata) Render() []byte {
	data, _ := json.MarshalIndent(m, "", "  ")
	var buf bytes.Buffer
	buf.WriteString(Sentinel)
	buf.WriteByte('\n')
	buf.Write(data)
	buf.WriteByte('\n')
	buf.WriteString(closeComment)
	buf.WriteByte('\n')
	return buf.Bytes()
}

// Parse recovers the metadata header from a previously generated file. It
// returns nil when the first line is not the sentinel, the comment never
// closes, or the JSON does not parse. Foreign files are never treated as
// prior exports.
func Parse(data []byte) *Metadata {
	lines := strings.Split(string(data), "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], "\r") != Sentinel {
		return nil
	}

	var body []string
	closed := false
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == closeComment {
			closed = true
			break
		}
		body = append(body, line)
	}
	if !closed {
		return nil
	}

	var m Metadata
	if err := json.Unmarshal([]byte(strings.Join(body, "\n")), &m); err != nil {
		return nil
	}
	return &m
}

// NeedsUpdate reports whether a page must be re-exported: true when no prior
// metadata exists or last_edited_time changed. Timestamps are normalized
// ISO-8601 strings, so a lexical comparison is exact.
func NeedsUpdate(current, prior *Metadata) bool {
	if prior == nil {
		return true
	}
	return current.LastEditedTime != prior.LastEditedTime
}
