package notion

import (
	"strconv"
	"strings"
	"time"

	"github.com/jomei/notionapi"
)

const dateLayout = "2006-01-02"

// PlainText concatenates the plain content of a rich text sequence.
func PlainText(spans []notionapi.RichText) string {
	var sb strings.Builder
	for _, s := range spans {
		if s.PlainText != "" {
			sb.WriteString(s.PlainText)
			continue
		}
		if s.Text != nil {
			sb.WriteString(s.Text.Content)
		}
	}
	return sb.String()
}

// PageTitle returns the page's title property as plain text, or "Untitled"
// when the page carries no non-empty title.
func PageTitle(page *notionapi.Page) string {
	if page == nil {
		return "Untitled"
	}
	for _, prop := range page.Properties {
		// The API unmarshals properties to pointers; hand-built maps may
		// hold values. Accept both.
		switch p := prop.(type) {
		case *notionapi.TitleProperty:
			if t := PlainText(p.Title); t != "" {
				return t
			}
		case notionapi.TitleProperty:
			if t := PlainText(p.Title); t != "" {
				return t
			}
		}
	}
	return "Untitled"
}

// TitlePropertyName returns the name of the page's title property, or "".
func TitlePropertyName(props notionapi.Properties) string {
	for name, prop := range props {
		switch prop.(type) {
		case *notionapi.TitleProperty, notionapi.TitleProperty:
			return name
		}
	}
	return ""
}

// DatabaseTitleColumn returns the name of the database's title property,
// or "".
func DatabaseTitleColumn(db *notionapi.Database) string {
	if db == nil {
		return ""
	}
	for name, cfg := range db.Properties {
		switch cfg.(type) {
		case *notionapi.TitlePropertyConfig, notionapi.TitlePropertyConfig:
			return name
		}
	}
	return ""
}

// PropertyValue flattens a page property to a single human-readable string.
// Property types with no sensible scalar rendering flatten to "".
func PropertyValue(prop notionapi.Property) string {
	switch p := prop.(type) {
	case *notionapi.TitleProperty:
		return PlainText(p.Title)
	case notionapi.TitleProperty:
		return PlainText(p.Title)
	case *notionapi.RichTextProperty:
		return PlainText(p.RichText)
	case *notionapi.NumberProperty:
		return strconv.FormatFloat(p.Number, 'f', -1, 64)
	case *notionapi.SelectProperty:
		return p.Select.Name
	case *notionapi.MultiSelectProperty:
		names := make([]string, 0, len(p.MultiSelect))
		for _, o := range p.MultiSelect {
			names = append(names, o.Name)
		}
		return strings.Join(names, ", ")
	case *notionapi.StatusProperty:
		return p.Status.Name
	case *notionapi.DateProperty:
		return dateRange(p.Date)
	case *notionapi.PeopleProperty:
		names := make([]string, 0, len(p.People))
		for _, u := range p.People {
			if u.Name != "" {
				names = append(names, u.Name)
			}
		}
		return strings.Join(names, ", ")
	case *notionapi.CheckboxProperty:
		return strconv.FormatBool(p.Checkbox)
	case *notionapi.URLProperty:
		return p.URL
	case *notionapi.EmailProperty:
		return p.Email
	case *notionapi.PhoneNumberProperty:
		return p.PhoneNumber
	case *notionapi.CreatedTimeProperty:
		return p.CreatedTime.UTC().Format(dateLayout)
	case *notionapi.LastEditedTimeProperty:
		return p.LastEditedTime.UTC().Format(dateLayout)
	default:
		return ""
	}
}

// FlattenProperties renders every property with a non-empty scalar value,
// keyed by property name. Returns nil when nothing flattens.
func FlattenProperties(props notionapi.Properties) map[string]string {
	if len(props) == 0 {
		return nil
	}
	out := make(map[string]string)
	for name, prop := range props {
		if v := PropertyValue(prop); v != "" {
			out[name] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func dateRange(d *notionapi.DateObject) string {
	if d == nil || d.Start == nil {
		return ""
	}
	out := time.Time(*d.Start).Format(dateLayout)
	if d.End != nil {
		out += " - " + time.Time(*d.End).Format(dateLayout)
	}
	return out
}
