package notion

import (
	"slices"
	"strconv"
	"strings"

	"collection-merge/core/reconcile"

	"github.com/jomei/notionapi"
)

// Page is a database page as returned by the query endpoint.
type Page notionapi.Page

func runs(parts []notionapi.RichText) []string {
	out := make([]string, 0, len(parts))
	for _, rt := range parts {
		out = append(out, rt.PlainText)
	}
	return out
}

func checked(b bool) reconcile.Attribute {
	if b {
		return reconcile.SingleChoice(strconv.FormatBool(true))
	}
	return reconcile.SingleChoice("")
}

// number maps a number property. The SDK decodes null as zero, so zero
// reads as an empty number.
func number(n float64) reconcile.Attribute {
	if n == 0 {
		return reconcile.NullNumber()
	}
	return reconcile.Number(n)
}

// toAttribute maps a typed property onto the engine's attribute shapes.
// Types the engine does not read become unsupported attributes.
func toAttribute(prop notionapi.Property) reconcile.Attribute {
	switch p := prop.(type) {
	case *notionapi.TitleProperty:
		return reconcile.MultilineText(runs(p.Title)...)
	case *notionapi.RichTextProperty:
		return reconcile.MultilineText(runs(p.RichText)...)
	case *notionapi.URLProperty:
		return reconcile.URL(p.URL)
	case *notionapi.EmailProperty:
		return reconcile.PlainText(p.Email)
	case *notionapi.PhoneNumberProperty:
		return reconcile.PlainText(p.PhoneNumber)
	case *notionapi.NumberProperty:
		return number(p.Number)
	case *notionapi.SelectProperty:
		return reconcile.SingleChoice(p.Select.Name)
	case *notionapi.StatusProperty:
		return reconcile.SingleChoice(p.Status.Name)
	case *notionapi.MultiSelectProperty:
		labels := make([]string, 0, len(p.MultiSelect))
		for _, o := range p.MultiSelect {
			labels = append(labels, o.Name)
		}
		return reconcile.MultiChoice(labels...)
	case *notionapi.CheckboxProperty:
		return checked(p.Checkbox)
	case *notionapi.FormulaProperty:
		return formulaAttribute(p.Formula)
	case nil:
		return reconcile.Unsupported("unknown")
	default:
		if t := string(prop.GetType()); t != "" {
			return reconcile.Unsupported(t)
		}
		return reconcile.Unsupported("unknown")
	}
}

func formulaAttribute(f notionapi.Formula) reconcile.Attribute {
	switch f.Type {
	case "string":
		return reconcile.PlainText(f.String)
	case "number":
		return number(f.Number)
	case "boolean":
		return checked(f.Boolean)
	default:
		return reconcile.Unsupported("formula")
	}
}

func files(p *notionapi.FilesProperty) []reconcile.File {
	var out []reconcile.File
	for _, f := range p.Files {
		url := ""
		if f.File != nil {
			url = f.File.URL
		}
		if url == "" && f.External != nil {
			url = f.External.URL
		}
		if url != "" {
			out = append(out, reconcile.File{Name: f.Name, URL: url})
		}
	}
	return out
}

// PageURL returns the public link of a page id.
func PageURL(id string) string {
	normalized := strings.ReplaceAll(id, "-", "")
	if normalized == "" {
		return ""
	}
	return "https://www.notion.so/" + normalized
}

// Item converts the page into a primary set item. The name is taken from
// the title property; file properties are collected into Files. Properties
// arrive as a map, so attributes are ordered by property name.
func (p Page) Item() reconcile.Item {
	id := string(p.ID)
	item := reconcile.Item{ID: id, SourceURL: PageURL(id)}

	names := make([]string, 0, len(p.Properties))
	for name := range p.Properties {
		names = append(names, name)
	}
	slices.Sort(names)

	fields := make([]reconcile.Field, 0, len(names))
	titleSeen := false
	for _, name := range names {
		prop := p.Properties[name]
		switch v := prop.(type) {
		case *notionapi.TitleProperty:
			if !titleSeen {
				titleSeen = true
				item.Name = strings.TrimSpace(strings.Join(runs(v.Title), ""))
			}
		case *notionapi.FilesProperty:
			item.Files = append(item.Files, files(v)...)
		}
		fields = append(fields, reconcile.Field{Name: name, Value: toAttribute(prop)})
	}

	item.Attributes = reconcile.NewAttributes(fields...)
	return item
}
