package notion

import (
	"strings"

	"github.com/jomei/notionapi"

	"github.com/syncops/notion-github-sync/pkg/types"
)

// defaultTitleProp is assumed when no property declares the title type.
const defaultTitleProp = "Name"

// NoTitle is the sentinel used when a page has no usable title.
const NoTitle = "(no title)"

// extractRecord normalizes a page's property bag into a Record. Every
// property is looked up and type-checked independently so a page missing
// any of them still extracts cleanly with zero values.
func extractRecord(pageID string, props notionapi.Properties) *types.Record {
	rec := &types.Record{
		ID:    pageID,
		Title: NoTitle,
	}

	if title, ok := props[titlePropName(props)].(*notionapi.TitleProperty); ok {
		if text := plainText(title.Title); strings.TrimSpace(text) != "" {
			rec.Title = text
		}
	}

	if status, ok := props[propStatus].(*notionapi.SelectProperty); ok {
		rec.Status = status.Select.Name
	}

	if company, ok := props[propCompany].(*notionapi.RichTextProperty); ok {
		rec.Company = plainText(company.RichText)
	}

	if customers, ok := props[propCustomerType].(*notionapi.MultiSelectProperty); ok {
		for _, opt := range customers.MultiSelect {
			if opt.Name != "" {
				rec.CustomerTypes = append(rec.CustomerTypes, opt.Name)
			}
		}
	}

	if priority, ok := props[propPriority].(*notionapi.SelectProperty); ok {
		rec.Priority = priority.Select.Name
	}

	if size, ok := props[propSize].(*notionapi.SelectProperty); ok {
		rec.Size = size.Select.Name
	}

	if inSync, ok := props[propInSync].(*notionapi.CheckboxProperty); ok {
		rec.InSync = inSync.Checkbox
	}

	return rec
}

// titlePropName finds the property carrying the page title by declared
// type rather than by name, since databases can rename it.
func titlePropName(props notionapi.Properties) string {
	for name, prop := range props {
		if prop != nil && prop.GetType() == notionapi.PropertyTypeTitle {
			return name
		}
	}
	return defaultTitleProp
}

// plainText concatenates the plain-text portions of a rich-text sequence.
func plainText(runs []notionapi.RichText) string {
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.PlainText)
	}
	return sb.String()
}
