package models

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Object kinds reported by the Notion API in the "object" field.
const (
	ObjectPage     = "page"
	ObjectDatabase = "database"
	ObjectBlock    = "block"
	ObjectList     = "list"
)

// RichText is a single rich-text segment.
type RichText struct {
	Type      string    `json:"type,omitempty"`
	PlainText string    `json:"plain_text,omitempty"`
	Text      *TextBody `json:"text,omitempty"`
	Href      *string   `json:"href,omitempty"`
}

// TextBody is the raw content of a "text" rich-text segment.
type TextBody struct {
	Content string `json:"content"`
	Link    *Link  `json:"link,omitempty"`
}

type Link struct {
	URL string `json:"url"`
}

// Display returns the segment's visible text, preferring plain_text.
func (r RichText) Display() string {
	if r.PlainText != "" {
		return r.PlainText
	}
	if r.Text != nil {
		return r.Text.Content
	}
	return ""
}

// Property is the subset of a page property needed to find its title.
// All other property payloads are ignored. Title stays raw because database
// schemas describe their title column as an empty object, pages as a segment list.
type Property struct {
	ID    string          `json:"id,omitempty"`
	Type  string          `json:"type"`
	Title json.RawMessage `json:"title,omitempty"`
}

// Segments decodes a title property's rich text. Anything that is not a
// segment list yields nil.
func (p Property) Segments() []RichText {
	if p.Type != "title" || len(p.Title) == 0 {
		return nil
	}
	var segments []RichText
	if err := json.Unmarshal(p.Title, &segments); err != nil {
		return nil
	}
	return segments
}

// Record is a lenient view over any page, database or block object.
// Only the fields this server reads are decoded.
type Record struct {
	Object     string              `json:"object"`
	ID         string              `json:"id"`
	URL        string              `json:"url,omitempty"`
	Archived   bool                `json:"archived,omitempty"`
	Title      []RichText          `json:"title,omitempty"`
	Properties map[string]Property `json:"properties,omitempty"`
}

// PageTitle scans the properties for the first one of type "title" and returns the
// display text of its first segment. Property keys are visited in sorted order.
// ok is false when no title property exists or its value is not a non-empty segment list.
func (r *Record) PageTitle() (title string, ok bool) {
	if r == nil || len(r.Properties) == 0 {
		return "", false
	}
	keys := make([]string, 0, len(r.Properties))
	for k := range r.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		prop := r.Properties[k]
		if prop.Type != "title" {
			continue
		}
		segments := prop.Segments()
		if len(segments) == 0 {
			return "", false
		}
		text := segments[0].Display()
		return text, text != ""
	}
	return "", false
}

// DatabaseTitle returns the plain text of a database's first title segment.
func (r *Record) DatabaseTitle() (string, bool) {
	if r == nil || len(r.Title) == 0 {
		return "", false
	}
	text := r.Title[0].PlainText
	return text, text != ""
}

// recordHeader is the part of every Notion object that identifies it.
type recordHeader struct {
	Object string `json:"object"`
	ID     string `json:"id"`
	URL    string `json:"url,omitempty"`
}

// DecodeRecord decodes a raw object. When optional fields have an unexpected
// shape the record keeps only its object, id and url. An error means raw is
// not a JSON object at all.
func DecodeRecord(raw json.RawMessage) (*Record, error) {
	var rec Record
	if err := json.Unmarshal(raw, &rec); err == nil {
		return &rec, nil
	}
	var header recordHeader
	if err := json.Unmarshal(raw, &header); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	return &Record{Object: header.Object, ID: header.ID, URL: header.URL}, nil
}

// List is a paginated Notion list response. Raw holds the response body as received
// so it can be handed back unchanged.
type List struct {
	Object     string            `json:"object"`
	Results    []json.RawMessage `json:"results"`
	HasMore    bool              `json:"has_more"`
	NextCursor *string           `json:"next_cursor,omitempty"`
	Type       string            `json:"type,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// DecodeList decodes a list body and keeps a copy of it in Raw.
func DecodeList(body []byte) (*List, error) {
	var list List
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("failed to decode list: %w", err)
	}
	list.Raw = append(json.RawMessage(nil), body...)
	return &list, nil
}

// Records decodes every result. Only entries that are not JSON objects are skipped.
func (l *List) Records() []*Record {
	if l == nil {
		return nil
	}
	out := make([]*Record, 0, len(l.Results))
	for _, raw := range l.Results {
		rec, err := DecodeRecord(raw)
		if err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// TextSegments builds the single-segment rich_text array used by every text block.
func TextSegments(content string) []map[string]any {
	return []map[string]any{
		{"type": "text", "text": map[string]any{"content": content}},
	}
}

// TitleProperty builds a title property value as accepted by page creation.
func TitleProperty(content string) map[string]any {
	return map[string]any{
		"title": []map[string]any{
			{"text": map[string]any{"content": content}},
		},
	}
}

// TextBlock builds a block of the given kind carrying a single text segment.
func TextBlock(kind, content string) map[string]any {
	return map[string]any{
		"object": ObjectBlock,
		"type":   kind,
		kind:     map[string]any{"rich_text": TextSegments(content)},
	}
}

// TodoBlock builds a to_do block.
func TodoBlock(content string, checked bool) map[string]any {
	return map[string]any{
		"object": ObjectBlock,
		"type":   "to_do",
		"to_do": map[string]any{
			"checked":   checked,
			"rich_text": TextSegments(content),
		},
	}
}

// ExternalImageBlock builds an image block pointing at an external URL.
func ExternalImageBlock(url string) map[string]any {
	return map[string]any{
		"object": ObjectBlock,
		"type":   "image",
		"image": map[string]any{
			"type":     "external",
			"external": map[string]any{"url": url},
		},
	}
}
