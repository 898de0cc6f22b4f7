package application

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/AquilaXk/aquila-log/blog/domain"
	"github.com/AquilaXk/aquila-log/shared/notion"
)

// Value is one decoded property. Exactly one of the payload fields is
// meaningful, selected by Type.
type Value struct {
	Type    notion.PropertyType
	Text    string
	Tags    []string
	Date    *domain.DateRange
	People  []domain.Author
	FileURL string
}

// pageDecoder decodes the properties of collection member pages against the
// collection schema. One decoder is built per ingestion run so the user
// resolver cache stays scoped to that run.
type pageDecoder struct {
	schema   notion.Schema
	blocks   map[string]any
	resolver *userResolver
	mapper   domain.ImageURLMapper
}

// decodePage decodes every schema property of one page, keyed by the
// property display name. The unwrapped page block is returned alongside so
// the assembler can read the creation metadata; a nil block means the page
// was absent or carried no properties.
func (d *pageDecoder) decodePage(ctx context.Context, pageID string) (map[string]Value, map[string]any) {
	rawBlock := d.blocks[pageID]
	block := notion.UnwrapRecord(rawBlock)
	if block == nil {
		return nil, nil
	}

	rawProps, ok := block["properties"].(map[string]any)
	if !ok {
		return nil, nil
	}

	props := make(map[string]Value, len(d.schema))
	for key, entry := range d.schema {
		raw, ok := rawProps[key]
		if !ok || raw == nil {
			continue
		}

		val, ok := d.decodeProperty(ctx, entry, raw, rawBlock, block)
		if !ok {
			log.Debug().Str("pageID", pageID).Str("property", entry.Name).Msg("Skipping undecodable property")
			continue
		}
		props[entry.Name] = val
	}

	return props, block
}

// decodeProperty dispatches on the schema type tag. A value that does not
// match the expected encoding is dropped, never an error; one bad property
// must not fail the whole page.
func (d *pageDecoder) decodeProperty(ctx context.Context, entry notion.SchemaEntry, raw any, rawBlock any, page map[string]any) (val Value, ok bool) {
	defer func() {
		if recover() != nil {
			val, ok = Value{}, false
		}
	}()

	switch entry.Type {
	case notion.PropertyFile:
		fileBlock := notion.UnwrapRecord(rawBlock)
		if fileBlock == nil {
			fileBlock = page
		}
		rawURL := fileURL(raw)
		if rawURL == "" {
			return Value{}, false
		}
		mapped := d.mapper.Remap(rawURL, fileBlock)
		if mapped == "" {
			return Value{}, false
		}
		return Value{Type: entry.Type, FileURL: mapped}, true

	case notion.PropertyDate:
		dr := dateValue(raw)
		if dr == nil {
			return Value{}, false
		}
		return Value{Type: entry.Type, Date: dr}, true

	case notion.PropertySelect, notion.PropertyMultiSelect:
		return Value{Type: entry.Type, Tags: splitTags(textContent(raw))}, true

	case notion.PropertyPerson:
		people, err := d.resolver.resolve(ctx, personIDs(raw))
		if err != nil {
			return Value{}, false
		}
		return Value{Type: entry.Type, People: people}, true

	default:
		return Value{Type: notion.PropertyText, Text: textContent(raw)}, true
	}
}

// textContent flattens a rich-text value into its literal fragments.
// Segments are [text, decorations?] pairs; only the text matters here.
func textContent(raw any) string {
	segments, ok := raw.([]any)
	if !ok {
		return ""
	}

	var b strings.Builder
	for _, seg := range segments {
		parts, ok := seg.([]any)
		if !ok || len(parts) == 0 {
			continue
		}
		if s, ok := parts[0].(string); ok {
			b.WriteString(s)
		}
	}
	return b.String()
}

// dateValue finds the "d" decoration carrying the date payload and copies it
// into a DateRange. The payload's internal "type" discriminator is not
// carried over; only the range matters downstream.
func dateValue(raw any) *domain.DateRange {
	segments, ok := raw.([]any)
	if !ok {
		return nil
	}

	for _, seg := range segments {
		parts, ok := seg.([]any)
		if !ok || len(parts) < 2 {
			continue
		}
		decorations, ok := parts[1].([]any)
		if !ok {
			continue
		}
		for _, deco := range decorations {
			pair, ok := deco.([]any)
			if !ok || len(pair) < 2 {
				continue
			}
			if marker, ok := pair[0].(string); !ok || marker != "d" {
				continue
			}
			payload, ok := pair[1].(map[string]any)
			if !ok {
				continue
			}
			return &domain.DateRange{
				StartDate: notion.StringValue(payload, "start_date"),
				EndDate:   notion.StringValue(payload, "end_date"),
				StartTime: notion.StringValue(payload, "start_time"),
				EndTime:   notion.StringValue(payload, "end_time"),
				TimeZone:  notion.StringValue(payload, "time_zone"),
			}
		}
	}
	return nil
}

// fileURL extracts the first URL fragment from a file value, which encodes
// its attachments positionally: [[name, [[marker, url], ...]], ...].
func fileURL(raw any) string {
	segments, ok := raw.([]any)
	if !ok || len(segments) == 0 {
		return ""
	}
	parts, ok := segments[0].([]any)
	if !ok || len(parts) < 2 {
		return ""
	}
	decorations, ok := parts[1].([]any)
	if !ok || len(decorations) == 0 {
		return ""
	}
	pair, ok := decorations[0].([]any)
	if !ok || len(pair) < 2 {
		return ""
	}
	s, _ := pair[1].(string)
	return s
}

// personIDs collects referenced user ids from a person value. The encoding
// interleaves reference tuples with separator fragments; entries that do not
// look like references are skipped.
func personIDs(raw any) []string {
	segments, ok := raw.([]any)
	if !ok {
		return nil
	}

	var flat []any
	for _, seg := range segments {
		if parts, ok := seg.([]any); ok {
			flat = append(flat, parts...)
		} else {
			flat = append(flat, seg)
		}
	}

	var ids []string
	for _, item := range flat {
		entry, ok := item.([]any)
		if !ok || len(entry) == 0 {
			continue
		}
		ref, ok := entry[0].([]any)
		if !ok || len(ref) < 2 {
			continue
		}
		if id, ok := ref[1].(string); ok && id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
