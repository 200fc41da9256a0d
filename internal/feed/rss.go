package feed

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// RawRecord is one feed item, flattened to a field map. Element names are
// lowercased with namespace prefixes stripped, so <ndaq:IssueSymbol> and
// <IssueSymbol> both land under "issuesymbol". The feed's schema drifts;
// consumers pick the fields they understand and the rest pass through for
// logging.
type RawRecord struct {
	Fields map[string]string
}

// Get returns the first non-empty value among keys, whitespace-trimmed.
func (r RawRecord) Get(keys ...string) string {
	for _, key := range keys {
		if v, ok := r.Fields[key]; ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}

// ParseWarning reports a single feed item that could not be parsed.
// The rest of the feed is unaffected.
type ParseWarning struct {
	Index  int
	Reason string
}

func (w ParseWarning) String() string {
	return fmt.Sprintf("item %d: %s", w.Index, w.Reason)
}

// Parse reads an RSS document and extracts one RawRecord per item.
// Malformed items are skipped with a ParseWarning. A syntax error after
// some items have been parsed truncates the feed with a warning rather
// than discarding the parsed items.
func Parse(r io.Reader) ([]RawRecord, []ParseWarning, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false

	var records []RawRecord
	var warnings []ParseWarning
	index := 0
	sawElement := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			if len(records) > 0 {
				warnings = append(warnings, ParseWarning{
					Index:  index,
					Reason: fmt.Sprintf("feed truncated: %v", err),
				})
				break
			}
			return nil, nil, fmt.Errorf("parse feed: %w", err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		sawElement = true
		if !strings.EqualFold(se.Name.Local, "item") {
			continue
		}

		rec, err := parseItem(dec)
		if err != nil {
			warnings = append(warnings, ParseWarning{Index: index, Reason: err.Error()})
			index++
			continue
		}
		if len(rec.Fields) == 0 {
			warnings = append(warnings, ParseWarning{Index: index, Reason: "empty item"})
			index++
			continue
		}

		records = append(records, rec)
		index++
	}

	if !sawElement {
		return nil, nil, fmt.Errorf("parse feed: not an XML document")
	}

	return records, warnings, nil
}

// parseItem collects the character data of every child element of an <item>
// until its closing tag. Nested elements flatten into their innermost name.
func parseItem(dec *xml.Decoder) (RawRecord, error) {
	rec := RawRecord{Fields: make(map[string]string)}

	var current string
	var text strings.Builder
	depth := 0

	for {
		tok, err := dec.Token()
		if err != nil {
			return rec, fmt.Errorf("unterminated item: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			current = strings.ToLower(t.Name.Local)
			text.Reset()
		case xml.CharData:
			if depth > 0 {
				text.Write(t)
			}
		case xml.EndElement:
			if depth == 0 {
				// Closing </item>.
				return rec, nil
			}
			depth--
			if current != "" {
				if v := strings.TrimSpace(text.String()); v != "" {
					rec.Fields[current] = v
				}
				current = ""
			}
		}
	}
}
