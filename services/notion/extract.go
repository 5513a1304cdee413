package notion

import (
	"bytes"
	"encoding/json"
	"strings"
)

const untitled = "Untitled"

type property struct {
	Type     string     `json:"type"`
	Title    []richText `json:"title"`
	RichText []richText `json:"rich_text"`
}

// ExtractTitle picks the first non-empty title property, then the first non-empty
// rich_text property, in the order the properties appear in the payload.
func ExtractTitle(properties json.RawMessage) string {
	props := orderedProperties(properties)
	for _, p := range props {
		if p.Type == "title" && len(p.Title) > 0 {
			return joinPlain(p.Title)
		}
	}
	for _, p := range props {
		if p.Type == "rich_text" && len(p.RichText) > 0 {
			return joinPlain(p.RichText)
		}
	}
	return untitled
}

// orderedProperties decodes a JSON object's values keeping key order.
func orderedProperties(raw json.RawMessage) []property {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil
	}

	var props []property
	for dec.More() {
		if _, err := dec.Token(); err != nil {
			return props
		}
		var p property
		if err := dec.Decode(&p); err != nil {
			return props
		}
		props = append(props, p)
	}
	return props
}

func joinPlain(parts []richText) string {
	var b strings.Builder
	for _, rt := range parts {
		b.WriteString(rt.PlainText)
	}
	return b.String()
}

var textBlockTypes = map[string]bool{
	"paragraph":          true,
	"heading_1":          true,
	"heading_2":          true,
	"heading_3":          true,
	"bulleted_list_item": true,
	"numbered_list_item": true,
}

func decodeBlock(raw map[string]json.RawMessage) Block {
	var b Block
	_ = json.Unmarshal(raw["id"], &b.ID)
	_ = json.Unmarshal(raw["type"], &b.Type)
	_ = json.Unmarshal(raw["has_children"], &b.HasChildren)

	if textBlockTypes[b.Type] {
		var body struct {
			RichText []richText `json:"rich_text"`
		}
		if err := json.Unmarshal(raw[b.Type], &body); err == nil {
			b.Text = joinPlain(body.RichText)
		}
	}
	return b
}
