package adf

import (
	"encoding/json"
)

// Normalize converts a description given as nothing, plain text, a Document
// or an untyped document object into a Document. It never fails: anything
// that is not a well-formed document becomes the canonical empty document.
func Normalize(input any) Document {
	switch v := input.(type) {
	case nil:
		return Empty()
	case string:
		if v == "" {
			return Empty()
		}
		return FromText(v)
	case Document:
		if v.Valid() {
			return v
		}
		return Empty()
	case *Document:
		if v != nil && v.Valid() {
			return *v
		}
		return Empty()
	case map[string]any:
		if !IsValidDocument(v) {
			return Empty()
		}
		return fromMap(v)
	default:
		return Empty()
	}
}

// fromMap wraps an already validated untyped document. The object itself is
// what gets marshaled; the typed tree is filled in when it decodes and is
// only used for reading, e.g. PlainText.
func fromMap(m map[string]any) Document {
	doc := Document{Type: DocType, Version: Version, raw: m}
	if encoded, err := json.Marshal(m); err == nil {
		var typed Document
		if json.Unmarshal(encoded, &typed) == nil {
			doc.Content = typed.Content
		}
	}
	return doc
}

// PlainText flattens the text leaves of d, separating top-level blocks with
// newlines. It is used when rendering issue descriptions as Markdown.
func (d Document) PlainText() string {
	var out []byte
	for i, n := range d.Content {
		if i > 0 {
			out = append(out, '\n')
		}
		out = appendText(out, n)
	}
	return string(out)
}

func appendText(out []byte, n Node) []byte {
	switch n.Type {
	case "text":
		return append(out, n.Text...)
	case "hardBreak":
		return append(out, '\n')
	}
	for _, child := range n.Content {
		out = appendText(out, child)
	}
	return out
}
