// Package adf builds and validates Atlassian Document Format values, the rich
// text representation Jira Cloud expects for description fields.
package adf

import (
	"encoding/json"
)

const (
	// DocType is the node type of every document root.
	DocType = "doc"
	// Version is the only ADF schema version Jira accepts.
	Version = 1
)

// Mark is formatting applied to a text node, e.g. strong or link.
type Mark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// Node is a single element of the document tree. A node without Content is a
// leaf.
type Node struct {
	Type    string         `json:"type"`
	Content []Node         `json:"content,omitempty"`
	Text    string         `json:"text,omitempty"`
	Marks   []Mark         `json:"marks,omitempty"`
	Attrs   map[string]any `json:"attrs,omitempty"`
}

// Document is the root of an ADF tree.
type Document struct {
	Type    string `json:"type"`
	Version int    `json:"version"`
	Content []Node `json:"content"`

	// raw is the caller's object when the document was normalized from one.
	// It is marshaled as given, so attributes the typed tree has no slot for
	// reach Jira unchanged.
	raw map[string]any
}

// MarshalJSON encodes the caller's original object when there is one.
func (d Document) MarshalJSON() ([]byte, error) {
	if d.raw != nil {
		return json.Marshal(d.raw)
	}
	type plain Document
	return json.Marshal(plain(d))
}

// Empty returns the canonical empty document: one paragraph without children.
func Empty() Document {
	return Document{
		Type:    DocType,
		Version: Version,
		Content: []Node{{Type: "paragraph"}},
	}
}

// FromText wraps s verbatim in a single paragraph. No markup is interpreted.
func FromText(s string) Document {
	return Document{
		Type:    DocType,
		Version: Version,
		Content: []Node{{
			Type:    "paragraph",
			Content: []Node{{Type: "text", Text: s}},
		}},
	}
}

// Valid reports whether d has the doc root, the supported version and a
// well-formed tree.
func (d Document) Valid() bool {
	if d.raw != nil {
		return IsValidDocument(d.raw)
	}
	if d.Type != DocType || d.Version != Version || d.Content == nil {
		return false
	}
	for _, n := range d.Content {
		if !n.Valid() {
			return false
		}
	}
	return true
}

// Valid reports whether n and all of its descendants have a non-empty type.
func (n Node) Valid() bool {
	if n.Type == "" {
		return false
	}
	for _, child := range n.Content {
		if !child.Valid() {
			return false
		}
	}
	return true
}

// IsValidDocument checks an untyped value, as decoded from JSON tool
// arguments, against the document invariants.
func IsValidDocument(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	if t, _ := m["type"].(string); t != DocType {
		return false
	}
	if !isVersion(m["version"]) {
		return false
	}
	content, ok := m["content"].([]any)
	if !ok {
		return false
	}
	return validNodes(content)
}

// IsValidNode checks an untyped node recursively. An absent content key and
// an empty content array are both valid.
func IsValidNode(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	if t, ok := m["type"].(string); !ok || t == "" {
		return false
	}
	raw, present := m["content"]
	if !present {
		return true
	}
	children, ok := raw.([]any)
	if !ok {
		return false
	}
	return validNodes(children)
}

func validNodes(nodes []any) bool {
	for _, n := range nodes {
		if !IsValidNode(n) {
			return false
		}
	}
	return true
}

func isVersion(v any) bool {
	switch n := v.(type) {
	case int:
		return n == Version
	case int64:
		return n == Version
	case float64:
		return n == Version
	case json.Number:
		i, err := n.Int64()
		return err == nil && i == Version
	default:
		return false
	}
}
