package converter

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// NodeKind identifies which variant a Node holds.
type NodeKind uint8

const (
	// KindInvalid marks a JSON value that is neither a text run nor an element.
	KindInvalid NodeKind = iota
	// KindText is a plain text run.
	KindText
	// KindElement is a tagged node with attributes and children.
	KindElement
)

func (k NodeKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindElement:
		return "element"
	default:
		return "invalid"
	}
}

// Node represents one node of a Telegraph content tree.
//
// On the wire a node is either a JSON string (text run) or an object of the
// form {"tag": "p", "attrs": {"href": "..."}, "children": [...]}.
type Node struct {
	Kind     NodeKind
	Text     string
	Tag      Tag
	Attrs    map[string]string
	Children []Node
}

// Text returns a text run node.
func Text(value string) Node {
	return Node{Kind: KindText, Text: value}
}

// Element returns an element node with the given tag and children.
func Element(tag Tag, children ...Node) Node {
	return Node{Kind: KindElement, Tag: tag, Children: children}
}

// ElementWithAttrs returns an element node carrying attributes.
func ElementWithAttrs(tag Tag, attrs map[string]string, children ...Node) Node {
	return Node{Kind: KindElement, Tag: tag, Attrs: attrs, Children: children}
}

// IsText reports whether the node is a text run.
func (n Node) IsText() bool { return n.Kind == KindText }

// IsElement reports whether the node is an element.
func (n Node) IsElement() bool { return n.Kind == KindElement }

// HasTag reports whether the node is an element with the given tag.
func (n Node) HasTag(tag Tag) bool {
	return n.Kind == KindElement && n.Tag == tag
}

// Attr returns the attribute value for key, or "" when absent.
func (n Node) Attr(key string) string {
	if n.Attrs == nil {
		return ""
	}
	return n.Attrs[key]
}

type wireElement struct {
	Tag      json.RawMessage            `json:"tag"`
	Attrs    map[string]json.RawMessage `json:"attrs"`
	Children json.RawMessage            `json:"children"`
}

// UnmarshalJSON decodes a node without failing on malformed content.
// Values that are neither strings nor objects decode to KindInvalid.
func (n *Node) UnmarshalJSON(data []byte) error {
	*n = Node{}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	switch trimmed[0] {
	case '"':
		var value string
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return nil
		}
		*n = Text(value)
		return nil
	case '{':
		var wire wireElement
		if err := json.Unmarshal(trimmed, &wire); err != nil {
			return nil
		}
		n.Kind = KindElement
		n.Tag = Tag(decodeString(wire.Tag))
		n.Attrs = decodeAttrs(wire.Attrs)
		n.Children = decodeChildren(wire.Children)
		return nil
	default:
		return nil
	}
}

// MarshalJSON encodes the node in the Telegraph content format.
func (n Node) MarshalJSON() ([]byte, error) {
	switch n.Kind {
	case KindText:
		return json.Marshal(n.Text)
	case KindElement:
		out := struct {
			Tag      Tag               `json:"tag"`
			Attrs    map[string]string `json:"attrs,omitempty"`
			Children []Node            `json:"children,omitempty"`
		}{
			Tag:      n.Tag,
			Attrs:    n.Attrs,
			Children: n.Children,
		}
		return json.Marshal(out)
	default:
		return []byte("null"), nil
	}
}

// ParseNodes decodes a JSON array of nodes. Only a root that is not an
// array is an error; malformed members become KindInvalid nodes.
func ParseNodes(data []byte) ([]Node, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse content JSON: %w", err)
	}

	nodes := make([]Node, 0, len(raw))
	for _, item := range raw {
		var node Node
		_ = node.UnmarshalJSON(item)
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func decodeString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return ""
	}
	return value
}

func decodeAttrs(raw map[string]json.RawMessage) map[string]string {
	if len(raw) == 0 {
		return nil
	}

	attrs := make(map[string]string, len(raw))
	for key, value := range raw {
		var str string
		if err := json.Unmarshal(value, &str); err != nil {
			continue
		}
		attrs[key] = str
	}
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}

func decodeChildren(raw json.RawMessage) []Node {
	if len(raw) == 0 {
		return nil
	}
	children, err := ParseNodes(raw)
	if err != nil || len(children) == 0 {
		return nil
	}
	return children
}
