package content

import "encoding/json"

// Node is a single unit of Telegraph content: either a text leaf or an
// element with a tag, attributes and ordered children. On the wire text
// nodes are bare JSON strings and elements are objects, so Node implements
// json.Marshaler and json.Unmarshaler itself.
//
// A zero Node carries neither text nor a tag and fails validation; it is
// what a malformed element decodes to. An empty string on the wire is not
// that: it decodes to a valid empty text leaf.
type Node struct {
	Text     string
	Tag      string
	Attrs    map[string]string
	Children []Node

	// set by Text and the decoder so an empty text leaf stays
	// distinguishable from the zero Node
	isText bool
}

// Text returns a text leaf node.
func Text(s string) Node {
	return Node{Text: s, isText: true}
}

// Element returns an element node with the given tag, attributes and
// children. attrs may be nil.
func Element(tag string, attrs map[string]string, children ...Node) Node {
	return Node{Tag: tag, Attrs: attrs, Children: children}
}

// IsText reports whether n is a text leaf.
func (n Node) IsText() bool {
	return n.isText || n.Text != ""
}

type nodeElement struct {
	Tag      string            `json:"tag"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Children []Node            `json:"children,omitempty"`
}

func (n Node) MarshalJSON() ([]byte, error) {
	if n.IsText() {
		return json.Marshal(n.Text)
	}
	return json.Marshal(nodeElement{Tag: n.Tag, Attrs: n.Attrs, Children: n.Children})
}

func (n *Node) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		n.Tag, n.Attrs, n.Children = "", nil, nil
		n.isText = true
		return json.Unmarshal(data, &n.Text)
	}
	var el nodeElement
	if err := json.Unmarshal(data, &el); err != nil {
		return err
	}
	n.Text, n.isText = "", false
	n.Tag, n.Attrs, n.Children = el.Tag, el.Attrs, el.Children
	return nil
}
