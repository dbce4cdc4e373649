package content

import (
	"bytes"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Elements that never carry children and never go on the open-element stack.
var voidElements = map[string]bool{
	"br":  true,
	"hr":  true,
	"img": true,
}

// Parser converts raw HTML into Telegraph nodes, enforcing a tag policy.
// A Parser holds no per-call state and is safe for concurrent use.
type Parser struct {
	policy *Policy
}

// NewParser returns a parser bound to the given policy. A nil policy means
// DefaultPolicy.
func NewParser(policy *Policy) *Parser {
	if policy == nil {
		policy = defaultPolicy
	}
	return &Parser{policy: policy}
}

// Parse consumes possibly malformed HTML and returns the root-level nodes.
// Tags outside the policy are dropped while their children stay in place,
// attributes outside the per-tag set are discarded, and whitespace-only
// text between tags is skipped. Parse never fails: stray end tags are
// ignored and unclosed tags are closed implicitly at end of input.
func (p *Parser) Parse(src string) []Node {
	z := html.NewTokenizer(strings.NewReader(src))

	var roots []Node
	var stack []*Node

	// While a node is on the stack only its own children list grows, so
	// pointers held here stay valid across appends.
	appendNode := func(n Node) *Node {
		if len(stack) == 0 {
			roots = append(roots, n)
			return &roots[len(roots)-1]
		}
		parent := stack[len(stack)-1]
		parent.Children = append(parent.Children, n)
		return &parent.Children[len(parent.Children)-1]
	}

	for {
		switch tt := z.Next(); tt {
		case html.ErrorToken:
			// end of input, whether clean or truncated
			return roots
		case html.TextToken:
			text := string(z.Text())
			if strings.TrimSpace(text) == "" {
				continue
			}
			appendNode(Text(text))
		case html.StartTagToken, html.SelfClosingTagToken:
			t := z.Token()
			if !p.policy.IsTagAllowed(t.Data) {
				// flatten: skip the wrapper, its children land at the
				// current insertion point
				continue
			}
			node := Node{Tag: t.Data}
			for _, a := range t.Attr {
				if p.policy.IsAttributeAllowed(t.Data, a.Key) {
					if node.Attrs == nil {
						node.Attrs = make(map[string]string)
					}
					node.Attrs[a.Key] = a.Val
				}
			}
			el := appendNode(node)
			if tt == html.StartTagToken && !voidElements[t.Data] {
				stack = append(stack, el)
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if len(stack) > 0 && stack[len(stack)-1].Tag == string(name) {
				stack = stack[:len(stack)-1]
			}
		}
	}
}

// NodesToHTML renders a node tree back to HTML, depth-first, attributes in
// sorted order. It is the inverse of Parse only for policy-clean input:
// content that Parse dropped or flattened does not come back.
func NodesToHTML(nodes []Node) string {
	var b strings.Builder
	for _, n := range nodes {
		writeNode(&b, n)
	}
	return b.String()
}

func writeNode(b *strings.Builder, n Node) {
	if n.IsText() {
		b.WriteString(html.EscapeString(n.Text))
		return
	}
	b.WriteByte('<')
	b.WriteString(n.Tag)
	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(n.Attrs[k]))
		b.WriteByte('"')
	}
	if voidElements[n.Tag] {
		b.WriteString("/>")
		return
	}
	b.WriteByte('>')
	for _, c := range n.Children {
		writeNode(b, c)
	}
	b.WriteString("</")
	b.WriteString(n.Tag)
	b.WriteByte('>')
}

// rewriteFragment parses src as a body fragment, hands the synthetic body
// element to fn for in-place restructuring, and renders the result back.
// If src cannot be parsed it is returned untouched.
func rewriteFragment(src string, fn func(body *html.Node)) string {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(src), context)
	if err != nil {
		return src
	}

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	for _, n := range nodes {
		body.AppendChild(n)
	}

	fn(body)

	var buf bytes.Buffer
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return src
		}
	}
	return buf.String()
}

// unwrapElement lifts n's children into its parent, in order, and removes n.
func unwrapElement(n *html.Node) {
	parent := n.Parent
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		parent.InsertBefore(c, n)
		c = next
	}
	parent.RemoveChild(n)
}
