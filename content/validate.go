package content

import (
	"errors"
	"net/url"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	// MaxTitleLength is the longest page title the API accepts, in characters.
	MaxTitleLength = 256
	// MaxContentSize is the largest page body the API accepts, in UTF-8 bytes.
	MaxContentSize = 64 * 1024
)

// ErrInvalidNodeStructure is returned when a node tree fails the shape
// contract: an element without a tag, or an invalid descendant.
var ErrInvalidNodeStructure = errors.New("invalid node structure")

var defaultParser = NewParser(nil)

// HTMLToNodes converts HTML into validated Telegraph nodes. It never fails
// on malformed markup (the parser degrades to a best-effort tree) but
// returns ErrInvalidNodeStructure if the resulting tree does not pass
// ValidateNodes, so a bad tree can never reach the network layer.
func HTMLToNodes(src string) ([]Node, error) {
	nodes := defaultParser.Parse(src)
	if !ValidateNodes(nodes) {
		return nil, ErrInvalidNodeStructure
	}
	return nodes, nil
}

// ValidateNodes reports whether every node in the tree is either a text
// leaf or an element with an allowed tag, allowed attribute keys, and
// recursively valid children.
func ValidateNodes(nodes []Node) bool {
	for _, n := range nodes {
		if !validNode(n) {
			return false
		}
	}
	return true
}

func validNode(n Node) bool {
	if n.IsText() {
		return true
	}
	if n.Tag == "" || !defaultPolicy.IsTagAllowed(n.Tag) {
		return false
	}
	for attr := range n.Attrs {
		if !defaultPolicy.IsAttributeAllowed(n.Tag, attr) {
			return false
		}
	}
	return ValidateNodes(n.Children)
}

// SanitizeHTML makes raw HTML Telegraph-compatible: script and style
// elements are dropped together with their text, whitespace runs collapse
// to single spaces, and the result is round-tripped through the policy
// parser so only allowed markup survives.
func SanitizeHTML(src string) string {
	src = dropScriptsAndStyles(src)
	src = strings.Join(strings.Fields(src), " ")
	return NodesToHTML(defaultParser.Parse(src))
}

// dropScriptsAndStyles removes script/style elements including their
// content. The flatten-and-keep-children rule used everywhere else must
// not apply here: script bodies are text nodes and would otherwise leak
// into the output.
func dropScriptsAndStyles(src string) string {
	l := strings.ToLower(src)
	if !strings.Contains(l, "<script") && !strings.Contains(l, "<style") {
		return src
	}
	return rewriteFragment(src, func(body *html.Node) {
		removeScriptsIn(body)
	})
}

func removeScriptsIn(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode && (c.DataAtom == atom.Script || c.DataAtom == atom.Style) {
			n.RemoveChild(c)
		} else {
			removeScriptsIn(c)
		}
		c = next
	}
}

// ValidateTitle reports whether title is 1 to 256 characters long.
func ValidateTitle(title string) bool {
	n := utf8.RuneCountInString(title)
	return n >= 1 && n <= MaxTitleLength
}

// ValidateContentSize reports whether content fits the 64 KiB body limit.
func ValidateContentSize(content string) bool {
	return len(content) <= MaxContentSize
}

// ValidateURL reports whether raw is an absolute http or https URL with a
// host.
func ValidateURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
