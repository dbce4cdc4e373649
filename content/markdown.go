package content

import (
	"regexp"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// the renderer is stateless and can be shared; the parser is stateful and
// must be reinitialized on every call
var mdRenderer = mdhtml.NewRenderer(mdhtml.RendererOptions{})

// scrubPolicy is the final XSS pass, built from the tag policy so the two
// can never disagree about what is allowed.
var scrubPolicy = newScrubPolicy(defaultPolicy)

func newScrubPolicy(p *Policy) *bluemonday.Policy {
	bp := bluemonday.NewPolicy()
	for _, tag := range p.AllowedTags() {
		if attrs := p.AllowedAttributes(tag); len(attrs) > 0 {
			bp.AllowAttrs(attrs...).OnElements(tag)
		}
		bp.AllowElements(tag)
	}
	bp.AllowURLSchemes("http", "https")
	bp.AllowRelativeURLs(true)
	return bp
}

// ConvertMarkdown renders Markdown into HTML acceptable to the Telegraph
// tag policy. The rewrite steps run in a fixed order: header demotion,
// code-block unwrapping, standalone-image wrapping, emphasis
// normalization, autolinking, layout-tag stripping, and a final sanitize
// pass. No step fails; fragments that cannot be parsed pass through
// untouched.
func ConvertMarkdown(md string) string {
	md = strings.ReplaceAll(md, "\u00A0", " ")

	p := parser.NewWithExtensions(
		parser.NoIntraEmphasis |
			parser.Tables |
			parser.FencedCode |
			parser.SpaceHeadings,
	)
	out := string(markdown.Render(p.Parse([]byte(md)), mdRenderer))

	out = demoteHeaders(out)
	out = unwrapCodeBlocks(out)
	out = wrapStandaloneImages(out)
	out = normalizeEmphasis(out)
	out = autolink(out)
	out = stripUnsupportedTags(out)
	out = scrubPolicy.Sanitize(out)

	return strings.TrimSpace(out)
}

var (
	h1Open   = regexp.MustCompile(`<h1[^>]*>`)
	h2Open   = regexp.MustCompile(`<h2[^>]*>`)
	hLowOpen = regexp.MustCompile(`<h[3-6][^>]*>`)
	hLowEnd  = regexp.MustCompile(`</h[3-6]>`)
)

// header placeholders keep the h1/h2 remap from being caught by the
// h3-h6 demotion below; NUL cannot survive the markdown renderer so the
// markers cannot collide with document text
var headerFinal = strings.NewReplacer(
	"\x00h1\x00", "<h3>", "\x00/h1\x00", "</h3>",
	"\x00h2\x00", "<h4>", "\x00/h2\x00", "</h4>",
)

// demoteHeaders maps h1->h3 and h2->h4 (the only levels Telegraph keeps)
// and downgrades everything from h3 to h6 to a bold paragraph.
func demoteHeaders(src string) string {
	src = h1Open.ReplaceAllString(src, "\x00h1\x00")
	src = strings.ReplaceAll(src, "</h1>", "\x00/h1\x00")
	src = h2Open.ReplaceAllString(src, "\x00h2\x00")
	src = strings.ReplaceAll(src, "</h2>", "\x00/h2\x00")

	src = hLowOpen.ReplaceAllString(src, "<p><strong>")
	src = hLowEnd.ReplaceAllString(src, "</strong></p>")

	return headerFinal.Replace(src)
}

// unwrapCodeBlocks replaces the <div class="highlight"> wrapper emitted by
// code highlighters with a plain <pre>, keeping the content. Unlike
// generic divs the wrapper is renamed, not stripped, so code blocks stay
// visually distinct.
func unwrapCodeBlocks(src string) string {
	// bare value so quoting style and attribute case can't dodge the pass
	if !strings.Contains(src, "highlight") {
		return src
	}
	return rewriteFragment(src, func(body *html.Node) {
		renameHighlightDivs(body)
	})
}

func renameHighlightDivs(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		renameHighlightDivs(c)
		if c.Type == html.ElementNode && c.DataAtom == atom.Div && hasClass(c, "highlight") {
			c.Data = "pre"
			c.DataAtom = atom.Pre
			c.Attr = nil
			// collapse a nested <pre> so the rename doesn't double it up
			if inner := soleElementChild(c); inner != nil && inner.DataAtom == atom.Pre {
				unwrapElement(inner)
			}
		}
		c = next
	}
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, f := range strings.Fields(a.Val) {
			if f == class {
				return true
			}
		}
	}
	return false
}

// soleElementChild returns n's single element child if everything else
// under n is whitespace, or nil.
func soleElementChild(n *html.Node) *html.Node {
	var el *html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode && strings.TrimSpace(c.Data) == "":
		case c.Type == html.ElementNode && el == nil:
			el = c
		default:
			return nil
		}
	}
	return el
}

// wrapStandaloneImages promotes an <img> that is the only content of its
// paragraph to <figure><img><figcaption>. The caption takes the image
// title, falling back to alt; neither attribute is carried onto the new
// img. Images with surrounding text are left alone.
func wrapStandaloneImages(src string) string {
	if !strings.Contains(strings.ToLower(src), "<img") {
		return src
	}
	return rewriteFragment(src, func(body *html.Node) {
		wrapImagesIn(body)
	})
}

func wrapImagesIn(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		wrapImagesIn(c)
		if c.Type == html.ElementNode && c.DataAtom == atom.P {
			if img := soleElementChild(c); img != nil && img.DataAtom == atom.Img {
				n.InsertBefore(buildFigure(img), c)
				n.RemoveChild(c)
			}
		}
		c = next
	}
}

func buildFigure(img *html.Node) *html.Node {
	var src, title, alt string
	for _, a := range img.Attr {
		switch a.Key {
		case "src":
			src = a.Val
		case "title":
			title = a.Val
		case "alt":
			alt = a.Val
		}
	}
	caption := title
	if caption == "" {
		caption = alt
	}

	figure := &html.Node{Type: html.ElementNode, Data: "figure", DataAtom: atom.Figure}
	figure.AppendChild(&html.Node{
		Type:     html.ElementNode,
		Data:     "img",
		DataAtom: atom.Img,
		Attr:     []html.Attribute{{Key: "src", Val: src}},
	})
	figcaption := &html.Node{Type: html.ElementNode, Data: "figcaption", DataAtom: atom.Figcaption}
	figcaption.AppendChild(&html.Node{Type: html.TextNode, Data: caption})
	figure.AppendChild(figcaption)
	return figure
}

// normalizeEmphasis canonicalizes bold and italic markup to the
// strong/em pair, which is what the demoted headers use and what the tag
// policy serializes.
func normalizeEmphasis(src string) string {
	return emphasisReplacer.Replace(src)
}

var emphasisReplacer = strings.NewReplacer(
	"<b>", "<strong>", "</b>", "</strong>",
	"<i>", "<em>", "</i>", "</em>",
)

var urlPattern = regexp.MustCompile(`https?://[^\s<]+`)

// autolink wraps bare http(s) URLs found in text into anchors. Text
// already inside <a>, <pre> or <code> is left alone so existing links are
// never wrapped twice.
func autolink(src string) string {
	if !strings.Contains(src, "http") {
		return src
	}
	return rewriteFragment(src, func(body *html.Node) {
		linkifyText(body, false)
	})
}

func linkifyText(n *html.Node, skip bool) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.A, atom.Pre, atom.Code:
			skip = true
		}
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.TextNode && !skip {
			linkifyTextNode(n, c)
		} else {
			linkifyText(c, skip)
		}
		c = next
	}
}

func linkifyTextNode(parent, text *html.Node) {
	matches := urlPattern.FindAllStringIndex(text.Data, -1)
	if matches == nil {
		return
	}

	insert := func(n *html.Node) {
		parent.InsertBefore(n, text)
	}

	last := 0
	for _, m := range matches {
		if m[0] > last {
			insert(&html.Node{Type: html.TextNode, Data: text.Data[last:m[0]]})
		}
		u := text.Data[m[0]:m[1]]
		a := &html.Node{
			Type:     html.ElementNode,
			Data:     "a",
			DataAtom: atom.A,
			Attr:     []html.Attribute{{Key: "href", Val: u}},
		}
		a.AppendChild(&html.Node{Type: html.TextNode, Data: u})
		insert(a)
		last = m[1]
	}
	if last < len(text.Data) {
		insert(&html.Node{Type: html.TextNode, Data: text.Data[last:]})
	}
	parent.RemoveChild(text)
}

// Layout tags Telegraph doesn't accept; they are removed while their
// content stays in place.
var strippedTags = map[atom.Atom]bool{
	atom.Div:   true,
	atom.Span:  true,
	atom.Table: true,
	atom.Tbody: true,
	atom.Thead: true,
	atom.Tr:    true,
	atom.Td:    true,
	atom.Th:    true,
}

// stripUnsupportedTags removes layout wrappers and keeps their children.
// This is a tree walk rather than a regex so nested same-named tags come
// apart correctly.
func stripUnsupportedTags(src string) string {
	return rewriteFragment(src, func(body *html.Node) {
		stripIn(body)
	})
}

func stripIn(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		stripIn(c)
		if c.Type == html.ElementNode && strippedTags[c.DataAtom] {
			unwrapElement(c)
		}
		c = next
	}
}
