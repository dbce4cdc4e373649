package content

// Policy is the set of tags and per-tag attributes accepted by the
// Telegraph API. It is immutable after construction and safe to share
// between goroutines.
type Policy struct {
	tags  map[string]struct{}
	attrs map[string]map[string]struct{}
}

// DefaultPolicy returns the tag policy enforced by telegra.ph.
func DefaultPolicy() *Policy {
	p := &Policy{
		tags:  make(map[string]struct{}),
		attrs: make(map[string]map[string]struct{}),
	}
	for _, tag := range []string{
		"a", "aside", "b", "blockquote", "br", "code", "em",
		"figcaption", "figure", "h3", "h4", "hr", "i", "iframe",
		"img", "li", "ol", "p", "pre", "s", "strong", "u", "ul",
		"video",
	} {
		p.tags[tag] = struct{}{}
	}
	for tag, attrs := range map[string][]string{
		"a":      {"href", "title"},
		"img":    {"src", "alt", "title"},
		"iframe": {"src", "width", "height"},
		"video":  {"src", "width", "height", "controls"},
	} {
		set := make(map[string]struct{}, len(attrs))
		for _, attr := range attrs {
			set[attr] = struct{}{}
		}
		p.attrs[tag] = set
	}
	return p
}

// IsTagAllowed reports whether tag may appear in Telegraph content.
func (p *Policy) IsTagAllowed(tag string) bool {
	_, ok := p.tags[tag]
	return ok
}

// IsAttributeAllowed reports whether attr may appear on tag. Tags with no
// declared attribute set accept no attributes at all.
func (p *Policy) IsAttributeAllowed(tag, attr string) bool {
	set, ok := p.attrs[tag]
	if !ok {
		return false
	}
	_, ok = set[attr]
	return ok
}

// AllowedTags returns every tag the policy accepts, in no particular order.
func (p *Policy) AllowedTags() []string {
	tags := make([]string, 0, len(p.tags))
	for tag := range p.tags {
		tags = append(tags, tag)
	}
	return tags
}

// AllowedAttributes returns the attributes accepted on tag, in no
// particular order. It returns nil for tags with no declared attributes.
func (p *Policy) AllowedAttributes(tag string) []string {
	set, ok := p.attrs[tag]
	if !ok {
		return nil
	}
	attrs := make([]string, 0, len(set))
	for attr := range set {
		attrs = append(attrs, attr)
	}
	return attrs
}

// defaultPolicy is the shared read-only policy used by the package-level
// conversion and validation functions.
var defaultPolicy = DefaultPolicy()
