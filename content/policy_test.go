package content

import "testing"

func TestPolicyTags(t *testing.T) {
	p := DefaultPolicy()

	for _, tag := range []string{"a", "p", "figure", "figcaption", "video", "aside"} {
		if !p.IsTagAllowed(tag) {
			t.Fatalf("%q should be allowed", tag)
		}
	}
	for _, tag := range []string{"div", "span", "script", "style", "h1", "h2", "h5", "h6", "table", ""} {
		if p.IsTagAllowed(tag) {
			t.Fatalf("%q should not be allowed", tag)
		}
	}
}

func TestPolicyAttributes(t *testing.T) {
	p := DefaultPolicy()

	if !p.IsAttributeAllowed("a", "href") || !p.IsAttributeAllowed("a", "title") {
		t.Fatal("a should accept href and title")
	}
	if !p.IsAttributeAllowed("img", "src") || !p.IsAttributeAllowed("video", "controls") {
		t.Fatal("img/src and video/controls should be allowed")
	}
	if p.IsAttributeAllowed("a", "onclick") {
		t.Fatal("event handlers should never be allowed")
	}
	// tags without a declared set accept nothing
	if p.IsAttributeAllowed("p", "class") || p.IsAttributeAllowed("b", "href") {
		t.Fatal("undeclared tags should accept no attributes")
	}
	if p.IsAttributeAllowed("div", "class") {
		t.Fatal("unknown tags should accept no attributes")
	}
}
