package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateNodes(t *testing.T) {
	require.True(t, ValidateNodes(nil))
	require.True(t, ValidateNodes([]Node{Text("hello")}))
	require.True(t, ValidateNodes([]Node{
		Element("p", nil, Text("a"), Element("strong", nil, Text("b"))),
	}))
	require.True(t, ValidateNodes([]Node{
		Element("a", map[string]string{"href": "https://x.com"}, Text("x")),
	}))

	// a node that is neither text nor a tagged element is invalid
	require.False(t, ValidateNodes([]Node{{}}))
	// ...at any depth
	require.False(t, ValidateNodes([]Node{Element("p", nil, Text("a"), Node{})}))
	// unknown tags and disallowed attributes are invalid
	require.False(t, ValidateNodes([]Node{Element("marquee", nil)}))
	require.False(t, ValidateNodes([]Node{Element("a", map[string]string{"onclick": "x()"})}))
	require.False(t, ValidateNodes([]Node{Element("p", map[string]string{"href": "x"})}))
}

func TestHTMLToNodes(t *testing.T) {
	nodes, err := HTMLToNodes(`<p>hi <em>there</em></p>`)
	require.NoError(t, err)
	require.Equal(t, []Node{
		Element("p", nil, Text("hi "), Element("em", nil, Text("there"))),
	}, nodes)
}

func TestHTMLToNodesNeverPanicsOnGarbage(t *testing.T) {
	for _, src := range []string{
		"",
		"<",
		"<<<><><",
		"<p",
		"</p></p></p>",
		"<p><b><i>deep",
		strings.Repeat("<p>", 1000),
	} {
		_, err := HTMLToNodes(src)
		assert.NoError(t, err, "input %q", src)
	}
}

func TestSanitizeHTML(t *testing.T) {
	out := SanitizeHTML(`<div><p>Hello    world</p><script>alert("x")</script></div>`)
	require.Equal(t, `<p>Hello world</p>`, out)

	out = SanitizeHTML(`<style>p { color: red }</style><p>ok</p>`)
	assert.NotContains(t, out, "color")
	assert.Contains(t, out, "<p>ok</p>")
}

func TestSanitizeHTMLDropsScriptContent(t *testing.T) {
	// unlike layout tags, script/style content must not survive
	out := SanitizeHTML(`<p>a</p><script>var secret = 1</script>`)
	assert.NotContains(t, out, "secret")
	out = SanitizeHTML(`<p>a</p><style>.x{}</style>`)
	assert.NotContains(t, out, ".x")

	// tag-name case must not matter
	out = SanitizeHTML(`<p>a</p><SCRIPT>var secret = 1</SCRIPT>`)
	assert.NotContains(t, out, "secret")
	out = SanitizeHTML(`<p>a</p><StYlE>.x{}</StYlE>`)
	assert.NotContains(t, out, ".x")
}

func TestValidateTitle(t *testing.T) {
	assert.False(t, ValidateTitle(""))
	assert.True(t, ValidateTitle("x"))
	assert.True(t, ValidateTitle(strings.Repeat("a", 256)))
	assert.False(t, ValidateTitle(strings.Repeat("a", 257)))
	// counted in characters, not bytes
	assert.True(t, ValidateTitle(strings.Repeat("é", 256)))
}

func TestValidateContentSize(t *testing.T) {
	assert.True(t, ValidateContentSize(strings.Repeat("a", 65536)))
	assert.False(t, ValidateContentSize(strings.Repeat("a", 65537)))
}

func TestValidateURL(t *testing.T) {
	assert.True(t, ValidateURL("https://x.com"))
	assert.True(t, ValidateURL("http://x.com/path?q=1"))
	assert.False(t, ValidateURL("ftp://x.com"))
	assert.False(t, ValidateURL("not a url"))
	assert.False(t, ValidateURL(""))
	assert.False(t, ValidateURL("https://"))
	assert.False(t, ValidateURL("/relative/path"))
}
