package telegraph

import "github.com/go-telegraph/telegraph/content"

// Account is a Telegraph account. AccessToken and AuthURL are only
// returned by createAccount and revokeAccessToken.
type Account struct {
	ShortName   string `json:"short_name"`
	AuthorName  string `json:"author_name,omitempty"`
	AuthorURL   string `json:"author_url,omitempty"`
	AccessToken string `json:"access_token,omitempty"`
	AuthURL     string `json:"auth_url,omitempty"`
	PageCount   int    `json:"page_count,omitempty"`
}

// Page is a page on Telegraph. Content is only populated when it was
// requested explicitly.
type Page struct {
	Path        string         `json:"path"`
	URL         string         `json:"url"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	AuthorName  string         `json:"author_name,omitempty"`
	AuthorURL   string         `json:"author_url,omitempty"`
	ImageURL    string         `json:"image_url,omitempty"`
	Content     []content.Node `json:"content,omitempty"`
	Views       int            `json:"views,omitempty"`
	CanEdit     bool           `json:"can_edit,omitempty"`
}

// PageList is one page of getPageList results, sorted by creation date.
type PageList struct {
	TotalCount int    `json:"total_count"`
	Pages      []Page `json:"pages"`
}

// PageViews is the number of views a page collected in the requested
// period.
type PageViews struct {
	Views int `json:"views"`
}

// ContentType selects which transformation path page content passes
// through before it reaches the validated-tree stage.
type ContentType string

const (
	ContentTypeHTML     ContentType = "html"
	ContentTypeMarkdown ContentType = "markdown"
	ContentTypeNodes    ContentType = "nodes"
)

// PageContent is the payload for CreatePage and EditPage. Content carries
// raw HTML or Markdown depending on Type; Nodes is used instead when Type
// is ContentTypeNodes. An empty Type means html.
type PageContent struct {
	Title      string
	Content    string
	Nodes      []content.Node
	AuthorName string
	AuthorURL  string
	Type       ContentType
}
