package telegraph

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/go-telegraph/telegraph/content"
)

// CreatePage publishes a new page from pc, transforming its content
// according to pc.Type first.
func (c *Client) CreatePage(ctx context.Context, pc PageContent) (*Page, error) {
	params, err := c.pageParams(pc)
	if err != nil {
		return nil, err
	}

	var page Page
	if err := c.api(ctx, "createPage", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// EditPage replaces the content of an existing page at path.
func (c *Client) EditPage(ctx context.Context, path string, pc PageContent) (*Page, error) {
	if c.accessToken == "" {
		return nil, ErrNoAccessToken
	}

	params, err := c.pageParams(pc)
	if err != nil {
		return nil, err
	}
	params.Set("path", path)

	var page Page
	if err := c.api(ctx, "editPage", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetPage returns a page. Content is included when returnContent is true.
func (c *Client) GetPage(ctx context.Context, path string, returnContent bool) (*Page, error) {
	params := url.Values{}
	params.Set("path", path)
	params.Set("return_content", strconv.FormatBool(returnContent))

	var page Page
	if err := c.api(ctx, "getPage", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetPageList returns pages belonging to the account, newest first. limit
// is capped at 200 by the API.
func (c *Client) GetPageList(ctx context.Context, offset, limit int) (*PageList, error) {
	if c.accessToken == "" {
		return nil, ErrNoAccessToken
	}
	if limit > 200 {
		limit = 200
	}

	params := url.Values{}
	params.Set("offset", strconv.Itoa(offset))
	params.Set("limit", strconv.Itoa(limit))

	var list PageList
	if err := c.api(ctx, "getPageList", params, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// pageParams validates pc and builds the request parameters shared by
// createPage and editPage, converting content to nodes first.
func (c *Client) pageParams(pc PageContent) (url.Values, error) {
	nodes, err := c.processContent(pc)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(nodes)
	if err != nil {
		return nil, err
	}
	if !content.ValidateContentSize(string(body)) {
		return nil, &ValidationError{Field: "content", Reason: "exceeds the 64 KiB page size limit"}
	}

	params := url.Values{}
	params.Set("title", pc.Title)
	params.Set("content", string(body))
	params.Set("return_content", "false")
	if pc.AuthorName != "" {
		params.Set("author_name", pc.AuthorName)
	}
	if pc.AuthorURL != "" {
		params.Set("author_url", pc.AuthorURL)
	}
	return params, nil
}

// processContent turns pc into a validated node tree without touching the
// network. Markdown goes through the full transform pipeline, HTML through
// the policy parser, and pre-built nodes are validated as-is.
func (c *Client) processContent(pc PageContent) ([]content.Node, error) {
	if !content.ValidateTitle(pc.Title) {
		return nil, &ValidationError{Field: "title", Reason: "must be 1-256 characters long"}
	}

	typ := pc.Type
	if typ == "" {
		typ = ContentTypeHTML
	}
	switch typ {
	case ContentTypeMarkdown:
		return content.HTMLToNodes(content.ConvertMarkdown(pc.Content))
	case ContentTypeHTML:
		return content.HTMLToNodes(pc.Content)
	case ContentTypeNodes:
		if !content.ValidateNodes(pc.Nodes) {
			return nil, fmt.Errorf("telegraph: content: %w", content.ErrInvalidNodeStructure)
		}
		return pc.Nodes, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedContentType, typ)
	}
}
