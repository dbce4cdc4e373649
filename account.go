package telegraph

import (
	"context"
	"net/url"
	"unicode/utf8"
)

const maxShortNameLength = 32

// CreateAccount creates a new Telegraph account. authorName and authorURL
// are optional defaults for pages created with it. On success the new
// access token replaces the one stored on the client.
func (c *Client) CreateAccount(ctx context.Context, shortName, authorName, authorURL string) (*Account, error) {
	if n := utf8.RuneCountInString(shortName); n < 1 || n > maxShortNameLength {
		return nil, &ValidationError{Field: "short_name", Reason: "must be 1-32 characters long"}
	}

	params := url.Values{}
	params.Set("short_name", shortName)
	if authorName != "" {
		params.Set("author_name", authorName)
	}
	if authorURL != "" {
		params.Set("author_url", authorURL)
	}

	var account Account
	if err := c.api(ctx, "createAccount", params, &account); err != nil {
		return nil, err
	}
	if account.AccessToken != "" {
		c.accessToken = account.AccessToken
	}
	return &account, nil
}

// GetAccountInfo returns information about the client's account. With no
// fields given it requests short_name, author_name, author_url and
// page_count.
func (c *Client) GetAccountInfo(ctx context.Context, fields ...string) (*Account, error) {
	if c.accessToken == "" {
		return nil, ErrNoAccessToken
	}
	if len(fields) == 0 {
		fields = []string{"short_name", "author_name", "author_url", "page_count"}
	}

	fieldList, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	params := url.Values{}
	params.Set("fields", string(fieldList))

	var account Account
	if err := c.api(ctx, "getAccountInfo", params, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// EditAccountInfo updates account settings. Empty arguments are left
// unchanged; at least one must be set.
func (c *Client) EditAccountInfo(ctx context.Context, shortName, authorName, authorURL string) (*Account, error) {
	if c.accessToken == "" {
		return nil, ErrNoAccessToken
	}

	params := url.Values{}
	if shortName != "" {
		params.Set("short_name", shortName)
	}
	if authorName != "" {
		params.Set("author_name", authorName)
	}
	if authorURL != "" {
		params.Set("author_url", authorURL)
	}
	if len(params) == 0 {
		return nil, &ValidationError{Field: "fields", Reason: "at least one field must be provided"}
	}

	var account Account
	if err := c.api(ctx, "editAccountInfo", params, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// RevokeAccessToken revokes the current token and stores the replacement
// on the client. Use it if the token may have been compromised.
func (c *Client) RevokeAccessToken(ctx context.Context) (*Account, error) {
	if c.accessToken == "" {
		return nil, ErrNoAccessToken
	}

	var account Account
	if err := c.api(ctx, "revokeAccessToken", nil, &account); err != nil {
		return nil, err
	}
	c.accessToken = account.AccessToken
	return &account, nil
}
