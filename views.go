package telegraph

import (
	"context"
	"net/url"
	"strconv"
)

// ViewsFilter narrows GetViews to a period. Zero fields are omitted, so
// an empty filter returns the page's all-time views. The API requires
// each finer field to come with the coarser ones (an hour needs a day,
// a day needs a month, and so on).
type ViewsFilter struct {
	Year  int
	Month int
	Day   int
	Hour  int
}

// GetViews returns the number of views a page collected in the period
// selected by filter.
func (c *Client) GetViews(ctx context.Context, path string, filter ViewsFilter) (*PageViews, error) {
	params := url.Values{}
	params.Set("path", path)
	if filter.Year != 0 {
		params.Set("year", strconv.Itoa(filter.Year))
	}
	if filter.Month != 0 {
		params.Set("month", strconv.Itoa(filter.Month))
	}
	if filter.Day != 0 {
		params.Set("day", strconv.Itoa(filter.Day))
	}
	if filter.Hour != 0 {
		params.Set("hour", strconv.Itoa(filter.Hour))
	}

	var views PageViews
	if err := c.api(ctx, "getViews", params, &views); err != nil {
		return nil, err
	}
	return &views, nil
}
