package vw

import (
	"context"
	"io"
	"regexp"
	"strings"

	"github.com/gromk/ugmirror"
)

// stringsTable matches the localized label assignments embedded in the
// service's welcome page scripts.
var stringsTable = regexp.MustCompile(`strings\["([a-zA-Z0-9.]+)"\]\s*=\s*"([^"]+)";`)

// FetchAsset downloads a static resource referenced by a fragment. Relative
// URLs are resolved against the service base (with the legacy prefix).
func (c *Client) FetchAsset(ctx context.Context, rawURL string) ([]byte, error) {
	if err := c.ensureSession(ctx); err != nil {
		return nil, err
	}

	if !strings.HasPrefix(rawURL, "http:") && !strings.HasPrefix(rawURL, "https:") {
		rawURL = c.apiURL(rawURL)
	}

	resp, err := c.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ugmirror.WrapErrorf(err, ugmirror.EUNAVAILABLE, "read asset %s", rawURL)
	}
	return data, nil
}

// Strings scrapes the localized UI labels from the welcome page. The labels
// feed the rendered manual's chrome (TOC title, "open online" link).
func (c *Client) Strings(ctx context.Context) (map[string]string, error) {
	if err := c.ensureSession(ctx); err != nil {
		return nil, err
	}

	resp, err := c.get(ctx, c.apiURL("/w/"+c.ref.Language+"/welcome/"))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	page, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ugmirror.WrapErrorf(err, ugmirror.EUNAVAILABLE, "read welcome page")
	}

	labels := make(map[string]string)
	for _, m := range stringsTable.FindAllStringSubmatch(string(page), -1) {
		labels[m[1]] = m[2]
	}
	return labels, nil
}
