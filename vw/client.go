// Package vw implements the ugmirror remote interfaces against the
// volkswagen userguide web service. A Client owns a cookie-backed HTTP
// session: the first request logs the vehicle in with its VIN, after which
// the service identifies the session by cookie. Registration plates are
// translated to a VIN through the UK VRM lookup endpoint first.
package vw

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gromk/ugmirror"
)

// Default endpoints and tuning.
const (
	DefaultBaseURL      = "https://userguide.volkswagen.de"
	DefaultVRMLookupURL = "https://www.volkswagen.co.uk/api/vrm-lookup/0.4/vrm/lookup"
	DefaultTimeout      = 30 * time.Second
)

// vinBrandPrefix is the world-manufacturer prefix required by the service.
const vinBrandPrefix = "WVGZZZ"

// Ensure Client implements the domain interfaces at compile time.
var (
	_ ugmirror.CatalogService  = (*Client)(nil)
	_ ugmirror.FragmentFetcher = (*Client)(nil)
	_ ugmirror.AssetFetcher    = (*Client)(nil)
)

// Client talks to the userguide service for one vehicle.
type Client struct {
	baseURL string
	vrmURL  string
	hc      *http.Client
	ref     ugmirror.VehicleRef

	mu     sync.Mutex
	vin    string
	legacy bool
	ready  bool
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the userguide service base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// WithVRMLookupURL overrides the registration-plate lookup base URL.
func WithVRMLookupURL(u string) Option {
	return func(c *Client) { c.vrmURL = strings.TrimSuffix(u, "/") }
}

// WithTimeout sets the per-request timeout. Defaults to DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.hc.Timeout = d }
}

// NewClient creates a Client for the given vehicle. The session is
// established lazily on the first call that needs it.
func NewClient(ref ugmirror.VehicleRef, opts ...Option) (*Client, error) {
	ref = ref.Normalized()
	if err := ref.Validate(); err != nil {
		return nil, err
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, ugmirror.WrapErrorf(err, ugmirror.EINTERNAL, "cookie jar")
	}

	c := &Client{
		baseURL: DefaultBaseURL,
		vrmURL:  DefaultVRMLookupURL,
		hc: &http.Client{
			Jar:     jar,
			Timeout: DefaultTimeout,
		},
		ref: ref,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Vehicle returns the reference the client was opened for.
func (c *Client) Vehicle() ugmirror.VehicleRef {
	return c.ref
}

// VIN returns the resolved VIN. Empty until a session has been established.
func (c *Client) VIN() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vin
}

// apiURL joins a service path with the base URL, inserting the /legacy prefix
// when the login redirect indicated a legacy-mode vehicle.
func (c *Client) apiURL(path string) string {
	c.mu.Lock()
	legacy := c.legacy
	c.mu.Unlock()
	if legacy {
		return c.baseURL + "/legacy" + path
	}
	return c.baseURL + path
}

// ensureSession resolves the VIN and logs in once. Safe for concurrent use.
func (c *Client) ensureSession(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ready {
		return nil
	}

	vin, err := c.resolveVIN(ctx)
	if err != nil {
		return err
	}

	form := url.Values{"vin": {vin}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/public/vin/login/"+c.ref.Language,
		strings.NewReader(form.Encode()))
	if err != nil {
		return ugmirror.WrapErrorf(err, ugmirror.EINTERNAL, "build login request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.hc.Do(req)
	if err != nil {
		return ugmirror.WrapErrorf(err, ugmirror.EUNAVAILABLE, "login for %s", vin)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ugmirror.Errorf(ugmirror.EUNAVAILABLE, "login for %s: HTTP %d", vin, resp.StatusCode)
	}

	// The service redirects legacy-generation vehicles to /legacy/...;
	// remember the prefix for every subsequent call.
	c.legacy = strings.Contains(resp.Request.URL.Path, "legacy")
	c.vin = vin
	c.ready = true
	return nil
}

// resolveVIN returns the vehicle's VIN, translating a registration plate
// through the VRM lookup service when needed. Caller holds c.mu.
func (c *Client) resolveVIN(ctx context.Context) (string, error) {
	if c.ref.IsVIN() {
		if !strings.HasPrefix(c.ref.Identifier, vinBrandPrefix) {
			return "", ugmirror.Errorf(ugmirror.EINVALID,
				"VIN must start with %s", vinBrandPrefix)
		}
		return c.ref.Identifier, nil
	}

	var lookup struct {
		Error          *string `json:"error"`
		VehicleDetails struct {
			VIN string `json:"vin"`
		} `json:"vehicleDetails"`
	}
	if err := c.getJSON(ctx, c.vrmURL+"/"+c.ref.Identifier, &lookup); err != nil {
		return "", err
	}
	if lookup.Error != nil {
		return "", ugmirror.Errorf(ugmirror.ENOTFOUND,
			"registration plate %s not found: %s", c.ref.Identifier, *lookup.Error)
	}
	if lookup.VehicleDetails.VIN == "" {
		return "", ugmirror.Errorf(ugmirror.EMALFORMED,
			"VRM lookup for %s returned no VIN", c.ref.Identifier)
	}
	return lookup.VehicleDetails.VIN, nil
}

// get performs a GET and returns the response. Non-2xx statuses are returned
// as EUNAVAILABLE errors with the body drained and closed.
func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, ugmirror.WrapErrorf(err, ugmirror.EINTERNAL, "build request for %s", rawURL)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, ugmirror.WrapErrorf(err, ugmirror.EUNAVAILABLE, "GET %s", rawURL)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, ugmirror.Errorf(ugmirror.EUNAVAILABLE, "GET %s: HTTP %d", rawURL, resp.StatusCode)
	}
	return resp, nil
}

// getJSON performs a GET and decodes the JSON body into v.
func (c *Client) getJSON(ctx context.Context, rawURL string, v any) error {
	resp, err := c.get(ctx, rawURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeJSON(resp.Body, rawURL, v)
}
