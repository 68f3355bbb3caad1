// Package telegraph fetches pages from the Telegraph content API.
package telegraph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rgonek/telegraph-extract/converter"
)

// DefaultBaseURL is the public Telegraph API endpoint.
const DefaultBaseURL = "https://api.telegra.ph"

// DefaultTimeout bounds a single getPage request when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// ErrMalformedResponse reports a response body that is not valid JSON.
var ErrMalformedResponse = errors.New("malformed response from Telegraph API")

// FetchError reports a transport failure or a non-2xx HTTP status.
// Status is zero when no response was received.
type FetchError struct {
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch error (status %d)", e.Status)
	}
	if e.Status == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("status %d: %v", e.Status, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// APIError is returned when the API answers with "ok": false.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return "telegraph api error"
	}
	return "telegraph api error: " + e.Message
}

// Page is the result object of getPage.
type Page struct {
	Path        string           `json:"path"`
	URL         string           `json:"url"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	AuthorName  string           `json:"author_name,omitempty"`
	AuthorURL   string           `json:"author_url,omitempty"`
	ImageURL    string           `json:"image_url,omitempty"`
	Content     []converter.Node `json:"content,omitempty"`
	Views       int              `json:"views"`
	CanEdit     bool             `json:"can_edit,omitempty"`
}

type envelope struct {
	OK     bool            `json:"ok"`
	Result *rawPage        `json:"result"`
	Error  json.RawMessage `json:"error"`
}

// rawPage defers content decoding so a non-array content member degrades to
// an empty sequence instead of failing the whole response.
type rawPage struct {
	Path        string          `json:"path"`
	URL         string          `json:"url"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	AuthorName  string          `json:"author_name"`
	AuthorURL   string          `json:"author_url"`
	ImageURL    string          `json:"image_url"`
	Content     json.RawMessage `json:"content"`
	Views       int             `json:"views"`
	CanEdit     bool            `json:"can_edit"`
}

// Client calls the Telegraph API. The zero value is usable.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	UserAgent  string
	// Timeout bounds each request. Zero means DefaultTimeout.
	Timeout time.Duration
	Logger  zerolog.Logger
}

func (c *Client) baseURL() string {
	if c.BaseURL == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(c.BaseURL, "/")
}

func (c *Client) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

// PageURL returns the getPage endpoint for path, with content requested.
func (c *Client) PageURL(path string) string {
	return c.baseURL() + "/getPage/" + path + "?return_content=true"
}

// GetPage fetches the page at path. The caller's context and the client
// timeout both bound the request. A missing result yields an empty Page.
func (c *Client) GetPage(ctx context.Context, path string) (*Page, error) {
	apiURL := c.PageURL(path)
	c.Logger.Debug().Str("url", apiURL).Msg("telegraph api request")

	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, &FetchError{Err: fmt.Errorf("new request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{
			Status: resp.StatusCode,
			Err:    fmt.Errorf("unexpected status: %s", http.StatusText(resp.StatusCode)),
		}
	}

	return decodePage(body)
}

func decodePage(body []byte) (*Page, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if !env.OK {
		return nil, &APIError{Message: errorMessage(env.Error)}
	}

	page := &Page{Content: []converter.Node{}}
	if env.Result == nil {
		return page, nil
	}

	page.Path = env.Result.Path
	page.URL = env.Result.URL
	page.Title = env.Result.Title
	page.Description = env.Result.Description
	page.AuthorName = env.Result.AuthorName
	page.AuthorURL = env.Result.AuthorURL
	page.ImageURL = env.Result.ImageURL
	page.Views = env.Result.Views
	page.CanEdit = env.Result.CanEdit

	if nodes, err := converter.ParseNodes(env.Result.Content); err == nil {
		page.Content = nodes
	}

	return page, nil
}

// errorMessage renders the error member; strings are used as-is and any
// other JSON value is rendered compactly.
func errorMessage(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// PathFromURL returns the page path of a Telegraph URL: its path component
// without the leading slash. Scheme and host are not checked.
func PathFromURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	return strings.TrimLeft(u.EscapedPath(), "/"), nil
}
