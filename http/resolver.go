// Package http provides a Wikipedia-backed implementation of
// mira.FallbackResolver using the MediaWiki action API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/fwojciec/mira"
)

// DefaultEndpoint is the German Wikipedia API endpoint.
const DefaultEndpoint = "https://de.wikipedia.org/w/api.php"

// DefaultTimeout is the default timeout for a single HTTP request.
const DefaultTimeout = 10 * time.Second

// DefaultUserAgent identifies requests to the Wikimedia API.
const DefaultUserAgent = "mira/1.0 (+https://github.com/fwojciec/mira)"

// Ensure Resolver implements mira.FallbackResolver at compile time.
var _ mira.FallbackResolver = (*Resolver)(nil)

// Resolver looks up unmatched queries on Wikipedia. It searches for the
// query, takes the top result and fetches the plain-text introduction of
// that article.
type Resolver struct {
	client      *http.Client
	endpoint    string
	timeout     time.Duration
	userAgent   string
	retryDelays []time.Duration
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTimeout sets the timeout for each HTTP request.
// Defaults to DefaultTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		r.timeout = d
	}
}

// WithEndpoint sets the MediaWiki API endpoint, e.g. for another language.
func WithEndpoint(endpoint string) Option {
	return func(r *Resolver) {
		r.endpoint = endpoint
	}
}

// WithHTTPClient sets the client used for requests. The timeout option is
// ignored when a client is supplied.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Resolver) {
		r.client = c
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(r *Resolver) {
		r.userAgent = ua
	}
}

// WithRetryDelays sets the backoff delays between attempts of a request.
// A nil slice disables retries.
func WithRetryDelays(delays []time.Duration) Option {
	return func(r *Resolver) {
		r.retryDelays = delays
	}
}

// NewResolver creates a new Wikipedia Resolver.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		endpoint:    DefaultEndpoint,
		timeout:     DefaultTimeout,
		userAgent:   DefaultUserAgent,
		retryDelays: DefaultRetryDelays(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.client == nil {
		r.client = &http.Client{
			Timeout: r.timeout,
		}
	}

	return r
}

// Resolve searches Wikipedia for query and returns the introduction of the
// best matching article.
func (r *Resolver) Resolve(ctx context.Context, query string) mira.FallbackResult {
	if strings.TrimSpace(query) == "" {
		return mira.NotFound()
	}

	title, err := r.search(ctx, query)
	if err != nil {
		return mira.TransportError(err.Error())
	}
	if title == "" {
		return mira.NotFound()
	}

	extract, err := r.extract(ctx, title)
	if err != nil {
		return mira.TransportError(err.Error())
	}
	if strings.TrimSpace(extract) == "" {
		return mira.Found(title)
	}
	return mira.Answer(extract)
}

type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

type searchResponse struct {
	Error *apiError `json:"error"`
	Query *struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

type extractResponse struct {
	Error *apiError `json:"error"`
	Query *struct {
		Pages map[string]struct {
			Title   string  `json:"title"`
			Extract *string `json:"extract"`
		} `json:"pages"`
	} `json:"query"`
}

// search returns the title of the top search hit, or "" if there is none.
func (r *Resolver) search(ctx context.Context, query string) (string, error) {
	params := url.Values{
		"action":   {"query"},
		"format":   {"json"},
		"list":     {"search"},
		"srsearch": {query},
		"srlimit":  {"1"},
		"utf8":     {"1"},
	}

	var resp searchResponse
	if err := r.getJSON(ctx, params, &resp); err != nil {
		return "", err
	}
	if resp.Error != nil {
		return "", fmt.Errorf("wikipedia API error %s: %s", resp.Error.Code, resp.Error.Info)
	}
	if resp.Query == nil {
		return "", errors.New("malformed search response: missing query")
	}
	if len(resp.Query.Search) == 0 {
		return "", nil
	}
	return resp.Query.Search[0].Title, nil
}

// extract returns the plain-text introduction of the article, or "" if the
// article has none.
func (r *Resolver) extract(ctx context.Context, title string) (string, error) {
	params := url.Values{
		"action":      {"query"},
		"format":      {"json"},
		"prop":        {"extracts"},
		"exintro":     {"1"},
		"explaintext": {"1"},
		"titles":      {title},
	}

	var resp extractResponse
	if err := r.getJSON(ctx, params, &resp); err != nil {
		return "", err
	}
	if resp.Error != nil {
		return "", fmt.Errorf("wikipedia API error %s: %s", resp.Error.Code, resp.Error.Info)
	}
	if resp.Query == nil || len(resp.Query.Pages) == 0 {
		return "", errors.New("malformed extract response: missing pages")
	}

	// Only one title is requested; sort ids so the choice is stable anyway.
	ids := make([]string, 0, len(resp.Query.Pages))
	for id := range resp.Query.Pages {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	page := resp.Query.Pages[ids[0]]
	if page.Extract == nil {
		return "", nil
	}
	return *page.Extract, nil
}

func (r *Resolver) getJSON(ctx context.Context, params url.Values, v any) error {
	body, err := withRetry(ctx, r.retryDelays, func(ctx context.Context) ([]byte, error) {
		return r.get(ctx, params)
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("malformed response: %w", err)
	}
	return nil
}

func (r *Resolver) get(ctx context.Context, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode, endpoint: r.endpoint}
	}

	return io.ReadAll(resp.Body)
}
