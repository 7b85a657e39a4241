// Package fetch performs the authenticated HTTP calls to the two external
// services, consulting the response cache before touching the network.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/sgleason/bizatlas/internal/cache"
	"github.com/sgleason/bizatlas/internal/domain"
	"github.com/sgleason/bizatlas/internal/infra/config"
	"github.com/sgleason/bizatlas/internal/infra/logger"
)

// Client fetches from the external services with a cache-first policy:
// a hit short-circuits the network entirely, a miss performs exactly one
// call and stores the full response under its signature before returning.
type Client struct {
	httpClient *http.Client
	cache      *cache.Store
	log        *logger.Logger

	searchURL string
	apiKey    string
	userAgent string
	from      string
}

func New(cfg config.SearchConfig, cs *cache.Store, log *logger.Logger) *Client {
	return &Client{
		httpClient: http.DefaultClient,
		cache:      cs,
		log:        log,
		searchURL:  cfg.BaseURL,
		apiKey:     cfg.APIKey,
		userAgent:  cfg.UserAgent,
		from:       cfg.From,
	}
}

// FetchURL issues a plain GET against a complete URL and returns the raw
// text body. The URL itself is the cache signature; the body is stored as a
// JSON string.
func (c *Client) FetchURL(ctx context.Context, rawURL string) (string, error) {
	if raw, ok := c.cache.Get(rawURL); ok {
		c.log.Info("fetch: cache hit %s", rawURL)
		var text string
		if err := json.Unmarshal(raw, &text); err == nil {
			return text, nil
		}
		// Entry stored under an older shape; fall back to the raw bytes.
		return string(raw), nil
	}

	c.log.Info("fetch: cache miss %s", rawURL)
	body, err := c.get(ctx, rawURL, nil)
	if err != nil {
		return "", err
	}

	encoded, err := json.Marshal(string(body))
	if err != nil {
		return "", err
	}
	if err := c.cache.Put(rawURL, encoded); err != nil {
		return "", err
	}
	return string(body), nil
}

// FetchSearch issues a GET against the fixed search endpoint with the given
// parameters and returns the JSON body. The signature is built from the
// endpoint plus the sorted parameter set, so logically identical searches
// share one cache entry.
func (c *Client) FetchSearch(ctx context.Context, params map[string]string) (json.RawMessage, error) {
	key := cache.Signature(c.searchURL, params)

	if raw, ok := c.cache.Get(key); ok {
		c.log.Info("fetch: cache hit %s", key)
		return raw, nil
	}

	c.log.Info("fetch: cache miss %s", key)
	body, err := c.get(ctx, c.searchURL, params)
	if err != nil {
		return nil, err
	}

	if !json.Valid(body) {
		return nil, &domain.FetchError{URL: c.searchURL, Err: errInvalidJSON}
	}
	if err := c.cache.Put(key, json.RawMessage(body)); err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

var errInvalidJSON = errors.New("search response is not valid JSON")

func (c *Client) get(ctx context.Context, rawURL string, params map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &domain.FetchError{URL: rawURL, Err: err}
	}

	if len(params) > 0 {
		q := req.URL.Query()
		for k, v := range params {
			q.Set(k, v)
		}
		req.URL.RawQuery = q.Encode()
	}

	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.from != "" {
		req.Header.Set("From", c.from)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.FetchError{URL: rawURL, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.FetchError{URL: rawURL, Err: err}
	}
	return body, nil
}
