// Package tags looks up search keywords for a learner query against a
// keyword-suggestion service.
//
// The service's response shape varies between deployments: the tag list may
// appear under several alternate field paths. Rather than duck-typing the
// payload, the client tries an explicit ordered list of extraction paths
// and the first non-empty result wins.
package tags

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// DefaultPaths is the ordered list of gjson paths probed for the tag list.
var DefaultPaths = []string{"tags", "data.tags", "result.tags", "keywords", "suggestions"}

// DefaultMaxTags caps how many tags a lookup returns.
const DefaultMaxTags = 8

const maxResponseBytes = 1 << 20

// Config holds Client configuration.
type Config struct {
	// Endpoint is the keyword-suggestion service URL (required).
	Endpoint string

	// Paths overrides the ordered extraction paths. Default: DefaultPaths.
	Paths []string

	// MaxTags overrides the result cap. Default: DefaultMaxTags.
	MaxTags int

	// HTTPClient overrides the HTTP client. Default: 10s timeout client.
	HTTPClient *http.Client
}

// Client queries the keyword-suggestion service.
type Client struct {
	endpoint string
	paths    []string
	maxTags  int
	client   *http.Client
}

// New creates a Client, applying defaults for zero-valued config fields.
func New(cfg *Config) *Client {
	if cfg == nil {
		cfg = &Config{}
	}
	c := &Client{
		endpoint: cfg.Endpoint,
		paths:    cfg.Paths,
		maxTags:  cfg.MaxTags,
		client:   cfg.HTTPClient,
	}
	if len(c.paths) == 0 {
		c.paths = DefaultPaths
	}
	if c.maxTags == 0 {
		c.maxTags = DefaultMaxTags
	}
	if c.client == nil {
		c.client = &http.Client{Timeout: 10 * time.Second}
	}
	return c
}

// Lookup posts the query text and extracts the tag list. Callers should
// treat any error as "no tags": a lookup failure degrades to an empty list
// and never blocks the narrative response.
func (c *Client) Lookup(ctx context.Context, query string) ([]string, error) {
	if c.endpoint == "" {
		return nil, nil
	}

	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, fmt.Errorf("tags: encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("tags: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tags: lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tags: unexpected status %d", resp.StatusCode)
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("tags: read response: %w", err)
	}

	for _, path := range c.paths {
		if tags := c.extract(payload, path); len(tags) > 0 {
			return tags, nil
		}
	}
	return nil, nil
}

// extract pulls a tag list from one candidate path. List elements may be
// plain strings or objects carrying the tag under "tag" or "name".
func (c *Client) extract(payload []byte, path string) []string {
	result := gjson.GetBytes(payload, path)
	if !result.IsArray() {
		return nil
	}

	var tags []string
	for _, elem := range result.Array() {
		if len(tags) >= c.maxTags {
			break
		}
		var tag string
		switch {
		case elem.Type == gjson.String:
			tag = elem.String()
		case elem.IsObject():
			tag = elem.Get("tag").String()
			if tag == "" {
				tag = elem.Get("name").String()
			}
		}
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
