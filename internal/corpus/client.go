// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus queries the remote nutrition corpus and implements the
// tiered candidate matching used by the search orchestrator.
package corpus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/voss/nutrikit/internal/httputil"
	"github.com/voss/nutrikit/pkg/types"
)

// apiBase is the corpus food search endpoint. Declared as a var so tests
// can substitute an httptest server.
var apiBase = "https://api.tbca.net.br/v2"

// SourceName identifies the corpus in Food.Source and log output.
const SourceName = "tbca"

// ErrNotFound reports that a code lookup matched no corpus record.
var ErrNotFound = errors.New("corpus: record not found")

// Corpus is the query surface the match engine and orchestrator consume.
// Client is the HTTP implementation; tests substitute in-memory fakes.
type Corpus interface {
	FindByDescriptionExact(ctx context.Context, term string, excludeCodes []string, limit int) ([]types.RemoteFoodRecord, error)
	FindByDescriptionPrefix(ctx context.Context, term string, excludeCodes []string, limit int) ([]types.RemoteFoodRecord, error)
	FindByDescriptionSubstring(ctx context.Context, term string, excludeCodes []string, limit int) ([]types.RemoteFoodRecord, error)
	FindByTag(ctx context.Context, term string, excludeCodes []string, limit int) ([]types.RemoteFoodRecord, error)
	FindByCategory(ctx context.Context, class string, limit, offset int) ([]types.RemoteFoodRecord, error)
	FindByNutrientRange(ctx context.Context, nutrient string, min, max float64, limit, offset int) ([]types.RemoteFoodRecord, error)
	FindByCode(ctx context.Context, code string) (*types.RemoteFoodRecord, error)
}

// Client queries the corpus HTTP API.
type Client struct {
	HTTP   *http.Client
	Config types.CorpusConfig
}

// NewClient builds a Client from config. A nil http.Client uses
// http.DefaultClient with the configured timeout applied.
func NewClient(cfg types.CorpusConfig) *Client {
	hc := &http.Client{}
	if cfg.Timeout > 0 {
		hc.Timeout = cfg.Timeout
	}
	return &Client{HTTP: hc, Config: cfg}
}

// foodsResponse is the corpus list-endpoint JSON envelope.
type foodsResponse struct {
	Total int                      `json:"total"`
	Items []types.RemoteFoodRecord `json:"items"`
}

// FindByDescriptionExact returns records whose description equals term
// case-insensitively in full.
func (c *Client) FindByDescriptionExact(ctx context.Context, term string, excludeCodes []string, limit int) ([]types.RemoteFoodRecord, error) {
	return c.findFoods(ctx, term, "exact", excludeCodes, limit)
}

// FindByDescriptionPrefix returns records whose description starts with term.
func (c *Client) FindByDescriptionPrefix(ctx context.Context, term string, excludeCodes []string, limit int) ([]types.RemoteFoodRecord, error) {
	return c.findFoods(ctx, term, "prefix", excludeCodes, limit)
}

// FindByDescriptionSubstring returns records whose description contains term.
func (c *Client) FindByDescriptionSubstring(ctx context.Context, term string, excludeCodes []string, limit int) ([]types.RemoteFoodRecord, error) {
	return c.findFoods(ctx, term, "substring", excludeCodes, limit)
}

// FindByTag returns records whose simplified description or tags contain term.
func (c *Client) FindByTag(ctx context.Context, term string, excludeCodes []string, limit int) ([]types.RemoteFoodRecord, error) {
	return c.findFoods(ctx, term, "tag", excludeCodes, limit)
}

func (c *Client) findFoods(ctx context.Context, term, match string, excludeCodes []string, limit int) ([]types.RemoteFoodRecord, error) {
	params := url.Values{
		"term":  {term},
		"match": {match},
		"limit": {strconv.Itoa(limit)},
	}
	if len(excludeCodes) > 0 {
		params.Set("exclude", strings.Join(excludeCodes, ","))
	}

	var fr foodsResponse
	if err := c.get(ctx, "/foods", params, &fr); err != nil {
		return nil, fmt.Errorf("corpus %s search: %w", match, err)
	}
	return fr.Items, nil
}

// FindByCategory returns records in the given corpus class.
func (c *Client) FindByCategory(ctx context.Context, class string, limit, offset int) ([]types.RemoteFoodRecord, error) {
	params := url.Values{
		"class":  {class},
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}
	var fr foodsResponse
	if err := c.get(ctx, "/foods", params, &fr); err != nil {
		return nil, fmt.Errorf("corpus category search: %w", err)
	}
	return fr.Items, nil
}

// FindByNutrientRange returns records whose named nutrient value falls
// within [min, max].
func (c *Client) FindByNutrientRange(ctx context.Context, nutrient string, min, max float64, limit, offset int) ([]types.RemoteFoodRecord, error) {
	params := url.Values{
		"nutrient": {nutrient},
		"min":      {strconv.FormatFloat(min, 'f', -1, 64)},
		"max":      {strconv.FormatFloat(max, 'f', -1, 64)},
		"limit":    {strconv.Itoa(limit)},
		"offset":   {strconv.Itoa(offset)},
	}
	var fr foodsResponse
	if err := c.get(ctx, "/foods", params, &fr); err != nil {
		return nil, fmt.Errorf("corpus nutrient search: %w", err)
	}
	return fr.Items, nil
}

// FindByCode looks up one record by its natural key. Returns ErrNotFound
// when the corpus has no such code.
func (c *Client) FindByCode(ctx context.Context, code string) (*types.RemoteFoodRecord, error) {
	var rec types.RemoteFoodRecord
	err := c.get(ctx, "/foods/"+url.PathEscape(code), nil, &rec)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("corpus code lookup: %w", err)
	}
	return &rec, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	base := c.Config.BaseURL
	if base == "" {
		base = apiBase
	}
	reqURL := base + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.Config.UserAgent)
	if c.Config.APIKey != "" {
		req.Header.Set("x-api-key", c.Config.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, c.Config.MaxRetries)
	if err != nil {
		return fmt.Errorf("corpus API request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("corpus API returned HTTP %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing corpus response: %w", err)
	}
	return nil
}
