// Package client is the Go client for the customer API: a typed HTTP
// client plus the infinite-scroll list controller the UI drives.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"customer-backend/models"
)

// ListParams mirrors the customer list query string.
type ListParams struct {
	Page      int
	Limit     int
	Filter    string
	SortBy    string
	SortOrder string
	Search    string
}

// CustomerPage is one page of the paginated customer endpoint.
type CustomerPage struct {
	Data       []models.Customer `json:"data"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	Total      int64             `json:"total"`
	TotalPages int64             `json:"totalPages"`
}

// CustomerAPI is the surface the paginator needs.
type CustomerAPI interface {
	ListCustomers(ctx context.Context, p ListParams) (*CustomerPage, error)
	DeleteCustomer(ctx context.Context, id uint) error
}

// Client talks to the customer API. Pass an http.Client whose Transport is
// the offline gateway to get cache-degraded reads for free.
type Client struct {
	base   string
	http   *http.Client
	token  string
	logger zerolog.Logger
}

func New(base string, httpClient *http.Client, logger zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		base:   base,
		http:   httpClient,
		logger: logger.With().Str("component", "APIClient").Logger(),
	}
}

// SetToken attaches the session token to subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values) (*http.Response, error) {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return c.http.Do(req)
}

func (c *Client) ListCustomers(ctx context.Context, p ListParams) (*CustomerPage, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
	if p.Filter == "" {
		p.Filter = "all"
	}

	query := url.Values{
		"page":   {strconv.Itoa(p.Page)},
		"limit":  {strconv.Itoa(p.Limit)},
		"filter": {p.Filter},
		"search": {p.Search},
	}
	// Sort params are only sent when a sort key is chosen.
	if p.SortBy != "" {
		query.Set("sortBy", p.SortBy)
		query.Set("sortOrder", p.SortOrder)
	}

	resp, err := c.do(ctx, http.MethodGet, "/api/customers", query)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch customers: status %d", resp.StatusCode)
	}

	var page CustomerPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode customer page: %w", err)
	}
	return &page, nil
}

func (c *Client) DeleteCustomer(ctx context.Context, id uint) error {
	resp, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/customers/%d", id), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to delete customer: status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) Stats(ctx context.Context) (*models.CustomerStats, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/customers/stats", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch stats: status %d", resp.StatusCode)
	}

	var stats models.CustomerStats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return nil, fmt.Errorf("decode stats: %w", err)
	}
	return &stats, nil
}
