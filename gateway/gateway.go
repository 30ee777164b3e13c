// Package gateway is an offline-first caching layer for the customer app.
// It intercepts outgoing HTTP requests as an http.RoundTripper, picks one
// fetch strategy per request and falls back to previously captured
// responses when the network is unavailable.
package gateway

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"customer-backend/cachestore"
)

type strategy int

const (
	strategyDynamic strategy = iota
	strategyCacheFirst
	strategyNetworkFirst
)

// Gateway implements http.RoundTripper. Exactly one strategy handles each
// request.
type Gateway struct {
	store       cachestore.Store
	namespace   string // immutable for the lifetime of the process
	origins     map[string]bool
	upstream    *url.URL
	offlinePath string
	timeout     time.Duration
	inner       http.RoundTripper
	logger      zerolog.Logger
}

// New builds a gateway from config. inner is the transport used for live
// fetches; nil means http.DefaultTransport.
func New(cfg *Config, store cachestore.Store, inner http.RoundTripper, logger zerolog.Logger) (*Gateway, error) {
	upstream, err := url.Parse(cfg.Upstream)
	if err != nil {
		return nil, err
	}
	if inner == nil {
		inner = http.DefaultTransport
	}

	origins := make(map[string]bool, len(cfg.NetworkFirstOrigins))
	for _, o := range cfg.NetworkFirstOrigins {
		origins[o] = true
	}

	return &Gateway{
		store:       store,
		namespace:   cfg.CacheName,
		origins:     origins,
		upstream:    upstream,
		offlinePath: cfg.OfflinePath,
		timeout:     cfg.NetworkTimeout,
		inner:       inner,
		logger:      logger.With().Str("component", "Gateway").Logger(),
	}, nil
}

func originOf(u *url.URL) string {
	return u.Scheme + "://" + u.Host
}

// requestOrigin is the origin the client actually asked for. Behind the
// reverse proxy the URL has already been rewritten to the upstream, so the
// original origin arrives in the X-Forwarded headers set by the rewrite.
func requestOrigin(req *http.Request) string {
	if host := req.Header.Get("X-Forwarded-Host"); host != "" {
		proto := req.Header.Get("X-Forwarded-Proto")
		if proto == "" {
			proto = "http"
		}
		return proto + "://" + host
	}
	return originOf(req.URL)
}

func isNavigation(req *http.Request) bool {
	return req.Method == http.MethodGet && req.Header.Get("Sec-Fetch-Mode") == "navigate"
}

func (g *Gateway) strategyFor(req *http.Request) strategy {
	if g.origins[requestOrigin(req)] {
		return strategyNetworkFirst
	}
	if isNavigation(req) {
		return strategyCacheFirst
	}
	return strategyDynamic
}

// RoundTrip dispatches the request to exactly one strategy.
func (g *Gateway) RoundTrip(req *http.Request) (*http.Response, error) {
	switch g.strategyFor(req) {
	case strategyNetworkFirst:
		return g.networkFirst(req)
	case strategyCacheFirst:
		return g.cacheFirst(req)
	default:
		return g.dynamic(req)
	}
}

func (g *Gateway) key(req *http.Request) cachestore.Key {
	return cachestore.Key{Method: req.Method, URL: req.URL.String()}
}

// fetch performs a live network attempt, bounded by the configured timeout
// when one is set.
func (g *Gateway) fetch(req *http.Request) (*http.Response, error) {
	if g.timeout > 0 {
		ctx, cancel := context.WithTimeout(req.Context(), g.timeout)
		resp, err := g.inner.RoundTrip(req.WithContext(ctx))
		if err != nil {
			cancel()
			return nil, err
		}
		// Body must outlive this call; cancel when it is closed.
		resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
		return resp, nil
	}
	return g.inner.RoundTrip(req)
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// capture stores a successful response and rebuilds its body for the
// caller. Cache-write failures are non-fatal.
func (g *Gateway) capture(req *http.Request, resp *http.Response) *http.Response {
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		resp.Body = io.NopCloser(bytes.NewReader(nil))
		return resp
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))

	entry := &cachestore.Entry{
		Status: resp.StatusCode,
		Header: resp.Header.Clone(),
		Body:   body,
	}
	if err := g.store.Put(req.Context(), g.namespace, g.key(req), entry); err != nil {
		g.logger.Warn().Err(err).Str("url", req.URL.String()).Msg("Cache write failed.")
	}
	return resp
}

func responseFromEntry(req *http.Request, entry *cachestore.Entry) *http.Response {
	return &http.Response{
		Status:        http.StatusText(entry.Status),
		StatusCode:    entry.Status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        entry.Header.Clone(),
		Body:          io.NopCloser(bytes.NewReader(entry.Body)),
		ContentLength: int64(len(entry.Body)),
		Request:       req,
	}
}

func syntheticResponse(req *http.Request, status int, contentType string, body string) *http.Response {
	header := make(http.Header)
	header.Set("Content-Type", contentType)
	header.Set("Content-Length", strconv.Itoa(len(body)))
	return &http.Response{
		Status:        http.StatusText(status),
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader([]byte(body))),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}

// cacheFirst serves GET requests from the cache when possible; a hit never
// touches the network. On a network failure with nothing cached it falls
// back to the offline document.
func (g *Gateway) cacheFirst(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return g.fetch(req)
	}

	if entry, err := g.store.Match(req.Context(), g.namespace, g.key(req)); err == nil {
		return responseFromEntry(req, entry), nil
	}

	resp, err := g.fetch(req)
	if err != nil {
		g.logger.Warn().Err(err).Str("url", req.URL.String()).Msg("Cache-first fetch failed, serving offline page.")
		return g.offlineFallback(req), nil
	}

	if isSuccess(resp.StatusCode) {
		resp = g.capture(req, resp)
	}
	return resp, nil
}

func (g *Gateway) offlineFallback(req *http.Request) *http.Response {
	offlineURL := g.upstream.ResolveReference(&url.URL{Path: g.offlinePath})
	key := cachestore.Key{Method: http.MethodGet, URL: offlineURL.String()}
	if entry, err := g.store.Match(req.Context(), g.namespace, key); err == nil {
		return responseFromEntry(req, entry)
	}
	return syntheticResponse(req, http.StatusServiceUnavailable, "text/plain; charset=utf-8", "Offline")
}

// networkFirst prefers a live response; the cache is purely a degradation
// path. Data endpoints degrade to an empty-list document when nothing is
// cached.
func (g *Gateway) networkFirst(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return g.fetch(req)
	}

	resp, err := g.fetch(req)
	if err == nil {
		if isSuccess(resp.StatusCode) {
			resp = g.capture(req, resp)
		}
		return resp, nil
	}

	g.logger.Warn().Err(err).Str("url", req.URL.String()).Msg("Network-first fetch failed, trying cache.")
	if entry, mErr := g.store.Match(req.Context(), g.namespace, g.key(req)); mErr == nil {
		return responseFromEntry(req, entry), nil
	}
	return syntheticResponse(req, http.StatusOK, "application/json", "[]"), nil
}

// dynamic forwards non-GET requests untouched; mutations are never served
// from or written to the cache. Successful same-origin GET responses are
// stored opportunistically.
func (g *Gateway) dynamic(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return g.fetch(req)
	}

	resp, err := g.fetch(req)
	if err == nil {
		if isSuccess(resp.StatusCode) && originOf(req.URL) == originOf(g.upstream) {
			resp = g.capture(req, resp)
		}
		return resp, nil
	}

	g.logger.Warn().Err(err).Str("url", req.URL.String()).Msg("Dynamic fetch failed, trying cache.")
	if entry, mErr := g.store.Match(req.Context(), g.namespace, g.key(req)); mErr == nil {
		return responseFromEntry(req, entry), nil
	}
	return syntheticResponse(req, http.StatusInternalServerError, "text/plain; charset=utf-8", "Network error"), nil
}
