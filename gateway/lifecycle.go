package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"customer-backend/cachestore"
)

// LifecycleManager runs the install/activate sequence at startup. Install
// pre-populates the current namespace with the static asset manifest;
// activate purges every other generation. Once both succeed the gateway is
// active and controlling.
type LifecycleManager struct {
	store     cachestore.Store
	namespace string
	upstream  *url.URL
	manifest  []string
	client    *http.Client
	logger    zerolog.Logger
}

func NewLifecycleManager(cfg *Config, store cachestore.Store, inner http.RoundTripper, logger zerolog.Logger) (*LifecycleManager, error) {
	upstream, err := url.Parse(cfg.Upstream)
	if err != nil {
		return nil, err
	}
	if inner == nil {
		inner = http.DefaultTransport
	}

	return &LifecycleManager{
		store:     store,
		namespace: cfg.CacheName,
		upstream:  upstream,
		manifest:  cfg.Precache,
		client:    &http.Client{Transport: inner},
		logger:    logger.With().Str("component", "LifecycleManager").Logger(),
	}, nil
}

// Install fetches every manifest asset and stores it under the current
// namespace. Any single failure fails the whole install.
func (m *LifecycleManager) Install(ctx context.Context) error {
	for _, path := range m.manifest {
		assetURL := m.upstream.ResolveReference(&url.URL{Path: path}).String()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
		if err != nil {
			return fmt.Errorf("install: build request for %s: %w", path, err)
		}
		resp, err := m.client.Do(req)
		if err != nil {
			return fmt.Errorf("install: fetch %s: %w", path, err)
		}

		entry, err := entryFromResponse(resp)
		if err != nil {
			return fmt.Errorf("install: read %s: %w", path, err)
		}
		if !isSuccess(entry.Status) {
			return fmt.Errorf("install: fetch %s: status %d", path, entry.Status)
		}

		key := cachestore.Key{Method: http.MethodGet, URL: assetURL}
		if err := m.store.Put(ctx, m.namespace, key, entry); err != nil {
			return fmt.Errorf("install: store %s: %w", path, err)
		}
		m.logger.Debug().Str("asset", assetURL).Msg("Precached asset.")
	}

	m.logger.Info().Int("assets", len(m.manifest)).Str("namespace", m.namespace).Msg("Install complete.")
	return nil
}

// Activate purges every namespace other than the current one.
func (m *LifecycleManager) Activate(ctx context.Context) error {
	namespaces, err := m.store.Namespaces(ctx)
	if err != nil {
		return fmt.Errorf("activate: enumerate namespaces: %w", err)
	}

	for _, ns := range namespaces {
		if ns == m.namespace {
			continue
		}
		if err := m.store.Purge(ctx, ns); err != nil {
			return fmt.Errorf("activate: purge %s: %w", ns, err)
		}
		m.logger.Info().Str("namespace", ns).Msg("Purged stale cache generation.")
	}
	return nil
}

func entryFromResponse(resp *http.Response) (*cachestore.Entry, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &cachestore.Entry{
		Status: resp.StatusCode,
		Header: resp.Header.Clone(),
		Body:   body,
	}, nil
}
