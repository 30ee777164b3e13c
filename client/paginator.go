package client

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"customer-backend/models"
)

// DefaultPageSize matches the customer list page size.
const DefaultPageSize = 10

// sentinelThreshold is the visible fraction at which the sentinel triggers
// the next page fetch.
const sentinelThreshold = 0.5

// Paginator maintains the append-only customer sequence behind the
// infinite-scroll list. Page fetches are serialized by the loading guard;
// a generation counter discards responses that arrive after the query
// parameters changed.
type Paginator struct {
	mu sync.Mutex

	api    CustomerAPI
	limit  int
	logger zerolog.Logger

	// Query parameters. Any change resets the accumulated state.
	filter    string
	sortBy    string
	sortOrder string
	search    string

	page       int
	records    []models.Customer
	hasMore    bool
	loading    bool
	lastErr    error
	generation uint64

	// Called after a successful delete so the caller can refresh the
	// summary stats.
	onDelete func()
}

func NewPaginator(api CustomerAPI, onDelete func(), logger zerolog.Logger) *Paginator {
	return &Paginator{
		api:      api,
		limit:    DefaultPageSize,
		filter:   "all",
		page:     1,
		hasMore:  true,
		onDelete: onDelete,
		logger:   logger.With().Str("component", "Paginator").Logger(),
	}
}

// SetParams updates filter/sort/search. A change clears the accumulated
// sequence, resets to page 1 and invalidates any in-flight fetch.
func (p *Paginator) SetParams(filter, sortBy, sortOrder, search string) {
	if filter == "" {
		filter = "all"
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if filter == p.filter && sortBy == p.sortBy && sortOrder == p.sortOrder && search == p.search {
		return
	}

	p.filter = filter
	p.sortBy = sortBy
	p.sortOrder = sortOrder
	p.search = search

	p.records = nil
	p.page = 1
	p.hasMore = true
	p.lastErr = nil
	p.generation++
}

// LoadNext fetches the next page and appends it. It is a no-op while a
// fetch is in flight or when the last page has been reached. The page
// counter only advances on success, so a failed fetch can be retried.
func (p *Paginator) LoadNext(ctx context.Context) error {
	p.mu.Lock()
	if p.loading || !p.hasMore {
		p.mu.Unlock()
		return nil
	}
	p.loading = true
	gen := p.generation
	params := ListParams{
		Page:      p.page,
		Limit:     p.limit,
		Filter:    p.filter,
		SortBy:    p.sortBy,
		SortOrder: p.sortOrder,
		Search:    p.search,
	}
	p.mu.Unlock()

	result, err := p.api.ListCustomers(ctx, params)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false

	if gen != p.generation {
		// Parameters changed while this fetch was in flight; the
		// response belongs to a superseded query.
		p.logger.Debug().Int("page", params.Page).Msg("Discarding stale page response.")
		return nil
	}

	if err != nil {
		p.lastErr = err
		p.logger.Error().Err(err).Int("page", params.Page).Msg("Page fetch failed.")
		return err
	}

	if params.Page == 1 {
		p.records = append([]models.Customer(nil), result.Data...)
	} else {
		p.records = append(p.records, result.Data...)
	}
	p.hasMore = len(result.Data) == p.limit
	p.page = params.Page + 1
	p.lastErr = nil
	return nil
}

// SentinelVisible is the level-triggered scroll hook: called with the
// sentinel's visible fraction, it fetches the next page while at least
// half the sentinel is visible, no fetch is in flight and more pages
// remain. Re-invocation re-fires as long as the conditions hold.
func (p *Paginator) SentinelVisible(ctx context.Context, fraction float64) {
	if fraction < sentinelThreshold {
		return
	}
	p.mu.Lock()
	ready := !p.loading && p.hasMore
	p.mu.Unlock()
	if !ready {
		return
	}
	_ = p.LoadNext(ctx)
}

// Delete removes the customer remotely, then drops it from the local
// sequence before any later page fetch can start, and finally requests a
// stats refresh.
func (p *Paginator) Delete(ctx context.Context, customer models.Customer) error {
	if err := p.api.DeleteCustomer(ctx, customer.ID); err != nil {
		return err
	}

	p.mu.Lock()
	kept := p.records[:0]
	for _, r := range p.records {
		if r.ID != customer.ID {
			kept = append(kept, r)
		}
	}
	p.records = kept
	p.mu.Unlock()

	if p.onDelete != nil {
		p.onDelete()
	}
	return nil
}

// DeleteFlow wraps Delete in the shared confirmation abstraction.
func (p *Paginator) DeleteFlow(ctx context.Context, customer models.Customer) ConfirmFlow {
	return ConfirmFlow{
		Title:   "Delete Customer",
		Message: "Are you sure you want to delete " + customer.FullName + "? This action cannot be undone.",
		OnConfirm: func() error {
			return p.Delete(ctx, customer)
		},
	}
}

// Records returns a copy of the accumulated sequence.
func (p *Paginator) Records() []models.Customer {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.Customer, len(p.records))
	copy(out, p.records)
	return out
}

func (p *Paginator) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

func (p *Paginator) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// LastErr reports the most recent fetch failure; already-loaded records
// are kept so the caller can offer a retry.
func (p *Paginator) LastErr() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}
