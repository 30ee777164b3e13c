// Package cachestore persists captured HTTP responses for the offline
// gateway, keyed by request and scoped to a versioned namespace.
package cachestore

import (
	"context"
	"errors"
	"net/http"
)

// ErrNotFound is returned by Match when no entry exists for the key.
var ErrNotFound = errors.New("cachestore: entry not found")

// Key identifies a cached response. Header variance is intentionally
// ignored; method plus absolute URL is enough for this application.
type Key struct {
	Method string
	URL    string
}

func (k Key) String() string {
	return k.Method + " " + k.URL
}

// Entry is a captured response.
type Entry struct {
	Status int         `json:"status"`
	Header http.Header `json:"header"`
	Body   []byte      `json:"body"`
}

// Store is a namespaced request→response cache. Exactly one namespace is
// current at a time; stale generations are purged wholesale on activation.
type Store interface {
	// Match returns the entry stored for key, or ErrNotFound.
	Match(ctx context.Context, namespace string, key Key) (*Entry, error)
	// Put stores an entry, overwriting any previous one for the key.
	Put(ctx context.Context, namespace string, key Key, entry *Entry) error
	// Namespaces enumerates every namespace that currently holds entries.
	Namespaces(ctx context.Context) ([]string, error)
	// Purge deletes a whole namespace.
	Purge(ctx context.Context, namespace string) error
}

func cloneEntry(e *Entry) *Entry {
	body := make([]byte, len(e.Body))
	copy(body, e.Body)
	return &Entry{
		Status: e.Status,
		Header: e.Header.Clone(),
		Body:   body,
	}
}
