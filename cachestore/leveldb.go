package cachestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// namespace and key are joined with a NUL byte, which cannot appear in
// either.
const levelDBSep = "\x00"

// LevelDBStore persists cached responses on local disk so the gateway can
// serve them across restarts.
type LevelDBStore struct {
	db *leveldb.DB
}

func NewLevelDBStore(path string) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open leveldb at %s: %w", path, err)
	}
	return &LevelDBStore{db: db}, nil
}

func levelDBKey(namespace string, key Key) []byte {
	return []byte(namespace + levelDBSep + key.String())
}

func (s *LevelDBStore) Match(_ context.Context, namespace string, key Key) (*Entry, error) {
	data, err := s.db.Get(levelDBKey(namespace, key), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal entry: %w", err)
	}
	return &entry, nil
}

func (s *LevelDBStore) Put(_ context.Context, namespace string, key Key, entry *Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}
	return s.db.Put(levelDBKey(namespace, key), data, nil)
}

func (s *LevelDBStore) Namespaces(_ context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	iter := s.db.NewIterator(nil, nil)
	defer iter.Release()
	for iter.Next() {
		if i := bytes.IndexByte(iter.Key(), 0); i > 0 {
			seen[string(iter.Key()[:i])] = struct{}{}
		}
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	return names, nil
}

func (s *LevelDBStore) Purge(_ context.Context, namespace string) error {
	iter := s.db.NewIterator(util.BytesPrefix([]byte(namespace+levelDBSep)), nil)
	defer iter.Release()

	batch := new(leveldb.Batch)
	for iter.Next() {
		key := make([]byte, len(iter.Key()))
		copy(key, iter.Key())
		batch.Delete(key)
	}
	if err := iter.Error(); err != nil {
		return err
	}
	return s.db.Write(batch, nil)
}

func (s *LevelDBStore) Close() error {
	return s.db.Close()
}
