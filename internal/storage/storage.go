// Package storage wraps the JSON file datastore used for small
// process-wide settings, currently the per-guild prefix overrides.
package storage

import (
	"context"

	"github.com/keshon/datastore"
)

const prefixesKey = "guild_prefixes"

// Storage is the settings store backed by a JSON file on disk.
type Storage struct {
	ds     *datastore.DataStore
	cancel context.CancelFunc
}

// New opens (or creates) the datastore file at path. The datastore's
// background auto-save loop runs until Close.
func New(path string) (*Storage, error) {
	ctx, cancel := context.WithCancel(context.Background())
	ds, err := datastore.New(ctx, path)
	if err != nil {
		cancel()
		return nil, err
	}
	return &Storage{ds: ds, cancel: cancel}, nil
}

// Close stops the auto-save loop, then flushes and closes the
// underlying datastore.
func (s *Storage) Close() error {
	s.cancel()
	return s.ds.Close()
}

func (s *Storage) guildPrefixes() (map[string]string, error) {
	prefixes := map[string]string{}
	found, err := s.ds.Get(prefixesKey, &prefixes)
	if err != nil {
		return nil, err
	}
	if !found {
		return map[string]string{}, nil
	}
	return prefixes, nil
}

// All returns every configured guild prefix override.
func (s *Storage) All() (map[string]string, error) {
	return s.guildPrefixes()
}

// Set stores a custom prefix for a guild.
func (s *Storage) Set(guildID, prefix string) error {
	prefixes, err := s.guildPrefixes()
	if err != nil {
		return err
	}
	prefixes[guildID] = prefix
	return s.ds.Set(prefixesKey, prefixes)
}

// Delete removes a guild's custom prefix.
func (s *Storage) Delete(guildID string) error {
	prefixes, err := s.guildPrefixes()
	if err != nil {
		return err
	}
	delete(prefixes, guildID)
	return s.ds.Set(prefixesKey, prefixes)
}
