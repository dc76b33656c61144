// Package testing provides test utilities and local store setup for the messenger tests
package testing

import (
	"context"
	"fmt"

	"github.com/amirphl/otp-messenger/repository"
)

// TestStore bundles a migrated in-memory SQLite medium with the repositories built on it
type TestStore struct {
	KV       *repository.SQLiteKeyValueStore
	Messages repository.MessageRepository
	Contacts repository.ContactRepository
	Key      string
}

// SetupTestStore opens an ephemeral SQLite store seeded with TestContacts
func SetupTestStore(ctx context.Context) (*TestStore, error) {
	kv, err := repository.NewSQLiteKeyValueStore(ctx, ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open test store: %w", err)
	}

	contacts, err := repository.NewContactRepository(TestContacts())
	if err != nil {
		_ = kv.Close()
		return nil, fmt.Errorf("failed to build test contacts: %w", err)
	}

	key := "messages"
	return &TestStore{
		KV:       kv,
		Messages: repository.NewMessageRepository(ctx, kv, key),
		Contacts: contacts,
		Key:      key,
	}, nil
}

// Reload builds a fresh message repository over the same medium, as a restart would
func (s *TestStore) Reload(ctx context.Context) repository.MessageRepository {
	return repository.NewMessageRepository(ctx, s.KV, s.Key)
}

func (s *TestStore) Close() error {
	return s.KV.Close()
}
