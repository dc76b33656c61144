package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/amirphl/otp-messenger/models"
	"github.com/amirphl/otp-messenger/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingKV struct {
	*MemoryKeyValueStore
	setErr error
}

func (f *failingKV) Set(ctx context.Context, key string, value []byte) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.MemoryKeyValueStore.Set(ctx, key, value)
}

func newSQLiteStore(t *testing.T) *SQLiteKeyValueStore {
	t.Helper()
	store, err := NewSQLiteKeyValueStore(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleMessage(id int64, name, otp string) *models.Message {
	return &models.Message{
		ID:          id,
		ContactID:   1,
		ContactName: name,
		PhoneNumber: "+15551234567",
		Message:     fmt.Sprintf(utils.OTPMessageTemplate, otp),
		OTP:         otp,
		Timestamp:   utils.FormatISO(time.UnixMilli(id).UTC()),
	}
}

func TestKeyValueStores(t *testing.T) {
	stores := map[string]KeyValueStore{
		"sqlite": newSQLiteStore(t),
		"memory": NewMemoryKeyValueStore(),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			v, err := store.Get(ctx, "missing")
			require.NoError(t, err)
			assert.Nil(t, v)

			require.NoError(t, store.Set(ctx, "k", []byte("one")))
			require.NoError(t, store.Set(ctx, "k", []byte("two")))

			v, err = store.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, []byte("two"), v)
		})
	}
}

func TestMessageRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	repo := NewMessageRepository(ctx, store, utils.MessagesStorageKey)
	msgs, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	first := sampleMessage(1000, "Ava Li", "111111")
	second := sampleMessage(2000, "Ben Okafor", "222222")
	require.NoError(t, repo.Append(ctx, first))
	require.NoError(t, repo.Append(ctx, second))

	reloaded := NewMessageRepository(ctx, store, utils.MessagesStorageKey)
	msgs, err = reloaded.All(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, *second, msgs[0])
	assert.Equal(t, *first, msgs[1])
}

func TestMessageRepository_NewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewMessageRepository(ctx, NewMemoryKeyValueStore(), "")

	const n = 5
	for i := 1; i <= n; i++ {
		require.NoError(t, repo.Append(ctx, sampleMessage(int64(i), "Ava Li", fmt.Sprintf("%06d", i))))
	}

	msgs, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, n)
	for i, m := range msgs {
		assert.Equal(t, int64(n-i), m.ID)
	}
}

func TestLoadAll_DegradesToEmpty(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		payload []byte
	}{
		{name: "absent", payload: nil},
		{name: "corrupt", payload: []byte("{not json")},
		{name: "wrong shape", payload: []byte(`{"id": 1}`)},
		{name: "null", payload: []byte("null")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryKeyValueStore()
			if tt.payload != nil {
				require.NoError(t, store.Set(ctx, "messages", tt.payload))
			}
			msgs := LoadAll(ctx, store, "messages")
			assert.NotNil(t, msgs)
			assert.Empty(t, msgs)
		})
	}
}

func TestMessageRepository_PersistFailureKeepsMemory(t *testing.T) {
	ctx := context.Background()
	store := &failingKV{MemoryKeyValueStore: NewMemoryKeyValueStore(), setErr: errors.New("disk full")}
	repo := NewMessageRepository(ctx, store, "messages")

	err := repo.Append(ctx, sampleMessage(1, "Ava Li", "123456"))
	require.Error(t, err)

	msgs, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)

	// next successful write carries the earlier message too
	store.setErr = nil
	require.NoError(t, repo.Append(ctx, sampleMessage(2, "Ava Li", "654321")))
	assert.Len(t, LoadAll(ctx, store, "messages"), 2)
}

func TestMessageRepository_ByFilter(t *testing.T) {
	ctx := context.Background()
	repo := NewMessageRepository(ctx, NewMemoryKeyValueStore(), "messages")

	ava := sampleMessage(1, "Ava Li", "111111")
	ben := sampleMessage(2, "Ben Okafor", "222222")
	ben.ContactID = 2
	require.NoError(t, repo.Append(ctx, ava))
	require.NoError(t, repo.Append(ctx, ben))

	got, err := repo.ByFilter(ctx, models.MessageFilter{Search: utils.ToPtr("ava")})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)

	got, err = repo.ByFilter(ctx, models.MessageFilter{Search: utils.ToPtr("2222")})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Ben Okafor", got[0].ContactName)

	count, err := repo.Count(ctx, models.MessageFilter{ContactID: utils.ToPtr(int64(2))})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = repo.Count(ctx, models.MessageFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestMessageRepository_NextID(t *testing.T) {
	ctx := context.Background()
	repo := NewMessageRepository(ctx, NewMemoryKeyValueStore(), "messages")

	now := time.UnixMilli(5000)
	a := repo.NextID(now)
	b := repo.NextID(now)
	assert.Equal(t, int64(5000), a)
	assert.Equal(t, int64(5001), b)

	require.NoError(t, repo.Append(ctx, sampleMessage(9000, "Ava Li", "000000")))
	assert.Equal(t, int64(9001), repo.NextID(now))
}
