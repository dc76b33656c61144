package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/amirphl/otp-messenger/models"
	"github.com/amirphl/otp-messenger/utils"
)

// MessageRepositoryImpl holds the newest-first message log in memory and mirrors
// every mutation to the key-value medium by rewriting the whole log.
type MessageRepositoryImpl struct {
	kv       KeyValueStore
	key      string
	mu       sync.RWMutex
	messages []models.Message
	lastID   int64
}

// LoadAll reads the persisted log. An absent or corrupt payload yields an empty log.
func LoadAll(ctx context.Context, kv KeyValueStore, key string) []models.Message {
	raw, err := kv.Get(ctx, key)
	if err != nil {
		log.Printf("Failed to read message log %q, starting empty: %v", key, err)
		return []models.Message{}
	}
	if len(raw) == 0 {
		return []models.Message{}
	}

	var messages []models.Message
	if err := json.Unmarshal(raw, &messages); err != nil {
		log.Printf("Message log %q is corrupt, starting empty: %v", key, err)
		return []models.Message{}
	}
	if messages == nil {
		return []models.Message{}
	}
	return messages
}

// NewMessageRepository reads the medium once and serves everything after that from memory
func NewMessageRepository(ctx context.Context, kv KeyValueStore, key string) MessageRepository {
	if key == "" {
		key = utils.MessagesStorageKey
	}
	messages := LoadAll(ctx, kv, key)

	var lastID int64
	for _, m := range messages {
		if m.ID > lastID {
			lastID = m.ID
		}
	}

	log.Printf("Loaded %d messages from local store", len(messages))
	return &MessageRepositoryImpl{
		kv:       kv,
		key:      key,
		messages: messages,
		lastID:   lastID,
	}
}

func (r *MessageRepositoryImpl) All(_ context.Context) ([]models.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Message, len(r.messages))
	copy(out, r.messages)
	return out, nil
}

// Append prepends message and persists the full log. When the write fails the
// in-memory log keeps the message; the next successful append rewrites the medium.
func (r *MessageRepositoryImpl) Append(ctx context.Context, message *models.Message) error {
	if message == nil {
		return fmt.Errorf("message is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]models.Message, 0, len(r.messages)+1)
	next = append(next, *message)
	next = append(next, r.messages...)
	r.messages = next
	if message.ID > r.lastID {
		r.lastID = message.ID
	}

	payload, err := json.Marshal(r.messages)
	if err != nil {
		return fmt.Errorf("failed to marshal message log: %w", err)
	}
	if err := r.kv.Set(ctx, r.key, payload); err != nil {
		return fmt.Errorf("failed to persist message log: %w", err)
	}
	return nil
}

func (r *MessageRepositoryImpl) ByFilter(_ context.Context, filter models.MessageFilter) ([]models.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Message, 0, len(r.messages))
	for _, m := range r.messages {
		if matchMessage(m, filter) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *MessageRepositoryImpl) Count(ctx context.Context, filter models.MessageFilter) (int64, error) {
	rows, err := r.ByFilter(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

// NextID returns now in Unix milliseconds, or one past the newest id on collision
func (r *MessageRepositoryImpl) NextID(now time.Time) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := now.UnixMilli()
	if id <= r.lastID {
		id = r.lastID + 1
	}
	r.lastID = id
	return id
}

func matchMessage(m models.Message, f models.MessageFilter) bool {
	if f.ContactID != nil && m.ContactID != *f.ContactID {
		return false
	}
	if f.Search != nil && *f.Search != "" {
		if !utils.ContainsFold(m.ContactName+" "+m.OTP, *f.Search) {
			return false
		}
	}
	return true
}
