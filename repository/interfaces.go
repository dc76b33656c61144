// Package repository provides data access for the contact directory and the sent-message log
package repository

import (
	"context"
	"time"

	"github.com/amirphl/otp-messenger/models"
)

// KeyValueStore is the local persistence medium. Get returns (nil, nil) for an absent key.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// ContactRepository defines read operations over the static contact list
type ContactRepository interface {
	All(ctx context.Context) ([]models.Contact, error)
	ByID(ctx context.Context, id int64) (*models.Contact, error)
	ByFilter(ctx context.Context, filter models.ContactFilter) ([]models.Contact, error)
	Count(ctx context.Context) (int64, error)
}

// MessageRepository defines operations over the newest-first message log
type MessageRepository interface {
	All(ctx context.Context) ([]models.Message, error)
	Append(ctx context.Context, message *models.Message) error
	ByFilter(ctx context.Context, filter models.MessageFilter) ([]models.Message, error)
	Count(ctx context.Context, filter models.MessageFilter) (int64, error)
	NextID(now time.Time) int64
}
