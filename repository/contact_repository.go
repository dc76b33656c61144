package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/amirphl/otp-messenger/models"
	"github.com/amirphl/otp-messenger/repository/seed"
	"github.com/amirphl/otp-messenger/utils"
	"github.com/go-playground/validator/v10"
)

// ContactRepositoryImpl serves an immutable contact list
type ContactRepositoryImpl struct {
	contacts []models.Contact
	byID     map[int64]int
}

// NewContactRepository validates contacts and indexes them by id
func NewContactRepository(contacts []models.Contact) (ContactRepository, error) {
	v := validator.New()
	byID := make(map[int64]int, len(contacts))
	for i, c := range contacts {
		if err := v.Struct(c); err != nil {
			return nil, fmt.Errorf("invalid contact at index %d: %w", i, err)
		}
		if _, dup := byID[c.ID]; dup {
			return nil, fmt.Errorf("duplicate contact id %d", c.ID)
		}
		byID[c.ID] = i
	}

	list := make([]models.Contact, len(contacts))
	copy(list, contacts)
	return &ContactRepositoryImpl{contacts: list, byID: byID}, nil
}

// LoadContacts reads a JSON array of contacts from path, or the embedded seed when path is empty
func LoadContacts(path string) ([]models.Contact, error) {
	raw := seed.Contacts
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read contacts file: %w", err)
		}
		raw = data
	}

	var contacts []models.Contact
	if err := json.Unmarshal(raw, &contacts); err != nil {
		return nil, fmt.Errorf("failed to parse contacts: %w", err)
	}
	return contacts, nil
}

// NewContactRepositoryFromFile loads and validates the contact source once
func NewContactRepositoryFromFile(path string) (ContactRepository, error) {
	contacts, err := LoadContacts(path)
	if err != nil {
		return nil, err
	}
	return NewContactRepository(contacts)
}

func (r *ContactRepositoryImpl) All(_ context.Context) ([]models.Contact, error) {
	out := make([]models.Contact, len(r.contacts))
	copy(out, r.contacts)
	return out, nil
}

func (r *ContactRepositoryImpl) ByID(_ context.Context, id int64) (*models.Contact, error) {
	i, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	c := r.contacts[i]
	return &c, nil
}

func (r *ContactRepositoryImpl) ByFilter(_ context.Context, filter models.ContactFilter) ([]models.Contact, error) {
	out := make([]models.Contact, 0, len(r.contacts))
	for _, c := range r.contacts {
		if filter.ID != nil && c.ID != *filter.ID {
			continue
		}
		if filter.Search != nil && *filter.Search != "" && !utils.ContainsFold(c.FullName(), *filter.Search) {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ContactRepositoryImpl) Count(_ context.Context) (int64, error) {
	return int64(len(r.contacts)), nil
}
