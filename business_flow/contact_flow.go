package businessflow

import (
	"context"
	"strings"

	"github.com/amirphl/otp-messenger/app/dto"
	"github.com/amirphl/otp-messenger/models"
	"github.com/amirphl/otp-messenger/repository"
)

// ContactFlow handles the contact list and contact detail views
type ContactFlow interface {
	ListContacts(ctx context.Context, req *dto.ListContactsRequest) (*dto.ListContactsResponse, error)
	GetContact(ctx context.Context, id int64) (*dto.ContactDTO, error)
}

type ContactFlowImpl struct {
	contactRepo repository.ContactRepository
}

func NewContactFlow(contactRepo repository.ContactRepository) ContactFlow {
	return &ContactFlowImpl{contactRepo: contactRepo}
}

func (f *ContactFlowImpl) ListContacts(ctx context.Context, req *dto.ListContactsRequest) (*dto.ListContactsResponse, error) {
	filter := models.ContactFilter{}
	if search := strings.TrimSpace(req.Search); search != "" {
		filter.Search = &search
	}

	contacts, err := f.contactRepo.ByFilter(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("CONTACT_LIST_FAILED", "Failed to list contacts", err)
	}
	total, err := f.contactRepo.Count(ctx)
	if err != nil {
		return nil, NewBusinessError("CONTACT_LIST_FAILED", "Failed to count contacts", err)
	}

	items := make([]dto.ContactDTO, 0, len(contacts))
	for _, c := range contacts {
		items = append(items, ToContactDTO(c))
	}

	return &dto.ListContactsResponse{
		Contacts: items,
		Total:    total,
		Matched:  len(items),
	}, nil
}

func (f *ContactFlowImpl) GetContact(ctx context.Context, id int64) (*dto.ContactDTO, error) {
	contact, err := f.contactRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("CONTACT_LOOKUP_FAILED", "Failed to look up contact", err)
	}
	if contact == nil {
		return nil, NewBusinessErrorf("CONTACT_NOT_FOUND", "Contact %d not found", ErrContactNotFound, id)
	}

	result := ToContactDTO(*contact)
	return &result, nil
}
