package dto

// ContactDTO is the API view of a contact
type ContactDTO struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	FullName    string `json:"full_name"`
	Initials    string `json:"initials"`
	PhoneNumber string `json:"phone_number"`
}

// ListContactsRequest filters the contact list
type ListContactsRequest struct {
	Search string `json:"search" validate:"max=100"`
}

// ListContactsResponse is the contact list plus the unfiltered total
type ListContactsResponse struct {
	Contacts []ContactDTO `json:"contacts"`
	Total    int64        `json:"total"`
	Matched  int          `json:"matched"`
}

// ContactNotFoundDetails is returned with a 404 so the client can offer a way back
type ContactNotFoundDetails struct {
	ContactID int64  `json:"contact_id"`
	BackTo    string `json:"back_to"`
}
