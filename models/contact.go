// Package models contains domain entities for contacts and the sent-message log
package models

import "strings"

// Contact is a read-only address book entry loaded once at startup
type Contact struct {
	ID          int64  `json:"id" validate:"required,gt=0"`
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	PhoneNumber string `json:"phoneNumber" validate:"required,e164"`
}

// FullName returns "First Last"
func (c Contact) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Initials returns the first letter of the first and last names
func (c Contact) Initials() string {
	var b strings.Builder
	for _, part := range []string{c.FirstName, c.LastName} {
		for _, r := range part {
			b.WriteRune(r)
			break
		}
	}
	return strings.ToUpper(b.String())
}

// ContactFilter represents filter criteria for contact queries
type ContactFilter struct {
	ID     *int64
	Search *string // case-insensitive match on full name
}
