package models

// Message is the persisted record of a successful send.
// Field names follow the stored log format and must not change.
type Message struct {
	ID          int64  `json:"id"`
	ContactID   int64  `json:"contactId"`
	ContactName string `json:"contactName"`
	PhoneNumber string `json:"phoneNumber"`
	Message     string `json:"message"`
	OTP         string `json:"otp"`
	Timestamp   string `json:"timestamp"`
}

// MessageFilter represents filter criteria for message history queries
type MessageFilter struct {
	ContactID *int64
	Search    *string // case-insensitive match on "contactName otp"
}
