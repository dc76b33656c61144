package dto

// MessageDTO is the API view of a sent message
type MessageDTO struct {
	ID          int64  `json:"id"`
	ContactID   int64  `json:"contact_id"`
	ContactName string `json:"contact_name"`
	PhoneNumber string `json:"phone_number"`
	Message     string `json:"message"`
	OTP         string `json:"otp"`
	Timestamp   string `json:"timestamp"`
}

// ListMessagesRequest filters the message history
type ListMessagesRequest struct {
	Search    string `json:"search" validate:"max=100"`
	ContactID *int64 `json:"contact_id,omitempty" validate:"omitempty,gt=0"`
}

// ListMessagesResponse is the newest-first history. Total counts every stored message,
// so an empty Messages slice with Total > 0 means nothing matched the search.
type ListMessagesResponse struct {
	Messages []MessageDTO `json:"messages"`
	Total    int64        `json:"total"`
	Matched  int          `json:"matched"`
}
