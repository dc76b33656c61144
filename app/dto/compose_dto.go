package dto

// UpdateComposeRequest replaces the editable message body
type UpdateComposeRequest struct {
	Message string `json:"message" validate:"max=1600"`
}

// SMSResultDTO is the gateway's acknowledgement of a send
type SMSResultDTO struct {
	SID         string  `json:"sid"`
	Status      string  `json:"status"`
	To          string  `json:"to"`
	From        string  `json:"from"`
	DateCreated string  `json:"date_created"`
	DateSent    *string `json:"date_sent"`
	Direction   string  `json:"direction"`
	Price       *string `json:"price"`
	PriceUnit   string  `json:"price_unit"`
}

// ComposeSessionResponse is the read model of a compose session
type ComposeSessionResponse struct {
	SessionID   string        `json:"session_id"`
	Contact     ContactDTO    `json:"contact"`
	OTP         string        `json:"otp"`
	Message     string        `json:"message"`
	Characters  int           `json:"characters"`
	State       string        `json:"state"`
	Error       string        `json:"error,omitempty"`
	Countdown   int           `json:"countdown"`
	RedirectTo  string        `json:"redirect_to,omitempty"`
	SentMessage *MessageDTO   `json:"sent_message,omitempty"`
	SMSResult   *SMSResultDTO `json:"sms_result,omitempty"`
}
