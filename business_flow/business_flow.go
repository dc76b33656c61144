// Package businessflow contains the business logic for the application.
package businessflow

import (
	"unicode/utf8"

	"github.com/amirphl/otp-messenger/app/dto"
	"github.com/amirphl/otp-messenger/app/services"
	"github.com/amirphl/otp-messenger/models"
)

const RequestIDKey = "X-Request-ID"

// ToContactDTO converts a contact model to its API view
func ToContactDTO(contact models.Contact) dto.ContactDTO {
	return dto.ContactDTO{
		ID:          contact.ID,
		FirstName:   contact.FirstName,
		LastName:    contact.LastName,
		FullName:    contact.FullName(),
		Initials:    contact.Initials(),
		PhoneNumber: contact.PhoneNumber,
	}
}

func ToMessageDTO(message models.Message) dto.MessageDTO {
	return dto.MessageDTO{
		ID:          message.ID,
		ContactID:   message.ContactID,
		ContactName: message.ContactName,
		PhoneNumber: message.PhoneNumber,
		Message:     message.Message,
		OTP:         message.OTP,
		Timestamp:   message.Timestamp,
	}
}

func ToSMSResultDTO(result *services.SendResult) *dto.SMSResultDTO {
	if result == nil {
		return nil
	}
	return &dto.SMSResultDTO{
		SID:         result.SID,
		Status:      result.Status,
		To:          result.To,
		From:        result.From,
		DateCreated: result.DateCreated,
		DateSent:    result.DateSent,
		Direction:   result.Direction,
		Price:       result.Price,
		PriceUnit:   result.PriceUnit,
	}
}

// ToComposeSessionDTO builds the session read model from a workflow snapshot
func ToComposeSessionDTO(sessionID string, snap ComposeSnapshot) *dto.ComposeSessionResponse {
	resp := &dto.ComposeSessionResponse{
		SessionID:  sessionID,
		Contact:    ToContactDTO(snap.Contact),
		OTP:        snap.OTP,
		Message:    snap.Body,
		Characters: utf8.RuneCountInString(snap.Body),
		State:      string(snap.State),
		Error:      snap.Error,
		Countdown:  snap.Countdown,
		RedirectTo: snap.RedirectTo,
		SMSResult:  ToSMSResultDTO(snap.Result),
	}
	if snap.SentMessage != nil {
		m := ToMessageDTO(*snap.SentMessage)
		resp.SentMessage = &m
	}
	return resp
}
