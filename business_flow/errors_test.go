package businessflow

import (
	"errors"
	"fmt"
	"testing"

	"github.com/amirphl/otp-messenger/app/services"
	"github.com/stretchr/testify/assert"
)

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		validation    bool
		configuration bool
		gateway       bool
		banner        string
	}{
		{
			name:       "empty message",
			err:        NewBusinessError("EMPTY_MESSAGE", "Message cannot be empty", ErrEmptyMessage),
			validation: true,
			banner:     "Message cannot be empty",
		},
		{
			name:       "invalid sms request",
			err:        services.ErrInvalidSMSRequest,
			validation: true,
			banner:     "Invalid phone number or message content.",
		},
		{
			name:          "not configured",
			err:           fmt.Errorf("%w: set SMS_AUTH_TOKEN", services.ErrSMSNotConfigured),
			configuration: true,
			banner:        "SMS gateway credentials are missing: set SMS_AUTH_TOKEN",
		},
		{
			name:          "unverified recipient",
			err:           &services.UnverifiedRecipientError{PhoneNumber: "+15551234567"},
			configuration: true,
			banner:        (&services.UnverifiedRecipientError{PhoneNumber: "+15551234567"}).Error(),
		},
		{
			name:    "gateway",
			err:     &services.GatewayError{StatusCode: 400, Message: "bad To"},
			gateway: true,
			banner:  "bad To",
		},
		{
			name:   "unknown",
			err:    errors.New("boom"),
			banner: "Failed to send message. Please try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.validation, IsValidationError(tt.err))
			assert.Equal(t, tt.configuration, IsConfigurationError(tt.err))
			assert.Equal(t, tt.gateway, IsGatewayError(tt.err))
			assert.Equal(t, tt.banner, UserMessage(tt.err))
		})
	}

	assert.Empty(t, UserMessage(nil))
}
