package businessflow

import (
	"errors"
	"fmt"

	"github.com/amirphl/otp-messenger/app/services"
)

// Business flow error constants
var (
	// Lookup errors
	ErrContactNotFound        = errors.New("contact not found")
	ErrComposeSessionNotFound = errors.New("compose session not found")

	// Compose validation errors
	ErrEmptyMessage = errors.New("message is empty")
	ErrMissingOTP   = errors.New("message does not include the OTP")

	// Compose state errors
	ErrSendInProgress   = errors.New("a send is already in progress")
	ErrComposeCompleted = errors.New("message was already sent")
	ErrComposeLocked    = errors.New("message cannot be edited now")
)

// Banner text shown when nothing more specific is known
const defaultSendFailureMessage = "Failed to send message. Please try again."

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsContactNotFound(err error) bool {
	return errors.Is(err, ErrContactNotFound)
}

func IsComposeSessionNotFound(err error) bool {
	return errors.Is(err, ErrComposeSessionNotFound)
}

func IsNotFound(err error) bool {
	return IsContactNotFound(err) || IsComposeSessionNotFound(err)
}

func IsEmptyMessage(err error) bool {
	return errors.Is(err, ErrEmptyMessage)
}

func IsMissingOTP(err error) bool {
	return errors.Is(err, ErrMissingOTP)
}

func IsSendInProgress(err error) bool {
	return errors.Is(err, ErrSendInProgress)
}

func IsComposeCompleted(err error) bool {
	return errors.Is(err, ErrComposeCompleted)
}

func IsComposeLocked(err error) bool {
	return errors.Is(err, ErrComposeLocked)
}

func IsSMSNotConfigured(err error) bool {
	return errors.Is(err, services.ErrSMSNotConfigured)
}

func IsUnverifiedRecipient(err error) bool {
	return errors.Is(err, services.ErrUnverifiedRecipient)
}

// IsValidationError reports input that was rejected before any gateway call
func IsValidationError(err error) bool {
	return IsEmptyMessage(err) || IsMissingOTP(err) || errors.Is(err, services.ErrInvalidSMSRequest)
}

// IsConfigurationError reports a setup problem on the sender's side
func IsConfigurationError(err error) bool {
	return IsSMSNotConfigured(err) || IsUnverifiedRecipient(err)
}

func IsGatewayError(err error) bool {
	var gwErr *services.GatewayError
	return errors.As(err, &gwErr)
}

// UserMessage returns the banner text for err
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var bizErr *BusinessError
	if errors.As(err, &bizErr) && bizErr.Message != "" {
		return bizErr.Message
	}

	var unverified *services.UnverifiedRecipientError
	if errors.As(err, &unverified) {
		return unverified.Error()
	}

	if IsSMSNotConfigured(err) {
		return err.Error()
	}

	if errors.Is(err, services.ErrInvalidSMSRequest) {
		return "Invalid phone number or message content."
	}

	var gwErr *services.GatewayError
	if errors.As(err, &gwErr) && gwErr.Message != "" {
		return gwErr.Message
	}

	return defaultSendFailureMessage
}
