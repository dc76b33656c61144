// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amirphl/otp-messenger/app/dto"
	businessflow "github.com/amirphl/otp-messenger/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

const defaultRequestTimeout = 30 * time.Second

// baseHandler carries the response envelope and validation shared by every handler
type baseHandler struct {
	validator *validator.Validate
}

func newBaseHandler() baseHandler {
	return baseHandler{validator: validator.New()}
}

func (h *baseHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *baseHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// validate returns the user-facing messages for every failed rule, or nil
func (h *baseHandler) validate(req any) []string {
	err := h.validator.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, getValidationErrorMessage(fe))
	}
	return messages
}

// createRequestContext creates a context with request-scoped values and a timeout.
// The caller must invoke the returned cancel func.
func (h *baseHandler) createRequestContext(c fiber.Ctx, endpoint string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultRequestTimeout)

	ctx = context.WithValue(ctx, businessflow.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, "user_agent", c.Get("User-Agent"))
	ctx = context.WithValue(ctx, "ip_address", c.IP())
	ctx = context.WithValue(ctx, "endpoint", endpoint)

	return ctx, cancel
}

// businessErrorResponse maps a flow error onto its HTTP status and error code.
// details travels in error.details so the client can still render the session.
func (h *baseHandler) businessErrorResponse(c fiber.Ctx, err error, details any) error {
	message := businessflow.UserMessage(err)

	switch {
	case businessflow.IsContactNotFound(err):
		return h.ErrorResponse(c, fiber.StatusNotFound, message, "CONTACT_NOT_FOUND", details)
	case businessflow.IsComposeSessionNotFound(err):
		return h.ErrorResponse(c, fiber.StatusNotFound, message, "COMPOSE_SESSION_NOT_FOUND", details)
	case businessflow.IsEmptyMessage(err):
		return h.ErrorResponse(c, fiber.StatusBadRequest, message, "EMPTY_MESSAGE", details)
	case businessflow.IsMissingOTP(err):
		return h.ErrorResponse(c, fiber.StatusBadRequest, message, "MISSING_OTP", details)
	case businessflow.IsValidationError(err):
		return h.ErrorResponse(c, fiber.StatusBadRequest, message, "VALIDATION_ERROR", details)
	case businessflow.IsSMSNotConfigured(err):
		return h.ErrorResponse(c, fiber.StatusServiceUnavailable, message, "SMS_NOT_CONFIGURED", details)
	case businessflow.IsUnverifiedRecipient(err):
		return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, message, "UNVERIFIED_RECIPIENT", details)
	case businessflow.IsGatewayError(err):
		return h.ErrorResponse(c, fiber.StatusBadGateway, message, "GATEWAY_ERROR", details)
	case businessflow.IsSendInProgress(err):
		return h.ErrorResponse(c, fiber.StatusConflict, message, "SEND_IN_PROGRESS", details)
	case businessflow.IsComposeCompleted(err):
		return h.ErrorResponse(c, fiber.StatusConflict, message, "COMPOSE_COMPLETED", details)
	case businessflow.IsComposeLocked(err):
		return h.ErrorResponse(c, fiber.StatusConflict, message, "COMPOSE_LOCKED", details)
	}

	var bizErr *businessflow.BusinessError
	if errors.As(err, &bizErr) {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, bizErr.Message, bizErr.Code, details)
	}
	return h.ErrorResponse(c, fiber.StatusInternalServerError, message, "INTERNAL_ERROR", details)
}

func getValidationErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "min":
		return err.Field() + " must be at least " + err.Param() + " characters"
	case "max":
		return err.Field() + " must be at most " + err.Param() + " characters"
	case "numeric":
		return err.Field() + " must contain only numbers"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", err.Field(), err.Param())
	case "uuid", "uuid4":
		return err.Field() + " must be a valid UUID"
	default:
		return err.Field() + " is invalid"
	}
}
