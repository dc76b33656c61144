package handlers

import (
	"log"
	"strconv"

	"github.com/amirphl/otp-messenger/app/dto"
	businessflow "github.com/amirphl/otp-messenger/business_flow"
	"github.com/amirphl/otp-messenger/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// ComposeHandlerInterface defines the contract for compose handlers
type ComposeHandlerInterface interface {
	StartSession(c fiber.Ctx) error
	GetSession(c fiber.Ctx) error
	UpdateSession(c fiber.Ctx) error
	SendMessage(c fiber.Ctx) error
	CloseSession(c fiber.Ctx) error
}

// ComposeHandler drives compose sessions over HTTP
type ComposeHandler struct {
	baseHandler
	flow businessflow.ComposeFlow
}

func NewComposeHandler(flow businessflow.ComposeFlow) *ComposeHandler {
	return &ComposeHandler{
		baseHandler: newBaseHandler(),
		flow:        flow,
	}
}

// StartSession opens a compose session for a contact
// @Summary Start compose session
// @Description Generate a fresh OTP for the contact and open a compose session with the default message
// @Tags Compose
// @Produce json
// @Param contactId path int true "Contact ID"
// @Success 201 {object} dto.APIResponse{data=dto.ComposeSessionResponse} "Session opened"
// @Failure 400 {object} dto.APIResponse "Invalid contact id"
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail{details=dto.ContactNotFoundDetails}} "Contact not found"
// @Router /api/v1/compose/{contactId} [post]
func (h *ComposeHandler) StartSession(c fiber.Ctx) error {
	contactID, err := strconv.ParseInt(c.Params("contactId"), 10, 64)
	if err != nil || contactID <= 0 {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid contact id", "INVALID_CONTACT_ID", nil)
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/compose/{contactId}")
	defer cancel()

	session, err := h.flow.Start(ctx, contactID)
	if err != nil {
		if businessflow.IsContactNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Contact not found", "CONTACT_NOT_FOUND", dto.ContactNotFoundDetails{
				ContactID: contactID,
				BackTo:    utils.RouteContacts,
			})
		}
		log.Println("Start compose session failed", err)
		return h.businessErrorResponse(c, err, nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Compose session opened", session)
}

// GetSession returns the current session view
// @Summary Get compose session
// @Description Poll a compose session. After a successful send the countdown decreases each tick and redirect_to is set when it reaches zero.
// @Tags Compose
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} dto.APIResponse{data=dto.ComposeSessionResponse} "Session retrieved"
// @Failure 400 {object} dto.APIResponse "Invalid session id"
// @Failure 404 {object} dto.APIResponse "Session not found"
// @Router /api/v1/compose/sessions/{sessionId} [get]
func (h *ComposeHandler) GetSession(c fiber.Ctx) error {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid session id", "INVALID_SESSION_ID", nil)
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/compose/sessions/{sessionId}")
	defer cancel()

	session, err := h.flow.Get(ctx, sessionID)
	if err != nil {
		return h.businessErrorResponse(c, err, nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Compose session retrieved", session)
}

// UpdateSession replaces the message body
// @Summary Edit message
// @Description Replace the editable message body of a compose session
// @Tags Compose
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param request body dto.UpdateComposeRequest true "New message body"
// @Success 200 {object} dto.APIResponse{data=dto.ComposeSessionResponse} "Message updated"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Session not found"
// @Failure 409 {object} dto.APIResponse{error=dto.ErrorDetail{details=dto.ComposeSessionResponse}} "Message is locked"
// @Router /api/v1/compose/sessions/{sessionId} [put]
func (h *ComposeHandler) UpdateSession(c fiber.Ctx) error {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid session id", "INVALID_SESSION_ID", nil)
	}

	var req dto.UpdateComposeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if msgs := h.validate(&req); msgs != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", msgs)
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/compose/sessions/{sessionId}")
	defer cancel()

	session, err := h.flow.Update(ctx, sessionID, &req)
	if err != nil {
		return h.businessErrorResponse(c, err, sessionDetails(session))
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Message updated", session)
}

// SendMessage sends the current message body to the contact
// @Summary Send message
// @Description Validate the message, send it through the SMS gateway and record it in the history.
// @Description On failure the session view is returned in error.details with the banner text in its error field.
// @Tags Compose
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} dto.APIResponse{data=dto.ComposeSessionResponse} "Message sent"
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail{details=dto.ComposeSessionResponse}} "Empty message or missing OTP"
// @Failure 404 {object} dto.APIResponse "Session not found"
// @Failure 409 {object} dto.APIResponse{error=dto.ErrorDetail{details=dto.ComposeSessionResponse}} "Send in progress or already sent"
// @Failure 422 {object} dto.APIResponse{error=dto.ErrorDetail{details=dto.ComposeSessionResponse}} "Recipient is not verified"
// @Failure 502 {object} dto.APIResponse{error=dto.ErrorDetail{details=dto.ComposeSessionResponse}} "Gateway rejected the message"
// @Failure 503 {object} dto.APIResponse{error=dto.ErrorDetail{details=dto.ComposeSessionResponse}} "Gateway credentials missing"
// @Router /api/v1/compose/sessions/{sessionId}/send [post]
func (h *ComposeHandler) SendMessage(c fiber.Ctx) error {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid session id", "INVALID_SESSION_ID", nil)
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/compose/sessions/{sessionId}/send")
	defer cancel()

	session, err := h.flow.Send(ctx, sessionID)
	if err != nil {
		if businessflow.IsGatewayError(err) || businessflow.IsConfigurationError(err) {
			log.Printf("Send message failed | SessionID=%s | %v", sessionID, err)
		}
		return h.businessErrorResponse(c, err, sessionDetails(session))
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Message sent successfully", session)
}

// CloseSession tears a session down and cancels any pending redirect
// @Summary Close compose session
// @Description Leave the compose screen. Any pending redirect countdown is cancelled.
// @Tags Compose
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} dto.APIResponse "Session closed"
// @Failure 404 {object} dto.APIResponse "Session not found"
// @Router /api/v1/compose/sessions/{sessionId} [delete]
func (h *ComposeHandler) CloseSession(c fiber.Ctx) error {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid session id", "INVALID_SESSION_ID", nil)
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/compose/sessions/{sessionId}")
	defer cancel()

	if err := h.flow.Close(ctx, sessionID); err != nil {
		return h.businessErrorResponse(c, err, nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Compose session closed", nil)
}

func (h *ComposeHandler) sessionID(c fiber.Ctx) (string, bool) {
	id := c.Params("sessionId")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// sessionDetails keeps a missing session out of error.details
func sessionDetails(session *dto.ComposeSessionResponse) any {
	if session == nil {
		return nil
	}
	return session
}
