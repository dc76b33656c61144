package handlers

import (
	"log"
	"strconv"

	"github.com/amirphl/otp-messenger/app/dto"
	businessflow "github.com/amirphl/otp-messenger/business_flow"
	"github.com/gofiber/fiber/v3"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// MessageHandlerInterface defines the contract for message history handlers
type MessageHandlerInterface interface {
	ListMessages(c fiber.Ctx) error
	ExportMessages(c fiber.Ctx) error
}

// MessageHandler serves the sent message history
type MessageHandler struct {
	baseHandler
	flow businessflow.MessageFlow
}

func NewMessageHandler(flow businessflow.MessageFlow) *MessageHandler {
	return &MessageHandler{
		baseHandler: newBaseHandler(),
		flow:        flow,
	}
}

// ListMessages lists sent messages, newest first
// @Summary List messages
// @Description List the sent message history newest first; search matches the contact name or the OTP
// @Tags Messages
// @Produce json
// @Param search query string false "Search term"
// @Param contact_id query int false "Only messages sent to this contact"
// @Success 200 {object} dto.APIResponse{data=dto.ListMessagesResponse} "Messages retrieved"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/messages [get]
func (h *MessageHandler) ListMessages(c fiber.Ctx) error {
	req, errResp := h.parseListRequest(c)
	if errResp != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", errResp)
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/messages")
	defer cancel()

	result, err := h.flow.ListMessages(ctx, req)
	if err != nil {
		log.Println("List messages failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list messages", "LIST_MESSAGES_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Messages retrieved successfully", result)
}

// ExportMessages downloads the filtered history as a spreadsheet
// @Summary Export messages
// @Description Download the filtered message history as an XLSX workbook
// @Tags Messages
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param search query string false "Search term"
// @Param contact_id query int false "Only messages sent to this contact"
// @Success 200 {file} file "XLSX workbook"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/messages/export [get]
func (h *MessageHandler) ExportMessages(c fiber.Ctx) error {
	req, errResp := h.parseListRequest(c)
	if errResp != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", errResp)
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/messages/export")
	defer cancel()

	filename, data, err := h.flow.ExportMessages(ctx, req)
	if err != nil {
		log.Println("Export messages failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export messages", "EXPORT_MESSAGES_FAILED", nil)
	}

	c.Set("Content-Type", xlsxContentType)
	c.Set("Content-Disposition", "attachment; filename="+filename)
	return c.Status(fiber.StatusOK).Send(data)
}

func (h *MessageHandler) parseListRequest(c fiber.Ctx) (*dto.ListMessagesRequest, []string) {
	req := &dto.ListMessagesRequest{Search: c.Query("search")}

	if contactIDStr := c.Query("contact_id"); contactIDStr != "" {
		contactID, err := strconv.ParseInt(contactIDStr, 10, 64)
		if err != nil {
			return nil, []string{"ContactID must contain only numbers"}
		}
		req.ContactID = &contactID
	}

	if msgs := h.validate(req); msgs != nil {
		return nil, msgs
	}
	return req, nil
}
