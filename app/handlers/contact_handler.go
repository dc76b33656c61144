package handlers

import (
	"log"
	"strconv"

	"github.com/amirphl/otp-messenger/app/dto"
	businessflow "github.com/amirphl/otp-messenger/business_flow"
	"github.com/amirphl/otp-messenger/utils"
	"github.com/gofiber/fiber/v3"
)

// ContactHandlerInterface defines the contract for contact handlers
type ContactHandlerInterface interface {
	ListContacts(c fiber.Ctx) error
	GetContact(c fiber.Ctx) error
}

// ContactHandler serves the contact list and contact detail
type ContactHandler struct {
	baseHandler
	flow businessflow.ContactFlow
}

func NewContactHandler(flow businessflow.ContactFlow) *ContactHandler {
	return &ContactHandler{
		baseHandler: newBaseHandler(),
		flow:        flow,
	}
}

// ListContacts lists contacts, optionally filtered by name or id
// @Summary List contacts
// @Description List every contact; search matches the full name or the id, case-insensitively
// @Tags Contacts
// @Produce json
// @Param search query string false "Search term"
// @Success 200 {object} dto.APIResponse{data=dto.ListContactsResponse} "Contacts retrieved"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/contacts [get]
func (h *ContactHandler) ListContacts(c fiber.Ctx) error {
	req := dto.ListContactsRequest{Search: c.Query("search")}
	if msgs := h.validate(&req); msgs != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", msgs)
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/contacts")
	defer cancel()

	result, err := h.flow.ListContacts(ctx, &req)
	if err != nil {
		log.Println("List contacts failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list contacts", "LIST_CONTACTS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Contacts retrieved successfully", result)
}

// GetContact returns a single contact
// @Summary Get contact
// @Description Get a contact by id. An unknown id returns 404 with a link back to the contact list.
// @Tags Contacts
// @Produce json
// @Param id path int true "Contact ID"
// @Success 200 {object} dto.APIResponse{data=dto.ContactDTO} "Contact retrieved"
// @Failure 400 {object} dto.APIResponse "Invalid contact id"
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail{details=dto.ContactNotFoundDetails}} "Contact not found"
// @Router /api/v1/contacts/{id} [get]
func (h *ContactHandler) GetContact(c fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid contact id", "INVALID_CONTACT_ID", nil)
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/contacts/{id}")
	defer cancel()

	contact, err := h.flow.GetContact(ctx, id)
	if err != nil {
		if businessflow.IsContactNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Contact not found", "CONTACT_NOT_FOUND", dto.ContactNotFoundDetails{
				ContactID: id,
				BackTo:    utils.RouteContacts,
			})
		}
		log.Println("Get contact failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get contact", "GET_CONTACT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Contact retrieved successfully", contact)
}
