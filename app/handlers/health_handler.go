package handlers

import (
	"time"

	"github.com/amirphl/otp-messenger/app/dto"
	"github.com/amirphl/otp-messenger/config"
	"github.com/gofiber/fiber/v3"
)

// HealthHandler reports liveness
type HealthHandler struct {
	baseHandler
	cfg *config.Config
}

func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(),
		cfg:         cfg,
	}
}

// Health handles health check requests
// @Summary Health Check
// @Description Check the health status of the API
// @Tags Health
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.HealthResponse} "Service is healthy"
// @Router /api/v1/health [get]
func (h *HealthHandler) Health(c fiber.Ctx) error {
	return h.SuccessResponse(c, fiber.StatusOK, "Service is healthy", dto.HealthResponse{
		Status:      "healthy",
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Version:     h.cfg.Deployment.Version,
		Environment: h.cfg.Deployment.Environment,
		SMSMode:     h.cfg.SMS.Mode,
		Storage:     h.cfg.Storage.Provider,
	})
}
