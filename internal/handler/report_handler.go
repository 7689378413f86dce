package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/yohanes2124/dms-portal/internal/service"
	"github.com/yohanes2124/dms-portal/internal/utils"
)

// ReportHandler serves occupancy reporting for supervisors and admins.
type ReportHandler struct {
	service service.ReportService
	logger  zerolog.Logger
}

// NewReportHandler constructs a handler instance.
func NewReportHandler(service service.ReportService, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger.With().Str("component", "report_handler").Logger(),
	}
}

// Register binds the reporting routes.
func (h *ReportHandler) Register(router fiber.Router) {
	router.Get("/occupancy", h.occupancy)
}

func (h *ReportHandler) occupancy(c *fiber.Ctx) error {
	report, err := h.service.Occupancy(requestContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("occupancy report failed")
		return sendServiceError(c, err)
	}
	return utils.SendSuccess(c, "occupancy report", report)
}
