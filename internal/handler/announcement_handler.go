package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/yohanes2124/dms-portal/internal/dto"
	"github.com/yohanes2124/dms-portal/internal/service"
	"github.com/yohanes2124/dms-portal/internal/utils"
)

// AnnouncementHandler serves portal announcement endpoints.
type AnnouncementHandler struct {
	service service.AnnouncementService
	logger  zerolog.Logger
}

// NewAnnouncementHandler constructs a handler instance.
func NewAnnouncementHandler(service service.AnnouncementService, logger zerolog.Logger) *AnnouncementHandler {
	return &AnnouncementHandler{
		service: service,
		logger:  logger.With().Str("component", "announcement_handler").Logger(),
	}
}

// RegisterRead binds the listing route available to any authenticated user.
func (h *AnnouncementHandler) RegisterRead(router fiber.Router) {
	router.Get("/", h.list)
}

// RegisterManage binds the publishing routes restricted to admins.
func (h *AnnouncementHandler) RegisterManage(router fiber.Router) {
	router.Post("/", h.create)
	router.Delete("/:id", h.remove)
}

func (h *AnnouncementHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page_size")
	}

	response, err := h.service.ListActive(requestContext(c), page, pageSize)
	if err != nil {
		return sendServiceError(c, err)
	}
	return utils.SendSuccess(c, "announcements", response)
}

func (h *AnnouncementHandler) create(c *fiber.Ctx) error {
	var payload dto.AnnouncementCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	announcement, err := h.service.Create(requestContext(c), payload)
	if err != nil {
		return sendServiceError(c, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "announcement published", announcement)
}

func (h *AnnouncementHandler) remove(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(requestContext(c), id); err != nil {
		return sendServiceError(c, err)
	}
	return utils.SendSuccess(c, "announcement deleted", nil)
}
