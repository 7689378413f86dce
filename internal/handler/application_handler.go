package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/yohanes2124/dms-portal/internal/dto"
	"github.com/yohanes2124/dms-portal/internal/service"
	"github.com/yohanes2124/dms-portal/internal/utils"
)

// ApplicationHandler serves housing application and room change endpoints.
type ApplicationHandler struct {
	service service.ApplicationService
	logger  zerolog.Logger
}

// NewApplicationHandler constructs a handler instance.
func NewApplicationHandler(service service.ApplicationService, logger zerolog.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		service: service,
		logger:  logger.With().Str("component", "application_handler").Logger(),
	}
}

// RegisterStudent binds the student-facing application routes.
func (h *ApplicationHandler) RegisterStudent(router fiber.Router) {
	router.Post("/", h.apply)
	router.Get("/mine", h.listMine)
	router.Post("/room-changes", h.requestRoomChange)
	router.Get("/room-changes/mine", h.listMyRoomChanges)
}

// RegisterStaff binds the review routes for supervisors and admins.
func (h *ApplicationHandler) RegisterStaff(router fiber.Router) {
	router.Get("/", h.list)
	router.Patch("/:id/decision", h.decide)
	router.Get("/room-changes", h.listRoomChanges)
	router.Patch("/room-changes/:id/decision", h.decideRoomChange)
}

// RegisterAdmin binds the allocation route restricted to admins.
func (h *ApplicationHandler) RegisterAdmin(router fiber.Router) {
	router.Post("/allocate", h.autoAllocate)
}

func (h *ApplicationHandler) apply(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	var payload dto.ApplicationCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	application, err := h.service.Apply(requestContext(c), studentID, payload)
	if err != nil {
		return sendServiceError(c, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "application submitted", application)
}

func (h *ApplicationHandler) listMine(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	applications, err := h.service.ListForStudent(requestContext(c), studentID)
	if err != nil {
		return sendServiceError(c, err)
	}
	return utils.SendSuccess(c, "applications", applications)
}

func (h *ApplicationHandler) list(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}
	offset, err := parseQueryInt(c, "offset")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid offset")
	}

	applications, err := h.service.List(requestContext(c), c.Query("status"), limit, offset)
	if err != nil {
		return sendServiceError(c, err)
	}
	return utils.SendSuccess(c, "applications", applications)
}

func (h *ApplicationHandler) decide(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ApplicationDecisionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	application, err := h.service.Decide(requestContext(c), id, payload)
	if err != nil {
		return sendServiceError(c, err)
	}
	return utils.SendSuccess(c, "application updated", application)
}

func (h *ApplicationHandler) autoAllocate(c *fiber.Ctx) error {
	result, err := h.service.AutoAllocate(requestContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("auto allocation failed")
		return sendServiceError(c, err)
	}
	return utils.SendSuccess(c, "allocation completed", result)
}

func (h *ApplicationHandler) requestRoomChange(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	var payload dto.RoomChangeCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	request, err := h.service.RequestRoomChange(requestContext(c), studentID, payload)
	if err != nil {
		return sendServiceError(c, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "room change requested", request)
}

func (h *ApplicationHandler) listMyRoomChanges(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	requests, err := h.service.ListRoomChangesForStudent(requestContext(c), studentID)
	if err != nil {
		return sendServiceError(c, err)
	}
	return utils.SendSuccess(c, "room change requests", requests)
}

func (h *ApplicationHandler) listRoomChanges(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}
	offset, err := parseQueryInt(c, "offset")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid offset")
	}

	requests, err := h.service.ListRoomChanges(requestContext(c), c.Query("status"), limit, offset)
	if err != nil {
		return sendServiceError(c, err)
	}
	return utils.SendSuccess(c, "room change requests", requests)
}

func (h *ApplicationHandler) decideRoomChange(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.RoomChangeDecisionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	request, err := h.service.DecideRoomChange(requestContext(c), id, payload)
	if err != nil {
		return sendServiceError(c, err)
	}
	return utils.SendSuccess(c, "room change updated", request)
}
