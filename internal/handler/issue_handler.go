package handler

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/yohanes2124/dms-portal/internal/dto"
	"github.com/yohanes2124/dms-portal/internal/service"
	"github.com/yohanes2124/dms-portal/internal/utils"
)

// IssueHandler serves maintenance issue endpoints.
type IssueHandler struct {
	service service.IssueService
	logger  zerolog.Logger
}

// NewIssueHandler constructs a handler instance.
func NewIssueHandler(service service.IssueService, logger zerolog.Logger) *IssueHandler {
	return &IssueHandler{
		service: service,
		logger:  logger.With().Str("component", "issue_handler").Logger(),
	}
}

// RegisterStudent binds the reporter-facing issue routes.
func (h *IssueHandler) RegisterStudent(router fiber.Router) {
	router.Post("/", h.report)
	router.Get("/mine", h.listMine)
}

// RegisterStaff binds triage routes for supervisors and admins.
func (h *IssueHandler) RegisterStaff(router fiber.Router) {
	router.Get("/", h.list)
	router.Patch("/:id/status", h.updateStatus)
}

func (h *IssueHandler) report(c *fiber.Ctx) error {
	reporterID := userIDFromContext(c)
	if reporterID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	var payload dto.IssueCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	var photo io.Reader
	photoName := ""
	if file, err := c.FormFile("photo"); err == nil && file != nil {
		opened, err := file.Open()
		if err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "unable to read photo")
		}
		defer opened.Close()
		photo = opened
		photoName = file.Filename
	}

	issue, err := h.service.Report(requestContext(c), reporterID, payload, photoName, photo)
	if err != nil {
		requestLogger(h.logger, c).Debug().Err(err).Msg("issue report rejected")
		return sendServiceError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "issue reported", issue)
}

func (h *IssueHandler) listMine(c *fiber.Ctx) error {
	reporterID := userIDFromContext(c)
	if reporterID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	issues, err := h.service.ListForReporter(requestContext(c), reporterID)
	if err != nil {
		return sendServiceError(c, err)
	}
	return utils.SendSuccess(c, "issues", issues)
}

func (h *IssueHandler) list(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}
	offset, err := parseQueryInt(c, "offset")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid offset")
	}

	issues, err := h.service.List(requestContext(c), c.Query("status"), limit, offset)
	if err != nil {
		return sendServiceError(c, err)
	}
	return utils.SendSuccess(c, "issues", issues)
}

func (h *IssueHandler) updateStatus(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.IssueStatusUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	issue, err := h.service.UpdateStatus(requestContext(c), id, payload)
	if err != nil {
		return sendServiceError(c, err)
	}
	return utils.SendSuccess(c, "issue updated", issue)
}
