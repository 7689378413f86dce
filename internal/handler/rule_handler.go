package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/yohanes2124/dms-portal/internal/dto"
	"github.com/yohanes2124/dms-portal/internal/service"
	"github.com/yohanes2124/dms-portal/internal/utils"
)

// RuleHandler serves the dormitory rule book endpoints.
type RuleHandler struct {
	service service.RuleService
	logger  zerolog.Logger
}

// NewRuleHandler constructs a handler instance.
func NewRuleHandler(service service.RuleService, logger zerolog.Logger) *RuleHandler {
	return &RuleHandler{
		service: service,
		logger:  logger.With().Str("component", "rule_handler").Logger(),
	}
}

// RegisterRead binds the read routes available to any authenticated user.
func (h *RuleHandler) RegisterRead(router fiber.Router) {
	router.Get("/", h.list)
}

// RegisterManage binds the mutating routes restricted to admins.
func (h *RuleHandler) RegisterManage(router fiber.Router) {
	router.Post("/", h.create)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.remove)
}

func (h *RuleHandler) list(c *fiber.Ctx) error {
	rules, err := h.service.ListActive(requestContext(c), c.Query("category"))
	if err != nil {
		return sendServiceError(c, err)
	}
	return utils.SendSuccess(c, "rules", rules)
}

func (h *RuleHandler) create(c *fiber.Ctx) error {
	var payload dto.RuleCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	rule, err := h.service.Create(requestContext(c), payload)
	if err != nil {
		return sendServiceError(c, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "rule created", rule)
}

func (h *RuleHandler) update(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.RuleUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	rule, err := h.service.Update(requestContext(c), id, payload)
	if err != nil {
		return sendServiceError(c, err)
	}
	return utils.SendSuccess(c, "rule updated", rule)
}

func (h *RuleHandler) remove(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(requestContext(c), id); err != nil {
		return sendServiceError(c, err)
	}
	return utils.SendSuccess(c, "rule deleted", nil)
}
