package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/yohanes2124/dms-portal/internal/dto"
	"github.com/yohanes2124/dms-portal/internal/service"
	"github.com/yohanes2124/dms-portal/internal/utils"
)

// HousingHandler serves block and room management endpoints.
type HousingHandler struct {
	service service.HousingService
	logger  zerolog.Logger
}

// NewHousingHandler constructs a handler instance.
func NewHousingHandler(service service.HousingService, logger zerolog.Logger) *HousingHandler {
	return &HousingHandler{
		service: service,
		logger:  logger.With().Str("component", "housing_handler").Logger(),
	}
}

// RegisterRead binds the read-only routes available to any authenticated user.
func (h *HousingHandler) RegisterRead(router fiber.Router) {
	router.Get("/blocks", h.listBlocks)
	router.Get("/blocks/:id", h.getBlock)
	router.Get("/rooms", h.listRooms)
}

// RegisterManage binds the mutating routes restricted to admins.
func (h *HousingHandler) RegisterManage(router fiber.Router) {
	router.Post("/blocks", h.createBlock)
	router.Patch("/blocks/:id", h.updateBlock)
	router.Delete("/blocks/:id", h.deleteBlock)
	router.Post("/rooms", h.createRoom)
	router.Patch("/rooms/:id", h.updateRoom)
	router.Delete("/rooms/:id", h.deleteRoom)
}

func (h *HousingHandler) listBlocks(c *fiber.Ctx) error {
	blocks, err := h.service.ListBlocks(requestContext(c))
	if err != nil {
		return sendServiceError(c, err)
	}
	return utils.SendSuccess(c, "blocks", blocks)
}

func (h *HousingHandler) getBlock(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	block, err := h.service.GetBlock(requestContext(c), id)
	if err != nil {
		return sendServiceError(c, err)
	}
	return utils.SendSuccess(c, "block", block)
}

func (h *HousingHandler) listRooms(c *fiber.Ctx) error {
	blockID, err := parseQueryInt(c, "block_id")
	if err != nil || blockID < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid block_id")
	}

	rooms, err := h.service.ListRooms(requestContext(c), uint(blockID))
	if err != nil {
		return sendServiceError(c, err)
	}
	return utils.SendSuccess(c, "rooms", rooms)
}

func (h *HousingHandler) createBlock(c *fiber.Ctx) error {
	var payload dto.BlockCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	block, err := h.service.CreateBlock(requestContext(c), payload)
	if err != nil {
		return sendServiceError(c, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "block created", block)
}

func (h *HousingHandler) updateBlock(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.BlockUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	block, err := h.service.UpdateBlock(requestContext(c), id, payload)
	if err != nil {
		return sendServiceError(c, err)
	}
	return utils.SendSuccess(c, "block updated", block)
}

func (h *HousingHandler) deleteBlock(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.DeleteBlock(requestContext(c), id); err != nil {
		return sendServiceError(c, err)
	}
	return utils.SendSuccess(c, "block deleted", nil)
}

func (h *HousingHandler) createRoom(c *fiber.Ctx) error {
	var payload dto.RoomCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	room, err := h.service.CreateRoom(requestContext(c), payload)
	if err != nil {
		return sendServiceError(c, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "room created", room)
}

func (h *HousingHandler) updateRoom(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.RoomUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	room, err := h.service.UpdateRoom(requestContext(c), id, payload)
	if err != nil {
		return sendServiceError(c, err)
	}
	return utils.SendSuccess(c, "room updated", room)
}

func (h *HousingHandler) deleteRoom(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.DeleteRoom(requestContext(c), id); err != nil {
		return sendServiceError(c, err)
	}
	return utils.SendSuccess(c, "room deleted", nil)
}
