package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/yohanes2124/dms-portal/internal/dto"
	"github.com/yohanes2124/dms-portal/internal/models"
	"github.com/yohanes2124/dms-portal/internal/repository"
)

// HousingService manages dormitory blocks and rooms.
type HousingService interface {
	CreateBlock(ctx context.Context, payload dto.BlockCreateRequest) (dto.BlockResponse, error)
	GetBlock(ctx context.Context, id uint) (dto.BlockResponse, error)
	ListBlocks(ctx context.Context) ([]dto.BlockResponse, error)
	UpdateBlock(ctx context.Context, id uint, payload dto.BlockUpdateRequest) (dto.BlockResponse, error)
	DeleteBlock(ctx context.Context, id uint) error
	CreateRoom(ctx context.Context, payload dto.RoomCreateRequest) (dto.RoomResponse, error)
	ListRooms(ctx context.Context, blockID uint) ([]dto.RoomResponse, error)
	UpdateRoom(ctx context.Context, id uint, payload dto.RoomUpdateRequest) (dto.RoomResponse, error)
	DeleteRoom(ctx context.Context, id uint) error
}

type housingService struct {
	blocks    repository.BlockRepository
	rooms     repository.RoomRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewHousingService constructs the housing service.
func NewHousingService(blocks repository.BlockRepository, rooms repository.RoomRepository, validate *validator.Validate, logger zerolog.Logger) HousingService {
	return &housingService{
		blocks:    blocks,
		rooms:     rooms,
		validator: validate,
		logger:    logger.With().Str("component", "housing_service").Logger(),
	}
}

func (s *housingService) CreateBlock(ctx context.Context, payload dto.BlockCreateRequest) (dto.BlockResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.BlockResponse{}, err
	}

	block := models.Block{
		Name:         strings.TrimSpace(payload.Name),
		Gender:       strings.ToLower(payload.Gender),
		Description:  strings.TrimSpace(payload.Description),
		SupervisorID: payload.SupervisorID,
	}

	if err := s.blocks.Create(ctx, &block); err != nil {
		return dto.BlockResponse{}, fmt.Errorf("create block: %w", err)
	}

	s.logger.Info().Uint("block_id", block.ID).Str("name", block.Name).Msg("block created")

	return dto.NewBlockResponse(block), nil
}

func (s *housingService) GetBlock(ctx context.Context, id uint) (dto.BlockResponse, error) {
	block, err := s.blocks.FindByIDWithRooms(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.BlockResponse{}, fmt.Errorf("block %d: %w", id, ErrNotFound)
		}
		return dto.BlockResponse{}, fmt.Errorf("lookup block: %w", err)
	}
	return dto.NewBlockResponse(block), nil
}

func (s *housingService) ListBlocks(ctx context.Context) ([]dto.BlockResponse, error) {
	blocks, err := s.blocks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	return dto.NewBlockResponseSlice(blocks), nil
}

func (s *housingService) UpdateBlock(ctx context.Context, id uint, payload dto.BlockUpdateRequest) (dto.BlockResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.BlockResponse{}, err
	}

	block, err := s.blocks.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.BlockResponse{}, fmt.Errorf("block %d: %w", id, ErrNotFound)
		}
		return dto.BlockResponse{}, fmt.Errorf("lookup block: %w", err)
	}

	if payload.Name != nil {
		block.Name = strings.TrimSpace(*payload.Name)
	}
	if payload.Description != nil {
		block.Description = strings.TrimSpace(*payload.Description)
	}
	if payload.SupervisorID != nil {
		block.SupervisorID = payload.SupervisorID
	}

	if err := s.blocks.Update(ctx, &block); err != nil {
		return dto.BlockResponse{}, fmt.Errorf("update block: %w", err)
	}

	return dto.NewBlockResponse(block), nil
}

func (s *housingService) DeleteBlock(ctx context.Context, id uint) error {
	block, err := s.blocks.FindByIDWithRooms(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("block %d: %w", id, ErrNotFound)
		}
		return fmt.Errorf("lookup block: %w", err)
	}

	for _, room := range block.Rooms {
		if room.Occupied > 0 {
			return fmt.Errorf("block %d has occupied rooms: %w", id, ErrConflict)
		}
	}

	return s.blocks.Delete(ctx, id)
}

func (s *housingService) CreateRoom(ctx context.Context, payload dto.RoomCreateRequest) (dto.RoomResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.RoomResponse{}, err
	}

	if _, err := s.blocks.FindByID(ctx, payload.BlockID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RoomResponse{}, fmt.Errorf("block %d: %w", payload.BlockID, ErrNotFound)
		}
		return dto.RoomResponse{}, fmt.Errorf("lookup block: %w", err)
	}

	room := models.Room{
		BlockID:  payload.BlockID,
		Number:   strings.TrimSpace(payload.Number),
		Capacity: payload.Capacity,
		Status:   models.RoomAvailable,
	}

	if err := s.rooms.Create(ctx, &room); err != nil {
		return dto.RoomResponse{}, fmt.Errorf("create room: %w", err)
	}

	return dto.NewRoomResponse(room), nil
}

func (s *housingService) ListRooms(ctx context.Context, blockID uint) ([]dto.RoomResponse, error) {
	rooms, err := s.rooms.List(ctx, blockID)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return dto.NewRoomResponseSlice(rooms), nil
}

func (s *housingService) UpdateRoom(ctx context.Context, id uint, payload dto.RoomUpdateRequest) (dto.RoomResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.RoomResponse{}, err
	}

	room, err := s.rooms.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RoomResponse{}, fmt.Errorf("room %d: %w", id, ErrNotFound)
		}
		return dto.RoomResponse{}, fmt.Errorf("lookup room: %w", err)
	}

	if payload.Capacity != nil {
		if *payload.Capacity < room.Occupied {
			return dto.RoomResponse{}, fmt.Errorf("capacity below current occupancy: %w", ErrConflict)
		}
		room.Capacity = *payload.Capacity
	}
	if payload.Status != nil {
		room.Status = *payload.Status
	}
	if room.Status == models.RoomAvailable && room.Occupied >= room.Capacity {
		room.Status = models.RoomFull
	}

	if err := s.rooms.Update(ctx, &room); err != nil {
		return dto.RoomResponse{}, fmt.Errorf("update room: %w", err)
	}

	return dto.NewRoomResponse(room), nil
}

func (s *housingService) DeleteRoom(ctx context.Context, id uint) error {
	room, err := s.rooms.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("room %d: %w", id, ErrNotFound)
		}
		return fmt.Errorf("lookup room: %w", err)
	}

	if room.Occupied > 0 {
		return fmt.Errorf("room %d is occupied: %w", id, ErrConflict)
	}

	return s.rooms.Delete(ctx, id)
}
