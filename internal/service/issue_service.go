package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/yohanes2124/dms-portal/internal/dto"
	"github.com/yohanes2124/dms-portal/internal/models"
	"github.com/yohanes2124/dms-portal/internal/repository"
)

// FileUploader stores a file and returns its public URL.
type FileUploader interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// ErrUnsupportedPhoto is returned when an issue photo is not an image type
// the portal accepts.
var ErrUnsupportedPhoto = errors.New("photo must be a jpeg, png or webp image")

// IssueService handles maintenance issue reporting and triage.
type IssueService interface {
	Report(ctx context.Context, reporterID uint, payload dto.IssueCreateRequest, photoName string, photo io.Reader) (dto.IssueResponse, error)
	ListForReporter(ctx context.Context, reporterID uint) ([]dto.IssueResponse, error)
	List(ctx context.Context, status string, limit, offset int) ([]dto.IssueResponse, error)
	UpdateStatus(ctx context.Context, id uint, payload dto.IssueStatusUpdateRequest) (dto.IssueResponse, error)
}

type issueService struct {
	issues    repository.IssueRepository
	rooms     repository.RoomRepository
	uploader  FileUploader
	validator *validator.Validate
	logger    zerolog.Logger
	maxPhoto  int64
}

// NewIssueService constructs the issue service. The uploader is optional;
// without one, photo attachments are rejected.
func NewIssueService(issues repository.IssueRepository, rooms repository.RoomRepository, uploader FileUploader, maxPhotoBytes int64, validate *validator.Validate, logger zerolog.Logger) IssueService {
	return &issueService{
		issues:    issues,
		rooms:     rooms,
		uploader:  uploader,
		validator: validate,
		logger:    logger.With().Str("component", "issue_service").Logger(),
		maxPhoto:  maxPhotoBytes,
	}
}

func (s *issueService) Report(ctx context.Context, reporterID uint, payload dto.IssueCreateRequest, photoName string, photo io.Reader) (dto.IssueResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.IssueResponse{}, err
	}

	if _, err := s.rooms.FindByID(ctx, payload.RoomID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.IssueResponse{}, fmt.Errorf("room %d: %w", payload.RoomID, ErrNotFound)
		}
		return dto.IssueResponse{}, fmt.Errorf("lookup room: %w", err)
	}

	photoURL := ""
	if photo != nil {
		url, err := s.uploadPhoto(ctx, photoName, photo)
		if err != nil {
			return dto.IssueResponse{}, err
		}
		photoURL = url
	}

	priority := payload.Priority
	if priority == "" {
		priority = models.IssuePriorityNormal
	}

	issue := models.Issue{
		ReporterID:  reporterID,
		RoomID:      payload.RoomID,
		Category:    payload.Category,
		Description: strings.TrimSpace(payload.Description),
		PhotoURL:    photoURL,
		Priority:    priority,
		Status:      models.IssueOpen,
	}

	if err := s.issues.Create(ctx, &issue); err != nil {
		return dto.IssueResponse{}, fmt.Errorf("create issue: %w", err)
	}

	s.logger.Info().Uint("issue_id", issue.ID).Str("category", issue.Category).Msg("issue reported")

	return dto.NewIssueResponse(issue), nil
}

func (s *issueService) ListForReporter(ctx context.Context, reporterID uint) ([]dto.IssueResponse, error) {
	issues, err := s.issues.ListByReporter(ctx, reporterID)
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	return dto.NewIssueResponseSlice(issues), nil
}

func (s *issueService) List(ctx context.Context, status string, limit, offset int) ([]dto.IssueResponse, error) {
	issues, err := s.issues.List(ctx, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	return dto.NewIssueResponseSlice(issues), nil
}

func (s *issueService) UpdateStatus(ctx context.Context, id uint, payload dto.IssueStatusUpdateRequest) (dto.IssueResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.IssueResponse{}, err
	}

	issue, err := s.issues.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.IssueResponse{}, fmt.Errorf("issue %d: %w", id, ErrNotFound)
		}
		return dto.IssueResponse{}, fmt.Errorf("lookup issue: %w", err)
	}

	if issue.Status == models.IssueClosed {
		return dto.IssueResponse{}, fmt.Errorf("issue %d is closed: %w", id, ErrConflict)
	}

	issue.Status = payload.Status
	if err := s.issues.Update(ctx, &issue); err != nil {
		return dto.IssueResponse{}, fmt.Errorf("update issue: %w", err)
	}

	return dto.NewIssueResponse(issue), nil
}

func (s *issueService) uploadPhoto(ctx context.Context, name string, photo io.Reader) (string, error) {
	if s.uploader == nil {
		return "", fmt.Errorf("photo uploads are not configured: %w", ErrUnsupportedPhoto)
	}

	data, err := io.ReadAll(io.LimitReader(photo, s.maxPhoto+1))
	if err != nil {
		return "", fmt.Errorf("read photo: %w", err)
	}
	if int64(len(data)) > s.maxPhoto {
		return "", fmt.Errorf("photo exceeds %d bytes: %w", s.maxPhoto, ErrUnsupportedPhoto)
	}

	kind := mimetype.Detect(data)
	switch kind.String() {
	case "image/jpeg", "image/png", "image/webp":
	default:
		return "", fmt.Errorf("detected %s: %w", kind.String(), ErrUnsupportedPhoto)
	}

	url, err := s.uploader.Upload(ctx, name, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("upload photo: %w", err)
	}
	return url, nil
}
