package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/yohanes2124/dms-portal/internal/dto"
	"github.com/yohanes2124/dms-portal/internal/models"
	"github.com/yohanes2124/dms-portal/internal/observability"
	"github.com/yohanes2124/dms-portal/internal/repository"
)

// ApplicationService manages housing applications, room change requests and
// the auto-allocation run.
type ApplicationService interface {
	Apply(ctx context.Context, studentID uint, payload dto.ApplicationCreateRequest) (dto.ApplicationResponse, error)
	ListForStudent(ctx context.Context, studentID uint) ([]dto.ApplicationResponse, error)
	List(ctx context.Context, status string, limit, offset int) ([]dto.ApplicationResponse, error)
	Decide(ctx context.Context, id uint, payload dto.ApplicationDecisionRequest) (dto.ApplicationResponse, error)
	AutoAllocate(ctx context.Context) (dto.AllocationResult, error)
	RequestRoomChange(ctx context.Context, studentID uint, payload dto.RoomChangeCreateRequest) (dto.RoomChangeResponse, error)
	ListRoomChanges(ctx context.Context, status string, limit, offset int) ([]dto.RoomChangeResponse, error)
	ListRoomChangesForStudent(ctx context.Context, studentID uint) ([]dto.RoomChangeResponse, error)
	DecideRoomChange(ctx context.Context, id uint, payload dto.RoomChangeDecisionRequest) (dto.RoomChangeResponse, error)
}

type applicationService struct {
	applications  repository.ApplicationRepository
	roomChanges   repository.RoomChangeRepository
	rooms         repository.RoomRepository
	users         repository.UserRepository
	notifications NotificationService
	validator     *validator.Validate
	logger        zerolog.Logger
	tracer        trace.Tracer
}

// NewApplicationService constructs the application service.
func NewApplicationService(
	applications repository.ApplicationRepository,
	roomChanges repository.RoomChangeRepository,
	rooms repository.RoomRepository,
	users repository.UserRepository,
	notifications NotificationService,
	validate *validator.Validate,
	logger zerolog.Logger,
) ApplicationService {
	return &applicationService{
		applications:  applications,
		roomChanges:   roomChanges,
		rooms:         rooms,
		users:         users,
		notifications: notifications,
		validator:     validate,
		logger:        logger.With().Str("component", "application_service").Logger(),
		tracer:        otel.Tracer("github.com/yohanes2124/dms-portal/internal/service/application"),
	}
}

func (s *applicationService) Apply(ctx context.Context, studentID uint, payload dto.ApplicationCreateRequest) (dto.ApplicationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ApplicationResponse{}, err
	}

	year := strings.TrimSpace(payload.AcademicYear)

	open, err := s.applications.HasOpenApplication(ctx, studentID, year)
	if err != nil {
		return dto.ApplicationResponse{}, fmt.Errorf("check open application: %w", err)
	}
	if open {
		return dto.ApplicationResponse{}, fmt.Errorf("application for %s already open: %w", year, ErrConflict)
	}

	application := models.Application{
		StudentID:    studentID,
		AcademicYear: year,
		Preferences:  payload.Preferences,
		Status:       models.ApplicationPending,
	}

	if err := s.applications.Create(ctx, &application); err != nil {
		return dto.ApplicationResponse{}, fmt.Errorf("create application: %w", err)
	}

	s.logger.Info().Uint("application_id", application.ID).Uint("student_id", studentID).Msg("application submitted")

	return dto.NewApplicationResponse(application), nil
}

func (s *applicationService) ListForStudent(ctx context.Context, studentID uint) ([]dto.ApplicationResponse, error) {
	applications, err := s.applications.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return dto.NewApplicationResponseSlice(applications), nil
}

func (s *applicationService) List(ctx context.Context, status string, limit, offset int) ([]dto.ApplicationResponse, error) {
	applications, err := s.applications.List(ctx, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return dto.NewApplicationResponseSlice(applications), nil
}

func (s *applicationService) Decide(ctx context.Context, id uint, payload dto.ApplicationDecisionRequest) (dto.ApplicationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ApplicationResponse{}, err
	}

	application, err := s.applications.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ApplicationResponse{}, fmt.Errorf("application %d: %w", id, ErrNotFound)
		}
		return dto.ApplicationResponse{}, fmt.Errorf("lookup application: %w", err)
	}

	if application.Status != models.ApplicationPending {
		return dto.ApplicationResponse{}, fmt.Errorf("application %d already decided: %w", id, ErrConflict)
	}

	application.Status = payload.Status
	application.DecisionNote = strings.TrimSpace(payload.Note)

	if err := s.applications.Update(ctx, &application); err != nil {
		return dto.ApplicationResponse{}, fmt.Errorf("update application: %w", err)
	}

	s.notify(ctx, application.StudentID, "application",
		fmt.Sprintf("Your housing application for %s was %s.", application.AcademicYear, application.Status))

	return dto.NewApplicationResponse(application), nil
}

// AutoAllocate matches open applications to rooms in gender-compatible blocks
// with free capacity, oldest application first.
func (s *applicationService) AutoAllocate(ctx context.Context) (dto.AllocationResult, error) {
	start := time.Now()
	spanCtx, span := s.tracer.Start(ctx, "allocations.auto")
	defer span.End()
	defer func() {
		observability.AllocationDuration().Observe(time.Since(start).Seconds())
	}()

	pending, err := s.applications.ListPendingOldestFirst(spanCtx)
	if err != nil {
		span.RecordError(err)
		observability.AllocationRuns().WithLabelValues("error").Inc()
		return dto.AllocationResult{}, fmt.Errorf("list pending applications: %w", err)
	}

	// Room pools keyed by gender, loaded once per run and drained in memory
	// as assignments happen.
	pools := map[string][]models.Room{}
	for _, gender := range []string{"male", "female"} {
		rooms, err := s.rooms.ListAvailableByGender(spanCtx, gender)
		if err != nil {
			span.RecordError(err)
			observability.AllocationRuns().WithLabelValues("error").Inc()
			return dto.AllocationResult{}, fmt.Errorf("list rooms for %s: %w", gender, err)
		}
		pools[gender] = rooms
	}

	result := dto.AllocationResult{Assignments: []dto.AllocationAssigned{}}

	for _, application := range pending {
		student := application.Student
		if student == nil {
			loaded, err := s.users.FindByID(spanCtx, application.StudentID)
			if err != nil {
				result.Skipped = append(result.Skipped, dto.AllocationSkipped{
					ApplicationID: application.ID,
					Reason:        "student record missing",
				})
				continue
			}
			student = &loaded
		}

		if student.Gender == nil || *student.Gender == "" {
			result.Skipped = append(result.Skipped, dto.AllocationSkipped{
				ApplicationID: application.ID,
				Reason:        "student gender unknown",
			})
			continue
		}

		gender := strings.ToLower(*student.Gender)
		room, ok := takeRoom(pools, gender)
		if !ok {
			result.Skipped = append(result.Skipped, dto.AllocationSkipped{
				ApplicationID: application.ID,
				Reason:        "no room with free capacity",
			})
			continue
		}

		room.Occupied++
		if room.Occupied >= room.Capacity {
			room.Status = models.RoomFull
		}
		if err := s.rooms.Update(spanCtx, &room); err != nil {
			span.RecordError(err)
			observability.AllocationRuns().WithLabelValues("error").Inc()
			return result, fmt.Errorf("update room %d: %w", room.ID, err)
		}
		returnRoom(pools, gender, room)

		roomID := room.ID
		application.Status = models.ApplicationAllocated
		application.AssignedRoomID = &roomID
		if err := s.applications.Update(spanCtx, &application); err != nil {
			span.RecordError(err)
			observability.AllocationRuns().WithLabelValues("error").Inc()
			return result, fmt.Errorf("update application %d: %w", application.ID, err)
		}

		result.Assignments = append(result.Assignments, dto.AllocationAssigned{
			ApplicationID: application.ID,
			StudentID:     application.StudentID,
			RoomID:        room.ID,
		})

		s.notify(spanCtx, application.StudentID, "allocation",
			fmt.Sprintf("You have been allocated room %s.", room.Number))
	}

	result.Allocated = len(result.Assignments)
	result.Unallocated = len(result.Skipped)

	span.SetAttributes(
		attribute.Int("allocation.assigned", result.Allocated),
		attribute.Int("allocation.skipped", result.Unallocated),
	)
	observability.AllocationRuns().WithLabelValues("success").Inc()

	s.logger.Info().
		Int("allocated", result.Allocated).
		Int("unallocated", result.Unallocated).
		Msg("auto allocation completed")

	return result, nil
}

func (s *applicationService) RequestRoomChange(ctx context.Context, studentID uint, payload dto.RoomChangeCreateRequest) (dto.RoomChangeResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.RoomChangeResponse{}, err
	}

	applications, err := s.applications.ListByStudent(ctx, studentID)
	if err != nil {
		return dto.RoomChangeResponse{}, fmt.Errorf("list applications: %w", err)
	}

	var currentRoomID uint
	for _, application := range applications {
		if application.Status == models.ApplicationAllocated && application.AssignedRoomID != nil {
			currentRoomID = *application.AssignedRoomID
			break
		}
	}
	if currentRoomID == 0 {
		return dto.RoomChangeResponse{}, fmt.Errorf("student %d has no allocated room: %w", studentID, ErrConflict)
	}
	if currentRoomID == payload.RequestedRoomID {
		return dto.RoomChangeResponse{}, fmt.Errorf("requested room equals current room: %w", ErrConflict)
	}

	requested, err := s.rooms.FindByID(ctx, payload.RequestedRoomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RoomChangeResponse{}, fmt.Errorf("room %d: %w", payload.RequestedRoomID, ErrNotFound)
		}
		return dto.RoomChangeResponse{}, fmt.Errorf("lookup room: %w", err)
	}
	if !requested.HasSpace() {
		return dto.RoomChangeResponse{}, fmt.Errorf("room %d has no free capacity: %w", requested.ID, ErrConflict)
	}

	request := models.RoomChangeRequest{
		StudentID:       studentID,
		CurrentRoomID:   currentRoomID,
		RequestedRoomID: payload.RequestedRoomID,
		Reason:          strings.TrimSpace(payload.Reason),
		Status:          models.ApplicationPending,
	}

	if err := s.roomChanges.Create(ctx, &request); err != nil {
		return dto.RoomChangeResponse{}, fmt.Errorf("create room change request: %w", err)
	}

	return dto.NewRoomChangeResponse(request), nil
}

func (s *applicationService) ListRoomChanges(ctx context.Context, status string, limit, offset int) ([]dto.RoomChangeResponse, error) {
	requests, err := s.roomChanges.List(ctx, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list room changes: %w", err)
	}
	return dto.NewRoomChangeResponseSlice(requests), nil
}

func (s *applicationService) ListRoomChangesForStudent(ctx context.Context, studentID uint) ([]dto.RoomChangeResponse, error) {
	requests, err := s.roomChanges.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list room changes: %w", err)
	}
	return dto.NewRoomChangeResponseSlice(requests), nil
}

func (s *applicationService) DecideRoomChange(ctx context.Context, id uint, payload dto.RoomChangeDecisionRequest) (dto.RoomChangeResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.RoomChangeResponse{}, err
	}

	request, err := s.roomChanges.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RoomChangeResponse{}, fmt.Errorf("room change %d: %w", id, ErrNotFound)
		}
		return dto.RoomChangeResponse{}, fmt.Errorf("lookup room change: %w", err)
	}

	if request.Status != models.ApplicationPending {
		return dto.RoomChangeResponse{}, fmt.Errorf("room change %d already decided: %w", id, ErrConflict)
	}

	if payload.Status == "approved" {
		if err := s.moveStudent(ctx, &request); err != nil {
			return dto.RoomChangeResponse{}, err
		}
	}

	request.Status = payload.Status
	request.DecisionNote = strings.TrimSpace(payload.Note)

	if err := s.roomChanges.Update(ctx, &request); err != nil {
		return dto.RoomChangeResponse{}, fmt.Errorf("update room change: %w", err)
	}

	s.notify(ctx, request.StudentID, "room_change",
		fmt.Sprintf("Your room change request was %s.", request.Status))

	return dto.NewRoomChangeResponse(request), nil
}

func (s *applicationService) moveStudent(ctx context.Context, request *models.RoomChangeRequest) error {
	target, err := s.rooms.FindByID(ctx, request.RequestedRoomID)
	if err != nil {
		return fmt.Errorf("lookup requested room: %w", err)
	}
	if !target.HasSpace() {
		return fmt.Errorf("room %d has no free capacity: %w", target.ID, ErrConflict)
	}

	current, err := s.rooms.FindByID(ctx, request.CurrentRoomID)
	if err != nil {
		return fmt.Errorf("lookup current room: %w", err)
	}

	target.Occupied++
	if target.Occupied >= target.Capacity {
		target.Status = models.RoomFull
	}
	if err := s.rooms.Update(ctx, &target); err != nil {
		return fmt.Errorf("update requested room: %w", err)
	}

	if current.Occupied > 0 {
		current.Occupied--
	}
	if current.Status == models.RoomFull && current.Occupied < current.Capacity {
		current.Status = models.RoomAvailable
	}
	if err := s.rooms.Update(ctx, &current); err != nil {
		return fmt.Errorf("update current room: %w", err)
	}

	applications, err := s.applications.ListByStudent(ctx, request.StudentID)
	if err != nil {
		return fmt.Errorf("list applications: %w", err)
	}
	for _, application := range applications {
		if application.Status == models.ApplicationAllocated &&
			application.AssignedRoomID != nil &&
			*application.AssignedRoomID == request.CurrentRoomID {
			roomID := request.RequestedRoomID
			application.AssignedRoomID = &roomID
			if err := s.applications.Update(ctx, &application); err != nil {
				return fmt.Errorf("update application %d: %w", application.ID, err)
			}
			break
		}
	}

	return nil
}

func (s *applicationService) notify(ctx context.Context, userID uint, kind, message string) {
	if s.notifications == nil {
		return
	}
	if _, err := s.notifications.Publish(ctx, dto.NotificationCreateRequest{
		UserID:  userID,
		Type:    kind,
		Message: message,
	}); err != nil {
		s.logger.Warn().Err(err).Uint("user_id", userID).Msg("failed to publish notification")
	}
}

func takeRoom(pools map[string][]models.Room, gender string) (models.Room, bool) {
	rooms := pools[gender]
	for i, room := range rooms {
		if room.HasSpace() {
			// Remove from the pool; returnRoom puts it back if it still has space.
			pools[gender] = append(rooms[:i:i], rooms[i+1:]...)
			return room, true
		}
	}
	return models.Room{}, false
}

func returnRoom(pools map[string][]models.Room, gender string, room models.Room) {
	if room.HasSpace() {
		pools[gender] = append(pools[gender], room)
	}
}
