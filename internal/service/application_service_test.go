package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yohanes2124/dms-portal/internal/dto"
	"github.com/yohanes2124/dms-portal/internal/models"
)

type applicationRepoStub struct {
	applications []models.Application
	nextID       uint
}

func (s *applicationRepoStub) Create(ctx context.Context, application *models.Application) error {
	s.nextID++
	application.ID = s.nextID
	application.CreatedAt = time.Now()
	s.applications = append(s.applications, *application)
	return nil
}

func (s *applicationRepoStub) FindByID(ctx context.Context, id uint) (models.Application, error) {
	for _, application := range s.applications {
		if application.ID == id {
			return application, nil
		}
	}
	return models.Application{}, gorm.ErrRecordNotFound
}

func (s *applicationRepoStub) ListByStudent(ctx context.Context, studentID uint) ([]models.Application, error) {
	var out []models.Application
	for _, application := range s.applications {
		if application.StudentID == studentID {
			out = append(out, application)
		}
	}
	return out, nil
}

func (s *applicationRepoStub) List(ctx context.Context, status string, limit, offset int) ([]models.Application, error) {
	var out []models.Application
	for _, application := range s.applications {
		if status == "" || application.Status == status {
			out = append(out, application)
		}
	}
	return out, nil
}

func (s *applicationRepoStub) ListPendingOldestFirst(ctx context.Context) ([]models.Application, error) {
	var out []models.Application
	for _, application := range s.applications {
		if application.Status == models.ApplicationPending || application.Status == models.ApplicationApproved {
			out = append(out, application)
		}
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].CreatedAt.Before(out[i].CreatedAt) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (s *applicationRepoStub) HasOpenApplication(ctx context.Context, studentID uint, academicYear string) (bool, error) {
	for _, application := range s.applications {
		if application.StudentID != studentID || application.AcademicYear != academicYear {
			continue
		}
		switch application.Status {
		case models.ApplicationPending, models.ApplicationApproved, models.ApplicationAllocated:
			return true, nil
		}
	}
	return false, nil
}

func (s *applicationRepoStub) Update(ctx context.Context, application *models.Application) error {
	for i := range s.applications {
		if s.applications[i].ID == application.ID {
			s.applications[i] = *application
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *applicationRepoStub) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	for _, application := range s.applications {
		if application.Status == status {
			count++
		}
	}
	return count, nil
}

type roomChangeRepoStub struct {
	requests []models.RoomChangeRequest
}

func (s *roomChangeRepoStub) Create(ctx context.Context, request *models.RoomChangeRequest) error {
	request.ID = uint(len(s.requests) + 1)
	request.CreatedAt = time.Now()
	s.requests = append(s.requests, *request)
	return nil
}

func (s *roomChangeRepoStub) FindByID(ctx context.Context, id uint) (models.RoomChangeRequest, error) {
	for _, request := range s.requests {
		if request.ID == id {
			return request, nil
		}
	}
	return models.RoomChangeRequest{}, gorm.ErrRecordNotFound
}

func (s *roomChangeRepoStub) ListByStudent(ctx context.Context, studentID uint) ([]models.RoomChangeRequest, error) {
	var out []models.RoomChangeRequest
	for _, request := range s.requests {
		if request.StudentID == studentID {
			out = append(out, request)
		}
	}
	return out, nil
}

func (s *roomChangeRepoStub) List(ctx context.Context, status string, limit, offset int) ([]models.RoomChangeRequest, error) {
	return append([]models.RoomChangeRequest(nil), s.requests...), nil
}

func (s *roomChangeRepoStub) Update(ctx context.Context, request *models.RoomChangeRequest) error {
	for i := range s.requests {
		if s.requests[i].ID == request.ID {
			s.requests[i] = *request
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type roomRepoStub struct {
	rooms  map[uint]models.Room
	gender map[uint]string
}

func newRoomRepoStub() *roomRepoStub {
	return &roomRepoStub{rooms: map[uint]models.Room{}, gender: map[uint]string{}}
}

func (s *roomRepoStub) add(room models.Room, gender string) {
	s.rooms[room.ID] = room
	s.gender[room.ID] = gender
}

func (s *roomRepoStub) Create(ctx context.Context, room *models.Room) error {
	s.rooms[room.ID] = *room
	return nil
}

func (s *roomRepoStub) FindByID(ctx context.Context, id uint) (models.Room, error) {
	room, ok := s.rooms[id]
	if !ok {
		return models.Room{}, gorm.ErrRecordNotFound
	}
	return room, nil
}

func (s *roomRepoStub) List(ctx context.Context, blockID uint) ([]models.Room, error) {
	var out []models.Room
	for _, room := range s.rooms {
		out = append(out, room)
	}
	return out, nil
}

func (s *roomRepoStub) ListAvailableByGender(ctx context.Context, gender string) ([]models.Room, error) {
	var out []models.Room
	for id, room := range s.rooms {
		if s.gender[id] == gender && room.HasSpace() {
			out = append(out, room)
		}
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].ID < out[i].ID {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (s *roomRepoStub) Update(ctx context.Context, room *models.Room) error {
	s.rooms[room.ID] = *room
	return nil
}

func (s *roomRepoStub) Delete(ctx context.Context, id uint) error {
	delete(s.rooms, id)
	return nil
}

type userRepoStub struct {
	users map[uint]models.User
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	user.ID = uint(len(s.users) + 1)
	s.users[user.ID] = *user
	return nil
}

func (s *userRepoStub) FindByID(ctx context.Context, id uint) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *userRepoStub) FindByEmail(ctx context.Context, email string) (models.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (s *userRepoStub) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := s.FindByEmail(ctx, email)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	s.users[user.ID] = *user
	return nil
}

func (s *userRepoStub) ListByStatus(ctx context.Context, status string, limit, offset int) ([]models.User, error) {
	var out []models.User
	for _, user := range s.users {
		if status == "" || user.Status == status {
			out = append(out, user)
		}
	}
	return out, nil
}

type notificationStub struct {
	published []dto.NotificationCreateRequest
}

func (s *notificationStub) Publish(ctx context.Context, payload dto.NotificationCreateRequest) (dto.NotificationResponse, error) {
	s.published = append(s.published, payload)
	return dto.NotificationResponse{UserID: payload.UserID, Type: payload.Type, Message: payload.Message}, nil
}

func (s *notificationStub) List(ctx context.Context, userID uint, limit, offset int) ([]dto.NotificationResponse, error) {
	return nil, nil
}

func (s *notificationStub) MarkRead(ctx context.Context, id, userID uint) (dto.NotificationResponse, error) {
	return dto.NotificationResponse{}, nil
}

func (s *notificationStub) Subscribe(userID uint) (<-chan dto.NotificationResponse, func()) {
	ch := make(chan dto.NotificationResponse)
	return ch, func() { close(ch) }
}

func (s *notificationStub) Start(ctx context.Context) {}

func strPtr(v string) *string { return &v }

type applicationFixture struct {
	applications  *applicationRepoStub
	roomChanges   *roomChangeRepoStub
	rooms         *roomRepoStub
	users         *userRepoStub
	notifications *notificationStub
	svc           ApplicationService
}

func newApplicationFixture() *applicationFixture {
	f := &applicationFixture{
		applications:  &applicationRepoStub{},
		roomChanges:   &roomChangeRepoStub{},
		rooms:         newRoomRepoStub(),
		users:         &userRepoStub{users: map[uint]models.User{}},
		notifications: &notificationStub{},
	}
	f.svc = NewApplicationService(f.applications, f.roomChanges, f.rooms, f.users, f.notifications, validator.New(validator.WithRequiredStructEnabled()), testLogger())
	return f
}

func TestApplicationApplyRejectsSecondOpenApplication(t *testing.T) {
	f := newApplicationFixture()
	f.users.users[1] = models.User{ID: 1, Status: models.StatusActive}

	_, err := f.svc.Apply(context.Background(), 1, dto.ApplicationCreateRequest{AcademicYear: "2026/27"})
	require.NoError(t, err)

	_, err = f.svc.Apply(context.Background(), 1, dto.ApplicationCreateRequest{AcademicYear: "2026/27"})
	require.ErrorIs(t, err, ErrConflict)

	// A different academic year opens a fresh application.
	_, err = f.svc.Apply(context.Background(), 1, dto.ApplicationCreateRequest{AcademicYear: "2027/28"})
	require.NoError(t, err)
}

func TestApplicationDecideOnlyOnce(t *testing.T) {
	f := newApplicationFixture()
	f.applications.applications = []models.Application{
		{ID: 1, StudentID: 4, AcademicYear: "2026/27", Status: models.ApplicationPending},
	}
	f.applications.nextID = 1

	decided, err := f.svc.Decide(context.Background(), 1, dto.ApplicationDecisionRequest{Status: "approved", Note: "ok"})
	require.NoError(t, err)
	require.Equal(t, "approved", decided.Status)
	require.Equal(t, "ok", decided.DecisionNote)

	require.Len(t, f.notifications.published, 1)
	require.Equal(t, uint(4), f.notifications.published[0].UserID)

	_, err = f.svc.Decide(context.Background(), 1, dto.ApplicationDecisionRequest{Status: "rejected"})
	require.ErrorIs(t, err, ErrConflict)

	_, err = f.svc.Decide(context.Background(), 99, dto.ApplicationDecisionRequest{Status: "approved"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAutoAllocateMatchesOldestFirstByGender(t *testing.T) {
	f := newApplicationFixture()

	f.rooms.add(models.Room{ID: 10, BlockID: 1, Number: "A-101", Capacity: 1, Status: models.RoomAvailable}, "female")
	f.rooms.add(models.Room{ID: 20, BlockID: 2, Number: "B-201", Capacity: 2, Status: models.RoomAvailable}, "male")

	base := time.Now().Add(-time.Hour)
	f.applications.applications = []models.Application{
		{ID: 2, StudentID: 2, Status: models.ApplicationPending, CreatedAt: base.Add(time.Minute),
			Student: &models.User{ID: 2, Gender: strPtr("female")}},
		{ID: 1, StudentID: 1, Status: models.ApplicationPending, CreatedAt: base,
			Student: &models.User{ID: 1, Gender: strPtr("female")}},
		{ID: 3, StudentID: 3, Status: models.ApplicationPending, CreatedAt: base.Add(2 * time.Minute),
			Student: &models.User{ID: 3, Gender: strPtr("male")}},
	}

	result, err := f.svc.AutoAllocate(context.Background())
	require.NoError(t, err)

	require.Equal(t, 2, result.Allocated)
	require.Equal(t, 1, result.Unallocated)

	// The single female bed goes to the older application.
	require.Equal(t, uint(1), result.Assignments[0].ApplicationID)
	require.Equal(t, uint(10), result.Assignments[0].RoomID)
	require.Equal(t, uint(3), result.Assignments[1].ApplicationID)
	require.Equal(t, uint(20), result.Assignments[1].RoomID)

	require.Len(t, result.Skipped, 1)
	require.Equal(t, uint(2), result.Skipped[0].ApplicationID)
	require.Equal(t, "no room with free capacity", result.Skipped[0].Reason)

	// The filled room flips to full; the half-filled one stays available.
	female, _ := f.rooms.FindByID(context.Background(), 10)
	require.Equal(t, models.RoomFull, female.Status)
	require.Equal(t, 1, female.Occupied)

	male, _ := f.rooms.FindByID(context.Background(), 20)
	require.Equal(t, models.RoomAvailable, male.Status)
	require.Equal(t, 1, male.Occupied)

	allocated, _ := f.applications.FindByID(context.Background(), 1)
	require.Equal(t, models.ApplicationAllocated, allocated.Status)
	require.NotNil(t, allocated.AssignedRoomID)
	require.Equal(t, uint(10), *allocated.AssignedRoomID)

	require.Len(t, f.notifications.published, 2)
	require.Equal(t, "allocation", f.notifications.published[0].Type)
}

func TestAutoAllocateSkipsUnknownGender(t *testing.T) {
	f := newApplicationFixture()
	f.rooms.add(models.Room{ID: 10, BlockID: 1, Number: "A-101", Capacity: 4, Status: models.RoomAvailable}, "female")

	f.users.users[5] = models.User{ID: 5, Status: models.StatusActive}
	f.applications.applications = []models.Application{
		{ID: 1, StudentID: 5, Status: models.ApplicationPending, CreatedAt: time.Now()},
		{ID: 2, StudentID: 6, Status: models.ApplicationPending, CreatedAt: time.Now()},
	}

	result, err := f.svc.AutoAllocate(context.Background())
	require.NoError(t, err)

	require.Zero(t, result.Allocated)
	require.Len(t, result.Skipped, 2)
	require.Equal(t, "student gender unknown", result.Skipped[0].Reason)
	require.Equal(t, "student record missing", result.Skipped[1].Reason)
	require.Empty(t, f.notifications.published)
}

func TestRequestRoomChangeNeedsAllocatedRoom(t *testing.T) {
	f := newApplicationFixture()
	f.rooms.add(models.Room{ID: 20, BlockID: 1, Number: "A-102", Capacity: 2, Status: models.RoomAvailable}, "female")

	payload := dto.RoomChangeCreateRequest{RequestedRoomID: 20, Reason: "closer to the library"}

	_, err := f.svc.RequestRoomChange(context.Background(), 1, payload)
	require.ErrorIs(t, err, ErrConflict)

	roomID := uint(10)
	f.rooms.add(models.Room{ID: 10, BlockID: 1, Number: "A-101", Capacity: 1, Occupied: 1, Status: models.RoomFull}, "female")
	f.applications.applications = []models.Application{
		{ID: 1, StudentID: 1, Status: models.ApplicationAllocated, AssignedRoomID: &roomID},
	}

	request, err := f.svc.RequestRoomChange(context.Background(), 1, payload)
	require.NoError(t, err)
	require.Equal(t, uint(10), request.CurrentRoomID)
	require.Equal(t, uint(20), request.RequestedRoomID)
	require.Equal(t, models.ApplicationPending, request.Status)

	// Requesting the room the student already lives in is rejected.
	_, err = f.svc.RequestRoomChange(context.Background(), 1, dto.RoomChangeCreateRequest{RequestedRoomID: 10, Reason: "changed my mind again"})
	require.ErrorIs(t, err, ErrConflict)
}

func TestDecideRoomChangeApprovedMovesStudent(t *testing.T) {
	f := newApplicationFixture()

	currentID := uint(10)
	f.rooms.add(models.Room{ID: 10, BlockID: 1, Number: "A-101", Capacity: 1, Occupied: 1, Status: models.RoomFull}, "female")
	f.rooms.add(models.Room{ID: 20, BlockID: 1, Number: "A-102", Capacity: 2, Occupied: 1, Status: models.RoomAvailable}, "female")

	f.applications.applications = []models.Application{
		{ID: 1, StudentID: 7, Status: models.ApplicationAllocated, AssignedRoomID: &currentID},
	}
	f.roomChanges.requests = []models.RoomChangeRequest{
		{ID: 1, StudentID: 7, CurrentRoomID: 10, RequestedRoomID: 20, Status: models.ApplicationPending},
	}

	decided, err := f.svc.DecideRoomChange(context.Background(), 1, dto.RoomChangeDecisionRequest{Status: "approved"})
	require.NoError(t, err)
	require.Equal(t, "approved", decided.Status)

	target, _ := f.rooms.FindByID(context.Background(), 20)
	require.Equal(t, 2, target.Occupied)
	require.Equal(t, models.RoomFull, target.Status)

	vacated, _ := f.rooms.FindByID(context.Background(), 10)
	require.Zero(t, vacated.Occupied)
	require.Equal(t, models.RoomAvailable, vacated.Status)

	application, _ := f.applications.FindByID(context.Background(), 1)
	require.NotNil(t, application.AssignedRoomID)
	require.Equal(t, uint(20), *application.AssignedRoomID)

	require.Len(t, f.notifications.published, 1)
	require.Equal(t, "room_change", f.notifications.published[0].Type)

	_, err = f.svc.DecideRoomChange(context.Background(), 1, dto.RoomChangeDecisionRequest{Status: "rejected"})
	require.ErrorIs(t, err, ErrConflict)
}

func TestDecideRoomChangeApprovalFailsWhenTargetFilledUp(t *testing.T) {
	f := newApplicationFixture()
	f.rooms.add(models.Room{ID: 20, BlockID: 1, Number: "A-102", Capacity: 1, Occupied: 1, Status: models.RoomFull}, "female")
	f.roomChanges.requests = []models.RoomChangeRequest{
		{ID: 1, StudentID: 7, CurrentRoomID: 10, RequestedRoomID: 20, Status: models.ApplicationPending},
	}

	_, err := f.svc.DecideRoomChange(context.Background(), 1, dto.RoomChangeDecisionRequest{Status: "approved"})
	require.ErrorIs(t, err, ErrConflict)

	// The request is untouched and can still be rejected.
	request, _ := f.roomChanges.FindByID(context.Background(), 1)
	require.Equal(t, models.ApplicationPending, request.Status)
}
