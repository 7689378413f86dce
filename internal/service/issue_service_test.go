package service

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yohanes2124/dms-portal/internal/dto"
	"github.com/yohanes2124/dms-portal/internal/models"
)

// Smallest possible PNG header, enough for content-type sniffing.
var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R'}

type issueRepoStub struct {
	issues []models.Issue
}

func (s *issueRepoStub) Create(ctx context.Context, issue *models.Issue) error {
	issue.ID = uint(len(s.issues) + 1)
	issue.CreatedAt = time.Now()
	s.issues = append(s.issues, *issue)
	return nil
}

func (s *issueRepoStub) FindByID(ctx context.Context, id uint) (models.Issue, error) {
	for _, issue := range s.issues {
		if issue.ID == id {
			return issue, nil
		}
	}
	return models.Issue{}, gorm.ErrRecordNotFound
}

func (s *issueRepoStub) ListByReporter(ctx context.Context, reporterID uint) ([]models.Issue, error) {
	var out []models.Issue
	for _, issue := range s.issues {
		if issue.ReporterID == reporterID {
			out = append(out, issue)
		}
	}
	return out, nil
}

func (s *issueRepoStub) List(ctx context.Context, status string, limit, offset int) ([]models.Issue, error) {
	return append([]models.Issue(nil), s.issues...), nil
}

func (s *issueRepoStub) Update(ctx context.Context, issue *models.Issue) error {
	for i := range s.issues {
		if s.issues[i].ID == issue.ID {
			s.issues[i] = *issue
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type uploaderStub struct {
	uploads []string
	url     string
}

func (s *uploaderStub) Upload(ctx context.Context, name string, reader io.Reader) (string, error) {
	s.uploads = append(s.uploads, name)
	return s.url, nil
}

func newIssueFixture(uploader FileUploader, maxPhoto int64) (*issueRepoStub, *roomRepoStub, IssueService) {
	issues := &issueRepoStub{}
	rooms := newRoomRepoStub()
	rooms.add(models.Room{ID: 10, BlockID: 1, Number: "A-101", Capacity: 2, Status: models.RoomAvailable}, "female")
	svc := NewIssueService(issues, rooms, uploader, maxPhoto, validator.New(validator.WithRequiredStructEnabled()), testLogger())
	return issues, rooms, svc
}

func TestIssueReportWithoutPhoto(t *testing.T) {
	issues, _, svc := newIssueFixture(nil, 1024)

	created, err := svc.Report(context.Background(), 5, dto.IssueCreateRequest{
		RoomID:      10,
		Category:    "plumbing",
		Description: "the sink in the corner is leaking",
	}, "", nil)
	require.NoError(t, err)
	require.Equal(t, models.IssueOpen, created.Status)
	require.Equal(t, models.IssuePriorityNormal, created.Priority)
	require.Empty(t, created.PhotoURL)
	require.Len(t, issues.issues, 1)
}

func TestIssueReportUnknownRoom(t *testing.T) {
	_, _, svc := newIssueFixture(nil, 1024)

	_, err := svc.Report(context.Background(), 5, dto.IssueCreateRequest{
		RoomID:      99,
		Category:    "plumbing",
		Description: "the sink in the corner is leaking",
	}, "", nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestIssueReportUploadsAcceptedImage(t *testing.T) {
	uploader := &uploaderStub{url: "https://cdn.example/issue-1.png"}
	_, _, svc := newIssueFixture(uploader, 1024)

	created, err := svc.Report(context.Background(), 5, dto.IssueCreateRequest{
		RoomID:      10,
		Category:    "electrical",
		Description: "socket sparks when anything is plugged in",
		Priority:    models.IssuePriorityUrgent,
	}, "socket.png", bytes.NewReader(pngHeader))
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example/issue-1.png", created.PhotoURL)
	require.Equal(t, models.IssuePriorityUrgent, created.Priority)
	require.Equal(t, []string{"socket.png"}, uploader.uploads)
}

func TestIssueReportRejectsNonImagePhoto(t *testing.T) {
	uploader := &uploaderStub{url: "https://cdn.example/x"}
	issues, _, svc := newIssueFixture(uploader, 1024)

	_, err := svc.Report(context.Background(), 5, dto.IssueCreateRequest{
		RoomID:      10,
		Category:    "other",
		Description: "attaching a text file instead of a photo",
	}, "notes.txt", bytes.NewReader([]byte("just some text")))
	require.ErrorIs(t, err, ErrUnsupportedPhoto)
	require.Empty(t, uploader.uploads)
	require.Empty(t, issues.issues)
}

func TestIssueReportRejectsOversizedPhoto(t *testing.T) {
	uploader := &uploaderStub{url: "https://cdn.example/x"}
	_, _, svc := newIssueFixture(uploader, 8)

	big := append(append([]byte(nil), pngHeader...), bytes.Repeat([]byte{0}, 64)...)
	_, err := svc.Report(context.Background(), 5, dto.IssueCreateRequest{
		RoomID:      10,
		Category:    "other",
		Description: "photo far above the configured limit",
	}, "big.png", bytes.NewReader(big))
	require.ErrorIs(t, err, ErrUnsupportedPhoto)
	require.Empty(t, uploader.uploads)
}

func TestIssueReportPhotoWithoutUploaderConfigured(t *testing.T) {
	_, _, svc := newIssueFixture(nil, 1024)

	_, err := svc.Report(context.Background(), 5, dto.IssueCreateRequest{
		RoomID:      10,
		Category:    "other",
		Description: "uploads disabled in this deployment",
	}, "photo.png", bytes.NewReader(pngHeader))
	require.ErrorIs(t, err, ErrUnsupportedPhoto)
}

func TestIssueUpdateStatusLifecycle(t *testing.T) {
	issues, _, svc := newIssueFixture(nil, 1024)
	issues.issues = []models.Issue{{ID: 1, ReporterID: 5, RoomID: 10, Status: models.IssueOpen}}

	updated, err := svc.UpdateStatus(context.Background(), 1, dto.IssueStatusUpdateRequest{Status: "in_progress"})
	require.NoError(t, err)
	require.Equal(t, "in_progress", updated.Status)

	updated, err = svc.UpdateStatus(context.Background(), 1, dto.IssueStatusUpdateRequest{Status: models.IssueClosed})
	require.NoError(t, err)
	require.Equal(t, models.IssueClosed, updated.Status)

	// Closed issues are final.
	_, err = svc.UpdateStatus(context.Background(), 1, dto.IssueStatusUpdateRequest{Status: "open"})
	require.ErrorIs(t, err, ErrConflict)

	_, err = svc.UpdateStatus(context.Background(), 42, dto.IssueStatusUpdateRequest{Status: "open"})
	require.ErrorIs(t, err, ErrNotFound)
}
