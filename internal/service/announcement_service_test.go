package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/yohanes2124/dms-portal/internal/dto"
	"github.com/yohanes2124/dms-portal/internal/models"
	"github.com/yohanes2124/dms-portal/internal/repository"
)

type announcementRepoStub struct {
	items     []models.Announcement
	listCalls int
}

func (s *announcementRepoStub) Create(ctx context.Context, announcement *models.Announcement) error {
	announcement.ID = uint(len(s.items) + 1)
	announcement.CreatedAt = time.Now()
	s.items = append(s.items, *announcement)
	return nil
}

func (s *announcementRepoStub) ListActive(ctx context.Context, filter repository.AnnouncementFilter) ([]models.Announcement, int64, error) {
	s.listCalls++
	return append([]models.Announcement(nil), s.items...), int64(len(s.items)), nil
}

func (s *announcementRepoStub) Delete(ctx context.Context, id uint) error {
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *announcementRepoStub) UpsertBatch(ctx context.Context, items []models.Announcement) (int64, error) {
	s.items = append(s.items, items...)
	return int64(len(items)), nil
}

func newAnnouncementFixture(t *testing.T) (*announcementRepoStub, *redis.Client, AnnouncementService) {
	t.Helper()
	mini, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mini.Close)

	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := &announcementRepoStub{}
	svc := NewAnnouncementService(repo, client, time.Minute, validator.New(validator.WithRequiredStructEnabled()), testLogger())
	return repo, client, svc
}

func TestAnnouncementCreateSanitizesBody(t *testing.T) {
	repo, _, svc := newAnnouncementFixture(t)

	created, err := svc.Create(context.Background(), dto.AnnouncementCreateRequest{
		Title: "Water outage",
		Body:  `<p>Block A is <strong>closed</strong></p><script>alert("x")</script>`,
	})
	require.NoError(t, err)
	require.Contains(t, created.Body, "<strong>closed</strong>")
	require.NotContains(t, created.Body, "<script>")
	require.Equal(t, "info", created.Severity)
	require.Len(t, repo.items, 1)
}

func TestAnnouncementCreateRejectsInvertedWindow(t *testing.T) {
	_, _, svc := newAnnouncementFixture(t)

	start := time.Now()
	end := start.Add(-time.Hour)
	_, err := svc.Create(context.Background(), dto.AnnouncementCreateRequest{
		Title:    "Bad window",
		Body:     "x",
		StartsAt: &start,
		EndsAt:   &end,
	})
	require.ErrorIs(t, err, ErrConflict)
}

func TestAnnouncementListActiveCachesPage(t *testing.T) {
	repo, _, svc := newAnnouncementFixture(t)
	repo.items = []models.Announcement{
		{ID: 1, Title: "One", Body: "b", Severity: "info", StartsAt: time.Now()},
	}

	first, err := svc.ListActive(context.Background(), 1, 20)
	require.NoError(t, err)
	require.False(t, first.CacheHit)
	require.Len(t, first.Items, 1)
	require.Equal(t, int64(1), first.Pagination.TotalItems)
	require.Equal(t, 1, repo.listCalls)

	second, err := svc.ListActive(context.Background(), 1, 20)
	require.NoError(t, err)
	require.True(t, second.CacheHit)
	require.Len(t, second.Items, 1)
	require.Equal(t, first.Items[0].Title, second.Items[0].Title)
	require.Equal(t, 1, repo.listCalls)
}

func TestAnnouncementMutationsInvalidateCache(t *testing.T) {
	repo, _, svc := newAnnouncementFixture(t)

	_, err := svc.ListActive(context.Background(), 1, 20)
	require.NoError(t, err)
	require.Equal(t, 1, repo.listCalls)

	_, err = svc.Create(context.Background(), dto.AnnouncementCreateRequest{Title: "Fresh", Body: "x"})
	require.NoError(t, err)

	listed, err := svc.ListActive(context.Background(), 1, 20)
	require.NoError(t, err)
	require.False(t, listed.CacheHit)
	require.Len(t, listed.Items, 1)
	require.Equal(t, 2, repo.listCalls)

	require.NoError(t, svc.Delete(context.Background(), listed.Items[0].ID))

	listed, err = svc.ListActive(context.Background(), 1, 20)
	require.NoError(t, err)
	require.False(t, listed.CacheHit)
	require.Empty(t, listed.Items)
}

func TestAnnouncementListWorksWithoutCache(t *testing.T) {
	repo := &announcementRepoStub{items: []models.Announcement{{ID: 1, Title: "One", Body: "b"}}}
	svc := NewAnnouncementService(repo, nil, time.Minute, validator.New(validator.WithRequiredStructEnabled()), testLogger())

	listed, err := svc.ListActive(context.Background(), 1, 20)
	require.NoError(t, err)
	require.False(t, listed.CacheHit)
	require.Len(t, listed.Items, 1)
}
