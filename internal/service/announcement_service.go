package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/yohanes2124/dms-portal/internal/dto"
	"github.com/yohanes2124/dms-portal/internal/models"
	"github.com/yohanes2124/dms-portal/internal/observability"
	"github.com/yohanes2124/dms-portal/internal/repository"
)

const announcementCachePrefix = "announcements:active:v1"

// AnnouncementService exposes portal-wide announcements.
type AnnouncementService interface {
	Create(ctx context.Context, payload dto.AnnouncementCreateRequest) (dto.AnnouncementResponse, error)
	ListActive(ctx context.Context, page, pageSize int) (dto.AnnouncementListResponse, error)
	Delete(ctx context.Context, id uint) error
}

type announcementService struct {
	repo      repository.AnnouncementRepository
	cache     *redis.Client
	ttl       time.Duration
	validator *validator.Validate
	logger    zerolog.Logger
	policy    *bluemonday.Policy
}

// NewAnnouncementService constructs the announcement service. The redis cache
// is optional; without it every listing hits the database.
func NewAnnouncementService(repo repository.AnnouncementRepository, cache *redis.Client, ttl time.Duration, validate *validator.Validate, logger zerolog.Logger) AnnouncementService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("p", "strong", "em", "a", "ul", "ol", "li", "br")
	policy.AllowAttrs("href", "title", "target").OnElements("a")
	return &announcementService{
		repo:      repo,
		cache:     cache,
		ttl:       ttl,
		validator: validate,
		logger:    logger.With().Str("component", "announcement_service").Logger(),
		policy:    policy,
	}
}

func (s *announcementService) Create(ctx context.Context, payload dto.AnnouncementCreateRequest) (dto.AnnouncementResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AnnouncementResponse{}, err
	}

	severity := payload.Severity
	if severity == "" {
		severity = "info"
	}
	startsAt := time.Now()
	if payload.StartsAt != nil {
		startsAt = *payload.StartsAt
	}
	if payload.EndsAt != nil && !payload.EndsAt.After(startsAt) {
		return dto.AnnouncementResponse{}, fmt.Errorf("ends_at must be after starts_at: %w", ErrConflict)
	}

	announcement := models.Announcement{
		Title:    strings.TrimSpace(payload.Title),
		Body:     s.policy.Sanitize(payload.Body),
		Severity: severity,
		IsPinned: payload.IsPinned,
		StartsAt: startsAt,
		EndsAt:   payload.EndsAt,
	}

	if err := s.repo.Create(ctx, &announcement); err != nil {
		return dto.AnnouncementResponse{}, fmt.Errorf("create announcement: %w", err)
	}

	s.invalidateCache(ctx)
	s.logger.Info().Uint("announcement_id", announcement.ID).Msg("announcement published")

	return dto.NewAnnouncementResponse(announcement), nil
}

func (s *announcementService) ListActive(ctx context.Context, page, pageSize int) (dto.AnnouncementListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	cacheKey := ""
	if s.cache != nil {
		cacheKey = fmt.Sprintf("%s:%d:%d", announcementCachePrefix, page, pageSize)
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
			var response dto.AnnouncementListResponse
			if err := json.Unmarshal([]byte(cached), &response); err == nil {
				response.CacheHit = true
				observability.AnnouncementRequests().WithLabelValues("hit").Inc()
				return response, nil
			}
		}
	}

	items, total, err := s.repo.ListActive(ctx, repository.AnnouncementFilter{Page: page, PageSize: pageSize})
	if err != nil {
		observability.AnnouncementRequests().WithLabelValues("error").Inc()
		return dto.AnnouncementListResponse{}, fmt.Errorf("list announcements: %w", err)
	}

	responses := make([]dto.AnnouncementResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, dto.NewAnnouncementResponse(item))
	}

	pagination := dto.PaginationMeta{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}

	response := dto.AnnouncementListResponse{Items: responses, Pagination: pagination}

	if cacheKey != "" {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.ttl).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to cache announcements")
			}
		}
	}

	observability.AnnouncementRequests().WithLabelValues("miss").Inc()

	return response, nil
}

func (s *announcementService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *announcementService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}

	iter := s.cache.Scan(ctx, 0, announcementCachePrefix+":*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.cache.Del(ctx, iter.Val()).Err(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to drop announcement cache key")
		}
	}
	if err := iter.Err(); err != nil {
		s.logger.Warn().Err(err).Msg("announcement cache scan failed")
	}
}
