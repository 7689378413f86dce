package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/yohanes2124/dms-portal/internal/dto"
	"github.com/yohanes2124/dms-portal/internal/models"
	"github.com/yohanes2124/dms-portal/internal/observability"
	"github.com/yohanes2124/dms-portal/internal/repository"
)

const occupancyCacheKey = "reports:occupancy:v1"

// ReportService produces occupancy reporting for supervisors and admins.
type ReportService interface {
	Occupancy(ctx context.Context) (dto.OccupancyReport, error)
}

type reportService struct {
	reports      repository.ReportRepository
	applications repository.ApplicationRepository
	cache        *redis.Client
	ttl          time.Duration
	logger       zerolog.Logger
}

// NewReportService constructs the report service. The redis cache is optional.
func NewReportService(reports repository.ReportRepository, applications repository.ApplicationRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) ReportService {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &reportService{
		reports:      reports,
		applications: applications,
		cache:        cache,
		ttl:          ttl,
		logger:       logger.With().Str("component", "report_service").Logger(),
	}
}

func (s *reportService) Occupancy(ctx context.Context) (dto.OccupancyReport, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, occupancyCacheKey).Result(); err == nil && cached != "" {
			var report dto.OccupancyReport
			if err := json.Unmarshal([]byte(cached), &report); err == nil {
				report.CacheHit = true
				observability.ReportCacheRequests().WithLabelValues("hit").Inc()
				return report, nil
			}
		}
	}

	rows, err := s.reports.BlockOccupancy(ctx)
	if err != nil {
		observability.ReportCacheRequests().WithLabelValues("error").Inc()
		return dto.OccupancyReport{}, fmt.Errorf("aggregate occupancy: %w", err)
	}

	pending, err := s.applications.CountByStatus(ctx, models.ApplicationPending)
	if err != nil {
		observability.ReportCacheRequests().WithLabelValues("error").Inc()
		return dto.OccupancyReport{}, fmt.Errorf("count pending applications: %w", err)
	}

	report := dto.OccupancyReport{
		GeneratedAt:     time.Now().UTC(),
		PendingRequests: pending,
		Blocks:          make([]dto.BlockOccupancy, 0, len(rows)),
	}

	for _, row := range rows {
		block := dto.BlockOccupancy{
			BlockID:     row.BlockID,
			BlockName:   row.BlockName,
			Gender:      row.Gender,
			Rooms:       row.Rooms,
			Capacity:    row.Capacity,
			Occupied:    row.Occupied,
			Maintenance: row.Maintenance,
		}
		if row.Capacity > 0 {
			block.OccupancyRate = float64(row.Occupied) / float64(row.Capacity)
		}
		report.TotalCapacity += row.Capacity
		report.TotalOccupied += row.Occupied
		report.Blocks = append(report.Blocks, block)
	}
	if report.TotalCapacity > 0 {
		report.OccupancyRate = float64(report.TotalOccupied) / float64(report.TotalCapacity)
	}

	if s.cache != nil {
		if payload, err := json.Marshal(report); err == nil {
			if err := s.cache.Set(ctx, occupancyCacheKey, payload, s.ttl).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to cache occupancy report")
			}
		}
	}

	observability.ReportCacheRequests().WithLabelValues("miss").Inc()

	return report, nil
}
