package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yaswanth810/Women-Safety-Platform/internal/core/access"
	"github.com/yaswanth810/Women-Safety-Platform/internal/core/domain"
	"github.com/yaswanth810/Women-Safety-Platform/internal/core/ports"
)

// AnalyticsService serves read-only administrative views. Hotspots are
// recomputed from committed records on every call.
type AnalyticsService struct {
	users     ports.UserRepository
	incidents ports.IncidentRepository
	alerts    ports.AlertRepository
	log       zerolog.Logger
}

func NewAnalyticsService(users ports.UserRepository, incidents ports.IncidentRepository, alerts ports.AlertRepository, log zerolog.Logger) *AnalyticsService {
	return &AnalyticsService{users: users, incidents: incidents, alerts: alerts, log: log}
}

func (s *AnalyticsService) Hotspots(ctx context.Context, actor domain.Actor, filter domain.HotspotFilter) ([]domain.HotspotPoint, error) {
	if err := access.Authorize(actor, access.ReadAnalytics, access.Target{}).Err(); err != nil {
		return nil, err
	}
	if filter.Kind != "" && filter.Kind != domain.HotspotKindSOS && !domain.IncidentType(filter.Kind).Valid() {
		return nil, fmt.Errorf("%w: unknown hotspot kind %q", domain.ErrValidation, filter.Kind)
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return nil, fmt.Errorf("%w: 'to' precedes 'from'", domain.ErrValidation)
	}

	points := make([]domain.HotspotPoint, 0)

	if filter.IncludesIncidents() {
		cases, err := s.incidents.ListLocated(ctx, domain.IncidentType(filter.Kind), filter.From, filter.To)
		if err != nil {
			return nil, fmt.Errorf("hotspots: incidents: %w", err)
		}
		for _, c := range cases {
			if c.Location == nil || !filter.Covers(c.CreatedAt) {
				continue
			}
			if filter.Kind != "" && string(c.Type) != filter.Kind {
				continue
			}
			points = append(points, domain.HotspotPoint{
				Kind:      string(c.Type),
				Latitude:  c.Location.Latitude,
				Longitude: c.Location.Longitude,
				Timestamp: c.CreatedAt,
				SourceID:  c.ID,
			})
		}
	}

	if filter.IncludesSOS() {
		alerts, err := s.alerts.ListTriggeredBetween(ctx, filter.From, filter.To)
		if err != nil {
			return nil, fmt.Errorf("hotspots: alerts: %w", err)
		}
		for _, a := range alerts {
			if !a.Location.Valid() || !filter.Covers(a.TriggeredAt) {
				continue
			}
			points = append(points, domain.HotspotPoint{
				Kind:      domain.HotspotKindSOS,
				Latitude:  a.Location.Latitude,
				Longitude: a.Location.Longitude,
				Timestamp: a.TriggeredAt,
				SourceID:  a.ID,
			})
		}
	}

	domain.SortHotspots(points)

	s.log.Debug().Str("kind", filter.Kind).Int("points", len(points)).Msg("hotspots computed")
	return points, nil
}

func (s *AnalyticsService) Stats(ctx context.Context, actor domain.Actor) (*ports.PlatformStats, error) {
	if err := access.Authorize(actor, access.ReadAnalytics, access.Target{}).Err(); err != nil {
		return nil, err
	}

	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats: users: %w", err)
	}
	byStatus, err := s.incidents.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats: incidents: %w", err)
	}
	alerts, err := s.alerts.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats: alerts: %w", err)
	}

	var totalIncidents int64
	for _, n := range byStatus {
		totalIncidents += n
	}

	return &ports.PlatformStats{
		TotalUsers:        users,
		TotalIncidents:    totalIncidents,
		TotalSOSAlerts:    alerts.Total,
		ActiveSOSAlerts:   alerts.Active,
		IncidentsByStatus: byStatus,
	}, nil
}
