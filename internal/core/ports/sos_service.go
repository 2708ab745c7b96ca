package ports

import (
	"context"

	"github.com/yaswanth810/Women-Safety-Platform/internal/core/domain"
)

// TriggerInput is the payload of an SOS trigger. Location is required.
type TriggerInput struct {
	Location *domain.LocationSample
	Notes    string
}

// TriggerResult is returned by a successful trigger. NotifiedCount is the
// number of contacts whose attempt was accepted before the response was built.
type TriggerResult struct {
	Alert         *domain.SOSAlert
	NotifiedCount int
	Report        domain.DispatchReport
}

// ListAlertsInput scopes an alert listing.
type ListAlertsInput struct {
	Scope      Scope
	ActiveOnly bool
}

type SOSService interface {
	Trigger(ctx context.Context, actor domain.Actor, in TriggerInput) (*TriggerResult, error)
	Deactivate(ctx context.Context, actor domain.Actor, id string) (*domain.SOSAlert, error)
	Get(ctx context.Context, actor domain.Actor, id string) (*domain.SOSAlert, error)
	List(ctx context.Context, actor domain.Actor, in ListAlertsInput) ([]domain.SOSAlert, error)
}

// PlatformStats is the administrative overview.
type PlatformStats struct {
	TotalUsers        int64                            `json:"total_users"`
	TotalIncidents    int64                            `json:"total_incidents"`
	TotalSOSAlerts    int64                            `json:"total_sos_alerts"`
	ActiveSOSAlerts   int64                            `json:"active_sos_alerts"`
	IncidentsByStatus map[domain.IncidentStatus]int64 `json:"incidents_by_status"`
}

type AnalyticsService interface {
	Hotspots(ctx context.Context, actor domain.Actor, filter domain.HotspotFilter) ([]domain.HotspotPoint, error)
	Stats(ctx context.Context, actor domain.Actor) (*PlatformStats, error)
}
