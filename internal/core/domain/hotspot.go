package domain

import (
	"sort"
	"time"
)

// HotspotKindSOS is the hotspot kind used for SOS alert points. Incident
// points use their incident type as kind.
const HotspotKindSOS = "sos"

// HotspotPoint is a derived, read-only projection of a located record.
type HotspotPoint struct {
	Kind      string    `json:"kind"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
	SourceID  string    `json:"source_id"`
}

// HotspotFilter narrows a hotspot query. Zero values mean "no constraint".
type HotspotFilter struct {
	Kind string
	From time.Time
	To   time.Time
}

// IncludesSOS reports whether SOS alert points can match the filter.
func (f HotspotFilter) IncludesSOS() bool {
	return f.Kind == "" || f.Kind == HotspotKindSOS
}

// IncludesIncidents reports whether incident points can match the filter.
func (f HotspotFilter) IncludesIncidents() bool {
	return f.Kind != HotspotKindSOS
}

// Covers reports whether ts falls inside the inclusive [From, To] range.
func (f HotspotFilter) Covers(ts time.Time) bool {
	if !f.From.IsZero() && ts.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && ts.After(f.To) {
		return false
	}
	return true
}

// SortHotspots orders points by timestamp, then kind, then source id.
func SortHotspots(points []HotspotPoint) {
	sort.SliceStable(points, func(i, j int) bool {
		a, b := points[i], points[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.Before(b.Timestamp)
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.SourceID < b.SourceID
	})
}
