package domain

import (
	"strings"
	"time"
	"unicode"
)

// IncidentType is the closed set of reportable incident categories.
type IncidentType string

const (
	TypeHarassment          IncidentType = "harassment"
	TypeAssault             IncidentType = "assault"
	TypeStalking            IncidentType = "stalking"
	TypeDomesticViolence    IncidentType = "domestic_violence"
	TypeWorkplaceHarassment IncidentType = "workplace_harassment"
	TypeOnlineAbuse         IncidentType = "online_abuse"
	TypeOther               IncidentType = "other"
)

// Valid reports whether t is one of the enumerated incident types.
func (t IncidentType) Valid() bool {
	switch t {
	case TypeHarassment, TypeAssault, TypeStalking, TypeDomesticViolence,
		TypeWorkplaceHarassment, TypeOnlineAbuse, TypeOther:
		return true
	}
	return false
}

// IncidentStatus represents the review lifecycle state of an incident case.
type IncidentStatus string

const (
	StatusNew         IncidentStatus = "new"
	StatusUnderReview IncidentStatus = "under_review"
	StatusInProgress  IncidentStatus = "in_progress"
	StatusResolved    IncidentStatus = "resolved"
	StatusClosed      IncidentStatus = "closed"
)

// validTransitions defines the allowed state machine edges. Terminal states
// may only re-open to under_review.
var validTransitions = map[IncidentStatus][]IncidentStatus{
	StatusNew:         {StatusUnderReview, StatusClosed},
	StatusUnderReview: {StatusInProgress, StatusClosed},
	StatusInProgress:  {StatusResolved, StatusClosed},
	StatusResolved:    {StatusUnderReview},
	StatusClosed:      {StatusUnderReview},
}

// Valid reports whether s is a known status.
func (s IncidentStatus) Valid() bool {
	_, ok := validTransitions[s]
	return ok
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s IncidentStatus) CanTransitionTo(next IncidentStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AcceptsEvidence reports whether evidence may still be attached in this state.
func (s IncidentStatus) AcceptsEvidence() bool {
	return s == StatusNew || s == StatusUnderReview
}

// AuditEntry records a single status change on an incident case.
type AuditEntry struct {
	ActorID string         `json:"actor_id" bson:"actor_id"`
	From    IncidentStatus `json:"from" bson:"from"`
	To      IncidentStatus `json:"to" bson:"to"`
	At      time.Time      `json:"at" bson:"at"`
	Notes   string         `json:"notes,omitempty" bson:"notes,omitempty"`
}

// IncidentCase is the aggregate root for a reported incident. Cases are
// never physically deleted.
type IncidentCase struct {
	ID             string          `json:"id" bson:"_id"`
	ReporterID     string          `json:"reporter_id,omitempty" bson:"reporter_id"`
	Type           IncidentType    `json:"incident_type" bson:"incident_type"`
	Description    string          `json:"description" bson:"description"`
	LocationLabel  string          `json:"location" bson:"location_label"`
	Location       *LocationSample `json:"coordinates,omitempty" bson:"coordinates,omitempty"`
	IsAnonymous    bool            `json:"is_anonymous" bson:"is_anonymous"`
	Status         IncidentStatus  `json:"status" bson:"status"`
	EvidenceRefs   []string        `json:"evidence_refs" bson:"evidence_refs"`
	Audit          []AuditEntry    `json:"audit_trail" bson:"audit_trail"`
	CreatedAt      time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" bson:"updated_at"`
	Version        int64           `json:"version" bson:"version"`
	IdempotencyKey string          `json:"-" bson:"idempotency_key,omitempty"`
}

// Redacted returns a copy with the reporter identity withheld when the case
// was filed anonymously.
func (c IncidentCase) Redacted() IncidentCase {
	if c.IsAnonymous {
		c.ReporterID = ""
	}
	return c
}

const maxEvidenceRefLen = 512

// ValidEvidenceRef reports whether ref is an acceptable opaque file-store
// reference: non-empty, bounded, printable, without whitespace or parent
// path segments.
func ValidEvidenceRef(ref string) bool {
	if ref == "" || len(ref) > maxEvidenceRefLen {
		return false
	}
	if strings.Contains(ref, "..") {
		return false
	}
	for _, r := range ref {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return false
		}
	}
	return true
}
