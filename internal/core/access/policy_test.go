package access

import (
	"errors"
	"testing"

	"github.com/yaswanth810/Women-Safety-Platform/internal/core/domain"
)

var (
	reporter  = domain.Actor{UserID: "r1", Role: domain.RoleReporter}
	other     = domain.Actor{UserID: "r2", Role: domain.RoleReporter}
	moderator = domain.Actor{UserID: "m1", Role: domain.RoleModerator}
	admin     = domain.Actor{UserID: "a1", Role: domain.RoleAdmin}
)

func TestAuthorize_Table(t *testing.T) {
	owned := Target{OwnerID: "r1"}

	cases := []struct {
		name   string
		actor  domain.Actor
		action Action
		target Target
		want   Decision
	}{
		{"anonymous caller", domain.Actor{}, ReadIncident, owned, Decision{Reason: ReasonUnauthenticated}},
		{"unknown role", domain.Actor{UserID: "x", Role: "guest"}, ReadIncident, owned, Decision{Reason: ReasonUnauthenticated}},
		{"unknown action", admin, Action("nuke"), owned, Decision{Reason: ReasonForbidden}},

		{"create incident for self", reporter, CreateIncident, owned, Decision{Allowed: true}},
		{"create incident for someone else", other, CreateIncident, owned, Decision{Reason: ReasonForbidden}},
		{"admin cannot create for someone else", admin, CreateIncident, owned, Decision{Reason: ReasonForbidden}},

		{"owner reads incident", reporter, ReadIncident, owned, Decision{Allowed: true}},
		{"stranger reads incident", other, ReadIncident, owned, Decision{Reason: ReasonForbidden}},
		{"moderator reads incident", moderator, ReadIncident, owned, Decision{Allowed: true}},
		{"admin reads incident", admin, ReadIncident, owned, Decision{Allowed: true}},

		{"owner sets status", reporter, SetIncidentStatus, owned, Decision{Reason: ReasonForbidden}},
		{"moderator sets status", moderator, SetIncidentStatus, owned, Decision{Allowed: true}},
		{"admin sets status", admin, SetIncidentStatus, owned, Decision{Allowed: true}},

		{"owner appends evidence to new", reporter, AppendEvidence, Target{OwnerID: "r1", IncidentStatus: domain.StatusNew}, Decision{Allowed: true}},
		{"owner appends evidence under review", reporter, AppendEvidence, Target{OwnerID: "r1", IncidentStatus: domain.StatusUnderReview}, Decision{Allowed: true}},
		{"owner appends evidence in progress", reporter, AppendEvidence, Target{OwnerID: "r1", IncidentStatus: domain.StatusInProgress}, Decision{Reason: ReasonInvalidState}},
		{"owner appends evidence resolved", reporter, AppendEvidence, Target{OwnerID: "r1", IncidentStatus: domain.StatusResolved}, Decision{Reason: ReasonInvalidState}},
		{"admin appends evidence", admin, AppendEvidence, Target{OwnerID: "r1", IncidentStatus: domain.StatusNew}, Decision{Reason: ReasonForbidden}},

		{"owner reveals reporter", reporter, RevealReporter, owned, Decision{Allowed: true}},
		{"moderator reveals reporter", moderator, RevealReporter, owned, Decision{Reason: ReasonForbidden}},
		{"admin reveals reporter", admin, RevealReporter, owned, Decision{Allowed: true}},

		{"owner deactivates alert", reporter, DeactivateAlert, owned, Decision{Allowed: true}},
		{"moderator deactivates alert", moderator, DeactivateAlert, owned, Decision{Reason: ReasonForbidden}},
		{"admin deactivates alert", admin, DeactivateAlert, owned, Decision{Allowed: true}},

		{"reporter lists all", reporter, ListAll, Target{}, Decision{Reason: ReasonForbidden}},
		{"moderator lists all", moderator, ListAll, Target{}, Decision{Allowed: true}},
		{"reporter reads analytics", reporter, ReadAnalytics, Target{}, Decision{Reason: ReasonForbidden}},
		{"moderator reads analytics", moderator, ReadAnalytics, Target{}, Decision{Allowed: true}},
		{"admin reads analytics", admin, ReadAnalytics, Target{}, Decision{Allowed: true}},

		{"owner manages contacts", reporter, ManageContacts, owned, Decision{Allowed: true}},
		{"admin manages someone's contacts", admin, ManageContacts, owned, Decision{Reason: ReasonForbidden}},

		{"owner manages profile", reporter, ManageProfile, owned, Decision{Allowed: true}},
		{"admin manages someone's profile", admin, ManageProfile, owned, Decision{Reason: ReasonForbidden}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Authorize(tc.actor, tc.action, tc.target)
			if got != tc.want {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestAuthorize_ReporterNeverSetsStatus(t *testing.T) {
	for _, s := range []domain.IncidentStatus{
		domain.StatusNew, domain.StatusUnderReview, domain.StatusInProgress, domain.StatusResolved, domain.StatusClosed,
	} {
		d := Authorize(reporter, SetIncidentStatus, Target{OwnerID: "r1", IncidentStatus: s})
		if d.Allowed || d.Reason != ReasonForbidden {
			t.Errorf("status %s: expected forbidden, got %+v", s, d)
		}
	}
}

func TestDecision_Err(t *testing.T) {
	if err := (Decision{Allowed: true}).Err(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if err := deny(ReasonUnauthenticated).Err(); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}
	if err := deny(ReasonForbidden).Err(); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if err := deny(ReasonInvalidState).Err(); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
}

func TestHasCapability(t *testing.T) {
	if HasCapability(domain.RoleReporter, CapReadAnyRecord) {
		t.Error("reporter must not read arbitrary records")
	}
	if !HasCapability(domain.RoleAdmin, CapOverrideAlert) {
		t.Error("admin must override alerts")
	}
	if HasCapability(domain.RoleModerator, CapOverrideAlert) {
		t.Error("moderator must not override alerts")
	}
}
