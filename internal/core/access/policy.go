// Package access decides whether an actor may perform an action on a target.
//
// Roles map to capability sets and every action is described by a rule in
// a table, so adding a role or an action is a data change. Authorize is pure:
// it performs no I/O and never panics on a missing identity.
package access

import (
	"github.com/yaswanth810/Women-Safety-Platform/internal/core/domain"
)

// Action names an operation subject to authorization.
type Action string

const (
	CreateIncident    Action = "incident:create"
	ReadIncident      Action = "incident:read"
	SetIncidentStatus Action = "incident:set_status"
	AppendEvidence    Action = "incident:append_evidence"
	RevealReporter    Action = "incident:reveal_reporter"
	CreateAlert       Action = "alert:create"
	ReadAlert         Action = "alert:read"
	DeactivateAlert   Action = "alert:deactivate"
	ListAll           Action = "records:list_all"
	ReadAnalytics     Action = "analytics:read"
	ManageContacts    Action = "contacts:manage"
	ManageProfile     Action = "profile:manage"
)

// Capability is a permission granted to a role.
type Capability string

const (
	CapReadAnyRecord    Capability = "records:read_any"
	CapModerateIncident Capability = "incident:moderate"
	CapOverrideAlert    Capability = "alert:override"
	CapRevealIdentity   Capability = "identity:reveal"
	CapReadAnalytics    Capability = "analytics:read"
)

var roleCapabilities = map[domain.Role][]Capability{
	domain.RoleReporter: nil,
	domain.RoleModerator: {
		CapReadAnyRecord,
		CapModerateIncident,
		CapReadAnalytics,
	},
	domain.RoleAdmin: {
		CapReadAnyRecord,
		CapModerateIncident,
		CapOverrideAlert,
		CapRevealIdentity,
		CapReadAnalytics,
	},
}

// Target describes the record an action applies to. OwnerID is the user the
// record belongs to (or will belong to, for creation); IncidentStatus is only
// consulted by state-gated rules.
type Target struct {
	OwnerID        string
	IncidentStatus domain.IncidentStatus
}

// rule: the owner may act when owner is set; anyone holding capability may
// act when it is non-empty; state must then hold for the target.
type rule struct {
	owner      bool
	capability Capability
	state      func(Target) bool
}

var rules = map[Action]rule{
	CreateIncident:    {owner: true},
	ReadIncident:      {owner: true, capability: CapReadAnyRecord},
	SetIncidentStatus: {capability: CapModerateIncident},
	AppendEvidence:    {owner: true, state: func(t Target) bool { return t.IncidentStatus.AcceptsEvidence() }},
	RevealReporter:    {owner: true, capability: CapRevealIdentity},
	CreateAlert:       {owner: true},
	ReadAlert:         {owner: true, capability: CapReadAnyRecord},
	DeactivateAlert:   {owner: true, capability: CapOverrideAlert},
	ListAll:           {capability: CapReadAnyRecord},
	ReadAnalytics:     {capability: CapReadAnalytics},
	ManageContacts:    {owner: true},
	ManageProfile:     {owner: true},
}

// HasCapability reports whether role grants c.
func HasCapability(role domain.Role, c Capability) bool {
	for _, granted := range roleCapabilities[role] {
		if granted == c {
			return true
		}
	}
	return false
}

// Authorize evaluates the rule for action against actor and target.
func Authorize(actor domain.Actor, action Action, target Target) Decision {
	if !actor.Authenticated() {
		return deny(ReasonUnauthenticated)
	}

	r, ok := rules[action]
	if !ok {
		return deny(ReasonForbidden)
	}

	isOwner := r.owner && target.OwnerID != "" && target.OwnerID == actor.UserID
	hasCap := r.capability != "" && HasCapability(actor.Role, r.capability)
	if !isOwner && !hasCap {
		return deny(ReasonForbidden)
	}

	if r.state != nil && !r.state(target) {
		return deny(ReasonInvalidState)
	}

	return Decision{Allowed: true}
}
