package service

import (
	"context"
	"sync"
	"time"

	"github.com/yaswanth810/Women-Safety-Platform/internal/core/domain"
	"github.com/yaswanth810/Women-Safety-Platform/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users map[string]*domain.User // keyed by email
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	r.users[user.Email] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := r.users[email]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.Email]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.Email] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) Count(context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

// ---------------------------------------------------------------------------
// Contacts
// ---------------------------------------------------------------------------

type stubContactRepo struct {
	byUser map[string][]domain.EmergencyContact
}

func newStubContactRepo() *stubContactRepo {
	return &stubContactRepo{byUser: make(map[string][]domain.EmergencyContact)}
}

func (r *stubContactRepo) Create(_ context.Context, c *domain.EmergencyContact) error {
	r.byUser[c.UserID] = append(r.byUser[c.UserID], *c)
	return nil
}

func (r *stubContactRepo) ListByUser(_ context.Context, userID string) ([]domain.EmergencyContact, error) {
	out := make([]domain.EmergencyContact, len(r.byUser[userID]))
	copy(out, r.byUser[userID])
	return out, nil
}

func (r *stubContactRepo) Delete(_ context.Context, userID, contactID string) error {
	list := r.byUser[userID]
	for i, c := range list {
		if c.ID == contactID {
			r.byUser[userID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return domain.ErrContactNotFound
}

// ---------------------------------------------------------------------------
// Incidents
// ---------------------------------------------------------------------------

type stubIncidentRepo struct {
	byID      map[string]*domain.IncidentCase
	order     []string
	createErr error
	updates   int
	// keyMisses makes the next n idempotency lookups miss, as when a
	// concurrent request has not inserted yet.
	keyMisses int
}

func newStubIncidentRepo() *stubIncidentRepo {
	return &stubIncidentRepo{byID: make(map[string]*domain.IncidentCase)}
}

func cloneIncident(c *domain.IncidentCase) *domain.IncidentCase {
	clone := *c
	clone.EvidenceRefs = append([]string{}, c.EvidenceRefs...)
	clone.Audit = append([]domain.AuditEntry{}, c.Audit...)
	return &clone
}

func (r *stubIncidentRepo) Create(_ context.Context, c *domain.IncidentCase) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.byID {
		if c.IdempotencyKey != "" && existing.ReporterID == c.ReporterID && existing.IdempotencyKey == c.IdempotencyKey {
			return domain.ErrDuplicateKey
		}
	}
	r.byID[c.ID] = cloneIncident(c)
	r.order = append(r.order, c.ID)
	return nil
}

func (r *stubIncidentRepo) FindByID(_ context.Context, id string) (*domain.IncidentCase, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrIncidentNotFound
	}
	return cloneIncident(c), nil
}

func (r *stubIncidentRepo) FindByIdempotencyKey(_ context.Context, reporterID, key string) (*domain.IncidentCase, error) {
	if r.keyMisses > 0 {
		r.keyMisses--
		return nil, domain.ErrIncidentNotFound
	}
	for _, c := range r.byID {
		if c.ReporterID == reporterID && c.IdempotencyKey == key {
			return cloneIncident(c), nil
		}
	}
	return nil, domain.ErrIncidentNotFound
}

func (r *stubIncidentRepo) List(_ context.Context, f ports.IncidentFilter) ([]domain.IncidentCase, error) {
	var out []domain.IncidentCase
	for _, id := range r.order {
		c := r.byID[id]
		if f.ReporterID != "" && c.ReporterID != f.ReporterID {
			continue
		}
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		out = append(out, *cloneIncident(c))
	}
	return out, nil
}

func (r *stubIncidentRepo) Update(_ context.Context, c *domain.IncidentCase, expectedVersion int64) error {
	stored, ok := r.byID[c.ID]
	if !ok {
		return domain.ErrIncidentNotFound
	}
	if stored.Version != expectedVersion {
		return domain.ErrConflict
	}
	r.byID[c.ID] = cloneIncident(c)
	r.updates++
	return nil
}

func (r *stubIncidentRepo) ListLocated(_ context.Context, t domain.IncidentType, from, to time.Time) ([]domain.IncidentCase, error) {
	var out []domain.IncidentCase
	for _, id := range r.order {
		c := r.byID[id]
		if c.Location == nil {
			continue
		}
		if t != "" && c.Type != t {
			continue
		}
		out = append(out, *cloneIncident(c))
	}
	return out, nil
}

func (r *stubIncidentRepo) CountByStatus(context.Context) (map[domain.IncidentStatus]int64, error) {
	out := make(map[domain.IncidentStatus]int64)
	for _, c := range r.byID {
		out[c.Status]++
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Alerts
// ---------------------------------------------------------------------------

type stubAlertRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.SOSAlert
	updateErr error
}

func newStubAlertRepo() *stubAlertRepo {
	return &stubAlertRepo{byID: make(map[string]*domain.SOSAlert)}
}

func cloneAlert(a *domain.SOSAlert) *domain.SOSAlert {
	clone := *a
	clone.NotifiedContactIDs = append([]string{}, a.NotifiedContactIDs...)
	return &clone
}

func (r *stubAlertRepo) Create(_ context.Context, a *domain.SOSAlert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.UserID == a.UserID && existing.IsActive() {
			return domain.ErrAlreadyActive
		}
	}
	r.byID[a.ID] = cloneAlert(a)
	return nil
}

func (r *stubAlertRepo) FindByID(_ context.Context, id string) (*domain.SOSAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAlertNotFound
	}
	return cloneAlert(a), nil
}

func (r *stubAlertRepo) FindActiveByUser(_ context.Context, userID string) (*domain.SOSAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byID {
		if a.UserID == userID && a.IsActive() {
			return cloneAlert(a), nil
		}
	}
	return nil, domain.ErrAlertNotFound
}

func (r *stubAlertRepo) List(_ context.Context, f ports.AlertFilter) ([]domain.SOSAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.SOSAlert
	for _, a := range r.byID {
		if f.UserID != "" && a.UserID != f.UserID {
			continue
		}
		if f.ActiveOnly && !a.IsActive() {
			continue
		}
		out = append(out, *cloneAlert(a))
	}
	return out, nil
}

func (r *stubAlertRepo) Update(_ context.Context, a *domain.SOSAlert, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	stored, ok := r.byID[a.ID]
	if !ok {
		return domain.ErrAlertNotFound
	}
	if stored.Version != expectedVersion {
		return domain.ErrConflict
	}
	r.byID[a.ID] = cloneAlert(a)
	return nil
}

func (r *stubAlertRepo) ListTriggeredBetween(_ context.Context, _, _ time.Time) ([]domain.SOSAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.SOSAlert
	for _, a := range r.byID {
		out = append(out, *cloneAlert(a))
	}
	return out, nil
}

func (r *stubAlertRepo) Count(context.Context) (ports.AlertCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var c ports.AlertCounts
	for _, a := range r.byID {
		c.Total++
		if a.IsActive() {
			c.Active++
		}
	}
	return c, nil
}

// ---------------------------------------------------------------------------
// Redis-backed collaborators and the notifier
// ---------------------------------------------------------------------------

type stubLock struct {
	held     map[string]bool
	released int
}

func newStubLock() *stubLock {
	return &stubLock{held: make(map[string]bool)}
}

func (l *stubLock) Acquire(_ context.Context, userID string) (func(), error) {
	if l.held[userID] {
		return nil, domain.ErrConflict
	}
	l.held[userID] = true
	return func() {
		delete(l.held, userID)
		l.released++
	}, nil
}

type stubGate struct {
	closed []string
}

func (g *stubGate) Close(_ context.Context, alertID string) error {
	g.closed = append(g.closed, alertID)
	return nil
}

func (g *stubGate) Open(_ context.Context, alertID string) error {
	for i, id := range g.closed {
		if id == alertID {
			g.closed = append(g.closed[:i], g.closed[i+1:]...)
			break
		}
	}
	return nil
}

type stubEvents struct {
	events []string
	err    error
}

func (e *stubEvents) Publish(_ context.Context, event string, _ *domain.SOSAlert) error {
	if e.err != nil {
		return e.err
	}
	e.events = append(e.events, event)
	return nil
}

// stubNotifier accepts every contact except those whose phone is listed in failPhones.
type stubNotifier struct {
	failPhones map[string]bool
	calls      int
	contacts   []domain.EmergencyContact
	onDispatch func()
}

func (n *stubNotifier) Dispatch(_ context.Context, alert *domain.SOSAlert, contacts []domain.EmergencyContact) domain.DispatchReport {
	n.calls++
	if n.onDispatch != nil {
		n.onDispatch()
	}
	n.contacts = append(n.contacts, contacts...)
	var r domain.DispatchReport
	for _, c := range contacts {
		o := domain.NotificationOutcome{AlertID: alert.ID, ContactID: c.ID, Channel: "sms", Status: domain.NotificationAccepted}
		if n.failPhones[c.Phone] {
			o.Status = domain.NotificationFailed
			o.Error = "gateway rejected"
		}
		r.Add(o)
	}
	return r
}

// ---------------------------------------------------------------------------
// Actors and clock
// ---------------------------------------------------------------------------

var (
	reporterR  = domain.Actor{UserID: "user-r", Role: domain.RoleReporter}
	reporterX  = domain.Actor{UserID: "user-x", Role: domain.RoleReporter}
	moderatorM = domain.Actor{UserID: "user-m", Role: domain.RoleModerator}
	adminA     = domain.Actor{UserID: "user-a", Role: domain.RoleAdmin}
)

// fakeClock returns t0 and advances one minute per call.
func fakeClock(t0 time.Time) func() time.Time {
	var mu sync.Mutex
	next := t0
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := next
		next = next.Add(time.Minute)
		return now
	}
}

var t0 = time.Date(2026, 3, 8, 9, 0, 0, 0, time.UTC)
