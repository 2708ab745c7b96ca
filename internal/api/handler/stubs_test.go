package handler

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/yaswanth810/Women-Safety-Platform/internal/api/middleware"
	"github.com/yaswanth810/Women-Safety-Platform/internal/core/domain"
	"github.com/yaswanth810/Women-Safety-Platform/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Request helpers
// ---------------------------------------------------------------------------

func newContext(method, target string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withActor(c echo.Context, userID string, role domain.Role) echo.Context {
	c.Set(middleware.ContextUserID, userID)
	c.Set(middleware.ContextRole, string(role))
	return c
}

func expectHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError %d, got %v", code, err)
	}
	if he.Code != code {
		t.Fatalf("expected status %d, got %d (%v)", code, he.Code, he.Message)
	}
}

// ---------------------------------------------------------------------------
// Service stubs
// ---------------------------------------------------------------------------

type stubAuthService struct {
	registerFn      func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn         func(ctx context.Context, email, password string) (string, *domain.User, error)
	profileFn       func(ctx context.Context, actor domain.Actor) (*domain.User, error)
	updateProfileFn func(ctx context.Context, actor domain.Actor, in ports.ProfileInput) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Provision(context.Context, ports.ProvisionInput) (*domain.User, bool, error) {
	return nil, false, errors.New("not used")
}

func (s *stubAuthService) Profile(ctx context.Context, actor domain.Actor) (*domain.User, error) {
	return s.profileFn(ctx, actor)
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, actor domain.Actor, in ports.ProfileInput) (*domain.User, error) {
	return s.updateProfileFn(ctx, actor, in)
}

type stubContactService struct {
	addFn    func(ctx context.Context, actor domain.Actor, in ports.ContactInput) (*domain.EmergencyContact, error)
	listFn   func(ctx context.Context, actor domain.Actor) ([]domain.EmergencyContact, error)
	removeFn func(ctx context.Context, actor domain.Actor, id string) error
}

func (s *stubContactService) Add(ctx context.Context, actor domain.Actor, in ports.ContactInput) (*domain.EmergencyContact, error) {
	return s.addFn(ctx, actor, in)
}

func (s *stubContactService) List(ctx context.Context, actor domain.Actor) ([]domain.EmergencyContact, error) {
	return s.listFn(ctx, actor)
}

func (s *stubContactService) Remove(ctx context.Context, actor domain.Actor, id string) error {
	return s.removeFn(ctx, actor, id)
}

type stubIncidentService struct {
	createFn    func(ctx context.Context, actor domain.Actor, in ports.CreateIncidentInput) (*ports.IncidentResult, error)
	getFn       func(ctx context.Context, actor domain.Actor, id string) (*domain.IncidentCase, error)
	listFn      func(ctx context.Context, actor domain.Actor, in ports.ListIncidentsInput) ([]domain.IncidentCase, error)
	evidenceFn  func(ctx context.Context, actor domain.Actor, id, ref string) (*domain.IncidentCase, error)
	setStatusFn func(ctx context.Context, actor domain.Actor, id string, in ports.SetStatusInput) (*domain.IncidentCase, error)
}

func (s *stubIncidentService) Create(ctx context.Context, actor domain.Actor, in ports.CreateIncidentInput) (*ports.IncidentResult, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubIncidentService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.IncidentCase, error) {
	return s.getFn(ctx, actor, id)
}

func (s *stubIncidentService) List(ctx context.Context, actor domain.Actor, in ports.ListIncidentsInput) ([]domain.IncidentCase, error) {
	return s.listFn(ctx, actor, in)
}

func (s *stubIncidentService) AppendEvidence(ctx context.Context, actor domain.Actor, id, ref string) (*domain.IncidentCase, error) {
	return s.evidenceFn(ctx, actor, id, ref)
}

func (s *stubIncidentService) SetStatus(ctx context.Context, actor domain.Actor, id string, in ports.SetStatusInput) (*domain.IncidentCase, error) {
	return s.setStatusFn(ctx, actor, id, in)
}

type stubSOSService struct {
	triggerFn    func(ctx context.Context, actor domain.Actor, in ports.TriggerInput) (*ports.TriggerResult, error)
	deactivateFn func(ctx context.Context, actor domain.Actor, id string) (*domain.SOSAlert, error)
	getFn        func(ctx context.Context, actor domain.Actor, id string) (*domain.SOSAlert, error)
	listFn       func(ctx context.Context, actor domain.Actor, in ports.ListAlertsInput) ([]domain.SOSAlert, error)
}

func (s *stubSOSService) Trigger(ctx context.Context, actor domain.Actor, in ports.TriggerInput) (*ports.TriggerResult, error) {
	return s.triggerFn(ctx, actor, in)
}

func (s *stubSOSService) Deactivate(ctx context.Context, actor domain.Actor, id string) (*domain.SOSAlert, error) {
	return s.deactivateFn(ctx, actor, id)
}

func (s *stubSOSService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.SOSAlert, error) {
	return s.getFn(ctx, actor, id)
}

func (s *stubSOSService) List(ctx context.Context, actor domain.Actor, in ports.ListAlertsInput) ([]domain.SOSAlert, error) {
	return s.listFn(ctx, actor, in)
}

type stubAnalyticsService struct {
	hotspotsFn func(ctx context.Context, actor domain.Actor, filter domain.HotspotFilter) ([]domain.HotspotPoint, error)
	statsFn    func(ctx context.Context, actor domain.Actor) (*ports.PlatformStats, error)
}

func (s *stubAnalyticsService) Hotspots(ctx context.Context, actor domain.Actor, filter domain.HotspotFilter) ([]domain.HotspotPoint, error) {
	return s.hotspotsFn(ctx, actor, filter)
}

func (s *stubAnalyticsService) Stats(ctx context.Context, actor domain.Actor) (*ports.PlatformStats, error) {
	return s.statsFn(ctx, actor)
}
