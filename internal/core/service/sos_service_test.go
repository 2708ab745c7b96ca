package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/yaswanth810/Women-Safety-Platform/internal/core/domain"
	"github.com/yaswanth810/Women-Safety-Platform/internal/core/ports"
)

type sosFixture struct {
	svc      *SOSService
	alerts   *stubAlertRepo
	contacts *stubContactRepo
	lock     *stubLock
	gate     *stubGate
	events   *stubEvents
	notifier *stubNotifier
}

func newSOSFixture() *sosFixture {
	f := &sosFixture{
		alerts:   newStubAlertRepo(),
		contacts: newStubContactRepo(),
		lock:     newStubLock(),
		gate:     &stubGate{},
		events:   &stubEvents{},
		notifier: &stubNotifier{failPhones: map[string]bool{}},
	}
	f.svc = NewSOSService(SOSDeps{
		Alerts:   f.alerts,
		Contacts: f.contacts,
		Lock:     f.lock,
		Gate:     f.gate,
		Events:   f.events,
		Notifier: f.notifier,
	}, zerolog.Nop())
	f.svc.now = fakeClock(t0)
	return f
}

func (f *sosFixture) addContacts(userID string, n int) {
	for i := 0; i < n; i++ {
		_ = f.contacts.Create(context.Background(), &domain.EmergencyContact{
			ID:     fmt.Sprintf("%s-c%d", userID, i),
			UserID: userID,
			Name:   fmt.Sprintf("contact %d", i),
			Phone:  fmt.Sprintf("+1555000%d", i),
		})
	}
}

func here() *domain.LocationSample {
	return &domain.LocationSample{Latitude: 28.61, Longitude: 77.20}
}

func TestSOSService_Trigger_HappyPath(t *testing.T) {
	f := newSOSFixture()
	f.addContacts(reporterR.UserID, 2)

	res, err := f.svc.Trigger(context.Background(), reporterR, ports.TriggerInput{Location: here(), Notes: "near the park"})
	if err != nil {
		t.Fatalf("trigger: %v", err)
	}

	if res.Alert.Status != domain.AlertActive {
		t.Errorf("expected active, got %s", res.Alert.Status)
	}
	if res.NotifiedCount != 2 {
		t.Errorf("expected 2 notified, got %d", res.NotifiedCount)
	}
	if len(res.Alert.NotifiedContactIDs) != 2 {
		t.Errorf("expected 2 notified ids, got %v", res.Alert.NotifiedContactIDs)
	}
	if _, err := f.alerts.FindByID(context.Background(), res.Alert.ID); err != nil {
		t.Errorf("expected alert stored: %v", err)
	}
	if len(f.events.events) != 1 || f.events.events[0] != EventAlertTriggered {
		t.Errorf("expected triggered event, got %v", f.events.events)
	}
	if f.lock.released != 1 {
		t.Errorf("expected lock released once, got %d", f.lock.released)
	}
}

func TestSOSService_Trigger_PartialFailure(t *testing.T) {
	f := newSOSFixture()
	f.addContacts(reporterR.UserID, 5)
	f.notifier.failPhones["+15550001"] = true
	f.notifier.failPhones["+15550003"] = true

	res, err := f.svc.Trigger(context.Background(), reporterR, ports.TriggerInput{Location: here()})
	if err != nil {
		t.Fatalf("partial failure must not fail the trigger: %v", err)
	}
	if res.NotifiedCount != 3 {
		t.Errorf("expected notifiedCount 3, got %d", res.NotifiedCount)
	}
	if res.Report.Failed != 2 {
		t.Errorf("expected 2 failures, got %d", res.Report.Failed)
	}

	stored, _ := f.alerts.FindByID(context.Background(), res.Alert.ID)
	if !stored.IsActive() {
		t.Error("alert must stay active after partial failure")
	}
}

func TestSOSService_Trigger_LocationRequired(t *testing.T) {
	cases := map[string]*domain.LocationSample{
		"missing":        nil,
		"latitude 91":    {Latitude: 91, Longitude: 0},
		"longitude -200": {Latitude: 0, Longitude: -200},
	}

	for name, loc := range cases {
		f := newSOSFixture()
		_, err := f.svc.Trigger(context.Background(), reporterR, ports.TriggerInput{Location: loc})
		if !errors.Is(err, domain.ErrLocationRequired) {
			t.Errorf("%s: expected ErrLocationRequired, got %v", name, err)
		}
		if len(f.alerts.byID) != 0 {
			t.Errorf("%s: no alert may be created", name)
		}
	}
}

func TestSOSService_Trigger_AlreadyActive(t *testing.T) {
	f := newSOSFixture()
	f.addContacts(reporterR.UserID, 2)

	first, err := f.svc.Trigger(context.Background(), reporterR, ports.TriggerInput{Location: here()})
	if err != nil {
		t.Fatalf("first trigger: %v", err)
	}

	// A contact added in between must not be picked up by the active alert.
	f.addContacts(reporterR.UserID, 3)

	if _, err := f.svc.Trigger(context.Background(), reporterR, ports.TriggerInput{Location: here()}); !errors.Is(err, domain.ErrAlreadyActive) {
		t.Fatalf("expected ErrAlreadyActive, got %v", err)
	}

	stored, _ := f.alerts.FindByID(context.Background(), first.Alert.ID)
	if len(stored.NotifiedContactIDs) != 2 {
		t.Errorf("notified ids changed: %v", stored.NotifiedContactIDs)
	}
	if f.notifier.calls != 1 {
		t.Errorf("expected a single fan-out, got %d", f.notifier.calls)
	}
	if len(f.alerts.byID) != 1 {
		t.Errorf("expected one alert, got %d", len(f.alerts.byID))
	}
}

func TestSOSService_Trigger_LockHeld(t *testing.T) {
	f := newSOSFixture()
	f.lock.held[reporterR.UserID] = true

	if _, err := f.svc.Trigger(context.Background(), reporterR, ports.TriggerInput{Location: here()}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestSOSService_Trigger_ReleasesLockBeforeFanOut(t *testing.T) {
	f := newSOSFixture()
	f.addContacts(reporterR.UserID, 1)

	var lockHeld bool
	var secondErr error
	f.notifier.onDispatch = func() {
		lockHeld = f.lock.held[reporterR.UserID]
		_, secondErr = f.svc.Trigger(context.Background(), reporterR, ports.TriggerInput{Location: here()})
	}

	if _, err := f.svc.Trigger(context.Background(), reporterR, ports.TriggerInput{Location: here()}); err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if lockHeld {
		t.Error("trigger lock still held during fan-out")
	}
	if !errors.Is(secondErr, domain.ErrAlreadyActive) {
		t.Errorf("expected a double press to get ErrAlreadyActive, got %v", secondErr)
	}
	if f.lock.released != 2 {
		t.Errorf("expected each trigger to release once, got %d", f.lock.released)
	}
}

func TestSOSService_Trigger_NoContacts(t *testing.T) {
	f := newSOSFixture()

	res, err := f.svc.Trigger(context.Background(), reporterR, ports.TriggerInput{Location: here()})
	if err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if res.NotifiedCount != 0 || f.notifier.calls != 0 {
		t.Errorf("expected no fan-out, got count=%d calls=%d", res.NotifiedCount, f.notifier.calls)
	}
}

func TestSOSService_Trigger_SideEffectFailuresAreNonFatal(t *testing.T) {
	f := newSOSFixture()
	f.addContacts(reporterR.UserID, 1)
	f.events.err = errors.New("stream down")

	res, err := f.svc.Trigger(context.Background(), reporterR, ports.TriggerInput{Location: here()})
	if err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if res.NotifiedCount != 1 {
		t.Errorf("expected fan-out to proceed without the stream, got %d", res.NotifiedCount)
	}
}

func TestSOSService_Deactivate(t *testing.T) {
	f := newSOSFixture()
	res, _ := f.svc.Trigger(context.Background(), reporterR, ports.TriggerInput{Location: here()})

	got, err := f.svc.Deactivate(context.Background(), reporterR, res.Alert.ID)
	if err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if got.Status != domain.AlertDeactivated || got.DeactivatedAt == nil || got.DeactivatedBy != reporterR.UserID {
		t.Errorf("unexpected alert: %+v", got)
	}
	if len(f.gate.closed) != 1 || f.gate.closed[0] != res.Alert.ID {
		t.Errorf("expected gate closed for alert, got %v", f.gate.closed)
	}

	if _, err := f.svc.Deactivate(context.Background(), reporterR, res.Alert.ID); !errors.Is(err, domain.ErrAlreadyDeactivated) {
		t.Fatalf("expected ErrAlreadyDeactivated, got %v", err)
	}

	// A new alert may be raised once the previous one is over.
	if _, err := f.svc.Trigger(context.Background(), reporterR, ports.TriggerInput{Location: here()}); err != nil {
		t.Fatalf("re-trigger after deactivation: %v", err)
	}
}

func TestSOSService_Deactivate_WriteFailureReopensGate(t *testing.T) {
	f := newSOSFixture()
	f.addContacts(reporterR.UserID, 1)
	res, _ := f.svc.Trigger(context.Background(), reporterR, ports.TriggerInput{Location: here()})

	f.alerts.updateErr = errors.New("mongo: connection reset")
	if _, err := f.svc.Deactivate(context.Background(), reporterR, res.Alert.ID); err == nil {
		t.Fatal("expected the write failure to surface")
	}

	stored, _ := f.alerts.FindByID(context.Background(), res.Alert.ID)
	if !stored.IsActive() {
		t.Errorf("alert must stay active, got %s", stored.Status)
	}
	if len(f.gate.closed) != 0 {
		t.Errorf("gate must be reopened for a still-active alert, closed=%v", f.gate.closed)
	}

	// Once storage recovers the deactivation goes through.
	f.alerts.updateErr = nil
	if _, err := f.svc.Deactivate(context.Background(), reporterR, res.Alert.ID); err != nil {
		t.Fatalf("retry deactivate: %v", err)
	}
	if len(f.gate.closed) != 1 {
		t.Errorf("expected gate closed after retry, got %v", f.gate.closed)
	}
}

func TestSOSService_Deactivate_Access(t *testing.T) {
	f := newSOSFixture()
	res, _ := f.svc.Trigger(context.Background(), reporterR, ports.TriggerInput{Location: here()})

	for _, actor := range []domain.Actor{reporterX, moderatorM} {
		if _, err := f.svc.Deactivate(context.Background(), actor, res.Alert.ID); !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("actor %s: expected ErrForbidden, got %v", actor.UserID, err)
		}
	}

	if _, err := f.svc.Deactivate(context.Background(), adminA, res.Alert.ID); err != nil {
		t.Fatalf("admin override: %v", err)
	}
}

func TestSOSService_Deactivate_NotFound(t *testing.T) {
	f := newSOSFixture()

	if _, err := f.svc.Deactivate(context.Background(), adminA, "missing"); !errors.Is(err, domain.ErrAlertNotFound) {
		t.Fatalf("expected ErrAlertNotFound, got %v", err)
	}
}

func TestSOSService_GetAndList(t *testing.T) {
	f := newSOSFixture()
	ctx := context.Background()
	res, _ := f.svc.Trigger(ctx, reporterR, ports.TriggerInput{Location: here()})
	_, _ = f.svc.Trigger(ctx, reporterX, ports.TriggerInput{Location: here()})

	if _, err := f.svc.Get(ctx, reporterX, res.Alert.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected stranger forbidden, got %v", err)
	}
	if _, err := f.svc.Get(ctx, moderatorM, res.Alert.ID); err != nil {
		t.Errorf("moderator read: %v", err)
	}

	own, err := f.svc.List(ctx, reporterR, ports.ListAlertsInput{Scope: ports.ScopeOwn, ActiveOnly: true})
	if err != nil || len(own) != 1 {
		t.Fatalf("own active alerts: got %d (err %v)", len(own), err)
	}

	if _, err := f.svc.List(ctx, reporterR, ports.ListAlertsInput{Scope: ports.ScopeAll}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected reporter forbidden from scope=all, got %v", err)
	}
	all, err := f.svc.List(ctx, adminA, ports.ListAlertsInput{Scope: ports.ScopeAll})
	if err != nil || len(all) != 2 {
		t.Fatalf("all alerts: got %d (err %v)", len(all), err)
	}
}
