package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/yaswanth810/Women-Safety-Platform/internal/api/metrics"
	"github.com/yaswanth810/Women-Safety-Platform/internal/core/domain"
	"github.com/yaswanth810/Women-Safety-Platform/internal/core/ports"
)

const (
	defaultWorkers        = 8
	defaultAttemptTimeout = 10 * time.Second
	recordTimeout         = 5 * time.Second
)

var errNoChannel = errors.New("no channel can reach contact")

// Gate reports whether an alert has been deactivated.
type Gate interface {
	IsClosed(ctx context.Context, alertID string) (bool, error)
}

// Config bounds the fan-out.
type Config struct {
	// Workers is the maximum number of contacts attempted concurrently.
	Workers int
	// AckTimeout is how long Dispatch waits before reporting unfinished
	// attempts as pending. Zero waits for every attempt.
	AckTimeout time.Duration
	// AttemptTimeout caps a single channel send.
	AttemptTimeout time.Duration
}

// Dispatcher fans an alert out to a contact list. Each contact is attempted
// independently on the configured channels, in order, until one accepts.
type Dispatcher struct {
	cfg      Config
	channels []Channel
	gate     Gate
	recorder ports.NotificationLog
	log      zerolog.Logger
	now      func() time.Time

	inflight sync.WaitGroup
}

// NewDispatcher builds a Dispatcher. gate and recorder may be nil.
func NewDispatcher(cfg Config, channels []Channel, gate Gate, recorder ports.NotificationLog, log zerolog.Logger) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = defaultAttemptTimeout
	}
	return &Dispatcher{
		cfg:      cfg,
		channels: channels,
		gate:     gate,
		recorder: recorder,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type indexedOutcome struct {
	index   int
	outcome domain.NotificationOutcome
}

// Dispatch attempts every contact and returns once all attempts finished or
// the acknowledgement deadline passed, whichever comes first. Attempts run on
// a context detached from ctx so a client disconnect never aborts them.
func (d *Dispatcher) Dispatch(ctx context.Context, alert *domain.SOSAlert, contacts []domain.EmergencyContact) domain.DispatchReport {
	started := time.Now()
	base := context.WithoutCancel(ctx)
	results := make(chan indexedOutcome, len(contacts))

	d.inflight.Add(1)
	go func() {
		defer d.inflight.Done()
		defer close(results)

		var g errgroup.Group
		g.SetLimit(d.cfg.Workers)
		for i, contact := range contacts {
			g.Go(func() error {
				results <- indexedOutcome{index: i, outcome: d.attempt(base, alert, contact)}
				return nil
			})
		}
		_ = g.Wait()
	}()

	var deadline <-chan time.Time
	if d.cfg.AckTimeout > 0 {
		timer := time.NewTimer(d.cfg.AckTimeout)
		defer timer.Stop()
		deadline = timer.C
	}

	outcomes := make([]domain.NotificationOutcome, len(contacts))
	finished := make([]bool, len(contacts))
	received := 0

collect:
	for received < len(contacts) {
		select {
		case r, ok := <-results:
			if !ok {
				break collect
			}
			outcomes[r.index] = r.outcome
			finished[r.index] = true
			received++
		case <-deadline:
			break collect
		}
	}

	report := domain.DispatchReport{Outcomes: make([]domain.NotificationOutcome, 0, len(contacts))}
	done := make([]domain.NotificationOutcome, 0, received)
	for i, contact := range contacts {
		o := outcomes[i]
		if finished[i] {
			done = append(done, o)
		} else {
			o = domain.NotificationOutcome{
				AlertID:     alert.ID,
				ContactID:   contact.ID,
				Status:      domain.NotificationPending,
				AttemptedAt: d.now(),
			}
		}
		report.Add(o)
	}
	d.record(base, done)

	outcome := "complete"
	if report.Pending > 0 {
		outcome = "partial"
		d.drain(base, alert.ID, results)
	}
	metrics.DispatchDuration.WithLabelValues(outcome).Observe(time.Since(started).Seconds())

	return report
}

// drain collects attempts that outlived the acknowledgement deadline.
func (d *Dispatcher) drain(ctx context.Context, alertID string, results <-chan indexedOutcome) {
	d.inflight.Add(1)
	go func() {
		defer d.inflight.Done()

		late := make([]domain.NotificationOutcome, 0)
		for r := range results {
			late = append(late, r.outcome)
			d.log.Info().
				Str("alert_id", alertID).
				Str("contact_id", r.outcome.ContactID).
				Str("channel", r.outcome.Channel).
				Str("status", string(r.outcome.Status)).
				Msg("late notification attempt finished")
		}
		d.record(ctx, late)
	}()
}

// Wait blocks until every background attempt has finished.
func (d *Dispatcher) Wait() {
	d.inflight.Wait()
}

func (d *Dispatcher) attempt(ctx context.Context, alert *domain.SOSAlert, contact domain.EmergencyContact) domain.NotificationOutcome {
	outcome := domain.NotificationOutcome{AlertID: alert.ID, ContactID: contact.ID}
	msg := newMessage(alert, contact)
	lastErr := errNoChannel

	for _, ch := range d.channels {
		if !ch.Supports(contact) {
			continue
		}
		if d.closed(ctx, alert.ID) {
			outcome.Status = domain.NotificationSkipped
			outcome.Error = "alert deactivated"
			outcome.AttemptedAt = d.now()
			metrics.NotificationAttemptsTotal.WithLabelValues(ch.Name(), string(domain.NotificationSkipped)).Inc()
			return outcome
		}

		outcome.Channel = ch.Name()
		outcome.AttemptedAt = d.now()
		err := d.send(ctx, ch, msg)
		if err == nil {
			outcome.Status = domain.NotificationAccepted
			outcome.Error = ""
			metrics.NotificationAttemptsTotal.WithLabelValues(ch.Name(), string(domain.NotificationAccepted)).Inc()
			return outcome
		}

		lastErr = err
		metrics.NotificationAttemptsTotal.WithLabelValues(ch.Name(), string(domain.NotificationFailed)).Inc()
		d.log.Warn().Err(err).
			Str("alert_id", alert.ID).
			Str("contact_id", contact.ID).
			Str("channel", ch.Name()).
			Msg("notification attempt failed")
	}

	if outcome.AttemptedAt.IsZero() {
		outcome.AttemptedAt = d.now()
	}
	outcome.Status = domain.NotificationFailed
	outcome.Error = lastErr.Error()
	return outcome
}

// send runs one channel attempt under the per-attempt timeout. A panicking
// channel is reported as a failed attempt.
func (d *Dispatcher) send(ctx context.Context, ch Channel, msg Message) (err error) {
	ctx, cancel := context.WithTimeout(ctx, d.cfg.AttemptTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s channel panicked: %v", ch.Name(), r)
		}
	}()
	return ch.Send(ctx, msg)
}

func (d *Dispatcher) closed(ctx context.Context, alertID string) bool {
	if d.gate == nil {
		return false
	}
	closed, err := d.gate.IsClosed(ctx, alertID)
	if err != nil {
		d.log.Warn().Err(err).Str("alert_id", alertID).Msg("alert gate unavailable, attempting anyway")
		return false
	}
	return closed
}

func (d *Dispatcher) record(ctx context.Context, outcomes []domain.NotificationOutcome) {
	if d.recorder == nil || len(outcomes) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, recordTimeout)
	defer cancel()

	if err := d.recorder.Record(ctx, outcomes); err != nil {
		d.log.Warn().Err(err).Int("outcomes", len(outcomes)).Msg("failed to record notification outcomes")
	}
}
