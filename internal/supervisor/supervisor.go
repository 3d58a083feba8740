// Package supervisor owns the hot-reload lifecycle: it reacts to change
// notifications, runs candidate loads off the hot path, and atomically
// publishes successful snapshots. Consumers keep reading the previous
// snapshot for the whole duration of a reload, failed or not.
package supervisor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zjrosen/starforge/internal/data/pipeline"
	"github.com/zjrosen/starforge/internal/data/registry"
	"github.com/zjrosen/starforge/internal/data/validate"
	"github.com/zjrosen/starforge/internal/log"
	"github.com/zjrosen/starforge/internal/pubsub"
)

// State is the supervisor's lifecycle phase.
type State string

const (
	// StateIdle means no load is in flight.
	StateIdle State = "idle"
	// StateLoading means a candidate load is running.
	StateLoading State = "loading"
	// StatePublishing means a candidate passed and is being swapped in.
	StatePublishing State = "publishing"
)

// Trigger identifies what started a load.
type Trigger string

const (
	TriggerStartup Trigger = "startup"
	TriggerWatch   Trigger = "watch"
	TriggerManual  Trigger = "manual"
)

// Outcome classifies how a load ended.
type Outcome string

const (
	OutcomePublished  Outcome = "published"
	OutcomeFailed     Outcome = "failed"
	OutcomeSuperseded Outcome = "superseded"
)

// LoadReport summarizes one finished load attempt. It is the payload of
// reload events and the row shape recorded to load history.
type LoadReport struct {
	RunID      uuid.UUID
	Trigger    Trigger
	Outcome    Outcome
	Fatals     int
	Advisories int
	Duration   time.Duration
	FinishedAt time.Time
	Err        string
}

// Recorder persists finished load attempts. Implementations must tolerate
// being called from the supervisor goroutine; failures are logged, never
// propagated into the reload path.
type Recorder interface {
	RecordLoad(ctx context.Context, report LoadReport) error
}

// Supervisor drives reloads against a loader and publishes into a handle.
type Supervisor struct {
	loader   *pipeline.Loader
	handle   *registry.Handle
	events   *pubsub.Broker[LoadReport]
	recorder Recorder

	mu    sync.Mutex
	state State
}

// New creates a supervisor. recorder may be nil to disable load history.
func New(loader *pipeline.Loader, handle *registry.Handle, recorder Recorder) *Supervisor {
	return &Supervisor{
		loader:   loader,
		handle:   handle,
		events:   pubsub.NewBroker[LoadReport](),
		recorder: recorder,
		state:    StateIdle,
	}
}

// Events exposes the reload event stream.
func (s *Supervisor) Events() *pubsub.Broker[LoadReport] {
	return s.events
}

// State returns the current lifecycle phase.
func (s *Supervisor) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Supervisor) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// Start runs the initial load and publishes it. Unlike reloads, a startup
// failure is terminal: there is no previous snapshot to keep serving.
func (s *Supervisor) Start(ctx context.Context) error {
	s.setState(StateLoading)
	started := time.Now()
	snap, err := s.loader.Load(ctx)
	if err != nil {
		s.setState(StateIdle)
		s.report(ctx, failureReport(TriggerStartup, started, err))
		return err
	}
	s.publish(ctx, snap, TriggerStartup, started)
	return nil
}

// Reload runs one load immediately, outside the watch loop. Used by manual
// reload triggers. A failed reload leaves the current snapshot in place.
func (s *Supervisor) Reload(ctx context.Context) error {
	s.setState(StateLoading)
	started := time.Now()
	snap, err := s.loader.Load(ctx)
	if err != nil {
		s.setState(StateIdle)
		s.report(ctx, failureReport(TriggerManual, started, err))
		return err
	}
	s.publish(ctx, snap, TriggerManual, started)
	return nil
}

type loadResult struct {
	snap    *registry.Snapshot
	err     error
	started time.Time
}

// Run consumes change notifications until ctx is cancelled. Each
// notification starts a candidate load; a notification arriving while a
// load is in flight cancels that load and starts over with the newest state
// of the files (latest wins).
func (s *Supervisor) Run(ctx context.Context, changes <-chan struct{}) {
	var (
		inflight chan loadResult
		cancel   context.CancelFunc
	)
	abandon := func() {
		if cancel != nil {
			cancel()
			cancel = nil
		}
		inflight = nil
	}

	for {
		select {
		case <-ctx.Done():
			abandon()
			return

		case _, ok := <-changes:
			if !ok {
				abandon()
				return
			}
			if inflight != nil {
				log.Info(log.CatReload, "change during load, restarting")
				s.events.Publish(pubsub.ReloadSuperseded, LoadReport{
					Trigger:    TriggerWatch,
					Outcome:    OutcomeSuperseded,
					FinishedAt: time.Now(),
				})
				abandon()
			}

			loadCtx, loadCancel := context.WithCancel(ctx)
			cancel = loadCancel
			result := make(chan loadResult, 1)
			inflight = result
			s.setState(StateLoading)
			started := time.Now()
			go func() {
				snap, err := s.loader.Load(loadCtx)
				result <- loadResult{snap: snap, err: err, started: started}
			}()

		case res := <-inflight:
			abandon()
			switch {
			case errors.Is(res.err, pipeline.ErrSuperseded):
				// Already reported when the newer change arrived.
				s.setState(StateIdle)
			case res.err != nil:
				s.setState(StateIdle)
				s.report(ctx, failureReport(TriggerWatch, res.started, res.err))
				log.Warn(log.CatReload, "reload failed, keeping current snapshot", "error", res.err.Error())
			default:
				s.publish(ctx, res.snap, TriggerWatch, res.started)
			}
		}
	}
}

// publish swaps the snapshot in and notifies subscribers.
func (s *Supervisor) publish(ctx context.Context, snap *registry.Snapshot, trigger Trigger, started time.Time) {
	s.setState(StatePublishing)
	s.handle.Publish(snap)
	s.setState(StateIdle)

	report := LoadReport{
		RunID:      snap.RunID,
		Trigger:    trigger,
		Outcome:    OutcomePublished,
		Advisories: len(snap.Diagnostics),
		Duration:   time.Since(started),
		FinishedAt: time.Now(),
	}
	s.report(ctx, report)
	log.Info(log.CatReload, "snapshot published",
		"run", snap.RunID.String(),
		"trigger", string(trigger),
		"advisory", report.Advisories)
}

func (s *Supervisor) report(ctx context.Context, report LoadReport) {
	eventType := pubsub.SnapshotPublished
	if report.Outcome != OutcomePublished {
		eventType = pubsub.ReloadFailed
	}
	s.events.Publish(eventType, report)

	if s.recorder == nil {
		return
	}
	// Recording history must not block or fail the reload path.
	if err := s.recorder.RecordLoad(context.WithoutCancel(ctx), report); err != nil {
		log.ErrorErr(log.CatDB, "record load history", err)
	}
}

func failureReport(trigger Trigger, started time.Time, err error) LoadReport {
	report := LoadReport{
		Trigger:    trigger,
		Outcome:    OutcomeFailed,
		Duration:   time.Since(started),
		FinishedAt: time.Now(),
		Err:        err.Error(),
	}
	var fatal *pipeline.FatalError
	if errors.As(err, &fatal) {
		report.Fatals = validate.Count(fatal.Diagnostics, validate.SeverityFatal)
		report.Advisories = validate.Count(fatal.Diagnostics, validate.SeverityAdvisory)
	}
	return report
}
