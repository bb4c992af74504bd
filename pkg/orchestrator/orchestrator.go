package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tagwatch/tagwatch-go/pkg/processor"
	"github.com/tagwatch/tagwatch-go/pkg/sensor"
	"github.com/tagwatch/tagwatch-go/pkg/store"
	"github.com/tagwatch/tagwatch-go/pkg/subscription"
)

// Source is the part of the store the orchestrator uses.
type Source interface {
	Watch(ctx context.Context) (<-chan store.Snapshot, error)
	GetByID(ctx context.Context, id string) (subscription.Subscription, error)
	Delete(ctx context.Context, id string) error
}

// Reconciler starts and stops physical sensors.
type Reconciler interface {
	Reconcile(ctx context.Context, required sensor.KindSet) sensor.KindSet
	Shutdown(ctx context.Context)
}

// Factory builds the processor for a subscription.
type Factory func(sub subscription.Subscription, env processor.Env) processor.Processor

// Config holds orchestrator collaborators.
type Config struct {
	Source     Source
	Supervisor Reconciler

	// Env is passed to every processor.
	Env processor.Env

	// NewProcessor defaults to processor.New.
	NewProcessor Factory

	// Logger for lifecycle and soft failures. Nil discards.
	Logger *slog.Logger

	// Clock decides subscription expiry. Nil uses time.Now.
	Clock func() time.Time
}

type command struct {
	id    string
	reply chan error
}

// Orchestrator keeps processors and sensors in step with the stored
// subscriptions.
type Orchestrator struct {
	config Config
	logger *slog.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
	cmds    chan command

	// Owned by the loop goroutine.
	active     []subscription.Subscription
	processors map[string]processor.Processor
	lastList   []subscription.Subscription
	required   sensor.KindSet
	sensors    sensor.KindSet
	rebuilds   int
	lastAt     time.Time

	status atomic.Pointer[Status]
}

// New creates an orchestrator. Call Initialize to start it.
func New(cfg Config) *Orchestrator {
	if cfg.NewProcessor == nil {
		cfg.NewProcessor = processor.New
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Env.Logger == nil {
		cfg.Env.Logger = logger
	}

	o := &Orchestrator{
		config:     cfg,
		logger:     logger,
		processors: make(map[string]processor.Processor),
	}
	o.status.Store(&Status{})
	return o
}

// Initialize starts watching the source. The first list arrives
// asynchronously and triggers the first rebuild.
func (o *Orchestrator) Initialize(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.running {
		return ErrAlreadyRunning
	}

	loopCtx, cancel := context.WithCancel(ctx)
	snapshots, err := o.config.Source.Watch(loopCtx)
	if err != nil {
		cancel()
		return fmt.Errorf("orchestrator: watch subscriptions: %w", err)
	}

	o.cancel = cancel
	o.done = make(chan struct{})
	o.cmds = make(chan command)
	o.running = true

	go o.loop(loopCtx, snapshots, o.cmds, o.done)
	o.logger.Info("orchestrator initialized")
	return nil
}

// RemoveSubscription deletes id from the store and from the active set,
// then reconciles sensors. It returns once the removal has been applied.
func (o *Orchestrator) RemoveSubscription(ctx context.Context, id string) error {
	o.mu.Lock()
	running, cmds, done := o.running, o.cmds, o.done
	o.mu.Unlock()

	if !running {
		return ErrNotRunning
	}

	cmd := command{id: id, reply: make(chan error, 1)}
	select {
	case cmds <- cmd:
	case <-done:
		return ErrNotRunning
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-cmd.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops all processors and sensors and clears state. Calling it
// more than once is safe.
func (o *Orchestrator) Shutdown() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.running {
		return
	}

	o.cancel()
	<-o.done
	o.running = false
	o.cancel = nil
	o.logger.Info("orchestrator shut down")
}

// Subscriptions returns a copy of the active subscriptions.
func (o *Orchestrator) Subscriptions() []subscription.Subscription {
	return subscription.CloneAll(o.status.Load().Subscriptions)
}

// Status returns the latest published status.
func (o *Orchestrator) Status() Status {
	st := *o.status.Load()
	st.Subscriptions = subscription.CloneAll(st.Subscriptions)
	st.Processors = append([]ProcessorStatus(nil), st.Processors...)
	return st
}

func (o *Orchestrator) loop(ctx context.Context, snapshots <-chan store.Snapshot, cmds <-chan command, done chan struct{}) {
	defer close(done)

	var expiry *time.Timer
	var expiryC <-chan time.Time
	defer func() {
		if expiry != nil {
			expiry.Stop()
		}
	}()

	o.publish(true)

	for {
		select {
		case <-ctx.Done():
			o.teardown()
			return

		case snap, ok := <-snapshots:
			if !ok {
				// Store closed; keep serving the last known list.
				o.logger.Warn("subscription source closed, keeping last known subscriptions")
				snapshots = nil
				continue
			}
			if snap.Err != nil {
				o.logger.Warn("subscription reload failed, keeping last known subscriptions", "error", snap.Err)
				continue
			}
			o.lastList = snap.Subscriptions
			o.rebuild(ctx, snap.Subscriptions)

		case <-expiryC:
			o.logger.Debug("subscription expired, rebuilding")
			o.rebuild(ctx, o.lastList)

		case cmd := <-cmds:
			cmd.reply <- o.remove(ctx, cmd.id)
		}

		if expiry != nil {
			expiry.Stop()
			expiry, expiryC = nil, nil
		}
		if d, ok := o.nextExpiry(); ok {
			expiry = time.NewTimer(d)
			expiryC = expiry.C
		}
	}
}

// rebuild replaces every processor with a fresh one per active subscription.
func (o *Orchestrator) rebuild(ctx context.Context, list []subscription.Subscription) {
	for id, p := range o.processors {
		p.StopProcessing()
		delete(o.processors, id)
	}

	now := o.config.Clock()
	active := make([]subscription.Subscription, 0, len(list))
	for _, sub := range list {
		if !sub.ActiveAt(now) {
			continue
		}
		if _, dup := o.processors[sub.ID]; dup {
			o.logger.Warn("duplicate subscription id in list, ignoring", "subscription_id", sub.ID)
			continue
		}
		o.processors[sub.ID] = o.startProcessor(sub)
		active = append(active, sub.Clone())
	}
	o.active = active

	o.rebuilds++
	o.lastAt = now
	o.reconcile(ctx)

	o.logger.Debug("subscriptions rebuilt",
		"subscriptions", len(list),
		"active", len(o.active),
		"required", o.required.String(),
		"sensors", o.sensors.String())
}

// startProcessor builds and starts the processor for sub. A panicking
// factory or start degrades to a Noop.
func (o *Orchestrator) startProcessor(sub subscription.Subscription) (p processor.Processor) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("processor start panicked, using noop processor",
				"subscription_id", sub.ID, "panic", fmt.Sprint(r))
			p = processor.NewNoop(sub.ID)
		}
	}()

	p = o.config.NewProcessor(sub, o.config.Env)
	p.StartProcessing()
	return p
}

func (o *Orchestrator) remove(ctx context.Context, id string) error {
	var persistErr error

	_, err := o.config.Source.GetByID(ctx, id)
	inStore := err == nil
	switch {
	case err == nil:
		if err := o.config.Source.Delete(ctx, id); err != nil {
			o.logger.Warn("failed to delete subscription from store", "subscription_id", id, "error", err)
			persistErr = err
		}
	case errors.Is(err, store.ErrNotFound):
	default:
		o.logger.Warn("failed to load subscription from store", "subscription_id", id, "error", err)
		persistErr = err
	}

	idx := -1
	for i, sub := range o.active {
		if sub.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 && !inStore {
		if persistErr != nil {
			return fmt.Errorf("%w: %w", ErrPersistence, persistErr)
		}
		return fmt.Errorf("%w: %s", ErrSubscriptionNotFound, id)
	}

	if idx >= 0 {
		o.active = append(o.active[:idx:idx], o.active[idx+1:]...)
	}
	if p, ok := o.processors[id]; ok {
		p.StopProcessing()
		delete(o.processors, id)
	}
	o.lastList = withoutID(o.lastList, id)

	if len(o.active) == 0 {
		o.config.Supervisor.Shutdown(ctx)
		o.required, o.sensors = 0, 0
		o.publish(true)
	} else {
		o.reconcile(ctx)
	}
	o.logger.Info("subscription removed", "subscription_id", id, "remaining", len(o.active))

	if persistErr != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, persistErr)
	}
	return nil
}

func (o *Orchestrator) reconcile(ctx context.Context) {
	o.required = subscription.RequiredSensorsAll(o.active)
	o.sensors = o.config.Supervisor.Reconcile(ctx, o.required)
	o.publish(true)
}

// teardown stops everything. The loop context is already cancelled, so the
// supervisor gets a fresh one.
func (o *Orchestrator) teardown() {
	for id, p := range o.processors {
		p.StopProcessing()
		delete(o.processors, id)
	}
	o.active = nil
	o.lastList = nil
	o.required = 0
	o.config.Supervisor.Shutdown(context.Background())
	o.sensors = 0
	o.publish(false)
}

func (o *Orchestrator) nextExpiry() (time.Duration, bool) {
	now := o.config.Clock()
	var next time.Time
	for _, sub := range o.active {
		if sub.ExpiresAt == nil || !sub.ExpiresAt.After(now) {
			continue
		}
		if next.IsZero() || sub.ExpiresAt.Before(next) {
			next = *sub.ExpiresAt
		}
	}
	if next.IsZero() {
		return 0, false
	}
	return next.Sub(now), true
}

func (o *Orchestrator) publish(running bool) {
	st := &Status{
		Running:         running,
		Subscriptions:   subscription.CloneAll(o.active),
		Processors:      make([]ProcessorStatus, 0, len(o.active)),
		RequiredSensors: o.required,
		ActiveSensors:   o.sensors,
		Rebuilds:        o.rebuilds,
		LastRebuild:     o.lastAt,
	}
	for _, sub := range o.active {
		if p, ok := o.processors[sub.ID]; ok {
			st.Processors = append(st.Processors, describe(sub, p))
		}
	}
	o.status.Store(st)
}

func withoutID(list []subscription.Subscription, id string) []subscription.Subscription {
	out := make([]subscription.Subscription, 0, len(list))
	for _, sub := range list {
		if sub.ID != id {
			out = append(out, sub)
		}
	}
	return out
}
