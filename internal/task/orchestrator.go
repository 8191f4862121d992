package task

import (
	"context"
	"sync"
	"time"

	"github.com/robalyx/dolmetscher/internal/ai"
	"github.com/robalyx/dolmetscher/internal/backtranslate"
	"github.com/robalyx/dolmetscher/internal/glossary"
	"github.com/robalyx/dolmetscher/internal/profile"
	"github.com/robalyx/dolmetscher/internal/setup/config"
	"go.uber.org/zap"
)

// Default orchestrator settings.
const (
	DefaultCapacity       = 3
	DefaultDebounceDelay  = time.Second
	DefaultTimerTick      = time.Second
	DefaultRequestTimeout = 90 * time.Second
)

// Session provides the current profile's credentials.
type Session interface {
	Credentials(ctx context.Context) (profile.Credentials, error)
}

// PersonaResolver validates persona ids.
type PersonaResolver interface {
	ModelFor(id string) (string, error)
}

// Translator produces the primary German translation.
type Translator interface {
	Translate(ctx context.Context, credential, personaID, source string, entries []glossary.Entry) (string, error)
}

// BackTranslator verifies a German text by translating it back.
type BackTranslator interface {
	BackTranslate(ctx context.Context, creds backtranslate.Credentials, text string) backtranslate.Result
}

// Transformer rewrites a text with one of the post-edit transforms.
type Transformer interface {
	Transform(ctx context.Context, credential string, kind ai.TransformKind, text string) (string, error)
}

// Deps are the collaborators of an Orchestrator.
type Deps struct {
	Personas       PersonaResolver
	Translator     Translator
	BackTranslator BackTranslator
	Transformer    Transformer
}

// Options configures an Orchestrator. Zero values use the defaults.
type Options struct {
	Capacity       int
	DebounceDelay  time.Duration
	TimerCap       time.Duration
	TimerTick      time.Duration
	RequestTimeout time.Duration
	Listener       Listener
	Now            func() time.Time
}

// OptionsFromConfig builds Options from the assistant configuration.
func OptionsFromConfig(cfg *config.AssistantConfig) Options {
	return Options{
		Capacity:       cfg.Slots,
		DebounceDelay:  time.Duration(cfg.DebounceDelay) * time.Millisecond,
		TimerCap:       time.Duration(cfg.TimerCap) * time.Millisecond,
		TimerTick:      time.Duration(cfg.TimerTick) * time.Millisecond,
		RequestTimeout: time.Duration(cfg.RequestTimeout) * time.Millisecond,
	}
}

func (o *Options) applyDefaults() {
	if o.Capacity < 1 {
		o.Capacity = DefaultCapacity
	}
	if o.DebounceDelay <= 0 {
		o.DebounceDelay = DefaultDebounceDelay
	}
	if o.TimerCap <= 0 {
		o.TimerCap = DefaultTimerCap
	}
	if o.TimerTick <= 0 {
		o.TimerTick = DefaultTimerTick
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = DefaultRequestTimeout
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Orchestrator owns a fixed pool of slots. Slot 1 is always active.
type Orchestrator struct {
	deps   Deps
	opts   Options
	logger *zap.Logger

	// mu guards slot activation. Slot contents are guarded by each slot.
	mu    sync.Mutex
	slots []*Slot

	ctx    context.Context
	cancel context.CancelFunc
	// pending tracks scheduled and running verifications.
	pending sync.WaitGroup
	ticker  *time.Ticker
	done    chan struct{}
	closed  sync.Once
}

// NewOrchestrator creates an Orchestrator and starts its timer loop.
// Close must be called to release it.
func NewOrchestrator(deps Deps, opts Options, logger *zap.Logger) *Orchestrator {
	opts.applyDefaults()

	slots := make([]*Slot, opts.Capacity)
	for i := range slots {
		slots[i] = newSlot(i+1, opts.TimerCap)
	}

	ctx, cancel := context.WithCancel(context.Background())
	o := &Orchestrator{
		deps:   deps,
		opts:   opts,
		logger: logger.Named("orchestrator"),
		slots:  slots,
		ctx:    ctx,
		cancel: cancel,
		ticker: time.NewTicker(opts.TimerTick),
		done:   make(chan struct{}),
	}

	go o.tickLoop()
	return o
}

// Capacity returns the number of slots.
func (o *Orchestrator) Capacity() int {
	return len(o.slots)
}

// Add activates the lowest hidden slot and returns its id.
// It returns false when every slot is active.
func (o *Orchestrator) Add() (int, bool) {
	o.mu.Lock()
	var added *Slot
	for _, s := range o.slots[1:] {
		s.mu.Lock()
		if !s.active {
			s.active = true
			added = s
		}
		s.mu.Unlock()
		if added != nil {
			break
		}
	}
	o.mu.Unlock()

	if added == nil {
		return 0, false
	}

	o.logger.Debug("Added slot", zap.Int("slot", added.id))
	o.emit(EventSlotAdded, added)
	return added.id, true
}

// Remove hides and wipes a slot. Slot 1, out of range and hidden ids return false.
func (o *Orchestrator) Remove(id int) bool {
	if id == FirstSlotID || id < 1 || id > len(o.slots) {
		return false
	}

	o.mu.Lock()
	s := o.slots[id-1]
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		o.mu.Unlock()
		return false
	}
	s.active = false
	o.releaseDebounce(s.resetLocked())
	s.mu.Unlock()
	o.mu.Unlock()

	o.logger.Debug("Removed slot", zap.Int("slot", id))
	o.emit(EventSlotRemoved, s)
	return true
}

// ListActive returns the ids of the active slots in ascending order.
func (o *Orchestrator) ListActive() []int {
	o.mu.Lock()
	defer o.mu.Unlock()

	ids := make([]int, 0, len(o.slots))
	for _, s := range o.slots {
		s.mu.Lock()
		if s.active {
			ids = append(ids, s.id)
		}
		s.mu.Unlock()
	}
	return ids
}

// IsMultiColumn reports whether more than one slot is active.
func (o *Orchestrator) IsMultiColumn() bool {
	return len(o.ListActive()) > 1
}

// CanAdd reports whether another slot can be activated.
func (o *Orchestrator) CanAdd() bool {
	return len(o.ListActive()) < len(o.slots)
}

// Snapshot returns a copy of an active slot.
func (o *Orchestrator) Snapshot(id int) (Snapshot, error) {
	s, err := o.slot(id)
	if err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(o.opts.Now()), nil
}

// Snapshots returns copies of all active slots in ascending order.
func (o *Orchestrator) Snapshots() []Snapshot {
	ids := o.ListActive()
	snaps := make([]Snapshot, 0, len(ids))
	for _, id := range ids {
		if snap, err := o.Snapshot(id); err == nil {
			snaps = append(snaps, snap)
		}
	}
	return snaps
}

// Close stops every timer and pending verification and waits for running ones.
func (o *Orchestrator) Close() {
	o.closed.Do(func() {
		o.cancel()
		o.ticker.Stop()
		close(o.done)

		for _, s := range o.slots {
			s.mu.Lock()
			o.releaseDebounce(s.cancelDebounceLocked())
			s.timer.Reset()
			s.mu.Unlock()
		}

		o.pending.Wait()
	})
}

// slot returns the active slot with the given id.
func (o *Orchestrator) slot(id int) (*Slot, error) {
	if id < 1 || id > len(o.slots) {
		return nil, ErrUnknownSlot
	}

	s := o.slots[id-1]
	s.mu.Lock()
	active := s.active
	s.mu.Unlock()

	if !active {
		return nil, ErrUnknownSlot
	}
	return s, nil
}

// releaseDebounce balances pending when a scheduled verification was stopped
// before it ran.
func (o *Orchestrator) releaseDebounce(stopped bool) {
	if stopped {
		o.pending.Done()
	}
}

// requestContext bounds a network call by the request timeout.
func (o *Orchestrator) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, o.opts.RequestTimeout)
}

func (o *Orchestrator) tickLoop() {
	for {
		select {
		case <-o.done:
			return
		case <-o.ticker.C:
			now := o.opts.Now()
			for _, s := range o.slots {
				s.mu.Lock()
				changed := s.active && s.timer.Tick(now)
				var snap Snapshot
				if changed {
					snap = s.snapshotLocked(now)
				}
				s.mu.Unlock()

				if changed {
					o.notify(Event{Kind: EventTimerTick, SlotID: s.id, Snapshot: snap})
				}
			}
		}
	}
}

func credentialsFor(creds profile.Credentials) backtranslate.Credentials {
	return backtranslate.Credentials{
		Primary: creds.Primary,
		Vendor:  creds.Secondary,
	}
}
