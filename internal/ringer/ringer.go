package ringer

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/altarhq/altard/internal/model"
	"github.com/altarhq/altard/internal/notify"
	"github.com/altarhq/altard/internal/occurrence"
)

type State string

const (
	StateIdle    State = "idle"
	StateRinging State = "ringing"
)

type EventKind string

const (
	EventRinging     EventKind = "ringing"
	EventSnoozed     EventKind = "snoozed"
	EventIdle        EventKind = "idle"
	EventStartPrayer EventKind = "start-prayer"
)

// Event is surfaced to the UI when the ringer changes state. StartPrayer
// carries the prayer session length in minutes.
type Event struct {
	Kind        EventKind
	Title       string
	SnoozeCount int
	MaxSnoozes  int
	Minutes     int
}

// Pulser emits one audible/haptic pulse. Called periodically while ringing.
type Pulser interface {
	Pulse()
}

type NoopPulser struct{}

func (NoopPulser) Pulse() {}

type Config struct {
	MaxSnoozes    int
	PulseInterval time.Duration
	MinMinutes    int
	MaxMinutes    int
}

func DefaultConfig() Config {
	return Config{
		MaxSnoozes:    2,
		PulseInterval: 2 * time.Second,
		MinMinutes:    1,
		MaxMinutes:    180,
	}
}

const (
	localBaseID      = "local"
	defaultRingTitle = "The Altar"
	snoozeIDPrefix   = "inapp-snooze-"
)

// Ringer drives the in-app ringing overlay: at most one ring/snooze chain is
// active per process. All actions are synchronous; the processing flag
// rejects re-entrant calls triggered while a prior action's side effects are
// still running.
type Ringer struct {
	mu      sync.Mutex
	cfg     Config
	sched   *notify.Scheduler
	tracker *occurrence.Tracker
	pulser  Pulser

	now      func() time.Time
	newID    func() string
	resolver func(baseID string) string

	state       State
	processing  bool
	chainKey    string
	baseID      string
	title       string
	snoozeCount int
	pulse       *pulseLoop

	events  chan Event
	dropped uint64
}

func New(cfg Config, sched *notify.Scheduler, tracker *occurrence.Tracker, pulser Pulser) *Ringer {
	if pulser == nil {
		pulser = NoopPulser{}
	}
	return &Ringer{
		cfg:     cfg,
		sched:   sched,
		tracker: tracker,
		pulser:  pulser,
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
		state:   StateIdle,
		events:  make(chan Event, 8),
	}
}

// SetTitleResolver installs a lookup from base alarm id to display title,
// used when a ring is triggered from a bare notification response.
func (r *Ringer) SetTitleResolver(fn func(baseID string) string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolver = fn
}

func (r *Ringer) Events() <-chan Event {
	return r.events
}

func (r *Ringer) DroppedEvents() uint64 {
	return atomic.LoadUint64(&r.dropped)
}

func (r *Ringer) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Ringer) SnoozeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snoozeCount
}

// CanSnooze reports whether the snooze action is currently available.
func (r *Ringer) CanSnooze() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == StateRinging && r.snoozeCount < r.cfg.MaxSnoozes
}

func (r *Ringer) Title() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.title
}

func (r *Ringer) BaseID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.baseID
}

// TriggerNow enters the ringing state for the occurrence identified by
// sourceID ("" means an ad-hoc local ring). A snooze re-fire rejoins the
// persisted chain, so the cumulative snooze count carries over; anything else
// opens a fresh occurrence.
func (r *Ringer) TriggerNow(title, sourceID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateRinging {
		return
	}

	chain := ""
	if sourceID != "" && occurrence.IsSnoozeRefire(sourceID) {
		chain = r.tracker.ChainKey()
	}

	base := localBaseID
	switch {
	case chain != "":
		if b, ok := occurrence.SplitKey(chain); ok {
			base = b
		}
	case sourceID != "":
		base = occurrence.BaseID(sourceID)
	}

	if chain == "" {
		chain = occurrence.Key(base, r.now())
	}
	r.tracker.SetChainKey(chain)

	r.chainKey = chain
	r.baseID = base
	r.title = title
	if r.title == "" {
		r.title = defaultRingTitle
	}
	r.snoozeCount = r.tracker.SnoozeCount(chain)
	r.state = StateRinging
	r.startPulseLocked()
	r.emit(Event{Kind: EventRinging, Title: r.title, SnoozeCount: r.snoozeCount, MaxSnoozes: r.cfg.MaxSnoozes})
}

// Snooze schedules a re-fire of the current ring in the given number of
// minutes and returns to idle. No-op past the snooze limit or while another
// action is processing.
func (r *Ringer) Snooze(minutes int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRinging || r.processing {
		return
	}
	if r.snoozeCount >= r.cfg.MaxSnoozes {
		return
	}
	r.processing = true
	defer func() { r.processing = false }()

	minutes = r.clampMinutes(minutes)
	r.snoozeCount++
	r.tracker.SetSnoozeCount(r.chainKey, r.snoozeCount)
	r.stopPulseLocked()

	id := snoozeIDPrefix + r.newID()
	at := r.now().Add(time.Duration(minutes) * time.Minute)
	r.sched.ScheduleOneOff(id, r.title, model.DefaultBody(at.Hour()), notify.KindSnooze, at)

	count := r.snoozeCount
	title := r.title
	r.state = StateIdle
	r.emit(Event{Kind: EventSnoozed, Title: title, SnoozeCount: count, MaxSnoozes: r.cfg.MaxSnoozes, Minutes: minutes})
}

// DismissAndStartPrayer ends the chain and signals the surrounding app to
// start a prayer session of defaultMinutes. The success path.
func (r *Ringer) DismissAndStartPrayer(defaultMinutes int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRinging || r.processing {
		return
	}
	r.processing = true
	defer func() { r.processing = false }()

	title := r.title
	r.finishLocked()
	r.emit(Event{Kind: EventStartPrayer, Title: title, Minutes: r.clampMinutes(defaultMinutes)})
}

// RejectNow ends the chain without starting a prayer session.
func (r *Ringer) RejectNow() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRinging || r.processing {
		return
	}
	r.processing = true
	defer func() { r.processing = false }()

	r.finishLocked()
	r.emit(Event{Kind: EventIdle})
}

// Shutdown stops the pulse loop without clearing the chain, so a ring
// interrupted by teardown can resume with its snooze count intact.
func (r *Ringer) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopPulseLocked()
	r.state = StateIdle
}

// AlarmOpened, AlarmSnoozed and AlarmDismissed implement
// notify.ResponseSink.

func (r *Ringer) AlarmOpened(identifier string) {
	r.TriggerNow(r.resolveTitle(identifier), identifier)
}

func (r *Ringer) AlarmSnoozed(identifier string, minutes int) {
	r.TriggerNow(r.resolveTitle(identifier), identifier)
	r.Snooze(minutes)
}

func (r *Ringer) AlarmDismissed(identifier string) {
	r.RejectNow()
}

func (r *Ringer) resolveTitle(identifier string) string {
	r.mu.Lock()
	resolver := r.resolver
	r.mu.Unlock()
	if resolver != nil {
		if title := resolver(occurrence.BaseID(identifier)); title != "" {
			return title
		}
	}
	return defaultRingTitle
}

// finishLocked is the shared exit path for dismiss and reject: follow-up
// cancellation, pulse stop, chain clear.
func (r *Ringer) finishLocked() {
	r.sched.CancelFollowups(r.baseID)
	r.stopPulseLocked()
	r.tracker.ClearChain()
	r.state = StateIdle
	r.chainKey = ""
	r.baseID = ""
	r.snoozeCount = 0
}

func (r *Ringer) clampMinutes(minutes int) int {
	if minutes < r.cfg.MinMinutes {
		return r.cfg.MinMinutes
	}
	if minutes > r.cfg.MaxMinutes {
		return r.cfg.MaxMinutes
	}
	return minutes
}

func (r *Ringer) emit(ev Event) {
	select {
	case r.events <- ev:
	default:
		atomic.AddUint64(&r.dropped, 1)
	}
}

type pulseLoop struct {
	stop chan struct{}
	done chan struct{}
}

func (r *Ringer) startPulseLocked() {
	if r.pulse != nil {
		return
	}
	loop := &pulseLoop{stop: make(chan struct{}), done: make(chan struct{})}
	r.pulse = loop
	interval := r.cfg.PulseInterval
	if interval <= 0 {
		interval = DefaultConfig().PulseInterval
	}
	pulser := r.pulser
	go func() {
		defer close(loop.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				pulser.Pulse()
			case <-loop.stop:
				return
			}
		}
	}()
}

func (r *Ringer) stopPulseLocked() {
	if r.pulse == nil {
		return
	}
	close(r.pulse.stop)
	<-r.pulse.done
	r.pulse = nil
}
