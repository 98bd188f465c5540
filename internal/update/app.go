package update

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/altarhq/altard/internal/audio"
	"github.com/altarhq/altard/internal/followup"
	"github.com/altarhq/altard/internal/kvstore"
	"github.com/altarhq/altard/internal/notify"
	"github.com/altarhq/altard/internal/occurrence"
	"github.com/altarhq/altard/internal/ringer"
	"github.com/altarhq/altard/internal/store"
)

// Runtime bundles the wired subsystems behind the TUI: the delivery engine,
// the scheduler driving it, the ringer consuming user responses, and the
// persisted alarm/reminder collections.
type Runtime struct {
	Config    RuntimeConfig
	KV        kvstore.Store
	Engine    *notify.Engine
	Scheduler *notify.Scheduler
	Ringer    *ringer.Ringer
	Store     *store.Store

	closeKV func() error
}

// NewRuntime wires the subsystems on top of an already open key-value store,
// starts the delivery engine and re-registers every enabled alarm and
// reminder. A nil pulser means silent ringing.
func NewRuntime(kv kvstore.Store, cfg RuntimeConfig, pulser ringer.Pulser) (*Runtime, error) {
	engine := notify.NewEngine(cfg.EngineBuffer)
	sched := notify.NewScheduler(engine)
	tracker := occurrence.NewTracker(kv)
	fups := followup.NewGenerator(sched, cfg.FollowupOffsets)

	ringCfg := ringer.DefaultConfig()
	if cfg.MaxSnoozes >= 0 {
		ringCfg.MaxSnoozes = cfg.MaxSnoozes
	}
	if cfg.PulseSeconds > 0 {
		ringCfg.PulseInterval = time.Duration(cfg.PulseSeconds) * time.Second
	}
	rng := ringer.New(ringCfg, sched, tracker, pulser)
	sched.SetResponseSink(rng)

	st, err := store.Load(kv, sched, fups)
	if err != nil {
		return nil, err
	}
	rng.SetTitleResolver(st.AlarmTitle)

	engine.Start()
	st.RescheduleAll()

	return &Runtime{
		Config:    cfg,
		KV:        kv,
		Engine:    engine,
		Scheduler: sched,
		Ringer:    rng,
		Store:     st,
	}, nil
}

// OpenRuntime opens the SQLite store at the configured path (defaulting to
// ~/.altard/altard.db) and wires the runtime around it, with an audible
// pulser unless sound is disabled.
func OpenRuntime(cfg RuntimeConfig) (*Runtime, error) {
	path := cfg.DBPath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		path = filepath.Join(home, ".altard", "altard.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := kvstore.OpenSQLite(path)
	if err != nil {
		return nil, err
	}

	var pulser ringer.Pulser = ringer.NoopPulser{}
	if cfg.Sound {
		pulser = audio.NewBeeper()
	}

	rt, err := NewRuntime(db, cfg, pulser)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	rt.closeKV = db.Close
	return rt, nil
}

// Close tears the runtime down in dependency order. The ringer shuts down
// first so an interrupted chain keeps its snooze count for the next run.
func (rt *Runtime) Close() error {
	rt.Ringer.Shutdown()
	rt.Engine.Stop()
	if rt.closeKV != nil {
		return rt.closeKV()
	}
	return nil
}
