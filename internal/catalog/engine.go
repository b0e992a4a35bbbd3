// Package catalog implements the clip catalog engine: exclusion gating,
// frontmatter extraction, tag normalization, snapshot refresh, querying, and
// read-state write-back.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/veslatte/clipdex/internal/apperr"
	"github.com/veslatte/clipdex/internal/metacache"
	"github.com/veslatte/clipdex/internal/models"
	"github.com/veslatte/clipdex/internal/storage"
)

// State is the refresh controller state visible to consumers.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateError   State = "error"
)

// Event kinds reported through the notify callback.
const (
	EventRefreshed = "refreshed"
	EventError     = "error"
	EventRead      = "read"
)

// EventFunc is called after an engine state change. kind is one of the Event
// constants; detail carries the record path or error message.
type EventFunc func(kind, detail string)

// Snapshot is one immutable catalog generation. Consumers never see a
// partially built snapshot: the engine swaps in a complete one atomically.
type Snapshot struct {
	Seq     uint64
	Records []models.CatalogRecord
	BuiltAt time.Time
}

// SettingsSource yields the engine settings current at the moment a pass or
// mutation starts. The settings store implements it.
type SettingsSource interface {
	Engine() Settings
}

// Status describes the controller state for the presentation layer.
type Status struct {
	State   State     `json:"state"`
	Error   string    `json:"error,omitempty"`
	Seq     uint64    `json:"seq"`
	Records int       `json:"records"`
	BuiltAt time.Time `json:"built_at"`
}

// Engine owns the catalog snapshot and the refresh lifecycle. Refresh passes
// run as independent goroutines; each carries a monotonically increasing
// sequence number and only a pass newer than the last applied one may publish
// its result, so a slow stale pass never clobbers a fresher snapshot.
type Engine struct {
	store    storage.Provider
	cache    *metacache.DB
	settings SettingsSource
	logger   *slog.Logger
	notify   EventFunc

	interval  time.Duration
	triggerCh chan struct{}
	seq       atomic.Uint64

	mu         sync.Mutex
	state      State
	lastErr    error
	appliedSeq uint64
	snap       *Snapshot
}

// NewEngine creates an Engine. interval is the periodic refresh cadence;
// notify may be nil.
func NewEngine(store storage.Provider, cache *metacache.DB, settings SettingsSource, interval time.Duration, logger *slog.Logger, notify EventFunc) *Engine {
	return &Engine{
		store:     store,
		cache:     cache,
		settings:  settings,
		logger:    logger,
		notify:    notify,
		interval:  interval,
		triggerCh: make(chan struct{}, 1),
		state:     StateIdle,
		snap:      &Snapshot{},
	}
}

// RequestRefresh queues a refresh. Requests arriving while one is already
// queued coalesce; all trigger sources (watcher, settings changes, manual,
// timer) funnel through here.
func (e *Engine) RequestRefresh() {
	select {
	case e.triggerCh <- struct{}{}:
	default:
	}
}

// Run performs an initial refresh and then consumes the trigger channel and
// the periodic ticker until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	go e.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("catalog: refresh runner stopped")
			return nil
		case <-ticker.C:
			go e.refresh(ctx)
		case <-e.triggerCh:
			go e.refresh(ctx)
		}
	}
}

// RefreshNow runs one refresh pass synchronously. Used by the MCP entrypoint
// to have a catalog before serving and by tests.
func (e *Engine) RefreshNow(ctx context.Context) {
	e.refresh(ctx)
}

func (e *Engine) refresh(_ context.Context) {
	seq := e.seq.Add(1)

	e.mu.Lock()
	e.state = StateLoading
	e.mu.Unlock()

	cfg := e.settings.Engine()
	started := time.Now()
	records, err := BuildSnapshot(e.store, e.cache, cfg, e.logger)

	e.mu.Lock()
	if seq <= e.appliedSeq {
		e.mu.Unlock()
		e.logger.Debug("catalog: refresh superseded", slog.Uint64("seq", seq))
		return
	}
	e.appliedSeq = seq

	if err != nil {
		e.state = StateError
		e.lastErr = err
		e.mu.Unlock()
		e.logger.Error("catalog: refresh failed", slog.String("error", err.Error()))
		e.emit(EventError, err.Error())
		return
	}

	e.snap = &Snapshot{Seq: seq, Records: records, BuiltAt: time.Now()}
	e.state = StateIdle
	e.lastErr = nil
	e.mu.Unlock()

	e.logger.Info("catalog: refreshed",
		slog.Uint64("seq", seq),
		slog.Int("records", len(records)),
		slog.Duration("took", time.Since(started)))
	e.emit(EventRefreshed, "")
}

// Snapshot returns the current catalog generation.
func (e *Engine) Snapshot() *Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snap
}

// Status returns the controller state for the presentation layer.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	st := Status{
		State:   e.state,
		Seq:     e.snap.Seq,
		Records: len(e.snap.Records),
		BuiltAt: e.snap.BuiltAt,
	}
	if e.lastErr != nil {
		st.Error = e.lastErr.Error()
	}
	return st
}

// SetRead flips the read flag of one record: the in-memory value first
// (optimistically), then the frontmatter write-through. A write failure
// reverts the in-memory value and returns the error.
func (e *Engine) SetRead(_ context.Context, id string, read bool) error {
	cfg := e.settings.Engine()
	if cfg.ReadProperty == "" {
		return fmt.Errorf("catalog: read-state tracking is disabled")
	}

	prev, ok := e.applyRead(id, read)
	if !ok {
		return apperr.ErrNotFound
	}

	if err := e.writeReadFlag(id, cfg.ReadProperty, read); err != nil {
		e.applyRead(id, prev)
		e.logger.Error("catalog: read write-through failed",
			slog.String("path", id),
			slog.String("error", err.Error()))
		return err
	}

	e.emit(EventRead, id)
	return nil
}

// writeReadFlag rewrites the document's frontmatter with the new read value,
// preserving all other fields.
func (e *Engine) writeReadFlag(id, property string, read bool) error {
	data, err := e.store.Read(id)
	if err != nil {
		return fmt.Errorf("catalog: read %s: %w", id, err)
	}
	updated, err := RewriteReadFlag(data, property, read)
	if err != nil {
		return fmt.Errorf("catalog: rewrite frontmatter of %s: %w", id, err)
	}
	if err := e.store.Write(id, updated); err != nil {
		return fmt.Errorf("catalog: write %s: %w", id, err)
	}
	return nil
}

// applyRead publishes a derived snapshot with the record's read flag set,
// keeping the current sequence so a concurrent newer refresh still wins.
// Returns the previous value and whether the record exists.
func (e *Engine) applyRead(id string, read bool) (prev, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := e.snap
	idx := -1
	for i := range snap.Records {
		if snap.Records[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, false
	}

	prev = snap.Records[idx].Read
	records := make([]models.CatalogRecord, len(snap.Records))
	copy(records, snap.Records)
	records[idx].Read = read
	e.snap = &Snapshot{Seq: snap.Seq, Records: records, BuiltAt: snap.BuiltAt}
	return prev, true
}

func (e *Engine) emit(kind, detail string) {
	if e.notify != nil {
		e.notify(kind, detail)
	}
}
