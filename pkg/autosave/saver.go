package autosave

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"airstream/internal/metrics"
	"airstream/pkg/domain"
	"airstream/pkg/store"
)

const DefaultInterval = 60 * time.Second

var ErrNoSnapshot = errors.New("No auto-saved asset found.")

// Source hands out a consistent copy of the draft being edited. ok is false
// when there is nothing to save.
type Source interface {
	AutoSaveSnapshot() (domain.AssetDraft, bool)
}

type Config struct {
	Source   Source
	Store    store.KVStore
	Interval time.Duration
	Logger   *slog.Logger
	Now      func() time.Time
}

// Saver periodically writes the in-progress draft to the durable store. It
// never creates or updates records.
type Saver struct {
	source   Source
	store    store.KVStore
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	mu        sync.Mutex
	lastSaved time.Time
}

func New(cfg Config) (*Saver, error) {
	if cfg.Source == nil {
		return nil, errors.New("autosave: draft source is required")
	}
	if cfg.Store == nil {
		return nil, errors.New("autosave: store is required")
	}
	s := &Saver{
		source:   cfg.Source,
		store:    cfg.Store,
		interval: cfg.Interval,
		logger:   cfg.Logger,
		now:      cfg.Now,
	}
	if s.interval <= 0 {
		s.interval = DefaultInterval
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// Run saves on every tick until ctx is cancelled. Failed saves are logged and
// retried on the next tick.
func (s *Saver) Run(ctx context.Context) error {
	s.logger.Info("auto-save started", "interval", s.interval.String())
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			saved, err := s.SaveNow(ctx)
			switch {
			case err != nil:
				metrics.AutoSaveTotal.WithLabelValues(metrics.AutoSaveError).Inc()
				s.logger.Warn("auto-save failed", "err", err)
			case saved:
				metrics.AutoSaveTotal.WithLabelValues(metrics.AutoSaveSaved).Inc()
			default:
				metrics.AutoSaveTotal.WithLabelValues(metrics.AutoSaveSkipped).Inc()
			}
		case <-ctx.Done():
			s.logger.Info("auto-save stopped")
			return nil
		}
	}
}

// SaveNow writes the current draft if there is one worth saving and reports
// whether a write happened.
func (s *Saver) SaveNow(ctx context.Context) (bool, error) {
	draft, ok := s.source.AutoSaveSnapshot()
	if !ok {
		return false, nil
	}
	payload, err := json.Marshal(draft)
	if err != nil {
		return false, fmt.Errorf("encode draft: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Set(ctx, store.KeyAutoSavedAsset, string(payload)); err != nil {
		return false, fmt.Errorf("write draft: %w", err)
	}
	s.lastSaved = s.now()
	s.logger.Debug("draft auto-saved", "asset_id", draft.ID)
	return true, nil
}

// Load reads back the last snapshot. Nothing calls it on startup.
func (s *Saver) Load(ctx context.Context) (domain.AssetDraft, error) {
	raw, err := s.store.Get(ctx, store.KeyAutoSavedAsset)
	if errors.Is(err, store.ErrNotFound) {
		return domain.AssetDraft{}, ErrNoSnapshot
	}
	if err != nil {
		return domain.AssetDraft{}, fmt.Errorf("read draft: %w", err)
	}
	var draft domain.AssetDraft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		return domain.AssetDraft{}, fmt.Errorf("decode draft: %w", err)
	}
	return draft, nil
}

// LastSaved returns the time of the last successful write, or the zero time.
func (s *Saver) LastSaved() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSaved
}
