// Package state owns the in-memory scorecard and pushes every change to the
// persistence gateway.
package state

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/riteshk28/Lighthouse/internal/catalog"
	"github.com/riteshk28/Lighthouse/internal/contracts"
	"github.com/riteshk28/Lighthouse/internal/defaults"
	"github.com/riteshk28/Lighthouse/internal/insights"
	"github.com/riteshk28/Lighthouse/pkg/logger"
)

var (
	// ErrInvalidPage is returned for a page that is not in the dataset.
	ErrInvalidPage = errors.New("invalid page")

	// ErrInvalidMetric is returned for a metric outside the catalog.
	ErrInvalidMetric = errors.New("invalid metric")

	// ErrInvalidField is returned for a sample field other than start or end.
	ErrInvalidField = errors.New("invalid field")
)

// Listener is called with the version and a copy of the state after every
// change. Listeners run one at a time in version order and must not call
// back into the store.
type Listener func(version uint64, st contracts.State)

// Options tunes a Store.
type Options struct {
	SaveTimeout time.Duration
	LoadTimeout time.Duration
	Factory     func() contracts.State
}

// Store is the single owner of the scorecard state.
// ⭐ SSOT: the live scorecard is mutated only here
type Store struct {
	mu      sync.RWMutex
	state   contracts.State
	version uint64

	// notifyMu is taken before mu is released so listeners see changes in
	// the order they were installed
	notifyMu    sync.Mutex
	listenersMu sync.RWMutex
	listeners   []Listener

	repo    contracts.StateRepository
	opts    Options
	logger  *logger.Logger
	pending sync.WaitGroup
}

// New creates a store holding the factory snapshot.
// repo may be nil, in which case changes are kept in memory only.
func New(repo contracts.StateRepository, opts Options, log *logger.Logger) *Store {
	if opts.SaveTimeout <= 0 {
		opts.SaveTimeout = 10 * time.Second
	}
	if opts.LoadTimeout <= 0 {
		opts.LoadTimeout = 5 * time.Second
	}
	if opts.Factory == nil {
		opts.Factory = defaults.Factory
	}
	if log == nil {
		log = logger.Nop()
	}

	return &Store{
		state:  opts.Factory(),
		repo:   repo,
		opts:   opts,
		logger: log.WithComponent("state"),
	}
}

// Initialize sets the in-memory state without persisting it.
func (s *Store) Initialize(snapshot contracts.State) {
	s.adopt(snapshot)
}

// Adopt replaces the state with one that is already persisted.
func (s *Store) Adopt(snapshot contracts.State) {
	s.adopt(snapshot)
}

// ReplaceFromPersistence overwrites the state with a well-formed blob and
// reports whether it did. Empty, partial or malformed blobs leave the
// state untouched.
func (s *Store) ReplaceFromPersistence(blob []byte) bool {
	if len(bytes.TrimSpace(blob)) == 0 {
		return false
	}

	decoded, err := contracts.DecodeState(blob)
	if err != nil {
		s.logger.WithError(err).Debug("Ignoring persisted blob")
		return false
	}

	s.adopt(decoded)
	return true
}

// Load fetches the persisted state once. Any failure keeps the current
// state and is only logged.
func (s *Store) Load(ctx context.Context) bool {
	if s.repo == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.LoadTimeout)
	defer cancel()

	blob, err := s.repo.Load(ctx)
	switch {
	case errors.Is(err, contracts.ErrNotFound):
		s.logger.Info("No saved scorecard, using factory defaults")
		return false
	case err != nil:
		s.logger.WithError(err).Warn("Failed to load scorecard, using defaults")
		return false
	}

	if !s.ReplaceFromPersistence(blob) {
		s.logger.WithField("bytes", len(blob)).Warn("Saved scorecard is incomplete or malformed, using defaults")
		return false
	}

	s.logger.Info("Scorecard loaded from persistence")
	return true
}

// UpdateSample sets one field of one sample.
// NaN and infinite values are ignored.
func (s *Store) UpdateSample(page string, id catalog.MetricID, field contracts.Field, value float64) error {
	if err := validateCell(id, field); err != nil {
		return err
	}

	return s.mutate(func(st *contracts.State) (bool, error) {
		return setSample(st, page, id, field, value)
	})
}

func setSample(st *contracts.State, page string, id catalog.MetricID, field contracts.Field, value float64) (bool, error) {
	i := st.Dataset.Index(page)
	if i < 0 {
		return false, fmt.Errorf("%w: %q", ErrInvalidPage, page)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return false, nil
	}

	rec := &st.Dataset.Pages[i].Metrics
	rec[id] = rec[id].With(field, value)
	return true, nil
}

// UpdateSampleInput parses raw editor text and stores it.
// Seconds-valued metrics accept a leading decimal, everything else a
// leading integer. Text without a leading number is ignored.
func (s *Store) UpdateSampleInput(page string, id catalog.MetricID, field contracts.Field, raw string) error {
	if err := validateCell(id, field); err != nil {
		return err
	}

	// parsed under the lock so the unit cannot change in between
	return s.mutate(func(st *contracts.State) (bool, error) {
		value, ok := ParseInput(raw, st.Units.Unit(id) == "s")
		if !ok {
			if st.Dataset.Index(page) < 0 {
				return false, fmt.Errorf("%w: %q", ErrInvalidPage, page)
			}
			return false, nil
		}
		return setSample(st, page, id, field, value)
	})
}

// UpdateUnit sets the display unit of a metric. Any string is accepted.
func (s *Store) UpdateUnit(id catalog.MetricID, unit string) error {
	if !id.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidMetric, int(id))
	}

	return s.mutate(func(st *contracts.State) (bool, error) {
		st.Units[id] = unit
		return true, nil
	})
}

// UpdateLabels renames the two periods.
func (s *Store) UpdateLabels(start, end string) error {
	return s.mutate(func(st *contracts.State) (bool, error) {
		st.Labels = contracts.PeriodLabels{Start: start, End: end}
		return true, nil
	})
}

// Reset restores the factory snapshot. Callers showing an edit mode must
// leave it.
func (s *Store) Reset() error {
	factory := s.opts.Factory()
	return s.mutate(func(st *contracts.State) (bool, error) {
		*st = factory
		return true, nil
	})
}

// ImportDataset replaces the pages, keeping labels and units.
func (s *Store) ImportDataset(ds contracts.Dataset) error {
	imported := ds.Clone()
	return s.mutate(func(st *contracts.State) (bool, error) {
		st.Dataset = imported
		return true, nil
	})
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() contracts.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Versioned returns a deep copy of the current state with its version.
// The version grows by one on every installed change.
func (s *Store) Versioned() (contracts.State, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone(), s.version
}

// Insights computes the summary for the current state.
func (s *Store) Insights() insights.Insights {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return insights.Compute(s.state.Dataset, s.state.Units)
}

// OnChange registers a listener for state changes.
func (s *Store) OnChange(l Listener) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Flush waits for in-flight saves.
func (s *Store) Flush(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func validateCell(id catalog.MetricID, field contracts.Field) error {
	if !id.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidMetric, int(id))
	}
	if field != contracts.FieldStart && field != contracts.FieldEnd {
		return fmt.Errorf("%w: %q", ErrInvalidField, field)
	}
	return nil
}

// mutate applies fn to a copy of the state and, if fn reports a change,
// installs it, saves it and notifies listeners.
func (s *Store) mutate(fn func(*contracts.State) (bool, error)) error {
	s.mu.Lock()
	next := s.state.Clone()
	changed, err := fn(&next)
	if err != nil || !changed {
		s.mu.Unlock()
		return err
	}
	s.state = next
	s.version++
	version := s.version
	snapshot := next.Clone()
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	s.save(snapshot)
	s.notify(version, snapshot)
	return nil
}

func (s *Store) adopt(snapshot contracts.State) {
	s.mu.Lock()
	s.state = snapshot.Clone()
	s.version++
	version := s.version
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	s.notify(version, snapshot.Clone())
}

// save writes the whole state in the background. Saves are not ordered;
// storage keeps whichever write it receives last.
func (s *Store) save(snapshot contracts.State) {
	if s.repo == nil {
		return
	}

	blob, err := contracts.EncodeState(snapshot)
	if err != nil {
		s.logger.WithError(err).Error("Failed to encode scorecard state")
		return
	}

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.opts.SaveTimeout)
		defer cancel()

		start := time.Now()
		if err := s.repo.Save(ctx, blob); err != nil {
			s.logger.WithError(err).Error("Failed to save scorecard state")
			return
		}
		s.logger.WithFields(map[string]interface{}{
			"bytes":       len(blob),
			"duration_ms": time.Since(start).Milliseconds(),
		}).Debug("Scorecard state saved")
	}()
}

func (s *Store) notify(version uint64, snapshot contracts.State) {
	s.listenersMu.RLock()
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.listenersMu.RUnlock()

	for _, l := range listeners {
		l(version, snapshot)
	}
}
