// Package vocab coordinates the entry store with the annotation backend.
//
// A single-word submission and a bulk import may run at the same time, but
// each kind allows only one request in flight.
package vocab

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/starford/kamus/internal/apperr"
	"github.com/starford/kamus/internal/models"
	"github.com/starford/kamus/internal/store"
)

// DefaultNewMarkerTTL is how long imported entries stay marked new.
const DefaultNewMarkerTTL = 5 * time.Second

// Annotator produces translations and vocabulary lists.
type Annotator interface {
	Translate(ctx context.Context, word string) models.AIResponse
	Extract(ctx context.Context, source string) (*models.BulkImportResponse, error)
}

// State reports which requests are in flight.
type State struct {
	Submitting bool `json:"submitting"`
	Importing  bool `json:"importing"`
}

// Option configures a Service.
type Option func(*Service)

// WithNewMarkerTTL overrides DefaultNewMarkerTTL.
func WithNewMarkerTTL(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.newTTL = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// Service is the application layer shared by HTTP, CLI and MCP.
type Service struct {
	store  *store.Store
	ai     Annotator
	logger *slog.Logger
	newTTL time.Duration

	submitting atomic.Bool
	importing  atomic.Bool
	wg         sync.WaitGroup

	mu       sync.Mutex
	clearSeq int
	clears   map[int]pendingClear
}

// pendingClear is a scheduled new-marker clear.
type pendingClear struct {
	timer *time.Timer
	ids   []string
}

// NewService creates a Service.
func NewService(st *store.Store, ai Annotator, opts ...Option) *Service {
	s := &Service{
		store:  st,
		ai:     ai,
		logger: slog.Default(),
		newTTL: DefaultNewMarkerTTL,
		clears: make(map[int]pendingClear),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit inserts a pending entry for word and translates it in the
// background. The returned channel yields the final entry once and is
// then closed. The translation outlives ctx cancellation. If the entry is
// removed before the translation lands, the channel yields the pending
// entry unchanged.
func (s *Service) Submit(ctx context.Context, word string) (models.VocabEntry, <-chan models.VocabEntry, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return models.VocabEntry{}, nil, apperr.ErrEmptyWord
	}
	if !s.submitting.CompareAndSwap(false, true) {
		return models.VocabEntry{}, nil, apperr.ErrBusy
	}

	pending := s.store.AddPending(word)
	done := make(chan models.VocabEntry, 1)
	bg := context.WithoutCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(done)
		final := s.translate(bg, pending)
		s.submitting.Store(false)
		done <- final
	}()

	return pending, done, nil
}

func (s *Service) translate(ctx context.Context, pending models.VocabEntry) (final models.VocabEntry) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("vocab: translation panicked",
				slog.String("id", pending.ID), slog.String("panic", fmt.Sprint(r)))
			if failed, err := s.store.Fail(pending.ID); err == nil {
				final = failed
			} else {
				final = pending
			}
		}
	}()

	resp := s.ai.Translate(ctx, pending.English)
	entry, err := s.store.Resolve(pending.ID, resp.Translation, resp.Note)
	if err != nil {
		// Removed while the request was running.
		s.logger.Info("vocab: entry gone before translation finished", slog.String("id", pending.ID))
		return pending
	}
	return entry
}

// Add submits word and waits for the translation. It returns
// apperr.ErrNotFound when the entry was removed before the translation
// landed.
func (s *Service) Add(ctx context.Context, word string) (models.VocabEntry, error) {
	_, done, err := s.Submit(ctx, word)
	if err != nil {
		return models.VocabEntry{}, err
	}
	select {
	case e := <-done:
		if e.IsLoading {
			return models.VocabEntry{}, fmt.Errorf("add %q: %w", e.English, apperr.ErrNotFound)
		}
		return e, nil
	case <-ctx.Done():
		return models.VocabEntry{}, ctx.Err()
	}
}

// Import extracts vocabulary from a URL or pasted text and prepends it.
// On failure the list is left unchanged. The extraction outlives ctx
// cancellation.
func (s *Service) Import(ctx context.Context, source string) ([]models.VocabEntry, error) {
	if strings.TrimSpace(source) == "" {
		return nil, apperr.ErrEmptySource
	}
	if !s.importing.CompareAndSwap(false, true) {
		return nil, apperr.ErrBusy
	}
	defer s.importing.Store(false)
	s.wg.Add(1)
	defer s.wg.Done()

	res, err := s.ai.Extract(context.WithoutCancel(ctx), source)
	if err != nil {
		return nil, err
	}

	added := s.store.Prepend(res.Words)
	ids := make([]string, len(added))
	for i, e := range added {
		ids[i] = e.ID
	}
	s.scheduleClearNew(ids)

	s.logger.Info("vocab: imported", slog.Int("count", len(added)))
	return added, nil
}

// Toggle flips the memorized flag of an entry.
func (s *Service) Toggle(id string) (models.VocabEntry, error) {
	return s.store.ToggleMemorized(id)
}

// Remove deletes an entry.
func (s *Service) Remove(id string) error {
	return s.store.Remove(id)
}

// ClearAll empties the list when confirmed.
func (s *Service) ClearAll(confirmed bool) error {
	return s.store.ClearAll(confirmed)
}

// Get returns one entry.
func (s *Service) Get(id string) (models.VocabEntry, error) {
	return s.store.Get(id)
}

// List returns the entries, newest first.
func (s *Service) List() []models.VocabEntry {
	return s.store.List()
}

// Stats returns the list statistics.
func (s *Service) Stats() models.Stats {
	return s.store.Stats()
}

// Busy reports which requests are in flight.
func (s *Service) Busy() State {
	return State{Submitting: s.submitting.Load(), Importing: s.importing.Load()}
}

// Wait blocks until background translations and imports have finished,
// then applies every scheduled new-marker clear at once.
func (s *Service) Wait() {
	s.wg.Wait()

	s.mu.Lock()
	pending := s.clears
	s.clears = make(map[int]pendingClear)
	s.mu.Unlock()

	for _, c := range pending {
		c.timer.Stop()
		s.store.ClearNew(c.ids)
	}
}

func (s *Service) scheduleClearNew(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearSeq++
	n := s.clearSeq
	s.clears[n] = pendingClear{
		timer: time.AfterFunc(s.newTTL, func() { s.runClearNew(n) }),
		ids:   ids,
	}
}

// runClearNew applies clear n unless Wait already took it.
func (s *Service) runClearNew(n int) {
	s.mu.Lock()
	c, ok := s.clears[n]
	delete(s.clears, n)
	s.mu.Unlock()
	if ok {
		s.store.ClearNew(c.ids)
	}
}
