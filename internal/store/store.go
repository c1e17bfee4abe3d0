// Package store holds the ordered vocabulary list and mirrors it to a storage.Provider.
//
// The list is replaced wholesale on every mutation: callers always receive
// copies, and a mutation builds a new slice before swapping it in. Every
// mutation serializes the full list to the provider.
package store

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/starford/kamus/internal/apperr"
	"github.com/starford/kamus/internal/i18n"
	"github.com/starford/kamus/internal/models"
	"github.com/starford/kamus/internal/storage"
)

// DefaultKey is the storage key of the entry list.
const DefaultKey = "kamus_ai_data"

// Event kinds passed to the Observer.
const (
	EventCreated  = "entry.created"
	EventUpdated  = "entry.updated"
	EventDeleted  = "entry.deleted"
	EventImported = "entries.imported"
	EventCleared  = "entries.cleared"
	EventReloaded = "entries.reloaded"
)

// Event describes a completed mutation.
type Event struct {
	Kind string
	IDs  []string
}

// Observer is called after each mutation, outside the store lock.
type Observer func(Event)

// Option configures a Store.
type Option func(*Store)

// WithObserver sets the mutation observer.
func WithObserver(o Observer) Option {
	return func(s *Store) { s.observer = o }
}

// WithIDGenerator overrides uuid-based id generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Store is the entry list.
type Store struct {
	provider storage.Provider
	key      string
	msgs     *i18n.Translator
	newID    func() string
	logger   *slog.Logger
	observer Observer

	mu      sync.Mutex
	entries []models.VocabEntry
}

// New creates an empty Store. Call Load to read the persisted list.
func New(provider storage.Provider, key string, msgs *i18n.Translator, opts ...Option) *Store {
	if key == "" {
		key = DefaultKey
	}
	s := &Store{
		provider: provider,
		key:      key,
		msgs:     msgs,
		newID:    uuid.NewString,
		logger:   slog.Default(),
		entries:  []models.VocabEntry{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the persisted list. A missing, unreadable or corrupt value
// yields an empty list. Entries persisted mid-request are loaded as failed.
// The read happens under the lock so a concurrent commit cannot be lost.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = s.read()
}

// Reload re-reads the persisted list and notifies the observer.
func (s *Store) Reload() {
	s.Load()
	s.notify(Event{Kind: EventReloaded})
}

// read must be called with mu held.
func (s *Store) read() []models.VocabEntry {
	data, err := s.provider.Get(s.key)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("store: read failed, starting empty", slog.String("error", err.Error()))
		}
		return []models.VocabEntry{}
	}

	var entries []models.VocabEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.Warn("store: persisted list is corrupt, starting empty", slog.String("error", err.Error()))
		return []models.VocabEntry{}
	}

	seen := make(map[string]struct{}, len(entries))
	out := make([]models.VocabEntry, 0, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.ID]; e.ID == "" || dup {
			e.ID = s.newID()
		}
		seen[e.ID] = struct{}{}
		if e.IsLoading {
			e = s.failed(e)
		}
		e.IsNew = false
		out = append(out, e)
	}
	return out
}

// List returns a copy of the list, most recent first.
func (s *Store) List() []models.VocabEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.VocabEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Get returns the entry with id.
func (s *Store) Get(id string) (models.VocabEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return models.VocabEntry{}, apperr.ErrNotFound
}

// Stats returns memorization progress.
func (s *Store) Stats() models.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := models.Stats{Total: len(s.entries)}
	for _, e := range s.entries {
		if e.IsMemorized {
			st.Memorized++
		}
	}
	if st.Total > 0 {
		st.Progress = int(math.Round(float64(st.Memorized) * 100 / float64(st.Total)))
	}
	return st
}

// AddPending inserts a placeholder entry for word at the head of the list.
func (s *Store) AddPending(word string) models.VocabEntry {
	e := models.VocabEntry{
		ID:         s.newID(),
		English:    word,
		Indonesian: s.msgs.T(i18n.MsgPendingTranslation),
		Note:       s.msgs.T(i18n.MsgPendingNote),
		IsLoading:  true,
	}

	s.mu.Lock()
	next := make([]models.VocabEntry, 0, len(s.entries)+1)
	next = append(next, e)
	next = append(next, s.entries...)
	s.commit(next)
	s.mu.Unlock()

	s.notify(Event{Kind: EventCreated, IDs: []string{e.ID}})
	return e
}

// Resolve fills in the annotation of a pending entry.
func (s *Store) Resolve(id, translation, note string) (models.VocabEntry, error) {
	return s.update(id, func(e models.VocabEntry) models.VocabEntry {
		e.Indonesian = translation
		e.Note = note
		e.IsLoading = false
		e.IsFailed = false
		return e
	})
}

// Fail marks an entry as failed.
func (s *Store) Fail(id string) (models.VocabEntry, error) {
	return s.update(id, s.failed)
}

// ToggleMemorized flips the memorized flag of one entry.
func (s *Store) ToggleMemorized(id string) (models.VocabEntry, error) {
	return s.update(id, func(e models.VocabEntry) models.VocabEntry {
		e.IsMemorized = !e.IsMemorized
		return e
	})
}

// Remove deletes an entry.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return apperr.ErrNotFound
	}
	next := make([]models.VocabEntry, 0, len(s.entries)-1)
	next = append(next, s.entries[:idx]...)
	next = append(next, s.entries[idx+1:]...)
	s.commit(next)
	s.mu.Unlock()

	s.notify(Event{Kind: EventDeleted, IDs: []string{id}})
	return nil
}

// ClearAll empties the list. Without confirmation nothing changes.
func (s *Store) ClearAll(confirmed bool) error {
	if !confirmed {
		return apperr.ErrNotConfirmed
	}
	s.mu.Lock()
	s.commit([]models.VocabEntry{})
	s.mu.Unlock()

	s.notify(Event{Kind: EventCleared})
	return nil
}

// Prepend inserts imported items at the head, keeping their order, marked new.
func (s *Store) Prepend(items []models.WordItem) []models.VocabEntry {
	if len(items) == 0 {
		return []models.VocabEntry{}
	}
	added := make([]models.VocabEntry, len(items))
	ids := make([]string, len(items))
	for i, it := range items {
		added[i] = models.VocabEntry{
			ID:         s.newID(),
			English:    it.English,
			Indonesian: it.Indonesian,
			Note:       it.Note,
			IsNew:      true,
		}
		ids[i] = added[i].ID
	}

	s.mu.Lock()
	next := make([]models.VocabEntry, 0, len(s.entries)+len(added))
	next = append(next, added...)
	next = append(next, s.entries...)
	s.commit(next)
	s.mu.Unlock()

	s.notify(Event{Kind: EventImported, IDs: ids})
	out := make([]models.VocabEntry, len(added))
	copy(out, added)
	return out
}

// ClearNew removes the new marker from the given entries. Entries that
// no longer exist are skipped.
func (s *Store) ClearNew(ids []string) {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	s.mu.Lock()
	var changed []string
	next := make([]models.VocabEntry, len(s.entries))
	for i, e := range s.entries {
		if _, ok := want[e.ID]; ok && e.IsNew {
			e.IsNew = false
			changed = append(changed, e.ID)
		}
		next[i] = e
	}
	if len(changed) == 0 {
		s.mu.Unlock()
		return
	}
	s.commit(next)
	s.mu.Unlock()

	s.notify(Event{Kind: EventUpdated, IDs: changed})
}

func (s *Store) update(id string, fn func(models.VocabEntry) models.VocabEntry) (models.VocabEntry, error) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return models.VocabEntry{}, apperr.ErrNotFound
	}
	next := make([]models.VocabEntry, len(s.entries))
	copy(next, s.entries)
	next[idx] = fn(next[idx])
	updated := next[idx]
	s.commit(next)
	s.mu.Unlock()

	s.notify(Event{Kind: EventUpdated, IDs: []string{id}})
	return updated, nil
}

func (s *Store) failed(e models.VocabEntry) models.VocabEntry {
	e.Indonesian = s.msgs.T(i18n.MsgFailedTranslation)
	e.Note = s.msgs.T(i18n.MsgFailedNote)
	e.IsLoading = false
	e.IsFailed = true
	return e
}

// indexOf must be called with mu held.
func (s *Store) indexOf(id string) int {
	for i, e := range s.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// commit swaps in next and persists it. Must be called with mu held.
func (s *Store) commit(next []models.VocabEntry) {
	s.entries = next
	data, err := json.Marshal(next)
	if err != nil {
		s.logger.Error("store: marshal failed", slog.String("error", err.Error()))
		return
	}
	if err := s.provider.Put(s.key, data); err != nil {
		s.logger.Error("store: persist failed", slog.String("key", s.key), slog.String("error", err.Error()))
	}
}

func (s *Store) notify(ev Event) {
	if s.observer != nil {
		s.observer(ev)
	}
}
