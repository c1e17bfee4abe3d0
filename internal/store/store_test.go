package store

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/kamus/internal/apperr"
	"github.com/starford/kamus/internal/i18n"
	"github.com/starford/kamus/internal/models"
	"github.com/starford/kamus/internal/storage"
	"github.com/starford/kamus/internal/testutil"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) observe(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

func newTestStore(t *testing.T, p storage.Provider) (*Store, *recorder) {
	t.Helper()
	rec := &recorder{}
	s := New(p, DefaultKey, i18n.MustNew("id"),
		WithIDGenerator(testutil.SeqIDs()),
		WithLogger(testutil.DiscardLogger()),
		WithObserver(rec.observe),
	)
	s.Load()
	return s, rec
}

func persisted(t *testing.T, mem *testutil.MemStorage) []models.VocabEntry {
	t.Helper()
	var out []models.VocabEntry
	require.NoError(t, json.Unmarshal([]byte(mem.Raw(DefaultKey)), &out))
	return out
}

func TestAddPending_InsertsPlaceholderAtHead(t *testing.T) {
	mem := testutil.NewMemStorage()
	s, rec := newTestStore(t, mem)

	first := s.AddPending("Ambitious")
	second := s.AddPending("Brave")

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	assert.True(t, list[0].IsLoading)
	assert.False(t, list[0].IsMemorized)
	assert.Equal(t, "Sedang menerjemahkan...", list[0].Indonesian)
	assert.Equal(t, "Menghubungi AI...", list[0].Note)

	assert.Len(t, persisted(t, mem), 2)
	assert.Equal(t, []string{EventCreated, EventCreated}, rec.kinds())
}

func TestResolve_PatchesInPlace(t *testing.T) {
	mem := testutil.NewMemStorage()
	s, _ := newTestStore(t, mem)

	pending := s.AddPending("Ambitious")
	require.Equal(t, 0, indexOf(s.List(), pending.ID))

	got, err := s.Resolve(pending.ID, "Ambisius", "Memiliki keinginan kuat untuk sukses")
	require.NoError(t, err)

	assert.Equal(t, pending.ID, got.ID)
	assert.False(t, got.IsLoading)
	assert.Equal(t, "Ambisius", got.Indonesian)
	assert.Equal(t, "Memiliki keinginan kuat untuk sukses", got.Note)
	assert.Equal(t, "Ambitious", got.English)

	assert.Equal(t, got, persisted(t, mem)[0])
}

func TestFail_MarksEntry(t *testing.T) {
	s, _ := newTestStore(t, testutil.NewMemStorage())
	pending := s.AddPending("Ambitious")

	got, err := s.Fail(pending.ID)
	require.NoError(t, err)

	assert.False(t, got.IsLoading)
	assert.True(t, got.IsFailed)
	assert.Equal(t, "Gagal", got.Indonesian)
	assert.Equal(t, "Terjadi kesalahan koneksi.", got.Note)
}

func TestUnknownID(t *testing.T) {
	s, _ := newTestStore(t, testutil.NewMemStorage())

	_, err := s.Resolve("nope", "a", "b")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = s.Fail("nope")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = s.ToggleMemorized("nope")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.ErrorIs(t, s.Remove("nope"), apperr.ErrNotFound)
	_, err = s.Get("nope")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestToggleMemorized_OnlyTarget(t *testing.T) {
	s, _ := newTestStore(t, testutil.NewMemStorage())
	a := s.AddPending("a")
	b := s.AddPending("b")
	_, _ = s.Resolve(a.ID, "A", "note a")
	_, _ = s.Resolve(b.ID, "B", "note b")

	before := s.List()
	got, err := s.ToggleMemorized(a.ID)
	require.NoError(t, err)
	assert.True(t, got.IsMemorized)

	after := s.List()
	require.Len(t, after, len(before))
	for i := range before {
		want := before[i]
		if want.ID == a.ID {
			want.IsMemorized = true
		}
		assert.Equal(t, want, after[i])
	}

	got, _ = s.ToggleMemorized(a.ID)
	assert.False(t, got.IsMemorized)
}

func TestRemove(t *testing.T) {
	mem := testutil.NewMemStorage()
	s, rec := newTestStore(t, mem)
	a := s.AddPending("a")
	b := s.AddPending("b")

	require.NoError(t, s.Remove(a.ID))

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)
	assert.Len(t, persisted(t, mem), 1)
	assert.Contains(t, rec.kinds(), EventDeleted)
}

func TestClearAll_RequiresConfirmation(t *testing.T) {
	mem := testutil.NewMemStorage()
	s, _ := newTestStore(t, mem)
	s.AddPending("a")
	s.AddPending("b")
	before := mem.Raw(DefaultKey)

	err := s.ClearAll(false)
	assert.ErrorIs(t, err, apperr.ErrNotConfirmed)
	assert.Len(t, s.List(), 2)
	assert.Equal(t, before, mem.Raw(DefaultKey))

	require.NoError(t, s.ClearAll(true))
	assert.Empty(t, s.List())
	assert.Equal(t, "[]", mem.Raw(DefaultKey))
}

func TestPrepend_KeepsOrderAndMarksNew(t *testing.T) {
	s, rec := newTestStore(t, testutil.NewMemStorage())
	old := s.AddPending("old")

	added := s.Prepend([]models.WordItem{
		{English: "Resilient", Indonesian: "Tangguh", Note: "n1"},
		{English: "Diligent", Indonesian: "Rajin", Note: "n2"},
	})
	require.Len(t, added, 2)

	list := s.List()
	require.Len(t, list, 3)
	assert.Equal(t, "Resilient", list[0].English)
	assert.Equal(t, "Diligent", list[1].English)
	assert.Equal(t, old.ID, list[2].ID)
	for _, e := range list[:2] {
		assert.True(t, e.IsNew)
		assert.False(t, e.IsMemorized)
		assert.False(t, e.IsLoading)
	}
	assert.Equal(t, EventImported, rec.kinds()[len(rec.kinds())-1])

	assert.Empty(t, s.Prepend(nil))
}

func TestClearNew(t *testing.T) {
	s, rec := newTestStore(t, testutil.NewMemStorage())
	added := s.Prepend([]models.WordItem{{English: "a"}, {English: "b"}})

	s.ClearNew([]string{added[0].ID, "gone"})
	list := s.List()
	assert.False(t, list[0].IsNew)
	assert.True(t, list[1].IsNew)

	n := len(rec.kinds())
	s.ClearNew([]string{added[0].ID})
	assert.Len(t, rec.kinds(), n, "no-op must not notify")
}

func TestPersistenceRoundTrip(t *testing.T) {
	fs, err := storage.NewFS(t.TempDir())
	require.NoError(t, err)

	s, _ := newTestStore(t, fs)
	for _, w := range []string{"one", "two", "three"} {
		e := s.AddPending(w)
		_, err := s.Resolve(e.ID, w+"-id", "note "+w)
		require.NoError(t, err)
	}
	_, _ = s.ToggleMemorized(s.List()[1].ID)
	want := s.List()

	reloaded := New(fs, DefaultKey, i18n.MustNew("id"), WithLogger(testutil.DiscardLogger()))
	reloaded.Load()
	assert.Equal(t, want, reloaded.List())
}

func TestLoad_CorruptValueYieldsEmpty(t *testing.T) {
	mem := testutil.NewMemStorage()
	mem.Set(DefaultKey, []byte("{not json"))

	s, _ := newTestStore(t, mem)
	assert.Empty(t, s.List())
	assert.NotNil(t, s.List())
}

func TestLoad_ReadErrorYieldsEmpty(t *testing.T) {
	mem := testutil.NewMemStorage()
	mem.GetErr = errors.New("boom")

	s, _ := newTestStore(t, mem)
	assert.Empty(t, s.List())
}

func TestLoad_PendingEntriesBecomeFailed(t *testing.T) {
	mem := testutil.NewMemStorage()
	mem.Set(DefaultKey, []byte(`[
		{"id":"a","english":"Ambitious","indonesian":"Sedang menerjemahkan...","isMemorized":false,"note":"Menghubungi AI...","isLoading":true},
		{"id":"b","english":"Brave","indonesian":"Berani","isMemorized":true,"note":"x","isLoading":false,"isNew":true}
	]`))

	s, _ := newTestStore(t, mem)
	list := s.List()
	require.Len(t, list, 2)
	assert.False(t, list[0].IsLoading)
	assert.True(t, list[0].IsFailed)
	assert.Equal(t, "Gagal", list[0].Indonesian)
	assert.False(t, list[1].IsNew)
	assert.True(t, list[1].IsMemorized)
}

func TestLoad_RepairsMissingAndDuplicateIDs(t *testing.T) {
	mem := testutil.NewMemStorage()
	mem.Set(DefaultKey, []byte(`[{"id":"x","english":"a"},{"id":"x","english":"b"},{"english":"c"}]`))

	s, _ := newTestStore(t, mem)
	seen := map[string]bool{}
	for _, e := range s.List() {
		assert.NotEmpty(t, e.ID)
		assert.False(t, seen[e.ID], "duplicate id %s", e.ID)
		seen[e.ID] = true
	}
}

func TestReload_Notifies(t *testing.T) {
	mem := testutil.NewMemStorage()
	s, rec := newTestStore(t, mem)

	mem.Set(DefaultKey, []byte(`[{"id":"ext","english":"External"}]`))
	s.Reload()

	require.Len(t, s.List(), 1)
	assert.Equal(t, "ext", s.List()[0].ID)
	assert.Equal(t, []string{EventReloaded}, rec.kinds())
}

func TestPersistFailureKeepsMemoryState(t *testing.T) {
	mem := testutil.NewMemStorage()
	mem.PutErr = errors.New("disk full")
	s, _ := newTestStore(t, mem)

	s.AddPending("a")
	assert.Len(t, s.List(), 1)
}

func TestStats(t *testing.T) {
	s, _ := newTestStore(t, testutil.NewMemStorage())
	assert.Equal(t, models.Stats{}, s.Stats())

	a := s.AddPending("a")
	s.AddPending("b")
	s.AddPending("c")
	_, _ = s.ToggleMemorized(a.ID)
	assert.Equal(t, models.Stats{Total: 3, Memorized: 1, Progress: 33}, s.Stats())

	_, _ = s.ToggleMemorized(s.List()[0].ID)
	assert.Equal(t, 67, s.Stats().Progress)
}

func TestUniqueIDsWithUUIDs(t *testing.T) {
	s := New(testutil.NewMemStorage(), "", i18n.MustNew("id"), WithLogger(testutil.DiscardLogger()))
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		e := s.AddPending("w")
		assert.False(t, seen[e.ID])
		seen[e.ID] = true
	}
}

func indexOf(list []models.VocabEntry, id string) int {
	for i, e := range list {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// staleReader returns what was stored when Get started, then waits for
// release before handing it back.
type staleReader struct {
	*testutil.MemStorage
	reading chan struct{}
	release chan struct{}
}

func (p *staleReader) Get(key string) ([]byte, error) {
	v, err := p.MemStorage.Get(key)
	if p.reading != nil {
		close(p.reading)
		<-p.release
	}
	return v, err
}

func TestReload_DoesNotLoseConcurrentResolve(t *testing.T) {
	p := &staleReader{MemStorage: testutil.NewMemStorage()}
	s, _ := newTestStore(t, p)
	pending := s.AddPending("Resilient")

	p.reading = make(chan struct{})
	p.release = make(chan struct{})
	reloaded := make(chan struct{})
	go func() {
		s.Reload()
		close(reloaded)
	}()
	<-p.reading

	resolved := make(chan error, 1)
	go func() {
		_, err := s.Resolve(pending.ID, "Tangguh", "Kata sifat.")
		resolved <- err
	}()
	time.Sleep(20 * time.Millisecond)
	close(p.release)

	<-reloaded
	require.NoError(t, <-resolved)

	got, err := s.Get(pending.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tangguh", got.Indonesian)
	assert.False(t, got.IsLoading)
	assert.Equal(t, got, persisted(t, p.MemStorage)[0])
}
