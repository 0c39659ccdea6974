// Package history keeps the in-memory log of generated blueprints for a session.
package history

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dhabedank/idea-blueprint/internal/core"
)

const labelPrefixLen = 20

// Entry is an immutable snapshot of one generation.
type Entry struct {
	ID        string                 `json:"id"`
	ParentID  string                 `json:"parentId,omitempty"` // Entry that was current when this one was appended
	Request   core.GenerationRequest `json:"request"`
	Blueprint *core.Blueprint        `json:"blueprint"`
	CreatedAt time.Time              `json:"createdAt"`
}

// Label is the display text of an entry: the focus area when set,
// otherwise a prefix of the idea.
func (e Entry) Label() string {
	if focus := e.Request.Focus(); focus != "" {
		return focus
	}
	idea := strings.TrimSpace(e.Request.Idea)
	if r := []rune(idea); len(r) > labelPrefixLen {
		return string(r[:labelPrefixLen]) + "..."
	}
	return idea
}

func (e Entry) clone() Entry {
	e.Blueprint = e.Blueprint.Clone()
	if e.Request.FocusArea != nil {
		focus := *e.Request.FocusArea
		e.Request.FocusArea = &focus
	}
	return e
}

// Store is an append-only sequence of entries with a current cursor.
// Navigating never truncates later entries.
type Store struct {
	mu      sync.RWMutex
	entries []Entry
	current int
	now     func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{current: -1, now: time.Now}
}

// Append adds an entry at the end, regardless of the cursor, and moves the
// cursor to it. It returns the new entry's index.
func (s *Store) Append(req core.GenerationRequest, bp *core.Blueprint) (int, Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := Entry{
		ID:        uuid.NewString(),
		Request:   req,
		Blueprint: bp,
		CreatedAt: s.now(),
	}
	if s.current >= 0 {
		e.ParentID = s.entries[s.current].ID
	}
	e = e.clone()

	s.entries = append(s.entries, e)
	s.current = len(s.entries) - 1
	return s.current, e.clone()
}

// Get returns the entry at index.
func (s *Store) Get(index int) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkIndex(index); err != nil {
		return Entry{}, err
	}
	return s.entries[index].clone(), nil
}

// Current returns the entry under the cursor. ok is false when the store is empty.
func (s *Store) Current() (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current < 0 {
		return Entry{}, false
	}
	return s.entries[s.current].clone(), true
}

// Cursor returns the cursor position together with the entry under it.
// ok is false when the store is empty.
func (s *Store) Cursor() (int, Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current < 0 {
		return -1, Entry{}, false
	}
	return s.current, s.entries[s.current].clone(), true
}

// Navigate moves the cursor. It never changes the stored sequence.
func (s *Store) Navigate(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.current = index
	return nil
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// CurrentIndex returns the cursor position, or -1 when empty.
func (s *Store) CurrentIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Snapshot returns a copy of all entries and the cursor position, read
// together.
func (s *Store) Snapshot() ([]Entry, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyEntries(), s.current
}

// Entries returns a copy of all entries in order.
func (s *Store) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyEntries()
}

func (s *Store) copyEntries() []Entry {
	out := make([]Entry, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.clone()
	}
	return out
}

func (s *Store) checkIndex(index int) error {
	if index < 0 || index >= len(s.entries) {
		return core.NewError(core.KindIndexOutOfRange, "history",
			fmt.Errorf("index %d not in [0, %d)", index, len(s.entries)))
	}
	return nil
}
