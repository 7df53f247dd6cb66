package chat

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// ErrStore marks every failure raised by a Store backend.
var ErrStore = errors.New("message store failure")

// StoreError wraps a backend failure with the operation that raised it.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() []error {
	return []error{ErrStore, e.Err}
}

// NewStoreError wraps err unless it is nil or already a StoreError.
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	var existing *StoreError
	if errors.As(err, &existing) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// Store owns every Message record, partitioned by session id.
type Store interface {
	// Create assigns a fresh id and timestamp and stores the message.
	Create(ctx context.Context, msg NewMessage) (Message, error)
	// ListBySession returns the session log oldest first.
	ListBySession(ctx context.Context, sessionID string) ([]Message, error)
	// ClearSession removes every message of the session. Idempotent.
	ClearSession(ctx context.Context, sessionID string) error
	// Delete removes a single message. Unknown ids are ignored.
	Delete(ctx context.Context, id int64) error
}

// MemoryStore implements Store with in-process maps, suitable for a single instance.
type MemoryStore struct {
	mu        sync.RWMutex
	nextID    int64
	bySession map[string][]Message
	sessionOf map[int64]string
	now       func() time.Time
}

// NewMemoryStore returns an empty MemoryStore whose ids start at 1.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID:    1,
		bySession: make(map[string][]Message),
		sessionOf: make(map[int64]string),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the timestamp source. Intended for tests.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
	return s
}

// Create stores msg under a new id.
func (s *MemoryStore) Create(_ context.Context, msg NewMessage) (Message, error) {
	if err := msg.Validate(); err != nil {
		return Message{}, NewStoreError("create", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := Message{
		ID:            s.nextID,
		Content:       msg.Content,
		Role:          msg.Role,
		SessionID:     msg.SessionID,
		GeneratedCode: cloneWebsite(msg.GeneratedCode),
		CreatedAt:     s.now(),
	}
	s.nextID++

	s.bySession[stored.SessionID] = append(s.bySession[stored.SessionID], stored)
	s.sessionOf[stored.ID] = stored.SessionID

	return cloneMessage(stored), nil
}

// ListBySession returns a copy of the session log sorted by creation time.
func (s *MemoryStore) ListBySession(_ context.Context, sessionID string) ([]Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.bySession[sessionID]
	out := make([]Message, 0, len(stored))
	for _, msg := range stored {
		out = append(out, cloneMessage(msg))
	}
	SortMessages(out)
	return out, nil
}

// ClearSession drops the whole session partition.
func (s *MemoryStore) ClearSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, msg := range s.bySession[sessionID] {
		delete(s.sessionOf, msg.ID)
	}
	delete(s.bySession, sessionID)
	return nil
}

// Delete removes one message by id.
func (s *MemoryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessionID, ok := s.sessionOf[id]
	if !ok {
		return nil
	}
	delete(s.sessionOf, id)

	stored := s.bySession[sessionID]
	for i, msg := range stored {
		if msg.ID == id {
			stored = append(stored[:i], stored[i+1:]...)
			break
		}
	}
	if len(stored) == 0 {
		delete(s.bySession, sessionID)
	} else {
		s.bySession[sessionID] = stored
	}
	return nil
}

// SortMessages orders a log by creation time, breaking ties by id.
func SortMessages(messages []Message) {
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Before(messages[j])
	})
}

func cloneMessage(m Message) Message {
	m.GeneratedCode = cloneWebsite(m.GeneratedCode)
	return m
}

func cloneWebsite(w *GeneratedWebsite) *GeneratedWebsite {
	if w == nil {
		return nil
	}
	copied := *w
	return &copied
}
