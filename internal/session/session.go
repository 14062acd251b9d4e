// Package session manages per-connection form edit sessions. A session
// exclusively owns its working copy of a record value; nothing outside
// the session's connection mutates it.
package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/shearsapp/shears/internal/derive"
	"github.com/shearsapp/shears/internal/form"
	"github.com/shearsapp/shears/internal/types"
)

// Session holds the state of one open form: the merged field list, the
// working record value, the derivation engine with its auto-write
// history, and the link-search sequence counter used to discard stale
// picker results.
type Session struct {
	ID         string
	RecordID   string // empty until first save of a new record
	RecordType string
	Mode       form.Mode
	Fields     []types.FieldDefinition
	Record     types.RecordValue
	Engine     *derive.Engine

	CreatedAt    time.Time
	LastActiveAt time.Time

	// linkSeq is read from link-search goroutines while the connection
	// loop issues new queries, hence atomic.
	linkSeq atomic.Int64
}

// New creates a session owning the given working record copy.
func New(recordType string, mode form.Mode, fields []types.FieldDefinition, rec types.RecordValue) *Session {
	now := time.Now()
	if rec == nil {
		rec = types.RecordValue{}
	}
	return &Session{
		ID:           uuid.New().String(),
		RecordType:   recordType,
		Mode:         mode,
		Fields:       fields,
		Record:       rec,
		Engine:       derive.NewEngine(),
		CreatedAt:    now,
		LastActiveAt: now,
	}
}

// Touch updates the last activity timestamp.
func (s *Session) Touch() {
	s.LastActiveAt = time.Now()
}

// NextLinkQuery issues the sequence number for a new link-search query.
// Responses carrying an older sequence than the current one are stale and
// must be discarded.
func (s *Session) NextLinkQuery() int64 {
	return s.linkSeq.Add(1)
}

// IsStaleLinkQuery reports whether a newer link-search query has been
// issued since seq.
func (s *Session) IsStaleLinkQuery(seq int64) bool {
	return seq < s.linkSeq.Load()
}

// IsIdle reports whether the session has been inactive longer than the
// timeout.
func (s *Session) IsIdle(timeout time.Duration) bool {
	return time.Since(s.LastActiveAt) > timeout
}

// Manager tracks live sessions for lookup and cleanup.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Add registers a session.
func (m *Manager) Add(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
}

// Get returns a session by id, or nil.
func (m *Manager) Get(id string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id]
}

// Remove drops a session.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// PruneIdle removes sessions idle longer than the timeout and returns how
// many were dropped.
func (m *Manager) PruneIdle(timeout time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int
	for id, s := range m.sessions {
		if s.IsIdle(timeout) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}
