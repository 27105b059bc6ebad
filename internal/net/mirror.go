package net

import (
	"sync"

	"dotmatrix/internal/state"
)

// Mirror holds the latest board seen by a viewer. Frames from an older
// revision of the same session are dropped; a new session replaces the old
// one outright.
type Mirror struct {
	mu       sync.RWMutex
	snap     state.Snapshot
	session  string
	OnUpdate func()
}

// Apply decodes m and reports whether it replaced the current snapshot.
func (m *Mirror) Apply(msg Message) (bool, error) {
	s, err := msg.Snapshot()
	if err != nil {
		return false, err
	}
	m.mu.Lock()
	if msg.Session == m.session && m.snap.Grid != nil && s.Revision <= m.snap.Revision {
		m.mu.Unlock()
		return false, nil
	}
	m.session = msg.Session
	m.snap = s
	m.mu.Unlock()
	if m.OnUpdate != nil {
		m.OnUpdate()
	}
	return true, nil
}

// Snapshot returns the latest board; the zero Snapshot before any frame.
func (m *Mirror) Snapshot() state.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap
}
