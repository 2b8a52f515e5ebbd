package app

import "sync"

// CaseLocks provides the per-case exclusive section. Every mutation of a
// case's state (status, phases, gates, trail) runs under that case's lock,
// so concurrent operations on the same case are linearized while
// operations on different cases never block each other.
type CaseLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewCaseLocks creates an empty lock registry.
func NewCaseLocks() *CaseLocks {
	return &CaseLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the exclusive section for a case and returns the release
// function. Locks are created on first use and kept for the process
// lifetime; the per-case entry is a single mutex, so the registry stays
// small (one entry per case touched).
func (l *CaseLocks) Lock(caseID string) func() {
	l.mu.Lock()
	m, ok := l.locks[caseID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[caseID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
