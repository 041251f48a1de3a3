package state

import "sync"

// RWULock is a reader/writer lock with a third, update mode. Update holders
// exclude writers and other updaters but run concurrently with readers, so a
// thread can check-then-act (create a typed cache, say) without another
// writer interleaving while plain reads continue.
//
// Acquisition returns a release func or guard meant for defer, so the lock is
// released on every exit path.
type RWULock struct {
	u  sync.Mutex
	rw sync.RWMutex
}

// RLock acquires shared read access and returns the release func.
func (l *RWULock) RLock() func() {
	l.rw.RLock()
	return l.rw.RUnlock
}

// Lock acquires exclusive write access and returns the release func. Writers
// queue behind update holders.
func (l *RWULock) Lock() func() {
	l.u.Lock()
	l.rw.Lock()
	return func() {
		l.rw.Unlock()
		l.u.Unlock()
	}
}

// ULock acquires update access. The holder may read concurrently with
// readers, and may Upgrade to exclusive write access without any other
// writer having interleaved.
func (l *RWULock) ULock() *UpdateGuard {
	l.u.Lock()
	return &UpdateGuard{l: l}
}

// UpdateGuard scopes one update-mode acquisition.
type UpdateGuard struct {
	l       *RWULock
	writing bool
}

// Upgrade escalates to exclusive write access, waiting for readers to drain.
// Idempotent within one guard.
func (g *UpdateGuard) Upgrade() {
	if !g.writing {
		g.l.rw.Lock()
		g.writing = true
	}
}

// Release drops whatever access the guard holds.
func (g *UpdateGuard) Release() {
	if g.writing {
		g.l.rw.Unlock()
		g.writing = false
	}
	g.l.u.Unlock()
}
