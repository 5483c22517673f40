package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/logparser/internal/scan"
)

// snapshotRelay carries scan snapshots from the scanning goroutine to the
// event loop. Put never blocks: the session waits for the scan goroutine
// while it holds its lock, and the event loop may be inside a session call
// at that moment. Only the newest snapshot is kept, which loses nothing
// because each snapshot of a job contains all earlier ones.
type snapshotRelay struct {
	mu     sync.Mutex
	latest scan.Snapshot
	notify chan struct{}

	closeOnce sync.Once
	done      chan struct{}
}

func newSnapshotRelay() *snapshotRelay {
	return &snapshotRelay{
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Put is the scan.Sink for the session.
func (r *snapshotRelay) Put(s scan.Snapshot) {
	r.mu.Lock()
	r.latest = s
	r.mu.Unlock()

	select {
	case r.notify <- struct{}{}:
	default:
	}
}

// Wait returns a command that delivers the next snapshot as a snapshotMsg.
// It yields nil once the relay is closed.
func (r *snapshotRelay) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-r.notify:
		case <-r.done:
			return nil
		}
		r.mu.Lock()
		s := r.latest
		r.mu.Unlock()
		return snapshotMsg{snapshot: s}
	}
}

// Close releases any pending Wait.
func (r *snapshotRelay) Close() {
	r.closeOnce.Do(func() { close(r.done) })
}
