package tui

import (
	"testing"
	"time"

	"github.com/Iron-Ham/logparser/internal/scan"
)

func TestSnapshotRelay_KeepsLatest(t *testing.T) {
	r := newSnapshotRelay()
	defer r.Close()

	r.Put(scan.Snapshot{Generation: 1, Matches: 1})
	r.Put(scan.Snapshot{Generation: 1, Matches: 2})
	r.Put(scan.Snapshot{Generation: 2, Matches: 1, Final: true})

	msg, ok := r.Wait()().(snapshotMsg)
	if !ok {
		t.Fatal("Wait() did not return a snapshotMsg")
	}
	if msg.snapshot.Generation != 2 || !msg.snapshot.Final {
		t.Errorf("snapshot = %+v, want final of generation 2", msg.snapshot)
	}
}

func TestSnapshotRelay_PutNeverBlocks(t *testing.T) {
	r := newSnapshotRelay()
	defer r.Close()

	done := make(chan struct{})
	go func() {
		for i := range 1000 {
			r.Put(scan.Snapshot{Matches: i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Put blocked without a reader")
	}
}

func TestSnapshotRelay_CloseReleasesWait(t *testing.T) {
	r := newSnapshotRelay()

	got := make(chan any, 1)
	go func() { got <- r.Wait()() }()

	r.Close()
	r.Close()

	select {
	case msg := <-got:
		if msg != nil {
			t.Errorf("Wait() after Close = %v, want nil", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after Close")
	}
}
