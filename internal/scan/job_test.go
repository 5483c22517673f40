package scan

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Iron-Ham/logparser/internal/filter"
	"github.com/Iron-Ham/logparser/internal/linestore"
)

func collect(j *Job) []Snapshot {
	var out []Snapshot
	for s := range j.Snapshots() {
		out = append(out, s)
	}
	return out
}

func numberedLines(n int, format string) *linestore.Store {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf(format, i)
	}
	return linestore.FromLines(lines)
}

func TestJob_EmptyForestKeepsEverything(t *testing.T) {
	store := linestore.Parse("a\n\nb\n")
	snaps := collect(NewJob(1, store, filter.New(), Options{IncludeBlankLines: true}))

	final := snaps[len(snaps)-1]
	if !final.Final {
		t.Fatal("last snapshot should be final")
	}
	if final.Text != "a\n\nb" {
		t.Errorf("Text = %q, want %q", final.Text, "a\n\nb")
	}
	if final.Matches != 3 {
		t.Errorf("Matches = %d, want 3", final.Matches)
	}
}

func TestJob_StrictBlankLines(t *testing.T) {
	store := linestore.Parse("a\n\nb")
	snaps := collect(NewJob(1, store, filter.New(), Options{IncludeBlankLines: false}))

	final := snaps[len(snaps)-1]
	if final.Text != "a\nb" {
		t.Errorf("Text = %q, want %q", final.Text, "a\nb")
	}
	if got := final.LineNumbers; len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Errorf("LineNumbers = %v, want [0 2]", got)
	}
}

func TestJob_IncrementalSnapshots(t *testing.T) {
	store := linestore.Parse("ERROR one\nINFO two\nERROR three\nWARN four\nERROR five")
	forest := filter.New()
	_, _ = forest.Add("ERROR", filter.Include)

	snaps := collect(NewJob(9, store, forest, Options{IncludeBlankLines: true}))

	wantTexts := []string{
		"ERROR one",
		"ERROR one\nERROR three",
		"ERROR one\nERROR three\nERROR five",
		"ERROR one\nERROR three\nERROR five",
	}
	if len(snaps) != len(wantTexts) {
		t.Fatalf("got %d snapshots, want %d", len(snaps), len(wantTexts))
	}
	for i, want := range wantTexts {
		s := snaps[i]
		if s.Text != want {
			t.Errorf("snapshot %d Text = %q, want %q", i, s.Text, want)
		}
		if s.Generation != 9 {
			t.Errorf("snapshot %d Generation = %d, want 9", i, s.Generation)
		}
		if s.Final != (i == len(wantTexts)-1) {
			t.Errorf("snapshot %d Final = %v", i, s.Final)
		}
		if i > 0 && !strings.HasPrefix(s.Text, snaps[i-1].Text) {
			t.Errorf("snapshot %d does not extend the previous one", i)
		}
	}

	// Earlier snapshots are unaffected by later appends.
	if got := snaps[0].LineNumbers; len(got) != 1 || got[0] != 0 {
		t.Errorf("first snapshot LineNumbers = %v, want [0]", got)
	}
	if got := snaps[1].Scanned; got != 3 {
		t.Errorf("second snapshot Scanned = %d, want 3", got)
	}
	if got := snaps[3].Scanned; got != 5 {
		t.Errorf("final Scanned = %d, want 5", got)
	}
}

func TestJob_NoResults(t *testing.T) {
	store := linestore.Parse("INFO a\nINFO b")
	forest := filter.New()
	_, _ = forest.Add("ERROR", filter.Include)

	snaps := collect(NewJob(1, store, forest, Options{IncludeBlankLines: true}))
	if len(snaps) != 1 {
		t.Fatalf("got %d snapshots, want only the terminal one", len(snaps))
	}
	s := snaps[0]
	if !s.Final || !s.NoResults || s.Text != NoResults {
		t.Errorf("terminal snapshot = %+v, want No Results!", s)
	}
	if s.Matches != 0 || s.Scanned != 2 {
		t.Errorf("Matches = %d, Scanned = %d", s.Matches, s.Scanned)
	}
}

func TestJob_EmptyStore(t *testing.T) {
	snaps := collect(NewJob(1, linestore.Parse(""), filter.New(), Options{IncludeBlankLines: true}))
	if len(snaps) != 1 || !snaps[0].NoResults {
		t.Errorf("empty store should produce only No Results!, got %+v", snaps)
	}
}

func TestJob_MatchCap(t *testing.T) {
	tests := []struct {
		name    string
		cap     int
		wantCap int
	}{
		{"default cap", 0, DefaultMatchCap},
		{"explicit cap", 50, 50},
		{"negative falls back to default", -3, DefaultMatchCap},
	}

	store := numberedLines(10000, "match %d")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snaps := collect(NewJob(1, store, filter.New(), Options{MatchCap: tt.cap, IncludeBlankLines: true}))

			final := snaps[len(snaps)-1]
			if !final.Final {
				t.Fatal("capped scan should still emit a terminal snapshot")
			}
			if final.Matches != tt.wantCap {
				t.Errorf("Matches = %d, want %d", final.Matches, tt.wantCap)
			}
			if final.Scanned != tt.wantCap {
				t.Errorf("Scanned = %d, want %d (scan must stop at the cap)", final.Scanned, tt.wantCap)
			}
			lines := strings.Split(final.Text, "\n")
			if len(lines) != tt.wantCap {
				t.Fatalf("Text has %d lines, want %d", len(lines), tt.wantCap)
			}
			for i, l := range lines {
				if l != fmt.Sprintf("match %d", i) {
					t.Fatalf("line %d = %q, out of order", i, l)
				}
			}
			if len(snaps) != tt.wantCap+1 {
				t.Errorf("got %d snapshots, want %d incremental + 1 terminal", len(snaps), tt.wantCap)
			}
		})
	}
}

func TestJob_CapCountsOnlyMatches(t *testing.T) {
	lines := make([]string, 0, 1000)
	for i := range 1000 {
		if i%2 == 0 {
			lines = append(lines, fmt.Sprintf("keep %d", i))
		} else {
			lines = append(lines, fmt.Sprintf("skip %d", i))
		}
	}
	forest := filter.New()
	_, _ = forest.Add("skip", filter.Exclude)

	snaps := collect(NewJob(1, linestore.FromLines(lines), forest, Options{MatchCap: 10, IncludeBlankLines: true}))
	final := snaps[len(snaps)-1]
	if final.Matches != 10 {
		t.Errorf("Matches = %d, want 10", final.Matches)
	}
	if final.Scanned != 19 {
		t.Errorf("Scanned = %d, want 19", final.Scanned)
	}
	if final.LineNumbers[9] != 18 {
		t.Errorf("last matched index = %d, want 18", final.LineNumbers[9])
	}
}

func TestJob_CancelStopsWithoutTerminal(t *testing.T) {
	store := numberedLines(1000, "line %d")
	job := NewJob(1, store, filter.New(), Options{MatchCap: 1000, IncludeBlankLines: true})

	var seen []Snapshot
	completed := job.Run(func(s Snapshot) {
		seen = append(seen, s)
		if len(seen) == 3 {
			job.Cancel()
		}
	})

	if completed {
		t.Error("Run() = true for a cancelled job, want false")
	}
	if len(seen) != 3 {
		t.Errorf("got %d snapshots after cancel at 3", len(seen))
	}
	for _, s := range seen {
		if s.Final {
			t.Error("cancelled job emitted a terminal snapshot")
		}
	}
	if !job.Cancelled() {
		t.Error("Cancelled() = false after Cancel")
	}
}

func TestJob_CancelBeforeRun(t *testing.T) {
	job := NewJob(1, numberedLines(10, "l%d"), filter.New(), Options{IncludeBlankLines: true})
	job.Cancel()
	job.Cancel()
	if snaps := collect(job); len(snaps) != 0 {
		t.Errorf("cancelled job produced %d snapshots", len(snaps))
	}
}

func TestJob_ConsumerBreak(t *testing.T) {
	job := NewJob(1, numberedLines(100, "l%d"), filter.New(), Options{IncludeBlankLines: true})
	n := 0
	for range job.Snapshots() {
		n++
		if n == 5 {
			break
		}
	}
	if n != 5 {
		t.Errorf("iterated %d times, want 5", n)
	}
}

func TestJob_Idempotent(t *testing.T) {
	store := linestore.Parse("svc1 svc2 retry\nsvc1 svc2\nsvc1 retry\nnoise\nsvc2 retry x")
	forest := filter.New()
	_, _ = forest.Add("svc1", filter.Include)
	root, _ := forest.Add("svc2", filter.Include)
	_, _ = forest.AddChild(root.ID, "retry", filter.Include)

	opts := Options{IncludeBlankLines: true}
	a := collect(NewJob(1, store, forest, opts))
	b := collect(NewJob(2, store, forest, opts))

	fa, fb := a[len(a)-1], b[len(b)-1]
	if fa.Text != fb.Text {
		t.Errorf("terminal texts differ: %q vs %q", fa.Text, fb.Text)
	}
	if fa.Text != "svc1 svc2 retry\nsvc1 retry\nsvc2 retry x" {
		t.Errorf("Text = %q", fa.Text)
	}
}

func TestJob_ForestSnapshotIsolated(t *testing.T) {
	store := linestore.Parse("ERROR a\nINFO b")
	forest := filter.New()
	_, _ = forest.Add("ERROR", filter.Include)

	job := NewJob(1, store, forest, Options{IncludeBlankLines: true})
	forest.Clear()

	snaps := collect(job)
	if got := snaps[len(snaps)-1].Text; got != "ERROR a" {
		t.Errorf("Text = %q, job should use the forest as it was at creation", got)
	}
}
