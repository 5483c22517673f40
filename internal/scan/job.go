package scan

import (
	"iter"
	"strings"
	"sync/atomic"

	"github.com/Iron-Ham/logparser/internal/filter"
	"github.com/Iron-Ham/logparser/internal/linestore"
)

// DefaultMatchCap is the number of matching lines a scan collects before it
// stops.
const DefaultMatchCap = 200

// NoResults is the terminal text of a scan that matched nothing.
const NoResults = "No Results!"

// Snapshot is the state of a scan after a match, or at completion.
//
// Snapshots of one job grow by prefix: each Text extends the previous one by
// a newline and the new line.
type Snapshot struct {
	Generation  uint64
	Text        string
	Matches     int
	LineNumbers []int // zero-based indexes into the store, ascending
	Scanned     int   // lines examined so far
	Final       bool
	NoResults   bool
}

// Sink receives snapshots on the scanning goroutine.
type Sink func(Snapshot)

// Options control a single scan.
type Options struct {
	MatchCap          int // values <= 0 mean DefaultMatchCap
	IncludeBlankLines bool
}

func (o Options) matchCap() int {
	if o.MatchCap <= 0 {
		return DefaultMatchCap
	}
	return o.MatchCap
}

// Job is one pass over a store. It holds its own copy of the filter groups,
// so the caller may keep mutating its forest while the job runs.
type Job struct {
	generation uint64
	store      *linestore.Store
	groups     []filter.Group
	opts       Options
	cancelled  atomic.Bool
}

// NewJob prepares a scan of store against forest. Nothing runs until
// Snapshots is ranged over or Run is called.
func NewJob(generation uint64, store *linestore.Store, forest *filter.Forest, opts Options) *Job {
	return &Job{
		generation: generation,
		store:      store,
		groups:     forest.Groups(),
		opts:       opts,
	}
}

// Generation returns the job's generation number.
func (j *Job) Generation() uint64 {
	return j.generation
}

// Cancel asks the job to stop. It is safe to call from any goroutine and
// more than once. A cancelled job emits no terminal snapshot.
func (j *Job) Cancel() {
	j.cancelled.Store(true)
}

// Cancelled reports whether Cancel has been called.
func (j *Job) Cancelled() bool {
	return j.cancelled.Load()
}

// Snapshots returns the job's snapshots as a sequence: one per matching
// line, then a terminal snapshot with Final set. The scan stops early when
// the match cap is reached, when the consumer stops iterating, or when the
// job is cancelled.
func (j *Job) Snapshots() iter.Seq[Snapshot] {
	return func(yield func(Snapshot) bool) {
		lines := j.store.Lines()
		limit := j.opts.matchCap()

		var buf strings.Builder
		var matched []int
		scanned := 0

		for i, line := range lines {
			if j.cancelled.Load() {
				return
			}
			scanned = i + 1

			if !filter.Evaluate(line, j.groups, j.opts.IncludeBlankLines) {
				continue
			}
			if len(matched) > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(line)
			matched = append(matched, i)

			if j.cancelled.Load() {
				return
			}
			if !yield(j.snapshot(buf.String(), matched, scanned, false)) {
				return
			}
			if len(matched) >= limit {
				break
			}
		}

		if j.cancelled.Load() {
			return
		}
		yield(j.snapshot(buf.String(), matched, scanned, true))
	}
}

// Run feeds every snapshot to sink and reports whether the job ran to
// completion (false when cancelled).
func (j *Job) Run(sink Sink) bool {
	completed := false
	for snap := range j.Snapshots() {
		sink(snap)
		completed = snap.Final
	}
	return completed
}

func (j *Job) snapshot(text string, matched []int, scanned int, final bool) Snapshot {
	n := len(matched)
	snap := Snapshot{
		Generation:  j.generation,
		Text:        text,
		Matches:     n,
		LineNumbers: matched[:n:n],
		Scanned:     scanned,
		Final:       final,
	}
	if final && n == 0 {
		snap.Text = NoResults
		snap.NoResults = true
	}
	return snap
}
