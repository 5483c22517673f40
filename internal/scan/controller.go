package scan

import (
	"sync"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/Iron-Ham/logparser/internal/filter"
	"github.com/Iron-Ham/logparser/internal/linestore"
	"github.com/Iron-Ham/logparser/internal/logging"
)

// Controller owns at most one running Job and delivers its snapshots to a
// Sink.
//
// The sink runs on the job's goroutine and must not call back into the
// Controller: Restart and Stop wait for that goroutine to exit.
type Controller struct {
	mu       sync.Mutex
	sink     Sink
	logger   *logging.Logger
	matchCap int

	generation uint64
	current    *Job
	wg         *conc.WaitGroup
}

// NewController creates a controller. A nil logger discards output.
func NewController(sink Sink, matchCap int, logger *logging.Logger) *Controller {
	if sink == nil {
		sink = func(Snapshot) {}
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Controller{
		sink:     sink,
		logger:   logger,
		matchCap: matchCap,
	}
}

// SetMatchCap changes the cap used by subsequent restarts.
func (c *Controller) SetMatchCap(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.matchCap = n
}

// Generation returns the generation of the most recently started job, or 0
// if none has started.
func (c *Controller) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Restart cancels the running job, waits until its goroutine has returned,
// then starts a new job over store and a copy of forest. It returns the new
// job's generation. Once Restart returns, the sink sees nothing from any
// earlier job.
func (c *Controller) Restart(store *linestore.Store, forest *filter.Forest, includeBlankLines bool) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()

	c.generation++
	job := NewJob(c.generation, store, forest, Options{
		MatchCap:          c.matchCap,
		IncludeBlankLines: includeBlankLines,
	})
	c.current = job
	c.wg = conc.NewWaitGroup()

	log := c.logger.WithGeneration(job.Generation())
	sink := c.sink
	filters := forest.Count()
	c.wg.Go(func() {
		start := time.Now()
		log.Debug("scan started", "lines", store.Len(), "filters", filters)

		var last Snapshot
		completed := job.Run(func(s Snapshot) {
			last = s
			sink(s)
		})

		if completed {
			log.Debug("scan finished",
				"matches", last.Matches,
				"scanned", last.Scanned,
				"elapsed_ms", time.Since(start).Milliseconds())
		} else {
			log.Debug("scan cancelled",
				"matches", last.Matches,
				"scanned", last.Scanned)
		}
	})

	return job.Generation()
}

// Stop cancels the running job, if any, and waits for it to exit.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

// Wait blocks until the current job finishes on its own. Restart and Stop
// from other goroutines block until then.
func (c *Controller) Wait() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.waitLocked()
}

func (c *Controller) stopLocked() {
	if c.current == nil {
		return
	}
	c.current.Cancel()
	c.waitLocked()
}

func (c *Controller) waitLocked() {
	if c.wg == nil {
		return
	}
	if r := c.wg.WaitAndRecover(); r != nil {
		c.logger.WithGeneration(c.current.Generation()).Error("scan panicked",
			"panic", r.String(),
			"stack", string(r.Stack))
	}
	c.wg = nil
	c.current = nil
}
