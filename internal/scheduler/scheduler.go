// Package scheduler implements C6: the microtask-like job queue with
// pre/sync/post flush buckets and a recursion bound that the compiler's
// generated timing-mode calls (pre/sync/post, spec §4.6) assume at
// runtime. It is specified alongside the compiler itself because
// codegen's ordering guarantees are only meaningful if some concrete
// queue honors them — this package is that reference queue, exercised
// directly by its own tests.
package scheduler

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/rs/xid"

	"github.com/kinetic-sfc/compiler/internal/errors"
)

// defaultRecursionLimit is the per-flush invocation bound spec §4.6
// names ("exceeding a fixed bound (default 100)").
const defaultRecursionLimit = 100

// Job is one scheduled unit of work (spec §4.6 "Scheduler job": `{ fn,
// id, pre, allowRecurse, active }`). UID gives every job — including
// anonymous ones with a nil ID — a stable identity for dedup and
// recursion-count bookkeeping, independent of the optional sort-order ID.
type Job struct {
	UID          string
	Owner        string // owning component name, surfaced in recursion-limit warnings
	Fn           func() error
	ID           *int // nil sorts as +Inf (spec §4.6 Queues)
	Pre          bool
	AllowRecurse bool
	Active       bool
}

// NewJob builds an active Job with a fresh xid identity (spec §4.6
// "Scheduler job"; rs/xid is used the same way
// buke-esbuild-plugin-vue-go pairs xid.New() with per-request work
// items).
func NewJob(owner string, fn func() error) *Job {
	return &Job{UID: xid.New().String(), Owner: owner, Fn: fn, Active: true}
}

// Scheduler owns one compile/runtime session's queue state (spec §4.6
// Queues/Flush). It is safe for concurrent QueueJob/QueuePostFlushCb
// calls from multiple goroutines even though the flush itself executes
// jobs on a single logical thread (spec §5 "Scheduling model"), the same
// mutex-guarded-cache shape internal/scope.Graph follows for its
// process-wide caches.
type Scheduler struct {
	mu     sync.Mutex
	logger *slog.Logger

	recursionLimit int
	onError        func(job *Job, err error)

	queue               []*Job
	pendingPostFlushCbs []*Job
	activePostFlushCbs  []*Job
	postFlushing        bool
	flushIndex          int
	flushing            bool

	seen map[string]int // per-flush recursion counter, keyed by Job.UID
}

// New constructs a Scheduler. logger defaults to slog.Default() the same
// way scope.NewGraph does; onError defaults to a no-op when nil.
func New(logger *slog.Logger, onError func(job *Job, err error)) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if onError == nil {
		onError = func(*Job, error) {}
	}
	return &Scheduler{
		logger:         logger,
		onError:        onError,
		recursionLimit: defaultRecursionLimit,
		seen:           make(map[string]int),
	}
}

// SetRecursionLimit overrides the default bound of 100.
func (s *Scheduler) SetRecursionLimit(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recursionLimit = n
}

func idValue(j *Job) int {
	if j.ID == nil {
		return int(^uint(0) >> 1) // +Inf sentinel (spec §4.6 "id=nil sorts as +∞")
	}
	return *j.ID
}

// compareJobs orders by id ascending (nil == +Inf), then by pre before
// non-pre at equal id (spec §4.6 Queues).
func compareJobs(a, b *Job) int {
	ai, bi := idValue(a), idValue(b)
	switch {
	case ai < bi:
		return -1
	case ai > bi:
		return 1
	case a.Pre == b.Pre:
		return 0
	case a.Pre:
		return -1
	default:
		return 1
	}
}

func indexOfUID(jobs []*Job, uid string, from int) int {
	if from < 0 {
		from = 0
	}
	for i := from; i < len(jobs); i++ {
		if jobs[i].UID == uid {
			return i
		}
	}
	return -1
}

// QueueJob enqueues job (spec §4.6 "Enqueue (queueJob)"): rejected as a
// duplicate if already present in queue[flushIndex:], or
// queue[flushIndex+1:] when the job allows recursion and a flush is
// currently running, so a running job may queue one further copy of
// itself (each such run may do so again, bounded by the recursion
// limit). Otherwise inserted at its sorted position.
func (s *Scheduler) QueueJob(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	from := s.flushIndex
	if job.AllowRecurse && s.flushing {
		from = s.flushIndex + 1
	}
	if indexOfUID(s.queue, job.UID, from) >= 0 {
		return
	}

	pos := sort.Search(len(s.queue), func(i int) bool {
		return compareJobs(s.queue[i], job) > 0
	})
	s.queue = append(s.queue, nil)
	copy(s.queue[pos+1:], s.queue[pos:])
	s.queue[pos] = job
}

// InvalidateJob removes job from queue if it hasn't started running yet
// (spec §4.6 "Cancellation"): a job at or before flushIndex is currently
// running or has already run and cannot be cancelled.
func (s *Scheduler) InvalidateJob(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := indexOfUID(s.queue, job.UID, 0)
	// Outside a flush no queued job has started, so any of them can go.
	if idx >= 0 && (!s.flushing || idx > s.flushIndex) {
		s.queue = append(s.queue[:idx], s.queue[idx+1:]...)
	}
}

// QueuePostFlushCb defers job until after queue drains (spec §4.6
// "post: pushed to pendingPostFlushCbs"), deduplicated by identity. If a
// post-flush batch is currently running, job joins activePostFlushCbs
// instead so it runs in the same batch (spec §5: "Post callbacks queued
// from within a running post callback are appended to
// activePostFlushCbs and processed in the same batch").
func (s *Scheduler) QueuePostFlushCb(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.postFlushing {
		if indexOfUID(s.activePostFlushCbs, job.UID, 0) < 0 {
			s.activePostFlushCbs = append(s.activePostFlushCbs, job)
		}
		return
	}
	if indexOfUID(s.pendingPostFlushCbs, job.UID, 0) < 0 {
		s.pendingPostFlushCbs = append(s.pendingPostFlushCbs, job)
	}
}

// Flush drains queue, then pendingPostFlushCbs, repeating the cycle
// while either queue is non-empty afterward (spec §4.6 "Flush": "If
// either queue is non-empty, recurse" — modeled as a loop rather than Go
// call recursion, since the number of flush cycles is unbounded at
// compile time).
func (s *Scheduler) Flush() {
	for {
		s.mu.Lock()
		s.flushing = true
		s.flushIndex = 0
		s.seen = make(map[string]int)
		s.mu.Unlock()

		for {
			s.mu.Lock()
			if s.flushIndex >= len(s.queue) {
				s.mu.Unlock()
				break
			}
			// flushIndex is left pointing at this job's own slot while it
			// runs (only advanced after), so QueueJob's "already present
			// in queue[flushIndex..]" dedup check sees the running job
			// itself and rejects a same-pass re-enqueue unless
			// AllowRecurse explicitly searches from flushIndex+1 instead.
			job := s.queue[s.flushIndex]
			s.mu.Unlock()

			if job.Active && !s.recursionExceeded(job) {
				s.invoke(job)
			}

			s.mu.Lock()
			s.flushIndex++
			s.mu.Unlock()
		}

		s.mu.Lock()
		s.queue = nil
		s.flushIndex = 0
		s.flushing = false
		s.mu.Unlock()

		s.flushPostCbs()

		s.mu.Lock()
		done := len(s.queue) == 0 && len(s.pendingPostFlushCbs) == 0
		s.mu.Unlock()
		if done {
			return
		}
	}
}

// flushPostCbs drains pendingPostFlushCbs: dedup, sort by the same
// (id, pre) comparator as queue, then run in order (spec §4.6 "drain
// post callbacks (sort by id, run in order)").
func (s *Scheduler) flushPostCbs() {
	s.mu.Lock()
	if len(s.pendingPostFlushCbs) == 0 {
		s.mu.Unlock()
		return
	}
	batch := dedupJobs(s.pendingPostFlushCbs)
	sort.Slice(batch, func(i, j int) bool { return compareJobs(batch[i], batch[j]) < 0 })
	s.pendingPostFlushCbs = nil
	s.activePostFlushCbs = batch
	s.postFlushing = true
	s.mu.Unlock()

	i := 0
	for {
		s.mu.Lock()
		if i >= len(s.activePostFlushCbs) {
			s.mu.Unlock()
			break
		}
		job := s.activePostFlushCbs[i]
		i++
		s.mu.Unlock()

		if !job.Active {
			continue
		}
		if s.recursionExceeded(job) {
			continue
		}
		s.invoke(job)
	}

	s.mu.Lock()
	s.activePostFlushCbs = nil
	s.postFlushing = false
	s.mu.Unlock()
}

func dedupJobs(jobs []*Job) []*Job {
	seen := make(map[string]bool, len(jobs))
	out := make([]*Job, 0, len(jobs))
	for _, j := range jobs {
		if seen[j.UID] {
			continue
		}
		seen[j.UID] = true
		out = append(out, j)
	}
	return out
}

// recursionExceeded increments job's per-flush invocation count and
// reports whether it has now crossed the recursion limit (spec §4.6
// "Recursion guard"). The warning — and the paired errors.SCH001 report
// handed to onError — fires exactly once, the invocation where the
// count first exceeds the limit; every later invocation this flush is
// skipped silently.
func (s *Scheduler) recursionExceeded(job *Job) bool {
	s.mu.Lock()
	s.seen[job.UID]++
	count := s.seen[job.UID]
	limit := s.recursionLimit
	s.mu.Unlock()

	if count == limit+1 {
		s.logger.Warn("scheduler: job exceeded recursion limit, skipping further invocations this flush",
			"owner", job.Owner, "limit", limit)
		s.onError(job, errors.WrapReport(&errors.Report{
			Schema:  "sfc.error/v1",
			Code:    errors.SCH001,
			Phase:   "scheduler",
			Message: fmt.Sprintf("job exceeded recursion limit of %d", limit),
			Data:    map[string]any{"owner": job.Owner},
		}))
	}
	return count > limit
}

func (s *Scheduler) invoke(job *Job) {
	if err := job.Fn(); err != nil {
		s.onError(job, err)
	}
}
