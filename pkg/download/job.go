// Package download runs download jobs: a single object, or every object under
// a prefix fetched by a fixed pool of workers.
package download

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrPartialDownload is wrapped by Summary.Err when at least one key failed.
	ErrPartialDownload = errors.New("partial download failure")
	// ErrUnsafePath is recorded for keys whose local path would leave the
	// download directory.
	ErrUnsafePath = errors.New("unsafe download path")
)

// State is the state of a job.
type State int

const (
	Enumerating State = iota
	Running
	Completed
	PartiallyFailed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Enumerating:
		return "enumerating"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case PartiallyFailed:
		return "partially failed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether the job is over.
func (s State) Terminal() bool {
	return s >= Completed
}

// Target is the root of a download: one object (Key, optionally Version and
// SaveAs) or, when Recursive, every object under Prefix.
type Target struct {
	Bucket    string
	Key       string
	Version   string
	Prefix    string
	Recursive bool
	// SaveAs replaces the local name of a single object, or the local
	// directory a recursive target is written to.
	SaveAs string
}

// Root returns the key or prefix the target designates.
func (t Target) Root() string {
	if t.Recursive {
		return t.Prefix
	}
	return t.Key
}

// Outcome is the result of one key.
type Outcome struct {
	Key   string
	Path  string
	Bytes int64
	Err   error
}

// Progress is a snapshot of a running job.
type Progress struct {
	ID        string
	State     State
	Completed int
	Total     int
	// Found counts the keys enumerated so far.
	Found  int
	Failed []string
	Bytes  int64
}

// Summary is the final report of a job. Outcomes are sorted by key.
type Summary struct {
	ID       string
	Target   Target
	State    State
	Total    int
	Outcomes []Outcome
	Elapsed  time.Duration
}

// Succeeded returns the number of keys written.
func (s Summary) Succeeded() int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Err == nil {
			n++
		}
	}
	return n
}

// Failures returns the failed outcomes, sorted by key.
func (s Summary) Failures() []Outcome {
	var failed []Outcome
	for _, o := range s.Outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

// Bytes returns the number of bytes written.
func (s Summary) Bytes() int64 {
	var n int64
	for _, o := range s.Outcomes {
		n += o.Bytes
	}
	return n
}

// Err returns nil unless some keys failed. Cancellation is not an error.
func (s Summary) Err() error {
	failed := s.Failures()
	if len(failed) == 0 {
		return nil
	}
	keys := make([]string, 0, len(failed))
	for _, o := range failed {
		keys = append(keys, o.Key)
	}
	return fmt.Errorf("%w: %d of %d failed: %s", ErrPartialDownload, len(failed), s.Total,
		strings.Join(keys, ", "))
}

// Job is one download. Its state is shared between the workers and the UI:
// every field below mu is guarded by it.
type Job struct {
	ID     uuid.UUID
	Target Target

	cancelled atomic.Bool
	started   time.Time

	mu       sync.Mutex
	state    State
	found    int
	pending  []string
	total    int
	outcomes map[string]Outcome
	bytes    int64
}

func newJob(t Target) *Job {
	return &Job{
		ID:       uuid.New(),
		Target:   t,
		state:    Enumerating,
		outcomes: map[string]Outcome{},
		started:  time.Now(),
	}
}

// Cancel asks the job to stop: no key is dequeued and no listing call is
// made afterwards. Transfers in flight finish.
func (j *Job) Cancel() {
	j.cancelled.Store(true)
}

// IsCancelled reports whether Cancel has been called.
func (j *Job) IsCancelled() bool {
	return j.cancelled.Load()
}

// Snapshot returns the progress of the job.
func (j *Job) Snapshot() Progress {
	j.mu.Lock()
	defer j.mu.Unlock()
	p := Progress{
		ID:        j.ID.String(),
		State:     j.state,
		Completed: len(j.outcomes),
		Total:     j.total,
		Found:     j.found,
		Bytes:     j.bytes,
	}
	for key, o := range j.outcomes {
		if o.Err != nil {
			p.Failed = append(p.Failed, key)
		}
	}
	slices.Sort(p.Failed)
	return p
}

func (j *Job) setFound(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.found = n
}

func (j *Job) start(keys []string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.pending = keys
	j.total = len(keys)
	j.found = len(keys)
	j.state = Running
}

// dequeue pops the next key unless the job is cancelled or drained.
func (j *Job) dequeue() (string, bool) {
	if j.cancelled.Load() {
		return "", false
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if len(j.pending) == 0 {
		return "", false
	}
	key := j.pending[0]
	j.pending = j.pending[1:]
	return key, true
}

func (j *Job) record(o Outcome) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.outcomes[o.Key] = o
	j.bytes += o.Bytes
}

// abort records the failure of the enumeration as the single outcome of
// the job.
func (j *Job) abort(root string, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.total = 1
	j.state = Running
	j.outcomes[root] = Outcome{Key: root, Err: err}
}

// finish decides the terminal state and builds the summary.
func (j *Job) finish() Summary {
	j.mu.Lock()
	defer j.mu.Unlock()

	outcomes := make([]Outcome, 0, len(j.outcomes))
	failed := false
	for _, o := range j.outcomes {
		outcomes = append(outcomes, o)
		failed = failed || o.Err != nil
	}
	slices.SortFunc(outcomes, func(a, b Outcome) int { return strings.Compare(a.Key, b.Key) })

	switch {
	case j.cancelled.Load() && (j.state == Enumerating || len(j.outcomes) < j.total):
		j.state = Cancelled
	case failed:
		j.state = PartiallyFailed
	default:
		j.state = Completed
	}
	return Summary{
		ID:       j.ID.String(),
		Target:   j.Target,
		State:    j.state,
		Total:    j.total,
		Outcomes: outcomes,
		Elapsed:  time.Since(j.started),
	}
}
