package pipeline

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eisbaw/rule72/internal/reflow"
)

// JobStatus represents the state of a batch reflow job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Job tracks one batch of commit messages through the reflow workers.
// Messages are independent: each is reformatted on its own, in order.
type Job struct {
	mu sync.Mutex

	ID      string
	Status  JobStatus
	Options reflow.Options

	Messages []string // inputs, fixed at submit time
	Results  []string // outputs, indexed like Messages

	Done   int
	Errors []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewJob creates a queued job for the given messages.
func NewJob(messages []string, opts reflow.Options) *Job {
	now := time.Now()
	return &Job{
		ID:        uuid.NewString(),
		Status:    StatusQueued,
		Options:   opts,
		Messages:  messages,
		Results:   make([]string, len(messages)),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetStatus updates the job status atomically.
func (j *Job) SetStatus(status JobStatus) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.UpdatedAt = time.Now()
}

// SetResult stores the reformatted text for one message.
func (j *Job) SetResult(i int, out string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Results[i] = out
	j.Done++
	j.UpdatedAt = time.Now()
}

// AddError records a processing error.
func (j *Job) AddError(msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Errors = append(j.Errors, msg)
	j.UpdatedAt = time.Now()
}

// Snapshot is a read-only, JSON-safe copy of job state.
type Snapshot struct {
	ID      string    `json:"job_id"`
	Status  JobStatus `json:"status"`
	Total   int       `json:"total"`
	Done    int       `json:"done"`
	Results []string  `json:"results,omitempty"`
	Errors  []string  `json:"errors,omitempty"`
}

// Snapshot returns a copy of the job state. Results are only included once
// the job has completed.
func (j *Job) Snapshot() Snapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	s := Snapshot{
		ID:     j.ID,
		Status: j.Status,
		Total:  len(j.Messages),
		Done:   j.Done,
		Errors: append([]string(nil), j.Errors...),
	}
	if j.Status == StatusCompleted {
		s.Results = append([]string(nil), j.Results...)
	}
	return s
}

// stamp returns the last update time.
func (j *Job) stamp() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.UpdatedAt
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes jobs idle for longer than the TTL.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.stamp()) > s.ttl {
			delete(s.jobs, id)
		}
	}
}
