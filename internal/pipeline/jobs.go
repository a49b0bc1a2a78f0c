package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"sync"
	"time"
)

// JobStatus represents the state of one document's processing.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusParsing   JobStatus = "parsing"
	StatusBuilding  JobStatus = "building"
	StatusRendering JobStatus = "rendering"
	StatusWriting   JobStatus = "writing"
	StatusWritten   JobStatus = "written"
	StatusUnchanged JobStatus = "unchanged"
	StatusFailed    JobStatus = "failed"
)

// Done reports whether the status is terminal.
func (s JobStatus) Done() bool {
	return s == StatusWritten || s == StatusUnchanged || s == StatusFailed
}

// Job tracks the processing of a single input document.
type Job struct {
	mu sync.Mutex

	File   string    `json:"file"`
	Page   string    `json:"page"`
	Status JobStatus `json:"status"`
	Error  string    `json:"error,omitempty"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	path string
}

func newJob(file, path, page string) *Job {
	now := time.Now()
	return &Job{
		File:      file,
		Page:      page,
		Status:    StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
		path:      path,
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.UpdatedAt = time.Now()
}

// Fail records err and marks the job failed.
func (j *Job) Fail(err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = StatusFailed
	j.Error = err.Error()
	j.UpdatedAt = time.Now()
}

// SetContentHash records the hash of the rendered page.
func (j *Job) SetContentHash(h string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.ContentHash = h
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	File        string    `json:"file"`
	Page        string    `json:"page"`
	Status      JobStatus `json:"status"`
	Error       string    `json:"error,omitempty"`
	ContentHash string    `json:"content_hash,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	return JobSnapshot{
		File:        j.File,
		Page:        j.Page,
		Status:      j.Status,
		Error:       j.Error,
		ContentHash: j.ContentHash,
		UpdatedAt:   j.UpdatedAt,
	}
}

// JobStore is a thread-safe registry of the jobs of the most recent build.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
}

func NewJobStore() *JobStore {
	return &JobStore{jobs: make(map[string]*Job)}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.File] = job
}

func (s *JobStore) Get(file string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[file]
}

// Reset forgets every job.
func (s *JobStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = make(map[string]*Job)
}

// Snapshots returns a copy of every job, ordered by file name.
func (s *JobStore) Snapshots() []JobSnapshot {
	s.mu.Lock()
	jobs := make([]*Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		jobs = append(jobs, j)
	}
	s.mu.Unlock()

	out := make([]JobSnapshot, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j.Snapshot())
	}
	sort.Slice(out, func(a, b int) bool { return out[a].File < out[b].File })
	return out
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
