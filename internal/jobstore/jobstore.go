// Package jobstore tracks analysis jobs through their lifecycle in an
// in-memory transactional store.
package jobstore

import (
	"errors"
	"fmt"
	"time"

	memdb "github.com/hashicorp/go-memdb"
)

// Status is the lifecycle state of a job.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

var (
	// ErrNotFound is returned when no job exists under the requested ID.
	ErrNotFound = errors.New("jobstore: job not found")
	// ErrJobTerminal is returned when a transition is attempted on a job
	// that has already completed or failed.
	ErrJobTerminal = errors.New("jobstore: job already in terminal state")
)

// Job is one tracked analysis job. ResultJSON carries the serialized
// processing result for completed jobs; Error carries the failure message
// for failed ones.
type Job struct {
	ID         string
	ImagePath  string
	Status     Status
	ResultJSON string
	Error      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

const tableJobs = "jobs"

func schema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			tableJobs: {
				Name: tableJobs,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "ID"},
					},
					"status": {
						Name:    "status",
						Indexer: &memdb.StringFieldIndex{Field: "Status"},
					},
				},
			},
		},
	}
}

// Store is a transactional in-memory job registry safe for concurrent use.
type Store struct {
	db  *memdb.MemDB
	now func() time.Time
}

// NewStore returns an empty store.
func NewStore() (*Store, error) {
	db, err := memdb.NewMemDB(schema())
	if err != nil {
		return nil, fmt.Errorf("jobstore: build schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Create registers a new job. Jobs are born in the processing state: from
// the caller's point of view submission and processing start together, so a
// status poll immediately after submission already reads "processing".
func (s *Store) Create(id, imagePath string) (Job, error) {
	now := s.now()
	job := Job{
		ID:        id,
		ImagePath: imagePath,
		Status:    StatusProcessing,
		CreatedAt: now,
		UpdatedAt: now,
	}

	txn := s.db.Txn(true)
	defer txn.Abort()
	existing, err := txn.First(tableJobs, "id", id)
	if err != nil {
		return Job{}, fmt.Errorf("jobstore: lookup %s: %w", id, err)
	}
	if existing != nil {
		return Job{}, fmt.Errorf("jobstore: job %s already exists", id)
	}
	if err := txn.Insert(tableJobs, &job); err != nil {
		return Job{}, fmt.Errorf("jobstore: insert %s: %w", id, err)
	}
	txn.Commit()
	return job, nil
}

// Get returns a snapshot of the job with the given ID.
func (s *Store) Get(id string) (Job, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()
	raw, err := txn.First(tableJobs, "id", id)
	if err != nil {
		return Job{}, fmt.Errorf("jobstore: lookup %s: %w", id, err)
	}
	if raw == nil {
		return Job{}, ErrNotFound
	}
	return *raw.(*Job), nil
}

// Complete moves a job into the completed state with its serialized result.
func (s *Store) Complete(id, resultJSON string) (Job, error) {
	return s.transition(id, func(job *Job) {
		job.Status = StatusCompleted
		job.ResultJSON = resultJSON
	})
}

// Fail moves a job into the failed state with a failure message.
func (s *Store) Fail(id, message string) (Job, error) {
	return s.transition(id, func(job *Job) {
		job.Status = StatusFailed
		job.Error = message
	})
}

// ByStatus lists snapshots of all jobs currently in the given status.
func (s *Store) ByStatus(status Status) ([]Job, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()
	it, err := txn.Get(tableJobs, "status", string(status))
	if err != nil {
		return nil, fmt.Errorf("jobstore: list %s: %w", status, err)
	}
	var jobs []Job
	for raw := it.Next(); raw != nil; raw = it.Next() {
		jobs = append(jobs, *raw.(*Job))
	}
	return jobs, nil
}

// transition applies mutate to a copy of the stored job and reinserts it.
// Terminal jobs are immutable: completed and failed states can never be
// overwritten.
func (s *Store) transition(id string, mutate func(*Job)) (Job, error) {
	txn := s.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(tableJobs, "id", id)
	if err != nil {
		return Job{}, fmt.Errorf("jobstore: lookup %s: %w", id, err)
	}
	if raw == nil {
		return Job{}, ErrNotFound
	}
	job := *raw.(*Job)
	if job.Status.Terminal() {
		return Job{}, fmt.Errorf("%w: %s is %s", ErrJobTerminal, id, job.Status)
	}

	mutate(&job)
	job.UpdatedAt = s.now()
	if err := txn.Insert(tableJobs, &job); err != nil {
		return Job{}, fmt.Errorf("jobstore: update %s: %w", id, err)
	}
	txn.Commit()
	return job, nil
}
