// Package cron persists scheduled job descriptors.
//
// The store is a single JSON array file, read and rewritten in full on every
// call. Jobs are only recorded, listed and removed here; nothing fires them.
//
//	[ { "id": "1a2b3c4d", "name": "remind me", "message": "remind me",
//	    "schedule": "every:30s", "created_at": "2026-10-15T09:30:00" } ]
package cron

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/picobot/picobot/internal/logger"
	"github.com/picobot/picobot/internal/shared/stringutils"
)

const (
	// StoreDir and StoreFile locate the job list under the workspace.
	StoreDir  = ".picobot"
	StoreFile = "cron_jobs.json"

	nameMaxRunes    = 30
	createdAtLayout = "2006-01-02T15:04:05"
)

var (
	ErrMessageRequired  = errors.New("message is required")
	ErrScheduleRequired = errors.New("either every_seconds, cron_expr, or at is required")
	ErrInvalidSchedule  = errors.New("invalid schedule")
	ErrJobIDRequired    = errors.New("job_id is required")
	ErrJobNotFound      = errors.New("job not found")
)

// Job is one persisted descriptor.
type Job struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Message   string `json:"message"`
	Schedule  string `json:"schedule"`
	CreatedAt string `json:"created_at"`
}

// Store manages the JSON job list at path. It holds no state between calls.
// Concurrent writers are not coordinated; the last write wins.
type Store struct {
	path string
	now  func() time.Time
}

// NewStore creates a Store backed by path (e.g. <workspace>/.picobot/cron_jobs.json).
func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

// Add validates message and schedule, appends a new job and persists the list.
func (s *Store) Add(message string, spec ScheduleSpec) (Job, error) {
	if message == "" {
		return Job{}, ErrMessageRequired
	}
	schedule, err := spec.Normalize()
	if err != nil {
		return Job{}, err
	}

	job := Job{
		ID:        shortID(),
		Name:      stringutils.Head(message, nameMaxRunes),
		Message:   message,
		Schedule:  schedule,
		CreatedAt: s.now().Format(createdAtLayout),
	}

	jobs := s.load()
	jobs = append(jobs, job)
	if err := s.save(jobs); err != nil {
		return Job{}, err
	}

	logger.L.WithFields(map[string]any{"id": job.ID, "schedule": schedule}).Info("cron: added job")
	return job, nil
}

// List returns all stored jobs in insertion order.
func (s *Store) List() []Job {
	return s.load()
}

// Remove deletes the job with the given id.
func (s *Store) Remove(id string) error {
	if id == "" {
		return ErrJobIDRequired
	}
	jobs := s.load()
	filtered := make([]Job, 0, len(jobs))
	for _, j := range jobs {
		if j.ID != id {
			filtered = append(filtered, j)
		}
	}
	if len(filtered) == len(jobs) {
		return errors.Wrapf(ErrJobNotFound, "job %s", id)
	}
	if err := s.save(filtered); err != nil {
		return err
	}
	logger.L.WithField("id", id).Info("cron: removed job")
	return nil
}

// --------------------------------------------------------------------------
// Persistence
// --------------------------------------------------------------------------

// load reads the job list. A missing file is an empty list; an unreadable
// or corrupt file is also treated as empty and left untouched until the
// next successful write.
func (s *Store) load() []Job {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		logger.L.WithError(err).WithField("path", s.path).Warn("unreadable cron store, treating as empty")
		return nil
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	var jobs []Job
	if err := json.Unmarshal(data, &jobs); err != nil {
		logger.L.WithError(err).WithField("path", s.path).Warn("corrupt cron store, treating as empty")
		return nil
	}
	return jobs
}

func (s *Store) save(jobs []Job) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrap(err, "create cron store dir")
	}
	if jobs == nil {
		jobs = []Job{}
	}
	data, err := json.MarshalIndent(jobs, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal cron store")
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write cron store %s", s.path)
	}
	return nil
}

// --------------------------------------------------------------------------
// Utility
// --------------------------------------------------------------------------

// shortID returns 8 lowercase hex characters.
func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
