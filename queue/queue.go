// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/studykit/core"
	"github.com/poiesic/studykit/pipeline"
	"github.com/poiesic/studykit/storage"
)

// Defaults for queue behavior.
const (
	DefaultWorkers     = 3
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = 2 * time.Second
	DefaultRetention   = time.Hour
	DefaultStartLimit  = 10
	DefaultStartWindow = time.Minute
)

// Processor runs one material through the pipeline.
type Processor interface {
	Process(ctx context.Context, materialID core.ID) (*pipeline.RunReport, error)
}

// Queue schedules material processing on a fixed-size worker pool.
//
// Jobs are deduped by material: enqueueing a material that already has a
// live job returns that job. Job starts are rate limited over a sliding
// window, attempts retry with exponential backoff, and finished job records
// are pruned after a retention period.
type Queue struct {
	pool      *ants.Pool
	processor Processor
	materials storage.MaterialRepository
	limiter   *slidingWindowLimiter

	mu         sync.Mutex
	jobs       map[uuid.UUID]*Job
	byMaterial map[core.ID]uuid.UUID
	closed     bool

	maxAttempts int
	baseDelay   time.Duration
	retention   time.Duration
	logger      *slog.Logger
}

// QueueOption configures a Queue.
type QueueOption func(*Queue) error

// WithWorkers sets the worker pool size.
func WithWorkers(workers int) QueueOption {
	return func(q *Queue) error {
		if workers < 1 {
			return fmt.Errorf("workers must be positive, got %d", workers)
		}
		q.pool.Release()
		pool, err := ants.NewPool(workers)
		if err != nil {
			return err
		}
		q.pool = pool
		return nil
	}
}

// WithStartLimit sets the sliding-window rate limit on job starts.
func WithStartLimit(limit int, window time.Duration) QueueOption {
	return func(q *Queue) error {
		if limit < 1 || window <= 0 {
			return fmt.Errorf("invalid start limit %d per %s", limit, window)
		}
		q.limiter = newSlidingWindowLimiter(limit, window)
		return nil
	}
}

// WithMaxAttempts sets how many times a job is attempted before failing.
func WithMaxAttempts(attempts int) QueueOption {
	return func(q *Queue) error {
		if attempts < 1 {
			return ErrInvalidMaxAttempts
		}
		q.maxAttempts = attempts
		return nil
	}
}

// WithBaseDelay sets the base retry backoff delay.
func WithBaseDelay(delay time.Duration) QueueOption {
	return func(q *Queue) error {
		q.baseDelay = delay
		return nil
	}
}

// WithRetention sets how long finished job records are kept.
func WithRetention(retention time.Duration) QueueOption {
	return func(q *Queue) error {
		q.retention = retention
		return nil
	}
}

// WithQueueLogger sets a custom logger.
func WithQueueLogger(logger *slog.Logger) QueueOption {
	return func(q *Queue) error {
		if logger == nil {
			logger = slog.Default()
		}
		q.logger = logger
		return nil
	}
}

// NewQueue creates a job queue over the given processor.
func NewQueue(processor Processor, materials storage.MaterialRepository, opts ...QueueOption) (*Queue, error) {
	if processor == nil {
		return nil, ErrProcessorRequired
	}
	if materials == nil {
		return nil, ErrMaterialRepositoryRequired
	}

	pool, err := ants.NewPool(DefaultWorkers)
	if err != nil {
		return nil, err
	}

	q := &Queue{
		pool:        pool,
		processor:   processor,
		materials:   materials,
		limiter:     newSlidingWindowLimiter(DefaultStartLimit, DefaultStartWindow),
		jobs:        make(map[uuid.UUID]*Job),
		byMaterial:  make(map[core.ID]uuid.UUID),
		maxAttempts: DefaultMaxAttempts,
		baseDelay:   DefaultBaseDelay,
		retention:   DefaultRetention,
		logger:      slog.Default().With("component", "queue"),
	}

	for _, opt := range opts {
		if err := opt(q); err != nil {
			q.pool.Release()
			return nil, err
		}
	}

	return q, nil
}

// Enqueue schedules processing for a material. If a live job already exists
// for the material, that job is returned instead of creating a second one.
func (q *Queue) Enqueue(ctx context.Context, materialID core.ID) (*Job, error) {
	// Fail fast on unknown materials instead of creating doomed jobs.
	if _, err := q.materials.GetMaterial(ctx, materialID); err != nil {
		return nil, err
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil, ErrQueueClosed
	}
	q.pruneLocked()

	if jobID, ok := q.byMaterial[materialID]; ok {
		existing := q.jobs[jobID]
		snapshot := existing.snapshot()
		q.mu.Unlock()
		q.logger.Debug("material already queued", "material", materialID, "job", jobID)
		return snapshot, nil
	}

	job := &Job{
		Id:         uuid.New(),
		MaterialId: materialID,
		State:      JobQueued,
		EnqueuedAt: time.Now().UTC(),
		done:       make(chan struct{}),
	}
	q.jobs[job.Id] = job
	q.byMaterial[materialID] = job.Id
	snapshot := job.snapshot()
	q.mu.Unlock()

	if err := q.pool.Submit(func() { q.run(job) }); err != nil {
		q.mu.Lock()
		delete(q.jobs, job.Id)
		delete(q.byMaterial, materialID)
		q.mu.Unlock()
		return nil, err
	}

	q.logger.Info("job enqueued", "material", materialID, "job", job.Id)
	return snapshot, nil
}

// Status returns a copy of the job record for the given job ID.
func (q *Queue) Status(jobID uuid.UUID) (*Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	job, ok := q.jobs[jobID]
	if !ok {
		return nil, ErrJobNotFound
	}
	return job.snapshot(), nil
}

// StatusForMaterial returns a copy of the live job record for a material.
func (q *Queue) StatusForMaterial(materialID core.ID) (*Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	jobID, ok := q.byMaterial[materialID]
	if !ok {
		return nil, ErrJobNotFound
	}
	return q.jobs[jobID].snapshot(), nil
}

// Release shuts the queue down. Queued jobs that have not started are
// abandoned; the pool stops accepting work.
func (q *Queue) Release() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.pool.Release()
}

func (q *Queue) run(job *Job) {
	ctx := context.Background()

	if err := q.limiter.acquire(ctx); err != nil {
		q.finish(job, JobFailed, err)
		return
	}

	q.mu.Lock()
	job.State = JobRunning
	job.StartedAt = time.Now().UTC()
	q.mu.Unlock()

	err := retryWithBackoff(ctx, q.logger, func() error {
		q.mu.Lock()
		job.Attempts++
		q.mu.Unlock()

		report, err := q.processor.Process(ctx, job.MaterialId)
		if err != nil {
			return err
		}
		if report.FinalState == core.StateFailed {
			return fmt.Errorf("processing run failed for material %d", job.MaterialId)
		}
		return nil
	}, q.maxAttempts, q.baseDelay)

	if err != nil {
		q.markMaterialFailed(ctx, job.MaterialId, err)
		q.finish(job, JobFailed, err)
		return
	}
	q.finish(job, JobCompleted, nil)
}

func (q *Queue) finish(job *Job, state JobState, cause error) {
	q.mu.Lock()
	job.State = state
	job.FinishedAt = time.Now().UTC()
	if cause != nil {
		job.Error = cause.Error()
	}
	delete(q.byMaterial, job.MaterialId)
	q.mu.Unlock()
	close(job.done)

	if state == JobFailed {
		q.logger.Error("job failed", "material", job.MaterialId,
			"job", job.Id, "attempts", job.Attempts, "err", cause)
		return
	}
	q.logger.Info("job finished", "material", job.MaterialId,
		"job", job.Id, "attempts", job.Attempts)
}

// markMaterialFailed records the terminal failure on the material after every
// attempt was exhausted. The pipeline may already have done this; writing
// again keeps the stored error aligned with the job's final cause.
func (q *Queue) markMaterialFailed(ctx context.Context, materialID core.ID, cause error) {
	err := q.materials.SetMaterialState(ctx, materialID,
		core.StateFailed, core.ProgressFor(core.StateFailed), cause.Error())
	if err != nil {
		q.logger.Error("error marking material failed",
			"material", materialID, "err", err)
	}
}

// pruneLocked drops finished job records older than the retention window.
// Callers must hold q.mu.
func (q *Queue) pruneLocked() {
	cutoff := time.Now().UTC().Add(-q.retention)
	for id, job := range q.jobs {
		if job.State.Terminal() && job.FinishedAt.Before(cutoff) {
			delete(q.jobs, id)
		}
	}
}
