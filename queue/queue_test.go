package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/studykit/core"
	"github.com/poiesic/studykit/pipeline"
	"github.com/poiesic/studykit/storage/badger"
)

// testProcessor fails a configurable number of times before succeeding.
type testProcessor struct {
	mu        sync.Mutex
	calls     int
	failTimes int
	delay     time.Duration
	started   chan struct{}
	release   chan struct{}
}

func (p *testProcessor) Process(ctx context.Context, materialID core.ID) (*pipeline.RunReport, error) {
	p.mu.Lock()
	p.calls++
	calls := p.calls
	p.mu.Unlock()

	if p.started != nil {
		select {
		case p.started <- struct{}{}:
		default:
		}
	}
	if p.release != nil {
		<-p.release
	}
	if p.delay > 0 {
		time.Sleep(p.delay)
	}

	if calls <= p.failTimes {
		return nil, errors.New("transient failure")
	}
	return &pipeline.RunReport{MaterialId: materialID, FinalState: core.StateCompleted}, nil
}

func (p *testProcessor) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func setupQueueTest(t *testing.T, processor Processor, opts ...QueueOption) (*Queue, *badger.MemoryRepositories) {
	t.Helper()
	repos, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { repos.Close() })

	opts = append([]QueueOption{WithBaseDelay(time.Millisecond)}, opts...)
	q, err := NewQueue(processor, repos.Materials, opts...)
	require.NoError(t, err)
	t.Cleanup(q.Release)

	return q, repos
}

func addQueueMaterial(t *testing.T, repos *badger.MemoryRepositories) core.ID {
	t.Helper()
	added, err := repos.Materials.AddMaterials(context.Background(), &core.Material{
		Owner:      "student",
		SourceKind: core.SourceKindDocument,
		SourceRef:  "doc.txt",
		State:      core.StateQueued,
	})
	require.NoError(t, err)
	return added[0].Id
}

func waitForJob(t *testing.T, job *Job, q *Queue) *Job {
	t.Helper()
	select {
	case <-time.After(5 * time.Second):
		t.Fatalf("job %s did not finish", job.Id)
	case <-jobDone(t, q, job):
	}
	current, err := q.Status(job.Id)
	require.NoError(t, err)
	return current
}

// jobDone fetches the live job's done channel via polling Status state.
func jobDone(t *testing.T, q *Queue, job *Job) <-chan struct{} {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			current, err := q.Status(job.Id)
			if err != nil || current.State.Terminal() {
				return
			}
			time.Sleep(5 * time.Millisecond)
		}
	}()
	return done
}

func TestEnqueueProcessesMaterial(t *testing.T) {
	processor := &testProcessor{}
	q, repos := setupQueueTest(t, processor)
	materialID := addQueueMaterial(t, repos)

	job, err := q.Enqueue(context.Background(), materialID)
	require.NoError(t, err)
	assert.Equal(t, materialID, job.MaterialId)

	finished := waitForJob(t, job, q)
	assert.Equal(t, JobCompleted, finished.State)
	assert.Equal(t, 1, finished.Attempts)
	assert.Equal(t, 1, processor.callCount())
}

func TestEnqueueDedupesByMaterial(t *testing.T) {
	processor := &testProcessor{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	q, repos := setupQueueTest(t, processor)
	materialID := addQueueMaterial(t, repos)
	ctx := context.Background()

	first, err := q.Enqueue(ctx, materialID)
	require.NoError(t, err)
	<-processor.started

	second, err := q.Enqueue(ctx, materialID)
	require.NoError(t, err)
	assert.Equal(t, first.Id, second.Id)
	assert.Equal(t, 1, processor.callCount())

	close(processor.release)
	waitForJob(t, first, q)
}

func TestEnqueueRetriesTransientFailures(t *testing.T) {
	processor := &testProcessor{failTimes: 2}
	q, repos := setupQueueTest(t, processor)
	materialID := addQueueMaterial(t, repos)

	job, err := q.Enqueue(context.Background(), materialID)
	require.NoError(t, err)

	finished := waitForJob(t, job, q)
	assert.Equal(t, JobCompleted, finished.State)
	assert.Equal(t, 3, finished.Attempts)
}

func TestEnqueueMarksMaterialFailedOnExhaustion(t *testing.T) {
	processor := &testProcessor{failTimes: 10}
	q, repos := setupQueueTest(t, processor, WithMaxAttempts(2))
	materialID := addQueueMaterial(t, repos)
	ctx := context.Background()

	job, err := q.Enqueue(ctx, materialID)
	require.NoError(t, err)

	finished := waitForJob(t, job, q)
	assert.Equal(t, JobFailed, finished.State)
	assert.Equal(t, 2, finished.Attempts)
	assert.Contains(t, finished.Error, "transient failure")

	material, err := repos.Materials.GetMaterial(ctx, materialID)
	require.NoError(t, err)
	assert.Equal(t, core.StateFailed, material.State)
	assert.Contains(t, material.ProcessingError, "transient failure")
}

func TestEnqueueUnknownMaterial(t *testing.T) {
	q, _ := setupQueueTest(t, &testProcessor{})

	_, err := q.Enqueue(context.Background(), core.ID(9999))
	assert.Error(t, err)
}

func TestStatusForMaterialClearsAfterFinish(t *testing.T) {
	processor := &testProcessor{}
	q, repos := setupQueueTest(t, processor)
	materialID := addQueueMaterial(t, repos)
	ctx := context.Background()

	job, err := q.Enqueue(ctx, materialID)
	require.NoError(t, err)
	waitForJob(t, job, q)

	// Live-job lookup is gone, job record is still retained
	_, err = q.StatusForMaterial(materialID)
	assert.ErrorIs(t, err, ErrJobNotFound)

	record, err := q.Status(job.Id)
	require.NoError(t, err)
	assert.True(t, record.State.Terminal())
}

func TestEnqueueAfterRelease(t *testing.T) {
	q, repos := setupQueueTest(t, &testProcessor{})
	materialID := addQueueMaterial(t, repos)

	q.Release()

	_, err := q.Enqueue(context.Background(), materialID)
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestConcurrentEnqueueSingleJob(t *testing.T) {
	processor := &testProcessor{delay: 50 * time.Millisecond}
	q, repos := setupQueueTest(t, processor)
	materialID := addQueueMaterial(t, repos)
	ctx := context.Background()

	var wg sync.WaitGroup
	jobs := make([]*Job, 8)
	for i := range jobs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			job, err := q.Enqueue(ctx, materialID)
			if assert.NoError(t, err) {
				jobs[i] = job
			}
		}(i)
	}
	wg.Wait()

	for _, job := range jobs[1:] {
		assert.Equal(t, jobs[0].Id, job.Id)
	}
	waitForJob(t, jobs[0], q)
	assert.Equal(t, 1, processor.callCount())
}
