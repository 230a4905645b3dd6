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
	"time"

	"github.com/google/uuid"

	"github.com/poiesic/studykit/core"
)

// JobState tracks a job through the queue.
type JobState int

const (
	// JobQueued means the job is waiting for a worker.
	JobQueued JobState = iota + 1
	// JobRunning means a worker is processing the job's material.
	JobRunning
	// JobCompleted means the job finished, with the material completed.
	JobCompleted
	// JobFailed means every attempt failed and the material was marked failed.
	JobFailed
)

var jobStateNames = map[JobState]string{
	JobQueued:    "queued",
	JobRunning:   "running",
	JobCompleted: "completed",
	JobFailed:    "failed",
}

func (s JobState) String() string {
	if name, ok := jobStateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether the job state is final.
func (s JobState) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

// Job is one unit of queued processing work. At most one live job exists per
// material; Enqueue returns the existing one on a duplicate request.
type Job struct {
	Id         uuid.UUID
	MaterialId core.ID
	State      JobState
	Attempts   int
	Error      string // last attempt's error when State == JobFailed
	EnqueuedAt time.Time
	StartedAt  time.Time
	FinishedAt time.Time

	done chan struct{}
}

// Done returns a channel closed when the job reaches a terminal state.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// snapshot returns a copy safe to hand to callers while the worker keeps
// mutating the original under the queue mutex.
func (j *Job) snapshot() *Job {
	copied := *j
	return &copied
}
