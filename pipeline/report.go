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

package pipeline

import (
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/studykit/core"
)

// StageResult records how one pipeline stage went.
type StageResult struct {
	State    core.ProcessingState
	Outcome  core.StageOutcome
	Err      error
	Duration time.Duration
}

// RunReport aggregates the stage results of one processing run. It is built
// up during the run and logged exactly once when the run finishes, so a run
// produces a single summary line regardless of how many stages tolerated
// failures.
type RunReport struct {
	MaterialId core.ID
	FinalState core.ProcessingState
	Skipped    bool // re-entry guard short-circuited the run
	Stages     []StageResult
	Started    time.Time
	Finished   time.Time
}

func (r *RunReport) addStage(state core.ProcessingState, outcome core.StageOutcome, err error, started time.Time) {
	r.Stages = append(r.Stages, StageResult{
		State:    state,
		Outcome:  outcome,
		Err:      err,
		Duration: time.Since(started),
	})
}

// failedStages returns the states whose stages reported a failure.
func (r *RunReport) failedStages() []string {
	var failed []string
	for _, stage := range r.Stages {
		if stage.Outcome == core.OutcomeFailed {
			failed = append(failed, stage.State.String())
		}
	}
	return failed
}

// log emits the single summary line for the run.
func (r *RunReport) log(logger *slog.Logger) {
	attrs := []any{
		"material", r.MaterialId,
		"finalState", r.FinalState.String(),
		"stages", len(r.Stages),
		"duration", r.Finished.Sub(r.Started),
	}
	if r.Skipped {
		logger.Info("material already processed, run skipped", "material", r.MaterialId)
		return
	}
	if failed := r.failedStages(); len(failed) > 0 {
		attrs = append(attrs, "failedStages", strings.Join(failed, ","))
		logger.Warn("processing run finished with degraded stages", attrs...)
		return
	}
	logger.Info("processing run finished", attrs...)
}
