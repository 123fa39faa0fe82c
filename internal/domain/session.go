package domain

import "time"

// WorkflowSteps is the ordered 7-step project workflow. Completing step k
// advances the current step to max(current, k+1); steps may complete out of
// order and a finished session can still be mutated (repeated solve/refine).
var WorkflowSteps = []string{
	"start",
	"prepare-data",
	"configure",
	"solve",
	"analyze",
	"refine",
	"export",
}

// DataLoaded tracks which record files have been loaded into a project.
type DataLoaded struct {
	Drivers bool `json:"drivers"`
	Orders  bool `json:"orders"`
	Depots  bool `json:"depots"`
}

// ProjectConfig holds explicit user choices for an optimization run.
// Zero values mean "decide automatically".
type ProjectConfig struct {
	Constraints     ConstraintOverrides `json:"constraints"`
	Objective       string              `json:"objective,omitempty"`
	DistanceType    string              `json:"distance_type,omitempty"`
	TimeLimit       int                 `json:"time_limit,omitempty"`
	AllowUnassigned *bool               `json:"allow_unassigned,omitempty"`
}

// Session is one project's persisted workflow state.
type Session struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	CompletedSteps     []string        `json:"completed_steps"`
	CurrentStep        int             `json:"current_step"`
	DataLoaded         DataLoaded      `json:"data_loaded"`
	Config             *ProjectConfig  `json:"config,omitempty"`
	LastClassification *Classification `json:"last_classification,omitempty"`
	LastResult         *OptimizeResult `json:"last_result,omitempty"`
}

// CompleteStep marks step idx done and advances the current step pointer.
// Re-completing an earlier step never moves the pointer backward.
func (s *Session) CompleteStep(idx int) {
	if idx < 0 || idx >= len(WorkflowSteps) {
		return
	}

	name := WorkflowSteps[idx]
	done := false
	for _, c := range s.CompletedSteps {
		if c == name {
			done = true
			break
		}
	}
	if !done {
		s.CompletedSteps = append(s.CompletedSteps, name)
	}

	if idx+1 > s.CurrentStep {
		s.CurrentStep = idx + 1
	}
	s.UpdatedAt = time.Now()
}

// NextStep returns the advertised next step name, or "" when all steps
// are complete.
func (s *Session) NextStep() string {
	if s.CurrentStep >= len(WorkflowSteps) {
		return ""
	}
	return WorkflowSteps[s.CurrentStep]
}
