package ports

import "context"

// SolverClient is the transport boundary to the remote routing engine.
// Implementations handle authentication, timeouts and HTTP error mapping;
// endpoint choice and polling policy belong to the orchestration layer.
type SolverClient interface {
	// SolveSync runs one blocking optimization call.
	SolveSync(ctx context.Context, req *SolverRequest) (*SolverResponse, error)
	// SubmitJob submits a long-running optimization and returns its job id.
	SubmitJob(ctx context.Context, req *SolverRequest) (*JobSubmission, error)
	// GetJobStatus fetches the current state of a submitted job.
	GetJobStatus(ctx context.Context, jobID string) (*JobStatus, error)
}
