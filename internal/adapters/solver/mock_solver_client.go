package solver

import (
	"context"
	"fmt"

	"route-optimizer-mcp/internal/ports"
)

// MockClient is an in-memory SolverClient for tests. Responses are scripted:
// SyncResponse serves SolveSync, and JobStatuses are returned in order by
// GetJobStatus after a SubmitJob.
type MockClient struct {
	SyncResponse *ports.SolverResponse
	SyncErr      error

	Submission  *ports.JobSubmission
	SubmitErr   error
	JobStatuses []ports.JobStatus

	SyncCalls   int
	SubmitCalls int
	PollCalls   int
}

func (m *MockClient) SolveSync(ctx context.Context, req *ports.SolverRequest) (*ports.SolverResponse, error) {
	m.SyncCalls++
	if m.SyncErr != nil {
		return nil, m.SyncErr
	}
	if m.SyncResponse == nil {
		return nil, fmt.Errorf("mock: no sync response scripted")
	}
	return m.SyncResponse, nil
}

func (m *MockClient) SubmitJob(ctx context.Context, req *ports.SolverRequest) (*ports.JobSubmission, error) {
	m.SubmitCalls++
	if m.SubmitErr != nil {
		return nil, m.SubmitErr
	}
	if m.Submission == nil {
		return &ports.JobSubmission{JobID: "mock-job", Status: ports.JobStatusProcessing}, nil
	}
	return m.Submission, nil
}

func (m *MockClient) GetJobStatus(ctx context.Context, jobID string) (*ports.JobStatus, error) {
	m.PollCalls++
	if len(m.JobStatuses) == 0 {
		return &ports.JobStatus{Status: ports.JobStatusProcessing}, nil
	}
	status := m.JobStatuses[0]
	if len(m.JobStatuses) > 1 {
		m.JobStatuses = m.JobStatuses[1:]
	}
	return &status, nil
}
