package services

import (
	"context"
	"testing"
	"time"

	"route-optimizer-mcp/internal/adapters/solver"
	"route-optimizer-mcp/internal/domain"
	"route-optimizer-mcp/internal/ports"
)

func syncRequest(visits, vehicles int) *ports.SolverRequest {
	req := &ports.SolverRequest{Depot: ports.Depot{Name: "hub"}}
	for i := 0; i < visits; i++ {
		req.Visits = append(req.Visits, ports.Visit{Name: "v"})
	}
	for i := 0; i < vehicles; i++ {
		req.Vehicles = append(req.Vehicles, ports.Vehicle{Name: "d"})
	}
	return req
}

func fastOrchestrator(client ports.SolverClient) *Orchestrator {
	o := NewOrchestrator(client)
	o.PollInterval = time.Millisecond
	o.MaxWait = 100 * time.Millisecond
	return o
}

func TestSolveRoutesByProblemSize(t *testing.T) {
	completed := ports.JobStatus{
		Status: ports.JobStatusCompleted,
		Result: &ports.SolverResponse{Status: string(domain.StatusOptimal)},
	}

	cases := []struct {
		name      string
		visits    int
		vehicles  int
		wantAsync bool
	}{
		{"small stays sync", 99, 19, false},
		{"visit threshold goes async", 100, 1, true},
		{"vehicle threshold goes async", 5, 20, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock := &solver.MockClient{
				SyncResponse: &ports.SolverResponse{Status: string(domain.StatusOptimal)},
				JobStatuses:  []ports.JobStatus{completed},
			}
			o := fastOrchestrator(mock)

			if _, err := o.Solve(context.Background(), syncRequest(tc.visits, tc.vehicles)); err != nil {
				t.Fatalf("Solve: %v", err)
			}
			if tc.wantAsync && (mock.SubmitCalls != 1 || mock.SyncCalls != 0) {
				t.Fatalf("expected async path, got sync=%d submit=%d", mock.SyncCalls, mock.SubmitCalls)
			}
			if !tc.wantAsync && (mock.SyncCalls != 1 || mock.SubmitCalls != 0) {
				t.Fatalf("expected sync path, got sync=%d submit=%d", mock.SyncCalls, mock.SubmitCalls)
			}
		})
	}
}

func TestSolveSyncInfeasible(t *testing.T) {
	mock := &solver.MockClient{
		SyncResponse: &ports.SolverResponse{
			Status: string(domain.StatusInfeasible),
			Detail: "capacity exceeded",
		},
	}
	o := fastOrchestrator(mock)

	_, err := o.Solve(context.Background(), syncRequest(2, 1))
	if domain.CodeOf(err) != domain.ErrOptimizationInfeasible {
		t.Fatalf("err = %v, want infeasible", err)
	}
	derr, _ := domain.AsError(err)
	if len(derr.Suggestions) == 0 {
		t.Fatal("infeasible error should carry suggestions")
	}
}

func TestSolveAsyncPollsUntilCompleted(t *testing.T) {
	mock := &solver.MockClient{
		Submission: &ports.JobSubmission{JobID: "job-7", Status: ports.JobStatusProcessing},
		JobStatuses: []ports.JobStatus{
			{Status: ports.JobStatusProcessing},
			{Status: ports.JobStatusProcessing},
			{
				Status: ports.JobStatusCompleted,
				Result: &ports.SolverResponse{
					Status: string(domain.StatusOptimal),
					RoutingEngineResult: &ports.RoutingEngineResult{
						Routes: []ports.SolverRoute{
							{VehicleName: "d1", RouteName: []string{"hub", "o1", "hub"}},
						},
					},
				},
			},
		},
	}
	o := fastOrchestrator(mock)

	result, err := o.Solve(context.Background(), syncRequest(100, 1))
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if mock.PollCalls != 3 {
		t.Fatalf("poll calls = %d, want 3", mock.PollCalls)
	}
	if len(result.Routes) != 1 || result.Routes[0].Visits[0] != "o1" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestSolveAsyncJobFailed(t *testing.T) {
	mock := &solver.MockClient{
		JobStatuses: []ports.JobStatus{
			{Status: ports.JobStatusFailed, Message: "solver crashed"},
		},
	}
	o := fastOrchestrator(mock)

	_, err := o.Solve(context.Background(), syncRequest(100, 1))
	if domain.CodeOf(err) != domain.ErrJobFailed {
		t.Fatalf("err = %v, want job failed", err)
	}
}

func TestSolveAsyncCompletedWithoutResult(t *testing.T) {
	mock := &solver.MockClient{
		JobStatuses: []ports.JobStatus{{Status: ports.JobStatusCompleted}},
	}
	o := fastOrchestrator(mock)

	_, err := o.Solve(context.Background(), syncRequest(100, 1))
	if domain.CodeOf(err) != domain.ErrJobFailed {
		t.Fatalf("err = %v, want job failed on missing payload", err)
	}
}

func TestSolveAsyncInfeasibleResult(t *testing.T) {
	mock := &solver.MockClient{
		JobStatuses: []ports.JobStatus{
			{
				Status: ports.JobStatusCompleted,
				Result: &ports.SolverResponse{Status: string(domain.StatusInfeasible)},
			},
		},
	}
	o := fastOrchestrator(mock)

	_, err := o.Solve(context.Background(), syncRequest(100, 1))
	if domain.CodeOf(err) != domain.ErrOptimizationInfeasible {
		t.Fatalf("err = %v, want infeasible", err)
	}
}

func TestSolveAsyncTimeout(t *testing.T) {
	mock := &solver.MockClient{}
	o := fastOrchestrator(mock)
	o.MaxWait = 5 * time.Millisecond

	_, err := o.Solve(context.Background(), syncRequest(100, 1))
	if domain.CodeOf(err) != domain.ErrJobTimeout {
		t.Fatalf("err = %v, want job timeout", err)
	}
}

func TestSolveAsyncContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	mock := &solver.MockClient{}
	o := fastOrchestrator(mock)
	o.PollInterval = time.Hour
	o.MaxWait = time.Hour

	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()

	_, err := o.Solve(ctx, syncRequest(100, 1))
	if err != context.Canceled {
		t.Fatalf("err = %v, want context canceled", err)
	}
}
