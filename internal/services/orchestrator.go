package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"route-optimizer-mcp/internal/domain"
	"route-optimizer-mcp/internal/ports"
)

// Endpoint-size thresholds: at or above either count the request goes to
// the asynchronous submission endpoint instead of the blocking one. The
// request builder's large-problem option flag shares these values.
const (
	asyncVisitThreshold   = 100
	asyncVehicleThreshold = 20
)

const (
	defaultPollInterval = 5 * time.Second
	defaultMaxWait      = 5 * time.Minute
)

// Orchestrator drives one optimization call end to end: endpoint selection,
// bounded polling for asynchronous jobs, and normalization of the solver
// response. It performs no automatic retry; refinement loops re-invoke
// Solve explicitly with adjusted parameters.
type Orchestrator struct {
	Client       ports.SolverClient
	PollInterval time.Duration
	MaxWait      time.Duration
}

func NewOrchestrator(client ports.SolverClient) *Orchestrator {
	return &Orchestrator{
		Client:       client,
		PollInterval: defaultPollInterval,
		MaxWait:      defaultMaxWait,
	}
}

// Solve runs the request against the remote engine and returns the
// normalized result.
func (o *Orchestrator) Solve(ctx context.Context, req *ports.SolverRequest) (*domain.OptimizeResult, error) {
	if len(req.Visits) >= asyncVisitThreshold || len(req.Vehicles) >= asyncVehicleThreshold {
		return o.solveAsync(ctx, req)
	}
	return o.solveSync(ctx, req)
}

func (o *Orchestrator) solveSync(ctx context.Context, req *ports.SolverRequest) (*domain.OptimizeResult, error) {
	resp, err := o.Client.SolveSync(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}

	if resp.Status == string(domain.StatusInfeasible) {
		return nil, infeasibleError(resp.Detail)
	}

	return TransformResponse(resp, req.Depot.Name), nil
}

func (o *Orchestrator) solveAsync(ctx context.Context, req *ports.SolverRequest) (*domain.OptimizeResult, error) {
	sub, err := o.Client.SubmitJob(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("submit job: %w", err)
	}
	log.Printf("solver: submitted async job job_id=%s visits=%d vehicles=%d",
		sub.JobID, len(req.Visits), len(req.Vehicles))

	interval := o.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	maxWait := o.MaxWait
	if maxWait <= 0 {
		maxWait = defaultMaxWait
	}
	deadline := time.Now().Add(maxWait)

	for {
		if time.Now().After(deadline) {
			return nil, domain.NewError(domain.ErrJobTimeout,
				fmt.Sprintf("job %s did not finish within %s", sub.JobID, maxWait),
				"raise the maximum wait time",
				"enable the large-size optimization algorithm",
				"lower the solver time limit",
			).WithDetail("job_id", sub.JobID)
		}

		status, err := o.Client.GetJobStatus(ctx, sub.JobID)
		if err != nil {
			return nil, fmt.Errorf("poll job %s: %w", sub.JobID, err)
		}

		switch status.Status {
		case ports.JobStatusCompleted:
			if status.Result == nil {
				return nil, domain.NewError(domain.ErrJobFailed,
					fmt.Sprintf("job %s completed without a result payload", sub.JobID),
				).WithDetail("job_id", sub.JobID)
			}
			if status.Result.Status == string(domain.StatusInfeasible) {
				return nil, infeasibleError(status.Result.Detail)
			}
			return TransformResponse(status.Result, req.Depot.Name), nil
		case ports.JobStatusFailed:
			return nil, domain.NewError(domain.ErrJobFailed,
				fmt.Sprintf("job %s failed: %s", sub.JobID, status.Message),
				"check the request data and re-run the optimization",
			).WithDetail("job_id", sub.JobID)
		}

		// Still processing; wait out the poll interval cooperatively.
		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func infeasibleError(detail string) *domain.Error {
	msg := "the solver found no feasible solution"
	if detail != "" {
		msg += ": " + detail
	}
	return domain.NewError(domain.ErrOptimizationInfeasible, msg,
		"increase vehicle capacity",
		"increase the solver time limit",
		"exclude some orders from the run",
		"allow unassigned visits",
	)
}
