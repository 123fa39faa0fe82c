package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"route-optimizer-mcp/internal/domain"
	"route-optimizer-mcp/internal/ports"
	"route-optimizer-mcp/internal/validate"
)

// Dataset is the in-memory validated data for one project. Sessions persist
// only flags and results; record data lives in process memory, which matches
// the single-client, single-process execution model.
type Dataset struct {
	Drivers []domain.Driver
	Orders  []domain.Order
	Depots  []domain.Depot
	Errors  []validate.RowError
}

// Workflow implements the 7-step project workflow over the session store,
// dataset reader and solver orchestrator ports.
type Workflow struct {
	Store  ports.SessionStore
	Reader ports.DatasetReader
	Solver *Orchestrator

	mu       sync.Mutex
	datasets map[string]*Dataset
}

func NewWorkflow(store ports.SessionStore, reader ports.DatasetReader, solver *Orchestrator) *Workflow {
	return &Workflow{
		Store:    store,
		Reader:   reader,
		Solver:   solver,
		datasets: make(map[string]*Dataset),
	}
}

// StartProject creates a session, marks it active and completes step 0.
func (w *Workflow) StartProject(ctx context.Context, name string) (*domain.Session, error) {
	if strings.TrimSpace(name) == "" {
		name = "untitled project"
	}

	s := &domain.Session{
		ID:             uuid.NewString(),
		Name:           name,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
		CompletedSteps: []string{},
	}
	s.CompleteStep(0)

	if err := w.Store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("start project: %w", err)
	}
	if err := w.Store.SetActive(ctx, s.ID); err != nil {
		return nil, fmt.Errorf("start project: set active: %w", err)
	}
	return s, nil
}

// resolve loads the addressed session, falling back to the active one when
// id is empty.
func (w *Workflow) resolve(ctx context.Context, id string) (*domain.Session, error) {
	var (
		s   *domain.Session
		err error
	)
	if id == "" {
		s, err = w.Store.GetActive(ctx)
	} else {
		s, err = w.Store.Load(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if s == nil {
		return nil, domain.NewError(domain.ErrNotFound,
			"no matching project session found",
			"start a project first or pass an explicit session id",
		)
	}
	return s, nil
}

// ListProjects returns every stored session.
func (w *Workflow) ListProjects(ctx context.Context) ([]*domain.Session, error) {
	return w.Store.ListAll(ctx)
}

// Status returns the addressed (or active) session unchanged.
func (w *Workflow) Status(ctx context.Context, id string) (*domain.Session, error) {
	return w.resolve(ctx, id)
}

// DeleteProject removes a session and its cached dataset. Sessions are
// never deleted automatically; this is the only removal path.
func (w *Workflow) DeleteProject(ctx context.Context, id string) error {
	s, err := w.resolve(ctx, id)
	if err != nil {
		return err
	}
	if err := w.Store.Delete(ctx, s.ID); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	w.mu.Lock()
	delete(w.datasets, s.ID)
	w.mu.Unlock()
	return nil
}

// LoadData reads and validates the project's data files (step 1). Depot data
// is optional. Row-level violations are collected, not fatal: valid rows
// still load.
func (w *Workflow) LoadData(ctx context.Context, id, driversPath, ordersPath, depotsPath string) (*Dataset, *domain.Session, error) {
	s, err := w.resolve(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	ds := &Dataset{}

	driverRows, err := w.Reader.ReadRows(driversPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load drivers: %w", err)
	}
	dr := validate.ParseDrivers(driversPath, driverRows)
	ds.Drivers = dr.Drivers
	ds.Errors = append(ds.Errors, dr.Errors...)

	orderRows, err := w.Reader.ReadRows(ordersPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load orders: %w", err)
	}
	or := validate.ParseOrders(ordersPath, orderRows)
	ds.Orders = or.Orders
	ds.Errors = append(ds.Errors, or.Errors...)

	if depotsPath != "" {
		depotRows, err := w.Reader.ReadRows(depotsPath)
		if err != nil {
			return nil, nil, fmt.Errorf("load depots: %w", err)
		}
		dp := validate.ParseDepots(depotsPath, depotRows)
		ds.Depots = dp.Depots
		ds.Errors = append(ds.Errors, dp.Errors...)
	}

	w.mu.Lock()
	w.datasets[s.ID] = ds
	w.mu.Unlock()

	s.DataLoaded = domain.DataLoaded{
		Drivers: len(ds.Drivers) > 0,
		Orders:  len(ds.Orders) > 0,
		Depots:  len(ds.Depots) > 0,
	}
	s.CompleteStep(1)
	if err := w.Store.Save(ctx, s); err != nil {
		return nil, nil, fmt.Errorf("load data: save session: %w", err)
	}
	return ds, s, nil
}

// Configure stores explicit optimization choices on the session (step 2) and
// returns a classification preview with the overrides folded in. Steps may
// run out of order: without loaded data the config still saves and the
// preview is simply skipped (zero-valued classification).
func (w *Workflow) Configure(ctx context.Context, id string, cfg domain.ProjectConfig) (*domain.Session, domain.Classification, error) {
	s, err := w.resolve(ctx, id)
	if err != nil {
		return nil, domain.Classification{}, err
	}

	var cls domain.Classification
	s.Config = &cfg
	if ds, err := w.dataset(s.ID); err == nil {
		cls = Classify(ds.Drivers, ds.Orders, cfg.Constraints)
		s.LastClassification = &cls
	}
	s.CompleteStep(2)
	if err := w.Store.Save(ctx, s); err != nil {
		return nil, domain.Classification{}, fmt.Errorf("configure: save session: %w", err)
	}
	return s, cls, nil
}

// Optimize runs the full classify → build → solve → transform pipeline
// (step 3) and persists the normalized result on the session.
func (w *Workflow) Optimize(ctx context.Context, id string) (*domain.OptimizeResult, *domain.Session, error) {
	s, err := w.resolve(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return w.optimize(ctx, s, 3)
}

func (w *Workflow) optimize(ctx context.Context, s *domain.Session, step int) (*domain.OptimizeResult, *domain.Session, error) {
	ds, err := w.dataset(s.ID)
	if err != nil {
		return nil, nil, err
	}

	opts := BuildOptions{}
	if s.Config != nil {
		opts = BuildOptions{
			Constraints:     s.Config.Constraints,
			Objective:       s.Config.Objective,
			DistanceType:    s.Config.DistanceType,
			TimeLimit:       s.Config.TimeLimit,
			AllowUnassigned: s.Config.AllowUnassigned,
		}
	}

	req, cls, err := BuildRequest(ds.Drivers, ds.Orders, ds.Depots, opts)
	if err != nil {
		return nil, nil, err
	}

	result, err := w.Solver.Solve(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	s.LastClassification = &cls
	s.LastResult = result
	s.CompleteStep(step)
	if err := w.Store.Save(ctx, s); err != nil {
		return nil, nil, fmt.Errorf("optimize: save session: %w", err)
	}
	return result, s, nil
}

// Analyze marks step 4 complete and returns the stored result for
// reporting.
func (w *Workflow) Analyze(ctx context.Context, id string) (*domain.OptimizeResult, *domain.Session, error) {
	s, err := w.resolve(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if s.LastResult == nil {
		return nil, nil, domain.NewError(domain.ErrInsufficientData,
			"no optimization result to analyze",
			"run the optimization first",
		)
	}
	s.CompleteStep(4)
	if err := w.Store.Save(ctx, s); err != nil {
		return nil, nil, fmt.Errorf("analyze: save session: %w", err)
	}
	return s.LastResult, s, nil
}

// Refine classifies the feedback into an intent, adjusts the session config
// accordingly and re-runs the optimization (step 5). The previous result is
// overwritten only when the new solve succeeds.
func (w *Workflow) Refine(ctx context.Context, id, feedback string) (RefineIntent, *domain.OptimizeResult, *domain.Session, error) {
	s, err := w.resolve(ctx, id)
	if err != nil {
		return "", nil, nil, err
	}

	intent := ClassifyIntent(feedback)
	if s.Config == nil {
		s.Config = &domain.ProjectConfig{}
	}
	baseLimit := 0
	if s.LastClassification != nil {
		baseLimit = defaultTimeLimit(*s.LastClassification)
	}
	applyIntent(s.Config, intent, baseLimit)

	result, s, err := w.optimize(ctx, s, 5)
	if err != nil {
		return intent, nil, nil, err
	}
	return intent, result, s, nil
}

// applyIntent maps a refinement intent onto config adjustments. An unset
// (zero) time limit is seeded from the variant default before a raise, so a
// raise never ends up below the limit the previous run effectively used.
func applyIntent(cfg *domain.ProjectConfig, intent RefineIntent, baseLimit int) {
	boolPtr := func(v bool) *bool { return &v }
	raiseLimit := func(by int) {
		if cfg.TimeLimit == 0 {
			if baseLimit == 0 {
				return
			}
			cfg.TimeLimit = baseLimit
		}
		cfg.TimeLimit += by
	}

	switch intent {
	case IntentBalanceRoutes:
		cfg.Objective = "minmax"
	case IntentReduceVehicles:
		// Letting visits go unassigned is what frees vehicles from the load.
		cfg.Objective = "minsum"
		cfg.AllowUnassigned = boolPtr(true)
		raiseLimit(10)
	case IntentRespectTime:
		cfg.Constraints.TimeWindows = boolPtr(true)
		raiseLimit(20)
	case IntentAllowUnassigned:
		cfg.AllowUnassigned = boolPtr(true)
	default: // IntentReduceCost
		cfg.Objective = "minsum"
		raiseLimit(10)
	}
}

// Export renders a plain-text run report (step 6). Formatted document
// generation is out of scope; this is the stable stand-in consumed by
// reporting.
func (w *Workflow) Export(ctx context.Context, id string) (string, *domain.Session, error) {
	s, err := w.resolve(ctx, id)
	if err != nil {
		return "", nil, err
	}
	if s.LastResult == nil {
		return "", nil, domain.NewError(domain.ErrInsufficientData,
			"no optimization result to export",
			"run the optimization first",
		)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "project: %s (%s)\n", s.Name, s.ID)
	if s.LastClassification != nil {
		fmt.Fprintf(&b, "variant: %s\n", s.LastClassification.Variant)
	}
	r := s.LastResult
	fmt.Fprintf(&b, "status: %s\n", r.Status)
	fmt.Fprintf(&b, "total: distance=%.1f duration=%.1f cost=%.1f\n", r.TotalDistance, r.TotalDuration, r.TotalCost)
	for _, route := range r.Routes {
		fmt.Fprintf(&b, "route %s (%d visits, cost=%.1f): %s\n",
			route.VehicleName, len(route.Visits), route.Cost, strings.Join(route.Visits, " -> "))
	}
	if len(r.UnassignedVisits) > 0 {
		fmt.Fprintf(&b, "unassigned: %s\n", strings.Join(r.UnassignedVisits, ", "))
	}

	s.CompleteStep(6)
	if err := w.Store.Save(ctx, s); err != nil {
		return "", nil, fmt.Errorf("export: save session: %w", err)
	}
	return b.String(), s, nil
}

func (w *Workflow) dataset(sessionID string) (*Dataset, error) {
	w.mu.Lock()
	ds := w.datasets[sessionID]
	w.mu.Unlock()
	if ds == nil || (len(ds.Drivers) == 0 && len(ds.Orders) == 0) {
		return nil, domain.NewError(domain.ErrInsufficientData,
			"no data loaded for this project",
			"load driver and order files first",
		)
	}
	return ds, nil
}
