// Package solver implements the SolverClient port against the Omelet
// routing-engine HTTP API.
package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"route-optimizer-mcp/internal/domain"
	"route-optimizer-mcp/internal/platform/obs"
	"route-optimizer-mcp/internal/ports"
)

const (
	defaultBaseURL = "https://routing.oaasis.cc"
	acceptType     = "application/vnd.omelet.v2+json"

	syncPath = "/api/v1/vrp"
	longPath = "/api/v1/vrp/long"

	// Standard calls and long-running submissions time out at distinct
	// fixed thresholds; job completion itself is bounded by the
	// orchestrator's polling deadline, not by these.
	standardTimeout = 30 * time.Second
	longTimeout     = 2 * time.Minute

	// Client-side throttle for all outbound calls, polling included.
	requestsPerSecond = 2
)

// Client talks to the Omelet routing engine. Construct it once at process
// start and pass it into each operation; it is safe for concurrent use.
type Client struct {
	session     *http.Client
	longSession *http.Client
	baseURL     string
	apiKey      string
	limiter     *rate.Limiter
}

func NewClient(baseURL, apiKey string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("solver api key is empty")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		session:     &http.Client{Timeout: standardTimeout},
		longSession: &http.Client{Timeout: longTimeout},
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		limiter:     rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
	}, nil
}

// SolveSync runs one blocking optimization call.
func (c *Client) SolveSync(ctx context.Context, req *ports.SolverRequest) (_ *ports.SolverResponse, err error) {
	defer obs.Time(ctx, "solver.SolveSync")(&err)

	var resp ports.SolverResponse
	if err := c.postJSON(ctx, c.session, c.baseURL+syncPath, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SubmitJob submits a long-running optimization.
func (c *Client) SubmitJob(ctx context.Context, req *ports.SolverRequest) (_ *ports.JobSubmission, err error) {
	defer obs.Time(ctx, "solver.SubmitJob")(&err)

	var sub ports.JobSubmission
	if err := c.postJSON(ctx, c.longSession, c.baseURL+longPath, req, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// GetJobStatus fetches the state of a submitted job.
func (c *Client) GetJobStatus(ctx context.Context, jobID string) (*ports.JobStatus, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, errors.New("get job status: job id is empty")
	}

	httpReq, err := c.newRequest(ctx, http.MethodGet, c.baseURL+longPath+"/"+jobID, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(c.session, httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var status ports.JobStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("get job status: decode response: %w", err)
	}
	return &status, nil
}

func (c *Client) postJSON(ctx context.Context, session *http.Client, url string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	resp, err := c.do(session, httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Accept", acceptType)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do applies the outbound throttle, performs the call and maps failures to
// the structured error taxonomy. No automatic retry happens here.
func (c *Client) do(session *http.Client, req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}

	resp, err := session.Do(req)
	if err != nil {
		return nil, domain.NewError(domain.ErrNetwork,
			fmt.Sprintf("request to %s failed: %v", req.URL.Path, err),
			"check network connectivity",
			"verify the solver base URL",
		)
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, mapStatusError(resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return resp, nil
}
