package solver

import (
	"fmt"

	"route-optimizer-mcp/internal/domain"
)

// mapStatusError maps an HTTP failure status to a structured domain error
// carrying remediation suggestions.
func mapStatusError(code int, body string) *domain.Error {
	var e *domain.Error

	switch {
	case code == 400:
		e = domain.NewError(domain.ErrBadRequest,
			"the solver rejected the request payload",
			"check the request data for missing or malformed fields",
		)
	case code == 401:
		e = domain.NewError(domain.ErrUnauthorized,
			"the solver API key was rejected",
			"verify OMELET_API_KEY is set and valid",
		)
	case code == 403:
		e = domain.NewError(domain.ErrForbidden,
			"the API key lacks permission for this endpoint",
			"check the subscription plan for the routing API",
		)
	case code == 404:
		e = domain.NewError(domain.ErrNotFound,
			"the solver endpoint or job was not found",
			"verify the base URL and the job id",
		)
	case code == 405:
		e = domain.NewError(domain.ErrMethodNotAllowed,
			"the solver rejected the HTTP method",
			"verify the solver base URL points at the routing API",
		)
	case code == 406:
		e = domain.NewError(domain.ErrNotAcceptable,
			"the solver rejected the requested API version",
			"update the versioned accept header",
		)
	case code == 422:
		e = domain.NewError(domain.ErrUnprocessable,
			"the solver could not process the request body",
			"check coordinate ranges, capacities and time windows",
		)
	case code == 429:
		e = domain.NewError(domain.ErrRateLimited,
			"the solver is rate limiting this client",
			"wait before re-running the optimization",
			"reduce the polling frequency",
		)
	case code >= 500:
		e = domain.NewError(domain.ErrServerError,
			"the solver reported an internal error",
			"re-run the optimization later",
		)
	default:
		e = domain.NewError(domain.ErrUnknownHTTP,
			fmt.Sprintf("unexpected solver response status %d", code),
			"check the solver service status",
		)
	}

	e.WithDetail("status_code", code)
	if body != "" {
		e.WithDetail("body", body)
	}
	return e
}
