package leadapi

import (
	"encoding/json"
	"fmt"
)

// NetworkError means the request could not complete: connection refused, DNS
// failure, timeout, cancellation, or an unreadable response body.
type NetworkError struct {
	Op  string // "list", "create"
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("lead api %s: network failure: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// HTTPError is a completed request with a non-2xx status. Detail carries the
// backend's human-readable message when the body was JSON with a string
// "detail" field.
type HTTPError struct {
	Op         string
	StatusCode int
	Detail     string
}

func (e *HTTPError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("lead api %s: status %d: %s", e.Op, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("lead api %s: status %d", e.Op, e.StatusCode)
}

// parseDetail extracts {"detail": "..."} from an error body. Non-JSON bodies
// and non-string details (FastAPI sends a list for schema errors) yield "".
func parseDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}
	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err != nil {
		return ""
	}
	return detail
}
