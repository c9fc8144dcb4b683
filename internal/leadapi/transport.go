package leadapi

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Header names sent on every call.
const (
	HeaderAPIKey    = "X-API-Key"
	HeaderRequestID = "X-Request-ID"
)

// transport decorates every outgoing request with the API key, a request id
// and the user agent, and waits on the rate limiter when one is configured.
type transport struct {
	base      http.RoundTripper
	apiKey    string
	userAgent string
	limiter   *rate.Limiter
	log       *zap.Logger
}

func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("rate limit wait failed: %w", err)
		}
	}

	// RoundTrippers must not mutate the caller's request.
	r := req.Clone(req.Context())
	if t.apiKey != "" {
		r.Header.Set(HeaderAPIKey, t.apiKey)
	}
	if r.Header.Get(HeaderRequestID) == "" {
		r.Header.Set(HeaderRequestID, uuid.NewString())
	}
	if t.userAgent != "" && r.Header.Get("User-Agent") == "" {
		r.Header.Set("User-Agent", t.userAgent)
	}

	t.log.Debug("request",
		zap.String("method", r.Method),
		zap.String("url", r.URL.String()),
		zap.String("request_id", r.Header.Get(HeaderRequestID)))

	return t.base.RoundTrip(r)
}
