package brief

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"newsbrief-api/internal/metrics"
	"newsbrief-api/internal/shared"

	"go.uber.org/zap"
)

// NormalizedResult is the sole artifact handed back to the router: a status
// code and a JSON body, success or failure alike.
type NormalizedResult struct {
	StatusCode int
	Body       json.RawMessage
}

// Dispatcher sends a payload upstream with bounded exponential backoff.
// Safe for concurrent use; all per-invocation state lives on the stack of
// one Dispatch call.
type Dispatcher struct {
	Client     *http.Client
	Log        *zap.SugaredLogger
	MaxRetries int
	BaseDelay  time.Duration

	// secret is only used to scrub failure messages, never to build requests
	secret string
}

func NewDispatcher(log *zap.SugaredLogger, maxRetries int, baseDelay time.Duration, secret string) *Dispatcher {
	if maxRetries < 1 {
		maxRetries = 1
	}
	tr := &http.Transport{
		Dial: (&net.Dialer{
			Timeout: 2 * time.Second,
		}).Dial,
		TLSHandshakeTimeout: 2 * time.Second,
		DisableKeepAlives:   false,
	}
	return &Dispatcher{
		Client:     &http.Client{Transport: tr, Timeout: shared.DefaultHTTPTimeout},
		Log:        log,
		MaxRetries: maxRetries,
		BaseDelay:  baseDelay,
		secret:     secret,
	}
}

// Dispatch posts the payload to endpoint, retrying every non-2xx status and
// transport failure uniformly until MaxRetries attempts are spent. Success
// returns 200 with the upstream body verbatim; exhaustion returns 502 with
// the last failure message. Nothing escapes past this boundary.
func (d *Dispatcher) Dispatch(ctx context.Context, endpoint string, payload []byte) NormalizedResult {
	var lastFailure string

attempts:
	for attempt := 0; attempt < d.MaxRetries; attempt++ {
		body, failure := d.attempt(ctx, endpoint, payload)
		if failure == "" {
			return NormalizedResult{StatusCode: http.StatusOK, Body: body}
		}
		lastFailure = failure
		d.Log.Warnw("Upstream attempt failed", "attempt", attempt, "error", failure)

		if attempt == d.MaxRetries-1 {
			break
		}

		// 1s, 2s, 4s, ... for the default base delay
		delay := d.BaseDelay << attempt
		select {
		case <-ctx.Done():
			lastFailure = "invocation aborted during backoff: " + lastFailure
			break attempts
		case <-time.After(delay):
		}
	}

	metrics.RetriesExhausted.WithLabelValues(shared.ErrFailedUpstreamReq.Code).Inc()
	errBody, _ := json.Marshal(shared.ErrorResponse{
		Error:   "upstream request failed",
		Details: lastFailure,
	})
	return NormalizedResult{StatusCode: http.StatusBadGateway, Body: errBody}
}

// attempt performs one outbound call. A non-empty failure string means the
// attempt is retryable; the string never contains the credential.
func (d *Dispatcher) attempt(ctx context.Context, endpoint string, payload []byte) (json.RawMessage, string) {
	r, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(payload))
	if err != nil {
		metrics.UpstreamAttempts.WithLabelValues(shared.ErrFailedUpstreamReq.Code).Inc()
		return nil, shared.RedactSecret(err.Error(), d.secret)
	}
	r.Header.Set("Content-Type", "application/json")

	res, err := d.Client.Do(r)
	if err != nil {
		metrics.UpstreamAttempts.WithLabelValues(shared.ErrFailedUpstreamReq.Code).Inc()
		return nil, shared.RedactSecret(err.Error(), d.secret)
	}
	defer func() {
		if closeErr := res.Body.Close(); closeErr != nil {
			d.Log.Warnw("Failed to close response body", "error", closeErr)
		}
	}()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		metrics.UpstreamAttempts.WithLabelValues(shared.ErrFailedReadingResponse.Code).Inc()
		return nil, shared.RedactSecret(shared.ErrFailedReadingResponse.Msg+": "+err.Error(), d.secret)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		metrics.UpstreamAttempts.WithLabelValues(shared.ErrFailedUpstreamReqFromCode.Code).Inc()
		return nil, shared.RedactSecret(fmt.Sprintf("upstream responded %d: %s", res.StatusCode, truncate(body, 512)), d.secret)
	}

	if !json.Valid(body) {
		metrics.UpstreamAttempts.WithLabelValues(shared.ErrFailedReadingResponse.Code).Inc()
		return nil, "upstream returned malformed JSON"
	}

	metrics.UpstreamAttempts.WithLabelValues("ok").Inc()
	return body, ""
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
