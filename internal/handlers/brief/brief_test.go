package brief

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"newsbrief-api/internal/setup"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type handlerHarness struct {
	handler  *Handler
	attempts *atomic.Int32
	upstream *httptest.Server
}

func newHarness(t *testing.T, cfg Config, upstreamFn http.HandlerFunc) *handlerHarness {
	t.Helper()
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		upstreamFn(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg.GeminiHost = srv.URL
	if cfg.BaseDelay == 0 {
		cfg.BaseDelay = 10 * time.Millisecond
	}
	return &handlerHarness{
		handler:  NewHandler(cfg, zap.NewNop().Sugar()),
		attempts: &attempts,
		upstream: srv,
	}
}

func (hh *handlerHarness) do(t *testing.T, method, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/v1/brief", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	cc := &setup.Context{Context: e.NewContext(req, rec), Log: zap.NewNop().Sugar(), Reqid: "testreq"}
	require.NoError(t, hh.handler.HandleBrief(cc))
	return rec
}

func okUpstream(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(`{"candidates":[]}`))
}

func TestHandleBriefRejectsNonPost(t *testing.T) {
	hh := newHarness(t, Config{GeminiAPIKey: "k"}, okUpstream)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodPatch} {
		rec := hh.do(t, method, `{"type":"fetch"}`)
		assert.Equal(t, 405, rec.Code, method)
		assert.Contains(t, rec.Body.String(), `"error"`, method)
	}
	assert.Equal(t, int32(0), hh.attempts.Load())
}

func TestHandleBriefMissingCredential(t *testing.T) {
	hh := newHarness(t, Config{}, okUpstream)

	rec := hh.do(t, http.MethodPost, `{"type":"fetch"}`)

	assert.Equal(t, 500, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
	assert.Equal(t, int32(0), hh.attempts.Load())
}

func TestHandleBriefRejectsBadBodyBeforeDispatch(t *testing.T) {
	hh := newHarness(t, Config{GeminiAPIKey: "k"}, okUpstream)

	rec := hh.do(t, http.MethodPost, `{broken`)

	assert.Equal(t, 400, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
	assert.Equal(t, int32(0), hh.attempts.Load())
}

func TestHandleBriefForwardsUpstreamSuccess(t *testing.T) {
	hh := newHarness(t, Config{GeminiAPIKey: "k"}, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "k", r.URL.Query().Get("key"))
		assert.True(t, strings.HasSuffix(r.URL.Path, ":generateContent"))
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"brief"}]}}]}`))
	})

	rec := hh.do(t, http.MethodPost, `{"type":"fetch"}`)

	assert.Equal(t, 200, rec.Code)
	assert.JSONEq(t, `{"candidates":[{"content":{"parts":[{"text":"brief"}]}}]}`, rec.Body.String())
	assert.Equal(t, int32(1), hh.attempts.Load())
}

func TestHandleBriefExhaustionReturns502(t *testing.T) {
	hh := newHarness(t, Config{GeminiAPIKey: "k", MaxRetries: 2}, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	rec := hh.do(t, http.MethodPost, `{"type":"summarize","textToSummarize":"rates held"}`)

	assert.Equal(t, 502, rec.Code)
	assert.Contains(t, rec.Body.String(), `"details"`)
	assert.Equal(t, int32(2), hh.attempts.Load())
}

func TestEndpointInjectsCredential(t *testing.T) {
	h := NewHandler(Config{GeminiAPIKey: "secret123"}, zap.NewNop().Sugar())

	endpoint := h.Endpoint()

	assert.Contains(t, endpoint, "models/gemini-2.5-flash:generateContent")
	assert.True(t, strings.HasSuffix(endpoint, "?key=secret123"))
}
