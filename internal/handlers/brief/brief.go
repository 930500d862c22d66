package brief

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"newsbrief-api/internal/metrics"
	"newsbrief-api/internal/setup"
	"newsbrief-api/internal/shared"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type Config struct {
	GeminiAPIKey  string
	GeminiHost    string
	GeminiVersion string
	Model         string
	MaxRetries    int
	BaseDelay     time.Duration
}

type Handler struct {
	Cfg        Config
	Log        *zap.SugaredLogger
	dispatcher *Dispatcher
}

func NewHandler(cfg Config, log *zap.SugaredLogger) *Handler {
	if cfg.GeminiHost == "" {
		cfg.GeminiHost = shared.DefaultGeminiHost
	}
	if cfg.GeminiVersion == "" {
		cfg.GeminiVersion = shared.DefaultGeminiVersion
	}
	if cfg.Model == "" {
		cfg.Model = shared.DefaultModel
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = shared.DefaultMaxRetries
	}
	if cfg.BaseDelay == 0 {
		cfg.BaseDelay = shared.DefaultRetryBaseDelay
	}
	return &Handler{
		Cfg:        cfg,
		Log:        log,
		dispatcher: NewDispatcher(log, cfg.MaxRetries, cfg.BaseDelay, cfg.GeminiAPIKey),
	}
}

// Endpoint is the upstream generateContent URL with the credential injected.
// The key travels only here; it never appears in responses or logs.
func (h *Handler) Endpoint() string {
	return fmt.Sprintf("%s/%s/models/%s:generateContent?key=%s",
		h.Cfg.GeminiHost, h.Cfg.GeminiVersion, h.Cfg.Model, h.Cfg.GeminiAPIKey)
}

// HandleBrief is the single entry point: method gate, credential gate,
// translate, dispatch. Every failure path terminates in a JSON envelope.
func (h *Handler) HandleBrief(cc echo.Context) error {
	c := cc.(*setup.Context)

	if c.Request().Method != http.MethodPost {
		return c.JSON(http.StatusMethodNotAllowed, shared.ErrorResponse{
			Error: shared.ErrMethodNotAllowed.Err.Error(),
		})
	}

	if h.Cfg.GeminiAPIKey == "" {
		c.Log.Errorw("Gemini API key is not configured")
		return c.JSON(http.StatusInternalServerError, shared.ErrorResponse{
			Error: shared.ErrMissingCredential.Err.Error(),
		})
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		c.Log.Errorw("Failed to read request body", "error", err.Error())
		return c.JSON(http.StatusBadRequest, shared.ErrorResponse{
			Error: "failed to read request body",
		})
	}

	payload, intent, reqErr := Translate(c.Request().Method, body)
	if reqErr != nil {
		return c.JSON(reqErr.StatusCode, shared.ErrorResponse{
			Error: reqErr.Err.Error(),
		})
	}

	start := time.Now()
	result := h.dispatcher.Dispatch(c.Request().Context(), h.Endpoint(), payload)
	metrics.RequestDuration.WithLabelValues(intent).Observe(time.Since(start).Seconds())

	if result.StatusCode != http.StatusOK {
		c.Log.Warnw("Brief request failed", "intent", intent, "status_code", result.StatusCode)
	}
	return c.JSONBlob(result.StatusCode, result.Body)
}
