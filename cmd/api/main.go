package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"newsbrief-api/internal/handlers/brief"
	"newsbrief-api/internal/middleware"
	"newsbrief-api/internal/routers"
	"newsbrief-api/internal/shared"

	"github.com/labstack/echo/v4"
	emw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/manifold-inc/manifold-sdk/lib/eflag"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Flags / ENV Variables
	geminiAPIKey := flag.String("gemini-api-key", "", "Gemini API key injected into upstream requests")
	geminiHost := flag.String("gemini-host", shared.DefaultGeminiHost, "Upstream generative language host")
	model := flag.String("model", shared.DefaultModel, "Upstream model name")
	maxRetries := flag.Int("max-retries", shared.DefaultMaxRetries, "Total upstream attempts per request")
	retryBaseDelay := flag.Duration("retry-base-delay", shared.DefaultRetryBaseDelay, "First backoff delay, doubled per attempt")
	metricsAPIKey := flag.String("metrics-api-key", "", "Metrics api key")
	debug := flag.Bool("debug", false, "Debug enabled")

	err := eflag.SetFlagsFromEnvironment()
	if err != nil {
		panic(err)
	}
	flag.Parse()

	var logger *zap.Logger
	if !*debug {
		logger, err = zap.NewProduction()
		if err != nil {
			panic("Failed init logger")
		}
	}
	if *debug {
		logger, err = zap.NewDevelopment()
		if err != nil {
			panic("Failed init logger")
		}
	}
	log := logger.Sugar()

	if *geminiAPIKey == "" {
		// Requests will be rejected with 500 until a key is configured;
		// boot anyway so /ping and /metrics stay reachable.
		log.Warn("Starting without a gemini api key")
	}

	e := echo.New()
	e.GET(("/ping"), func(c echo.Context) error {
		return c.String(200, "")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			apiKey, err := shared.ExtractAPIKey(c)
			if err != nil {
				return c.String(401, "Missing or invalid API key")
			}

			if apiKey != *metricsAPIKey {
				return c.String(401, "Unauthorized API key")
			}
			return next(c)
		}
	})
	base := e.Group("")
	base.Use(emw.CORS())
	base.Use(middleware.NewRecoverMiddleware(log))
	base.Use(middleware.NewTrackMiddleware(log))

	// Register routes
	err = routers.RegisterBriefRoutes(base, brief.Config{
		GeminiAPIKey: *geminiAPIKey,
		GeminiHost:   *geminiHost,
		Model:        *model,
		MaxRetries:   *maxRetries,
		BaseDelay:    *retryBaseDelay,
	}, log)
	if err != nil {
		panic(err)
	}

	go func() {
		if err := e.Start(":80"); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server")
		}
	}()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	// Wait for interrupt signal to gracefully shut down the server with a timeout.
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shared.DefaultShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		e.Logger.Fatal(err)
	}
}
