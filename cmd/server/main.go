package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/example/inquiry-intake/internal/config"
	"github.com/example/inquiry-intake/internal/email"
	"github.com/example/inquiry-intake/internal/factory"
	"github.com/example/inquiry-intake/internal/intake"
	"github.com/example/inquiry-intake/internal/logger"
	"github.com/example/inquiry-intake/internal/models"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fail("config load", err)
	}

	baseLogger, err := logger.New(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		fail("logger init", err)
	}
	log := baseLogger.With().Str("service", "inquiry-intake").Logger()

	channels, err := factory.Channels(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise dispatch channels")
	}

	mode, err := intake.ParseFailureMode(cfg.Intake.FailureMode)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid failure mode")
	}

	dispatcher, err := intake.NewDispatcher(
		channels,
		email.NewBuilder(cfg.Intake.BrandName),
		log.With().Str("component", "dispatcher").Logger(),
		intake.WithFailureMode(mode),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise dispatcher")
	}

	handler, err := intake.NewHandler(dispatcher, log.With().Str("component", "handler").Logger())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise handler")
	}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	r.Post("/submissions", submitHandler(handler, log))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	log.Info().Int("port", cfg.Server.Port).Msg("intake server started")

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown failed")
		}
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server terminated with error")
		}
	}
}

// maxRequestBody caps how much of a submission body is buffered. Inquiry
// payloads are a handful of short strings, so 1 MiB is already generous.
const maxRequestBody = 1 << 20

// submitHandler adapts the HTTP request onto the transport-neutral envelope
// the pipeline consumes.
func submitHandler(handler *intake.Handler, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
		if err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				log.Warn().Int64("limit", maxBytesErr.Limit).Msg("request body too large")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				_, _ = w.Write([]byte(`{"error":"request body too large"}`))
				return
			}
			log.Warn().Err(err).Msg("failed to read request body")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"request body could not be read"}`))
			return
		}

		resp := handler.Handle(r.Context(), models.RequestEnvelope{Body: string(body)})

		w.Header().Set("Content-Type", resp.ContentType)
		w.WriteHeader(resp.StatusCode)
		_, _ = w.Write([]byte(resp.Body))
	}
}

func fail(stage string, err error) {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()
	log.Fatal().Err(err).Str("stage", stage).Msg("intake server init failed")
}
