package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/inquiry-intake/internal/broadcast"
	"github.com/example/inquiry-intake/internal/email"
	"github.com/example/inquiry-intake/internal/intake"
	"github.com/example/inquiry-intake/internal/models"
	"github.com/example/inquiry-intake/internal/queue"
	"github.com/example/inquiry-intake/internal/store"
)

// Runs the full submission pipeline against mock channels, end to end, and
// prints the aggregated response. Useful as a wiring check without any AWS
// or Kafka infrastructure.
func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()

	mockQueue := queue.NewMockQueue()
	mockStore := store.NewMockStore()
	mockEmail := email.NewMockSender(logger)
	mockBus := broadcast.NewMockPublisher()

	channels := intake.Channels{
		Queue:           mockQueue,
		Store:           mockStore,
		Email:           mockEmail,
		Broadcast:       mockBus,
		OwnerAddress:    "owner@example.com",
		BusinessAddress: "business@example.com",
	}

	dispatcher, err := intake.NewDispatcher(channels, email.NewBuilder("TravelEase"), logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialise dispatcher")
	}

	handler, err := intake.NewHandler(dispatcher, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialise handler")
	}

	payload, err := json.Marshal(map[string]string{
		"name":         "Smoke Test",
		"email":        "smoke@example.com",
		"phone":        "+15550100",
		"inquiry_type": "Tour",
		"message":      "Checking pipeline wiring.",
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to marshal payload")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp := handler.Handle(ctx, models.RequestEnvelope{Body: string(payload)})
	if resp.StatusCode != 200 {
		logger.Fatal().Int("status", resp.StatusCode).Str("body", resp.Body).Msg("pipeline returned unexpected status")
	}

	logger.Info().
		Int("status", resp.StatusCode).
		Int("enqueued", mockQueue.CallCount()).
		Int("stored", mockStore.CallCount()).
		Int("emails", mockEmail.CallCount()).
		Int("broadcasts", mockBus.CallCount()).
		RawJSON("response", []byte(resp.Body)).
		Msg("pipeline working as expected")
}
