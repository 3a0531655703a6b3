package intake

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"

	"github.com/rs/zerolog"

	"github.com/example/inquiry-intake/internal/models"
)

const jsonContentType = "application/json"

// HandlerOption customises the handler at construction time.
type HandlerOption func(*Handler)

// WithSubmissionBuilder overrides the submission builder, useful for
// deterministic ids and timestamps in tests.
func WithSubmissionBuilder(builder *SubmissionBuilder) HandlerOption {
	return func(h *Handler) {
		if builder != nil {
			h.builder = builder
		}
	}
}

// Handler runs the submission pipeline for one request envelope: decode,
// validate/build, dispatch, aggregate. It always answers with a JSON body
// and never exposes more than the failing error's message text.
type Handler struct {
	logger     zerolog.Logger
	builder    *SubmissionBuilder
	dispatcher *Dispatcher
}

// NewHandler constructs a Handler over the supplied dispatcher.
func NewHandler(dispatcher *Dispatcher, logger zerolog.Logger, opts ...HandlerOption) (*Handler, error) {
	if dispatcher == nil {
		return nil, errors.New("handler: dispatcher dependency is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}

	h := &Handler{
		logger:     logger,
		builder:    NewSubmissionBuilder(),
		dispatcher: dispatcher,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}

	return h, nil
}

// Handle processes one inbound envelope and returns the response envelope.
// Validation failures map to 400, everything else to 500; a success path
// aggregates the per-channel references into a 200 response.
func (h *Handler) Handle(ctx context.Context, env models.RequestEnvelope) models.ResponseEnvelope {
	payload, err := DecodePayload(env)
	if err != nil {
		h.logger.Warn().Err(err).Msg("request rejected: undecodable body")
		return h.respondError(err)
	}

	sub, err := h.builder.Build(payload)
	if err != nil {
		h.logger.Warn().Err(err).Msg("request rejected: validation failed")
		return h.respondError(err)
	}

	log := h.logger.With().Str("submission_id", sub.SubmissionID).Logger()
	log.Info().Str("inquiry_type", sub.InquiryType).Msg("submission accepted, dispatching")

	outcomes, err := h.dispatcher.Dispatch(ctx, sub)
	if err != nil {
		log.Error().Err(err).Msg("dispatch aborted")
		return h.respondError(err)
	}

	log.Info().Int("channels", len(outcomes)).Msg("dispatch complete")
	return h.respondJSON(http.StatusOK, AggregateOutcomes(sub, outcomes))
}

func (h *Handler) respondError(err error) models.ResponseEnvelope {
	status := http.StatusInternalServerError
	if IsBadRequest(err) {
		status = http.StatusBadRequest
	}
	return h.respondJSON(status, ErrorResponse{Error: err.Error()})
}

func (h *Handler) respondJSON(status int, body any) models.ResponseEnvelope {
	encoded, err := json.Marshal(body)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to encode response body")
		return models.ResponseEnvelope{
			StatusCode:  http.StatusInternalServerError,
			Body:        `{"error":"failed to encode response"}`,
			ContentType: jsonContentType,
		}
	}
	return models.ResponseEnvelope{
		StatusCode:  status,
		Body:        string(encoded),
		ContentType: jsonContentType,
	}
}
