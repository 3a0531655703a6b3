package intake

import (
	"github.com/example/inquiry-intake/internal/models"
)

// SubmissionResponse is the success body returned to the caller. Each channel
// reference is present as a key and null when the channel was skipped or, in
// report mode, failed. The store write is deliberately not surfaced.
type SubmissionResponse struct {
	Message            string            `json:"message"`
	SubmissionID       string            `json:"submission_id"`
	CustomerMessageID  *string           `json:"customer_message_id"`
	OwnerMessageID     *string           `json:"owner_message_id"`
	BusinessMessageID  *string           `json:"business_message_id"`
	QueueMessageID     *string           `json:"queue_message_id"`
	BroadcastMessageID *string           `json:"broadcast_message_id"`
	ChannelErrors      map[string]string `json:"channel_errors,omitempty"`
}

// ErrorResponse is the body returned on any failure path.
type ErrorResponse struct {
	Error string `json:"error"`
}

const successMessage = "Form submitted successfully"

// AggregateOutcomes composes the per-channel outcomes into the final success
// response for the submission.
func AggregateOutcomes(sub models.Submission, outcomes []models.Outcome) SubmissionResponse {
	resp := SubmissionResponse{
		Message:      successMessage,
		SubmissionID: sub.SubmissionID,
	}

	for _, o := range outcomes {
		if o.Failed() && o.Err != nil {
			if resp.ChannelErrors == nil {
				resp.ChannelErrors = make(map[string]string)
			}
			resp.ChannelErrors[string(o.Channel)] = o.Err.Error()
			continue
		}
		if !o.Succeeded() {
			continue
		}

		ref := o.Reference
		switch o.Channel {
		case models.ChannelQueue:
			resp.QueueMessageID = &ref
		case models.ChannelCustomer:
			resp.CustomerMessageID = &ref
		case models.ChannelOwner:
			resp.OwnerMessageID = &ref
		case models.ChannelBusiness:
			resp.BusinessMessageID = &ref
		case models.ChannelBroadcast:
			resp.BroadcastMessageID = &ref
		}
	}

	return resp
}
