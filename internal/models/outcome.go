package models

// Channel identifies one side-effecting destination for a submission.
type Channel string

// Dispatch channels, in the order the dispatcher runs them.
const (
	ChannelQueue     Channel = "queue"
	ChannelStore     Channel = "store"
	ChannelCustomer  Channel = "customer_email"
	ChannelOwner     Channel = "owner_email"
	ChannelBusiness  Channel = "business_email"
	ChannelBroadcast Channel = "broadcast"
)

// Outcome status values.
const (
	OutcomeSkipped   = "skipped"
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)

// Outcome captures the per-channel result of one dispatch: skipped (channel
// not configured), succeeded with a collaborator-assigned reference, or
// failed with the collaborator's error.
type Outcome struct {
	Channel   Channel
	Status    string
	Reference string
	Err       error
}

// Skipped reports whether the channel was not configured for this dispatch.
func (o Outcome) Skipped() bool { return o.Status == OutcomeSkipped }

// Succeeded reports whether the channel call completed and returned a
// reference.
func (o Outcome) Succeeded() bool { return o.Status == OutcomeSucceeded }

// Failed reports whether the channel call returned an error.
func (o Outcome) Failed() bool { return o.Status == OutcomeFailed }
