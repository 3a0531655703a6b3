package email

import "context"

// Message is the canonical representation of one outbound notification. Both
// renderings are always populated: Text for plain-text capable clients and
// HTML for formatted ones.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

// Sender is the contract exposed by email provider implementations. Send
// delivers the message to a single recipient and returns the
// provider-assigned message reference.
type Sender interface {
	Send(ctx context.Context, to string, msg Message) (string, error)
}
