package models

// RequestEnvelope is the transport-neutral inbound boundary: a raw body that
// may be empty, plain text or base64 encoded. How the envelope arrived (HTTP,
// lambda-style event, smoke tool) is the caller's concern.
type RequestEnvelope struct {
	Body            string
	IsBase64Encoded bool
}

// ResponseEnvelope is the transport-neutral outbound boundary. Body is always
// a JSON document and ContentType is always application/json.
type ResponseEnvelope struct {
	StatusCode  int
	Body        string
	ContentType string
}
