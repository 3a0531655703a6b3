package intake

import (
	"encoding/base64"
	"encoding/json"

	"github.com/example/inquiry-intake/internal/models"
)

// DecodePayload turns a raw request envelope into the parsed form payload.
// Decoding is pure: the same envelope always yields the same payload and no
// side effects occur. All failures are *BadRequestError values describing the
// specific cause.
func DecodePayload(env models.RequestEnvelope) (map[string]any, error) {
	body := env.Body

	if env.IsBase64Encoded {
		raw, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return nil, badRequestf("request body must be valid base64: %v", err)
		}
		body = string(raw)
	}

	if body == "" {
		return nil, badRequestf("request body is required")
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return nil, badRequestf("request body must be valid JSON")
	}

	return payload, nil
}
