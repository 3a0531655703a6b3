package intake

import (
	"time"

	"github.com/google/uuid"

	"github.com/example/inquiry-intake/internal/models"
)

// BuilderOption customises the submission builder at construction time.
type BuilderOption func(*SubmissionBuilder)

// WithClock overrides the clock used for submission timestamps, useful for
// deterministic unit tests.
func WithClock(now func() time.Time) BuilderOption {
	return func(b *SubmissionBuilder) {
		if now != nil {
			b.now = now
		}
	}
}

// WithIDGenerator overrides the submission id generator.
func WithIDGenerator(newID func() string) BuilderOption {
	return func(b *SubmissionBuilder) {
		if newID != nil {
			b.newID = newID
		}
	}
}

// SubmissionBuilder validates decoded payloads and constructs canonical
// submission records. No format validation is applied to email or phone
// values; presence and non-emptiness is the whole contract.
type SubmissionBuilder struct {
	now   func() time.Time
	newID func() string
}

// NewSubmissionBuilder constructs a SubmissionBuilder using UUID v4 ids and
// the wall clock unless overridden.
func NewSubmissionBuilder(opts ...BuilderOption) *SubmissionBuilder {
	b := &SubmissionBuilder{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Build checks the required fields and returns the immutable submission. A
// field is missing when absent, not a string, or empty; the returned
// *MissingFieldsError enumerates every missing field in declaration order.
func (b *SubmissionBuilder) Build(payload map[string]any) (models.Submission, error) {
	values := make(map[string]string, len(models.RequiredFields))
	var missing []string

	for _, field := range models.RequiredFields {
		v, ok := payload[field].(string)
		if !ok || v == "" {
			missing = append(missing, field)
			continue
		}
		values[field] = v
	}

	if len(missing) > 0 {
		return models.Submission{}, &MissingFieldsError{Fields: missing}
	}

	return models.Submission{
		SubmissionID: b.newID(),
		Name:         values["name"],
		Email:        values["email"],
		Phone:        values["phone"],
		InquiryType:  values["inquiry_type"],
		Message:      values["message"],
		CreatedAt:    b.now().UTC(),
	}, nil
}
