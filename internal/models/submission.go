package models

import "time"

// Submission is the canonical record produced once per accepted request. It
// is immutable after construction and every downstream channel receives the
// same value; SubmissionID is the join key across all side effects.
type Submission struct {
	SubmissionID string    `json:"submission_id" dynamodbav:"submission_id"`
	Name         string    `json:"name" dynamodbav:"name"`
	Email        string    `json:"email" dynamodbav:"email"`
	Phone        string    `json:"phone" dynamodbav:"phone"`
	InquiryType  string    `json:"inquiry_type" dynamodbav:"inquiry_type"`
	Message      string    `json:"message" dynamodbav:"message"`
	CreatedAt    time.Time `json:"created_at" dynamodbav:"created_at"`
}

// RequiredFields lists the payload fields a submission must carry, in
// declaration order. Validation errors enumerate missing fields in this
// order.
var RequiredFields = []string{"name", "email", "phone", "inquiry_type", "message"}
