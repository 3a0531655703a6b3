package email

import (
	"fmt"
	"strings"

	"github.com/example/inquiry-intake/internal/models"
)

const defaultBrand = "TravelEase"

// Builder renders the customer and owner notification messages for a
// submission. Both renderings enumerate the submitted fields in declaration
// order: name, email, phone, inquiry type, message. The HTML rendering
// additionally leads with the submission id.
type Builder struct {
	brand string
}

// NewBuilder constructs a Builder for the given brand name. An empty brand
// falls back to the default.
func NewBuilder(brand string) *Builder {
	brand = strings.TrimSpace(brand)
	if brand == "" {
		brand = defaultBrand
	}
	return &Builder{brand: brand}
}

// Brand returns the brand name used in subjects and headings.
func (b *Builder) Brand() string { return b.brand }

// Customer builds the "thank you" message sent to the submitter.
func (b *Builder) Customer(sub models.Submission) Message {
	subject := fmt.Sprintf("Thank you for your submission, %s", sub.Name)

	text := fmt.Sprintf(
		"Hello %s,\n\n"+
			"Thank you for contacting %s. We received your submission (ID: %s).\n"+
			"Here are the details:\n"+
			"- Name: %s\n"+
			"- Email: %s\n"+
			"- Phone: %s\n"+
			"- Inquiry Type: %s\n"+
			"- Message: %s\n",
		sub.Name, b.brand, sub.SubmissionID,
		sub.Name, sub.Email, sub.Phone, sub.InquiryType, sub.Message,
	)

	html := b.renderHTML(fmt.Sprintf("%s Submission Received", b.brand), sub)

	return Message{Subject: subject, Text: text, HTML: html}
}

// Owner builds the "new submission has arrived" message sent to the owner
// and, when configured, the business address.
func (b *Builder) Owner(sub models.Submission) Message {
	subject := fmt.Sprintf("New %s submission from %s", b.brand, sub.Name)

	text := fmt.Sprintf(
		"A new inquiry form submission has been received.\n\n"+
			"Submission ID: %s\n"+
			"Name: %s\n"+
			"Email: %s\n"+
			"Phone: %s\n"+
			"Inquiry Type: %s\n"+
			"Message: %s\n",
		sub.SubmissionID,
		sub.Name, sub.Email, sub.Phone, sub.InquiryType, sub.Message,
	)

	html := b.renderHTML(fmt.Sprintf("New %s Form Submission", b.brand), sub)

	return Message{Subject: subject, Text: text, HTML: html}
}

func (b *Builder) renderHTML(heading string, sub models.Submission) string {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	sb.WriteString(fmt.Sprintf("<h1>%s</h1>", heading))
	sb.WriteString(fmt.Sprintf("<p><strong>Submission ID:</strong> %s</p>", sub.SubmissionID))
	sb.WriteString("<ul>")
	sb.WriteString(fmt.Sprintf("<li><strong>Name:</strong> %s</li>", sub.Name))
	sb.WriteString(fmt.Sprintf("<li><strong>Email:</strong> %s</li>", sub.Email))
	sb.WriteString(fmt.Sprintf("<li><strong>Phone:</strong> %s</li>", sub.Phone))
	sb.WriteString(fmt.Sprintf("<li><strong>Inquiry Type:</strong> %s</li>", sub.InquiryType))
	sb.WriteString(fmt.Sprintf("<li><strong>Message:</strong> %s</li>", sub.Message))
	sb.WriteString("</ul></body></html>")
	return sb.String()
}
