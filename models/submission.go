package models

import (
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Submission is one accepted contact-form message. Name and Message are stored
// HTML-escaped.
type Submission struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Email       string    `json:"email" db:"email"`
	Message     string    `json:"message" db:"message"`
	SubmittedAt time.Time `json:"submitted_at" db:"submitted_at"`
	IPAddress   string    `json:"ip_address" db:"ip_address"`
	UserAgent   string    `json:"user_agent" db:"user_agent"`
}

// SubmissionRequest carries what the intake needs from one HTTP request.
type SubmissionRequest struct {
	Method    string
	SessionID string
	Form      url.Values
	ClientIP  string
	UserAgent string
}

// ContactForm is the field set of the contact form after trimming.
type ContactForm struct {
	Name    string
	Email   string
	Message string
}

// RequiredContactFields lists the mandatory fields in the order they are reported.
var RequiredContactFields = []string{"name", "email", "message"}

// IsPost reports whether the request used the only accepted method.
func (r *SubmissionRequest) IsPost() bool {
	return r.Method == http.MethodPost
}

// ParseContactForm trims every required field and reports the ones left blank,
// in RequiredContactFields order.
func ParseContactForm(form url.Values) (ContactForm, ValidationErrors) {
	values := make(map[string]string, len(RequiredContactFields))
	var missing ValidationErrors
	for _, field := range RequiredContactFields {
		v := strings.TrimSpace(form.Get(field))
		if v == "" {
			missing = append(missing, ValidationError{Field: field, Message: field + " is required"})
		}
		values[field] = v
	}

	return ContactForm{
		Name:    values["name"],
		Email:   values["email"],
		Message: values["message"],
	}, missing
}
