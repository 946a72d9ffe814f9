package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/blogem/site-intake/csrf"
	"github.com/blogem/site-intake/diaglog"
	"github.com/blogem/site-intake/metrics"
	"github.com/blogem/site-intake/models"
	"github.com/blogem/site-intake/repositories"
)

// Intake states. Each request walks them in order and stops at the first
// failure with a terminal result.
type intakeStep string

const (
	stepAwaitingMethod   intakeStep = "awaiting_method"
	stepValidatingToken  intakeStep = "validating_token"
	stepValidatingFields intakeStep = "validating_fields"
	stepPersisting       intakeStep = "persisting"
	stepResponded        intakeStep = "responded"
)

// Messages shown to visitors.
const (
	MsgInvalidMethod   = "Invalid request method."
	MsgInvalidToken    = "Invalid security token. Please refresh the page and try again."
	MsgMissingFields   = "Please fill in all required fields: "
	MsgInvalidEmail    = "Please enter a valid email address."
	MsgSubmissionError = "Submission failed. Please try again later."
	MsgThankYou        = "Thank you for reaching out! Your message is on its way to our team. We're excited to connect with you and will be in touch shortly. Have a wonderful day!"
)

const unknownUserAgent = "Unknown"

// SubmissionService validates and stores contact form messages
type SubmissionService interface {
	HandleSubmission(ctx context.Context, req *models.SubmissionRequest) models.Result
	IssueToken(ctx context.Context, sessionID string) (string, error)
}

type submissionService struct {
	tokens   csrf.Store
	repo     repositories.SubmissionRepository
	diag     *diaglog.Logger
	metrics  *metrics.Metrics
	validate *validator.Validate
	now      func() time.Time
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(tokens csrf.Store, repo repositories.SubmissionRepository, diag *diaglog.Logger, m *metrics.Metrics) SubmissionService {
	return &submissionService{
		tokens:   tokens,
		repo:     repo,
		diag:     diag,
		metrics:  m,
		validate: validator.New(),
		now:      time.Now,
	}
}

func (s *submissionService) IssueToken(ctx context.Context, sessionID string) (string, error) {
	return s.tokens.Issue(ctx, sessionID)
}

func (s *submissionService) HandleSubmission(ctx context.Context, req *models.SubmissionRequest) models.Result {
	if !req.IsPost() {
		return s.finish(stepAwaitingMethod, models.Failed(http.StatusMethodNotAllowed, MsgInvalidMethod),
			"Invalid request method", map[string]string{"method": req.Method})
	}

	// The live token is destroyed by Consume whatever the outcome.
	presented := req.Form.Get("csrf_token")
	if !s.tokens.Consume(ctx, req.SessionID, presented) {
		return s.finish(stepValidatingToken, models.Failed(http.StatusForbidden, MsgInvalidToken),
			"CSRF token validation failed", map[string]any{
				"session_present": req.SessionID != "",
				"token_present":   presented != "",
				"ip":              req.ClientIP,
			})
	}

	form, missing := models.ParseContactForm(req.Form)
	if missing.HasErrors() {
		return s.finish(stepValidatingFields, models.Failed(http.StatusBadRequest, MsgMissingFields+missing.Fields()),
			"Missing required fields", missing.Fields())
	}

	submission := &models.Submission{
		Name:        strings.TrimSpace(html.EscapeString(form.Name)),
		Email:       SanitizeEmail(form.Email),
		Message:     strings.TrimSpace(html.EscapeString(form.Message)),
		SubmittedAt: s.now().UTC(),
		IPAddress:   req.ClientIP,
		UserAgent:   req.UserAgent,
	}
	if submission.UserAgent == "" {
		submission.UserAgent = unknownUserAgent
	}

	if err := s.validate.Var(submission.Email, "required,email"); err != nil {
		return s.finish(stepValidatingFields, models.Failed(http.StatusBadRequest, MsgInvalidEmail),
			"Invalid email format", submission.Email)
	}

	if err := s.repo.Create(ctx, submission); err != nil {
		event := "Insert failed"
		if errors.Is(err, repositories.ErrNoConnection) {
			event = "Database connection failed"
		}
		return s.finish(stepPersisting, models.Failed(http.StatusInternalServerError, MsgSubmissionError),
			event, err.Error())
	}

	return s.finish(stepResponded, models.Succeeded(MsgThankYou),
		"Submission successful", map[string]any{"id": submission.ID, "email": submission.Email})
}

// finish writes the diagnostic line for a terminal step and counts the outcome
func (s *submissionService) finish(step intakeStep, result models.Result, event string, data any) models.Result {
	s.diag.Log(fmt.Sprintf("[%s] %s", step, event), data)
	s.metrics.ObserveSubmission(strconv.Itoa(result.StatusCode))
	return result
}

// SanitizeEmail drops every character that cannot appear in an address:
// anything but ASCII letters, digits and !#$%&'*+-=?^_`{|}~@.[]
func SanitizeEmail(email string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case strings.ContainsRune("!#$%&'*+-=?^_`{|}~@.[]", r):
			return r
		}
		return -1
	}, email)
}
