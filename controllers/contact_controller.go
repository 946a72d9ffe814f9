package controllers

import (
	"net/http"

	"github.com/blogem/site-intake/clientctx"
	"github.com/blogem/site-intake/diaglog"
	"github.com/blogem/site-intake/models"
	"github.com/blogem/site-intake/response"
	"github.com/blogem/site-intake/services"
)

// maxFormBytes caps the contact form body.
const maxFormBytes = 64 << 10

const msgTokenUnavailable = "Could not prepare the form. Please refresh the page and try again."

// ContactController handles the contact form endpoints
type ContactController struct {
	services  *services.Services
	sessionID SessionIDFunc
	diag      *diaglog.Logger
}

// NewContactController creates a new contact controller
func NewContactController(services *services.Services, sessionID SessionIDFunc, diag *diaglog.Logger) *ContactController {
	return &ContactController{
		services:  services,
		sessionID: sessionID,
		diag:      diag,
	}
}

// Submit handles /contact. Only POST is accepted; every other method gets 405.
func (c *ContactController) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	// A body that does not parse leaves PostForm empty, which fails the token check.
	if err := r.ParseForm(); err != nil {
		c.diag.Log("[parsing_form] Form parse failed", map[string]string{
			"ip":    clientIP(r),
			"error": err.Error(),
		})
	}

	result := c.services.Submission.HandleSubmission(r.Context(), &models.SubmissionRequest{
		Method:    r.Method,
		SessionID: c.sessionID(r),
		Form:      r.PostForm,
		ClientIP:  clientIP(r),
		UserAgent: r.UserAgent(),
	})

	response.Send(w, result)
}

// Token handles GET /contact/token, minting the token the form must echo back
func (c *ContactController) Token(w http.ResponseWriter, r *http.Request) {
	token, err := c.services.Submission.IssueToken(r.Context(), c.sessionID(r))
	if err != nil {
		response.Send(w, models.Failed(http.StatusInternalServerError, msgTokenUnavailable))
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	response.JSON(w, http.StatusOK, map[string]string{"csrf_token": token})
}

// clientIP prefers the identity set by the access middleware
func clientIP(r *http.Request) string {
	if ip := clientctx.GetClientIP(r.Context()); ip != clientctx.Unspecified {
		return ip
	}
	return clientctx.FromRequest(r)
}
