package controllers

import (
	"net/http"

	"gitea.com/go-chi/session"

	"github.com/blogem/site-intake/diaglog"
	"github.com/blogem/site-intake/services"
)

// SessionIDFunc returns the ID of the session a request belongs to, or "".
type SessionIDFunc func(r *http.Request) string

// SessionID reads the ID from the session middleware.
func SessionID(r *http.Request) string {
	sess := session.GetSession(r)
	if sess == nil {
		return ""
	}
	return sess.ID()
}

// maxStatsDays bounds the stats window a caller may request.
const maxStatsDays = 366

// Controllers holds all controller instances
type Controllers struct {
	Contact *ContactController
	Stats   *StatsController
}

// NewControllers creates and initializes all controller instances
func NewControllers(services *services.Services, sessionID SessionIDFunc, statsDefaultDays int, diag *diaglog.Logger) *Controllers {
	return &Controllers{
		Contact: NewContactController(services, sessionID, diag),
		Stats:   NewStatsController(services, statsDefaultDays, maxStatsDays),
	}
}
