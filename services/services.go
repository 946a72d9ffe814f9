package services

import (
	"time"

	"github.com/blogem/site-intake/csrf"
	"github.com/blogem/site-intake/diaglog"
	"github.com/blogem/site-intake/metrics"
	"github.com/blogem/site-intake/repositories"
)

// Services holds all service instances
type Services struct {
	Access     AccessService
	Submission SubmissionService
}

// StatsOptions shape the daily visit aggregation.
type StatsOptions struct {
	DefaultDays int
	Location    *time.Location
}

// NewServices creates and initializes all service instances. A nil
// repos.AccessLog disables access recording.
func NewServices(repos *repositories.Repositories, tokens csrf.Store, diag *diaglog.Logger, m *metrics.Metrics, stats StatsOptions) *Services {
	return &Services{
		Access:     NewAccessService(repos.AccessLog, diag, m, stats.DefaultDays, stats.Location),
		Submission: NewSubmissionService(tokens, repos.Submission, diag, m),
	}
}
