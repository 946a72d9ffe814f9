package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/blogem/site-intake/clientctx"
	"github.com/blogem/site-intake/diaglog"
	"github.com/blogem/site-intake/metrics"
	"github.com/blogem/site-intake/models"
	"github.com/blogem/site-intake/repositories"
)

// Column widths of access_logs.
const (
	maxIPLength      = 45
	maxUserAgentLen  = 255
	maxURILength     = 512
	maxMethodLength  = 10
	defaultStatsDays = 30
)

// AccessService records page requests and reports daily visit counts
type AccessService interface {
	// RecordAccess writes one access log row. It reports false on any failure
	// and never lets the failure reach page delivery.
	RecordAccess(ctx context.Context, req *models.AccessRequest) bool
	// GetStats returns per-date totals for the last days days, newest first,
	// or an empty slice when the store cannot answer. Dates are calendar
	// dates in the stats location.
	GetStats(ctx context.Context, days int) []models.DailyStats
	Enabled() bool
}

type accessService struct {
	repo        repositories.AccessLogRepository
	diag        *diaglog.Logger
	metrics     *metrics.Metrics
	defaultDays int
	location    *time.Location
}

// NewAccessService creates the access recorder. A nil repo yields a disabled
// recorder, used when the store was not reachable at startup. A nil loc
// groups stats by UTC date.
func NewAccessService(repo repositories.AccessLogRepository, diag *diaglog.Logger, m *metrics.Metrics, defaultDays int, loc *time.Location) AccessService {
	if defaultDays <= 0 {
		defaultDays = defaultStatsDays
	}
	if loc == nil {
		loc = time.UTC
	}
	return &accessService{
		repo:        repo,
		diag:        diag,
		metrics:     m,
		defaultDays: defaultDays,
		location:    loc,
	}
}

func (s *accessService) Enabled() bool {
	return s.repo != nil
}

func (s *accessService) RecordAccess(ctx context.Context, req *models.AccessRequest) bool {
	if s.repo == nil {
		s.metrics.ObserveAccess(metrics.AccessDisabled)
		return false
	}

	entry := buildAccessEntry(req)
	if err := s.repo.Create(ctx, entry); err != nil {
		s.diag.Log("Error logging access", map[string]string{
			"ip":    entry.IPAddress,
			"uri":   entry.RequestURI,
			"error": err.Error(),
		})
		s.metrics.ObserveAccess(metrics.AccessFailed)
		return false
	}

	s.metrics.ObserveAccess(metrics.AccessRecorded)
	return true
}

func (s *accessService) GetStats(ctx context.Context, days int) []models.DailyStats {
	if days <= 0 {
		days = s.defaultDays
	}
	if s.repo == nil {
		return []models.DailyStats{}
	}

	stats, err := s.repo.DailyStats(ctx, days, s.location)
	if err != nil {
		s.diag.Log("Error getting access stats", err.Error())
		return []models.DailyStats{}
	}
	if stats == nil {
		return []models.DailyStats{}
	}
	return stats
}

// buildAccessEntry maps a request onto a row, clipping every field to its column
func buildAccessEntry(req *models.AccessRequest) *models.AccessLogEntry {
	uri := req.RequestURI
	if uri == "" {
		uri = "/"
	}
	method := strings.ToUpper(req.Method)
	if method == "" {
		method = "GET"
	}

	return &models.AccessLogEntry{
		IPAddress:     truncate(clientctx.Resolve(req.Header, req.RemoteAddr), maxIPLength),
		UserAgent:     optionalHeader(req.Header.Get("User-Agent"), maxUserAgentLen),
		RequestURI:    truncate(uri, maxURILength),
		HTTPReferer:   optionalHeader(req.Header.Get("Referer"), maxURILength),
		RequestMethod: truncate(method, maxMethodLength),
		StatusCode:    req.StatusCode,
		ResponseSize:  req.ResponseSize,
	}
}

func optionalHeader(v string, max int) *string {
	if v == "" {
		return nil
	}
	v = truncate(v, max)
	return &v
}

// truncate clips s to at most max bytes without splitting a UTF-8 sequence
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	s = s[:max]
	for len(s) > 0 && !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}
