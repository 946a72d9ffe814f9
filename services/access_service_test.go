package services

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/blogem/site-intake/clientctx"
	"github.com/blogem/site-intake/diaglog"
	"github.com/blogem/site-intake/metrics"
	"github.com/blogem/site-intake/models"
	"github.com/blogem/site-intake/repositories/mocks"
)

// AccessServiceTestSuite is a test suite for the access recorder
type AccessServiceTestSuite struct {
	suite.Suite
	service  AccessService
	mockRepo *mocks.MockAccessLogRepository
	metrics  *metrics.Metrics
	diagBuf  *bytes.Buffer
}

// SetupTest sets up the test suite before each test
func (suite *AccessServiceTestSuite) SetupTest() {
	suite.mockRepo = mocks.NewMockAccessLogRepository(suite.T())
	suite.metrics = metrics.New()
	suite.diagBuf = &bytes.Buffer{}
	suite.service = NewAccessService(suite.mockRepo, diaglog.NewWriter(suite.diagBuf), suite.metrics, 30, nil)
}

func intP(i int) *int { return &i }

// TestRecordAccess_Success tests that every field reaches the repository
func (suite *AccessServiceTestSuite) TestRecordAccess_Success() {
	req := &models.AccessRequest{
		Header: http.Header{
			"X-Forwarded-For": {"1.2.3.4, 5.6.7.8"},
			"User-Agent":      {"Mozilla/5.0"},
			"Referer":         {"https://example.com/"},
		},
		RemoteAddr:   "10.0.0.1:1234",
		Method:       http.MethodGet,
		RequestURI:   "/blog?page=2",
		StatusCode:   intP(200),
		ResponseSize: intP(1024),
	}

	suite.mockRepo.EXPECT().Create(mock.Anything, mock.MatchedBy(func(e *models.AccessLogEntry) bool {
		return e.IPAddress == "1.2.3.4" &&
			e.UserAgent != nil && *e.UserAgent == "Mozilla/5.0" &&
			e.HTTPReferer != nil && *e.HTTPReferer == "https://example.com/" &&
			e.RequestMethod == "GET" &&
			e.RequestURI == "/blog?page=2" &&
			*e.StatusCode == 200 && *e.ResponseSize == 1024
	})).Return(nil).Once()

	assert.True(suite.T(), suite.service.RecordAccess(context.Background(), req))
	assert.Equal(suite.T(), 1.0, testutil.ToFloat64(suite.metrics.AccessRecords.WithLabelValues(metrics.AccessRecorded)))
}

// TestRecordAccess_OptionalHeadersAbsent tests nil optional fields and the sentinel identity
func (suite *AccessServiceTestSuite) TestRecordAccess_OptionalHeadersAbsent() {
	req := &models.AccessRequest{Header: http.Header{}, Method: http.MethodGet, RequestURI: "/"}

	suite.mockRepo.EXPECT().Create(mock.Anything, mock.MatchedBy(func(e *models.AccessLogEntry) bool {
		return e.IPAddress == clientctx.Unspecified && e.UserAgent == nil && e.HTTPReferer == nil
	})).Return(nil).Once()

	assert.True(suite.T(), suite.service.RecordAccess(context.Background(), req))
}

// TestRecordAccess_Failure tests that persistence errors become false
func (suite *AccessServiceTestSuite) TestRecordAccess_Failure() {
	suite.mockRepo.EXPECT().Create(mock.Anything, mock.Anything).Return(errors.New("database is locked")).Once()

	req := &models.AccessRequest{Header: http.Header{}, RemoteAddr: "10.0.0.1:1", Method: http.MethodGet, RequestURI: "/"}
	assert.False(suite.T(), suite.service.RecordAccess(context.Background(), req))
	assert.Contains(suite.T(), suite.diagBuf.String(), "database is locked")
	assert.Equal(suite.T(), 1.0, testutil.ToFloat64(suite.metrics.AccessRecords.WithLabelValues(metrics.AccessFailed)))
}

// TestRecordAccess_Truncates tests clipping to column widths
func (suite *AccessServiceTestSuite) TestRecordAccess_Truncates() {
	req := &models.AccessRequest{
		Header:     http.Header{"User-Agent": {strings.Repeat("é", 200)}},
		Method:     "propfind-extended",
		RequestURI: "/" + strings.Repeat("a", 600),
	}

	suite.mockRepo.EXPECT().Create(mock.Anything, mock.MatchedBy(func(e *models.AccessLogEntry) bool {
		return len(*e.UserAgent) <= maxUserAgentLen &&
			len(e.RequestURI) == maxURILength &&
			e.RequestMethod == "PROPFIND-E"
	})).Return(nil).Once()

	assert.True(suite.T(), suite.service.RecordAccess(context.Background(), req))
}

// TestGetStats tests the aggregation pass-through and window default
func (suite *AccessServiceTestSuite) TestGetStats() {
	want := []models.DailyStats{
		{Date: "2026-10-18", TotalVisits: 3, UniqueVisitors: 2},
		{Date: "2026-10-17", TotalVisits: 1, UniqueVisitors: 1},
	}
	suite.mockRepo.EXPECT().DailyStats(mock.Anything, 30, time.UTC).Return(want, nil).Once()
	suite.mockRepo.EXPECT().DailyStats(mock.Anything, 7, time.UTC).Return(nil, nil).Once()

	assert.Equal(suite.T(), want, suite.service.GetStats(context.Background(), 0))

	got := suite.service.GetStats(context.Background(), 7)
	assert.NotNil(suite.T(), got)
	assert.Empty(suite.T(), got)
}

// TestGetStats_Failure tests that errors produce an empty result
func (suite *AccessServiceTestSuite) TestGetStats_Failure() {
	suite.mockRepo.EXPECT().DailyStats(mock.Anything, 30, time.UTC).Return(nil, errors.New("boom")).Once()

	got := suite.service.GetStats(context.Background(), 30)
	assert.NotNil(suite.T(), got)
	assert.Empty(suite.T(), got)
}

// TestGetStats_Location tests that the configured zone reaches the query
func (suite *AccessServiceTestSuite) TestGetStats_Location() {
	sgt := time.FixedZone("SGT", 8*3600)
	service := NewAccessService(suite.mockRepo, diaglog.Discard(), suite.metrics, 30, sgt)
	suite.mockRepo.EXPECT().DailyStats(mock.Anything, 30, sgt).Return(nil, nil).Once()

	assert.Empty(suite.T(), service.GetStats(context.Background(), 30))
}

// TestAccessServiceTestSuite runs the test suite
func TestAccessServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccessServiceTestSuite))
}

func TestAccessService_Disabled(t *testing.T) {
	m := metrics.New()
	service := NewAccessService(nil, diaglog.Discard(), m, 0, nil)

	assert.False(t, service.Enabled())
	assert.False(t, service.RecordAccess(context.Background(), &models.AccessRequest{Header: http.Header{}}))
	assert.Empty(t, service.GetStats(context.Background(), 30))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AccessRecords.WithLabelValues(metrics.AccessDisabled)))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
	// "é" is two bytes; never split it
	assert.Equal(t, "a", truncate("aé", 2))
}
