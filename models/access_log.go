package models

import (
	"net/http"
	"time"
)

// AccessLogEntry is one recorded inbound request.
type AccessLogEntry struct {
	ID            int64     `json:"id" db:"id"`
	IPAddress     string    `json:"ip_address" db:"ip_address"`
	UserAgent     *string   `json:"user_agent,omitempty" db:"user_agent"`
	RequestURI    string    `json:"request_uri" db:"request_uri"`
	HTTPReferer   *string   `json:"http_referer,omitempty" db:"http_referer"`
	RequestMethod string    `json:"request_method" db:"request_method"`
	StatusCode    *int      `json:"status_code,omitempty" db:"status_code"`
	ResponseSize  *int      `json:"response_size,omitempty" db:"response_size"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// AccessRequest is the read-only view of a request handed to the access recorder.
// Every string in it is client supplied and unsanitized.
type AccessRequest struct {
	Header       http.Header
	RemoteAddr   string
	Method       string
	RequestURI   string
	StatusCode   *int
	ResponseSize *int
}

// DailyStats aggregates access_logs rows for one calendar date.
type DailyStats struct {
	Date           string `json:"date"`
	TotalVisits    int    `json:"total_visits"`
	UniqueVisitors int    `json:"unique_visitors"`
}
