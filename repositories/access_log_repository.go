package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/blogem/site-intake/database"
	"github.com/blogem/site-intake/models"
)

// AccessLogRepository handles access log persistence
type AccessLogRepository interface {
	Create(ctx context.Context, entry *models.AccessLogEntry) error
	DailyStats(ctx context.Context, days int, loc *time.Location) ([]models.DailyStats, error)
}

type sqliteAccessLogRepository struct {
	conns database.ConnProvider
}

// NewAccessLogRepository creates a new access log repository
func NewAccessLogRepository(conns database.ConnProvider) AccessLogRepository {
	return &sqliteAccessLogRepository{conns: conns}
}

// Create inserts a new access log entry; created_at is left to the column default
func (r *sqliteAccessLogRepository) Create(ctx context.Context, entry *models.AccessLogEntry) error {
	conn, err := acquire(ctx, r.conns)
	if err != nil {
		return err
	}
	defer conn.Close()

	query := `
		INSERT INTO access_logs (ip_address, user_agent, request_uri, http_referer, request_method, status_code, response_size)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := conn.ExecContext(ctx, query,
		entry.IPAddress,
		entry.UserAgent,
		entry.RequestURI,
		entry.HTTPReferer,
		entry.RequestMethod,
		entry.StatusCode,
		entry.ResponseSize,
	)
	if err != nil {
		return fmt.Errorf("insert access log: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get access log id: %w", err)
	}
	entry.ID = id

	return nil
}

// DailyStats returns visits and distinct client identities per calendar date in
// loc over the last days days, most recent date first. A nil loc means UTC.
func (r *sqliteAccessLogRepository) DailyStats(ctx context.Context, days int, loc *time.Location) ([]models.DailyStats, error) {
	conn, err := acquire(ctx, r.conns)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	query := `
		SELECT date(created_at, ?) AS day,
		       COUNT(*) AS total_visits,
		       COUNT(DISTINCT ip_address) AS unique_visitors
		FROM access_logs
		WHERE created_at >= datetime('now', ?)
		GROUP BY day
		ORDER BY day DESC
	`

	rows, err := conn.QueryContext(ctx, query, zoneModifier(loc), fmt.Sprintf("-%d days", days))
	if err != nil {
		return nil, fmt.Errorf("query access stats: %w", err)
	}
	defer rows.Close()

	stats := []models.DailyStats{}
	for rows.Next() {
		var s models.DailyStats
		if err := rows.Scan(&s.Date, &s.TotalVisits, &s.UniqueVisitors); err != nil {
			return nil, fmt.Errorf("scan access stats: %w", err)
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

// zoneModifier turns the current UTC offset of loc into a SQLite date modifier.
// created_at is stored in UTC.
func zoneModifier(loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	_, offset := time.Now().In(loc).Zone()
	return fmt.Sprintf("%+d minutes", offset/60)
}
