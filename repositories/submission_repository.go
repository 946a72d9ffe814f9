package repositories

import (
	"context"
	"fmt"

	"github.com/blogem/site-intake/database"
	"github.com/blogem/site-intake/models"
)

// SubmissionRepository handles contact submission persistence
type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
}

type sqliteSubmissionRepository struct {
	conns database.ConnProvider
}

// NewSubmissionRepository creates a new submission repository
func NewSubmissionRepository(conns database.ConnProvider) SubmissionRepository {
	return &sqliteSubmissionRepository{conns: conns}
}

// Create inserts one submission row
func (r *sqliteSubmissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	conn, err := acquire(ctx, r.conns)
	if err != nil {
		return err
	}
	defer conn.Close()

	query := `
		INSERT INTO submissions (name, email, message, submitted_at, ip_address, user_agent)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := conn.ExecContext(ctx, query,
		submission.Name,
		submission.Email,
		submission.Message,
		models.FormatSQLTime(submission.SubmittedAt),
		submission.IPAddress,
		submission.UserAgent,
	)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get submission id: %w", err)
	}
	submission.ID = id

	return nil
}
