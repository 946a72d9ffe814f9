package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/blogem/site-intake/database"
)

// ErrNoConnection wraps every failure to obtain a store connection.
var ErrNoConnection = errors.New("no database connection")

// Repositories struct holds all repository interfaces
type Repositories struct {
	AccessLog  AccessLogRepository
	Submission SubmissionRepository
}

// NewRepositories creates and initializes all repositories
func NewRepositories(conns database.ConnProvider) *Repositories {
	return &Repositories{
		AccessLog:  NewAccessLogRepository(conns),
		Submission: NewSubmissionRepository(conns),
	}
}

// acquire opens a short-lived connection; the caller closes it
func acquire(ctx context.Context, conns database.ConnProvider) (*sql.Conn, error) {
	conn, err := conns.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoConnection, err)
	}
	return conn, nil
}
