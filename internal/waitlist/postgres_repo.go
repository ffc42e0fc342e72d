package waitlist

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// emailConstraint is the unique constraint on waitlist_subscribers.email.
const emailConstraint = "waitlist_subscribers_email_key"

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

// NewPostgresRepo returns a repository backed by db. A zero timeout leaves
// query deadlines to the caller's context.
func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	// email is citext, so = compares case-insensitively.
	const query = `SELECT EXISTS (SELECT 1 FROM waitlist_subscribers WHERE email = $1)`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var exists bool
	if err := r.db.QueryRow(timeoutCtx, query, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresRepo) Create(ctx context.Context, s *Subscriber) error {
	const query = `
	INSERT INTO waitlist_subscribers (id, name, email)
	VALUES ($1, $2, $3)
	RETURNING created_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := r.db.QueryRow(timeoutCtx, query, s.ID, s.Name, s.Email).Scan(&s.CreatedAt)
	if err != nil {
		if isEmailConflict(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// Count returns the number of stored subscribers.
func (r *PostgresRepo) Count(ctx context.Context) (int, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var count int
	err := r.db.QueryRow(timeoutCtx, `SELECT COUNT(*) FROM waitlist_subscribers`).Scan(&count)
	return count, err
}

func isEmailConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgerrcode.UniqueViolation && pgErr.ConstraintName == emailConstraint
}
