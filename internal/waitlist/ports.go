package waitlist

import (
	"context"
)

// Repository stores subscribers. Email comparisons are case-insensitive and
// Create must fail with ErrDuplicateEmail when the uniqueness constraint
// rejects the row.
type Repository interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, s *Subscriber) error
}
