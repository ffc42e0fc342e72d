package cases

import (
	"context"
)

// Repository defines read access to the case catalogue.
type Repository interface {
	List(ctx context.Context, q Query) ([]Case, error)
	GetByID(ctx context.Context, id string) (Case, error)
}
