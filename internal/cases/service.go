package cases

import (
	"context"
)

// Service provides the catalogue operations.
type Service struct {
	repo Repository
}

// NewService creates a new case service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns up to q.Limit cases matching q.Difficulty in catalogue order.
// A non-positive limit falls back to DefaultLimit.
func (s *Service) List(ctx context.Context, q Query) ([]Case, error) {
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Difficulty != "" && !q.Difficulty.Valid() {
		return nil, ErrInvalidDifficulty
	}
	return s.repo.List(ctx, q)
}

// Get returns the case with the given id or ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (Case, error) {
	return s.repo.GetByID(ctx, id)
}

// Answer grades chosen against the case label. It reads the catalogue only;
// attempts are not recorded.
func (s *Service) Answer(ctx context.Context, id, chosen string) (Feedback, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Feedback{}, err
	}

	label, err := ParseLabel(chosen)
	if err != nil {
		return Feedback{}, err
	}

	points := c.TeachingPoints
	if points == nil {
		points = []string{}
	}
	return Feedback{
		Correct:        label == c.Label,
		CorrectLabel:   c.Label,
		TeachingPoints: points,
		Disclaimer:     Disclaimer,
	}, nil
}
