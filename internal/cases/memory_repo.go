package cases

import (
	"context"
)

// MemoryRepo serves a fixed catalogue loaded at startup. It never mutates
// its slice, so it is safe for concurrent use.
type MemoryRepo struct {
	cases []Case
	byID  map[string]int
}

func NewMemoryRepo(catalogue []Case) *MemoryRepo {
	own := make([]Case, len(catalogue))
	copy(own, catalogue)

	byID := make(map[string]int, len(own))
	for i, c := range own {
		byID[c.ID] = i
	}
	return &MemoryRepo{cases: own, byID: byID}
}

func (r *MemoryRepo) List(ctx context.Context, q Query) ([]Case, error) {
	out := make([]Case, 0, min(q.Limit, len(r.cases)))
	for _, c := range r.cases {
		if len(out) >= q.Limit {
			break
		}
		if q.Difficulty != "" && c.Difficulty != q.Difficulty {
			continue
		}
		out = append(out, clone(c))
	}
	return out, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Case, error) {
	i, ok := r.byID[id]
	if !ok {
		return Case{}, ErrNotFound
	}
	return clone(r.cases[i]), nil
}

func clone(c Case) Case {
	if c.Patient.Notes != nil {
		notes := *c.Patient.Notes
		c.Patient.Notes = &notes
	}
	if c.TeachingPoints != nil {
		c.TeachingPoints = append([]string(nil), c.TeachingPoints...)
	}
	return c
}
