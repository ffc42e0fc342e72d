package cases

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalogue() []Case {
	notes := "raised edge"
	return []Case{
		{ID: "c1", ImageURL: "u1", Patient: Patient{Age: 30, Site: "arm"}, Label: LabelBenign, Difficulty: DifficultyEasy},
		{ID: "c2", ImageURL: "u2", Patient: Patient{Age: 40, Site: "leg", Notes: &notes}, Label: LabelMalignant, Difficulty: DifficultyMed},
		{ID: "c3", ImageURL: "u3", Patient: Patient{Age: 50, Site: "back"}, Label: LabelMalignant, Difficulty: DifficultyEasy},
		{ID: "c4", ImageURL: "u4", Patient: Patient{Age: 60, Site: "face"}, Label: LabelBenign, Difficulty: DifficultyHard},
		{ID: "c5", ImageURL: "u5", Patient: Patient{Age: 70, Site: "neck"}, Label: LabelBenign, Difficulty: DifficultyEasy},
	}
}

func TestMemoryRepo_ListFilterPreservesOrderAndTruncates(t *testing.T) {
	catalogue := testCatalogue()
	repo := NewMemoryRepo(catalogue)
	ctx := context.Background()

	for _, d := range []Difficulty{"", DifficultyEasy, DifficultyMed, DifficultyHard} {
		for limit := 0; limit <= len(catalogue)+1; limit++ {
			t.Run(fmt.Sprintf("%s/%d", d, limit), func(t *testing.T) {
				var want []string
				for _, c := range catalogue {
					if d == "" || c.Difficulty == d {
						want = append(want, c.ID)
					}
				}
				if len(want) > limit {
					want = want[:limit]
				}

				got, err := repo.List(ctx, Query{Difficulty: d, Limit: limit})
				require.NoError(t, err)
				require.NotNil(t, got)

				ids := make([]string, 0, len(got))
				for _, c := range got {
					if d != "" {
						assert.Equal(t, d, c.Difficulty)
					}
					ids = append(ids, c.ID)
				}
				assert.Equal(t, len(want), len(ids))
				if len(want) > 0 {
					assert.Equal(t, want, ids)
				}
			})
		}
	}
}

func TestMemoryRepo_GetByID(t *testing.T) {
	repo := NewMemoryRepo(testCatalogue())
	ctx := context.Background()

	for _, c := range testCatalogue() {
		got, err := repo.GetByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, c.ID, got.ID)
	}

	for _, id := range []string{"", "c0", "C1", "c1 ", "case_999"} {
		_, err := repo.GetByID(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound, id)
	}
}

func TestMemoryRepo_ReturnsCopies(t *testing.T) {
	catalogue := testCatalogue()
	repo := NewMemoryRepo(catalogue)
	ctx := context.Background()

	catalogue[0].Label = LabelMalignant

	got, err := repo.GetByID(ctx, "c2")
	require.NoError(t, err)
	*got.Patient.Notes = "changed"
	got.Label = LabelBenign

	again, err := repo.GetByID(ctx, "c2")
	require.NoError(t, err)
	assert.Equal(t, "raised edge", *again.Patient.Notes)
	assert.Equal(t, LabelMalignant, again.Label)

	first, err := repo.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, LabelBenign, first.Label)
}

func TestMemoryRepo_TeachingPointsAreCopied(t *testing.T) {
	catalogue := testCatalogue()
	catalogue[1].TeachingPoints = []string{"Blue-white veil"}
	repo := NewMemoryRepo(catalogue)
	ctx := context.Background()

	got, err := repo.GetByID(ctx, "c2")
	require.NoError(t, err)
	got.TeachingPoints[0] = "changed"

	again, err := repo.GetByID(ctx, "c2")
	require.NoError(t, err)
	assert.Equal(t, []string{"Blue-white veil"}, again.TeachingPoints)
}
