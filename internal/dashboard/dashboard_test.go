package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zalint/text-corrector/internal/db"
)

func TestImprovementRate(t *testing.T) {
	tests := []struct {
		name   string
		counts []int
		want   float64
	}{
		{
			name:   "halved errors is fifty percent improvement",
			counts: []int{2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4},
			want:   50,
		},
		{
			name:   "no previous window",
			counts: []int{3, 3, 3},
			want:   0,
		},
		{
			name:   "regression clamps to zero",
			counts: []int{5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
			want:   0,
		},
		{
			name:   "previous window all clean",
			counts: []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
			want:   0,
		},
		{
			name:   "partial previous window",
			counts: []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 2, 2},
			want:   50,
		},
		{
			name:   "empty history",
			counts: []int{},
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ImprovementRate(tt.counts), 0.001)
		})
	}
}

func TestRecommendations(t *testing.T) {
	t.Run("no errors yields encouragement", func(t *testing.T) {
		recs := Recommendations(nil)
		require.Len(t, recs, 1)
		assert.Equal(t, "Excellent travail !", recs[0].Title)
	})

	t.Run("top three known types produce cards", func(t *testing.T) {
		recs := Recommendations([]db.ErrorTypeCount{
			{ErrorType: "Orthographe", Count: 12},
			{ErrorType: "Conjugaison", Count: 7},
			{ErrorType: "Grammaire", Count: 5},
			{ErrorType: "Ponctuation", Count: 2},
		})
		require.Len(t, recs, 3)
		assert.Equal(t, "Améliorer l'orthographe", recs[0].Title)
		assert.Equal(t, "Maîtriser les conjugaisons", recs[1].Title)
	})

	t.Run("unknown types are skipped", func(t *testing.T) {
		recs := Recommendations([]db.ErrorTypeCount{
			{ErrorType: "Style", Count: 4},
			{ErrorType: "Grammaire", Count: 3},
		})
		require.Len(t, recs, 1)
		assert.Equal(t, "Réviser la grammaire", recs[0].Title)
	})
}

func TestAnalyze(t *testing.T) {
	common := []db.ErrorTypeCount{
		{ErrorType: "Orthographe", Count: 9},
		{ErrorType: "Grammaire", Count: 2},
	}

	t.Run("heavy user with many errors", func(t *testing.T) {
		a := Analyze(common, 25, 9.2)
		require.NotEmpty(t, a.Strengths)
		assert.Equal(t, "Utilisateur régulier", a.Strengths[0].Title)

		require.NotEmpty(t, a.Weaknesses)
		assert.Equal(t, "Nombreuses erreurs", a.Weaknesses[0].Title)
		// Only the orthographe count clears the occurrence threshold.
		require.Len(t, a.Weaknesses, 2)
		assert.Contains(t, a.Weaknesses[1].Title, "orthographe")

		assert.Equal(t, "Relecture systématique", a.Tips[0].Title)
	})

	t.Run("clean beginner", func(t *testing.T) {
		a := Analyze(nil, 2, 0.5)
		require.Len(t, a.Strengths, 1)
		assert.Equal(t, "Excellente maîtrise", a.Strengths[0].Title)
		assert.Empty(t, a.Weaknesses)
		require.Len(t, a.Tips, 1)
		assert.Equal(t, "Pratique régulière", a.Tips[0].Title)
	})
}
