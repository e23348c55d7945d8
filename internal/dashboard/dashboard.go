// Package dashboard assembles the per-user progress dashboard: activity
// totals, an improvement trend, the most frequent error types, and
// advice derived from them.
package dashboard

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/zalint/text-corrector/internal/db"
)

const (
	// trendWindow is how many recent corrections feed the improvement
	// trend: the newest half compared against the half before it.
	trendWindow = 20

	commonErrorLimit = 5
	historyLimit     = 50
)

// Store is the subset of the database the dashboard reads.
type Store interface {
	GetUserStats(ctx context.Context, userID uuid.UUID) (*db.UserStats, error)
	RecentErrorCounts(ctx context.Context, userID uuid.UUID, limit int) ([]int, error)
	TopErrorTypes(ctx context.Context, userID uuid.UUID, limit int) ([]db.ErrorTypeCount, error)
	GetHistory(ctx context.Context, userID uuid.UUID, limit int) ([]db.HistoryEntry, error)
}

// Stats are the headline numbers of the dashboard.
type Stats struct {
	TotalCorrections int     `json:"totalCorrections"`
	TotalErrors      int     `json:"totalErrors"`
	AverageErrors    float64 `json:"averageErrors"`

	// ImprovementRate is the percentage drop in average error count
	// between the previous ten corrections and the most recent ten.
	// Never negative: regressions display as zero progress.
	ImprovementRate float64 `json:"improvementRate"`
}

// Advice is one titled recommendation, strength, weakness or tip.
type Advice struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Analysis groups the generated strengths, weaknesses and tips.
type Analysis struct {
	Strengths  []Advice `json:"strengths"`
	Weaknesses []Advice `json:"weaknesses"`
	Tips       []Advice `json:"tips"`
}

// Data is the full dashboard payload.
type Data struct {
	Stats           Stats               `json:"stats"`
	CommonErrors    []db.ErrorTypeCount `json:"commonErrors"`
	Recommendations []Advice            `json:"recommendations"`
	History         []db.HistoryEntry   `json:"history"`
	Analysis        Analysis            `json:"analysis"`
}

// Build assembles the dashboard for one user.
func Build(ctx context.Context, store Store, userID uuid.UUID) (*Data, error) {
	stats, err := store.GetUserStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	counts, err := store.RecentErrorCounts(ctx, userID, trendWindow)
	if err != nil {
		return nil, fmt.Errorf("dashboard trend: %w", err)
	}
	common, err := store.TopErrorTypes(ctx, userID, commonErrorLimit)
	if err != nil {
		return nil, fmt.Errorf("dashboard common errors: %w", err)
	}
	history, err := store.GetHistory(ctx, userID, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("dashboard history: %w", err)
	}

	return &Data{
		Stats: Stats{
			TotalCorrections: stats.TotalCorrections,
			TotalErrors:      stats.TotalErrors,
			AverageErrors:    stats.AverageErrors,
			ImprovementRate:  ImprovementRate(counts),
		},
		CommonErrors:    common,
		Recommendations: Recommendations(common),
		History:         history,
		Analysis:        Analyze(common, stats.TotalCorrections, stats.AverageErrors),
	}, nil
}

// ImprovementRate derives the progress trend from per-text error
// counts ordered newest first: the newest ten against the ten before
// them, as a percentage drop in average errors. Returns 0 when there
// is no previous window to compare against.
func ImprovementRate(countsNewestFirst []int) float64 {
	half := trendWindow / 2
	if len(countsNewestFirst) <= half {
		return 0
	}
	recent := countsNewestFirst[:half]
	previous := countsNewestFirst[half:]
	if len(previous) > half {
		previous = previous[:half]
	}

	recentAvg := average(recent)
	previousAvg := average(previous)
	if previousAvg <= 0 {
		return 0
	}
	rate := (previousAvg - recentAvg) / previousAvg * 100
	if rate < 0 {
		return 0
	}
	return rate
}

func average(counts []int) float64 {
	if len(counts) == 0 {
		return 0
	}
	sum := 0
	for _, n := range counts {
		sum += n
	}
	return float64(sum) / float64(len(counts))
}
