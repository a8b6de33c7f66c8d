package scrape

import (
	"math"
	"time"

	"github.com/sdp-dev/tech-audit-scraper/internal/models"
)

// Activity windows for the dashboard's "recently active" counters.
const (
	windowMonth   = 30 * 24 * time.Hour
	window3Months = 90 * 24 * time.Hour
	window6Months = 180 * 24 * time.Hour
)

// BuildSnapshot assembles the output document from the merged record set.
// Aggregates are computed from the final set rather than accumulated
// during pagination so they always agree with the repositories array.
func BuildSnapshot(records []models.RepositoryRecord, now time.Time) *models.Snapshot {
	snapshot := &models.Snapshot{
		Repositories:        records,
		LanguagesUnarchived: map[string]models.LanguageStats{},
		LanguagesArchived:   map[string]models.LanguageStats{},
		Metadata: models.Metadata{
			LastUpdated: now.UTC().Format("2006-01-02"),
		},
	}
	if snapshot.Repositories == nil {
		snapshot.Repositories = []models.RepositoryRecord{}
	}

	unarchivedAccum := map[string]*languageAccumulator{}
	archivedAccum := map[string]*languageAccumulator{}

	for _, record := range records {
		stats := &snapshot.StatsUnarchived
		accum := unarchivedAccum
		if record.IsArchived {
			stats = &snapshot.StatsArchived
			accum = archivedAccum
		}

		stats.Total++
		switch record.Visibility {
		case "PRIVATE":
			stats.Private++
		case "PUBLIC":
			stats.Public++
		case "INTERNAL":
			stats.Internal++
		}

		if record.LastCommit != nil {
			age := now.Sub(*record.LastCommit)
			if age <= windowMonth {
				stats.ActiveLastMonth++
			}
			if age <= window3Months {
				stats.ActiveLast3Months++
			}
			if age <= window6Months {
				stats.ActiveLast6Months++
			}
		}

		for _, lang := range record.Technologies.Languages {
			a, ok := accum[lang.Name]
			if !ok {
				a = &languageAccumulator{}
				accum[lang.Name] = a
			}
			a.repoCount++
			a.totalPercentage += lang.Percentage
			a.totalLines += lang.Size
		}
	}

	snapshot.LanguagesUnarchived = averages(unarchivedAccum)
	snapshot.LanguagesArchived = averages(archivedAccum)
	return snapshot
}

type languageAccumulator struct {
	repoCount       int
	totalPercentage float64
	totalLines      int64
}

func averages(accum map[string]*languageAccumulator) map[string]models.LanguageStats {
	out := make(map[string]models.LanguageStats, len(accum))
	for name, a := range accum {
		out[name] = models.LanguageStats{
			RepoCount:         a.repoCount,
			AveragePercentage: round3(a.totalPercentage / float64(a.repoCount)),
			AverageLines:      round3(float64(a.totalLines) / float64(a.repoCount)),
		}
	}
	return out
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
