package scrape

import (
	"github.com/sdp-dev/tech-audit-scraper/internal/models"
)

// Merge combines the current run's records with the previously stored
// snapshot. The current run is authoritative: every current record
// overwrites a prior record with the same identity key, duplicate keys
// within the run resolve last-one-wins, and keys present only in the
// prior snapshot are dropped. dropped reports how many prior records did
// not survive, for logging.
//
// Records keep the order of their first appearance in the current run.
func Merge(prior *models.Snapshot, current []models.RepositoryRecord) (merged []models.RepositoryRecord, dropped int) {
	index := make(map[models.RecordKey]int, len(current))
	merged = make([]models.RepositoryRecord, 0, len(current))

	for _, record := range current {
		if i, ok := index[record.Key()]; ok {
			merged[i] = record
			continue
		}
		index[record.Key()] = len(merged)
		merged = append(merged, record)
	}

	if prior != nil {
		for _, record := range prior.Repositories {
			if _, ok := index[record.Key()]; !ok {
				dropped++
			}
		}
	}

	return merged, dropped
}
