package models

import (
	"time"
)

// RepositoryRecord is one repository in the audit output. Identity is
// (Owner, Name); the merger treats that pair as the record key.
type RepositoryRecord struct {
	Name         string       `json:"name"`
	Owner        string       `json:"owner"`
	URL          string       `json:"url"`
	Visibility   string       `json:"visibility"`
	IsArchived   bool         `json:"is_archived"`
	LastCommit   *time.Time   `json:"last_commit"`
	Topics       []string     `json:"topics"`
	Technologies Technologies `json:"technologies"`
}

// Key returns the identity key for the record.
func (r RepositoryRecord) Key() RecordKey {
	return RecordKey{Owner: r.Owner, Name: r.Name}
}

// RecordKey uniquely identifies a repository within a snapshot.
type RecordKey struct {
	Owner string
	Name  string
}

// Technologies groups the detected technology signals for a repository.
type Technologies struct {
	Languages []Language `json:"languages"`
	IaC       []string   `json:"iac"`
}

// Language is one entry of a repository's language breakdown, ordered by
// size descending as returned by the API.
type Language struct {
	Name       string  `json:"name"`
	Size       int64   `json:"size"`
	Percentage float64 `json:"percentage"`
}

// VisibilityStats counts repositories by visibility and recent activity.
// Activity windows are measured against the last commit date.
type VisibilityStats struct {
	Total             int `json:"total"`
	Private           int `json:"private"`
	Public            int `json:"public"`
	Internal          int `json:"internal"`
	ActiveLastMonth   int `json:"active_last_month"`
	ActiveLast3Months int `json:"active_last_3months"`
	ActiveLast6Months int `json:"active_last_6months"`
}

// LanguageStats is the per-language aggregate across repositories.
type LanguageStats struct {
	RepoCount         int     `json:"repo_count"`
	AveragePercentage float64 `json:"average_percentage"`
	AverageLines      float64 `json:"average_lines"`
}

// Metadata carries run-level information about the snapshot.
type Metadata struct {
	LastUpdated string `json:"last_updated"`
}

// Snapshot is the complete per-run output document for an organization.
// It exists only in memory during a run and is serialized wholesale to
// object storage on success.
type Snapshot struct {
	Repositories        []RepositoryRecord       `json:"repositories"`
	StatsUnarchived     VisibilityStats          `json:"stats_unarchived"`
	StatsArchived       VisibilityStats          `json:"stats_archived"`
	LanguagesUnarchived map[string]LanguageStats `json:"language_statistics_unarchived"`
	LanguagesArchived   map[string]LanguageStats `json:"language_statistics_archived"`
	Metadata            Metadata                 `json:"metadata"`
}
