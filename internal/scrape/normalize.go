package scrape

import (
	"github.com/sdp-dev/tech-audit-scraper/internal/apperrors"
	"github.com/sdp-dev/tech-audit-scraper/internal/github"
	"github.com/sdp-dev/tech-audit-scraper/internal/models"
)

// iacLanguages maps language names that signal infrastructure-as-code
// usage to the tool they imply.
var iacLanguages = map[string]string{
	"HCL": "Terraform",
}

// Normalize maps one raw repository node to a RepositoryRecord. Optional
// fields default to empty string / false / empty slice rather than being
// left absent. A node without a name cannot be keyed and is rejected with
// a record error; callers drop it and continue.
func Normalize(node github.RepoNode, org string) (models.RepositoryRecord, error) {
	if node.Name == "" {
		return models.RepositoryRecord{}, apperrors.NewRecord("repository node has no name")
	}

	record := models.RepositoryRecord{
		Name:       string(node.Name),
		Owner:      org,
		URL:        string(node.URL),
		Visibility: string(node.Visibility),
		IsArchived: bool(node.IsArchived),
		Topics:     []string{},
		Technologies: models.Technologies{
			Languages: []models.Language{},
			IaC:       []string{},
		},
	}

	if node.DefaultBranchRef != nil {
		committed := node.DefaultBranchRef.Target.Commit.CommittedDate.Time
		if !committed.IsZero() {
			record.LastCommit = &committed
		}
	}

	for _, topic := range node.RepositoryTopics.Nodes {
		if topic.Topic.Name != "" {
			record.Topics = append(record.Topics, string(topic.Topic.Name))
		}
	}

	totalSize := int64(node.Languages.TotalSize)
	for _, edge := range node.Languages.Edges {
		name := string(edge.Node.Name)
		if tool, ok := iacLanguages[name]; ok {
			record.Technologies.IaC = append(record.Technologies.IaC, tool)
		}

		size := int64(edge.Size)
		percentage := 0.0
		if totalSize > 0 {
			percentage = float64(size) / float64(totalSize) * 100
		}
		record.Technologies.Languages = append(record.Technologies.Languages, models.Language{
			Name:       name,
			Size:       size,
			Percentage: percentage,
		})
	}

	return record, nil
}
