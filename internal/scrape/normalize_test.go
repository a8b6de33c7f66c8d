package scrape

import (
	"testing"
	"time"

	"github.com/shurcooL/githubv4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdp-dev/tech-audit-scraper/internal/apperrors"
	"github.com/sdp-dev/tech-audit-scraper/internal/github"
)

func TestNormalizeFullNode(t *testing.T) {
	committed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	var branch github.BranchRef
	branch.Target.Commit.CommittedDate = githubv4.DateTime{Time: committed}

	var topic github.TopicNode
	topic.Topic.Name = "infrastructure"

	goEdge := github.LanguageEdge{Size: 750}
	goEdge.Node.Name = "Go"
	hclEdge := github.LanguageEdge{Size: 250}
	hclEdge.Node.Name = "HCL"

	node := github.RepoNode{
		Name:             "deploy-tool",
		URL:              "https://github.com/acme/deploy-tool",
		Visibility:       "INTERNAL",
		IsArchived:       true,
		DefaultBranchRef: &branch,
	}
	node.RepositoryTopics.Nodes = []github.TopicNode{topic}
	node.Languages.TotalSize = 1000
	node.Languages.Edges = []github.LanguageEdge{goEdge, hclEdge}

	record, err := Normalize(node, "acme")
	require.NoError(t, err)

	assert.Equal(t, "deploy-tool", record.Name)
	assert.Equal(t, "acme", record.Owner)
	assert.Equal(t, "https://github.com/acme/deploy-tool", record.URL)
	assert.Equal(t, "INTERNAL", record.Visibility)
	assert.True(t, record.IsArchived)
	require.NotNil(t, record.LastCommit)
	assert.Equal(t, committed, *record.LastCommit)
	assert.Equal(t, []string{"infrastructure"}, record.Topics)

	require.Len(t, record.Technologies.Languages, 2)
	assert.Equal(t, "Go", record.Technologies.Languages[0].Name)
	assert.Equal(t, int64(750), record.Technologies.Languages[0].Size)
	assert.InDelta(t, 75.0, record.Technologies.Languages[0].Percentage, 1e-9)
	assert.InDelta(t, 25.0, record.Technologies.Languages[1].Percentage, 1e-9)
	assert.Equal(t, []string{"Terraform"}, record.Technologies.IaC)
}

func TestNormalizeAppliesDefaults(t *testing.T) {
	record, err := Normalize(github.RepoNode{Name: "bare"}, "acme")
	require.NoError(t, err)

	assert.Equal(t, "", record.URL)
	assert.Equal(t, "", record.Visibility)
	assert.False(t, record.IsArchived)
	assert.Nil(t, record.LastCommit)
	// Optional sequences default to empty, never nil, so the serialized
	// document carries arrays instead of nulls.
	assert.NotNil(t, record.Topics)
	assert.Empty(t, record.Topics)
	assert.NotNil(t, record.Technologies.Languages)
	assert.Empty(t, record.Technologies.Languages)
	assert.NotNil(t, record.Technologies.IaC)
	assert.Empty(t, record.Technologies.IaC)
}

func TestNormalizeRejectsNodeWithoutName(t *testing.T) {
	_, err := Normalize(github.RepoNode{}, "acme")
	require.Error(t, err)
	assert.True(t, apperrors.IsRecord(err))
}

func TestNormalizeZeroTotalSize(t *testing.T) {
	edge := github.LanguageEdge{Size: 0}
	edge.Node.Name = "Go"

	node := github.RepoNode{Name: "empty-repo"}
	node.Languages.TotalSize = 0
	node.Languages.Edges = []github.LanguageEdge{edge}

	record, err := Normalize(node, "acme")
	require.NoError(t, err)
	require.Len(t, record.Technologies.Languages, 1)
	assert.Zero(t, record.Technologies.Languages[0].Percentage)
}
