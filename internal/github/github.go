// Package github wraps the GitHub GraphQL API behind a page-oriented
// fetch capability.
package github

import (
	"context"

	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/sdp-dev/tech-audit-scraper/internal/apperrors"
)

// BranchRef is the default branch reference with its tip commit.
type BranchRef struct {
	Target struct {
		Commit struct {
			CommittedDate githubv4.DateTime
		} `graphql:"... on Commit"`
	}
}

// TopicNode is one repository topic.
type TopicNode struct {
	Topic struct {
		Name githubv4.String
	}
}

// LanguageEdge is one entry of the language breakdown, sized in bytes.
type LanguageEdge struct {
	Size githubv4.Int
	Node struct {
		Name  githubv4.String
		Color githubv4.String
	}
}

// RepoNode is one repository as returned by the GraphQL query.
type RepoNode struct {
	Name             githubv4.String
	URL              githubv4.String `graphql:"url"`
	Visibility       githubv4.String
	IsArchived       githubv4.Boolean
	DefaultBranchRef *BranchRef
	RepositoryTopics struct {
		Nodes []TopicNode
	} `graphql:"repositoryTopics(first: 20)"`
	Languages struct {
		TotalSize githubv4.Int
		Edges     []LanguageEdge
	} `graphql:"languages(first: 10, orderBy: {field: SIZE, direction: DESC})"`
}

// Page is one batch of repositories plus the continuation cursor.
type Page struct {
	Repos       []RepoNode
	EndCursor   string
	HasNextPage bool
}

// PageFetcher issues a single paginated repository query.
type PageFetcher interface {
	FetchRepositoryPage(ctx context.Context, org string, limit int, cursor *string) (*Page, error)
}

// GraphQLClient represents a client for the GitHub GraphQL API
type GraphQLClient struct {
	client *githubv4.Client
}

// NewGraphQLClient creates a new GraphQL client authenticated with token.
func NewGraphQLClient(token string) *GraphQLClient {
	src := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	httpClient := oauth2.NewClient(context.Background(), src)
	return &GraphQLClient{client: githubv4.NewClient(httpClient)}
}

// FetchRepositoryPage fetches one page of the organization's repository
// list. A nil cursor starts from the beginning.
func (c *GraphQLClient) FetchRepositoryPage(ctx context.Context, org string, limit int, cursor *string) (*Page, error) {
	var query struct {
		Organization struct {
			Repositories struct {
				PageInfo struct {
					EndCursor   githubv4.String
					HasNextPage githubv4.Boolean
				}
				Nodes []RepoNode
			} `graphql:"repositories(first: $limit, after: $cursor)"`
		} `graphql:"organization(login: $org)"`
	}

	var after *githubv4.String
	if cursor != nil {
		after = githubv4.NewString(githubv4.String(*cursor))
	}

	variables := map[string]interface{}{
		"org":    githubv4.String(org),
		"limit":  githubv4.Int(limit),
		"cursor": after,
	}

	if err := c.client.Query(ctx, &query, variables); err != nil {
		return nil, apperrors.NewRemoteAPI("repository page query failed", err)
	}

	repos := query.Organization.Repositories
	return &Page{
		Repos:       repos.Nodes,
		EndCursor:   string(repos.PageInfo.EndCursor),
		HasNextPage: bool(repos.PageInfo.HasNextPage),
	}, nil
}
