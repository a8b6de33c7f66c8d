// Package scrape runs one full audit pass: authenticate, walk the
// organization's repository list, normalize, merge with the stored
// snapshot, and upload the result.
package scrape

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/sdp-dev/tech-audit-scraper/internal/auth"
	"github.com/sdp-dev/tech-audit-scraper/internal/config"
	"github.com/sdp-dev/tech-audit-scraper/internal/github"
	"github.com/sdp-dev/tech-audit-scraper/internal/models"
	"github.com/sdp-dev/tech-audit-scraper/internal/secrets"
	"github.com/sdp-dev/tech-audit-scraper/internal/storage"
)

// runState labels the phase a run is in. Failures from any non-terminal
// state abort the run before the snapshot write.
type runState string

const (
	stateInit           runState = "INIT"
	stateAuthenticating runState = "AUTHENTICATING"
	stateFetching       runState = "FETCHING"
	stateMerging        runState = "MERGING"
	stateWriting        runState = "WRITING"
	stateDone           runState = "DONE"
)

// TokenSourceFactory builds a token source from the app client ID and the
// resolved secret payload.
type TokenSourceFactory func(clientID, secret string) (auth.TokenSource, error)

// FetcherFactory builds a page fetcher from an installation token.
type FetcherFactory func(token string) github.PageFetcher

// Job is one scheduled audit invocation. It holds no state across runs.
type Job struct {
	cfg        *config.Config
	secrets    secrets.Resolver
	store      storage.SnapshotStore
	log        *zap.Logger
	newTokens  TokenSourceFactory
	newFetcher FetcherFactory
	now        func() time.Time
}

// JobOption customizes a Job, primarily so tests can substitute the
// external capabilities.
type JobOption func(*Job)

// WithTokenSourceFactory overrides how the GitHub App token source is built.
func WithTokenSourceFactory(f TokenSourceFactory) JobOption {
	return func(j *Job) {
		j.newTokens = f
	}
}

// WithFetcherFactory overrides how the page fetcher is built.
func WithFetcherFactory(f FetcherFactory) JobOption {
	return func(j *Job) {
		j.newFetcher = f
	}
}

// WithClock overrides the time source used for activity stats.
func WithClock(now func() time.Time) JobOption {
	return func(j *Job) {
		j.now = now
	}
}

// NewJob wires a job from its capabilities.
func NewJob(cfg *config.Config, resolver secrets.Resolver, store storage.SnapshotStore, log *zap.Logger, opts ...JobOption) *Job {
	j := &Job{
		cfg:     cfg,
		secrets: resolver,
		store:   store,
		log:     log,
		newTokens: func(clientID, secret string) (auth.TokenSource, error) {
			return auth.New(clientID, secret)
		},
		newFetcher: func(token string) github.PageFetcher {
			return github.NewGraphQLClient(token)
		},
		now: time.Now,
	}
	for _, apply := range opts {
		apply(j)
	}
	return j
}

// Run executes one full scrape. Any error aborts before the snapshot
// write, leaving the previously stored snapshot authoritative.
func (j *Job) Run(ctx context.Context) error {
	j.transition(stateInit)
	j.log.Info("starting technology audit",
		zap.String("organization", j.cfg.Organization),
		zap.Int("batch_size", j.cfg.BatchSize))

	j.transition(stateAuthenticating)
	token, err := j.authenticate(ctx)
	if err != nil {
		return err
	}

	j.transition(stateFetching)
	current, err := j.fetchAll(ctx, token)
	if err != nil {
		return err
	}

	j.transition(stateMerging)
	prior, err := j.readPrior(ctx)
	if err != nil {
		return err
	}
	merged, dropped := Merge(prior, current)
	if dropped > 0 {
		j.log.Info("dropping repositories absent from current listing",
			zap.Int("count", dropped))
	}
	snapshot := BuildSnapshot(merged, j.now())

	j.transition(stateWriting)
	if err := j.store.WriteSnapshot(ctx, j.cfg.Key, snapshot); err != nil {
		return err
	}

	j.transition(stateDone)
	j.log.Info("uploaded snapshot",
		zap.String("key", j.cfg.Key),
		zap.Int("repositories", len(snapshot.Repositories)))
	return nil
}

func (j *Job) authenticate(ctx context.Context) (string, error) {
	secret, err := j.secrets.Resolve(ctx, j.cfg.SecretName)
	if err != nil {
		return "", err
	}

	tokens, err := j.newTokens(j.cfg.AppClientID, secret)
	if err != nil {
		return "", err
	}

	token, err := tokens.InstallationToken(ctx, j.cfg.Organization)
	if err != nil {
		return "", err
	}
	j.log.Info("obtained installation token")
	return token, nil
}

// fetchAll walks the paginated repository list, normalizing as each page
// arrives. Malformed records are dropped with a warning; any fetch error
// aborts the run.
func (j *Job) fetchAll(ctx context.Context, token string) ([]models.RepositoryRecord, error) {
	pager := github.NewPager(j.newFetcher(token), j.cfg.Organization, j.cfg.BatchSize)

	var records []models.RepositoryRecord
	pages := 0
	for {
		page, err := pager.Next(ctx)
		if err != nil {
			return nil, err
		}
		if page == nil {
			break
		}
		pages++

		for _, node := range page.Repos {
			record, err := Normalize(node, j.cfg.Organization)
			if err != nil {
				j.log.Warn("dropping malformed repository record", zap.Error(err))
				continue
			}
			records = append(records, record)
		}
		j.log.Info("processed repository page",
			zap.Int("page", pages),
			zap.Int("repositories", len(records)))
	}
	return records, nil
}

func (j *Job) readPrior(ctx context.Context) (*models.Snapshot, error) {
	prior, err := j.store.ReadSnapshot(ctx, j.cfg.Key)
	if errors.Is(err, storage.ErrNotFound) {
		j.log.Info("no prior snapshot found", zap.String("key", j.cfg.Key))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return prior, nil
}

func (j *Job) transition(state runState) {
	j.log.Debug("run state", zap.String("state", string(state)))
}
