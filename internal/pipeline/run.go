package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ilaydaydemir/rei-prospect-finder/internal/icp"
	"github.com/ilaydaydemir/rei-prospect-finder/internal/model"
	"github.com/ilaydaydemir/rei-prospect-finder/internal/resilience"
	"github.com/ilaydaydemir/rei-prospect-finder/internal/store"
	"github.com/ilaydaydemir/rei-prospect-finder/pkg/exa"
)

// Options tunes runner behavior; the zero value uses sensible defaults.
type Options struct {
	// QueryTimeout bounds each provider call. Default: 15s.
	QueryTimeout time.Duration

	// QueriesPerSec rate-limits provider calls across the run. Zero means
	// no limit.
	QueriesPerSec float64

	// Retry configures provider-call retries.
	Retry resilience.RetryConfig
}

// Runner orchestrates prospecting runs: one lane per requested ICP,
// sequential queries within a lane, sequential candidates within a query.
type Runner struct {
	registry   *icp.Registry
	search     exa.Client
	store      store.Store
	reconciler *Reconciler
	limiter    *rate.Limiter
	opts       Options
}

// NewRunner creates a Runner.
func NewRunner(registry *icp.Registry, search exa.Client, st store.Store, opts Options) *Runner {
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = 15 * time.Second
	}

	var limiter *rate.Limiter
	if opts.QueriesPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.QueriesPerSec), 1)
	}

	return &Runner{
		registry:   registry,
		search:     search,
		store:      st,
		reconciler: NewReconciler(st),
		limiter:    limiter,
		opts:       opts,
	}
}

// Execute runs all requested lanes to completion and returns the aggregated
// summary. Provider failures degrade to zero candidates for the failing
// query; store failures abort the run, since reconciliation correctness
// cannot be guaranteed without the store.
func (r *Runner) Execute(ctx context.Context, req model.RunRequest) (*model.RunSummary, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	log := zap.L().With(zap.String("run_id", runID), zap.String("workspace", req.WorkspaceID))

	log.Info("starting run",
		zap.Strings("icps", req.ICPs),
		zap.Strings("states", req.States),
		zap.String("city", req.City),
		zap.String("strategy", req.Strategy),
		zap.Int("results_per_icp", req.ResultsPerICP),
	)

	summary := &model.RunSummary{
		RunID:  runID,
		Status: model.RunStatusCompleted,
		Lanes:  make([]model.LaneSummary, 0, len(req.ICPs)),
	}

	for _, icpID := range req.ICPs {
		lane, err := r.runLane(ctx, req, icpID, log)
		if err != nil {
			// Store-level failure: report the run as failed rather than
			// returning partial, unverified results.
			summary.Status = model.RunStatusFailed
			lane.Status = model.LaneStatusFailed
			lane.Error = err.Error()
			summary.Lanes = append(summary.Lanes, *lane)
			summary.Totals()
			return summary, eris.Wrapf(err, "run %s: lane %s", runID, icpID)
		}
		summary.Lanes = append(summary.Lanes, *lane)
	}

	summary.Totals()
	log.Info("run complete",
		zap.Int("total_kept", summary.TotalKept),
		zap.Int("total_dropped", summary.TotalDropped),
	)
	return summary, nil
}

// runLane drives one ICP lane through its state machine. The returned error
// is non-nil only for store failures; provider problems are absorbed into
// the lane status.
func (r *Runner) runLane(ctx context.Context, req model.RunRequest, icpID string, log *zap.Logger) (*model.LaneSummary, error) {
	lane := &model.LaneSummary{ICP: icpID, Status: model.LaneStatusPending}
	laneLog := log.With(zap.String("icp", icpID))

	profile, err := r.registry.Get(icpID)
	if err != nil {
		lane.Status = model.LaneStatusFailed
		lane.Error = err.Error()
		laneLog.Warn("unknown ICP, lane skipped", zap.Error(err))
		return lane, nil
	}

	queries := BuildQueries(profile, req.States, req.City)
	if len(queries) == 0 {
		lane.Status = model.LaneStatusCompleted
		laneLog.Info("no geography terms, lane has no work")
		return lane, nil
	}

	lane.Status = model.LaneStatusRunning
	geoState := req.PrimaryState()

	for _, query := range queries {
		if ctx.Err() != nil {
			lane.Status = model.LaneStatusFailed
			lane.Error = ctx.Err().Error()
			return lane, nil
		}

		results, fatal, err := r.searchQuery(ctx, query)
		if fatal {
			lane.Status = model.LaneStatusFailed
			lane.Error = err.Error()
			laneLog.Error("unrecoverable provider error, lane failed", zap.Error(err))
			return lane, nil
		}
		lane.QueriesExecuted++
		if err != nil {
			// Fail-open: a bad query costs nothing but its results.
			laneLog.Warn("search failed, treating as zero candidates",
				zap.String("query", query), zap.Error(err))
			continue
		}

		lane.ResultsFound += len(results)

		for _, res := range results {
			cand := Candidate{URL: res.URL, Title: res.Title, Text: res.Text}
			scored := ScoreCandidate(profile, cand, geoState)
			if scored == nil {
				lane.Dropped++
				continue
			}

			if err := r.reconciler.Reconcile(ctx, req.WorkspaceID, icpID, scored, geoState, req.City); err != nil {
				return lane, err
			}
			lane.Kept++

			if lane.Kept >= req.ResultsPerICP {
				break
			}
		}

		if lane.Kept >= req.ResultsPerICP {
			break
		}
	}

	lane.Status = model.LaneStatusCompleted
	laneLog.Info("lane complete",
		zap.Int("queries", lane.QueriesExecuted),
		zap.Int("found", lane.ResultsFound),
		zap.Int("kept", lane.Kept),
		zap.Int("dropped", lane.Dropped),
	)
	return lane, nil
}

// searchQuery issues one provider call with a deadline, retrying transient
// failures. fatal is true for unrecoverable provider errors (auth), which
// fail the lane instead of degrading to zero candidates.
func (r *Runner) searchQuery(ctx context.Context, query string) (results []exa.Result, fatal bool, err error) {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, false, err
		}
	}

	retryCfg := r.opts.Retry
	retryCfg.ShouldRetry = retryableSearchError

	resp, err := resilience.Do(ctx, retryCfg, func(ctx context.Context) (*exa.SearchResponse, error) {
		callCtx, cancel := context.WithTimeout(ctx, r.opts.QueryTimeout)
		defer cancel()
		return r.search.Search(callCtx, query)
	})
	if err != nil {
		return nil, exa.IsAuthError(err), err
	}
	return resp.Results, false, nil
}

// retryableSearchError retries rate limits and server-side errors; auth
// failures and malformed requests are handed back immediately.
func retryableSearchError(err error) bool {
	var apiErr *exa.APIError
	if eris.As(err, &apiErr) {
		return resilience.IsTransientHTTPStatus(apiErr.StatusCode)
	}
	return resilience.IsTransient(err)
}
