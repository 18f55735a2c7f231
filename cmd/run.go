package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ilaydaydemir/rei-prospect-finder/internal/icp"
	"github.com/ilaydaydemir/rei-prospect-finder/internal/model"
	"github.com/ilaydaydemir/rei-prospect-finder/internal/pipeline"
	"github.com/ilaydaydemir/rei-prospect-finder/internal/resilience"
	"github.com/ilaydaydemir/rei-prospect-finder/internal/store"
	"github.com/ilaydaydemir/rei-prospect-finder/pkg/exa"
)

var (
	runWorkspace string
	runICPs      []string
	runStates    []string
	runCity      string
	runStrategy  string
	runQuota     int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute a prospecting run",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		workspace := runWorkspace
		if workspace == "" {
			workspace = cfg.Run.Workspace
		}
		quota := runQuota
		if quota <= 0 {
			quota = cfg.Run.ResultsPerICP
		}

		req := model.RunRequest{
			WorkspaceID:   workspace,
			ICPs:          runICPs,
			States:        runStates,
			City:          runCity,
			Strategy:      runStrategy,
			ResultsPerICP: quota,
		}

		summary, err := newRunner(st).Execute(ctx, req)
		if err != nil {
			if summary != nil {
				_ = printJSON(summary)
			}
			return eris.Wrap(err, "execute run")
		}

		zap.L().Info("run finished",
			zap.String("run_id", summary.RunID),
			zap.Int("total_kept", summary.TotalKept),
			zap.Int("total_dropped", summary.TotalDropped),
		)

		return printJSON(summary)
	},
}

// newRunner wires the pipeline runner from config.
func newRunner(st store.Store) *pipeline.Runner {
	client := exa.NewClient(cfg.Exa.Key,
		exa.WithBaseURL(cfg.Exa.BaseURL),
		exa.WithNumResults(cfg.Exa.NumResults),
		exa.WithIncludeDomain(cfg.Exa.IncludeDomain),
		exa.WithMaxTextChars(cfg.Exa.MaxTextChars),
	)

	return pipeline.NewRunner(icp.Builtin(), client, st, pipeline.Options{
		QueryTimeout:  time.Duration(cfg.Exa.TimeoutSecs) * time.Second,
		QueriesPerSec: cfg.Exa.QueriesPerSec,
		Retry:         resilience.FromConfig(cfg.Exa.Retries, cfg.Exa.BackoffMs),
	})
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	runCmd.Flags().StringVar(&runWorkspace, "workspace", "", "workspace ID (default from config)")
	runCmd.Flags().StringSliceVar(&runICPs, "icp", nil, "ICP lane to run (repeatable, required)")
	runCmd.Flags().StringSliceVar(&runStates, "state", nil, "target state (repeatable)")
	runCmd.Flags().StringVar(&runCity, "city", "", "target city (overrides states as geography)")
	runCmd.Flags().StringVar(&runStrategy, "strategy", "default", "free-form strategy label")
	runCmd.Flags().IntVar(&runQuota, "quota", 0, "results to keep per ICP (default from config)")
	_ = runCmd.MarkFlagRequired("icp")
	rootCmd.AddCommand(runCmd)
}
