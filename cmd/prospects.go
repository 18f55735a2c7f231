package main

import (
	"github.com/spf13/cobra"

	"github.com/ilaydaydemir/rei-prospect-finder/internal/model"
	"github.com/ilaydaydemir/rei-prospect-finder/internal/pipeline"
	"github.com/ilaydaydemir/rei-prospect-finder/internal/store"
)

var (
	prospectsWorkspace  string
	prospectsICP        string
	prospectsConfidence string
	prospectsHeat       string
	prospectsState      string
)

var prospectsCmd = &cobra.Command{
	Use:   "prospects",
	Short: "List persisted prospects",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		workspace := prospectsWorkspace
		if workspace == "" {
			workspace = cfg.Run.Workspace
		}

		filter := store.ProspectFilter{
			ICP:        prospectsICP,
			Confidence: model.Confidence(prospectsConfidence),
			IntentHeat: model.IntentHeat(prospectsHeat),
			GeoState:   prospectsState,
		}

		prospects, err := pipeline.ListProspects(ctx, st, workspace, filter)
		if err != nil {
			return err
		}

		return printJSON(map[string]any{"prospects": prospects})
	},
}

func init() {
	prospectsCmd.Flags().StringVar(&prospectsWorkspace, "workspace", "", "workspace ID (default from config)")
	prospectsCmd.Flags().StringVar(&prospectsICP, "icp", "", "filter by ICP")
	prospectsCmd.Flags().StringVar(&prospectsConfidence, "confidence", "", "filter by confidence tier (high|medium|low)")
	prospectsCmd.Flags().StringVar(&prospectsHeat, "heat", "", "filter by intent heat (cold|warm|hot)")
	prospectsCmd.Flags().StringVar(&prospectsState, "state", "", "filter by geographic state")
	rootCmd.AddCommand(prospectsCmd)
}
