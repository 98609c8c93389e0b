package chatlens

import (
	"encoding/json"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/whoamihappyhacking/chatlens/internal/analysis"
	"github.com/whoamihappyhacking/chatlens/internal/chatlens"
)

var (
	reportYear    int
	reportRefresh bool
	reportPretty  bool
)

func init() {
	reportCmd.Flags().IntVarP(&reportYear, "year", "y", 0, "calendar year, 0 for all time")
	reportCmd.Flags().BoolVar(&reportRefresh, "refresh", false, "ignore the cache and recompute")
	reportCmd.Flags().BoolVar(&reportPretty, "pretty", false, "indent the JSON output")
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the relationship report as JSON",
	Example: `chatlens report -d ./data
chatlens report -d ./data --year 2024 --pretty`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		scope := analysis.AllTime()
		if reportYear != 0 {
			s, err := analysis.ParseScope(strconv.Itoa(reportYear))
			if err != nil {
				return err
			}
			scope = s
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		m := chatlens.New(cfg)
		if err := m.Open(cmd.Context()); err != nil {
			return err
		}
		defer m.Close()

		bundle, err := m.Report(cmd.Context(), scope, reportRefresh)
		if err != nil {
			return err
		}
		if len(bundle.Skipped) > 0 {
			log.Warn().Int("count", len(bundle.Skipped)).Msg("some contacts were skipped")
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		if reportPretty {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(bundle)
	},
}
