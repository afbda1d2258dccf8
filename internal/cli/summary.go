package cli

import (
	"fmt"

	"github.com/dfsalloc/allocplot/internal/aggregate"
	"github.com/dfsalloc/allocplot/internal/config"
	"github.com/dfsalloc/allocplot/internal/report"
	"github.com/dfsalloc/allocplot/logging"
	"github.com/spf13/cobra"
)

var summaryOpts report.SummaryOptions

// summaryCmd represents the summary command
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print a metric of a result file as tables.",
	Long: `The summary command prints one metric of a result file as a table with one
row per key and one column per x value, followed by per-key statistics
(count, mean, standard deviation, minimum, maximum and last value).`,
	Example: `  allocplot summary --file results_scaling_summary.csv --x num_nodes --metric load_imbalance
  allocplot summary --file fill/results_fill_rand_web_realistic_8nodes.csv --key policy --x fill_pct --metric load_std_dev`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.NewViper()
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}
		env := report.NewEnv(fs, cfg, logging.New("summary"))
		return report.Summary(env, cmd.OutOrStdout(), summaryOpts)
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)

	summaryCmd.Flags().StringVar(&summaryOpts.File, "file", "", "result file, relative to the results directory")
	summaryCmd.Flags().StringSliceVar(&summaryOpts.Keys, "key", []string{aggregate.ColPolicy}, "key columns: policy, distribution, num_nodes")
	summaryCmd.Flags().StringVar(&summaryOpts.X, "x", aggregate.ColNodes, "column of the independent variable")
	summaryCmd.Flags().StringVar(&summaryOpts.Metric, "metric", "", "metric column")
	cobra.CheckErr(summaryCmd.MarkFlagRequired("file"))
	cobra.CheckErr(summaryCmd.MarkFlagRequired("metric"))
}
