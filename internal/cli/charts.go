package cli

import (
	"fmt"

	"github.com/dfsalloc/allocplot/internal/config"
	"github.com/dfsalloc/allocplot/internal/report"
	"github.com/dfsalloc/allocplot/logging"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// fs is the file system charts are read from and written to.
var fs = afero.NewOsFs()

// allCmd represents the all command
var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Render every chart.",
	Long: `The all command runs every chart command in turn.
Charts whose inputs are missing are skipped with a warning; the command
fails only if a chart could not be rendered from the inputs it found.`,
	Args: cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		return runJobs(nil, report.Jobs()...)
	},
}

func init() {
	rootCmd.AddCommand(allCmd)

	for _, job := range report.Jobs() {
		cmd := &cobra.Command{
			Use:   job.Name,
			Short: job.Short + ".",
			Args:  cobra.NoArgs,
			// bind the command's own flags only when it runs, since several
			// commands share flag names
			PreRunE: func(cmd *cobra.Command, _ []string) error {
				return viper.BindPFlags(cmd.Flags())
			},
			RunE: func(cmd *cobra.Command, _ []string) error {
				metrics, err := metricsFlag(cmd)
				if err != nil {
					return err
				}
				return runJobs(metrics, job)
			},
		}
		switch job.Name {
		case "fill":
			cmd.Flags().IntSlice("nodes", nil, "only plot runs with these node counts")
			cmd.Flags().StringSlice("metrics", nil, "metric columns to plot")
		case "compare":
			cmd.Flags().Int("compare-nodes", 8, "node count of the runs to compare")
		case "tune":
			cmd.Flags().Float64("default-threshold", 4, "default fileaware threshold to mark, in blocks")
			cmd.Flags().StringSlice("metrics", nil, "metric columns to plot")
		case "dist", "blocks", "scaling":
			cmd.Flags().StringSlice("metrics", nil, "metric columns to plot")
		}
		rootCmd.AddCommand(cmd)
	}
}

// metricsFlag returns the --metrics override of a chart command. Only the
// command line sets it: a list from the environment or the config file would
// apply to every chart run by all.
func metricsFlag(cmd *cobra.Command) ([]string, error) {
	if cmd.Flags().Lookup("metrics") == nil {
		return nil, nil
	}
	return cmd.Flags().GetStringSlice("metrics")
}

func runJobs(metrics []string, jobs ...report.Job) error {
	cfg, err := config.NewViper()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	cfg.Metrics = metrics
	log := logging.New("allocplot")
	log.Debugf("config: %s", cfg)

	env := report.NewEnv(fs, cfg, log)
	err = report.Run(env, jobs...)
	log.Infof("%d chart(s) saved to %s", len(env.Saved), cfg.OutputDir)
	return err
}
