package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/dfsalloc/allocplot/internal/profiling"
	"github.com/dfsalloc/allocplot/logging"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

// rootCmd represents the base command when called without any subcommands
var (
	cfgFile     string
	stopProfile func() error

	rootCmd = &cobra.Command{
		Use:   "allocplot",
		Short: "A command-line utility for plotting allocation policy benchmarks.",
		Long: `allocplot renders charts from the CSV result files written by the
distributed file system allocation benchmark.

Each subcommand reads the result files it needs from the results directory
(--results) and writes one chart per metric to the output directory (--output).
Charts whose input files are missing or empty are skipped with a warning.
Use 'allocplot all' to render every chart.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: startProfiling,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	err = multierr.Append(err, stopProfiling())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.allocplot.yaml)")
	rootCmd.PersistentFlags().String("cue", "", "cue chart file overriding the flags")

	rootCmd.PersistentFlags().String("results", ".", "directory holding the result files")
	rootCmd.PersistentFlags().String("output", "plots", "directory to write charts to")
	rootCmd.PersistentFlags().String("format", "", "chart format: png, jpg, tif, pdf, svg, eps or csv (default per chart)")
	rootCmd.PersistentFlags().Int("dpi", 300, "resolution of raster charts")
	rootCmd.PersistentFlags().Float64("width", 10, "chart width in inches")
	rootCmd.PersistentFlags().Float64("height", 6, "chart height in inches")
	rootCmd.PersistentFlags().String("workload", "web_realistic", "workload tag in per-run result file names")

	rootCmd.PersistentFlags().String("log-level", "info", "sets the log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringSlice("log-pkgs", []string{}, "set the log level on a per-package basis.")

	rootCmd.PersistentFlags().String("cpu-profile", "", "file to write a CPU profile to")
	rootCmd.PersistentFlags().String("mem-profile", "", "file to write a memory profile to")
	rootCmd.PersistentFlags().String("trace", "", "file to write an execution trace to")
	rootCmd.PersistentFlags().String("fgprof-profile", "", "file to write an fgprof profile to")

	cobra.CheckErr(viper.BindPFlags(rootCmd.PersistentFlags()))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".allocplot" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".allocplot")
	}

	viper.SetEnvPrefix("allocplot")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	cobra.CheckErr(logging.SetLogLevel(viper.GetString("log-level")))

	for _, packageLevel := range viper.GetStringSlice("log-pkgs") {
		parts := strings.Split(packageLevel, ":")
		if len(parts) != 2 {
			cobra.CheckErr("log-pkgs flag must be a comma-separated list of package:level strings")
		}
		cobra.CheckErr(logging.SetPackageLogLevel(parts[0], parts[1]))
	}
}

func startProfiling(*cobra.Command, []string) error {
	stop, err := profiling.Start(profiling.Paths{
		CPU:    viper.GetString("cpu-profile"),
		Mem:    viper.GetString("mem-profile"),
		Trace:  viper.GetString("trace"),
		Fgprof: viper.GetString("fgprof-profile"),
	})
	if err != nil {
		return fmt.Errorf("failed to start profilers: %w", err)
	}
	stopProfile = stop
	return nil
}

func stopProfiling() error {
	if stopProfile == nil {
		return nil
	}
	stop := stopProfile
	stopProfile = nil
	if err := stop(); err != nil {
		return fmt.Errorf("failed to stop profilers: %w", err)
	}
	return nil
}
