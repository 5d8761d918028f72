// Command whiff trains per-pitch-class swing-and-miss classifiers from a
// pitch-tracking export and prints their evaluation reports.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pitchlab/whiff/internal/pipeline"
)

var rootCmd = &cobra.Command{
	Use:   "whiff",
	Short: "Train and evaluate whiff-probability models per pitch type",
	Long: "whiff cleans a pitch-tracking CSV into swing records, partitions them by\n" +
		"pitch class, and trains a gradient-boosted whiff classifier per class with\n" +
		"and without plate-location features, reporting accuracy and calibration.",
	RunE:          runTrain,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().String("data", "", "Path to the pitch-tracking CSV export (required)")
	rootCmd.Flags().String("charts", "charts", "Directory for diagnostic chart PNGs")
	rootCmd.Flags().Bool("no-charts", false, "Skip rendering charts")
	rootCmd.Flags().Uint64("seed", 42, "Seed for splits and boosting; fixes the batch exactly")
	rootCmd.Flags().String("log-level", "info", "Log level: debug, info, warn, error")
	_ = rootCmd.MarkFlagRequired("data")
}

func runTrain(cmd *cobra.Command, _ []string) error {
	dataPath, _ := cmd.Flags().GetString("data")
	chartDir, _ := cmd.Flags().GetString("charts")
	noCharts, _ := cmd.Flags().GetBool("no-charts")
	seed, _ := cmd.Flags().GetUint64("seed")
	levelName, _ := cmd.Flags().GetString("log-level")

	level, err := zerolog.ParseLevel(levelName)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", levelName, err)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	summary, err := pipeline.Run(cmd.Context(), pipeline.Config{
		DataPath: dataPath,
		ChartDir: chartDir,
		Charts:   !noCharts,
		Seed:     seed,
		Out:      os.Stdout,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	if summary.Skipped() > 0 {
		logger.Warn().Int("skipped", summary.Skipped()).Msg("some runs were skipped; see diagnostics above")
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "whiff:", err)
		os.Exit(1)
	}
}
