// Package cmd implements the dcf command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dcf-engine/internal/config"
	"dcf-engine/internal/logging"
)

var (
	cfgFile string
	verbose bool

	cfg = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "dcf",
	Short: "Evaluate piecewise cash-flow models and their discounted value",
	Long: `dcf computes discounted cash-flow models made of constant, time-dependent
and ODE-driven segments closed by a growing perpetuity.

Examples:
  dcf compute model.yaml
  dcf compute --format json --plot-periods 20 saved.json
  dcf eval "0.05 * y" --t 3 --y 100
  dcf convert saved.json model.yaml
  dcf serve`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (default $DCF_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(computeCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFile(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if verbose {
		cfg.Log.Level = "debug"
	}
	if err := logging.Initialize(cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
	return nil
}

// Version is overridden at build time with -ldflags "-X".
var Version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "dcf version %s\n", Version)
	},
}
