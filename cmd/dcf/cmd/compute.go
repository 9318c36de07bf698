package cmd

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dcf-engine/internal/engine"
	"dcf-engine/internal/logging"
	"dcf-engine/internal/model"
	"dcf-engine/internal/report"
	"dcf-engine/internal/snapshot"
)

var (
	computeFormat      string
	computePlotPeriods int
	computeMethod      string
	computePlaces      int32
)

var computeCmd = &cobra.Command{
	Use:   "compute <model-file>",
	Short: "Compute the discounted cash flow of a saved model",
	Long: `Load a model (JSON, YAML or a desktop-app save file) and print its
cash-flow series, terminal value and total DCF.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompute,
}

func init() {
	computeCmd.Flags().StringVarP(&computeFormat, "format", "f", "table", "output format (table, json)")
	computeCmd.Flags().IntVar(&computePlotPeriods, "plot-periods", -1, "override the number of projected terminal periods")
	computeCmd.Flags().StringVar(&computeMethod, "method", "", "override the ODE method (rk4, dopri5)")
	computeCmd.Flags().Int32Var(&computePlaces, "places", report.DefaultPlaces, "decimals shown in the table")
}

func runCompute(cmd *cobra.Command, args []string) error {
	m, format, err := snapshot.Load(args[0])
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	logging.L().Debug("model loaded", zap.String("path", args[0]), zap.String("format", string(format)),
		zap.Int("segments", len(m.Segments)))

	if computePlotPeriods >= 0 {
		m.PlotPeriods = computePlotPeriods
	}
	if computeMethod != "" {
		m.ODEMethod = computeMethod
	}

	res, msgs := engine.Compute(m, cfg.SeriesOptions())
	out := cmd.OutOrStdout()

	switch computeFormat {
	case "json":
		body, err := json.MarshalIndent(struct {
			Result   *model.ComputationResult   `json:"result"`
			Messages []model.CalculationMessage `json:"messages"`
		}{res, msgs}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(body))
	case "table":
		if err := report.Write(out, res, msgs, computePlaces); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown output format %q", computeFormat)
	}

	if res == nil {
		return fmt.Errorf("model is invalid")
	}
	return nil
}
