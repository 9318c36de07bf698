package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"dcf-engine/internal/expr"
	"dcf-engine/internal/model"
	"dcf-engine/internal/segment"
)

var (
	evalT int
	evalY float64
)

var evalCmd = &cobra.Command{
	Use:   "eval <expression>",
	Short: "Evaluate a single expression at period t with state y",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if _, err := expr.Parse(args[0]); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v; evaluating as 0\n", err)
		}
		v := expr.Evaluate(args[0], evalT, evalY)
		kind := segment.KindOf(model.Segment{Expression: args[0]})
		fmt.Fprintf(out, "%s\t(%s)\n", strconv.FormatFloat(v, 'g', -1, 64), kind)
		return nil
	},
}

func init() {
	evalCmd.Flags().IntVar(&evalT, "t", 0, "period index")
	evalCmd.Flags().Float64Var(&evalY, "y", 0, "state value")
}
