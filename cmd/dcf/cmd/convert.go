package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"dcf-engine/internal/snapshot"
)

var convertTo string

var convertCmd = &cobra.Command{
	Use:   "convert <input> <output>",
	Short: "Convert a model between JSON, YAML and the desktop save format",
	Long: `Read a model in any supported format and write it to output. The output
format is taken from --to, or from the output extension (.yaml/.yml for
YAML, JSON otherwise).`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, from, err := snapshot.Load(args[0])
		if err != nil {
			return fmt.Errorf("load model: %w", err)
		}

		to := snapshot.FormatJSON
		if convertTo != "" {
			if to, err = snapshot.ParseFormat(convertTo); err != nil {
				return err
			}
		} else if ext := strings.ToLower(filepath.Ext(args[1])); ext == ".yaml" || ext == ".yml" {
			to = snapshot.FormatYAML
		}

		if err := snapshot.Save(args[1], m, to); err != nil {
			return fmt.Errorf("save model: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "converted %s (%s) to %s (%s)\n", args[0], from, args[1], to)
		return nil
	},
}

func init() {
	convertCmd.Flags().StringVar(&convertTo, "to", "", "output format (json, yaml, legacy)")
}
