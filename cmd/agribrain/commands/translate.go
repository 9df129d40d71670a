package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Madhu3782/Crop-Recommendation/pkg/cli"
	"github.com/Madhu3782/Crop-Recommendation/pkg/stage"
)

var translateCmd = &cobra.Command{
	Use:   "translate <text>",
	Short: "Translate text",
	Long: `Translate text with the configured language service. On failure the
input is printed unchanged.

Example:
  agribrain translate --to Hindi "Irrigate at crown root initiation."`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getContext()
		if err != nil {
			return err
		}
		to, _ := cmd.Flags().GetString("to")
		if to == "" {
			return fmt.Errorf("--to is required")
		}

		completer, err := newCompleter(cmd.Context(), c)
		if err != nil {
			return err
		}
		tr, closer, err := newTranslator(cmd.Context(), c, completer)
		if err != nil {
			return err
		}
		defer closer.Close()

		out, outcome := tr.Translate(cmd.Context(), strings.Join(args, " "), to)
		if outcome == stage.Degraded || outcome == stage.Unavailable {
			cli.PrintWarning("translation %s, showing input", outcome)
		}
		if outputJSON || outputFile != "" {
			return outputResult(map[string]string{"language": to, "text": out, "outcome": outcome.String()})
		}
		return cli.Output(out, cli.OutputOptions{Format: cli.FormatRaw})
	},
}

func init() {
	translateCmd.Flags().String("to", "", "target language")
}
