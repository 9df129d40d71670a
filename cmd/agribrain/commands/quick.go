package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Madhu3782/Crop-Recommendation/pkg/cli"
	"github.com/Madhu3782/Crop-Recommendation/pkg/keyword"
)

var quickCmd = &cobra.Command{
	Use:   "quick <question>",
	Short: "Answer from the knowledge base only",
	Long: `Answer a question with the best knowledge base match and no language
model. With an index the nearest question is used when it is close enough;
otherwise questions are scored by how many query words they contain.

Example:
  agribrain quick "tomato leaves turning yellow"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getContext()
		if err != nil {
			return err
		}
		eng, err := newKeywordEngine(cmd.Context(), c)
		if err != nil {
			return err
		}
		res := eng.Answer(cmd.Context(), strings.Join(args, " "))
		if outputJSON || outputFile != "" {
			return outputResult(res)
		}
		return cli.Output(res.Answer, cli.OutputOptions{Format: cli.FormatRaw})
	},
}

// newKeywordEngine builds the standalone engine without the generation or
// translation services.
func newKeywordEngine(ctx context.Context, c *cli.Context) (*keyword.Engine, error) {
	noServices := *c
	noServices.LLM = cli.LLMConfig{}
	noServices.Cache = cli.CacheConfig{Type: "none"}
	p, err := newPipeline(ctx, &noServices)
	if err != nil {
		return nil, err
	}
	return p.Keywords(), nil
}
