package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Madhu3782/Crop-Recommendation/pkg/brain"
	"github.com/Madhu3782/Crop-Recommendation/pkg/cli"
	"github.com/Madhu3782/Crop-Recommendation/pkg/stage"
	"github.com/Madhu3782/Crop-Recommendation/pkg/translate"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer one question through the full pipeline",
	Long: `Answer a question: translate it to English, detect intent and entities,
retrieve knowledge base context, add insights and generate the answer,
then translate the answer back.

Examples:
  agribrain ask "How to treat potato blight?"
  agribrain ask "ಆಲೂಗಡ್ಡೆ ರೋಗಕ್ಕೆ ಏನು ಮಾಡಬೇಕು?" --lang Kannada
  agribrain ask "When should I sell wheat?" --ml "Price Forecast=rising" --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringP("lang", "l", brain.DefaultLanguage, "answer language")
	askCmd.Flags().StringArray("ml", nil, "insight line as key=value (repeatable)")
	askCmd.Flags().String("ml-file", "", "YAML or JSON file of insight lines")
	askCmd.Flags().Bool("trace", false, "include per-stage outcomes in the output")
}

// askResult is the structured output of ask.
type askResult struct {
	brain.Response `yaml:",inline"`
	Trace          *brain.Trace `json:"trace,omitempty" yaml:"trace,omitempty"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	c, err := getContext()
	if err != nil {
		return err
	}
	lang, _ := cmd.Flags().GetString("lang")
	showTrace, _ := cmd.Flags().GetBool("trace")
	mlData, err := readMLData(cmd)
	if err != nil {
		return err
	}

	p, err := newPipeline(cmd.Context(), c)
	if err != nil {
		return err
	}
	defer p.Close()

	start := time.Now()
	resp, tr := p.Run(cmd.Context(), brain.Request{
		Query:    strings.Join(args, " "),
		MLData:   mlData,
		Language: lang,
	})

	if outputJSON || outputFile != "" {
		res := askResult{Response: resp}
		if showTrace {
			res.Trace = &tr
		}
		return outputResult(res)
	}
	fmt.Println(answerCard(resp, tr, time.Since(start)).Render(80))
	return nil
}

func readMLData(cmd *cobra.Command) (map[string]string, error) {
	out := map[string]string{}
	if path, _ := cmd.Flags().GetString("ml-file"); path != "" {
		m, err := cli.LoadMLData(path)
		if err != nil {
			return nil, err
		}
		for k, v := range m {
			out[k] = v
		}
	}
	pairs, _ := cmd.Flags().GetStringArray("ml")
	m, err := cli.ParseKeyValues(pairs)
	if err != nil {
		return nil, err
	}
	for k, v := range m {
		out[k] = v
	}
	return out, nil
}

// answerCard lays out a response for the terminal.
func answerCard(resp brain.Response, tr brain.Trace, took time.Duration) cli.Card {
	status := tr.Intent + " · " + cli.FormatDuration(took)
	if tr.Generation != stage.OK {
		status += " · " + tr.Generation.String()
	}
	card := cli.Card{
		Styles: cli.NewStyles(cli.DefaultTheme),
		Title:  "AgriBrain",
		Status: status,
	}
	if !translate.IsEnglish(resp.Language) && resp.AnswerTranslated != resp.AnswerEN {
		card.Sections = append(card.Sections, cli.Section{Label: resp.Language, Text: resp.AnswerTranslated})
	}
	card.Sections = append(card.Sections, cli.Section{Label: "English", Text: resp.AnswerEN})
	if verbose {
		card.Sections = append(card.Sections, cli.Section{Label: "Context", Text: strings.Join(tr.Context, "\n")})
	}
	return card
}
