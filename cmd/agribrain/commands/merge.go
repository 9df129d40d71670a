package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Madhu3782/Crop-Recommendation/pkg/cli"
	"github.com/Madhu3782/Crop-Recommendation/pkg/knowledge"
)

var mergeCmd = &cobra.Command{
	Use:   "merge [csv...]",
	Short: "Merge knowledge CSV files",
	Long: `Merge knowledge CSV files into one table.

Files are read in order; when a question appears more than once the last
occurrence wins. Missing files are skipped. Without arguments the context's
knowledge files are used (default agriculture_knowledge.csv and
agriculture_knowledge_pro.csv).

Examples:
  agribrain merge
  agribrain merge a.csv b.csv --out kb.csv --sqlite kb.db`,
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().String("out", "", "merged CSV path (default: context merged path)")
	mergeCmd.Flags().String("sqlite", "", "also export the merged table to this SQLite database")
}

type mergeResult struct {
	Output  string   `json:"output" yaml:"output"`
	Records int      `json:"records" yaml:"records"`
	Skipped []string `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	SQLite  string   `json:"sqlite,omitempty" yaml:"sqlite,omitempty"`
}

func runMerge(cmd *cobra.Command, args []string) error {
	c, err := getContext()
	if err != nil {
		return err
	}
	sources := args
	if len(sources) == 0 {
		sources = knowledgeSources(c)
	}
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = mergedPath(c)
	}
	sqlitePath, _ := cmd.Flags().GetString("sqlite")

	records, skipped, err := knowledge.Merge(sources...)
	if err != nil {
		return err
	}
	for _, p := range skipped {
		cli.PrintWarning("%s not found, skipped", p)
	}
	if len(records) == 0 {
		return fmt.Errorf("no records found in %v", sources)
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	if err := knowledge.WriteCSV(f, records); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	if sqlitePath != "" {
		db, err := knowledge.OpenSQLite(sqlitePath)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := knowledge.SaveSQL(cmd.Context(), db, knowledge.NewTable(records)); err != nil {
			return err
		}
	}

	return outputResult(mergeResult{Output: out, Records: len(records), Skipped: skipped, SQLite: sqlitePath})
}
