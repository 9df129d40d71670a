package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Madhu3782/Crop-Recommendation/pkg/cli"
	"github.com/Madhu3782/Crop-Recommendation/pkg/kbindex"
	"github.com/Madhu3782/Crop-Recommendation/pkg/knowledge"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build and inspect the knowledge index",
}

var indexBuildCmd = &cobra.Command{
	Use:   "build [csv]",
	Short: "Embed the knowledge base and store the index",
	Long: `Embed every question of the knowledge CSV and write the index
artifacts (kb.index and kb.meta) to the context's index store.

The CSV defaults to the context's merged path (unified_knowledge_base.csv).
Use --sqlite to read the table from a database written by 'merge --sqlite'.

Examples:
  agribrain index build
  agribrain index build kb.csv --batch 128 --parallel 8`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndexBuild,
}

var indexInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the stored index",
	RunE:  runIndexInfo,
}

func init() {
	indexBuildCmd.Flags().Int("batch", 64, "questions per embedding request")
	indexBuildCmd.Flags().Int("parallel", 4, "concurrent embedding requests")
	indexBuildCmd.Flags().String("sqlite", "", "read records from this SQLite database")

	indexCmd.AddCommand(indexBuildCmd)
	indexCmd.AddCommand(indexInfoCmd)
}

type indexInfo struct {
	Store    string `json:"store" yaml:"store"`
	Records  int    `json:"records" yaml:"records"`
	Dim      int    `json:"dim,omitempty" yaml:"dim,omitempty"`
	Duration string `json:"duration,omitempty" yaml:"duration,omitempty"`
}

func runIndexBuild(cmd *cobra.Command, args []string) error {
	c, err := getContext()
	if err != nil {
		return err
	}
	emb := newEmbedder(c)
	if emb == nil {
		return fmt.Errorf("no embedding API key configured (set embedding.api_key or %s)", cli.EnvEmbedKey)
	}
	st, err := newStore(c)
	if err != nil {
		return err
	}

	tbl, err := readBuildTable(cmd, c, args)
	if err != nil {
		return err
	}
	batch, _ := cmd.Flags().GetInt("batch")
	parallel, _ := cmd.Flags().GetInt("parallel")

	start := time.Now()
	ix, err := kbindex.Build(cmd.Context(), tbl, emb, &kbindex.BuildOptions{BatchSize: batch, Parallel: parallel})
	if err != nil {
		return err
	}
	if err := kbindex.Save(cmd.Context(), st, ix); err != nil {
		return err
	}
	return outputResult(indexInfo{
		Store:    st.String(),
		Records:  ix.Len(),
		Dim:      ix.Dim(),
		Duration: cli.FormatDuration(time.Since(start)),
	})
}

func readBuildTable(cmd *cobra.Command, c *cli.Context, args []string) (*knowledge.Table, error) {
	if dbPath, _ := cmd.Flags().GetString("sqlite"); dbPath != "" {
		db, err := knowledge.OpenSQLite(dbPath)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return knowledge.LoadSQL(cmd.Context(), db)
	}
	path := mergedPath(c)
	if len(args) == 1 {
		path = args[0]
	}
	recs, err := knowledge.ReadCSVFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w (run 'agribrain merge' first)", err)
	}
	return knowledge.NewTable(recs), nil
}

func runIndexInfo(cmd *cobra.Command, args []string) error {
	c, err := getContext()
	if err != nil {
		return err
	}
	st, err := newStore(c)
	if err != nil {
		return err
	}
	ix, err := kbindex.Load(cmd.Context(), st, 0)
	if err != nil {
		return err
	}
	return outputResult(indexInfo{Store: st.String(), Records: ix.Len(), Dim: ix.Dim()})
}
