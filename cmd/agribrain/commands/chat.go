package commands

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Madhu3782/Crop-Recommendation/pkg/brain"
	"github.com/Madhu3782/Crop-Recommendation/pkg/cli"
	"github.com/Madhu3782/Crop-Recommendation/pkg/kbindex"
	"github.com/Madhu3782/Crop-Recommendation/pkg/storage"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive question loop",
	Long: `Read questions from standard input and answer each one.

Lines starting with ':' are commands:
  :lang <language>   change the answer language
  :caps              show which components are active
  :quit              exit

With --watch and a local index store, the index is reloaded whenever
'agribrain index build' rewrites it.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringP("lang", "l", brain.DefaultLanguage, "answer language")
	chatCmd.Flags().Bool("watch", false, "reload the index when its files change")
}

func runChat(cmd *cobra.Command, args []string) error {
	c, err := getContext()
	if err != nil {
		return err
	}
	lang, _ := cmd.Flags().GetString("lang")
	watch, _ := cmd.Flags().GetBool("watch")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	p, err := newPipeline(ctx, c)
	if err != nil {
		return err
	}
	defer p.Close()

	if watch {
		if err := startWatch(ctx, p); err != nil {
			return err
		}
	}

	styles := cli.NewStyles(cli.DefaultTheme)
	fmt.Println(styles.Help.Render("Ask a farming question. :lang <language>, :caps, :quit"))

	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(styles.Label.Render("> "))
		if !in.Scan() {
			fmt.Println()
			return in.Err()
		}
		line := strings.TrimSpace(in.Text())
		switch {
		case line == "":
			continue
		case line == ":quit" || line == ":q":
			return nil
		case strings.HasPrefix(line, ":lang"):
			if l := strings.TrimSpace(strings.TrimPrefix(line, ":lang")); l != "" {
				lang = l
			}
			cli.PrintInfo("language: %s", lang)
			continue
		case line == ":caps":
			if err := cli.Output(p.Capabilities(), cli.OutputOptions{}); err != nil {
				return err
			}
			continue
		}

		start := time.Now()
		resp, tr := p.Run(ctx, brain.Request{Query: line, Language: lang})
		fmt.Println(answerCard(resp, tr, time.Since(start)).Render(80))
	}
}

// startWatch reloads the index into p whenever the local artifacts change.
func startWatch(ctx context.Context, p *pipeline) error {
	emb := p.embedder
	local, ok := p.store.(*storage.Local)
	if !ok {
		return fmt.Errorf("--watch needs a local index store, have %s", p.store)
	}
	if emb == nil {
		return fmt.Errorf("--watch needs an embedding API key")
	}
	reload := func() {
		ix, err := kbindex.Load(ctx, local, emb.Dimension())
		if err != nil {
			slog.Warn("index reload failed, keeping current index", "err", err)
			return
		}
		if err := p.SwapIndex(ix); err != nil {
			slog.Warn("index rejected", "err", err)
		}
	}
	go func() {
		if err := kbindex.Watch(ctx, local.Dir(), 500*time.Millisecond, reload); err != nil && ctx.Err() == nil {
			slog.Error("index watcher stopped", "err", err)
		}
	}()
	return nil
}
