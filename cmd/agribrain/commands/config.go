package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Madhu3782/Crop-Recommendation/pkg/cli"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `Manage CLI configuration and contexts.

Contexts allow you to keep several pipeline setups (providers, knowledge
files, index locations), similar to kubectl's context management.

Configuration is stored in ~/.agribrain/config.yaml`,
}

var configAddContextCmd = &cobra.Command{
	Use:   "add-context <name>",
	Short: "Add or replace a context",
	Long: `Add a context with the specified name. An existing context with the
same name is replaced.

Example:
  agribrain config add-context field --api-key sk-... --knowledge kb.csv
  agribrain config add-context groq --api-key gsk_... --embed-api-key sk-...
  agribrain config add-context cloud --provider gemini --api-key KEY \
      --index-store s3 --s3-bucket kb --s3-region us-east-1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		ctx := &cli.Context{}

		var err error
		str := func(name string, dst *string) {
			if err == nil {
				*dst, err = f.GetString(name)
			}
		}
		num := func(name string, dst *int) {
			if err == nil {
				*dst, err = f.GetInt(name)
			}
		}

		str("provider", &ctx.LLM.Provider)
		str("api-key", &ctx.LLM.APIKey)
		str("base-url", &ctx.LLM.BaseURL)
		str("model", &ctx.LLM.Model)
		num("timeout", &ctx.LLM.Timeout)
		str("embed-api-key", &ctx.Embedding.APIKey)
		str("embed-base-url", &ctx.Embedding.BaseURL)
		str("embed-model", &ctx.Embedding.Model)
		num("embed-dimension", &ctx.Embedding.Dimension)
		str("merged", &ctx.Knowledge.Merged)
		str("index-store", &ctx.Index.Store)
		str("index-dir", &ctx.Index.Dir)
		str("s3-bucket", &ctx.Index.Bucket)
		str("s3-prefix", &ctx.Index.Prefix)
		str("s3-region", &ctx.Index.Region)
		str("s3-endpoint", &ctx.Index.Endpoint)
		str("s3-access-key", &ctx.Index.AccessKey)
		str("s3-secret-key", &ctx.Index.SecretKey)
		str("cache", &ctx.Cache.Type)
		str("cache-dir", &ctx.Cache.Dir)
		str("redis-addr", &ctx.Cache.Addr)
		num("cache-ttl", &ctx.Cache.TTL)
		str("intent-model", &ctx.Models.Intent)
		str("entity-model", &ctx.Models.Entity)
		str("price-model", &ctx.Models.Price)
		str("crop-model", &ctx.Models.Crop)
		str("pest-model", &ctx.Models.Pest)
		num("top-k", &ctx.Pipeline.TopK)
		if err != nil {
			return fmt.Errorf("failed to read flags: %w", err)
		}

		if ctx.Knowledge.Files, err = f.GetStringSlice("knowledge"); err != nil {
			return fmt.Errorf("failed to read 'knowledge' flag: %w", err)
		}
		if ctx.Index.PathStyle, err = f.GetBool("s3-path-style"); err != nil {
			return fmt.Errorf("failed to read 's3-path-style' flag: %w", err)
		}
		if f.Changed("max-distance") {
			d, err := f.GetFloat64("max-distance")
			if err != nil {
				return fmt.Errorf("failed to read 'max-distance' flag: %w", err)
			}
			ctx.Pipeline.MaxDistance = &d
		}

		cfg := getConfig()
		if err := cfg.AddContext(args[0], ctx); err != nil {
			return err
		}
		if cfg.CurrentContext == "" {
			if err := cfg.UseContext(args[0]); err != nil {
				return err
			}
		}

		cli.PrintSuccess("Context %q added successfully", args[0])
		return nil
	},
}

var configDeleteContextCmd = &cobra.Command{
	Use:   "delete-context <name>",
	Short: "Delete a context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := getConfig().DeleteContext(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("Context %q deleted", args[0])
		return nil
	},
}

var configUseContextCmd = &cobra.Command{
	Use:   "use-context <name>",
	Short: "Set the current context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := getConfig().UseContext(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("Switched to context %q", args[0])
		return nil
	},
}

var configGetContextCmd = &cobra.Command{
	Use:   "get-context",
	Short: "Display the current context",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		if cfg.CurrentContext == "" {
			fmt.Println("No current context set")
			return nil
		}
		fmt.Println(cfg.CurrentContext)
		return nil
	},
}

var configListContextsCmd = &cobra.Command{
	Use:     "list-contexts",
	Aliases: []string{"get-contexts"},
	Short:   "List all contexts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		if len(cfg.Contexts) == 0 {
			fmt.Println("No contexts configured")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CURRENT\tNAME\tPROVIDER\tMODEL\tINDEX")
		for _, name := range cfg.ListContexts() {
			ctx := cfg.Contexts[name]
			current := ""
			if name == cfg.CurrentContext {
				current = "*"
			}
			model := ctx.LLM.Model
			if model == "" {
				model = "(default)"
			}
			store := ctx.Index.Store
			if store == "" {
				store = "local"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", current, name, ctx.Provider(), model, store)
		}
		return w.Flush()
	},
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "View the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()

		masked := make(map[string]*cli.Context, len(cfg.Contexts))
		for name, ctx := range cfg.Contexts {
			masked[name] = ctx.Masked()
		}
		return outputResult(struct {
			File           string                  `json:"file" yaml:"file"`
			CurrentContext string                  `json:"current_context" yaml:"current_context"`
			Contexts       map[string]*cli.Context `json:"contexts" yaml:"contexts"`
		}{cfg.Path(), cfg.CurrentContext, masked})
	},
}

func init() {
	f := configAddContextCmd.Flags()
	f.String("provider", "", "generation provider: openai (default, any compatible endpoint) or gemini")
	f.String("api-key", "", "generation API key (gsk_ keys select Groq)")
	f.String("base-url", "", "generation API base URL")
	f.String("model", "", "generation model")
	f.Int("timeout", 0, "generation timeout in seconds")
	f.String("embed-api-key", "", "embedding API key (default: OpenAI key)")
	f.String("embed-base-url", "", "embedding API base URL")
	f.String("embed-model", "", "embedding model")
	f.Int("embed-dimension", 0, "embedding dimension")
	f.StringSlice("knowledge", nil, "knowledge CSV files, merged in order")
	f.String("merged", "", "merged knowledge CSV path")
	f.String("index-store", "", "index store: local (default) or s3")
	f.String("index-dir", "", "local index directory")
	f.String("s3-bucket", "", "S3 bucket for index artifacts")
	f.String("s3-prefix", "", "S3 key prefix")
	f.String("s3-region", "", "S3 region")
	f.String("s3-endpoint", "", "S3-compatible endpoint URL")
	f.String("s3-access-key", "", "S3 access key")
	f.String("s3-secret-key", "", "S3 secret key")
	f.Bool("s3-path-style", false, "use path-style S3 addressing")
	f.String("cache", "", "translation cache: memory (default), badger, redis or none")
	f.String("cache-dir", "", "badger cache directory")
	f.String("redis-addr", "", "redis address")
	f.Int("cache-ttl", 0, "translation cache TTL in seconds (0 keeps forever)")
	f.String("intent-model", "", "intent model YAML file")
	f.String("entity-model", "", "entity gazetteer YAML file")
	f.String("price-model", "", "price model artifact enabling price insights")
	f.String("crop-model", "", "crop model artifact")
	f.String("pest-model", "", "pest model artifact")
	f.Int("top-k", 0, "number of context snippets retrieved")
	f.Float64("max-distance", 0, "context distance cutoff, 0 disables (default 1.5)")

	configCmd.AddCommand(configAddContextCmd)
	configCmd.AddCommand(configDeleteContextCmd)
	configCmd.AddCommand(configUseContextCmd)
	configCmd.AddCommand(configGetContextCmd)
	configCmd.AddCommand(configListContextsCmd)
	configCmd.AddCommand(configViewCmd)
}
