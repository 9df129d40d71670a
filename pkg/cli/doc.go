// Package cli provides the configuration, output and terminal helpers
// shared by the agribrain commands.
//
// Configuration is stored in ~/.agribrain/config.yaml and holds named
// contexts, similar to kubectl. A context selects the generation
// provider, the embedding model, where the knowledge files and index
// artifacts live, and how translations are cached.
//
// Example usage:
//
//	cfg, err := cli.LoadConfig()
//	ctx, err := cfg.ResolveContext("")
//
//	cli.Output(result, cli.OutputOptions{
//	    Format: cli.FormatJSON,
//	    File:   outputPath,
//	})
package cli
