// Package main provides the agribrain CLI tool.
//
// Usage:
//
//	agribrain [flags] <command> [args]
//
// Commands:
//
//	merge      - Merge knowledge CSV files
//	index      - Build and inspect the knowledge index
//	ask        - Answer one question through the full pipeline
//	quick      - Answer from the knowledge base only
//	translate  - Translate text
//	chat       - Interactive question loop
//	config     - Configuration management
//
// Configuration:
//
//	The CLI stores configuration in ~/.agribrain/
//	Use 'agribrain config' commands to manage contexts.
package main

import (
	"fmt"
	"os"

	"github.com/Madhu3782/Crop-Recommendation/cmd/agribrain/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
