// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperfetch/internal/classify"
	"github.com/pdiddy/paperfetch/internal/identify"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [identifiers...]",
	Short: "Show how identifiers parse and whether their DOIs would be rejected",
	Long: `Classify parses each identifier and, for DOIs, reports the work type
and any paywall or rejection heuristics that would apply during a fetch.
No network requests are made.`,
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more identifiers")
	}

	for _, arg := range args {
		id := identify.Parse(arg)
		fmt.Fprintf(os.Stdout, "%s\n  kind: %s\n", arg, id.Kind)
		if id.ArxivID != "" {
			fmt.Fprintf(os.Stdout, "  arxiv: %s\n", id.ArxivID)
		}
		if id.DOI == "" {
			continue
		}

		c := classify.Classify(id.DOI)
		fmt.Fprintf(os.Stdout, "  doi: %s\n  type: %s\n", id.DOI, c.Type)
		if c.Publisher != "" {
			fmt.Fprintf(os.Stdout, "  publisher: %s\n", c.Publisher)
		}
		if c.Warning != "" {
			fmt.Fprintf(os.Stdout, "  warning: %s\n", c.Warning)
		}
		if bad, reason := classify.IsProblematic(id.DOI); bad {
			fmt.Fprintf(os.Stdout, "  rejected: %s\n", reason)
		}
	}
	return nil
}
