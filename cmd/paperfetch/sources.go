// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperfetch/internal/ratelimit"
	"github.com/pdiddy/paperfetch/internal/sources"
	"github.com/pdiddy/paperfetch/pkg/types"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the source chain in the order a fetch would try it",
	RunE:  runSources,
}

func init() {
	sourcesCmd.Flags().Bool("allow-unofficial", false, "include unofficial mirror sources")
	sourcesCmd.Flags().String("unpaywall-email", "", "contact email for Unpaywall")
	sourcesCmd.Flags().String("proxy-url", "", "institutional access gateway URL")
	sourcesCmd.Flags().String("websearch-url", "", "HTML search endpoint for the web-search source")

	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, args []string) error {
	allowUnofficial, _ := cmd.Flags().GetBool("allow-unofficial")
	unpaywallEmail, _ := cmd.Flags().GetString("unpaywall-email")
	proxyURL, _ := cmd.Flags().GetString("proxy-url")
	websearchURL, _ := cmd.Flags().GetString("websearch-url")

	srcCfgs := types.DefaultSourceConfigs()
	if allowUnofficial {
		for _, name := range []string{"proxy", "websearch", "mirror"} {
			sc := srcCfgs[name]
			sc.Enabled = true
			srcCfgs[name] = sc
		}
	}
	cfg := types.RetrieverConfig{
		Sources:          srcCfgs,
		AllowUnofficial:  allowUnofficial,
		UnpaywallEmail:   secretDefault("unpaywall-email", unpaywallEmail),
		ProxyBaseURL:     proxyURL,
		WebSearchBaseURL: websearchURL,
	}

	reg := sources.NewRegistry(&http.Client{}, cfg)
	intervals := reg.RateIntervals()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SOURCE\tPRIORITY\tRATE INTERVAL")
	for _, src := range reg.Ordered() {
		interval := intervals[src.Name()]
		if interval == 0 {
			interval = ratelimit.DefaultInterval
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", src.Name(), srcCfgs[src.Name()].Priority, interval)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	var skipped []string
	for name, sc := range srcCfgs {
		if sc.Enabled && reg.Lookup(name) == nil {
			skipped = append(skipped, name)
		}
	}
	sort.Strings(skipped)
	for _, name := range skipped {
		fmt.Fprintf(os.Stdout, "skipped: %s (missing credentials or endpoint)\n", name)
	}
	return nil
}
