// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperfetch/internal/batch"
	"github.com/pdiddy/paperfetch/internal/catalog"
	"github.com/pdiddy/paperfetch/internal/ratelimit"
	"github.com/pdiddy/paperfetch/internal/resolve"
	"github.com/pdiddy/paperfetch/internal/retrieve"
	"github.com/pdiddy/paperfetch/internal/sources"
	"github.com/pdiddy/paperfetch/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultDelay     = 1 * time.Second
	defaultUserAgent = "paperfetch/0.1"

	logsDirName    = "logs"
	catalogDirName = "catalog"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [identifiers...]",
	Short: "Download paper PDFs from DOIs, arXiv IDs, titles, or URLs",
	Long: `Fetch resolves each identifier to metadata, then walks the source chain
in priority order until one delivers a PDF that validates. Identifiers can
be given as arguments or read from a file with --input, one per line.

Batch runs record completed papers in a progress file and skip them on
the next invocation.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("input", "", "file with one identifier per line ('#' comments allowed)")
	fetchCmd.Flags().String("output-dir", "papers", "base directory for downloaded PDFs")
	fetchCmd.Flags().String("template", "", "filename template ({first_author}, {year}, {title_short}, {doi})")
	fetchCmd.Flags().Bool("subfolders", false, "give each paper its own subdirectory")
	fetchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	fetchCmd.Flags().Duration("delay", 0, "delay between papers in sequential mode (default 1s)")
	fetchCmd.Flags().Int("max-concurrent", 1, "papers retrieved at once")
	fetchCmd.Flags().Bool("skip-existing", true, "skip papers whose PDF is already on disk")
	fetchCmd.Flags().Bool("allow-unofficial", false, "include unofficial mirror sources in the chain")
	fetchCmd.Flags().String("progress-file", "progress.json", "resume file, relative to the output directory")
	fetchCmd.Flags().String("unpaywall-email", "", "contact email for Unpaywall (or .secrets/unpaywall-email)")
	fetchCmd.Flags().String("openalex-email", "", "contact email for the OpenAlex polite pool (or .secrets/openalex-email)")
	fetchCmd.Flags().String("s2-api-key", "", "Semantic Scholar API key (or .secrets/semantic-scholar-api-key)")
	fetchCmd.Flags().String("proxy-url", "", "institutional access gateway URL")
	fetchCmd.Flags().String("websearch-url", "", "HTML search endpoint for the web-search source")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	inputs := args
	if inputFile, _ := cmd.Flags().GetString("input"); inputFile != "" {
		fromFile, err := readIdentifierFile(inputFile)
		if err != nil {
			return err
		}
		inputs = append(inputs, fromFile...)
	}
	if len(inputs) == 0 {
		return fmt.Errorf("provide one or more identifiers (DOIs, arXiv IDs, titles, URLs) or --input FILE")
	}

	cfg := retrieverConfigFromFlags(cmd)
	client := &http.Client{Timeout: cfg.Timeout}

	reg := sources.NewRegistry(client, cfg)
	if len(reg.Ordered()) == 0 {
		return fmt.Errorf("no sources enabled")
	}
	limiter := ratelimit.New(reg.RateIntervals(), cfg.DefaultRateInterval)
	resolver := resolve.New(reg, limiter, os.Stdout)

	retriever := retrieve.New(retrieve.Options{
		Config:   cfg,
		Chain:    reg,
		Resolver: resolver,
		Limiter:  limiter,
		Client:   client,
		LogDir:   filepath.Join(cfg.Output.Dir, logsDirName),
		Console:  os.Stdout,
	})

	maxConcurrent, _ := cmd.Flags().GetInt("max-concurrent")
	delay, _ := cmd.Flags().GetDuration("delay")
	if delay == 0 {
		delay = defaultDelay
	}
	progressFile, _ := cmd.Flags().GetString("progress-file")
	if !filepath.IsAbs(progressFile) {
		progressFile = filepath.Join(cfg.Output.Dir, progressFile)
	}

	progress, err := batch.LoadProgress(progressFile)
	if err != nil {
		return err
	}

	coordinator := batch.New(retriever, types.BatchConfig{
		MaxConcurrent:   maxConcurrent,
		SequentialDelay: delay,
		ProgressFile:    progressFile,
	}, progress, os.Stdout)

	results := coordinator.Run(cmd.Context(), inputs)

	recordResults(cfg.Output.Dir, results)
	return summarize(os.Stdout, results)
}

// retrieverConfigFromFlags assembles the retriever configuration from
// flags, falling back to loaded secrets for credentials.
func retrieverConfigFromFlags(cmd *cobra.Command) types.RetrieverConfig {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	outputDir, _ := cmd.Flags().GetString("output-dir")
	template, _ := cmd.Flags().GetString("template")
	subfolders, _ := cmd.Flags().GetBool("subfolders")
	skipExisting, _ := cmd.Flags().GetBool("skip-existing")
	allowUnofficial, _ := cmd.Flags().GetBool("allow-unofficial")
	unpaywallEmail, _ := cmd.Flags().GetString("unpaywall-email")
	openalexEmail, _ := cmd.Flags().GetString("openalex-email")
	s2Key, _ := cmd.Flags().GetString("s2-api-key")
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

	return types.RetrieverConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		Sources:               srcCfgs,
		DefaultRateInterval:   ratelimit.DefaultInterval,
		Output:                types.OutputConfig{Dir: outputDir, FilenameTemplate: template, Subfolders: subfolders},
		SkipExisting:          skipExisting,
		AllowUnofficial:       allowUnofficial,
		SemanticScholarAPIKey: secretDefault("semantic-scholar-api-key", s2Key),
		UnpaywallEmail:        secretDefault("unpaywall-email", unpaywallEmail),
		OpenAlexEmail:         secretDefault("openalex-email", openalexEmail),
		ProxyBaseURL:          proxyURL,
		WebSearchBaseURL:      websearchURL,
	}
}

// readIdentifierFile loads identifiers from a file, one per line. Blank
// lines and '#' comments are ignored.
func readIdentifierFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input file: %w", err)
	}
	defer f.Close()

	var ids []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input file: %w", err)
	}
	return ids, nil
}

// recordResults appends outcomes to the catalog; catalog trouble never
// fails the run.
func recordResults(outputDir string, results []*types.RetrievalResult) {
	store, err := catalog.Open(filepath.Join(outputDir, catalogDirName))
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: catalog unavailable: %v\n", err)
		return
	}
	defer store.Close()

	ctx := context.Background()
	for _, r := range results {
		if r == nil {
			continue
		}
		if err := store.Record(ctx, r); err != nil {
			fmt.Fprintf(os.Stderr, "warning: catalog write failed: %v\n", err)
			return
		}
	}
}

// summarize prints per-status counts and returns an error when any paper
// ended in not_found or error.
func summarize(w *os.File, results []*types.RetrievalResult) error {
	counts := make(map[types.RetrievalStatus]int)
	for _, r := range results {
		if r != nil {
			counts[r.Status]++
		}
	}
	fmt.Fprintf(w, "\nsuccess: %d, skipped: %d, not found: %d, errors: %d\n",
		counts[types.StatusSuccess], counts[types.StatusSkipped],
		counts[types.StatusNotFound], counts[types.StatusError])

	if failed := counts[types.StatusNotFound] + counts[types.StatusError]; failed > 0 {
		return fmt.Errorf("%d paper(s) failed retrieval", failed)
	}
	return nil
}
