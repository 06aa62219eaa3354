package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cc4019/nirva/internal/pipeline"
)

var (
	batchWorkers int
	outputDir    string
	batchTimeout time.Duration
)

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Analyze a directory of transcripts",
	Long: `Batch analyzes every transcript in a directory. Files named
MM-DD_*.txt are grouped by date, so multiple recordings from the same day
form one analysis, and each group produces one report set in the output
directory.

One failed transcript never aborts the others; failures are reported at the
end.

Example:
  nirva batch raw_data
  nirva batch raw_data --output-dir analysis --batch-workers 2
  nirva batch raw_data --provider anthropic`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchWorkers, "batch-workers", 4, "transcripts analyzed in parallel")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./analysis", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")

	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the remote-response cache")
	batchCmd.Flags().StringVar(&llmProvider, "provider", "", "remote provider (openai, anthropic, ollama; empty = pattern only)")
	batchCmd.Flags().StringVar(&llmModel, "model", "", "remote model name")
	batchCmd.Flags().IntVar(&llmWorkers, "workers", 1, "concurrent remote calls within one run")
	batchCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	batchCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	paths, err := pipeline.ListTranscripts(dir)
	if err != nil {
		return fmt.Errorf("list transcripts: %w", err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no transcript files found in %s", dir)
	}

	groups := pipeline.GroupByDate(paths)
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Analyzing %d transcript group(s) from %s\n", len(keys), dir)

	cfg := buildConfig()
	cfg.Concurrency.BatchWorkers = batchWorkers
	p := pipeline.NewPipeline(cfg)

	failures := make([]error, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchWorkers)
	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			if err := analyzeGroup(gctx, p, key, groups[key]); err != nil {
				// Per-group failures are collected, not propagated,
				// so one bad transcript never cancels its siblings.
				failures[i] = fmt.Errorf("%s: %w", key, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for _, err := range failures {
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		}
	}

	fmt.Fprintf(os.Stderr, "Done: %d succeeded, %d failed\n", len(keys)-failed, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d transcript groups failed", failed, len(keys))
	}
	return nil
}

// analyzeGroup analyzes one date group and writes its report set.
func analyzeGroup(ctx context.Context, p *pipeline.Pipeline, key string, paths []string) error {
	text, err := pipeline.LoadGroup(paths)
	if err != nil {
		return err
	}

	date := ""
	if isoDate.MatchString(key) {
		date = key
	}
	result, err := p.AnalyzeWithDate(ctx, text, date)
	if err != nil {
		return err
	}

	r := pipeline.NewRenderer()
	base := filepath.Join(outputDir, "daily_analysis_"+key)
	if err := r.RenderJSON(result, base+".json"); err != nil {
		return err
	}
	if err := r.RenderCSV(result, base+".csv"); err != nil {
		return err
	}
	if err := r.RenderMarkdown(result, base+".md"); err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ %s: %d utterances (%.0f%% remote)\n",
			key, len(result.Utterances), result.Meta.RemoteFraction*100)
	}
	return nil
}
