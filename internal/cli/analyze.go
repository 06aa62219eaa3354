package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cc4019/nirva/internal/model"
	"github.com/cc4019/nirva/internal/pipeline"
)

var (
	outJSON     string
	outMD       string
	outCSV      string
	runTimeout  time.Duration
	noCache     bool
	llmProvider string
	llmModel    string
	llmWorkers  int
	httpProxy   string
	httpsProxy  string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <transcript>",
	Short: "Analyze a single transcript file",
	Long: `Analyze classifies every utterance of a transcript on the four
dimensions (energy, social, mood, topic) and aggregates the tags into
per-dimension distributions.

Without a configured remote provider (or without its API key in the
environment) the whole run uses the local pattern classifier.

Example:
  nirva analyze 05-12_standup.txt
  nirva analyze meeting.txt --json report.json --csv rows.csv
  nirva analyze meeting.txt --provider openai --model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "analysis.json", "output JSON path")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	analyzeCmd.Flags().StringVar(&outCSV, "csv", "", "output CSV path (optional)")

	analyzeCmd.Flags().DurationVar(&runTimeout, "timeout", 5*time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the remote-response cache")

	// Remote classifier flags
	analyzeCmd.Flags().StringVar(&llmProvider, "provider", "", "remote provider (openai, anthropic, ollama; empty = pattern only)")
	analyzeCmd.Flags().StringVar(&llmModel, "model", "", "remote model name")
	analyzeCmd.Flags().IntVar(&llmWorkers, "workers", 1, "concurrent remote calls within the run")
	analyzeCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	analyzeCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	cfg := buildConfig()

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: %s\n", path)
		if cfg.LLM.Provider != "" {
			fmt.Fprintf(os.Stderr, "Remote: %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
		} else {
			fmt.Fprintln(os.Stderr, "Remote: disabled")
		}
		fmt.Fprintln(os.Stderr)
	}

	p := pipeline.NewPipeline(cfg)

	result, err := p.AnalyzeFile(ctx, path)
	if err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}

	return renderOutputs(result, outJSON, outMD, outCSV)
}

// buildConfig assembles the run configuration from defaults, flags, and
// environment credentials. A missing API key is not an error here: the
// pipeline degrades to pattern-only classification and says so in the
// result provenance.
func buildConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = !noCache
	cfg.Concurrency.ClassifyWorkers = llmWorkers
	cfg.Output.Verbose = verbose
	cfg.LLM.Provider = llmProvider
	cfg.LLM.Model = llmModel
	cfg.LLM.HTTPProxy = httpProxy
	cfg.LLM.HTTPSProxy = httpsProxy

	switch llmProvider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	case "ollama":
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}

	return cfg
}

// renderOutputs writes the requested export formats and a stdout summary.
func renderOutputs(result *model.AnalysisResult, jsonPath, mdPath, csvPath string) error {
	r := pipeline.NewRenderer()

	if jsonPath != "" {
		if err := r.RenderJSON(result, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := r.RenderMarkdown(result, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	if csvPath != "" {
		if err := r.RenderCSV(result, csvPath); err != nil {
			return fmt.Errorf("render CSV: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote CSV: %s\n", csvPath)
		}
	}

	r.RenderSummary(result)
	return nil
}
