// Package pipeline wires the analysis stages together: load, segment,
// classify, aggregate, render.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cc4019/nirva/internal/aggregate"
	"github.com/cc4019/nirva/internal/cache"
	"github.com/cc4019/nirva/internal/classify"
	"github.com/cc4019/nirva/internal/llm"
	"github.com/cc4019/nirva/internal/model"
	"github.com/cc4019/nirva/internal/rules"
	"github.com/cc4019/nirva/internal/segment"
)

// ErrEmptyTranscript is returned when segmentation yields zero utterances.
// Empty input is a usage error reported to the caller, never an empty
// AnalysisResult.
var ErrEmptyTranscript = errors.New("transcript contains no analyzable utterances")

// Pipeline orchestrates the complete analysis of one transcript at a time.
type Pipeline struct {
	orchestrator *classify.Orchestrator
	client       *llm.Client
	config       *model.Config
}

// NewPipeline creates a pipeline with the given configuration. A failed
// remote provider initialization (e.g. a missing API key) is not fatal: the
// remote client reports unavailable on first use and the whole run proceeds
// on the pattern strategy, exactly as it would for a live outage.
func NewPipeline(cfg *model.Config) *Pipeline {
	llmCfg := llm.ConfigFromModel(cfg.LLM)

	provider, err := llm.NewProvider(llmCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: remote classifier disabled: %v\n", err)
		provider = nil
	}

	var store cache.Cache
	if cfg.Cache.Enabled {
		store = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cacheDir(cfg), cfg.Cache.DiskTTL)
	}

	client := llm.NewClient(provider, store, llmCfg)
	orch := classify.New(client, rules.NewClassifier(), cfg.Concurrency.ClassifyWorkers)

	return &Pipeline{
		orchestrator: orch,
		client:       client,
		config:       cfg,
	}
}

// Analyze runs the full pipeline over raw transcript text.
func (p *Pipeline) Analyze(ctx context.Context, rawText string) (*model.AnalysisResult, error) {
	return p.analyze(ctx, rawText, "")
}

// AnalyzeWithDate runs the pipeline over raw text, recording a known
// transcript date in the result metadata.
func (p *Pipeline) AnalyzeWithDate(ctx context.Context, rawText, date string) (*model.AnalysisResult, error) {
	return p.analyze(ctx, rawText, date)
}

// AnalyzeFile loads one transcript file and analyzes it. The transcript
// date, when encoded in the filename as MM-DD_*, is carried into the result
// metadata.
func (p *Pipeline) AnalyzeFile(ctx context.Context, path string) (*model.AnalysisResult, error) {
	text, err := Load(path)
	if err != nil {
		return nil, fmt.Errorf("load transcript: %w", err)
	}
	return p.analyze(ctx, text, TranscriptDate(filepath.Base(path)))
}

func (p *Pipeline) analyze(ctx context.Context, rawText, date string) (*model.AnalysisResult, error) {
	utterances := segment.Segment(rawText)
	if len(utterances) == 0 {
		return nil, ErrEmptyTranscript
	}

	if p.config.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Segmented %d utterances\n", len(utterances))
	}

	classified, err := p.orchestrator.Run(ctx, utterances)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}

	meta := model.RunMeta{
		Provider:       p.client.ProviderName(),
		TranscriptDate: date,
	}
	result := aggregate.Aggregate(classified, meta)

	if p.config.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Classified %d utterances (%.0f%% remote)\n",
			len(result.Utterances), result.Meta.RemoteFraction*100)
	}

	return result, nil
}

// cacheDir resolves the disk cache location, preferring the configured
// directory over the user cache dir.
func cacheDir(cfg *model.Config) string {
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return ".nirva-cache"
	}
	return filepath.Join(base, "nirva")
}
