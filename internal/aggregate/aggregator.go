// Package aggregate folds classified utterances into the final analysis
// result: one distribution per dimension, sequence-ordered series for trend
// views, and provenance metadata.
package aggregate

import (
	"time"

	"github.com/google/uuid"

	"github.com/cc4019/nirva/internal/model"
)

// Aggregate builds an AnalysisResult from the ordered classified utterance
// sequence. It is pure and deterministic aside from the generated run ID and
// timestamp: an empty sequence yields all-zero distributions, never an
// error. Per-dimension counts always sum to the number of utterances.
func Aggregate(classified []model.ClassifiedUtterance, meta model.RunMeta) *model.AnalysisResult {
	distributions := make(map[model.Dimension]model.Distribution, 4)
	series := make(map[model.Dimension][]model.Category, 4)
	for _, d := range model.Dimensions() {
		distributions[d] = model.Distribution{}
		series[d] = make([]model.Category, 0, len(classified))
	}

	remote, pattern := 0, 0
	for _, cu := range classified {
		for _, d := range model.Dimensions() {
			tag := cu.Tags[d]
			distributions[d][tag.Category]++
			series[d] = append(series[d], tag.Category)

			switch tag.Source {
			case model.SourceRemote:
				remote++
			case model.SourcePattern:
				pattern++
			}
		}
	}

	meta.RemoteTags = remote
	meta.PatternTags = pattern
	if total := remote + pattern; total > 0 {
		meta.RemoteFraction = float64(remote) / float64(total)
	}

	if meta.RunID == "" {
		meta.RunID = uuid.NewString()
	}
	if meta.AnalyzedAt.IsZero() {
		meta.AnalyzedAt = time.Now().UTC()
	}

	return &model.AnalysisResult{
		Utterances:    classified,
		Distributions: distributions,
		Series:        series,
		Meta:          meta,
	}
}
