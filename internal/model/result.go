package model

import "time"

// Distribution maps category to occurrence count for one dimension.
// Counts always sum to the number of utterances classified in the run.
type Distribution map[Category]int

// Total returns the sum of all counts in the distribution.
func (d Distribution) Total() int {
	total := 0
	for _, n := range d {
		total += n
	}
	return total
}

// RunMeta describes the provenance of one analysis run.
type RunMeta struct {
	RunID          string    `json:"run_id"`
	AnalyzedAt     time.Time `json:"analyzed_at"`
	TranscriptDate string    `json:"transcript_date,omitempty"` // YYYY-MM-DD, if known
	Provider       string    `json:"provider,omitempty"`        // remote provider name, if configured

	// Tag counts by strategy, across all dimensions. RemoteFraction is
	// RemoteTags / (RemoteTags + PatternTags), surfaced so reports can
	// disclose how much of the analysis used the weaker fallback.
	RemoteTags     int     `json:"remote_tags"`
	PatternTags    int     `json:"pattern_tags"`
	RemoteFraction float64 `json:"remote_fraction"`
}

// AnalysisResult is the immutable output of one pipeline run. Rendering and
// export collaborators only ever read it.
type AnalysisResult struct {
	Utterances    []ClassifiedUtterance      `json:"utterances"`
	Distributions map[Dimension]Distribution `json:"distributions"`

	// Series holds the sequence-ordered categories per dimension for trend
	// views (e.g. energy over the course of the transcript).
	Series map[Dimension][]Category `json:"series"`

	Meta RunMeta `json:"meta"`
}
