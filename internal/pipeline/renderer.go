package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/cc4019/nirva/internal/model"
)

// Renderer writes analysis results to their export formats. It only ever
// reads the result; the AnalysisResult has no mutation API.
type Renderer struct{}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderJSON writes the complete result as indented JSON
func (r *Renderer) RenderJSON(result *model.AnalysisResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	return nil
}

// RenderCSV writes the flat export table: one row per utterance with its
// four categories and their strategy sources.
func (r *Renderer) RenderCSV(result *model.AnalysisResult, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create CSV: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{"index", "speaker", "text"}
	for _, d := range model.Dimensions() {
		header = append(header, string(d), string(d)+"_source")
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	for _, cu := range result.Utterances {
		row := []string{strconv.Itoa(cu.Index), cu.Speaker, cu.Text}
		for _, d := range model.Dimensions() {
			tag := cu.Tags[d]
			row = append(row, string(tag.Category), string(tag.Source))
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

// RenderMarkdown writes a report with one distribution table per dimension
// and a provenance section disclosing how much of the analysis used the
// pattern fallback.
func (r *Renderer) RenderMarkdown(result *model.AnalysisResult, path string) error {
	var b strings.Builder

	b.WriteString("# Transcript Analysis\n\n")
	if result.Meta.TranscriptDate != "" {
		fmt.Fprintf(&b, "- Date: %s\n", result.Meta.TranscriptDate)
	}
	fmt.Fprintf(&b, "- Run: %s\n", result.Meta.RunID)
	fmt.Fprintf(&b, "- Analyzed: %s\n", result.Meta.AnalyzedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "- Utterances: %d\n\n", len(result.Utterances))

	b.WriteString("## Provenance\n\n")
	if result.Meta.Provider != "" {
		fmt.Fprintf(&b, "Remote classifier: %s. ", result.Meta.Provider)
	} else {
		b.WriteString("Remote classifier: not configured. ")
	}
	fmt.Fprintf(&b, "%.0f%% of tags came from the remote service, %.0f%% from the local pattern fallback.\n\n",
		result.Meta.RemoteFraction*100, (1-result.Meta.RemoteFraction)*100)

	for _, d := range model.Dimensions() {
		fmt.Fprintf(&b, "## %s\n\n", titleCase(string(d)))
		b.WriteString("| Category | Count |\n|---|---|\n")
		for _, row := range sortedCounts(result.Distributions[d]) {
			fmt.Fprintf(&b, "| %s | %d |\n", row.category, row.count)
		}
		b.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

// RenderSummary prints a short report to stdout
func (r *Renderer) RenderSummary(result *model.AnalysisResult) {
	fmt.Printf("Analyzed %d utterances", len(result.Utterances))
	if result.Meta.TranscriptDate != "" {
		fmt.Printf(" (%s)", result.Meta.TranscriptDate)
	}
	fmt.Println()

	if result.Meta.Provider != "" {
		fmt.Printf("Remote: %s, %.0f%% of tags (rest via pattern fallback)\n",
			result.Meta.Provider, result.Meta.RemoteFraction*100)
	} else {
		fmt.Println("Remote: disabled, pattern classification only")
	}

	for _, d := range model.Dimensions() {
		var parts []string
		for _, row := range sortedCounts(result.Distributions[d]) {
			parts = append(parts, fmt.Sprintf("%s %d", row.category, row.count))
		}
		fmt.Printf("  %-6s %s\n", d, strings.Join(parts, ", "))
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

type categoryCount struct {
	category model.Category
	count    int
}

// sortedCounts orders a distribution by descending count, then category name
// for stable output.
func sortedCounts(dist model.Distribution) []categoryCount {
	rows := make([]categoryCount, 0, len(dist))
	for c, n := range dist {
		rows = append(rows, categoryCount{category: c, count: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].category < rows[j].category
	})
	return rows
}
