// Package segment splits raw transcript text into ordered utterances.
package segment

import (
	"regexp"
	"strings"

	"github.com/cc4019/nirva/internal/model"
)

// speakerPattern matches a leading speaker turn marker like "Alice: ...".
// The marker stays part of the utterance text; the name is extracted as
// metadata so re-segmenting joined output reproduces identical texts.
var speakerPattern = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9 .'\-]{0,40}):\s+\S`)

// Segment splits raw transcript text on line breaks, trims whitespace,
// discards empty lines, and assigns zero-based sequential indexes. It is a
// pure function: identical input always yields identical output, and an
// empty or blank input yields an empty sequence rather than an error.
func Segment(raw string) []model.Utterance {
	var utterances []model.Utterance

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		u := model.Utterance{
			Index: len(utterances),
			Text:  line,
		}
		if m := speakerPattern.FindStringSubmatch(line); m != nil {
			u.Speaker = strings.TrimSpace(m[1])
		}

		utterances = append(utterances, u)
	}

	return utterances
}

// Join reassembles utterance texts with the segmentation boundary marker.
// Segment(Join(Segment(raw))) reproduces the same utterance texts.
func Join(utterances []model.Utterance) string {
	texts := make([]string, len(utterances))
	for i, u := range utterances {
		texts[i] = u.Text
	}
	return strings.Join(texts, "\n")
}
