package aggregate

import (
	"testing"

	"github.com/cc4019/nirva/internal/model"
)

func tagged(index int, source model.Source, cats map[model.Dimension]model.Category) model.ClassifiedUtterance {
	tags := make(map[model.Dimension]model.Tag, 4)
	for _, d := range model.Dimensions() {
		cat, ok := cats[d]
		if !ok {
			cat = model.CategoryUnknown
		}
		tags[d] = model.Tag{Dimension: d, Category: cat, Source: source}
	}
	return model.ClassifiedUtterance{
		Utterance: model.Utterance{Index: index, Text: "t"},
		Tags:      tags,
	}
}

func TestAggregate_CountsSumToUtteranceCount(t *testing.T) {
	classified := []model.ClassifiedUtterance{
		tagged(0, model.SourceRemote, map[model.Dimension]model.Category{
			model.DimensionEnergy: model.EnergyHigh,
			model.DimensionMood:   model.MoodExcited,
		}),
		tagged(1, model.SourceRemote, map[model.Dimension]model.Category{
			model.DimensionEnergy: model.EnergyHigh,
			model.DimensionMood:   model.MoodHappy,
		}),
		tagged(2, model.SourcePattern, map[model.Dimension]model.Category{
			model.DimensionEnergy: model.EnergyLow,
			model.DimensionMood:   model.MoodFrustrated,
		}),
	}

	result := Aggregate(classified, model.RunMeta{})

	for _, d := range model.Dimensions() {
		if got := result.Distributions[d].Total(); got != len(classified) {
			t.Errorf("Dimension %s: counts sum to %d, want %d", d, got, len(classified))
		}
		if got := len(result.Series[d]); got != len(classified) {
			t.Errorf("Dimension %s: series length %d, want %d", d, got, len(classified))
		}
	}

	energy := result.Distributions[model.DimensionEnergy]
	if energy[model.EnergyHigh] != 2 || energy[model.EnergyLow] != 1 {
		t.Errorf("Energy distribution wrong: %v", energy)
	}
	if result.Series[model.DimensionMood][2] != model.MoodFrustrated {
		t.Errorf("Series must follow transcript order, got %v", result.Series[model.DimensionMood])
	}
}

func TestAggregate_EmptyInputYieldsZeroDistributions(t *testing.T) {
	result := Aggregate(nil, model.RunMeta{})

	for _, d := range model.Dimensions() {
		dist, ok := result.Distributions[d]
		if !ok {
			t.Fatalf("Dimension %s missing from distributions", d)
		}
		if dist.Total() != 0 {
			t.Errorf("Dimension %s: expected zero counts, got %d", d, dist.Total())
		}
		if result.Series[d] == nil {
			t.Errorf("Dimension %s: series must be non-nil", d)
		}
	}
	if result.Meta.RemoteFraction != 0 {
		t.Errorf("Expected zero remote fraction, got %f", result.Meta.RemoteFraction)
	}
}

func TestAggregate_ProvenanceCounting(t *testing.T) {
	classified := []model.ClassifiedUtterance{
		tagged(0, model.SourceRemote, nil),
		tagged(1, model.SourcePattern, nil),
		tagged(2, model.SourcePattern, nil),
		tagged(3, model.SourcePattern, nil),
	}

	result := Aggregate(classified, model.RunMeta{})

	dims := len(model.Dimensions())
	if result.Meta.RemoteTags != 1*dims {
		t.Errorf("Expected %d remote tags, got %d", dims, result.Meta.RemoteTags)
	}
	if result.Meta.PatternTags != 3*dims {
		t.Errorf("Expected %d pattern tags, got %d", 3*dims, result.Meta.PatternTags)
	}
	if want := 0.25; result.Meta.RemoteFraction != want {
		t.Errorf("Expected remote fraction %f, got %f", want, result.Meta.RemoteFraction)
	}
}

func TestAggregate_FillsRunIdentity(t *testing.T) {
	result := Aggregate([]model.ClassifiedUtterance{tagged(0, model.SourcePattern, nil)}, model.RunMeta{})
	if result.Meta.RunID == "" {
		t.Error("Expected a generated run ID")
	}
	if result.Meta.AnalyzedAt.IsZero() {
		t.Error("Expected a populated analysis timestamp")
	}

	keep := model.RunMeta{RunID: "fixed-id"}
	result = Aggregate(nil, keep)
	if result.Meta.RunID != "fixed-id" {
		t.Errorf("Expected caller-supplied run ID to survive, got %s", result.Meta.RunID)
	}
}
