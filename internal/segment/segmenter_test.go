package segment

import (
	"testing"
)

func TestSegment_BasicSplitting(t *testing.T) {
	raw := "First line here.\n\n  Second line with padding.  \nThird line.\n"

	utterances := Segment(raw)

	if len(utterances) != 3 {
		t.Fatalf("Expected 3 utterances, got %d", len(utterances))
	}

	expected := []string{
		"First line here.",
		"Second line with padding.",
		"Third line.",
	}
	for i, want := range expected {
		if utterances[i].Text != want {
			t.Errorf("Utterance %d: expected %q, got %q", i, want, utterances[i].Text)
		}
		if utterances[i].Index != i {
			t.Errorf("Utterance %d: expected index %d, got %d", i, i, utterances[i].Index)
		}
	}
}

func TestSegment_EmptyInput(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\n\n", "\t\n  \n"} {
		if got := Segment(raw); len(got) != 0 {
			t.Errorf("Segment(%q): expected no utterances, got %d", raw, len(got))
		}
	}
}

func TestSegment_SpeakerExtraction(t *testing.T) {
	tests := []struct {
		line        string
		wantSpeaker string
	}{
		{"Alice: let's start with the roadmap.", "Alice"},
		{"Bob Smith: I agree with that.", "Bob Smith"},
		{"no speaker marker on this line", ""},
		{"10:30 is when we meet", ""}, // time, not a speaker turn
	}

	for _, tt := range tests {
		utterances := Segment(tt.line)
		if len(utterances) != 1 {
			t.Fatalf("Segment(%q): expected 1 utterance, got %d", tt.line, len(utterances))
		}
		u := utterances[0]
		if u.Speaker != tt.wantSpeaker {
			t.Errorf("Segment(%q): expected speaker %q, got %q", tt.line, tt.wantSpeaker, u.Speaker)
		}
		// The marker stays part of the text.
		if u.Text != tt.line {
			t.Errorf("Segment(%q): text changed to %q", tt.line, u.Text)
		}
	}
}

func TestSegment_Idempotent(t *testing.T) {
	raw := "Alice: good morning everyone.\n\nBob: morning!\nLet's look at the agenda.\n"

	first := Segment(raw)
	second := Segment(Join(first))

	if len(first) != len(second) {
		t.Fatalf("Expected %d utterances after re-segmenting, got %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Text != second[i].Text {
			t.Errorf("Utterance %d: %q != %q after re-segmenting", i, first[i].Text, second[i].Text)
		}
		if first[i].Speaker != second[i].Speaker {
			t.Errorf("Utterance %d: speaker %q != %q after re-segmenting", i, first[i].Speaker, second[i].Speaker)
		}
	}
}

func TestSegment_IndexesStrictlyIncreasing(t *testing.T) {
	utterances := Segment("a\n\nb\n\n\nc\nd")
	for i, u := range utterances {
		if u.Index != i {
			t.Errorf("Expected index %d, got %d", i, u.Index)
		}
	}
}
