package classify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/cc4019/nirva/internal/llm"
	"github.com/cc4019/nirva/internal/model"
	"github.com/cc4019/nirva/internal/rules"
)

// stubRemote scripts per-utterance remote behavior keyed by utterance text.
type stubRemote struct {
	mu      sync.Mutex
	calls   int
	respond func(u model.Utterance) (map[model.Dimension]model.Category, error)
}

func (s *stubRemote) Classify(ctx context.Context, u model.Utterance) (map[model.Dimension]model.Category, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.respond(u)
}

func (s *stubRemote) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func fullRemoteMap() map[model.Dimension]model.Category {
	return map[model.Dimension]model.Category{
		model.DimensionEnergy: model.EnergyHigh,
		model.DimensionSocial: model.SocialPositive,
		model.DimensionMood:   model.MoodExcited,
		model.DimensionTopic:  model.TopicWork,
	}
}

func utterances(texts ...string) []model.Utterance {
	out := make([]model.Utterance, len(texts))
	for i, t := range texts {
		out[i] = model.Utterance{Index: i, Text: t}
	}
	return out
}

func TestRun_EmptyInputIsAnError(t *testing.T) {
	orch := New(&stubRemote{}, rules.NewClassifier(), 1)

	_, err := orch.Run(context.Background(), nil)
	if !errors.Is(err, ErrNoUtterances) {
		t.Fatalf("Expected ErrNoUtterances, got %v", err)
	}
}

func TestRun_RemoteSuccessKeepsRemoteProvenance(t *testing.T) {
	remote := &stubRemote{respond: func(u model.Utterance) (map[model.Dimension]model.Category, error) {
		return fullRemoteMap(), nil
	}}
	orch := New(remote, rules.NewClassifier(), 1)

	out, err := orch.Run(context.Background(), utterances("I'm so excited about this!"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	for _, d := range model.Dimensions() {
		tag := out[0].Tags[d]
		if tag.Source != model.SourceRemote {
			t.Errorf("Dimension %s: expected remote source, got %s", d, tag.Source)
		}
	}
	if out[0].Category(model.DimensionEnergy) != model.EnergyHigh {
		t.Errorf("Expected High energy, got %s", out[0].Category(model.DimensionEnergy))
	}
}

func TestRun_UnavailableSwitchesToPatternForRestOfRun(t *testing.T) {
	remote := &stubRemote{respond: func(u model.Utterance) (map[model.Dimension]model.Category, error) {
		return nil, llm.Unavailable(false, errors.New("connection refused"))
	}}
	orch := New(remote, rules.NewClassifier(), 1)

	out, err := orch.Run(context.Background(), utterances(
		"I'm so excited about this!",
		"This is frustrating and slow.",
		"It was okay I guess.",
	))
	if err != nil {
		t.Fatalf("Expected degraded run, not error: %v", err)
	}

	// The failing utterance itself is reclassified locally.
	for i, cu := range out {
		for _, d := range model.Dimensions() {
			if cu.Tags[d].Source != model.SourcePattern {
				t.Errorf("Utterance %d dimension %s: expected pattern source after switch", i, d)
			}
		}
	}

	// The switch is permanent: only the first utterance reached the remote.
	if remote.callCount() != 1 {
		t.Errorf("Expected 1 remote call before the switch, got %d", remote.callCount())
	}

	if out[0].Category(model.DimensionEnergy) != model.EnergyHigh {
		t.Errorf("Expected pattern rules to label excitement High, got %s", out[0].Category(model.DimensionEnergy))
	}
	if out[1].Category(model.DimensionEnergy) != model.EnergyLow {
		t.Errorf("Expected pattern rules to label frustration Low, got %s", out[1].Category(model.DimensionEnergy))
	}
}

func TestRun_MalformedDegradesOneUtteranceOnly(t *testing.T) {
	remote := &stubRemote{respond: func(u model.Utterance) (map[model.Dimension]model.Category, error) {
		if u.Index == 1 {
			return nil, llm.Malformed(errors.New("reply contained no JSON"))
		}
		return fullRemoteMap(), nil
	}}
	orch := New(remote, rules.NewClassifier(), 1)

	out, err := orch.Run(context.Background(), utterances("first", "second", "third"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// The malformed reply degrades its own utterance to Unknown with remote
	// provenance; the strategy does not switch.
	for _, d := range model.Dimensions() {
		tag := out[1].Tags[d]
		if tag.Category != model.CategoryUnknown {
			t.Errorf("Dimension %s: expected Unknown, got %s", d, tag.Category)
		}
		if tag.Source != model.SourceRemote {
			t.Errorf("Dimension %s: expected remote source, got %s", d, tag.Source)
		}
	}
	for _, i := range []int{0, 2} {
		if out[i].Category(model.DimensionEnergy) != model.EnergyHigh {
			t.Errorf("Utterance %d: expected remote High energy, got %s", i, out[i].Category(model.DimensionEnergy))
		}
	}
	if remote.callCount() != 3 {
		t.Errorf("Expected all 3 utterances to reach the remote, got %d calls", remote.callCount())
	}
}

func TestRun_PartialRemoteMapCoercesMissingDimensionToUnknown(t *testing.T) {
	remote := &stubRemote{respond: func(u model.Utterance) (map[model.Dimension]model.Category, error) {
		m := fullRemoteMap()
		delete(m, model.DimensionTopic)
		return m, nil
	}}
	orch := New(remote, rules.NewClassifier(), 1)

	out, err := orch.Run(context.Background(), utterances("hello"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	topic := out[0].Tags[model.DimensionTopic]
	if topic.Category != model.CategoryUnknown || topic.Source != model.SourceRemote {
		t.Errorf("Expected remote Unknown topic, got %s/%s", topic.Category, topic.Source)
	}
	if len(out[0].Tags) != len(model.Dimensions()) {
		t.Errorf("Expected a tag for every dimension, got %d", len(out[0].Tags))
	}
}

func TestRun_CancelledContextReturnsNoPartialResult(t *testing.T) {
	remote := &stubRemote{respond: func(u model.Utterance) (map[model.Dimension]model.Category, error) {
		return fullRemoteMap(), nil
	}}
	orch := New(remote, rules.NewClassifier(), 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := orch.Run(ctx, utterances("one", "two"))
	if err == nil {
		t.Fatal("Expected cancellation error")
	}
	if out != nil {
		t.Errorf("Expected no partial result on cancellation, got %d utterances", len(out))
	}
}

func TestRun_ConcurrentRunPreservesOrder(t *testing.T) {
	remote := &stubRemote{respond: func(u model.Utterance) (map[model.Dimension]model.Category, error) {
		return fullRemoteMap(), nil
	}}
	orch := New(remote, rules.NewClassifier(), 4)

	texts := make([]string, 50)
	for i := range texts {
		texts[i] = fmt.Sprintf("utterance number %d", i)
	}

	out, err := orch.Run(context.Background(), utterances(texts...))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(out) != len(texts) {
		t.Fatalf("Expected %d results, got %d", len(texts), len(out))
	}
	for i, cu := range out {
		if cu.Index != i {
			t.Errorf("Position %d holds utterance index %d", i, cu.Index)
		}
		if cu.Text != texts[i] {
			t.Errorf("Position %d holds text %q, want %q", i, cu.Text, texts[i])
		}
	}
}

func TestRun_AcceptsSubsliceWithOffsetIndexes(t *testing.T) {
	remote := &stubRemote{respond: func(u model.Utterance) (map[model.Dimension]model.Category, error) {
		return fullRemoteMap(), nil
	}}
	orch := New(remote, rules.NewClassifier(), 3)

	// A slice cut from the middle of a transcript: indexes start at 10.
	input := make([]model.Utterance, 8)
	for i := range input {
		input[i] = model.Utterance{Index: 10 + i, Text: fmt.Sprintf("utterance %d", 10+i)}
	}

	out, err := orch.Run(context.Background(), input)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(out) != len(input) {
		t.Fatalf("Expected %d results, got %d", len(input), len(out))
	}
	for i, cu := range out {
		if cu.Index != input[i].Index {
			t.Errorf("Position %d holds utterance index %d, want %d", i, cu.Index, input[i].Index)
		}
	}
}

func TestRun_EveryUtteranceGetsEveryDimension(t *testing.T) {
	remote := &stubRemote{respond: func(u model.Utterance) (map[model.Dimension]model.Category, error) {
		return nil, llm.Unavailable(true, errors.New("timeout"))
	}}
	orch := New(remote, rules.NewClassifier(), 2)

	out, err := orch.Run(context.Background(), utterances("zzz unmatchable gibberish", "more gibberish qqq"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	for i, cu := range out {
		if len(cu.Tags) != len(model.Dimensions()) {
			t.Fatalf("Utterance %d: expected %d tags, got %d", i, len(model.Dimensions()), len(cu.Tags))
		}
		for _, d := range model.Dimensions() {
			if cu.Tags[d].Category == "" {
				t.Errorf("Utterance %d dimension %s: empty category", i, d)
			}
		}
	}
}
