// Package classify implements the dual-strategy classification engine. Each
// run starts preferring the remote classifier and switches permanently to
// the local pattern classifier once the remote strategy is confirmed
// unavailable.
package classify

import (
	"context"
	"errors"
	"sync"

	"github.com/cc4019/nirva/internal/llm"
	"github.com/cc4019/nirva/internal/model"
	"github.com/cc4019/nirva/internal/rules"
	"github.com/cc4019/nirva/internal/worker"
)

// ErrNoUtterances is returned when a run is invoked with zero utterances.
// This is the only error a run surfaces for non-cancelled input; every
// classification-level failure degrades instead.
var ErrNoUtterances = errors.New("no utterances to classify")

// Remote abstracts the remote classification capability so tests can
// substitute a deterministic stub without network access.
type Remote interface {
	Classify(ctx context.Context, u model.Utterance) (map[model.Dimension]model.Category, error)
}

// Orchestrator classifies utterance sequences. It is stateless across runs;
// the strategy state machine lives in each run.
type Orchestrator struct {
	remote  Remote
	rules   *rules.Classifier
	workers int
}

// New creates an orchestrator. workers bounds concurrent classification
// within one run; 1 keeps runs strictly sequential.
func New(remote Remote, pattern *rules.Classifier, workers int) *Orchestrator {
	if workers <= 0 {
		workers = 1
	}
	return &Orchestrator{
		remote:  remote,
		rules:   pattern,
		workers: workers,
	}
}

// run holds the per-run strategy state: remote-preferred until the first
// confirmed RemoteUnavailable, pattern-only for every utterance classified
// after that. The first observed failure wins; in-flight remote successes
// keep their remote provenance.
type run struct {
	orch *Orchestrator

	mu          sync.Mutex
	patternOnly bool
}

func (r *run) inPatternOnly() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.patternOnly
}

func (r *run) switchToPattern() {
	r.mu.Lock()
	r.patternOnly = true
	r.mu.Unlock()
}

// Run classifies every utterance, emitting results in transcript order
// regardless of completion order. On context cancellation no partial result
// is returned; the run reports the cancellation instead.
func (o *Orchestrator) Run(ctx context.Context, utterances []model.Utterance) ([]model.ClassifiedUtterance, error) {
	if len(utterances) == 0 {
		return nil, ErrNoUtterances
	}

	r := &run{orch: o}
	out := make([]model.ClassifiedUtterance, len(utterances))

	if o.workers == 1 {
		for i, u := range utterances {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			out[i] = r.classify(ctx, u)
		}
		return out, nil
	}

	pool := worker.NewPool(ctx, o.workers)
	pool.Start()
	for i := range utterances {
		pool.Submit(&classifyJob{run: r, position: i, utterance: utterances[i]})
	}
	results := pool.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, res := range results {
		cr := res.(*classifyResult)
		out[cr.Position()] = cr.classified
	}
	return out, nil
}

// classify labels one utterance under the run's current strategy.
func (r *run) classify(ctx context.Context, u model.Utterance) model.ClassifiedUtterance {
	if r.inPatternOnly() {
		return model.ClassifiedUtterance{Utterance: u, Tags: r.orch.rules.ClassifyAll(u)}
	}

	cats, err := r.orch.remote.Classify(ctx, u)
	switch {
	case err == nil:
		return remoteTagged(u, cats)

	case llm.IsMalformed(err):
		// Partial degradation: the unresolved dimensions of this one
		// utterance become Unknown with remote provenance. The remote
		// strategy stands for the rest of the run.
		return remoteTagged(u, nil)

	default:
		// RemoteUnavailable, retries already exhausted inside the
		// client. All subsequent utterances use the pattern strategy;
		// this one is reclassified locally as well.
		r.switchToPattern()
		return model.ClassifiedUtterance{Utterance: u, Tags: r.orch.rules.ClassifyAll(u)}
	}
}

// remoteTagged builds a classified utterance from a remote category map.
// Missing or out-of-set categories coerce to Unknown; classification is
// total, a tag is never omitted.
func remoteTagged(u model.Utterance, cats map[model.Dimension]model.Category) model.ClassifiedUtterance {
	tags := make(map[model.Dimension]model.Tag, 4)
	for _, d := range model.Dimensions() {
		cat, ok := cats[d]
		if !ok || !model.ValidCategory(d, cat) {
			cat = model.CategoryUnknown
		}
		tags[d] = model.Tag{Dimension: d, Category: cat, Source: model.SourceRemote}
	}
	return model.ClassifiedUtterance{Utterance: u, Tags: tags}
}

// classifyJob adapts one utterance to the worker pool. position is the
// utterance's ordinal in the submitted sequence, independent of its Index,
// so Run accepts any utterance slice.
type classifyJob struct {
	run       *run
	position  int
	utterance model.Utterance
}

func (j *classifyJob) Execute(ctx context.Context) worker.Result {
	return &classifyResult{position: j.position, classified: j.run.classify(ctx, j.utterance)}
}

type classifyResult struct {
	position   int
	classified model.ClassifiedUtterance
}

func (r *classifyResult) Position() int {
	return r.position
}
