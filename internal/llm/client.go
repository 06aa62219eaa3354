package llm

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/cc4019/nirva/internal/cache"
	"github.com/cc4019/nirva/internal/model"
	"github.com/cc4019/nirva/internal/worker"
)

// Client is the remote classifier client. It wraps a Provider with response
// caching, rate limiting, and bounded backoff retries of transient failures.
// Permanent failures (bad credentials, missing configuration) skip the retry
// budget and surface immediately so the orchestrator can abandon the remote
// strategy for the rest of the run.
type Client struct {
	provider Provider
	limiter  *worker.Limiter
	store    cache.Cache
	config   Config
}

// NewClient creates a remote classifier client. provider may be nil when the
// remote strategy is disabled or unconfigured; store may be nil to disable
// response caching.
func NewClient(provider Provider, store cache.Cache, config Config) *Client {
	var limiter *worker.Limiter
	if config.RequestsPerSecond > 0 {
		limiter = worker.NewLimiter(config.RequestsPerSecond, 1)
	}

	return &Client{
		provider: provider,
		limiter:  limiter,
		store:    store,
		config:   config,
	}
}

// Enabled reports whether a remote provider is configured.
func (c *Client) Enabled() bool {
	return c.provider != nil
}

// ProviderName returns the configured provider's name, or "" when disabled.
func (c *Client) ProviderName() string {
	if c.provider == nil {
		return ""
	}
	return c.provider.Name()
}

// Classify labels one utterance across all four dimensions. A missing
// provider takes the exact same code path as a live outage: an immediate,
// non-transient RemoteUnavailable; only the error reason differs.
func (c *Client) Classify(ctx context.Context, u model.Utterance) (map[model.Dimension]model.Category, error) {
	if c.provider == nil {
		return nil, Unavailable(false, errors.New("no remote provider configured"))
	}

	key := cache.Key("classify", c.provider.Name(), c.config.Model, u.Text)
	if c.store != nil {
		if data, ok := c.store.Get(key); ok {
			var cats map[model.Dimension]model.Category
			if err := json.Unmarshal(data, &cats); err == nil {
				return cats, nil
			}
			_ = c.store.Delete(key) // stale or corrupt entry
		}
	}

	var cats map[model.Dimension]model.Category
	backoff := retry.WithMaxRetries(uint64(c.config.MaxRetries), retry.NewExponential(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return Unavailable(false, err)
			}
		}

		got, err := c.provider.ClassifyText(ctx, u.Text)
		if err != nil {
			if isTransient(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		cats = got
		return nil
	})
	if err != nil {
		return nil, err
	}

	if c.store != nil {
		if data, err := json.Marshal(cats); err == nil {
			_ = c.store.Set(key, data, 0)
		}
	}

	return cats, nil
}
