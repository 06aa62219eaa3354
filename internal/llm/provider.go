package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cc4019/nirva/internal/model"
)

// Provider defines the interface for hosted language-understanding services.
// Each call labels one utterance across all four dimensions simultaneously,
// bounding cost and latency to a single request per utterance.
type Provider interface {
	// Name returns the provider name
	Name() string

	// ClassifyText labels a single utterance text on every dimension.
	// Failures are always a *RemoteError; invalid or missing categories
	// in an otherwise parseable reply coerce to Unknown instead of
	// failing the call.
	ClassifyText(ctx context.Context, text string) (map[model.Dimension]model.Category, error)
}

// Config holds remote classifier configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for the classification reply
	MaxTokens int

	// MaxRetries bounds retries of transient failures per call
	MaxRetries int

	// RequestsPerSecond rate-limits remote calls (0 = unlimited)
	RequestsPerSecond float64

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:          "", // Disabled by default
		Model:             "",
		Timeout:           30,
		MaxTokens:         200,
		MaxRetries:        2,
		RequestsPerSecond: 2,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(mc model.LLMConfig) Config {
	return Config{
		Provider:          mc.Provider,
		Model:             mc.Model,
		APIKey:            mc.APIKey,
		BaseURL:           mc.BaseURL,
		Timeout:           mc.Timeout,
		MaxTokens:         mc.MaxTokens,
		MaxRetries:        mc.MaxRetries,
		RequestsPerSecond: mc.RequestsPerSecond,
		HTTPProxy:         mc.HTTPProxy,
		HTTPSProxy:        mc.HTTPSProxy,
	}
}

// systemPrompt instructs the model to act as a closed-set classifier.
const systemPrompt = "You are a transcript classifier. You label a single utterance " +
	"from a meeting transcript on four fixed dimensions and reply with strict JSON only."

// BuildPrompt constructs the classification prompt for one utterance. The
// reply must be a single JSON object with one lowercase key per dimension
// and a value drawn from that dimension's closed category set.
func BuildPrompt(text string) string {
	var b strings.Builder

	b.WriteString("Classify the following utterance on each dimension. Allowed values:\n")
	for _, d := range model.Dimensions() {
		b.WriteString(fmt.Sprintf("- %s: %s\n", d, joinCategories(model.Categories(d))))
	}
	b.WriteString("\nUse \"Unknown\" when a dimension cannot be determined.\n")
	b.WriteString("Reply with exactly one JSON object of the form\n")
	b.WriteString(`{"energy": "...", "social": "...", "mood": "...", "topic": "..."}`)
	b.WriteString("\nand nothing else.\n\nUtterance:\n")
	b.WriteString(text)

	return b.String()
}

func joinCategories(cats []model.Category) string {
	parts := make([]string, len(cats))
	for i, c := range cats {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}

// parseReply parses a model reply into the per-dimension category map. The
// reply may wrap the JSON object in prose or code fences; the first JSON
// object found is used. Invalid or missing categories coerce to Unknown.
// Only a reply with no parseable JSON object at all is malformed.
func parseReply(reply string) (map[model.Dimension]model.Category, error) {
	raw, err := extractJSONObject(reply)
	if err != nil {
		return nil, Malformed(err)
	}

	var fields map[string]string
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, Malformed(fmt.Errorf("unmarshal reply: %w", err))
	}

	cats := make(map[model.Dimension]model.Category, 4)
	for _, d := range model.Dimensions() {
		cats[d] = normalizeCategory(d, fields[string(d)])
	}
	return cats, nil
}

// extractJSONObject returns the first balanced {...} block in the text.
func extractJSONObject(text string) (string, error) {
	start := strings.Index(text, "{")
	if start < 0 {
		return "", fmt.Errorf("no JSON object in reply")
	}

	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("unbalanced JSON object in reply")
}

// normalizeCategory validates a returned value against the dimension's
// closed set, case-insensitively. Anything else is Unknown.
func normalizeCategory(d model.Dimension, value string) model.Category {
	value = strings.TrimSpace(value)
	if value == "" {
		return model.CategoryUnknown
	}
	if strings.EqualFold(value, string(model.CategoryUnknown)) {
		return model.CategoryUnknown
	}
	for _, c := range model.Categories(d) {
		if strings.EqualFold(value, string(c)) {
			return c
		}
	}
	return model.CategoryUnknown
}
