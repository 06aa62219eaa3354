package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cc4019/nirva/internal/model"
)

func TestOllamaProvider_ClassifyText_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("Expected path /api/generate, got %s", r.URL.Path)
		}

		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if req.Stream {
			t.Error("Expected streaming to be disabled")
		}

		resp := ollamaResponse{
			Model:    "llama3.2",
			Response: `{"energy": "Medium", "social": "Positive", "mood": "Content", "topic": "Social"}`,
			Done:     true,
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	cats, err := provider.ClassifyText(context.Background(), "Caught up with an old friend over coffee.")
	if err != nil {
		t.Fatalf("ClassifyText failed: %v", err)
	}

	if cats[model.DimensionEnergy] != model.EnergyMedium {
		t.Errorf("Expected Medium energy, got %s", cats[model.DimensionEnergy])
	}
	if cats[model.DimensionSocial] != model.SocialPositive {
		t.Errorf("Expected Positive social, got %s", cats[model.DimensionSocial])
	}
	if cats[model.DimensionTopic] != model.TopicSocial {
		t.Errorf("Expected Social topic, got %s", cats[model.DimensionTopic])
	}
}

func TestOllamaProvider_ClassifyText_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "model not loaded"}`))
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.ClassifyText(context.Background(), "hello")
	if !IsUnavailable(err) {
		t.Fatalf("Expected RemoteUnavailable, got %v", err)
	}
	if !isTransient(err) {
		t.Error("Server errors should be retryable")
	}
}

func TestOllamaProvider_ClassifyText_ConnectionRefused(t *testing.T) {
	// Nothing listens on this port.
	provider, err := NewOllamaProvider(Config{BaseURL: "http://127.0.0.1:1", Timeout: 1})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.ClassifyText(context.Background(), "hello")
	if !IsUnavailable(err) {
		t.Fatalf("Expected RemoteUnavailable, got %v", err)
	}
	if !isTransient(err) {
		t.Error("Connection failures should be retryable")
	}
}

func TestOllamaProvider_ClassifyText_ProseReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := ollamaResponse{
			Model:    "llama3.2",
			Response: `Sure! Here is the classification: {"energy": "High", "social": "Neutral", "mood": "Excited", "topic": "Work"}`,
			Done:     true,
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	cats, err := provider.ClassifyText(context.Background(), "Big launch day!")
	if err != nil {
		t.Fatalf("Expected the embedded JSON object to parse, got %v", err)
	}
	if cats[model.DimensionMood] != model.MoodExcited {
		t.Errorf("Expected Excited mood, got %s", cats[model.DimensionMood])
	}
}
