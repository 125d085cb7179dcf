package services

import (
	"testing"
	"time"
)

func TestNewOpenAIClientConfigFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("OPENAI_TIMEOUT_SECONDS", "15")
	t.Setenv("OPENAI_MAX_RETRIES", "5")

	client, err := NewOpenAIClient(testLogger(t))
	if err != nil {
		t.Fatalf("NewOpenAIClient: %v", err)
	}
	c := client.(*openAIClient)
	if got, want := c.httpClient.Timeout, 15*time.Second; got != want {
		t.Fatalf("timeout = %s, want %s", got, want)
	}
	if c.maxRetries != 5 {
		t.Fatalf("maxRetries = %d, want 5", c.maxRetries)
	}
}

func TestNewOpenAIClientDefaultsOnBadEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("OPENAI_TIMEOUT_SECONDS", "soon")
	t.Setenv("OPENAI_MAX_RETRIES", "-2")

	client, err := NewOpenAIClient(testLogger(t))
	if err != nil {
		t.Fatalf("NewOpenAIClient: %v", err)
	}
	c := client.(*openAIClient)
	if got, want := c.httpClient.Timeout, 120*time.Second; got != want {
		t.Fatalf("timeout = %s, want %s", got, want)
	}
	if c.maxRetries != 3 {
		t.Fatalf("maxRetries = %d, want 3", c.maxRetries)
	}
}

func TestNewOpenAIClientRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := NewOpenAIClient(testLogger(t)); err == nil {
		t.Fatal("NewOpenAIClient succeeded without OPENAI_API_KEY")
	}
}
