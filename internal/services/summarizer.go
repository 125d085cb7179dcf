package services

import (
	"context"
	"os"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/jhjh0512/echo-fm-backend/internal/cache"
	"github.com/jhjh0512/echo-fm-backend/internal/logger"
)

const summarizeSystemPrompt = "You are a helpful assistant. Summarize the following narration into a single sentence (max 120 characters) in the SAME LANGUAGE as the original."

const summarizeConcurrency = 3

// NarrationSummarizer compacts narrations into one-sentence, same-language
// summaries for the client's history view. A batch never fails as a whole:
// unsummarizable items come back as empty strings.
type NarrationSummarizer interface {
	Summarize(ctx context.Context, texts []string) []string
}

type narrationSummarizer struct {
	log    *logger.Logger
	client OpenAIClient
	cache  cache.SummaryCache
	sem    *semaphore.Weighted
	model  string
}

func NewNarrationSummarizer(log *logger.Logger, client OpenAIClient, summaryCache cache.SummaryCache) NarrationSummarizer {
	model := os.Getenv("OPENAI_SUMMARY_MODEL")
	if model == "" {
		model = "gpt-3.5-turbo"
	}
	return &narrationSummarizer{
		log:    log.With("service", "NarrationSummarizer"),
		client: client,
		cache:  summaryCache,
		sem:    semaphore.NewWeighted(summarizeConcurrency),
		model:  model,
	}
}

// Summarize fans the batch out concurrently; the semaphore keeps at most 3
// completions in flight across all callers.
func (s *narrationSummarizer) Summarize(ctx context.Context, texts []string) []string {
	out := make([]string, len(texts))
	var wg sync.WaitGroup
	for i, text := range texts {
		wg.Add(1)
		go func(i int, text string) {
			defer wg.Done()
			out[i] = s.summarizeOne(ctx, text)
		}(i, text)
	}
	wg.Wait()
	return out
}

func (s *narrationSummarizer) summarizeOne(ctx context.Context, text string) string {
	if text == "" {
		return ""
	}
	if summary, ok := s.cache.Get(ctx, text); ok {
		return summary
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return ""
	}
	defer s.sem.Release(1)

	summary, err := s.client.ChatComplete(ctx, ChatRequest{
		Model:       s.model,
		Temperature: 0.3,
		MaxTokens:   80,
		Messages: []ChatMessage{
			{Role: "system", Content: summarizeSystemPrompt},
			{Role: "user", Content: text},
		},
	})
	if err != nil {
		s.log.Warn("narration summary failed", "error", err)
		return ""
	}
	summary = strings.TrimSpace(summary)
	s.cache.Set(ctx, text, summary)
	return summary
}
