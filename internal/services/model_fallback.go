package services

import (
	"context"
	"fmt"
	"os"
	"regexp"

	"github.com/jhjh0512/echo-fm-backend/internal/logger"
)

var videoIDPattern = regexp.MustCompile(`[a-zA-Z0-9_-]{11}`)

const fallbackSystemPrompt = "Return up to 5 working YouTube video IDs (comma-separated). Fan uploads, lyric or live videos are OK. If none, reply null."

// ModelFallbackResolver asks the language model directly for candidate video
// IDs. It is the last repair tier, used only after catalog search comes up dry.
type ModelFallbackResolver interface {
	ResolveViaModel(ctx context.Context, title, artist string) (string, bool)
}

type modelFallbackResolver struct {
	log       *logger.Logger
	client    OpenAIClient
	validator VideoValidator
	model     string
}

func NewModelFallbackResolver(log *logger.Logger, client OpenAIClient, validator VideoValidator) ModelFallbackResolver {
	model := os.Getenv("OPENAI_FALLBACK_MODEL")
	if model == "" {
		model = "gpt-4o"
	}
	return &modelFallbackResolver{
		log:       log.With("service", "ModelFallbackResolver"),
		client:    client,
		validator: validator,
		model:     model,
	}
}

func (s *modelFallbackResolver) ResolveViaModel(ctx context.Context, title, artist string) (string, bool) {
	raw, err := s.client.ChatComplete(ctx, ChatRequest{
		Model:       s.model,
		Temperature: 0.2,
		MaxTokens:   50,
		Messages: []ChatMessage{
			{Role: "system", Content: fallbackSystemPrompt},
			{Role: "user", Content: fmt.Sprintf("%s by %s", title, artist)},
		},
	})
	if err != nil {
		s.log.Warn("fallback completion failed", "title", title, "artist", artist, "error", err)
		return "", false
	}

	ids := videoIDPattern.FindAllString(raw, -1)
	s.log.Debug("fallback candidates", "title", title, "artist", artist, "count", len(ids))
	for _, id := range ids {
		if s.validator.IsValid(ctx, id) {
			return id, true
		}
	}
	return "", false
}
