package services

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhjh0512/echo-fm-backend/internal/logger"
)

// SpeechService synthesizes narration audio, caching the MP3 on disk keyed by
// (voice, text) so repeated narrations never hit the synthesis API twice.
type SpeechService interface {
	Synthesize(ctx context.Context, text, voice string) (string, error)
}

type speechService struct {
	log          *logger.Logger
	client       OpenAIClient
	cacheDir     string
	defaultVoice string
}

func NewSpeechService(log *logger.Logger, client OpenAIClient) (SpeechService, error) {
	cacheDir := os.Getenv("TTS_CACHE_DIR")
	if cacheDir == "" {
		cacheDir = "tts-cache"
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("tts cache dir: %w", err)
	}

	defaultVoice := os.Getenv("OPENAI_TTS_VOICE")
	if defaultVoice == "" {
		defaultVoice = "alloy"
	}

	return &speechService{
		log:          log.With("service", "SpeechService"),
		client:       client,
		cacheDir:     cacheDir,
		defaultVoice: defaultVoice,
	}, nil
}

// Synthesize returns the path of a cached or freshly rendered MP3.
func (s *speechService) Synthesize(ctx context.Context, text, voice string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("text required")
	}
	if voice == "" {
		voice = s.defaultVoice
	}

	path := s.cacheFilePath(text, voice)
	if _, err := os.Stat(path); err == nil {
		s.log.Debug("tts cache hit", "voice", voice)
		return path, nil
	}

	audio, err := s.client.Speech(ctx, text, voice)
	if err != nil {
		return "", fmt.Errorf("speech synthesis: %w", err)
	}
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return "", fmt.Errorf("write tts cache: %w", err)
	}
	s.log.Info("tts rendered", "voice", voice, "bytes", len(audio))
	return path, nil
}

func (s *speechService) cacheFilePath(text, voice string) string {
	sum := md5.Sum([]byte(voice + "|" + text))
	return filepath.Join(s.cacheDir, hex.EncodeToString(sum[:])+".mp3")
}
