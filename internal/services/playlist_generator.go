package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jhjh0512/echo-fm-backend/internal/httpx"
	"github.com/jhjh0512/echo-fm-backend/internal/logger"
	"github.com/jhjh0512/echo-fm-backend/internal/types"
)

// ErrInsufficientTracks is the terminal failure of a generation request: the
// retry budget ran out before trackCount tracks survived validation. Callers
// get this instead of a silently short playlist.
var ErrInsufficientTracks = errors.New("could not secure enough valid tracks")

const generationMaxAttempts = 3

// attempt outcomes recorded for diagnosability.
const (
	causeModelError          = "model_error"
	causeParseFailure        = "parse_failure"
	causeValidationShortfall = "validation_shortfall"
)

type PlaylistGenerator interface {
	Generate(ctx context.Context, req types.GenerationRequest) (*types.GenerationResult, error)
}

type playlistGenerator struct {
	log       *logger.Logger
	client    OpenAIClient
	validator VideoValidator
	resolver  VideoResolver
	fallback  ModelFallbackResolver
	model     string
}

func NewPlaylistGenerator(log *logger.Logger, client OpenAIClient, validator VideoValidator, resolver VideoResolver, fallback ModelFallbackResolver) PlaylistGenerator {
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4o"
	}
	return &playlistGenerator{
		log:       log.With("service", "PlaylistGenerator"),
		client:    client,
		validator: validator,
		resolver:  resolver,
		fallback:  fallback,
		model:     model,
	}
}

func (s *playlistGenerator) Generate(ctx context.Context, req types.GenerationRequest) (*types.GenerationResult, error) {
	if req.TrackCount < 1 {
		return nil, fmt.Errorf("track_count must be at least 1, got %d", req.TrackCount)
	}

	relevant := FilterHistory(req.History, HistoryPrefs{
		Era:        req.Era,
		Genre:      req.Genre,
		Region:     req.Region,
		UserArtist: req.UserArtist,
	})
	systemPrompt := composeSystemPrompt(req, relevant)

	log := s.log.With("era", req.Era, "genre", req.Genre, "region", req.Region, "track_count", req.TrackCount)
	log.Info("generating broadcast", "relevant_history", len(relevant))

	for attempt := 1; attempt <= generationMaxAttempts; attempt++ {
		raw, err := s.client.ChatComplete(ctx, ChatRequest{
			Model:       s.model,
			Temperature: 0.7,
			Messages: []ChatMessage{
				{Role: "system", Content: systemPrompt},
				{Role: "user", Content: "Begin!"},
			},
		})
		if err != nil {
			if !httpx.IsRetryableError(err) {
				log.Error("model call failed", "attempt", attempt, "error", err)
				return nil, err
			}
			log.Warn("generation attempt failed", "attempt", attempt, "cause", causeModelError, "error", err)
			continue
		}

		result, err := parseBroadcast(raw)
		if err != nil {
			log.Warn("generation attempt failed", "attempt", attempt, "cause", causeParseFailure, "error", err)
			continue
		}

		validTracks := s.validateTracks(ctx, result.Tracks)
		if len(validTracks) >= req.TrackCount {
			result.Tracks = validTracks[:req.TrackCount]
			log.Info("broadcast accepted", "attempt", attempt, "valid_tracks", len(validTracks))
			return result, nil
		}
		log.Warn("generation attempt failed", "attempt", attempt, "cause", causeValidationShortfall,
			"valid_tracks", len(validTracks), "wanted", req.TrackCount)
	}

	return nil, ErrInsufficientTracks
}

// validateTracks keeps every track that ends up with a playable video ID,
// repairing invalid IDs via catalog search first and the model fallback second.
// Tracks are handled one at a time; no track's outcome depends on another's.
func (s *playlistGenerator) validateTracks(ctx context.Context, tracks []types.Track) []types.Track {
	valid := make([]types.Track, 0, len(tracks))
	for _, track := range tracks {
		if track.Title == "" || track.Artist == "" || track.YoutubeID == "" {
			s.log.Debug("dropping incomplete track", "title", track.Title, "artist", track.Artist)
			continue
		}
		if s.validator.IsValid(ctx, track.YoutubeID) {
			valid = append(valid, track)
			continue
		}

		newID, ok := s.resolver.Resolve(ctx, track.Title, track.Artist)
		if !ok {
			newID, ok = s.fallback.ResolveViaModel(ctx, track.Title, track.Artist)
		}
		if !ok {
			s.log.Warn("track unrepairable, discarding", "title", track.Title, "artist", track.Artist, "youtube_id", track.YoutubeID)
			continue
		}
		s.log.Info("track repaired", "title", track.Title, "artist", track.Artist, "old_id", track.YoutubeID, "new_id", newID)
		track.YoutubeID = newID
		valid = append(valid, track)
	}
	return valid
}

func composeSystemPrompt(req types.GenerationRequest, relevant []types.HistoryEntry) string {
	userArtist := req.UserArtist
	if strings.TrimSpace(userArtist) == "" {
		userArtist = "none"
	}

	var historyPrompt string
	if len(relevant) > 0 {
		var lines []string
		for _, t := range relevant {
			lines = append(lines, fmt.Sprintf("• %q by %s", t.Title, t.Artist))
		}
		historyPrompt = fmt.Sprintf("Avoid repeating these %d tracks used previously:\n%s", len(relevant), strings.Join(lines, "\n"))
	}

	var noRepeatRule string
	if strings.TrimSpace(req.UserArtist) == "" {
		noRepeatRule = "• IMPORTANT: Do not repeat artists across the playlist."
	}

	return fmt.Sprintf(`You are Echo, an AI DJ who creates radio broadcasts.

User preferences:
• era: %s
• genre: %s
• region: %s
• user_artist: %s
• language: %s
• talk_ratio: %g
• track_count: %d
%s

%s

Instructions:
1. Select music matching the user's preferences.
2. Return exactly %d tracks.
3. For each track, include: title, artist, youtube_id, narration.
4. The DJ narration length must reflect talk_ratio (0.0=no narration, 0.5≈15 sentences, 1.0=full).
5. Entire narration must be written in the specified language.
6. Return only valid JSON with keys: artist_intro, tracks[], closing.
7. If user_artist is 'none', each track must be from a different artist.`,
		req.Era, req.Genre, req.Region, userArtist, req.Language, req.TalkRatio, req.TrackCount,
		noRepeatRule, historyPrompt, req.TrackCount)
}

// parseBroadcast decodes the model's reply, tolerating code-fence wrapping and
// a stray leading "json" token.
func parseBroadcast(raw string) (*types.GenerationResult, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)
	if len(cleaned) >= 4 && strings.EqualFold(cleaned[:4], "json") {
		cleaned = strings.TrimSpace(cleaned[4:])
	}

	var result types.GenerationResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, fmt.Errorf("broadcast JSON: %w", err)
	}
	return &result, nil
}
