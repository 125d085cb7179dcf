package services

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/jhjh0512/echo-fm-backend/internal/logger"
)

const searchMaxResults = 10

// VideoSearcher returns candidate video IDs for a query in relevance order.
type VideoSearcher interface {
	Search(ctx context.Context, query string, maxResults int64) ([]string, error)
}

type youtubeSearcher struct {
	service *youtube.Service
}

func NewYouTubeSearcher(ctx context.Context) (VideoSearcher, error) {
	apiKey := os.Getenv("YOUTUBE_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("missing YOUTUBE_API_KEY")
	}
	service, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("youtube service: %w", err)
	}
	return &youtubeSearcher{service: service}, nil
}

func (s *youtubeSearcher) Search(ctx context.Context, query string, maxResults int64) ([]string, error) {
	resp, err := s.service.Search.List([]string{"id"}).
		Q(query).
		Type("video").
		Order("relevance").
		MaxResults(maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			ids = append(ids, item.Id.VideoId)
		}
	}
	return ids, nil
}

// VideoResolver finds a playable replacement ID for a track by searching the
// video catalog with progressively looser query phrasings.
type VideoResolver interface {
	Resolve(ctx context.Context, title, artist string) (string, bool)
}

type videoResolver struct {
	log       *logger.Logger
	searcher  VideoSearcher
	validator VideoValidator
}

func NewVideoResolver(log *logger.Logger, searcher VideoSearcher, validator VideoValidator) VideoResolver {
	return &videoResolver{
		log:       log.With("service", "VideoResolver"),
		searcher:  searcher,
		validator: validator,
	}
}

// searchQueries orders phrasings from most to least specific. The "official
// video" forms surface label uploads first; the bare forms are the last resort.
func searchQueries(title, artist string) []string {
	return []string{
		fmt.Sprintf("%q %s official video", title, artist),
		fmt.Sprintf("%s %q official video", artist, title),
		fmt.Sprintf("%q %s lyrics", title, artist),
		fmt.Sprintf("%s %q lyrics", artist, title),
		fmt.Sprintf("%q %s live", title, artist),
		fmt.Sprintf("%s %q live", artist, title),
		fmt.Sprintf("%q %s", title, artist),
		fmt.Sprintf("%s %q", artist, title),
	}
}

func (s *videoResolver) Resolve(ctx context.Context, title, artist string) (string, bool) {
	for _, q := range searchQueries(title, artist) {
		ids, err := s.searcher.Search(ctx, q, searchMaxResults)
		if err != nil {
			// A failed search call means no results for this phrasing, not a
			// failed resolution.
			s.log.Warn("video search failed", "query", q, "error", err)
			continue
		}
		s.log.Debug("video search", "query", q, "candidates", len(ids))
		for _, id := range ids {
			if s.validator.IsValid(ctx, id) {
				return id, true
			}
		}
	}
	return "", false
}
