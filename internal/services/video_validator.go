package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/jhjh0512/echo-fm-backend/internal/logger"
	"github.com/jhjh0512/echo-fm-backend/internal/utils"
)

// VideoValidator reports whether a YouTube video ID currently resolves to a
// playable video. It never returns an error: timeouts, 404s and transport
// failures all read as "not playable" and feed the same repair path.
type VideoValidator interface {
	IsValid(ctx context.Context, videoID string) bool
}

type videoValidator struct {
	log        *logger.Logger
	oembedBase string
	watchBase  string
	httpClient *http.Client
}

func NewVideoValidator(log *logger.Logger) VideoValidator {
	oembedBase := os.Getenv("YOUTUBE_OEMBED_BASE_URL")
	if oembedBase == "" {
		oembedBase = "https://www.youtube.com"
	}
	watchBase := os.Getenv("YOUTUBE_WATCH_BASE_URL")
	if watchBase == "" {
		watchBase = "https://www.youtube.com"
	}

	timeoutMS := utils.GetEnvAsInt("YOUTUBE_PROBE_TIMEOUT_MS", 3000, log)
	if timeoutMS <= 0 {
		timeoutMS = 3000
	}

	return &videoValidator{
		log:        log.With("service", "VideoValidator"),
		oembedBase: oembedBase,
		watchBase:  watchBase,
		httpClient: &http.Client{Timeout: time.Duration(timeoutMS) * time.Millisecond},
	}
}

func (s *videoValidator) IsValid(ctx context.Context, videoID string) bool {
	if strings.TrimSpace(videoID) == "" {
		return false
	}

	watchURL := fmt.Sprintf("%s/watch?v=%s", s.watchBase, url.QueryEscape(videoID))
	oembedURL := fmt.Sprintf("%s/oembed?url=%s&format=json", s.oembedBase, url.QueryEscape(watchURL))

	status, err := s.probe(ctx, http.MethodGet, oembedURL)
	if err != nil {
		s.log.Debug("oEmbed probe failed", "video_id", videoID, "error", err)
		return false
	}
	if status == http.StatusOK {
		return true
	}

	// oEmbed sometimes answers 403/503 for videos that still play; recheck
	// against the watch URL itself before declaring the ID dead.
	if status == http.StatusForbidden || status == http.StatusServiceUnavailable {
		s.log.Debug("oEmbed degraded, probing watch URL", "video_id", videoID, "status", status)
		headStatus, headErr := s.probe(ctx, http.MethodHead, watchURL)
		if headErr != nil {
			return false
		}
		return headStatus == http.StatusOK
	}

	return false
}

func (s *videoValidator) probe(ctx context.Context, method, rawURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return 0, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}
