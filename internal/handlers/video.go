package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jhjh0512/echo-fm-backend/internal/logger"
	"github.com/jhjh0512/echo-fm-backend/internal/services"
)

type VideoHandler struct {
	log      *logger.Logger
	resolver services.VideoResolver
	fallback services.ModelFallbackResolver
}

func NewVideoHandler(log *logger.Logger, resolver services.VideoResolver, fallback services.ModelFallbackResolver) *VideoHandler {
	return &VideoHandler{
		log:      log.With("handler", "VideoHandler"),
		resolver: resolver,
		fallback: fallback,
	}
}

type searchVideoRequest struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// SearchVideo handles POST /search-video: re-resolve a track whose stored
// video ID went stale.
func (h *VideoHandler) SearchVideo(c *gin.Context) {
	var req searchVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Artist) == "" {
		RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("title and artist are required"))
		return
	}

	ctx := c.Request.Context()
	id, ok := h.resolver.Resolve(ctx, req.Title, req.Artist)
	if !ok {
		id, ok = h.fallback.ResolveViaModel(ctx, req.Title, req.Artist)
	}
	if !ok {
		h.log.Warn("no playable video found", "title", req.Title, "artist", req.Artist)
		RespondError(c, http.StatusNotFound, "video_not_found", fmt.Errorf("no playable video for %q by %s", req.Title, req.Artist))
		return
	}
	RespondOK(c, gin.H{"youtube_id": id})
}
