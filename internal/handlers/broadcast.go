package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jhjh0512/echo-fm-backend/internal/logger"
	"github.com/jhjh0512/echo-fm-backend/internal/services"
	"github.com/jhjh0512/echo-fm-backend/internal/types"
)

type BroadcastHandler struct {
	log       *logger.Logger
	generator services.PlaylistGenerator
}

func NewBroadcastHandler(log *logger.Logger, generator services.PlaylistGenerator) *BroadcastHandler {
	return &BroadcastHandler{
		log:       log.With("handler", "BroadcastHandler"),
		generator: generator,
	}
}

// Generate handles POST /generate.
func (h *BroadcastHandler) Generate(c *gin.Context) {
	req := types.GenerationRequest{
		TalkRatio:  0.5,
		Language:   "en-US",
		TrackCount: 5,
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.TrackCount < 1 {
		RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("track_count must be at least 1"))
		return
	}

	result, err := h.generator.Generate(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrInsufficientTracks) {
			h.log.Warn("generation exhausted retries", "era", req.Era, "genre", req.Genre, "track_count", req.TrackCount)
			RespondError(c, http.StatusBadGateway, "insufficient_valid_tracks", err)
			return
		}
		h.log.Error("Generate failed", "error", err, "era", req.Era, "genre", req.Genre, "track_count", req.TrackCount)
		RespondError(c, http.StatusInternalServerError, "generation_failed", err)
		return
	}
	RespondOK(c, result)
}
