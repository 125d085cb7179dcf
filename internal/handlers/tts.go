package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jhjh0512/echo-fm-backend/internal/logger"
	"github.com/jhjh0512/echo-fm-backend/internal/services"
)

type TTSHandler struct {
	log    *logger.Logger
	speech services.SpeechService
}

func NewTTSHandler(log *logger.Logger, speech services.SpeechService) *TTSHandler {
	return &TTSHandler{
		log:    log.With("handler", "TTSHandler"),
		speech: speech,
	}
}

type ttsRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

// Synthesize handles POST /api/tts, streaming the cached or freshly rendered MP3.
func (h *TTSHandler) Synthesize(c *gin.Context) {
	var req ttsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("text is required"))
		return
	}

	path, err := h.speech.Synthesize(c.Request.Context(), req.Text, req.Voice)
	if err != nil {
		h.log.Error("Synthesize failed", "error", err, "voice", req.Voice)
		RespondError(c, http.StatusInternalServerError, "tts_failed", err)
		return
	}
	c.Header("Content-Type", "audio/mpeg")
	c.File(path)
}
