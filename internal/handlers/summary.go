package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jhjh0512/echo-fm-backend/internal/logger"
	"github.com/jhjh0512/echo-fm-backend/internal/services"
)

type SummaryHandler struct {
	log        *logger.Logger
	summarizer services.NarrationSummarizer
}

func NewSummaryHandler(log *logger.Logger, summarizer services.NarrationSummarizer) *SummaryHandler {
	return &SummaryHandler{
		log:        log.With("handler", "SummaryHandler"),
		summarizer: summarizer,
	}
}

type summariesRequest struct {
	Texts []string `json:"texts"`
}

// Summaries handles POST /summaries. The response always has one summary per
// input text; items that could not be summarized come back empty.
func (h *SummaryHandler) Summaries(c *gin.Context) {
	var req summariesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.Texts == nil {
		req.Texts = []string{}
	}
	summaries := h.summarizer.Summarize(c.Request.Context(), req.Texts)
	RespondOK(c, gin.H{"summaries": summaries})
}
