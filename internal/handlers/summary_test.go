package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

type stubSummarizer struct {
	batches [][]string
}

func (s *stubSummarizer) Summarize(_ context.Context, texts []string) []string {
	s.batches = append(s.batches, texts)
	out := make([]string, len(texts))
	for i, t := range texts {
		if t != "" {
			out[i] = "summary of " + t
		}
	}
	return out
}

func newSummaryRouter(t *testing.T, s *stubSummarizer) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewSummaryHandler(testLogger(t), s)
	router.POST("/summaries", h.Summaries)
	return router
}

func TestSummariesSameLengthResponse(t *testing.T) {
	s := &stubSummarizer{}
	router := newSummaryRouter(t, s)

	w := postJSON(t, router, "/summaries", `{"texts":["a","","b"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", w.Code)
	}

	var resp struct {
		Summaries []string `json:"summaries"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Summaries) != 3 {
		t.Fatalf("got %d summaries, want 3", len(resp.Summaries))
	}
	if resp.Summaries[1] != "" {
		t.Fatalf("empty input summarized to %q, want empty", resp.Summaries[1])
	}
}

func TestSummariesMissingTextsIsEmptyBatch(t *testing.T) {
	s := &stubSummarizer{}
	router := newSummaryRouter(t, s)

	w := postJSON(t, router, "/summaries", `{}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", w.Code)
	}

	var resp struct {
		Summaries []string `json:"summaries"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Summaries) != 0 {
		t.Fatalf("got %d summaries for empty batch, want 0", len(resp.Summaries))
	}
}

func TestSummariesRejectsNonArrayTexts(t *testing.T) {
	router := newSummaryRouter(t, &stubSummarizer{})
	w := postJSON(t, router, "/summaries", `{"texts":"not an array"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", w.Code)
	}
}
