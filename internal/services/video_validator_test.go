package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jhjh0512/echo-fm-backend/internal/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func newTestValidator(t *testing.T, oembedStatus int, headStatus int) (*videoValidator, *int, *int) {
	t.Helper()
	oembedCalls := 0
	headCalls := 0

	mux := http.NewServeMux()
	mux.HandleFunc("/oembed", func(w http.ResponseWriter, r *http.Request) {
		oembedCalls++
		w.WriteHeader(oembedStatus)
	})
	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			headCalls++
		}
		w.WriteHeader(headStatus)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	v := &videoValidator{
		log:        testLogger(t),
		oembedBase: srv.URL,
		watchBase:  srv.URL,
		httpClient: &http.Client{Timeout: 2 * time.Second},
	}
	return v, &oembedCalls, &headCalls
}

func TestVideoValidator(t *testing.T) {
	cases := []struct {
		name         string
		oembedStatus int
		headStatus   int
		want         bool
		wantHeadHit  bool
	}{
		{
			name:         "oembed_ok",
			oembedStatus: http.StatusOK,
			headStatus:   http.StatusOK,
			want:         true,
			wantHeadHit:  false,
		},
		{
			name:         "oembed_not_found",
			oembedStatus: http.StatusNotFound,
			headStatus:   http.StatusOK,
			want:         false,
			wantHeadHit:  false,
		},
		{
			name:         "forbidden_falls_back_to_head_ok",
			oembedStatus: http.StatusForbidden,
			headStatus:   http.StatusOK,
			want:         true,
			wantHeadHit:  true,
		},
		{
			name:         "unavailable_falls_back_to_head_bad",
			oembedStatus: http.StatusServiceUnavailable,
			headStatus:   http.StatusNotFound,
			want:         false,
			wantHeadHit:  true,
		},
		{
			name:         "server_error_is_invalid",
			oembedStatus: http.StatusInternalServerError,
			headStatus:   http.StatusOK,
			want:         false,
			wantHeadHit:  false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, _, headCalls := newTestValidator(t, tc.oembedStatus, tc.headStatus)
			got := v.IsValid(context.Background(), "dQw4w9WgXcQ")
			if got != tc.want {
				t.Fatalf("IsValid=%v, want %v", got, tc.want)
			}
			if (*headCalls > 0) != tc.wantHeadHit {
				t.Fatalf("head probe hit=%v, want %v", *headCalls > 0, tc.wantHeadHit)
			}
		})
	}
}

func TestVideoValidatorNetworkFailureIsFalse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	v := &videoValidator{
		log:        testLogger(t),
		oembedBase: srv.URL,
		watchBase:  srv.URL,
		httpClient: &http.Client{Timeout: 500 * time.Millisecond},
	}
	if v.IsValid(context.Background(), "dQw4w9WgXcQ") {
		t.Fatal("IsValid=true for unreachable probe, want false")
	}
}

func TestVideoValidatorEmptyID(t *testing.T) {
	v, oembedCalls, _ := newTestValidator(t, http.StatusOK, http.StatusOK)
	if v.IsValid(context.Background(), "  ") {
		t.Fatal("IsValid=true for blank ID, want false")
	}
	if *oembedCalls != 0 {
		t.Fatalf("blank ID should not probe, got %d calls", *oembedCalls)
	}
}

func TestNewVideoValidatorProbeTimeout(t *testing.T) {
	t.Run("reads timeout from env", func(t *testing.T) {
		t.Setenv("YOUTUBE_PROBE_TIMEOUT_MS", "1500")
		v := NewVideoValidator(testLogger(t)).(*videoValidator)
		if got, want := v.httpClient.Timeout, 1500*time.Millisecond; got != want {
			t.Fatalf("probe timeout = %s, want %s", got, want)
		}
	})

	t.Run("falls back on non-positive values", func(t *testing.T) {
		t.Setenv("YOUTUBE_PROBE_TIMEOUT_MS", "0")
		v := NewVideoValidator(testLogger(t)).(*videoValidator)
		if got, want := v.httpClient.Timeout, 3*time.Second; got != want {
			t.Fatalf("probe timeout = %s, want %s", got, want)
		}
	})
}
