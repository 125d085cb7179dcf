package services

import (
	"strings"

	"github.com/jhjh0512/echo-fm-backend/internal/types"
)

// HistoryPrefs is the slice of a generation request that decides which past
// tracks are relevant to the current broadcast.
type HistoryPrefs struct {
	Era        string
	Genre      string
	Region     string
	UserArtist string
}

// FilterHistory returns the subset of history relevant to prefs, deduplicated
// by lower-cased (title, artist) with the most recent occurrence winning, in
// chronological order. It never fails; no matches yield an empty slice.
func FilterHistory(history []types.HistoryEntry, prefs HistoryPrefs) []types.HistoryEntry {
	userArtist := strings.ToLower(strings.TrimSpace(prefs.UserArtist))

	relevant := make([]types.HistoryEntry, 0, len(history))
	for _, trk := range history {
		if trk.Era != prefs.Era {
			continue
		}
		if !strings.EqualFold(trk.Region, prefs.Region) {
			continue
		}
		if !genreSimilar(trk.Genre, prefs.Genre) {
			continue
		}
		if userArtist != "" && strings.ToLower(trk.Artist) != userArtist {
			continue
		}
		relevant = append(relevant, trk)
	}

	// Newest-first scan keeps the most recent occurrence of each track.
	seen := make(map[string]struct{}, len(relevant))
	dedupLatestFirst := make([]types.HistoryEntry, 0, len(relevant))
	for i := len(relevant) - 1; i >= 0; i-- {
		t := relevant[i]
		key := strings.ToLower(t.Title) + "::" + strings.ToLower(t.Artist)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		dedupLatestFirst = append(dedupLatestFirst, t)
	}

	out := make([]types.HistoryEntry, 0, len(dedupLatestFirst))
	for i := len(dedupLatestFirst) - 1; i >= 0; i-- {
		out = append(out, dedupLatestFirst[i])
	}
	return out
}

// genreSimilar is a deliberately loose match: either genre string containing
// the other counts, so "rock" pairs with "indie rock" and vice versa.
func genreSimilar(a, b string) bool {
	la := strings.ToLower(a)
	lb := strings.ToLower(b)
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}
