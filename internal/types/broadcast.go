package types

// Track is one playlist entry as produced by the model. YoutubeID may be
// rewritten during repair; a track that cannot be repaired is discarded.
type Track struct {
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	YoutubeID string `json:"youtube_id"`
	Narration string `json:"narration"`
}

// HistoryEntry is a previously played track supplied by the client. The server
// only reads these; persistence and merge-on-write live in the browser.
type HistoryEntry struct {
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	Genre     string `json:"genre"`
	Era       string `json:"era"`
	Region    string `json:"region"`
	YoutubeID string `json:"youtube_id"`
	Narration string `json:"narration"`
}

type GenerationRequest struct {
	Era        string         `json:"era"`
	Genre      string         `json:"genre"`
	Region     string         `json:"region"`
	UserArtist string         `json:"user_artist"`
	TalkRatio  float64        `json:"talk_ratio"`
	Language   string         `json:"language"`
	TrackCount int            `json:"track_count"`
	History    []HistoryEntry `json:"history"`
}

type ArtistIntro struct {
	Narration string `json:"narration"`
	Name      string `json:"name,omitempty"`
	Bio       string `json:"bio,omitempty"`
}

type GenerationResult struct {
	ArtistIntro ArtistIntro `json:"artist_intro"`
	Tracks      []Track     `json:"tracks"`
	Closing     string      `json:"closing"`
}
