package v1

import (
	"strconv"
	"time"

	"github.com/vmunix/driveflix/internal/catalog"
	"github.com/vmunix/driveflix/internal/library"
)

// contentResponse is the API representation of content.
type contentResponse struct {
	ID            int64     `json:"id"`
	Type          string    `json:"type"`
	Title         string    `json:"title"`
	Year          *int      `json:"year,omitempty"`
	HasSubtitles  bool      `json:"has_subtitles"`
	TotalSeasons  int       `json:"total_seasons,omitempty"`
	TotalEpisodes int       `json:"total_episodes,omitempty"`
	StreamURL     string    `json:"stream_url,omitempty"`
	MatchScore    float64   `json:"match_score,omitempty"`
	AddedAt       time.Time `json:"added_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// listContentResponse is the response for GET /content.
type listContentResponse struct {
	Items  []contentResponse `json:"items"`
	Total  int               `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

type seasonResponse struct {
	ID      int64     `json:"id"`
	Number  int       `json:"season_number"`
	Title   string    `json:"title"`
	AddedAt time.Time `json:"added_at"`
}

type episodeResponse struct {
	ID           int64  `json:"id"`
	SeasonID     int64  `json:"season_id"`
	Number       int    `json:"episode_number"`
	Title        string `json:"title"`
	HasSubtitles bool   `json:"has_subtitles"`
	StreamURL    string `json:"stream_url"`
}

type listEpisodesResponse struct {
	Items []episodeResponse `json:"items"`
	Total int               `json:"total"`
}

// reportResponse is a sync report as returned by sync endpoints.
type reportResponse struct {
	Kind         string    `json:"sync_type"`
	FolderID     string    `json:"folder_id"`
	ItemsFound   int       `json:"items_found"`
	ItemsAdded   int       `json:"items_added"`
	ItemsUpdated int       `json:"items_updated"`
	ItemsSkipped int       `json:"items_skipped"`
	Status       string    `json:"status"`
	Error        string    `json:"error,omitempty"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
}

type syncResponse struct {
	Message string          `json:"message"`
	Error   string          `json:"error,omitempty"`
	Report  *reportResponse `json:"report"`
}

type syncAllEntry struct {
	Report *reportResponse `json:"report,omitempty"`
	Error  string          `json:"error,omitempty"`
}

type syncAllResponse struct {
	Message string        `json:"message"`
	Movies  *syncAllEntry `json:"movies,omitempty"`
	Series  *syncAllEntry `json:"series,omitempty"`
}

type syncLogResponse struct {
	ID           int64     `json:"id"`
	FolderID     string    `json:"folder_id"`
	Kind         string    `json:"sync_type"`
	ItemsFound   int       `json:"items_found"`
	ItemsAdded   int       `json:"items_added"`
	ItemsUpdated int       `json:"items_updated"`
	Status       string    `json:"status"`
	Error        *string   `json:"error_message,omitempty"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
}

type healthResponse struct {
	Status string `json:"status"`
	FFmpeg string `json:"ffmpeg"`
	Error  string `json:"error,omitempty"`
}

func contentToResponse(c *library.Content) contentResponse {
	resp := contentResponse{
		ID:            c.ID,
		Type:          string(c.Type),
		Title:         c.Title,
		Year:          c.Year,
		HasSubtitles:  c.SubtitleFileID != nil,
		TotalSeasons:  c.TotalSeasons,
		TotalEpisodes: c.TotalEpisodes,
		AddedAt:       c.AddedAt,
		UpdatedAt:     c.UpdatedAt,
	}
	if c.Type == library.ContentTypeMovie {
		resp.StreamURL = "/api/movies/" + strconv.FormatInt(c.ID, 10) + "/stream-video"
	}
	return resp
}

func episodeToResponse(e *library.Episode) episodeResponse {
	return episodeResponse{
		ID:           e.ID,
		SeasonID:     e.SeasonID,
		Number:       e.Number,
		Title:        e.Title,
		HasSubtitles: e.SubtitleFileID != nil,
		StreamURL:    "/api/episodes/" + strconv.FormatInt(e.ID, 10) + "/stream-video",
	}
}

func reportToResponse(r *catalog.Report) *reportResponse {
	if r == nil {
		return nil
	}
	return &reportResponse{
		Kind:         string(r.Kind),
		FolderID:     r.FolderID,
		ItemsFound:   r.ItemsFound,
		ItemsAdded:   r.ItemsAdded,
		ItemsUpdated: r.ItemsUpdated,
		ItemsSkipped: r.ItemsSkipped,
		Status:       string(r.Status),
		Error:        r.ErrorMessage,
		StartedAt:    r.StartedAt,
		FinishedAt:   r.FinishedAt,
	}
}
