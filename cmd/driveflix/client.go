package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client wraps HTTP calls to the driveflix server.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new driveflix API client.
func NewClient(serverURL, apiKey string) *Client {
	return &Client{
		baseURL: serverURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			// Syncs walk the whole remote folder tree.
			Timeout: 10 * time.Minute,
		},
	}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status int
	Code   string
	Msg    string
	Hint   string
	Body   []byte
}

func (e *APIError) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = string(e.Body)
	}
	if e.Hint != "" {
		return fmt.Sprintf("server error %d: %s (%s)", e.Status, msg, e.Hint)
	}
	return fmt.Sprintf("server error %d: %s", e.Status, msg)
}

func (c *Client) do(method, path string, result any) error {
	req, err := http.NewRequest(method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("request creation failed: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{Status: resp.StatusCode, Body: body}
		var parsed struct {
			Error string `json:"error"`
			Code  string `json:"code"`
			Hint  string `json:"hint"`
		}
		if json.Unmarshal(body, &parsed) == nil {
			apiErr.Msg, apiErr.Code, apiErr.Hint = parsed.Error, parsed.Code, parsed.Hint
		}
		return apiErr
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

func (c *Client) get(path string, result any) error {
	return c.do(http.MethodGet, path, result)
}

func (c *Client) post(path string, result any) error {
	return c.do(http.MethodPost, path, result)
}

// API response types (mirror server types)

type HealthResponse struct {
	Status string `json:"status"`
	FFmpeg string `json:"ffmpeg"`
	Error  string `json:"error,omitempty"`
}

type ContentResponse struct {
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

type ListContentResponse struct {
	Items  []ContentResponse `json:"items"`
	Total  int               `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

type SeasonResponse struct {
	ID     int64  `json:"id"`
	Number int    `json:"season_number"`
	Title  string `json:"title"`
}

type EpisodeResponse struct {
	ID           int64  `json:"id"`
	SeasonID     int64  `json:"season_id"`
	Number       int    `json:"episode_number"`
	Title        string `json:"title"`
	HasSubtitles bool   `json:"has_subtitles"`
	StreamURL    string `json:"stream_url"`
}

type ListEpisodesResponse struct {
	Items []EpisodeResponse `json:"items"`
	Total int               `json:"total"`
}

type ReportResponse struct {
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

type SyncResponse struct {
	Message string          `json:"message"`
	Error   string          `json:"error,omitempty"`
	Report  *ReportResponse `json:"report"`
}

type SyncAllEntry struct {
	Report *ReportResponse `json:"report,omitempty"`
	Error  string          `json:"error,omitempty"`
}

type SyncAllResponse struct {
	Message string        `json:"message"`
	Movies  *SyncAllEntry `json:"movies,omitempty"`
	Series  *SyncAllEntry `json:"series,omitempty"`
}

type SyncLogResponse struct {
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

// API methods

func (c *Client) Health() (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.get("/api/health", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ContentFilter narrows a catalog listing.
type ContentFilter struct {
	Type   string
	Query  string
	Limit  int
	Offset int
}

func (c *Client) Content(f ContentFilter) (*ListContentResponse, error) {
	params := url.Values{}
	if f.Type != "" {
		params.Set("type", f.Type)
	}
	if f.Query != "" {
		params.Set("q", f.Query)
	}
	if f.Limit > 0 {
		params.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset > 0 {
		params.Set("offset", strconv.Itoa(f.Offset))
	}
	path := "/api/content"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	var resp ListContentResponse
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetContent(id int64) (*ContentResponse, error) {
	var resp ContentResponse
	if err := c.get(fmt.Sprintf("/api/content/%d", id), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Seasons(contentID int64) ([]SeasonResponse, error) {
	var resp []SeasonResponse
	if err := c.get(fmt.Sprintf("/api/content/%d/seasons", contentID), &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Episodes(seasonID int64) (*ListEpisodesResponse, error) {
	var resp ListEpisodesResponse
	if err := c.get(fmt.Sprintf("/api/seasons/%d/episodes", seasonID), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Sync triggers a movies or series sync. A failed sync still returns its
// report alongside the error when the server produced one.
func (c *Client) Sync(kind string) (*SyncResponse, error) {
	var resp SyncResponse
	err := c.post("/api/sync/"+kind, &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && len(apiErr.Body) > 0 {
			if json.Unmarshal(apiErr.Body, &resp) == nil && resp.Report != nil {
				return &resp, err
			}
		}
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SyncAll() (*SyncAllResponse, error) {
	var resp SyncAllResponse
	if err := c.post("/api/sync/all", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) History(kind, status string, limit int) ([]SyncLogResponse, error) {
	params := url.Values{}
	if kind != "" {
		params.Set("type", kind)
	}
	if status != "" {
		params.Set("status", status)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	path := "/api/sync/history"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	var resp []SyncLogResponse
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}
