package events

// SyncStarted is emitted when a movies or series sync begins.
type SyncStarted struct {
	BaseEvent
	Kind     string `json:"sync_type"`
	FolderID string `json:"folder_id"`
}

// SyncFinished is emitted when a sync ends, successfully or not.
type SyncFinished struct {
	BaseEvent
	Kind         string `json:"sync_type"`
	FolderID     string `json:"folder_id"`
	Status       string `json:"status"`
	ItemsFound   int    `json:"items_found"`
	ItemsAdded   int    `json:"items_added"`
	ItemsUpdated int    `json:"items_updated"`
	ItemsSkipped int    `json:"items_skipped"`
	Error        string `json:"error,omitempty"`
}

// ContentAdded is emitted when a sync creates a new movie or series.
type ContentAdded struct {
	BaseEvent
	ContentID   int64  `json:"content_id"`
	ContentType string `json:"content_type"` // "movie" or "series"
	Title       string `json:"title"`
}
