package library

// ContentFilter specifies criteria for listing content.
type ContentFilter struct {
	Type   *ContentType
	Title  *string
	Limit  int // 0 = no limit
	Offset int
}

// EpisodeFilter specifies criteria for listing episodes.
type EpisodeFilter struct {
	SeasonID  *int64
	ContentID *int64
	Limit     int
	Offset    int
}

// SyncLogFilter specifies criteria for listing sync runs, newest first.
type SyncLogFilter struct {
	Kind   *SyncKind
	Status *SyncStatus
	Limit  int
}
