package v1

import (
	"net/http"

	"github.com/vmunix/driveflix/internal/library"
	"github.com/vmunix/driveflix/pkg/medianame"
)

func (s *Server) listContent(w http.ResponseWriter, r *http.Request) {
	filter := library.ContentFilter{
		Limit:  queryInt(r, "limit", 50),
		Offset: queryInt(r, "offset", 0),
	}
	if typeStr := queryString(r, "type"); typeStr != nil {
		t := library.ContentType(*typeStr)
		if t != library.ContentTypeMovie && t != library.ContentTypeSeries {
			writeError(w, http.StatusBadRequest, "INVALID_TYPE", "type must be movie or series")
			return
		}
		filter.Type = &t
	}

	if q := queryString(r, "q"); q != nil {
		s.searchContent(w, *q, filter)
		return
	}

	items, total, err := s.deps.Library.ListContent(filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}

	resp := listContentResponse{
		Items:  make([]contentResponse, len(items)),
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	for i, c := range items {
		resp.Items[i] = contentToResponse(c)
	}
	writeJSON(w, http.StatusOK, resp)
}

// searchContent ranks all titles of the filtered type by fuzzy similarity
// to q, then pages the ranked list.
func (s *Server) searchContent(w http.ResponseWriter, q string, filter library.ContentFilter) {
	limit, offset := filter.Limit, filter.Offset
	filter.Limit, filter.Offset = 0, 0

	all, _, err := s.deps.Library.ListContent(filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}

	titles := make([]string, len(all))
	for i, c := range all {
		titles[i] = c.Title
	}
	ranked := medianame.RankTitles(q, titles)

	resp := listContentResponse{Items: []contentResponse{}, Total: len(ranked), Limit: limit, Offset: offset}
	for i := offset; i < len(ranked) && (limit <= 0 || i < offset+limit); i++ {
		item := contentToResponse(all[ranked[i].Index])
		item.MatchScore = ranked[i].Score
		resp.Items = append(resp.Items, item)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getContent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	c, err := s.deps.Library.GetContent(id)
	if err != nil {
		writeRecordError(w, err, "Content")
		return
	}
	writeJSON(w, http.StatusOK, contentToResponse(c))
}

func (s *Server) listSeasons(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	c, err := s.deps.Library.GetContent(id)
	if err != nil {
		writeRecordError(w, err, "Series")
		return
	}
	if c.Type != library.ContentTypeSeries {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Series not found")
		return
	}

	seasons, err := s.deps.Library.ListSeasons(c.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	resp := make([]seasonResponse, len(seasons))
	for i, season := range seasons {
		resp[i] = seasonResponse{
			ID:      season.ID,
			Number:  season.Number,
			Title:   season.Title,
			AddedAt: season.AddedAt,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) listEpisodes(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	if _, err := s.deps.Library.GetSeason(id); err != nil {
		writeRecordError(w, err, "Season")
		return
	}

	episodes, total, err := s.deps.Library.ListEpisodes(library.EpisodeFilter{SeasonID: &id})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	resp := listEpisodesResponse{Items: make([]episodeResponse, len(episodes)), Total: total}
	for i, e := range episodes {
		resp.Items[i] = episodeToResponse(e)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Transcoder.CheckAvailable(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{
			Status: "degraded",
			FFmpeg: "unavailable",
			Error:  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", FFmpeg: "available"})
}
