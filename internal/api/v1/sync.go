package v1

import (
	"context"
	"net/http"

	"github.com/vmunix/driveflix/internal/catalog"
	"github.com/vmunix/driveflix/internal/library"
)

// Syncs outlive the request: a client hanging up must not abort a sync
// halfway through writing the catalog.

func (s *Server) syncMovies(w http.ResponseWriter, r *http.Request) {
	folder := s.deps.Folders.Movies
	if folder == "" {
		writeError(w, http.StatusBadRequest, "FOLDER_NOT_CONFIGURED", "Movies folder is not configured")
		return
	}
	report, err := s.deps.Syncer.SyncMovies(context.WithoutCancel(r.Context()), folder)
	writeSyncResult(w, "Movies", report, err)
}

func (s *Server) syncSeries(w http.ResponseWriter, r *http.Request) {
	folder := s.deps.Folders.Series
	if folder == "" {
		writeError(w, http.StatusBadRequest, "FOLDER_NOT_CONFIGURED", "Series folder is not configured")
		return
	}
	report, err := s.deps.Syncer.SyncSeries(context.WithoutCancel(r.Context()), folder)
	writeSyncResult(w, "Series", report, err)
}

func writeSyncResult(w http.ResponseWriter, label string, report *catalog.Report, err error) {
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, syncResponse{
			Message: label + " sync failed",
			Error:   err.Error(),
			Report:  reportToResponse(report),
		})
		return
	}
	writeJSON(w, http.StatusOK, syncResponse{
		Message: label + " sync completed",
		Report:  reportToResponse(report),
	})
}

// syncAll runs every configured kind. Per-kind failures are reported in
// the body; the request itself succeeds.
func (s *Server) syncAll(w http.ResponseWriter, r *http.Request) {
	if s.deps.Folders.Movies == "" && s.deps.Folders.Series == "" {
		writeError(w, http.StatusBadRequest, "FOLDER_NOT_CONFIGURED", "No library folders are configured")
		return
	}
	res := s.deps.Syncer.SyncAll(context.WithoutCancel(r.Context()), s.deps.Folders)
	writeJSON(w, http.StatusOK, syncAllResponse{
		Message: "Sync completed",
		Movies:  allEntry(res.Movies),
		Series:  allEntry(res.Series),
	})
}

func allEntry(res *catalog.Result) *syncAllEntry {
	if res == nil {
		return nil
	}
	e := &syncAllEntry{Report: reportToResponse(res.Report)}
	if res.Err != nil {
		e.Error = res.Err.Error()
	}
	return e
}

func (s *Server) syncHistory(w http.ResponseWriter, r *http.Request) {
	filter := library.SyncLogFilter{Limit: queryInt(r, "limit", 20)}
	if kind := queryString(r, "type"); kind != nil {
		k := library.SyncKind(*kind)
		filter.Kind = &k
	}
	if status := queryString(r, "status"); status != nil {
		st := library.SyncStatus(*status)
		filter.Status = &st
	}

	logs, err := s.deps.Library.ListSyncLogs(filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}

	resp := make([]syncLogResponse, len(logs))
	for i, l := range logs {
		resp[i] = syncLogResponse{
			ID:           l.ID,
			FolderID:     l.FolderID,
			Kind:         string(l.Kind),
			ItemsFound:   l.ItemsFound,
			ItemsAdded:   l.ItemsAdded,
			ItemsUpdated: l.ItemsUpdated,
			Status:       string(l.Status),
			Error:        l.ErrorMessage,
			StartedAt:    l.StartedAt,
			FinishedAt:   l.FinishedAt,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
