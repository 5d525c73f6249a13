package v1

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/vmunix/driveflix/internal/library"
	"github.com/vmunix/driveflix/internal/metrics"
	"github.com/vmunix/driveflix/internal/remote"
	"github.com/vmunix/driveflix/internal/subtitle"
	"github.com/vmunix/driveflix/internal/transcode"
)

const ffmpegHint = "Make sure FFmpeg is installed on the server"

// passthroughHeaders are copied from the remote response on direct streams.
var passthroughHeaders = []string{"Content-Type", "Content-Length", "Content-Range", "Accept-Ranges"}

func setCORS(h http.Header) {
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Range")
	h.Set("Access-Control-Expose-Headers", "Content-Length, Content-Range, Accept-Ranges")
}

func preflight(w http.ResponseWriter, _ *http.Request) {
	setCORS(w.Header())
	w.WriteHeader(http.StatusNoContent)
}

// movie loads content id and checks it is a movie.
func (s *Server) movie(w http.ResponseWriter, r *http.Request) (*library.Content, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return nil, false
	}
	c, err := s.deps.Library.GetContent(id)
	if err != nil {
		writeRecordError(w, err, "Movie")
		return nil, false
	}
	if c.Type != library.ContentTypeMovie {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Movie not found")
		return nil, false
	}
	return c, true
}

func (s *Server) episode(w http.ResponseWriter, r *http.Request) (*library.Episode, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return nil, false
	}
	e, err := s.deps.Library.GetEpisode(id)
	if err != nil {
		writeRecordError(w, err, "Episode")
		return nil, false
	}
	return e, true
}

func (s *Server) streamMovieVideo(w http.ResponseWriter, r *http.Request) {
	setCORS(w.Header())
	c, ok := s.movie(w, r)
	if !ok {
		return
	}
	if c.RemoteID == nil {
		writeError(w, http.StatusNotFound, "NO_FILE", "Movie has no remote file")
		return
	}
	s.streamVideo(w, r, *c.RemoteID)
}

func (s *Server) streamEpisodeVideo(w http.ResponseWriter, r *http.Request) {
	setCORS(w.Header())
	e, ok := s.episode(w, r)
	if !ok {
		return
	}
	s.streamVideo(w, r, e.RemoteFileID)
}

// streamVideo serves fileID directly with range passthrough, or through
// the transcoder when the container is not browser playable.
func (s *Server) streamVideo(w http.ResponseWriter, r *http.Request, fileID string) {
	meta, err := s.deps.Remote.GetMetadata(r.Context(), fileID)
	if err != nil {
		s.log.Warn("remote metadata failed", "file_id", fileID, "error", err)
		writeRemoteError(w, err)
		return
	}

	if transcode.IsTranscodeNeeded(meta.MimeType, meta.Name) {
		s.transcodeVideo(w, r, meta)
		return
	}
	s.passthrough(w, r, meta)
}

func (s *Server) passthrough(w http.ResponseWriter, r *http.Request, meta *remote.Metadata) {
	rangeHeader := r.Header.Get("Range")
	stream, err := s.deps.Remote.OpenReadStream(r.Context(), meta.ID, rangeHeader)
	if err != nil {
		if errors.Is(err, remote.ErrRangeNotSatisfiable) {
			w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", meta.Size))
		}
		s.log.Warn("remote stream failed", "file_id", meta.ID, "range", rangeHeader, "error", err)
		writeRemoteError(w, err)
		return
	}
	defer func() { _ = stream.Close() }()

	h := w.Header()
	for _, k := range passthroughHeaders {
		if v := stream.Header.Get(k); v != "" {
			h.Set(k, v)
		}
	}
	if h.Get("Content-Type") == "" && meta.MimeType != "" {
		h.Set("Content-Type", meta.MimeType)
	}
	status := stream.Status
	if status == 0 {
		status = http.StatusOK
	}
	metrics.StreamsTotal.WithLabelValues("passthrough").Inc()
	w.WriteHeader(status)

	if _, err := io.Copy(w, stream.Body); err != nil {
		s.log.Debug("stream ended early", "file_id", meta.ID, "error", err)
	}
}

func (s *Server) transcodeVideo(w http.ResponseWriter, r *http.Request, meta *remote.Metadata) {
	log := s.log.With("file_id", meta.ID, "name", meta.Name)

	// The output is produced from the start, so any requested range is ignored.
	stream, err := s.deps.Remote.OpenReadStream(r.Context(), meta.ID, "")
	if err != nil {
		log.Warn("remote stream failed", "error", err)
		writeRemoteError(w, err)
		return
	}
	defer func() { _ = stream.Close() }()

	metrics.StreamsTotal.WithLabelValues("transcode").Inc()
	log.Info("transcoding for playback", "mime_type", meta.MimeType)

	out := &lazyResponse{w: w, rc: http.NewResponseController(w)}
	err = s.deps.Transcoder.Transcode(r.Context(), stream.Body, out)
	switch {
	case err == nil:
	case errors.Is(err, transcode.ErrOutputClosed):
		log.Debug("client disconnected during transcode")
	default:
		log.Error("transcode failed", "error", err)
		if !out.started {
			writeErrorHint(w, http.StatusInternalServerError, "TRANSCODE_FAILED", err.Error(), ffmpegHint)
		}
	}
}

// lazyResponse sends the transcoded response headers on the first body
// write, so a failure before any output can still become a JSON error.
type lazyResponse struct {
	w       http.ResponseWriter
	rc      *http.ResponseController
	started bool
}

func (l *lazyResponse) Write(p []byte) (int, error) {
	if !l.started {
		h := l.w.Header()
		h.Set("Content-Type", "video/mp4")
		h.Set("Accept-Ranges", "none")
		l.w.WriteHeader(http.StatusOK)
		l.started = true
	}
	n, err := l.w.Write(p)
	if err != nil {
		return n, err
	}
	_ = l.rc.Flush()
	return n, nil
}

func (s *Server) streamMovieSubtitles(w http.ResponseWriter, r *http.Request) {
	setCORS(w.Header())
	c, ok := s.movie(w, r)
	if !ok {
		return
	}
	if c.SubtitleFileID == nil {
		writeError(w, http.StatusNotFound, "NO_SUBTITLES", "No subtitles available")
		return
	}
	s.streamSubtitles(w, r, *c.SubtitleFileID)
}

func (s *Server) streamEpisodeSubtitles(w http.ResponseWriter, r *http.Request) {
	setCORS(w.Header())
	e, ok := s.episode(w, r)
	if !ok {
		return
	}
	if e.SubtitleFileID == nil {
		writeError(w, http.StatusNotFound, "NO_SUBTITLES", "No subtitles available")
		return
	}
	s.streamSubtitles(w, r, *e.SubtitleFileID)
}

// streamSubtitles fetches an SRT file and serves it as UTF-8 WebVTT.
func (s *Server) streamSubtitles(w http.ResponseWriter, r *http.Request, fileID string) {
	stream, err := s.deps.Remote.OpenReadStream(r.Context(), fileID, "")
	if err != nil {
		s.log.Warn("subtitle stream failed", "file_id", fileID, "error", err)
		writeRemoteError(w, err)
		return
	}
	defer func() { _ = stream.Close() }()

	raw, err := io.ReadAll(io.LimitReader(stream.Body, subtitle.MaxSize+1))
	if err != nil {
		writeError(w, http.StatusBadGateway, "REMOTE_UNAVAILABLE", err.Error())
		return
	}
	if len(raw) > subtitle.MaxSize {
		writeError(w, http.StatusRequestEntityTooLarge, "SUBTITLE_TOO_LARGE", "Subtitle file exceeds 10 MiB")
		return
	}

	vtt, charset := subtitle.Convert(raw)
	metrics.SubtitlesTotal.WithLabelValues(string(charset)).Inc()
	if charset != subtitle.UTF8 {
		s.log.Debug("subtitle re-decoded", "file_id", fileID, "charset", charset)
	}

	w.Header().Set("Content-Type", "text/vtt; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, vtt)
}

type subtitleURLResponse struct {
	URL string `json:"url"`
}

func (s *Server) movieSubtitles(w http.ResponseWriter, r *http.Request) {
	c, ok := s.movie(w, r)
	if !ok {
		return
	}
	if c.SubtitleFileID == nil {
		writeError(w, http.StatusNotFound, "NO_SUBTITLES", "No subtitles available for this movie")
		return
	}
	writeJSON(w, http.StatusOK, subtitleURLResponse{URL: fmt.Sprintf("/api/movies/%d/stream-subtitles", c.ID)})
}

func (s *Server) episodeSubtitles(w http.ResponseWriter, r *http.Request) {
	e, ok := s.episode(w, r)
	if !ok {
		return
	}
	if e.SubtitleFileID == nil {
		writeError(w, http.StatusNotFound, "NO_SUBTITLES", "No subtitles available for this episode")
		return
	}
	writeJSON(w, http.StatusOK, subtitleURLResponse{URL: fmt.Sprintf("/api/episodes/%d/stream-subtitles", e.ID)})
}
