package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"

	v1 "github.com/vmunix/driveflix/internal/api/v1"
	"github.com/vmunix/driveflix/internal/catalog"
	"github.com/vmunix/driveflix/internal/config"
	"github.com/vmunix/driveflix/internal/events"
	"github.com/vmunix/driveflix/internal/library"
	"github.com/vmunix/driveflix/internal/remote"
	"github.com/vmunix/driveflix/internal/remote/gdrive"
	"github.com/vmunix/driveflix/internal/remote/localfs"
	"github.com/vmunix/driveflix/internal/remote/s3store"
	"github.com/vmunix/driveflix/internal/server"
	"github.com/vmunix/driveflix/internal/transcode"
)

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newLogger writes to stdout, or to a size-rotated file when logFile is set.
func newLogger(level, logFile string) (*slog.Logger, io.Closer) {
	var out io.Writer = os.Stdout
	var closer io.Closer = io.NopCloser(nil)
	if logFile != "" {
		lj := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}
		out, closer = lj, lj
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: parseLogLevel(level)})), closer
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 200 { // Only capture first WriteHeader call
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps streaming responses flowing through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// logRequests logs each request and tags it with an X-Request-ID, reusing
// the caller's ID when one is supplied.
func logRequests(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)

		wrapped := &statusRecorder{ResponseWriter: w, status: 200}
		next.ServeHTTP(wrapped, r)
		log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", reqID,
		)
	})
}

// newRemote builds the configured remote store backend.
func newRemote(ctx context.Context, cfg config.RemoteConfig, logger *slog.Logger) (remote.Store, error) {
	switch cfg.Backend {
	case config.BackendLocal:
		return localfs.New(cfg.Local.Root), nil
	case config.BackendS3:
		return s3store.New(s3store.Config{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})
	default:
		return gdrive.New(ctx, gdrive.Config{
			ClientID:     cfg.GDrive.ClientID,
			ClientSecret: cfg.GDrive.ClientSecret,
			RefreshToken: cfg.GDrive.RefreshToken,
			Endpoint:     cfg.GDrive.Endpoint,
			Attempts:     cfg.GDrive.Attempts,
			RetryDelay:   cfg.GDrive.RetryDelay,
		}, logger)
	}
}

func runServer(configPath string) error {
	// Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, logCloser := newLogger(cfg.Server.LogLevel, cfg.Server.LogFile)
	defer func() { _ = logCloser.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Ensure database directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	db, err := library.OpenDB(ctx, cfg.Database.Path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	store := library.NewStore(db)

	rs, err := newRemote(ctx, cfg.Remote, logger)
	if err != nil {
		return fmt.Errorf("remote store: %w", err)
	}

	tr := transcode.New(transcode.Config{
		FFmpegPath:   cfg.Transcode.FFmpegPath,
		AudioCodec:   cfg.Transcode.AudioCodec,
		AudioBitrate: cfg.Transcode.AudioBitrate,
		KillGrace:    cfg.Transcode.KillGrace,
	}, logger)
	if err := tr.CheckAvailable(ctx); err != nil {
		logger.Warn("ffmpeg not available, mkv playback will fail", "error", err)
	}

	folders := catalog.Folders{Movies: cfg.Library.MoviesFolder, Series: cfg.Library.SeriesFolder}
	bus := events.NewBus(logger)
	defer func() { _ = bus.Close() }()
	syncer := catalog.New(rs, store, logger).WithEvents(bus)

	var components []server.Component
	if cfg.Sync.Schedule != "" {
		sched, err := catalog.NewScheduler(cfg.Sync.Schedule, syncer, folders, logger)
		if err != nil {
			return err
		}
		components = append(components, sched)
	}

	api, err := v1.New(v1.ServerDeps{
		Library:               store,
		Remote:                rs,
		Syncer:                syncer,
		Transcoder:            tr,
		Folders:               folders,
		Events:                bus,
		APIKey:                cfg.Server.APIKey,
		SyncRequestsPerMinute: cfg.Sync.RequestsPerMinute,
		Logger:                logger,
	})
	if err != nil {
		return err
	}
	mux := http.NewServeMux()
	api.RegisterRoutes(mux)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server starting",
		"addr", addr,
		"database", cfg.Database.Path,
		"remote", cfg.Remote.Backend,
		"movies_folder", folders.Movies,
		"series_folder", folders.Series,
		"schedule", cfg.Sync.Schedule,
		"log_level", cfg.Server.LogLevel,
	)

	srv := &http.Server{
		Addr:              addr,
		Handler:           logRequests(mux, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	// Event streams never finish on their own.
	srv.RegisterOnShutdown(func() { _ = bus.Close() })
	runner := server.NewRunner(srv, server.Config{ShutdownTimeout: 30 * time.Second}, logger, components...)
	if err := runner.Run(ctx); err != nil {
		return err
	}

	logger.Info("server stopped")
	return nil
}
