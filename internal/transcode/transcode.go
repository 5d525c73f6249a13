// Package transcode remuxes a video byte stream into fragmented MP4 by
// piping it through ffmpeg. Video is copied, audio is re-encoded.
package transcode

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/driveflix/internal/metrics"
)

var (
	// ErrSpawn means the ffmpeg process could not be started.
	ErrSpawn = errors.New("transcoder could not be started")
	// ErrSource means reading the source stream failed mid-transcode.
	ErrSource = errors.New("source stream failed")
	// ErrOutputClosed means the sink went away before the transcode finished.
	// For HTTP callers this is a client disconnect, not a failure.
	ErrOutputClosed = errors.New("output closed")
)

// ExitError reports a non-zero ffmpeg exit.
type ExitError struct {
	Code   int
	Stderr string // last lines ffmpeg wrote to stderr
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("ffmpeg exited with code %d", e.Code)
	}
	return fmt.Sprintf("ffmpeg exited with code %d: %s", e.Code, e.Stderr)
}

const stderrLines = 20

// Config controls the ffmpeg invocation.
type Config struct {
	FFmpegPath   string
	AudioCodec   string
	AudioBitrate string
	// KillGrace is how long the process group gets between SIGTERM and
	// SIGKILL once the transcode is abandoned.
	KillGrace time.Duration
}

// Transcoder runs ffmpeg processes. It is safe for concurrent use.
type Transcoder struct {
	cfg Config
	log *slog.Logger

	onStart func(pid int) // test hook
}

// New creates a Transcoder, filling in defaults for empty fields.
func New(cfg Config, logger *slog.Logger) *Transcoder {
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = "ffmpeg"
	}
	if cfg.AudioCodec == "" {
		cfg.AudioCodec = "aac"
	}
	if cfg.AudioBitrate == "" {
		cfg.AudioBitrate = "128k"
	}
	if cfg.KillGrace <= 0 {
		cfg.KillGrace = 2 * time.Second
	}
	return &Transcoder{cfg: cfg, log: logger.With("component", "transcode")}
}

// Args returns the ffmpeg arguments: stdin in, stdout out, video copied,
// fragmented MP4 so the output never needs seeking.
func (t *Transcoder) Args() []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", "pipe:0",
		"-c:v", "copy",
		"-c:a", t.cfg.AudioCodec,
		"-b:a", t.cfg.AudioBitrate,
		"-movflags", "frag_keyframe+empty_moov",
		"-f", "mp4",
		"pipe:1",
	}
}

// Transcode pipes src through ffmpeg into dst and blocks until the
// process has exited and been reaped. Transcode owns src and closes it if
// it is an io.Closer.
//
// Cancelling ctx, a write error on dst, or a read error on src all
// terminate the process group. A completed transcode returns nil.
func (t *Transcoder) Transcode(ctx context.Context, src io.Reader, dst io.Writer) (err error) {
	var closeOnce sync.Once
	closeSource := func() {
		closeOnce.Do(func() {
			if c, ok := src.(io.Closer); ok {
				_ = c.Close()
			}
		})
	}
	defer closeSource()

	cmd := exec.Command(t.cfg.FFmpegPath, t.Args()...)
	setProcessGroup(cmd)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSpawn, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSpawn, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSpawn, err)
	}

	if err := cmd.Start(); err != nil {
		metrics.TranscodeExitsTotal.WithLabelValues("spawn_error").Inc()
		return fmt.Errorf("%w: %w", ErrSpawn, err)
	}
	pid := cmd.Process.Pid
	log := t.log.With("pid", pid)
	log.Debug("ffmpeg started")
	if t.onStart != nil {
		t.onStart(pid)
	}

	metrics.TranscodesActive.Inc()
	start := time.Now()
	defer func() {
		metrics.TranscodesActive.Dec()
		metrics.TranscodeExitsTotal.WithLabelValues(exitResult(err)).Inc()
		log.Debug("ffmpeg finished", "duration_ms", time.Since(start).Milliseconds(), "error", err)
	}()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The watcher is the only goroutine that signals the process group.
	// It exits before cmd.Wait, so no signal can reach a reaped pid.
	stop := make(chan struct{})
	watcherDone := make(chan struct{})
	go func() {
		defer close(watcherDone)
		select {
		case <-stop:
			return
		case <-runCtx.Done():
		}
		closeSource()
		if err := terminate(cmd); err != nil {
			log.Debug("terminate process group", "error", err)
		}
		select {
		case <-stop:
		case <-time.After(t.cfg.KillGrace):
			if err := kill(cmd); err != nil {
				log.Debug("kill process group", "error", err)
			}
		}
	}()

	var outputDone atomic.Bool
	tail := newLineRing(stderrLines)

	var g errgroup.Group
	g.Go(func() error {
		_, err := io.Copy(stdin, src)
		if err == nil || errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe) ||
			outputDone.Load() || runCtx.Err() != nil {
			_ = stdin.Close()
			return nil
		}
		cancel()
		_ = stdin.Close()
		return fmt.Errorf("%w: %w", ErrSource, err)
	})
	g.Go(func() error {
		_, err := io.Copy(dst, stdout)
		outputDone.Store(true)
		closeSource()
		if err != nil {
			cancel()
			return fmt.Errorf("%w: %w", ErrOutputClosed, err)
		}
		return nil
	})
	g.Go(func() error {
		sc := bufio.NewScanner(stderr)
		for sc.Scan() {
			line := sc.Text()
			tail.add(line)
			log.Debug("ffmpeg", "stderr", line)
		}
		// Keep draining if a line overflowed the scanner.
		_, _ = io.Copy(io.Discard, stderr)
		return nil
	})

	pumpErr := g.Wait()
	close(stop)
	<-watcherDone
	waitErr := cmd.Wait()

	if pumpErr != nil {
		return pumpErr
	}
	if ctx.Err() != nil {
		return fmt.Errorf("%w: %w", ErrOutputClosed, ctx.Err())
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return &ExitError{Code: exitErr.ExitCode(), Stderr: tail.String()}
		}
		return fmt.Errorf("wait for ffmpeg: %w", waitErr)
	}
	return nil
}

// CheckAvailable runs "ffmpeg -version" and reports whether it succeeded.
func (t *Transcoder) CheckAvailable(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := exec.CommandContext(ctx, t.cfg.FFmpegPath, "-version").Run(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSpawn, t.cfg.FFmpegPath, err)
	}
	return nil
}

// IsTranscodeNeeded reports whether a file is in a container browsers
// cannot play directly. The extension is checked as well because remote
// stores often report a generic MIME type.
func IsTranscodeNeeded(mimeType, name string) bool {
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	switch strings.ToLower(strings.TrimSpace(mimeType)) {
	case "video/x-matroska", "video/mkv":
		return true
	}
	return strings.HasSuffix(strings.ToLower(name), ".mkv")
}

func exitResult(err error) string {
	var exitErr *ExitError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrOutputClosed):
		return "client_gone"
	case errors.Is(err, ErrSource):
		return "source_error"
	case errors.As(err, &exitErr):
		return "exit_error"
	default:
		return "spawn_error"
	}
}

// lineRing keeps the last n lines written to it.
type lineRing struct {
	mu    sync.Mutex
	lines []string
	n     int
}

func newLineRing(n int) *lineRing {
	return &lineRing{n: n}
}

func (r *lineRing) add(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, line)
	if len(r.lines) > r.n {
		r.lines = r.lines[len(r.lines)-r.n:]
	}
}

func (r *lineRing) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return strings.Join(r.lines, "\n")
}
