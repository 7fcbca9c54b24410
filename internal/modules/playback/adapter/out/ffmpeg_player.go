package out

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	playbackout "storydeck/internal/modules/playback/port/out"
	"storydeck/internal/platform/clock"
	"storydeck/internal/platform/logging"
)

type FFmpegOptions struct {
	FFmpegPath   string
	DeviceFormat string
	Device       string
}

// FFmpegPlayer decodes a clip with an ffmpeg child process writing straight
// to an output device. Pausing ends the process and remembers the position;
// playing again starts a new process seeked to it.
type FFmpegPlayer struct {
	opts   FFmpegOptions
	clock  clock.Clock
	logger *logging.Logger

	mu        sync.Mutex
	url       string
	offset    float64
	volume    float64
	startedAt time.Time
	cmd       *exec.Cmd
	ended     bool
}

func NewFFmpegPlayer(opts FFmpegOptions, clk clock.Clock, logger *logging.Logger) playbackout.AudioPlayer {
	if opts.FFmpegPath == "" {
		opts.FFmpegPath = "ffmpeg"
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &FFmpegPlayer{opts: opts, clock: clk, logger: logger, volume: 1}
}

func (p *FFmpegPlayer) Load(url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	if !strings.Contains(url, "://") {
		if _, err := os.Stat(url); err != nil {
			p.url = ""
			return fmt.Errorf("audio clip %s: %w", url, err)
		}
	}
	p.url = url
	p.offset = 0
	p.ended = false
	return nil
}

func (p *FFmpegPlayer) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.url == "" {
		return errors.New("no clip loaded")
	}
	if p.cmd != nil {
		return nil
	}

	cmd := ffmpeg.Input(p.url, ffmpeg.KwArgs{
		"ss":       fmt.Sprintf("%.3f", p.startOffsetLocked()),
		"nostdin":  "",
		"loglevel": "error",
	}).
		Output(p.opts.Device, ffmpeg.KwArgs{
			"f":  p.opts.DeviceFormat,
			"af": fmt.Sprintf("volume=%.2f", p.volume),
		}).
		SetFfmpegPath(p.opts.FFmpegPath).
		Compile()
	var stderr bytes.Buffer
	cmd.Stdout = nil
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg: %w", err)
	}
	p.cmd = cmd
	p.startedAt = p.clock.Now()
	go p.wait(cmd, &stderr)
	return nil
}

func (p *FFmpegPlayer) wait(cmd *exec.Cmd, stderr *bytes.Buffer) {
	err := cmd.Wait()
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cmd != cmd {
		return
	}
	p.offset = p.positionLocked()
	p.cmd = nil
	if err != nil {
		p.logger.Warnw("ffmpeg exited with error", "clip", p.url, "error", err, "stderr", strings.TrimSpace(stderr.String()))
		return
	}
	p.ended = true
}

// startOffsetLocked is where the next process starts. A clip that ran to its
// end starts over.
func (p *FFmpegPlayer) startOffsetLocked() float64 {
	if p.ended {
		p.offset = 0
		p.ended = false
	}
	return p.offset
}

func (p *FFmpegPlayer) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *FFmpegPlayer) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cmd != nil
}

func (p *FFmpegPlayer) CurrentTime() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.positionLocked()
}

// Seek restarts the process at the new position when playing.
func (p *FFmpegPlayer) Seek(seconds float64) {
	p.mu.Lock()
	playing := p.cmd != nil
	p.stopLocked()
	if seconds < 0 {
		seconds = 0
	}
	p.offset = seconds
	p.ended = false
	p.mu.Unlock()
	if playing {
		if err := p.Play(); err != nil {
			p.logger.Warnw("ffmpeg restart after seek failed", "error", err)
		}
	}
}

// SetVolume applies from the next start.
func (p *FFmpegPlayer) SetVolume(volume float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = volume
}

func (p *FFmpegPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	p.url = ""
	return nil
}

func (p *FFmpegPlayer) positionLocked() float64 {
	if p.cmd == nil {
		return p.offset
	}
	return p.offset + p.clock.Now().Sub(p.startedAt).Seconds()
}

func (p *FFmpegPlayer) stopLocked() {
	if p.cmd == nil {
		return
	}
	p.offset = p.positionLocked()
	cmd := p.cmd
	p.cmd = nil
	if cmd.Process != nil {
		if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			p.logger.Warnw("stop ffmpeg failed", "error", err)
		}
	}
}
