package service

import (
	"context"
	"sync"
	"time"

	"storydeck/internal/modules/playback/domain"
	playbackout "storydeck/internal/modules/playback/port/out"
	"storydeck/internal/platform/logging"
)

const (
	defaultPollInterval     = 50 * time.Millisecond
	defaultSubtitleDuration = 4 * time.Second
)

// AudioController owns one AudioPlayer and maps subtitle bindings onto it.
// Playback failures are logged and never returned: narration advances with
// or without sound.
type AudioController struct {
	player       playbackout.AudioPlayer
	logger       *logging.Logger
	pollInterval time.Duration

	mu            sync.Mutex
	loaded        string
	volume        float64
	stopMonitorFn context.CancelFunc
}

func NewAudioController(player playbackout.AudioPlayer, pollInterval time.Duration, logger *logging.Logger) *AudioController {
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &AudioController{player: player, pollInterval: pollInterval, logger: logger, volume: 1}
}

// Play starts binding. A binding for the clip that is already playing with
// no window is a no-op; a different clip or an explicit start offset
// reloads and seeks. An end offset pauses playback once reached.
func (c *AudioController) Play(binding domain.AudioBinding) {
	if binding.ClipID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded == binding.ClipID && binding.Start == nil && binding.End == nil && c.player.Playing() {
		return
	}
	c.cancelMonitor()

	if c.loaded != binding.ClipID || binding.Start != nil {
		c.player.Pause()
		if err := c.player.Load(binding.ClipID); err != nil {
			c.loaded = ""
			c.logger.Warnw("audio load failed", "clip", binding.ClipID, "error", err)
			return
		}
		c.loaded = binding.ClipID
		c.player.Seek(binding.StartOffset())
	}
	if binding.End != nil {
		c.startMonitor(*binding.End)
	}
	if err := c.player.Play(); err != nil {
		c.cancelMonitor()
		c.logger.Warnw("audio playback failed", "clip", binding.ClipID, "error", err)
	}
}

// Pause keeps the position.
func (c *AudioController) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelMonitor()
	c.player.Pause()
}

// Stop rewinds and forgets the loaded clip, so the next Play always reloads.
func (c *AudioController) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelMonitor()
	c.player.Pause()
	c.player.Seek(0)
	c.loaded = ""
}

// SetVolume clamps v to [0,1] and returns the applied value.
func (c *AudioController) SetVolume(v float64) float64 {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.volume = v
	c.player.SetVolume(v)
	return v
}

func (c *AudioController) Volume() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.volume
}

func (c *AudioController) Loaded() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Monitoring reports whether an end-offset watcher is attached.
func (c *AudioController) Monitoring() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopMonitorFn != nil
}

func (c *AudioController) Close() {
	c.Stop()
	if err := c.player.Close(); err != nil {
		c.logger.Warnw("audio player close failed", "error", err)
	}
}

// startMonitor must be called with mu held.
func (c *AudioController) startMonitor(end float64) {
	ctx, cancel := context.WithCancel(context.Background())
	c.stopMonitorFn = cancel
	go c.watchEnd(ctx, cancel, end)
}

// cancelMonitor must be called with mu held.
func (c *AudioController) cancelMonitor() {
	if c.stopMonitorFn != nil {
		c.stopMonitorFn()
		c.stopMonitorFn = nil
	}
}

func (c *AudioController) watchEnd(ctx context.Context, cancel context.CancelFunc, end float64) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if c.player.CurrentTime() < end {
				continue
			}
			c.mu.Lock()
			if ctx.Err() == nil {
				c.player.Pause()
				cancel()
				c.stopMonitorFn = nil
			}
			c.mu.Unlock()
			return
		}
	}
}
