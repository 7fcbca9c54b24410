package out

import (
	"errors"
	"sync"
	"time"

	playbackout "storydeck/internal/modules/playback/port/out"
	"storydeck/internal/platform/clock"
)

// SilentPlayer keeps a clip position on the clock without producing sound.
type SilentPlayer struct {
	clock clock.Clock

	mu        sync.Mutex
	url       string
	offset    float64
	playing   bool
	startedAt time.Time
	volume    float64
}

func NewSilentPlayer(clk clock.Clock) playbackout.AudioPlayer {
	return &SilentPlayer{clock: clk, volume: 1}
}

func (p *SilentPlayer) Load(url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.url = url
	p.offset = 0
	p.playing = false
	return nil
}

func (p *SilentPlayer) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.url == "" {
		return errors.New("no clip loaded")
	}
	if !p.playing {
		p.playing = true
		p.startedAt = p.clock.Now()
	}
	return nil
}

func (p *SilentPlayer) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.offset = p.positionLocked()
	p.playing = false
}

func (p *SilentPlayer) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

func (p *SilentPlayer) CurrentTime() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.positionLocked()
}

func (p *SilentPlayer) Seek(seconds float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if seconds < 0 {
		seconds = 0
	}
	p.offset = seconds
	p.startedAt = p.clock.Now()
}

func (p *SilentPlayer) SetVolume(volume float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = volume
}

func (p *SilentPlayer) Close() error {
	p.Pause()
	return nil
}

func (p *SilentPlayer) positionLocked() float64 {
	if !p.playing {
		return p.offset
	}
	return p.offset + p.clock.Now().Sub(p.startedAt).Seconds()
}
