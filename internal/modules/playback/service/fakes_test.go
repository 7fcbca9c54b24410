package service_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"storydeck/internal/modules/playback/domain"
)

type fakePlayer struct {
	mu       sync.Mutex
	url      string
	playing  bool
	position float64
	volume   float64
	loads    []string
	seeks    []float64
	plays    int
	pauses   int
	ended    bool
	loadErr  error
	playErr  error
}

func (p *fakePlayer) Load(url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loadErr != nil {
		return p.loadErr
	}
	p.url = url
	p.position = 0
	p.loads = append(p.loads, url)
	return nil
}

func (p *fakePlayer) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.url == "" {
		return errors.New("nothing loaded")
	}
	if p.playErr != nil {
		return p.playErr
	}
	if p.ended {
		p.position = 0
		p.ended = false
	}
	p.playing = true
	p.plays++
	return nil
}

func (p *fakePlayer) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = false
	p.pauses++
}

func (p *fakePlayer) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

func (p *fakePlayer) CurrentTime() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position
}

func (p *fakePlayer) Seek(seconds float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position = seconds
	p.seeks = append(p.seeks, seconds)
}

func (p *fakePlayer) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = v
}

func (p *fakePlayer) Close() error { return nil }

func (p *fakePlayer) setPosition(seconds float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position = seconds
}

// finish plays the loaded clip to its end, leaving the position there.
func (p *fakePlayer) finish(duration float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = false
	p.position = duration
	p.ended = true
}

func (p *fakePlayer) loadCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.loads)
}

type scheduled struct {
	delay time.Duration
	token uint64
}

type fakeScheduler struct {
	fired     chan uint64
	scheduled []scheduled
	pending   bool
	cancels   int
	stops     int
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{fired: make(chan uint64, 1)}
}

func (s *fakeScheduler) Schedule(delay time.Duration, token uint64) {
	s.scheduled = append(s.scheduled, scheduled{delay: delay, token: token})
	s.pending = true
}

func (s *fakeScheduler) Cancel() {
	s.cancels++
	s.pending = false
}

func (s *fakeScheduler) Fired() <-chan uint64 { return s.fired }

func (s *fakeScheduler) Stop() {
	s.stops++
	s.pending = false
}

func (s *fakeScheduler) last() scheduled {
	if len(s.scheduled) == 0 {
		return scheduled{}
	}
	return s.scheduled[len(s.scheduled)-1]
}

type fakeProgress struct {
	lastSlide map[string]string
	recorded  []string
	completed []int
	err       error
}

func (f *fakeProgress) LastSlideViewed(_ context.Context, chapterID string) (string, error) {
	return f.lastSlide[chapterID], nil
}

func (f *fakeProgress) RecordSlideViewed(_ context.Context, _ string, slideID string) error {
	f.recorded = append(f.recorded, slideID)
	return nil
}

func (f *fakeProgress) CompleteChapter(_ context.Context, ordinal int) (domain.Completion, error) {
	if f.err != nil {
		return domain.Completion{}, f.err
	}
	f.completed = append(f.completed, ordinal)
	return domain.Completion{Ordinal: ordinal, TotalProgress: 25}, nil
}

func seconds(v float64) *float64 { return &v }

// testDeck has two slides: a two-subtitle opener whose second line
// continues the first clip, and a single-subtitle slide on its own clip.
func testDeck() domain.Deck {
	return domain.Deck{
		ChapterID: "prologue",
		Ordinal:   0,
		Title:     "Prologue",
		Unlocked:  true,
		Slides: []domain.Slide{
			{ID: "page-1", Image: "1.png", Subtitles: []domain.Subtitle{
				{ID: "1-1", Text: "The sun rose.", Speaker: "narrator", Duration: 2 * time.Second, Audio: &domain.AudioBinding{ClipID: "intro.mp3"}},
				{ID: "1-2", Text: "Hello!", Speaker: "luna", ContinueAudio: true, Duration: 3 * time.Second},
			}},
			{ID: "page-2", Image: "2.png", Subtitles: []domain.Subtitle{
				{ID: "2-1", Text: "Storms ahead.", Speaker: "narrator", Audio: &domain.AudioBinding{ClipID: "storm.mp3", Start: seconds(1.5)}},
			}},
		},
	}
}
