package out

import (
	"sync"
	"time"

	playbackout "storydeck/internal/modules/playback/port/out"
)

// TimerScheduler backs autoplay deadlines with time.AfterFunc. Only the
// latest scheduled token can fire; a full channel drops the delivery. Stop
// closes the Fired channel.
type TimerScheduler struct {
	mu      sync.Mutex
	timer   *time.Timer
	fired   chan uint64
	stopped bool
}

func NewTimerScheduler() playbackout.Scheduler {
	return &TimerScheduler{fired: make(chan uint64, 1)}
}

func (s *TimerScheduler) Schedule(delay time.Duration, token uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.stopped || s.timer != timer {
			return
		}
		s.timer = nil
		select {
		case s.fired <- token:
		default:
		}
	})
	s.timer = timer
}

func (s *TimerScheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *TimerScheduler) Fired() <-chan uint64 {
	return s.fired
}

func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.stopped = true
	close(s.fired)
}
