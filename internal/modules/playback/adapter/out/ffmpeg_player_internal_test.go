package out

import (
	"bytes"
	"os"
	"os/exec"
	"testing"
	"time"

	"storydeck/internal/platform/clock"
)

// exitingProcess starts a child that exits cleanly, standing in for an
// ffmpeg run that reached the end of its input.
func exitingProcess(t *testing.T) *exec.Cmd {
	t.Helper()
	cmd := exec.Command(os.Args[0], "-test.run=^$")
	if err := cmd.Start(); err != nil {
		t.Fatalf("start child: %v", err)
	}
	return cmd
}

func TestFFmpegPlayerRestartsClipThatRanToEnd(t *testing.T) {
	t.Parallel()
	now := time.Unix(1_700_000_000, 0)
	p := NewFFmpegPlayer(FFmpegOptions{}, clock.Func(func() time.Time { return now }), nil).(*FFmpegPlayer)
	p.url = "intro.mp3"

	cmd := exitingProcess(t)
	p.mu.Lock()
	p.cmd = cmd
	p.startedAt = now
	p.mu.Unlock()
	now = now.Add(3 * time.Second)
	p.wait(cmd, &bytes.Buffer{})

	if p.Playing() {
		t.Fatalf("player still playing after the process exited")
	}
	if got := p.CurrentTime(); got != 3 {
		t.Fatalf("expected position 3 at the end of the clip, got %v", got)
	}
	p.mu.Lock()
	start := p.startOffsetLocked()
	p.mu.Unlock()
	if start != 0 {
		t.Fatalf("finished clip should restart from 0, got %v", start)
	}
}

func TestFFmpegPlayerResumesWhereSeekOrPauseLeftOff(t *testing.T) {
	t.Parallel()
	now := time.Unix(1_700_000_000, 0)
	p := NewFFmpegPlayer(FFmpegOptions{}, clock.Func(func() time.Time { return now }), nil).(*FFmpegPlayer)
	p.url = "intro.mp3"

	p.Seek(1.25)
	p.mu.Lock()
	start := p.startOffsetLocked()
	p.mu.Unlock()
	if start != 1.25 {
		t.Fatalf("expected start at seek position 1.25, got %v", start)
	}

	cmd := exitingProcess(t)
	p.mu.Lock()
	p.cmd = cmd
	p.startedAt = now
	p.mu.Unlock()
	now = now.Add(2 * time.Second)
	p.Pause()
	p.wait(cmd, &bytes.Buffer{})

	if got := p.CurrentTime(); got != 3.25 {
		t.Fatalf("pause should keep position 3.25, got %v", got)
	}
	p.mu.Lock()
	start = p.startOffsetLocked()
	p.mu.Unlock()
	if start != 3.25 {
		t.Fatalf("paused clip should resume at 3.25, got %v", start)
	}
}
