package out

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	playbackout "storydeck/internal/modules/playback/port/out"
)

const defaultProbeTimeout = 10 * time.Second

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// FFprobeProber reads clip lengths with ffprobe.
type FFprobeProber struct{}

func NewFFprobeProber() playbackout.ClipProber {
	return FFprobeProber{}
}

func (FFprobeProber) Duration(ctx context.Context, clip string) (float64, error) {
	timeout := defaultProbeTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return 0, ctx.Err()
		}
	}
	raw, err := ffmpeg.ProbeWithTimeout(clip, timeout, ffmpeg.KwArgs{})
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", clip, err)
	}
	return parseProbeDuration(raw)
}

func parseProbeDuration(raw string) (float64, error) {
	var probe probeOutput
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		return 0, fmt.Errorf("decode ffprobe output: %w", err)
	}
	if probe.Format.Duration == "" {
		return 0, fmt.Errorf("ffprobe reported no duration")
	}
	seconds, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", probe.Format.Duration, err)
	}
	return seconds, nil
}
