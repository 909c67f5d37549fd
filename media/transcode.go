package media

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Format is the publish container classification of an asset.
type Format int

const (
	// FormatReel is the vertical short-form container for assets of at
	// most ReelMaxSeconds.
	FormatReel Format = iota
	// FormatStandard is the plain feed-video container.
	FormatStandard
)

// ReelMaxSeconds is the inclusive duration ceiling for the reel format.
const ReelMaxSeconds = 60

// String returns the format name.
func (f Format) String() string {
	if f == FormatReel {
		return "reel"
	}
	return "standard"
}

// Decide classifies an asset by duration. Unknown durations (0) are
// treated as short-form.
func Decide(durationSeconds int) Format {
	if durationSeconds <= ReelMaxSeconds {
		return FormatReel
	}
	return FormatStandard
}

// TranscodeError wraps a failed conversion with ffmpeg's stderr.
type TranscodeError struct {
	Input  string
	Stderr string
	Err    error
}

func (e *TranscodeError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("transcode %s: %v: %s", e.Input, e.Err, e.Stderr)
	}
	return fmt.Sprintf("transcode %s: %v", e.Input, e.Err)
}

func (e *TranscodeError) Unwrap() error {
	return e.Err
}

// Transcoder converts assets to the vertical reel profile using ffmpeg
// as a subprocess.
type Transcoder struct {
	// Path is the path to the ffmpeg executable. Defaults to "ffmpeg".
	Path string

	// Timeout is the maximum time to wait for a conversion.
	Timeout time.Duration
}

// NewTranscoder creates a transcoder with defaults.
func NewTranscoder() *Transcoder {
	return &Transcoder{
		Path:    "ffmpeg",
		Timeout: defaultToolTimeout,
	}
}

// Transcode converts the input to the 720x1280 fit-and-pad reel
// profile and returns the output path ("reel_" prefix, same directory).
// The input file is never removed here; on success the caller discards
// it, on failure the caller decides fallback policy.
func (t *Transcoder) Transcode(ctx context.Context, inputPath string) (string, error) {
	outputPath := filepath.Join(filepath.Dir(inputPath), "reel_"+filepath.Base(inputPath))

	args := []string{
		"-y",
		"-i", inputPath,
		"-vf", "scale=720:1280:force_original_aspect_ratio=decrease,pad=720:1280:(ow-iw)/2:(oh-ih)/2,setsar=1",
		"-c:v", "libx264",
		"-preset", "fast",
		"-crf", "23",
		"-c:a", "aac",
		"-b:a", "128k",
		"-movflags", "+faststart",
		"-f", "mp4",
		outputPath,
	}

	timeout := t.Timeout
	if timeout == 0 {
		timeout = defaultToolTimeout
	}
	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, t.path(), args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if cmdCtx.Err() == context.DeadlineExceeded {
			return "", &TranscodeError{Input: inputPath, Err: context.DeadlineExceeded}
		}
		return "", &TranscodeError{Input: inputPath, Err: err, Stderr: lastLine(stderr.String())}
	}

	return outputPath, nil
}

func (t *Transcoder) path() string {
	if t.Path != "" {
		return t.Path
	}
	return "ffmpeg"
}

// lastLine keeps error output readable; ffmpeg prints its banner and
// progress before the actual failure reason.
func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.LastIndex(s, "\n"); idx != -1 {
		return strings.TrimSpace(s[idx+1:])
	}
	return s
}
