// Package media acquires video assets, fingerprints them, and decides
// and applies the publish format. The downloader and transcoder are
// external tools invoked as subprocesses with a path-in/path-out
// contract.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultYtdlpPath     = "yt-dlp"
	defaultDownloadDir   = "downloaded_videos"
	defaultHeightCeiling = 1080
	defaultToolTimeout   = 10 * time.Minute
)

// Sentinel errors for external tools.
var (
	// ErrYtdlpNotInstalled indicates the yt-dlp binary was not found.
	ErrYtdlpNotInstalled = errors.New("media: yt-dlp not installed")
	// ErrFfmpegNotInstalled indicates the ffmpeg binary was not found.
	ErrFfmpegNotInstalled = errors.New("media: ffmpeg not installed")
)

// DownloadError wraps a failed acquisition with the tool's stderr.
type DownloadError struct {
	URL    string
	Stderr string
	Err    error
}

func (e *DownloadError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("download %s: %v: %s", e.URL, e.Err, e.Stderr)
	}
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// Downloader fetches media URLs to local files using yt-dlp as a
// subprocess.
type Downloader struct {
	// Path is the path to the yt-dlp executable. Defaults to "yt-dlp".
	Path string

	// Dir is the directory downloads land in.
	Dir string

	// HeightCeiling caps the selected video height. Defaults to 1080.
	HeightCeiling int

	// Timeout is the maximum time to wait for yt-dlp.
	Timeout time.Duration
}

// NewDownloader creates a downloader writing into dir.
func NewDownloader(dir string) *Downloader {
	if dir == "" {
		dir = defaultDownloadDir
	}
	return &Downloader{
		Path:          defaultYtdlpPath,
		Dir:           dir,
		HeightCeiling: defaultHeightCeiling,
		Timeout:       defaultToolTimeout,
	}
}

// Download fetches mediaURL into the download directory and returns the
// local file path. Best available streams up to the height ceiling are
// merged into a single mp4. A failed download never returns a partial
// file path.
func (d *Downloader) Download(ctx context.Context, mediaURL string) (string, error) {
	if err := d.checkInstalled(ctx); err != nil {
		return "", err
	}

	ceiling := d.HeightCeiling
	if ceiling <= 0 {
		ceiling = defaultHeightCeiling
	}

	args := []string{
		"-f", fmt.Sprintf("bestvideo[height<=%d]+bestaudio/best", ceiling),
		"--merge-output-format", "mp4",
		"-o", filepath.Join(d.Dir, "%(id)s.%(ext)s"),
		"--no-warnings",
		"--quiet",
		"--print", "after_move:filepath",
		mediaURL,
	}

	timeout := d.Timeout
	if timeout == 0 {
		timeout = defaultToolTimeout
	}
	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, d.path(), args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if cmdCtx.Err() == context.DeadlineExceeded {
			return "", &DownloadError{URL: mediaURL, Err: context.DeadlineExceeded}
		}
		return "", &DownloadError{URL: mediaURL, Err: err, Stderr: strings.TrimSpace(stderr.String())}
	}

	path := strings.TrimSpace(stdout.String())
	if path == "" {
		return "", &DownloadError{URL: mediaURL, Err: errors.New("yt-dlp reported no output path")}
	}

	return path, nil
}

// checkInstalled verifies that yt-dlp is available.
func (d *Downloader) checkInstalled(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, d.path(), "--version")
	if err := cmd.Run(); err != nil {
		return ErrYtdlpNotInstalled
	}
	return nil
}

func (d *Downloader) path() string {
	if d.Path != "" {
		return d.Path
	}
	return defaultYtdlpPath
}
