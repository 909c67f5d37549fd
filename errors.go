package reelsync

import (
	"reelsync/internal/retry"
	"reelsync/ledger"
	"reelsync/media"
	"reelsync/publish"
	"reelsync/scrape"
)

// Error handling types exported for library users.
//
// All error types support the standard error handling patterns:
//
// Using errors.Is() for sentinel errors:
//
//	if errors.Is(err, reelsync.ErrNoMedia) {
//		fmt.Println("page has no playable video")
//	}
//
// Using errors.As() for wrapped errors:
//
//	var dlErr *reelsync.DownloadError
//	if errors.As(err, &dlErr) {
//		fmt.Printf("download of %s failed: %v\n", dlErr.URL, dlErr.Err)
//	}

// Type aliases for convenient error handling.
type (
	// DiscoveryError wraps errors while discovering or extracting from
	// a candidate page.
	DiscoveryError = scrape.DiscoveryError
	// DownloadError wraps errors from the media download tool.
	DownloadError = media.DownloadError
	// TranscodeError wraps errors from the reel transcode step.
	TranscodeError = media.TranscodeError
	// PublishError wraps a per-account publish failure with its reason.
	PublishError = publish.Error
	// StoreError wraps errors during ledger operations.
	StoreError = ledger.StoreError
	// ExhaustedError wraps an error that persisted through all retries.
	ExhaustedError = retry.ExhaustedError
)

// Sentinel errors exported from sub-packages.
var (
	// ErrNoMedia indicates a candidate page has no playable video.
	ErrNoMedia = scrape.ErrNoMedia
	// ErrYtdlpNotInstalled indicates the yt-dlp binary was not found.
	ErrYtdlpNotInstalled = media.ErrYtdlpNotInstalled
	// ErrFfmpegNotInstalled indicates the ffmpeg binary was not found.
	ErrFfmpegNotInstalled = media.ErrFfmpegNotInstalled
	// ErrLockTimeout indicates a timeout acquiring the ledger file lock.
	ErrLockTimeout = ledger.ErrLockTimeout
)

// IsRetryable determines if an error should be retried.
func IsRetryable(err error) bool {
	return retry.IsRetryable(err)
}
