// Package pipeline wires discovery, download, transcode, and publish
// into the long-running syndication cycle.
package pipeline

import (
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"reelsync/internal/retry"
	"reelsync/ledger"
	"reelsync/media"
	"reelsync/publish"
	"reelsync/scrape"
)

// Scraper discovers candidate pages and extracts video metadata.
type Scraper interface {
	ListCandidates(ctx context.Context) ([]string, error)
	Extract(ctx context.Context, candidateURL string) (*scrape.VideoMetadata, error)
}

// Downloader fetches a media URL into a local file and returns its path.
type Downloader interface {
	Download(ctx context.Context, mediaURL string) (string, error)
}

// Transcoder converts a downloaded file into the vertical reel profile.
type Transcoder interface {
	Transcode(ctx context.Context, inputPath string) (string, error)
}

// Publisher fans a prepared asset out to the destination accounts.
type Publisher interface {
	PublishAll(ctx context.Context, accounts []publish.Account, asset *publish.Asset) []ledger.PublishResult
}

// Store is the dedup ledger surface the controller needs.
type Store interface {
	Contains(sourceURL, contentHash string) bool
	Append(record *ledger.VideoRecord) error
}

// Config holds cycle controller configuration.
type Config struct {
	// CycleInterval is the sleep between successful cycles.
	CycleInterval time.Duration
	// Cooldown is the shorter sleep after a cycle fails unexpectedly.
	Cooldown time.Duration
	// MaxPerCycle caps how many videos are published in one cycle.
	MaxPerCycle int
	// Retry bounds per-candidate retries on transient failures.
	Retry retry.Config
	// DownloadDir is swept for leftover media files at startup.
	DownloadDir string
}

// DefaultConfig returns the production cycle cadence.
func DefaultConfig() Config {
	return Config{
		CycleInterval: 4 * time.Hour,
		Cooldown:      5 * time.Minute,
		MaxPerCycle:   3,
		Retry:         retry.DefaultConfig(),
	}
}

// Controller drives the infinite discover-download-publish loop.
type Controller struct {
	cfg        Config
	scraper    Scraper
	downloader Downloader
	transcoder Transcoder
	publisher  Publisher
	store      Store
	accounts   []publish.Account
}

// New creates a cycle controller. Zero cadence fields fall back to the
// defaults; the dependency set must be complete.
func New(cfg Config, scraper Scraper, downloader Downloader, transcoder Transcoder, publisher Publisher, store Store, accounts []publish.Account) *Controller {
	def := DefaultConfig()
	if cfg.CycleInterval == 0 {
		cfg.CycleInterval = def.CycleInterval
	}
	if cfg.Cooldown == 0 {
		cfg.Cooldown = def.Cooldown
	}
	if cfg.MaxPerCycle == 0 {
		cfg.MaxPerCycle = def.MaxPerCycle
	}
	if cfg.Retry.MaxRetries == 0 && cfg.Retry.InitialDelay == 0 {
		cfg.Retry = def.Retry
	}

	return &Controller{
		cfg:        cfg,
		scraper:    scraper,
		downloader: downloader,
		transcoder: transcoder,
		publisher:  publisher,
		store:      store,
		accounts:   accounts,
	}
}

// Run executes cycles until the context is canceled. A failed cycle
// sleeps the cooldown instead of the full interval; the in-flight
// candidate finishes its cleanup before control returns.
func (c *Controller) Run(ctx context.Context) error {
	c.sweepDownloads()

	for {
		start := time.Now()
		err := c.RunCycle(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		wait := c.cfg.CycleInterval
		if err != nil {
			log.Printf("reelsync: cycle failed after %s: %v (cooling down %s)",
				time.Since(start).Round(time.Second), err, c.cfg.Cooldown)
			wait = c.cfg.Cooldown
		} else {
			log.Printf("reelsync: cycle done in %s, next in %s",
				time.Since(start).Round(time.Second), wait)
		}

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// RunCycle executes a single discovery-to-publish pass.
func (c *Controller) RunCycle(ctx context.Context) error {
	candidates, err := c.scraper.ListCandidates(ctx)
	if err != nil {
		var discErr *scrape.DiscoveryError
		if !errors.As(err, &discErr) {
			return err
		}
		// A flaky source site yields an empty cycle, not a failed one;
		// the next cycle runs on the normal interval.
		log.Printf("reelsync: discovery failed, skipping cycle: %v", err)
		candidates = nil
	}
	log.Printf("reelsync: cycle discovered %d candidates", len(candidates))

	published := 0
	for _, candidateURL := range candidates {
		if err := ctx.Err(); err != nil {
			return err
		}
		if published >= c.cfg.MaxPerCycle {
			log.Printf("reelsync: cycle cap of %d reached", c.cfg.MaxPerCycle)
			break
		}

		jobID := uuid.NewString()[:8]
		var ok bool
		err := retry.Do(ctx, c.cfg.Retry, candidateRetryable, func(ctx context.Context) error {
			var attemptErr error
			ok, attemptErr = c.processCandidate(ctx, jobID, candidateURL)
			return attemptErr
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("reelsync: [%s] giving up on %s: %v", jobID, candidateURL, err)
			continue
		}
		if ok {
			published++
		}
	}

	log.Printf("reelsync: cycle published %d video(s)", published)
	return nil
}

// candidateRetryable keeps tool-missing failures from being retried;
// reinvoking an absent binary cannot succeed.
func candidateRetryable(err error) bool {
	if errors.Is(err, media.ErrYtdlpNotInstalled) || errors.Is(err, media.ErrFfmpegNotInstalled) {
		return false
	}
	return retry.IsRetryable(err)
}

// processCandidate runs one candidate through dedup, download,
// transcode, and publish. It reports whether a publish succeeded on at
// least one account. Local media files are removed on every path once
// all accounts have been attempted.
func (c *Controller) processCandidate(ctx context.Context, jobID, candidateURL string) (bool, error) {
	if c.store.Contains(candidateURL, "") {
		log.Printf("reelsync: [%s] already published, skipping %s", jobID, candidateURL)
		return false, nil
	}

	meta, err := c.scraper.Extract(ctx, candidateURL)
	if errors.Is(err, scrape.ErrNoMedia) {
		log.Printf("reelsync: [%s] no playable media on %s", jobID, candidateURL)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	log.Printf("reelsync: [%s] extracted %q (%ds)", jobID, meta.Title, meta.DurationSeconds)

	// The page may declare a canonical address differing from the one
	// we reached it through; a video already in the ledger under its
	// canonical URL must not be republished via an alias.
	sourceURL := candidateURL
	if meta.CanonicalURL != "" && meta.CanonicalURL != candidateURL {
		if c.store.Contains(meta.CanonicalURL, "") {
			log.Printf("reelsync: [%s] already published as %s, skipping", jobID, meta.CanonicalURL)
			return false, nil
		}
		sourceURL = meta.CanonicalURL
	}

	downloadPath, err := c.downloader.Download(ctx, meta.MediaURL)
	if err != nil {
		return false, err
	}

	cleanup := []string{downloadPath}
	defer func() {
		for _, p := range cleanup {
			if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
				log.Printf("reelsync: [%s] removing %s: %v", jobID, p, err)
			}
		}
	}()

	contentHash, err := media.FileHash(downloadPath)
	if err != nil {
		return false, err
	}
	if c.store.Contains("", contentHash) {
		log.Printf("reelsync: [%s] duplicate content for %s, skipping", jobID, candidateURL)
		return false, nil
	}

	format := media.Decide(meta.DurationSeconds)
	assetPath := downloadPath
	if format == media.FormatReel {
		transcoded, err := c.transcoder.Transcode(ctx, downloadPath)
		if err != nil {
			return false, err
		}
		cleanup = append(cleanup, transcoded)
		assetPath = transcoded
	}

	results := c.publisher.PublishAll(ctx, c.accounts, &publish.Asset{
		Path:        assetPath,
		Format:      format,
		Title:       meta.Title,
		Description: meta.Description,
	})

	record := &ledger.VideoRecord{
		SourceURL:       sourceURL,
		ContentHash:     contentHash,
		Title:           meta.Title,
		Description:     meta.Description,
		Keywords:        meta.Keywords,
		DurationSeconds: meta.DurationSeconds,
		PublishResults:  results,
	}

	if !record.Succeeded() {
		log.Printf("reelsync: [%s] no account accepted %q", jobID, meta.Title)
		return false, nil
	}

	if err := c.store.Append(record); err != nil {
		// The posts are already live; losing the record must not fail
		// the candidate or the ledger would double-publish forever, so
		// it is logged loudly instead.
		log.Printf("reelsync: [%s] WARNING: recording %q failed: %v", jobID, meta.Title, err)
	}
	return true, nil
}

// sweepDownloads removes media files left behind by an interrupted run.
func (c *Controller) sweepDownloads() {
	if c.cfg.DownloadDir == "" {
		return
	}
	matches, err := filepath.Glob(filepath.Join(c.cfg.DownloadDir, "*.mp4"))
	if err != nil {
		return
	}
	for _, p := range matches {
		if err := os.Remove(p); err == nil {
			log.Printf("reelsync: removed leftover download %s", p)
		}
	}
}
