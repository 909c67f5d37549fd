// Package reelsync syndicates short news videos from a publisher site
// to social media accounts.
//
// Overview
//
// The pipeline runs in cycles: discover candidate video pages, skip
// anything already published, download the media, prepare it for the
// destination (short clips become vertical reels), publish to every
// configured account, and record the outcome in a local ledger.
//
// The work is split across sub-packages:
//
//   - scrape: candidate discovery and metadata extraction
//   - summarize: caption rewriting with a model-backed fallback
//   - media: download, content hashing, and reel transcoding
//   - publish: the three-phase upload protocol and per-account budget
//   - ledger: the durable published-video record
//   - pipeline: the cycle controller tying the stages together
//   - config: configuration management
//
// Quick Start
//
// Run a single cycle from code:
//
//	cfg, err := config.Load("")
//	if err != nil {
//		log.Fatal(err)
//	}
//	accounts, err := publish.LoadAccounts(cfg.AccountsFile)
//	if err != nil {
//		log.Fatal(err)
//	}
//	store, err := ledger.Open(cfg.DataFile)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer store.Close()
//
//	client := httpx.New(nil)
//	controller := pipeline.New(pipeline.DefaultConfig(),
//		scrape.New(cfg.BaseURL, client),
//		media.NewDownloader(cfg.DownloadDir),
//		media.NewTranscoder(),
//		publish.NewEngine(client, publish.DefaultConfig()),
//		store, accounts)
//	err = controller.RunCycle(ctx)
//
// Configuration
//
// Settings load from multiple sources:
//
//   1. Environment variables (highest priority)
//   2. Config file (reelsync.json or ~/.config/reelsync/reelsync.json)
//   3. Default values (lowest priority)
//
// Environment variables:
//
//   - REELSYNC_BASE_URL: Publisher section to poll for candidates
//   - REELSYNC_DATA_FILE: Path of the published-video ledger
//   - REELSYNC_DOWNLOAD_DIR: Media staging directory
//   - REELSYNC_ACCOUNTS_FILE: Destination account configuration
//   - REELSYNC_CHECK_INTERVAL: Sleep between cycles
//   - REELSYNC_MAX_PER_CYCLE: Publish cap per cycle
//   - REELSYNC_HOURLY_CALL_CEILING: Per-account API call budget
//   - REELSYNC_MAX_RETRIES: Retry attempts per candidate
//   - REELSYNC_RETRY_DELAY: Fixed delay between retries
//   - REELSYNC_YTDLP_PATH: Path to yt-dlp executable
//   - REELSYNC_FFMPEG_PATH: Path to ffmpeg executable
//
// Destination account credentials are opaque bearer tokens loaded from
// the accounts file. They are held in memory only and never written to
// the ledger or the logs.
//
// Error Handling
//
// Operations return errors supporting the standard patterns:
//
//	if errors.Is(err, scrape.ErrNoMedia) {
//		// page has no playable video
//	}
//
//	var pubErr *publish.Error
//	if errors.As(err, &pubErr) {
//		fmt.Printf("publish to %s failed: %s\n", pubErr.AccountLabel, pubErr.Reason)
//	}
//
// Dependencies
//
// reelsync requires yt-dlp and ffmpeg to be installed and available in
// PATH, or specified via REELSYNC_YTDLP_PATH and REELSYNC_FFMPEG_PATH.
//
package reelsync
