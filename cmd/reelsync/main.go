// Command reelsync runs the video syndication pipeline: discover short
// news videos, download and prepare them, and publish to the configured
// destination accounts on a fixed cycle.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"reelsync/config"
	"reelsync/httpx"
	"reelsync/internal/retry"
	"reelsync/ledger"
	"reelsync/media"
	"reelsync/pipeline"
	"reelsync/publish"
	"reelsync/scrape"
	"reelsync/summarize"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: reelsync.json if present)")
	accountsPath := flag.String("accounts", "", "path to accounts file (overrides config)")
	dataPath := flag.String("data", "", "path to the published-video ledger (overrides config)")
	downloadDir := flag.String("dir", "", "download staging directory (overrides config)")
	once := flag.Bool("once", false, "run a single cycle and exit")
	dryRun := flag.Bool("dry-run", false, "list discovered candidates and exit without downloading")
	flag.Parse()

	// Local secrets file; absent in production deployments.
	godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *accountsPath != "" {
		cfg.AccountsFile = *accountsPath
	}
	if *dataPath != "" {
		cfg.DataFile = *dataPath
	}
	if *downloadDir != "" {
		cfg.DownloadDir = *downloadDir
	}

	if err := run(cfg, *once, *dryRun); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Printf("reelsync: shutting down")
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, once, dryRun bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := httpx.New(nil)
	defer client.Close()

	summarizer := summarize.New(os.Getenv(cfg.OpenAIKeyEnv))
	scraper := scrape.New(cfg.BaseURL, client)
	scraper.Summarizer = summarizer

	if dryRun {
		candidates, err := scraper.ListCandidates(ctx)
		if err != nil {
			return err
		}
		for _, u := range candidates {
			meta, err := scraper.Extract(ctx, u)
			if err != nil {
				fmt.Printf("%s\n  skip: %v\n", u, err)
				continue
			}
			fmt.Printf("%s\n  %q (%ds) -> %s\n", u, meta.Title, meta.DurationSeconds, meta.MediaURL)
		}
		return nil
	}

	accounts, err := publish.LoadAccounts(cfg.AccountsFile)
	if err != nil {
		return err
	}
	log.Printf("reelsync: %d destination account(s) configured", len(accounts))

	if err := os.MkdirAll(cfg.DownloadDir, 0o755); err != nil {
		return fmt.Errorf("create download dir: %w", err)
	}

	store, err := ledger.Open(cfg.DataFile)
	if err != nil {
		return err
	}
	defer store.Close()

	downloader := media.NewDownloader(cfg.DownloadDir)
	downloader.Path = cfg.YtdlpPath
	downloader.Timeout = cfg.DownloadTimeout

	transcoder := media.NewTranscoder()
	transcoder.Path = cfg.FfmpegPath

	engine := publish.NewEngine(client, publish.Config{
		PollInterval:      cfg.PollInterval,
		PollTimeout:       cfg.PollTimeout,
		DelayMin:          cfg.DelayMin,
		DelayMax:          cfg.DelayMax,
		HourlyCallCeiling: cfg.HourlyCallCeiling,
	})

	controller := pipeline.New(pipeline.Config{
		CycleInterval: cfg.CheckInterval,
		Cooldown:      cfg.Cooldown,
		MaxPerCycle:   cfg.MaxPerCycle,
		DownloadDir:   cfg.DownloadDir,
		Retry: retry.Config{
			MaxRetries:   cfg.MaxRetries,
			InitialDelay: cfg.RetryDelay,
			MaxDelay:     cfg.RetryDelay,
			Multiplier:   1.0,
		},
	}, scraper, downloader, transcoder, engine, store, accounts)

	if once {
		return controller.RunCycle(ctx)
	}
	return controller.Run(ctx)
}
