package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"reelsync/httpx"
	"reelsync/ledger"
	"reelsync/media"
)

// Config holds publish engine configuration.
type Config struct {
	// GraphURL is the metadata API host.
	GraphURL string
	// UploadURL is the byte-transfer host.
	UploadURL string
	// APIVersion is the versioned path segment.
	APIVersion string

	// PollInterval is the fixed delay between readiness checks.
	PollInterval time.Duration
	// PollTimeout bounds the readiness-polling sub-loop.
	PollTimeout time.Duration

	// DelayMin and DelayMax bound the pseudo-random politeness delay
	// between successive accounts' attempts for the same video.
	DelayMin time.Duration
	DelayMax time.Duration

	// HourlyCallCeiling is the per-account rolling-hour API budget.
	HourlyCallCeiling int
}

// DefaultConfig returns the production protocol parameters.
func DefaultConfig() Config {
	return Config{
		GraphURL:          "https://graph.facebook.com",
		UploadURL:         "https://rupload.facebook.com",
		APIVersion:        "v20.0",
		PollInterval:      30 * time.Second,
		PollTimeout:       300 * time.Second,
		DelayMin:          20 * time.Second,
		DelayMax:          40 * time.Second,
		HourlyCallCeiling: DefaultHourlyCallCeiling,
	}
}

// Asset is a prepared local video ready for publishing. The engine
// reads it but does not own it; deletion stays with the caller once
// every account has been attempted.
type Asset struct {
	Path        string
	Format      media.Format
	Title       string
	Description string
}

// Engine runs the per-account publish state machine:
// TokenCheck -> Init -> Uploading -> Publishing -> Polling -> done.
// Accounts are attempted strictly sequentially; one account's failure
// never aborts the rest.
type Engine struct {
	cfg    Config
	client *httpx.Client
	budget *CallBudget
	rng    *rand.Rand
}

// NewEngine creates a publish engine over the shared HTTP client.
func NewEngine(client *httpx.Client, cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.GraphURL == "" {
		cfg.GraphURL = def.GraphURL
	}
	if cfg.UploadURL == "" {
		cfg.UploadURL = def.UploadURL
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = def.APIVersion
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = def.PollInterval
	}
	if cfg.PollTimeout == 0 {
		cfg.PollTimeout = def.PollTimeout
	}
	if cfg.DelayMax == 0 {
		cfg.DelayMin = def.DelayMin
		cfg.DelayMax = def.DelayMax
	}
	if cfg.HourlyCallCeiling == 0 {
		cfg.HourlyCallCeiling = def.HourlyCallCeiling
	}

	return &Engine{
		cfg:    cfg,
		client: client,
		budget: NewCallBudget(cfg.HourlyCallCeiling),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// PublishAll attempts the asset against every account in order and
// returns one PublishResult per attempted account. A canceled context
// stops before the next account; results so far are returned.
func (e *Engine) PublishAll(ctx context.Context, accounts []Account, asset *Asset) []ledger.PublishResult {
	results := make([]ledger.PublishResult, 0, len(accounts))

	for i, account := range accounts {
		log.Printf("reelsync: publishing %q to %s", asset.Title, account.DisplayName)
		result := e.publishOne(ctx, account, asset)
		results = append(results, result)

		if result.Status == ledger.StatusSuccess {
			log.Printf("reelsync: published %q to %s (post %s)", asset.Title, account.DisplayName, result.RemotePostID)
		} else {
			log.Printf("reelsync: publish %q to %s failed: %s", asset.Title, account.DisplayName, result.ErrorDetail)
		}

		if i == len(accounts)-1 {
			break
		}
		if err := e.interAccountDelay(ctx); err != nil {
			break
		}
	}

	return results
}

// publishOne runs the state machine for a single account and converts
// the outcome into an immutable PublishResult.
func (e *Engine) publishOne(ctx context.Context, account Account, asset *Asset) ledger.PublishResult {
	result := ledger.PublishResult{
		AccountID:    account.ID,
		AccountLabel: account.DisplayName,
		PublishedAt:  time.Now().UTC(),
	}

	remoteID, err := e.attempt(ctx, account, asset)
	if err == nil {
		result.Status = ledger.StatusSuccess
		result.RemotePostID = remoteID
		return result
	}

	var pubErr *Error
	if errors.As(err, &pubErr) {
		result.Status = ledger.StatusFailed
	} else {
		result.Status = ledger.StatusError
	}
	result.ErrorDetail = err.Error()
	return result
}

// attempt walks the protocol phases, short-circuiting on the first
// failed phase.
func (e *Engine) attempt(ctx context.Context, account Account, asset *Asset) (string, error) {
	if err := e.checkToken(ctx, account); err != nil {
		return "", err
	}

	sessionID, err := e.startSession(ctx, account)
	if err != nil {
		return "", err
	}

	if err := e.upload(ctx, account, sessionID, asset.Path); err != nil {
		return "", err
	}

	if err := e.finish(ctx, account, sessionID, asset); err != nil {
		return "", err
	}

	if asset.Format == media.FormatReel {
		if err := e.pollReady(ctx, account, sessionID); err != nil {
			return "", err
		}
	}

	return sessionID, nil
}

// call spends one unit of the account's budget before touching the
// network. A drained budget fails locally as RateLimited.
func (e *Engine) call(ctx context.Context, account Account, method, callURL string, body io.Reader, headers map[string]string) (*httpx.Response, error) {
	if !e.budget.Allow(account.ID) {
		return nil, &Error{AccountLabel: account.DisplayName, Reason: ReasonRateLimited}
	}
	return e.client.Do(ctx, method, callURL, body, headers)
}

// wrap classifies err under reason unless it is already a publish Error
// (for example a local rate-limit refusal).
func wrap(account Account, reason FailureReason, err error) error {
	var pubErr *Error
	if errors.As(err, &pubErr) {
		return err
	}
	return &Error{AccountLabel: account.DisplayName, Reason: reason, Err: err}
}

// checkToken verifies the credential with a lightweight read-only call.
func (e *Engine) checkToken(ctx context.Context, account Account) error {
	checkURL := fmt.Sprintf("%s/%s/%s/video_reels?since=today&access_token=%s",
		e.cfg.GraphURL, e.cfg.APIVersion, account.ID, url.QueryEscape(account.Credential))

	if _, err := e.call(ctx, account, http.MethodGet, checkURL, nil, nil); err != nil {
		return wrap(account, ReasonInvalidCredential, err)
	}
	return nil
}

type sessionResponse struct {
	VideoID string `json:"video_id"`
}

// startSession requests a new upload session; the response must yield
// a session identifier.
func (e *Engine) startSession(ctx context.Context, account Account) (string, error) {
	initURL := fmt.Sprintf("%s/%s/%s/video_reels", e.cfg.GraphURL, e.cfg.APIVersion, account.ID)
	form := url.Values{
		"upload_phase": {"start"},
		"access_token": {account.Credential},
	}

	resp, err := e.call(ctx, account, http.MethodPost, initURL,
		strings.NewReader(form.Encode()), formHeaders())
	if err != nil {
		return "", wrap(account, ReasonNoSessionID, err)
	}

	var session sessionResponse
	if err := json.Unmarshal(resp.Body, &session); err != nil {
		return "", &Error{AccountLabel: account.DisplayName, Reason: ReasonNoSessionID, Err: err}
	}
	if session.VideoID == "" {
		return "", &Error{AccountLabel: account.DisplayName, Reason: ReasonNoSessionID,
			Err: errors.New("no session identifier in init response")}
	}

	return session.VideoID, nil
}

// upload streams the asset bytes to the session endpoint as a single
// transfer from offset 0. Retry-on-failure is a full reupload driven by
// the outer bounded retry, not a partial-offset resume.
func (e *Engine) upload(ctx context.Context, account Account, sessionID, assetPath string) error {
	info, err := os.Stat(assetPath)
	if err != nil {
		return wrap(account, ReasonTransferFailed, err)
	}

	f, err := os.Open(assetPath)
	if err != nil {
		return wrap(account, ReasonTransferFailed, err)
	}
	defer f.Close()

	uploadURL := fmt.Sprintf("%s/video-upload/%s/%s", e.cfg.UploadURL, e.cfg.APIVersion, sessionID)
	headers := map[string]string{
		"Authorization": "OAuth " + account.Credential,
		"offset":        "0",
		"file_size":     strconv.FormatInt(info.Size(), 10),
		"Content-Type":  "application/octet-stream",
	}

	if _, err := e.call(ctx, account, http.MethodPost, uploadURL, f, headers); err != nil {
		return wrap(account, ReasonTransferFailed, err)
	}
	return nil
}

// finish submits the publish parameters that transition the session to
// published state.
func (e *Engine) finish(ctx context.Context, account Account, sessionID string, asset *Asset) error {
	finishURL := fmt.Sprintf("%s/%s/%s/video_reels", e.cfg.GraphURL, e.cfg.APIVersion, account.ID)
	form := url.Values{
		"access_token": {account.Credential},
		"video_id":     {sessionID},
		"upload_phase": {"finish"},
		"description":  {asset.Description},
		"video_state":  {"PUBLISHED"},
	}

	if asset.Format == media.FormatReel {
		form.Set("container_type", "REELS")
		form.Set("share_to_feed", "true")
		form.Set("allow_share_to_stories", "true")
		form.Set("crossposting_original_video_id", sessionID)
	} else {
		form.Set("container_type", "VIDEO")
	}

	if _, err := e.call(ctx, account, http.MethodPost, finishURL,
		strings.NewReader(form.Encode()), formHeaders()); err != nil {
		return wrap(account, ReasonPublishRejected, err)
	}
	return nil
}

type statusResponse struct {
	Status struct {
		VideoStatus string `json:"video_status"`
	} `json:"status"`
}

// pollReady queries processing status at the fixed interval until the
// post is ready, an unrecoverable status appears, or the timeout
// elapses.
func (e *Engine) pollReady(ctx context.Context, account Account, sessionID string) error {
	statusURL := fmt.Sprintf("%s/%s/%s?fields=status,permalink_url&access_token=%s",
		e.cfg.GraphURL, e.cfg.APIVersion, sessionID, url.QueryEscape(account.Credential))

	deadline := time.Now().Add(e.cfg.PollTimeout)
	for {
		resp, err := e.call(ctx, account, http.MethodGet, statusURL, nil, nil)
		if err != nil {
			var pubErr *Error
			if errors.As(err, &pubErr) {
				return err
			}
			// Transient status-read failure; the deadline still bounds us.
		} else {
			var status statusResponse
			if err := json.Unmarshal(resp.Body, &status); err == nil {
				switch status.Status.VideoStatus {
				case "ready":
					return nil
				case "processing", "uploading", "":
					// Keep waiting.
				default:
					return &Error{AccountLabel: account.DisplayName, Reason: ReasonPublishRejected,
						Err: fmt.Errorf("processing ended with status %q", status.Status.VideoStatus)}
				}
			}
		}

		if time.Now().Add(e.cfg.PollInterval).After(deadline) {
			return &Error{AccountLabel: account.DisplayName, Reason: ReasonProcessingTimeout,
				Err: fmt.Errorf("no terminal status within %s", e.cfg.PollTimeout)}
		}

		select {
		case <-time.After(e.cfg.PollInterval):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// interAccountDelay sleeps a pseudo-random duration in the configured
// range. Politeness, not correctness.
func (e *Engine) interAccountDelay(ctx context.Context) error {
	if e.cfg.DelayMax <= 0 {
		return nil
	}
	span := e.cfg.DelayMax - e.cfg.DelayMin
	delay := e.cfg.DelayMin
	if span > 0 {
		delay += time.Duration(e.rng.Int63n(int64(span)))
	}

	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func formHeaders() map[string]string {
	return map[string]string{"Content-Type": "application/x-www-form-urlencoded"}
}
