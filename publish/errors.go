package publish

import "fmt"

// FailureReason classifies why a per-account publish attempt failed.
type FailureReason string

const (
	// ReasonInvalidCredential means the account's token failed the
	// lightweight validity check; all later phases were skipped.
	ReasonInvalidCredential FailureReason = "invalid_credential"
	// ReasonNoSessionID means the init phase returned no upload session
	// identifier.
	ReasonNoSessionID FailureReason = "no_session_id"
	// ReasonTransferFailed means streaming the asset bytes failed.
	ReasonTransferFailed FailureReason = "transfer_failed"
	// ReasonPublishRejected means the finish phase was rejected, or
	// polling observed an unrecoverable processing status.
	ReasonPublishRejected FailureReason = "publish_rejected"
	// ReasonProcessingTimeout means polling saw no terminal status
	// within the timeout.
	ReasonProcessingTimeout FailureReason = "processing_timeout"
	// ReasonRateLimited means the local call budget for the account was
	// exhausted; no remote call was made.
	ReasonRateLimited FailureReason = "rate_limited"
)

// Error wraps a per-account publish failure with its reason. It is
// converted into a PublishResult at the engine boundary and never
// aborts other accounts.
type Error struct {
	AccountLabel string
	Reason       FailureReason
	Err          error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("publish to %s: %s: %v", e.AccountLabel, e.Reason, e.Err)
	}
	return fmt.Sprintf("publish to %s: %s", e.AccountLabel, e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Err
}
