// Package publish executes the three-phase upload-and-publish protocol
// against each configured destination account, with readiness polling
// for reels and a local per-account call budget.
package publish

import (
	"encoding/json"
	"fmt"
	"os"
)

// Account is one destination the pipeline publishes to. The credential
// is an opaque bearer token: never persisted, never logged.
type Account struct {
	ID          string `json:"account_id"`
	Credential  string `json:"credential"`
	DisplayName string `json:"display_name"`
}

// LoadAccounts reads the destination account configuration file. It
// fails fast: a missing file, a non-list document, or an entry missing
// a required field all abort startup.
func LoadAccounts(path string) ([]Account, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("accounts config %s: %w", path, err)
	}

	var accounts []Account
	if err := json.Unmarshal(data, &accounts); err != nil {
		return nil, fmt.Errorf("accounts config %s: expected a list of accounts: %w", path, err)
	}

	for i, a := range accounts {
		if a.ID == "" {
			return nil, fmt.Errorf("accounts config %s: entry %d missing account_id", path, i)
		}
		if a.Credential == "" {
			return nil, fmt.Errorf("accounts config %s: entry %d (%s) missing credential", path, i, a.ID)
		}
		if a.DisplayName == "" {
			return nil, fmt.Errorf("accounts config %s: entry %d (%s) missing display_name", path, i, a.ID)
		}
	}

	return accounts, nil
}
