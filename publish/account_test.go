package publish

import (
	"os"
	"path/filepath"
	"testing"
)

func writeAccountsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "accounts.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAccounts(t *testing.T) {
	path := writeAccountsFile(t, `[
		{"account_id": "111", "credential": "tok-a", "display_name": "Page A"},
		{"account_id": "222", "credential": "tok-b", "display_name": "Page B"}
	]`)

	accounts, err := LoadAccounts(path)
	if err != nil {
		t.Fatalf("LoadAccounts() error = %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("len(accounts) = %d, want 2", len(accounts))
	}
	if accounts[0].ID != "111" || accounts[0].DisplayName != "Page A" {
		t.Errorf("first account = %+v", accounts[0])
	}
	if accounts[1].Credential != "tok-b" {
		t.Errorf("second account credential not loaded")
	}
}

func TestLoadAccountsFailFast(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not a list", `{"account_id": "111"}`},
		{"invalid json", `[{`},
		{"missing account_id", `[{"credential": "tok", "display_name": "Page"}]`},
		{"missing credential", `[{"account_id": "111", "display_name": "Page"}]`},
		{"missing display_name", `[{"account_id": "111", "credential": "tok"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeAccountsFile(t, tt.content)
			if _, err := LoadAccounts(path); err == nil {
				t.Error("LoadAccounts() error = nil, want failure")
			}
		})
	}
}

func TestLoadAccountsMissingFile(t *testing.T) {
	if _, err := LoadAccounts(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("LoadAccounts() error = nil for missing file, want failure")
	}
}
