// Package ledger persists the fingerprint record of every video the
// pipeline has published, so candidates can be deduplicated by source
// URL before spending bandwidth and by content hash afterwards.
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

const lockTimeout = 5 * time.Second

// Sentinel errors for ledger operations.
var (
	// ErrLockTimeout indicates a timeout acquiring the ledger file lock.
	ErrLockTimeout = errors.New("ledger: file lock timeout")
)

// StoreError wraps an error from a ledger storage operation.
type StoreError struct {
	Op   string
	Path string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("ledger %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Ledger is the append-only set of published VideoRecords backed by a
// single JSON file. The in-memory view is authoritative: a failed write
// is logged, remembered, and retried on the next successful append.
type Ledger struct {
	path    string
	lock    *FileLock
	records []*VideoRecord
	dirty   bool
	mu      sync.RWMutex
}

// Open loads the ledger at path, acquiring an exclusive advisory lock.
// A missing, zero-byte, or unparseable file yields an empty ledger;
// corruption is never fatal.
func Open(path string) (*Ledger, error) {
	l := &Ledger{
		path: path,
		lock: NewFileLock(path),
	}

	if err := l.lock.Lock(lockTimeout); err != nil {
		return nil, err
	}

	l.load()
	return l, nil
}

// load reads the JSON file into memory. Any read or parse failure is
// treated as an empty ledger.
func (l *Ledger) load() {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("reelsync: ledger %s unreadable, starting empty: %v", l.path, err)
		}
		l.records = nil
		return
	}

	if len(data) == 0 {
		l.records = nil
		return
	}

	var records []*VideoRecord
	if err := json.Unmarshal(data, &records); err != nil {
		log.Printf("reelsync: ledger %s corrupt, starting empty: %v", l.path, err)
		l.records = nil
		return
	}

	l.records = records
}

// Contains reports whether any stored record matches the source URL or,
// when contentHash is non-empty, the content hash. This supports the
// two-pass dedup: a cheap URL check before downloading and a stronger
// hash check after.
func (l *Ledger) Contains(sourceURL, contentHash string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, r := range l.records {
		if r.SourceURL == sourceURL {
			return true
		}
		if contentHash != "" && r.ContentHash == contentHash {
			return true
		}
	}
	return false
}

// Append adds a record and rewrites the full list to disk. Re-appending
// a record whose source URL or content hash already matches an existing
// entry is silently dropped. A persistence failure leaves the in-memory
// view authoritative and is retried on the next append.
func (l *Ledger) Append(record *VideoRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, r := range l.records {
		if r.SourceURL == record.SourceURL {
			return nil
		}
		if record.ContentHash != "" && r.ContentHash == record.ContentHash {
			return nil
		}
	}

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.DiscoveredAt.IsZero() {
		record.DiscoveredAt = time.Now().UTC()
	}

	l.records = append(l.records, record)

	if err := l.save(); err != nil {
		l.dirty = true
		return err
	}
	l.dirty = false
	return nil
}

// save persists the full record list to disk atomically.
func (l *Ledger) save() error {
	writer, err := NewAtomicWriter(l.path)
	if err != nil {
		return &StoreError{Op: "write", Path: l.path, Err: err}
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(l.records); err != nil {
		writer.Abort()
		return &StoreError{Op: "write", Path: l.path, Err: err}
	}

	if err := writer.Commit(); err != nil {
		return &StoreError{Op: "write", Path: l.path, Err: err}
	}

	return nil
}

// Len returns the number of stored records.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Dirty reports whether the last persistence attempt failed and the
// on-disk file lags the in-memory view.
func (l *Ledger) Dirty() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.dirty
}

// Close releases the ledger file lock.
func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lock.Unlock()
}
