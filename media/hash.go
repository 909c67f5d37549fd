package media

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// hashChunkSize is the fixed read size for fingerprinting, keeping
// memory use independent of file size.
const hashChunkSize = 4096

// FileHash computes the content fingerprint of a local file by
// streaming it in fixed-size chunks. The hash is the ledger's strong
// dedup key, not a security boundary.
func FileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.CopyBuffer(h, f, make([]byte, hashChunkSize)); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
