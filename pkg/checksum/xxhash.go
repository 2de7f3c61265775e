package checksum

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// FileFingerprint hashes the full content of the file at path. Observers use
// it to detect ledger changes without parsing the whole file again.
func FileFingerprint(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("failed to hash content of file %s: %w", path, err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// LineHash hashes a single encoded ledger line.
func LineHash(line string) string {
	digest := xxhash.New()
	digest.Write([]byte(line))
	return hex.EncodeToString(digest.Sum(nil))
}
