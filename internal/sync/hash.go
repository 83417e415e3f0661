package sync

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

// ComputeFileHash returns the hex SHA256 of a file
func ComputeFileHash(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// QuickHash returns first 8 chars of hash for display
func QuickHash(hash string) string {
	if len(hash) >= 8 {
		return hash[:8]
	}
	return hash
}
