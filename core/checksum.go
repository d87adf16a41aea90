package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// ComputeSHA256 streams a file through SHA256 and returns the lowercase hex digest.
// Model weights run to tens of gigabytes, so the file is never read into memory whole.
func ComputeSHA256(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file %q: %w", path, err)
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("failed to read file %q: %w", path, err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// ComputeSHA256FromBytes computes the SHA256 hash of a byte slice.
func ComputeSHA256FromBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// VerifyChecksum computes the SHA256 hash of a file and compares it against an expected value.
// Comparison is case-insensitive.
func VerifyChecksum(path string, expectedHash string) (bool, error) {
	if err := ValidateSHA256(expectedHash); err != nil {
		return false, err
	}

	computed, err := ComputeSHA256(path)
	if err != nil {
		return false, err
	}

	return computed == strings.ToLower(expectedHash), nil
}

// ValidateSHA256 reports whether hash is a 64 character hex digest.
func ValidateSHA256(hash string) error {
	if hash == "" {
		return fmt.Errorf("expected hash cannot be empty")
	}
	if len(hash) != 64 {
		return fmt.Errorf("invalid SHA256 hash length: expected 64 characters, got %d", len(hash))
	}
	if _, err := hex.DecodeString(hash); err != nil {
		return fmt.Errorf("invalid SHA256 hash format: %w", err)
	}
	return nil
}
