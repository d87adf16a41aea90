package diffusion

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"go_fluxcheck/core"

	"gopkg.in/yaml.v3"
)

// ModelChecksums maps "<repo>/<file>" to the expected SHA256 of that weight
// file. Files without an entry are loaded unverified.
var ModelChecksums = map[string]string{}

//go:embed checksums.yaml
var builtinChecksums []byte

func init() {
	if err := LoadModelChecksums(builtinChecksums); err != nil {
		panic(fmt.Sprintf("diffusion: built-in checksum table: %v", err))
	}
}

// LoadModelChecksums registers every digest in a YAML document of the form
//
//	<repo>:
//	  <file>: <sha256>
//
// Nothing is registered if any entry is malformed.
func LoadModelChecksums(data []byte) error {
	var table map[string]map[string]string
	if err := yaml.Unmarshal(data, &table); err != nil {
		return fmt.Errorf("failed to parse checksum table: %w", err)
	}

	for repo, files := range table {
		for file, checksum := range files {
			if err := core.ValidateSHA256(checksum); err != nil {
				return fmt.Errorf("checksum for %s: %w", checksumKey(repo, file), err)
			}
		}
	}
	for repo, files := range table {
		for file, checksum := range files {
			RegisterModelChecksum(repo, file, checksum)
		}
	}
	return nil
}

func checksumKey(repo, file string) string {
	return repo + "/" + file
}

// GetExpectedChecksum returns the registered SHA256 for file in repo.
func GetExpectedChecksum(repo, file string) (string, bool) {
	checksum, ok := ModelChecksums[checksumKey(repo, file)]
	return checksum, ok
}

// RegisterModelChecksum adds or updates the expected SHA256 for file in repo.
// Call it before any registry loads the model.
func RegisterModelChecksum(repo, file, checksum string) {
	ModelChecksums[checksumKey(repo, file)] = strings.ToLower(checksum)
}

// VerifyModelChecksum checks the local copy at path of file from repo.
//
// Returns:
//   - nil if the checksum matches or none is registered
//   - ErrModelNotFound if path doesn't exist
//   - ErrModelCorrupted on mismatch
func VerifyModelChecksum(repo, file, path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrModelNotFound, path)
		}
		return fmt.Errorf("failed to access model file: %w", err)
	}

	expected, ok := GetExpectedChecksum(repo, file)
	if !ok {
		return nil
	}

	match, err := core.VerifyChecksum(path, expected)
	if err != nil {
		return fmt.Errorf("failed to calculate checksum: %w", err)
	}
	if !match {
		return fmt.Errorf("%w: %s does not match sha256 %s", ErrModelCorrupted, file, expected)
	}
	return nil
}
