package logging

import (
	"regexp"
	"strings"
)

// RedactedPlaceholder is the string used to replace sensitive data
const RedactedPlaceholder = "[REDACTED]"

// sensitivePatterns are compiled once at package initialization.
// No generic hex pattern: SHA256 digests of weights and output images
// appear in logs and stay readable.
var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(hf_[a-zA-Z0-9]{30,})`),                // Hugging Face user access tokens
	regexp.MustCompile(`(?i)(bearer\s+[a-zA-Z0-9._-]{20,})`),   // Bearer tokens
	regexp.MustCompile(`(?i)(ghp_[a-zA-Z0-9]{36})`),            // GitHub tokens
	regexp.MustCompile(`(?i)(github_pat_[a-zA-Z0-9_]{22,})`),   // GitHub fine-grained tokens
	regexp.MustCompile(`(?i)(password\s*[:=]\s*[^\s,;]{8,})`),  // password= or password:
	regexp.MustCompile(`(?i)(secret\s*[:=]\s*[^\s,;]{8,})`),    // secret= or secret:
	regexp.MustCompile(`(?i)(token\s*[:=]\s*[^\s,;]{8,})`),     // token= or token:
	regexp.MustCompile(`(?i)(api_key\s*[:=]\s*[^\s,;]{8,})`),   // api_key= or api_key:
}

// sensitiveFieldNames are substrings of field or variable names whose values are always redacted.
var sensitiveFieldNames = []string{
	"HF_TOKEN",
	"HUGGINGFACE_API_KEY",
	"PASSWORD",
	"SECRET",
	"TOKEN",
	"API_KEY",
	"APIKEY",
}

// RedactSensitiveData scans a string value and redacts any detected credentials.
//
// Example:
//
//	RedactSensitiveData("401 for token hf_abcdefghijklmnopqrstuvwxyz0123456789")
//	// "401 for token [REDACTED]"
func RedactSensitiveData(value string) string {
	if value == "" {
		return value
	}

	result := value
	for _, pattern := range sensitivePatterns {
		result = pattern.ReplaceAllString(result, RedactedPlaceholder)
	}
	return result
}

// IsSensitiveField returns true if the field name indicates sensitive data.
// Only the name is checked, never the value.
func IsSensitiveField(fieldName string) bool {
	upperName := strings.ToUpper(fieldName)

	for _, name := range sensitiveFieldNames {
		if strings.Contains(upperName, name) {
			return true
		}
	}
	return false
}
