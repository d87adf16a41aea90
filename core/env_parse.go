package core

import (
	"os"
	"strconv"
	"strings"
)

// envValue returns the trimmed value of key. Blank counts as unset, so an
// empty line in .env never overrides a default.
func envValue(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

// GetEnvOrDefault returns key's value, or def when key is unset or blank.
func GetEnvOrDefault(key, def string) string {
	if v, ok := envValue(key); ok {
		return v
	}
	return def
}

// FirstEnv returns the first set variable among keys and its name. Used
// where several variable names carry the same credential.
func FirstEnv(keys ...string) (value, key string) {
	for _, k := range keys {
		if v, ok := envValue(k); ok {
			return v, k
		}
	}
	return "", ""
}

// ParseIntEnv returns key as an int, or def when it is unset or not a number.
func ParseIntEnv(key string, def int) int {
	v, ok := envValue(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

var boolWords = map[string]bool{
	"true": true, "1": true, "yes": true, "on": true,
	"false": false, "0": false, "no": false, "off": false,
}

// ParseBoolEnv reads key as a switch. true/1/yes/on and false/0/no/off are
// accepted in any case; anything else yields def.
func ParseBoolEnv(key string, def bool) bool {
	v, ok := envValue(key)
	if !ok {
		return def
	}
	if b, known := boolWords[strings.ToLower(v)]; known {
		return b
	}
	return def
}
