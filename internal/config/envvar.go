package config

import (
	"os"
	"strconv"
	"time"
)

// getString returns the value of the environment variable, or the fallback
// when unset/empty.
func getString(name, fallback string) string {
	if value, ok := os.LookupEnv(name); ok && value != "" {
		return value
	}

	return fallback
}

// getBool returns the boolean value of the environment variable; unset or
// malformed values yield the fallback.
func getBool(name string, fallback bool) bool {
	value, ok := os.LookupEnv(name)
	if !ok {
		return fallback
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}

	return parsed
}

// getInt returns the int value of the environment variable; unset or
// malformed values yield the fallback.
func getInt(name string, fallback int) int {
	value, ok := os.LookupEnv(name)
	if !ok {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}

	return parsed
}

// getDuration returns the duration value of the environment variable; unset
// or malformed values yield the fallback.
func getDuration(name string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(name)
	if !ok {
		return fallback
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}

	return parsed
}
