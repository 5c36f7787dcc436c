// Package mode resolves the process-wide operating mode.
//
// The mode is computed exactly once at startup and never changes for the
// lifetime of the process. Write access is opt-in by recognized token only;
// a missing or malformed configuration value can never grant it.
package mode

import "strings"

// Mode determines whether write-class operations are ever permitted.
type Mode string

const (
	ReadOnly  Mode = "read-only"
	ReadWrite Mode = "read-write"
)

// writeSynonyms are the tokens that opt in to read-write mode.
// Anything else, including the empty string, resolves to read-only.
var writeSynonyms = map[string]bool{
	"readwrite":  true,
	"read-write": true,
	"read_write": true,
	"rw":         true,
	"write":      true,
}

// Resolve maps a raw configuration value to a Mode. Pure and total:
// unrecognized input is valid input that maps to the safe default,
// not an error.
func Resolve(raw string) Mode {
	if writeSynonyms[strings.ToLower(strings.TrimSpace(raw))] {
		return ReadWrite
	}
	return ReadOnly
}
