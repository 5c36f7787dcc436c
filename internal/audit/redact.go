package audit

import (
	"encoding/json"
	"strings"
)

const (
	// RedactedMarker replaces values under sensitive keys.
	RedactedMarker = "[REDACTED]"
	// ElidedMarker replaces non-string values too large for the sink.
	ElidedMarker = "[ELIDED]"
	// TruncatedSuffix terminates prefix-truncated string values.
	TruncatedSuffix = "...(truncated)"
)

// DefaultMaxValueBytes bounds the serialized size of any single logged value.
const DefaultMaxValueBytes = 256

// DefaultSensitiveKeys are key-name fragments whose values are always
// replaced before an entry touches the sink. Matching is case-insensitive
// substring, so api_key, ApiKey, and backend_api_key all hit "api_key".
var DefaultSensitiveKeys = []string{
	"secret", "password", "passwd", "token",
	"credential", "api_key", "apikey", "authorization",
	"private_key", "access_key",
}

// RedactSettings controls redaction. Zero values fall back to defaults.
type RedactSettings struct {
	ExtraKeys     []string
	MaxValueBytes int
}

func (s RedactSettings) maxBytes() int {
	if s.MaxValueBytes > 0 {
		return s.MaxValueBytes
	}
	return DefaultMaxValueBytes
}

func (s RedactSettings) keySet() []string {
	keys := make([]string, 0, len(DefaultSensitiveKeys)+len(s.ExtraKeys))
	keys = append(keys, DefaultSensitiveKeys...)
	for _, k := range s.ExtraKeys {
		keys = append(keys, strings.ToLower(k))
	}
	return keys
}

// Redact returns a deep copy of the input safe for the audit sink:
// sensitive keys replaced by RedactedMarker, oversized strings truncated,
// oversized compound values elided. Applied identically on every path —
// success, error, or denial — before an entry is written.
func Redact(input map[string]any, settings RedactSettings) map[string]any {
	if input == nil {
		return nil
	}
	keys := settings.keySet()
	max := settings.maxBytes()
	out := make(map[string]any, len(input))
	for k, v := range input {
		out[k] = redactValue(k, v, keys, max)
	}
	return out
}

func redactValue(key string, v any, sensitive []string, max int) any {
	if isSensitiveKey(key, sensitive) {
		return RedactedMarker
	}
	switch t := v.(type) {
	case string:
		if len(t) > max {
			return t[:max] + TruncatedSuffix
		}
		return t
	case map[string]any:
		inner := make(map[string]any, len(t))
		for k, val := range t {
			inner[k] = redactValue(k, val, sensitive, max)
		}
		if serializedSize(inner) > max*4 {
			return ElidedMarker
		}
		return inner
	case []any:
		inner := make([]any, len(t))
		for i, val := range t {
			// Elements inherit no key of their own.
			inner[i] = redactValue("", val, sensitive, max)
		}
		if serializedSize(inner) > max*4 {
			return ElidedMarker
		}
		return inner
	default:
		// Numbers, bools, nil: small by construction.
		return v
	}
}

func isSensitiveKey(key string, sensitive []string) bool {
	if key == "" {
		return false
	}
	lower := strings.ToLower(key)
	for _, frag := range sensitive {
		if strings.Contains(lower, frag) {
			return true
		}
	}
	return false
}

func serializedSize(v any) int {
	data, err := json.Marshal(v)
	if err != nil {
		return 0
	}
	return len(data)
}
