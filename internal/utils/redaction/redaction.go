// Package redaction prepares before/after images for the audit trail: it
// normalizes them into plain JSON trees, masks sensitive fields and bounds
// the size of long strings.
package redaction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/SscSPs/ledger_integrity/internal/utils/canonical"
)

const (
	// Mask replaces the value of every sensitive field.
	Mask = "***REDACTED***"
	// TruncationMarker is appended to strings cut at the length limit.
	TruncationMarker = "…[truncated]"
	// DefaultMaxLength is the rune limit for string values.
	DefaultMaxLength = 1000
)

var sensitiveTokens = []string{"password", "token", "secret", "key", "hash"}

// IsSensitive reports whether a field name contains a sensitive token,
// ignoring case.
func IsSensitive(field string) bool {
	lower := strings.ToLower(field)
	for _, t := range sensitiveTokens {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

// Normalize turns m into a tree of map[string]any, []any, string, bool,
// json.Number and nil by round-tripping it through canonical JSON. A nil
// map stays nil.
func Normalize(m map[string]any) (map[string]any, error) {
	if m == nil {
		return nil, nil
	}
	raw, err := canonical.JSON(m)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("redaction: normalize: %w", err)
	}
	return out, nil
}

// Redact returns a copy of a normalized map with sensitive fields masked at
// any depth and strings longer than maxLen runes truncated.
func Redact(m map[string]any, maxLen int) map[string]any {
	if m == nil {
		return nil
	}
	if maxLen <= 0 {
		maxLen = DefaultMaxLength
	}
	return redactMap(m, maxLen)
}

func redactMap(m map[string]any, maxLen int) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if IsSensitive(k) {
			out[k] = Mask
			continue
		}
		out[k] = redactValue(v, maxLen)
	}
	return out
}

func redactValue(v any, maxLen int) any {
	switch t := v.(type) {
	case map[string]any:
		return redactMap(t, maxLen)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = redactValue(item, maxLen)
		}
		return out
	case string:
		return Truncate(t, maxLen)
	default:
		return v
	}
}

// Truncate cuts s to maxLen runes and appends the marker when it was longer.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen]) + TruncationMarker
}

// ChangedFields lists the top-level fields of after whose value differs from
// before, plus the fields of before missing from after. The result is sorted
// and free of duplicates. Both maps must be normalized.
func ChangedFields(before, after map[string]any) []string {
	seen := make(map[string]struct{})
	for k, av := range after {
		bv, ok := before[k]
		if !ok || !reflect.DeepEqual(av, bv) {
			seen[k] = struct{}{}
		}
	}
	for k := range before {
		if _, ok := after[k]; !ok {
			seen[k] = struct{}{}
		}
	}
	fields := make([]string, 0, len(seen))
	for k := range seen {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields
}
