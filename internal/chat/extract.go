package chat

import (
	"encoding/json"
	"sort"
	"strings"
)

// replyFields are the object keys recognized as a reply, in priority order.
var replyFields = []string{"text", "output", "response", "message", "content"}

// maxExtractDepth bounds the recursive search. JSON cannot be cyclic, so
// this is a hardening limit, not a correctness requirement.
const maxExtractDepth = 32

// ExtractReply searches an arbitrarily shaped decoded reply payload for the
// first plausible human-readable reply string. Objects are checked for the
// known reply fields before recursing; strings that look like embedded JSON
// (possibly wrapped in fences or prose) are re-parsed and searched; arrays
// are searched element by element and unmatched objects by sorted key. A bare
// string is never itself treated as the answer; the send path decides what
// to do with plain-text bodies.
func ExtractReply(v any) (string, bool) {
	return extractReply(v, 0)
}

func extractReply(v any, depth int) (string, bool) {
	if depth > maxExtractDepth {
		return "", false
	}

	switch val := v.(type) {
	case map[string]any:
		for _, field := range replyFields {
			if s, ok := val[field].(string); ok && s != "" {
				return s, true
			}
		}
		// Recurse in sorted key order so the result is stable across runs.
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if s, ok := extractReply(val[k], depth+1); ok {
				return s, true
			}
		}
	case string:
		return extractEmbedded(val, depth)
	case []any:
		for _, child := range val {
			if s, ok := extractReply(child, depth+1); ok {
				return s, true
			}
		}
	}
	return "", false
}

// extractEmbedded handles stringified JSON, including payloads wrapped in
// code fences or surrounding prose. The substring between the first '{' and
// the last '}' is only tried when it differs from the whole trimmed string,
// which also guarantees the recursion shrinks.
func extractEmbedded(s string, depth int) (string, bool) {
	open := strings.Index(s, "{")
	last := strings.LastIndex(s, "}")
	if open == -1 || last == -1 || last < open {
		return "", false
	}

	trimmed := strings.TrimSpace(s)
	var parsed any
	if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil {
		return extractReply(parsed, depth+1)
	}

	inner := s[open : last+1]
	if inner == trimmed {
		return "", false
	}
	if err := json.Unmarshal([]byte(inner), &parsed); err != nil {
		return "", false
	}
	return extractReply(parsed, depth+1)
}
