// Package extract locates the first structured payload embedded in raw
// backend output. Models wrap JSON in prose and code fences; this package
// digs the payload out and gets it parseable, nothing more. Semantic
// validation belongs to the planning decoders.
package extract

import (
	"encoding/json"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"questline/internal/xerrors"
)

// Payload returns the first well-formed JSON payload found in raw. The
// search prefers the interior of a fenced code block when one is present,
// then takes the substring from the first opening marker to the last
// matching closing marker. Slightly malformed JSON (trailing commas,
// unquoted keys) is repaired before giving up.
func Payload(raw string) ([]byte, error) {
	candidate := fencedInterior(raw)
	segment, ok := markerSpan(candidate)
	if !ok {
		// The fence may hold prose while the payload sits outside it.
		segment, ok = markerSpan(raw)
	}
	if !ok {
		return nil, xerrors.NewExtractionError("no opening marker ('{' or '[') in backend output", raw)
	}

	if json.Valid([]byte(segment)) {
		return []byte(segment), nil
	}

	repaired, err := jsonrepair.JSONRepair(segment)
	if err != nil {
		return nil, xerrors.NewExtractionError("payload is not parseable JSON", raw)
	}
	if !json.Valid([]byte(repaired)) {
		return nil, xerrors.NewExtractionError("payload is not parseable JSON after repair", raw)
	}
	return []byte(repaired), nil
}

// fencedInterior returns the interior of the first fenced code block, or raw
// unchanged when no complete fence exists. A language tag on the opening
// fence line is skipped.
func fencedInterior(raw string) string {
	open := strings.Index(raw, "```")
	if open < 0 {
		return raw
	}
	rest := raw[open+3:]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		// Drop the language tag line ("json", "JSON", or empty).
		firstLine := strings.TrimSpace(rest[:nl])
		if !strings.ContainsAny(firstLine, "{[") {
			rest = rest[nl+1:]
		}
	}
	if end := strings.Index(rest, "```"); end >= 0 {
		return rest[:end]
	}
	return raw
}

// markerSpan slices s from the first opening marker to the last closing
// marker matching that kind.
func markerSpan(s string) (string, bool) {
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return "", false
	}
	var closer string
	if s[start] == '{' {
		closer = "}"
	} else {
		closer = "]"
	}
	end := strings.LastIndex(s, closer)
	if end < start {
		return "", false
	}
	return s[start : end+1], true
}
