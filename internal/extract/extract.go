// Package extract turns loosely-structured model output into JSON.
//
// Models frequently wrap JSON in markdown code fences or surround it with
// conversational filler despite instructions. The extractor strips fences,
// then slices from the first '{' to the last '}' and parses the result.
// The outer-brace slice tolerates leading/trailing prose, but it will
// mis-parse responses containing multiple sibling top-level objects or an
// unmatched '}' in trailing commentary. That is a known limitation of the
// strategy, kept deliberately.
package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// MalformedError reports that no valid JSON object could be extracted
// from a model response.
type MalformedError struct {
	Reason string
	Err    error
}

func (e *MalformedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed model response: %s: %v", e.Reason, e.Err)
	}
	return "malformed model response: " + e.Reason
}

func (e *MalformedError) Unwrap() error { return e.Err }

// fenceRe matches ```json and bare ``` markers, case-insensitively,
// anywhere in the text.
var fenceRe = regexp.MustCompile("(?i)```json|```")

// Object extracts the first balanced JSON object substring from raw and
// returns it verbatim. It fails with *MalformedError if no '{'/'}' pair
// exists or the slice does not parse as JSON.
func Object(raw string) ([]byte, error) {
	s := fenceRe.ReplaceAllString(raw, "")
	s = strings.TrimSpace(s)

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return nil, &MalformedError{Reason: "no JSON object found"}
	}

	obj := []byte(s[start : end+1])
	if !json.Valid(obj) {
		// Re-parse to surface the decoder's error for diagnostics.
		var probe any
		err := json.Unmarshal(obj, &probe)
		return nil, &MalformedError{Reason: "invalid JSON object", Err: err}
	}
	return obj, nil
}

// Decode extracts the JSON object from raw and unmarshals it into v.
func Decode(raw string, v any) error {
	obj, err := Object(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(obj, v); err != nil {
		return &MalformedError{Reason: "decoding JSON object", Err: err}
	}
	return nil
}
