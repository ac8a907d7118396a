package concierge

import (
	"encoding/json"
	"regexp"
)

// Action is a structured command extracted from assistant output. Fields
// holds the full decoded object, including the type discriminator.
type Action struct {
	Type   string         `json:"type"`
	Fields map[string]any `json:"fields,omitempty"`
}

var (
	// An explicit ACTION: marker wins over any other JSON in the text.
	actionMarkerRe = regexp.MustCompile(`(?s)ACTION:\s*(\{.*\})`)
	jsonObjectRe   = regexp.MustCompile(`(?s)(\{.*\})`)
)

// ExtractAction best-effort parses an action from a completed transcript.
// A marker-prefixed JSON object is tried first; otherwise the first JSON
// object found anywhere in the text. Malformed JSON or an object without a
// string "type" field yields nil; parse failures are never fatal.
func ExtractAction(transcript string) *Action {
	if m := actionMarkerRe.FindStringSubmatch(transcript); m != nil {
		return parseAction(m[1])
	}
	if m := jsonObjectRe.FindStringSubmatch(transcript); m != nil {
		return parseAction(m[1])
	}
	return nil
}

func parseAction(raw string) *Action {
	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil
	}
	actionType, _ := fields["type"].(string)
	if actionType == "" {
		return nil
	}
	return &Action{Type: actionType, Fields: fields}
}

// Field returns the named string field of the action, or "".
func (a *Action) Field(name string) string {
	s, _ := a.Fields[name].(string)
	return s
}
