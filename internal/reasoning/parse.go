package reasoning

import (
	"io"
	"strings"

	"github.com/goccy/go-json"
)

// stripFences removes a surrounding markdown code fence, if present. Models
// occasionally wrap JSON output despite the STRICT JSON instruction; a fence
// is the one decoration tolerated before strict decoding.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	// Drop an optional language tag on the opening fence line.
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		first := strings.TrimSpace(s[:idx])
		if first == "json" || first == "" {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// decodeStrict decodes the model's output into v. The whole output must be a
// single JSON document; trailing prose or any shape mismatch is a failure.
func decodeStrict(output string, v interface{}) bool {
	cleaned := stripFences(output)
	if cleaned == "" {
		return false
	}

	dec := json.NewDecoder(strings.NewReader(cleaned))
	err := dec.Decode(v)
	if err != nil {
		return false
	}

	// Reject documents followed by anything but whitespace.
	var trailing json.RawMessage
	err = dec.Decode(&trailing)
	return err == io.EOF
}
