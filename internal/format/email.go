package format

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	fencedBlock  = regexp.MustCompile("```(?:json)?\\n([\\s\\S]*?)\\n```")
	fenceMarkers = regexp.MustCompile("```(?:json)?\\n|\\n```")
)

type fencedEmail struct {
	Email *struct {
		Body string `json:"body"`
	} `json:"email"`
}

// CleanEmailResponse turns a model reply into plain email text.
// A fenced JSON block carrying email.body yields that body; any other fenced
// block is unwrapped in place.
func CleanEmailResponse(text string) string {
	if !strings.Contains(text, "```") {
		return text
	}

	m := fencedBlock.FindStringSubmatch(text)
	if m == nil || m[1] == "" {
		return text
	}

	var payload fencedEmail
	if err := json.Unmarshal([]byte(m[1]), &payload); err == nil && payload.Email != nil && payload.Email.Body != "" {
		return payload.Email.Body
	}

	return fenceMarkers.ReplaceAllString(text, "")
}
