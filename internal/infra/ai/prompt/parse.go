package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/leaselens/leaselens/internal/domain/report"
)

// Sanitize strips an enclosing markdown code fence from model output, nothing
// more. The contract is deliberately narrow: remove a leading fence line
// (with or without a language tag) and a trailing fence, leave everything
// else untouched.
func Sanitize(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// drop the language tag on the opening fence, e.g. "json"
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ParseReport sanitizes raw model text, parses it as a lease report and
// normalizes optional fields. Malformed text yields an error; the caller
// decides how to surface it.
func ParseReport(raw string) (*report.Report, error) {
	text := Sanitize(raw)
	var r report.Report
	if err := json.Unmarshal([]byte(text), &r); err != nil {
		return nil, fmt.Errorf("model returned malformed report JSON: %w", err)
	}
	r.Normalize()
	return &r, nil
}
