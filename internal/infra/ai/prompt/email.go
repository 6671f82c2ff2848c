package prompt

import (
	"fmt"
	"strings"

	"github.com/leaselens/leaselens/internal/domain/report"
)

// EmailSystem provides directions for drafting the landlord email.
func EmailSystem() string {
	return `You write concise, professional emails from a prospective tenant to a landlord or their broker about lease concerns.

Requirements:
- Professional and courteous tone; firm, not aggressive.
- Present the concerns as a numbered list matching the order given.
- Never use placeholder brackets like [Name] or [Date]; write around unknowns.
- Close by requesting a meeting or call to discuss the items.
- Keep the whole email under roughly 300 words.
- Reply with the email body only: no subject line, no commentary.`
}

// BuildConcernList assembles the numbered concern list sent to the model.
// Every red flag is always included; clarification and missing-clause items
// are appended only when their switches are set. List length is therefore
// len(red) [+ len(attention)] [+ len(missing)].
func BuildConcernList(r *report.Report, includeAttention, includeMissing bool) string {
	var b strings.Builder
	n := 0
	for _, f := range r.RedFlags {
		n++
		fmt.Fprintf(&b, "%d. RED FLAG: %s — %s Suggested fix: %s\n", n, f.Title, f.Detail, f.Fix)
	}
	if includeAttention {
		for _, a := range r.Attention {
			n++
			fmt.Fprintf(&b, "%d. CLARIFY: %s — %s Question to ask: %s\n", n, a.Title, a.Detail, a.Ask)
		}
	}
	if includeMissing {
		for _, m := range r.Missing {
			n++
			fmt.Fprintf(&b, "%d. MISSING: %s — %s\n", n, m.Title, m.Detail)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// EmailUser wraps the concern list into the user message for the draft call.
func EmailUser(concerns string) string {
	return "Draft the email covering these concerns, numbered as given:\n\n" + concerns
}
