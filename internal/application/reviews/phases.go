package reviews

import "time"

// analysisPhases is the fixed progress script shown while a review call is in
// flight. Purely cosmetic: the indicator advances on a timer, not on anything
// the model reports, and caps at the last phase if the call is slow.
var analysisPhases = []string{
	"Reading your lease",
	"Scanning key terms",
	"Checking fees and charges",
	"Reviewing tenant protections",
	"Building your report",
}

// defaultPhaseInterval is the cadence the indicator advances on.
const defaultPhaseInterval = 4 * time.Second
