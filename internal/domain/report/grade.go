package report

// Grade enum: the letter grade the model assigns to the lease overall.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// Valid reports whether g is one of the five recognized grades.
func (g Grade) Valid() bool {
	switch g {
	case GradeA, GradeB, GradeC, GradeD, GradeF:
		return true
	}
	return false
}

// Presentation is the badge metadata the client renders for a grade.
type Presentation struct {
	Label string `json:"label"`
	Tone  string `json:"tone"`
}

var gradePresentation = map[Grade]Presentation{
	GradeA: {Label: "Excellent lease", Tone: "good"},
	GradeB: {Label: "Solid lease", Tone: "good"},
	GradeC: {Label: "Needs negotiation", Tone: "warn"},
	GradeD: {Label: "Serious concerns", Tone: "bad"},
	GradeF: {Label: "Do not sign as-is", Tone: "bad"},
}

// Presentation returns the badge for g. An unrecognized grade falls back to a
// neutral default instead of failing, so a misbehaving model never breaks the
// report view.
func (g Grade) Presentation() Presentation {
	if p, ok := gradePresentation[g]; ok {
		return p
	}
	return Presentation{Label: "Ungraded", Tone: "neutral"}
}
