package report

// NotFound is the sentinel the model returns for money/date fields it could
// not locate in the lease.
const NotFound = "Not found"

// NoFees is the single sentinel element for an empty fee list.
const NoFees = "None"

// GreenFlag is a tenant-favorable clause found in the lease.
type GreenFlag struct {
	Title   string `json:"title"`
	Detail  string `json:"detail"`
	Section string `json:"section,omitempty"`
}

// RedFlag severity enum
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
)

// RedFlag is a clause that works against the tenant, with a suggested fix.
type RedFlag struct {
	Title    string   `json:"title"`
	Severity Severity `json:"severity"`
	Detail   string   `json:"detail"`
	Fix      string   `json:"fix"`
	Section  string   `json:"section,omitempty"`
}

// AttentionItem is an ambiguous clause the tenant should ask about.
type AttentionItem struct {
	Title   string `json:"title"`
	Detail  string `json:"detail"`
	Ask     string `json:"ask"`
	Section string `json:"section,omitempty"`
}

// MissingClause is a protection the lease should contain but does not.
type MissingClause struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// Money value object: headline financial terms as the model reported them.
type Money struct {
	Rent       string   `json:"rent"`
	Deposit    string   `json:"deposit"`
	Escalation string   `json:"escalation"`
	Fees       []string `json:"fees"`
}

// Dates value object: headline term/notice/renewal dates.
type Dates struct {
	Term    string `json:"term"`
	Notice  string `json:"notice"`
	Renewal string `json:"renewal"`
}

// Report is the structured assessment produced by one analysis call.
// Replaced wholesale on re-analysis; never mutated in place.
type Report struct {
	Summary    string          `json:"summary"`
	Grade      Grade           `json:"grade"`
	GreenFlags []GreenFlag     `json:"green_flags"`
	RedFlags   []RedFlag       `json:"red_flags"`
	Attention  []AttentionItem `json:"attention"`
	Missing    []MissingClause `json:"missing"`
	Money      Money           `json:"money"`
	Dates      Dates           `json:"dates"`
	Priorities []string        `json:"priorities"`
}

// Normalize fills in everything the model is allowed to omit: optional arrays
// become empty slices and absent money/date strings become the NotFound
// sentinel, so consumers never have to nil-check.
func (r *Report) Normalize() {
	if r.GreenFlags == nil {
		r.GreenFlags = []GreenFlag{}
	}
	if r.RedFlags == nil {
		r.RedFlags = []RedFlag{}
	}
	if r.Attention == nil {
		r.Attention = []AttentionItem{}
	}
	if r.Missing == nil {
		r.Missing = []MissingClause{}
	}
	if r.Priorities == nil {
		r.Priorities = []string{}
	}
	r.Money.Rent = orNotFound(r.Money.Rent)
	r.Money.Deposit = orNotFound(r.Money.Deposit)
	r.Money.Escalation = orNotFound(r.Money.Escalation)
	if len(r.Money.Fees) == 0 {
		r.Money.Fees = []string{NoFees}
	}
	r.Dates.Term = orNotFound(r.Dates.Term)
	r.Dates.Notice = orNotFound(r.Dates.Notice)
	r.Dates.Renewal = orNotFound(r.Dates.Renewal)
}

func orNotFound(s string) string {
	if s == "" {
		return NotFound
	}
	return s
}
