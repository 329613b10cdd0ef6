package wizard

import "fmt"

// RouteTarget names the sub-step an article code routes to after the
// article choice.
type RouteTarget string

const (
	TargetAmount         RouteTarget = "amount"
	TargetProject        RouteTarget = "project"
	TargetCreditor       RouteTarget = "creditor"
	TargetFounder        RouteTarget = "founder"
	TargetContractor     RouteTarget = "contractor"
	TargetMaterial       RouteTarget = "material"
	TargetEmployee       RouteTarget = "employee"
	TargetAdditionalInfo RouteTarget = "additional_info"
)

// MaxArticleCode bounds the article code space the routing tables must
// cover.
const MaxArticleCode = 35

var incomeTargets = map[RouteTarget]struct{}{
	TargetAmount:         {},
	TargetProject:        {},
	TargetCreditor:       {},
	TargetFounder:        {},
	TargetAdditionalInfo: {},
}

var outcomeTargets = map[RouteTarget]struct{}{
	TargetAmount:     {},
	TargetContractor: {},
	TargetMaterial:   {},
	TargetEmployee:   {},
	TargetCreditor:   {},
	TargetFounder:    {},
}

// ArticleRouting is the declarative code-to-sub-step lookup for both
// branches. Codes absent from a map fall through to amount entry, so
// the table is total over the whole code space by construction; Validate
// still checks every code resolves to a target legal for its branch.
type ArticleRouting struct {
	Income  map[int]RouteTarget
	Outcome map[int]RouteTarget
}

// DefaultArticleRouting returns the production routing table.
func DefaultArticleRouting() ArticleRouting {
	return ArticleRouting{
		Income: map[int]RouteTarget{
			1:  TargetProject,
			27: TargetCreditor,
			28: TargetFounder,
			32: TargetCreditor,
		},
		Outcome: map[int]RouteTarget{
			3:  TargetContractor,
			4:  TargetMaterial,
			7:  TargetEmployee,
			8:  TargetEmployee,
			11: TargetEmployee,
			29: TargetCreditor,
			30: TargetFounder,
		},
	}
}

// ResolveIncome returns the sub-step for an income article code.
func (r ArticleRouting) ResolveIncome(code int) (RouteTarget, error) {
	if code < 1 || code > MaxArticleCode {
		return "", fmt.Errorf("income article code %d out of range", code)
	}
	if t, ok := r.Income[code]; ok {
		return t, nil
	}
	return TargetAmount, nil
}

// ResolveOutcome returns the sub-step for an outcome article code.
func (r ArticleRouting) ResolveOutcome(code int) (RouteTarget, error) {
	if code < 1 || code > MaxArticleCode {
		return "", fmt.Errorf("outcome article code %d out of range", code)
	}
	if t, ok := r.Outcome[code]; ok {
		return t, nil
	}
	return TargetAmount, nil
}

// Validate checks the table is total and deterministic over codes
// 1..MaxArticleCode and that no code routes to a target illegal for its
// branch. Called once at engine construction.
func (r ArticleRouting) Validate() error {
	for code := 1; code <= MaxArticleCode; code++ {
		t, err := r.ResolveIncome(code)
		if err != nil {
			return err
		}
		if _, ok := incomeTargets[t]; !ok {
			return fmt.Errorf("income article code %d routes to invalid target %q", code, t)
		}
		t, err = r.ResolveOutcome(code)
		if err != nil {
			return err
		}
		if _, ok := outcomeTargets[t]; !ok {
			return fmt.Errorf("outcome article code %d routes to invalid target %q", code, t)
		}
	}
	return nil
}

// Chapter and general-type values used by the outcome branch.
const (
	ChapterProject = "project"
	ChapterGeneral = "general"

	GeneralTypeFinance = "finance"
	GeneralTypePayroll = "payroll"

	SourceWallet   = "wallet"
	SourceCreditor = "creditor"
)

// Codes filters which article codes each branch offers. Zero-length
// slices disable filtering for that branch.
type Codes struct {
	Income             []int
	ProjectOutcome     []int
	FinancialOutcome   []int
	OperationalOutcome []int
}

// DefaultCodes mirrors the production article-code ranges.
func DefaultCodes() Codes {
	return Codes{
		Income:             []int{1, 2, 27, 28, 31, 32, 33},
		ProjectOutcome:     rangeCodes(3, 10),
		FinancialOutcome:   rangeCodes(11, 20),
		OperationalOutcome: rangeCodes(21, 30),
	}
}

func rangeCodes(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for c := from; c <= to; c++ {
		out = append(out, c)
	}
	return out
}

func codeAllowed(codes []int, code int) bool {
	if len(codes) == 0 {
		return true
	}
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}
