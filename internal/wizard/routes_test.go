package wizard

import "testing"

func TestArticleRoutingTotality(t *testing.T) {
	r := DefaultArticleRouting()
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	for code := 1; code <= MaxArticleCode; code++ {
		got, err := r.ResolveIncome(code)
		if err != nil {
			t.Fatalf("ResolveIncome(%d): %v", code, err)
		}
		if _, ok := incomeTargets[got]; !ok {
			t.Errorf("ResolveIncome(%d) = %q, not a legal income target", code, got)
		}
		got, err = r.ResolveOutcome(code)
		if err != nil {
			t.Fatalf("ResolveOutcome(%d): %v", code, err)
		}
		if _, ok := outcomeTargets[got]; !ok {
			t.Errorf("ResolveOutcome(%d) = %q, not a legal outcome target", code, got)
		}
	}
}

func TestArticleRoutingSpecialCodes(t *testing.T) {
	r := DefaultArticleRouting()

	incomeCases := map[int]RouteTarget{
		1:  TargetProject,
		27: TargetCreditor,
		32: TargetCreditor,
		28: TargetFounder,
		2:  TargetAmount,
		35: TargetAmount,
	}
	for code, want := range incomeCases {
		got, err := r.ResolveIncome(code)
		if err != nil {
			t.Fatalf("ResolveIncome(%d): %v", code, err)
		}
		if got != want {
			t.Errorf("ResolveIncome(%d) = %q, want %q", code, got, want)
		}
	}

	outcomeCases := map[int]RouteTarget{
		3:  TargetContractor,
		4:  TargetMaterial,
		7:  TargetEmployee,
		8:  TargetEmployee,
		11: TargetEmployee,
		29: TargetCreditor,
		30: TargetFounder,
		5:  TargetAmount,
		24: TargetAmount,
	}
	for code, want := range outcomeCases {
		got, err := r.ResolveOutcome(code)
		if err != nil {
			t.Fatalf("ResolveOutcome(%d): %v", code, err)
		}
		if got != want {
			t.Errorf("ResolveOutcome(%d) = %q, want %q", code, got, want)
		}
	}
}

func TestArticleRoutingRejectsOutOfRange(t *testing.T) {
	r := DefaultArticleRouting()
	if _, err := r.ResolveIncome(0); err == nil {
		t.Error("ResolveIncome(0) succeeded, want error")
	}
	if _, err := r.ResolveOutcome(MaxArticleCode + 1); err == nil {
		t.Error("ResolveOutcome out of range succeeded, want error")
	}
}

func TestArticleRoutingValidateRejectsIllegalTarget(t *testing.T) {
	r := ArticleRouting{
		Income:  map[int]RouteTarget{5: TargetMaterial}, // material is outcome-only
		Outcome: map[int]RouteTarget{},
	}
	if err := r.Validate(); err == nil {
		t.Error("Validate accepted an illegal income target")
	}
}

func TestNewEngineValidatesRouting(t *testing.T) {
	store := NewStore()
	_, err := NewEngine(store, newFakeStorage(), newFakeTransport(), Config{
		Routing: ArticleRouting{
			Income:  map[int]RouteTarget{1: TargetContractor},
			Outcome: map[int]RouteTarget{},
		},
	})
	if err == nil {
		t.Fatal("NewEngine accepted an invalid routing table")
	}
}
