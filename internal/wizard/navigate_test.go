package wizard

import (
	"reflect"
	"testing"
)

func snapshotData(s *Session) map[string]any {
	out := make(map[string]any, len(s.Data))
	for k, v := range s.Data {
		out[k] = v
	}
	return out
}

// Round-trip inverse law: n forward transitions followed by n back
// steps restore the draft to its content immediately after wizard
// start, with the session back at the opening prompt.
func TestBackNavigationRoundTrip(t *testing.T) {
	rig := newTestRig(t)
	rig.start(t)

	before := snapshotData(rig.session(t))

	forwards := 0
	step := func(fn func()) {
		fn()
		forwards++
	}
	step(func() { rig.press(t, "date:today") })
	step(func() { rig.press(t, "kind:income") })
	step(func() { rig.press(t, "wallet:w1") })
	step(func() { rig.press(t, "article:1") }) // code 1 routes to project
	step(func() { rig.press(t, "project:2") })
	step(func() { rig.send(t, "120") })

	if got := rig.state(t); got != StateEnteringComment {
		t.Fatalf("state after forwards = %q, want %q", got, StateEnteringComment)
	}

	for i := 0; i < forwards; i++ {
		rig.press(t, PayloadBack)
	}

	s := rig.session(t)
	if s.State != StateChoosingDate {
		t.Fatalf("state after %d backs = %q, want %q", forwards, s.State, StateChoosingDate)
	}
	if len(s.History) != 0 {
		t.Errorf("history after round trip = %v, want empty", s.History)
	}
	if got := snapshotData(s); !reflect.DeepEqual(got, before) {
		t.Errorf("data after round trip = %v, want %v", got, before)
	}
}

// The detour path: backing out of the coefficient prompt re-asks the
// amount, and the full rewind still restores the initial draft.
func TestBackNavigationThroughSavingCoeffDetour(t *testing.T) {
	rig := newTestRig(t)
	rig.start(t)
	before := snapshotData(rig.session(t))

	presses := []string{
		"date:today", "kind:outcome", "src:creditor", "creditor:1",
		"chapter:general", "gen:payroll", "article:29", "creditor:3",
	}
	for _, p := range presses {
		rig.press(t, p)
	}
	rig.send(t, "150")
	if got := rig.state(t); got != StateEnteringSavingCoeff {
		t.Fatalf("state = %q, want %q", got, StateEnteringSavingCoeff)
	}
	rig.send(t, "0.3")

	rig.press(t, PayloadBack)
	s := rig.session(t)
	if s.State != StateEnteringSavingCoeff {
		t.Fatalf("state after one back = %q, want %q", s.State, StateEnteringSavingCoeff)
	}
	if s.Has(KeySavingCoeff) {
		t.Error("saving coefficient survived the back step")
	}

	total := len(presses) + 2 // plus amount and coefficient entries
	for i := 0; i < total-1; i++ {
		rig.press(t, PayloadBack)
	}
	s = rig.session(t)
	if s.State != StateChoosingDate {
		t.Fatalf("state after full rewind = %q, want %q", s.State, StateChoosingDate)
	}
	if got := snapshotData(s); !reflect.DeepEqual(got, before) {
		t.Errorf("data after full rewind = %v, want %v", got, before)
	}
}

func TestBackWithEmptyHistoryIsNoOp(t *testing.T) {
	rig := newTestRig(t)
	rig.start(t)

	s := rig.session(t)
	stateBefore := s.State
	dataBefore := snapshotData(s)

	rig.press(t, PayloadBack)

	s = rig.session(t)
	if s.State != stateBefore {
		t.Errorf("state changed on empty-history back: %q -> %q", stateBefore, s.State)
	}
	if got := snapshotData(s); !reflect.DeepEqual(got, dataBefore) {
		t.Errorf("data changed on empty-history back")
	}
	if len(s.Transients) == 0 {
		t.Error("no-op notice not sent")
	}
}

// Forward and backward entry into a state render through the same
// builder: the prompt text after a back matches the forward prompt.
func TestBackRerendersSamePrompt(t *testing.T) {
	rig := newTestRig(t)
	rig.start(t)

	rig.press(t, "date:today")
	rig.press(t, "kind:income")

	s := rig.session(t)
	forwardPrompt := rig.transport.message(s.Registry[RoleWallet]).Text

	rig.press(t, "wallet:w1")
	rig.press(t, PayloadBack)

	s = rig.session(t)
	if got := rig.state(t); got != StateChoosingIncomeWallet {
		t.Fatalf("state after back = %q, want %q", got, StateChoosingIncomeWallet)
	}
	backPrompt := rig.transport.message(s.Registry[RoleWallet]).Text
	if backPrompt != forwardPrompt {
		t.Errorf("back prompt %q differs from forward prompt %q", backPrompt, forwardPrompt)
	}
}

// When the key message for the target state is gone, the back step
// sends a replacement and re-registers the new id.
func TestBackResendsWhenPromptDeleted(t *testing.T) {
	rig := newTestRig(t)
	rig.start(t)

	rig.press(t, "date:today")
	rig.press(t, "kind:income")
	rig.press(t, "wallet:w1")

	s := rig.session(t)
	oldID := s.Registry[RoleWallet]
	// Simulate the platform dropping the message.
	delete(rig.transport.live, oldID)

	rig.press(t, PayloadBack)

	s = rig.session(t)
	newID, ok := s.Registry[RoleWallet]
	if !ok {
		t.Fatal("wallet prompt not re-registered after resend")
	}
	if newID == oldID {
		t.Fatalf("registry still points at the deleted message %d", oldID)
	}
	if rig.transport.message(newID) == nil {
		t.Fatal("replacement prompt not live")
	}
}
