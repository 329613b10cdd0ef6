package wizard

import (
	"strings"
	"testing"
)

// User inputs are transient: a completed step sweeps them away.
func TestTransientMessagesFlushedOnStepCompletion(t *testing.T) {
	rig := newTestRig(t)
	rig.start(t)

	rig.press(t, "date:today")
	rig.press(t, "kind:income")
	rig.press(t, "wallet:w1")
	rig.press(t, "article:2")

	rig.send(t, "500")
	s := rig.session(t)
	if len(s.Transients) != 0 {
		t.Errorf("transients after completed step = %v, want empty", s.Transients)
	}

	rig.send(t, "-")
	// Reaching confirmation purges the superseded key prompts.
	if len(rig.transport.deleted) == 0 {
		t.Error("no key messages deleted at confirmation")
	}
}

// A failed validation keeps the transient: the batch delete happens
// only when the step completes.
func TestTransientKeptUntilStepCompletes(t *testing.T) {
	rig := newTestRig(t)
	rig.start(t)

	rig.press(t, "date:today")
	rig.press(t, "kind:income")
	rig.press(t, "wallet:w1")
	rig.press(t, "article:2")

	rig.send(t, "abc")
	if got := len(rig.session(t).Transients); got != 1 {
		t.Fatalf("transients after rejected input = %d, want 1", got)
	}
	rig.send(t, "500")
	if got := len(rig.session(t).Transients); got != 0 {
		t.Fatalf("transients after accepted input = %d, want 0", got)
	}
}

// Deleting an already-gone message must not fail the transition.
func TestDeleteFailureIsSwallowed(t *testing.T) {
	rig := newTestRig(t)
	rig.start(t)

	rig.press(t, "date:today")
	rig.press(t, "kind:income")
	rig.press(t, "wallet:w1")
	rig.press(t, "article:2")

	nextInboundID++
	ghost := nextInboundID
	err := rig.engine.Handle(testContext(), Event{
		UserID: testUser, ChatID: testChat, Kind: EventText,
		Payload: "500", MessageID: ghost,
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	// The inbound id was never a live message, so the batch delete hit
	// ErrMessageGone and moved on.
	if got := rig.state(t); got != StateEnteringComment {
		t.Fatalf("state = %q, want %q", got, StateEnteringComment)
	}
}

// Success leaves only the final summary on screen and a fresh hint.
func TestConfirmCleansTrackedMessages(t *testing.T) {
	rig := newTestRig(t)
	rig.start(t)

	rig.press(t, "date:today")
	rig.press(t, "kind:income")
	rig.press(t, "wallet:w1")
	rig.press(t, "article:2")
	rig.send(t, "500")
	rig.send(t, "-")
	rig.press(t, PayloadConfirm)

	s := rig.session(t)
	if len(s.Registry) != 0 || len(s.Transients) != 0 {
		t.Errorf("bookkeeping not cleared: registry=%v transients=%v", s.Registry, s.Transients)
	}
	var success bool
	for _, msg := range rig.transport.live {
		if strings.Contains(msg.Text, "Operation saved") {
			success = true
		}
	}
	if !success {
		t.Error("success summary not left on screen")
	}
}
