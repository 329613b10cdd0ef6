package wizard

import (
	"errors"
	"strings"
	"testing"
)

// Full income flow: today, income, wallet, article code 2 (no
// sub-selection), amount 500, comment "-". Exactly one income record
// with amount 500.00 and an intentionally empty comment.
func TestIncomeFlowEndToEnd(t *testing.T) {
	rig := newTestRig(t)
	rig.start(t)

	rig.press(t, "date:today")
	rig.press(t, "kind:income")
	rig.press(t, "wallet:w1")
	rig.press(t, "article:2")
	if got := rig.state(t); got != StateEnteringAmount {
		t.Fatalf("state after article 2 = %q, want %q", got, StateEnteringAmount)
	}
	rig.send(t, "500")
	rig.send(t, "-")
	if got := rig.state(t); got != StateConfirming {
		t.Fatalf("state after comment = %q, want %q", got, StateConfirming)
	}
	rig.press(t, PayloadConfirm)

	if len(rig.storage.incomes) != 1 {
		t.Fatalf("persisted %d incomes, want 1", len(rig.storage.incomes))
	}
	rec := rig.storage.incomes[0]
	if rec.Amount != 500 {
		t.Errorf("income amount = %v, want 500", rec.Amount)
	}
	if rec.Comment != "" {
		t.Errorf("income comment = %q, want empty string", rec.Comment)
	}
	if rec.WalletID != "w1" {
		t.Errorf("income wallet = %q, want w1", rec.WalletID)
	}
	if rec.ArticleID != 2 {
		t.Errorf("income article = %d, want 2", rec.ArticleID)
	}
	if rec.ProjectID != nil || rec.CreditorID != nil || rec.FounderID != nil {
		t.Error("income record has sub-selection fields set, want all nil")
	}
	if rec.OperationDate.Format("2006-01-02") != "2025-06-15" {
		t.Errorf("operation date = %v, want 2025-06-15", rec.OperationDate)
	}
	if got := rig.state(t); got != StateIdle {
		t.Errorf("state after confirm = %q, want idle", got)
	}
}

// Outcome funded by a creditor with article code 29: routed to the
// creditor sub-choice, then through the saving-coefficient detour.
func TestOutcomeCreditorFlowEndToEnd(t *testing.T) {
	rig := newTestRig(t)
	rig.start(t)

	rig.press(t, "date:yesterday")
	rig.press(t, "kind:outcome")
	rig.press(t, "src:creditor")
	rig.press(t, "creditor:1")
	rig.press(t, "chapter:general")
	rig.press(t, "gen:payroll")
	rig.press(t, "article:29")
	if got := rig.state(t); got != StateEnteringOutcomeDetails {
		t.Fatalf("state after article 29 = %q, want %q", got, StateEnteringOutcomeDetails)
	}
	rig.press(t, "creditor:3")
	rig.send(t, "150")
	if got := rig.state(t); got != StateEnteringSavingCoeff {
		t.Fatalf("state after amount = %q, want %q", got, StateEnteringSavingCoeff)
	}
	rig.send(t, "0.3")
	rig.send(t, "loan repayment")
	rig.press(t, PayloadConfirm)

	if len(rig.storage.outcomes) != 1 {
		t.Fatalf("persisted %d outcomes, want 1", len(rig.storage.outcomes))
	}
	rec := rig.storage.outcomes[0]
	if rec.Amount > 0 {
		t.Errorf("outcome amount = %v, want non-positive", rec.Amount)
	}
	if rec.Amount != -150 {
		t.Errorf("outcome amount = %v, want -150", rec.Amount)
	}
	if rec.SavingCoeff == nil || *rec.SavingCoeff != 0.3 {
		t.Errorf("saving coeff = %v, want 0.3", rec.SavingCoeff)
	}
	if rec.CreditorID == nil || *rec.CreditorID != 1 {
		t.Errorf("source creditor = %v, want 1", rec.CreditorID)
	}
	if rec.DetailCreditor == nil || *rec.DetailCreditor != 3 {
		t.Errorf("detail creditor = %v, want 3", rec.DetailCreditor)
	}
	if rec.WalletID != nil {
		t.Errorf("wallet = %v, want nil for creditor-funded outcome", *rec.WalletID)
	}
	if rec.Comment != "loan repayment" {
		t.Errorf("comment = %q", rec.Comment)
	}
}

// A wallet-funded outcome skips the saving-coefficient detour.
func TestOutcomeWalletSkipsSavingCoeff(t *testing.T) {
	rig := newTestRig(t)
	rig.start(t)

	rig.press(t, "date:today")
	rig.press(t, "kind:outcome")
	rig.press(t, "src:wallet")
	rig.press(t, "wallet:w2")
	rig.press(t, "chapter:project")
	rig.press(t, "project:2")
	rig.press(t, "article:5")
	rig.send(t, "75,25")
	if got := rig.state(t); got != StateEnteringComment {
		t.Fatalf("state after amount = %q, want %q", got, StateEnteringComment)
	}
	rig.send(t, "supplies")
	rig.press(t, PayloadConfirm)

	if len(rig.storage.outcomes) != 1 {
		t.Fatalf("persisted %d outcomes, want 1", len(rig.storage.outcomes))
	}
	rec := rig.storage.outcomes[0]
	if rec.SavingCoeff != nil {
		t.Errorf("saving coeff = %v, want nil", *rec.SavingCoeff)
	}
	if rec.Amount != -75.25 {
		t.Errorf("amount = %v, want -75.25", rec.Amount)
	}
	if rec.ProjectID == nil || *rec.ProjectID != 2 {
		t.Errorf("project = %v, want 2", rec.ProjectID)
	}
}

func TestTransferFlowEndToEnd(t *testing.T) {
	rig := newTestRig(t)
	rig.start(t)

	rig.press(t, "date:today")
	rig.press(t, "kind:transfer")
	rig.press(t, "wallet:w1")

	// The destination keyboard must not offer the source wallet.
	s := rig.session(t)
	id, ok := s.Registry[RoleWallet]
	if !ok {
		t.Fatal("no wallet prompt registered")
	}
	msg := rig.transport.message(id)
	if msg == nil {
		t.Fatal("wallet prompt message missing")
	}
	for _, row := range msg.Keyboard {
		for _, btn := range row {
			if btn.Data == "wallet:w1" {
				t.Error("destination keyboard offers the source wallet")
			}
		}
	}

	rig.press(t, "wallet:w3")
	rig.send(t, "1 000")
	rig.send(t, "month end")
	rig.press(t, PayloadConfirm)

	if len(rig.storage.transfers) != 1 {
		t.Fatalf("persisted %d transfers, want 1", len(rig.storage.transfers))
	}
	rec := rig.storage.transfers[0]
	if rec.FromWalletID != "w1" || rec.ToWalletID != "w3" {
		t.Errorf("transfer wallets = %q -> %q, want w1 -> w3", rec.FromWalletID, rec.ToWalletID)
	}
	if rec.Amount != 1000 {
		t.Errorf("transfer amount = %v, want 1000", rec.Amount)
	}
}

func TestTransferRejectsSameWallet(t *testing.T) {
	rig := newTestRig(t)
	rig.start(t)

	rig.press(t, "date:today")
	rig.press(t, "kind:transfer")
	rig.press(t, "wallet:w1")
	rig.press(t, "wallet:w1") // stale button press

	if got := rig.state(t); got != StateChoosingToWallet {
		t.Fatalf("state after same-wallet press = %q, want %q", got, StateChoosingToWallet)
	}
	if rig.session(t).Has(KeyToWalletID) {
		t.Error("same-wallet press mutated the draft")
	}
}

// Malformed free-text input re-prompts in place: no draft mutation, no
// history push, no state change.
func TestInvalidAmountRepromptsWithoutMutation(t *testing.T) {
	rig := newTestRig(t)
	rig.start(t)

	rig.press(t, "date:today")
	rig.press(t, "kind:income")
	rig.press(t, "wallet:w1")
	rig.press(t, "article:2")

	before := rig.session(t)
	historyLen := len(before.History)

	rig.send(t, "abc")

	s := rig.session(t)
	if s.State != StateEnteringAmount {
		t.Errorf("state = %q, want %q", s.State, StateEnteringAmount)
	}
	if s.Has(KeyAmount) {
		t.Error("invalid amount mutated the draft")
	}
	if len(s.History) != historyLen {
		t.Errorf("history length = %d, want %d", len(s.History), historyLen)
	}

	// The amount prompt was edited in place, not duplicated.
	id := s.Registry[RoleAmount]
	msg := rig.transport.message(id)
	if msg == nil {
		t.Fatal("amount prompt missing")
	}
	if !strings.Contains(msg.Text, "Could not read that amount") {
		t.Errorf("amount prompt text = %q, want an error notice", msg.Text)
	}

	rig.send(t, "250")
	if got := rig.state(t); got != StateEnteringComment {
		t.Fatalf("state after valid amount = %q, want %q", got, StateEnteringComment)
	}
}

func TestSavingCoeffBounds(t *testing.T) {
	rig := newTestRig(t)
	rig.start(t)

	rig.press(t, "date:today")
	rig.press(t, "kind:outcome")
	rig.press(t, "src:creditor")
	rig.press(t, "creditor:2")
	rig.press(t, "chapter:general")
	rig.press(t, "gen:finance")
	rig.press(t, "article:12")
	rig.send(t, "90")

	rig.send(t, "1.5")
	if got := rig.state(t); got != StateEnteringSavingCoeff {
		t.Fatalf("state after coeff 1.5 = %q, want %q", got, StateEnteringSavingCoeff)
	}
	rig.send(t, "-0.1")
	if rig.session(t).Has(KeySavingCoeff) {
		t.Error("rejected coefficient mutated the draft")
	}
	rig.send(t, "1")
	if got := rig.state(t); got != StateEnteringComment {
		t.Fatalf("state after coeff 1 = %q, want %q", got, StateEnteringComment)
	}
}

// A storage failure on confirm keeps the session in the confirming
// state with its history intact, so the user can retry or reject.
func TestConfirmFailureRetainsSession(t *testing.T) {
	rig := newTestRig(t)
	rig.start(t)

	rig.press(t, "date:today")
	rig.press(t, "kind:income")
	rig.press(t, "wallet:w1")
	rig.press(t, "article:2")
	rig.send(t, "500")
	rig.send(t, "ok")

	rig.storage.createErr = errors.New("wallet does not exist")
	rig.press(t, PayloadConfirm)

	s := rig.session(t)
	if s.State != StateConfirming {
		t.Fatalf("state after failed confirm = %q, want %q", s.State, StateConfirming)
	}
	if len(s.History) == 0 {
		t.Error("history cleared on failed confirm")
	}
	if len(rig.storage.incomes) != 0 {
		t.Errorf("persisted %d incomes, want 0", len(rig.storage.incomes))
	}
	msg := rig.transport.message(s.Registry[RoleConfirm])
	if msg == nil || !strings.Contains(msg.Text, "wallet does not exist") {
		t.Error("confirm message does not show the storage error")
	}

	// Retrying after the storage recovers commits the same draft.
	rig.storage.createErr = nil
	rig.press(t, PayloadConfirm)
	if len(rig.storage.incomes) != 1 {
		t.Fatalf("persisted %d incomes after retry, want 1", len(rig.storage.incomes))
	}
	if got := rig.state(t); got != StateIdle {
		t.Errorf("state after retry = %q, want idle", got)
	}
}

func TestRejectDiscardsDraft(t *testing.T) {
	rig := newTestRig(t)
	rig.start(t)

	rig.press(t, "date:today")
	rig.press(t, "kind:income")
	rig.press(t, "wallet:w1")
	rig.press(t, "article:2")
	rig.send(t, "500")
	rig.send(t, "-")
	rig.press(t, PayloadReject)

	if len(rig.storage.incomes) != 0 {
		t.Errorf("reject persisted %d incomes, want 0", len(rig.storage.incomes))
	}
	s := rig.session(t)
	if s.State != StateIdle {
		t.Errorf("state after reject = %q, want idle", s.State)
	}
	if len(s.Data) != 0 {
		t.Errorf("draft not cleared on reject: %v", s.Data)
	}
}

func TestCancelOperationResetsSession(t *testing.T) {
	rig := newTestRig(t)
	rig.start(t)
	rig.press(t, "date:today")
	rig.press(t, "kind:income")

	if err := rig.engine.CancelOperation(testContext(), testUser, testChat); err != nil {
		t.Fatalf("CancelOperation: %v", err)
	}
	s := rig.session(t)
	if s.State != StateIdle {
		t.Errorf("state after cancel = %q, want idle", s.State)
	}
	if len(s.Data) != 0 || len(s.History) != 0 {
		t.Error("cancel left draft data or history behind")
	}
}

func TestEventWhenIdleSendsHint(t *testing.T) {
	rig := newTestRig(t)
	rig.send(t, "hello")
	if got := rig.state(t); got != StateIdle {
		t.Errorf("state = %q, want idle", got)
	}
	if rig.transport.sends == 0 {
		t.Error("no hint message sent for an idle event")
	}
}

func TestKeyMessagesPurgedAtConfirmation(t *testing.T) {
	rig := newTestRig(t)
	rig.start(t)

	rig.press(t, "date:today")
	rig.press(t, "kind:income")
	rig.press(t, "wallet:w1")
	rig.press(t, "article:2")
	rig.send(t, "500")
	rig.send(t, "done")

	s := rig.session(t)
	if s.State != StateConfirming {
		t.Fatalf("state = %q, want confirming", s.State)
	}
	for role := range s.Registry {
		if role != RoleDate && role != RoleConfirm {
			t.Errorf("role %q still registered at confirmation", role)
		}
	}
	if _, ok := s.Registry[RoleDate]; !ok {
		t.Error("date prompt purged at confirmation, want kept")
	}
}
