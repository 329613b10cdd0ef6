package wizard

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/finflow/finflow-bot/core/logger"
)

// finalizeConfirm promotes the draft to a persisted record. On success
// the confirmation message becomes a success summary and the session is
// reset; on a storage failure the error is shown inline together with
// the attempted summary and the session is kept so the user can retry
// the same draft or cancel.
func (e *Engine) finalizeConfirm(t *txn) error {
	s := t.s
	summary, err := e.buildSummary(t.ctx, s)
	if err != nil {
		return err
	}

	kind := Kind(s.GetString(KeyOperationKind))
	var createErr error
	switch kind {
	case KindIncome:
		rec, err := buildIncome(s)
		if err != nil {
			return err
		}
		createErr = e.storage.CreateIncome(t.ctx, rec)
	case KindOutcome:
		rec, err := buildOutcome(s)
		if err != nil {
			return err
		}
		createErr = e.storage.CreateOutcome(t.ctx, rec)
	case KindTransfer:
		rec, err := buildTransfer(s)
		if err != nil {
			return err
		}
		createErr = e.storage.CreateTransfer(t.ctx, rec)
	default:
		return fmt.Errorf("unknown operation kind %q", kind)
	}

	if createErr != nil {
		logger.Warn(t.ctx, "wizard", "finalize.failed",
			slog.Int64("user_id", s.UserID),
			slog.String("kind", string(kind)),
			slog.String("error", createErr.Error()),
		)
		rows := [][]Button{
			Row(
				Button{Text: "✅ Confirm", Data: PayloadConfirm},
				Button{Text: "❌ Reject", Data: PayloadReject},
			),
		}
		text := fmt.Sprintf("⚠️ Failed to save the operation: %v\n\n%s", createErr, summary)
		return t.showKey(RoleConfirm, text, withBack(rows))
	}

	logger.Info(t.ctx, "wizard", "finalize.committed",
		slog.Int64("user_id", s.UserID),
		slog.String("kind", string(kind)),
		slog.String("draft_id", s.GetString(KeyDraftID)),
	)

	if err := t.showKey(RoleConfirm, "✅ Operation saved.\n\n"+summary, nil); err != nil {
		return err
	}
	t.flushTransients(nil)
	delete(s.Registry, RoleConfirm) // keep the success summary on screen
	t.purgeKeys(nil)
	s.Reset()

	_, err = e.transport.Send(t.ctx, s.ChatID, "Send /start_operation to record the next operation.", nil)
	return err
}

// finalizeReject discards the draft without touching storage. Always
// succeeds.
func (e *Engine) finalizeReject(t *txn) error {
	s := t.s
	t.flushTransients(nil)
	if err := t.showKey(RoleConfirm, "❌ Operation cancelled.", nil); err != nil {
		return err
	}
	delete(s.Registry, RoleConfirm)
	t.purgeKeys(nil)
	s.Reset()

	logger.Info(t.ctx, "wizard", "finalize.rejected",
		slog.Int64("user_id", s.UserID),
	)
	_, err := e.transport.Send(t.ctx, s.ChatID, "Send /start_operation to record the next operation.", nil)
	return err
}

func draftTimes(s *Session) (recording, operation time.Time, err error) {
	recording, err = time.Parse(recordingDateLayout, s.GetString(KeyRecordingDate))
	if err != nil {
		return recording, operation, fmt.Errorf("recording date: %w", err)
	}
	operation, err = time.Parse(operationDateLayout, s.GetString(KeyOperationDate))
	if err != nil {
		return recording, operation, fmt.Errorf("operation date: %w", err)
	}
	return recording, operation, nil
}

func int64Ptr(s *Session, key string) *int64 {
	if v, ok := s.GetInt64(key); ok {
		return &v
	}
	return nil
}

func stringPtr(s *Session, key string) *string {
	if s.Has(key) {
		v := s.GetString(key)
		return &v
	}
	return nil
}

func buildIncome(s *Session) (IncomeRecord, error) {
	recording, operation, err := draftTimes(s)
	if err != nil {
		return IncomeRecord{}, err
	}
	amount, ok := s.GetFloat(KeyAmount)
	if !ok {
		return IncomeRecord{}, fmt.Errorf("income draft has no amount")
	}
	articleID, ok := s.GetInt64(KeyArticleID)
	if !ok {
		return IncomeRecord{}, fmt.Errorf("income draft has no article")
	}
	return IncomeRecord{
		DraftID:        s.GetString(KeyDraftID),
		RecordingDate:  recording,
		OperationDate:  operation,
		WalletID:       s.GetString(KeyWalletID),
		ArticleID:      articleID,
		ProjectID:      int64Ptr(s, KeyProjectID),
		CreditorID:     int64Ptr(s, KeyCreditorID),
		FounderID:      int64Ptr(s, KeyFounderID),
		AdditionalInfo: stringPtr(s, KeyAdditionalInfo),
		Amount:         amount,
		Comment:        s.GetString(KeyComment),
	}, nil
}

func buildOutcome(s *Session) (OutcomeRecord, error) {
	recording, operation, err := draftTimes(s)
	if err != nil {
		return OutcomeRecord{}, err
	}
	amount, ok := s.GetFloat(KeyAmount)
	if !ok {
		return OutcomeRecord{}, fmt.Errorf("outcome draft has no amount")
	}
	articleID, ok := s.GetInt64(KeyArticleID)
	if !ok {
		return OutcomeRecord{}, fmt.Errorf("outcome draft has no article")
	}
	if amount < 0 {
		amount = -amount
	}
	rec := OutcomeRecord{
		DraftID:        s.GetString(KeyDraftID),
		RecordingDate:  recording,
		OperationDate:  operation,
		ArticleID:      articleID,
		Chapter:        s.GetString(KeyChapter),
		GeneralType:    stringPtr(s, KeyGeneralType),
		ProjectID:      int64Ptr(s, KeyProjectID),
		ContractorID:   int64Ptr(s, KeyContractorID),
		MaterialID:     int64Ptr(s, KeyMaterialID),
		EmployeeID:     int64Ptr(s, KeyEmployeeID),
		DetailCreditor: int64Ptr(s, KeyCreditorID),
		FounderID:      int64Ptr(s, KeyFounderID),
		CreditorID:     int64Ptr(s, KeySourceCreditorID),
		// The sign is owned here: whatever the user typed, an
		// outcome is persisted non-positive.
		Amount:  -amount,
		Comment: s.GetString(KeyComment),
	}
	if s.Has(KeyWalletID) {
		w := s.GetString(KeyWalletID)
		rec.WalletID = &w
	}
	if coeff, ok := s.GetFloat(KeySavingCoeff); ok {
		rec.SavingCoeff = &coeff
	}
	return rec, nil
}

func buildTransfer(s *Session) (TransferRecord, error) {
	recording, operation, err := draftTimes(s)
	if err != nil {
		return TransferRecord{}, err
	}
	amount, ok := s.GetFloat(KeyAmount)
	if !ok {
		return TransferRecord{}, fmt.Errorf("transfer draft has no amount")
	}
	return TransferRecord{
		DraftID:       s.GetString(KeyDraftID),
		RecordingDate: recording,
		OperationDate: operation,
		FromWalletID:  s.GetString(KeyFromWalletID),
		ToWalletID:    s.GetString(KeyToWalletID),
		Amount:        amount,
		Comment:       s.GetString(KeyComment),
	}, nil
}
