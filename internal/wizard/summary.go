package wizard

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// buildSummary renders the current draft for the confirmation prompt.
// Foreign keys are resolved through storage; a missing entity falls
// back to the raw stored identifier so the summary never fails on a
// dangling reference.
func (e *Engine) buildSummary(ctx context.Context, s *Session) (string, error) {
	kind := Kind(s.GetString(KeyOperationKind))
	var b strings.Builder

	fmt.Fprintf(&b, "Date: %s\n", e.displayDate(s))
	fmt.Fprintf(&b, "Type: %s\n", kindLabel(kind))

	switch kind {
	case KindIncome:
		fmt.Fprintf(&b, "Wallet: %s\n", e.walletName(ctx, s.GetString(KeyWalletID)))
		fmt.Fprintf(&b, "Article: %s\n", e.articleName(ctx, s))
		e.writeRef(ctx, &b, s, "Project", KeyProjectID, e.storage.ProjectByID)
		e.writeRef(ctx, &b, s, "Creditor", KeyCreditorID, e.storage.CreditorByID)
		e.writeRef(ctx, &b, s, "Founder", KeyFounderID, e.storage.FounderByID)
		if s.Has(KeyAdditionalInfo) {
			fmt.Fprintf(&b, "Details: %s\n", s.GetString(KeyAdditionalInfo))
		}
	case KindTransfer:
		fmt.Fprintf(&b, "From: %s\n", e.walletName(ctx, s.GetString(KeyFromWalletID)))
		fmt.Fprintf(&b, "To: %s\n", e.walletName(ctx, s.GetString(KeyToWalletID)))
	case KindOutcome:
		if s.GetString(KeyOutcomeSource) == SourceCreditor {
			e.writeRef(ctx, &b, s, "Paid by creditor", KeySourceCreditorID, e.storage.CreditorByID)
		} else {
			fmt.Fprintf(&b, "Wallet: %s\n", e.walletName(ctx, s.GetString(KeyWalletID)))
		}
		fmt.Fprintf(&b, "Chapter: %s\n", chapterLabel(s))
		e.writeRef(ctx, &b, s, "Project", KeyProjectID, e.storage.ProjectByID)
		fmt.Fprintf(&b, "Article: %s\n", e.articleName(ctx, s))
		e.writeRef(ctx, &b, s, "Contractor", KeyContractorID, e.storage.ContractorByID)
		e.writeRef(ctx, &b, s, "Material", KeyMaterialID, e.storage.MaterialByID)
		e.writeRef(ctx, &b, s, "Employee", KeyEmployeeID, e.storage.EmployeeByID)
		e.writeRef(ctx, &b, s, "Creditor", KeyCreditorID, e.storage.CreditorByID)
		e.writeRef(ctx, &b, s, "Founder", KeyFounderID, e.storage.FounderByID)
	}

	if amount, ok := s.GetFloat(KeyAmount); ok {
		fmt.Fprintf(&b, "Amount: %s\n", formatAmount(amount))
	}
	if coeff, ok := s.GetFloat(KeySavingCoeff); ok {
		fmt.Fprintf(&b, "Saving coefficient: %s\n", strconv.FormatFloat(coeff, 'f', -1, 64))
	}
	if s.Has(KeyComment) {
		comment := s.GetString(KeyComment)
		if comment == "" {
			comment = "—"
		}
		fmt.Fprintf(&b, "Comment: %s\n", comment)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (e *Engine) displayDate(s *Session) string {
	raw := s.GetString(KeyOperationDate)
	if t, err := ParseOperationDate(raw); err == nil {
		return FormatOperationDate(t)
	}
	return raw
}

func (e *Engine) walletName(ctx context.Context, id string) string {
	if id == "" {
		return "—"
	}
	if w, err := e.storage.WalletByID(ctx, id); err == nil {
		return w.Number
	}
	return id
}

func (e *Engine) articleName(ctx context.Context, s *Session) string {
	id, ok := s.GetInt64(KeyArticleID)
	if !ok {
		return "—"
	}
	if a, err := e.storage.ArticleByID(ctx, id); err == nil {
		return a.Name
	}
	return strconv.FormatInt(id, 10)
}

func (e *Engine) writeRef(ctx context.Context, b *strings.Builder, s *Session, label, key string,
	lookup func(context.Context, int64) (Reference, error),
) {
	id, ok := s.GetInt64(key)
	if !ok {
		return
	}
	name := strconv.FormatInt(id, 10)
	if ref, err := lookup(ctx, id); err == nil {
		name = ref.Name
	}
	fmt.Fprintf(b, "%s: %s\n", label, name)
}

func kindLabel(kind Kind) string {
	switch kind {
	case KindIncome:
		return "Income"
	case KindTransfer:
		return "Transfer"
	case KindOutcome:
		return "Outcome"
	}
	return string(kind)
}

func chapterLabel(s *Session) string {
	switch s.GetString(KeyChapter) {
	case ChapterProject:
		return "By project"
	case ChapterGeneral:
		switch s.GetString(KeyGeneralType) {
		case GeneralTypeFinance:
			return "General / finance"
		case GeneralTypePayroll:
			return "General / payroll"
		}
		return "General"
	}
	return "—"
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
