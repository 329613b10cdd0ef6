package wizard

import "fmt"

const buttonsPerRow = 2

func chunkButtons(buttons []Button, perRow int) [][]Button {
	if perRow <= 0 {
		perRow = 1
	}
	var rows [][]Button
	for len(buttons) > 0 {
		n := perRow
		if n > len(buttons) {
			n = len(buttons)
		}
		rows = append(rows, buttons[:n])
		buttons = buttons[n:]
	}
	return rows
}

func withBack(rows [][]Button) [][]Button {
	return append(rows, Row(Button{Text: "← Back", Data: PayloadBack}))
}

func (e *Engine) promptDate(t *txn) (string, [][]Button, error) {
	rows := [][]Button{
		Row(
			Button{Text: "Today", Data: opDate + ":today"},
			Button{Text: "Yesterday", Data: opDate + ":yesterday"},
		),
	}
	return "Choose the operation date, or send it as dd.mm.yyyy:", rows, nil
}

func (e *Engine) promptType(t *txn) (string, [][]Button, error) {
	rows := [][]Button{
		Row(
			Button{Text: "Income", Data: opKind + ":" + string(KindIncome)},
			Button{Text: "Transfer", Data: opKind + ":" + string(KindTransfer)},
			Button{Text: "Outcome", Data: opKind + ":" + string(KindOutcome)},
		),
	}
	return "Choose the operation type:", withBack(rows), nil
}

func (e *Engine) walletButtons(t *txn, exclude string) ([]Button, error) {
	wallets, err := e.storage.Wallets(t.ctx)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	buttons := make([]Button, 0, len(wallets))
	for _, w := range wallets {
		if w.ID == exclude {
			continue
		}
		buttons = append(buttons, Button{Text: w.Number, Data: opWallet + ":" + w.ID})
	}
	return buttons, nil
}

func (e *Engine) promptIncomeWallet(t *txn) (string, [][]Button, error) {
	buttons, err := e.walletButtons(t, "")
	if err != nil {
		return "", nil, err
	}
	return "Choose the wallet receiving the income:", withBack(chunkButtons(buttons, buttonsPerRow)), nil
}

func (e *Engine) articleButtons(t *txn, allowed []int) ([]Button, error) {
	articles, err := e.storage.Articles(t.ctx)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	buttons := make([]Button, 0, len(articles))
	for _, a := range articles {
		if !codeAllowed(allowed, a.Code) {
			continue
		}
		buttons = append(buttons, Button{
			Text: a.ShortName,
			Data: fmt.Sprintf("%s:%d", opArticle, a.ID),
		})
	}
	return buttons, nil
}

func (e *Engine) promptIncomeArticle(t *txn) (string, [][]Button, error) {
	buttons, err := e.articleButtons(t, e.codes.Income)
	if err != nil {
		return "", nil, err
	}
	return "Choose the income article:", withBack(chunkButtons(buttons, buttonsPerRow)), nil
}

func (e *Engine) referenceButtons(t *txn, op string, list func(t *txn) ([]Reference, error)) ([][]Button, error) {
	refs, err := list(t)
	if err != nil {
		return nil, err
	}
	buttons := make([]Button, 0, len(refs))
	for _, r := range refs {
		buttons = append(buttons, Button{
			Text: r.Name,
			Data: fmt.Sprintf("%s:%d", op, r.ID),
		})
	}
	return withBack(chunkButtons(buttons, buttonsPerRow)), nil
}

func (e *Engine) promptProjects(t *txn) (string, [][]Button, error) {
	rows, err := e.referenceButtons(t, opProject, func(t *txn) ([]Reference, error) {
		return e.storage.Projects(t.ctx)
	})
	if err != nil {
		return "", nil, err
	}
	return "Choose the project:", rows, nil
}

func (e *Engine) promptCreditors(t *txn) (string, [][]Button, error) {
	rows, err := e.referenceButtons(t, opCreditor, func(t *txn) ([]Reference, error) {
		return e.storage.Creditors(t.ctx)
	})
	if err != nil {
		return "", nil, err
	}
	return "Choose the creditor:", rows, nil
}

func (e *Engine) promptFounders(t *txn) (string, [][]Button, error) {
	rows, err := e.referenceButtons(t, opFounder, func(t *txn) ([]Reference, error) {
		return e.storage.Founders(t.ctx)
	})
	if err != nil {
		return "", nil, err
	}
	return "Choose the founder:", rows, nil
}

func (e *Engine) promptAdditionalInfo(t *txn) (string, [][]Button, error) {
	return "Send the additional details for this income:", withBack(nil), nil
}

func (e *Engine) promptFromWallet(t *txn) (string, [][]Button, error) {
	buttons, err := e.walletButtons(t, "")
	if err != nil {
		return "", nil, err
	}
	return "Choose the wallet to transfer from:", withBack(chunkButtons(buttons, buttonsPerRow)), nil
}

func (e *Engine) promptToWallet(t *txn) (string, [][]Button, error) {
	buttons, err := e.walletButtons(t, t.s.GetString(KeyFromWalletID))
	if err != nil {
		return "", nil, err
	}
	return "Choose the wallet to transfer to:", withBack(chunkButtons(buttons, buttonsPerRow)), nil
}

func (e *Engine) promptOutcomeSource(t *txn) (string, [][]Button, error) {
	rows := [][]Button{
		Row(
			Button{Text: "From wallet", Data: opSource + ":" + SourceWallet},
			Button{Text: "From creditor", Data: opSource + ":" + SourceCreditor},
		),
	}
	return "Where does the money come from?", withBack(rows), nil
}

func (e *Engine) promptOutcomeWallet(t *txn) (string, [][]Button, error) {
	buttons, err := e.walletButtons(t, "")
	if err != nil {
		return "", nil, err
	}
	return "Choose the wallet paying the expense:", withBack(chunkButtons(buttons, buttonsPerRow)), nil
}

func (e *Engine) promptOutcomeChapter(t *txn) (string, [][]Button, error) {
	rows := [][]Button{
		Row(
			Button{Text: "By project", Data: opChapter + ":" + ChapterProject},
			Button{Text: "General", Data: opChapter + ":" + ChapterGeneral},
		),
	}
	return "Choose the expense chapter:", withBack(rows), nil
}

func (e *Engine) promptOutcomeGeneralType(t *txn) (string, [][]Button, error) {
	rows := [][]Button{
		Row(
			Button{Text: "Finance", Data: opGeneral + ":" + GeneralTypeFinance},
			Button{Text: "Payroll", Data: opGeneral + ":" + GeneralTypePayroll},
		),
	}
	return "Choose the expense type:", withBack(rows), nil
}

func (e *Engine) promptOutcomeArticle(t *txn) (string, [][]Button, error) {
	var allowed []int
	switch t.s.GetString(KeyChapter) {
	case ChapterProject:
		allowed = e.codes.ProjectOutcome
	case ChapterGeneral:
		if t.s.GetString(KeyGeneralType) == GeneralTypeFinance {
			allowed = e.codes.FinancialOutcome
		} else {
			allowed = e.codes.OperationalOutcome
		}
	}
	buttons, err := e.articleButtons(t, allowed)
	if err != nil {
		return "", nil, err
	}
	return "Choose the outcome article:", withBack(chunkButtons(buttons, buttonsPerRow)), nil
}

func (e *Engine) promptOutcomeDetails(t *txn) (string, [][]Button, error) {
	kind := RouteTarget(t.s.GetString(KeyDetailKind))
	var (
		text string
		op   string
		list func(t *txn) ([]Reference, error)
	)
	switch kind {
	case TargetContractor:
		text, op = "Choose the contractor:", opContractor
		list = func(t *txn) ([]Reference, error) { return e.storage.Contractors(t.ctx) }
	case TargetMaterial:
		text, op = "Choose the material:", opMaterial
		list = func(t *txn) ([]Reference, error) { return e.storage.Materials(t.ctx) }
	case TargetEmployee:
		text, op = "Choose the employee:", opEmployee
		list = func(t *txn) ([]Reference, error) { return e.storage.Employees(t.ctx) }
	case TargetCreditor:
		text, op = "Choose the creditor:", opCreditor
		list = func(t *txn) ([]Reference, error) { return e.storage.Creditors(t.ctx) }
	case TargetFounder:
		text, op = "Choose the founder:", opFounder
		list = func(t *txn) ([]Reference, error) { return e.storage.Founders(t.ctx) }
	default:
		return "", nil, fmt.Errorf("unknown outcome detail kind %q", kind)
	}
	rows, err := e.referenceButtons(t, op, list)
	if err != nil {
		return "", nil, err
	}
	return text, rows, nil
}

func (e *Engine) promptAmount(t *txn) (string, [][]Button, error) {
	return "Enter the amount:", withBack(nil), nil
}

func (e *Engine) promptSavingCoeff(t *txn) (string, [][]Button, error) {
	return "Enter the saving coefficient (a number from 0 to 1):", withBack(nil), nil
}

func (e *Engine) promptComment(t *txn) (string, [][]Button, error) {
	return "Enter a comment, or \"-\" to leave it empty:", withBack(nil), nil
}

func (e *Engine) promptConfirm(t *txn) (string, [][]Button, error) {
	summary, err := e.buildSummary(t.ctx, t.s)
	if err != nil {
		return "", nil, err
	}
	rows := [][]Button{
		Row(
			Button{Text: "✅ Confirm", Data: PayloadConfirm},
			Button{Text: "❌ Reject", Data: PayloadReject},
		),
	}
	return "Please check the operation:\n\n" + summary, withBack(rows), nil
}
