// Package storage persists financial records and reference data in
// Postgres and serves them through the wizard's storage contract.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/finflow/finflow-bot/core/logger"
	"github.com/finflow/finflow-bot/internal/wizard"
)

// Storage implements wizard.Storage on top of sqlx.
type Storage struct {
	db *sqlx.DB
}

// New wraps an open database handle.
func New(db *sqlx.DB) *Storage {
	return &Storage{db: db}
}

type walletRow struct {
	ID     string `db:"wallet_id"`
	Number string `db:"wallet_number"`
}

type articleRow struct {
	ID        int64  `db:"article_id"`
	Code      int    `db:"code"`
	Name      string `db:"name"`
	ShortName string `db:"short_name"`
}

type referenceRow struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

func wrapLookup(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, wizard.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, err)
}

// Wallets returns all wallets ordered by identifier.
func (s *Storage) Wallets(ctx context.Context) ([]wizard.Wallet, error) {
	var rows []walletRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT wallet_id, wallet_number FROM wallets ORDER BY wallet_id`)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	out := make([]wizard.Wallet, 0, len(rows))
	for _, r := range rows {
		out = append(out, wizard.Wallet{ID: r.ID, Number: r.Number})
	}
	return out, nil
}

// WalletByID looks up a single wallet.
func (s *Storage) WalletByID(ctx context.Context, id string) (wizard.Wallet, error) {
	var r walletRow
	err := s.db.GetContext(ctx, &r,
		`SELECT wallet_id, wallet_number FROM wallets WHERE wallet_id = $1`, id)
	if err != nil {
		return wizard.Wallet{}, wrapLookup(err, "wallet "+id)
	}
	return wizard.Wallet{ID: r.ID, Number: r.Number}, nil
}

// Articles returns all articles ordered by code.
func (s *Storage) Articles(ctx context.Context) ([]wizard.Article, error) {
	var rows []articleRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT article_id, code, name, short_name FROM articles ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	out := make([]wizard.Article, 0, len(rows))
	for _, r := range rows {
		out = append(out, wizard.Article(r))
	}
	return out, nil
}

// ArticleByID looks up a single article.
func (s *Storage) ArticleByID(ctx context.Context, id int64) (wizard.Article, error) {
	var r articleRow
	err := s.db.GetContext(ctx, &r,
		`SELECT article_id, code, name, short_name FROM articles WHERE article_id = $1`, id)
	if err != nil {
		return wizard.Article{}, wrapLookup(err, fmt.Sprintf("article %d", id))
	}
	return wizard.Article(r), nil
}

func (s *Storage) listReference(ctx context.Context, table, idCol string) ([]wizard.Reference, error) {
	var rows []referenceRow
	query := fmt.Sprintf(`SELECT %s AS id, name FROM %s ORDER BY %s`, idCol, table, idCol)
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	out := make([]wizard.Reference, 0, len(rows))
	for _, r := range rows {
		out = append(out, wizard.Reference(r))
	}
	return out, nil
}

func (s *Storage) referenceByID(ctx context.Context, table, idCol string, id int64) (wizard.Reference, error) {
	var r referenceRow
	query := fmt.Sprintf(`SELECT %s AS id, name FROM %s WHERE %s = $1`, idCol, table, idCol)
	if err := s.db.GetContext(ctx, &r, query, id); err != nil {
		return wizard.Reference{}, wrapLookup(err, fmt.Sprintf("%s %d", table, id))
	}
	return wizard.Reference(r), nil
}

// Creditors returns all creditors.
func (s *Storage) Creditors(ctx context.Context) ([]wizard.Reference, error) {
	return s.listReference(ctx, "creditors", "creditor_id")
}

// CreditorByID looks up a single creditor.
func (s *Storage) CreditorByID(ctx context.Context, id int64) (wizard.Reference, error) {
	return s.referenceByID(ctx, "creditors", "creditor_id", id)
}

// Projects returns all projects.
func (s *Storage) Projects(ctx context.Context) ([]wizard.Reference, error) {
	return s.listReference(ctx, "projects", "project_id")
}

// ProjectByID looks up a single project.
func (s *Storage) ProjectByID(ctx context.Context, id int64) (wizard.Reference, error) {
	return s.referenceByID(ctx, "projects", "project_id", id)
}

// Employees returns all employees.
func (s *Storage) Employees(ctx context.Context) ([]wizard.Reference, error) {
	return s.listReference(ctx, "employees", "employee_id")
}

// EmployeeByID looks up a single employee.
func (s *Storage) EmployeeByID(ctx context.Context, id int64) (wizard.Reference, error) {
	return s.referenceByID(ctx, "employees", "employee_id", id)
}

// Materials returns all materials.
func (s *Storage) Materials(ctx context.Context) ([]wizard.Reference, error) {
	return s.listReference(ctx, "materials", "material_id")
}

// MaterialByID looks up a single material.
func (s *Storage) MaterialByID(ctx context.Context, id int64) (wizard.Reference, error) {
	return s.referenceByID(ctx, "materials", "material_id", id)
}

// Contractors returns all contractors.
func (s *Storage) Contractors(ctx context.Context) ([]wizard.Reference, error) {
	return s.listReference(ctx, "contractors", "contractor_id")
}

// ContractorByID looks up a single contractor.
func (s *Storage) ContractorByID(ctx context.Context, id int64) (wizard.Reference, error) {
	return s.referenceByID(ctx, "contractors", "contractor_id", id)
}

// Founders returns all founders.
func (s *Storage) Founders(ctx context.Context) ([]wizard.Reference, error) {
	return s.listReference(ctx, "founders", "founder_id")
}

// FounderByID looks up a single founder.
func (s *Storage) FounderByID(ctx context.Context, id int64) (wizard.Reference, error) {
	return s.referenceByID(ctx, "founders", "founder_id", id)
}

// CreateIncome persists a confirmed income record.
func (s *Storage) CreateIncome(ctx context.Context, rec wizard.IncomeRecord) error {
	start := time.Now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO incomes (
			draft_id, recording_date, operation_date, wallet_id,
			article_id, project_id, creditor_id, founder_id,
			additional_info, amount, comment
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rec.DraftID, rec.RecordingDate, rec.OperationDate, rec.WalletID,
		rec.ArticleID, rec.ProjectID, rec.CreditorID, rec.FounderID,
		rec.AdditionalInfo, rec.Amount, rec.Comment,
	)
	if err != nil {
		return fmt.Errorf("create income: %w", err)
	}
	logger.SVCRecords.Info("income created",
		slog.String("event", "record.create"),
		slog.String("draft_id", rec.DraftID),
		slog.Float64("amount", rec.Amount),
		slog.Duration("duration", logger.Took(start)),
	)
	return nil
}

// CreateOutcome persists a confirmed outcome record.
func (s *Storage) CreateOutcome(ctx context.Context, rec wizard.OutcomeRecord) error {
	start := time.Now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO outcomes (
			draft_id, recording_date, operation_date, wallet_id,
			creditor_id, article_id, chapter, general_type, project_id,
			contractor_id, material_id, employee_id, detail_creditor_id,
			founder_id, amount, saving_coeff, comment
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9,
			$10, $11, $12, $13, $14, $15, $16, $17
		)`,
		rec.DraftID, rec.RecordingDate, rec.OperationDate, rec.WalletID,
		rec.CreditorID, rec.ArticleID, rec.Chapter, rec.GeneralType, rec.ProjectID,
		rec.ContractorID, rec.MaterialID, rec.EmployeeID, rec.DetailCreditor,
		rec.FounderID, rec.Amount, rec.SavingCoeff, rec.Comment,
	)
	if err != nil {
		return fmt.Errorf("create outcome: %w", err)
	}
	logger.SVCRecords.Info("outcome created",
		slog.String("event", "record.create"),
		slog.String("draft_id", rec.DraftID),
		slog.Float64("amount", rec.Amount),
		slog.Duration("duration", logger.Took(start)),
	)
	return nil
}

// CreateTransfer persists a confirmed transfer record.
func (s *Storage) CreateTransfer(ctx context.Context, rec wizard.TransferRecord) error {
	start := time.Now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transfers (
			draft_id, recording_date, operation_date,
			from_wallet_id, to_wallet_id, amount, comment
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.DraftID, rec.RecordingDate, rec.OperationDate,
		rec.FromWalletID, rec.ToWalletID, rec.Amount, rec.Comment,
	)
	if err != nil {
		return fmt.Errorf("create transfer: %w", err)
	}
	logger.SVCRecords.Info("transfer created",
		slog.String("event", "record.create"),
		slog.String("draft_id", rec.DraftID),
		slog.Float64("amount", rec.Amount),
		slog.Duration("duration", logger.Took(start)),
	)
	return nil
}

// Counts reports how many records of each kind are stored. Used by the
// admin stats command.
type Counts struct {
	Incomes   int64 `db:"incomes"`
	Outcomes  int64 `db:"outcomes"`
	Transfers int64 `db:"transfers"`
}

// RecordCounts returns per-kind record totals.
func (s *Storage) RecordCounts(ctx context.Context) (Counts, error) {
	var c Counts
	err := s.db.GetContext(ctx, &c, `
		SELECT
			(SELECT count(*) FROM incomes)   AS incomes,
			(SELECT count(*) FROM outcomes)  AS outcomes,
			(SELECT count(*) FROM transfers) AS transfers`)
	if err != nil {
		return Counts{}, fmt.Errorf("record counts: %w", err)
	}
	return c, nil
}
