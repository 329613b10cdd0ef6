package wizard

import (
	"context"
	"errors"
	"time"
)

// Kind discriminates the three financial operation kinds.
type Kind string

const (
	KindIncome   Kind = "income"
	KindTransfer Kind = "transfer"
	KindOutcome  Kind = "outcome"
)

// ErrNotFound is returned by storage lookups when the referenced entity
// does not exist. Summary rendering falls back to the raw id.
var ErrNotFound = errors.New("not found")

// Wallet is a money store referenced by incomes, outcomes and both ends
// of a transfer. Number is the human-readable account label shown in
// keyboards and summaries.
type Wallet struct {
	ID     string
	Number string
}

// Article classifies an operation. Code drives the wizard's branching
// sub-prompts.
type Article struct {
	ID        int64
	Code      int
	Name      string
	ShortName string
}

// Reference is a named lookup entity (creditor, project, employee,
// material, contractor, founder).
type Reference struct {
	ID   int64
	Name string
}

// IncomeRecord is the persisted shape of a confirmed income draft.
// Optional references are pointers so absent fields stay null.
type IncomeRecord struct {
	DraftID        string
	RecordingDate  time.Time
	OperationDate  time.Time
	WalletID       string
	ArticleID      int64
	ProjectID      *int64
	CreditorID     *int64
	FounderID      *int64
	AdditionalInfo *string
	Amount         float64
	Comment        string
}

// OutcomeRecord is the persisted shape of a confirmed outcome draft.
// Amount is always non-positive; SavingCoeff is set only for drafts
// funded from a creditor.
type OutcomeRecord struct {
	DraftID        string
	RecordingDate  time.Time
	OperationDate  time.Time
	WalletID       *string
	CreditorID     *int64
	ArticleID      int64
	Chapter        string
	GeneralType    *string
	ProjectID      *int64
	ContractorID   *int64
	MaterialID     *int64
	EmployeeID     *int64
	DetailCreditor *int64
	FounderID      *int64
	Amount         float64
	SavingCoeff    *float64
	Comment        string
}

// TransferRecord is the persisted shape of a confirmed transfer draft.
type TransferRecord struct {
	DraftID       string
	RecordingDate time.Time
	OperationDate time.Time
	FromWalletID  string
	ToWalletID    string
	Amount        float64
	Comment       string
}

// Storage is the persistence collaborator consumed by the engine:
// list/lookup for every reference kind plus creation of the three
// record kinds. Create calls may fail with validation errors which the
// finalizer surfaces to the user.
type Storage interface {
	Wallets(ctx context.Context) ([]Wallet, error)
	WalletByID(ctx context.Context, id string) (Wallet, error)

	Articles(ctx context.Context) ([]Article, error)
	ArticleByID(ctx context.Context, id int64) (Article, error)

	Creditors(ctx context.Context) ([]Reference, error)
	CreditorByID(ctx context.Context, id int64) (Reference, error)

	Projects(ctx context.Context) ([]Reference, error)
	ProjectByID(ctx context.Context, id int64) (Reference, error)

	Employees(ctx context.Context) ([]Reference, error)
	EmployeeByID(ctx context.Context, id int64) (Reference, error)

	Materials(ctx context.Context) ([]Reference, error)
	MaterialByID(ctx context.Context, id int64) (Reference, error)

	Contractors(ctx context.Context) ([]Reference, error)
	ContractorByID(ctx context.Context, id int64) (Reference, error)

	Founders(ctx context.Context) ([]Reference, error)
	FounderByID(ctx context.Context, id int64) (Reference, error)

	CreateIncome(ctx context.Context, rec IncomeRecord) error
	CreateOutcome(ctx context.Context, rec OutcomeRecord) error
	CreateTransfer(ctx context.Context, rec TransferRecord) error
}
