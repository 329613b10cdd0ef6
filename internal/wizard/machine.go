package wizard

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/finflow/finflow-bot/core/logger"
)

// Button payloads understood by the engine.
const (
	PayloadBack    = "back"
	PayloadConfirm = "confirm"
	PayloadReject  = "reject"
)

const (
	opDate       = "date"
	opKind       = "kind"
	opWallet     = "wallet"
	opArticle    = "article"
	opProject    = "project"
	opCreditor   = "creditor"
	opFounder    = "founder"
	opContractor = "contractor"
	opMaterial   = "material"
	opEmployee   = "employee"
	opSource     = "src"
	opChapter    = "chapter"
	opGeneral    = "gen"
)

// PayloadOps lists every payload prefix the engine understands. The
// transport layer registers one callback route per entry.
func PayloadOps() []string {
	return []string{
		PayloadBack, PayloadConfirm, PayloadReject,
		opDate, opKind, opWallet, opArticle, opProject, opCreditor,
		opFounder, opContractor, opMaterial, opEmployee,
		opSource, opChapter, opGeneral,
	}
}

const (
	recordingDateLayout = time.RFC3339
	operationDateLayout = "2006-01-02"
)

type handlerFunc func(t *txn) error

type promptFunc func(t *txn) (string, [][]Button, error)

// Config tunes the engine's routing and article filtering. Zero values
// fall back to the production defaults.
type Config struct {
	Routing ArticleRouting
	Codes   Codes
}

// Engine drives the operation wizard: it matches inbound events against
// the transition legal for the session's current state, applies the
// resulting patch and renders the next prompt. All dispatch tables are
// built at construction and passed by reference, never shared globals.
type Engine struct {
	store     *Store
	storage   Storage
	transport Transport
	routing   ArticleRouting
	codes     Codes

	handlers map[State]handlerFunc
	prompts  map[State]promptFunc

	now   func() time.Time
	newID func() string
}

// NewEngine wires the engine and validates the article routing table
// for totality over the whole code space.
func NewEngine(store *Store, storage Storage, transport Transport, cfg Config) (*Engine, error) {
	routing := cfg.Routing
	if routing.Income == nil && routing.Outcome == nil {
		routing = DefaultArticleRouting()
	}
	if err := routing.Validate(); err != nil {
		return nil, fmt.Errorf("article routing: %w", err)
	}
	codes := cfg.Codes
	if codes.Income == nil && codes.ProjectOutcome == nil {
		codes = DefaultCodes()
	}

	e := &Engine{
		store:     store,
		storage:   storage,
		transport: transport,
		routing:   routing,
		codes:     codes,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	e.handlers = map[State]handlerFunc{
		StateChoosingDate: e.handleDate,
		StateChoosingType: e.handleType,

		StateChoosingIncomeWallet:         e.handleIncomeWallet,
		StateChoosingIncomeArticle:        e.handleIncomeArticle,
		StateChoosingIncomeProject:        e.handleIncomeProject,
		StateChoosingIncomeCreditor:       e.handleIncomeCreditor,
		StateChoosingIncomeFounder:        e.handleIncomeFounder,
		StateEnteringIncomeAdditionalInfo: e.handleIncomeAdditionalInfo,

		StateChoosingFromWallet: e.handleFromWallet,
		StateChoosingToWallet:   e.handleToWallet,

		StateChoosingOutcomeSource:      e.handleOutcomeSource,
		StateChoosingOutcomeWallet:      e.handleOutcomeWallet,
		StateChoosingOutcomeCreditor:    e.handleOutcomeCreditor,
		StateChoosingOutcomeChapter:     e.handleOutcomeChapter,
		StateChoosingOutcomeProject:     e.handleOutcomeProject,
		StateChoosingOutcomeGeneralType: e.handleOutcomeGeneralType,
		StateChoosingOutcomeArticle:     e.handleOutcomeArticle,
		StateEnteringOutcomeDetails:     e.handleOutcomeDetails,

		StateEnteringAmount:      e.handleAmount,
		StateEnteringSavingCoeff: e.handleSavingCoeff,
		StateEnteringComment:     e.handleComment,
		StateConfirming:          e.handleConfirming,
	}
	e.prompts = map[State]promptFunc{
		StateChoosingDate: e.promptDate,
		StateChoosingType: e.promptType,

		StateChoosingIncomeWallet:         e.promptIncomeWallet,
		StateChoosingIncomeArticle:        e.promptIncomeArticle,
		StateChoosingIncomeProject:        e.promptProjects,
		StateChoosingIncomeCreditor:       e.promptCreditors,
		StateChoosingIncomeFounder:        e.promptFounders,
		StateEnteringIncomeAdditionalInfo: e.promptAdditionalInfo,

		StateChoosingFromWallet: e.promptFromWallet,
		StateChoosingToWallet:   e.promptToWallet,

		StateChoosingOutcomeSource:      e.promptOutcomeSource,
		StateChoosingOutcomeWallet:      e.promptOutcomeWallet,
		StateChoosingOutcomeCreditor:    e.promptCreditors,
		StateChoosingOutcomeChapter:     e.promptOutcomeChapter,
		StateChoosingOutcomeProject:     e.promptProjects,
		StateChoosingOutcomeGeneralType: e.promptOutcomeGeneralType,
		StateChoosingOutcomeArticle:     e.promptOutcomeArticle,
		StateEnteringOutcomeDetails:     e.promptOutcomeDetails,

		StateEnteringAmount:      e.promptAmount,
		StateEnteringSavingCoeff: e.promptSavingCoeff,
		StateEnteringComment:     e.promptComment,
		StateConfirming:          e.promptConfirm,
	}
	return e, nil
}

// Store exposes the session store for routers that gate on dialogue
// progress.
func (e *Engine) Store() *Store { return e.store }

// Handle routes one inbound event into the transition registered for
// the session's current state. Events for the same user are serialized
// by the store's per-session lock.
func (e *Engine) Handle(ctx context.Context, ev Event) error {
	return e.store.With(ev.UserID, func(s *Session) error {
		s.ChatID = ev.ChatID
		t := &txn{e: e, ctx: ctx, s: s, ev: ev}
		if ev.Kind == EventText {
			t.trackTransient(ev.MessageID)
		}
		if ev.Kind == EventButton && ev.Payload == PayloadBack {
			return e.handleBack(t)
		}
		h, ok := e.handlers[s.State]
		if !ok {
			return t.notice("No operation in progress. Send /start_operation to begin.")
		}
		if err := h(t); err != nil {
			return err
		}
		return t.commit()
	})
}

// StartOperation resets the user's session and opens the wizard at the
// date step. Any messages left over from a previous run are removed.
func (e *Engine) StartOperation(ctx context.Context, userID, chatID int64) error {
	return e.store.With(userID, func(s *Session) error {
		s.ChatID = chatID
		t := &txn{e: e, ctx: ctx, s: s}
		t.flushTransients(nil)
		t.purgeKeys(nil)
		s.Reset()

		s.Data[KeyDraftID] = e.newID()
		s.Data[KeyRecordingDate] = e.now().UTC().Format(recordingDateLayout)
		s.State = StateChoosingDate

		logger.Info(ctx, "wizard", "operation.start",
			slog.Int64("user_id", userID),
			slog.String("draft_id", s.GetString(KeyDraftID)),
		)
		return t.showPrompt(StateChoosingDate)
	})
}

// CancelOperation discards the draft, removes every tracked message and
// returns the session to idle.
func (e *Engine) CancelOperation(ctx context.Context, userID, chatID int64) error {
	return e.store.With(userID, func(s *Session) error {
		s.ChatID = chatID
		t := &txn{e: e, ctx: ctx, s: s}
		t.flushTransients(nil)
		t.purgeKeys(nil)
		s.Reset()

		logger.Info(ctx, "wizard", "operation.cancel",
			slog.Int64("user_id", userID),
		)
		_, err := e.transport.Send(ctx, chatID, "Operation cancelled. Send /start_operation to begin a new one.", nil)
		return err
	})
}

// InProgress reports whether the user has an active wizard dialogue.
func (e *Engine) InProgress(userID int64) bool {
	return e.store.Peek(userID) != StateIdle
}

func errNoPrompt(state State) error {
	return fmt.Errorf("no prompt builder for state %q", state)
}

func splitPayload(p string) (op, arg string) {
	if i := strings.IndexByte(p, ':'); i >= 0 {
		return p[:i], p[i+1:]
	}
	return p, ""
}

// payloadID extracts the numeric argument of a button payload expected
// to carry the given operation prefix.
func payloadID(t *txn, wantOp string) (int64, bool) {
	if t.ev.Kind != EventButton {
		return 0, false
	}
	op, arg := splitPayload(t.ev.Payload)
	if op != wantOp {
		return 0, false
	}
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func payloadArg(t *txn, wantOp string) (string, bool) {
	if t.ev.Kind != EventButton {
		return "", false
	}
	op, arg := splitPayload(t.ev.Payload)
	if op != wantOp {
		return "", false
	}
	return arg, true
}

func (e *Engine) handleDate(t *txn) error {
	var date time.Time
	switch t.ev.Kind {
	case EventButton:
		arg, ok := payloadArg(t, opDate)
		if !ok {
			return t.reprompt("Please pick a date.")
		}
		switch arg {
		case "today":
			date = e.now()
		case "yesterday":
			date = e.now().AddDate(0, 0, -1)
		default:
			return t.reprompt("Please pick a date.")
		}
	case EventText:
		parsed, err := ParseOperationDate(t.ev.Payload)
		if err != nil {
			return t.reprompt("Could not read that date. Use dd.mm.yyyy.")
		}
		date = parsed
	}
	if date.IsZero() {
		return t.reprompt("Please pick a date.")
	}
	t.stage(KeyOperationDate, date.Format(operationDateLayout))
	t.advance(StateChoosingType)
	return nil
}

func (e *Engine) handleType(t *txn) error {
	arg, ok := payloadArg(t, opKind)
	if !ok {
		return t.reprompt("Please choose the operation type.")
	}
	switch Kind(arg) {
	case KindIncome:
		t.stage(KeyOperationKind, arg)
		t.advance(StateChoosingIncomeWallet)
	case KindTransfer:
		t.stage(KeyOperationKind, arg)
		t.advance(StateChoosingFromWallet)
	case KindOutcome:
		t.stage(KeyOperationKind, arg)
		t.advance(StateChoosingOutcomeSource)
	default:
		return fmt.Errorf("unknown operation kind %q", arg)
	}
	return nil
}

func (e *Engine) handleIncomeWallet(t *txn) error {
	arg, ok := payloadArg(t, opWallet)
	if !ok {
		return t.reprompt("Please choose a wallet.")
	}
	t.stage(KeyWalletID, arg)
	t.advance(StateChoosingIncomeArticle)
	return nil
}

func (e *Engine) handleIncomeArticle(t *txn) error {
	id, ok := payloadID(t, opArticle)
	if !ok {
		return t.reprompt("Please choose an article.")
	}
	article, err := e.storage.ArticleByID(t.ctx, id)
	if err != nil {
		return fmt.Errorf("article %d: %w", id, err)
	}
	target, err := e.routing.ResolveIncome(article.Code)
	if err != nil {
		return err
	}
	t.stage(KeyArticleID, article.ID)
	t.stage(KeyArticleCode, article.Code)
	switch target {
	case TargetProject:
		t.advance(StateChoosingIncomeProject)
	case TargetCreditor:
		t.advance(StateChoosingIncomeCreditor)
	case TargetFounder:
		t.advance(StateChoosingIncomeFounder)
	case TargetAdditionalInfo:
		t.advance(StateEnteringIncomeAdditionalInfo)
	case TargetAmount:
		t.advance(StateEnteringAmount)
	default:
		return fmt.Errorf("income article code %d routed to %q", article.Code, target)
	}
	return nil
}

func (e *Engine) handleIncomeProject(t *txn) error {
	id, ok := payloadID(t, opProject)
	if !ok {
		return t.reprompt("Please choose a project.")
	}
	t.stage(KeyProjectID, id)
	t.advance(StateEnteringAmount)
	return nil
}

func (e *Engine) handleIncomeCreditor(t *txn) error {
	id, ok := payloadID(t, opCreditor)
	if !ok {
		return t.reprompt("Please choose a creditor.")
	}
	t.stage(KeyCreditorID, id)
	t.advance(StateEnteringAmount)
	return nil
}

func (e *Engine) handleIncomeFounder(t *txn) error {
	id, ok := payloadID(t, opFounder)
	if !ok {
		return t.reprompt("Please choose a founder.")
	}
	t.stage(KeyFounderID, id)
	t.advance(StateEnteringAmount)
	return nil
}

func (e *Engine) handleIncomeAdditionalInfo(t *txn) error {
	if t.ev.Kind != EventText || strings.TrimSpace(t.ev.Payload) == "" {
		return t.reprompt("Please send the additional details as text.")
	}
	t.stage(KeyAdditionalInfo, strings.TrimSpace(t.ev.Payload))
	t.advance(StateEnteringAmount)
	return nil
}

func (e *Engine) handleFromWallet(t *txn) error {
	arg, ok := payloadArg(t, opWallet)
	if !ok {
		return t.reprompt("Please choose the source wallet.")
	}
	t.stage(KeyFromWalletID, arg)
	t.advance(StateChoosingToWallet)
	return nil
}

func (e *Engine) handleToWallet(t *txn) error {
	arg, ok := payloadArg(t, opWallet)
	if !ok {
		return t.reprompt("Please choose the destination wallet.")
	}
	// The keyboard never offers the source wallet; reject anyway in
	// case of a stale button press.
	if arg == t.s.GetString(KeyFromWalletID) {
		return t.reprompt("Source and destination wallets must differ.")
	}
	t.stage(KeyToWalletID, arg)
	t.advance(StateEnteringAmount)
	return nil
}

func (e *Engine) handleOutcomeSource(t *txn) error {
	arg, ok := payloadArg(t, opSource)
	if !ok {
		return t.reprompt("Please choose where the money comes from.")
	}
	switch arg {
	case SourceWallet:
		t.stage(KeyOutcomeSource, arg)
		t.advance(StateChoosingOutcomeWallet)
	case SourceCreditor:
		t.stage(KeyOutcomeSource, arg)
		t.advance(StateChoosingOutcomeCreditor)
	default:
		return fmt.Errorf("unknown outcome source %q", arg)
	}
	return nil
}

func (e *Engine) handleOutcomeWallet(t *txn) error {
	arg, ok := payloadArg(t, opWallet)
	if !ok {
		return t.reprompt("Please choose a wallet.")
	}
	t.stage(KeyWalletID, arg)
	t.advance(StateChoosingOutcomeChapter)
	return nil
}

func (e *Engine) handleOutcomeCreditor(t *txn) error {
	id, ok := payloadID(t, opCreditor)
	if !ok {
		return t.reprompt("Please choose a creditor.")
	}
	t.stage(KeySourceCreditorID, id)
	t.advance(StateChoosingOutcomeChapter)
	return nil
}

func (e *Engine) handleOutcomeChapter(t *txn) error {
	arg, ok := payloadArg(t, opChapter)
	if !ok {
		return t.reprompt("Please choose a chapter.")
	}
	switch arg {
	case ChapterProject:
		t.stage(KeyChapter, arg)
		t.advance(StateChoosingOutcomeProject)
	case ChapterGeneral:
		t.stage(KeyChapter, arg)
		t.advance(StateChoosingOutcomeGeneralType)
	default:
		return fmt.Errorf("unknown outcome chapter %q", arg)
	}
	return nil
}

func (e *Engine) handleOutcomeProject(t *txn) error {
	id, ok := payloadID(t, opProject)
	if !ok {
		return t.reprompt("Please choose a project.")
	}
	t.stage(KeyProjectID, id)
	t.advance(StateChoosingOutcomeArticle)
	return nil
}

func (e *Engine) handleOutcomeGeneralType(t *txn) error {
	arg, ok := payloadArg(t, opGeneral)
	if !ok {
		return t.reprompt("Please choose the expense type.")
	}
	switch arg {
	case GeneralTypeFinance, GeneralTypePayroll:
		t.stage(KeyGeneralType, arg)
		t.advance(StateChoosingOutcomeArticle)
	default:
		return fmt.Errorf("unknown general type %q", arg)
	}
	return nil
}

func (e *Engine) handleOutcomeArticle(t *txn) error {
	id, ok := payloadID(t, opArticle)
	if !ok {
		return t.reprompt("Please choose an article.")
	}
	article, err := e.storage.ArticleByID(t.ctx, id)
	if err != nil {
		return fmt.Errorf("article %d: %w", id, err)
	}
	target, err := e.routing.ResolveOutcome(article.Code)
	if err != nil {
		return err
	}
	t.stage(KeyArticleID, article.ID)
	t.stage(KeyArticleCode, article.Code)
	if target == TargetAmount {
		t.advance(StateEnteringAmount)
		return nil
	}
	t.stage(KeyDetailKind, string(target))
	t.advance(StateEnteringOutcomeDetails)
	return nil
}

func (e *Engine) handleOutcomeDetails(t *txn) error {
	kind := t.s.GetString(KeyDetailKind)
	// The staged detail kind is applied before this state is entered,
	// so it is read from the session, not the patch.
	var key string
	switch RouteTarget(kind) {
	case TargetContractor:
		key = KeyContractorID
	case TargetMaterial:
		key = KeyMaterialID
	case TargetEmployee:
		key = KeyEmployeeID
	case TargetCreditor:
		key = KeyCreditorID
	case TargetFounder:
		key = KeyFounderID
	default:
		return fmt.Errorf("unknown outcome detail kind %q", kind)
	}
	id, ok := payloadID(t, kind)
	if !ok {
		return t.reprompt("Please choose an option from the list.")
	}
	t.stage(key, id)
	t.advance(StateEnteringAmount)
	return nil
}

func (e *Engine) handleAmount(t *txn) error {
	if t.ev.Kind != EventText {
		return t.reprompt("Please send the amount as text.")
	}
	amount, err := ParseAmount(t.ev.Payload)
	if err != nil {
		return t.reprompt("Could not read that amount. Send a number like 10 000,50.")
	}
	t.stage(KeyAmount, amount)
	if Kind(t.s.GetString(KeyOperationKind)) == KindOutcome &&
		t.s.GetString(KeyOutcomeSource) == SourceCreditor {
		t.advance(StateEnteringSavingCoeff)
		return nil
	}
	t.advance(StateEnteringComment)
	return nil
}

func (e *Engine) handleSavingCoeff(t *txn) error {
	if t.ev.Kind != EventText {
		return t.reprompt("Please send the coefficient as text.")
	}
	coeff, err := ParseSavingCoeff(t.ev.Payload)
	if err != nil {
		return t.reprompt("The saving coefficient must be a number between 0 and 1.")
	}
	t.stage(KeySavingCoeff, coeff)
	t.advance(StateEnteringComment)
	return nil
}

func (e *Engine) handleComment(t *txn) error {
	if t.ev.Kind != EventText || strings.TrimSpace(t.ev.Payload) == "" {
		return t.reprompt("Please send a comment, or \"-\" to leave it empty.")
	}
	t.stage(KeyComment, NormalizeComment(t.ev.Payload))
	t.advance(StateConfirming)
	return nil
}

func (e *Engine) handleConfirming(t *txn) error {
	if t.ev.Kind != EventButton {
		return t.reprompt("Please confirm or reject the operation.")
	}
	switch t.ev.Payload {
	case PayloadConfirm:
		return e.finalizeConfirm(t)
	case PayloadReject:
		return e.finalizeReject(t)
	default:
		return t.reprompt("Please confirm or reject the operation.")
	}
}
