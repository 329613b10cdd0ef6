package wizard

import (
	"context"
	"errors"
	"log/slog"

	"github.com/finflow/finflow-bot/core/logger"
)

// stateRoles maps each state to the prompt role it renders. Successive
// sub-steps of one logical choice share a role so the prompt morphs in
// place instead of stacking messages.
var stateRoles = map[State]Role{
	StateChoosingDate: RoleDate,
	StateChoosingType: RoleType,

	StateChoosingIncomeWallet:         RoleWallet,
	StateChoosingIncomeArticle:        RoleArticle,
	StateChoosingIncomeProject:        RoleDetail,
	StateChoosingIncomeCreditor:       RoleDetail,
	StateChoosingIncomeFounder:        RoleDetail,
	StateEnteringIncomeAdditionalInfo: RoleDetail,

	StateChoosingFromWallet: RoleWallet,
	StateChoosingToWallet:   RoleWallet,

	StateChoosingOutcomeSource:      RoleSource,
	StateChoosingOutcomeWallet:      RoleWallet,
	StateChoosingOutcomeCreditor:    RoleWallet,
	StateChoosingOutcomeChapter:     RoleChapter,
	StateChoosingOutcomeProject:     RoleChapter,
	StateChoosingOutcomeGeneralType: RoleChapter,
	StateChoosingOutcomeArticle:     RoleArticle,
	StateEnteringOutcomeDetails:     RoleDetail,

	StateEnteringAmount:      RoleAmount,
	StateEnteringSavingCoeff: RoleCoeff,
	StateEnteringComment:     RoleComment,
	StateConfirming:          RoleConfirm,
}

// txn carries one inbound event through validation, patch application
// and rendering. Handlers stage draft mutations on the patch; nothing
// touches the session until commit, so a validation failure leaves the
// session exactly as it was.
type txn struct {
	e   *Engine
	ctx context.Context
	s   *Session
	ev  Event

	set   map[string]any
	next  State
	moved bool
}

func (t *txn) stage(key string, value any) {
	if t.set == nil {
		t.set = make(map[string]any)
	}
	t.set[key] = value
}

// advance marks the transition target. The actual history push, data
// write and prompt render happen in commit.
func (t *txn) advance(next State) {
	t.next = next
	t.moved = true
}

func (t *txn) commit() error {
	if !t.moved {
		return nil
	}
	leaving := t.s.State
	for k, v := range t.set {
		t.s.Data[k] = v
	}
	t.s.History = append(t.s.History, leaving)
	t.s.State = t.next

	t.flushTransients(nil)
	if t.next == StateConfirming {
		// Final step: prior prompts are cleared so only the date
		// prompt and the confirmation survive on screen.
		t.purgeKeys(map[Role]struct{}{RoleDate: {}})
	}

	logger.Debug(t.ctx, "wizard", "fsm.transition",
		slog.Int64("user_id", t.s.UserID),
		slog.String("from", string(leaving)),
		slog.String("to", string(t.next)),
	)
	return t.showPrompt(t.next)
}

// trackTransient records a disposable message id for batch deletion at
// the next step boundary.
func (t *txn) trackTransient(messageID int) {
	if messageID == 0 {
		return
	}
	t.s.Transients = append(t.s.Transients, messageID)
}

// flushTransients deletes every tracked transient message except those
// listed in keep. Delete failures are logged and ignored.
func (t *txn) flushTransients(keep map[int]struct{}) {
	if len(t.s.Transients) == 0 {
		return
	}
	remaining := t.s.Transients[:0]
	for _, id := range t.s.Transients {
		if _, ok := keep[id]; ok {
			remaining = append(remaining, id)
			continue
		}
		t.deleteMessage(id)
	}
	t.s.Transients = remaining
}

// purgeKeys deletes registered key messages whose role is not in keep.
func (t *txn) purgeKeys(keep map[Role]struct{}) {
	for role, id := range t.s.Registry {
		if _, ok := keep[role]; ok {
			continue
		}
		t.deleteMessage(id)
		delete(t.s.Registry, role)
	}
}

func (t *txn) deleteMessage(id int) {
	err := t.e.transport.Delete(t.ctx, t.s.ChatID, id)
	if err != nil && !errors.Is(err, ErrMessageGone) {
		logger.Warn(t.ctx, "wizard", "msg.delete_failed",
			slog.Int64("user_id", t.s.UserID),
			slog.Int("message_id", id),
			slog.String("error", err.Error()),
		)
	}
}

// showPrompt renders the prompt for a state through its builder and
// places it into the key-message slot for the state's role.
func (t *txn) showPrompt(state State) error {
	build, ok := t.e.prompts[state]
	if !ok {
		return errNoPrompt(state)
	}
	text, keyboard, err := build(t)
	if err != nil {
		return err
	}
	return t.showKey(stateRoles[state], text, keyboard)
}

// showKey edits the live message for role in place; when the message is
// gone it sends a replacement and re-registers the new id.
func (t *txn) showKey(role Role, text string, keyboard [][]Button) error {
	if id, ok := t.s.Registry[role]; ok {
		err := t.e.transport.Edit(t.ctx, t.s.ChatID, id, text, keyboard)
		switch {
		case err == nil, errors.Is(err, ErrNotModified):
			return nil
		case errors.Is(err, ErrMessageNotFound):
			// fall through to resend
		default:
			logger.Warn(t.ctx, "wizard", "msg.edit_failed",
				slog.Int64("user_id", t.s.UserID),
				slog.String("role", string(role)),
				slog.String("error", err.Error()),
			)
			return nil
		}
	}
	id, err := t.e.transport.Send(t.ctx, t.s.ChatID, text, keyboard)
	if err != nil {
		return err
	}
	t.s.Registry[role] = id
	return nil
}

// reprompt re-renders the current state's prompt prefixed with an error
// notice. The draft and the history stay untouched.
func (t *txn) reprompt(notice string) error {
	build, ok := t.e.prompts[t.s.State]
	if !ok {
		return errNoPrompt(t.s.State)
	}
	text, keyboard, err := build(t)
	if err != nil {
		return err
	}
	return t.showKey(stateRoles[t.s.State], notice+"\n\n"+text, keyboard)
}

// notice sends a short standalone message tracked as transient so the
// next completed step sweeps it away.
func (t *txn) notice(text string) error {
	id, err := t.e.transport.Send(t.ctx, t.s.ChatID, text, nil)
	if err != nil {
		return err
	}
	t.trackTransient(id)
	return nil
}
