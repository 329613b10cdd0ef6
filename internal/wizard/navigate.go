package wizard

import (
	"log/slog"

	"github.com/finflow/finflow-bot/core/logger"
)

// handleBack rewinds the wizard one step: pop the history, clear the
// fields owned by the state being left and re-render the prior prompt
// with the same builder forward entry uses. Back is a true inverse of
// the forward mutation, not a display-only rewind.
func (e *Engine) handleBack(t *txn) error {
	s := t.s
	if len(s.History) == 0 {
		return t.notice("Nothing to go back to.")
	}

	leaving := s.State
	prev := s.History[len(s.History)-1]
	s.History = s.History[:len(s.History)-1]

	t.flushTransients(nil)

	// Keep the always-visible prompts plus the message the target
	// state will edit in place.
	keep := make(map[Role]struct{}, len(backSurvivors)+1)
	for role := range backSurvivors {
		keep[role] = struct{}{}
	}
	if role, ok := stateRoles[prev]; ok {
		keep[role] = struct{}{}
	}
	t.purgeKeys(keep)

	// Clearing both the left state's fields and the re-entered
	// state's fields makes a back step an exact inverse: the prompt
	// being shown again never carries a stale answer.
	for _, key := range clearedFields[leaving] {
		delete(s.Data, key)
	}
	for _, key := range clearedFields[prev] {
		delete(s.Data, key)
	}
	s.State = prev

	logger.Debug(t.ctx, "wizard", "fsm.back",
		slog.Int64("user_id", s.UserID),
		slog.String("from", string(leaving)),
		slog.String("to", string(prev)),
	)
	return t.showPrompt(prev)
}
