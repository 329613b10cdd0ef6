package app

import (
	"fmt"

	tele "gopkg.in/telebot.v4"

	tg "github.com/finflow/finflow-bot/core/telegram"
	"github.com/finflow/finflow-bot/core/telegram/callbacks"
	"github.com/finflow/finflow-bot/core/telegram/commands"
	tghelpers "github.com/finflow/finflow-bot/core/telegram/helpers"
	"github.com/finflow/finflow-bot/core/telegram/router"
	"github.com/finflow/finflow-bot/internal/wizard"
)

const greeting = `Welcome to the finance tracker.

/start_operation — record an income, transfer or outcome
/cancel_operation — discard the operation in progress`

func (a *App) registerCommands(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Description: "Show usage",
		Handler: func(c tele.Context) error {
			return tghelpers.SendText(c, greeting)
		},
	})

	reg.RegisterCommand("/start_operation", commands.Command{
		Description: "Record a new operation",
		Handler: func(c tele.Context) error {
			ctx := tghelpers.BuildContext(c)
			return a.engine.StartOperation(ctx, c.Sender().ID, c.Chat().ID)
		},
	})

	reg.RegisterCommand("/cancel_operation", commands.Command{
		Description: "Discard the operation in progress",
		Handler: func(c tele.Context) error {
			ctx := tghelpers.BuildContext(c)
			return a.engine.CancelOperation(ctx, c.Sender().ID, c.Chat().ID)
		},
	})

	reg.RegisterCommand("/stats", commands.Command{
		Description: "Stored record totals",
		AdminOnly:   true,
		Hidden:      true,
		Handler:     a.statsHandler,
	})
}

// registerCallbacks binds one callback route per wizard payload prefix.
// Every press is rebuilt into the engine's payload form and dispatched
// as a button event.
func (a *App) registerCallbacks(reg *tg.Registry) error {
	for _, op := range wizard.PayloadOps() {
		err := reg.RegisterCallback(op, func(c tele.Context) error {
			payload := op
			if arg := callbacks.CallbackPayload(c); arg != "" {
				payload = op + ":" + arg
			}
			ev := wizard.Event{
				UserID:  c.Sender().ID,
				ChatID:  c.Chat().ID,
				Kind:    wizard.EventButton,
				Payload: payload,
			}
			if msg := c.Message(); msg != nil {
				ev.MessageID = msg.ID
			}
			return a.engine.Handle(tghelpers.BuildContext(c), ev)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (a *App) statsHandler(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	counts, err := a.records.RecordCounts(ctx)
	if err != nil {
		return tghelpers.SendText(c, "Stats are unavailable right now.")
	}
	return tghelpers.SendText(c, fmt.Sprintf(
		"Incomes: %d\nOutcomes: %d\nTransfers: %d",
		counts.Incomes, counts.Outcomes, counts.Transfers,
	))
}

func (a *App) idleHint(c tele.Context) error {
	return tghelpers.SendText(c, "No operation in progress. Send /start_operation to begin.")
}

// wizardFSM feeds free-text updates into the engine while a dialogue is
// active.
type wizardFSM struct {
	engine *wizard.Engine
}

func (a *App) fsm() router.FSM {
	return &wizardFSM{engine: a.engine}
}

func (f *wizardFSM) InProgress(userID int64) bool {
	return f.engine.InProgress(userID)
}

func (f *wizardFSM) ManagerHandler(c tele.Context) error {
	ev := wizard.Event{
		UserID:  c.Sender().ID,
		ChatID:  c.Chat().ID,
		Kind:    wizard.EventText,
		Payload: c.Text(),
	}
	if msg := c.Message(); msg != nil {
		ev.MessageID = msg.ID
	}
	return f.engine.Handle(tghelpers.BuildContext(c), ev)
}
