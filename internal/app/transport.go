package app

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync/atomic"

	tele "gopkg.in/telebot.v4"

	"github.com/finflow/finflow-bot/core/telegram/keyboard"
	"github.com/finflow/finflow-bot/internal/wizard"
)

// teleTransport adapts a telebot bot to the wizard's transport contract.
// The bot instance only exists once the runtime is built, so it is bound
// from the OnStart hook.
type teleTransport struct {
	bot atomic.Pointer[tele.Bot]
}

var errBotNotBound = errors.New("telegram bot not bound")

func (t *teleTransport) Bind(b *tele.Bot) {
	t.bot.Store(b)
}

func (t *teleTransport) client() (*tele.Bot, error) {
	b := t.bot.Load()
	if b == nil {
		return nil, errBotNotBound
	}
	return b, nil
}

// markup converts wizard keyboard rows into telebot inline buttons. The
// payload prefix before the first colon becomes the callback unique so
// the callback router can dispatch on it.
func markup(rows [][]wizard.Button) *tele.ReplyMarkup {
	if len(rows) == 0 {
		return nil
	}
	out := make([][]keyboard.InlineBtn, 0, len(rows))
	for _, row := range rows {
		r := make([]keyboard.InlineBtn, 0, len(row))
		for _, b := range row {
			unique, data, _ := strings.Cut(b.Data, ":")
			r = append(r, keyboard.InlineBtn{Text: b.Text, Unique: unique, Data: data})
		}
		out = append(out, r)
	}
	return keyboard.InlineButtonsRows(out...)
}

func (t *teleTransport) Send(ctx context.Context, chat int64, text string, rows [][]wizard.Button) (int, error) {
	bot, err := t.client()
	if err != nil {
		return 0, err
	}
	var msg *tele.Message
	if rm := markup(rows); rm != nil {
		msg, err = bot.Send(tele.ChatID(chat), text, rm)
	} else {
		msg, err = bot.Send(tele.ChatID(chat), text)
	}
	if err != nil {
		return 0, mapAPIError(err)
	}
	return msg.ID, nil
}

func (t *teleTransport) Edit(ctx context.Context, chat int64, messageID int, text string, rows [][]wizard.Button) error {
	bot, err := t.client()
	if err != nil {
		return err
	}
	target := &tele.StoredMessage{MessageID: strconv.Itoa(messageID), ChatID: chat}
	if rm := markup(rows); rm != nil {
		_, err = bot.Edit(target, text, rm)
	} else {
		_, err = bot.Edit(target, text)
	}
	return mapAPIError(err)
}

func (t *teleTransport) Delete(ctx context.Context, chat int64, messageID int) error {
	bot, err := t.client()
	if err != nil {
		return err
	}
	target := &tele.StoredMessage{MessageID: strconv.Itoa(messageID), ChatID: chat}
	return mapAPIError(bot.Delete(target))
}

// mapAPIError translates Telegram API failures into the wizard's
// transport sentinels. The API reports these conditions only through
// the error description text.
func mapAPIError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *tele.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	desc := strings.ToLower(apiErr.Description)
	switch {
	case strings.Contains(desc, "message is not modified"):
		return wizard.ErrNotModified
	case strings.Contains(desc, "message to edit not found"),
		strings.Contains(desc, "message can't be edited"):
		return wizard.ErrMessageNotFound
	case strings.Contains(desc, "message to delete not found"),
		strings.Contains(desc, "message can't be deleted"):
		return wizard.ErrMessageGone
	}
	return err
}
