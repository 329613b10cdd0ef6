package app

import (
	"errors"
	"testing"

	tele "gopkg.in/telebot.v4"

	"github.com/finflow/finflow-bot/internal/wizard"
)

func TestMarkupSplitsPayloadIntoUniqueAndData(t *testing.T) {
	rows := [][]wizard.Button{
		{{Text: "Wallet 1", Data: "wallet:w1"}, {Text: "Wallet 2", Data: "wallet:w2"}},
		{{Text: "← Back", Data: "back"}},
	}

	rm := markup(rows)
	if rm == nil {
		t.Fatal("expected markup, got nil")
	}
	if len(rm.InlineKeyboard) != 2 {
		t.Fatalf("rows = %d, want 2", len(rm.InlineKeyboard))
	}

	first := rm.InlineKeyboard[0][0]
	if first.Unique != "wallet" || first.Data != "w1" {
		t.Errorf("first button = %q/%q, want wallet/w1", first.Unique, first.Data)
	}
	back := rm.InlineKeyboard[1][0]
	if back.Unique != "back" || back.Data != "" {
		t.Errorf("back button = %q/%q, want back/empty", back.Unique, back.Data)
	}
}

func TestMarkupEmptyRowsYieldNil(t *testing.T) {
	if rm := markup(nil); rm != nil {
		t.Errorf("markup(nil) = %v, want nil", rm)
	}
}

func TestMapAPIError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{
			name: "not modified",
			in:   &tele.Error{Code: 400, Description: "Bad Request: message is not modified"},
			want: wizard.ErrNotModified,
		},
		{
			name: "edit target gone",
			in:   &tele.Error{Code: 400, Description: "Bad Request: message to edit not found"},
			want: wizard.ErrMessageNotFound,
		},
		{
			name: "cannot edit",
			in:   &tele.Error{Code: 400, Description: "Bad Request: message can't be edited"},
			want: wizard.ErrMessageNotFound,
		},
		{
			name: "delete target gone",
			in:   &tele.Error{Code: 400, Description: "Bad Request: message to delete not found"},
			want: wizard.ErrMessageGone,
		},
		{name: "nil", in: nil, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapAPIError(tt.in)
			if !errors.Is(got, tt.want) && got != tt.want {
				t.Errorf("mapAPIError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMapAPIErrorPassesThroughUnknown(t *testing.T) {
	in := &tele.Error{Code: 403, Description: "Forbidden: bot was blocked by the user"}
	if got := mapAPIError(in); got != in {
		t.Errorf("mapAPIError() = %v, want original error", got)
	}
	plain := errors.New("dial timeout")
	if got := mapAPIError(plain); got != plain {
		t.Errorf("mapAPIError() = %v, want original error", got)
	}
}
