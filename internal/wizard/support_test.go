package wizard

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"
)

type sentMessage struct {
	Chat     int64
	ID       int
	Text     string
	Keyboard [][]Button
}

// fakeTransport records sends and keeps live messages so edits and
// deletes behave like the real platform: editing a deleted message
// fails with ErrMessageNotFound, deleting twice with ErrMessageGone.
type fakeTransport struct {
	nextID  int
	live    map[int]*sentMessage
	deleted []int
	sends   int
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{live: make(map[int]*sentMessage)}
}

func (f *fakeTransport) Send(_ context.Context, chat int64, text string, kb [][]Button) (int, error) {
	f.nextID++
	f.sends++
	f.live[f.nextID] = &sentMessage{Chat: chat, ID: f.nextID, Text: text, Keyboard: kb}
	return f.nextID, nil
}

func (f *fakeTransport) Edit(_ context.Context, _ int64, id int, text string, kb [][]Button) error {
	msg, ok := f.live[id]
	if !ok {
		return ErrMessageNotFound
	}
	if msg.Text == text {
		return ErrNotModified
	}
	msg.Text = text
	msg.Keyboard = kb
	return nil
}

func (f *fakeTransport) Delete(_ context.Context, _ int64, id int) error {
	if _, ok := f.live[id]; !ok {
		return ErrMessageGone
	}
	delete(f.live, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeTransport) message(id int) *sentMessage {
	return f.live[id]
}

// fakeStorage serves articles with ID equal to code for every code in
// 1..MaxArticleCode plus small fixed reference lists, and captures
// created records.
type fakeStorage struct {
	wallets []Wallet

	incomes   []IncomeRecord
	outcomes  []OutcomeRecord
	transfers []TransferRecord

	createErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		wallets: []Wallet{
			{ID: "w1", Number: "Main account"},
			{ID: "w2", Number: "Cash desk"},
			{ID: "w3", Number: "Reserve"},
		},
	}
}

func (f *fakeStorage) Wallets(context.Context) ([]Wallet, error) {
	return f.wallets, nil
}

func (f *fakeStorage) WalletByID(_ context.Context, id string) (Wallet, error) {
	for _, w := range f.wallets {
		if w.ID == id {
			return w, nil
		}
	}
	return Wallet{}, ErrNotFound
}

func (f *fakeStorage) Articles(context.Context) ([]Article, error) {
	articles := make([]Article, 0, MaxArticleCode)
	for code := 1; code <= MaxArticleCode; code++ {
		articles = append(articles, Article{
			ID:        int64(code),
			Code:      code,
			Name:      fmt.Sprintf("Article %d", code),
			ShortName: fmt.Sprintf("A%d", code),
		})
	}
	return articles, nil
}

func (f *fakeStorage) ArticleByID(_ context.Context, id int64) (Article, error) {
	if id < 1 || id > MaxArticleCode {
		return Article{}, ErrNotFound
	}
	return Article{
		ID:        id,
		Code:      int(id),
		Name:      fmt.Sprintf("Article %d", id),
		ShortName: fmt.Sprintf("A%d", id),
	}, nil
}

func refList(prefix string, n int) []Reference {
	out := make([]Reference, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, Reference{ID: int64(i), Name: prefix + " " + strconv.Itoa(i)})
	}
	return out
}

func refByID(prefix string, id int64, n int) (Reference, error) {
	if id < 1 || id > int64(n) {
		return Reference{}, ErrNotFound
	}
	return Reference{ID: id, Name: prefix + " " + strconv.FormatInt(id, 10)}, nil
}

func (f *fakeStorage) Creditors(context.Context) ([]Reference, error) {
	return refList("Creditor", 4), nil
}

func (f *fakeStorage) CreditorByID(_ context.Context, id int64) (Reference, error) {
	return refByID("Creditor", id, 4)
}

func (f *fakeStorage) Projects(context.Context) ([]Reference, error) {
	return refList("Project", 4), nil
}

func (f *fakeStorage) ProjectByID(_ context.Context, id int64) (Reference, error) {
	return refByID("Project", id, 4)
}

func (f *fakeStorage) Employees(context.Context) ([]Reference, error) {
	return refList("Employee", 4), nil
}

func (f *fakeStorage) EmployeeByID(_ context.Context, id int64) (Reference, error) {
	return refByID("Employee", id, 4)
}

func (f *fakeStorage) Materials(context.Context) ([]Reference, error) {
	return refList("Material", 4), nil
}

func (f *fakeStorage) MaterialByID(_ context.Context, id int64) (Reference, error) {
	return refByID("Material", id, 4)
}

func (f *fakeStorage) Contractors(context.Context) ([]Reference, error) {
	return refList("Contractor", 4), nil
}

func (f *fakeStorage) ContractorByID(_ context.Context, id int64) (Reference, error) {
	return refByID("Contractor", id, 4)
}

func (f *fakeStorage) Founders(context.Context) ([]Reference, error) {
	return refList("Founder", 2), nil
}

func (f *fakeStorage) FounderByID(_ context.Context, id int64) (Reference, error) {
	return refByID("Founder", id, 2)
}

func (f *fakeStorage) CreateIncome(_ context.Context, rec IncomeRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.incomes = append(f.incomes, rec)
	return nil
}

func (f *fakeStorage) CreateOutcome(_ context.Context, rec OutcomeRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.outcomes = append(f.outcomes, rec)
	return nil
}

func (f *fakeStorage) CreateTransfer(_ context.Context, rec TransferRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.transfers = append(f.transfers, rec)
	return nil
}

type testRig struct {
	engine    *Engine
	store     *Store
	storage   *fakeStorage
	transport *fakeTransport
}

const (
	testUser int64 = 100
	testChat int64 = 200
)

func testContext() context.Context { return context.Background() }

func newTestRig(t *testing.T) *testRig {
	t.Helper()
	store := NewStore()
	storage := newFakeStorage()
	transport := newFakeTransport()
	engine, err := NewEngine(store, storage, transport, Config{})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	engine.now = func() time.Time {
		return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	}
	return &testRig{engine: engine, store: store, storage: storage, transport: transport}
}

func (r *testRig) start(t *testing.T) {
	t.Helper()
	if err := r.engine.StartOperation(context.Background(), testUser, testChat); err != nil {
		t.Fatalf("StartOperation: %v", err)
	}
}

var nextInboundID = 10000

func (r *testRig) press(t *testing.T, payload string) {
	t.Helper()
	err := r.engine.Handle(context.Background(), Event{
		UserID: testUser, ChatID: testChat, Kind: EventButton, Payload: payload,
	})
	if err != nil {
		t.Fatalf("press %q: %v", payload, err)
	}
}

func (r *testRig) send(t *testing.T, text string) {
	t.Helper()
	nextInboundID++
	err := r.engine.Handle(context.Background(), Event{
		UserID: testUser, ChatID: testChat, Kind: EventText,
		Payload: text, MessageID: nextInboundID,
	})
	if err != nil {
		t.Fatalf("send %q: %v", text, err)
	}
}

func (r *testRig) session(t *testing.T) *Session {
	t.Helper()
	var snapshot *Session
	err := r.store.With(testUser, func(s *Session) error {
		snapshot = s
		return nil
	})
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	return snapshot
}

func (r *testRig) state(t *testing.T) State {
	t.Helper()
	return r.session(t).State
}
