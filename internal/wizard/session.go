package wizard

import "time"

// Draft data keys. Values are strings, int64 ids or float64 numbers;
// an absent key means the field has not been entered yet.
const (
	KeyDraftID       = "draft_id"
	KeyRecordingDate = "recording_date"
	KeyOperationDate = "operation_date"
	KeyOperationKind = "operation_kind"

	KeyWalletID         = "wallet_id"
	KeyArticleID        = "article_id"
	KeyArticleCode      = "article_code"
	KeyProjectID        = "project_id"
	KeyCreditorID       = "creditor_id"
	KeyFounderID        = "founder_id"
	KeyContractorID     = "contractor_id"
	KeyMaterialID       = "material_id"
	KeyEmployeeID       = "employee_id"
	KeyAdditionalInfo   = "additional_info"
	KeyOutcomeSource    = "outcome_source"
	KeySourceCreditorID = "source_creditor_id"
	KeyChapter          = "chapter"
	KeyGeneralType      = "general_type"
	KeyDetailKind       = "detail_kind"

	KeyFromWalletID = "from_wallet_id"
	KeyToWalletID   = "to_wallet_id"

	KeyAmount      = "amount"
	KeySavingCoeff = "saving_coeff"
	KeyComment     = "comment"
)

// Session holds one user's wizard progress: the current state tag, the
// accumulated draft, the navigation history and the message bookkeeping
// used by the ephemeral tracker.
type Session struct {
	UserID int64
	ChatID int64

	State   State
	Data    map[string]any
	History []State

	// Registry maps prompt roles to the live message id shown for
	// that role. Transients collects disposable message ids deleted
	// at step boundaries.
	Registry   map[Role]int
	Transients []int

	LastActivity time.Time
}

func newSession(userID int64) *Session {
	return &Session{
		UserID:   userID,
		State:    StateIdle,
		Data:     make(map[string]any),
		Registry: make(map[Role]int),
	}
}

// Reset clears the draft, the history and the message bookkeeping and
// returns the session to idle. The session record itself survives so a
// new wizard can start immediately.
func (s *Session) Reset() {
	s.State = StateIdle
	s.Data = make(map[string]any)
	s.History = nil
	s.Registry = make(map[Role]int)
	s.Transients = nil
}

// InProgress reports whether a wizard dialogue is active.
func (s *Session) InProgress() bool {
	return s.State != StateIdle
}

// GetString returns the string value stored under key, or "" when the
// key is absent or holds a different type.
func (s *Session) GetString(key string) string {
	v, _ := s.Data[key].(string)
	return v
}

// GetInt64 returns the int64 value stored under key.
func (s *Session) GetInt64(key string) (int64, bool) {
	v, ok := s.Data[key].(int64)
	return v, ok
}

// GetFloat returns the float64 value stored under key.
func (s *Session) GetFloat(key string) (float64, bool) {
	v, ok := s.Data[key].(float64)
	return v, ok
}

// GetInt returns the int value stored under key.
func (s *Session) GetInt(key string) (int, bool) {
	v, ok := s.Data[key].(int)
	return v, ok
}

// Has reports whether key holds a non-nil value.
func (s *Session) Has(key string) bool {
	v, ok := s.Data[key]
	return ok && v != nil
}
