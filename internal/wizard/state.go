package wizard

// State identifies one step of the operation wizard.
type State string

const (
	// StateIdle indicates there is no operation in progress.
	StateIdle State = "idle"

	StateChoosingDate State = "choosing_operation_date"
	StateChoosingType State = "choosing_operation_type"

	StateChoosingIncomeWallet         State = "choosing_income_wallet"
	StateChoosingIncomeArticle        State = "choosing_income_article"
	StateChoosingIncomeProject        State = "choosing_income_project"
	StateChoosingIncomeCreditor       State = "choosing_income_creditor"
	StateChoosingIncomeFounder        State = "choosing_income_founder"
	StateEnteringIncomeAdditionalInfo State = "choosing_income_additional_info"

	StateChoosingFromWallet State = "choosing_from_wallet"
	StateChoosingToWallet   State = "choosing_to_wallet"

	StateChoosingOutcomeSource      State = "choosing_outcome_source"
	StateChoosingOutcomeWallet      State = "choosing_outcome_wallet"
	StateChoosingOutcomeCreditor    State = "choosing_outcome_creditor"
	StateChoosingOutcomeChapter     State = "choosing_outcome_chapter"
	StateChoosingOutcomeProject     State = "choosing_outcome_project"
	StateChoosingOutcomeGeneralType State = "choosing_outcome_general_type"
	StateChoosingOutcomeArticle     State = "choosing_outcome_article"
	StateEnteringOutcomeDetails     State = "entering_outcome_details"

	StateEnteringAmount      State = "entering_operation_amount"
	StateEnteringSavingCoeff State = "entering_saving_coeff"
	StateEnteringComment     State = "entering_operation_comment"
	StateConfirming          State = "confirming_operation"
)

// Role names the semantic slot a key prompt occupies. The registry
// keeps at most one live message per role.
type Role string

const (
	RoleDate    Role = "date_prompt"
	RoleType    Role = "type_prompt"
	RoleWallet  Role = "wallet_prompt"
	RoleSource  Role = "source_prompt"
	RoleArticle Role = "article_prompt"
	RoleChapter Role = "chapter_prompt"
	RoleDetail  Role = "detail_prompt"
	RoleAmount  Role = "amount_prompt"
	RoleCoeff   Role = "coeff_prompt"
	RoleComment Role = "comment_prompt"
	RoleConfirm Role = "confirm_prompt"
)

// clearedFields maps the state being left during back-navigation to the
// draft fields that state populated. Detail sub-choices of one logical
// step are cleared together so a rewind never leaves a stale sibling.
var clearedFields = map[State][]string{
	StateChoosingDate: {KeyOperationDate},
	StateChoosingType: {KeyOperationKind},

	StateChoosingIncomeWallet:  {KeyWalletID},
	StateChoosingIncomeArticle: {KeyArticleID, KeyArticleCode},
	StateChoosingIncomeProject: {
		KeyProjectID, KeyCreditorID, KeyFounderID, KeyAdditionalInfo,
	},
	StateChoosingIncomeCreditor: {
		KeyProjectID, KeyCreditorID, KeyFounderID, KeyAdditionalInfo,
	},
	StateChoosingIncomeFounder: {
		KeyProjectID, KeyCreditorID, KeyFounderID, KeyAdditionalInfo,
	},
	StateEnteringIncomeAdditionalInfo: {
		KeyProjectID, KeyCreditorID, KeyFounderID, KeyAdditionalInfo,
	},

	StateChoosingFromWallet: {KeyFromWalletID},
	StateChoosingToWallet:   {KeyToWalletID},

	StateChoosingOutcomeSource:      {KeyOutcomeSource},
	StateChoosingOutcomeWallet:      {KeyWalletID},
	StateChoosingOutcomeCreditor:    {KeySourceCreditorID},
	StateChoosingOutcomeChapter:     {KeyChapter},
	StateChoosingOutcomeProject:     {KeyProjectID},
	StateChoosingOutcomeGeneralType: {KeyGeneralType},
	StateChoosingOutcomeArticle:     {KeyArticleID, KeyArticleCode},
	StateEnteringOutcomeDetails: {
		KeyContractorID, KeyMaterialID, KeyEmployeeID,
		KeyCreditorID, KeyFounderID, KeyDetailKind,
	},

	StateEnteringAmount:      {KeyAmount},
	StateEnteringSavingCoeff: {KeySavingCoeff},
	StateEnteringComment:     {KeyComment},
	StateConfirming:          nil,
}

// backSurvivors lists roles whose key messages are never deleted during
// a rewind. The date prompt heads every wizard and must stay visible.
var backSurvivors = map[Role]struct{}{
	RoleDate: {},
}
