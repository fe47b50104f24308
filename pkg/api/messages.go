// Package api defines the request and response messages of the ledger
// service. Amounts travel as decimal strings (e.g. "12.50").
package api

// Split modes accepted by RecordExpenseRequest.SplitMode.
const (
	SplitModeEqual  = "equal"
	SplitModeCustom = "custom"
)

type Participant struct {
	Name string `json:"name"`
}

type AddParticipantRequest struct {
	Name string `json:"name"`
}

type AddParticipantResponse struct {
	Participant *Participant `json:"participant"`
}

type ListParticipantsRequest struct{}

type ListParticipantsResponse struct {
	Participants []*Participant `json:"participants"`
}

// RecordExpenseRequest records one expense.
// CustomShares is positional against SharedWith and only read when
// SplitMode is "custom". An empty SplitMode means "equal".
type RecordExpenseRequest struct {
	Payer        string   `json:"payer"`
	Amount       string   `json:"amount"`
	SharedWith   []string `json:"shared_with"`
	SplitMode    string   `json:"split_mode,omitempty"`
	CustomShares []string `json:"custom_shares,omitempty"`
	Description  string   `json:"description,omitempty"`
}

type RecordExpenseResponse struct {
	ExpenseId  string      `json:"expense_id"`
	Entries    []*LogEntry `json:"entries"`
	RecordedAt int64       `json:"recorded_at"`
}

type Debt struct {
	Debtor   string `json:"debtor"`
	Creditor string `json:"creditor"`
	Amount   string `json:"amount"`
}

type GetRawBalancesRequest struct{}

type GetRawBalancesResponse struct {
	Balances []*Debt  `json:"balances"`
	Lines    []string `json:"lines"`
}

type LogEntry struct {
	Id         string `json:"id"`
	ExpenseId  string `json:"expense_id"`
	Seq        int32  `json:"seq"`
	Debtor     string `json:"debtor"`
	Creditor   string `json:"creditor"`
	Amount     string `json:"amount"`
	RecordedAt int64  `json:"recorded_at"`
}

type GetTransactionHistoryRequest struct{}

type GetTransactionHistoryResponse struct {
	Entries []*LogEntry `json:"entries"`
	Lines   []string    `json:"lines"`
}

type MemberBalance struct {
	MemberName string `json:"member_name"`
	Credit     string `json:"credit"`
	Debit      string `json:"debit"`
	NetBalance string `json:"net_balance"`
}

type GetNetBalancesRequest struct{}

type GetNetBalancesResponse struct {
	MemberBalances []*MemberBalance `json:"member_balances"`
	Lines          []string         `json:"lines"`
}

type Transfer struct {
	Payer  string `json:"payer"`
	Payee  string `json:"payee"`
	Amount string `json:"amount"`
}

type GetSettlementRequest struct{}

type GetSettlementResponse struct {
	Transfers []*Transfer `json:"transfers"`
	Lines     []string    `json:"lines"`
}
