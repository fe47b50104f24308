package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SplitMode selects how an expense is divided among participants.
type SplitMode int

const (
	// SplitEqual divides the amount evenly, to the cent.
	SplitEqual SplitMode = iota
	// SplitCustom uses caller-provided shares, one per participant.
	SplitCustom
)

// SplitPolicy is the rule used to divide an expense.
type SplitPolicy struct {
	Mode SplitMode

	// Shares are positional against the expense's SharedWith list.
	// Only used when Mode is SplitCustom.
	Shares []decimal.Decimal
}

// EqualSplit returns a policy that splits an expense evenly.
func EqualSplit() SplitPolicy {
	return SplitPolicy{Mode: SplitEqual}
}

// CustomSplit returns a policy with explicit per-participant shares.
func CustomSplit(shares ...decimal.Decimal) SplitPolicy {
	return SplitPolicy{Mode: SplitCustom, Shares: shares}
}

// String returns "equal" or "custom".
func (p SplitPolicy) String() string {
	if p.Mode == SplitCustom {
		return "custom"
	}
	return "equal"
}

// Expense is a recorded payment and the participants it was split between.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// Description is optional free text (e.g., "Dinner", "Taxi").
	Description string

	Payer      Participant
	Amount     decimal.Decimal
	SharedWith []Participant
	Policy     SplitPolicy

	// RecordedAt is when the ledger accepted the expense.
	RecordedAt time.Time
}

// TransactionLogEntry records one share applied by an expense:
// Debtor owes Creditor Amount. Entries are immutable once appended.
type TransactionLogEntry struct {
	// ID is the unique identifier for the entry (UUID format).
	ID string

	// ExpenseID links the entry back to the expense that produced it.
	ExpenseID string

	// Seq is the entry's position in the ledger history, starting at 1.
	Seq int

	Debtor     Participant
	Creditor   Participant
	Amount     decimal.Decimal
	RecordedAt time.Time
}
