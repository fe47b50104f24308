package models

import "github.com/shopspring/decimal"

// Debt is the amount Debtor owes Creditor across all recorded expenses.
// Only this direction is stored; the reverse pair is a separate Debt.
type Debt struct {
	Debtor   Participant
	Creditor Participant

	// Amount is always non-negative.
	Amount decimal.Decimal
}

// NetBalance is the derived position of one participant.
type NetBalance struct {
	Participant Participant

	// Credit is the total others owe this participant.
	Credit decimal.Decimal

	// Debit is the total this participant owes others.
	Debit decimal.Decimal

	// Net is Credit - Debit. Positive = owed money, negative = owes money.
	Net decimal.Decimal
}
