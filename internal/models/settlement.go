package models

import "github.com/shopspring/decimal"

// SettlementTransfer is one payment in a minimized settlement plan.
// Payer is the debtor settling up and Payee the creditor being paid.
type SettlementTransfer struct {
	Payer  Participant
	Payee  Participant
	Amount decimal.Decimal
}
