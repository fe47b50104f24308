// Package report renders ledger state as the plain text lines shown to users.
package report

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// DefaultSymbol is the currency symbol used when none is configured.
const DefaultSymbol = "₹"

// Formatter renders report lines with a currency symbol.
type Formatter struct {
	Symbol string
}

// NewFormatter returns a Formatter for symbol, falling back to DefaultSymbol.
func NewFormatter(symbol string) Formatter {
	if symbol == "" {
		symbol = DefaultSymbol
	}
	return Formatter{Symbol: symbol}
}

// Money formats amount with the currency symbol and two decimal places.
func (f Formatter) Money(amount decimal.Decimal) string {
	return f.Symbol + amount.StringFixed(2)
}

// Debt renders "<debtor> owes <creditor> <amount>".
func (f Formatter) Debt(debtor, creditor models.Participant, amount decimal.Decimal) string {
	return fmt.Sprintf("%s owes %s %s", debtor.Name, creditor.Name, f.Money(amount))
}

// Balances renders one line per raw debt.
func (f Formatter) Balances(debts []models.Debt) []string {
	lines := make([]string, len(debts))
	for i, d := range debts {
		lines[i] = f.Debt(d.Debtor, d.Creditor, d.Amount)
	}
	return lines
}

// History renders one line per log entry, oldest first.
func (f Formatter) History(entries []models.TransactionLogEntry) []string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = f.Debt(e.Debtor, e.Creditor, e.Amount)
	}
	return lines
}

// Settlement renders "<payer> pays <payee> <amount>" per transfer.
func (f Formatter) Settlement(transfers []models.SettlementTransfer) []string {
	lines := make([]string, len(transfers))
	for i, t := range transfers {
		lines[i] = fmt.Sprintf("%s pays %s %s", t.Payer.Name, t.Payee.Name, f.Money(t.Amount))
	}
	return lines
}

// NetBalances renders each participant's overall position.
func (f Formatter) NetBalances(balances []models.NetBalance) []string {
	lines := make([]string, len(balances))
	for i, b := range balances {
		// Anything that rounds to 0.00 reads as settled.
		rounded := b.Net.Round(2)
		switch {
		case rounded.IsPositive():
			lines[i] = fmt.Sprintf("%s is owed %s", b.Participant.Name, f.Money(rounded))
		case rounded.IsNegative():
			lines[i] = fmt.Sprintf("%s owes %s", b.Participant.Name, f.Money(rounded.Neg()))
		default:
			lines[i] = fmt.Sprintf("%s is settled up", b.Participant.Name)
		}
	}
	return lines
}
