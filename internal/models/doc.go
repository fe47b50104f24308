// Package models defines the core domain models for the expense ledger.
//
// # Models
//
//   - Participant: a named member of the group, identified by name only
//   - Expense: one recorded payment and how it was split
//   - Debt: the accumulated amount one participant owes another (one direction)
//   - TransactionLogEntry: one applied share, kept for history display
//   - NetBalance: derived credit/debit totals for one participant
//   - SettlementTransfer: one payment in a minimized settlement plan
//
// All monetary values are decimal.Decimal. Models carry no behavior beyond
// small helpers; the ledger and calculator packages own the rules.
package models
