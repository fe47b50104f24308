// Package ledger records shared expenses as pairwise debts and keeps an
// append-only history of every applied share.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/registry"
)

// Errors returned by RecordExpense. Match with errors.Is.
var (
	ErrInvalidAmount        = calculator.ErrInvalidAmount
	ErrNoParticipants       = calculator.ErrNoParticipants
	ErrInvalidShares        = calculator.ErrInvalidShares
	ErrShareMismatch        = calculator.ErrShareMismatch
	ErrUnknownParticipant   = registry.ErrUnknownParticipant
	ErrDuplicateParticipant = registry.ErrDuplicateParticipant
)

// Participants resolves participant identity for the ledger.
// *registry.Registry satisfies it.
type Participants interface {
	Contains(p models.Participant) bool
	List() []models.Participant
}

// pair is the key of one directed debt.
type pair struct {
	debtor   string
	creditor string
}

// Ledger holds pairwise debts and the transaction log.
// It is safe for concurrent use: writers are serialized and readers see
// either all or none of an expense.
type Ledger struct {
	participants Participants
	now          func() time.Time

	mu       sync.RWMutex
	debts    map[pair]*models.Debt
	order    []pair
	history  []models.TransactionLogEntry
	expenses []models.Expense
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the time source used to stamp expenses.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// New creates an empty ledger that resolves identity through participants.
func New(participants Participants, opts ...Option) *Ledger {
	l := &Ledger{
		participants: participants,
		now:          time.Now,
		debts:        make(map[pair]*models.Debt),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ExpenseOption sets optional fields on a recorded expense.
type ExpenseOption func(*models.Expense)

// WithDescription attaches free text to the expense.
func WithDescription(description string) ExpenseOption {
	return func(e *models.Expense) { e.Description = description }
}

// Receipt is the outcome of a recorded expense: the expense itself and the
// log entries it appended, in log order.
type Receipt struct {
	Expense models.Expense
	Entries []models.TransactionLogEntry
}

// RecordExpense splits amount among sharedWith according to policy and
// records what each non-payer now owes payer.
//
// Shares are applied in the order of sharedWith. The payer's own share, if
// the payer is listed, is never recorded. On any error the ledger is left
// unchanged.
func (l *Ledger) RecordExpense(ctx context.Context, payer models.Participant, amount decimal.Decimal, sharedWith []models.Participant, policy models.SplitPolicy, opts ...ExpenseOption) (Receipt, error) {
	if err := l.validateParticipants(payer, sharedWith); err != nil {
		return Receipt{}, err
	}

	shares, err := calculator.CalculateSplit(amount, sharedWith, policy)
	if err != nil {
		return Receipt{}, err
	}

	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}

	expense := models.Expense{
		ID:         uuid.New().String(),
		Payer:      payer,
		Amount:     amount,
		SharedWith: append([]models.Participant(nil), sharedWith...),
		Policy:     models.SplitPolicy{Mode: policy.Mode, Shares: append([]decimal.Decimal(nil), policy.Shares...)},
		RecordedAt: l.now(),
	}
	for _, opt := range opts {
		opt(&expense)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entries := make([]models.TransactionLogEntry, 0, len(shares))
	for _, s := range shares {
		if s.Participant == payer {
			continue
		}
		l.addDebt(s.Participant, payer, s.Amount)
		entry := models.TransactionLogEntry{
			ID:         uuid.New().String(),
			ExpenseID:  expense.ID,
			Seq:        len(l.history) + 1,
			Debtor:     s.Participant,
			Creditor:   payer,
			Amount:     s.Amount,
			RecordedAt: expense.RecordedAt,
		}
		l.history = append(l.history, entry)
		entries = append(entries, entry)
	}
	l.expenses = append(l.expenses, expense)

	slog.Debug("Expense recorded",
		"expense_id", expense.ID,
		"payer", payer.Name,
		"amount", amount.String(),
		"policy", policy.String(),
		"shared_with", models.Names(sharedWith),
		"entries", len(entries),
	)

	return Receipt{Expense: expense, Entries: entries}, nil
}

func (l *Ledger) validateParticipants(payer models.Participant, sharedWith []models.Participant) error {
	if !l.participants.Contains(payer) {
		return fmt.Errorf("%w: payer %q", ErrUnknownParticipant, payer.Name)
	}

	seen := make(map[string]bool, len(sharedWith))
	for _, p := range sharedWith {
		if !l.participants.Contains(p) {
			return fmt.Errorf("%w: %q", ErrUnknownParticipant, p.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: %q listed more than once", ErrDuplicateParticipant, p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

// addDebt must be called with l.mu held.
func (l *Ledger) addDebt(debtor, creditor models.Participant, amount decimal.Decimal) {
	key := pair{debtor: debtor.Name, creditor: creditor.Name}
	d, exists := l.debts[key]
	if !exists {
		d = &models.Debt{Debtor: debtor, Creditor: creditor, Amount: decimal.Zero}
		l.debts[key] = d
		l.order = append(l.order, key)
	}
	d.Amount = d.Amount.Add(amount)
}

// RawBalances returns every stored debt with a positive amount, in the order
// each pair was first recorded. Opposing directions are not netted.
func (l *Ledger) RawBalances() []models.Debt {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.rawBalancesLocked()
}

func (l *Ledger) rawBalancesLocked() []models.Debt {
	out := make([]models.Debt, 0, len(l.order))
	for _, key := range l.order {
		if d := l.debts[key]; d.Amount.IsPositive() {
			out = append(out, *d)
		}
	}
	return out
}

// TransactionHistory returns the full log, oldest first.
func (l *Ledger) TransactionHistory() []models.TransactionLogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.TransactionLogEntry, len(l.history))
	copy(out, l.history)
	return out
}

// Expenses returns every recorded expense, oldest first.
func (l *Ledger) Expenses() []models.Expense {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.Expense, len(l.expenses))
	copy(out, l.expenses)
	return out
}

// Participants returns the registered participants in registry order.
func (l *Ledger) Participants() []models.Participant {
	return l.participants.List()
}

// Snapshot is a consistent view of ledger state.
type Snapshot struct {
	Balances []models.Debt
	History  []models.TransactionLogEntry
}

// Snapshot captures balances and history under a single read lock.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	history := make([]models.TransactionLogEntry, len(l.history))
	copy(history, l.history)
	return Snapshot{
		Balances: l.rawBalancesLocked(),
		History:  history,
	}
}
