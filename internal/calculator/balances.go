package calculator

import (
	"container/heap"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// zeroTolerance is the magnitude at or below which a balance counts as settled.
var zeroTolerance = decimal.New(1, -9)

// BalanceSource provides the pairwise debts a settlement is computed from.
// *ledger.Ledger satisfies it.
type BalanceSource interface {
	RawBalances() []models.Debt
}

// NetBalances aggregates pairwise debts into one position per participant.
// Every participant in participants gets an entry, zero balances included,
// in the given order. Participants that only appear in debts follow in the
// order they are first seen.
func NetBalances(debts []models.Debt, participants []models.Participant) []models.NetBalance {
	balances := make([]models.NetBalance, 0, len(participants))
	index := make(map[string]int, len(participants))

	track := func(p models.Participant) *models.NetBalance {
		if i, exists := index[p.Name]; exists {
			return &balances[i]
		}
		index[p.Name] = len(balances)
		balances = append(balances, models.NetBalance{
			Participant: p,
			Credit:      decimal.Zero,
			Debit:       decimal.Zero,
		})
		return &balances[len(balances)-1]
	}

	for _, p := range participants {
		track(p)
	}

	for _, d := range debts {
		debtor := track(d.Debtor)
		debtor.Debit = debtor.Debit.Add(d.Amount)
		creditor := track(d.Creditor)
		creditor.Credit = creditor.Credit.Add(d.Amount)
	}

	for i := range balances {
		balances[i].Net = balances[i].Credit.Sub(balances[i].Debit)
	}
	return balances
}

// MinimizeSettlement computes a minimized settlement plan from the current
// debts of src. See SimplifyDebts for the algorithm.
func MinimizeSettlement(src BalanceSource, participants []models.Participant) []models.SettlementTransfer {
	return SimplifyDebts(NetBalances(src.RawBalances(), participants))
}

// SimplifyDebts turns net balances into a list of transfers that brings every
// balance to zero.
//
// Algorithm (greedy min-cash-flow):
//   - creditors go into a max-heap by amount owed to them
//   - debtors go into a max-heap by amount they owe
//   - repeatedly pop the largest of each and transfer the smaller amount
//   - whichever side has a remainder is pushed back
//
// For n participants with a non-zero balance this emits at most n-1
// transfers. It is not guaranteed to find the fewest possible transfers.
func SimplifyDebts(balances []models.NetBalance) []models.SettlementTransfer {
	creditors := &positionHeap{}
	debtors := &positionHeap{}
	for _, b := range balances {
		switch {
		case b.Net.GreaterThan(zeroTolerance):
			*creditors = append(*creditors, position{participant: b.Participant, amount: b.Net})
		case b.Net.LessThan(zeroTolerance.Neg()):
			*debtors = append(*debtors, position{participant: b.Participant, amount: b.Net.Neg()})
		}
	}
	heap.Init(creditors)
	heap.Init(debtors)

	var transfers []models.SettlementTransfer
	for creditors.Len() > 0 && debtors.Len() > 0 {
		cr := heap.Pop(creditors).(position)
		dr := heap.Pop(debtors).(position)

		amount := decimal.Min(cr.amount, dr.amount)
		transfers = append(transfers, models.SettlementTransfer{
			Payer:  dr.participant,
			Payee:  cr.participant,
			Amount: amount,
		})

		cr.amount = cr.amount.Sub(amount)
		dr.amount = dr.amount.Sub(amount)
		if cr.amount.GreaterThan(zeroTolerance) {
			heap.Push(creditors, cr)
		}
		if dr.amount.GreaterThan(zeroTolerance) {
			heap.Push(debtors, dr)
		}
	}

	return transfers
}

// ApplySettlements returns balances as they would be after every transfer
// was paid: the payer's debt and the payee's claim both shrink by the amount.
func ApplySettlements(balances []models.NetBalance, transfers []models.SettlementTransfer) []models.NetBalance {
	out := make([]models.NetBalance, len(balances))
	copy(out, balances)

	index := make(map[string]int, len(out))
	for i, b := range out {
		index[b.Participant.Name] = i
	}

	for _, t := range transfers {
		if i, exists := index[t.Payer.Name]; exists {
			out[i].Credit = out[i].Credit.Add(t.Amount)
		}
		if i, exists := index[t.Payee.Name]; exists {
			out[i].Debit = out[i].Debit.Add(t.Amount)
		}
	}

	for i := range out {
		out[i].Net = out[i].Credit.Sub(out[i].Debit)
	}
	return out
}

// position is an outstanding magnitude for one participant.
type position struct {
	participant models.Participant
	amount      decimal.Decimal
}

// positionHeap is a max-heap on amount, ties broken by name.
type positionHeap []position

func (h positionHeap) Len() int { return len(h) }

func (h positionHeap) Less(i, j int) bool {
	if c := h[i].amount.Cmp(h[j].amount); c != 0 {
		return c > 0
	}
	return h[i].participant.Name < h[j].participant.Name
}

func (h positionHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *positionHeap) Push(x any) { *h = append(*h, x.(position)) }

func (h *positionHeap) Pop() any {
	old := *h
	n := len(old)
	p := old[n-1]
	*h = old[:n-1]
	return p
}
