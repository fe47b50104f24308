package service

import (
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/api"
)

func toAPIParticipants(participants []models.Participant) []*api.Participant {
	out := make([]*api.Participant, len(participants))
	for i, p := range participants {
		out[i] = &api.Participant{Name: p.Name}
	}
	return out
}

func toAPIDebts(debts []models.Debt) []*api.Debt {
	out := make([]*api.Debt, len(debts))
	for i, d := range debts {
		out[i] = &api.Debt{
			Debtor:   d.Debtor.Name,
			Creditor: d.Creditor.Name,
			Amount:   d.Amount.StringFixed(2),
		}
	}
	return out
}

func toAPILogEntries(entries []models.TransactionLogEntry) []*api.LogEntry {
	out := make([]*api.LogEntry, len(entries))
	for i, e := range entries {
		out[i] = &api.LogEntry{
			Id:         e.ID,
			ExpenseId:  e.ExpenseID,
			Seq:        int32(e.Seq),
			Debtor:     e.Debtor.Name,
			Creditor:   e.Creditor.Name,
			Amount:     e.Amount.StringFixed(2),
			RecordedAt: e.RecordedAt.Unix(),
		}
	}
	return out
}

func toAPIMemberBalances(balances []models.NetBalance) []*api.MemberBalance {
	out := make([]*api.MemberBalance, len(balances))
	for i, b := range balances {
		out[i] = &api.MemberBalance{
			MemberName: b.Participant.Name,
			Credit:     b.Credit.StringFixed(2),
			Debit:      b.Debit.StringFixed(2),
			NetBalance: b.Net.StringFixed(2),
		}
	}
	return out
}

func toAPITransfers(transfers []models.SettlementTransfer) []*api.Transfer {
	out := make([]*api.Transfer, len(transfers))
	for i, t := range transfers {
		out[i] = &api.Transfer{
			Payer:  t.Payer.Name,
			Payee:  t.Payee.Name,
			Amount: t.Amount.StringFixed(2),
		}
	}
	return out
}
