// Package service exposes the ledger over Connect RPC.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/registry"
	"github.com/mmynk/splitledger/internal/report"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/ledgerconnect"
)

var errUnknownSplitMode = errors.New("unknown split mode")

// Ensure LedgerService implements the Connect handler interface
var _ ledgerconnect.LedgerServiceHandler = (*LedgerService)(nil)

// LedgerService implements the Connect LedgerService
type LedgerService struct {
	registry  *registry.Registry
	ledger    *ledger.Ledger
	formatter report.Formatter
	metrics   *metrics.Metrics
}

// NewLedgerService creates a new LedgerService backed by the given registry
// and ledger. m may be nil to disable metrics.
func NewLedgerService(reg *registry.Registry, l *ledger.Ledger, f report.Formatter, m *metrics.Metrics) *LedgerService {
	return &LedgerService{registry: reg, ledger: l, formatter: f, metrics: m}
}

// AddParticipant registers a new participant.
func (s *LedgerService) AddParticipant(ctx context.Context, req *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error) {
	slog.Info("AddParticipant request received", "name", req.Msg.Name)

	p, err := s.registry.Add(req.Msg.Name)
	if err != nil {
		slog.Warn("AddParticipant failed", "name", req.Msg.Name, "error", err)
		return nil, toConnectError(err)
	}

	if s.metrics != nil {
		s.metrics.ParticipantsRegistered.Inc()
	}
	slog.Info("Participant added", "name", p.Name, "participants_count", s.registry.Len())

	return connect.NewResponse(&api.AddParticipantResponse{
		Participant: &api.Participant{Name: p.Name},
	}), nil
}

// ListParticipants returns every participant in registration order.
func (s *LedgerService) ListParticipants(ctx context.Context, req *connect.Request[api.ListParticipantsRequest]) (*connect.Response[api.ListParticipantsResponse], error) {
	participants := s.registry.List()
	slog.Debug("ListParticipants successful", "count", len(participants))

	return connect.NewResponse(&api.ListParticipantsResponse{
		Participants: toAPIParticipants(participants),
	}), nil
}

// RecordExpense records an expense and returns the log entries it produced.
func (s *LedgerService) RecordExpense(ctx context.Context, req *connect.Request[api.RecordExpenseRequest]) (*connect.Response[api.RecordExpenseResponse], error) {
	slog.Info("RecordExpense request received",
		"payer", req.Msg.Payer,
		"amount", req.Msg.Amount,
		"shared_with_count", len(req.Msg.SharedWith),
		"split_mode", req.Msg.SplitMode,
	)

	receipt, err := s.recordExpense(ctx, req.Msg)
	if err != nil {
		if s.metrics != nil {
			s.metrics.ExpensesRejected.WithLabelValues(metrics.RejectionReason(err)).Inc()
		}
		slog.Warn("RecordExpense failed", "payer", req.Msg.Payer, "error", err)
		if errors.Is(err, ledger.ErrDuplicateParticipant) {
			// A name listed twice is bad input here, not a registry conflict.
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		return nil, toConnectError(err)
	}

	expense, entries := receipt.Expense, receipt.Entries

	if s.metrics != nil {
		s.metrics.ExpensesRecorded.WithLabelValues(expense.Policy.String()).Inc()
		s.metrics.LogEntries.Add(float64(len(entries)))
	}
	slog.Info("Expense recorded", "expense_id", expense.ID, "entries_count", len(entries))

	return connect.NewResponse(&api.RecordExpenseResponse{
		ExpenseId:  expense.ID,
		Entries:    toAPILogEntries(entries),
		RecordedAt: expense.RecordedAt.Unix(),
	}), nil
}

func (s *LedgerService) recordExpense(ctx context.Context, msg *api.RecordExpenseRequest) (ledger.Receipt, error) {
	payer, err := s.registry.Lookup(msg.Payer)
	if err != nil {
		return ledger.Receipt{}, fmt.Errorf("payer: %w", err)
	}

	sharedWith := make([]models.Participant, 0, len(msg.SharedWith))
	for _, name := range msg.SharedWith {
		p, err := s.registry.Lookup(name)
		if err != nil {
			return ledger.Receipt{}, err
		}
		sharedWith = append(sharedWith, p)
	}

	amount, err := parseAmount(msg.Amount)
	if err != nil {
		return ledger.Receipt{}, err
	}

	policy, err := parsePolicy(msg.SplitMode, msg.CustomShares)
	if err != nil {
		return ledger.Receipt{}, err
	}

	var opts []ledger.ExpenseOption
	if d := strings.TrimSpace(msg.Description); d != "" {
		opts = append(opts, ledger.WithDescription(d))
	}

	return s.ledger.RecordExpense(ctx, payer, amount, sharedWith, policy, opts...)
}

// GetRawBalances returns every stored pairwise debt.
func (s *LedgerService) GetRawBalances(ctx context.Context, req *connect.Request[api.GetRawBalancesRequest]) (*connect.Response[api.GetRawBalancesResponse], error) {
	debts := s.ledger.RawBalances()
	slog.Debug("GetRawBalances successful", "debts_count", len(debts))

	return connect.NewResponse(&api.GetRawBalancesResponse{
		Balances: toAPIDebts(debts),
		Lines:    s.formatter.Balances(debts),
	}), nil
}

// GetTransactionHistory returns the full transaction log, oldest first.
func (s *LedgerService) GetTransactionHistory(ctx context.Context, req *connect.Request[api.GetTransactionHistoryRequest]) (*connect.Response[api.GetTransactionHistoryResponse], error) {
	entries := s.ledger.TransactionHistory()
	slog.Debug("GetTransactionHistory successful", "entries_count", len(entries))

	return connect.NewResponse(&api.GetTransactionHistoryResponse{
		Entries: toAPILogEntries(entries),
		Lines:   s.formatter.History(entries),
	}), nil
}

// GetNetBalances returns every participant's credit, debit and net position.
func (s *LedgerService) GetNetBalances(ctx context.Context, req *connect.Request[api.GetNetBalancesRequest]) (*connect.Response[api.GetNetBalancesResponse], error) {
	balances := calculator.NetBalances(s.ledger.RawBalances(), s.registry.List())
	slog.Debug("GetNetBalances successful", "members_count", len(balances))

	return connect.NewResponse(&api.GetNetBalancesResponse{
		MemberBalances: toAPIMemberBalances(balances),
		Lines:          s.formatter.NetBalances(balances),
	}), nil
}

// GetSettlement computes the minimized list of transfers that settles every
// balance.
func (s *LedgerService) GetSettlement(ctx context.Context, req *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error) {
	transfers := calculator.MinimizeSettlement(s.ledger, s.registry.List())

	if s.metrics != nil {
		s.metrics.SettlementTransfers.Observe(float64(len(transfers)))
	}
	slog.Info("GetSettlement successful", "transfers_count", len(transfers))

	return connect.NewResponse(&api.GetSettlementResponse{
		Transfers: toAPITransfers(transfers),
		Lines:     s.formatter.Settlement(transfers),
	}), nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q is not a number", ledger.ErrInvalidAmount, s)
	}
	return amount, nil
}

func parsePolicy(mode string, shares []string) (models.SplitPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", api.SplitModeEqual:
		return models.EqualSplit(), nil
	case api.SplitModeCustom:
		values := make([]decimal.Decimal, len(shares))
		for i, raw := range shares {
			v, err := decimal.NewFromString(strings.TrimSpace(raw))
			if err != nil {
				return models.SplitPolicy{}, fmt.Errorf("%w: share %d %q is not a number", ledger.ErrInvalidShares, i+1, raw)
			}
			values[i] = v
		}
		return models.CustomSplit(values...), nil
	default:
		return models.SplitPolicy{}, fmt.Errorf("%w: %q", errUnknownSplitMode, mode)
	}
}

// toConnectError maps ledger errors onto Connect status codes.
func toConnectError(err error) *connect.Error {
	switch {
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	case errors.Is(err, registry.ErrUnknownParticipant):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, registry.ErrDuplicateParticipant):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, registry.ErrEmptyName),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidShares),
		errors.Is(err, ledger.ErrShareMismatch),
		errors.Is(err, ledger.ErrNoParticipants),
		errors.Is(err, errUnknownSplitMode):
		return connect.NewError(connect.CodeInvalidArgument, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
