package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/registry"
	"github.com/mmynk/splitledger/internal/report"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/ledgerconnect"
)

// setupTestServer creates a test server backed by a fresh registry and ledger.
func setupTestServer(t *testing.T) (ledgerconnect.LedgerServiceClient, *metrics.Metrics, func()) {
	t.Helper()

	m, err := metrics.New(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}

	reg := registry.New()
	svc := NewLedgerService(reg, ledger.New(reg), report.NewFormatter("₹"), m)

	path, handler := ledgerconnect.NewLedgerServiceHandler(svc,
		connect.WithInterceptors(middleware.LoggingInterceptor(nil)),
	)
	mux := http.NewServeMux()
	mux.Handle(path, handler)

	server := httptest.NewServer(mux)
	client := ledgerconnect.NewLedgerServiceClient(http.DefaultClient, server.URL)

	return client, m, server.Close
}

func addParticipants(t *testing.T, client ledgerconnect.LedgerServiceClient, names ...string) {
	t.Helper()
	for _, name := range names {
		_, err := client.AddParticipant(context.Background(), connect.NewRequest(&api.AddParticipantRequest{Name: name}))
		if err != nil {
			t.Fatalf("AddParticipant(%q) failed: %v", name, err)
		}
	}
}

func recordExpense(t *testing.T, client ledgerconnect.LedgerServiceClient, req *api.RecordExpenseRequest) *api.RecordExpenseResponse {
	t.Helper()
	resp, err := client.RecordExpense(context.Background(), connect.NewRequest(req))
	if err != nil {
		t.Fatalf("RecordExpense failed: %v", err)
	}
	return resp.Msg
}

func TestAddParticipant(t *testing.T) {
	client, m, cleanup := setupTestServer(t)
	defer cleanup()

	resp, err := client.AddParticipant(context.Background(), connect.NewRequest(&api.AddParticipantRequest{Name: " Alice "}))
	if err != nil {
		t.Fatalf("AddParticipant failed: %v", err)
	}
	if resp.Msg.Participant.Name != "Alice" {
		t.Errorf("name: expected 'Alice', got '%s'", resp.Msg.Participant.Name)
	}

	addParticipants(t, client, "Bob")

	listResp, err := client.ListParticipants(context.Background(), connect.NewRequest(&api.ListParticipantsRequest{}))
	if err != nil {
		t.Fatalf("ListParticipants failed: %v", err)
	}
	if len(listResp.Msg.Participants) != 2 {
		t.Fatalf("expected 2 participants, got %d", len(listResp.Msg.Participants))
	}
	if listResp.Msg.Participants[0].Name != "Alice" || listResp.Msg.Participants[1].Name != "Bob" {
		t.Errorf("unexpected participant order: %v, %v", listResp.Msg.Participants[0], listResp.Msg.Participants[1])
	}

	if got := testutil.ToFloat64(m.ParticipantsRegistered); got != 2 {
		t.Errorf("participants registered = %v, want 2", got)
	}
}

func TestAddParticipant_Errors(t *testing.T) {
	client, _, cleanup := setupTestServer(t)
	defer cleanup()

	addParticipants(t, client, "Alice")

	tests := []struct {
		name     string
		add      string
		wantCode connect.Code
	}{
		{name: "duplicate", add: "Alice", wantCode: connect.CodeAlreadyExists},
		{name: "empty", add: "  ", wantCode: connect.CodeInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.AddParticipant(context.Background(), connect.NewRequest(&api.AddParticipantRequest{Name: tt.add}))
			if err == nil {
				t.Fatal("expected error")
			}
			if code := connect.CodeOf(err); code != tt.wantCode {
				t.Errorf("expected %v, got %v", tt.wantCode, code)
			}
		})
	}
}

func TestRecordExpense_Reports(t *testing.T) {
	client, m, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	addParticipants(t, client, "A", "B", "C")

	first := recordExpense(t, client, &api.RecordExpenseRequest{
		Payer:       "A",
		Amount:      "90",
		SharedWith:  []string{"A", "B", "C"},
		Description: "Dinner",
	})
	if first.ExpenseId == "" {
		t.Error("expected non-empty expense ID")
	}
	if len(first.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(first.Entries))
	}
	if first.Entries[0].Debtor != "B" || first.Entries[0].Amount != "30.00" {
		t.Errorf("unexpected first entry %+v", first.Entries[0])
	}

	second := recordExpense(t, client, &api.RecordExpenseRequest{
		Payer:      "B",
		Amount:     "30",
		SharedWith: []string{"B", "C"},
	})
	if len(second.Entries) != 1 {
		t.Fatalf("expected 1 entry for the second expense, got %d", len(second.Entries))
	}
	if e := second.Entries[0]; e.ExpenseId != second.ExpenseId || e.Seq != 3 || e.Debtor != "C" || e.Amount != "15.00" {
		t.Errorf("unexpected second entry %+v", e)
	}

	rawResp, err := client.GetRawBalances(ctx, connect.NewRequest(&api.GetRawBalancesRequest{}))
	if err != nil {
		t.Fatalf("GetRawBalances failed: %v", err)
	}
	wantRaw := []string{"B owes A ₹30.00", "C owes A ₹30.00", "C owes B ₹15.00"}
	if !reflect.DeepEqual(rawResp.Msg.Lines, wantRaw) {
		t.Errorf("raw balances = %q, want %q", rawResp.Msg.Lines, wantRaw)
	}

	historyResp, err := client.GetTransactionHistory(ctx, connect.NewRequest(&api.GetTransactionHistoryRequest{}))
	if err != nil {
		t.Fatalf("GetTransactionHistory failed: %v", err)
	}
	if !reflect.DeepEqual(historyResp.Msg.Lines, wantRaw) {
		t.Errorf("history = %q, want %q", historyResp.Msg.Lines, wantRaw)
	}
	for i, e := range historyResp.Msg.Entries {
		if int(e.Seq) != i+1 {
			t.Errorf("entry %d: seq = %d", i, e.Seq)
		}
	}

	netResp, err := client.GetNetBalances(ctx, connect.NewRequest(&api.GetNetBalancesRequest{}))
	if err != nil {
		t.Fatalf("GetNetBalances failed: %v", err)
	}
	wantNet := []string{"A is owed ₹60.00", "B owes ₹15.00", "C owes ₹45.00"}
	if !reflect.DeepEqual(netResp.Msg.Lines, wantNet) {
		t.Errorf("net balances = %q, want %q", netResp.Msg.Lines, wantNet)
	}

	settleResp, err := client.GetSettlement(ctx, connect.NewRequest(&api.GetSettlementRequest{}))
	if err != nil {
		t.Fatalf("GetSettlement failed: %v", err)
	}
	wantSettle := []string{"C pays A ₹45.00", "B pays A ₹15.00"}
	if !reflect.DeepEqual(settleResp.Msg.Lines, wantSettle) {
		t.Errorf("settlement = %q, want %q", settleResp.Msg.Lines, wantSettle)
	}

	if got := testutil.ToFloat64(m.ExpensesRecorded.WithLabelValues("equal")); got != 2 {
		t.Errorf("expenses recorded = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.LogEntries); got != 3 {
		t.Errorf("log entries = %v, want 3", got)
	}
}

func TestRecordExpense_CustomSplit(t *testing.T) {
	client, _, cleanup := setupTestServer(t)
	defer cleanup()

	addParticipants(t, client, "A", "B", "C")

	resp := recordExpense(t, client, &api.RecordExpenseRequest{
		Payer:        "A",
		Amount:       "100",
		SharedWith:   []string{"A", "B", "C"},
		SplitMode:    api.SplitModeCustom,
		CustomShares: []string{"20", "30.005", "49.995"},
	})
	if len(resp.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(resp.Entries))
	}
	if resp.Entries[0].Amount != "30.01" || resp.Entries[1].Amount != "50.00" {
		t.Errorf("unexpected entry amounts %q, %q", resp.Entries[0].Amount, resp.Entries[1].Amount)
	}
}

func TestRecordExpense_Rejected(t *testing.T) {
	client, m, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	addParticipants(t, client, "A", "B")

	tests := []struct {
		name     string
		req      *api.RecordExpenseRequest
		wantCode connect.Code
		reason   string
	}{
		{
			name:     "shares do not add up",
			req:      &api.RecordExpenseRequest{Payer: "A", Amount: "50", SharedWith: []string{"A", "B"}, SplitMode: "custom", CustomShares: []string{"25", "25.02"}},
			wantCode: connect.CodeInvalidArgument,
			reason:   metrics.ReasonShareMismatch,
		},
		{
			name:     "malformed share",
			req:      &api.RecordExpenseRequest{Payer: "A", Amount: "50", SharedWith: []string{"A", "B"}, SplitMode: "custom", CustomShares: []string{"25", "abc"}},
			wantCode: connect.CodeInvalidArgument,
			reason:   metrics.ReasonInvalidShares,
		},
		{
			name:     "malformed amount",
			req:      &api.RecordExpenseRequest{Payer: "A", Amount: "ten", SharedWith: []string{"B"}},
			wantCode: connect.CodeInvalidArgument,
			reason:   metrics.ReasonInvalidAmount,
		},
		{
			name:     "negative amount",
			req:      &api.RecordExpenseRequest{Payer: "A", Amount: "-10", SharedWith: []string{"B"}},
			wantCode: connect.CodeInvalidArgument,
			reason:   metrics.ReasonInvalidAmount,
		},
		{
			name:     "unknown payer",
			req:      &api.RecordExpenseRequest{Payer: "Z", Amount: "10", SharedWith: []string{"B"}},
			wantCode: connect.CodeNotFound,
			reason:   metrics.ReasonUnknownParticipant,
		},
		{
			name:     "unknown participant",
			req:      &api.RecordExpenseRequest{Payer: "A", Amount: "10", SharedWith: []string{"B", "Z"}},
			wantCode: connect.CodeNotFound,
			reason:   metrics.ReasonUnknownParticipant,
		},
		{
			name:     "participant listed twice",
			req:      &api.RecordExpenseRequest{Payer: "A", Amount: "10", SharedWith: []string{"B", "B"}},
			wantCode: connect.CodeInvalidArgument,
			reason:   metrics.ReasonDuplicateParticipant,
		},
		{
			name:     "nobody sharing",
			req:      &api.RecordExpenseRequest{Payer: "A", Amount: "10"},
			wantCode: connect.CodeInvalidArgument,
			reason:   metrics.ReasonNoParticipants,
		},
		{
			name:     "unknown split mode",
			req:      &api.RecordExpenseRequest{Payer: "A", Amount: "10", SharedWith: []string{"B"}, SplitMode: "weighted"},
			wantCode: connect.CodeInvalidArgument,
			reason:   metrics.ReasonOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(m.ExpensesRejected.WithLabelValues(tt.reason))

			_, err := client.RecordExpense(ctx, connect.NewRequest(tt.req))
			if err == nil {
				t.Fatal("expected error")
			}
			if code := connect.CodeOf(err); code != tt.wantCode {
				t.Errorf("expected %v, got %v: %v", tt.wantCode, code, err)
			}

			if got := testutil.ToFloat64(m.ExpensesRejected.WithLabelValues(tt.reason)); got != before+1 {
				t.Errorf("rejections for %s = %v, want %v", tt.reason, got, before+1)
			}
		})
	}

	historyResp, err := client.GetTransactionHistory(ctx, connect.NewRequest(&api.GetTransactionHistoryRequest{}))
	if err != nil {
		t.Fatalf("GetTransactionHistory failed: %v", err)
	}
	if len(historyResp.Msg.Entries) != 0 {
		t.Errorf("expected no history after rejected expenses, got %d entries", len(historyResp.Msg.Entries))
	}
}

func TestGetSettlement_Empty(t *testing.T) {
	client, _, cleanup := setupTestServer(t)
	defer cleanup()

	addParticipants(t, client, "A", "B")

	resp, err := client.GetSettlement(context.Background(), connect.NewRequest(&api.GetSettlementRequest{}))
	if err != nil {
		t.Fatalf("GetSettlement failed: %v", err)
	}
	if len(resp.Msg.Transfers) != 0 || len(resp.Msg.Lines) != 0 {
		t.Errorf("expected empty settlement, got %+v", resp.Msg)
	}
}
