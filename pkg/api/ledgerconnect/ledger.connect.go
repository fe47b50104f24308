// Package ledgerconnect wires the ledger.v1.LedgerService messages to
// Connect handlers and clients.
package ledgerconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/api"
)

// LedgerServiceName is the fully-qualified name of the LedgerService.
const LedgerServiceName = "ledger.v1.LedgerService"

// Procedure paths for each LedgerService RPC.
const (
	LedgerServiceAddParticipantProcedure        = "/ledger.v1.LedgerService/AddParticipant"
	LedgerServiceListParticipantsProcedure      = "/ledger.v1.LedgerService/ListParticipants"
	LedgerServiceRecordExpenseProcedure         = "/ledger.v1.LedgerService/RecordExpense"
	LedgerServiceGetRawBalancesProcedure        = "/ledger.v1.LedgerService/GetRawBalances"
	LedgerServiceGetTransactionHistoryProcedure = "/ledger.v1.LedgerService/GetTransactionHistory"
	LedgerServiceGetNetBalancesProcedure        = "/ledger.v1.LedgerService/GetNetBalances"
	LedgerServiceGetSettlementProcedure         = "/ledger.v1.LedgerService/GetSettlement"
)

// LedgerServiceHandler is implemented by the server side of the service.
type LedgerServiceHandler interface {
	AddParticipant(context.Context, *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error)
	ListParticipants(context.Context, *connect.Request[api.ListParticipantsRequest]) (*connect.Response[api.ListParticipantsResponse], error)
	RecordExpense(context.Context, *connect.Request[api.RecordExpenseRequest]) (*connect.Response[api.RecordExpenseResponse], error)
	GetRawBalances(context.Context, *connect.Request[api.GetRawBalancesRequest]) (*connect.Response[api.GetRawBalancesResponse], error)
	GetTransactionHistory(context.Context, *connect.Request[api.GetTransactionHistoryRequest]) (*connect.Response[api.GetTransactionHistoryResponse], error)
	GetNetBalances(context.Context, *connect.Request[api.GetNetBalancesRequest]) (*connect.Response[api.GetNetBalancesResponse], error)
	GetSettlement(context.Context, *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler for svc and returns the
// path prefix to mount it on.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.JSONCodec{})}, opts...)

	handlers := map[string]http.Handler{
		LedgerServiceAddParticipantProcedure:        connect.NewUnaryHandler(LedgerServiceAddParticipantProcedure, svc.AddParticipant, opts...),
		LedgerServiceListParticipantsProcedure:      connect.NewUnaryHandler(LedgerServiceListParticipantsProcedure, svc.ListParticipants, opts...),
		LedgerServiceRecordExpenseProcedure:         connect.NewUnaryHandler(LedgerServiceRecordExpenseProcedure, svc.RecordExpense, opts...),
		LedgerServiceGetRawBalancesProcedure:        connect.NewUnaryHandler(LedgerServiceGetRawBalancesProcedure, svc.GetRawBalances, opts...),
		LedgerServiceGetTransactionHistoryProcedure: connect.NewUnaryHandler(LedgerServiceGetTransactionHistoryProcedure, svc.GetTransactionHistory, opts...),
		LedgerServiceGetNetBalancesProcedure:        connect.NewUnaryHandler(LedgerServiceGetNetBalancesProcedure, svc.GetNetBalances, opts...),
		LedgerServiceGetSettlementProcedure:         connect.NewUnaryHandler(LedgerServiceGetSettlementProcedure, svc.GetSettlement, opts...),
	}

	return "/" + LedgerServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := handlers[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

// LedgerServiceClient is a client for the ledger.v1.LedgerService.
type LedgerServiceClient interface {
	AddParticipant(context.Context, *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error)
	ListParticipants(context.Context, *connect.Request[api.ListParticipantsRequest]) (*connect.Response[api.ListParticipantsResponse], error)
	RecordExpense(context.Context, *connect.Request[api.RecordExpenseRequest]) (*connect.Response[api.RecordExpenseResponse], error)
	GetRawBalances(context.Context, *connect.Request[api.GetRawBalancesRequest]) (*connect.Response[api.GetRawBalancesResponse], error)
	GetTransactionHistory(context.Context, *connect.Request[api.GetTransactionHistoryRequest]) (*connect.Response[api.GetTransactionHistoryResponse], error)
	GetNetBalances(context.Context, *connect.Request[api.GetNetBalancesRequest]) (*connect.Response[api.GetNetBalancesResponse], error)
	GetSettlement(context.Context, *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error)
}

// NewLedgerServiceClient constructs a client for the service at baseURL
// (e.g. http://localhost:8080).
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.JSONCodec{})}, opts...)
	return &ledgerServiceClient{
		addParticipant:        connect.NewClient[api.AddParticipantRequest, api.AddParticipantResponse](httpClient, baseURL+LedgerServiceAddParticipantProcedure, opts...),
		listParticipants:      connect.NewClient[api.ListParticipantsRequest, api.ListParticipantsResponse](httpClient, baseURL+LedgerServiceListParticipantsProcedure, opts...),
		recordExpense:         connect.NewClient[api.RecordExpenseRequest, api.RecordExpenseResponse](httpClient, baseURL+LedgerServiceRecordExpenseProcedure, opts...),
		getRawBalances:        connect.NewClient[api.GetRawBalancesRequest, api.GetRawBalancesResponse](httpClient, baseURL+LedgerServiceGetRawBalancesProcedure, opts...),
		getTransactionHistory: connect.NewClient[api.GetTransactionHistoryRequest, api.GetTransactionHistoryResponse](httpClient, baseURL+LedgerServiceGetTransactionHistoryProcedure, opts...),
		getNetBalances:        connect.NewClient[api.GetNetBalancesRequest, api.GetNetBalancesResponse](httpClient, baseURL+LedgerServiceGetNetBalancesProcedure, opts...),
		getSettlement:         connect.NewClient[api.GetSettlementRequest, api.GetSettlementResponse](httpClient, baseURL+LedgerServiceGetSettlementProcedure, opts...),
	}
}

type ledgerServiceClient struct {
	addParticipant        *connect.Client[api.AddParticipantRequest, api.AddParticipantResponse]
	listParticipants      *connect.Client[api.ListParticipantsRequest, api.ListParticipantsResponse]
	recordExpense         *connect.Client[api.RecordExpenseRequest, api.RecordExpenseResponse]
	getRawBalances        *connect.Client[api.GetRawBalancesRequest, api.GetRawBalancesResponse]
	getTransactionHistory *connect.Client[api.GetTransactionHistoryRequest, api.GetTransactionHistoryResponse]
	getNetBalances        *connect.Client[api.GetNetBalancesRequest, api.GetNetBalancesResponse]
	getSettlement         *connect.Client[api.GetSettlementRequest, api.GetSettlementResponse]
}

func (c *ledgerServiceClient) AddParticipant(ctx context.Context, req *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error) {
	return c.addParticipant.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListParticipants(ctx context.Context, req *connect.Request[api.ListParticipantsRequest]) (*connect.Response[api.ListParticipantsResponse], error) {
	return c.listParticipants.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) RecordExpense(ctx context.Context, req *connect.Request[api.RecordExpenseRequest]) (*connect.Response[api.RecordExpenseResponse], error) {
	return c.recordExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetRawBalances(ctx context.Context, req *connect.Request[api.GetRawBalancesRequest]) (*connect.Response[api.GetRawBalancesResponse], error) {
	return c.getRawBalances.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetTransactionHistory(ctx context.Context, req *connect.Request[api.GetTransactionHistoryRequest]) (*connect.Response[api.GetTransactionHistoryResponse], error) {
	return c.getTransactionHistory.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetNetBalances(ctx context.Context, req *connect.Request[api.GetNetBalancesRequest]) (*connect.Response[api.GetNetBalancesResponse], error) {
	return c.getNetBalances.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetSettlement(ctx context.Context, req *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error) {
	return c.getSettlement.CallUnary(ctx, req)
}
