package handlers

import (
	"encoding/json"
	"net/http"

	"mysre-api/internal/models"
	"mysre-api/internal/pkg/errors"
	"mysre-api/internal/services"

	"github.com/google/uuid"
)

type BillingHandler struct {
	recorder  services.UsageRecorder
	ledger    services.TokenLedgerService
	analytics services.BillingAnalyticsService
	payments  services.PaymentService
	users     services.AuthService
}

func NewBillingHandler(
	recorder services.UsageRecorder,
	ledger services.TokenLedgerService,
	analytics services.BillingAnalyticsService,
	payments services.PaymentService,
	users services.AuthService,
) *BillingHandler {
	return &BillingHandler{
		recorder:  recorder,
		ledger:    ledger,
		analytics: analytics,
		payments:  payments,
		users:     users,
	}
}

// GetTokenUsage - fetch a user together with their monthly usage summary
func (h *BillingHandler) GetTokenUsage(w http.ResponseWriter, r *http.Request) {
	userIDStr := r.URL.Query().Get("userId")
	if userIDStr == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   "userId is required",
		})
		return
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		writeError(w, errors.ErrInvalidInput)
		return
	}

	user, err := h.users.GetUserByID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	usage, err := h.ledger.GetMonthlyUsage(r.Context(), userID, r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":         user,
		"monthlyUsage": usage,
	})
}

type recordUsageRequest struct {
	UserID     string      `json:"userId"`
	Action     string      `json:"action"`
	TokensUsed int64       `json:"tokensUsed"`
	Context    string      `json:"context,omitempty"`
	Metadata   models.JSON `json:"metadata,omitempty"`
}

// RecordTokenUsage - debit tokens for one action and return the new balance
func (h *BillingHandler) RecordTokenUsage(w http.ResponseWriter, r *http.Request) {
	var req recordUsageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.ErrInvalidInput)
		return
	}

	if req.UserID == "" || req.Action == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   "userId and action are required",
		})
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		writeError(w, errors.ErrInvalidInput)
		return
	}

	result, err := h.recorder.Record(r.Context(), userID, req.Action, req.TokensUsed, req.Context, req.Metadata)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":           true,
		"remaining_balance": result.RemainingBalance,
		"low_balance":       result.LowBalance,
	})
}

// GetBillingStats - fleet-wide billing totals
func (h *BillingHandler) GetBillingStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analytics.GetBillingStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    stats,
	})
}

// GetAllUsersBilling - per-user billing analytics list
func (h *BillingHandler) GetAllUsersBilling(w http.ResponseWriter, r *http.Request) {
	granularity := services.TrendGranularity(r.URL.Query().Get("granularity"))
	if granularity == "" {
		granularity = services.DailyTrend
	}

	data, err := h.analytics.GetAllUsersBilling(r.Context(), granularity)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

type topUpRequest struct {
	UserID string `json:"userId"`
	Amount int64  `json:"amount"`
	Method string `json:"method"`
}

// TopUp - open a pending payment intent for a balance top-up
func (h *BillingHandler) TopUp(w http.ResponseWriter, r *http.Request) {
	var req topUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.ErrInvalidInput)
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		writeError(w, errors.ErrInvalidInput)
		return
	}

	intent, err := h.payments.CreateTopUpIntent(r.Context(), userID, req.Amount, req.Method)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    intent,
	})
}

type resetBalanceRequest struct {
	UserID string `json:"userId"`
}

// ResetBalance - external billing-cycle trigger restoring the monthly allowance
func (h *BillingHandler) ResetBalance(w http.ResponseWriter, r *http.Request) {
	var req resetBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.ErrInvalidInput)
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		writeError(w, errors.ErrInvalidInput)
		return
	}

	if err := h.ledger.ResetMonthlyBalance(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

type paymentStatusRequest struct {
	RecordID string               `json:"recordId"`
	Status   models.PaymentStatus `json:"status"`
}

// UpdatePaymentStatus - settlement outcome reported by the payment collaborator
func (h *BillingHandler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	var req paymentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.ErrInvalidInput)
		return
	}

	recordID, err := uuid.Parse(req.RecordID)
	if err != nil {
		writeError(w, errors.ErrInvalidInput)
		return
	}

	if err := h.analytics.UpdatePaymentStatus(r.Context(), recordID, req.Status); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

type settleRequest struct {
	Period string `json:"period"`
}

// Settle - materialize billing records for a period (external settlement job)
func (h *BillingHandler) Settle(w http.ResponseWriter, r *http.Request) {
	var req settleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.ErrInvalidInput)
		return
	}

	written, err := h.analytics.MaterializeBillingRecords(r.Context(), req.Period)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"records": written,
	})
}
