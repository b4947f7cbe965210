package services

import (
	"context"

	"mysre-api/internal/logger"
	"mysre-api/internal/models"
	"mysre-api/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// LowBalanceThreshold is the remaining-token level under which callers get
// a non-blocking advisory.
const LowBalanceThreshold = 100

type UsageRecorder interface {
	Record(ctx context.Context, userID uuid.UUID, action string, tokensUsed int64, usageContext string, metadata models.JSON) (*RecordResult, error)
}

// RecordResult wraps the ledger receipt with the advisory flag UI callers
// use to show a low-balance warning.
type RecordResult struct {
	RemainingBalance int64              `json:"remaining_balance"`
	LowBalance       bool               `json:"low_balance"`
	Event            *models.UsageEvent `json:"event"`
}

type usageRecorder struct {
	ledger   TokenLedgerService
	userRepo repository.UserRepository
	email    EmailService
}

func NewUsageRecorder(ledger TokenLedgerService, userRepo repository.UserRepository, email EmailService) UsageRecorder {
	return &usageRecorder{
		ledger:   ledger,
		userRepo: userRepo,
		email:    email,
	}
}

// Record debits through the ledger. On failure nothing was applied (the
// ledger's transaction guarantees that); on success a low balance only adds
// an advisory, it never blocks or rejects the originating action.
func (r *usageRecorder) Record(ctx context.Context, userID uuid.UUID, action string, tokensUsed int64, usageContext string, metadata models.JSON) (*RecordResult, error) {
	receipt, err := r.ledger.RecordUsage(ctx, userID, action, tokensUsed, usageContext, metadata)
	if err != nil {
		return nil, err
	}

	result := &RecordResult{
		RemainingBalance: receipt.RemainingBalance,
		LowBalance:       receipt.RemainingBalance < LowBalanceThreshold,
		Event:            receipt.Event,
	}

	if result.LowBalance {
		go r.notifyLowBalance(userID, receipt.RemainingBalance)
	}

	return result, nil
}

func (r *usageRecorder) notifyLowBalance(userID uuid.UUID, remaining int64) {
	user, err := r.userRepo.GetByID(context.Background(), userID)
	if err != nil {
		logger.LogEvent(logrus.WarnLevel, "Low balance alert skipped", logrus.Fields{
			"user_id": userID,
			"error":   err.Error(),
		})
		return
	}

	if err := r.email.SendLowBalanceAlert(user, remaining); err != nil {
		logger.LogEvent(logrus.WarnLevel, "Failed to send low balance alert", logrus.Fields{
			"user_id": userID,
			"error":   err.Error(),
		})
	}
}
