package services

import (
	"context"
	"fmt"
	"time"

	"mysre-api/internal/models"
	"mysre-api/internal/pkg/errors"
	"mysre-api/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TokenLedgerService interface {
	RecordUsage(ctx context.Context, userID uuid.UUID, action string, tokensUsed int64, usageContext string, metadata models.JSON) (*UsageReceipt, error)
	GetMonthlyUsage(ctx context.Context, userID uuid.UUID, month string) (*MonthlyUsageSummary, error)
	ResetMonthlyBalance(ctx context.Context, userID uuid.UUID) error
	TopUpBalance(ctx context.Context, userID uuid.UUID, tokens int64) error
}

// UsageReceipt is returned for every committed debit.
type UsageReceipt struct {
	Event            *models.UsageEvent `json:"event"`
	RemainingBalance int64              `json:"remaining_balance"`
}

type ActionBreakdown struct {
	Tokens int64           `json:"tokens"`
	Cost   decimal.Decimal `json:"cost"`
	Count  int             `json:"count"`
}

type MonthlyUsageSummary struct {
	Month       string                     `json:"month"`
	TotalTokens int64                      `json:"total_tokens"`
	TotalCost   decimal.Decimal            `json:"total_cost"`
	Actions     map[string]ActionBreakdown `json:"actions"`
}

type tokenLedgerService struct {
	db        *gorm.DB
	userRepo  repository.UserRepository
	eventRepo repository.UsageEventRepository
}

func NewTokenLedgerService(db *gorm.DB, userRepo repository.UserRepository, eventRepo repository.UsageEventRepository) TokenLedgerService {
	return &tokenLedgerService{
		db:        db,
		userRepo:  userRepo,
		eventRepo: eventRepo,
	}
}

// RecordUsage debits tokensUsed from the user's balance and writes the
// matching usage event. The balance check and decrement are one conditional
// UPDATE guarded by rows-affected, and the event insert shares its
// transaction, so concurrent debits can never overdraw the balance and no
// reader ever sees a decrement without its event.
func (s *tokenLedgerService) RecordUsage(ctx context.Context, userID uuid.UUID, action string, tokensUsed int64, usageContext string, metadata models.JSON) (*UsageReceipt, error) {
	if tokensUsed <= 0 {
		return nil, errors.ErrInvalidAmount
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	rate, err := CostPerToken(user.Tier)
	if err != nil {
		return nil, err
	}

	// Cost is computed and frozen at write time; history is never
	// recomputed from the live pricing table.
	totalCost := decimal.NewFromInt(tokensUsed).Mul(rate)

	event := &models.UsageEvent{
		UserID:       userID,
		Action:       action,
		TokensUsed:   tokensUsed,
		CostPerToken: rate,
		TotalCost:    totalCost,
		Context:      usageContext,
		Metadata:     metadata,
	}

	var remaining int64
	err = s.db.Transaction(func(tx *gorm.DB) error {
		ok, err := s.userRepo.DebitBalance(ctx, tx, userID, tokensUsed)
		if err != nil {
			return err
		}
		if !ok {
			return errors.ErrInsufficientBalance
		}

		if err := s.eventRepo.Create(ctx, tx, event); err != nil {
			return err
		}

		return tx.Model(&models.User{}).
			Select("token_balance").
			Where("id = ?", userID).
			Scan(&remaining).Error
	})
	if err != nil {
		return nil, err
	}

	return &UsageReceipt{
		Event:            event,
		RemainingBalance: remaining,
	}, nil
}

// GetMonthlyUsage aggregates a user's events for one calendar month.
// An empty month is a zeroed summary, not an error.
func (s *tokenLedgerService) GetMonthlyUsage(ctx context.Context, userID uuid.UUID, month string) (*MonthlyUsageSummary, error) {
	periodStart, periodEnd, err := monthPeriod(month)
	if err != nil {
		return nil, err
	}

	events, err := s.eventRepo.ListByUserPeriod(ctx, userID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}

	summary := &MonthlyUsageSummary{
		Month:     periodStart.Format("2006-01"),
		TotalCost: decimal.Zero,
		Actions:   make(map[string]ActionBreakdown),
	}

	for _, e := range events {
		summary.TotalTokens += e.TokensUsed
		summary.TotalCost = summary.TotalCost.Add(e.TotalCost)

		b := summary.Actions[e.Action]
		b.Tokens += e.TokensUsed
		b.Cost = b.Cost.Add(e.TotalCost)
		b.Count++
		summary.Actions[e.Action] = b
	}

	return summary, nil
}

// ResetMonthlyBalance restores the balance to the user's monthly allowance.
// Invoked by the external billing-cycle job, never internally.
func (s *tokenLedgerService) ResetMonthlyBalance(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	return s.userRepo.SetBalance(ctx, userID, user.MonthlyTokenLimit)
}

func (s *tokenLedgerService) TopUpBalance(ctx context.Context, userID uuid.UUID, tokens int64) error {
	if tokens <= 0 {
		return errors.ErrInvalidAmount
	}
	return s.userRepo.CreditBalance(ctx, userID, tokens)
}

// monthPeriod resolves a YYYY-MM month to its [start, end) bounds in UTC;
// the end is the first instant of the next month so events in the final
// fractional second of a month are never dropped. An empty month means the
// current one.
func monthPeriod(month string) (time.Time, time.Time, error) {
	var base time.Time
	if month == "" {
		base = time.Now().UTC()
	} else {
		parsed, err := time.Parse("2006-01", month)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: month must be YYYY-MM", errors.ErrInvalidInput)
		}
		base = parsed
	}

	periodStart := time.Date(base.Year(), base.Month(), 1, 0, 0, 0, 0, time.UTC)
	periodEnd := periodStart.AddDate(0, 1, 0)
	return periodStart, periodEnd, nil
}
