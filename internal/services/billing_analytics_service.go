package services

import (
	"context"
	"sort"
	"time"

	"mysre-api/internal/logger"
	"mysre-api/internal/models"
	"mysre-api/internal/pkg/errors"
	"mysre-api/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	billingStatsCacheKey = "billing:stats"
	billingStatsCacheTTL = 5 * time.Minute
	topSpenderCount      = 10
	recentEventCount     = 10
)

type TrendGranularity string

const (
	DailyTrend   TrendGranularity = "daily"
	MonthlyTrend TrendGranularity = "monthly"
)

type TrendPoint struct {
	Date   string          `json:"date"`
	Tokens int64           `json:"tokens"`
	Cost   decimal.Decimal `json:"cost"`
}

type UserBillingInfo struct {
	User           *models.User           `json:"user"`
	CurrentMonth   *MonthlyUsageSummary   `json:"current_month"`
	BillingHistory []models.BillingRecord `json:"billing_history"`
	RecentEvents   []models.UsageEvent    `json:"recent_events"`
	UsageTrend     []TrendPoint           `json:"usage_trend"`
}

type TopSpender struct {
	UserID uuid.UUID       `json:"user_id"`
	Email  string          `json:"email"`
	Tokens int64           `json:"tokens"`
	Cost   decimal.Decimal `json:"cost"`
}

type BillingStats struct {
	TotalUsers       int64                                `json:"total_users"`
	TotalRevenue     decimal.Decimal                      `json:"total_revenue"`
	MonthlyRevenue   decimal.Decimal                      `json:"monthly_revenue"`
	AvgTokensPerUser decimal.Decimal                      `json:"avg_tokens_per_user"`
	TopSpenders      []TopSpender                         `json:"top_spenders"`
	RevenueByTier    map[models.SubscriptionTier]decimal.Decimal `json:"revenue_by_tier"`
}

type BillingAnalyticsService interface {
	GetAllUsersBilling(ctx context.Context, granularity TrendGranularity) ([]UserBillingInfo, error)
	GetBillingStats(ctx context.Context) (*BillingStats, error)
	MaterializeBillingRecords(ctx context.Context, period string) (int, error)
	UpdatePaymentStatus(ctx context.Context, recordID uuid.UUID, status models.PaymentStatus) error
}

type billingAnalyticsService struct {
	ledger      TokenLedgerService
	userRepo    repository.UserRepository
	eventRepo   repository.UsageEventRepository
	billingRepo repository.BillingRecordRepository
	cache       CacheService
}

func NewBillingAnalyticsService(
	ledger TokenLedgerService,
	userRepo repository.UserRepository,
	eventRepo repository.UsageEventRepository,
	billingRepo repository.BillingRecordRepository,
	cache CacheService,
) BillingAnalyticsService {
	return &billingAnalyticsService{
		ledger:      ledger,
		userRepo:    userRepo,
		eventRepo:   eventRepo,
		billingRepo: billingRepo,
		cache:       cache,
	}
}

// GetAllUsersBilling computes, per user, the current-month summary, billing
// history, recent events, and a chronological usage trend. Everything is
// derived from usage event history on demand.
func (s *billingAnalyticsService) GetAllUsersBilling(ctx context.Context, granularity TrendGranularity) ([]UserBillingInfo, error) {
	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]UserBillingInfo, 0, len(users))
	for i := range users {
		user := users[i]

		summary, err := s.ledger.GetMonthlyUsage(ctx, user.ID, "")
		if err != nil {
			return nil, err
		}

		history, err := s.billingRepo.ListByUser(ctx, user.ID)
		if err != nil {
			return nil, err
		}

		recent, err := s.eventRepo.ListRecent(ctx, user.ID, recentEventCount)
		if err != nil {
			return nil, err
		}

		trend, err := s.usageTrend(ctx, user.ID, granularity)
		if err != nil {
			return nil, err
		}

		infos = append(infos, UserBillingInfo{
			User:           &user,
			CurrentMonth:   summary,
			BillingHistory: history,
			RecentEvents:   recent,
			UsageTrend:     trend,
		})
	}

	return infos, nil
}

// GetBillingStats computes fleet-wide totals. Results are cached briefly in
// Redis; the scan over full event history is too slow for hot paths.
func (s *billingAnalyticsService) GetBillingStats(ctx context.Context) (*BillingStats, error) {
	if s.cache != nil {
		var cached BillingStats
		hit, err := s.cache.GetJSON(ctx, billingStatsCacheKey, &cached)
		if err != nil {
			logger.LogEvent(logrus.WarnLevel, "Billing stats cache read failed", logrus.Fields{"error": err.Error()})
		} else if hit {
			return &cached, nil
		}
	}

	stats, err := s.computeBillingStats(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, billingStatsCacheKey, stats, billingStatsCacheTTL); err != nil {
			logger.LogEvent(logrus.WarnLevel, "Billing stats cache write failed", logrus.Fields{"error": err.Error()})
		}
	}

	return stats, nil
}

func (s *billingAnalyticsService) computeBillingStats(ctx context.Context) (*BillingStats, error) {
	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	total := int64(len(users))

	allEvents, err := s.eventRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	monthStart, monthEnd, _ := monthPeriod("")

	tierByUser := make(map[uuid.UUID]models.SubscriptionTier, len(users))
	emailByUser := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		tierByUser[u.ID] = u.Tier
		emailByUser[u.ID] = u.Email
	}

	stats := &BillingStats{
		TotalUsers:     total,
		TotalRevenue:   decimal.Zero,
		MonthlyRevenue: decimal.Zero,
		RevenueByTier: map[models.SubscriptionTier]decimal.Decimal{
			models.BasicTier:      decimal.Zero,
			models.ProTier:        decimal.Zero,
			models.EnterpriseTier: decimal.Zero,
		},
	}

	var totalTokens int64
	monthlyCost := make(map[uuid.UUID]decimal.Decimal)
	monthlyTokens := make(map[uuid.UUID]int64)

	for _, e := range allEvents {
		stats.TotalRevenue = stats.TotalRevenue.Add(e.TotalCost)
		totalTokens += e.TokensUsed

		if tier, ok := tierByUser[e.UserID]; ok {
			stats.RevenueByTier[tier] = stats.RevenueByTier[tier].Add(e.TotalCost)
		}

		if !e.CreatedAt.Before(monthStart) && e.CreatedAt.Before(monthEnd) {
			stats.MonthlyRevenue = stats.MonthlyRevenue.Add(e.TotalCost)
			cost, ok := monthlyCost[e.UserID]
			if !ok {
				cost = decimal.Zero
			}
			monthlyCost[e.UserID] = cost.Add(e.TotalCost)
			monthlyTokens[e.UserID] += e.TokensUsed
		}
	}

	if total > 0 {
		stats.AvgTokensPerUser = decimal.NewFromInt(totalTokens).
			Div(decimal.NewFromInt(total)).
			Round(2)
	} else {
		stats.AvgTokensPerUser = decimal.Zero
	}

	spenders := make([]TopSpender, 0, len(monthlyCost))
	for userID, cost := range monthlyCost {
		spenders = append(spenders, TopSpender{
			UserID: userID,
			Email:  emailByUser[userID],
			Tokens: monthlyTokens[userID],
			Cost:   cost,
		})
	}

	// Cost descending, user id ascending on ties for a deterministic order
	sort.Slice(spenders, func(i, j int) bool {
		if !spenders[i].Cost.Equal(spenders[j].Cost) {
			return spenders[i].Cost.GreaterThan(spenders[j].Cost)
		}
		return spenders[i].UserID.String() < spenders[j].UserID.String()
	})

	if len(spenders) > topSpenderCount {
		spenders = spenders[:topSpenderCount]
	}
	stats.TopSpenders = spenders

	return stats, nil
}

// MaterializeBillingRecords writes one pending billing record per user for
// the period. Called by the external settlement job; payment status
// transitions stay with the payment collaborator.
func (s *billingAnalyticsService) MaterializeBillingRecords(ctx context.Context, period string) (int, error) {
	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	written := 0
	for _, user := range users {
		summary, err := s.ledger.GetMonthlyUsage(ctx, user.ID, period)
		if err != nil {
			return written, err
		}
		if summary.TotalTokens == 0 {
			continue
		}

		record := &models.BillingRecord{
			UserID:        user.ID,
			Period:        summary.Month,
			TotalTokens:   summary.TotalTokens,
			TotalCost:     summary.TotalCost,
			PaymentStatus: models.PaymentPending,
		}
		if err := s.billingRepo.Upsert(ctx, record); err != nil {
			return written, err
		}
		written++
	}

	return written, nil
}

// UpdatePaymentStatus records the settlement outcome reported by the
// external payment collaborator against a materialized billing record.
func (s *billingAnalyticsService) UpdatePaymentStatus(ctx context.Context, recordID uuid.UUID, status models.PaymentStatus) error {
	switch status {
	case models.PaymentPending, models.PaymentPaid, models.PaymentOverdue, models.PaymentCancelled:
	default:
		return errors.ErrInvalidInput
	}

	if err := s.billingRepo.UpdateStatus(ctx, recordID, status); err != nil {
		if err == repository.ErrBillingRecordNotFound {
			return errors.ErrNotFound
		}
		return err
	}
	return nil
}

func (s *billingAnalyticsService) usageTrend(ctx context.Context, userID uuid.UUID, granularity TrendGranularity) ([]TrendPoint, error) {
	var periodStart, periodEnd time.Time
	var bucket func(t time.Time) string

	now := time.Now().UTC()
	switch granularity {
	case MonthlyTrend:
		periodStart = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(-1, 1, 0)
		periodEnd = now
		bucket = func(t time.Time) string { return t.UTC().Format("2006-01") }
	default:
		periodStart, periodEnd, _ = monthPeriod("")
		bucket = func(t time.Time) string { return t.UTC().Format("2006-01-02") }
	}

	events, err := s.eventRepo.ListByUserPeriod(ctx, userID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}

	byBucket := make(map[string]*TrendPoint)
	keys := make([]string, 0)
	for _, e := range events {
		key := bucket(e.CreatedAt)
		point, ok := byBucket[key]
		if !ok {
			point = &TrendPoint{Date: key, Cost: decimal.Zero}
			byBucket[key] = point
			keys = append(keys, key)
		}
		point.Tokens += e.TokensUsed
		point.Cost = point.Cost.Add(e.TotalCost)
	}

	sort.Strings(keys)
	trend := make([]TrendPoint, 0, len(keys))
	for _, key := range keys {
		trend = append(trend, *byBucket[key])
	}

	return trend, nil
}
