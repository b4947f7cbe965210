package services

import (
	"context"
	"os"

	"mysre-api/internal/pkg/errors"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/paymentintent"
)

// TopUpIntent is the placeholder payment intent returned to the UI. The
// real payment confirmation flow lives with the external payment
// collaborator; this service only opens a pending transaction.
type TopUpIntent struct {
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
}

type PaymentService interface {
	CreateTopUpIntent(ctx context.Context, userID uuid.UUID, amount int64, method string) (*TopUpIntent, error)
}

type paymentService struct {
	stripeKey string
}

func NewPaymentService() PaymentService {
	key := os.Getenv("STRIPE_SECRET_KEY")
	if key != "" {
		stripe.Key = key
	}
	return &paymentService{stripeKey: key}
}

func (s *paymentService) CreateTopUpIntent(ctx context.Context, userID uuid.UUID, amount int64, method string) (*TopUpIntent, error) {
	if amount <= 0 {
		return nil, errors.ErrInvalidAmount
	}

	if s.stripeKey == "" {
		// No payment backend configured; hand back a locally generated
		// pending transaction so the UI flow stays testable
		return &TopUpIntent{
			TransactionID: "txn_" + uuid.NewString(),
			Status:        "pending",
		}, nil
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
	}
	params.AddMetadata("user_id", userID.String())
	params.AddMetadata("method", method)

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, err
	}

	return &TopUpIntent{
		TransactionID: pi.ID,
		Status:        "pending",
	}, nil
}
