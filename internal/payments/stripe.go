package payments

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"

	"ms-booking/internal/logger"
)

// StripeGateway creates a PaymentIntent for each processed payment and
// records its id as the payment's transaction id. Confirmation happens
// out of band on Stripe's side; this service only initiates the charge.
type StripeGateway struct {
	Logger *logger.Logger
}

func NewStripeGateway(secretKey string, log *logger.Logger) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{Logger: log}
}

func (g *StripeGateway) CreateIntent(amount float64, description string) (string, error) {
	// Stripe amounts are integer cents.
	amountInCents := int64(amount * 100)

	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(amountInCents),
		Currency:    stripe.String(string(stripe.CurrencyUSD)),
		Description: stripe.String(description),
	}
	params.SetIdempotencyKey(uuid.New().String())

	intent, err := paymentintent.New(params)
	if err != nil {
		if g.Logger != nil {
			g.Logger.Error("PAYMENT", fmt.Sprintf("Failed to create Stripe payment intent: %v", err))
		}
		return "", err
	}

	if g.Logger != nil {
		g.Logger.Info("PAYMENT", fmt.Sprintf("Created Stripe payment intent %s for %d cents", intent.ID, amountInCents))
	}
	return intent.ID, nil
}
