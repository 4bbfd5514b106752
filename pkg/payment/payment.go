// Package payment creates payment intents on Stripe.
package payment

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
)

const dpmCheckerURL = "https://dashboard.stripe.com/settings/payment_methods/review?transaction_id="

// Intent is the client-facing handle of a created payment intent.
type Intent struct {
	ID           string
	ClientSecret string
}

// DPMCheckerLink points at Stripe's dynamic payment methods review page.
func (i *Intent) DPMCheckerLink() string {
	return dpmCheckerURL + i.ID
}

// Gateway creates payment intents. amount is in minor currency units.
type Gateway interface {
	CreatePaymentIntent(ctx context.Context, amount int64, currency string) (*Intent, error)
}

// GatewayError carries the processor's message back to the caller.
type GatewayError struct {
	Message string
	Err     error
}

func (e *GatewayError) Error() string { return "payment gateway: " + e.Message }
func (e *GatewayError) Unwrap() error { return e.Err }

// Line is one priced item of a checkout.
type Line struct {
	Price    decimal.Decimal
	Quantity int64
}

// MinorUnits sums price×quantity and converts the total to cents, rounding
// half away from zero.
func MinorUnits(lines []Line) int64 {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Price.Mul(decimal.NewFromInt(l.Quantity)))
	}
	return total.Shift(2).Round(0).IntPart()
}

// Stripe is the stripe-go backed Gateway.
type Stripe struct {
	api *client.API
}

// NewStripe builds a client for secretKey using the default backends.
func NewStripe(secretKey string) *Stripe {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Stripe{api: api}
}

func (s *Stripe) CreatePaymentIntent(ctx context.Context, amount int64, currency string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		var se *stripe.Error
		if errors.As(err, &se) && se.Msg != "" {
			return nil, &GatewayError{Message: se.Msg, Err: err}
		}
		return nil, &GatewayError{Message: err.Error(), Err: err}
	}
	return &Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// Fake is an in-memory Gateway for tests. It records every amount it was
// asked for.
type Fake struct {
	Amounts []int64
	Err     error

	mu  sync.Mutex
	seq int
}

func (f *Fake) CreatePaymentIntent(_ context.Context, amount int64, _ string) (*Intent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return nil, &GatewayError{Message: f.Err.Error(), Err: f.Err}
	}
	f.seq++
	f.Amounts = append(f.Amounts, amount)
	id := fmt.Sprintf("pi_fake_%d", f.seq)
	return &Intent{ID: id, ClientSecret: id + "_secret"}, nil
}

// Offline hands out local intents without contacting a processor. The server
// uses it when no Stripe key is configured; it keeps no state.
type Offline struct{}

func (Offline) CreatePaymentIntent(ctx context.Context, amount int64, _ string) (*Intent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, &GatewayError{Message: "Amount must be greater than zero"}
	}
	id := "pi_offline_" + uuid.NewString()
	return &Intent{ID: id, ClientSecret: id + "_secret"}, nil
}
