package services

import (
	"context"

	"github.com/shashiranjanraj/devburger/pkg/metrics"
	"github.com/shashiranjanraj/devburger/pkg/payment"
)

type PaymentService struct {
	gateway  payment.Gateway
	currency string
}

func NewPaymentService(gateway payment.Gateway, currency string) *PaymentService {
	return &PaymentService{gateway: gateway, currency: currency}
}

// CreateIntent charges the sum of the given lines.
//
// Prices here come from the client, unlike order placement which reads the
// catalog. The two totals can disagree.
func (s *PaymentService) CreateIntent(ctx context.Context, lines []payment.Line) (*payment.Intent, error) {
	intent, err := s.gateway.CreatePaymentIntent(ctx, payment.MinorUnits(lines), s.currency)
	metrics.RecordPaymentIntent(err)
	if err != nil {
		return nil, err
	}
	return intent, nil
}
