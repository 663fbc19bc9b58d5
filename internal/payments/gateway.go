package payments

import "context"

// PaymentGateway defines a common interface for all payment providers
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (CheckoutResponse, error)
}
