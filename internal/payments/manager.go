package payments

import (
	"context"
	"fmt"
)

type PaymentManager struct {
	gateways map[string]PaymentGateway
}

func NewPaymentManager() *PaymentManager {
	return &PaymentManager{gateways: make(map[string]PaymentGateway)}
}

func (m *PaymentManager) RegisterGateway(name string, gateway PaymentGateway) {
	m.gateways[name] = gateway
}

func (m *PaymentManager) CreateCheckoutSession(ctx context.Context, method string, req CheckoutRequest) (CheckoutResponse, error) {
	gateway, ok := m.gateways[method]
	if !ok {
		return CheckoutResponse{}, fmt.Errorf("gateway not registered: %s", method)
	}
	return gateway.CreateCheckoutSession(ctx, req)
}
