package payments

// CheckoutRequest describes a one-time purchase to be completed on the
// provider's hosted checkout page.
type CheckoutRequest struct {
	CustomerEmail string
	ProductName   string
	Description   string
	Currency      string
	AmountCents   int64
	SuccessURL    string
	CancelURL     string
}

// CheckoutResponse carries the redirect URL of the hosted checkout page.
type CheckoutResponse struct {
	SessionID string
	URL       string
}
