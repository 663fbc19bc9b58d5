package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// StripeAdapter creates Stripe Checkout Sessions. Stripe's API is
// form-encoded; the hosted page URL comes back in the session object.
type StripeAdapter struct {
	SecretKey  string
	baseURL    string
	httpClient *http.Client
}

func NewStripeAdapter(secretKey string) *StripeAdapter {
	return &StripeAdapter{
		SecretKey:  secretKey,
		baseURL:    "https://api.stripe.com",
		httpClient: http.DefaultClient,
	}
}

func (s *StripeAdapter) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (CheckoutResponse, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("customer_email", req.CustomerEmail)
	form.Set("success_url", req.SuccessURL)
	form.Set("cancel_url", req.CancelURL)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", req.Currency)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(req.AmountCents, 10))
	form.Set("line_items[0][price_data][product_data][name]", req.ProductName)
	if req.Description != "" {
		form.Set("line_items[0][price_data][product_data][description]", req.Description)
	}

	endpoint := s.baseURL + "/v1/checkout/sessions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return CheckoutResponse{}, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+s.SecretKey)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return CheckoutResponse{}, fmt.Errorf("stripe checkout request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		// return raw error for logging/support
		return CheckoutResponse{}, fmt.Errorf("stripe checkout failed: status %d, body: %s", resp.StatusCode, string(raw))
	}

	var session struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := json.Unmarshal(raw, &session); err != nil {
		return CheckoutResponse{}, fmt.Errorf("stripe checkout response: %w", err)
	}
	if session.URL == "" {
		return CheckoutResponse{}, fmt.Errorf("stripe checkout response missing url")
	}

	return CheckoutResponse{SessionID: session.ID, URL: session.URL}, nil
}
