package payments

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStripeCreateCheckoutSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/checkout/sessions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test_123" {
			t.Errorf("authorization = %q", got)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.PostForm.Get("mode"); got != "payment" {
			t.Errorf("mode = %q", got)
		}
		if got := r.PostForm.Get("line_items[0][price_data][unit_amount]"); got != "500" {
			t.Errorf("unit_amount = %q", got)
		}
		if got := r.PostForm.Get("line_items[0][price_data][product_data][name]"); got != "Premium Access" {
			t.Errorf("product name = %q", got)
		}
		fmt.Fprint(w, `{"id":"cs_test_1","url":"https://checkout.stripe.com/c/pay/cs_test_1"}`)
	}))
	defer srv.Close()

	adapter := NewStripeAdapter("sk_test_123")
	adapter.baseURL = srv.URL

	resp, err := adapter.CreateCheckoutSession(context.Background(), CheckoutRequest{
		CustomerEmail: "demo@example.com",
		ProductName:   "Premium Access",
		Description:   "Lifetime access to all features",
		Currency:      "eur",
		AmountCents:   500,
		SuccessURL:    "https://app.example.com/payment-success",
		CancelURL:     "https://app.example.com/",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.SessionID != "cs_test_1" || resp.URL != "https://checkout.stripe.com/c/pay/cs_test_1" {
		t.Errorf("response = %+v", resp)
	}
}

func TestStripeErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		fmt.Fprint(w, `{"error":{"message":"card declined"}}`)
	}))
	defer srv.Close()

	adapter := NewStripeAdapter("sk_test_123")
	adapter.baseURL = srv.URL

	if _, err := adapter.CreateCheckoutSession(context.Background(), CheckoutRequest{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestManagerUnknownGateway(t *testing.T) {
	m := NewPaymentManager()
	if _, err := m.CreateCheckoutSession(context.Background(), "paypal", CheckoutRequest{}); err == nil {
		t.Fatal("expected error for unregistered gateway")
	}
}
