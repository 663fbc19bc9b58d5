package geo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTokenUnconfigured(t *testing.T) {
	c := NewMapboxClient("")
	if _, err := c.Token(context.Background()); err == nil {
		t.Fatal("expected error for unconfigured token")
	}
}

func TestToken(t *testing.T) {
	c := NewMapboxClient("pk.test")
	token, err := c.Token(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "pk.test" {
		t.Errorf("token = %q", token)
	}
}

func TestGeocode(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, `{"features":[{"center":[-74.005974,40.712776]}]}`)
	}))
	defer srv.Close()

	c := NewMapboxClient("pk.test")
	c.baseURL = srv.URL

	lng, lat, ok, err := c.Geocode(context.Background(), "123 Skyline Avenue, New York, NY")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || lng != -74.005974 || lat != 40.712776 {
		t.Errorf("got (%v, %v, %v)", lng, lat, ok)
	}

	// Second lookup for the same address is served from the cache.
	_, _, _, err = c.Geocode(context.Background(), "123 Skyline Avenue, New York, NY")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if requests != 1 {
		t.Errorf("made %d upstream requests, want 1", requests)
	}
}

func TestGeocodeNoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"features":[]}`)
	}))
	defer srv.Close()

	c := NewMapboxClient("pk.test")
	c.baseURL = srv.URL

	_, _, ok, err := c.Geocode(context.Background(), "nowhere")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected no match")
	}
}

func TestGeocodeUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewMapboxClient("pk.bad")
	c.baseURL = srv.URL

	if _, _, _, err := c.Geocode(context.Background(), "anywhere"); err == nil {
		t.Fatal("expected error for upstream failure")
	}
}
