package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// GeocodeRequests counts geocoding lookups by outcome (ok, cached, no_match, error).
var GeocodeRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "localespot_geocode_requests_total",
	Help: "Geocoding lookups by outcome.",
}, []string{"status"})

// CheckoutSessions counts checkout-session creations by gateway and outcome.
var CheckoutSessions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "localespot_checkout_sessions_total",
	Help: "Checkout session creations by gateway and outcome.",
}, []string{"gateway", "status"})

// TrialsExpiring counts trials the background sweep found inside the
// expiry-reminder window.
var TrialsExpiring = promauto.NewCounter(prometheus.CounterOpts{
	Name: "localespot_trials_expiring_total",
	Help: "Trials found near expiry by the background sweep.",
})
