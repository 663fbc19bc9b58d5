package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"localespot/docs" //this is required to generate swagger docs
	"localespot/internal/auth"
	"localespot/internal/geo"
	"localespot/internal/mailer"
	"localespot/internal/mapview"
	"localespot/internal/notifications"
	"localespot/internal/payments"
	"localespot/internal/ratelimiter"
	"localespot/internal/share"
	"localespot/internal/store"

	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type application struct {
	config        config
	store         store.Storage
	logger        *zap.SugaredLogger
	cld           *cloudinary.Cloudinary
	mailer        mailer.Client
	authenticator auth.Authenticator
	rateLimiter   ratelimiter.Limiter
	geo           *geo.MapboxClient
	mapView       *mapview.View
	payments      *payments.PaymentManager
	shareCodes    *share.Codec
	push          notifications.PushSender
}

type config struct {
	addr        string
	db          dbConfig
	env         string
	apiURL      string
	mail        mailConfig
	frontendURL string
	auth        authConfig
	rateLimiter ratelimiter.Config
	trial       trialConfig
	checkout    checkoutConfig
}

type authConfig struct {
	basic basicConfig
	token tokenConfig
}
type tokenConfig struct {
	refreshSecret   string
	secret          string
	accessTokenExp  time.Duration
	refreshTokenExp time.Duration
	iss             string
}
type basicConfig struct {
	user string
	pass string
}

type mailConfig struct {
	exp       time.Duration
	fromEmail string
	smtp      smtpConfig
}

type smtpConfig struct {
	host     string
	port     int
	username string
	password string
}

type dbConfig struct {
	addr         string
	maxOpenConns int
	maxIdleConns int
	maxIdleTime  string
}

// trialConfig controls the free trial granted on demand: its length and how
// close to expiry the reminder push goes out.
type trialConfig struct {
	duration     time.Duration
	reminderLead time.Duration
}

// checkoutConfig is the one-time premium purchase as presented on the
// provider's hosted page.
type checkoutConfig struct {
	productName string
	description string
	currency    string
	amountCents int64
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(app.RateLimiterMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	//Set a timeout value on the request context (ctx), that will signal through ctx.Done() that the request has timed out and further processing should be stopped
	r.Use(middleware.Timeout(60 * time.Second))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.With(app.BasicAuthMiddleware()).Get("/health", app.healthCheckHandler)
		docsURL := fmt.Sprintf("%s/swagger/doc.json", app.config.addr)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))

		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		// Public routes
		r.Route("/authentication", func(r chi.Router) {
			r.Post("/user", app.registerUserHandler)
			r.Post("/token", app.createTokenHandler)
			r.Post("/refresh", app.refreshTokenHandler)
		})

		// Route that does NOT require authentication
		r.Put("/users/activate/{token}", app.activateUserHandler)

		r.Route("/users", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Put("/", app.updateUserHandler)
			r.Post("/logout", app.logoutHandler)
			r.Post("/profile-picture", app.uploadProfilePictureHandler)
			r.Post("/push-token", app.savePushTokenHandler)
			r.Delete("/push-token", app.removePushTokenHandler)
		})

		r.Route("/places", func(r chi.Router) {
			r.Get("/", app.getPlacesHandler)
			r.Get("/{placeID}", app.getPlaceHandler)
			r.Get("/code/{code}", app.getPlaceByCodeHandler)

			r.Group(func(r chi.Router) {
				r.Use(app.AuthTokenMiddleware)
				r.Post("/", app.createPlaceHandler)
				r.Post("/{placeID}/photos", app.uploadPlacePhotoHandler)
				r.Delete("/{placeID}/photos", app.deletePlacePhotoHandler) // DELETE /places/{placeID}/photos?photo_url={url}

				r.Post("/{placeID}/reviews", app.createReviewHandler)
				r.Get("/{placeID}/reviews", app.getReviewsHandler)
				r.Delete("/{placeID}/reviews/{reviewID}", app.deleteReviewHandler)
			})
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Get("/", app.getWishlistHandler)
			r.Put("/{placeID}", app.toggleWishlistHandler)
			r.Delete("/{placeID}", app.removeWishlistHandler)
		})

		r.Route("/map", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Use(app.RequireAccess)
			r.Get("/", app.getMapHandler)
			r.Get("/token", app.getMapTokenHandler)
			r.Post("/geocode", app.geocodeHandler)
			r.Post("/markers/{placeID}/click", app.markerClickHandler)
			r.Post("/popup/{placeID}", app.openPopupHandler)
			r.Delete("/popup", app.closePopupHandler)
		})

		r.Route("/subscription", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Get("/", app.getSubscriptionHandler)
			r.Post("/trial", app.startTrialHandler)
			r.Post("/checkout", app.createCheckoutHandler)
			r.Get("/payment-success", app.paymentSuccessHandler)
		})
	})
	return r
}

func (app *application) run(mux http.Handler) error {
	// Docs
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/v1"

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	// Implementing graceful shutdown
	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
