package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"travel/analytics"
	"travel/booking"
	"travel/cache"
	"travel/config"
	"travel/db"
	"travel/dedup"
	"travel/http"
	"travel/message"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type Service struct {
	bindAddr   string
	msgRouter  *message.Router
	httpRouter *echo.Echo
}

func New(
	cfg config.Config,
	logger watermill.LoggerAdapter,
	dbConn *sqlx.DB,
	redisClient *redis.Client,
	verifier http.TokenVerifier,
) (*Service, error) {
	publisher, err := message.NewPublisher(redisClient, logger)
	if err != nil {
		return nil, fmt.Errorf("creating publisher: %w", err)
	}

	flightRepo := db.NewFlightRepo(dbConn)
	hotelRepo := db.NewHotelRepo(dbConn)
	carRepo := db.NewCarRepo(dbConn)
	bookingRepo := db.NewBookingRepo(dbConn)
	paymentRepo := db.NewPaymentRepo(dbConn)

	listingCache := cache.New(redisClient)
	aggregator := analytics.New(redisClient)

	coordinator := booking.New(booking.Deps{
		DB:        dbConn,
		Flights:   flightRepo,
		Hotels:    hotelRepo,
		Cars:      carRepo,
		Bookings:  bookingRepo,
		Payments:  paymentRepo,
		Publisher: publisher,
		Cache:     listingCache,
	})

	msgRouter, err := message.NewRouter(message.RouterDeps{
		Aggregator: aggregator,
		Logger:     logger,
		NewDeduplicator: func(domain string) message.Deduplicator {
			return dedup.New(redisClient, domain, cfg.DedupTTL)
		},
		RedisClient: redisClient,
	})
	if err != nil {
		return nil, fmt.Errorf("creating message router: %w", err)
	}

	httpRouter := http.NewRouter(http.RouterDeps{
		Analytics:  aggregator,
		Bookings:   coordinator,
		Cache:      listingCache,
		Cars:       carRepo,
		Flights:    flightRepo,
		Hotels:     hotelRepo,
		ListingTTL: cfg.ListingCacheTTL,
		SearchTTL:  cfg.SearchCacheTTL,
		Verifier:   verifier,
	})

	return &Service{
		bindAddr:   cfg.BindAddr,
		msgRouter:  msgRouter,
		httpRouter: httpRouter,
	}, nil
}

func (s Service) Run(ctx context.Context) error {
	g, runCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := s.msgRouter.Run(runCtx); err != nil {
			return fmt.Errorf("running messaging router: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		// Wait for message router
		<-s.msgRouter.Running()

		logrus.Info("Starting HTTP server...")
		err := s.httpRouter.Start(s.bindAddr)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("starting http server: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-runCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		logrus.Info("Shutting down HTTP server...")
		if err := s.httpRouter.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down http server: %w", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("waiting for shutdown: %w", err)
	}
	logrus.Info("Shutdown complete.")

	return nil
}
