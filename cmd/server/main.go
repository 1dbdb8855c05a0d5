package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"route-consolidation-service/internal/adapters/alerts"
	"route-consolidation-service/internal/adapters/cache"
	"route-consolidation-service/internal/adapters/directions"
	"route-consolidation-service/internal/adapters/locks"
	"route-consolidation-service/internal/adapters/memory"
	"route-consolidation-service/internal/adapters/publisher"
	"route-consolidation-service/internal/adapters/repositories"
	"route-consolidation-service/internal/api"
	"route-consolidation-service/internal/config"
	"route-consolidation-service/internal/platform/db"
	"route-consolidation-service/internal/platform/telemetry"
	"route-consolidation-service/internal/ports"
	"route-consolidation-service/internal/services"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// main is the application composition root.
// It wires concrete adapters behind ports and starts the HTTP server and the
// at-risk scan scheduler.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load(config.Get("CONFIG_PATH", ""))
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	shutdownTelemetry, err := telemetry.Init(ctx, cfg.Telemetry.OTLPEndpoint, cfg.Telemetry.ServiceName, cfg.Telemetry.Insecure)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(sctx); err != nil {
			log.Printf("telemetry shutdown: %v", err)
		}
	}()

	conn, err := db.Open(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer conn.Close()

	dialect, err := repositories.DialectFor(cfg.Database.Driver)
	if err != nil {
		return err
	}
	if err := repositories.InitSchema(ctx, conn, dialect); err != nil {
		return err
	}
	repo := repositories.NewSQLParcelRepository(conn, dialect)

	var (
		locker     ports.Locker     = memory.NewLocker()
		alertStore ports.AlertStore = memory.NewAlertStore()
	)
	if cfg.Redis.Address != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping %s: %w", cfg.Redis.Address, err)
		}
		log.Printf("redis connected addr=%s", cfg.Redis.Address)
		locker = locks.NewRedisLocker(client)
		alertStore = alerts.NewRedisAlertStore(client)
	}

	provider, err := newDirectionsProvider(cfg, conn, dialect)
	if err != nil {
		return err
	}

	pub, closePub, err := newPublisher(cfg)
	if err != nil {
		return err
	}
	defer closePub()

	est := services.Estimator{
		AverageSpeedKmh: cfg.Engine.AverageSpeedKmh,
		PickupMinutes:   cfg.Engine.PickupMinutes,
		DeliveryMinutes: cfg.Engine.DeliveryMinutes,
		TrafficBuffer:   cfg.Engine.TrafficBuffer,
	}
	evaluator := services.NewRiskEvaluator(est)
	evaluator.Location = loc

	scanner := services.NewAtRiskScanner(repo, nil)
	sla := services.NewSLAService(
		repo,
		evaluator,
		services.NewImpactCalculator(est),
		scanner,
		services.NewComplianceReporter(repo),
		services.NewTravelDistance(provider, cfg.Directions.Timeout),
	)
	routes := services.NewRouteService(locker, cfg.Engine.RouteLockTTL)

	var scheduler *services.ScanScheduler
	if cfg.Scanner.Enabled {
		scheduler = services.NewScanScheduler(scanner, alertStore, pub, cfg.Scanner.Interval, cfg.Scanner.WindowMinutes)
		scheduler.Start(context.WithoutCancel(ctx))
		defer scheduler.Stop()
		log.Printf("scan scheduler started interval=%s window_min=%d", cfg.Scanner.Interval, cfg.Scanner.WindowMinutes)
	}

	router := api.NewRouter(api.Deps{
		Store:               repo,
		Alerts:              alertStore,
		SLA:                 sla,
		Routes:              routes,
		SafetyMarginMinutes: cfg.Engine.SafetyMarginMinutes,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server listening addr=:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("shutting down")
	if scheduler != nil {
		// Let a running scan store and publish its results first.
		scheduler.Stop()
	}
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(sctx)
}

// newDirectionsProvider returns nil when no ORS key is configured; distances
// then come from Haversine alone.
func newDirectionsProvider(cfg config.Config, conn *sql.DB, d repositories.Dialect) (ports.DirectionsProvider, error) {
	if cfg.Directions.ORSAPIKey == "" {
		log.Println("ORS_API_KEY not set; using straight-line distances")
		return nil, nil
	}
	p, err := directions.NewORSDirectionsProvider(
		cfg.Directions.ORSAPIKey,
		cfg.Directions.BaseURL,
		cfg.Directions.Profile,
		cache.NewSQLDirectionsCache(conn, d),
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func newPublisher(cfg config.Config) (ports.AlertPublisher, func(), error) {
	switch cfg.Publisher.Kind {
	case "kafka":
		p, err := publisher.NewKafkaPublisher(cfg.Publisher.KafkaBrokers, cfg.Publisher.KafkaTopic)
		if err != nil {
			return nil, nil, err
		}
		return p, func() { _ = p.Close() }, nil
	case "rabbitmq":
		p, err := publisher.NewRabbitMQPublisher(cfg.Publisher.RabbitURL, cfg.Publisher.Exchange)
		if err != nil {
			return nil, nil, err
		}
		return p, func() { _ = p.Close() }, nil
	default:
		return publisher.NewLogPublisher(), func() {}, nil
	}
}
