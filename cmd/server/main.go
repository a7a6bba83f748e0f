// Command server runs the sahayak field-data gateway: offline beneficiary
// records, sync reconciliation, scheme applications, the digital khata,
// impact audits and delivery confirmation, all over a pluggable record store.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"sahayak/internal/application"
	applicationHandler "sahayak/internal/application/handler"
	"sahayak/internal/audit"
	"sahayak/internal/beneficiary"
	beneficiaryHandler "sahayak/internal/beneficiary/handler"
	"sahayak/internal/delivery"
	deliveryHandler "sahayak/internal/delivery/handler"
	"sahayak/internal/impact"
	impactHandler "sahayak/internal/impact/handler"
	"sahayak/internal/khata"
	khataHandler "sahayak/internal/khata/handler"
	"sahayak/internal/location"
	"sahayak/internal/platform/config"
	"sahayak/internal/platform/httpserver"
	"sahayak/internal/platform/logger"
	"sahayak/internal/platform/metrics"
	"sahayak/internal/platform/postgres"
	"sahayak/internal/platform/redis"
	"sahayak/internal/ratelimit"
	"sahayak/internal/reconciler"
	reconcilerHandler "sahayak/internal/reconciler/handler"
	"sahayak/internal/recordstore"
	speechHandler "sahayak/internal/speech/handler"
	httptransport "sahayak/internal/transport/http"
	"sahayak/pkg/secrets"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		log.Error("open record store", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	defer cleanup()

	var publisher audit.Publisher = audit.NewLogPublisher(log)
	if len(cfg.Kafka.Brokers) > 0 {
		kafka, err := audit.NewKafkaPublisher(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			log.Error("connect audit stream", "error", err)
			os.Exit(1)
		}
		defer kafka.Close()
		publisher = kafka
	}

	key, err := cfg.SealingKeyBytes()
	if err != nil {
		log.Error("decode sealing key", "error", err)
		os.Exit(1)
	}
	cipher, err := secrets.NewCipher(key)
	if err != nil {
		log.Error("build cipher", "error", err)
		os.Exit(1)
	}

	m := metrics.New()

	var transport reconciler.UploadTransport = reconciler.SimulatedTransport{Latency: cfg.Sync.UploadDelay}
	if cfg.Sync.PortalURL != "" {
		transport = reconciler.NewPortalTransport(cfg.Sync.PortalURL)
	}

	records := beneficiary.New(kv,
		beneficiary.WithLogger(log),
		beneficiary.WithAuditPublisher(publisher),
		beneficiary.WithMetrics(m),
	)
	sync := reconciler.New(kv, transport,
		reconciler.WithLogger(log),
		reconciler.WithAuditPublisher(publisher),
		reconciler.WithMetrics(m),
		reconciler.WithTimeout(cfg.Sync.Timeout),
	)
	applications := application.New(kv, cipher,
		application.WithLogger(log),
		application.WithAuditPublisher(publisher),
		application.WithMetrics(m),
	)
	ledger := khata.New(kv,
		khata.WithLogger(log),
		khata.WithAuditPublisher(publisher),
		khata.WithMetrics(m),
	)
	audits := impact.New(kv, impact.NewSurveyRegistry(kv),
		impact.WithLogger(log),
		impact.WithAuditPublisher(publisher),
		impact.WithMetrics(m),
	)

	tokens := delivery.NewTokenService(cfg.JWTSigningKey, cfg.DeliveryTokenTTL)
	deliveries := delivery.New(kv,
		delivery.Fence{
			Center:       location.Coordinate{Lat: cfg.Fence.CenterLat, Lon: cfg.Fence.CenterLon},
			RadiusMeters: cfg.Fence.RadiusMeters,
		},
		delivery.MockAuthenticator{Code: cfg.DemoOTP},
		tokens,
		delivery.WithLogger(log),
		delivery.WithAuditPublisher(publisher),
		delivery.WithMetrics(m),
	)

	router := httptransport.NewRouter(log, m,
		beneficiaryHandler.New(records, log),
		reconcilerHandler.New(sync, log),
		applicationHandler.New(applications, log),
		khataHandler.New(ledger, log),
		impactHandler.New(audits, log),
		deliveryHandler.New(deliveries, tokens, log,
			deliveryHandler.WithOTPGuard(ratelimit.Guard(otpLimiter(cfg), log))),
		speechHandler.New(log),
	)
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr, "store", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

// otpLimiter shares OTP attempt windows across instances when a redis is
// configured, and counts locally otherwise.
func otpLimiter(cfg *config.Config) ratelimit.Limiter {
	if cfg.Redis.URL != "" {
		if client, err := redis.New(cfg.Redis); err == nil && client != nil {
			return ratelimit.NewRedisLimiter(client.Client, cfg.OTPRateLimit, cfg.OTPRateWindow)
		}
	}
	return ratelimit.NewMemoryLimiter(cfg.OTPRateLimit, cfg.OTPRateWindow)
}

// openStore selects the KV backend. The returned cleanup is safe to call even
// for the in-memory store.
func openStore(ctx context.Context, cfg *config.Config) (recordstore.KV, func(), error) {
	switch cfg.StoreBackend {
	case "redis":
		client, err := redis.New(cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return recordstore.NewRedisKV(client.Client), func() { _ = client.Close() }, nil
	case "postgres":
		db, err := postgres.Open(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		kv := recordstore.NewPostgresKV(db)
		if err := kv.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return kv, func() { _ = db.Close() }, nil
	default:
		return recordstore.NewInMemoryKV(), func() {}, nil
	}
}
