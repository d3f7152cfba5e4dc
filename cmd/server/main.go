// Command server runs the cadastre property registry. Wiring only lives
// here; business logic stays in the internal service packages.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	aclhandler "cadastre/internal/accesscontrol/handler"
	aclservice "cadastre/internal/accesscontrol/service"
	"cadastre/internal/accesscontrol/store/acl"
	anchandler "cadastre/internal/ancillary/handler"
	ancservice "cadastre/internal/ancillary/service"
	"cadastre/internal/ancillary/store/ancillary"
	invhandler "cadastre/internal/inventory/handler"
	invservice "cadastre/internal/inventory/service"
	inventorystore "cadastre/internal/inventory/store/inventory"
	jwttoken "cadastre/internal/jwt_token"
	"cadastre/internal/platform/config"
	"cadastre/internal/platform/httpserver"
	"cadastre/internal/platform/logger"
	platformredis "cadastre/internal/platform/redis"
	prophandler "cadastre/internal/property/handler"
	propmetrics "cadastre/internal/property/metrics"
	propservice "cadastre/internal/property/service"
	propstore "cadastre/internal/property/store/property"
	httptransport "cadastre/internal/transport/http"
	id "cadastre/pkg/domain"
	"cadastre/pkg/platform/events"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	healthChecks := make(map[string]func(ctx context.Context) error)

	// Stores: Postgres when configured, in-memory otherwise.
	var (
		propertyStore propservice.Store = propstore.NewInMemory()
		aclStore      aclservice.Store  = acl.NewInMemory()
		eventStore    events.Store      = events.NewInMemoryStore()
		outbox        events.Outbox
	)
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.New(ctx, cfg.Postgres.URL)
		if err != nil {
			log.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		db, err := sql.Open("postgres", cfg.Postgres.URL)
		if err != nil {
			log.Error("failed to open postgres for the outbox", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		pgProperties := propstore.NewPostgres(pool)
		pgACL := acl.NewPostgres(pool)
		pgEvents := events.NewPostgresStore(db)
		for name, migrate := range map[string]func(context.Context) error{
			"properties":     pgProperties.Migrate,
			"access_control": pgACL.Migrate,
			"events":         pgEvents.Migrate,
		} {
			if err := migrate(ctx); err != nil {
				log.Error("migration failed", "table", name, "error", err)
				os.Exit(1)
			}
		}
		propertyStore = pgProperties
		aclStore = pgACL
		eventStore = pgEvents
		outbox = pgEvents
		healthChecks["postgres"] = pool.Ping
	}

	// Ancillary side tables: Redis when configured.
	var ancillaryStore ancillary.Store = ancillary.NewInMemory()
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		ancillaryStore = ancillary.NewRedis(redisClient.Client)
		healthChecks["redis"] = redisClient.Health
	}

	publisher := events.NewPublisher(eventStore)

	aclSvc := aclservice.New(id.Principal(cfg.AdminPrincipal), aclStore, publisher, log)
	propSvc := propservice.NewRegistry(propertyStore, aclSvc, publisher,
		propservice.WithLogger(log),
		propservice.WithMetrics(propmetrics.New()),
	)
	invSvc := invservice.New(inventorystore.NewInMemory(), aclSvc, log)
	ancSvc := ancservice.New(ancillaryStore, aclSvc, log)

	jwtSvc := jwttoken.NewJWTService(cfg.JWTSigningKey, "cadastre", "cadastre")

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:         log,
		TokenValidator: jwttoken.NewJWTServiceAdapter(jwtSvc),
		AdminTokenHash: cfg.AdminTokenHash,
		RequestTimeout: cfg.RequestTimeout,
		Property:       prophandler.New(propSvc, log),
		Inventory:      invhandler.New(invSvc, log),
		Ancillary:      anchandler.New(ancSvc, log),
		AccessControl:  aclhandler.New(aclSvc, log),
		HealthChecks:   healthChecks,
	})

	srv := httpserver.New(cfg.Addr, router)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("starting cadastre", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// The outbox worker needs both a durable outbox and somewhere to drain it.
	if outbox != nil && len(cfg.Kafka.Brokers) > 0 {
		sink, err := events.NewKafkaSink(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic, 3)
		if err != nil {
			log.Error("failed to connect to kafka", "error", err)
			os.Exit(1)
		}
		defer sink.Close()

		worker := events.NewOutboxWorker(outbox, sink, log)
		group.Go(func() error {
			if err := worker.Run(groupCtx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
		log.Info("outbox worker started", "topic", cfg.Kafka.Topic)
	}

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("cadastre stopped")
}
