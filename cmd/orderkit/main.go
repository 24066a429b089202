package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/orderkit/orderkit/modules/catalog"
	"github.com/orderkit/orderkit/modules/orders"
	"github.com/orderkit/orderkit/modules/stream"
	"github.com/orderkit/orderkit/pkg/config"
	"github.com/orderkit/orderkit/pkg/email"
	"github.com/orderkit/orderkit/pkg/httpserver"
	"github.com/orderkit/orderkit/pkg/logger"
	"github.com/orderkit/orderkit/pkg/menucache"
	"github.com/orderkit/orderkit/pkg/mongo"
	"github.com/orderkit/orderkit/pkg/notify"
	"github.com/orderkit/orderkit/pkg/pg"
	"github.com/orderkit/orderkit/pkg/push"
	"github.com/orderkit/orderkit/pkg/realtime"
	"github.com/orderkit/orderkit/pkg/redis"
	"github.com/orderkit/orderkit/pkg/sse"
)

type appConfig struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	HTTP  httpserver.Config
	PG    pg.Config
	Redis redis.Config
	Cache menucache.Config
	Push  push.Config
	Email email.Config

	AutoMigrate bool `env:"PG_AUTO_MIGRATE" envDefault:"false"`

	// RealtimeBackend selects the conditional-store adapter backing the
	// order mirror: "rest" for the hosted realtime store, "mongo" for a
	// self-hosted MongoDB collection.
	RealtimeBackend string `env:"REALTIME_BACKEND" envDefault:"rest"`
	Token           realtime.TokenConfig
	Realtime        realtime.RESTConfig
	Mongo           mongo.Config
	MongoDatabase   string `env:"MONGO_REALTIME_DB" envDefault:"orderkit_realtime"`
	MongoCollection string `env:"MONGO_REALTIME_COLLECTION" envDefault:"mirror"`
}

func main() {
	ctx := context.Background()

	var cfg appConfig
	config.MustLoad(&cfg)

	loggerOpt := logger.WithDevelopment("orderkit")
	if cfg.Environment == "production" {
		loggerOpt = logger.WithProduction("orderkit")
	}
	log := logger.New(loggerOpt)
	logger.SetAsDefault(log)

	pool, err := pg.Connect(ctx, cfg.PG)
	if err != nil {
		log.ErrorContext(ctx, "Failed to connect to postgres", logger.Error(err))
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := pg.Migrate(ctx, pool, cfg.PG, log); err != nil {
			log.ErrorContext(ctx, "Failed to apply migrations", logger.Error(err))
			os.Exit(1)
		}
	}

	redisClient, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		log.ErrorContext(ctx, "Failed to connect to redis", logger.Error(err))
		os.Exit(1)
	}
	defer redisClient.Close()

	cache := menucache.New(
		menucache.NewRedisStore(redisClient),
		menucache.NewPGSource(pool),
		cfg.Cache,
		menucache.WithLogger(log),
	)

	readiness := []func(context.Context) error{
		pg.Healthcheck(pool),
		redis.Healthcheck(redisClient),
	}

	var conditionalStore realtime.ConditionalStore
	switch cfg.RealtimeBackend {
	case "mongo":
		db, err := mongo.NewWithDatabase(ctx, cfg.Mongo, cfg.MongoDatabase)
		if err != nil {
			log.ErrorContext(ctx, "Failed to connect to mongo", logger.Error(err))
			os.Exit(1)
		}
		conditionalStore = realtime.NewMongoStore(db.Collection(cfg.MongoCollection))
		readiness = append(readiness, mongo.Healthcheck(db.Client()))
	default:
		tokens, err := realtime.NewTokenManager(cfg.Token)
		if err != nil {
			log.ErrorContext(ctx, "Failed to configure realtime credentials", logger.Error(err))
			os.Exit(1)
		}
		conditionalStore = realtime.NewRESTStore(cfg.Realtime, tokens)
	}
	mirror := realtime.NewSync(conditionalStore,
		realtime.WithSyncLogger(log),
		realtime.WithPickupResolver(stream.PickupFromCache(cache)),
	)

	// Local runs get outbound emails on disk instead of silently dropped.
	if cfg.Environment == "development" && !cfg.Email.Configured() && cfg.Email.DevDir == "" {
		cfg.Email.DevDir = "./tmp/emails"
	}
	sender, err := email.NewSenderFromConfig(cfg.Email)
	if err != nil {
		log.ErrorContext(ctx, "Failed to configure email sender", logger.Error(err))
		os.Exit(1)
	}

	store := notify.NewPGStore(pool)
	dispatcher := push.New(cfg.Push, push.WithLogger(log))
	orchestrator := notify.NewOrchestrator(store, []notify.Channel{
		notify.NewEmailChannel(sender),
		notify.NewPushChannel(dispatcher, store, log),
		notify.NewSMSChannel(),
		notify.NewWhatsAppChannel(),
	}, notify.WithOrchestratorLogger(log))

	broadcaster := sse.NewBroadcaster(sse.WithBroadcasterLogger(log))

	announcer := stream.NewAnnouncer(orchestrator, mirror, broadcaster, cache,
		stream.WithAnnouncerLogger(log))

	r := chi.NewRouter()
	r.Get("/health", httpserver.HealthCheckHandler(ctx, log))
	r.Get("/ready", httpserver.HealthCheckHandler(ctx, log, readiness...))
	r.Mount("/events", stream.Router(broadcaster, log))
	r.Mount("/catalog", catalog.Router(cache, log))
	r.Mount("/orders", orders.Router(announcer, mirror, log))

	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
	if err := srv.Run(ctx, r); err != nil {
		log.ErrorContext(ctx, "HTTP server exited", logger.Error(err))
		os.Exit(1)
	}

	log.InfoContext(ctx, "Shutdown complete", slog.String("service", "orderkit"))
}
