package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/shopkit/modules/admin"
	"github.com/dmitrymomot/shopkit/modules/catalog"
	"github.com/dmitrymomot/shopkit/pkg/config"
	"github.com/dmitrymomot/shopkit/pkg/httpserver"
	"github.com/dmitrymomot/shopkit/pkg/logger"
	shopmongo "github.com/dmitrymomot/shopkit/pkg/mongo"
	shopsearch "github.com/dmitrymomot/shopkit/pkg/opensearch"
	"github.com/dmitrymomot/shopkit/pkg/pg"
	shopredis "github.com/dmitrymomot/shopkit/pkg/redis"
	"github.com/dmitrymomot/shopkit/pkg/requestid"
	"github.com/dmitrymomot/shopkit/pkg/tenant"
	"github.com/dmitrymomot/shopkit/pkg/tenant/pgdir"
)

type appConfig struct {
	Env          string `env:"APP_ENV" envDefault:"development"`
	TenantSuffix string `env:"TENANT_DOMAIN_SUFFIX,required"`
	MongoDB      string `env:"MONGODB_DATABASE" envDefault:"shopkit"`
}

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("shopkit stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var (
		appCfg    appConfig
		pgCfg     pg.Config
		mongoCfg  shopmongo.Config
		redisCfg  shopredis.Config
		searchCfg shopsearch.Config
		httpCfg   httpserver.Config
	)
	config.MustLoad(&appCfg)
	config.MustLoad(&pgCfg)
	config.MustLoad(&mongoCfg)
	config.MustLoad(&redisCfg)
	config.MustLoad(&searchCfg)
	config.MustLoad(&httpCfg)

	log := logger.New(
		logger.WithEnvironment(appCfg.Env, "shopkit"),
		logger.WithContextExtractors(
			requestid.LoggerExtractor(),
			tenant.LoggerExtractor(),
		),
	)
	logger.SetAsDefault(log)

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
		return err
	}

	db, err := shopmongo.NewWithDatabase(ctx, mongoCfg, appCfg.MongoDB)
	if err != nil {
		return err
	}
	defer func() { _ = db.Client().Disconnect(context.Background()) }()

	redisClient, err := shopredis.Connect(ctx, redisCfg)
	if err != nil {
		return err
	}
	defer func() { _ = redisClient.Close() }()

	searchClient, err := shopsearch.New(ctx, searchCfg)
	if err != nil {
		return err
	}

	directory, err := pgdir.New(pool)
	if err != nil {
		return err
	}

	products := db.Collection("products")
	if err := shopmongo.EnsureTenantIndexes(ctx, products, "sku", "active"); err != nil {
		return err
	}

	catalogSvc := catalog.NewService(
		shopmongo.NewRepository[catalog.Product](products, shopmongo.WithRepositoryLogger(log)),
		shopredis.NewScopedCache(redisClient, "products"),
		shopsearch.NewScopedIndex(searchClient, "products", shopsearch.WithIndexLogger(log)),
		catalog.WithLogger(log),
	)

	tenantCache := tenant.NewInMemoryCache()
	defer func() { _ = tenantCache.Close() }()

	// The provisioning service shares the alias cache with the middleware
	// so admin writes invalidate resolution immediately.
	tenantSvc := tenant.NewService(directory,
		tenant.WithServiceCache(tenantCache),
		tenant.WithServiceLogger(log),
	)

	resolveTenant := tenant.Middleware(
		tenant.NewCompositeResolver(
			tenant.NewCustomDomainResolver(appCfg.TenantSuffix),
			tenant.NewSubdomainResolver(appCfg.TenantSuffix),
		),
		directory,
		tenant.WithCache(tenantCache),
		tenant.WithLogger(log),
		tenant.WithSkipPaths([]string{"/health", "/metrics", "/admin"}),
	)

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(resolveTenant)
	r.Get("/health", httpserver.HealthCheckHandler(ctx, log,
		pg.Healthcheck(pool),
		shopmongo.Healthcheck(db.Client()),
		shopredis.Healthcheck(redisClient),
		shopsearch.Healthcheck(searchClient),
	))
	r.Mount("/admin", admin.Router(tenantSvc))
	r.Mount("/", catalog.Router(catalogSvc))

	srv := httpserver.NewFromConfig(httpCfg,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(l *slog.Logger) {
			l.Info("shopkit listening", slog.String("addr", httpCfg.Addr))
		}),
	)
	return srv.Run(ctx, r)
}
