package main

// POST   /api/signup, /api/login              - accounts
// GET    /api/listProduct, /api/viewProduct/{id}, /api/filterProductByName, /api/productsByCategory/{category}
// POST   /api/addProduct, /api/buyProduct/{id}, /api/rateProduct/{id}
// PUT    /api/updateProduct/{id}, /api/updateStock/{id}
// DELETE /api/deleteProduct/{id}
// GET    /api/topRatedProducts
// POST   /api/createCart, /api/addToCart/{cartId}, /api/removeFromCart/{cartId}   (auth)
// GET    /api/cart/{cartId}                                                       (auth)
// POST   /api/addToWishlist, GET /api/wishlist                                    (auth)
// *      /api/listCustomers, viewCustomer, addCustomer, updateCustomer, deleteCustomer (auth)

// --- EMBED MIGRATIONS ---
import (
	"context"
	_ "embed"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"shop-backend/cache"
	"shop-backend/config"
	"shop-backend/events"
	"shop-backend/handler"
	"shop-backend/logx"
	"shop-backend/service"
	"shop-backend/store"
)

//go:embed migrations.sql
var migrationSQL string

func main() {
	cfg, err := config.Load()
	if err != nil {
		logx.Init()
		logx.Fatal().Err(err).Msg("invalid configuration")
	}
	logx.Init(logx.LoggerOpts{Environment: cfg.Environment()})
	logx.Debug().
		Str("env", cfg.Environment().String()).
		Str("store", cfg.StoreDriver).
		Bool("cache", cfg.Redis.URL != "").
		Bool("events", cfg.RabbitMQ.URL != "").
		Msg("configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logx.Fatal().Err(err).Msg("server stopped with error")
	}
	logx.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	// --- Store ---
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logx.Error().Err(err).Msg("closing store")
		}
	}()

	opts := []service.Option{
		service.WithLogger(logx.Component("service")),
		service.WithTokens(cfg.JWTSecret, cfg.TokenTTL),
		service.WithRetry(service.RetryConfig{
			MaxAttempts:     cfg.PurchaseMaxAttempts,
			InitialInterval: service.DefaultRetryConfig().InitialInterval,
			MaxInterval:     service.DefaultRetryConfig().MaxInterval,
		}),
	}

	// --- Top-rated cache (optional) ---
	if cfg.Redis.URL != "" {
		rdb, err := cache.NewClient(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer closeRedis(rdb)
		opts = append(opts, service.WithTopRatedCache(cache.NewTopRated(rdb, cfg.Redis.TTL, logx.Component("cache"))))
		logx.Info().Dur("ttl", cfg.Redis.TTL).Msg("top-rated cache enabled")
	}

	// --- Stock events (optional) ---
	if cfg.RabbitMQ.URL != "" {
		evLog := logx.Component("events")
		pool, err := events.NewChannelPool(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue, cfg.RabbitMQ.PoolSize, evLog)
		if err != nil {
			return err
		}
		defer closePool(pool)
		opts = append(opts, service.WithEventPublisher(events.NewPublisher(pool, cfg.RabbitMQ.Queue, evLog)))
	}

	// --- Service / Handlers / Router ---
	svc := service.NewService(st, opts...)
	var serviceInterface service.ServiceInterface = svc
	h := handler.NewHandler(serviceInterface, st)
	router := handler.NewRouter(h, logx.Component("http"))

	// --- Server ---
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logx.Info().Str("addr", srv.Addr).Str("store", cfg.StoreDriver).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logx.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if cfg.StoreDriver == config.DriverMemory {
		logx.Warn().Msg("using in-memory store; data is lost on exit")
		return store.NewMemoryStore(), nil
	}

	pg, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	// --- RUN MIGRATIONS ---
	if cfg.RunMigrations {
		if err := pg.Migrate(ctx, migrationSQL); err != nil {
			pg.Close()
			return nil, err
		}
		logx.Info().Msg("database migrations executed successfully")
	}
	return pg, nil
}

func closeRedis(rdb *redis.Client) {
	if err := rdb.Close(); err != nil {
		logx.Error().Err(err).Msg("closing redis client")
	}
}

func closePool(pool *events.ChannelPool) {
	if err := pool.Close(); err != nil {
		logx.Error().Err(err).Msg("closing rabbitmq channel pool")
	}
}
