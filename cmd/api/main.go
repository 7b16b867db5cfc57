package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmoralesv/floreria-backend/api/routes"
	authsvc "github.com/dmoralesv/floreria-backend/internal/auth"
	"github.com/dmoralesv/floreria-backend/internal/business"
	cartsvc "github.com/dmoralesv/floreria-backend/internal/cart"
	category "github.com/dmoralesv/floreria-backend/internal/categories"
	checkoutsvc "github.com/dmoralesv/floreria-backend/internal/checkout"
	"github.com/dmoralesv/floreria-backend/internal/contact"
	"github.com/dmoralesv/floreria-backend/internal/media"
	"github.com/dmoralesv/floreria-backend/internal/orders"
	product "github.com/dmoralesv/floreria-backend/internal/products"
	"github.com/dmoralesv/floreria-backend/internal/social"
	"github.com/dmoralesv/floreria-backend/internal/users"
	"github.com/dmoralesv/floreria-backend/pkg/auth/session"
	"github.com/dmoralesv/floreria-backend/pkg/config"
	"github.com/dmoralesv/floreria-backend/pkg/db"
	"github.com/dmoralesv/floreria-backend/pkg/logger"
	"github.com/dmoralesv/floreria-backend/pkg/metrics"
	"github.com/dmoralesv/floreria-backend/pkg/migrate"
	"github.com/dmoralesv/floreria-backend/pkg/outbox"
	"github.com/dmoralesv/floreria-backend/pkg/redis"
	"github.com/dmoralesv/floreria-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	var gcsClient *gcs.Client
	if cfg.GCS.BucketName != "" {
		gcsClient, err = gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap gcs", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "gcs bucket not configured, media endpoints disabled")
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)
	storefrontMetrics := metrics.NewStorefrontMetrics(registry)

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	productRepo := product.NewRepository(dbClient.DB())
	categoryRepo := category.NewRepository(dbClient.DB())
	businessRepo := business.NewRepository(dbClient.DB())
	socialRepo := social.NewRepository(dbClient.DB())
	orderRepo := orders.NewRepository(dbClient.DB())

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := authsvc.NewRegisterService(authsvc.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	productService, err := product.NewService(productRepo, dbClient, categoryRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	categoryService, err := category.NewService(categoryRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create category service", err)
		os.Exit(1)
	}

	businessService, err := business.NewService(businessRepo, dbClient, cfg.Storefront)
	if err != nil {
		logg.Error(context.Background(), "failed to create business service", err)
		os.Exit(1)
	}

	socialService, err := social.NewService(socialRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create social service", err)
		os.Exit(1)
	}

	var mediaService media.Service
	if gcsClient != nil {
		mediaService, err = media.NewService(productRepo, dbClient, gcsClient, outboxService, cfg.GCS.BucketName, cfg.GCS.UploadURLExpiry)
		if err != nil {
			logg.Error(context.Background(), "failed to create media service", err)
			os.Exit(1)
		}
	}

	cartStore := cartsvc.NewStore(redisClient, logg).WithTTL(cfg.Cart.TTL)
	cartService, err := cartsvc.NewService(cartStore, productRepo, storefrontMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		Carts:      cartService,
		Business:   businessService,
		OrdersRepo: orderRepo,
		DB:         dbClient,
		Events:     outboxService,
		Storefront: cfg.Storefront,
		Metrics:    storefrontMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	contactService, err := contact.NewService(dbClient, businessService, outboxService)
	if err != nil {
		logg.Error(context.Background(), "failed to create contact service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orderRepo, dbClient, outboxService)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	router := routes.NewRouter(routes.Deps{
		Config:         cfg,
		Logger:         logg,
		DB:             dbClient,
		Redis:          redisClient,
		GCS:            gcsPinger(gcsClient),
		SessionManager: sessionManager,
		HTTPMetrics:    httpMetrics,
		Registry:       registry,

		AuthService:     authService,
		RegisterService: registerService,
		ProductService:  productService,
		CategoryService: categoryService,
		BusinessService: businessService,
		SocialService:   socialService,
		MediaService:    mediaService,
		CartService:     cartService,
		CheckoutService: checkoutService,
		ContactService:  contactService,
		OrderService:    orderService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}

// gcsPinger keeps the readiness probe's interface nil when the client is
// absent; a nil *gcs.Client inside a non-nil interface would still be pinged.
func gcsPinger(client *gcs.Client) gcs.Pinger {
	if client == nil {
		return nil
	}
	return client
}
