package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fuyileeperez18-source/walmer-store/internal/cart"
	"github.com/fuyileeperez18-source/walmer-store/internal/catalog"
	"github.com/fuyileeperez18-source/walmer-store/internal/checkout"
	"github.com/fuyileeperez18-source/walmer-store/internal/httpapi"
	"github.com/fuyileeperez18-source/walmer-store/internal/notify"
	"github.com/fuyileeperez18-source/walmer-store/internal/orders"
	"github.com/fuyileeperez18-source/walmer-store/internal/payment"
	"github.com/fuyileeperez18-source/walmer-store/internal/storage"
)

type Config struct {
	HTTPPort        string
	ShutdownTimeout time.Duration

	CartBackend string // memory | redis | mongo
	RedisAddr   string
	MongoURI    string
	MongoDB     string

	OrdersBackend     string // memory | postgres
	PostgresHost      string
	PostgresPort      int
	PostgresUser      string
	PostgresPassword  string
	PostgresDB        string
	MigrationsDirPath string

	KafkaBrokers []string

	PaymentGatewayURL     string
	PaymentTimeout        time.Duration
	FreeShippingThreshold float64
	TaxRate               float64
	Currency              string
}

func loadConfig() *Config {
	cfg := &Config{
		HTTPPort:              getEnv("HTTP_PORT", "8080"),
		ShutdownTimeout:       10 * time.Second,
		CartBackend:           getEnv("CART_BACKEND", "memory"),
		RedisAddr:             getEnv("REDIS_ADDR", "localhost:6379"),
		MongoURI:              getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:               getEnv("MONGO_DB", "walmer"),
		OrdersBackend:         getEnv("ORDERS_BACKEND", "memory"),
		PostgresHost:          getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:          getEnvInt("POSTGRES_PORT", 5432),
		PostgresUser:          getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword:      getEnv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:            getEnv("POSTGRES_DB", "walmer"),
		MigrationsDirPath:     getEnv("MIGRATIONS_DIR", "migrations"),
		PaymentGatewayURL:     os.Getenv("PAYMENT_GATEWAY_URL"),
		PaymentTimeout:        15 * time.Second,
		FreeShippingThreshold: getEnvFloat("FREE_SHIPPING_THRESHOLD", 100),
		TaxRate:               getEnvFloat("TAX_RATE", 0.08),
		Currency:              getEnv("CURRENCY", "USD"),
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()
	ctx := context.Background()

	store, closeStore, err := buildCartStore(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to set up cart store: %v", err)
	}
	defer closeStore()

	orderService, closeOrders, err := buildOrderService(cfg)
	if err != nil {
		log.Fatalf("failed to set up order service: %v", err)
	}
	defer closeOrders()

	var notifier checkout.Notifier
	if len(cfg.KafkaBrokers) > 0 {
		kafkaNotifier := notify.NewKafkaNotifier(cfg.KafkaBrokers...)
		defer kafkaNotifier.Close()
		notifier = kafkaNotifier
	} else {
		notifier = notify.LogNotifier{}
	}

	var paymentPort checkout.PaymentPort
	if cfg.PaymentGatewayURL != "" {
		paymentPort = payment.NewClient(cfg.PaymentGatewayURL, cfg.PaymentTimeout)
	} else {
		log.Printf("no payment gateway configured, using stub")
		paymentPort = payment.NewStub(payment.RandomOutcome{})
	}

	finalizer := checkout.NewFinalizer(orderService, notifier)
	manager := cart.NewManager(store)

	api := httpapi.NewAPI(manager, seedCatalog(), checkout.Config{
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		TaxRate:               cfg.TaxRate,
		Currency:              cfg.Currency,
	}, paymentPort, finalizer)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(api.Router(), "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("storefront starting on :%s (cart=%s orders=%s)", cfg.HTTPPort, cfg.CartBackend, cfg.OrdersBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}

func buildCartStore(ctx context.Context, cfg *Config) (storage.CartStore, func(), error) {
	switch cfg.CartBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, nil, err
		}
		return storage.NewRedisStore(client), func() { client.Close() }, nil
	case "mongo":
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		db, err := storage.ConnectMongoDB(connectCtx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, nil, err
		}
		store := storage.NewMongoStore(db)
		if err := store.CreateIndexes(connectCtx); err != nil {
			return nil, nil, err
		}
		return store, func() { db.Client().Disconnect(context.Background()) }, nil
	default:
		log.Printf("using in-memory cart store, carts will not survive restarts")
		return storage.NewMemoryStore(), func() {}, nil
	}
}

func buildOrderService(cfg *Config) (checkout.OrderService, func(), error) {
	var publisher orders.EventPublisher = orders.NoopPublisher{}
	closePublisher := func() {}
	if len(cfg.KafkaBrokers) > 0 {
		kp := orders.NewKafkaPublisher(cfg.KafkaBrokers...)
		publisher = kp
		closePublisher = func() { kp.Close() }
	}

	if cfg.OrdersBackend != "postgres" {
		log.Printf("using in-memory order store, orders will not survive restarts")
		return orders.NewService(orders.NewMemoryRepository(), publisher), closePublisher, nil
	}

	cred := &orders.Credentials{
		Host:              cfg.PostgresHost,
		Port:              cfg.PostgresPort,
		User:              cfg.PostgresUser,
		Password:          cfg.PostgresPassword,
		DBName:            cfg.PostgresDB,
		MigrationsDirPath: cfg.MigrationsDirPath,
	}
	repo, err := orders.NewRepository(cred)
	if err != nil {
		closePublisher()
		return nil, nil, err
	}
	if err := repo.RunMigrations(cred); err != nil {
		repo.Close()
		closePublisher()
		return nil, nil, err
	}

	closeAll := func() {
		repo.Close()
		closePublisher()
	}
	return orders.NewService(repo, publisher), closeAll, nil
}

// seedCatalog stands in for the external catalog service in local runs.
func seedCatalog() *catalog.MemoryCatalog {
	cat := catalog.NewMemoryCatalog()
	cat.SetProduct(catalog.Product{ID: "p-hoodie", Name: "Walmer Hoodie", Slug: "walmer-hoodie", Price: 59.90, Quantity: 40})
	cat.SetVariant("p-hoodie", catalog.ProductVariant{ID: "v-hoodie-m", Name: "M / Charcoal", Price: 59.90, Quantity: 25})
	cat.SetVariant("p-hoodie", catalog.ProductVariant{ID: "v-hoodie-l", Name: "L / Charcoal", Price: 62.90, Quantity: 15})
	cat.SetProduct(catalog.Product{ID: "p-mug", Name: "Enamel Mug", Slug: "enamel-mug", Price: 14.50, Quantity: 120})
	cat.SetProduct(catalog.Product{ID: "p-poster", Name: "City Print Poster", Slug: "city-print-poster", Price: 24.00, Quantity: 0})
	return cat
}
