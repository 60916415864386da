package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/katapi/katapi/internal/billing"
	"github.com/katapi/katapi/internal/catalog"
	"github.com/katapi/katapi/internal/config"
	"github.com/katapi/katapi/internal/httpx"
	kafkax "github.com/katapi/katapi/internal/kafka"
	"github.com/katapi/katapi/internal/orders"
	"github.com/katapi/katapi/internal/postgres"
	"github.com/katapi/katapi/internal/redisx"
	"github.com/katapi/katapi/internal/seed"
	"github.com/katapi/katapi/internal/telemetry"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	telemetry.InitLogger(cfg.ServiceName)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer
	prod := kafkax.NewProducer(cfg.KafkaBrokers, 1024)
	prod.Start(ctx)

	// Billing ledger (local sqlite file, append-only)
	ledger, err := billing.Open(cfg.BillsDBPath)
	if err != nil {
		log.Fatalf("billing ledger: %v", err)
	}
	defer ledger.Close()

	// Stores & lifecycle service
	products := &catalog.Repo{DB: db}
	svc := &orders.Service{
		Catalog:     products,
		Store:       &orders.Repo{DB: db},
		Ledger:      ledger,
		Producer:    prod,
		ServiceName: cfg.ServiceName,
	}

	if cfg.SeedDemo {
		if err := seed.Demo(ctx, products, svc); err != nil {
			log.Fatalf("seed: %v", err)
		}
	}

	// Handlers
	router := httpx.NewRouter()
	(&httpx.ProductsHandler{Store: products}).Register(router)
	(&httpx.OrdersHandler{Service: svc, Redis: rdb}).Register(router)
	(&httpx.BillsHandler{Ledger: ledger}).Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// graceful shutdown
	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close() // close inbox -> flush & close writer
	prod.WaitClosed()
}
