package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/katapi/katapi/internal/audit"
	"github.com/katapi/katapi/internal/config"
	kafkax "github.com/katapi/katapi/internal/kafka"
	"github.com/katapi/katapi/internal/orders"
	"github.com/katapi/katapi/internal/redisx"
	"github.com/katapi/katapi/internal/telemetry"
)

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	telemetry.InitLogger(cfg.ServiceName + "-auditor")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &audit.Service{
		Redis:       rdb,
		ServiceName: cfg.ServiceName + "-auditor",
	}

	// Consumer
	group := getenv("AUDITOR_GROUP", "billing-audit")
	workers := mustAtoi(os.Getenv("AUDITOR_WORKERS"), "4")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, orders.TopicOrderPaid, workers)

	go func() {
		log.Printf("auditor consumer started: group=%s topic=%s workers=%d", group, orders.TopicOrderPaid, workers)
		if err := cons.Start(ctx, svc.HandleOrderPaid); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down consumer...")
	cancel()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
