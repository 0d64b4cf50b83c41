package main

import (
	"context"
	"os/signal"
	"syscall"

	"dietmap/agg-svc/internal/service"
	"dietmap/agg-svc/internal/storage"
	"dietmap/config"

	log "github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load("")
	config.InitLogger(cfg.LogLevel, cfg.LogFormat)
	if cfg.KafkaBroker == "" {
		log.Fatal("KAFKA_BROKER is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db := config.MustInitPostgres(cfg)
	defer db.Close()

	rdb := config.MustInitRedis(cfg)
	defer rdb.Close()

	reader := config.NewKafkaReader(cfg, "agg-svc")
	defer reader.Close()

	consumer := service.NewConsumer(reader, storage.NewStore(db, rdb))
	if err := consumer.Start(ctx); err != nil {
		log.Error("Aggregation consumer stopped: ", err)
	}
}
