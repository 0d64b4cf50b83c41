package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"dietmap/config"
	httpapi "dietmap/diet-svc/internal/api/http"
	"dietmap/diet-svc/internal/metrics"
	"dietmap/diet-svc/internal/service"
	"dietmap/diet-svc/internal/storage"

	log "github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load(":8081")
	config.InitLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db := config.MustInitPostgres(cfg)
	defer db.Close()

	repo := storage.NewPostgresRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal("Failed to ensure schema: ", err)
	}

	csvCatalog := storage.NewCSVCatalog(cfg.CatalogCSVDir)
	if cfg.SeedCatalog {
		restaurants, err := csvCatalog.LoadAll(ctx)
		if err != nil {
			log.Fatal("Failed to read catalogue dataset: ", err)
		}
		if err := repo.ImportCatalog(ctx, restaurants); err != nil {
			log.Fatal("Failed to import catalogue: ", err)
		}
		log.WithField("restaurants", len(restaurants)).Info("Catalogue imported")
	}

	var catalogSource service.RestaurantRepository = repo
	if cfg.CatalogSource == "csv" {
		catalogSource = csvCatalog
	}

	var publisher service.DietEventPublisher
	if writer := config.NewKafkaWriter(cfg); writer != nil {
		defer writer.Close()
		publisher = storage.NewKafkaPublisher(writer)
	} else {
		log.Warn("KAFKA_BROKER not set, diet events will not be published")
	}

	catalog := service.NewCatalogService(catalogSource, service.DefaultQRGenerator{BaseURL: cfg.PublicBaseURL})
	if n, err := catalog.Reload(ctx); err != nil {
		log.WithError(err).Error("Initial catalogue load failed, serving an empty catalogue")
	} else {
		metrics.SetCatalogSize(n)
	}

	users := service.NewUserService(repo, cfg.JWTSecret, cfg.TokenTTL)
	diet := service.NewDietService(repo, catalog, repo, publisher)
	favorites := service.NewFavoriteService(repo, catalog)

	limiter := httpapi.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	limiter.StartCleanup(ctx, 10*time.Minute)

	handler := httpapi.NewHandler(catalog, diet, favorites, users, limiter)
	if err := httpapi.StartServer(ctx, cfg.HTTPAddr, httpapi.NewRouter(handler)); err != nil {
		log.Fatal("Diet Service stopped: ", err)
	}
}
