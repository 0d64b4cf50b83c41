package main

import (
	"net/http"
	"time"

	"dietmap/api-gateway/internal/gateway"
	"dietmap/config"

	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load(":8080")
	config.InitLogger(cfg.LogLevel, cfg.LogFormat)

	gw := gateway.NewGateway(gateway.Config{
		DietSvcURL:      cfg.DietSvcURL,
		AnalyticsSvcURL: cfg.AnalyticsSvcURL,
	}, &http.Client{Timeout: 15 * time.Second})

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})

	log.Infof("API Gateway starting on %s", cfg.HTTPAddr)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, c.Handler(gw.SetupRoutes())))
}
