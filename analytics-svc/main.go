package main

import (
	httpapi "dietmap/analytics-svc/internal/api/http"
	"dietmap/analytics-svc/internal/service"
	"dietmap/config"
)

func main() {
	cfg := config.Load(":8083")
	config.InitLogger(cfg.LogLevel, cfg.LogFormat)

	db := config.MustInitPostgres(cfg)
	defer db.Close()

	rdb := config.MustInitRedis(cfg)
	defer rdb.Close()

	handler := httpapi.NewHandler(service.NewAnalyticsService(db, rdb))
	httpapi.StartServer(cfg.HTTPAddr, httpapi.NewRouter(handler))
}
