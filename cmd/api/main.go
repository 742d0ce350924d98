package main

import (
	"log"

	"faq-backend/internal/shared/config"
	"faq-backend/internal/shared/server"
	"faq-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.Init(cfg.LogLevel, cfg.LogPath)
	defer telemetry.Sync()

	r := server.NewRouter(cfg)

	addr := server.Addr(cfg.Port)
	log.Printf("Starting API server on %s", addr)

	if err := r.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
