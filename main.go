package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"dcf-engine/internal/config"
	"dcf-engine/internal/handler"
	"dcf-engine/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if err := logging.Initialize(cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	log := logging.L()
	h := handler.New(cfg.SeriesOptions(), log)

	log.Info("DCF engine starting", zap.String("port", cfg.Server.Port), zap.String("ode_method", cfg.ODE.Method))
	if err := h.Server().ListenAndServe(":" + cfg.Server.Port); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
}
