// ====================================
// File: cmd/launchpadd/main.go
// ====================================
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/config"
	"github.com/rovshanmuradov/solana-launchpad/internal/logger"
	"github.com/rovshanmuradov/solana-launchpad/internal/service"
)

func main() {
	configPath := flag.String("config", "configs/config.json", "path to configuration file")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logCfg := logger.DefaultConfig()
	logCfg.LogFile = cfg.LogFile
	logCfg.Development = cfg.DebugLogging
	log, err := logger.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting launchpad")

	runner, err := service.NewRunner(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize launchpad", zap.Error(err))
	}

	if err := runner.Run(ctx); err != nil {
		log.Fatal("Launchpad execution error", zap.Error(err))
	}
}
