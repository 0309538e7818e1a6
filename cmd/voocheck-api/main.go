package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/voocheck/voocheck/config"
)

func main() {
	cfg, err := config.LoadConfig(os.Getenv("configPath"))
	if err != nil {
		panic(fmt.Sprintf("failed to parse config, %v", err))
	}

	// Secrets may come from the environment instead of the yaml file.
	if cfg.VooCheck.GolAATHeader == "" {
		cfg.VooCheck.GolAATHeader = os.Getenv("AAT_HEADER_GOL")
	}
	if cfg.VooCheck.AzulSubscriptionKey == "" {
		cfg.VooCheck.AzulSubscriptionKey = os.Getenv("AZUL_KEY")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := RunVooCheckAPI(ctx, cfg, defaultAPIFactories()); err != nil && err != context.Canceled && err != http.ErrServerClosed {
		panic(err)
	}
}
