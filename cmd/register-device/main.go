package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/backend"
	"github.com/jafarshop/storefront/internal/config"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: go run cmd/register-device/main.go <push-token> <credential>")
		fmt.Println("Example: go run cmd/register-device/main.go \"fcm-token-abc123\" \"user-session-jwt\"")
		os.Exit(1)
	}

	token := os.Args[1]
	credential := os.Args[2]

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	client := backend.NewClient(cfg.Backend, logger)

	if err := client.RegisterToken(context.Background(), token, credential); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to register token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Token registered successfully")
}
