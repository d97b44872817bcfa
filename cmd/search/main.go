package main

import (
	"context"
	"log"
	"net/http"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"booksearch/internal/app"
	"booksearch/internal/config"
	"booksearch/internal/logging"
)

func main() {
	ctx := context.Background()
	cfg := config.FromEnv()

	logger, err := logging.New("booksearch", cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	awsCfg, err := app.LoadAWS(ctx, cfg)
	if err != nil {
		logger.Fatal("aws config", zap.Error(err))
	}

	h, err := app.NewSearchHandler(ctx, cfg, awsCfg, &http.Client{}, logger)
	if err != nil {
		logger.Fatal("build search handler", zap.Error(err))
	}

	if cfg.PayloadVersion == config.PayloadV2 {
		lambda.Start(h.HandleHTTP)
		return
	}
	lambda.Start(h.Handle)
}
