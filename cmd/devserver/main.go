// Command devserver serves the search Lambda over plain HTTP so the frontend
// can be developed without deploying.
package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"booksearch/internal/app"
	"booksearch/internal/config"
	"booksearch/internal/logging"
)

const maxBodyBytes = 1 << 20

type proxyHandler interface {
	Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)
}

func loadEnvFiles() {
	// Does not override variables already set in the environment.
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")
}

func main() {
	loadEnvFiles()
	cfg := config.FromEnv()

	logger, err := logging.New("booksearch-dev", cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	awsCfg, err := app.LoadAWS(ctx, cfg)
	if err != nil {
		logger.Fatal("aws config", zap.Error(err))
	}
	h, err := app.NewSearchHandler(ctx, cfg, awsCfg, &http.Client{}, logger)
	if err != nil {
		logger.Fatal("build search handler", zap.Error(err))
	}

	mux := http.NewServeMux()
	mux.Handle("/", lambdaAdapter(h))

	srv := &http.Server{
		Addr:              cfg.DevAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("dev server listening", zap.String("addr", cfg.DevAddr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("dev server", zap.Error(err))
	}
}

// lambdaAdapter turns an HTTP request into a REST proxy event and writes the
// handler's response back.
func lambdaAdapter(h proxyHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			http.Error(w, "read body", http.StatusBadRequest)
			return
		}

		headers := make(map[string]string, len(r.Header))
		for k := range r.Header {
			headers[k] = r.Header.Get(k)
		}

		req := events.APIGatewayProxyRequest{
			HTTPMethod: r.Method,
			Path:       r.URL.Path,
			Headers:    headers,
			Body:       string(body),
		}
		req.RequestContext.RequestID = uuid.NewString()

		res, err := h.Handle(r.Context(), req)
		if err != nil {
			http.Error(w, "handler error", http.StatusInternalServerError)
			return
		}

		for k, v := range res.Headers {
			w.Header().Set(k, v)
		}
		w.WriteHeader(res.StatusCode)
		_, _ = io.WriteString(w, res.Body)
	})
}
