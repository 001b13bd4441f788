// Command server runs the optional HTTP surface (§12.1) around the
// brand identity pipeline.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/brandforge/pipeline/internal/api"
	"github.com/brandforge/pipeline/internal/auth"
	"github.com/brandforge/pipeline/internal/config"
	_ "github.com/brandforge/pipeline/internal/docs"
	"github.com/brandforge/pipeline/internal/ledger"
	"github.com/brandforge/pipeline/internal/runs"
	"github.com/brandforge/pipeline/internal/store"
	"github.com/brandforge/pipeline/internal/wiring"
	"github.com/brandforge/pipeline/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zapLogger, err := logger.NewLogger(cfg.Environment)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("starting brand identity pipeline server",
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.Port),
	)

	ctx := context.Background()

	stack, err := wiring.Build(ctx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to assemble pipeline stack", zap.Error(err))
	}

	var runLedger *ledger.Ledger
	if cfg.RunTable != "" {
		runLedger = ledger.NewLedger(stack.AWSClients.DynamoDB, cfg.RunTable, zapLogger)
	}
	var outputStore *store.Store
	if cfg.OutputBucket != "" {
		outputStore = store.NewStore(stack.AWSClients.S3, cfg.OutputBucket, zapLogger)
	}
	runManager := runs.NewManager(stack.Runner, runLedger, outputStore, zapLogger)

	var quotaStore auth.QuotaStore
	if cfg.UseDynamoQuota && cfg.QuotaTable != "" {
		quotaStore = auth.NewDynamoQuotaStore(stack.AWSClients.DynamoDB, cfg.QuotaTable, cfg.MonthlyRunLimit)
	} else {
		quotaStore = auth.NewInMemoryQuotaStore(cfg.MonthlyRunLimit)
	}

	jwksURL := fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s/.well-known/jwks.json", cfg.AWSRegion, cfg.CognitoUserPoolID)
	validator := auth.NewValidator(jwksURL, cfg.JWTIssuer, cfg.CognitoClientID, zapLogger)
	if err := validator.FetchJWKS(); err != nil {
		if cfg.Environment == "production" {
			zapLogger.Fatal("failed to fetch JWKS", zap.Error(err))
		}
		zapLogger.Warn("failed to fetch JWKS, continuing in development mode", zap.Error(err))
	}

	rateLimiter := auth.NewRateLimiter(time.Minute, 30)

	server := api.NewServer(&api.ServerConfig{
		Environment:        cfg.Environment,
		Logger:             zapLogger,
		RunManager:         runManager,
		Stylescape:         stack.Stylescape,
		Validator:          validator,
		RateLimiter:        rateLimiter,
		QuotaStore:         quotaStore,
		OutputRoot:         cfg.OutputRoot,
		MockupMetadataPath: cfg.MockupMetadataPath,
		CORSOrigin:         cfg.CORSOrigin,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      server.Router(),
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info("listening", zap.String("address", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("forced shutdown", zap.Error(err))
	}
	zapLogger.Info("exited cleanly")
}
