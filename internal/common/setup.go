package common

import (
	"context"
	"fmt"
	"log"
	"strings"

	"investment-backoffice-go/internal/api"
	"investment-backoffice-go/internal/cache"
	"investment-backoffice-go/internal/client"
	"investment-backoffice-go/internal/database"
	"investment-backoffice-go/internal/export"
	"investment-backoffice-go/internal/models"
	"investment-backoffice-go/internal/session"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// init loads environment variables from .env file if it exists
func init() {
	// Environment variables can also be set via shell export, docker, etc.
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
		log.Println("Make sure to set environment variables via export or other means")
	} else {
		log.Println("✓ Loaded environment variables from .env file")
	}
}

type Services struct {
	DbService     *database.Service
	ClientService *client.Service
	Session       *session.Holder
	Cache         *cache.QueryCache
	BackOffice    *api.BackOfficeService
	Exporter      *export.Exporter
}

// InitializeLogger builds the production logger at level (debug, info, warn,
// error) and installs it as the global logger
func InitializeLogger(level string) (*zap.Logger, func()) {
	cfg := zap.NewProductionConfig()
	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			log.Printf("Unknown LOG_LEVEL %q, using info\n", level)
		} else {
			cfg.Level = zap.NewAtomicLevelAt(lvl)
		}
	}

	logger, err := cfg.Build()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

// InitializeServices opens the session database, restores the signed-in
// identity and wires the back-office service to the backend
func InitializeServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	zap.L().Info("Connecting to backend", zap.String("base_url", cfg.Api.BaseURL))
	clientService, err := client.NewService(ctx, cfg.Api, dbService)
	if err != nil {
		dbService.Close()
		return nil, err
	}

	holder := session.NewHolder(dbService)
	if err := holder.Init(ctx); err != nil {
		dbService.Close()
		return nil, fmt.Errorf("unable to restore session: %w", err)
	}
	if identity, ok := holder.Current(); ok {
		zap.L().Info("Restored session",
			zap.String("user_id", identity.UserId),
			zap.String("email", identity.Email))
	}

	exporter, err := export.NewExporter(cfg.Export, dbService)
	if err != nil {
		dbService.Close()
		return nil, err
	}

	queries := cache.NewQueryCache()
	backOffice := api.NewBackOfficeService(clientService, holder, queries)
	backOffice.OnAuthFailure(func(context.Context) {
		zap.L().Warn("Session expired, sign in again with the auth command")
	})

	return &Services{
		DbService:     dbService,
		ClientService: clientService,
		Session:       holder,
		Cache:         queries,
		BackOffice:    backOffice,
		Exporter:      exporter,
	}, nil
}

func (cs *Services) Close() {
	if cs.DbService != nil {
		cs.DbService.Close()
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
