package main

import (
	"context"
	"net/http"
	"time"

	api "triage-backend/cmd/api"
	authdomain "triage-backend/internal/auth/domain"
	authRepo "triage-backend/internal/auth/repository"
	authUsecase "triage-backend/internal/auth/usecase"
	emaildomain "triage-backend/internal/email/domain"
	emailRepo "triage-backend/internal/email/repository"
	"triage-backend/internal/email/scheduler"
	emailUsecase "triage-backend/internal/email/usecase"
	itemdomain "triage-backend/internal/item/domain"
	itemRepo "triage-backend/internal/item/repository"
	itemUsecase "triage-backend/internal/item/usecase"
	"triage-backend/pkg/ai"
	"triage-backend/pkg/config"
	"triage-backend/pkg/database"
	"triage-backend/pkg/gmail"
	"triage-backend/pkg/lock"
	"triage-backend/pkg/logger"
	"triage-backend/pkg/secrets"
	"triage-backend/pkg/utils/crypto"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger.Setup(cfg.LogLevel, cfg.LogFormat)

	if err := logger.InitSentry(cfg.SentryDSN, cfg.Environment); err != nil {
		logrus.WithError(err).Warn("sentry disabled")
	}
	defer sentry.Flush(2 * time.Second)

	// Secrets missing from the environment come from the keyring
	store, err := secrets.Open(cfg.KeyringDir, cfg.KeyringPassword)
	if err != nil {
		logrus.WithError(err).Warn("keyring unavailable, using environment secrets only")
	}
	cfg.AnthropicAPIKey = store.Resolve(cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	cfg.GeminiAPIKey = store.Resolve(cfg.GeminiAPIKey, "GEMINI_API_KEY")
	cfg.GoogleClientSecret = store.Resolve(cfg.GoogleClientSecret, "GOOGLE_CLIENT_SECRET")

	// Initialize database
	db, err := database.NewConnection(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&itemdomain.Item{}, &authdomain.Credential{}, &emaildomain.SyncState{}); err != nil {
		logrus.WithError(err).Fatal("failed to migrate database")
	}

	if cfg.EncryptionKey == "" {
		logrus.Warn("ENCRYPTION_KEY not set, provider tokens are stored in plain text")
	}
	box := crypto.NewBox(cfg.EncryptionKey)

	// Initialize repositories (dependency injection)
	credentialRepository := authRepo.NewCredentialRepository(db, box)
	itemRepository := itemRepo.NewGormItemRepository(db)
	syncStateRepository := emailRepo.NewSyncStateRepository(db)

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	// Mail provider
	gmailService := gmail.NewService(cfg.GmailEndpoint, httpClient, cfg.FetchConcurrency)
	tokenRefresher := gmail.NewTokenRefresher(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleTokenURL, httpClient)

	// Inference provider; without one every batch falls back to the default lane
	completer, err := ai.NewCompleter(ai.Config{
		Provider:         ai.ProviderType(cfg.AIProvider),
		AnthropicAPIKey:  cfg.AnthropicAPIKey,
		AnthropicBaseURL: cfg.AnthropicBaseURL,
		AnthropicModel:   cfg.AnthropicModel,
		GeminiAPIKey:     cfg.GeminiAPIKey,
		GeminiBaseURL:    cfg.GeminiBaseURL,
		GeminiModel:      cfg.GeminiModel,
		OllamaBaseURL:    cfg.OllamaBaseURL,
		OllamaModel:      cfg.OllamaModel,
		Timeout:          cfg.HTTPTimeout,
	})
	if err != nil {
		logrus.WithError(err).Warn("AI provider not configured, classification will fall back")
		completer = ai.NewUnavailableCompleter(err)
	} else {
		logrus.WithField("provider", cfg.AIProvider).Info("AI provider initialized")
	}

	// Initialize use cases (dependency injection)
	credentialUsecase := authUsecase.NewCredentialUsecase(credentialRepository, tokenRefresher)
	classifier := emailUsecase.NewClassifier(completer)
	syncUsecase := emailUsecase.NewSyncUsecase(credentialUsecase, gmailService, classifier, itemRepository, syncStateRepository, cfg.SyncBatchSize)
	reconciler := emailUsecase.NewReconciler(credentialUsecase, gmailService)
	itemUsecaseInstance := itemUsecase.NewItemUsecase(itemRepository, reconciler)

	// Per-user sync lock
	var locker lock.Locker = lock.NewMemoryLocker()
	if cfg.RedisAddr != "" {
		client, err := lock.NewRedisClient(context.Background(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logrus.WithError(err).Warn("redis unavailable, using in-process sync lock")
		} else {
			locker = lock.NewRedisLocker(client)
			logrus.WithField("addr", cfg.RedisAddr).Info("using redis sync lock")
		}
	}

	syncScheduler := scheduler.NewSyncScheduler(syncUsecase, credentialUsecase, locker, cfg.SyncInterval, cfg.SyncLockTTL)
	syncScheduler.Start()
	defer syncScheduler.Stop()

	// Initialize HTTP handler
	handler := api.NewHandler(credentialUsecase, syncUsecase, itemUsecaseInstance, locker, cfg)

	logrus.WithField("port", cfg.Port).Info("server starting")
	if err := handler.Start(":" + cfg.Port); err != nil {
		logrus.WithError(err).Fatal("failed to start server")
	}
}
