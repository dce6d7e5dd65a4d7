package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/medscribe-ai/platform/pkg/audit"
	"github.com/medscribe-ai/platform/pkg/auth"
	"github.com/medscribe-ai/platform/pkg/common/config"
	"github.com/medscribe-ai/platform/pkg/common/database"
	"github.com/medscribe-ai/platform/pkg/common/kafka"
	"github.com/medscribe-ai/platform/pkg/common/logger"
	"github.com/medscribe-ai/platform/pkg/common/models"
	"github.com/medscribe-ai/platform/pkg/dictionary"
	"github.com/medscribe-ai/platform/pkg/encounter"
	"github.com/medscribe-ai/platform/pkg/middleware"
	"github.com/medscribe-ai/platform/pkg/note"
	"github.com/medscribe-ai/platform/pkg/notegen"
	"github.com/medscribe-ai/platform/pkg/provider"
	"github.com/medscribe-ai/platform/pkg/template"
	"github.com/medscribe-ai/platform/pkg/todo"
	"github.com/medscribe-ai/platform/pkg/transcript"
	"github.com/medscribe-ai/platform/pkg/voice"
)

func main() {
	logger.Init()
	cfg := config.Load()

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to postgres")
	}

	providerRepo := provider.NewRepository(db)
	templateRepo := template.NewRepository(db)
	encounterRepo := encounter.NewRepository(db)
	transcriptRepo := transcript.NewRepository(db)
	noteRepo := note.NewRepository(db)
	dictionaryRepo := dictionary.NewRepository(db)
	voiceRepo := voice.NewRepository(db)
	todoRepo := todo.NewRepository(db)
	auditRepo := audit.NewRepository(db)

	migrations := []func() error{
		providerRepo.AutoMigrate,
		templateRepo.AutoMigrate,
		encounterRepo.AutoMigrate,
		transcriptRepo.AutoMigrate,
		noteRepo.AutoMigrate,
		dictionaryRepo.AutoMigrate,
		voiceRepo.AutoMigrate,
		todoRepo.AutoMigrate,
		auditRepo.AutoMigrate,
	}
	for _, migrate := range migrations {
		if err := migrate(); err != nil {
			logger.Log.WithError(err).Fatal("failed to migrate tables")
		}
	}

	var producer *kafka.Producer
	if cfg.EventsEnabled {
		producer = kafka.NewProducer(cfg.KafkaEventsTopic)
		defer producer.Close()
	}
	var encounterEvents encounter.EventPublisher
	var notegenEvents notegen.EventPublisher
	if producer != nil {
		encounterEvents = producer
		notegenEvents = producer
	}

	dictionaryCache := dictionary.NewCache(database.GetRedis(), cfg.DictionaryCacheTTL)
	dictionaryService := dictionary.NewService(dictionaryRepo, dictionaryCache)

	providerService := provider.NewService(providerRepo, func(ctx context.Context, prov models.Provider) {
		if err := dictionaryService.SeedDefaults(ctx, prov.ID, cfg.DictionarySeedPath); err != nil {
			logger.Log.WithError(err).WithField("provider_id", prov.ID).Warn("failed to seed provider dictionary")
		}
	})

	templateService := template.NewService(templateRepo)
	if err := templateService.SeedDefaults(context.Background()); err != nil {
		logger.Log.WithError(err).Fatal("failed to seed default templates")
	}

	transcriptService := transcript.NewService(transcriptRepo, encounterRepo)
	noteService := note.NewService(noteRepo)
	todoService := todo.NewService(todoRepo, encounterRepo)
	encounterService := encounter.NewService(encounterRepo, encounterEvents,
		transcriptService, noteService, todoService)
	voiceService := voice.NewService(voiceRepo)

	sessions := transcript.NewSessionManager(transcriptRepo, dictionaryService)

	var completion notegen.CompletionClient
	if cfg.LLMAPIKey != "" {
		client, err := notegen.NewClient(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModelName, cfg.LLMTimeout)
		if err != nil {
			logger.Log.WithError(err).Fatal("failed to configure completion client")
		}
		completion = client
	} else {
		logger.Log.Warn("no LLM API key configured, note generation runs in placeholder mode")
	}
	notegenService := notegen.NewService(transcriptService, templateService, dictionaryService,
		encounterService, noteService, completion, notegenEvents)

	tokens, err := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTTTL)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to configure token manager")
	}
	var oidc *auth.OIDCAuthenticator
	if cfg.OIDCIssuer != "" {
		oidc, err = auth.NewOIDCAuthenticator(cfg.OIDCIssuer, cfg.OIDCClientID, cfg.OIDCClientSecret, cfg.OIDCRedirectURL)
		if err != nil {
			logger.Log.WithError(err).Fatal("failed to configure oidc")
		}
	}

	providerHandler := provider.NewHandler(providerService, tokens, oidc)
	templateHandler := template.NewHandler(templateService)
	encounterHandler := encounter.NewHandler(encounterService)
	transcriptHandler := transcript.NewHandler(transcriptService, sessions)
	noteHandler := note.NewHandler(noteService)
	dictionaryHandler := dictionary.NewHandler(dictionaryService)
	voiceHandler := voice.NewHandler(voiceService)
	todoHandler := todo.NewHandler(todoService)
	notegenHandler := notegen.NewHandler(notegenService)

	router := mux.NewRouter()
	router.Use(middleware.Logging, middleware.Recovery)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)
	router.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	}).Methods(http.MethodGet)

	public := router.PathPrefix("/api/v1/auth").Subrouter()
	providerHandler.RegisterAuth(public)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Authenticate(tokens))
	providerHandler.Register(api)
	templateHandler.Register(api)
	encounterHandler.Register(api)
	transcriptHandler.Register(api)
	noteHandler.Register(api)
	dictionaryHandler.Register(api)
	voiceHandler.Register(api)
	todoHandler.Register(api)
	notegenHandler.Register(api)

	address := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Log.WithField("addr", address).Info("Scribe server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("failed to start scribe server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down scribe server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Error("Scribe server forced to shutdown")
	}
	if err := database.ClosePostgres(); err != nil {
		logger.Log.WithError(err).Error("failed to close postgres")
	}
	if err := database.CloseRedis(); err != nil {
		logger.Log.WithError(err).Error("failed to close redis")
	}
	logger.Log.Info("Scribe server stopped")
}
