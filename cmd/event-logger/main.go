package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/medscribe-ai/platform/pkg/audit"
	"github.com/medscribe-ai/platform/pkg/common/config"
	"github.com/medscribe-ai/platform/pkg/common/database"
	"github.com/medscribe-ai/platform/pkg/common/kafka"
	"github.com/medscribe-ai/platform/pkg/common/logger"
	"github.com/medscribe-ai/platform/pkg/common/models"
)

// event-logger tails the scribe event topic and writes each lifecycle event
// to the audit table.
func main() {
	logger.Init()
	cfg := config.Load()

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to postgres")
	}

	repo := audit.NewRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate audit table")
	}

	consumer := kafka.NewConsumer(cfg.KafkaEventsTopic, cfg.KafkaGroupID+"-event-logger")
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Log.Info("Shutting down event logger...")
		cancel()
	}()

	logger.Log.WithField("topic", cfg.KafkaEventsTopic).Info("Event logger consuming")
	err = consumer.Consume(ctx, func(ctx context.Context, event models.Event) error {
		return repo.Record(ctx, toAuditLog(event))
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Log.WithError(err).Fatal("event consumption failed")
	}
	logger.Log.Info("Event logger stopped")
}

// toAuditLog maps an event like "encounter.status_changed" onto the audit
// row shape: entity from the type prefix, action from the suffix, entity id
// from the payload when present.
func toAuditLog(event models.Event) models.AuditLog {
	entity, action := event.Type, ""
	if i := strings.Index(event.Type, "."); i > 0 {
		entity, action = event.Type[:i], event.Type[i+1:]
	}
	entry := models.AuditLog{
		Actor:   event.Source,
		Action:  action,
		Entity:  entity,
		Payload: event.Data,
	}
	if id, ok := event.Data[entity+"_id"].(string); ok {
		entry.EntityID = id
	}
	return entry
}
