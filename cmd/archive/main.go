package main

import (
	"context"
	"encoding/json"
	"log"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"docflow/internal/config"
	"docflow/internal/database"
	"docflow/internal/repository/postgres"
	"docflow/internal/service"
	"docflow/internal/storage"
)

// Snapshots every document blob from the database into object storage.
// The database remains the source of truth; the snapshot is a backup.
func main() {
	cfg := config.Load()
	loc := time.UTC

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	archiver := service.NewArchiveService(postgres.NewDocumentPostgres(db), objStore)

	start := time.Now()
	n, err := archiver.Run(ctx)
	if err != nil {
		log.Fatalf("archive failed after %d documents: %v", n, err)
	}

	entry := map[string]any{
		"ts":        time.Now().In(loc).Format(time.RFC3339Nano),
		"level":     "info",
		"msg":       "archive_complete",
		"documents": n,
		"bucket":    cfg.MinIO.Bucket,
		"elapsed":   time.Since(start).String(),
	}
	if b, err := json.Marshal(entry); err == nil {
		log.SetFlags(0)
		log.Println(string(b))
	}
}
