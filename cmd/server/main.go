package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/todoporunalma/formatos/internal/api"
	"github.com/todoporunalma/formatos/internal/config"
	"github.com/todoporunalma/formatos/internal/repositories"
	"github.com/todoporunalma/formatos/internal/services"
	"github.com/todoporunalma/formatos/internal/storage"
)

// Physical directories provisioned at startup; their metadata records are
// created lazily on first categorized upload.
var defaultFolders = []string{"Documentos", "Imágenes"}

func main() {
	cfg := config.Envs

	var store repositories.Store
	if cfg.DBURL != "" {
		gormStore, err := repositories.NewGormStore(cfg.DBURL)
		if err != nil {
			log.Fatal("Failed to connect to database: ", err)
		}
		store = gormStore
		log.Println("Successfully connected to database")
	} else {
		store = repositories.NewMemoryStore()
		log.Println("No DB_URL configured, using in-memory metadata store")
	}

	var disk storage.Adapter
	switch cfg.StorageDriver {
	case "r2":
		disk = storage.NewR2(
			cfg.R2.AccessKeyID,
			cfg.R2.SecretAccessKey,
			cfg.R2.AccountID,
			cfg.R2.BucketName,
			cfg.R2.Region,
			cfg.R2.Prefix,
		)
		log.Println("Using R2 storage bucket:", cfg.R2.BucketName)
	default:
		local, err := storage.NewLocal(cfg.StorageRoot)
		if err != nil {
			log.Fatal("Failed to initialize storage root: ", err)
		}
		disk = local
		log.Println("Using local storage root:", cfg.StorageRoot)
	}

	ctx := context.Background()
	for _, name := range defaultFolders {
		if err := disk.MkdirAll(ctx, name); err != nil {
			log.Printf("Failed to provision default folder %q: %v", name, err)
		}
	}

	engine := services.NewEngine(store, disk)
	mux := api.SetupRouter(engine)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: mux,
		// Timeouts prevent resource exhaustion from slow clients
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Starting Formatos server on port: %s", cfg.Port)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on port %s: %v", cfg.Port, err)
	}
}
