package api

import (
	"fmt"
	"log"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "github.com/todoporunalma/formatos/docs"

	"github.com/rs/cors"
	"github.com/todoporunalma/formatos/internal/api/handlers"
	"github.com/todoporunalma/formatos/internal/api/middleware"
	"github.com/todoporunalma/formatos/internal/config"
	"github.com/todoporunalma/formatos/internal/services"
)

func SetupRouter(engine *services.Engine) http.Handler {
	mux := http.NewServeMux()
	c := cors.New(config.Envs.CorsConfig)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	mux.HandleFunc("/docs/", httpSwagger.WrapHandler)

	fileHandler := handlers.NewFileHandler(engine, config.Envs.MaxUploadSize)
	folderHandler := handlers.NewFolderHandler(engine)

	mux.HandleFunc("POST /upload", fileHandler.Upload)
	mux.HandleFunc("GET /list", fileHandler.List)
	mux.HandleFunc("GET /download/{id}", fileHandler.Download)
	mux.HandleFunc("DELETE /files/{id}", fileHandler.Delete)

	mux.HandleFunc("POST /folders/create", folderHandler.Create)
	mux.HandleFunc("PUT /folders/rename", folderHandler.Rename)
	mux.HandleFunc("DELETE /folders/{id}", folderHandler.Delete)

	log.Println("Router initialized")
	handler := c.Handler(mux)
	handler = middleware.Logger(handler)
	return handler
}
