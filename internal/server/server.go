package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"github.com/gridbase/backend/internal/config"
	"github.com/gridbase/backend/internal/database"
	"github.com/gridbase/backend/internal/handlers"
	"github.com/gridbase/backend/internal/repositories"
	"github.com/gridbase/backend/internal/routes"
	"github.com/gridbase/backend/internal/services"
)

// Server bundles the HTTP server with the connection manager so shutdown
// can close both.
type Server struct {
	HTTP    *http.Server
	Manager *database.Manager
}

func NewServer(logger *zap.Logger) (*Server, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	manager := database.NewManager(cfg, logger)
	if err := manager.Connect(context.Background()); err != nil {
		return nil, err
	}

	// Dependency injection
	catalogRepo := repositories.NewCatalogRepository(manager)
	dataRepo := repositories.NewDataRepository(manager, cfg.QueryTimeout, logger)
	savedQueryRepo := repositories.NewSavedQueryRepository()

	gridService := services.NewGridService(catalogRepo, dataRepo, logger)
	savedQueryService := services.NewSavedQueryService(gridService, savedQueryRepo)

	gridHandler := handlers.NewGridHandler(gridService, manager)
	savedQueryHandler := handlers.NewSavedQueryHandler(savedQueryService, manager)

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(router, routes.NewGridRoutes(gridHandler, savedQueryHandler))

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	return &Server{HTTP: httpServer, Manager: manager}, nil
}
