package main

import (
	"os"
	"time"

	"cutroom/config"
	"cutroom/database"
	routes "cutroom/internal/app/http"
	"cutroom/internal/platform/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// gin.SetMode(gin.ReleaseMode) uncomment only in production
	config.LoadEnv()

	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	database.InitDB()

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{os.Getenv("CORS_ORIGIN")},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r)

	log.Info("listening", "port", config.PORT)
	if err := r.Run(":" + config.PORT); err != nil {
		log.Fatal("server stopped", "error", err)
	}
}
