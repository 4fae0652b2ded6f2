package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"serene/cache"
	"serene/config"
	"serene/database"
	"serene/mailer"
	"serene/routes"
	"serene/tasks"
	"serene/websocket"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/gin-gonic/gin"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if config.App.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	gin.SetMode(config.App.GinMode)

	// Mongo can lag behind the app in container startup, so retry.
	var err error
	for attempt := 1; attempt <= 3; attempt++ {
		err = database.ConnectDB(config.App.MongoURI, config.App.DBName)
		if err == nil {
			break
		}
		log.Printf("mongo connect attempt %d failed: %v", attempt, err)
		time.Sleep(time.Duration(attempt) * 2 * time.Second)
	}
	if err != nil {
		log.Fatalf("could not connect to mongodb: %v", err)
	}
	defer database.DisconnectDB()

	idxCtx, idxCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureIndexes(idxCtx); err != nil {
		log.Fatalf("failed to ensure indexes: %v", err)
	}
	idxCancel()

	hub := websocket.NewHub()
	go hub.Run()

	var cld *cloudinary.Cloudinary
	if config.App.CloudinaryURL != "" {
		cld, err = cloudinary.NewFromURL(config.App.CloudinaryURL)
		if err != nil {
			log.Fatalf("invalid cloudinary configuration: %v", err)
		}
	} else {
		log.Println("CLOUDINARY_URL not set, photo uploads disabled")
	}

	router := routes.SetupRouter(routes.Deps{
		Hub:        hub,
		Mailer:     mailer.New(config.App),
		UserCache:  cache.NewUsers(1024, time.Hour),
		Cloudinary: cld,
	})

	taskCtx, taskCancel := context.WithCancel(context.Background())
	defer taskCancel()
	tasks.StartExpiredCodeCleanup(taskCtx)

	srv := &http.Server{
		Addr:         ":" + config.App.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("server listening on :%s", config.App.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
}
