package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/medisched/hospital-scheduler/internal/cache"
	"github.com/medisched/hospital-scheduler/internal/config"
	dbpkg "github.com/medisched/hospital-scheduler/internal/db"
	"github.com/medisched/hospital-scheduler/internal/notify"
	"github.com/medisched/hospital-scheduler/internal/routes"
)

func main() {

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	redisClient := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword)
	calendarCache := cache.NewCalendarCache(redisClient)

	var notifiers []notify.Notifier
	if cfg.ChatWebhookURL != "" {
		notifiers = append(notifiers, notify.NewChatWebhook(cfg.ChatWebhookURL))
	}
	notifiers = append(notifiers, &notify.LogNotifier{Prefix: "mail"})

	reminder := notify.NewReminderWorker(db, 24*time.Hour, notifiers...)
	go reminder.Run(context.Background())

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, calendarCache)

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
