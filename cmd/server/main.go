package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tasktrack/backend/internal/cache"
	"tasktrack/backend/internal/config"
	"tasktrack/backend/internal/database"
	"tasktrack/backend/internal/handlers"
	"tasktrack/backend/internal/logger"
	"tasktrack/backend/internal/middleware"
	"tasktrack/backend/internal/monitoring"
	"tasktrack/backend/internal/services"
	"tasktrack/backend/internal/worker"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logger.New("tasktrack-api")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	pool, err := database.NewDatabasePool(database.PoolConfigFromApp(cfg))
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer pool.Close()

	if err := database.Migrate(pool.DB); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	redisCache := cache.NewRedisCache(cache.CacheConfigFromApp(cfg))
	multiCache := cache.NewMultiLevelCache(redisCache)
	defer multiCache.Close()

	taskService := services.NewCachedTaskService(services.NewTaskService(), multiCache)
	userService := services.NewUserService()

	reminderQueue := worker.NewJobQueue(redisCache.Client())

	taskWorker := worker.NewWorker(worker.WorkerConfig{
		RedisClient: redisCache.Client(),
		Logger:      log,
		Queues:      cfg.Worker.Queues,
	})
	taskWorker.RegisterHandler(worker.JobTypeTaskReminder, reminderHandler(log))
	taskWorker.Start(cfg.Worker.Concurrency)
	defer taskWorker.Stop()

	monitoring.RegisterHealthCheck("database", func(ctx context.Context) error {
		return pool.Health()
	})
	monitoring.RegisterHealthCheck("redis", func(ctx context.Context) error {
		return redisCache.Health()
	})

	router := setupRouter(cfg, log, pool, taskService, userService, reminderQueue)

	server := &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.WithField("addr", server.Addr).Info("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("forced shutdown")
	}
}

func setupRouter(
	cfg *config.Config,
	log *logrus.Logger,
	pool *database.DatabasePool,
	taskService services.TaskService,
	userService services.UserService,
	reminderQueue *worker.JobQueue,
) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RecoveryWithLog(log))
	router.Use(middleware.RequestLogger(log))
	router.Use(monitoring.MetricsMiddleware())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "X-Request-ID")
	router.Use(cors.New(corsConfig))

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit)
		router.Use(limiter.Middleware())
	}

	taskHandler := handlers.NewTaskHandler(pool.DB, taskService, userService).
		WithReminderQueue(reminderQueue)
	userHandler := handlers.NewUserHandler(pool.DB, userService)

	api := router.Group("/api")
	{
		api.POST("/user", userHandler.ResolveUser)
		api.GET("/user", userHandler.GetUser)
		api.GET("/data", taskHandler.GetTasksByEmail)
		api.GET("/task", taskHandler.GetTaskByID)
		api.POST("/add", taskHandler.CreateTask)
		api.PATCH("/update", taskHandler.PatchTaskStatus)
		api.PUT("/edit", taskHandler.UpdateTask)
		api.DELETE("/delete", taskHandler.DeleteTask)
	}

	router.GET("/health", monitoring.HealthHandler())
	router.GET("/health/live", monitoring.LivenessHandler())
	router.GET("/health/ready", monitoring.ReadinessHandler())
	router.GET("/metrics", monitoring.MetricsHandler())

	return router
}

// reminderHandler logs due tasks. Notification delivery is a separate
// concern; the log line is what downstream shippers pick up.
func reminderHandler(log *logrus.Logger) worker.JobHandler {
	return func(ctx context.Context, job *worker.Job) error {
		taskID, ok := job.Payload["task_id"]
		if !ok {
			return fmt.Errorf("reminder job %s missing task_id", job.ID)
		}

		log.WithFields(logrus.Fields{
			"job_id":  job.ID,
			"task_id": taskID,
			"user_id": job.Payload["user_id"],
			"title":   job.Payload["title"],
		}).Info("task due reminder")

		return nil
	}
}
