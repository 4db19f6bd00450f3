package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"community-service/internal/auth"
	"community-service/internal/db"
	"community-service/internal/handlers"
	"community-service/internal/middleware"
	"community-service/internal/models"
	"community-service/internal/notify"
	"community-service/internal/observability"
	"community-service/internal/rabbitmq"
	"community-service/internal/repositories"
	"community-service/internal/ws"
)

const serviceName = "community-service"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if getEnv("LOG_PRETTY", "") != "" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	environment := getEnv("ENVIRONMENT", "development")

	database, err := db.Connect()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to db")
	}

	shutdownTracing, err := observability.SetupTracing(context.Background(), getEnv("OTLP_GRPC_ADDR", ""), serviceName, environment)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up tracing")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			log.Warn().Err(err).Msg("tracing shutdown failed")
		}
	}()

	publisher := rabbitmq.NewPublisher(getEnv("AMQP_URL", ""), getEnv("AMQP_EXCHANGE", "community.notifications"))
	defer publisher.Close()
	emitter := notify.NewEmitter(publisher, serviceName, environment)

	tokenTTL := 24 * time.Hour
	if raw := getEnv("JWT_TTL", ""); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			tokenTTL = parsed
		}
	}
	tokens := auth.NewTokenManager(getEnv("JWT_SECRET", "dev-secret-change-me"), tokenTTL)

	userRepo := repositories.NewUserRepo(database)
	workerRepo := repositories.NewWorkerRepo(database)
	bookingRepo := repositories.NewBookingRepo(database)
	postRepo := repositories.NewPostRepo(database)
	communityRepo := repositories.NewCommunityRepo(database)
	eventRepo := repositories.NewEventRepo(database)
	messageRepo := repositories.NewMessageRepo(database)

	registry := ws.NewRegistry()

	authHandler := handlers.NewAuthHandler(userRepo, workerRepo, tokens)
	bookingHandler := handlers.NewBookingHandler(bookingRepo, userRepo, emitter)
	workerHandler := handlers.NewWorkerHandler(workerRepo)
	postHandler := handlers.NewPostHandler(postRepo, userRepo, emitter)
	communityHandler := handlers.NewCommunityHandler(communityRepo)
	eventHandler := handlers.NewEventHandler(eventRepo)
	superAdminHandler := handlers.NewSuperAdminHandler(userRepo, emitter)
	messageHandler := handlers.NewMessageHandler(messageRepo)

	wsHandler := ws.NewHandler(registry, messageRepo, tokens)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(observability.HTTPMetricsMiddleware())

	authRequired := middleware.AuthMiddleware(tokens)
	adminOnly := middleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin)
	superAdminOnly := middleware.RequireRole(models.RoleSuperAdmin)
	workerOnly := middleware.RequireRole(models.RoleWorker)

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/signup", authHandler.Signup)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/users", authRequired, authHandler.ListUsers)
	authGroup.GET("/pending", authRequired, adminOnly, authHandler.PendingUsers)
	authGroup.PUT("/approve/:id", authRequired, adminOnly, authHandler.ApproveUser)

	workers := api.Group("/workers", authRequired)
	workers.GET("", workerHandler.List)
	workers.POST("/:id/rate", workerHandler.Rate)
	workers.PUT("/profile", workerOnly, authHandler.CompleteProfile)
	workers.GET("/services", workerOnly, authHandler.ListServices)
	workers.POST("/services", workerOnly, authHandler.AddService)
	workers.DELETE("/services/:service_id", workerOnly, authHandler.RemoveService)

	bookings := api.Group("/bookings", authRequired)
	bookings.POST("", bookingHandler.Create)
	bookings.GET("/worker", workerOnly, bookingHandler.WorkerBookings)
	bookings.GET("/resident", bookingHandler.ResidentBookings)
	bookings.PUT("/:id/status", workerOnly, bookingHandler.UpdateStatus)

	posts := api.Group("/posts", authRequired)
	posts.POST("", postHandler.Create)
	posts.GET("", postHandler.List)
	posts.GET("/mine", postHandler.MyPosts)
	posts.POST("/:id/comments", postHandler.Comment)
	posts.PUT("/:id", postHandler.Update)
	posts.DELETE("/:id", postHandler.Delete)

	communities := api.Group("/communities", authRequired)
	communities.POST("", adminOnly, communityHandler.Create)
	communities.POST("/:id/users", adminOnly, communityHandler.AddUsers)
	communities.GET("/mine", communityHandler.MyCommunities)
	communities.GET("", adminOnly, communityHandler.ListAll)

	events := api.Group("/events", authRequired)
	events.POST("", adminOnly, eventHandler.Create)
	events.GET("", eventHandler.List)
	events.POST("/:id/join", eventHandler.Join)

	superadmin := api.Group("/superadmin", authRequired, superAdminOnly)
	superadmin.GET("/users", superAdminHandler.Users)
	superadmin.GET("/pending", superAdminHandler.PendingAdmins)
	superadmin.PUT("/approve/:id", superAdminHandler.Approve)
	superadmin.GET("/residents", superAdminHandler.Residents)

	api.GET("/messages/:user_id", authRequired, messageHandler.History)

	router.GET("/ws", wsHandler.Handle)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handlers.RegisterDebugRoutes(router, emitter, getEnv("DEBUG_ROUTES", "") != "")

	port := getEnv("PORT", "8080")
	log.Info().Str("port", port).Str("environment", environment).Msg("community service starting")
	if err := router.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
