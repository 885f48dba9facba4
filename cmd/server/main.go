// cmd/server/main.go - Gabinete Digital: API do gabinete do vereador
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"gabinete-digital/internal/config"
	"gabinete-digital/internal/database"
	"gabinete-digital/internal/handlers"
	"gabinete-digital/internal/middleware"
	"gabinete-digital/internal/models"
	"gabinete-digital/internal/realtime"
	"gabinete-digital/internal/services"
	"gabinete-digital/internal/tablestore"
	"gabinete-digital/pkg/auth"
	"gabinete-digital/pkg/validator"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

var (
	serverStartTime = time.Now()

	appVersion = "1.0.0"
	buildTime  = "unknown"
	gitCommit  = "unknown"
)

func main() {
	cfg := config.Load()

	log := setupLogging(cfg)
	printStartupInfo(cfg, log)

	store, err := openStore(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("❌ Falha ao abrir o armazenamento")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.Close(ctx); err != nil {
			log.WithError(err).Warn("⚠️  Erro ao fechar o armazenamento")
		}
	}()

	validator.Init()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, time.Duration(cfg.JWTExpiration)*time.Hour)

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	hub := realtime.NewHub(originChecker(cfg.AllowedOrigins), log)
	go hub.Run(hubCtx)

	notifier := services.NewNotifier(hub, cfg.NotifyWebhookURL, log)
	demands := services.NewDemandService(store, notifier, log)
	contacts := services.NewContactService(store, log)
	news := services.NewNewsService(store, notifier, log)
	messages := services.NewMessageService(store, notifier, log)
	settings := services.NewSettingsService(store, log)

	h := &handlers.Handlers{
		Auth:      handlers.NewAuthHandler(accounts(cfg), jwtManager, log),
		Public:    handlers.NewPublicHandler(demands, messages, news),
		Demands:   handlers.NewDemandHandler(demands),
		Contacts:  handlers.NewContactHandler(contacts),
		News:      handlers.NewNewsHandler(news),
		Messages:  handlers.NewMessageHandler(messages),
		Settings:  handlers.NewSettingsHandler(settings),
		Dashboard: handlers.NewDashboardHandler(services.NewDashboardService(demands, contacts, messages)),
		WebSocket: handlers.NewWebSocketHandler(hub, log),
	}

	rateLimit, stopRateLimit := setupRateLimit(cfg, log)
	defer stopRateLimit()

	router := setupRouter(cfg, log, h, jwtManager, rateLimit, hub, store)

	srv := &http.Server{
		Addr:           fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	go func() {
		log.Infof("🚀 Gabinete Digital v%s iniciando...", appVersion)
		log.Infof("🌐 Servidor em http://%s:%s", cfg.Host, cfg.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("❌ Servidor não iniciou")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("🛑 Encerrando servidor...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("⚠️  Servidor forçado a encerrar")
	} else {
		log.Info("✅ Servidor encerrado")
	}

	// Fecha as conexões websocket antes de fechar o armazenamento
	stopHub()

	log.Info("👋 Gabinete Digital finalizado")
}

func setupLogging(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		gin.SetMode(gin.DebugMode)
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}

func printStartupInfo(cfg *config.Config, log *logrus.Logger) {
	log.Info("================================================================================")
	log.Info("🏛️  Gabinete Digital")
	log.Infof("📌 Versão: %s | Build: %s | Commit: %s", appVersion, buildTime, gitCommit)
	log.Infof("🌍 Ambiente: %s", cfg.Env)
	log.Infof("   • Armazenamento: %s", cfg.StoreBackend)
	log.Infof("   • CORS: %v", cfg.AllowedOrigins)
	if cfg.RateLimitEnabled {
		log.Infof("   • Limite: %d requisições a cada %ds", cfg.RateLimitRequests, cfg.RateLimitWindow)
	}
	log.Info("================================================================================")
}

// openStore escolhe o backend conforme STORE_BACKEND
func openStore(cfg *config.Config, log *logrus.Logger) (tablestore.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendMongo:
		log.Info("🔌 Conectando ao MongoDB...")
		db, err := database.NewMongoDB(cfg, log)
		if err != nil {
			return nil, err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := db.CreateIndexes(ctx); err != nil {
			log.WithError(err).Warn("⚠️  Falha ao criar alguns índices")
		}
		return tablestore.NewMongo(db.Client, db.Database), nil

	case config.BackendPostgres:
		log.Info("🔌 Conectando ao Postgres...")
		db, err := database.NewPostgres(cfg, log)
		if err != nil {
			return nil, err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := database.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return tablestore.NewPostgres(db), nil

	case config.BackendPostgREST:
		if cfg.SupabaseURL == "" {
			return nil, fmt.Errorf("SUPABASE_URL é obrigatório para o backend %s", cfg.StoreBackend)
		}
		log.WithField("url", cfg.SupabaseURL).Info("🔌 Usando PostgREST (Supabase)")
		return tablestore.NewPostgREST(cfg.SupabaseURL, cfg.SupabaseKey), nil

	case config.BackendMemory:
		log.Warn("⚠️  Armazenamento em memória: os dados somem ao reiniciar")
		return tablestore.NewMemory(
			tablestore.WithUnique(tablestore.TableNews, "slug"),
			tablestore.WithUnique(tablestore.TableSettings, "chave"),
		), nil
	}
	return nil, fmt.Errorf("STORE_BACKEND desconhecido: %q", cfg.StoreBackend)
}

// accounts monta as contas do painel a partir da configuração
func accounts(cfg *config.Config) []handlers.Account {
	return []handlers.Account{
		{ID: "admin", Email: cfg.AdminEmail, PasswordHash: cfg.AdminPasswordHash, Role: models.RoleAdmin},
		{ID: "assessor", Email: cfg.StaffEmail, PasswordHash: cfg.StaffPasswordHash, Role: models.RoleStaff},
	}
}

// setupRateLimit usa Redis quando REDIS_ADDR estiver definido
func setupRateLimit(cfg *config.Config, log *logrus.Logger) (gin.HandlerFunc, func()) {
	if !cfg.RateLimitEnabled {
		return nil, func() {}
	}

	window := time.Duration(cfg.RateLimitWindow) * time.Second

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			log.WithError(err).Warn("⚠️  Redis indisponível, limite de requisições por instância")
		} else {
			limiter := middleware.NewRateLimiter(middleware.NewRedisCounter(client, cfg.RateLimitRequests, window), log)
			return limiter.RateLimit(), func() { client.Close() }
		}
		client.Close()
	}

	counter := middleware.NewMemoryCounter(cfg.RateLimitRequests, window)
	return middleware.NewRateLimiter(counter, log).RateLimit(), counter.Stop
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}
}

func setupRouter(
	cfg *config.Config,
	log *logrus.Logger,
	h *handlers.Handlers,
	jwtManager *auth.JWTManager,
	rateLimit gin.HandlerFunc,
	hub *realtime.Hub,
	store tablestore.Store,
) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.SecurityHeaders())

	setupHealthRoutes(router, hub, store)
	handlers.RegisterRoutes(router, h, jwtManager, rateLimit)

	return router
}

func setupHealthRoutes(router *gin.Engine, hub *realtime.Hub, store tablestore.Store) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
			"uptime":    time.Since(serverStartTime).String(),
			"version":   appVersion,
			"build": gin.H{
				"time":   buildTime,
				"commit": gitCommit,
			},
			"stats": gin.H{
				"websocket_connections": hub.Clients(),
			},
		})
	})

	// Pronto quando o armazenamento responde
	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		var probe []models.Setting
		if err := store.Find(ctx, tablestore.TableSettings, tablestore.Query{Limit: 1}, &probe); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"ready": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ready": true})
	})

	router.GET("/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"alive": true})
	})
}
