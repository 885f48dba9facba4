package handlers

import (
	"net/http"

	"gabinete-digital/internal/middleware"
	"gabinete-digital/internal/models"
	"gabinete-digital/pkg/auth"

	"github.com/gin-gonic/gin"
)

// Handlers reúne os handlers registrados no roteador
type Handlers struct {
	Auth      *AuthHandler
	Public    *PublicHandler
	Demands   *DemandHandler
	Contacts  *ContactHandler
	News      *NewsHandler
	Messages  *MessageHandler
	Settings  *SettingsHandler
	Dashboard *DashboardHandler
	WebSocket *WebSocketHandler
}

// RegisterRoutes monta /api/v1. rateLimit protege apenas os envios públicos
// e pode ser nil.
func RegisterRoutes(router *gin.Engine, h *Handlers, jwtManager *auth.JWTManager, rateLimit gin.HandlerFunc) {
	if rateLimit == nil {
		rateLimit = func(c *gin.Context) { c.Next() }
	}

	v1 := router.Group("/api/v1")
	{
		setupPublicRoutes(v1, h, rateLimit)
		setupAdminRoutes(v1, h, jwtManager)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Endpoint não encontrado",
			"path":  c.Request.URL.Path,
		})
	})
}

func setupPublicRoutes(v1 *gin.RouterGroup, h *Handlers, rateLimit gin.HandlerFunc) {
	v1.GET("/meta", h.Public.Meta)
	v1.POST("/auth/login", rateLimit, h.Auth.Login)

	v1.POST("/demandas", rateLimit, h.Public.CreateDemand)
	v1.POST("/mensagens", rateLimit, h.Public.SendMessage)

	v1.GET("/noticias", h.Public.ListNews)
	v1.GET("/noticias/:slug", h.Public.GetNews)
}

func setupAdminRoutes(v1 *gin.RouterGroup, h *Handlers, jwtManager *auth.JWTManager) {
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(jwtManager))

	manage := middleware.RequirePermission(models.PermissionManageContent)
	remove := middleware.RequirePermission(models.PermissionDeleteRecords)
	exportData := middleware.RequirePermission(models.PermissionExportData)

	admin.GET("/me", h.Auth.Me)
	admin.GET("/dashboard", h.Dashboard.Get)

	demands := admin.Group("/demandas")
	{
		demands.GET("", h.Demands.List)
		demands.GET("/estatisticas", h.Demands.Stats)
		demands.GET("/proximas", h.Demands.Nearby)
		demands.GET("/exportar", exportData, h.Demands.Export)
		demands.GET("/:id", h.Demands.Get)
		demands.POST("", manage, h.Demands.Create)
		demands.PATCH("/:id", manage, h.Demands.Update)
		demands.DELETE("/:id", remove, h.Demands.Delete)
	}

	contacts := admin.Group("/contatos")
	{
		contacts.GET("", h.Contacts.List)
		contacts.GET("/estatisticas", h.Contacts.Stats)
		contacts.GET("/exportar", exportData, h.Contacts.Export)
		contacts.GET("/:id", h.Contacts.Get)
		contacts.POST("", manage, h.Contacts.Create)
		contacts.PATCH("/:id", manage, h.Contacts.Update)
		contacts.DELETE("/:id", remove, h.Contacts.Delete)
	}

	news := admin.Group("/noticias")
	{
		news.GET("", h.News.List)
		news.GET("/:id", h.News.Get)
		news.POST("", manage, h.News.Create)
		news.PATCH("/:id", manage, h.News.Update)
		news.DELETE("/:id", remove, h.News.Delete)
	}

	messages := admin.Group("/mensagens")
	{
		messages.GET("", h.Messages.List)
		messages.GET("/nao-lidas", h.Messages.Unread)
		messages.GET("/:id", h.Messages.Get)
		messages.PATCH("/:id/lida", h.Messages.MarkRead)
		messages.PATCH("/:id/respondida", h.Messages.MarkAnswered)
		messages.DELETE("/:id", remove, h.Messages.Delete)
	}

	settings := admin.Group("/configuracoes")
	settings.Use(middleware.RequirePermission(models.PermissionManageSettings))
	{
		settings.GET("", h.Settings.List)
		settings.GET("/:chave", h.Settings.Get)
		settings.PUT("/:chave", h.Settings.Put)
	}

	admin.GET("/ws", h.WebSocket.Connect)
	admin.GET("/ws/stats", h.WebSocket.Stats)
}
