// Package web mounts the HTTP API: the public auth routes, the
// token-guarded marketplace and messaging routes, and the debug surface.
package web

import (
	"log/slog"
	"net/http"

	"nestchat/auth"
	"nestchat/observability"
	"nestchat/search"
	"nestchat/services"

	"github.com/gin-gonic/gin"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Log           *slog.Logger
	Auth          services.IAuthService
	Apartments    services.IApartmentService
	Conversations services.IConversationService
	Messages      services.IMessageService
	Search        search.ISearchIndex
	Stats         *observability.Stats
}

// NewRouter builds the gin engine with every route mounted. Recovery is
// the only global middleware; request logging stays on slog.
func NewRouter(deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	authHandler := NewAuthHandler(deps.Auth, deps.Log)
	apartmentHandler := NewApartmentHandler(deps.Apartments, deps.Log)
	chatHandler := NewChatHandler(deps.Conversations, deps.Messages, deps.Log)
	searchHandler := NewSearchHandler(deps.Search, deps.Stats, deps.Log)

	router.POST("/api/v1/auth/register", authHandler.Register)
	router.POST("/api/v1/auth/login", authHandler.Login)

	authed := router.Group("/api/v1")
	authed.Use(auth.Middleware())
	authed.POST("/apartments", apartmentHandler.Create)
	authed.GET("/apartments/:id", apartmentHandler.GetByID)
	authed.POST("/conversations", chatHandler.StartConversation)
	authed.GET("/conversations", chatHandler.ListConversations)
	authed.GET("/conversations/:id/messages", chatHandler.ListMessages)
	authed.POST("/conversations/:id/messages", chatHandler.SendMessage)
	authed.GET("/conversations/:id/unread-count", chatHandler.UnreadCount)
	authed.POST("/messages/:id/read", chatHandler.MarkMessageRead)
	authed.GET("/messages/search", searchHandler.Search)

	router.GET("/debug/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, deps.Stats.Take())
	})

	return router
}
