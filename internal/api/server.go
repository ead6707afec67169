// Package api serves the comparison dashboard and admin portal over HTTP.
package api

import (
	"net/http"
	"time"

	"licensing-map/internal/agent"
	"licensing-map/internal/catalogstore"
	"licensing-map/internal/editor"
	"licensing-map/internal/export"
	"licensing-map/internal/logging"
	"licensing-map/internal/users"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Deps are the services the HTTP layer needs. Agent and Archiver may be nil.
type Deps struct {
	Store    *catalogstore.Store
	Editor   *editor.Editor
	Agent    *agent.Agent
	Users    *users.Directory
	Tokens   *users.Tokens
	Archiver export.Archiver
}

// Server holds the handlers.
type Server struct {
	store    *catalogstore.Store
	editor   *editor.Editor
	agent    *agent.Agent
	chats    *agent.Conversations
	users    *users.Directory
	tokens   *users.Tokens
	archiver export.Archiver
	now      func() time.Time
}

// NewServer wires handlers to deps.
func NewServer(d Deps) *Server {
	ed := d.Editor
	if ed == nil {
		ed = editor.New(d.Store)
	}
	return &Server{
		store:    d.Store,
		editor:   ed,
		agent:    d.Agent,
		chats:    agent.NewConversations(),
		users:    d.Users,
		tokens:   d.Tokens,
		archiver: d.Archiver,
		now:      time.Now,
	}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(logging.JSONLogger())
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Authorization", "Content-Type"},
		ExposeHeaders:   []string{"Content-Disposition"},
		MaxAge:          12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	api := r.Group("/api")
	{
		// Dashboard
		api.GET("/bundles", s.handleListBundles)
		api.GET("/capabilities", s.handleListCapabilities)
		api.GET("/summary", s.handleSummary)
		api.GET("/entitlement", s.handleEntitlement)
		api.GET("/matrix", s.handleMatrix)
		api.GET("/export.csv", s.handleExportCSV)
		api.POST("/chat", s.handleChat)

		// Session
		api.POST("/auth/login", s.handleLogin)
		me := api.Group("/me", s.requireAuth())
		{
			me.GET("", s.handleMe)
			me.PUT("/frequency", s.handleSetFrequency)
		}

		admin := api.Group("/admin", s.requireAuth(), requireRole(users.RoleAdmin, users.RoleSuperAdmin))
		{
			admin.POST("/capabilities", s.handleCreateCapability)
			admin.PUT("/capabilities/:id", s.handleUpdateCapability)
			admin.DELETE("/capabilities/:id", s.handleDeleteCapability)
			admin.POST("/bundles", s.handleCreateBundle)
			admin.PUT("/bundles/:id", s.handleUpdateBundle)
			admin.DELETE("/bundles/:id", s.handleDeleteBundle)
			admin.POST("/reset", s.handleReset)

			ed := admin.Group("/editor")
			{
				ed.GET("", s.handleEditorView)
				ed.POST("/open", s.handleEditorOpen)
				ed.POST("/ops", s.handleEditorOp)
				ed.POST("/save", s.handleEditorSave)
				ed.POST("/discard", s.handleEditorDiscard)
				ed.POST("/tab", s.handleEditorTab)
			}

			super := admin.Group("/users", requireRole(users.RoleSuperAdmin))
			{
				super.GET("", s.handleListUsers)
				super.POST("/:id/approve", s.handleApproveUser)
				super.DELETE("/:id", s.handleDeleteUser)
			}
		}
	}

	return r
}
