// Package web serves the task tracker's JSON API.
package web

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/nhle/lacquer/internal/geo"
	"github.com/nhle/lacquer/internal/geocode"
	"github.com/nhle/lacquer/internal/logging"
	"github.com/nhle/lacquer/internal/model"
	"github.com/nhle/lacquer/internal/service"
	"github.com/nhle/lacquer/internal/views"
)

// Resolver maps a session token to a user id.
type Resolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// Geocoder is the map provider used by the geocoding endpoints.
type Geocoder interface {
	Forward(ctx context.Context, address string) ([]geocode.Place, error)
	ReverseOrCoordinates(ctx context.Context, c geo.Coordinate) string
}

// Server is the lacquer API server.
type Server struct {
	svc      *service.Service
	auth     Resolver
	tracker  *views.Tracker
	geocoder Geocoder
	authCfg  model.AuthConfig
	logger   *log.Logger
	router   *gin.Engine
}

// Options carries the server's collaborators. Geocoder may be nil, in
// which case the geocoding endpoints answer 503. A nil Tracker disables
// ETags.
type Options struct {
	Service  *service.Service
	Auth     Resolver
	Tracker  *views.Tracker
	Geocoder Geocoder
	AuthCfg  model.AuthConfig
	Logger   *log.Logger
}

// NewServer creates a new API server and registers its routes.
func NewServer(opts Options) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), logging.GinMiddleware(opts.Logger))

	s := &Server{
		svc:      opts.Service,
		auth:     opts.Auth,
		tracker:  opts.Tracker,
		geocoder: opts.Geocoder,
		authCfg:  opts.AuthCfg,
		logger:   opts.Logger,
		router:   router,
	}

	router.GET("/healthz", s.handleHealth)
	router.GET("/auth", s.handleSignIn)

	api := router.Group("/api", s.requireUser)
	{
		api.GET("/tasks", s.handleListTasks)
		api.GET("/tasks/view", s.handleTaskView)
		api.POST("/tasks", s.handleCreateTask)
		api.DELETE("/tasks/:id", s.handleDeleteTask)
		api.PUT("/tasks/:id/due-date", s.handleUpdateDueDate)
		api.PUT("/tasks/:id/completion", s.handleUpdateCompletion)
		api.PUT("/tasks/:id/note", s.handleUpsertNote)

		api.GET("/projects", s.handleListProjects)
		api.POST("/projects", s.handleCreateProject)
		api.DELETE("/projects/:id", s.handleDeleteProject)

		api.GET("/locations", s.handleListLocations)
		api.POST("/locations", s.handleCreateLocation)

		api.GET("/settings", s.handleGetSettings)
		api.PUT("/settings", s.handleUpdateSettings)

		api.GET("/geocode", s.handleGeocode)
		api.GET("/geocode/reverse", s.handleReverseGeocode)
		api.GET("/map", s.handleMap)
	}

	return s
}

// Handler returns the HTTP handler for use with an http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "status": "ok"})
}

func (s *Server) handleSignIn(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Sign in with your identity provider and send the session token as a Bearer header or cookie",
		"sign_in_url": s.authCfg.SignInURL,
		"cookie_name": s.authCfg.CookieName,
	})
}
