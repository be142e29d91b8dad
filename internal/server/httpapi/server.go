// Package httpapi exposes the services over a JSON HTTP API built on gin.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/services"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

type HTTPServer struct {
	address string
	users   *services.UserService
	notes   *services.NoteService
	ducks   *services.DuckService
	logger  logging.Logger
}

func NewHTTPServer(a string, l logging.Logger, us *services.UserService, ns *services.NoteService, ds *services.DuckService) *HTTPServer {
	return &HTTPServer{
		address: a,
		logger:  l.With("module", "http_server"),
		users:   us,
		notes:   ns,
		ducks:   ds,
	}
}

// Handler builds the gin engine with every route mounted under /api.
func (s *HTTPServer) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger(), gzip.Gzip(gzip.DefaultCompression))

	api := r.Group("/api")
	api.GET("/ping", s.ping)

	api.POST("/users", s.registerUser)
	api.POST("/users/auth", s.authenticateUser)

	api.GET("/ducks", s.searchDucks)
	api.GET("/ducks/:id", s.retrieveDuck)

	authed := api.Group("", s.authRequired())
	{
		authed.GET("/users", s.retrieveUser)
		authed.PUT("/users", s.updateUser)
		authed.DELETE("/users", s.deleteUser)
		authed.GET("/users/notes", s.listUserNotes)

		authed.GET("/notes", s.listNotes)
		authed.GET("/notes/:id", s.retrieveNote)
		authed.POST("/notes", s.createNote)
		authed.POST("/notes/private", s.createPrivateNote)
		authed.PUT("/notes/:id", s.updateNote)
		authed.DELETE("/notes/:id", s.deleteNote)

		authed.POST("/favorites/:id", s.toggleFavorite)
		authed.GET("/favorites", s.retrieveFavorites)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts the server down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}
