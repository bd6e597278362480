// Package devbackend is a local stand-in for the task backend the proxy talks to.
package devbackend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/idilsaglam/taskboard/internal/config"
	"github.com/idilsaglam/taskboard/internal/logging"
	"github.com/idilsaglam/taskboard/internal/store"
	"github.com/idilsaglam/taskboard/internal/store/jsonstore"
	"github.com/idilsaglam/taskboard/internal/store/sqlite"
)

// Route is the collection path, matching the default backend URL.
const Route = "/todo"

type Options struct {
	Store   store.Store
	Logger  *log.Logger
	Now     func() time.Time
	TLSCert string
	TLSKey  string
}

type Server struct {
	router *gin.Engine
	srv    *http.Server
	logger *log.Logger
	opts   Options
}

// OpenStore builds the store selected by cfg.Store.
func OpenStore(ctx context.Context, cfg config.BackendConfig) (store.Store, error) {
	switch cfg.Store {
	case "", "json":
		s, err := jsonstore.New(cfg.DataFile)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "sqlite":
		path := cfg.DataFile
		if path == "" || path == jsonstore.DefaultFileName {
			path = sqlite.DefaultFileName
		}
		s, err := sqlite.Open(ctx, path)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown store %q", cfg.Store)
}

func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if logging.DebugEnabled() {
		router.Use(gin.Logger())
	}

	h := NewTaskHandler(opts.Store, opts.Now, logger)
	todo := router.Group(Route)
	{
		todo.GET("", h.ListTasks)
		todo.GET("/:id", h.GetTask)
		todo.POST("", h.CreateTask)
		todo.PATCH("", h.UpdateTask)
		todo.PATCH("/:id", h.UpdateTask)
		todo.DELETE("/:id", h.DeleteTask)
	}
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, envelope{Error: "route not found"})
	})

	return &Server{
		router: router,
		logger: logger,
		opts:   opts,
		srv:    &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second},
	}
}

func (s *Server) Handler() http.Handler { return s.router }

// TLS reports whether the server terminates HTTPS itself.
func (s *Server) TLS() bool { return s.opts.TLSCert != "" && s.opts.TLSKey != "" }

// ListenAndServe blocks until the server stops. A clean Shutdown returns nil.
func (s *Server) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return s.Serve(ln)
}

func (s *Server) Serve(ln net.Listener) error {
	scheme := "http"
	if s.TLS() {
		scheme = "https"
	}
	s.logger.Printf("backend listening on %s://%s%s", scheme, ln.Addr(), Route)

	var err error
	if s.TLS() {
		err = s.srv.ServeTLS(ln, s.opts.TLSCert, s.opts.TLSKey)
	} else {
		err = s.srv.Serve(ln)
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// Shutdown drains connections and closes the store.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.srv.Shutdown(ctx)
	if cerr := s.opts.Store.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("close store: %w", cerr)
	}
	return err
}
