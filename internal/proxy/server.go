package proxy

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/idilsaglam/taskboard/internal/config"
)

// Route is where the proxy mounts the task collection.
const Route = "/api/todo"

// Options configures a proxy Server.
type Options struct {
	BackendURL     string
	Client         *http.Client
	Logger         *log.Logger
	AllowedOrigins []string
	RateLimit      float64
	RateBurst      int
}

// Server is the browser-facing proxy.
type Server struct {
	router *gin.Engine
	srv    *http.Server
	logger *log.Logger
}

// OptionsFromConfig builds proxy options, including the backend HTTP client.
func OptionsFromConfig(cfg *config.Config, logger *log.Logger) (Options, error) {
	client, err := NewBackendClient(cfg.Backend)
	if err != nil {
		return Options{}, err
	}
	return Options{
		BackendURL:     cfg.Backend.URL,
		Client:         client,
		Logger:         logger,
		AllowedOrigins: cfg.Proxy.AllowedOrigins,
		RateLimit:      cfg.Proxy.RateLimit,
		RateBurst:      cfg.Proxy.RateBurst,
	}, nil
}

func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	router := gin.New()
	router.Use(RecoveryWithLog(logger), RequestID())
	if len(opts.AllowedOrigins) > 0 {
		router.Use(cors.New(corsConfig(opts.AllowedOrigins)))
	}
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = 1
		}
		router.Use(RateLimiter(rate.Limit(opts.RateLimit), burst))
	}

	h := NewHandler(opts.BackendURL, opts.Client, logger)
	api := router.Group(Route)
	{
		api.GET("", h.Todo)
		api.POST("", h.Todo)
		api.PATCH("", h.Todo)
		api.DELETE("", h.Todo)
	}
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": fmt.Sprintf("method %s not allowed", c.Request.Method)})
	})
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return &Server{
		router: router,
		logger: logger,
		srv:    &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second},
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", RequestIDHeader},
		ExposeHeaders: []string{RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe blocks until the server stops. A clean Shutdown returns nil.
func (s *Server) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	s.logger.Printf("proxy listening on %s%s", ln.Addr(), Route)
	if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// NewBackendClient builds the HTTP client used to reach the backend. It has no
// timeout unless one is configured.
func NewBackendClient(cfg config.BackendConfig) (*http.Client, error) {
	tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if cfg.CAFile != "" {
		pem, err := os.ReadFile(cfg.CAFile)
		if err != nil {
			return nil, fmt.Errorf("read ca file: %w", err)
		}
		pool, err := x509.SystemCertPool()
		if err != nil {
			pool = x509.NewCertPool()
		}
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("ca file %s: no certificates found", cfg.CAFile)
		}
		tlsCfg.RootCAs = pool
	}
	if cfg.InsecureSkipVerify {
		tlsCfg.InsecureSkipVerify = true
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = tlsCfg
	return &http.Client{Transport: transport, Timeout: cfg.Timeout}, nil
}
