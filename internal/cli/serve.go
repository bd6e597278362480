package cli

import (
	"context"
	"fmt"
	"log"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/taskboard/internal/devbackend"
	"github.com/idilsaglam/taskboard/internal/logging"
	"github.com/idilsaglam/taskboard/internal/proxy"
)

const shutdownTimeout = 10 * time.Second

type server interface {
	ListenAndServe(addr string) error
	Shutdown(ctx context.Context) error
}

func (a *app) newProxyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "proxy",
		Short: "Serve /api/todo and forward it to the backend",
		Args:  exactArgs(0, "taskboard proxy"),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.ginMode()
			sink := logging.NewAsyncWriter(cmd.ErrOrStderr(), 0)
			defer sink.Close()
			logger := log.New(sink, "[proxy] ", log.LstdFlags)

			opts, err := proxy.OptionsFromConfig(a.cfg, logger)
			if err != nil {
				return err
			}
			logger.Printf("forwarding %s to %s", proxy.Route, a.cfg.Backend.URL)
			return serve(cmd.Context(), logger, "proxy", a.cfg.Proxy.Addr, proxy.NewServer(opts))
		},
	}
}

func (a *app) newBackendCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "backend",
		Short: "Serve a local development task backend on /todo",
		Args:  exactArgs(0, "taskboard backend"),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.ginMode()
			logger := log.New(cmd.ErrOrStderr(), "[backend] ", log.LstdFlags)

			st, err := devbackend.OpenStore(cmd.Context(), a.cfg.Backend)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			logger.Printf("store: %s (%s)", a.cfg.Backend.Store, a.cfg.Backend.DataFile)
			srv := devbackend.NewServer(devbackend.Options{
				Store:   st,
				Logger:  logger,
				TLSCert: a.cfg.Backend.TLSCert,
				TLSKey:  a.cfg.Backend.TLSKey,
			})
			return serve(cmd.Context(), logger, "backend", a.cfg.Backend.Addr, srv)
		},
	}
}

func (a *app) ginMode() {
	if a.cfg.Debug {
		gin.SetMode(gin.DebugMode)
		return
	}
	gin.SetMode(gin.ReleaseMode)
}

// serve runs srv until SIGINT/SIGTERM, then drains it for up to shutdownTimeout.
func serve(ctx context.Context, logger *log.Logger, name, addr string, srv server) error {
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe(addr) }()

	wait := gfshutdown.GracefulShutdown(ctx, shutdownTimeout, map[string]gfshutdown.Operation{
		name: func(ctx context.Context) error {
			logger.Printf("graceful shutdown initiated")
			return srv.Shutdown(ctx)
		},
	})

	select {
	case err := <-errc:
		if err != nil {
			return err
		}
		// Serve returned because Shutdown ran; let it finish.
		if code := <-wait; code != 0 {
			return fmt.Errorf("%s: shutdown exited with code %d", name, code)
		}
	case code := <-wait:
		if code != 0 {
			return fmt.Errorf("%s: shutdown exited with code %d", name, code)
		}
	}
	logger.Printf("stopped")
	return nil
}
