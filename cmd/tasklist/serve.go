package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/metalagman/tasklist/internal/config"
	"github.com/metalagman/tasklist/internal/session"
	"github.com/metalagman/tasklist/internal/storage"
	"github.com/metalagman/tasklist/internal/web"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			repoRoot, err := os.Getwd()
			if err != nil {
				return err
			}
			cfg, err := loadConfig(repoRoot)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Web.Addr = addr
			}

			app := fx.New(serveOptions(cfg), fx.NopLogger)
			startCtx, cancel := context.WithTimeout(cmd.Context(), fx.DefaultTimeout)
			defer cancel()
			if err := app.Start(startCtx); err != nil {
				return err
			}
			sig := <-app.Done()
			log.Info().Str("signal", sig.String()).Msg("shutting down")

			stopCtx, cancelStop := context.WithTimeout(context.Background(), fx.DefaultTimeout)
			defer cancelStop()
			return app.Stop(stopCtx)
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides web.addr)")
	return cmd
}

// serveOptions wires config, storage, session and the HTTP server.
func serveOptions(cfg config.Config) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		fx.Provide(
			newPersistence,
			newSession,
			func(s *session.Session) web.Dispatcher { return s },
			web.NewServer,
			newHTTPServer,
		),
		fx.Invoke(func(*http.Server) {}),
	)
}

func newPersistence(lc fx.Lifecycle, cfg config.Config) (storage.Persistence, error) {
	store, closeFn, err := openPersistence(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{OnStop: func(context.Context) error {
		closeFn()
		return nil
	}})
	return store, nil
}

func newSession(store storage.Persistence) *session.Session {
	return session.New(context.Background(), store)
}

func newHTTPServer(lc fx.Lifecycle, cfg config.Config, srv *web.Server) *http.Server {
	hs := &http.Server{
		Addr:              cfg.Web.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", hs.Addr)
			if err != nil {
				return err
			}
			log.Info().Str("addr", ln.Addr().String()).Msg("web ui listening")
			go func() {
				if err := hs.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error().Err(err).Msg("web ui stopped")
				}
			}()
			return nil
		},
		OnStop: hs.Shutdown,
	})
	return hs
}
