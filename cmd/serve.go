package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Uzzzi-bit/DX-Ontime-Project/routes"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, nc, err := loadEnv()
			if err != nil {
				return err
			}
			a, err := newApp(ctx, cfg, nc, true)
			if err != nil {
				return err
			}
			defer a.close()

			gin.SetMode(gin.ReleaseMode)
			srv := &http.Server{
				Addr: ":" + cfg.Port,
				Handler: routes.SetupRouter(routes.Deps{
					Foods:   a.foods,
					Meals:   a.meals,
					Targets: a.targets,
					Log:     a.log,
				}),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errc := make(chan error, 1)
			go func() {
				a.log.Info("listening", zap.String("addr", srv.Addr))
				errc <- srv.ListenAndServe()
			}()

			select {
			case err := <-errc:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			a.log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}
