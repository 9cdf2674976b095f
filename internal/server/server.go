package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/embedhub/embedhub/internal/log"
	"github.com/embedhub/embedhub/internal/server/api"
	"github.com/embedhub/embedhub/internal/server/biz"
	"github.com/embedhub/embedhub/internal/server/dependencies"
	"github.com/embedhub/embedhub/internal/server/middleware"
	"github.com/embedhub/embedhub/internal/tracing"
)

func New(config Config) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.Recovery())

	return &Server{
		Config: config,
		Engine: engine,
	}
}

type Server struct {
	*gin.Engine

	Config Config
	server *http.Server
	addr   string
}

func (srv *Server) Run() error {
	log.Info(context.Background(), "run server",
		log.String("name", srv.Config.Name),
		log.String("host", srv.Config.Host),
		log.Int("port", srv.Config.Port),
	)

	addr := fmt.Sprintf("%s:%d", srv.Config.Host, srv.Config.Port)
	srv.server = &http.Server{
		Addr:         addr,
		Handler:      srv.Engine,
		ReadTimeout:  srv.Config.ReadTimeout,
		WriteTimeout: srv.Config.RequestTimeout,
	}
	srv.addr = addr

	err := srv.server.ListenAndServe()
	if err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	}

	return nil
}

func (srv *Server) Shutdown(ctx context.Context) error {
	return srv.server.Shutdown(ctx)
}

func Run(opts ...fx.Option) {
	app := fx.New(
		append([]fx.Option{
			fx.NopLogger,
			fx.Provide(New),
			dependencies.Module,
			biz.Module,
			api.Module,
			fx.Invoke(func(logger *log.Logger) {
				tracing.SetupLogger(logger)
				log.SetGlobal(logger)
			}),
			fx.Invoke(func(lc fx.Lifecycle, srv *Server, users *biz.UserService) {
				owner := srv.Config.Owner
				if owner.Email == "" {
					return
				}

				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						_, err := users.EnsureOwner(ctx, owner.Email, owner.Name, owner.Password)
						return err
					},
				})
			}),
			fx.Invoke(SetupRoutes),
		}, opts...)...,
	)
	app.Run()
}
