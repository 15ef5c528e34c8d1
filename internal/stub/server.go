// Package stub is an in-memory stand-in for the ServeRest API. It answers the
// routes the harness consumes with the same statuses and messages, which lets the
// suite run offline and lets package tests exercise real HTTP round trips.
package stub

import (
	"context"
	"net"
	"net/http"
	"time"

	jwt "github.com/appleboy/gin-jwt/v2"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/maxiaolu1981/cretem/nexuscore/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	gindump "github.com/tpkeeper/gin-dump"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/metrics"
	genericoptions "github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/options"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/serverest"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/stub/options"
	"github.com/maxiaolu1981/cretem/serverest-e2e/pkg/log"
)

type Server struct {
	opts    *options.Options
	engine  *gin.Engine
	store   *store
	jwtAuth *jwt.GinJWTMiddleware
}

// New builds the engine and seeds the configured accounts. opts must be completed.
func New(opts *options.Options) (*Server, error) {
	useJSONFieldNames()
	if opts.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		opts:   opts,
		engine: gin.New(),
		store:  newStore(),
	}
	if err := s.seed(); err != nil {
		return nil, err
	}
	jwtAuth, err := s.newJWTAuth()
	if err != nil {
		return nil, err
	}
	s.jwtAuth = jwtAuth
	s.installMiddleware()
	s.installRoutes()
	return s, nil
}

func (s *Server) seed() error {
	accounts := []struct {
		nome    string
		account genericoptions.AccountOptions
		admin   bool
	}{
		{"Standard Seed", s.opts.Seed.Standard, false},
		{"Admin Seed", s.opts.Seed.Admin, true},
	}
	for _, a := range accounts {
		_, err := s.store.createUser(serverest.User{
			Nome:          a.nome,
			Email:         a.account.Email,
			Password:      a.account.Password,
			Administrador: serverest.AdminFlag(a.admin),
		})
		if err != nil {
			return errors.Wrapf(err, "seed %s", a.account.Email)
		}
	}
	return nil
}

func (s *Server) installMiddleware() {
	s.engine.Use(gin.Recovery(), requestID(), accessLog(), corsMiddleware())
	if s.opts.Feature.EnableDump {
		s.engine.Use(gindump.Dump())
	}
}

func (s *Server) installRoutes() {
	g := s.engine
	if s.opts.Feature.EnableMetrics {
		ginprometheus.NewPrometheus("gin").Use(g)
		g.GET("/metrics/serverest", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))
	}
	if s.opts.Feature.EnableProfiling {
		pprof.Register(g)
	}

	g.POST(serverest.PathLogin, validateLogin(), s.jwtAuth.LoginHandler)

	products := g.Group(serverest.PathProducts)
	{
		products.GET("", s.listProducts)
		products.GET("/:id", s.getProduct)

		admin := products.Group("", s.jwtAuth.MiddlewareFunc(), requireAdmin())
		admin.POST("", s.createProduct)
		admin.PUT("/:id", s.updateProduct)
		admin.DELETE("/:id", s.deleteProduct)
	}

	users := g.Group(serverest.PathUsers)
	{
		users.GET("", s.listUsers)
		users.GET("/:id", s.getUser)
		users.POST("", s.createUser)
		users.PUT("/:id", s.updateUser)
		users.DELETE("/:id", s.deleteUser)
	}

	g.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, serverest.MessageBody{
			Message: "Não é possível realizar " + c.Request.Method + " em " + c.Request.URL.Path + ".",
		})
	})
}

// Handler exposes the engine, e.g. for httptest.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	address := s.opts.InsecureServing.Address()
	ln, err := net.Listen("tcp", address)
	if err != nil {
		return errors.Wrapf(err, "创建监听器失败 %s", address)
	}
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       30 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		log.Infof("ServeRest 替身服务监听于 %s", ln.Addr())
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			return errors.Wrap(err, "替身服务运行失败")
		}
		return nil
	})
	eg.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Infof("正在关闭 ServeRest 替身服务")
		return srv.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}
