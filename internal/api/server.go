// Package api serves the optimizer over HTTP.
package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/piwi3910/RollSlit/internal/engine"
	"github.com/piwi3910/RollSlit/internal/lp"
	"github.com/piwi3910/RollSlit/internal/metrics"
	"github.com/piwi3910/RollSlit/internal/model"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Config configures a Server.
type Config struct {
	Settings    model.Settings
	LengthScale float64 // applied to order code lengths
	Logger      *zap.Logger
	Recorder    *metrics.Recorder
	Solver      lp.Solver
	RunTTL      time.Duration // how long finished runs stay retrievable
	MaxDuration time.Duration // per request cap, 0 for none
}

// Server holds the HTTP handlers and the store of finished runs.
type Server struct {
	cfg  Config
	log  *zap.Logger
	runs *cache.Cache
}

// DefaultRunTTL applies when Config.RunTTL is zero.
const DefaultRunTTL = time.Hour

func NewServer(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.RunTTL <= 0 {
		cfg.RunTTL = DefaultRunTTL
	}
	if cfg.LengthScale <= 0 {
		cfg.LengthScale = 1
	}
	return &Server{
		cfg:  cfg,
		log:  cfg.Logger,
		runs: cache.New(cfg.RunTTL, cfg.RunTTL/4),
	}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(Recovery(s.log))
	router.Use(RequestID())
	router.Use(Logger(s.log, "/healthz", "/metrics"))
	router.NoRoute(NoRoute())

	router.GET("/healthz", s.Health())
	if reg := s.cfg.Recorder.Registry(); reg != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	v1 := router.Group("/v1")
	{
		v1.POST("/optimize", s.Optimize())
		v1.POST("/compare", s.Compare())
		v1.GET("/runs/:id", s.GetRun())
		v1.GET("/runs/:id/plan", s.GetPlan())
	}
	return router
}

// storedRun is a finished run with the waste scale it was requested in.
type storedRun struct {
	result       model.Result
	percentWaste bool
}

// Lookup returns a stored run.
func (s *Server) Lookup(id string) (model.Result, bool) {
	r, ok := s.lookupRun(id)
	return r.result, ok
}

func (s *Server) lookupRun(id string) (storedRun, bool) {
	v, ok := s.runs.Get(id)
	if !ok {
		return storedRun{}, false
	}
	return v.(storedRun), true
}

func (s *Server) store(res model.Result, percentWaste bool) {
	s.runs.Set(res.RunID, storedRun{result: res, percentWaste: percentWaste}, cache.DefaultExpiration)
}

func (s *Server) engineOptions() []engine.Option {
	opts := []engine.Option{engine.WithLogger(s.log)}
	if s.cfg.Solver != nil {
		opts = append(opts, engine.WithSolver(s.cfg.Solver))
	}
	if s.cfg.Recorder != nil {
		opts = append(opts, engine.WithObserver(s.cfg.Recorder))
	}
	return opts
}
