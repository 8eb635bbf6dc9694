// Package server exposes screening as an HTTP job service. Jobs wait in a
// single worklist and run one at a time, each using all configured workers.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/grailbio/base/log"

	"oligoscreen/internal/runutil"
)

// Config configures a Server.
type Config struct {
	OutDir  string // auto-save finished results here when set
	Threads int    // workers per job; 0 = all CPUs
	Retain  int    // finished jobs kept in memory
	Queue   int    // worklist capacity; 0 = 1024
}

// Server holds the worklist and the HTTP routes.
type Server struct {
	cfg    Config
	router *gin.Engine

	mu       sync.Mutex
	jobs     map[string]*job
	order    []string // submission order
	finished *runutil.LRUSet[string]

	queue chan *job
	once  sync.Once
}

// New builds a Server. The worklist starts with Start or ListenAndServe.
func New(cfg Config) *Server {
	if cfg.Queue <= 0 {
		cfg.Queue = 1024
	}
	s := &Server{
		cfg:      cfg,
		jobs:     map[string]*job{},
		finished: runutil.NewLRUSet[string](cfg.Retain),
		queue:    make(chan *job, cfg.Queue),
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() *gin.Engine {
	r := gin.Default()
	v1 := r.Group("/v1")
	v1.POST("/jobs", s.submitJob)
	v1.GET("/jobs", s.listJobs)
	v1.GET("/jobs/:id", s.getJob)
	v1.DELETE("/jobs/:id", s.deleteJob)
	v1.GET("/jobs/:id/result", s.getResult)
	v1.POST("/screen", s.screenNow)
	return r
}

// Start launches the worklist goroutine; it returns when ctx is done and
// the running job (if any) has finished. Start is idempotent.
func (s *Server) Start(ctx context.Context) {
	s.once.Do(func() {
		if s.cfg.OutDir != "" {
			if err := os.MkdirAll(s.cfg.OutDir, 0o755); err != nil {
				log.Error.Printf("out dir %s: %v", s.cfg.OutDir, err)
			}
		}
		go s.work(ctx)
	})
}

func (s *Server) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			s.run(j)
		}
	}
}

// ListenAndServe serves on addr until ctx is done, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.Start(ctx)
	hs := &http.Server{Addr: addr, Handler: s.router, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()
	log.Printf("listening on %s", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdown); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}
