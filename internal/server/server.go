package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

// Server wraps the HTTP listener with graceful shutdown.
type Server struct {
	router *gin.Engine
	http   *http.Server
}

func New(router *gin.Engine) *Server {
	return &Server{router: router}
}

// Router exposes the route table, mostly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start serves until SIGINT or SIGTERM, then drains in-flight requests.
func (s *Server) Start(addr string) error {
	s.http = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	go func() {
		log.Printf("listening on %s", addr)
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}

// Stop shuts the listener down without waiting for a signal.
func (s *Server) Stop(ctx context.Context) error {
	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}
