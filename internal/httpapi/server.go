package httpapi

import (
	"context"
	_ "embed"
	"net/http"
	"time"

	"github.com/yoonbae81/ytcapt/internal/cache"
	"github.com/yoonbae81/ytcapt/internal/service"
)

//go:embed static/index.html
var indexPage []byte

type Server struct {
	svc   *service.Service
	store *cache.Store

	mux    *http.ServeMux
	server *http.Server
}

func NewServer(svc *service.Service, store *cache.Store) *Server {
	s := &Server{
		svc:   svc,
		store: store,
		mux:   http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/process", s.handleProcess)
	s.mux.HandleFunc("/download", s.handleDownload)
	s.mux.HandleFunc("/", s.handleHome)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexPage)
}
