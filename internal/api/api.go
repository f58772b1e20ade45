// Package api exposes the assembly pipeline and the structure database over
// HTTP. Decisions the CLI would prompt for (height-reference conflicts,
// overlap handling) must arrive preset in the request; an unresolved
// conflict is answered with 409 and an unsupported connection with 422.
package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/AaronLge/GeometrieConverter/pkg/assembly"
	"github.com/AaronLge/GeometrieConverter/pkg/storage"
)

// Server handles the HTTP surface. The store must be non-nil; assemble
// requests carry their structures inline but the CRUD routes need it.
type Server struct {
	store  storage.Store
	runner *assembly.Runner
	logger *log.Logger
}

// NewServer creates a Server backed by the given structure database.
func NewServer(store storage.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		store:  store,
		runner: assembly.NewRunner(logger),
		logger: logger,
	}
}

// Router builds the HTTP handler tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/assemble", s.handleAssemble)
		r.Route("/structures", func(r chi.Router) {
			r.Get("/", s.handleList)
			r.Route("/{kind}", func(r chi.Router) {
				r.Post("/", s.handleSave)
				r.Get("/{identifier}", s.handleGet)
				r.Put("/{identifier}", s.handleReplace)
				r.Delete("/{identifier}", s.handleDelete)
			})
		})
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}
