package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quizhall/quizhall/internal/auth"
	"github.com/quizhall/quizhall/internal/quiz"
	"github.com/quizhall/quizhall/internal/store"
	"github.com/quizhall/quizhall/pkg/cache"
)

// Server binds the stores, catalog and session service to the HTML handlers.
type Server struct {
	store   store.Store
	catalog *quiz.Catalog
	auth    *auth.Service
	cache   cache.Cache
	render  *Renderer
}

func NewServer(st store.Store, cat *quiz.Catalog, authSvc *auth.Service, c cache.Cache) (*Server, error) {
	rd, err := NewRenderer()
	if err != nil {
		return nil, err
	}
	return &Server{store: st, catalog: cat, auth: authSvc, cache: c, render: rd}, nil
}

// Routes mounts every page on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.handleRoot)
	r.Get("/login", s.handleLoginPage)
	r.Post("/login", s.handleLogin)
	r.Post("/signup", s.handleSignup)
	r.Get("/logout", s.handleLogout)
	r.Handle("/static/*", StaticHandler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireUser(s.auth))
		pr.Get("/home", s.handleHome)
		pr.Get("/modules/{moduleID}", s.handleModule)
		pr.Get("/quiz/{moduleID}/{num}", s.handleQuizPage)
		pr.Post("/quiz/{moduleID}/{num}/submit", s.handleQuizSubmit)
		pr.Get("/review/{attemptID}", s.handleReview)
		pr.Get("/dashboard", s.handleDashboard)
		pr.Get("/leaderboard", s.handleLeaderboard)
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(auth.SessionCookie); err == nil && c.Value != "" {
		if _, err := s.auth.Parse(c.Value); err == nil {
			http.Redirect(w, r, "/home", http.StatusSeeOther)
			return
		}
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
