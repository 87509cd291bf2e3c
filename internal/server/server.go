package server

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bizlens/internal/config"
	"bizlens/internal/handlers"
	"bizlens/internal/metrics"
	"bizlens/internal/middleware"
	"bizlens/internal/session"
)

type Server struct {
	session     *session.Session
	router      chi.Router
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

func NewServer(sess *session.Session, logger *slog.Logger) *Server {
	s := &Server{
		session:     sess,
		router:      chi.NewRouter(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(sess, logger),
		sseHandlers: handlers.NewSSEHandlers(sess, logger),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleDashboard)
	s.router.Get("/health", s.apiHandlers.HandleHealth)
	s.router.Get("/admin/stats", s.apiHandlers.HandleStats)
	s.router.Handle("/metrics", metrics.Handler())

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/ask", s.apiHandlers.HandleAsk)
		r.Post("/upload", s.apiHandlers.HandleUpload)
		r.Get("/overview", s.apiHandlers.HandleOverview)
		r.Get("/questions", s.apiHandlers.HandleQuestions)
		r.Get("/transcript", s.apiHandlers.HandleTranscript)
	})

	s.router.Get("/sse/answer", s.sseHandlers.HandleAnswer)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler wraps the router in the full middleware chain.
func Handler(s *Server, cfg *config.Config, logger *slog.Logger) http.Handler {
	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	chain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.TrustedProxy(cfg.Security),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)

	return metrics.Instrument(chain(s))
}

var dashboardTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>BizLens</title>
<script type="module" src="https://cdn.jsdelivr.net/npm/@starfederation/datastar"></script>
</head>
<body>
<main data-signals="{chartSpec: null, question: ''}">
<h1>BizLens</h1>
<p>{{.Greeting}}</p>
<form data-on-submit="@get('/sse/answer?question=' + encodeURIComponent($question)); event.preventDefault()">
<input type="text" data-bind-question placeholder="Ask about your business data...">
<button type="submit">Ask</button>
</form>
<div id="answer-content"></div>
</main>
</body>
</html>`))

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	greeting := "Upload a CSV file to get started."
	if turn, ok := s.session.Latest(); ok {
		greeting = turn.Text
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTemplate.Execute(w, map[string]string{"Greeting": greeting}); err != nil {
		s.logger.Error("render dashboard", "error", err)
	}
}
