package main

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Simplici0/mkm/internal/brl"
	"github.com/Simplici0/mkm/internal/config"
	"github.com/Simplici0/mkm/internal/db"
	"github.com/Simplici0/mkm/internal/icms"
	"github.com/Simplici0/mkm/internal/logging"
	"github.com/Simplici0/mkm/internal/migrations"
)

//go:embed templates/*.html
var templatesFS embed.FS

const shutdownTimeout = 10 * time.Second

type server struct {
	auth     *authService
	db       *sql.DB
	log      *zap.Logger
	defaults formDefaults
}

// formDefaults seed the calculator when a field is missing from the request.
type formDefaults struct {
	Origin icms.UF
	Dest   icms.UF
	Markup float64
}

type baseViewData struct {
	ErrorMessage   string
	SuccessMessage string
}

type loginViewData struct {
	baseViewData
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	for _, warning := range cfg.Warnings() {
		logger.Warn(warning)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DBPath, logger)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer database.Close()

	if err := migrations.Up(database, logger); err != nil {
		logger.Fatal("failed to run database migrations", zap.Error(err))
	}
	if version, err := migrations.Version(database); err == nil {
		logger.Info("database ready", zap.String("path", cfg.DBPath), zap.Int64("schema_version", version))
	}

	auth := newAuthService(database, cfg.SessionSecret, !cfg.IsDev())
	if err := auth.ensureAdminUser(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.Fatal("failed to ensure admin user", zap.Error(err))
	}

	srv := &server{
		auth: auth,
		db:   database,
		log:  logger,
		defaults: formDefaults{
			Origin: cfg.OriginUF,
			Dest:   cfg.DefaultDestUF,
			Markup: cfg.DefaultMarkup,
		},
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("listening", zap.String("addr", httpServer.Addr), zap.String("origin_uf", string(cfg.OriginUF)))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server stopped", zap.Error(err))
	}
	logger.Info("server shut down")
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.authMiddleware)

	r.Get("/", s.handleCalculator)
	r.Get("/login", s.handleLoginForm)
	r.Post("/login", s.handleLoginSubmit)
	r.Post("/logout", s.handleLogout)
	r.Get("/quotes", s.handleQuotesList)
	r.Post("/quotes", s.handleQuoteCreate)
	r.Get("/quotes/{id}", s.handleQuoteDetail)
	r.Get("/quotes/{id}/text", s.handleQuoteText)

	r.Route("/api", func(r chi.Router) {
		r.Get("/icms", s.handleICMSTable)
		r.Get("/icms/{uf}", s.handleICMSSuggest)
		r.Post("/price", s.handlePrice)
	})

	return r
}

func (s *server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	if isAuthenticated(r, s.auth) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.renderTemplate(w, "login.html", loginViewData{})
}

func (s *server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	valid, err := s.auth.validateCredentials(r.Context(), email, password)
	if err != nil {
		s.log.Error("validate credentials", zap.Error(err))
		http.Error(w, "authentication error", http.StatusInternalServerError)
		return
	}
	if !valid {
		s.log.Info("login rejected", zap.String("email", email))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusUnauthorized)
		s.renderTemplate(w, "login.html", loginViewData{baseViewData: baseViewData{ErrorMessage: "Credenciais inválidas. Tente novamente."}})
		return
	}

	s.auth.setSessionCookie(w, email)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

var templateFuncs = template.FuncMap{
	"brl":  brl.Format,
	"rate": brl.FormatRate,
}

func (s *server) renderTemplate(w http.ResponseWriter, page string, data any) {
	templates, err := template.New(page).Funcs(templateFuncs).ParseFS(
		templatesFS,
		"templates/layout.html",
		"templates/"+page,
	)
	if err != nil {
		s.log.Error("parse template", zap.String("page", page), zap.Error(err))
		http.Error(w, "failed to parse template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ExecuteTemplate(w, "layout.html", data); err != nil {
		s.log.Error("render template", zap.String("page", page), zap.Error(err))
		http.Error(w, "failed to render template", http.StatusInternalServerError)
		return
	}
}

func (s *server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/login" {
			next.ServeHTTP(w, r)
			return
		}

		if !isAuthenticated(r, s.auth) {
			if strings.HasPrefix(r.URL.Path, "/api/") {
				writeJSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func isAuthenticated(r *http.Request, auth *authService) bool {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return false
	}

	_, ok := auth.verifySessionValue(cookie.Value)
	return ok
}
