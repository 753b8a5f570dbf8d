package api

import (
	"log"
	"net/http"
	"strings"

	"github.com/example/medtrack/internal/api/middleware"
	"github.com/example/medtrack/internal/auth"
)

// RouterConfig carries everything the router needs
type RouterConfig struct {
	Handlers     *Handlers
	AuthHandlers *AuthHandlers
	JWTService   *auth.JWTService
	WebDir       string
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	handlers := cfg.Handlers
	authHandlers := cfg.AuthHandlers
	requireAuth := middleware.AuthMiddleware(cfg.JWTService)

	// Static files (web UI)
	if cfg.WebDir != "" {
		fs := http.FileServer(http.Dir(cfg.WebDir))
		mux.Handle("/", fs)
	}

	// Auth
	mux.HandleFunc("/auth/register", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		authHandlers.Register(w, r)
	})

	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		authHandlers.Login(w, r)
	})

	mux.Handle("/auth/logout", middleware.OptionalAuthMiddleware(cfg.JWTService)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
				return
			}
			authHandlers.Logout(w, r)
		})))

	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		authHandlers.Refresh(w, r)
	})

	mux.Handle("/auth/me", requireAuth(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
				return
			}
			authHandlers.Me(w, r)
		})))

	mux.Handle("/auth/password", requireAuth(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
				return
			}
			authHandlers.ChangePassword(w, r)
		})))

	// Jobs
	mux.Handle("/jobs", middleware.OptionalAuthMiddleware(cfg.JWTService)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				handlers.GetJobs(w, r)
			case http.MethodPost:
				handlers.SubmitRepairRequest(w, r)
			default:
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			}
		})))

	mux.HandleFunc("/jobs/board", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		handlers.GetJobBoard(w, r)
	})

	mux.Handle("/jobs/", middleware.OptionalAuthMiddleware(cfg.JWTService)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			switch {
			case strings.HasSuffix(path, "/status") && r.Method == http.MethodPut:
				handlers.TransitionJob(w, r)
			case strings.HasSuffix(path, "/progress") && r.Method == http.MethodPut:
				handlers.SaveJobProgress(w, r)
			case strings.HasSuffix(path, "/parts") && r.Method == http.MethodPost:
				handlers.AddPartToJob(w, r)
			case strings.Contains(path, "/parts/") && r.Method == http.MethodDelete:
				handlers.RemovePartFromJob(w, r)
			case r.Method == http.MethodGet:
				handlers.GetJob(w, r)
			default:
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			}
		})))

	// Parts
	mux.HandleFunc("/parts", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.GetParts(w, r)
		case http.MethodPost:
			handlers.RegisterPart(w, r)
		case http.MethodPut:
			handlers.ReplaceInventory(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/parts/alerts", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		handlers.GetStockAlerts(w, r)
	})

	mux.HandleFunc("/parts/", func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		switch {
		case strings.HasSuffix(path, "/use") && r.Method == http.MethodPost:
			handlers.UsePart(w, r)
		case strings.HasSuffix(path, "/restock") && r.Method == http.MethodPost:
			handlers.RestockPart(w, r)
		case r.Method == http.MethodGet:
			handlers.GetPart(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Toasts
	mux.HandleFunc("/toasts", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		handlers.GetToasts(w, r)
	})

	return withLogging(mux)
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("[API] %s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
