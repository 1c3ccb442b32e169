package rest

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"skillshare/internal/metrics"
	"skillshare/internal/service"
	"skillshare/internal/transport/rest/handler"
	"skillshare/internal/transport/rest/middleware"
	"skillshare/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService    *service.AuthService
	SessionService *service.SessionService
	TagService     *service.TagService
	Metrics        *metrics.Metrics
	WSHub          *ws.Hub
	AllowedOrigins string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService, c.Metrics)
	sessionHandler := handler.NewSessionHandler(c.SessionService, c.Metrics)
	tagHandler := handler.NewTagHandler(c.TagService, c.Metrics)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.AllowedOrigins))
	if c.Metrics != nil {
		r.Use(metricsMiddleware(c.Metrics))
	}

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/signin", authHandler.SignIn).Methods("POST", "OPTIONS")

	// WebSocket auth-state observable (token in query param)
	v1.HandleFunc("/ws/auth", wsHandler.AuthWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Prometheus metrics
	if c.Metrics != nil {
		r.Handle("/metrics", c.Metrics.Handler()).Methods("GET")
	}

	// Protected routes (require a signed-in user)
	protected := v1.NewRoute().Subrouter()
	protected.Use(authMW.RequireUser)

	protected.HandleFunc("/auth/signout", authHandler.SignOut).Methods("POST", "OPTIONS")
	protected.HandleFunc("/auth/me", authHandler.Me).Methods("GET", "OPTIONS")

	protected.HandleFunc("/sessions", sessionHandler.Create).Methods("POST", "OPTIONS")
	protected.HandleFunc("/sessions", sessionHandler.List).Methods("GET", "OPTIONS")
	protected.HandleFunc("/sessions/{sessionId}", sessionHandler.Get).Methods("GET", "OPTIONS")
	protected.HandleFunc("/sessions/{sessionId}", sessionHandler.Update).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/sessions/{sessionId}", sessionHandler.Delete).Methods("DELETE", "OPTIONS")
	protected.HandleFunc("/sessions/{sessionId}/join", sessionHandler.Join).Methods("POST", "OPTIONS")
	protected.HandleFunc("/sessions/{sessionId}/leave", sessionHandler.Leave).Methods("POST", "OPTIONS")

	protected.HandleFunc("/tags/suggest", tagHandler.Suggest).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(allowedOrigins string) mux.MiddlewareFunc {
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// statusRecorder captures the response status for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func metricsMiddleware(m *metrics.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// The websocket upgrader needs the raw ResponseWriter (Hijacker).
			if strings.HasPrefix(r.URL.Path, "/v1/ws/") {
				next.ServeHTTP(w, r)
				return
			}

			pattern := r.URL.Path
			if route := mux.CurrentRoute(r); route != nil {
				if tpl, err := route.GetPathTemplate(); err == nil {
					pattern = tpl
				}
			}

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r)
			m.ObserveHTTP(r.Method, pattern, strconv.Itoa(rec.status), time.Since(start))
		})
	}
}
