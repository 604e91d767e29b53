package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/xelth-com/ecksvcgo/internal/buildinfo"
	"github.com/xelth-com/ecksvcgo/internal/cache"
	"github.com/xelth-com/ecksvcgo/internal/config"
	"github.com/xelth-com/ecksvcgo/internal/database"
	"github.com/xelth-com/ecksvcgo/internal/middleware"
	"github.com/xelth-com/ecksvcgo/internal/reconcile"
	"github.com/xelth-com/ecksvcgo/internal/store"
	"github.com/xelth-com/ecksvcgo/internal/websocket"
)

// Router wraps the mux router and the application services
type Router struct {
	*mux.Router
	db      *database.DB
	store   *store.Store
	cfg     *config.Config
	service *reconcile.Service
	caches  *cache.Registry
	hub     *websocket.Hub
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(db *database.DB, st *store.Store, cfg *config.Config) *Router {
	r := &Router{
		Router: mux.NewRouter(),
		db:     db,
		store:  st,
		cfg:    cfg,
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Auth routes
	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.login).Methods("POST")

	requireAuth := middleware.Auth(cfg.JWTSecret)

	// Order routes (protected)
	orders := r.PathPrefix("/api/orders").Subrouter()
	orders.Use(requireAuth)
	orders.HandleFunc("", r.listOrders).Methods("GET")
	orders.HandleFunc("/{id}", r.getOrder).Methods("GET")
	orders.HandleFunc("/{id}/status", r.updateOrderStatus).Methods("PUT")

	// Repair routes (protected)
	repairs := r.PathPrefix("/api/repairs").Subrouter()
	repairs.Use(requireAuth)
	repairs.HandleFunc("", r.listRepairs).Methods("GET")

	// Admin routes (protected): pass triggers, pass history, cache regions
	admin := r.PathPrefix("/api/admin").Subrouter()
	admin.Use(requireAuth)
	admin.HandleFunc("/passes", r.listPassRuns).Methods("GET")
	admin.HandleFunc("/passes/{name}/run", r.runPass).Methods("POST")
	admin.HandleFunc("/caches", r.listCacheRegions).Methods("GET")
	admin.HandleFunc("/caches/clear", r.clearCaches).Methods("POST")

	// Dashboard event stream
	r.HandleFunc("/ws", r.serveWs).Methods("GET")

	return r
}

// SetService registers the reconciliation service for admin endpoints
func (r *Router) SetService(s *reconcile.Service) {
	r.service = s
}

// SetCaches registers the cache registry for listing and admin endpoints
func (r *Router) SetCaches(c *cache.Registry) {
	r.caches = c
}

// SetHub registers the websocket hub for the dashboard event stream
func (r *Router) SetHub(h *websocket.Hub) {
	r.hub = h
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":      "ok",
		"commit":      buildinfo.CommitHash,
		"build_time":  buildinfo.BuildTime,
		"start_time":  buildinfo.StartTime,
		"commit_time": buildinfo.CommitTime,
	})
}

// serveWs upgrades dashboard connections
func (r *Router) serveWs(w http.ResponseWriter, req *http.Request) {
	if r.hub == nil {
		respondError(w, http.StatusServiceUnavailable, "Event stream not available")
		return
	}
	websocket.ServeWs(r.hub, w, req)
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
