package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/xelth-com/ecksvcgo/internal/cache"
	"github.com/xelth-com/ecksvcgo/internal/reconcile"
)

// knownPasses maps the URL pass name onto the internal pass identifier
var knownPasses = map[string]string{
	"reconcile": reconcile.PassReconcile,
	"caches":    reconcile.PassCaches,
	"tags":      reconcile.PassTags,
	"codes":     reconcile.PassCodes,
	"phantoms":  reconcile.PassPhantoms,
}

// runPass triggers one maintenance pass synchronously and returns its report
func (r *Router) runPass(w http.ResponseWriter, req *http.Request) {
	if r.service == nil {
		respondError(w, http.StatusServiceUnavailable, "Reconciliation service not available")
		return
	}

	name := mux.Vars(req)["name"]
	pass, ok := knownPasses[name]
	if !ok {
		respondError(w, http.StatusBadRequest, "Unknown pass")
		return
	}

	report, err := r.service.RunPass(req.Context(), pass)
	if err != nil {
		// Pass-level fatal (e.g. store unreachable); the partial report still
		// tells the operator how far it got.
		respondJSON(w, http.StatusBadGateway, map[string]interface{}{
			"error":  err.Error(),
			"report": report,
		})
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// listPassRuns returns recent pass history, newest first
func (r *Router) listPassRuns(w http.ResponseWriter, req *http.Request) {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	runs, err := r.store.RecentPassRuns(req.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch pass history")
		return
	}
	respondJSON(w, http.StatusOK, runs)
}

// listCacheRegions enumerates the clearable cache regions
func (r *Router) listCacheRegions(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"regions": cache.Regions(),
	})
}

// clearCaches clears one cache region (?region=orders) or all of them
func (r *Router) clearCaches(w http.ResponseWriter, req *http.Request) {
	if r.caches == nil {
		respondError(w, http.StatusServiceUnavailable, "Cache backend not available")
		return
	}

	region := req.URL.Query().Get("region")
	if region != "" {
		if !cache.ValidRegion(region) {
			respondError(w, http.StatusBadRequest, "Unknown cache region")
			return
		}
		deleted, err := r.caches.Clear(req.Context(), region)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to clear cache region")
			return
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"region":  region,
			"deleted": deleted,
		})
		return
	}

	counts, err := r.caches.ClearAll(req.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to clear caches")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"deleted": counts,
	})
}
