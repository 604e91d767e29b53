package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/xelth-com/ecksvcgo/internal/cache"
	"github.com/xelth-com/ecksvcgo/internal/models"
)

const listCacheTTL = 2 * time.Minute

// listOrders returns orders for the back-office list view. The listing reads
// only the cached display columns and goes through the orders cache region.
func (r *Router) listOrders(w http.ResponseWriter, req *http.Request) {
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	const pageSize = 50
	cacheKey := fmt.Sprintf("list:p%d", page)

	var orders []models.Order
	if r.caches != nil {
		if hit, err := r.caches.GetJSON(req.Context(), cache.RegionOrders, cacheKey, &orders); err == nil && hit {
			respondJSON(w, http.StatusOK, orders)
			return
		}
	}

	err := r.db.WithContext(req.Context()).
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&orders).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	if r.caches != nil {
		_ = r.caches.SetJSON(req.Context(), cache.RegionOrders, cacheKey, orders, listCacheTTL)
	}
	respondJSON(w, http.StatusOK, orders)
}

// getOrder returns one order with its relations loaded
func (r *Router) getOrder(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var order models.Order
	err := r.db.WithContext(req.Context()).
		Preload("Customer").
		Preload("Status").
		Preload("Devices.Product").
		Preload("Items").
		Preload("Notes").
		First(&order, "id = ?", id).Error
	if err != nil {
		respondError(w, http.StatusNotFound, "Order not found")
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// updateOrderStatus moves an order to a new status, validated against the
// set of statuses its queue allows.
func (r *Router) updateOrderStatus(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var body struct {
		StatusID uint `json:"status_id"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	var order models.Order
	if err := r.db.First(&order, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Order not found")
		return
	}

	statuses, err := r.store.AllStatuses(req.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load statuses")
		return
	}

	var queueID uint
	if order.QueueID != nil {
		queueID = *order.QueueID
	}
	valid := models.ValidStatusesForQueue(queueID, statuses)
	if _, ok := valid[body.StatusID]; !ok {
		respondError(w, http.StatusBadRequest, "Status not valid for this queue")
		return
	}

	order.StatusID = &body.StatusID
	// The cached label is stale now; clear it so the recompute pass refills it
	order.StatusName = ""
	if err := r.db.Omit("Devices", "Items", "Notes", "Customer", "Status").Save(&order).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update status")
		return
	}

	if r.caches != nil {
		_, _ = r.caches.Clear(req.Context(), cache.RegionOrders)
	}
	respondJSON(w, http.StatusOK, order)
}

// listRepairs returns repairs, trackable first, through the repairs cache region
func (r *Router) listRepairs(w http.ResponseWriter, req *http.Request) {
	var repairs []models.Repair
	if r.caches != nil {
		if hit, err := r.caches.GetJSON(req.Context(), cache.RegionRepairs, "list", &repairs); err == nil && hit {
			respondJSON(w, http.StatusOK, repairs)
			return
		}
	}

	err := r.db.WithContext(req.Context()).
		Order("CASE WHEN completed_at IS NULL AND confirmation <> '' THEN 1 WHEN completed_at IS NULL THEN 2 ELSE 3 END, created_at DESC").
		Limit(200).
		Find(&repairs).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch repairs")
		return
	}

	if r.caches != nil {
		_ = r.caches.SetJSON(req.Context(), cache.RegionRepairs, "list", repairs, listCacheTTL)
	}
	respondJSON(w, http.StatusOK, repairs)
}
