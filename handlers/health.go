package handlers

import (
	"net/http"
	"time"
)

// Health handles GET /api/health: database connectivity plus, when the ERP
// integration is enabled, a best-effort Dolibarr reachability probe.
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	sqlDB, err := a.db.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	resp := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"database":  "connected",
	}
	if a.dolibarr != nil && a.dolibarr.Enabled() {
		if a.dolibarr.CheckConnection() {
			resp["dolibarr"] = "connected"
		} else {
			resp["dolibarr"] = "unreachable"
		}
	} else {
		resp["dolibarr"] = "disabled"
	}
	writeJSON(w, http.StatusOK, resp)
}
