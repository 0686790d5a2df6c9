package api

import (
	"encoding/json"
	"net/http"
	"time"
)

// expectedTables are the tables the app needs; the connection test reports
// which of them exist.
var expectedTables = []string{
	"practitioners", "patients", "appointments",
	"tooth_records", "tooth_treatments",
	"attestations", "attestation_lines", "users",
}

// TestConnection pings the pool and checks the expected tables, for the
// settings screen's "test connection" button.
func (h *Handler) TestConnection(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if h.Pool == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": "no database configured"})
		return
	}
	started := time.Now()
	if err := h.Pool.Ping(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": "database unreachable"})
		return
	}
	rows, err := h.Pool.Query(r.Context(), `
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = 'public' AND table_name = ANY($1)
	`, expectedTables)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": "table check failed"})
		return
	}
	defer rows.Close()
	present := make(map[string]bool, len(expectedTables))
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err == nil {
			present[name] = true
		}
	}
	missing := []string{}
	for _, t := range expectedTables {
		if !present[t] {
			missing = append(missing, t)
		}
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success":   len(missing) == 0,
		"missing":   missing,
		"latencyMs": time.Since(started).Milliseconds(),
	})
}
