// Package assumptions serves the single active GlobalAssumptions record.
package assumptions

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"property_underwriting/pkg/core/store"
	"property_underwriting/pkg/models"
)

var (
	repo *store.AssumptionsRepo

	mu     sync.RWMutex
	active models.GlobalAssumptions
)

// InitHandler seeds the active record and, when a database is configured,
// wires the repository behind it. Without a database the record lives in
// memory for the life of the process.
func InitHandler(r *store.AssumptionsRepo, seed models.GlobalAssumptions) {
	repo = r
	active = seed
}

func HandleAssumptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, PUT, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	switch r.Method {
	case "OPTIONS":
		w.WriteHeader(http.StatusOK)
	case "GET":
		handleGet(w, r)
	case "PUT":
		handlePut(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func handleGet(w http.ResponseWriter, r *http.Request) {
	if repo != nil {
		a, err := repo.Load(r.Context())
		if err == nil {
			writeJSON(w, a)
			return
		}
		slog.Warn("assumptions load failed, serving in-memory record", "error", err)
	}
	mu.RLock()
	a := active
	mu.RUnlock()
	writeJSON(w, a)
}

func handlePut(w http.ResponseWriter, r *http.Request) {
	var a models.GlobalAssumptions
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	mu.Lock()
	active = a
	mu.Unlock()

	if repo != nil {
		if err := repo.Save(r.Context(), a); err != nil {
			slog.Warn("assumptions save failed", "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
	writeJSON(w, a)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
