package httpx

import (
	"net/http"

	annotatorstore "github.com/target/annotator-store"
)

type healthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// healthHandler answers liveness checks. HEAD gets headers only.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		return
	}
	WriteJSON(w, http.StatusOK, healthStatus{Status: "ok", Version: annotatorstore.Version})
}
