// backend/handlers/health_handler.go
package handlers

import (
	"log"
	"net/http"

	"github.com/aeroshield/oracle/backend/database"
)

// HealthHandler is the liveness probe. It pings the database so a wedged
// connection pool shows up before the settlement pipeline notices failed
// jobs.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	if database.DB != nil {
		if err := database.DB.Ping(); err != nil {
			log.Printf("Health check failed: DB ping error: %v", err)
			respondWithJSON(w, http.StatusInternalServerError,
				map[string]string{"status": "error", "message": "database connection error"})
			return
		}
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
