package endpoints

import (
	"html/template"
	"net/http"
	"os"
	"strings"

	"github.com/doodlesbykumbi/feedbox/pkg/log"
	"github.com/doodlesbykumbi/feedbox/pkg/server"
	"github.com/doodlesbykumbi/feedbox/pkg/server/store"
)

// StatusResponse represents the data of the / endpoint
type StatusResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// HealthResponse represents the data of the /health endpoint
type HealthResponse struct {
	Database string `json:"database"`
}

// RegisterStatusEndpoints registers the status and health endpoints
func RegisterStatusEndpoints(s *server.Server) {
	// GET / - Status (no auth required)
	s.Router.HandleFunc("/", handleStatus()).Methods("GET")

	// GET /health - Database connectivity (no auth required)
	s.Router.HandleFunc("/health", handleHealth(s.HealthStore)).Methods("GET")
}

var statusPage = template.Must(template.New("status").Parse(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <title>feedbox status</title>
  </head>
  <body>
    <h1>Status</h1>
    <p>Your feedbox server is running!</p>
    <p>Version {{.Version}}</p>
  </body>
</html>
`))

func version() string {
	if v := os.Getenv("FEEDBOX_VERSION_DISPLAY"); v != "" {
		return v
	}
	return "0.1.0"
}

func handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := StatusResponse{Name: "feedbox", Version: version()}

		if strings.Contains(r.Header.Get("Accept"), "text/html") {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_ = statusPage.Execute(w, status)
			return
		}
		respondWithData(w, http.StatusOK, "feedbox is running", status)
	}
}

func handleHealth(healthStore store.HealthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := healthStore.CheckConnectivity(r.Context()); err != nil {
			log.WithError(err).Warn("health check failed")
			respondWithJSON(w, http.StatusServiceUnavailable, Response{
				Success: false,
				Message: "database connectivity check failed",
				Data:    HealthResponse{Database: "unreachable"},
			})
			return
		}
		respondWithData(w, http.StatusOK, "ok", HealthResponse{Database: "ok"})
	}
}
