package endpoints

import (
	"github.com/doodlesbykumbi/feedbox/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterStatusEndpoints(srv)
	RegisterAuthEndpoints(srv)
	RegisterUserEndpoints(srv)
	RegisterProjectsEndpoints(srv)
	RegisterFormsEndpoints(srv)
	RegisterRecordsEndpoints(srv)
}
