// Package server provides the HTTP server of the feedback API.
//
// It uses gorilla/mux for routing and gorilla/handlers for access logs, CORS
// and panic recovery. The Server struct holds:
//
//   - Cipher: symmetric cipher sealing client secrets at rest
//   - Tokens: bearer token issuer
//   - Router: HTTP request router
//   - DB: database connection
//   - the stores and the feedback.Service built on them
//   - AuthMiddleware: client secret and bearer token authentication
//
// # Server Setup
//
//	srv := server.NewServer(cipher, tokens, db, "0.0.0.0", "8080")
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Endpoints
//
// The endpoints subpackage registers:
//
//   - /v1/auth/sign-up, /v1/auth/sign-in - accounts
//   - /v1/whoami, /v1/user/... - the caller and its credentials
//   - /v1/project/... - projects and their summaries
//   - /v1/form/... - forms and their summaries
//   - /v1/record - public submissions and their listing
//   - /v1/public/form/{id} - the public view of a form
package server
