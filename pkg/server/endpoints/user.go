package endpoints

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/doodlesbykumbi/feedbox/pkg/audit"
	"github.com/doodlesbykumbi/feedbox/pkg/server"
	"github.com/doodlesbykumbi/feedbox/pkg/validation"
)

// WhoamiResponse represents the response from the /v1/whoami endpoint
type WhoamiResponse struct {
	UserID    uuid.UUID  `json:"userId"`
	Email     string     `json:"email"`
	Method    string     `json:"method"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// SecretResponse carries a freshly rotated client secret
type SecretResponse struct {
	ClientSecret string `json:"clientSecret"`
}

// RegisterUserEndpoints registers the endpoints about the caller
func RegisterUserEndpoints(s *server.Server) {
	// GET /v1/whoami - Identity of the caller
	whoamiRouter := s.Router.PathPrefix("/v1/whoami").Subrouter()
	whoamiRouter.Use(s.AuthMiddleware.Middleware)
	whoamiRouter.HandleFunc("", handleWhoami()).Methods("GET")

	userRouter := s.Router.PathPrefix("/v1/user").Subrouter()
	userRouter.Use(s.AuthMiddleware.Middleware)

	// POST /v1/user/secret - Rotate the client secret
	userRouter.HandleFunc("/secret", handleRotateSecret(s)).Methods("POST")

	// PUT /v1/user/password - Change the password
	userRouter.HandleFunc("/password", handleChangePassword(s)).Methods("PUT")
}

func handleWhoami() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := caller(r)
		response := WhoamiResponse{
			UserID: id.UserID,
			Email:  id.Email,
			Method: string(id.Method),
		}
		if !id.ExpiresAt.IsZero() {
			exp := id.ExpiresAt
			response.ExpiresAt = &exp
		}
		respondWithData(w, http.StatusOK, "authenticated", response)
	}
}

func handleRotateSecret(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := caller(r)

		secret, err := s.Service.RotateClientSecret(r.Context(), id.UserID)
		audit.Log(audit.AccountEvent{
			UserID:       id.UserID.String(),
			ClientIP:     clientIP(r),
			Operation:    "rotate-secret",
			Success:      err == nil,
			ErrorMessage: errorMessage(err),
		})
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}

		respondWithData(w, http.StatusOK, "client secret rotated", SecretResponse{ClientSecret: secret})
	}
}

func handleChangePassword(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := caller(r)

		var in validation.PasswordChange
		if err := decodeJSON(w, r, s.Config().MaxBodyBytes, &in); err != nil {
			respondWithServiceError(w, r, err)
			return
		}

		err := s.Service.ChangePassword(r.Context(), id.UserID, in)
		audit.Log(audit.AccountEvent{
			UserID:       id.UserID.String(),
			ClientIP:     clientIP(r),
			Operation:    "change-password",
			Success:      err == nil,
			ErrorMessage: errorMessage(err),
		})
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}

		respondWithData(w, http.StatusOK, "password changed", nil)
	}
}
