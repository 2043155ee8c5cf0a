package endpoints

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/doodlesbykumbi/feedbox/pkg/audit"
	"github.com/doodlesbykumbi/feedbox/pkg/model"
	"github.com/doodlesbykumbi/feedbox/pkg/server"
	"github.com/doodlesbykumbi/feedbox/pkg/validation"
)

// AccountResponse is returned to the owner of an account. It is the only
// place the client secret appears.
type AccountResponse struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	ClientSecret string    `json:"clientSecret"`
	CreatedDate  time.Time `json:"createdDate"`
}

// SessionResponse is the result of a sign-in.
type SessionResponse struct {
	AccountResponse
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func accountResponse(u *model.User) AccountResponse {
	return AccountResponse{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		ClientSecret: string(u.ClientSecret),
		CreatedDate:  u.CreatedDate,
	}
}

// RegisterAuthEndpoints registers sign-up and sign-in
func RegisterAuthEndpoints(s *server.Server) {
	authRouter := s.Router.PathPrefix("/v1/auth").Subrouter()

	// POST /v1/auth/sign-up - Register an account
	authRouter.HandleFunc("/sign-up", handleSignUp(s)).Methods("POST")

	// POST /v1/auth/sign-in - Exchange email and password for a bearer token
	authRouter.HandleFunc("/sign-in", handleSignIn(s)).Methods("POST")
}

func handleSignUp(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in validation.SignUp
		if err := decodeJSON(w, r, s.Config().MaxBodyBytes, &in); err != nil {
			respondWithServiceError(w, r, err)
			return
		}

		user, err := s.Service.SignUp(r.Context(), in)
		event := audit.AccountEvent{ClientIP: clientIP(r), Operation: "sign-up", Success: err == nil, ErrorMessage: errorMessage(err)}
		if user != nil {
			event.UserID = user.ID.String()
		}
		audit.Log(event)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}

		respondWithData(w, http.StatusCreated, "account created", accountResponse(user))
	}
}

func handleSignIn(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in validation.SignIn
		if err := decodeJSON(w, r, s.Config().MaxBodyBytes, &in); err != nil {
			respondWithServiceError(w, r, err)
			return
		}

		session, err := s.Service.SignIn(r.Context(), in)
		event := audit.AuthenticateEvent{UserID: in.Email, ClientIP: clientIP(r), Method: "password", Success: err == nil, ErrorMessage: errorMessage(err)}
		if session != nil {
			event.UserID = session.User.ID.String()
		}
		audit.Log(event)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}

		respondWithData(w, http.StatusOK, "signed in", SessionResponse{
			AccountResponse: accountResponse(session.User),
			Token:           session.Token,
			ExpiresAt:       session.ExpiresAt,
		})
	}
}
