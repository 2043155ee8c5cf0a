package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/feedbox/pkg/config"
	"github.com/doodlesbykumbi/feedbox/pkg/feedback"
	"github.com/doodlesbykumbi/feedbox/pkg/log"
	"github.com/doodlesbykumbi/feedbox/pkg/secretbox"
	"github.com/doodlesbykumbi/feedbox/pkg/server/middleware"
	"github.com/doodlesbykumbi/feedbox/pkg/server/store"
	gormstore "github.com/doodlesbykumbi/feedbox/pkg/server/store/gorm"
	"github.com/doodlesbykumbi/feedbox/pkg/token"
)

type Server struct {
	Cipher secretbox.SymmetricCipher
	Tokens *token.Issuer
	Router *mux.Router
	DB     *gorm.DB
	Config func() *config.FeedboxConfig

	UsersStore    store.UsersStore
	ProjectsStore store.ProjectsStore
	FormsStore    store.FormsStore
	RecordsStore  store.RecordsStore
	HealthStore   store.HealthStore

	Service        *feedback.Service
	AuthMiddleware *middleware.Authenticator

	srv *http.Server
}

func NewServer(
	cipher secretbox.SymmetricCipher,
	tokens *token.Issuer,
	db *gorm.DB,
	host string,
	port string,
) *Server {
	s := &Server{
		Cipher: cipher,
		Tokens: tokens,
		DB:     db,
		Config: config.Get,

		UsersStore:    gormstore.NewUsersStore(db, cipher),
		ProjectsStore: gormstore.NewProjectsStore(db),
		FormsStore:    gormstore.NewFormsStore(db),
		RecordsStore:  gormstore.NewRecordsStore(db),
		HealthStore:   gormstore.NewHealthStore(db),
	}
	s.init()

	s.srv = &http.Server{
		Handler:      s.Handler(),
		Addr:         host + ":" + port,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// NewServerWithStores creates a server around existing stores. It has no
// listener and is meant to be driven through Router or Handler.
func NewServerWithStores(stores feedback.Stores, health store.HealthStore, tokens *token.Issuer, cfg func() *config.FeedboxConfig) *Server {
	if cfg == nil {
		cfg = config.Get
	}
	s := &Server{
		Tokens:        tokens,
		Config:        cfg,
		UsersStore:    stores.Users,
		ProjectsStore: stores.Projects,
		FormsStore:    stores.Forms,
		RecordsStore:  stores.Records,
		HealthStore:   health,
	}
	s.init()
	return s
}

func (s *Server) init() {
	s.Router = mux.NewRouter()
	s.Service = feedback.NewService(feedback.Stores{
		Users:    s.UsersStore,
		Projects: s.ProjectsStore,
		Forms:    s.FormsStore,
		Records:  s.RecordsStore,
	}, s.Tokens, s.Config)
	s.AuthMiddleware = middleware.NewAuthenticator(s.Service)
}

// Handler wraps the router with access logging, CORS and panic recovery.
func (s *Server) Handler() http.Handler {
	cors := handlers.CORS(
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", middleware.HeaderUserID, middleware.HeaderClientSecret}),
		handlers.AllowedOriginValidator(s.allowOrigin),
		handlers.MaxAge(600),
	)

	var h http.Handler = s.Router
	h = cors(h)
	h = handlers.LoggingHandler(log.Writer(), h)
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(log.Logger),
		handlers.PrintRecoveryStack(log.IsDebug()),
	)(h)
	return h
}

// allowOrigin consults the current config so reloaded origins apply at once.
func (s *Server) allowOrigin(origin string) bool {
	cfg := s.Config()
	if cfg.AllowsAnyOrigin() {
		return true
	}
	for _, allowed := range cfg.AllowedOrigins {
		if allowed == origin {
			return true
		}
	}
	return false
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
