package feedback

import (
	"github.com/google/uuid"

	"github.com/doodlesbykumbi/feedbox/pkg/config"
	"github.com/doodlesbykumbi/feedbox/pkg/server/store"
	"github.com/doodlesbykumbi/feedbox/pkg/token"
	"github.com/doodlesbykumbi/feedbox/pkg/validation"
)

// Stores groups the storage the service works on.
type Stores struct {
	Users    store.UsersStore
	Projects store.ProjectsStore
	Forms    store.FormsStore
	Records  store.RecordsStore
}

// Service implements the feedback operations on top of the stores.
type Service struct {
	users    store.UsersStore
	projects store.ProjectsStore
	forms    store.FormsStore
	records  store.RecordsStore
	tokens   *token.Issuer
	config   func() *config.FeedboxConfig
}

// NewService creates a Service. cfg is consulted on every call so that
// reloaded settings apply to the next request; nil means config.Get.
func NewService(stores Stores, tokens *token.Issuer, cfg func() *config.FeedboxConfig) *Service {
	if cfg == nil {
		cfg = config.Get
	}
	return &Service{
		users:    stores.Users,
		projects: stores.Projects,
		forms:    stores.Forms,
		records:  stores.Records,
		tokens:   tokens,
		config:   cfg,
	}
}

// page validates a requested window and clamps its size.
func (s *Service) page(p validation.Page) (store.Page, error) {
	if err := invalid(validation.Struct(&p)); err != nil {
		return store.Page{}, err
	}
	return store.Page{Limit: s.config().PageLimit(p.Limit), Offset: p.Offset}, nil
}

// ParseID parses a client-supplied identifier, reporting failures against
// field. Only the canonical hyphenated form is accepted, as for identifiers
// in request bodies.
func ParseID(field, raw string) (uuid.UUID, error) {
	if !validation.IsIdentifier(raw) {
		return uuid.Nil, invalidField(field, validation.InvalidFormat, "invalid "+field)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, invalidField(field, validation.InvalidFormat, "invalid "+field)
	}
	return id, nil
}
