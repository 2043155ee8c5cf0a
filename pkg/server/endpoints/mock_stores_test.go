package endpoints

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/doodlesbykumbi/feedbox/pkg/model"
	"github.com/doodlesbykumbi/feedbox/pkg/server/store"
)

// MockUsersStore implements store.UsersStore for testing using testify/mock
type MockUsersStore struct {
	mock.Mock
}

func (m *MockUsersStore) CreateUser(ctx context.Context, user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUsersStore) FetchUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUsersStore) FetchUserByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUsersStore) UpdateClientSecret(ctx context.Context, id uuid.UUID, secret []byte) error {
	args := m.Called(id, secret)
	return args.Error(0)
}

func (m *MockUsersStore) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash []byte) error {
	args := m.Called(id, hash)
	return args.Error(0)
}

// MockProjectsStore implements store.ProjectsStore for testing using testify/mock
type MockProjectsStore struct {
	mock.Mock
}

func (m *MockProjectsStore) CreateProject(ctx context.Context, project *model.Project) error {
	args := m.Called(project)
	return args.Error(0)
}

func (m *MockProjectsStore) FetchProject(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectsStore) ListProjects(ctx context.Context, ownerID uuid.UUID, page store.Page) ([]model.Project, error) {
	args := m.Called(ownerID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *MockProjectsStore) CountProjects(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	args := m.Called(ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProjectsStore) UpdateProject(ctx context.Context, id uuid.UUID, name string, desc *string) error {
	args := m.Called(id, name, desc)
	return args.Error(0)
}

func (m *MockProjectsStore) SoftDeleteProject(ctx context.Context, id uuid.UUID) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockFormsStore implements store.FormsStore for testing using testify/mock
type MockFormsStore struct {
	mock.Mock
}

func (m *MockFormsStore) CreateForm(ctx context.Context, form *model.Form) error {
	args := m.Called(form)
	return args.Error(0)
}

func (m *MockFormsStore) FetchForm(ctx context.Context, id uuid.UUID) (*model.Form, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Form), args.Error(1)
}

func (m *MockFormsStore) ListForms(ctx context.Context, projectID uuid.UUID, page store.Page) ([]model.Form, error) {
	args := m.Called(projectID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Form), args.Error(1)
}

func (m *MockFormsStore) CountForms(ctx context.Context, projectID uuid.UUID) (int64, error) {
	args := m.Called(projectID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFormsStore) SoftDeleteForm(ctx context.Context, id uuid.UUID) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockRecordsStore implements store.RecordsStore for testing using testify/mock
type MockRecordsStore struct {
	mock.Mock
}

func (m *MockRecordsStore) CreateRecord(ctx context.Context, record *model.Record) error {
	args := m.Called(record)
	return args.Error(0)
}

func (m *MockRecordsStore) ListRecords(ctx context.Context, formID uuid.UUID, page store.Page) ([]model.Record, error) {
	args := m.Called(formID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Record), args.Error(1)
}

func (m *MockRecordsStore) SummarizeRecords(ctx context.Context, formIDs ...uuid.UUID) (store.RecordSummary, error) {
	args := m.Called(formIDs)
	return args.Get(0).(store.RecordSummary), args.Error(1)
}

// MockHealthStore implements store.HealthStore for testing using testify/mock
type MockHealthStore struct {
	mock.Mock
}

func (m *MockHealthStore) CheckConnectivity(ctx context.Context) error {
	args := m.Called()
	return args.Error(0)
}
