package endpoints

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/feedbox/pkg/model"
	"github.com/doodlesbykumbi/feedbox/pkg/server/store"
)

func strPtr(s string) *string { return &s }

func TestCreateProject(t *testing.T) {
	env := newTestEnv(t)
	user, tok := env.signedIn(t)
	env.projects.On("CreateProject", mock.MatchedBy(func(p *model.Project) bool {
		return p.Name == "site-feedback" && p.UserID == user.ID && !p.IsDeleted
	})).Run(func(args mock.Arguments) {
		p := args.Get(0).(*model.Project)
		p.ID = uuid.New()
		p.CreatedDate = time.Now().UTC()
	}).Return(nil).Once()

	w := env.do("POST", "/v1/project", map[string]any{
		"name": "site-feedback",
		"desc": "Collects **all** the feedback.\n\nSecond paragraph.",
	}, tok)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var project struct {
		ID       uuid.UUID `json:"id"`
		UserID   uuid.UUID `json:"userId"`
		DescHTML string    `json:"descHtml"`
		Excerpt  string    `json:"excerpt"`
	}
	decodeData(t, w, &project)
	assert.Equal(t, user.ID, project.UserID)
	assert.Contains(t, project.DescHTML, "<strong>all</strong>")
	assert.Equal(t, "Collects all the feedback.", project.Excerpt)
	env.projects.AssertExpectations(t)
}

func TestCreateProjectValidation(t *testing.T) {
	env := newTestEnv(t)
	_, tok := env.signedIn(t)

	w := env.do("POST", "/v1/project", map[string]any{"name": ""}, tok)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, hasFieldError(decodeEnvelope(t, w), "name", "TooShort"))
	env.projects.AssertNotCalled(t, "CreateProject", mock.Anything)
}

func TestListProjects(t *testing.T) {
	env := newTestEnv(t)
	user, tok := env.signedIn(t)
	projects := []model.Project{
		{ID: uuid.New(), Name: "newer", UserID: user.ID},
		{ID: uuid.New(), Name: "older", UserID: user.ID},
	}
	env.projects.On("ListProjects", user.ID, store.Page{Limit: 2, Offset: 0}).Return(projects, nil).Once()
	env.projects.On("CountProjects", user.ID).Return(int64(5), nil).Once()

	w := env.do("GET", "/v1/project?limit=2", nil, tok)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var list ListResponse[ProjectResponse]
	decodeData(t, w, &list)
	assert.EqualValues(t, 5, list.Total)
	assert.Equal(t, 2, list.Limit)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "newer", list.Items[0].Name)
}

func TestListProjectsLimitOutOfRange(t *testing.T) {
	for _, raw := range []string{"0", "-5"} {
		env := newTestEnv(t)
		_, tok := env.signedIn(t)

		w := env.do("GET", "/v1/project?limit="+raw, nil, tok)

		assert.Equal(t, http.StatusBadRequest, w.Code, raw)
		assert.True(t, hasFieldError(decodeEnvelope(t, w), "limit", "OutOfRange"), w.Body.String())
		env.projects.AssertNotCalled(t, "ListProjects", mock.Anything, mock.Anything)
	}
}

func TestListProjectsDefaultLimit(t *testing.T) {
	env := newTestEnv(t)
	user, tok := env.signedIn(t)
	env.projects.On("ListProjects", user.ID, store.Page{Limit: 100}).Return([]model.Project{}, nil).Once()
	env.projects.On("CountProjects", user.ID).Return(int64(0), nil).Once()

	w := env.do("GET", "/v1/project", nil, tok)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var list ListResponse[ProjectResponse]
	decodeData(t, w, &list)
	assert.Equal(t, 100, list.Limit)
	env.projects.AssertExpectations(t)
}

func TestListProjectsClampsLimit(t *testing.T) {
	env := newTestEnv(t)
	user, tok := env.signedIn(t)
	env.projects.On("ListProjects", user.ID, store.Page{Limit: 1000, Offset: 10}).Return([]model.Project{}, nil).Once()
	env.projects.On("CountProjects", user.ID).Return(int64(0), nil).Once()

	w := env.do("GET", "/v1/project?limit=5000&offset=10", nil, tok)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env.projects.AssertExpectations(t)
}

func TestListProjectsBadPage(t *testing.T) {
	env := newTestEnv(t)
	_, tok := env.signedIn(t)

	w := env.do("GET", "/v1/project?limit=ten", nil, tok)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, hasFieldError(decodeEnvelope(t, w), "limit", "InvalidFormat"))
}

func TestListProjectsTransientFailure(t *testing.T) {
	env := newTestEnv(t)
	user, tok := env.signedIn(t)
	env.projects.On("ListProjects", user.ID, mock.Anything).Return(nil, errors.New("connection reset by peer")).Once()

	w := env.do("GET", "/v1/project", nil, tok)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, w.Body.String(), "connection reset")
}

func TestForeignAndMissingProjectsLookAlike(t *testing.T) {
	env := newTestEnv(t)
	_, tok := env.signedIn(t)
	foreign := &model.Project{ID: uuid.New(), Name: "theirs", UserID: uuid.New()}
	missing := uuid.New()
	env.projects.On("FetchProject", foreign.ID).Return(foreign, nil)
	env.projects.On("FetchProject", missing).Return(nil, store.ErrNotFound)

	for _, method := range []string{"GET", "DELETE"} {
		t.Run(method, func(t *testing.T) {
			fw := env.do(method, "/v1/project/"+foreign.ID.String(), nil, tok)
			mw := env.do(method, "/v1/project/"+missing.String(), nil, tok)

			assert.Equal(t, http.StatusNotFound, fw.Code)
			assert.Equal(t, http.StatusNotFound, mw.Code)
			assert.Equal(t, fw.Body.String(), mw.Body.String())
		})
	}
	env.projects.AssertNotCalled(t, "SoftDeleteProject", mock.Anything)
}

func TestEditProject(t *testing.T) {
	env := newTestEnv(t)
	user, tok := env.signedIn(t)
	created := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	project := &model.Project{ID: uuid.New(), Name: "before", Desc: strPtr("old"), UserID: user.ID, CreatedDate: created}
	env.projects.On("FetchProject", project.ID).Return(project, nil)
	env.projects.On("UpdateProject", project.ID, "after", (*string)(nil)).Return(nil).Once()

	w := env.do("PUT", "/v1/project/"+project.ID.String(), map[string]any{"name": "after"}, tok)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got ProjectResponse
	decodeData(t, w, &got)
	assert.Equal(t, "after", got.Name)
	assert.Nil(t, got.Desc)
	assert.Equal(t, user.ID, got.UserID)
	assert.True(t, created.Equal(got.CreatedDate))
	env.projects.AssertExpectations(t)
}

func TestEditDeletedProject(t *testing.T) {
	env := newTestEnv(t)
	user, tok := env.signedIn(t)
	project := &model.Project{ID: uuid.New(), Name: "gone", UserID: user.ID, IsDeleted: true}
	env.projects.On("FetchProject", project.ID).Return(project, nil)

	w := env.do("PUT", "/v1/project/"+project.ID.String(), map[string]any{"name": "after"}, tok)

	assert.Equal(t, http.StatusNotFound, w.Code)
	env.projects.AssertNotCalled(t, "UpdateProject", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteProject(t *testing.T) {
	env := newTestEnv(t)
	user, tok := env.signedIn(t)
	project := &model.Project{ID: uuid.New(), Name: "doomed", UserID: user.ID}
	env.projects.On("FetchProject", project.ID).Return(project, nil)
	env.projects.On("SoftDeleteProject", project.ID).Return(nil).Once()

	w := env.do("DELETE", "/v1/project/"+project.ID.String(), nil, tok)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env.projects.AssertExpectations(t)
}

func TestProjectInvalidID(t *testing.T) {
	env := newTestEnv(t)
	_, tok := env.signedIn(t)

	for _, raw := range []string{
		"not-a-uuid",
		"urn:uuid:" + uuid.NewString(),
		strings.ReplaceAll(uuid.NewString(), "-", ""),
	} {
		w := env.do("GET", "/v1/project/"+raw, nil, tok)

		assert.Equal(t, http.StatusBadRequest, w.Code, raw)
		assert.True(t, hasFieldError(decodeEnvelope(t, w), "id", "InvalidFormat"), raw)
	}
	env.projects.AssertNotCalled(t, "FetchProject", mock.Anything)
}

func TestProjectSummary(t *testing.T) {
	env := newTestEnv(t)
	user, tok := env.signedIn(t)
	project := &model.Project{ID: uuid.New(), Name: "site", UserID: user.ID}
	forms := []model.Form{{ID: uuid.New(), ProjectID: project.ID}, {ID: uuid.New(), ProjectID: project.ID}}
	avg := 4.5
	env.projects.On("FetchProject", project.ID).Return(project, nil)
	env.forms.On("ListForms", project.ID, store.Page{}).Return(forms, nil).Once()
	env.records.On("SummarizeRecords", []uuid.UUID{forms[0].ID, forms[1].ID}).
		Return(store.RecordSummary{Total: 7, Rated: 2, AverageRating: &avg}, nil).Once()

	w := env.do("GET", "/v1/project/"+project.ID.String()+"/summary", nil, tok)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var summary map[string]any
	decodeData(t, w, &summary)
	assert.EqualValues(t, 2, summary["forms"])
	assert.EqualValues(t, 7, summary["total"])
	assert.EqualValues(t, 4.5, summary["averageRating"])
}

func TestProjectsRequireAuthentication(t *testing.T) {
	env := newTestEnv(t)

	w := env.do("GET", "/v1/project", nil, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	env.projects.AssertNotCalled(t, "ListProjects", mock.Anything, mock.Anything)
}
