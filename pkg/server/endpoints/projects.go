package endpoints

import (
	"net/http"

	"github.com/doodlesbykumbi/feedbox/pkg/audit"
	"github.com/doodlesbykumbi/feedbox/pkg/log"
	"github.com/doodlesbykumbi/feedbox/pkg/markdown"
	"github.com/doodlesbykumbi/feedbox/pkg/model"
	"github.com/doodlesbykumbi/feedbox/pkg/server"
	"github.com/doodlesbykumbi/feedbox/pkg/validation"
)

const excerptLength = 140

// ProjectResponse is a project with its description rendered for display.
type ProjectResponse struct {
	*model.Project
	DescHTML string `json:"descHtml,omitempty"`
	Excerpt  string `json:"excerpt,omitempty"`
}

func projectResponse(p *model.Project) ProjectResponse {
	resp := ProjectResponse{Project: p}
	if p.Desc == nil || *p.Desc == "" {
		return resp
	}
	html, err := markdown.Render(*p.Desc)
	if err != nil {
		log.WithError(err).WithField("project", p.ID).Warn("failed to render project description")
	}
	resp.DescHTML = html
	resp.Excerpt = markdown.Excerpt(*p.Desc, excerptLength)
	return resp
}

// RegisterProjectsEndpoints registers the project endpoints
func RegisterProjectsEndpoints(s *server.Server) {
	projectsRouter := s.Router.PathPrefix("/v1/project").Subrouter()
	projectsRouter.Use(s.AuthMiddleware.Middleware)

	// POST /v1/project - Create a project
	projectsRouter.HandleFunc("", handleCreateProject(s)).Methods("POST")

	// GET /v1/project - List the caller's projects
	projectsRouter.HandleFunc("", handleListProjects(s)).Methods("GET")

	// GET /v1/project/{id} - Show a project
	projectsRouter.HandleFunc("/{id}", handleGetProject(s)).Methods("GET")

	// PUT /v1/project/{id} - Replace name and description
	projectsRouter.HandleFunc("/{id}", handleEditProject(s)).Methods("PUT")

	// DELETE /v1/project/{id} - Soft-delete a project
	projectsRouter.HandleFunc("/{id}", handleDeleteProject(s)).Methods("DELETE")

	// GET /v1/project/{id}/summary - Feedback totals over all forms
	projectsRouter.HandleFunc("/{id}/summary", handleProjectSummary(s)).Methods("GET")
}

func projectEvent(r *http.Request, projectID, operation string, err error) audit.ProjectEvent {
	return audit.ProjectEvent{
		UserID:       caller(r).UserID.String(),
		ClientIP:     clientIP(r),
		ProjectID:    projectID,
		Operation:    operation,
		Success:      err == nil,
		ErrorMessage: errorMessage(err),
	}
}

func handleCreateProject(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in validation.Project
		if err := decodeJSON(w, r, s.Config().MaxBodyBytes, &in); err != nil {
			respondWithServiceError(w, r, err)
			return
		}

		project, err := s.Service.CreateProject(r.Context(), caller(r).UserID, in)
		projectID := ""
		if project != nil {
			projectID = project.ID.String()
		}
		audit.Log(projectEvent(r, projectID, "create", err))
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}

		respondWithData(w, http.StatusCreated, "project created", projectResponse(project))
	}
}

func handleListProjects(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := pageFromQuery(r)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}

		projects, total, err := s.Service.ListProjects(r.Context(), caller(r).UserID, page)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}

		items := make([]ProjectResponse, 0, len(projects))
		for i := range projects {
			items = append(items, projectResponse(&projects[i]))
		}
		respondWithData(w, http.StatusOK, "projects", ListResponse[ProjectResponse]{
			Items:  items,
			Total:  total,
			Limit:  s.Config().PageLimit(page.Limit),
			Offset: page.Offset,
		})
	}
}

func handleGetProject(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}

		project, err := s.Service.GetProject(r.Context(), id, caller(r).UserID)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}

		respondWithData(w, http.StatusOK, "project", projectResponse(project))
	}
}

func handleEditProject(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		var in validation.Project
		if err := decodeJSON(w, r, s.Config().MaxBodyBytes, &in); err != nil {
			respondWithServiceError(w, r, err)
			return
		}

		project, err := s.Service.EditProject(r.Context(), id, caller(r).UserID, in)
		audit.Log(projectEvent(r, id.String(), "update", err))
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}

		respondWithData(w, http.StatusOK, "project updated", projectResponse(project))
	}
}

func handleDeleteProject(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}

		err = s.Service.SoftDeleteProject(r.Context(), id, caller(r).UserID)
		audit.Log(projectEvent(r, id.String(), "delete", err))
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}

		respondWithData(w, http.StatusOK, "project deleted", nil)
	}
}

func handleProjectSummary(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}

		summary, err := s.Service.SummarizeProject(r.Context(), id, caller(r).UserID)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}

		respondWithData(w, http.StatusOK, "project summary", summary)
	}
}

