package endpoints

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/doodlesbykumbi/feedbox/pkg/audit"
	"github.com/doodlesbykumbi/feedbox/pkg/model"
	"github.com/doodlesbykumbi/feedbox/pkg/server"
	"github.com/doodlesbykumbi/feedbox/pkg/validation"
)

// PublicFormResponse is what anonymous submitters see of a form
type PublicFormResponse struct {
	ID      uuid.UUID      `json:"id"`
	Name    string         `json:"name"`
	Heading string         `json:"heading"`
	Type    model.FormType `json:"type"`
}

// RegisterFormsEndpoints registers the form endpoints
func RegisterFormsEndpoints(s *server.Server) {
	formsRouter := s.Router.PathPrefix("/v1/form").Subrouter()
	formsRouter.Use(s.AuthMiddleware.Middleware)

	// POST /v1/form - Create a form in one of the caller's projects
	formsRouter.HandleFunc("", handleCreateForm(s)).Methods("POST")

	// GET /v1/form?projectId= - List the forms of a project
	formsRouter.HandleFunc("", handleListForms(s)).Methods("GET")

	// GET /v1/form/{id} - Show a form
	formsRouter.HandleFunc("/{id}", handleGetForm(s)).Methods("GET")

	// DELETE /v1/form/{id} - Soft-delete a form
	formsRouter.HandleFunc("/{id}", handleDeleteForm(s)).Methods("DELETE")

	// GET /v1/form/{id}/summary - Feedback totals of a form
	formsRouter.HandleFunc("/{id}/summary", handleFormSummary(s)).Methods("GET")

	// GET /v1/public/form/{id} - Public view of a form (no auth required)
	s.Router.HandleFunc("/v1/public/form/{id}", handlePublicForm(s)).Methods("GET")
}

func formEvent(r *http.Request, projectID, formID, operation string, err error) audit.FormEvent {
	return audit.FormEvent{
		UserID:       caller(r).UserID.String(),
		ClientIP:     clientIP(r),
		ProjectID:    projectID,
		FormID:       formID,
		Operation:    operation,
		Success:      err == nil,
		ErrorMessage: errorMessage(err),
	}
}

func handleCreateForm(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in validation.Form
		if err := decodeJSON(w, r, s.Config().MaxBodyBytes, &in); err != nil {
			respondWithServiceError(w, r, err)
			return
		}

		form, err := s.Service.CreateForm(r.Context(), caller(r).UserID, in)
		formID := ""
		if form != nil {
			formID = form.ID.String()
		}
		audit.Log(formEvent(r, in.ProjectID, formID, "create", err))
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}

		respondWithData(w, http.StatusCreated, "form created", form)
	}
}

func handleListForms(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := queryID(r, "projectId")
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		page, err := pageFromQuery(r)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}

		forms, total, err := s.Service.ListForms(r.Context(), projectID, caller(r).UserID, page)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}

		respondWithData(w, http.StatusOK, "forms", ListResponse[model.Form]{
			Items:  forms,
			Total:  total,
			Limit:  s.Config().PageLimit(page.Limit),
			Offset: page.Offset,
		})
	}
}

func handleGetForm(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}

		form, err := s.Service.GetForm(r.Context(), id, caller(r).UserID)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}

		respondWithData(w, http.StatusOK, "form", form)
	}
}

func handleDeleteForm(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}

		err = s.Service.SoftDeleteForm(r.Context(), id, caller(r).UserID)
		audit.Log(formEvent(r, "", id.String(), "delete", err))
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}

		respondWithData(w, http.StatusOK, "form deleted", nil)
	}
}

func handleFormSummary(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}

		summary, err := s.Service.SummarizeForm(r.Context(), id, caller(r).UserID)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}

		respondWithData(w, http.StatusOK, "form summary", summary)
	}
}

func handlePublicForm(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}

		form, err := s.Service.PublicForm(r.Context(), id)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}

		respondWithData(w, http.StatusOK, "form", PublicFormResponse{
			ID:      form.ID,
			Name:    form.Name,
			Heading: form.Heading,
			Type:    form.Type,
		})
	}
}
