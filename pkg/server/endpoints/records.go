package endpoints

import (
	"net/http"

	"github.com/doodlesbykumbi/feedbox/pkg/audit"
	"github.com/doodlesbykumbi/feedbox/pkg/server"
	"github.com/doodlesbykumbi/feedbox/pkg/validation"
)

// RegisterRecordsEndpoints registers the record endpoints
func RegisterRecordsEndpoints(s *server.Server) {
	// POST /v1/record - Submit feedback (no auth required)
	s.Router.HandleFunc("/v1/record", handleSubmitRecord(s)).Methods("POST")

	// GET /v1/record?formId= - List the records of a form
	s.Router.Handle("/v1/record", s.AuthMiddleware.Middleware(handleListRecords(s))).Methods("GET")
}

func handleSubmitRecord(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in validation.Record
		if err := decodeJSON(w, r, s.Config().MaxBodyBytes, &in); err != nil {
			respondWithServiceError(w, r, err)
			return
		}

		record, err := s.Service.SubmitRecord(r.Context(), in)
		event := audit.RecordEvent{
			ClientIP:     clientIP(r),
			FormID:       in.FormID,
			Success:      err == nil,
			ErrorMessage: errorMessage(err),
		}
		if record != nil {
			event.RecordID = record.ID.String()
		}
		audit.Log(event)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}

		respondWithData(w, http.StatusCreated, "feedback received", record)
	}
}

func handleListRecords(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID, err := queryID(r, "formId")
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		page, err := pageFromQuery(r)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}

		records, err := s.Service.ListRecords(r.Context(), formID, caller(r).UserID, page)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}

		respondWithData(w, http.StatusOK, "records", records)
	}
}
