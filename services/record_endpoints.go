package services

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/upcv/backend/models"
	"github.com/upcv/backend/repository"
)

// RecordEndpoints serves CRUD routes for one CV record kind. Every route
// expects the auth middleware to have placed the user in the context; records
// of other users are reported as not found.
type RecordEndpoints[T any, PT models.RecordPtr[T]] struct {
	path  string
	store *repository.RecordStore[T, PT]
}

type recordResponse[T any] struct {
	Record  T      `json:"record"`
	Message string `json:"message,omitempty"`
}

type recordsResponse[T any] struct {
	Records []T `json:"records"`
	Count   int `json:"count"`
}

func NewRecordEndpoints[T any, PT models.RecordPtr[T]](path string, store *repository.RecordStore[T, PT]) *RecordEndpoints[T, PT] {
	return &RecordEndpoints[T, PT]{path: path, store: store}
}

func (e *RecordEndpoints[T, PT]) RegisterRoutes(r chi.Router) {
	r.Route("/"+e.path, func(r chi.Router) {
		r.Post("/", e.CreateHandler)
		r.Get("/", e.ListHandler)
		r.Get("/{id}", e.GetHandler)
		r.Put("/{id}", e.UpdateHandler)
		r.Delete("/{id}", e.DeleteHandler)
	})
}

func (e *RecordEndpoints[T, PT]) CreateHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	rec := PT(new(T))
	if err := json.NewDecoder(r.Body).Decode(rec); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := e.store.Create(r.Context(), user.ID, rec); err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, recordResponse[PT]{Record: rec, Message: "Record created successfully"})
}

func (e *RecordEndpoints[T, PT]) ListHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	records, err := e.store.ListAll(r.Context(), user.ID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, recordsResponse[T]{Records: records, Count: len(records)})
}

func (e *RecordEndpoints[T, PT]) GetHandler(w http.ResponseWriter, r *http.Request) {
	rec, ok := e.loadOwned(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, recordResponse[PT]{Record: rec})
}

// UpdateHandler applies the body on top of the stored record, so omitted
// fields keep their values.
func (e *RecordEndpoints[T, PT]) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	existing, ok := e.loadOwned(w, r)
	if !ok {
		return
	}

	staged := *existing
	if err := json.NewDecoder(r.Body).Decode(PT(&staged)); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := e.store.Update(r.Context(), existing.RecordID(), func(rec PT) error {
		*rec = staged
		return nil
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, recordResponse[PT]{Record: updated, Message: "Record updated successfully"})
}

func (e *RecordEndpoints[T, PT]) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	rec, ok := e.loadOwned(w, r)
	if !ok {
		return
	}

	if err := e.store.Delete(r.Context(), rec.RecordID()); err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Record deleted successfully",
	})
}

// loadOwned fetches the record named by the {id} parameter and checks that it
// belongs to the authenticated user. It writes the error response itself.
func (e *RecordEndpoints[T, PT]) loadOwned(w http.ResponseWriter, r *http.Request) (PT, bool) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return nil, false
	}

	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		writeError(w, http.StatusBadRequest, "Invalid record ID")
		return nil, false
	}

	rec, err := e.store.Get(r.Context(), uint(id))
	if err != nil {
		writeStoreError(w, err)
		return nil, false
	}

	if rec.OwnerID() != user.ID {
		slog.Warn("Record access denied", "kind", e.store.Kind(), "id", id, "user_id", user.ID)
		writeError(w, http.StatusNotFound, "Not found")
		return nil, false
	}
	return rec, true
}

// CVEndpoints serves the aggregated CV of the authenticated user.
type CVEndpoints struct {
	repo *repository.GORMRepository
}

func NewCVEndpoints(repo *repository.GORMRepository) *CVEndpoints {
	return &CVEndpoints{repo: repo}
}

func (e *CVEndpoints) RegisterRoutes(r chi.Router) {
	r.Get("/cv", e.GetCVHandler)
}

func (e *CVEndpoints) GetCVHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	cv, err := e.repo.GetCV(r.Context(), user.ID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user": user,
		"cv":   cv,
	})
}
