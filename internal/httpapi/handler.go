// Package httpapi exposes the REST API for the example resource.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/launchbox/webapi/internal/metrics"
	"github.com/launchbox/webapi/internal/storage"
)

// handler bundles the HTTP endpoints for the example resource.
type handler struct {
	store storage.ExampleStore
}

// NewHandler returns a router exposing the REST API, the healthcheck, and the
// metrics endpoint.
func NewHandler(store storage.ExampleStore) *mux.Router {
	h := &handler{store: store}

	r := mux.NewRouter()
	r.HandleFunc("/healthcheck", h.healthcheck).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/examples", h.listExamples).Methods(http.MethodGet)
	v1.HandleFunc("/examples", h.createExample).Methods(http.MethodPost)
	v1.HandleFunc("/examples/{id:[0-9]+}", h.getExample).Methods(http.MethodGet)
	v1.HandleFunc("/examples/{id:[0-9]+}", h.updateExample).Methods(http.MethodPut)
	v1.HandleFunc("/examples/{id:[0-9]+}", h.deleteExample).Methods(http.MethodDelete)

	return r
}

func (h *handler) healthcheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (h *handler) listExamples(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	examples, err := h.store.List(r.Context(), page)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, examples)
}

func (h *handler) createExample(w http.ResponseWriter, r *http.Request) {
	var params storage.CreateExampleParams
	if err := decodeJSON(r.Body, &params); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if params.Code == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("code is required"))
		return
	}

	created, err := h.store.Create(r.Context(), params)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *handler) getExample(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	example, err := h.store.Get(r.Context(), id)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, example)
}

func (h *handler) updateExample(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var params storage.UpdateExampleParams
	if err := decodeJSON(r.Body, &params); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	updated, err := h.store.Update(r.Context(), id, params)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *handler) deleteExample(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	deleted, err := h.store.Delete(r.Context(), id)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deleted)
}

func pathID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func parsePage(r *http.Request) (storage.Page, error) {
	q := r.URL.Query()

	number := 1
	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return storage.Page{}, fmt.Errorf("page must be a positive integer")
		}
		number = n
	}

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return storage.Page{}, fmt.Errorf("limit must be a positive integer")
		}
		limit = n
	}

	return storage.NewPage(number, limit), nil
}

func writeStorageError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, storage.ErrAlreadyExists), errors.Is(err, storage.ErrNoReference):
		writeError(w, http.StatusConflict, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func decodeJSON(body io.ReadCloser, dst interface{}) error {
	defer body.Close()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
