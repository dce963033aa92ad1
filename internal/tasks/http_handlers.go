package tasks

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
)

type errorBody struct {
	Error      string      `json:"error"`
	Details    string      `json:"details,omitempty"`
	Violations []Violation `json:"violations,omitempty"`
}

// -------------------------------
// HANDLERS
// -------------------------------

func ListTasksHandler(svc *Service, logger *log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context())
		if err != nil {
			logger.Error("list tasks failed", "err", err)
			writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Failed to fetch tasks", Details: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func CreateTaskHandler(svc *Service, logger *log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := decodeInput(r)
		if err != nil {
			writeFailure(w, "Failed to create task", err)
			return
		}

		created, err := svc.Create(r.Context(), in)
		if err != nil {
			logger.Debug("create task rejected", "err", err)
			writeFailure(w, "Failed to create task", err)
			return
		}

		logger.Info("task created", "id", created.ID)
		writeJSON(w, http.StatusCreated, created)
	}
}

func UpdateTaskHandler(svc *Service, logger *log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		in, err := decodeInput(r)
		if err != nil {
			writeFailure(w, "Failed to update task", err)
			return
		}

		updated, err := svc.Update(r.Context(), id, in)
		if err != nil {
			logger.Debug("update task failed", "id", id, "err", err)
			writeFailure(w, "Failed to update task", err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func DeleteTaskHandler(svc *Service, logger *log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		if err := svc.Delete(r.Context(), id); err != nil {
			logger.Debug("delete task failed", "id", id, "err", err)
			writeFailure(w, "Failed to delete task", err)
			return
		}

		logger.Info("task deleted", "id", id)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully"})
	}
}

func ToggleTaskHandler(svc *Service, logger *log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		toggled, err := svc.Toggle(r.Context(), id)
		if err != nil {
			logger.Debug("toggle task failed", "id", id, "err", err)
			writeFailure(w, "Failed to update task status", err)
			return
		}
		writeJSON(w, http.StatusOK, toggled)
	}
}

// decodeInput reads the task fields from the body. An empty body is an
// empty input; anything after the first JSON value is an error.
func decodeInput(r *http.Request) (Input, error) {
	var in Input
	if r.Body == nil {
		return in, nil
	}
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(&in)
	if errors.Is(err, io.EOF) {
		return Input{}, nil
	}
	if err == nil {
		if err = dec.Decode(&struct{}{}); errors.Is(err, io.EOF) {
			return in, nil
		}
		if err == nil {
			err = errors.New("unexpected data after JSON body")
		}
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return Input{}, err
	}
	return Input{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
}

// writeFailure maps a write-path error to its status: 404 for a missing
// task, 413 for an oversized body, 400 for everything else.
func writeFailure(w http.ResponseWriter, msg string, err error) {
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Task not found"})
		return
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: msg, Details: "request entity too large"})
		return
	}

	body := errorBody{Error: msg, Details: err.Error()}
	var ve *ValidationError
	if errors.As(err, &ve) {
		body.Violations = ve.Violations
	}
	writeJSON(w, http.StatusBadRequest, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
