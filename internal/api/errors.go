package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/calvinalkan/handled/internal/app"
	"github.com/calvinalkan/handled/internal/capture"
	"github.com/calvinalkan/handled/internal/nudge"
	"github.com/calvinalkan/handled/internal/store"
	"github.com/calvinalkan/handled/internal/task"

	"go.uber.org/zap"
)

var errBadBody = errors.New("invalid request body")

var badRequest = []error{
	errBadBody,
	store.ErrAmbiguousID,
	task.ErrInvalidKind,
	task.ErrInvalidReminderType,
	task.ErrReminderTimeMissing,
	task.ErrReminderOutOfRange,
	task.ErrInvalidSnooze,
	task.ErrInvalidProvider,
	nudge.ErrUnknownType,
	app.ErrInvalidTrigger,
	app.ErrEmptyCapture,
}

var conflict = []error{
	app.ErrNotSignedIn,
	app.ErrAlreadySignedIn,
	app.ErrWatchNotEnabled,
	app.ErrWatchAlreadyEnabled,
	app.ErrRecordingInProgress,
	app.ErrTaskAlreadyDone,
	app.ErrTaskNotDone,
	app.ErrNoAudio,
	capture.ErrInvalidTransition,
}

// statusFor maps a session error to an HTTP status.
func statusFor(err error) int {
	if errors.Is(err, store.ErrNotFound) {
		return http.StatusNotFound
	}

	for _, target := range badRequest {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}

	for _, target := range conflict {
		if errors.Is(err, target) {
			return http.StatusConflict
		}
	}

	return http.StatusInternalServerError
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", zap.Error(err))
	}

	writeJSON(w, status, errorBody{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
