package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/calvinalkan/handled/internal/agenda"
	"github.com/calvinalkan/handled/internal/app"
	"github.com/calvinalkan/handled/internal/capture"
	"github.com/calvinalkan/handled/internal/nudge"
	"github.com/calvinalkan/handled/internal/task"

	"github.com/gorilla/mux"
)

// Request bodies are small; anything larger is rejected.
const maxBodyBytes = 1 << 16

// CaptureRequest is the body of POST /captures.
type CaptureRequest struct {
	Text  string `json:"text,omitempty"`
	Watch bool   `json:"watch,omitempty"`
}

// SnoozeRequest is the body of POST /tasks/{id}/snooze.
type SnoozeRequest struct {
	Duration string `json:"duration"`
}

// ReminderRequest is the body of PUT /tasks/{id}/reminder.
type ReminderRequest struct {
	Type string    `json:"type"`
	At   time.Time `json:"at,omitzero"`
}

// SignInRequest is the body of POST /session/signin.
type SignInRequest struct {
	Provider string `json:"provider"`
	Trigger  string `json:"trigger,omitempty"`
}

// AgendaResponse is the body of GET /agenda.
type AgendaResponse struct {
	agenda.Buckets
	EmptyState agenda.EmptyState `json:"empty_state"`
}

// NudgeResponse is the body of GET /nudge.
type NudgeResponse struct {
	Type nudge.Type `json:"type"`
	nudge.Content
}

// RecordingResponse is the body of POST /recording/{action}.
type RecordingResponse struct {
	State     capture.State `json:"state"`
	Remaining string        `json:"remaining"`
	Task      *task.Task    `json:"task,omitempty"`
}

// CountResponse reports how many items an operation touched.
type CountResponse struct {
	Count int `json:"count"`
}

func decode(r *http.Request, v any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	if err != nil {
		return fmt.Errorf("%w: %w", errBadBody, err)
	}

	return nil
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap, err := s.sess.Snapshot(r.Context())
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleAgenda(w http.ResponseWriter, r *http.Request) {
	b, err := s.sess.Agenda(r.Context())
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, AgendaResponse{Buckets: b, EmptyState: b.State()})
}

func (s *Server) handleReminders(w http.ResponseWriter, r *http.Request) {
	due, err := s.sess.DueReminders(r.Context())
	if err != nil {
		s.writeError(w, err)

		return
	}

	if due == nil {
		due = []task.Task{}
	}

	writeJSON(w, http.StatusOK, due)
}

func (s *Server) handleCapture(w http.ResponseWriter, r *http.Request) {
	var req CaptureRequest

	// An empty body captures a simulated transcription.
	err := decode(r, &req)
	if err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, err)

		return
	}

	capt := s.sess.Capture
	if req.Watch {
		capt = s.sess.WatchCapture
	}

	t, err := capt(r.Context(), req.Text)
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleRecording(w http.ResponseWriter, r *http.Request) {
	var (
		resp RecordingResponse
		err  error
	)

	switch mux.Vars(r)["action"] {
	case "start":
		err = s.sess.StartRecording()
	case "pause":
		err = s.sess.PauseRecording()
	case "resume":
		err = s.sess.ResumeRecording()
	case "stop":
		var t task.Task

		t, _, err = s.sess.StopRecording(r.Context())
		if err == nil {
			resp.Task = &t
		}
	case "cancel":
		s.sess.CancelRecording()
	}

	if err != nil {
		s.writeError(w, err)

		return
	}

	state, left := s.sess.RecorderState()
	resp.State = state
	resp.Remaining = left.Round(time.Second).String()

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	t, err := s.sess.Task(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	_, err := s.sess.Delete(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	t, err := s.sess.Complete(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleUncomplete(w http.ResponseWriter, r *http.Request) {
	t, err := s.sess.Uncomplete(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleSnooze(w http.ResponseWriter, r *http.Request) {
	var req SnoozeRequest

	err := decode(r, &req)
	if err != nil {
		s.writeError(w, err)

		return
	}

	t, err := s.sess.Snooze(r.Context(), mux.Vars(r)["id"], req.Duration)
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleSetReminder(w http.ResponseWriter, r *http.Request) {
	var req ReminderRequest

	err := decode(r, &req)
	if err != nil {
		s.writeError(w, err)

		return
	}

	t, err := s.sess.SetReminder(r.Context(), mux.Vars(r)["id"], task.Reminder{Type: req.Type, At: req.At})
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteAudio(w http.ResponseWriter, r *http.Request) {
	t, err := s.sess.DeleteRecording(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteAllAudio(w http.ResponseWriter, r *http.Request) {
	n, err := s.sess.DeleteAllRecordings(r.Context())
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, CountResponse{Count: n})
}

func (s *Server) handleNudge(w http.ResponseWriter, _ *http.Request) {
	typ, ok := s.sess.CurrentNudge()
	if !ok {
		w.WriteHeader(http.StatusNoContent)

		return
	}

	writeJSON(w, http.StatusOK, NudgeResponse{Type: typ, Content: nudge.ContentFor(typ, s.sess.CaptureCount())})
}

func (s *Server) handleDismissNudge(w http.ResponseWriter, r *http.Request) {
	typ := nudge.Type(mux.Vars(r)["type"])

	err := s.sess.DismissNudge(typ)
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, s.sess.History()[typ])
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest

	err := decode(r, &req)
	if err != nil {
		s.writeError(w, err)

		return
	}

	if req.Trigger == "" {
		req.Trigger = app.TriggerOrganic
	}

	u, err := s.sess.SignIn(req.Provider, req.Trigger)
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleSignOut(w http.ResponseWriter, _ *http.Request) {
	err := s.sess.SignOut()
	if err != nil {
		s.writeError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDismissBridge(w http.ResponseWriter, _ *http.Request) {
	s.sess.DismissBridge()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	err := s.sess.DeleteAccount(r.Context())
	if err != nil {
		s.writeError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEnableWatch(w http.ResponseWriter, _ *http.Request) {
	err := s.sess.EnableWatch()
	if err != nil {
		s.writeError(w, err)

		return
	}

	u, _ := s.sess.User()
	writeJSON(w, http.StatusOK, u)
}
