// Package api serves a session over HTTP with JSON bodies.
package api

import (
	"net/http"
	"time"

	"github.com/calvinalkan/handled/internal/app"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Server holds what the handlers need.
type Server struct {
	sess *app.Session
	log  *zap.Logger
}

// NewRouter returns the routes for sess. A nil logger logs nothing.
func NewRouter(sess *app.Session, log *zap.Logger) *mux.Router {
	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{sess: sess, log: log}
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("OK"))
	}).Methods(http.MethodGet)

	r.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/agenda", s.handleAgenda).Methods(http.MethodGet)
	r.HandleFunc("/reminders", s.handleReminders).Methods(http.MethodGet)

	r.HandleFunc("/captures", s.handleCapture).Methods(http.MethodPost)
	r.HandleFunc("/recording/{action:start|pause|resume|stop|cancel}", s.handleRecording).Methods(http.MethodPost)

	r.HandleFunc("/tasks/{id}", s.handleGetTask).Methods(http.MethodGet)
	r.HandleFunc("/tasks/{id}", s.handleDeleteTask).Methods(http.MethodDelete)
	r.HandleFunc("/tasks/{id}/complete", s.handleComplete).Methods(http.MethodPost)
	r.HandleFunc("/tasks/{id}/uncomplete", s.handleUncomplete).Methods(http.MethodPost)
	r.HandleFunc("/tasks/{id}/snooze", s.handleSnooze).Methods(http.MethodPost)
	r.HandleFunc("/tasks/{id}/reminder", s.handleSetReminder).Methods(http.MethodPut)
	r.HandleFunc("/tasks/{id}/audio", s.handleDeleteAudio).Methods(http.MethodDelete)
	r.HandleFunc("/audio", s.handleDeleteAllAudio).Methods(http.MethodDelete)

	r.HandleFunc("/nudge", s.handleNudge).Methods(http.MethodGet)
	r.HandleFunc("/nudges/{type}/dismiss", s.handleDismissNudge).Methods(http.MethodPost)

	r.HandleFunc("/session/signin", s.handleSignIn).Methods(http.MethodPost)
	r.HandleFunc("/session/signout", s.handleSignOut).Methods(http.MethodPost)
	r.HandleFunc("/session/bridge/dismiss", s.handleDismissBridge).Methods(http.MethodPost)
	r.HandleFunc("/account", s.handleDeleteAccount).Methods(http.MethodDelete)
	r.HandleFunc("/watch/enable", s.handleEnableWatch).Methods(http.MethodPost)

	return r
}

// statusRecorder captures the response code for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sr, r)

		s.log.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", sr.status),
			zap.Duration("elapsed", time.Since(start)))
	})
}
