package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/janghjun/healthlog/internal/service"
)

func (s *server) today(w http.ResponseWriter, r *http.Request) {
	status, err := s.tracker.Today(r.URL.Query().Get("date"))
	s.writeResult(w, http.StatusOK, status, err)
}

func (s *server) notifications(w http.ResponseWriter, r *http.Request) {
	if date := r.URL.Query().Get("date"); date != "" {
		writeJSON(w, http.StatusOK, s.tracker.Notifications.ForDate(date))
		return
	}
	writeJSON(w, http.StatusOK, s.tracker.Notifications.List())
}

func (s *server) notificationSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Notifications.Settings())
}

func (s *server) toggleNotification(w http.ResponseWriter, r *http.Request) {
	kind, err := service.ParseNotificationKind(mux.Vars(r)["kind"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	settings, err := s.tracker.Notifications.Toggle(r.Context(), kind)
	s.writeResult(w, http.StatusOK, settings, err)
}
