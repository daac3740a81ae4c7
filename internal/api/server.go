// Package api exposes the tracker as a local JSON HTTP API.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/janghjun/healthlog/internal/service"
	"github.com/janghjun/healthlog/internal/store"
	"github.com/rs/cors"
)

const datePattern = `{date:[0-9]{4}-[0-9]{2}-[0-9]{2}}`

var errNotFound = errors.New("not found")

type Options struct {
	Logger         *slog.Logger
	AllowedOrigins []string
}

type server struct {
	tracker *service.Tracker
	logger  *slog.Logger
}

// NewRouter wires every route onto tracker behind CORS and request logging.
func NewRouter(tracker *service.Tracker, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s := &server{tracker: tracker, logger: logger}

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/diet/summary", s.dietSummaryRange).Methods(http.MethodGet)
	api.HandleFunc("/diet/series", s.dietSeries).Methods(http.MethodGet)
	api.HandleFunc("/diet/presence", s.dietPresence).Methods(http.MethodGet)
	api.HandleFunc("/diet/goals", s.dietGoals).Methods(http.MethodGet)
	api.HandleFunc("/diet/goals", s.setDietGoals).Methods(http.MethodPut)
	api.HandleFunc("/diet/favorites", s.favoriteFoods).Methods(http.MethodGet)
	api.HandleFunc("/diet/favorites", s.addFavoriteFood).Methods(http.MethodPost)
	api.HandleFunc("/diet/favorites/{id}", s.removeFavoriteFood).Methods(http.MethodDelete)
	api.HandleFunc("/diet/"+datePattern, s.mealsByDate).Methods(http.MethodGet)
	api.HandleFunc("/diet/"+datePattern, s.addFood).Methods(http.MethodPost)
	api.HandleFunc("/diet/"+datePattern+"/summary", s.dietSummary).Methods(http.MethodGet)
	api.HandleFunc("/diet/"+datePattern+"/{slot}/{id}", s.updateFood).Methods(http.MethodPatch)
	api.HandleFunc("/diet/"+datePattern+"/{slot}/{id}", s.deleteFood).Methods(http.MethodDelete)

	api.HandleFunc("/exercise/summary", s.exerciseSummaryRange).Methods(http.MethodGet)
	api.HandleFunc("/exercise/presence", s.exercisePresence).Methods(http.MethodGet)
	api.HandleFunc("/exercise/goal", s.exerciseGoal).Methods(http.MethodGet)
	api.HandleFunc("/exercise/goal", s.setExerciseGoal).Methods(http.MethodPut)
	api.HandleFunc("/exercise/favorites", s.favoriteExercises).Methods(http.MethodGet)
	api.HandleFunc("/exercise/favorites/toggle", s.toggleSavedExercise).Methods(http.MethodPost)
	api.HandleFunc("/exercise/"+datePattern, s.exerciseByDate).Methods(http.MethodGet)
	api.HandleFunc("/exercise/"+datePattern, s.addExercise).Methods(http.MethodPost)
	api.HandleFunc("/exercise/"+datePattern+"/parts", s.exerciseParts).Methods(http.MethodGet)
	api.HandleFunc("/exercise/"+datePattern+"/{id}", s.updateExercise).Methods(http.MethodPatch)
	api.HandleFunc("/exercise/"+datePattern+"/{id}", s.deleteExercise).Methods(http.MethodDelete)
	api.HandleFunc("/exercise/"+datePattern+"/{id}/favorite", s.toggleExerciseFavorite).Methods(http.MethodPost)

	api.HandleFunc("/medication/adherence", s.medicationAdherence).Methods(http.MethodGet)
	api.HandleFunc("/medication/presence", s.medicationPresence).Methods(http.MethodGet)
	api.HandleFunc("/medication/recommendations", s.recommendSupplements).Methods(http.MethodGet)
	api.HandleFunc("/medication/"+datePattern, s.medicationsByDate).Methods(http.MethodGet)
	api.HandleFunc("/medication/"+datePattern, s.addMedication).Methods(http.MethodPost)
	api.HandleFunc("/medication/"+datePattern+"/{id}", s.updateMedication).Methods(http.MethodPatch)
	api.HandleFunc("/medication/"+datePattern+"/{id}", s.deleteMedication).Methods(http.MethodDelete)
	api.HandleFunc("/medication/"+datePattern+"/{id}/check", s.toggleChecked).Methods(http.MethodPost)

	api.HandleFunc("/today", s.today).Methods(http.MethodGet)
	api.HandleFunc("/notifications", s.notifications).Methods(http.MethodGet)
	api.HandleFunc("/notifications/settings", s.notificationSettings).Methods(http.MethodGet)
	api.HandleFunc("/notifications/{kind}/toggle", s.toggleNotification).Methods(http.MethodPost)

	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(loggingMiddleware(logger, r))
}

func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapper.statusCode,
			"duration", time.Since(start),
		)
	})
}

type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

type errorBody struct {
	Error  string `json:"error"`
	Result any    `json:"result,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeResult sends v with status, or the error mapped to a status code.
// A failed write still carries the in-memory result so clients can keep
// showing it.
func (s *server) writeResult(w http.ResponseWriter, status int, v any, err error) {
	if err == nil {
		writeJSON(w, status, v)
		return
	}
	if errors.Is(err, store.ErrPersist) {
		s.logger.Error("persist failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error(), Result: v})
		return
	}
	writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return errors.New("invalid JSON body: " + err.Error())
	}
	return nil
}

func rangeParams(r *http.Request) (string, string, error) {
	q := r.URL.Query()
	from, to := q.Get("from"), q.Get("to")
	if from == "" || to == "" {
		return "", "", errors.New("from and to query parameters are required")
	}
	return from, to, nil
}

func removed(w http.ResponseWriter, ok bool, err error) {
	if err != nil && !errors.Is(err, store.ErrPersist) {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, errNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
