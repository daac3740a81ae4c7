package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/janghjun/healthlog/internal/model"
	"github.com/janghjun/healthlog/internal/service"
)

type goalBody struct {
	Minutes int `json:"minutes"`
}

type favoriteBody struct {
	Favorite bool `json:"favorite"`
}

func (s *server) exerciseByDate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Exercise.RecordsByDate(mux.Vars(r)["date"]))
}

func (s *server) addExercise(w http.ResponseWriter, r *http.Request) {
	var in service.ExerciseInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	in.Date = mux.Vars(r)["date"]
	rec, err := s.tracker.Exercise.AddRecord(r.Context(), in)
	s.writeResult(w, http.StatusCreated, rec, err)
}

func (s *server) updateExercise(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var patch service.ExercisePatch
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	rec, found, err := s.tracker.Exercise.UpdateRecord(r.Context(), vars["date"], vars["id"], patch)
	if err == nil && !found {
		writeError(w, http.StatusNotFound, errNotFound)
		return
	}
	s.writeResult(w, http.StatusOK, rec, err)
}

func (s *server) exerciseParts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Exercise.GroupedByPart(mux.Vars(r)["date"]))
}

func (s *server) exerciseSummaryRange(w http.ResponseWriter, r *http.Request) {
	from, to, err := rangeParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	sum, err := s.tracker.Exercise.SummaryRange(from, to)
	s.writeResult(w, http.StatusOK, sum, err)
}

func (s *server) exercisePresence(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Exercise.RecordPresence())
}

func (s *server) deleteExercise(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	ok, err := s.tracker.Exercise.DeleteRecord(r.Context(), vars["date"], vars["id"])
	removed(w, ok, err)
}

// toggleExerciseFavorite flips the flag on the record wherever it is filed;
// the date segment only scopes the URL.
func (s *server) toggleExerciseFavorite(w http.ResponseWriter, r *http.Request) {
	fav, found, err := s.tracker.Exercise.ToggleFavorite(r.Context(), mux.Vars(r)["id"])
	if err == nil && !found {
		writeError(w, http.StatusNotFound, errNotFound)
		return
	}
	s.writeResult(w, http.StatusOK, favoriteBody{Favorite: fav}, err)
}

func (s *server) exerciseGoal(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, goalBody{Minutes: s.tracker.Exercise.Goal()})
}

func (s *server) setExerciseGoal(w http.ResponseWriter, r *http.Request) {
	var body goalBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	err := s.tracker.Exercise.SetGoal(r.Context(), body.Minutes)
	s.writeResult(w, http.StatusOK, goalBody{Minutes: s.tracker.Exercise.Goal()}, err)
}

func (s *server) favoriteExercises(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Exercise.FavoriteExercises())
}

// toggleSavedExercise saves the posted workout as a favorite, or removes the
// favorite with the same name and part.
func (s *server) toggleSavedExercise(w http.ResponseWriter, r *http.Request) {
	var fav model.FavoriteExercise
	if err := decodeBody(r, &fav); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	on, err := s.tracker.Exercise.ToggleFavoriteExercise(r.Context(), fav)
	s.writeResult(w, http.StatusOK, favoriteBody{Favorite: on}, err)
}
