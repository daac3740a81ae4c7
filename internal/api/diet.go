package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/janghjun/healthlog/internal/model"
	"github.com/janghjun/healthlog/internal/service"
)

type addFoodRequest struct {
	Slot model.MealSlot `json:"slot"`
	service.FoodInput
}

func (s *server) mealsByDate(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]
	writeJSON(w, http.StatusOK, s.tracker.Diet.MealsByDate(date))
}

func (s *server) addFood(w http.ResponseWriter, r *http.Request) {
	var req addFoodRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	item, err := s.tracker.Diet.AddFood(r.Context(), mux.Vars(r)["date"], req.Slot, req.FoodInput)
	s.writeResult(w, http.StatusCreated, item, err)
}

func (s *server) dietSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Diet.Summary(mux.Vars(r)["date"]))
}

func (s *server) dietSummaryRange(w http.ResponseWriter, r *http.Request) {
	from, to, err := rangeParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	sum, err := s.tracker.Diet.SummaryRange(from, to)
	s.writeResult(w, http.StatusOK, sum, err)
}

func (s *server) dietSeries(w http.ResponseWriter, r *http.Request) {
	from, to, err := rangeParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	series, err := s.tracker.Diet.DailySeries(from, to)
	s.writeResult(w, http.StatusOK, series, err)
}

func (s *server) dietPresence(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Diet.RecordPresence())
}

func (s *server) updateFood(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var patch service.FoodPatch
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	item, found, err := s.tracker.Diet.UpdateFood(r.Context(), vars["date"], model.MealSlot(vars["slot"]), vars["id"], patch)
	if err == nil && !found {
		writeError(w, http.StatusNotFound, errNotFound)
		return
	}
	s.writeResult(w, http.StatusOK, item, err)
}

func (s *server) deleteFood(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	ok, err := s.tracker.Diet.DeleteFood(r.Context(), vars["date"], model.MealSlot(vars["slot"]), vars["id"])
	removed(w, ok, err)
}

func (s *server) dietGoals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Diet.Goals())
}

func (s *server) setDietGoals(w http.ResponseWriter, r *http.Request) {
	var goals model.DietGoals
	if err := decodeBody(r, &goals); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	err := s.tracker.Diet.SetGoals(r.Context(), goals)
	s.writeResult(w, http.StatusOK, s.tracker.Diet.Goals(), err)
}

func (s *server) favoriteFoods(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Diet.FavoriteFoods())
}

func (s *server) addFavoriteFood(w http.ResponseWriter, r *http.Request) {
	var item model.FoodItem
	if err := decodeBody(r, &item); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	saved, added, err := s.tracker.Diet.AddFavoriteFood(r.Context(), item)
	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	s.writeResult(w, status, saved, err)
}

func (s *server) removeFavoriteFood(w http.ResponseWriter, r *http.Request) {
	ok, err := s.tracker.Diet.RemoveFavoriteFood(r.Context(), mux.Vars(r)["id"])
	removed(w, ok, err)
}
