package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/janghjun/healthlog/internal/service"
)

type checkedBody struct {
	Checked bool `json:"checked"`
}

func (s *server) medicationsByDate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Medication.MedicationsByDate(mux.Vars(r)["date"]))
}

func (s *server) addMedication(w http.ResponseWriter, r *http.Request) {
	var in service.MedicationInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	med, err := s.tracker.Medication.AddMedication(r.Context(), mux.Vars(r)["date"], in)
	s.writeResult(w, http.StatusCreated, med, err)
}

func (s *server) updateMedication(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var patch service.MedicationPatch
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	med, found, err := s.tracker.Medication.UpdateMedication(r.Context(), vars["date"], vars["id"], patch)
	if err == nil && !found {
		writeError(w, http.StatusNotFound, errNotFound)
		return
	}
	s.writeResult(w, http.StatusOK, med, err)
}

func (s *server) deleteMedication(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	ok, err := s.tracker.Medication.DeleteMedication(r.Context(), vars["date"], vars["id"])
	removed(w, ok, err)
}

func (s *server) toggleChecked(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	checked, found, err := s.tracker.Medication.ToggleChecked(r.Context(), vars["date"], vars["id"])
	if err == nil && !found {
		writeError(w, http.StatusNotFound, errNotFound)
		return
	}
	s.writeResult(w, http.StatusOK, checkedBody{Checked: checked}, err)
}

func (s *server) medicationAdherence(w http.ResponseWriter, r *http.Request) {
	from, to, err := rangeParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	report, err := s.tracker.Medication.Adherence(from, to)
	s.writeResult(w, http.StatusOK, report, err)
}

func (s *server) medicationPresence(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Medication.RecordPresence())
}

// recommendSupplements uses the symptom query values, or the stored symptoms
// when none are given.
func (s *server) recommendSupplements(w http.ResponseWriter, r *http.Request) {
	symptoms := r.URL.Query()["symptom"]
	if len(symptoms) == 0 {
		symptoms = s.tracker.Medication.Symptoms()
	}
	writeJSON(w, http.StatusOK, service.RecommendSupplements(symptoms))
}
