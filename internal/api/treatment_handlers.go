package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/dentadmin/backend/internal/repo"
)

// toothView is one tooth of the chart response. All 32 teeth are always
// served; teeth without a stored row default to healthy.
type toothView struct {
	Number int    `json:"number"`
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

type treatmentView struct {
	ID        int    `json:"id"`
	Treatment string `json:"treatment"`
	TreatedOn string `json:"treatedOn,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

func (h *Handler) GetTeeth(w http.ResponseWriter, r *http.Request) {
	patientID, err := strconv.Atoi(mux.Vars(r)["patientId"])
	if err != nil || patientID <= 0 {
		http.Error(w, `{"error":"invalid id"}`, http.StatusBadRequest)
		return
	}
	records, err := repo.ListToothRecords(r.Context(), h.DB, patientID)
	if err != nil {
		log.Printf("[teeth] list for patient %d: %v", patientID, err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	byNumber := make(map[int]repo.ToothRecord, len(records))
	for _, rec := range records {
		byNumber[rec.ToothNumber] = rec
	}
	out := make([]toothView, 32)
	for i := range out {
		n := i + 1
		out[i] = toothView{Number: n, Status: repo.ToothHealthy}
		if rec, ok := byNumber[n]; ok {
			out[i].Status = rec.Status
			if rec.Notes != nil {
				out[i].Notes = *rec.Notes
			}
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func (h *Handler) PutTeeth(w http.ResponseWriter, r *http.Request) {
	patientID, err := strconv.Atoi(mux.Vars(r)["patientId"])
	if err != nil || patientID <= 0 {
		http.Error(w, `{"error":"invalid id"}`, http.StatusBadRequest)
		return
	}
	var in []toothView
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
		return
	}
	records := make([]repo.ToothRecord, 0, len(in))
	for _, t := range in {
		if t.Number < 1 || t.Number > 32 {
			http.Error(w, `{"error":"tooth number out of range"}`, http.StatusBadRequest)
			return
		}
		if !repo.ValidToothStatus(t.Status) {
			http.Error(w, `{"error":"invalid tooth status"}`, http.StatusBadRequest)
			return
		}
		rec := repo.ToothRecord{ToothNumber: t.Number, Status: t.Status}
		if t.Notes != "" {
			notes := t.Notes
			rec.Notes = &notes
		}
		records = append(records, rec)
	}
	if err := repo.UpsertToothRecords(r.Context(), h.DB, patientID, records); err != nil {
		log.Printf("[teeth] upsert for patient %d: %v", patientID, err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
}

func (h *Handler) ListToothTreatments(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	patientID, err := strconv.Atoi(vars["patientId"])
	if err != nil || patientID <= 0 {
		http.Error(w, `{"error":"invalid id"}`, http.StatusBadRequest)
		return
	}
	tooth, err := strconv.Atoi(vars["tooth"])
	if err != nil || tooth < 1 || tooth > 32 {
		http.Error(w, `{"error":"tooth number out of range"}`, http.StatusBadRequest)
		return
	}
	list, err := repo.ListToothTreatments(r.Context(), h.DB, patientID, tooth)
	if err != nil {
		log.Printf("[teeth] treatments %d/%d: %v", patientID, tooth, err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	out := make([]treatmentView, len(list))
	for i, t := range list {
		out[i] = treatmentView{ID: t.ID, Treatment: t.Treatment}
		if t.TreatedOn != nil {
			out[i].TreatedOn = *t.TreatedOn
		}
		if t.Notes != nil {
			out[i].Notes = *t.Notes
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func (h *Handler) CreateToothTreatment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	patientID, err := strconv.Atoi(vars["patientId"])
	if err != nil || patientID <= 0 {
		http.Error(w, `{"error":"invalid id"}`, http.StatusBadRequest)
		return
	}
	tooth, err := strconv.Atoi(vars["tooth"])
	if err != nil || tooth < 1 || tooth > 32 {
		http.Error(w, `{"error":"tooth number out of range"}`, http.StatusBadRequest)
		return
	}
	var in treatmentView
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Treatment == "" {
		http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
		return
	}
	t := &repo.ToothTreatment{PatientID: patientID, ToothNumber: tooth, Treatment: in.Treatment}
	if in.TreatedOn != "" {
		d := in.TreatedOn
		t.TreatedOn = &d
	}
	if in.Notes != "" {
		n := in.Notes
		t.Notes = &n
	}
	id, err := repo.CreateToothTreatment(r.Context(), h.DB, t)
	if err != nil {
		log.Printf("[teeth] create treatment %d/%d: %v", patientID, tooth, err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "treatmentId": id})
}
