package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/dentadmin/backend/internal/agenda"
	"github.com/dentadmin/backend/internal/repo"
)

// defaultAgendaDate is served when the date query param is absent.
const defaultAgendaDate = "2023-03-17"

// projectAppointment turns a stored row into the display projection of
// GET /api/appointments. Status and color are derived server-side so every
// client renders the same grid.
func projectAppointment(a repo.Appointment, now time.Time) agenda.Appointment {
	out := agenda.Appointment{
		ID:             a.ID,
		Time:           a.StartAt.Format("15:04"),
		Duration:       a.DurationMin,
		Patient:        agenda.UnknownPatient,
		PractitionerID: a.PractitionerID,
		HasDocument:    a.HasDocument,
		StartDateTime:  a.StartAt.Format(time.RFC3339),
		EndDateTime:    a.EndAt.Format(time.RFC3339),
	}
	if a.PatientFirstName != nil || a.PatientLastName != nil {
		out.Patient = strings.TrimSpace(deref(a.PatientFirstName) + " " + deref(a.PatientLastName))
	}
	if out.Patient == "" {
		out.Patient = agenda.UnknownPatient
	}
	if a.PatientID != nil {
		out.PatientID = *a.PatientID
	}
	out.Type = deref(a.Type)
	out.Color = agenda.ColorForType(out.Type)
	out.Notes = deref(a.Notes)
	out.HasPhone = a.PatientPhone != nil && *a.PatientPhone != ""
	out.CancelReason = deref(a.CancelReason)
	out.Status = agenda.DeriveStatus(a.Cancelled, out.CancelReason, a.StartAt, now)
	out.PractitionerName = "Dr. " + strings.TrimSpace(a.PracFirstName+" "+a.PracLastName)
	out.PractitionerCode = strings.ToUpper(a.PractitionerID)
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		dateStr = defaultAgendaDate
	}
	day, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		http.Error(w, `{"error":"invalid date"}`, http.StatusBadRequest)
		return
	}
	q := repo.AppointmentQuery{
		Day:           day,
		PatientSearch: r.URL.Query().Get("patientSearch"),
		Status:        r.URL.Query().Get("status"),
	}
	if ids := r.URL.Query().Get("practitionerId"); ids != "" {
		q.PractitionerIDs = strings.Split(ids, ",")
	}
	list, err := repo.ListAppointments(r.Context(), h.DB, q)
	if err != nil {
		log.Printf("[appointments] list: %v", err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	now := time.Now()
	out := make([]agenda.Appointment, len(list))
	for i := range list {
		out[i] = projectAppointment(list[i], now)
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

// appointmentRow maps the write payload (the same shape the list serves)
// onto a storable row.
func appointmentRow(in agenda.Appointment) (*repo.Appointment, error) {
	start, err := time.Parse(time.RFC3339, in.StartDateTime)
	if err != nil {
		return nil, errors.New("invalid startDateTime")
	}
	end := start.Add(time.Duration(in.Duration) * time.Minute)
	if in.EndDateTime != "" {
		if end, err = time.Parse(time.RFC3339, in.EndDateTime); err != nil {
			return nil, errors.New("invalid endDateTime")
		}
	}
	duration := in.Duration
	if duration <= 0 {
		duration = int(end.Sub(start) / time.Minute)
	}
	a := &repo.Appointment{
		ID:             in.ID,
		PractitionerID: in.PractitionerID,
		StartAt:        start,
		EndAt:          end,
		DurationMin:    duration,
		HasDocument:    in.HasDocument,
		Cancelled:      in.Status == agenda.StatusCancelled,
	}
	if in.PractitionerID == "" {
		return nil, errors.New("practitionerId required")
	}
	if in.PatientID > 0 {
		id := in.PatientID
		a.PatientID = &id
	}
	if in.Type != "" {
		t := in.Type
		a.Type = &t
	}
	if in.Notes != "" {
		n := in.Notes
		a.Notes = &n
	}
	if in.CancelReason != "" {
		cr := in.CancelReason
		a.CancelReason = &cr
	}
	return a, nil
}

func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var in agenda.Appointment
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
		return
	}
	row, err := appointmentRow(in)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}
	id, err := repo.CreateAppointment(r.Context(), h.DB, row)
	if err != nil {
		log.Printf("[appointments] create: %v", err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "appointmentId": id})
}

// UpdateAppointment replaces the full row: the payload is authoritative,
// last write wins, no concurrency token.
func (h *Handler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	var in agenda.Appointment
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
		return
	}
	if in.ID <= 0 {
		http.Error(w, `{"error":"id required"}`, http.StatusBadRequest)
		return
	}
	row, err := appointmentRow(in)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}
	if err := repo.UpdateAppointment(r.Context(), h.DB, row); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		log.Printf("[appointments] update %d: %v", in.ID, err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
}

func (h *Handler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || id <= 0 {
		http.Error(w, `{"error":"invalid id"}`, http.StatusBadRequest)
		return
	}
	if err := repo.SoftDeleteAppointment(r.Context(), h.DB, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		log.Printf("[appointments] delete %d: %v", id, err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
}
