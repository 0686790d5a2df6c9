package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/dentadmin/backend/internal/pdf"
	"github.com/dentadmin/backend/internal/repo"
)

type attestationLinePayload struct {
	Code        string `json:"code"`
	Label       string `json:"label,omitempty"`
	ToothNumber int    `json:"toothNumber,omitempty"`
	FeeCents    int    `json:"feeCents"`
	PerformedOn string `json:"performedOn,omitempty"`
}

type attestationPayload struct {
	ID                int                      `json:"id,omitempty"`
	PatientID         int                      `json:"patientId"`
	PractitionerID    string                   `json:"practitionerId"`
	IssuedOn          string                   `json:"issuedOn,omitempty"`
	PriceMode         string                   `json:"priceMode,omitempty"`
	SendMethod        string                   `json:"sendMethod,omitempty"`
	ThirdPartyPayment bool                     `json:"thirdPartyPayment"`
	TreatmentReason   string                   `json:"treatmentReason,omitempty"`
	TotalCents        int                      `json:"totalCents,omitempty"`
	PatientName       string                   `json:"patientName,omitempty"`
	PractitionerName  string                   `json:"practitionerName,omitempty"`
	Lines             []attestationLinePayload `json:"lines,omitempty"`
}

func attestationView(a repo.Attestation) attestationPayload {
	out := attestationPayload{
		ID:                a.ID,
		PatientID:         a.PatientID,
		PractitionerID:    a.PractitionerID,
		IssuedOn:          a.IssuedOn,
		PriceMode:         a.PriceMode,
		SendMethod:        a.SendMethod,
		ThirdPartyPayment: a.ThirdPartyPayment,
		TotalCents:        a.TotalCents,
		PatientName:       strings.TrimSpace(deref(a.PatientFirstName) + " " + deref(a.PatientLastName)),
		PractitionerName:  "Dr. " + strings.TrimSpace(a.PracFirstName+" "+a.PracLastName),
	}
	if a.TreatmentReason != nil {
		out.TreatmentReason = *a.TreatmentReason
	}
	return out
}

func (h *Handler) ListAttestations(w http.ResponseWriter, r *http.Request) {
	patientID := 0
	if s := r.URL.Query().Get("patientId"); s != "" {
		var err error
		if patientID, err = strconv.Atoi(s); err != nil || patientID <= 0 {
			http.Error(w, `{"error":"invalid patientId"}`, http.StatusBadRequest)
			return
		}
	}
	list, err := repo.ListAttestations(r.Context(), h.DB, patientID)
	if err != nil {
		log.Printf("[attestations] list: %v", err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	out := make([]attestationPayload, len(list))
	for i := range list {
		out[i] = attestationView(list[i])
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func (h *Handler) CreateAttestation(w http.ResponseWriter, r *http.Request) {
	var in attestationPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
		return
	}
	if in.PatientID <= 0 || in.PractitionerID == "" || len(in.Lines) == 0 {
		http.Error(w, `{"error":"patientId, practitionerId and lines required"}`, http.StatusBadRequest)
		return
	}
	a := &repo.Attestation{
		PatientID:         in.PatientID,
		PractitionerID:    in.PractitionerID,
		IssuedOn:          in.IssuedOn,
		PriceMode:         in.PriceMode,
		SendMethod:        in.SendMethod,
		ThirdPartyPayment: in.ThirdPartyPayment,
	}
	if a.PriceMode == "" {
		a.PriceMode = "convention"
	}
	if a.SendMethod == "" {
		a.SendMethod = "efact"
	}
	if a.IssuedOn == "" {
		a.IssuedOn = time.Now().Format("2006-01-02")
	}
	if in.TreatmentReason != "" {
		reason := in.TreatmentReason
		a.TreatmentReason = &reason
	}
	lines := make([]repo.AttestationLine, len(in.Lines))
	for i, l := range in.Lines {
		if l.Code == "" {
			http.Error(w, `{"error":"line code required"}`, http.StatusBadRequest)
			return
		}
		lines[i] = repo.AttestationLine{Code: l.Code, FeeCents: l.FeeCents}
		if l.ToothNumber > 0 {
			n := l.ToothNumber
			lines[i].ToothNumber = &n
		}
		if l.Label != "" {
			lbl := l.Label
			lines[i].Label = &lbl
		}
		if l.PerformedOn != "" {
			d := l.PerformedOn
			lines[i].PerformedOn = &d
		}
	}
	id, err := repo.CreateAttestation(r.Context(), h.DB, a, lines)
	if err != nil {
		log.Printf("[attestations] create: %v", err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "attestationId": id})
}

func (h *Handler) loadAttestationDoc(r *http.Request) (*pdf.AttestationDoc, int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		return nil, http.StatusBadRequest, errors.New("invalid id")
	}
	a, err := repo.AttestationByID(r.Context(), h.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, http.StatusNotFound, errors.New("not found")
		}
		return nil, http.StatusInternalServerError, err
	}
	lines, err := repo.ListAttestationLines(r.Context(), h.DB, id)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	view := attestationView(*a)
	doc := &pdf.AttestationDoc{
		Number:            a.ID,
		IssuedOn:          a.IssuedOn,
		PatientName:       view.PatientName,
		PractitionerName:  view.PractitionerName,
		PriceMode:         a.PriceMode,
		SendMethod:        a.SendMethod,
		ThirdPartyPayment: a.ThirdPartyPayment,
		TreatmentReason:   view.TreatmentReason,
		TotalCents:        a.TotalCents,
		VerificationURL:   h.attestationVerifyURL(a.ID),
	}
	for _, l := range lines {
		dl := pdf.AttestationDocLine{Code: l.Code, FeeCents: l.FeeCents}
		if l.Label != nil {
			dl.Label = *l.Label
		}
		if l.ToothNumber != nil {
			dl.ToothNumber = *l.ToothNumber
		}
		doc.Lines = append(doc.Lines, dl)
	}
	return doc, http.StatusOK, nil
}

func (h *Handler) attestationVerifyURL(id int) string {
	if h.Cfg == nil || h.Cfg.AppPublicURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/attestations/verify/%d", h.Cfg.AppPublicURL, id)
}

// GetAttestationPDF serves the rendered attestation as application/pdf.
func (h *Handler) GetAttestationPDF(w http.ResponseWriter, r *http.Request) {
	doc, status, err := h.loadAttestationDoc(r)
	if err != nil {
		if status == http.StatusInternalServerError {
			log.Printf("[attestations] pdf: %v", err)
			http.Error(w, `{"error":"internal"}`, status)
			return
		}
		http.Error(w, `{"error":"`+err.Error()+`"}`, status)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="attestation-%d.pdf"`, doc.Number))
	if err := pdf.WritePDFTo(*doc, w); err != nil {
		log.Printf("[attestations] render pdf %d: %v", doc.Number, err)
	}
}

// GetAttestationQR serves the verification QR code as a PNG.
func (h *Handler) GetAttestationQR(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		http.Error(w, `{"error":"invalid id"}`, http.StatusBadRequest)
		return
	}
	if _, err := repo.AttestationByID(r.Context(), h.DB, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		log.Printf("[attestations] qr %d: %v", id, err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	url := h.attestationVerifyURL(id)
	if url == "" {
		http.Error(w, `{"error":"public URL not configured"}`, http.StatusServiceUnavailable)
		return
	}
	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		log.Printf("[attestations] qr encode %d: %v", id, err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}
