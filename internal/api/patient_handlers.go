package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/dentadmin/backend/internal/crypto"
	"github.com/dentadmin/backend/internal/repo"
)

// patientPayload is the wire shape of a patient. The NISS travels in clear
// over the API (TLS assumed) but is stored encrypted.
type patientPayload struct {
	ID              int    `json:"id,omitempty"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	BirthDate       string `json:"birthDate,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Email           string `json:"email,omitempty"`
	Address         string `json:"address,omitempty"`
	NISS            string `json:"niss,omitempty"`
	Mutuality       string `json:"mutuality,omitempty"`
	InsuranceStatus string `json:"insuranceStatus,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

func (h *Handler) patientFromPayload(in patientPayload) (*repo.Patient, error) {
	p := &repo.Patient{
		ID:        in.ID,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
	}
	if p.FirstName == "" || p.LastName == "" {
		return nil, errors.New("firstName and lastName required")
	}
	setOpt(&p.BirthDate, in.BirthDate)
	setOpt(&p.Phone, in.Phone)
	setOpt(&p.Email, in.Email)
	setOpt(&p.Address, in.Address)
	setOpt(&p.Mutuality, in.Mutuality)
	setOpt(&p.InsuranceStatus, in.InsuranceStatus)
	setOpt(&p.Notes, in.Notes)
	if in.NISS != "" {
		keys, err := crypto.ParseKeysEnv(h.Cfg.DataEncryptionKeys)
		if err != nil {
			return nil, errors.New("encryption keys misconfigured")
		}
		norm := crypto.NormalizeNISS(in.NISS)
		ct, nonce, err := crypto.Encrypt([]byte(norm), h.Cfg.CurrentDataKeyVer, keys)
		if err != nil {
			return nil, err
		}
		enc := base64.StdEncoding.EncodeToString(append(nonce, ct...))
		hash := crypto.NISSHash(norm)
		ver := h.Cfg.CurrentDataKeyVer
		p.NISSEnc, p.NISSKeyVer, p.NISSHash = &enc, &ver, &hash
	}
	return p, nil
}

// decryptNISS recovers the stored national number; empty string when absent
// or undecryptable (old key rotated away).
func (h *Handler) decryptNISS(p *repo.Patient) string {
	if p.NISSEnc == nil || p.NISSKeyVer == nil {
		return ""
	}
	raw, err := base64.StdEncoding.DecodeString(*p.NISSEnc)
	if err != nil || len(raw) < 13 {
		return ""
	}
	keys, err := crypto.ParseKeysEnv(h.Cfg.DataEncryptionKeys)
	if err != nil {
		return ""
	}
	// 12-byte GCM nonce prefix.
	plain, err := crypto.Decrypt(raw[12:], raw[:12], *p.NISSKeyVer, keys)
	if err != nil {
		return ""
	}
	return string(plain)
}

func patientView(p repo.Patient, niss string) patientPayload {
	out := patientPayload{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		NISS:      niss,
	}
	if p.BirthDate != nil {
		out.BirthDate = *p.BirthDate
	}
	if p.Phone != nil {
		out.Phone = *p.Phone
	}
	if p.Email != nil {
		out.Email = *p.Email
	}
	if p.Address != nil {
		out.Address = *p.Address
	}
	if p.Mutuality != nil {
		out.Mutuality = *p.Mutuality
	}
	if p.InsuranceStatus != nil {
		out.InsuranceStatus = *p.InsuranceStatus
	}
	if p.Notes != nil {
		out.Notes = *p.Notes
	}
	return out
}

func setOpt(dst **string, v string) {
	if v != "" {
		s := v
		*dst = &s
	}
}

func (h *Handler) ListPatients(w http.ResponseWriter, r *http.Request) {
	list, err := repo.ListPatients(r.Context(), h.DB, r.URL.Query().Get("search"))
	if err != nil {
		log.Printf("[patients] list: %v", err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	// The listing never exposes the NISS; only the detail view decrypts it.
	out := make([]patientPayload, len(list))
	for i := range list {
		out[i] = patientView(list[i], "")
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func (h *Handler) GetPatient(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["patientId"])
	if err != nil || id <= 0 {
		http.Error(w, `{"error":"invalid id"}`, http.StatusBadRequest)
		return
	}
	p, err := repo.PatientByID(r.Context(), h.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		log.Printf("[patients] get %d: %v", id, err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(patientView(*p, h.decryptNISS(p)))
}

func (h *Handler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var in patientPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
		return
	}
	p, err := h.patientFromPayload(in)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}
	if p.NISSHash != nil {
		if existing, err := repo.PatientByNISSHash(r.Context(), h.DB, *p.NISSHash); err == nil {
			http.Error(w, `{"error":"patient with this NISS already exists (id `+strconv.Itoa(existing.ID)+`)"}`, http.StatusConflict)
			return
		}
	}
	id, err := repo.CreatePatient(r.Context(), h.DB, p)
	if err != nil {
		log.Printf("[patients] create: %v", err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "patientId": id})
}

func (h *Handler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["patientId"])
	if err != nil || id <= 0 {
		http.Error(w, `{"error":"invalid id"}`, http.StatusBadRequest)
		return
	}
	var in patientPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
		return
	}
	in.ID = id
	p, err := h.patientFromPayload(in)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}
	if in.NISS == "" {
		// Keep the stored NISS when the payload omits it.
		if existing, err := repo.PatientByID(r.Context(), h.DB, id); err == nil {
			p.NISSEnc, p.NISSKeyVer, p.NISSHash = existing.NISSEnc, existing.NISSKeyVer, existing.NISSHash
		}
	}
	if err := repo.UpdatePatient(r.Context(), h.DB, p); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		log.Printf("[patients] update %d: %v", id, err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
}

func (h *Handler) DeletePatient(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["patientId"])
	if err != nil || id <= 0 {
		http.Error(w, `{"error":"invalid id"}`, http.StatusBadRequest)
		return
	}
	if err := repo.SoftDeletePatient(r.Context(), h.DB, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		log.Printf("[patients] delete %d: %v", id, err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
}
