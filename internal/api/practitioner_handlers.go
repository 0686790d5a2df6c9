package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/dentadmin/backend/internal/agenda"
	"github.com/dentadmin/backend/internal/repo"
)

const practitionersCacheKey = "practitioners:list"

// practitionerView builds the directory entry: display name, initials from
// the short code, palette color by list index.
func practitionerView(p repo.Practitioner, index int) agenda.Practitioner {
	return agenda.Practitioner{
		ID:        p.ID,
		Name:      "Dr. " + strings.TrimSpace(p.FirstName+" "+p.LastName),
		Initials:  strings.ToUpper(p.ID),
		Color:     agenda.PractitionerColor(index),
		FirstName: p.FirstName,
		LastName:  p.LastName,
	}
}

func (h *Handler) ListPractitioners(w http.ResponseWriter, r *http.Request) {
	if h.Cache != nil {
		if b := h.Cache.Get(practitionersCacheKey); b != nil {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(b)
			return
		}
	}
	list, err := repo.ListPractitioners(r.Context(), h.DB)
	if err != nil {
		log.Printf("[practitioners] list: %v", err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	out := make([]agenda.Practitioner, len(list))
	for i := range list {
		out[i] = practitionerView(list[i], i)
	}
	body, err := json.Marshal(out)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	if h.Cache != nil {
		h.Cache.Set(practitionersCacheKey, body)
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}
