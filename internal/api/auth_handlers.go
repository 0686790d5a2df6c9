package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/dentadmin/backend/internal/auth"
	"github.com/dentadmin/backend/internal/repo"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

type userView struct {
	ID             string  `json:"id"`
	Email          string  `json:"email"`
	Role           string  `json:"role"`
	PractitionerID *string `json:"practitionerId,omitempty"`
}

// Login checks the credentials against the users table and issues an HS256
// token. Responses for unknown email and wrong password are identical.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Email == "" || in.Password == "" {
		http.Error(w, `{"error":"email and password required"}`, http.StatusBadRequest)
		return
	}
	u, err := repo.UserByEmail(r.Context(), h.Pool, in.Email)
	if err != nil {
		http.Error(w, `{"error":"invalid credentials"}`, http.StatusUnauthorized)
		return
	}
	if !auth.CheckPassword(u.PasswordHash, in.Password) {
		http.Error(w, `{"error":"invalid credentials"}`, http.StatusUnauthorized)
		return
	}
	token, err := auth.BuildJWT(h.Cfg.JWTSecret, u.ID.String(), u.Role, u.PractitionerID, 12*time.Hour)
	if err != nil {
		log.Printf("[auth] sign token: %v", err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(loginResponse{
		Token: token,
		User:  userView{ID: u.ID.String(), Email: u.Email, Role: u.Role, PractitionerID: u.PractitionerID},
	})
}

// ListUsers serves the login directory shown on the login screen.
// Password hashes never leave the repo layer through this endpoint.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	list, err := repo.ListUsers(r.Context(), h.Pool)
	if err != nil {
		log.Printf("[auth] list users: %v", err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	out := make([]userView, len(list))
	for i, u := range list {
		out[i] = userView{ID: u.ID.String(), Email: u.Email, Role: u.Role, PractitionerID: u.PractitionerID}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}
