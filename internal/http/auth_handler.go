package http

import (
	"encoding/json"
	"net/http"

	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/auth"
	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/domain"
)

type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type RegisterRequestDTO struct {
	RollNumber string `json:"roll_number"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	Email      string `json:"email"`
}

type LoginRequestDTO struct {
	RollNumber string `json:"roll_number"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
}

type AuthResponseDTO struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.RollNumber == "" || req.Password == "" || req.Name == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "roll_number, password and name are required")
		return
	}

	user, token, err := h.svc.RegisterStudent(r.Context(), req.RollNumber, req.Password, req.Name, req.Email)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, AuthResponseDTO{Token: token, User: user})
}

// Login authenticates students by roll number and staff by email. The role
// field picks the staff collection; absent or "student" it is a student login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Password == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "password is required")
		return
	}

	var (
		user  *domain.User
		token string
		err   error
	)
	switch req.Role {
	case "", string(domain.RoleStudent):
		if req.RollNumber == "" {
			respondError(w, http.StatusBadRequest, "invalid_request", "roll_number is required")
			return
		}
		user, token, err = h.svc.LoginStudent(r.Context(), req.RollNumber, req.Password)
	case string(domain.RoleCrew), string(domain.RoleManagement):
		if req.Email == "" {
			respondError(w, http.StatusBadRequest, "invalid_request", "email is required")
			return
		}
		user, token, err = h.svc.LoginStaff(r.Context(), req.Email, req.Password, domain.Role(req.Role))
	default:
		respondError(w, http.StatusBadRequest, "invalid_role", "role must be student, crew or management")
		return
	}
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, AuthResponseDTO{Token: token, User: user})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	user, err := h.svc.GetUser(r.Context(), claims.UserID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}
