// Package handler exposes credential login over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"cell-community/backend/internal/identity/service"
	memberdomain "cell-community/backend/internal/member/domain"
)

// AuthService is the credential-verification surface the handler needs.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*memberdomain.Member, error)
}

type Handler struct {
	auth AuthService
}

// NewHandler returns a login HTTP handler backed by auth.
func NewHandler(auth AuthService) *Handler {
	return &Handler{auth: auth}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

type loginMember struct {
	ID     string            `json:"id"`
	Name   string            `json:"nome"`
	Role   memberdomain.Role `json:"tipoUsuario"`
	CellID *string           `json:"idCelula"`
}

// Login handles POST /login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	m, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Credenciais inválidas")
			return
		}
		log.Printf("login: %v", err)
		writeError(w, http.StatusInternalServerError, "Erro ao fazer login")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login bem-sucedido",
		"usuario": loginMember{ID: m.ID, Name: m.FullName, Role: m.Role, CellID: m.CellID},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
