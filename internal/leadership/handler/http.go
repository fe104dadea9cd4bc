// Package handler exposes the promote/demote transitions over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"cell-community/backend/internal/leadership/service"
)

// Coordinator is the leadership surface the handler needs.
type Coordinator interface {
	Promote(ctx context.Context, memberID string) error
	Demote(ctx context.Context, memberID string) error
}

type Handler struct {
	coord Coordinator
}

// NewHandler returns a leadership HTTP handler backed by coord.
func NewHandler(coord Coordinator) *Handler {
	return &Handler{coord: coord}
}

// Promote handles PUT /usuarios/{id}/tornar-lider.
func (h *Handler) Promote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.coord.Promote(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrMemberNotFound):
			writeError(w, http.StatusNotFound, "Usuário não encontrado")
		case errors.Is(err, service.ErrAlreadyLeader):
			writeError(w, http.StatusBadRequest, "Usuário já é líder de célula")
		case errors.Is(err, service.ErrNoCell):
			writeError(w, http.StatusBadRequest, "O usuário não está associado a nenhuma célula")
		default:
			log.Printf("promote member %s: %v", id, err)
			writeError(w, http.StatusInternalServerError, "Erro ao promover usuário a líder")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Usuário promovido a líder de célula com sucesso"})
}

// Demote handles PUT /usuarios/{id}/rebaixar-lider.
func (h *Handler) Demote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.coord.Demote(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrLeaderNotFound) {
			writeError(w, http.StatusNotFound, "Líder não encontrado")
			return
		}
		log.Printf("demote member %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Erro ao rebaixar usuário")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Usuário rebaixado para usuário comum com sucesso"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
