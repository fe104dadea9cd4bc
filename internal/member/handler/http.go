// Package handler exposes member operations over HTTP with JSON bodies.
// Wire field names follow the established client contract (Portuguese keys).
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"cell-community/backend/internal/member/domain"
	"cell-community/backend/internal/member/service"
)

// MemberService is the member service surface the handler needs.
type MemberService interface {
	Create(ctx context.Context, m *domain.Member, password string) (string, error)
	Get(ctx context.Context, id string) (*domain.Detail, error)
	List(ctx context.Context) ([]*domain.Detail, error)
	ListRegularByCell(ctx context.Context, cellID string) ([]*domain.Detail, error)
	Update(ctx context.Context, id string, u *domain.Update, password domain.Optional[string]) error
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	svc MemberService
}

// NewHandler returns a member HTTP handler backed by svc.
func NewHandler(svc MemberService) *Handler {
	return &Handler{svc: svc}
}

type createMemberRequest struct {
	FullName      string      `json:"nomeCompleto"`
	BirthDate     string      `json:"dataNascimento"`
	Email         string      `json:"email"`
	Phone         string      `json:"telefone"`
	Password      string      `json:"senhaCadastro"`
	Role          domain.Role `json:"tipoUsuario"`
	Baptized      bool        `json:"concluiuBatismo"`
	WelcomeCoffee bool        `json:"participouCafe"`
	InMinistry    bool        `json:"participaMinisterio"`
	MinistryName  string      `json:"nomeMinisterio"`
	InCell        bool        `json:"participaCelula"`
	CellID        *string     `json:"idCelula"`
	LeaderID      *string     `json:"idLiderCelula"`

	CourseNewPath           bool `json:"cursoMeuNovoCaminho"`
	CourseDevotionalLife    bool `json:"cursoVidaDevocional"`
	CourseChristianFamily   bool `json:"cursoFamiliaCrista"`
	CourseProsperityLife    bool `json:"cursoVidaProsperidade"`
	CourseAuthority         bool `json:"cursoPrincipiosAutoridade"`
	CourseLifeInSpirit      bool `json:"cursoVidaEspirito"`
	CourseCharacterOfChrist bool `json:"cursoCaraterCristo"`
	CourseRestoredIdentity  bool `json:"cursoIdentidadesRestauradas"`
}

type updateMemberRequest struct {
	FullName      domain.Optional[string]      `json:"nomeCompleto"`
	BirthDate     domain.Optional[string]      `json:"dataNascimento"`
	Email         domain.Optional[string]      `json:"email"`
	Phone         domain.Optional[string]      `json:"telefone"`
	Password      domain.Optional[string]      `json:"senhaCadastro"`
	Role          domain.Optional[domain.Role] `json:"tipoUsuario"`
	Baptized      domain.Optional[bool]        `json:"concluiuBatismo"`
	WelcomeCoffee domain.Optional[bool]        `json:"participouCafe"`
	InMinistry    domain.Optional[bool]        `json:"participaMinisterio"`
	MinistryName  domain.Optional[string]      `json:"nomeMinisterio"`
	InCell        domain.Optional[bool]        `json:"participaCelula"`
	CellID        domain.Optional[string]      `json:"idCelula"`
	LeaderID      domain.Optional[string]      `json:"idLiderCelula"`

	CourseNewPath           domain.Optional[bool] `json:"cursoMeuNovoCaminho"`
	CourseDevotionalLife    domain.Optional[bool] `json:"cursoVidaDevocional"`
	CourseChristianFamily   domain.Optional[bool] `json:"cursoFamiliaCrista"`
	CourseProsperityLife    domain.Optional[bool] `json:"cursoVidaProsperidade"`
	CourseAuthority         domain.Optional[bool] `json:"cursoPrincipiosAutoridade"`
	CourseLifeInSpirit      domain.Optional[bool] `json:"cursoVidaEspirito"`
	CourseCharacterOfChrist domain.Optional[bool] `json:"cursoCaraterCristo"`
	CourseRestoredIdentity  domain.Optional[bool] `json:"cursoIdentidadesRestauradas"`
}

// memberResponse is the wire form of a member. The password hash never leaves
// the server.
type memberResponse struct {
	ID            string      `json:"id"`
	FullName      string      `json:"nomeCompleto"`
	BirthDate     string      `json:"dataNascimento"`
	Email         string      `json:"email"`
	Phone         string      `json:"telefone"`
	Role          domain.Role `json:"tipoUsuario"`
	Baptized      bool        `json:"concluiuBatismo"`
	WelcomeCoffee bool        `json:"participouCafe"`
	InMinistry    bool        `json:"participaMinisterio"`
	MinistryName  string      `json:"nomeMinisterio"`
	InCell        bool        `json:"participaCelula"`
	CellID        *string     `json:"idCelula"`
	LeaderID      *string     `json:"idLiderCelula"`
	CellName      *string     `json:"nomeCelula"`
	LeaderName    *string     `json:"nomeLider,omitempty"`

	CourseNewPath           bool `json:"cursoMeuNovoCaminho"`
	CourseDevotionalLife    bool `json:"cursoVidaDevocional"`
	CourseChristianFamily   bool `json:"cursoFamiliaCrista"`
	CourseProsperityLife    bool `json:"cursoVidaProsperidade"`
	CourseAuthority         bool `json:"cursoPrincipiosAutoridade"`
	CourseLifeInSpirit      bool `json:"cursoVidaEspirito"`
	CourseCharacterOfChrist bool `json:"cursoCaraterCristo"`
	CourseRestoredIdentity  bool `json:"cursoIdentidadesRestauradas"`
}

func toMemberResponse(d *domain.Detail) memberResponse {
	return memberResponse{
		ID:            d.ID,
		FullName:      d.FullName,
		BirthDate:     d.BirthDate,
		Email:         d.Email,
		Phone:         d.Phone,
		Role:          d.Role,
		Baptized:      d.Baptized,
		WelcomeCoffee: d.AttendedWelcomeCoffee,
		InMinistry:    d.InMinistry,
		MinistryName:  d.MinistryName,
		InCell:        d.InCell,
		CellID:        d.CellID,
		LeaderID:      d.LeaderID,
		CellName:      d.CellName,
		LeaderName:    d.LeaderName,

		CourseNewPath:           d.Courses.NewPath,
		CourseDevotionalLife:    d.Courses.DevotionalLife,
		CourseChristianFamily:   d.Courses.ChristianFamily,
		CourseProsperityLife:    d.Courses.ProsperityLife,
		CourseAuthority:         d.Courses.Authority,
		CourseLifeInSpirit:      d.Courses.LifeInSpirit,
		CourseCharacterOfChrist: d.Courses.CharacterOfChrist,
		CourseRestoredIdentity:  d.Courses.RestoredIdentity,
	}
}

// List handles GET /usuarios.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		log.Printf("list members: %v", err)
		writeError(w, http.StatusInternalServerError, "Erro ao buscar usuários")
		return
	}
	out := make([]memberResponse, 0, len(list))
	for _, d := range list {
		out = append(out, toMemberResponse(d))
	}
	writeJSON(w, http.StatusOK, out)
}

// ListByCell handles GET /celulas/{idCelula}/usuarios.
func (h *Handler) ListByCell(w http.ResponseWriter, r *http.Request) {
	cellID := chi.URLParam(r, "idCelula")
	list, err := h.svc.ListRegularByCell(r.Context(), cellID)
	if err != nil {
		if errors.Is(err, service.ErrNoCellMembers) {
			writeError(w, http.StatusNotFound, "Nenhum usuário encontrado para esta célula")
			return
		}
		log.Printf("list cell members: %v", err)
		writeError(w, http.StatusInternalServerError, "Erro ao buscar usuários da célula")
		return
	}
	out := make([]memberResponse, 0, len(list))
	for _, d := range list {
		out = append(out, toMemberResponse(d))
	}
	writeJSON(w, http.StatusOK, out)
}

// Get handles GET /usuarios/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	d, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrMemberNotFound) {
			writeError(w, http.StatusNotFound, "Usuário não encontrado")
			return
		}
		log.Printf("get member %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Erro ao buscar usuário")
		return
	}
	writeJSON(w, http.StatusOK, toMemberResponse(d))
}

// Create handles POST /usuarios.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	m := &domain.Member{
		FullName:              req.FullName,
		BirthDate:             req.BirthDate,
		Email:                 req.Email,
		Phone:                 req.Phone,
		Role:                  req.Role,
		Baptized:              req.Baptized,
		AttendedWelcomeCoffee: req.WelcomeCoffee,
		InMinistry:            req.InMinistry,
		MinistryName:          req.MinistryName,
		InCell:                req.InCell,
		CellID:                req.CellID,
		LeaderID:              req.LeaderID,
		Courses: domain.Courses{
			NewPath:           req.CourseNewPath,
			DevotionalLife:    req.CourseDevotionalLife,
			ChristianFamily:   req.CourseChristianFamily,
			ProsperityLife:    req.CourseProsperityLife,
			Authority:         req.CourseAuthority,
			LifeInSpirit:      req.CourseLifeInSpirit,
			CharacterOfChrist: req.CourseCharacterOfChrist,
			RestoredIdentity:  req.CourseRestoredIdentity,
		},
	}
	id, err := h.svc.Create(r.Context(), m, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrPasswordRequired) || errors.Is(err, service.ErrInvalidMember) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("create member: %v", err)
		writeError(w, http.StatusInternalServerError, "Erro ao cadastrar usuário")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Usuário cadastrado com sucesso",
		"id":      id,
	})
}

// Update handles PUT /usuarios/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req updateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	u := &domain.Update{
		FullName:              req.FullName,
		BirthDate:             req.BirthDate,
		Email:                 req.Email,
		Phone:                 req.Phone,
		Role:                  req.Role,
		Baptized:              req.Baptized,
		AttendedWelcomeCoffee: req.WelcomeCoffee,
		InMinistry:            req.InMinistry,
		MinistryName:          req.MinistryName,
		InCell:                req.InCell,
		CellID:                req.CellID,
		LeaderID:              req.LeaderID,
		Courses: domain.CoursesUpdate{
			NewPath:           req.CourseNewPath,
			DevotionalLife:    req.CourseDevotionalLife,
			ChristianFamily:   req.CourseChristianFamily,
			ProsperityLife:    req.CourseProsperityLife,
			Authority:         req.CourseAuthority,
			LifeInSpirit:      req.CourseLifeInSpirit,
			CharacterOfChrist: req.CourseCharacterOfChrist,
			RestoredIdentity:  req.CourseRestoredIdentity,
		},
	}
	if err := h.svc.Update(r.Context(), id, u, req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrMemberNotFound):
			writeError(w, http.StatusNotFound, "Usuário não encontrado")
		case errors.Is(err, service.ErrInvalidMember):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("update member %s: %v", id, err)
			writeError(w, http.StatusInternalServerError, "Erro ao atualizar usuário")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Usuário atualizado com sucesso"})
}

// Delete handles DELETE /usuarios/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrMemberNotFound) {
			writeError(w, http.StatusNotFound, "Usuário não encontrado")
			return
		}
		log.Printf("delete member %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Erro ao deletar usuário")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Usuário deletado com sucesso"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
