package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"cell-community/backend/internal/member/domain"
	"cell-community/backend/internal/security"
)

type memMemberRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.Member
	cellNames map[string]string
	deleted   []string
}

func newMemMemberRepo() *memMemberRepo {
	return &memMemberRepo{
		byID:      map[string]*domain.Member{},
		cellNames: map[string]string{},
	}
}

func (r *memMemberRepo) Create(ctx context.Context, m *domain.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *m
	r.byID[m.ID] = &cp
	return nil
}

func (r *memMemberRepo) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id], nil
}

func (r *memMemberRepo) GetByEmail(ctx context.Context, email string) (*domain.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.byID {
		if m.Email == email {
			return m, nil
		}
	}
	return nil, nil
}

func (r *memMemberRepo) detail(m *domain.Member) *domain.Detail {
	d := &domain.Detail{Member: *m}
	if m.CellID != nil {
		if name, ok := r.cellNames[*m.CellID]; ok {
			d.CellName = &name
		}
	}
	if m.LeaderID != nil {
		if l, ok := r.byID[*m.LeaderID]; ok {
			d.LeaderName = &l.FullName
		}
	}
	return d
}

func (r *memMemberRepo) GetDetail(ctx context.Context, id string) (*domain.Detail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return r.detail(m), nil
}

func (r *memMemberRepo) ListDetails(ctx context.Context) ([]*domain.Detail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Detail
	for _, m := range r.byID {
		out = append(out, r.detail(m))
	}
	return out, nil
}

func (r *memMemberRepo) ListRegularByCell(ctx context.Context, cellID string) ([]*domain.Detail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Detail
	for _, m := range r.byID {
		if m.Role == domain.RoleRegularMember && m.CellID != nil && *m.CellID == cellID {
			out = append(out, r.detail(m))
		}
	}
	return out, nil
}

func (r *memMemberRepo) Update(ctx context.Context, id string, u *domain.Update) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byID[id]
	if !ok {
		return false, nil
	}
	applyString := func(dst *string, o domain.Optional[string]) {
		if o.Present {
			if o.Valid {
				*dst = o.Value
			} else {
				*dst = ""
			}
		}
	}
	applyString(&m.FullName, u.FullName)
	applyString(&m.Email, u.Email)
	applyString(&m.Phone, u.Phone)
	applyString(&m.PasswordHash, u.PasswordHash)
	applyString(&m.BirthDate, u.BirthDate)
	if u.Role.Present && u.Role.Valid {
		m.Role = u.Role.Value
	}
	if u.CellID.Present {
		if u.CellID.Valid {
			v := u.CellID.Value
			m.CellID = &v
		} else {
			m.CellID = nil
		}
	}
	return true, nil
}

func (r *memMemberRepo) DeleteWithReferences(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return false, nil
	}
	delete(r.byID, id)
	r.deleted = append(r.deleted, id)
	return true, nil
}

func newTestService() (*MemberService, *memMemberRepo, *security.Hasher) {
	repo := newMemMemberRepo()
	hasher := security.NewHasher(bcrypt.MinCost)
	return NewMemberService(repo, hasher), repo, hasher
}

func TestCreateHashesPassword(t *testing.T) {
	svc, repo, hasher := newTestService()

	id, err := svc.Create(context.Background(), &domain.Member{
		FullName: "Maria Silva",
		Email:    "Maria@Example.com",
	}, "senha-secreta")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	m := repo.byID[id]
	if m == nil {
		t.Fatal("member not persisted")
	}
	if m.Email != "maria@example.com" {
		t.Errorf("email should be normalized, got %q", m.Email)
	}
	if m.PasswordHash == "senha-secreta" || m.PasswordHash == "" {
		t.Fatal("password must be stored hashed")
	}
	if err := hasher.Compare(m.PasswordHash, []byte("senha-secreta")); err != nil {
		t.Errorf("stored hash should verify the original password: %v", err)
	}
	if m.Role != domain.RoleRegularMember {
		t.Errorf("role should default to %s, got %s", domain.RoleRegularMember, m.Role)
	}
}

func TestCreateRequiresPassword(t *testing.T) {
	svc, repo, _ := newTestService()

	for _, password := range []string{"", "   "} {
		_, err := svc.Create(context.Background(), &domain.Member{
			FullName: "Sem Senha",
			Email:    "sem@example.com",
		}, password)
		if !errors.Is(err, ErrPasswordRequired) {
			t.Errorf("Create with password %q: got %v, want ErrPasswordRequired", password, err)
		}
	}
	if len(repo.byID) != 0 {
		t.Error("nothing should be persisted on validation failure")
	}
}

func TestCreateRejectsInvalidMember(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.Create(context.Background(), &domain.Member{Email: "x@example.com"}, "senha")
	if !errors.Is(err, ErrInvalidMember) {
		t.Errorf("got %v, want ErrInvalidMember", err)
	}
}

func TestGetNotFound(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.Get(context.Background(), "nope"); !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("got %v, want ErrMemberNotFound", err)
	}
}

func TestListRegularByCellEmptyIsReportable(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.ListRegularByCell(context.Background(), "cell-1"); !errors.Is(err, ErrNoCellMembers) {
		t.Errorf("got %v, want ErrNoCellMembers", err)
	}
}

func TestUpdatePasswordHandling(t *testing.T) {
	svc, repo, hasher := newTestService()
	ctx := context.Background()

	id, err := svc.Create(ctx, &domain.Member{FullName: "A", Email: "a@example.com"}, "original")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	originalHash := repo.byID[id].PasswordHash

	// Omitted password leaves the hash untouched.
	if err := svc.Update(ctx, id, &domain.Update{Phone: domain.Some("1199999")}, domain.Optional[string]{}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if repo.byID[id].PasswordHash != originalHash {
		t.Error("omitted password must not change the stored hash")
	}
	if repo.byID[id].Phone != "1199999" {
		t.Error("supplied field should be applied")
	}

	// Explicit null password also leaves the hash untouched.
	if err := svc.Update(ctx, id, &domain.Update{}, domain.Null[string]()); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if repo.byID[id].PasswordHash != originalHash {
		t.Error("null password must not change the stored hash")
	}

	// A new password replaces the hash.
	if err := svc.Update(ctx, id, &domain.Update{}, domain.Some("nova-senha")); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if repo.byID[id].PasswordHash == originalHash {
		t.Fatal("new password should replace the stored hash")
	}
	if err := hasher.Compare(repo.byID[id].PasswordHash, []byte("nova-senha")); err != nil {
		t.Errorf("new hash should verify the new password: %v", err)
	}
}

func TestUpdateNormalizesEmail(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	id, err := svc.Create(ctx, &domain.Member{FullName: "Ana", Email: "ana@example.com"}, "senha")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	u := &domain.Update{Email: domain.Some("  Ana.Nova@Example.com ")}
	if err := svc.Update(ctx, id, u, domain.Optional[string]{}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if got := repo.byID[id].Email; got != "ana.nova@example.com" {
		t.Errorf("stored email = %q, want ana.nova@example.com", got)
	}
	// Login resolves members by the lowercased address; the updated member
	// must still be reachable that way.
	m, err := repo.GetByEmail(ctx, "ana.nova@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if m == nil || m.ID != id {
		t.Error("member should be found by the normalized address after an email update")
	}
}

func TestUpdateUnknownRole(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	id, _ := svc.Create(ctx, &domain.Member{FullName: "A", Email: "a@example.com"}, "senha")

	err := svc.Update(ctx, id, &domain.Update{Role: domain.Some(domain.Role("Visitante"))}, domain.Optional[string]{})
	if !errors.Is(err, ErrInvalidMember) {
		t.Errorf("got %v, want ErrInvalidMember", err)
	}
}

func TestUpdateNotFound(t *testing.T) {
	svc, _, _ := newTestService()
	err := svc.Update(context.Background(), "nope", &domain.Update{Phone: domain.Some("11")}, domain.Optional[string]{})
	if !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("got %v, want ErrMemberNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()
	id, _ := svc.Create(ctx, &domain.Member{FullName: "A", Email: "a@example.com"}, "senha")

	if err := svc.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != id {
		t.Error("delete should go through the reference cascade")
	}
	if _, err := svc.Get(ctx, id); !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("Get after delete: got %v, want ErrMemberNotFound", err)
	}
	if err := svc.Delete(ctx, id); !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("second Delete: got %v, want ErrMemberNotFound", err)
	}
}
