// seed inserts development sample data for local testing.
// Idempotent: skips everything if the dev admin (admin@example.com) already exists.
package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	celldomain "cell-community/backend/internal/cell/domain"
	cellrepo "cell-community/backend/internal/cell/repository"
	"cell-community/backend/internal/config"
	"cell-community/backend/internal/db"
	leadershiprepo "cell-community/backend/internal/leadership/repository"
	leadershipservice "cell-community/backend/internal/leadership/service"
	memberdomain "cell-community/backend/internal/member/domain"
	memberrepo "cell-community/backend/internal/member/repository"
	memberservice "cell-community/backend/internal/member/service"
	"cell-community/backend/internal/security"
)

const (
	adminEmail  = "admin@example.com"
	devPassword = "segredo123"
	devCellName = "Célula Central"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	pool, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	ctx := context.Background()
	hasher := security.NewHasher(cfg.BcryptCost)
	members := memberrepo.NewPostgresRepository(pool)
	memberSvc := memberservice.NewMemberService(members, hasher)
	cells := cellrepo.NewPostgresRepository(pool)
	coordinator := leadershipservice.NewCoordinator(leadershiprepo.NewPostgresStore(pool))

	if existing, err := members.GetByEmail(ctx, adminEmail); err != nil {
		log.Fatalf("seed: %v", err)
	} else if existing != nil {
		log.Println("seed: dev data already present, nothing to do")
		return
	}

	cell := &celldomain.Cell{
		ID:        uuid.New().String(),
		Name:      devCellName,
		CreatedAt: time.Now().UTC(),
	}
	if err := cells.Create(ctx, cell); err != nil {
		log.Fatalf("seed cell: %v", err)
	}

	if _, err := memberSvc.Create(ctx, &memberdomain.Member{
		FullName: "Administrador Dev",
		Email:    adminEmail,
		Role:     memberdomain.RoleAdmin,
	}, devPassword); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	leaderID, err := memberSvc.Create(ctx, &memberdomain.Member{
		FullName:  "Líder Dev",
		BirthDate: "1985-03-12",
		Email:     "lider@example.com",
		InCell:    true,
		CellID:    &cell.ID,
	}, devPassword)
	if err != nil {
		log.Fatalf("seed leader: %v", err)
	}

	for _, m := range []memberdomain.Member{
		{FullName: "Membro Um", BirthDate: "1992-07-01", Email: "membro1@example.com", InCell: true, CellID: &cell.ID},
		{FullName: "Membro Dois", BirthDate: "1998-11-23", Email: "membro2@example.com", InCell: true, CellID: &cell.ID},
	} {
		m := m
		if _, err := memberSvc.Create(ctx, &m, devPassword); err != nil {
			log.Fatalf("seed member %s: %v", m.Email, err)
		}
	}

	// Promotion also points the two members above at the new leader.
	if err := coordinator.Promote(ctx, leaderID); err != nil {
		log.Fatalf("seed promote: %v", err)
	}

	log.Println("seed: dev data inserted")
}
