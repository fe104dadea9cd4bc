package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cell-community/backend/internal/config"
	"cell-community/backend/internal/db"
	identityhandler "cell-community/backend/internal/identity/handler"
	identityservice "cell-community/backend/internal/identity/service"
	leadershiphandler "cell-community/backend/internal/leadership/handler"
	leadershiprepo "cell-community/backend/internal/leadership/repository"
	leadershipservice "cell-community/backend/internal/leadership/service"
	memberhandler "cell-community/backend/internal/member/handler"
	memberrepo "cell-community/backend/internal/member/repository"
	memberservice "cell-community/backend/internal/member/service"
	"cell-community/backend/internal/security"
	"cell-community/backend/internal/server"
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

	hasher := security.NewHasher(cfg.BcryptCost)

	members := memberrepo.NewPostgresRepository(pool)
	memberSvc := memberservice.NewMemberService(members, hasher)
	coordinator := leadershipservice.NewCoordinator(leadershiprepo.NewPostgresStore(pool))
	authSvc := identityservice.NewAuthService(members, hasher)

	handler := server.New(
		memberhandler.NewHandler(memberSvc),
		leadershiphandler.NewHandler(coordinator),
		identityhandler.NewHandler(authSvc),
	)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}
