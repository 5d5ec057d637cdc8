package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/uma-arai/capachica-client/internal/mockapi"
	"github.com/uma-arai/capachica-client/internal/model"
)

// ローカル開発用のバックエンド。データはメモリ上にのみ保持します
func main() {
	addr := flag.String("addr", ":8000", "待ち受けアドレス")
	jwtSecret := flag.String("jwt-secret", os.Getenv("MOCKAPI_JWT_SECRET"), "指定するとトークンをJWTで発行する")
	seed := flag.Bool("seed", true, "サンプルデータを登録する")
	flag.Parse()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AddAllowHeaders("Authorization")

	opts := []mockapi.Option{mockapi.WithMiddleware(gin.Logger(), cors.New(corsConfig))}
	if *jwtSecret != "" {
		opts = append(opts, mockapi.WithJWTSecret([]byte(*jwtSecret)))
	}
	server := mockapi.New(opts...)

	if *seed {
		if err := seedData(server); err != nil {
			log.Fatalf("Failed to seed data: %v", err)
		}
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Mock API listening on %s", *addr)
		errChan <- srv.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Failed to shutdown server: %v", err)
		}
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}
}

func seedData(server *mockapi.Server) error {
	category := server.SeedCategory(model.Category{Name: "Aventura"})
	entrepreneur := server.SeedEntrepreneur(model.Entrepreneur{
		Username:     "ana",
		Email:        "ana@capachica.pe",
		BusinessName: "Kayak Capachica",
		Phone:        "951000000",
		District:     "Capachica",
		Status:       "activo",
	})

	accounts := []mockapi.Account{
		{Name: "Administrador", Email: "admin@capachica.pe", Password: "password", Roles: []string{model.RoleSuperAdmin}},
		{Name: "Ana Quispe", Email: "ana@capachica.pe", Password: "password", Roles: []string{model.RoleEntrepreneur}, EntrepreneurID: &entrepreneur.ID},
		{Name: "Luis Mamani", Email: "luis@capachica.pe", Password: "password", Roles: []string{model.RoleClient}},
	}
	for _, a := range accounts {
		if _, err := server.SeedUser(a); err != nil {
			return err
		}
	}

	server.SeedProduct(model.Product{
		EntrepreneurID: entrepreneur.ID,
		Name:           "Paseo en kayak",
		Description:    "Recorrido por la bahía",
		Price:          50,
		Stock:          10,
		Duration:       "2h",
		CategoryIDs:    []int{category.ID},
	})
	return nil
}
