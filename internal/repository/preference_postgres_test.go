package repository

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/uma-arai/capachica-client/internal/common/database"
)

// DB_HOST が設定されている場合のみ実行する
func setupPostgresRepository(t *testing.T) *PostgresPreferenceRepository {
	t.Helper()

	host := os.Getenv("DB_HOST")
	if host == "" {
		t.Skip("DB_HOST is not set, skipping postgres tests")
	}
	port, err := strconv.Atoi(os.Getenv("DB_PORT"))
	if err != nil {
		port = 5432
	}

	conn, err := database.NewDB(database.Config{
		Host:     host,
		Port:     port,
		UserName: envOr("DB_USERNAME", "capachica"),
		Password: envOr("DB_PASSWORD", "password"),
		DBName:   envOr("DB_NAME", "capachica"),
		SSLMode:  os.Getenv("DB_SSL_MODE"),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	repo := NewPostgresPreferenceRepository(NewDB(conn))
	if err := repo.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	return repo
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestPostgresPreferenceRepository(t *testing.T) {
	repo := setupPostgresRepository(t)

	ctx, seg := xray.BeginSegment(context.Background(), "TestPostgresPreferenceRepository")
	defer seg.Close(nil)

	ns := fmt.Sprintf("test-%d", time.Now().UnixNano())
	t.Cleanup(func() { repo.Clear(context.Background(), ns) })

	if err := repo.Put(ctx, ns, map[string]string{"token": "abc", "name": "Ana"}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := repo.Put(ctx, ns, map[string]string{"token": "def"}); err != nil {
		t.Fatalf("Put() upsert error = %v", err)
	}

	tests := []struct {
		key    string
		want   string
		wantOK bool
	}{
		{key: "token", want: "def", wantOK: true},
		{key: "name", want: "Ana", wantOK: true},
		{key: "role", want: "", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok, err := repo.Get(ctx, ns, tt.key)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Get() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}

	if err := repo.Delete(ctx, ns, "name"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := repo.Get(ctx, ns, "name"); ok {
		t.Error("name should be deleted")
	}

	if err := repo.Clear(ctx, ns); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, ok, _ := repo.Get(ctx, ns, "token"); ok {
		t.Error("token should be cleared")
	}
}
