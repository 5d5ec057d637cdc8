package session

import (
	"context"
	"testing"

	"github.com/uma-arai/capachica-client/internal/common/config"
	"github.com/uma-arai/capachica-client/internal/model"
)

func TestOpen_FileBackend(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{}
	cfg.Session.Backend = config.SessionBackendFile
	cfg.Session.Namespace = "auth"
	cfg.Session.Dir = t.TempDir()

	store, closeFn, err := Open(ctx, cfg)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := store.SaveSession(ctx, "abc", "Ana", model.RoleClient); err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}
	if err := closeFn(); err != nil {
		t.Fatalf("close error = %v", err)
	}

	// 同じディレクトリを開き直しても残っている
	reopened, _, err := Open(ctx, cfg)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if token, ok := reopened.Token(ctx); !ok || token != "abc" {
		t.Errorf("Token() = (%q, %v), want (abc, true)", token, ok)
	}
}
