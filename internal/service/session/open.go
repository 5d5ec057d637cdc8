package session

import (
	"context"
	"fmt"

	"github.com/uma-arai/capachica-client/internal/common/config"
	"github.com/uma-arai/capachica-client/internal/common/database"
	"github.com/uma-arai/capachica-client/internal/repository"
)

// Open は設定された保存先(file / postgres)でStoreを作成します
// 戻り値の関数で保存先の接続を閉じます
func Open(ctx context.Context, cfg *config.Config) (*Store, func() error, error) {
	switch cfg.Session.Backend {
	case config.SessionBackendPostgres:
		conn, err := database.NewDB(cfg.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create database connection: %w", err)
		}
		repo := repository.NewPostgresPreferenceRepository(repository.NewDB(conn))
		if err := repo.EnsureSchema(ctx); err != nil {
			conn.Close()
			return nil, nil, err
		}
		return NewStore(repo, cfg.Session.Namespace), conn.Close, nil

	default:
		repo, err := repository.NewFilePreferenceRepository(cfg.Session.Dir)
		if err != nil {
			return nil, nil, err
		}
		return NewStore(repo, cfg.Session.Namespace), func() error { return nil }, nil
	}
}
