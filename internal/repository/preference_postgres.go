package repository

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/jmoiron/sqlx"
)

const preferenceSchema = `
	CREATE TABLE IF NOT EXISTS preferences (
		namespace  TEXT        NOT NULL,
		key        TEXT        NOT NULL,
		value      TEXT        NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (namespace, key)
	)
`

// PostgresPreferenceRepository はpreferencesテーブルに保存します
// バッチなど複数のプロセスで同じセッションを共有する場合に使います
type PostgresPreferenceRepository struct {
	db *DB
}

func NewPostgresPreferenceRepository(db *DB) *PostgresPreferenceRepository {
	return &PostgresPreferenceRepository{db: db}
}

// EnsureSchema はpreferencesテーブルがなければ作成します
func (r *PostgresPreferenceRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, preferenceSchema); err != nil {
		return fmt.Errorf("failed to create preferences table: %w", err)
	}
	return nil
}

func (r *PostgresPreferenceRepository) Get(ctx context.Context, namespace, key string) (string, bool, error) {
	ctx, seg := xray.BeginSubsegment(ctx, "PostgresPreferenceRepository.Get")
	defer seg.Close(nil)

	query := `
		SELECT value
		FROM preferences
		WHERE namespace = $1
		AND key = $2
	`

	rows, err := r.db.QueryxContext(ctx, query, namespace, key)
	if err != nil {
		seg.Close(err)
		return "", false, fmt.Errorf("failed to query preference %s/%s: %w", namespace, key, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			seg.Close(err)
			return "", false, fmt.Errorf("error iterating preference rows: %w", err)
		}
		return "", false, nil
	}

	var value string
	if err := rows.Scan(&value); err != nil {
		seg.Close(err)
		return "", false, fmt.Errorf("failed to scan preference row: %w", err)
	}
	return value, true, nil
}

// Put は1トランザクション内でupsertします
func (r *PostgresPreferenceRepository) Put(ctx context.Context, namespace string, values map[string]string) error {
	ctx, seg := xray.BeginSubsegment(ctx, "PostgresPreferenceRepository.Put")
	defer seg.Close(nil)

	query := `
		INSERT INTO preferences (namespace, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (namespace, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`

	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		seg.Close(err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for key, value := range values {
		if _, err := tx.ExecContext(ctx, query, namespace, key, value); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Printf("rollback failed: %v, original error: %v", rbErr, err)
			}
			seg.Close(err)
			return fmt.Errorf("failed to upsert preference %s/%s: %w", namespace, key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		seg.Close(err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *PostgresPreferenceRepository) Delete(ctx context.Context, namespace string, keys ...string) error {
	ctx, seg := xray.BeginSubsegment(ctx, "PostgresPreferenceRepository.Delete")
	defer seg.Close(nil)

	if len(keys) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`DELETE FROM preferences WHERE namespace = ? AND key IN (?)`, namespace, keys)
	if err != nil {
		seg.Close(err)
		return fmt.Errorf("failed to build delete query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		seg.Close(err)
		return fmt.Errorf("failed to delete preferences in %s: %w", namespace, err)
	}
	return nil
}

func (r *PostgresPreferenceRepository) Clear(ctx context.Context, namespace string) error {
	ctx, seg := xray.BeginSubsegment(ctx, "PostgresPreferenceRepository.Clear")
	defer seg.Close(nil)

	if _, err := r.db.ExecContext(ctx, `DELETE FROM preferences WHERE namespace = $1`, namespace); err != nil {
		seg.Close(err)
		return fmt.Errorf("failed to clear namespace %s: %w", namespace, err)
	}
	return nil
}
