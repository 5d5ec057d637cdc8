package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aws/aws-xray-sdk-go/xray"
)

// FilePreferenceRepository は名前空間ごとに1つのJSONファイルへ保存します
// 書き込みは一時ファイルへ書いてからrenameするため、途中で落ちても壊れたファイルは残りません
type FilePreferenceRepository struct {
	dir string
	mu  sync.RWMutex
}

// NewFilePreferenceRepository は保存先ディレクトリを作成して返します
func NewFilePreferenceRepository(dir string) (*FilePreferenceRepository, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create preference directory: %w", err)
	}
	return &FilePreferenceRepository{dir: dir}, nil
}

func (r *FilePreferenceRepository) Get(ctx context.Context, namespace, key string) (string, bool, error) {
	_, seg := xray.BeginSubsegment(ctx, "FilePreferenceRepository.Get")
	defer seg.Close(nil)

	r.mu.RLock()
	defer r.mu.RUnlock()

	values, err := r.load(namespace)
	if err != nil {
		seg.Close(err)
		return "", false, err
	}
	value, ok := values[key]
	return value, ok, nil
}

func (r *FilePreferenceRepository) Put(ctx context.Context, namespace string, values map[string]string) error {
	_, seg := xray.BeginSubsegment(ctx, "FilePreferenceRepository.Put")
	defer seg.Close(nil)

	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.load(namespace)
	if err != nil {
		seg.Close(err)
		return err
	}
	for k, v := range values {
		current[k] = v
	}
	if err := r.store(namespace, current); err != nil {
		seg.Close(err)
		return err
	}
	return nil
}

func (r *FilePreferenceRepository) Delete(ctx context.Context, namespace string, keys ...string) error {
	_, seg := xray.BeginSubsegment(ctx, "FilePreferenceRepository.Delete")
	defer seg.Close(nil)

	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.load(namespace)
	if err != nil {
		seg.Close(err)
		return err
	}
	for _, k := range keys {
		delete(current, k)
	}
	if err := r.store(namespace, current); err != nil {
		seg.Close(err)
		return err
	}
	return nil
}

func (r *FilePreferenceRepository) Clear(ctx context.Context, namespace string) error {
	_, seg := xray.BeginSubsegment(ctx, "FilePreferenceRepository.Clear")
	defer seg.Close(nil)

	path, err := r.path(namespace)
	if err != nil {
		seg.Close(err)
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		seg.Close(err)
		return fmt.Errorf("failed to clear namespace %s: %w", namespace, err)
	}
	return nil
}

func (r *FilePreferenceRepository) path(namespace string) (string, error) {
	if namespace == "" || namespace == "." || namespace == ".." || strings.ContainsAny(namespace, `/\`) {
		return "", fmt.Errorf("invalid namespace %q", namespace)
	}
	return filepath.Join(r.dir, namespace+".json"), nil
}

// 呼び出し側でロックを取得していること
func (r *FilePreferenceRepository) load(namespace string) (map[string]string, error) {
	path, err := r.path(namespace)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read namespace %s: %w", namespace, err)
	}

	values := map[string]string{}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to decode namespace %s: %w", namespace, err)
	}
	return values, nil
}

// 呼び出し側で書き込みロックを取得していること
func (r *FilePreferenceRepository) store(namespace string, values map[string]string) error {
	path, err := r.path(namespace)
	if err != nil {
		return err
	}

	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to encode namespace %s: %w", namespace, err)
	}

	tmp, err := os.CreateTemp(r.dir, namespace+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write namespace %s: %w", namespace, err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace namespace %s: %w", namespace, err)
	}
	return nil
}
