package session

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/google/uuid"
	"github.com/uma-arai/capachica-client/internal/model"
	"github.com/uma-arai/capachica-client/internal/repository"
)

const (
	keyToken          = "token"
	keyName           = "name"
	keyRole           = "role"
	keyEntrepreneurID = "entrepreneur_id"
	keyInstallationID = "installation_id"

	// installationSuffix の名前空間はClearの対象外
	installationSuffix = ".installation"
)

// Store はログイン中のセッション情報を永続化します
// 読み込みに失敗した場合はログを出して既定値を返し、書き込みの失敗はエラーとして返します
type Store struct {
	repo      repository.PreferenceRepository
	namespace string
}

// NewStore は namespace に保存するStoreを作成します
func NewStore(repo repository.PreferenceRepository, namespace string) *Store {
	return &Store{repo: repo, namespace: namespace}
}

// SaveSession はトークン・表示名・ロールをまとめて保存します
func (s *Store) SaveSession(ctx context.Context, token, name string, role model.Role) error {
	ctx, seg := xray.BeginSubsegment(ctx, "SessionStore.SaveSession")
	defer seg.Close(nil)

	err := s.repo.Put(ctx, s.namespace, map[string]string{
		keyToken: token,
		keyName:  name,
		keyRole:  role,
	})
	if err != nil {
		seg.Close(err)
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *Store) SaveToken(ctx context.Context, token string) error {
	return s.put(ctx, keyToken, token)
}

func (s *Store) SaveName(ctx context.Context, name string) error {
	return s.put(ctx, keyName, name)
}

func (s *Store) SaveRole(ctx context.Context, role model.Role) error {
	return s.put(ctx, keyRole, role)
}

// SaveEntrepreneurID は事業者IDを保存します。nilの場合は削除します
func (s *Store) SaveEntrepreneurID(ctx context.Context, id *int) error {
	if id == nil {
		if err := s.repo.Delete(ctx, s.namespace, keyEntrepreneurID); err != nil {
			return fmt.Errorf("failed to delete %s: %w", keyEntrepreneurID, err)
		}
		return nil
	}
	return s.put(ctx, keyEntrepreneurID, strconv.Itoa(*id))
}

// Token は保存されているトークンを返します
// api.TokenSource としてリクエスト組み立て時に毎回呼ばれます
func (s *Store) Token(ctx context.Context) (string, bool) {
	token, ok := s.get(ctx, keyToken)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// Name は表示名を返します。未保存の場合は "Usuario" です
func (s *Store) Name(ctx context.Context) string {
	if name, ok := s.get(ctx, keyName); ok {
		return name
	}
	return model.DefaultSessionName
}

// Role はロールを返します。未保存の場合は "desconocido" です
func (s *Store) Role(ctx context.Context) model.Role {
	if role, ok := s.get(ctx, keyRole); ok {
		return role
	}
	return model.RoleUnknown
}

// EntrepreneurID は事業者IDを返します。未保存の場合は nil です
func (s *Store) EntrepreneurID(ctx context.Context) *int {
	raw, ok := s.get(ctx, keyEntrepreneurID)
	if !ok {
		return nil
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Failed to parse stored entrepreneur id %q: %v", raw, err)
		return nil
	}
	return &id
}

// Session は現在のセッションのスナップショットを返します
func (s *Store) Session(ctx context.Context) model.Session {
	token, _ := s.Token(ctx)
	return model.Session{
		Token:          token,
		Name:           s.Name(ctx),
		Role:           s.Role(ctx),
		EntrepreneurID: s.EntrepreneurID(ctx),
	}
}

// Clear はセッション情報をすべて削除します。インストールIDは残します
func (s *Store) Clear(ctx context.Context) error {
	ctx, seg := xray.BeginSubsegment(ctx, "SessionStore.Clear")
	defer seg.Close(nil)

	if err := s.repo.Clear(ctx, s.namespace); err != nil {
		seg.Close(err)
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// InstallationID はこのインストールを識別するIDを返します
// 初回呼び出し時に生成して保存します
func (s *Store) InstallationID(ctx context.Context) (string, error) {
	ns := s.namespace + installationSuffix
	id, ok, err := s.repo.Get(ctx, ns, keyInstallationID)
	if err != nil {
		return "", fmt.Errorf("failed to read installation id: %w", err)
	}
	if ok && id != "" {
		return id, nil
	}

	id = uuid.NewString()
	if err := s.repo.Put(ctx, ns, map[string]string{keyInstallationID: id}); err != nil {
		return "", fmt.Errorf("failed to save installation id: %w", err)
	}
	return id, nil
}

func (s *Store) put(ctx context.Context, key, value string) error {
	if err := s.repo.Put(ctx, s.namespace, map[string]string{key: value}); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string) (string, bool) {
	value, ok, err := s.repo.Get(ctx, s.namespace, key)
	if err != nil {
		log.Printf("Failed to read %s from session: %v", key, err)
		return "", false
	}
	return value, ok
}
