package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/uma-arai/capachica-client/internal/api"
	"github.com/uma-arai/capachica-client/internal/model"
	"github.com/uma-arai/capachica-client/internal/service/session"
)

// ErrMissingToken は成功レスポンスにトークンが含まれていない場合に返されます
// この場合セッションは保存されません
var ErrMissingToken = errors.New("response has no token")

// AuthController はログイン・登録・ログアウトとセッションの保存を行います
type AuthController struct {
	client *api.Client
	store  *session.Store
}

// Login はログインし、成功した場合はセッションを保存します
// roles が空の場合のロールは "cliente" です
// 戻り値のerrorはセッションを保存できなかった場合(トークンなしを含む)に返します
func (c *AuthController) Login(ctx context.Context, req model.LoginRequest) (api.Result[model.LoginResponse], error) {
	res := api.Call[model.LoginResponse](ctx, c.client, api.Auth.Login(req))
	if !res.HasValue() {
		return res, nil
	}
	return res, c.persist(ctx, res.Value, model.RoleClient)
}

// Register は登録し、成功した場合はセッションを保存します
// roles が空の場合のロールは Login と異なり "desconocido" です
func (c *AuthController) Register(ctx context.Context, req model.RegisterRequest) (api.Result[model.LoginResponse], error) {
	req.PasswordConfirmation = req.Password
	res := api.Call[model.LoginResponse](ctx, c.client, api.Auth.Register(req))
	if !res.HasValue() {
		return res, nil
	}
	return res, c.persist(ctx, res.Value, model.RoleUnknown)
}

func (c *AuthController) persist(ctx context.Context, resp model.LoginResponse, fallbackRole model.Role) error {
	// 前のセッションを残したまま成功扱いにしない
	if resp.Token == "" {
		return ErrMissingToken
	}
	if err := c.store.SaveSession(ctx, resp.Token, resp.User.Name, resp.FirstRole(fallbackRole)); err != nil {
		return err
	}
	// 前のセッションの事業者IDを残さないため、ない場合も上書きする
	if err := c.store.SaveEntrepreneurID(ctx, resp.EntrepreneurID); err != nil {
		return fmt.Errorf("failed to save entrepreneur id: %w", err)
	}
	return nil
}

// Profile はログイン中の利用者のプロフィールを取得します
func (c *AuthController) Profile(ctx context.Context) api.Result[model.User] {
	return api.Call[model.User](ctx, c.client, api.Auth.Me())
}

// Logout はサーバーの結果に関係なくセッションを削除します
// 戻り値のboolはサーバー側のログアウトが成功したかどうかです
func (c *AuthController) Logout(ctx context.Context) (bool, error) {
	res := api.Call[api.Empty](ctx, c.client, api.Auth.Logout())
	if err := c.store.Clear(ctx); err != nil {
		return res.OK(), err
	}
	return res.OK(), nil
}

// Token は保存されているトークンを返します
func (c *AuthController) Token(ctx context.Context) (string, bool) {
	return c.store.Token(ctx)
}
