package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/uma-arai/capachica-client/internal/api"
	"github.com/uma-arai/capachica-client/internal/mockapi"
	"github.com/uma-arai/capachica-client/internal/model"
	"github.com/uma-arai/capachica-client/internal/repository"
	"github.com/uma-arai/capachica-client/internal/service/controller"
	"github.com/uma-arai/capachica-client/internal/service/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestApp(t *testing.T) (*app, *mockapi.Server, *bytes.Buffer) {
	t.Helper()

	server := mockapi.New(mockapi.WithJWTSecret([]byte("secret")))
	srv := httptest.NewServer(server)
	t.Cleanup(srv.Close)

	repo, err := repository.NewFilePreferenceRepository(t.TempDir())
	if err != nil {
		t.Fatalf("NewFilePreferenceRepository() error = %v", err)
	}
	store := session.NewStore(repo, "auth")
	client, err := api.NewClient(api.Config{BaseURL: srv.URL + "/api/", Timeout: 10 * time.Second}, store)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	out := &bytes.Buffer{}
	return &app{client: client, ctrl: controller.New(client, store), store: store, out: out}, server, out
}

func TestApp_LoginAndSession(t *testing.T) {
	ctx := context.Background()
	a, server, out := newTestApp(t)
	if _, err := server.SeedUser(mockapi.Account{Name: "Luis", Email: "l@b.com", Password: "secret", Roles: []string{model.RoleClient}}); err != nil {
		t.Fatalf("SeedUser() error = %v", err)
	}

	if err := a.run(ctx, []string{"login", "-email", "l@b.com", "-password", "secret"}); err != nil {
		t.Fatalf("login error = %v", err)
	}
	out.Reset()

	if err := a.run(ctx, []string{"session"}); err != nil {
		t.Fatalf("session error = %v", err)
	}
	var got struct {
		Name          string `json:"name"`
		Role          string `json:"role"`
		Authenticated bool   `json:"authenticated"`
		Token          string `json:"token"`
		ExpiresAt      string `json:"expires_at"`
		BaseURL        string `json:"base_url"`
		InstallationID string `json:"installation_id"`
	}
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("session output is not JSON: %v\n%s", err, out.String())
	}
	if !got.Authenticated || got.Name != "Luis" || got.Role != model.RoleClient {
		t.Errorf("session = %+v", got)
	}
	if !strings.Contains(got.Token, "*") {
		t.Errorf("token %q is not masked", got.Token)
	}
	if got.ExpiresAt == "" {
		t.Error("expires_at is empty for a JWT session")
	}
	if !strings.HasSuffix(got.BaseURL, "/api/") {
		t.Errorf("base_url = %q, want suffix /api/", got.BaseURL)
	}
	if got.InstallationID == "" {
		t.Error("installation_id is empty")
	}

	// ログアウト後もインストールIDは変わらない
	firstID := got.InstallationID
	if err := a.run(ctx, []string{"logout"}); err != nil {
		t.Fatalf("logout error = %v", err)
	}
	out.Reset()
	if err := a.run(ctx, []string{"session"}); err != nil {
		t.Fatalf("session error = %v", err)
	}
	got.InstallationID = ""
	got.Authenticated = true
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("session output is not JSON: %v", err)
	}
	if got.Authenticated {
		t.Error("authenticated = true after logout")
	}
	if got.InstallationID != firstID {
		t.Errorf("installation_id = %q, want %q", got.InstallationID, firstID)
	}
}

func TestApp_Me(t *testing.T) {
	ctx := context.Background()
	a, server, out := newTestApp(t)
	if _, err := server.SeedUser(mockapi.Account{
		Name:      "Luis",
		Email:     "l@b.com",
		Password:  "secret",
		CreatedAt: time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("SeedUser() error = %v", err)
	}
	if err := a.run(ctx, []string{"login", "-email", "l@b.com", "-password", "secret"}); err != nil {
		t.Fatalf("login error = %v", err)
	}
	out.Reset()

	if err := a.run(ctx, []string{"me"}); err != nil {
		t.Fatalf("me error = %v", err)
	}
	var got struct {
		Email           string `json:"email"`
		RegisteredSince string `json:"registered_since"`
	}
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("me output is not JSON: %v\n%s", err, out.String())
	}
	if got.Email != "l@b.com" || got.RegisteredSince != "2024-03-15" {
		t.Errorf("me = %+v, want l@b.com registered 2024-03-15", got)
	}
}

func TestApp_Errors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		args      []string
		setup     func(s *mockapi.Server)
		wantErr   string
		noRequest bool
	}{
		{name: "未知のコマンド", args: []string{"fly"}, wantErr: "unknown command", noRequest: true},
		{name: "未知のリソース", args: []string{"list", "pets"}, wantErr: "unknown resource", noRequest: true},
		{name: "未対応の操作", args: []string{"delete", "home", "1"}, wantErr: "does not support delete", noRequest: true},
		{name: "不正なID", args: []string{"get", "tours", "abc"}, wantErr: "invalid id", noRequest: true},
		{name: "送信前の検証", args: []string{"login", "-email", "a@b.com"}, wantErr: "password", noRequest: true},
		{name: "JSONなし", args: []string{"create", "categories"}, wantErr: "-json is required", noRequest: true},
		{name: "未ログイン", args: []string{"me"}, wantErr: "Error 401"},
		{
			name: "nullのボディは見つからない扱い",
			args: []string{"get", "associations", "99"},
			setup: func(s *mockapi.Server) {
				s.FailNext(http.MethodGet, "/api/associations/99", http.StatusOK, "null")
			},
			wantErr: "associations 99 no encontrado",
		},
		{
			name: "ログインの変換できないボディ",
			args: []string{"login", "-email", "a@b.com", "-password", "secret"},
			setup: func(s *mockapi.Server) {
				s.FailNext(http.MethodPost, "/api/login", http.StatusOK, "<html></html>")
			},
			wantErr: "respuesta vacía del servidor",
		},
		{
			name: "登録の空のボディ",
			args: []string{"register", "-name", "Luis", "-email", "l@b.com", "-password", "secret"},
			setup: func(s *mockapi.Server) {
				s.FailNext(http.MethodPost, "/api/register", http.StatusOK, "")
			},
			wantErr: "respuesta vacía del servidor",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, server, out := newTestApp(t)
			if tt.setup != nil {
				tt.setup(server)
			}

			err := a.run(ctx, tt.args)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("run(%v) error = %v, want containing %q", tt.args, err, tt.wantErr)
			}
			if out.Len() != 0 {
				t.Errorf("output = %q, want nothing on error", out.String())
			}
			if tt.noRequest && len(server.Requests()) != 0 {
				t.Errorf("requests = %d, want 0", len(server.Requests()))
			}
		})
	}
}

func TestApp_CreateAndReview(t *testing.T) {
	ctx := context.Background()
	a, server, out := newTestApp(t)

	entrepreneurID := 7
	if _, err := server.SeedUser(mockapi.Account{Name: "Ana", Email: "a@b.com", Password: "secret", Roles: []string{model.RoleEntrepreneur}, EntrepreneurID: &entrepreneurID}); err != nil {
		t.Fatalf("SeedUser() error = %v", err)
	}
	if err := a.run(ctx, []string{"login", "-email", "a@b.com", "-password", "secret"}); err != nil {
		t.Fatalf("login error = %v", err)
	}

	out.Reset()
	if err := a.run(ctx, []string{"create", "categories", "-json", `{"name":"Aventura"}`}); err != nil {
		t.Fatalf("create error = %v", err)
	}
	var category model.Category
	if err := json.Unmarshal(out.Bytes(), &category); err != nil || category.Name != "Aventura" {
		t.Fatalf("created category = %+v, err = %v", category, err)
	}

	product := server.SeedProduct(model.Product{EntrepreneurID: entrepreneurID, Name: "Kayak", Price: 50})
	reservation := server.SeedReservation(model.Reservation{Status: model.ReservationPending, Product: &product})
	payment := server.SeedPayment(model.Payment{Status: model.PaymentSent, Reservation: &reservation})

	out.Reset()
	if err := a.run(ctx, []string{"confirm-payment", strconv.Itoa(payment.ID)}); err != nil {
		t.Fatalf("confirm-payment error = %v", err)
	}
	var confirmed model.Payment
	if err := json.Unmarshal(out.Bytes(), &confirmed); err != nil {
		t.Fatalf("output is not a payment: %v", err)
	}
	if confirmed.Status != model.PaymentConfirmed {
		t.Errorf("status = %q, want %q", confirmed.Status, model.PaymentConfirmed)
	}

	// 確認済みの支払いは再度却下できない
	if err := a.run(ctx, []string{"reject-payment", strconv.Itoa(payment.ID)}); err == nil || !strings.Contains(err.Error(), "Error 422") {
		t.Errorf("reject-payment error = %v, want Error 422", err)
	}

	out.Reset()
	if err := a.run(ctx, []string{"summary", "-status", model.PaymentConfirmed}); err != nil {
		t.Fatalf("summary error = %v", err)
	}
	if !strings.Contains(out.String(), `"payments": 1`) {
		t.Errorf("summary = %s, want payments 1", out.String())
	}
}
